package bybit

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bybitconn/pkg/core"
)

func TestSignRequest_TestVector(t *testing.T) {
	p := NewProtocol(core.ContractInverse)
	req, err := p.BuildRequest(core.OpMyPosition, core.Params{"symbol": "BTCUSD"})
	require.NoError(t, err)

	creds := &core.Credentials{APIKey: "test", SecretKey: "test"}
	require.NoError(t, p.SignRequest(req, creds, 5000, time.UnixMilli(1620000000000)))

	assert.Equal(t, "api_key=test&recv_window=5000&symbol=BTCUSD&timestamp=1620000000000",
		CanonicalString(req.Params))
	assert.Equal(t, "ea4e43103a81f83d3a6f40175a3c8d214bb8543436e85c95c77c3d1c7304afe7", req.Params["sign"])
}

func TestCanonicalString(t *testing.T) {
	params := core.Params{
		"symbol":        "BTCUSDT",
		"reduce_only":   false,
		"qty":           int64(2),
		"price":         json.Number("9500.5"),
		"sign":          "ignored",
		"order_link_id": nil,
	}

	assert.Equal(t, "price=9500.5&qty=2&reduce_only=false&symbol=BTCUSDT", CanonicalString(params))
}

func TestWebsocketAuthArgs(t *testing.T) {
	args := websocketAuthArgs(&core.Credentials{APIKey: "key", SecretKey: "secret"}, time.UnixMilli(1620000000000))

	require.Len(t, args, 3)
	assert.Equal(t, "key", args[0])
	assert.Equal(t, int64(1620000001000), args[1])
	assert.Equal(t, "5d4766a3ac3002ab8837a2add9be64453f13381ba6379b590284083e55f2371d", args[2])
}

func TestProtocol_BuildRequest(t *testing.T) {
	tests := []struct {
		name      string
		contract  core.ContractType
		op        core.Operation
		params    core.Params
		method    string
		path      string
		auth      bool
		inQuery   bool
		wantParam map[string]any
	}{
		{
			name:     "inverse_orderbook",
			contract: core.ContractInverse,
			op:       core.OpOrderbook,
			params:   core.Params{"symbol": "BTCUSD"},
			method:   http.MethodGet,
			path:     "/v2/public/orderBook/L2",
		},
		{
			name:     "linear_place_order",
			contract: core.ContractLinear,
			op:       core.OpPlaceActiveOrder,
			params: core.Params{
				"symbol": "BTCUSDT", "side": "Buy", "order_type": "Market",
				"qty": 1.0, "time_in_force": "GoodTillCancel",
			},
			method:    http.MethodPost,
			path:      "/private/linear/order/create",
			auth:      true,
			wantParam: map[string]any{"qty": int64(1)},
		},
		{
			name:      "linear_kline_alias",
			contract:  core.ContractLinear,
			op:        core.OpQueryKline,
			params:    core.Params{"symbol": "BTCUSDT", "interval": "1", "from_time": 1581231260},
			method:    http.MethodGet,
			path:      "/public/linear/kline",
			wantParam: map[string]any{"from": 1581231260},
		},
		{
			name:      "trading_records_alias",
			contract:  core.ContractInverse,
			op:        core.OpPublicTradingRecords,
			params:    core.Params{"symbol": "BTCUSD", "from_id": 100},
			method:    http.MethodGet,
			path:      "/v2/public/trading-records",
			wantParam: map[string]any{"from": 100},
		},
		{
			name:     "spot_cancel_is_delete_in_query",
			contract: core.ContractSpot,
			op:       core.OpCancelActiveOrder,
			params:   core.Params{"orderId": "889208273689997824"},
			method:   http.MethodDelete,
			path:     "/spot/v1/order",
			auth:     true,
			inQuery:  true,
		},
		{
			name:     "futures_shared_switch_mode",
			contract: core.ContractFutures,
			op:       core.OpCrossIsolatedMarginSwitch,
			params:   core.Params{"symbol": "BTCUSDM22"},
			method:   http.MethodPost,
			path:     "/futures/private/position/switch-mode",
			auth:     true,
		},
		{
			name:     "asset_without_contract",
			contract: core.ContractNone,
			op:       core.OpQueryTransferList,
			method:   http.MethodGet,
			path:     "/asset/v1/private/transfer/list",
			auth:     true,
		},
		{
			name:     "linear_add_margin_is_get",
			contract: core.ContractLinear,
			op:       core.OpAddReduceMargin,
			params:   core.Params{"symbol": "BTCUSDT", "side": "Buy", "margin": 10},
			method:   http.MethodGet,
			path:     "/private/linear/position/add-margin",
			auth:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewProtocol(tt.contract).BuildRequest(tt.op, tt.params)
			require.NoError(t, err)

			assert.Equal(t, tt.op, req.Operation)
			assert.Equal(t, tt.method, req.Method)
			assert.Equal(t, tt.path, req.Path)
			assert.Equal(t, tt.auth, req.RequireAuth)
			assert.Equal(t, tt.inQuery, req.ParamsInQuery)
			for k, v := range tt.wantParam {
				assert.Equal(t, v, req.Params[k], "param %s", k)
			}
			assert.NotContains(t, req.Params, "from_time")
			assert.NotContains(t, req.Params, "from_id")
		})
	}
}

func TestProtocol_BuildRequest_Errors(t *testing.T) {
	t.Run("missing_symbol", func(t *testing.T) {
		_, err := NewProtocol(core.ContractInverse).BuildRequest(core.OpOrderbook, nil)
		assert.True(t, core.IsUsageError(err))
		assert.ErrorIs(t, err, core.ErrMissingParameter)
	})

	t.Run("nil_counts_as_missing", func(t *testing.T) {
		_, err := NewProtocol(core.ContractInverse).BuildRequest(core.OpOrderbook, core.Params{"symbol": nil})
		assert.ErrorIs(t, err, core.ErrMissingParameter)
	})

	t.Run("unsupported_for_contract", func(t *testing.T) {
		_, err := NewProtocol(core.ContractSpot).BuildRequest(core.OpMyPosition, nil)
		assert.True(t, core.IsUsageError(err))
		assert.ErrorIs(t, err, core.ErrUnsupportedOperation)
	})

	t.Run("futures_have_no_funding", func(t *testing.T) {
		assert.False(t, NewProtocol(core.ContractFutures).Supports(core.OpPredictedFundingRate))
	})
}

func TestProtocol_NormalizesValues(t *testing.T) {
	price, err := core.NewDecimal("9500.50")
	require.NoError(t, err)

	req, err := NewProtocol(core.ContractLinear).BuildRequest(core.OpReplaceActiveOrder, core.Params{
		"symbol":    "BTCUSDT",
		"p_r_qty":   2.5,
		"p_r_price": price,
		"side":      core.SideSell,
	})
	require.NoError(t, err)

	assert.Equal(t, 2.5, req.Params["p_r_qty"])
	assert.Equal(t, json.Number("9500.5"), req.Params["p_r_price"])
	assert.Equal(t, "Sell", req.Params["side"])
}

func TestEndpoints_AssetOnEveryContract(t *testing.T) {
	for _, c := range []core.ContractType{core.ContractNone, core.ContractLinear, core.ContractInverse, core.ContractFutures, core.ContractSpot} {
		eps := Endpoints(c)
		ep, ok := eps[core.OpCreateInternalTransfer]
		require.True(t, ok, "contract %s", c)
		assert.Equal(t, "/asset/v1/private/transfer", ep.Path)
		assert.True(t, ep.Auth)
	}
	assert.Len(t, Endpoints(core.ContractNone), 5)
}

func TestEndpoints_AuthClassification(t *testing.T) {
	linear := Endpoints(core.ContractLinear)

	assert.False(t, linear[core.OpOrderbook].Auth)
	assert.False(t, linear[core.OpGetTheLastFundingRate].Auth)
	assert.False(t, linear[core.OpServerTime].Auth)
	assert.True(t, linear[core.OpGetRiskLimit].Auth)
	assert.True(t, linear[core.OpMyLastFundingFee].Auth)
	assert.True(t, linear[core.OpAPIKeyInfo].Auth)
	assert.True(t, linear[core.OpGetWalletBalance].Auth)
}

func TestProtocol_ParseResponse(t *testing.T) {
	p := NewProtocol(core.ContractInverse)
	req := core.NewRequest(http.MethodGet, "/v2/public/orderBook/L2").SetParam("symbol", "BTCUSD")

	t.Run("ok", func(t *testing.T) {
		resp, err := p.ParseResponse(req, 200, []byte(`{"ret_code":0,"ret_msg":"OK","ext_code":"","ext_info":"","result":[{"price":"9487","side":"Buy"}],"time_now":"1577444332.192859"}`))
		require.NoError(t, err)
		assert.True(t, resp.OK())
		assert.Equal(t, "1577444332.192859", resp.TimeNow)
	})

	t.Run("api_error", func(t *testing.T) {
		resp, err := p.ParseResponse(req, 200, []byte(`{"ret_code":10001,"ret_msg":"params error"}`))
		require.NotNil(t, resp)
		var e *core.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, core.ErrorTypeAPI, e.Type)
		assert.Equal(t, 10001, e.Code)
		assert.Equal(t, 200, e.StatusCode)
		assert.Equal(t, "params error", e.Message)
		assert.Equal(t, "GET /v2/public/orderBook/L2: {symbol: BTCUSD}", e.Request)
	})

	t.Run("rate_limit_code", func(t *testing.T) {
		_, err := p.ParseResponse(req, 200, []byte(`{"ret_code":10006,"ret_msg":"too many visits"}`))
		assert.True(t, core.IsRateLimitError(err))
	})

	t.Run("not_json", func(t *testing.T) {
		_, err := p.ParseResponse(req, 502, []byte(`<html>502</html>`))
		var e *core.Error
		require.ErrorAs(t, err, &e)
		assert.Equal(t, core.ErrorTypeProtocol, e.Type)
		assert.Equal(t, 502, e.StatusCode)
	})

	t.Run("non_2xx_without_code", func(t *testing.T) {
		_, err := p.ParseResponse(req, 403, []byte(`{}`))
		assert.True(t, core.IsProtocolError(err))
	})

	t.Run("non_2xx_with_code", func(t *testing.T) {
		_, err := p.ParseResponse(req, 403, []byte(`{"ret_code":10005,"ret_msg":"permission denied"}`))
		assert.True(t, core.IsAuthenticationError(err))
		assert.True(t, core.IsAPIError(err))
	})
}
