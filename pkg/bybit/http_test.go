package bybit

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bybitconn/pkg/core"
)

var fixedNow = time.UnixMilli(1620000000000)

func newTestHTTP(t *testing.T, contract core.ContractType, handler http.HandlerFunc, creds bool) *HTTP {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := core.DefaultConfig(contract).WithEndpoint(server.URL)
	if creds {
		config.WithCredentials("key", "secret")
	}
	client, err := NewHTTP(config, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

// decodeBody keeps numbers as json.Number so the canonical string can be rebuilt.
func decodeBody(t *testing.T, r *http.Request) core.Params {
	t.Helper()
	raw, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var body map[string]any
	require.NoError(t, dec.Decode(&body))
	return core.Params(body)
}

func TestNewHTTP_NilConfig(t *testing.T) {
	client, err := NewHTTP(nil)
	require.NoError(t, err)
	defer client.Close()

	assert.True(t, client.Supports(core.OpQueryTransferList))
	assert.False(t, client.Supports(core.OpOrderbook))
	assert.Equal(t, core.MainnetURL, client.Session().Config().BaseURL())

	_, err = client.Orderbook(context.Background(), core.Params{"symbol": "BTCUSD"})
	assert.ErrorIs(t, err, core.ErrUnsupportedOperation)
}

func TestHTTP_Orderbook(t *testing.T) {
	client := newTestHTTP(t, core.ContractInverse, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v2/public/orderBook/L2", r.URL.Path)
		assert.Equal(t, "BTCUSD", r.URL.Query().Get("symbol"))
		assert.Empty(t, r.URL.Query().Get("sign"))
		_, _ = w.Write([]byte(`{"ret_code":0,"ret_msg":"OK","ext_code":"","ext_info":"","result":[
			{"symbol":"BTCUSD","price":"9487","size":336241,"side":"Buy"},
			{"symbol":"BTCUSD","price":"9487.5","size":522147,"side":"Sell"}],"time_now":"1567108756.834357"}`))
	}, false)

	resp, err := client.Orderbook(context.Background(), core.Params{"symbol": "BTCUSD"})
	require.NoError(t, err)

	var levels []struct {
		Price core.Decimal `json:"price"`
		Side  core.Side    `json:"side"`
	}
	require.NoError(t, resp.Decode(&levels))
	require.Len(t, levels, 2)
	assert.Equal(t, "9487.5", levels[1].Price.Canonical())
	assert.Equal(t, core.SideSell, levels[1].Side)
}

func TestHTTP_ResultPassthrough(t *testing.T) {
	client := newTestHTTP(t, core.ContractInverse, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ret_code":0,"ret_msg":"OK","result":{"symbol":"BTCUSD","price":"50000"}}`))
	}, false)

	resp, err := client.Orderbook(context.Background(), core.Params{"symbol": "BTCUSD"})
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.RetMsg)
	assert.JSONEq(t, `{"symbol":"BTCUSD","price":"50000"}`, string(resp.Result))

	var result map[string]string
	require.NoError(t, resp.Decode(&result))
	assert.Equal(t, map[string]string{"symbol": "BTCUSD", "price": "50000"}, result)
}

func TestHTTP_SignedPostBody(t *testing.T) {
	client := newTestHTTP(t, core.ContractLinear, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/private/linear/order/create", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)

		body := decodeBody(t, r)
		assert.Equal(t, "key", body["api_key"])
		assert.Equal(t, json.Number("1620000000000"), body["timestamp"])
		assert.Equal(t, json.Number("5000"), body["recv_window"])
		assert.Equal(t, json.Number("0.5"), body["qty"])
		assert.Equal(t, Sign("secret", CanonicalString(body)), body["sign"])
		_, _ = w.Write([]byte(`{"ret_code":0,"ret_msg":"OK","result":{"order_id":"abc"}}`))
	}, true)

	resp, err := client.PlaceActiveOrder(context.Background(), core.Params{
		"symbol":        "BTCUSDT",
		"side":          core.SideBuy,
		"order_type":    core.OrderTypeMarket,
		"qty":           0.5,
		"time_in_force": core.TimeInForceGoodTillCancel,
		"reduce_only":   false,
	})
	require.NoError(t, err)
	assert.True(t, resp.OK())
}

func TestHTTP_SpotParamsInQuery(t *testing.T) {
	client := newTestHTTP(t, core.ContractSpot, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/spot/v1/order", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "889208273689997824", q.Get("orderId"))
		assert.Equal(t, "key", q.Get("api_key"))

		params := core.Params{}
		for k := range q {
			params[k] = q.Get(k)
		}
		assert.Equal(t, Sign("secret", CanonicalString(params)), q.Get("sign"))
		assert.Nil(t, decodeBody(t, r))
		_, _ = w.Write([]byte(`{"ret_code":0,"ret_msg":"","result":{"orderId":"889208273689997824"}}`))
	}, true)

	_, err := client.CancelActiveOrder(context.Background(), core.Params{"orderId": "889208273689997824"})
	require.NoError(t, err)
}

func TestHTTP_PrivateWithoutCredentials(t *testing.T) {
	client := newTestHTTP(t, core.ContractLinear, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}, false)

	_, err := client.MyPosition(context.Background(), core.Params{"symbol": "BTCUSDT"})
	assert.True(t, core.IsAuthenticationError(err))
}

func TestHTTP_APIError(t *testing.T) {
	client := newTestHTTP(t, core.ContractLinear, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ret_code":10004,"ret_msg":"error sign!"}`))
	}, true)

	resp, err := client.GetWalletBalance(context.Background(), nil)
	assert.True(t, core.IsAuthenticationError(err))
	assert.True(t, core.IsErrorCode(err, core.CodeInvalidSign))
	require.NotNil(t, resp)
	assert.Equal(t, "error sign!", resp.RetMsg)
}

func TestHTTP_Bulk(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]int{}
	client := newTestHTTP(t, core.ContractLinear, func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		link, _ := body["order_link_id"].(string)
		mu.Lock()
		seen[link]++
		mu.Unlock()
		if link == "bad" {
			_, _ = w.Write([]byte(`{"ret_code":30034,"ret_msg":"order not exists or too late to cancel"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ret_code":0,"ret_msg":"OK","result":{"order_link_id":"` + link + `"}}`))
	}, true)

	links := []string{"a", "bad", "c", "d", "e"}
	orders := make([]core.Params, len(links))
	for i, link := range links {
		orders[i] = core.Params{"symbol": "BTCUSDT", "order_link_id": link}
	}

	results := client.CancelActiveOrderBulk(context.Background(), orders)
	require.Len(t, results, len(links))
	for i, res := range results {
		assert.Equal(t, i, res.Index)
		if links[i] == "bad" {
			assert.True(t, core.IsErrorCode(res.Err, core.CodeOrderNotFound))
			continue
		}
		require.NoError(t, res.Err)
		var out struct {
			OrderLinkID string `json:"order_link_id"`
		}
		require.NoError(t, res.Response.Decode(&out))
		assert.Equal(t, links[i], out.OrderLinkID)
	}
	for _, link := range links {
		assert.Equal(t, 1, seen[link])
	}
}

func TestHTTP_PlaceOrder_Validation(t *testing.T) {
	client := newTestHTTP(t, core.ContractLinear, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}, true)

	_, err := client.PlaceOrder(context.Background(), &Order{
		Symbol:      "BTCUSDT",
		Side:        core.SideBuy,
		OrderType:   core.OrderTypeLimit,
		Qty:         mustDecimal(t, "1"),
		TimeInForce: core.TimeInForceGoodTillCancel,
	})
	assert.True(t, core.IsUsageError(err))
}

func TestHTTP_ClosePosition(t *testing.T) {
	var mu sync.Mutex
	var placed []core.Params
	client := newTestHTTP(t, core.ContractLinear, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/private/linear/position/list":
			assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
			_, _ = w.Write([]byte(`{"ret_code":0,"result":[
				{"symbol":"BTCUSDT","side":"Buy","size":0.25,"position_idx":1},
				{"symbol":"BTCUSDT","side":"Sell","size":0,"position_idx":2}]}`))
		case "/private/linear/order/create":
			mu.Lock()
			placed = append(placed, decodeBody(t, r))
			mu.Unlock()
			_, _ = w.Write([]byte(`{"ret_code":0,"result":{}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}, true)

	results, err := client.ClosePosition(context.Background(), "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)

	require.Len(t, placed, 1)
	order := placed[0]
	assert.Equal(t, "Sell", order["side"])
	assert.Equal(t, "Market", order["order_type"])
	assert.Equal(t, "ImmediateOrCancel", order["time_in_force"])
	assert.Equal(t, json.Number("0.25"), order["qty"])
	assert.Equal(t, true, order["reduce_only"])
	assert.Equal(t, true, order["close_on_trigger"])
	assert.Equal(t, json.Number("1"), order["position_idx"])
}

func TestHTTP_ClosePosition_NothingOpen(t *testing.T) {
	client := newTestHTTP(t, core.ContractInverse, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/private/position/list", r.URL.Path)
		_, _ = w.Write([]byte(`{"ret_code":0,"result":{"symbol":"BTCUSD","side":"None","size":0,"position_idx":0}}`))
	}, true)

	_, err := client.ClosePosition(context.Background(), "BTCUSD")
	assert.ErrorIs(t, err, ErrNoPosition)
}

func mustDecimal(t *testing.T, s string) core.Decimal {
	t.Helper()
	d, err := core.NewDecimal(s)
	require.NoError(t, err)
	return d
}
