package bybit

import (
	"net/http"

	"bybitconn/pkg/core"
)

// Endpoint is one REST route for a contract type.
type Endpoint struct {
	Path     string
	Method   string
	Auth     bool
	Required []string
}

func get(path string, required ...string) Endpoint {
	return Endpoint{Path: path, Method: http.MethodGet, Required: required}
}

func signedGet(path string, required ...string) Endpoint {
	return Endpoint{Path: path, Method: http.MethodGet, Auth: true, Required: required}
}

func signedPost(path string, required ...string) Endpoint {
	return Endpoint{Path: path, Method: http.MethodPost, Auth: true, Required: required}
}

func signedDelete(path string, required ...string) Endpoint {
	return Endpoint{Path: path, Method: http.MethodDelete, Auth: true, Required: required}
}

var (
	orderRequired       = []string{"symbol", "side", "order_type", "qty", "time_in_force"}
	conditionalRequired = []string{"symbol", "side", "order_type", "qty", "base_price", "stop_px", "time_in_force"}
)

// Endpoints returns the routes the given contract type exposes.
// Every contract type, including ContractNone, gets the account asset routes.
func Endpoints(contract core.ContractType) map[core.Operation]Endpoint {
	table := make(map[core.Operation]Endpoint)

	switch contract {
	case core.ContractLinear:
		addDerivatives(table)
		addLinear(table)
	case core.ContractInverse:
		addDerivatives(table)
		addInverse(table)
	case core.ContractFutures:
		addDerivatives(table)
		addFutures(table)
	case core.ContractSpot:
		addSpot(table)
	}
	addAsset(table)

	return table
}

func addDerivatives(t map[core.Operation]Endpoint) {
	t[core.OpOrderbook] = get("/v2/public/orderBook/L2", "symbol")
	t[core.OpLatestInformationForSymbol] = get("/v2/public/tickers")
	t[core.OpQuerySymbol] = get("/v2/public/symbols")
	t[core.OpOpenInterest] = get("/v2/public/open-interest", "symbol", "period")
	t[core.OpLatestBigDeal] = get("/v2/public/big-deal", "symbol")
	t[core.OpLongShortRatio] = get("/v2/public/account-ratio", "symbol", "period")
	t[core.OpChangeUserLeverage] = signedPost("/user/leverage/save", "symbol", "leverage")
	t[core.OpAPIKeyInfo] = signedGet("/v2/private/account/api-key")
	t[core.OpLCPInfo] = signedGet("/v2/private/account/lcp", "symbol")
	t[core.OpGetWalletBalance] = signedGet("/v2/private/wallet/balance")
	t[core.OpWalletFundRecords] = signedGet("/v2/private/wallet/fund/records")
	t[core.OpWithdrawRecords] = signedGet("/v2/private/wallet/withdraw/list")
	t[core.OpAssetExchangeRecords] = signedGet("/v2/private/exchange-order/list")
	t[core.OpServerTime] = get("/v2/public/time")
	t[core.OpAnnouncement] = get("/v2/public/announcement")
}

// addInversePublic registers the market data routes inverse perpetuals and futures share.
func addInversePublic(t map[core.Operation]Endpoint) {
	t[core.OpQueryKline] = get("/v2/public/kline/list", "symbol", "interval")
	t[core.OpPublicTradingRecords] = get("/v2/public/trading-records", "symbol")
	t[core.OpQueryMarkPriceKline] = get("/v2/public/mark-price-kline", "symbol", "interval")
	t[core.OpQueryIndexPriceKline] = get("/v2/public/index-price-kline", "symbol", "interval")
	t[core.OpQueryPremiumIndexKline] = get("/v2/public/premium-index-kline", "symbol", "interval")
	t[core.OpGetRiskLimit] = signedGet("/v2/public/risk-limit/list")
}

func addLinear(t map[core.Operation]Endpoint) {
	t[core.OpQueryKline] = get("/public/linear/kline", "symbol", "interval")
	t[core.OpPublicTradingRecords] = get("/public/linear/recent-trading-records", "symbol")
	t[core.OpQueryMarkPriceKline] = get("/public/linear/mark-price-kline", "symbol", "interval")
	t[core.OpQueryIndexPriceKline] = get("/public/linear/index-price-kline", "symbol", "interval")
	t[core.OpQueryPremiumIndexKline] = get("/public/linear/premium-index-kline", "symbol", "interval")

	t[core.OpPlaceActiveOrder] = signedPost("/private/linear/order/create", orderRequired...)
	t[core.OpGetActiveOrder] = signedGet("/private/linear/order/list", "symbol")
	t[core.OpCancelActiveOrder] = signedPost("/private/linear/order/cancel", "symbol")
	t[core.OpCancelAllActiveOrders] = signedPost("/private/linear/order/cancel-all", "symbol")
	t[core.OpReplaceActiveOrder] = signedPost("/private/linear/order/replace", "symbol")
	t[core.OpQueryActiveOrder] = signedGet("/private/linear/order/search", "symbol")

	t[core.OpPlaceConditionalOrder] = signedPost("/private/linear/stop-order/create", conditionalRequired...)
	t[core.OpGetConditionalOrder] = signedGet("/private/linear/stop-order/list", "symbol")
	t[core.OpCancelConditionalOrder] = signedPost("/private/linear/stop-order/cancel", "symbol")
	t[core.OpCancelAllConditionalOrders] = signedPost("/private/linear/stop-order/cancel-all", "symbol")
	t[core.OpReplaceConditionalOrder] = signedPost("/private/linear/stop-order/replace", "symbol")
	t[core.OpQueryConditionalOrder] = signedGet("/private/linear/stop-order/search", "symbol")

	t[core.OpMyPosition] = signedGet("/private/linear/position/list")
	t[core.OpSetAutoAddMargin] = signedPost("/private/linear/position/set-auto-add-margin", "symbol", "side", "auto_add_margin")
	t[core.OpSetLeverage] = signedPost("/private/linear/position/set-leverage", "symbol", "buy_leverage", "sell_leverage")
	t[core.OpCrossIsolatedMarginSwitch] = signedPost("/private/linear/position/switch-isolated", "symbol", "is_isolated")
	t[core.OpPositionModeSwitch] = signedPost("/private/linear/position/switch-mode", "mode")
	t[core.OpFullPartialPositionTPSLSwitch] = signedPost("/private/linear/tpsl/switch-mode", "symbol", "tp_sl_mode")
	t[core.OpSetTradingStop] = signedPost("/private/linear/position/trading-stop", "symbol", "side")
	t[core.OpAddReduceMargin] = signedGet("/private/linear/position/add-margin", "symbol", "side", "margin")
	t[core.OpUserTradeRecords] = signedGet("/private/linear/trade/execution/list", "symbol")
	t[core.OpClosedProfitAndLoss] = signedGet("/private/linear/trade/closed-pnl/list", "symbol")
	t[core.OpGetRiskLimit] = signedGet("/public/linear/risk-limit")
	t[core.OpSetRiskLimit] = signedPost("/private/linear/position/set-risk", "symbol", "side", "risk_id")
	t[core.OpGetTheLastFundingRate] = get("/public/linear/funding/prev-funding-rate", "symbol")
	t[core.OpMyLastFundingFee] = signedGet("/private/linear/funding/prev-funding", "symbol")
	t[core.OpPredictedFundingRate] = signedGet("/private/linear/funding/predicted-funding", "symbol")
}

func addInverse(t map[core.Operation]Endpoint) {
	addInversePublic(t)

	t[core.OpPlaceActiveOrder] = signedPost("/v2/private/order/create", orderRequired...)
	t[core.OpGetActiveOrder] = signedGet("/v2/private/order/list", "symbol")
	t[core.OpCancelActiveOrder] = signedPost("/v2/private/order/cancel", "symbol")
	t[core.OpCancelAllActiveOrders] = signedPost("/v2/private/order/cancelAll", "symbol")
	t[core.OpReplaceActiveOrder] = signedPost("/v2/private/order/replace", "symbol")
	t[core.OpQueryActiveOrder] = signedGet("/v2/private/order", "symbol")

	t[core.OpPlaceConditionalOrder] = signedPost("/v2/private/stop-order/create", conditionalRequired...)
	t[core.OpGetConditionalOrder] = signedGet("/v2/private/stop-order/list", "symbol")
	t[core.OpCancelConditionalOrder] = signedPost("/v2/private/stop-order/cancel", "symbol")
	t[core.OpCancelAllConditionalOrders] = signedPost("/v2/private/stop-order/cancelAll", "symbol")
	t[core.OpReplaceConditionalOrder] = signedPost("/v2/private/stop-order/replace", "symbol")
	t[core.OpQueryConditionalOrder] = signedGet("/v2/private/stop-order", "symbol")

	t[core.OpMyPosition] = signedGet("/v2/private/position/list")
	t[core.OpSetLeverage] = signedPost("/v2/private/position/leverage/save", "symbol", "leverage")
	t[core.OpCrossIsolatedMarginSwitch] = signedPost("/v2/private/position/switch-isolated", "symbol", "is_isolated")
	t[core.OpQueryTradingFeeRate] = signedPost("/v2/private/position/fee-rate", "symbol")
	t[core.OpPositionModeSwitch] = signedPost("/v2/private/position/switch-mode", "mode")
	t[core.OpFullPartialPositionTPSLSwitch] = signedPost("/v2/private/tpsl/switch-mode", "symbol", "tp_sl_mode")
	t[core.OpChangeMargin] = signedPost("/v2/private/position/change-position-margin", "symbol", "margin")
	t[core.OpSetTradingStop] = signedPost("/v2/private/position/trading-stop", "symbol")
	t[core.OpUserTradeRecords] = signedGet("/v2/private/execution/list", "symbol")
	t[core.OpClosedProfitAndLoss] = signedGet("/v2/private/trade/closed-pnl/list", "symbol")
	t[core.OpSetRiskLimit] = signedPost("/v2/private/position/risk-limit", "symbol", "risk_id")
	t[core.OpGetTheLastFundingRate] = get("/v2/public/funding/prev-funding-rate", "symbol")
	t[core.OpMyLastFundingFee] = signedGet("/v2/private/funding/prev-funding", "symbol")
	t[core.OpPredictedFundingRate] = signedGet("/v2/private/funding/predicted-funding", "symbol")
}

func addFutures(t map[core.Operation]Endpoint) {
	addInversePublic(t)

	t[core.OpPlaceActiveOrder] = signedPost("/futures/private/order/create", orderRequired...)
	t[core.OpGetActiveOrder] = signedGet("/futures/private/order/list", "symbol")
	t[core.OpCancelActiveOrder] = signedPost("/futures/private/order/cancel", "symbol")
	t[core.OpCancelAllActiveOrders] = signedPost("/futures/private/order/cancelAll", "symbol")
	t[core.OpReplaceActiveOrder] = signedPost("/futures/private/order/replace", "symbol")
	t[core.OpQueryActiveOrder] = signedGet("/futures/private/order", "symbol")

	t[core.OpPlaceConditionalOrder] = signedPost("/futures/private/stop-order/create", conditionalRequired...)
	t[core.OpGetConditionalOrder] = signedGet("/futures/private/stop-order/list", "symbol")
	t[core.OpCancelConditionalOrder] = signedPost("/futures/private/stop-order/cancel", "symbol")
	t[core.OpCancelAllConditionalOrders] = signedPost("/futures/private/stop-order/cancelAll", "symbol")
	t[core.OpReplaceConditionalOrder] = signedPost("/futures/private/stop-order/replace", "symbol")
	t[core.OpQueryConditionalOrder] = signedGet("/futures/private/stop-order", "symbol")

	t[core.OpMyPosition] = signedGet("/futures/private/position/list")
	t[core.OpSetLeverage] = signedPost("/futures/private/position/leverage/save", "symbol", "buy_leverage", "sell_leverage")
	// Futures toggle margin mode and position mode on the same route.
	t[core.OpCrossIsolatedMarginSwitch] = signedPost("/futures/private/position/switch-mode", "symbol")
	t[core.OpPositionModeSwitch] = signedPost("/futures/private/position/switch-mode", "symbol", "mode")
	t[core.OpFullPartialPositionTPSLSwitch] = signedPost("/futures/private/tpsl/switch-mode", "symbol", "tp_sl_mode")
	t[core.OpChangeMargin] = signedPost("/futures/private/position/change-position-margin", "symbol", "margin")
	t[core.OpSetTradingStop] = signedPost("/futures/private/position/trading-stop", "symbol")
	t[core.OpUserTradeRecords] = signedGet("/futures/private/execution/list", "symbol")
	t[core.OpClosedProfitAndLoss] = signedGet("/futures/private/trade/closed-pnl/list", "symbol")
	t[core.OpSetRiskLimit] = signedPost("/futures/private/position/risk-limit", "symbol", "risk_id")
}

func addSpot(t map[core.Operation]Endpoint) {
	t[core.OpOrderbook] = get("/spot/quote/v1/depth", "symbol")
	t[core.OpMergedOrderbook] = get("/spot/quote/v1/depth/merged", "symbol")
	t[core.OpQueryKline] = get("/spot/quote/v1/kline", "symbol", "interval")
	t[core.OpLatestInformationForSymbol] = get("/spot/quote/v1/ticker/24hr")
	t[core.OpLastTradedPrice] = get("/spot/quote/v1/ticker/price")
	t[core.OpBestBidAskPrice] = get("/spot/quote/v1/ticker/book_ticker")
	t[core.OpPublicTradingRecords] = get("/spot/quote/v1/trades", "symbol")
	t[core.OpQuerySymbol] = get("/spot/v1/symbols")

	t[core.OpPlaceActiveOrder] = signedPost("/spot/v1/order", "symbol", "side", "type", "qty")
	t[core.OpGetActiveOrder] = signedGet("/spot/v1/order")
	t[core.OpCancelActiveOrder] = signedDelete("/spot/v1/order")
	t[core.OpFastCancelActiveOrder] = signedDelete("/spot/v1/order/fast", "symbolId")
	t[core.OpBatchCancelActiveOrder] = signedDelete("/spot/order/batch-cancel", "symbolId")
	t[core.OpBatchFastCancelActiveOrder] = signedDelete("/spot/order/batch-fast-cancel", "symbolId")
	t[core.OpBatchCancelActiveOrderByIDs] = signedDelete("/spot/order/batch-cancel-by-ids", "orderIds")
	t[core.OpOpenOrders] = signedGet("/spot/v1/open-orders")
	t[core.OpOrderHistory] = signedGet("/spot/v1/history-orders")
	t[core.OpUserTradeRecords] = signedGet("/spot/v1/myTrades")
	t[core.OpGetWalletBalance] = signedGet("/spot/v1/account")
	t[core.OpServerTime] = get("/spot/v1/time")
}

func addAsset(t map[core.Operation]Endpoint) {
	t[core.OpCreateInternalTransfer] = signedPost("/asset/v1/private/transfer",
		"transfer_id", "coin", "amount", "from_account_type", "to_account_type")
	t[core.OpCreateSubaccountTransfer] = signedPost("/asset/v1/private/sub-member/transfer",
		"transfer_id", "coin", "amount", "sub_user_id", "type")
	t[core.OpQueryTransferList] = signedGet("/asset/v1/private/transfer/list")
	t[core.OpQuerySubaccountList] = signedGet("/asset/v1/private/sub-member/member-ids")
	t[core.OpQuerySubaccountTransferList] = signedGet("/asset/v1/private/sub-member/transfer/list")
}
