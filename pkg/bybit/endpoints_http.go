package bybit

import (
	"context"

	"bybitconn/pkg/core"
)

// Market data.

// Orderbook retrieves the order book for a symbol.
func (h *HTTP) Orderbook(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpOrderbook, params)
}

func (h *HTTP) MergedOrderbook(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpMergedOrderbook, params)
}

// QueryKline retrieves candlesticks. Pass "from_time" for the start; it is sent as "from".
func (h *HTTP) QueryKline(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpQueryKline, params)
}

func (h *HTTP) LatestInformationForSymbol(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpLatestInformationForSymbol, params)
}

func (h *HTTP) LastTradedPrice(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpLastTradedPrice, params)
}

func (h *HTTP) BestBidAskPrice(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpBestBidAskPrice, params)
}

// PublicTradingRecords retrieves recent trades. Pass "from_id" to page; it is sent as "from".
func (h *HTTP) PublicTradingRecords(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpPublicTradingRecords, params)
}

func (h *HTTP) QuerySymbol(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpQuerySymbol, params)
}

func (h *HTTP) QueryMarkPriceKline(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpQueryMarkPriceKline, params)
}

func (h *HTTP) QueryIndexPriceKline(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpQueryIndexPriceKline, params)
}

func (h *HTTP) QueryPremiumIndexKline(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpQueryPremiumIndexKline, params)
}

func (h *HTTP) OpenInterest(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpOpenInterest, params)
}

func (h *HTTP) LatestBigDeal(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpLatestBigDeal, params)
}

func (h *HTTP) LongShortRatio(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpLongShortRatio, params)
}

// Active orders.

// PlaceActiveOrder submits an order.
func (h *HTTP) PlaceActiveOrder(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpPlaceActiveOrder, params)
}

func (h *HTTP) GetActiveOrder(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpGetActiveOrder, params)
}

// CancelActiveOrder cancels one order by order_id or order_link_id.
func (h *HTTP) CancelActiveOrder(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpCancelActiveOrder, params)
}

func (h *HTTP) FastCancelActiveOrder(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpFastCancelActiveOrder, params)
}

func (h *HTTP) CancelAllActiveOrders(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpCancelAllActiveOrders, params)
}

func (h *HTTP) BatchCancelActiveOrder(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpBatchCancelActiveOrder, params)
}

func (h *HTTP) BatchFastCancelActiveOrder(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpBatchFastCancelActiveOrder, params)
}

// BatchCancelActiveOrderByIDs cancels spot orders listed in "orderIds" (comma separated).
func (h *HTTP) BatchCancelActiveOrderByIDs(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpBatchCancelActiveOrderByIDs, params)
}

func (h *HTTP) ReplaceActiveOrder(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpReplaceActiveOrder, params)
}

func (h *HTTP) QueryActiveOrder(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpQueryActiveOrder, params)
}

func (h *HTTP) OpenOrders(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpOpenOrders, params)
}

func (h *HTTP) OrderHistory(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpOrderHistory, params)
}

// Conditional orders.

// PlaceConditionalOrder submits a stop order.
func (h *HTTP) PlaceConditionalOrder(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpPlaceConditionalOrder, params)
}

func (h *HTTP) GetConditionalOrder(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpGetConditionalOrder, params)
}

func (h *HTTP) CancelConditionalOrder(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpCancelConditionalOrder, params)
}

func (h *HTTP) CancelAllConditionalOrders(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpCancelAllConditionalOrders, params)
}

func (h *HTTP) ReplaceConditionalOrder(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpReplaceConditionalOrder, params)
}

func (h *HTTP) QueryConditionalOrder(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpQueryConditionalOrder, params)
}

// Positions.

// MyPosition retrieves positions. Decode the result with core.DecodePositions.
func (h *HTTP) MyPosition(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpMyPosition, params)
}

func (h *HTTP) SetAutoAddMargin(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpSetAutoAddMargin, params)
}

func (h *HTTP) SetLeverage(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpSetLeverage, params)
}

func (h *HTTP) CrossIsolatedMarginSwitch(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpCrossIsolatedMarginSwitch, params)
}

func (h *HTTP) QueryTradingFeeRate(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpQueryTradingFeeRate, params)
}

func (h *HTTP) PositionModeSwitch(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpPositionModeSwitch, params)
}

func (h *HTTP) FullPartialPositionTPSLSwitch(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpFullPartialPositionTPSLSwitch, params)
}

func (h *HTTP) ChangeMargin(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpChangeMargin, params)
}

func (h *HTTP) SetTradingStop(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpSetTradingStop, params)
}

// AddReduceMargin changes linear position margin.
func (h *HTTP) AddReduceMargin(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpAddReduceMargin, params)
}

func (h *HTTP) ChangeUserLeverage(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpChangeUserLeverage, params)
}

func (h *HTTP) UserTradeRecords(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpUserTradeRecords, params)
}

func (h *HTTP) ClosedProfitAndLoss(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpClosedProfitAndLoss, params)
}

// Risk limit and funding.

func (h *HTTP) GetRiskLimit(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpGetRiskLimit, params)
}

func (h *HTTP) SetRiskLimit(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpSetRiskLimit, params)
}

func (h *HTTP) GetTheLastFundingRate(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpGetTheLastFundingRate, params)
}

func (h *HTTP) MyLastFundingFee(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpMyLastFundingFee, params)
}

func (h *HTTP) PredictedFundingRate(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpPredictedFundingRate, params)
}

// Account and wallet.

func (h *HTTP) APIKeyInfo(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpAPIKeyInfo, params)
}

func (h *HTTP) LCPInfo(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpLCPInfo, params)
}

func (h *HTTP) GetWalletBalance(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpGetWalletBalance, params)
}

// WalletFundRecords retrieves wallet fund records. Pass "from_id" to page; it is sent as "from".
func (h *HTTP) WalletFundRecords(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpWalletFundRecords, params)
}

func (h *HTTP) WithdrawRecords(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpWithdrawRecords, params)
}

func (h *HTTP) AssetExchangeRecords(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpAssetExchangeRecords, params)
}

// ServerTime retrieves the exchange clock.
func (h *HTTP) ServerTime(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpServerTime, params)
}

func (h *HTTP) Announcement(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpAnnouncement, params)
}

// Account asset.

// CreateInternalTransfer moves funds between account types of the same user.
func (h *HTTP) CreateInternalTransfer(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpCreateInternalTransfer, params)
}

// CreateSubaccountTransfer moves funds between the master account and a subaccount.
func (h *HTTP) CreateSubaccountTransfer(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpCreateSubaccountTransfer, params)
}

func (h *HTTP) QueryTransferList(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpQueryTransferList, params)
}

func (h *HTTP) QuerySubaccountList(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpQuerySubaccountList, params)
}

func (h *HTTP) QuerySubaccountTransferList(ctx context.Context, params core.Params) (*core.Response, error) {
	return h.Call(ctx, core.OpQuerySubaccountTransferList, params)
}
