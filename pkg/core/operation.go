package core

import "fmt"

// Operation identifies one REST endpoint. The path, method and required
// parameters behind it depend on the contract type.
type Operation int

const (
	// OpOrderbook retrieves the order book.
	OpOrderbook Operation = iota
	// OpMergedOrderbook retrieves the spot merged order book.
	OpMergedOrderbook
	// OpQueryKline retrieves candlesticks.
	OpQueryKline
	// OpLatestInformationForSymbol retrieves tickers.
	OpLatestInformationForSymbol
	OpLastTradedPrice
	OpBestBidAskPrice
	OpPublicTradingRecords
	OpQuerySymbol
	OpQueryMarkPriceKline
	OpQueryIndexPriceKline
	OpQueryPremiumIndexKline
	OpOpenInterest
	OpLatestBigDeal
	OpLongShortRatio
	// OpPlaceActiveOrder submits an order.
	OpPlaceActiveOrder
	OpGetActiveOrder
	OpCancelActiveOrder
	OpFastCancelActiveOrder
	OpCancelAllActiveOrders
	OpBatchCancelActiveOrder
	OpBatchFastCancelActiveOrder
	OpBatchCancelActiveOrderByIDs
	OpReplaceActiveOrder
	OpQueryActiveOrder
	OpOpenOrders
	OpOrderHistory
	OpPlaceConditionalOrder
	OpGetConditionalOrder
	OpCancelConditionalOrder
	OpCancelAllConditionalOrders
	OpReplaceConditionalOrder
	OpQueryConditionalOrder
	// OpMyPosition retrieves open positions.
	OpMyPosition
	OpSetAutoAddMargin
	OpSetLeverage
	OpCrossIsolatedMarginSwitch
	OpQueryTradingFeeRate
	OpPositionModeSwitch
	OpFullPartialPositionTPSLSwitch
	OpChangeMargin
	OpSetTradingStop
	OpAddReduceMargin
	OpChangeUserLeverage
	OpUserTradeRecords
	OpClosedProfitAndLoss
	OpGetRiskLimit
	OpSetRiskLimit
	OpGetTheLastFundingRate
	OpMyLastFundingFee
	OpPredictedFundingRate
	OpAPIKeyInfo
	OpLCPInfo
	// OpGetWalletBalance retrieves wallet balances.
	OpGetWalletBalance
	OpWalletFundRecords
	OpWithdrawRecords
	OpAssetExchangeRecords
	OpServerTime
	OpAnnouncement
	// OpCreateInternalTransfer moves funds between account types.
	OpCreateInternalTransfer
	OpCreateSubaccountTransfer
	OpQueryTransferList
	OpQuerySubaccountList
	OpQuerySubaccountTransferList

	opCount
)

var operationNames = [...]string{
	"orderbook",
	"merged_orderbook",
	"query_kline",
	"latest_information_for_symbol",
	"last_traded_price",
	"best_bid_ask_price",
	"public_trading_records",
	"query_symbol",
	"query_mark_price_kline",
	"query_index_price_kline",
	"query_premium_index_kline",
	"open_interest",
	"latest_big_deal",
	"long_short_ratio",
	"place_active_order",
	"get_active_order",
	"cancel_active_order",
	"fast_cancel_active_order",
	"cancel_all_active_orders",
	"batch_cancel_active_order",
	"batch_fast_cancel_active_order",
	"batch_cancel_active_order_by_ids",
	"replace_active_order",
	"query_active_order",
	"open_orders",
	"order_history",
	"place_conditional_order",
	"get_conditional_order",
	"cancel_conditional_order",
	"cancel_all_conditional_orders",
	"replace_conditional_order",
	"query_conditional_order",
	"my_position",
	"set_auto_add_margin",
	"set_leverage",
	"cross_isolated_margin_switch",
	"query_trading_fee_rate",
	"position_mode_switch",
	"full_partial_position_tp_sl_switch",
	"change_margin",
	"set_trading_stop",
	"add_reduce_margin",
	"change_user_leverage",
	"user_trade_records",
	"closed_profit_and_loss",
	"get_risk_limit",
	"set_risk_limit",
	"get_the_last_funding_rate",
	"my_last_funding_fee",
	"predicted_funding_rate",
	"api_key_info",
	"lcp_info",
	"get_wallet_balance",
	"wallet_fund_records",
	"withdraw_records",
	"asset_exchange_records",
	"server_time",
	"announcement",
	"create_internal_transfer",
	"create_subaccount_transfer",
	"query_transfer_list",
	"query_subaccount_list",
	"query_subaccount_transfer_list",
}

// String returns the snake_case endpoint name, e.g. "place_active_order".
func (o Operation) String() string {
	if o < 0 || o >= opCount {
		return fmt.Sprintf("operation(%d)", int(o))
	}
	return operationNames[o]
}

// Operations returns every known operation in declaration order.
func Operations() []Operation {
	ops := make([]Operation, opCount)
	for i := range ops {
		ops[i] = Operation(i)
	}
	return ops
}

// ParseOperation looks an operation up by its snake_case name.
func ParseOperation(name string) (Operation, error) {
	for i, n := range operationNames {
		if n == name {
			return Operation(i), nil
		}
	}
	return 0, fmt.Errorf("unknown operation %q", name)
}
