package bybit

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"bybitconn/pkg/core"
)

var validate = validator.New()

// Order is a typed derivatives order. Params turns it into the exchange's parameter names.
type Order struct {
	Symbol         string           `validate:"required"`
	Side           core.Side        `validate:"required,oneof=Buy Sell"`
	OrderType      core.OrderType   `validate:"required,oneof=Market Limit"`
	Qty            core.Decimal     `validate:"-"`
	Price          *core.Decimal    `validate:"-"`
	TimeInForce    core.TimeInForce `validate:"required,oneof=GoodTillCancel ImmediateOrCancel FillOrKill PostOnly"`
	ReduceOnly     bool
	CloseOnTrigger bool
	PositionIdx    int           `validate:"min=0,max=2"`
	OrderLinkID    string        `validate:"max=36"`
	TakeProfit     *core.Decimal `validate:"-"`
	StopLoss       *core.Decimal `validate:"-"`
}

// Validate checks the order before anything is sent.
func (o *Order) Validate() error {
	if err := validate.Struct(o); err != nil {
		return core.NewUsageError(core.ErrMissingParameter, err.Error())
	}
	if o.Qty.Sign() <= 0 {
		return core.NewUsageError(core.ErrMissingParameter, fmt.Sprintf("qty must be positive, got %s", o.Qty.Canonical()))
	}
	if o.OrderType == core.OrderTypeLimit && o.Price == nil {
		return core.NewUsageError(core.ErrMissingParameter, "limit orders require a price")
	}
	return nil
}

// Params renders the order as request parameters.
func (o *Order) Params() core.Params {
	p := core.Params{
		"symbol":           o.Symbol,
		"side":             string(o.Side),
		"order_type":       string(o.OrderType),
		"qty":              o.Qty,
		"time_in_force":    string(o.TimeInForce),
		"reduce_only":      o.ReduceOnly,
		"close_on_trigger": o.CloseOnTrigger,
		"position_idx":     o.PositionIdx,
	}
	if o.Price != nil {
		p["price"] = *o.Price
	}
	if o.OrderLinkID != "" {
		p["order_link_id"] = o.OrderLinkID
	}
	if o.TakeProfit != nil {
		p["take_profit"] = *o.TakeProfit
	}
	if o.StopLoss != nil {
		p["stop_loss"] = *o.StopLoss
	}
	return p
}
