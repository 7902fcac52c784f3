package bybit

import (
	"context"
	"errors"
	"fmt"

	"bybitconn/pkg/core"
)

// ErrNoPosition is returned by ClosePosition when nothing is open for the symbol.
var ErrNoPosition = errors.New("no position to close")

// PlaceOrder validates a typed order and submits it.
func (h *HTTP) PlaceOrder(ctx context.Context, order *Order) (*core.Response, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return h.Call(ctx, core.OpPlaceActiveOrder, order.Params())
}

// Positions fetches and decodes the open positions for symbol.
func (h *HTTP) Positions(ctx context.Context, symbol string) ([]core.Position, error) {
	params := core.Params{}
	if symbol != "" {
		params["symbol"] = symbol
	}
	resp, err := h.MyPosition(ctx, params)
	if err != nil {
		return nil, err
	}
	return core.DecodePositions(resp.Result)
}

// ClosePosition market-closes every open position on symbol with reduce-only,
// close-on-trigger orders, one per position side.
func (h *HTTP) ClosePosition(ctx context.Context, symbol string) ([]BulkResult, error) {
	positions, err := h.Positions(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch positions: %w", err)
	}

	orders := make([]core.Params, 0, len(positions))
	for _, p := range positions {
		if p.Size.Sign() <= 0 {
			continue
		}
		if p.Symbol != "" && p.Symbol != symbol {
			continue
		}
		order := &Order{
			Symbol:         symbol,
			Side:           p.Side.Opposite(),
			OrderType:      core.OrderTypeMarket,
			Qty:            p.Size,
			TimeInForce:    core.TimeInForceImmediateOrCancel,
			ReduceOnly:     true,
			CloseOnTrigger: true,
			PositionIdx:    p.PositionIdx,
		}
		if err := order.Validate(); err != nil {
			return nil, err
		}
		orders = append(orders, order.Params())
	}

	if len(orders) == 0 {
		return nil, ErrNoPosition
	}

	h.logger.Info().
		Str("symbol", symbol).
		Int("orders", len(orders)).
		Msg("closing position")
	return h.PlaceActiveOrderBulk(ctx, orders), nil
}
