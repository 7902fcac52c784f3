package bybit

import (
	"context"

	"golang.org/x/sync/errgroup"

	"bybitconn/pkg/core"
)

// BulkResult is the outcome of one item of a bulk call.
type BulkResult struct {
	Index    int
	Response *core.Response
	Err      error
}

// bulk runs one call per item with at most MaxInParallel in flight.
// Results keep input order and a failing item does not stop the others.
func (h *HTTP) bulk(ctx context.Context, op core.Operation, items []core.Params) []BulkResult {
	results := make([]BulkResult, len(items))

	var g errgroup.Group
	g.SetLimit(h.config.MaxInParallel)
	for i, params := range items {
		g.Go(func() error {
			resp, err := h.Call(ctx, op, params)
			results[i] = BulkResult{Index: i, Response: resp, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (h *HTTP) PlaceActiveOrderBulk(ctx context.Context, orders []core.Params) []BulkResult {
	return h.bulk(ctx, core.OpPlaceActiveOrder, orders)
}

func (h *HTTP) CancelActiveOrderBulk(ctx context.Context, orders []core.Params) []BulkResult {
	return h.bulk(ctx, core.OpCancelActiveOrder, orders)
}

func (h *HTTP) ReplaceActiveOrderBulk(ctx context.Context, orders []core.Params) []BulkResult {
	return h.bulk(ctx, core.OpReplaceActiveOrder, orders)
}

func (h *HTTP) PlaceConditionalOrderBulk(ctx context.Context, orders []core.Params) []BulkResult {
	return h.bulk(ctx, core.OpPlaceConditionalOrder, orders)
}

func (h *HTTP) CancelConditionalOrderBulk(ctx context.Context, orders []core.Params) []BulkResult {
	return h.bulk(ctx, core.OpCancelConditionalOrder, orders)
}

func (h *HTTP) ReplaceConditionalOrderBulk(ctx context.Context, orders []core.Params) []BulkResult {
	return h.bulk(ctx, core.OpReplaceConditionalOrder, orders)
}
