package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpOrderbook, "orderbook"},
		{OpPlaceActiveOrder, "place_active_order"},
		{OpBatchCancelActiveOrderByIDs, "batch_cancel_active_order_by_ids"},
		{OpFullPartialPositionTPSLSwitch, "full_partial_position_tp_sl_switch"},
		{OpQuerySubaccountTransferList, "query_subaccount_transfer_list"},
		{Operation(-1), "operation(-1)"},
		{opCount, "operation(63)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.String())
		})
	}
}

func TestParseOperation(t *testing.T) {
	for _, op := range Operations() {
		got, err := ParseOperation(op.String())
		require.NoError(t, err)
		assert.Equal(t, op, got)
	}

	_, err := ParseOperation("liquidated_orders")
	assert.Error(t, err)
}

func TestOperations_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for _, op := range Operations() {
		name := op.String()
		assert.False(t, seen[name], "duplicate operation name %s", name)
		seen[name] = true
	}
	assert.Len(t, seen, int(opCount))
}
