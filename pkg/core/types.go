package core

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/apd/v3"
)

// Side is the order direction as the exchange spells it.
type Side string

const (
	SideBuy  Side = "Buy"
	SideSell Side = "Sell"
)

// Opposite returns the side that closes a position opened on s.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// OrderType is the order execution type.
type OrderType string

const (
	OrderTypeMarket OrderType = "Market"
	OrderTypeLimit  OrderType = "Limit"
)

// TimeInForce controls how long an order rests on the book.
type TimeInForce string

const (
	TimeInForceGoodTillCancel    TimeInForce = "GoodTillCancel"
	TimeInForceImmediateOrCancel TimeInForce = "ImmediateOrCancel"
	TimeInForceFillOrKill        TimeInForce = "FillOrKill"
	TimeInForcePostOnly          TimeInForce = "PostOnly"
)

// Response is the exchange's JSON envelope.
type Response struct {
	RetCode          int             `json:"ret_code"`
	RetMsg           string          `json:"ret_msg"`
	ExtCode          json.RawMessage `json:"ext_code,omitempty"`
	ExtInfo          json.RawMessage `json:"ext_info,omitempty"`
	Result           json.RawMessage `json:"result"`
	TimeNow          string          `json:"time_now,omitempty"`
	RateLimitStatus  int             `json:"rate_limit_status,omitempty"`
	RateLimitResetMs int64           `json:"rate_limit_reset_ms,omitempty"`
	RateLimit        int             `json:"rate_limit,omitempty"`
}

// OK reports whether the exchange accepted the call.
func (r *Response) OK() bool {
	return r.RetCode == CodeOK
}

// Decode unmarshals the result payload into v. A null or absent result leaves v untouched.
func (r *Response) Decode(v any) error {
	if len(r.Result) == 0 || string(r.Result) == "null" {
		return nil
	}
	if err := sonic.Unmarshal(r.Result, v); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

// Decimal is an arbitrary-precision number that decodes from JSON numbers and strings alike.
type Decimal struct {
	apd.Decimal
}

// NewDecimal parses s into a Decimal.
func NewDecimal(s string) (Decimal, error) {
	var d Decimal
	if _, _, err := d.SetString(s); err != nil {
		return Decimal{}, fmt.Errorf("parse decimal %q: %w", s, err)
	}
	return d, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Decimal = apd.Decimal{}
		return nil
	}
	if _, _, err := d.SetString(s); err != nil {
		return fmt.Errorf("parse decimal %q: %w", s, err)
	}
	return nil
}

// MarshalJSON encodes the value as a bare JSON number.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(d.Canonical()), nil
}

// Canonical returns the value with trailing zeros removed, so 1.50 and 1.5 sign identically.
func (d Decimal) Canonical() string {
	var r apd.Decimal
	r.Reduce(&d.Decimal)
	return r.Text('f')
}

// Position is the subset of a position record needed to close it.
type Position struct {
	Symbol      string  `json:"symbol"`
	Side        Side    `json:"side"`
	Size        Decimal `json:"size"`
	PositionIdx int     `json:"position_idx"`
}

// DecodePositions accepts the shapes my_position returns: a single object, a list,
// or a list of {"data": {...}, "is_valid": bool} wrappers.
func DecodePositions(raw json.RawMessage) ([]Position, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	if !strings.HasPrefix(trimmed, "[") {
		var p Position
		if err := sonic.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode position: %w", err)
		}
		return []Position{p}, nil
	}

	var items []struct {
		Position
		Data *Position `json:"data"`
	}
	if err := sonic.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode positions: %w", err)
	}
	positions := make([]Position, 0, len(items))
	for _, it := range items {
		if it.Data != nil {
			positions = append(positions, *it.Data)
			continue
		}
		positions = append(positions, it.Position)
	}
	return positions, nil
}
