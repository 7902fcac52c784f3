package main

import (
	"fmt"
	"strconv"
	"strings"

	"bybitconn/pkg/bybit"
	"bybitconn/pkg/core"
)

// stringKeys are identifiers the exchange expects as strings even when they are all digits.
var stringKeys = map[string]struct{}{
	"order_id":       {},
	"order_link_id":  {},
	"stop_order_id":  {},
	"transfer_id":    {},
	"orderId":        {},
	"orderLinkId":    {},
	"orderIds":       {},
	"orderLinkIds":   {},
	"fromTransferId": {},
	"exec_id":        {},
}

// parseParams turns k=v arguments into request params. Integers, floats and booleans
// keep their type so they sign and encode as the exchange expects. A double-quoted
// value, or a value for an identifier key, is always a string: order_id="123".
func parseParams(args []string) (core.Params, error) {
	params := make(core.Params, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("parameter %q is not key=value", arg)
		}
		params[k] = parseValue(k, v)
	}
	return params, nil
}

func parseValue(k, v string) any {
	if len(v) >= 2 && strings.HasPrefix(v, `"`) && strings.HasSuffix(v, `"`) {
		return v[1 : len(v)-1]
	}
	if _, ok := stringKeys[k]; ok {
		return v
	}
	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(v); err == nil && (v == "true" || v == "false") {
		return b
	}
	return v
}

// parseSubscriptions maps configured topics onto subscriptions for the endpoint kind.
// Public spot topics are written topic:symbol[:klineType|dumpScale], e.g. "kline:BTCUSDT:1m".
func parseSubscriptions(kind bybit.ConnKind, topics []string) ([]bybit.Subscription, error) {
	if kind != bybit.KindSpotPublic {
		return bybit.Topics(topics...), nil
	}

	subs := make([]bybit.Subscription, 0, len(topics))
	for _, t := range topics {
		parts := strings.Split(t, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("spot topic %q must be topic:symbol[:option]", t)
		}
		sub := bybit.SpotTopic(parts[0], parts[1])
		if len(parts) == 3 {
			if parts[0] == "kline" {
				sub = sub.WithKlineType(parts[2])
			} else {
				sub = sub.WithDumpScale(parts[2])
			}
		}
		subs = append(subs, sub)
	}
	return subs, nil
}
