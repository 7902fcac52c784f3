package bybit

import (
	"strings"
)

// ConnKind is the websocket flavour, derived from the endpoint URL.
type ConnKind int

const (
	KindDerivatives ConnKind = iota
	KindSpotPublic
	KindSpotPrivate
)

func (k ConnKind) String() string {
	switch k {
	case KindSpotPublic:
		return "spot_public"
	case KindSpotPrivate:
		return "spot_private"
	default:
		return "derivatives"
	}
}

// DetectKind classifies an endpoint: spot URLs carrying v1 or v2 are public spot,
// other spot URLs are private spot, everything else is derivatives.
func DetectKind(endpoint string) ConnKind {
	if !strings.Contains(endpoint, "spot") {
		return KindDerivatives
	}
	if strings.Contains(endpoint, "v1") || strings.Contains(endpoint, "v2") {
		return KindSpotPublic
	}
	return KindSpotPrivate
}

// spotVersion returns the topic suffix public spot messages carry on this endpoint.
func spotVersion(endpoint string) string {
	if strings.Contains(endpoint, "v1") {
		return "V1"
	}
	return "V2"
}

// SpotParams are the filter parameters of a public spot subscription.
type SpotParams struct {
	Symbol    string `json:"symbol"`
	KlineType string `json:"klineType,omitempty"`
	DumpScale string `json:"dumpScale,omitempty"`
	Binary    bool   `json:"binary"`
}

// SpotFilter is the frame a public spot subscription sends.
type SpotFilter struct {
	Topic  string     `json:"topic"`
	Event  string     `json:"event"`
	Params SpotParams `json:"params"`
}

// Subscription is either a plain topic (derivatives, private spot) or a public spot filter.
type Subscription struct {
	Topic  string
	Filter *SpotFilter
}

// Topic subscribes to a plain topic such as "orderBookL2_25.BTCUSD".
func Topic(name string) Subscription {
	return Subscription{Topic: name}
}

// Topics wraps several plain topics.
func Topics(names ...string) []Subscription {
	subs := make([]Subscription, len(names))
	for i, n := range names {
		subs[i] = Topic(n)
	}
	return subs
}

// SpotTopic subscribes to a public spot topic for symbol.
func SpotTopic(topic, symbol string) Subscription {
	return Subscription{Filter: &SpotFilter{
		Topic:  topic,
		Event:  "sub",
		Params: SpotParams{Symbol: symbol},
	}}
}

// WithKlineType returns a copy with the kline interval set, e.g. "1m".
func (s Subscription) WithKlineType(klineType string) Subscription {
	if s.Filter != nil {
		f := *s.Filter
		f.Params.KlineType = klineType
		s.Filter = &f
	}
	return s
}

// WithDumpScale returns a copy with the merged depth precision set.
func (s Subscription) WithDumpScale(dumpScale string) Subscription {
	if s.Filter != nil {
		f := *s.Filter
		f.Params.DumpScale = dumpScale
		s.Filter = &f
	}
	return s
}

// IsFilter reports whether s is a structured public spot filter.
func (s Subscription) IsFilter() bool {
	return s.Filter != nil
}

// Key returns the buffer key: the plain topic, or the canonical spot topic for the given
// version suffix.
func (s Subscription) Key(version string) string {
	if s.Filter == nil {
		return s.Topic
	}
	return spotTopic(s.Filter.Topic, version, s.Filter.Params.KlineType, s.Filter.Params.DumpScale, s.Filter.Params.Symbol)
}

// withEvent returns the filter frame with event set, e.g. "cancel" for unsubscribing.
func (f SpotFilter) withEvent(event string) SpotFilter {
	f.Event = event
	return f
}

// spotTopic builds topic + version + [.klineType | .dumpScale] + .symbol,
// e.g. klineV2.1m.BTCUSDT or mergedDepthV1.1.BTCUSDT.
func spotTopic(topic, version, klineType, dumpScale, symbol string) string {
	var sb strings.Builder
	sb.WriteString(topic)
	sb.WriteString(version)
	switch {
	case klineType != "":
		sb.WriteByte('.')
		sb.WriteString(klineType)
	case dumpScale != "":
		sb.WriteByte('.')
		sb.WriteString(dumpScale)
	}
	sb.WriteByte('.')
	sb.WriteString(symbol)
	return sb.String()
}
