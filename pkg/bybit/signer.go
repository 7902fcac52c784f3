package bybit

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"bybitconn/pkg/core"
)

// CanonicalString joins params as k=v pairs sorted by key, skipping sign and nil values.
func CanonicalString(params core.Params) string {
	keys := slices.Sorted(maps.Keys(params))
	var sb strings.Builder
	for _, k := range keys {
		v := params[k]
		if k == "sign" || v == nil {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(core.FormatValue(v))
	}
	return sb.String()
}

// Sign returns the lowercase hex HMAC-SHA256 of payload.
func Sign(secret, payload string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}

// websocketAuthArgs builds the args of the websocket auth frame.
// The signature covers "GET/realtime" followed by an expiry one second ahead.
func websocketAuthArgs(creds *core.Credentials, now time.Time) []any {
	expires := now.Add(time.Second).UnixMilli()
	signature := Sign(creds.SecretKey, "GET/realtime"+strconv.FormatInt(expires, 10))
	return []any{creds.APIKey, expires, signature}
}
