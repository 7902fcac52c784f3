package core

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Params are the named request parameters of one REST call.
type Params map[string]any

// Clone returns a shallow copy. A nil receiver yields an empty map.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	maps.Copy(out, p)
	return out
}

// String renders params sorted by key, for logs and error descriptions.
func (p Params) String() string {
	keys := slices.Sorted(maps.Keys(p))
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %v", k, p[k])
	}
	sb.WriteByte('}')
	return sb.String()
}

// Request is a REST call ready to be signed and sent.
type Request struct {
	Operation   Operation         `json:"operation"`
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Params      Params            `json:"params,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	RequireAuth bool              `json:"require_auth"`
	// ParamsInQuery forces non-GET params into the query string.
	ParamsInQuery bool `json:"params_in_query"`
}

func NewRequest(method, path string) *Request {
	return &Request{
		Method:  method,
		Path:    path,
		Params:  make(Params),
		Headers: make(map[string]string),
	}
}

func (r *Request) SetOperation(op Operation) *Request {
	r.Operation = op
	return r
}

func (r *Request) SetParam(key string, value any) *Request {
	if r.Params == nil {
		r.Params = make(Params)
	}
	r.Params[key] = value
	return r
}

func (r *Request) SetParams(params Params) *Request {
	if r.Params == nil {
		r.Params = make(Params)
	}
	maps.Copy(r.Params, params)
	return r
}

func (r *Request) SetHeader(key, value string) *Request {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[key] = value
	return r
}

func (r *Request) SetRequireAuth(require bool) *Request {
	r.RequireAuth = require
	return r
}

func (r *Request) SetParamsInQuery(inQuery bool) *Request {
	r.ParamsInQuery = inQuery
	return r
}

// String describes the request as "METHOD path: params".
func (r *Request) String() string {
	return fmt.Sprintf("%s %s: %s", r.Method, r.Path, r.Params)
}

// FormatValue renders a parameter the way it is signed and sent in a query string.
// Whole floats render without a fraction and decimals lose trailing zeros.
func FormatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case Decimal:
		return val.Canonical()
	case *Decimal:
		return val.Canonical()
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// Query renders non-nil params as query string values.
func (p Params) Query() map[string]string {
	out := make(map[string]string, len(p))
	for k, v := range p {
		if v == nil {
			continue
		}
		out[k] = FormatValue(v)
	}
	return out
}
