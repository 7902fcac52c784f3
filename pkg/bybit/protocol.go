package bybit

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/bytedance/sonic"

	"bybitconn/pkg/core"
)

// Protocol implements core.Protocol for one contract type of the legacy REST API.
type Protocol struct {
	contract  core.ContractType
	endpoints map[core.Operation]Endpoint
}

// NewProtocol creates a protocol routing operations for contract.
func NewProtocol(contract core.ContractType) *Protocol {
	return &Protocol{
		contract:  contract,
		endpoints: Endpoints(contract),
	}
}

// Contract returns the contract type the protocol routes for.
func (p *Protocol) Contract() core.ContractType {
	return p.contract
}

// Supports reports whether op has a route for this contract type.
func (p *Protocol) Supports(op core.Operation) bool {
	_, ok := p.endpoints[op]
	return ok
}

// Endpoint returns the route for op.
func (p *Protocol) Endpoint(op core.Operation) (Endpoint, bool) {
	ep, ok := p.endpoints[op]
	return ep, ok
}

// BuildRequest resolves the route for op and normalizes params.
// Unknown operations and missing required parameters are usage errors.
func (p *Protocol) BuildRequest(op core.Operation, params core.Params) (*core.Request, error) {
	ep, ok := p.endpoints[op]
	if !ok {
		return nil, core.NewUsageError(core.ErrUnsupportedOperation,
			fmt.Sprintf("%s for contract type %s", op, p.contract))
	}

	normalized := normalizeParams(op, params)
	for _, name := range ep.Required {
		if v, ok := normalized[name]; !ok || v == "" {
			return nil, core.NewUsageError(core.ErrMissingParameter,
				fmt.Sprintf("%s requires %q", op, name))
		}
	}

	req := core.NewRequest(ep.Method, ep.Path).
		SetOperation(op).
		SetParams(normalized).
		SetRequireAuth(ep.Auth).
		SetParamsInQuery(p.contract == core.ContractSpot)
	return req, nil
}

// aliases maps the keyword-safe parameter names callers use onto the exchange's "from".
var aliases = map[core.Operation]string{
	core.OpQueryKline:             "from_time",
	core.OpQueryMarkPriceKline:    "from_time",
	core.OpQueryIndexPriceKline:   "from_time",
	core.OpQueryPremiumIndexKline: "from_time",
	core.OpPublicTradingRecords:   "from_id",
	core.OpWalletFundRecords:      "from_id",
}

func normalizeParams(op core.Operation, params core.Params) core.Params {
	out := make(core.Params, len(params))
	for k, v := range params {
		if v == nil {
			continue
		}
		out[k] = normalizeValue(v)
	}
	if alias, ok := aliases[op]; ok {
		if v, ok := out[alias]; ok {
			out["from"] = v
			delete(out, alias)
		}
	}
	return out
}

// normalizeValue makes values render the same in the signature, the query string and the JSON body.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1<<53 {
			return int64(val)
		}
	case float32:
		if f := float64(val); f == math.Trunc(f) && math.Abs(f) < 1<<24 {
			return int64(f)
		}
	case core.Decimal:
		return json.Number(val.Canonical())
	case *core.Decimal:
		return json.Number(val.Canonical())
	case core.Side, core.OrderType, core.TimeInForce:
		return core.FormatValue(val)
	}
	return v
}

// SignRequest adds api_key, recv_window, timestamp and sign to the request params.
func (p *Protocol) SignRequest(req *core.Request, creds *core.Credentials, recvWindow int, now time.Time) error {
	if !creds.Valid() {
		return core.ErrNoCredentials
	}
	req.SetParam("api_key", creds.APIKey)
	req.SetParam("recv_window", recvWindow)
	req.SetParam("timestamp", now.UnixMilli())
	req.SetParam("sign", Sign(creds.SecretKey, CanonicalString(req.Params)))
	return nil
}

// ParseResponse decodes the envelope. A non-zero ret_code comes back as an API error
// together with the decoded envelope.
func (p *Protocol) ParseResponse(req *core.Request, statusCode int, body []byte) (*core.Response, error) {
	var resp core.Response
	if err := sonic.Unmarshal(body, &resp); err != nil {
		return nil, core.NewError(core.ErrorTypeProtocol, "could not decode JSON").
			Wrap(err).
			WithStatus(statusCode).
			WithRequest(req.String())
	}

	if resp.RetCode != core.CodeOK {
		return &resp, core.NewAPIError(resp.RetCode, resp.RetMsg).
			WithStatus(statusCode).
			WithRequest(req.String())
	}

	if statusCode >= 400 {
		return nil, core.NewError(core.ErrorTypeProtocol, fmt.Sprintf("unexpected HTTP status %d", statusCode)).
			WithStatus(statusCode).
			WithRequest(req.String())
	}

	return &resp, nil
}
