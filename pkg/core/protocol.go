package core

import "time"

// Protocol turns operations into signed requests and raw responses into envelopes.
// Session depends on this interface so the wire details stay in one package.
type Protocol interface {
	// BuildRequest resolves the endpoint for op and validates params.
	// Missing required parameters and unknown operations are usage errors.
	BuildRequest(op Operation, params Params) (*Request, error)

	// SignRequest adds api_key, recv_window, timestamp and sign to req.Params.
	SignRequest(req *Request, creds *Credentials, recvWindow int, now time.Time) error

	// ParseResponse decodes the body into the envelope. A non-zero ret_code is
	// returned as an API error alongside the decoded envelope.
	ParseResponse(req *Request, statusCode int, body []byte) (*Response, error)
}
