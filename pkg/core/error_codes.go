package core

import "errors"

// Exchange ret_code values the client treats specially.
const (
	CodeOK                  = 0
	CodeRequestExpired      = 10002
	CodeInvalidAPIKey       = 10003
	CodeInvalidSign         = 10004
	CodePermissionDenied    = 10005
	CodeTooManyRequests     = 10006
	CodeConnectServerFailed = 10016
	CodeIPRateLimited       = 10018
	CodeOrderNotFound       = 30034
	CodeTooFastToCancel     = 30035
	CodeAPIKeyExpired       = 33004
	CodeTooFrequentToCancel = 130035
	CodeTryAgainLater       = 130150
)

// retryableCodes are the non-fatal codes the exchange documents as transient.
var retryableCodes = map[int]struct{}{
	CodeRequestExpired:      {},
	CodeTooManyRequests:     {},
	CodeConnectServerFailed: {},
	CodeOrderNotFound:       {},
	CodeTooFastToCancel:     {},
	CodeTooFrequentToCancel: {},
	CodeTryAgainLater:       {},
}

// IsRetryableCode reports whether a ret_code is known to be transient.
// The client never retries on its own; this is for the caller's policy.
func IsRetryableCode(code int) bool {
	_, ok := retryableCodes[code]
	return ok
}

// TypeForCode maps a ret_code to an error category.
func TypeForCode(code int) ErrorType {
	switch code {
	case CodeInvalidAPIKey, CodeInvalidSign, CodePermissionDenied, CodeAPIKeyExpired:
		return ErrorTypeAuthentication
	case CodeTooManyRequests, CodeIPRateLimited:
		return ErrorTypeRateLimit
	default:
		return ErrorTypeAPI
	}
}

// IsErrorCode checks if the error carries the given exchange ret_code.
func IsErrorCode(err error, code int) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
