package bybit

import "fmt"

// TransportError indicates the request never produced a usable HTTP response:
// connection failures, timeouts, body read failures.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("bybit: request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// BadStatusError indicates the exchange answered with an HTTP status outside
// the allowed set for the endpoint.
type BadStatusError struct {
	StatusCode int
	Body       string
}

func (e *BadStatusError) Error() string {
	return fmt.Sprintf("bybit: http status %d: %s", e.StatusCode, e.Body)
}

// InvalidContentError indicates the exchange answered 2xx but the payload is
// unusable: malformed JSON, a non-zero retCode, or a missing result envelope.
type InvalidContentError struct {
	RetCode int
	Message string
}

func (e *InvalidContentError) Error() string {
	if e.RetCode != 0 {
		return fmt.Sprintf("bybit: api error retCode=%d: %s", e.RetCode, e.Message)
	}
	return fmt.Sprintf("bybit: invalid response content: %s", e.Message)
}
