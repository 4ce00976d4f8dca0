package wire

import "fmt"

// DecodeError is a request the decoder could not frame.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("wire: %s: %v", e.Reason, e.Err)
	}
	return "wire: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

func malformed(reason string, err error) error {
	return &DecodeError{Reason: reason, Err: err}
}

// OversizedRequestError is a body above the aggregation limit. Declared is
// the Content-Length, or -1 when the body was chunked.
type OversizedRequestError struct {
	Limit    int64
	Declared int64
}

func (e *OversizedRequestError) Error() string {
	if e.Declared < 0 {
		return fmt.Sprintf("wire: chunked body exceeds %d bytes", e.Limit)
	}
	return fmt.Sprintf("wire: content-length %d exceeds %d bytes", e.Declared, e.Limit)
}
