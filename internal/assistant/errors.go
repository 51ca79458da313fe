package assistant

import "errors"

var (
	ErrTransport      = errors.New("assistant service unreachable")
	ErrBadStatus      = errors.New("assistant service returned non-success status")
	ErrMalformedReply = errors.New("assistant service returned malformed reply")
)
