package conversation

import "errors"

var (
	ErrClosed      = errors.New("conversation store closed")
	ErrNotAwaiting = errors.New("no request in flight")
	ErrEmptyResult = errors.New("result carries neither reply nor error")
)
