package events

import "errors"

// ErrBusClosed is returned by Publish after Close
var ErrBusClosed = errors.New("event bus is closed")
