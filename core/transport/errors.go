package transport

import "errors"

// ErrNotConfigured is returned by Emit when SetConfig has not succeeded.
var ErrNotConfigured = errors.New("transport not configured")
