package scheduler

import "errors"

// ErrStopped is returned by After once Stop has been called.
var ErrStopped = errors.New("scheduler stopped")
