package breaker

import "errors"

// ErrInvalidSettings is returned by Settings.Validate for negative thresholds or windows.
var ErrInvalidSettings = errors.New("breaker: invalid settings")
