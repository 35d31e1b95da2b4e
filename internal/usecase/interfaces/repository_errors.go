package interfaces

import "errors"

// ErrConditionFailed is returned by repositories when a conditional write lost:
// the key already exists on insert, or the stored status is not the expected one.
var ErrConditionFailed = errors.New("conditional write failed")
