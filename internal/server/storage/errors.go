package storage

import "errors"

// ErrStore is the single error kind this layer produces for backing-store
// failures: network errors, missing objects, wrong decryption keys, access
// denied. The native error is carried in the message only; callers are not
// expected to interpret backing-store codes.
var ErrStore = errors.New("document store error")
