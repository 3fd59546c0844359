package database

import "errors"

// ErrNotReady signals the pool has not completed its startup ping.
var ErrNotReady = errors.New("database not ready")
