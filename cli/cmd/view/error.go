package view

import "errors"

// Sentinel errors.
var ErrNoRecords = errors.New("no log records to view")
