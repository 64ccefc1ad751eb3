package contract

import "errors"

// ErrDuplicate is returned by Create when a uniqueness constraint rejects
// the row. Callers treat it as "someone else created it first" and re-read.
var ErrDuplicate = errors.New("duplicate record")
