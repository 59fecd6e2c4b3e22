package replay

import "errors"

// Sentinel kinds for replay errors. Either one means the stored match log
// is internally inconsistent; the replay aborts rather than produce
// rankings from a partially applied history.
var (
	ErrUnknownPlayer  = errors.New("unknown player id")
	ErrMalformedMatch = errors.New("malformed match")
)
