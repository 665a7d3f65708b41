package record

import stderrors "errors"

// ErrTruncated is returned when a shared or individual block ends before
// its declared fields are fully read.
var ErrTruncated = stderrors.New("record: truncated block")

// ErrFieldCountMismatch is returned when an individual block's decoded
// FORMAT field count does not match the shared block's declared n_fmt.
var ErrFieldCountMismatch = stderrors.New("record: individual block field count does not match n_fmt")

// ErrTrailingBytes is returned when an individual block has unconsumed
// bytes after n_fmt fields have been decoded.
var ErrTrailingBytes = stderrors.New("record: individual block has trailing bytes")
