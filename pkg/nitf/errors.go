package nitf

import "errors"

var (
	// ErrInvalidArgument marks a caller supplied value that cannot be used,
	// such as a missing data source.
	ErrInvalidArgument = errors.New("nitf: invalid argument")
	// ErrIOFailure marks a stream that ended early, is corrupt at the read
	// position, or whose transport reported an error.
	ErrIOFailure = errors.New("nitf: io failure")
)
