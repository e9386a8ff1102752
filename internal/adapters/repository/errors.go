package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrUnsupportedDriver = errors.New("unsupported database driver")
	ErrOpen              = errors.New("open database failed")
	ErrNotStaged         = errors.New("staging table does not exist")
)
