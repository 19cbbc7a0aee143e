package repository

import "errors"

var (
	ErrInvalidRecordData = errors.New("invalid recording data")
)
