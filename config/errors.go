package config

import "errors"

var (
	ErrInvalidOption     = errors.New("config: invalid option")
	ErrUnsupportedFormat = errors.New("config: unsupported file format")
)
