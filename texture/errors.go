package texture

import "errors"

var (
	ErrUnsupportedFormat = errors.New("texture: unsupported output format")
)
