package compute

import "errors"

var (
	ErrTextureSizeMismatch = errors.New("compute: capture texture size does not match grid dimension")
	ErrMissingTexture      = errors.New("compute: missing capture texture")
	ErrUnknownGrid         = errors.New("compute: unknown grid")
)
