package capture

import "errors"

var (
	ErrMissingFaceView    = errors.New("capture: missing face view")
	ErrMissingPrimaryView = errors.New("capture: missing primary view")
	ErrDuplicateFaceView  = errors.New("capture: duplicate face view")
)
