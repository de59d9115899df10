package renderer

import "errors"

var (
	ErrNoBackend    = errors.New("renderer: no voxelization backend")
	ErrNoCaptureRig = errors.New("renderer: no capture rig attached")
	ErrClosed       = errors.New("renderer: renderer has been closed")
)
