package renderer

import (
	"time"

	"github.com/achilleasa/vxgi/compositor"
	"github.com/achilleasa/vxgi/voxel"
)

type VoxelizationStat struct {
	// The target grid and the tag attached to the written samples.
	Grid voxel.GridID
	Tag  voxel.Tag

	// Number of kernel dispatches; 0 if the grid is degenerate.
	Dispatches int

	// Time spent rendering face captures and running the kernel.
	CaptureTime  time.Duration
	DispatchTime time.Duration
}

type FrameStats struct {
	// Frame counter and scheduler state after the frame was rendered.
	Frame     int
	Timestamp int
	Cursor    voxel.GridID

	// Individual voxelization passes in issue order.
	Voxelizations []VoxelizationStat

	// Compositor stage timings.
	Stages []compositor.StageStat

	// Time spent rendering the primary view.
	PrimaryTime time.Duration

	// Total render time for entire frame.
	RenderTime time.Duration
}

// Total number of kernel dispatches for the frame.
func (s FrameStats) Dispatches() int {
	total := 0
	for _, v := range s.Voxelizations {
		total += v.Dispatches
	}
	return total
}
