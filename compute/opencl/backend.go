//go:build opencl

// Package opencl runs the filtered voxelization kernel on an OpenCL device.
package opencl

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/achilleasa/gopencl/v1.2/cl"
	"github.com/achilleasa/vxgi/compute"
	"github.com/achilleasa/vxgi/compute/opencl/device"
	"github.com/achilleasa/vxgi/log"
	"github.com/achilleasa/vxgi/texture"
	"github.com/achilleasa/vxgi/voxel"
)

const kernelName = "filteredVoxelization"

//go:embed kernels/voxelize.cl
var programSource string

// Backend uploads the target grid and capture textures, runs the kernel
// and reads the grid back into the hierarchy before returning.
type Backend struct {
	logger    log.Logger
	device    *device.Device
	kernel    *device.Kernel
	hierarchy *voxel.Hierarchy
	space     voxel.Space

	colorBuf    *device.Buffer
	positionBuf *device.Buffer
	gridBufs    [voxel.NumGrids]*device.Buffer
}

// Create a backend on dev. The device is initialized and owned by the
// returned backend.
func New(dev *device.Device, h *voxel.Hierarchy, space voxel.Space) (*Backend, error) {
	if err := dev.Init(programSource); err != nil {
		return nil, err
	}

	kernel, err := dev.Kernel(kernelName)
	if err != nil {
		dev.Close()
		return nil, err
	}

	b := &Backend{
		logger:      log.New("opencl backend"),
		device:      dev,
		kernel:      kernel,
		hierarchy:   h,
		space:       space,
		colorBuf:    dev.Buffer("color"),
		positionBuf: dev.Buffer("position"),
	}

	// Grid buffers are allocated up front since grid sizes never change.
	for id := voxel.Diffuse1; id < voxel.NumGrids; id++ {
		grid := h.Grid(id)
		if grid.Degenerate() {
			continue
		}
		buf := dev.Buffer(id.String())
		if err = buf.Allocate(4*len(grid.Data), cl.MEM_READ_WRITE); err != nil {
			b.Close()
			return nil, err
		}
		b.gridBufs[id] = buf
	}

	b.logger.Noticef("using device %q (%s, ~%d GFlops)", dev.Name, dev.Type, dev.Speed)
	return b, nil
}

// Return a factory selecting the fastest device whose name contains
// matchName.
func Factory(matchName string) compute.Factory {
	return func(h *voxel.Hierarchy, space voxel.Space) (compute.Backend, error) {
		devices, err := device.SelectDevices(device.AllDevices, matchName)
		if err != nil {
			return nil, err
		}
		if len(devices) == 0 {
			return nil, fmt.Errorf("%w: %q", device.ErrNoDevices, matchName)
		}
		return New(devices[0], h, space)
	}
}

func (b *Backend) Name() string {
	return b.device.Name
}

func (b *Backend) DispatchFilteredVoxelization(grid voxel.GridID, color, position *texture.Texture, tag voxel.Tag) (time.Duration, error) {
	cascade, err := compute.CheckDispatch(b.hierarchy, grid, color, position)
	if err != nil || cascade == nil {
		return 0, err
	}
	gridBuf := b.gridBufs[grid]
	texelCount := len(position.Data)

	if err = device.Upload(b.colorBuf, color.Data, cl.MEM_READ_ONLY); err != nil {
		return 0, err
	}
	if err = device.Upload(b.positionBuf, position.Data, cl.MEM_READ_ONLY); err != nil {
		return 0, err
	}
	if err = device.Upload(gridBuf, cascade.Data, cl.MEM_READ_WRITE); err != nil {
		return 0, err
	}

	err = b.kernel.SetArgs(
		b.colorBuf,
		b.positionBuf,
		gridBuf,
		uint32(cascade.Dim),
		b.space.Boundary,
		uint32(tag),
		uint32(texelCount),
	)
	if err != nil {
		return 0, err
	}

	elapsed, err := b.kernel.Exec1D(texelCount)
	if err != nil {
		return 0, err
	}

	if err = device.Download(gridBuf, cascade.Data); err != nil {
		return 0, err
	}

	b.logger.Debugf("%s: processed %d texels in %s", grid, texelCount, elapsed)
	return elapsed, nil
}

// Release device buffers, the kernel and the device.
func (b *Backend) Close() {
	b.colorBuf.Release()
	b.positionBuf.Release()
	for _, buf := range b.gridBufs {
		if buf != nil {
			buf.Release()
		}
	}
	b.kernel.Release()
	b.device.Close()
}
