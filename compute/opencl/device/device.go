//go:build opencl

// Package device wraps the OpenCL platform, device, kernel and buffer
// handles used by the voxelization backend.
package device

import (
	"fmt"
	"unsafe"

	"github.com/achilleasa/gopencl/v1.2/cl"
)

type DeviceType uint8

// Supported device types.
const (
	CpuDevice DeviceType = 1 << iota
	GpuDevice
	OtherDevice
	AllDevices DeviceType = 0xFF
)

const buildLogSize = 64 * 1024

func (dt DeviceType) String() string {
	switch dt {
	case CpuDevice:
		return "CPU"
	case GpuDevice:
		return "GPU"
	case OtherDevice:
		return "Other"
	}
	return fmt.Sprintf("DeviceType(%d)", uint8(dt))
}

// Device is an opencl device together with the context, queue and program
// created by Init.
type Device struct {
	Name string
	Id   cl.DeviceId
	Type DeviceType

	ComputeUnits uint32
	ClockMHz     uint32

	// Speed estimate in GFlops.
	Speed uint32

	ctx      *cl.Context
	cmdQueue cl.CommandQueue
	program  cl.Program
}

func (d *Device) error(what string, errCode cl.ErrorCode) error {
	return fmt.Errorf("opencl device (%s): %s (error: %s; code %d)", d.Name, what, ErrorName(errCode), errCode)
}

// Create a context and command queue and build programSource. Calling Init
// on an initialized device is a no-op. A failed build returns an error
// wrapping ErrBuildFailed that carries the compiler log.
func (d *Device) Init(programSource string) (err error) {
	if d.ctx != nil {
		return nil
	}
	defer func() {
		if err != nil {
			d.Close()
		}
	}()

	var errCode cl.ErrorCode
	d.ctx = cl.CreateContext(nil, 1, &d.Id, nil, nil, (*int32)(&errCode))
	if errCode != cl.SUCCESS {
		return d.error("could not create context", errCode)
	}

	d.cmdQueue = cl.CreateCommandQueue(*d.ctx, d.Id, 0, (*int32)(&errCode))
	if errCode != cl.SUCCESS {
		return d.error("could not create command queue", errCode)
	}

	src := cl.Str(programSource + "\x00")
	d.program = cl.CreateProgramWithSource(*d.ctx, 1, &src, nil, (*int32)(&errCode))
	if errCode != cl.SUCCESS {
		return d.error("could not create program", errCode)
	}

	if errCode = cl.BuildProgram(d.program, 1, &d.Id, cl.Str("\x00"), nil, nil); errCode != cl.SUCCESS {
		var n uint64
		log := make([]byte, buildLogSize)
		cl.GetProgramBuildInfo(d.program, d.Id, cl.PROGRAM_BUILD_LOG, uint64(len(log)), unsafe.Pointer(&log[0]), &n)
		return fmt.Errorf("%w: %s (error: %s; code %d):\n%s", ErrBuildFailed, d.Name, ErrorName(errCode), errCode, cString(log, n))
	}
	return nil
}

// Release the program, command queue and context.
func (d *Device) Close() {
	if d.program != nil {
		cl.ReleaseProgram(d.program)
		d.program = nil
	}
	if d.cmdQueue != nil {
		cl.ReleaseCommandQueue(d.cmdQueue)
		d.cmdQueue = nil
	}
	if d.ctx != nil {
		cl.ReleaseContext(d.ctx)
		d.ctx = nil
	}
}

// Look up a kernel of the built program by name.
func (d *Device) Kernel(name string) (*Kernel, error) {
	var errCode cl.ErrorCode
	handle := cl.CreateKernel(d.program, cl.Str(name+"\x00"), (*int32)(&errCode))
	if errCode != cl.SUCCESS {
		return nil, d.error(fmt.Sprintf("could not load kernel %s", name), errCode)
	}
	return &Kernel{device: d, handle: handle, name: name}, nil
}

// Create an unallocated named buffer.
func (d *Device) Buffer(name string) *Buffer {
	return &Buffer{device: d, name: name}
}

// Estimate device speed as compute units * 2 ops/cycle * clock.
func (d *Device) detectSpeed() error {
	errCode := cl.GetDeviceInfo(d.Id, cl.DEVICE_MAX_COMPUTE_UNITS, 4, unsafe.Pointer(&d.ComputeUnits), nil)
	if errCode != cl.SUCCESS {
		return d.error("could not query MAX_COMPUTE_UNITS", errCode)
	}
	errCode = cl.GetDeviceInfo(d.Id, cl.DEVICE_MAX_CLOCK_FREQUENCY, 4, unsafe.Pointer(&d.ClockMHz), nil)
	if errCode != cl.SUCCESS {
		return d.error("could not query MAX_CLOCK_FREQUENCY", errCode)
	}
	d.Speed = 2 * d.ComputeUnits * d.ClockMHz / 1000
	return nil
}
