//go:build opencl

package device

import (
	"fmt"
	"unsafe"

	"github.com/achilleasa/gopencl/v1.2/cl"
)

// HostData lists the element types that can be moved between host slices
// and device buffers: voxel words, kernel scalars and float4 texels.
type HostData interface {
	~uint32 | ~int32 | ~float32 | ~[4]float32
}

// Buffer is a named device allocation.
type Buffer struct {
	device *Device
	name   string

	handle cl.Mem
	size   int
}

// Allocate size bytes with the given flags. An existing allocation with the
// same size is reused.
func (b *Buffer) Allocate(size int, flags cl.MemFlags) error {
	if b.handle != nil && b.size == size {
		return nil
	}
	b.Release()

	var errCode cl.ErrorCode
	b.handle = cl.CreateBuffer(*b.device.ctx, flags, cl.MemFlags(size), nil, (*int32)(&errCode))
	if errCode != cl.SUCCESS {
		b.handle = nil
		return b.error(fmt.Sprintf("could not allocate %d bytes", size), errCode)
	}

	b.size = size
	return nil
}

// Release the device allocation.
func (b *Buffer) Release() {
	if b.handle != nil {
		cl.ReleaseMemObject(b.handle)
		b.handle = nil
		b.size = 0
	}
}

// Get opencl buffer handle.
func (b *Buffer) Handle() cl.Mem {
	return b.handle
}

func (b *Buffer) error(what string, errCode cl.ErrorCode) error {
	return fmt.Errorf("opencl device (%s): buffer %s: %s (error: %s; code %d)", b.device.Name, b.name, what, ErrorName(errCode), errCode)
}

// Resize b to fit data and copy data to the device. The copy blocks until
// it completes.
func Upload[T HostData](b *Buffer, data []T, flags cl.MemFlags) error {
	ptr, size, err := hostSlice(b, data)
	if err != nil {
		return err
	}
	if err = b.Allocate(size, flags); err != nil {
		return err
	}

	errCode := cl.EnqueueWriteBuffer(b.device.cmdQueue, b.handle, cl.TRUE, 0, uint64(size), ptr, 0, nil, nil)
	if errCode != cl.SUCCESS {
		return b.error("host to device copy failed", errCode)
	}
	return nil
}

// Copy the buffer contents into out. The buffer must hold at least as many
// bytes as out.
func Download[T HostData](b *Buffer, out []T) error {
	ptr, size, err := hostSlice(b, out)
	if err != nil {
		return err
	}
	if b.handle == nil || size > b.size {
		return fmt.Errorf("opencl device (%s): buffer %s holds %d bytes; cannot read %d", b.device.Name, b.name, b.size, size)
	}

	errCode := cl.EnqueueReadBuffer(b.device.cmdQueue, b.handle, cl.TRUE, 0, uint64(size), ptr, 0, nil, nil)
	if errCode != cl.SUCCESS {
		return b.error("device to host copy failed", errCode)
	}
	return nil
}

func hostSlice[T HostData](b *Buffer, data []T) (unsafe.Pointer, int, error) {
	if len(data) == 0 {
		return nil, 0, fmt.Errorf("opencl device (%s): buffer %s: empty host slice", b.device.Name, b.name)
	}
	return unsafe.Pointer(unsafe.SliceData(data)), len(data) * int(unsafe.Sizeof(data[0])), nil
}
