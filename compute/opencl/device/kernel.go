//go:build opencl

package device

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/achilleasa/gopencl/v1.2/cl"
)

// Kernel is a compiled entry point of the device program.
type Kernel struct {
	device *Device
	handle cl.Kernel
	name   string

	globalSize [1]uint64
}

// Release the kernel handle.
func (k *Kernel) Release() {
	if k.handle != nil {
		cl.ReleaseKernel(k.handle)
		k.handle = nil
	}
}

// Bind args to the kernel parameters in order. Buffers and 32-bit scalars
// are supported.
func (k *Kernel) SetArgs(args ...interface{}) error {
	for index, arg := range args {
		var errCode cl.ErrorCode
		switch v := arg.(type) {
		case *Buffer:
			handle := v.Handle()
			errCode = cl.SetKernelArg(k.handle, uint32(index), 8, unsafe.Pointer(&handle))
		case int32:
			errCode = cl.SetKernelArg(k.handle, uint32(index), 4, unsafe.Pointer(&v))
		case uint32:
			errCode = cl.SetKernelArg(k.handle, uint32(index), 4, unsafe.Pointer(&v))
		case float32:
			errCode = cl.SetKernelArg(k.handle, uint32(index), 4, unsafe.Pointer(&v))
		default:
			return fmt.Errorf("opencl device (%s): kernel %s: arg %d has unsupported type %T", k.device.Name, k.name, index, arg)
		}

		if errCode != cl.SUCCESS {
			return k.error(fmt.Sprintf("could not set arg %d", index), errCode)
		}
	}
	return nil
}

// Run the kernel over items work items and block until it completes. The
// work group size is left to the opencl implementation.
func (k *Kernel) Exec1D(items int) (time.Duration, error) {
	k.globalSize[0] = uint64(items)

	start := time.Now()
	errCode := cl.EnqueueNDRangeKernel(k.device.cmdQueue, k.handle, 1, nil, &k.globalSize[0], nil, 0, nil, nil)
	if errCode != cl.SUCCESS {
		return 0, k.error("enqueue failed", errCode)
	}
	if errCode = cl.Finish(k.device.cmdQueue); errCode != cl.SUCCESS {
		return 0, k.error("did not complete", errCode)
	}
	return time.Since(start), nil
}

func (k *Kernel) error(what string, errCode cl.ErrorCode) error {
	return fmt.Errorf("opencl device (%s): kernel %s: %s (error: %s; code %d)", k.device.Name, k.name, what, ErrorName(errCode), errCode)
}
