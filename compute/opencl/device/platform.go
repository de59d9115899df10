//go:build opencl

package device

import (
	"sort"
	"strings"
	"unsafe"

	"github.com/achilleasa/gopencl/v1.2/cl"
)

const (
	maxPlatforms = 16
	maxDevices   = 64
	infoBufSize  = 1024
)

// PlatformInfo describes an opencl platform and the devices it exposes.
type PlatformInfo struct {
	Name    string
	Vendor  string
	Version string
	Devices []*Device
}

// Enumerate the opencl platforms and their GPU and CPU devices. Device
// speed estimates are populated.
func GetPlatformInfo() ([]PlatformInfo, error) {
	var pidCount uint32
	pids := make([]cl.PlatformID, maxPlatforms)
	cl.GetPlatformIDs(uint32(len(pids)), &pids[0], &pidCount)

	var n uint64
	buf := make([]byte, infoBufSize)
	bufPtr, bufLen := unsafe.Pointer(&buf[0]), uint64(len(buf))

	ids := make([]cl.DeviceId, maxDevices)
	infoList := make([]PlatformInfo, 0, pidCount)
	for _, pid := range pids[:pidCount] {
		var info PlatformInfo
		cl.GetPlatformInfo(pid, cl.PLATFORM_NAME, bufLen, bufPtr, &n)
		info.Name = cString(buf, n)
		cl.GetPlatformInfo(pid, cl.PLATFORM_VENDOR, bufLen, bufPtr, &n)
		info.Vendor = cString(buf, n)
		cl.GetPlatformInfo(pid, cl.PLATFORM_VERSION, bufLen, bufPtr, &n)
		info.Version = cString(buf, n)

		addDevices := func(typ DeviceType, count uint32) error {
			for _, id := range ids[:count] {
				cl.GetDeviceInfo(id, cl.DEVICE_NAME, bufLen, bufPtr, &n)
				dev := &Device{Name: cString(buf, n), Id: id, Type: typ}
				if err := dev.detectSpeed(); err != nil {
					return err
				}
				info.Devices = append(info.Devices, dev)
			}
			return nil
		}

		var count uint32
		cl.GetDeviceIDs(pid, cl.DEVICE_TYPE_GPU, uint32(len(ids)), &ids[0], &count)
		if err := addDevices(GpuDevice, count); err != nil {
			return nil, err
		}
		count = 0
		cl.GetDeviceIDs(pid, cl.DEVICE_TYPE_CPU, uint32(len(ids)), &ids[0], &count)
		if err := addDevices(CpuDevice, count); err != nil {
			return nil, err
		}

		infoList = append(infoList, info)
	}

	return infoList, nil
}

// Convert a NUL-terminated info string.
func cString(data []byte, n uint64) string {
	if n == 0 {
		return ""
	}
	return strings.TrimSpace(string(data[:n-1]))
}

// Select the devices matching typeMask whose name contains matchName. The
// fastest device comes first.
func SelectDevices(typeMask DeviceType, matchName string) ([]*Device, error) {
	platforms, err := GetPlatformInfo()
	if err != nil {
		return nil, err
	}

	var list []*Device
	for _, p := range platforms {
		for _, d := range p.Devices {
			if d.Type&typeMask == d.Type && strings.Contains(d.Name, matchName) {
				list = append(list, d)
			}
		}
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Speed > list[j].Speed
	})
	return list, nil
}
