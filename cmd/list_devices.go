//go:build opencl

package cmd

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/vxgi/compute"
	"github.com/achilleasa/vxgi/compute/opencl"
	"github.com/achilleasa/vxgi/compute/opencl/device"
	"github.com/achilleasa/vxgi/config"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

func init() {
	backends[config.BackendOpenCL] = func(name string) compute.Factory {
		return opencl.Factory(name)
	}

	Commands = append(Commands, cli.Command{
		Name:   "list-devices",
		Usage:  "list available opencl devices",
		Action: ListDevices,
	})
}

// List available opencl devices grouped by platform.
func ListDevices(ctx *cli.Context) error {
	setupLogging(ctx, nil)

	clPlatforms, err := device.GetPlatformInfo()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Platform", "Device", "Type", "Compute units", "Clock (MHz)", "Speed (GFlops)"})
	for _, p := range clPlatforms {
		platform := fmt.Sprintf("%s (%s)", p.Name, p.Version)
		for _, d := range p.Devices {
			table.Append([]string{
				platform,
				d.Name,
				d.Type.String(),
				fmt.Sprintf("%d", d.ComputeUnits),
				fmt.Sprintf("%d", d.ClockMHz),
				fmt.Sprintf("%d", d.Speed),
			})
		}
	}
	table.Render()

	logger.Noticef("system provides %d opencl platform(s)\n%s", len(clPlatforms), buf.String())
	return nil
}
