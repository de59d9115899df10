package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/achilleasa/vxgi/asset"
	"github.com/achilleasa/vxgi/voxel"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render the requested number of frames and write the hierarchy to a zip
// archive.
func DumpVoxels(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	setupLogging(ctx, cfg)

	s, err := newSession(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	for frame := 0; frame < ctx.Int("frames"); frame++ {
		if _, err = s.renderFrame(frame); err != nil {
			return err
		}
	}

	f, err := os.Create(ctx.String("out"))
	if err != nil {
		return err
	}
	defer f.Close()

	snap := s.renderer.Snapshot()
	if err = voxel.WriteSnapshot(f, snap); err != nil {
		return err
	}
	logger.Noticef("wrote voxel snapshot to %s", ctx.String("out"))
	displayOccupancy(snap)
	return nil
}

// Display per-grid occupancy for a snapshot archive.
func VoxelInfo(ctx *cli.Context) error {
	setupLogging(ctx, nil)

	if ctx.NArg() != 1 {
		return errors.New("missing snapshot file argument")
	}

	res, err := asset.NewResource(ctx.Args().First(), nil)
	if err != nil {
		return err
	}
	defer res.Close()

	snap, err := voxel.ReadSnapshot(res)
	if err != nil {
		return err
	}
	displayOccupancy(snap)
	return nil
}

func displayOccupancy(snap *voxel.Snapshot) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Grid", "Dimension", "Voxel size", "Occupied", "% of cells"})

	for id := voxel.Diffuse1; id < voxel.NumGrids; id++ {
		grid := snap.Hierarchy.Grid(id)
		cells := len(grid.Data)
		occupied := grid.Occupancy()
		percent := float32(0)
		if cells > 0 {
			percent = 100 * float32(occupied) / float32(cells)
		}
		table.Append([]string{
			id.String(),
			fmt.Sprintf("%d", grid.Dim),
			fmt.Sprintf("%.3f", snap.Space.VoxelSize(grid.Dim)),
			fmt.Sprintf("%d", occupied),
			fmt.Sprintf("%02.1f %%", percent),
		})
	}
	table.SetFooter([]string{"", "", "", "TIMESTAMP", fmt.Sprintf("%d", snap.Timestamp)})

	table.Render()
	logger.Noticef("voxel occupancy\n%s", buf.String())
}
