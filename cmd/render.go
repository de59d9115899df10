package cmd

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/vxgi/renderer"
	"github.com/achilleasa/vxgi/texture"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a sequence of frames and save the last one (or all of them).
func RenderFrames(ctx *cli.Context) error {
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

	frames := ctx.Int("frames")
	if frames < 1 {
		frames = 1
	}
	out := ctx.String("out")
	saveAll := ctx.Bool("all")

	for frame := 0; frame < frames; frame++ {
		img, err := s.renderFrame(frame)
		if err != nil {
			return err
		}

		if saveAll {
			if err = texture.Save(img, framePath(out, frame)); err != nil {
				return err
			}
		} else if frame == frames-1 {
			if err = texture.Save(img, out); err != nil {
				return err
			}
		}
	}

	displayFrameStats(s.renderer.Stats())
	return nil
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Stage", "Grid", "Tag", "Dispatches", "Time"})
	for _, v := range stats.Voxelizations {
		table.Append([]string{
			"voxelize",
			v.Grid.String(),
			fmt.Sprintf("%d", v.Tag),
			fmt.Sprintf("%d", v.Dispatches),
			fmt.Sprintf("%s", v.CaptureTime+v.DispatchTime),
		})
	}
	table.Append([]string{"primary view", "", "", "", fmt.Sprintf("%s", stats.PrimaryTime)})
	for _, stage := range stats.Stages {
		table.Append([]string{stage.Name, "", "", "", fmt.Sprintf("%s", stage.Time)})
	}
	table.SetFooter([]string{
		fmt.Sprintf("frame %d", stats.Frame),
		stats.Cursor.String(),
		fmt.Sprintf("ts %d", stats.Timestamp),
		"TOTAL",
		fmt.Sprintf("%s", stats.RenderTime),
	})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
