package cmd

import "github.com/urfave/cli"

// Flags shared by the commands that build a renderer.
var rendererFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "config, c",
		Usage: "scene and pipeline config file (toml, yaml or json; local path or http url)",
	},
	cli.StringFlag{
		Name:  "computation",
		Usage: "diffuse, specular, diffuse_specular or voxelization",
	},
	cli.StringFlag{
		Name:  "method",
		Usage: "cone tracing method: realistic or approximate",
	},
	cli.StringFlag{
		Name:  "samples",
		Usage: "diffuse cone density: low, medium or high",
	},
	cli.IntFlag{
		Name:  "width",
		Usage: "frame width",
	},
	cli.IntFlag{
		Name:  "height",
		Usage: "frame height",
	},
	cli.StringFlag{
		Name:  "backend",
		Usage: "voxelization backend: cpu or opencl",
	},
	cli.StringFlag{
		Name:  "device",
		Usage: "select the opencl device whose name contains this value",
	},
	cli.IntFlag{
		Name:  "frames, n",
		Value: 1,
		Usage: "number of frames to render",
	},
}

// Commands lists the CLI commands. Optional backends append their own
// commands at init time.
var Commands = []cli.Command{
	{
		Name:  "render",
		Usage: "render a box scene with voxel based global illumination",
		Description: `
Voxelize the static objects of the scene, render the requested number of
frames while dynamic objects are re-voxelized incrementally and save the
output image. The image format is selected by the file extension (png or webp).`,
		Flags: append([]cli.Flag{
			cli.StringFlag{
				Name:  "out, o",
				Value: "frame.png",
				Usage: "image filename for the rendered frame",
			},
			cli.BoolFlag{
				Name:  "all",
				Usage: "save every frame using a numbered filename",
			},
		}, rendererFlags...),
		Action: RenderFrames,
	},
	{
		Name:  "voxels",
		Usage: "inspect the voxel hierarchy",
		Subcommands: []cli.Command{
			{
				Name:  "dump",
				Usage: "render frames and write the voxel hierarchy to a zip archive",
				Flags: append([]cli.Flag{
					cli.StringFlag{
						Name:  "out, o",
						Value: "voxels.zip",
						Usage: "snapshot filename",
					},
				}, rendererFlags...),
				Action: DumpVoxels,
			},
			{
				Name:      "info",
				Usage:     "display grid occupancy for a snapshot archive",
				ArgsUsage: "voxels.zip",
				Action:    VoxelInfo,
			},
		},
	},
	{
		Name:  "watch",
		Usage: "re-render the scene whenever the config file changes",
		Flags: append([]cli.Flag{
			cli.StringFlag{
				Name:  "out, o",
				Value: "frame.png",
				Usage: "image filename for the rendered frame",
			},
		}, rendererFlags...),
		Action: Watch,
	},
}
