package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"sfvtool/internal/config"
	"sfvtool/internal/manifest"
	"sfvtool/internal/progress"
	"sfvtool/internal/sfv"
	"sfvtool/internal/verify"
)

func createCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "hash files and write a manifest",
		ArgsUsage: "PATH...",
		Description: `Hash every PATH and write one "<path> <crc32>" line per file after a
";created using <tool>" header. Paths are stored exactly as given.

The manifest goes to stdout unless --output is set. Output files are
written atomically; names ending in .zst are zstd-compressed.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "manifest file to write instead of stdout",
			},
			&cli.StringFlag{
				Name:  "tool",
				Usage: "tool name written in the header (overrides config)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				return fmt.Errorf("create: at least one PATH is required")
			}

			tool := a.cfg.ToolName
			if cmd.IsSet("tool") {
				tool = cmd.String("tool")
				if err := config.ValidateToolName(tool); err != nil {
					return err
				}
			}

			var bar *progress.Bar
			if a.cfg.Progress {
				records := make([]sfv.Record, 0, len(paths))
				for _, p := range paths {
					records = append(records, sfv.NewRecord(p, 0))
				}
				var err error
				bar, err = progress.New(cmd.Root().ErrWriter, "hashing", verify.TotalBytes(records), nil)
				if err != nil {
					return err
				}
			}

			c := manifest.NewCreator(
				manifest.WithToolName(tool),
				manifest.WithHashOptions(
					sfv.WithBufferSize(a.cfg.BufferSize),
					sfv.WithProgress(bar.AddBytes),
				),
			)

			for _, p := range paths {
				if err := ctx.Err(); err != nil {
					bar.Close()
					return err
				}
				if err := c.AddPath(p); err != nil {
					bar.Close()
					a.log.Errorw("hash failed", "path", p, "error", err)
					return err
				}
				a.log.Debugw("hashed", "path", p)
			}
			bar.Close()

			out := cmd.String("output")
			if out == "" {
				if _, err := c.WriteTo(cmd.Root().Writer); err != nil {
					return err
				}
			} else if err := c.WriteFile(out); err != nil {
				return err
			}

			a.log.Infow("manifest created", "records", c.Len(), "output", out, "tool", tool)
			return nil
		},
	}
}
