package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"sfvtool/internal/manifest"
	"sfvtool/internal/metrics"
	"sfvtool/internal/progress"
	"sfvtool/internal/report"
	"sfvtool/internal/verify"
)

func checkCmd(a *app) *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "verify every file listed in a manifest",
		ArgsUsage: "MANIFEST",
		Description: `Load MANIFEST, recompute the CRC-32 of every listed file and compare it
with the recorded one. Lines starting with ';' are comments.

Exit status is 0 when every file matches, 1 when any file is changed,
missing or unreadable, and 2 when the manifest itself cannot be loaded.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "workers",
				Usage: "files checked concurrently (overrides config)",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "report format: text or json (overrides config)",
			},
			&cli.StringFlag{
				Name:  "template",
				Usage: "text report line for each failure, e.g. \"{status} {path}\"",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "write Prometheus textfile metrics here (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "fail-fast",
				Usage: "stop after the first failed record",
			},
			&cli.BoolFlag{
				Name:  "stats",
				Usage: "print run statistics to stderr",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("check: exactly one MANIFEST is required")
			}
			path := cmd.Args().First()

			cfg := a.cfg
			if cmd.IsSet("workers") {
				cfg.Workers = cmd.Int("workers")
			}
			if cmd.IsSet("format") {
				cfg.Report.Format = cmd.String("format")
			}
			if cmd.IsSet("template") {
				cfg.Report.Template = cmd.String("template")
			}
			if cmd.IsSet("metrics-file") {
				cfg.MetricsFile = cmd.String("metrics-file")
			}

			rw, err := report.NewWriter(cfg.Report.Format, cfg.Report.Template)
			if err != nil {
				return err
			}

			v, err := manifest.Load(path)
			if err != nil {
				a.log.Errorw("load manifest failed", "manifest", path, "error", err)
				return err
			}
			records := v.Records()
			a.log.Infow("manifest loaded", "manifest", path, "records", len(records))

			stats := &metrics.Stats{TotalBytes: verify.TotalBytes(records)}
			stats.Start()

			var bar *progress.Bar
			if cfg.Progress {
				bar, err = progress.New(cmd.Root().ErrWriter, "checking", stats.TotalBytes, stats.Snapshot)
				if err != nil {
					return err
				}
			}

			res, verr := verify.Verify(ctx, records, verify.Options{
				Workers:    cfg.Workers,
				BufferSize: cfg.BufferSize,
				FailFast:   cmd.Bool("fail-fast"),
			}, stats, bar)
			bar.Close()
			stats.Stop()

			for _, f := range res.Failures {
				a.log.Warnw("record failed",
					"path", f.Record.Path(),
					"status", f.Status,
					"expected", f.Record.ChecksumHex(),
					"computed", f.ComputedHex(),
					"error", f.Err)
			}

			if err := rw.Write(cmd.Root().Writer, report.New(path, res)); err != nil {
				return err
			}
			if cmd.Bool("stats") {
				metrics.Print(cmd.Root().ErrWriter, stats)
			}
			if cfg.MetricsFile != "" {
				if err := metrics.WriteTextfile(cfg.MetricsFile, stats, path); err != nil {
					a.log.Errorw("write metrics failed", "file", cfg.MetricsFile, "error", err)
				}
			}

			snap := stats.Snapshot()
			a.log.Infow("check finished",
				"manifest", path,
				"checked", res.Checked,
				"failed", len(res.Failures),
				"bytes", snap.BytesHashed,
				"duration_ms", snap.DurationMs)

			if verr != nil {
				return verr
			}
			if !res.OK() {
				return cli.Exit("", ExitFailed)
			}
			return nil
		},
	}
}
