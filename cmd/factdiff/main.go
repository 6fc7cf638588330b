package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	fcolor "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/emenda-labs/factdiff/core/cli"
	"github.com/emenda-labs/factdiff/core/diff"
	factoriodriver "github.com/emenda-labs/factdiff/drivers/factorio"
	"github.com/emenda-labs/factdiff/pkg/apiclient"
	"github.com/emenda-labs/factdiff/pkg/docversion"
	"github.com/emenda-labs/factdiff/pkg/notify"
	"github.com/emenda-labs/factdiff/pkg/report"
)

const version = "0.1.0"

// createOutput opens the --output file.
var createOutput = func(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and returns the process exit code. Reports go to stdout,
// status lines and diagnostics to stderr.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, cli.ErrDifferences) {
		notify.Errorf(stderr, "%v", err)
	}
	return cli.ExitCode(err)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	runDiff := func(ctx context.Context, opts cli.DiffOptions) error {
		return runDiffCmd(ctx, opts, stdout, stderr)
	}

	runVersions := func(ctx context.Context, opts cli.VersionsOptions) error {
		applyColor(opts.NoColor)
		log := cli.NewLogger(opts.Verbose, stderr)
		client := apiclient.NewClient(opts.BaseURL, apiclient.WithLogger(log))

		versions, err := factoriodriver.NewDriver(client, log).ListVersions(ctx)
		if err != nil {
			return err
		}
		if opts.Limit > 0 && len(versions) > opts.Limit {
			versions = versions[:opts.Limit]
		}
		for _, v := range versions {
			fmt.Fprintln(stdout, v)
		}
		return nil
	}

	root := cli.NewRootCmd(version)
	root.AddCommand(cli.NewDiffCmd(runDiff))
	root.AddCommand(cli.NewVersionsCmd(runVersions))

	return root
}

// applyColor turns colour off for every writer, status lines included, when
// --no-color is set.
func applyColor(noColor bool) {
	if noColor {
		fcolor.NoColor = true
	}
}

func runDiffCmd(ctx context.Context, opts cli.DiffOptions, stdout, stderr io.Writer) error {
	applyColor(opts.NoColor)
	log := cli.NewLogger(opts.Verbose, stderr)
	client := apiclient.NewClient(opts.BaseURL, apiclient.WithLogger(log))
	drv := factoriodriver.NewDriver(client, log, factoriodriver.WithStage(opts.Stage))

	if docversion.IsDowngrade(opts.Source, opts.Target) {
		notify.Warningf(stderr, "target version %s is older than source version %s", opts.Target, opts.Source)
	}

	notify.Activityf(stderr, "Loading %s API %s and %s...", opts.Stage, opts.Source, opts.Target)
	old, new, err := drv.LoadPair(ctx, opts.Source, opts.Target)
	if err != nil {
		return err
	}

	oldInfo, newInfo := report.InfoOf(old), report.InfoOf(new)
	notify.Infof(stderr, "source: %s @ %s: %s (api %d)", oldInfo.Application, oldInfo.Version, oldInfo.Stage, oldInfo.APIVersion)
	notify.Infof(stderr, "target: %s @ %s: %s (api %d)", newInfo.Application, newInfo.Version, newInfo.Stage, newInfo.APIVersion)

	cs, err := diff.Diff(old, new, diff.Options{
		IgnoreTypeAnnotations: opts.IgnoreTypes,
		CompareOrder:          opts.Order,
		Parallel:              opts.Parallel,
	})
	if err != nil {
		return err
	}

	r := report.Report{Source: oldInfo, Target: newInfo, Changes: cs}
	if err := writeReport(opts, r, stdout); err != nil {
		return err
	}

	if cs.IsEmpty() {
		notify.Successf(stderr, "no differences")
		return nil
	}

	total := 0
	for _, n := range cs.Counts() {
		total += n.Total()
	}
	notify.Infof(stderr, "%d top-level entities changed", total)
	return cli.ErrDifferences
}

// writeReport renders r to --output, or to stdout when no file is given. Only
// stdout output is coloured.
func writeReport(opts cli.DiffOptions, r report.Report, stdout io.Writer) error {
	if opts.Output == "" {
		color := !opts.NoColor && !fcolor.NoColor
		return report.Write(stdout, opts.Format, r, report.Options{Color: color})
	}

	f, err := createOutput(opts.Output)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}

	writeErr := report.Write(f, opts.Format, r, report.Options{})
	closeErr := f.Close()
	if writeErr != nil {
		return writeErr
	}
	if closeErr != nil {
		return fmt.Errorf("closing output file: %w", closeErr)
	}
	return nil
}
