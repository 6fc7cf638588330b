package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/emenda-labs/factdiff/core/docmodel"
	"github.com/emenda-labs/factdiff/pkg/apiclient"
	"github.com/emenda-labs/factdiff/pkg/docversion"
	"github.com/emenda-labs/factdiff/pkg/report"
)

// DiffOptions holds the resolved settings for "diff".
type DiffOptions struct {
	Source      string
	Target      string
	Stage       docmodel.Stage
	IgnoreTypes bool
	Order       bool
	Parallel    bool
	Format      report.Format
	Output      string
	BaseURL     string
	Verbose     bool
	NoColor     bool
}

// DiffRunFunc is the function signature for the diff command handler.
// It is injected by the wiring layer (cmd/factdiff/main.go).
type DiffRunFunc func(ctx context.Context, opts DiffOptions) error

// NewDiffCmd creates the "diff" subcommand.
func NewDiffCmd(runFunc DiffRunFunc) *cobra.Command {
	var opts DiffOptions
	v := newViper()

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare two documentation versions",
		Long: "Compare two versions of the runtime API documentation and print the change set.\n\n" +
			"A reference is a runtime-api.json path, a .zip path (optionally path.zip:member),\n" +
			"a version such as 1.1.110, or \"latest\". --stage picks the runtime-api.json or\n" +
			"prototype-api.json export for versions and archives.",
		Example: "  factdiff diff --source 1.1.100\n" +
			"  factdiff diff --source old/runtime-api.json --target new/runtime-api.json --format text\n" +
			"  factdiff diff --source docs.zip:1.1.110/runtime-api.json --ignore-types --format summary\n" +
			"  factdiff diff --stage prototype --source 1.1.100 --target 1.1.110",
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(cmd, v); err != nil {
				return err
			}
			resolved, err := resolveDiffOptions(v)
			if err != nil {
				return err
			}
			opts = resolved
			return validateDiffFlags(opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFunc(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringP("source", "s", "", "Base documentation reference (required)")
	cmd.Flags().StringP("target", "t", docversion.Latest, "Documentation reference to compare against")
	cmd.Flags().String("stage", string(docmodel.StageRuntime), "Documentation stage: runtime or prototype")
	cmd.Flags().Bool("ignore-types", false, "Ignore changes that only affect type annotations")
	cmd.Flags().Bool("order", false, "Also report changes to the documentation order of entities")
	cmd.Flags().Bool("parallel", false, "Diff top-level collections concurrently")
	cmd.Flags().StringP("format", "f", string(report.FormatJSON), "Output format: json, yaml, text or summary")
	cmd.Flags().StringP("output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().String("base-url", apiclient.DefaultBaseURL, "Documentation host(s), comma-separated, tried in order")

	return cmd
}

func resolveDiffOptions(v viperGetter) (DiffOptions, error) {
	format, err := report.ParseFormat(v.GetString("format"))
	if err != nil {
		return DiffOptions{}, fmt.Errorf("--format: %w", err)
	}
	stage, err := docmodel.ParseStage(v.GetString("stage"))
	if err != nil {
		return DiffOptions{}, fmt.Errorf("--stage: %w", err)
	}

	return DiffOptions{
		Source:      v.GetString("source"),
		Target:      v.GetString("target"),
		Stage:       stage,
		IgnoreTypes: v.GetBool("ignore-types"),
		Order:       v.GetBool("order"),
		Parallel:    v.GetBool("parallel"),
		Format:      format,
		Output:      v.GetString("output"),
		BaseURL:     v.GetString("base-url"),
		Verbose:     v.GetBool(flagVerbose),
		NoColor:     v.GetBool(flagNoColor),
	}, nil
}

// viperGetter is the subset of *viper.Viper the option resolvers read from.
type viperGetter interface {
	GetString(key string) string
	GetBool(key string) bool
	GetInt(key string) int
}

func validateDiffFlags(opts DiffOptions) error {
	if opts.Source == "" {
		return fmt.Errorf("--source is required")
	}
	if opts.Target == "" {
		return fmt.Errorf("--target must not be empty")
	}

	if opts.Output != "" {
		dir := filepath.Dir(opts.Output)
		info, err := os.Stat(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("output directory does not exist: %s", dir)
			}
			return fmt.Errorf("cannot access output directory: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("output directory is not a directory: %s", dir)
		}
	}

	return nil
}
