package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sigil/internal/diag"
	"sigil/internal/diagfmt"
	"sigil/internal/driver"
	"sigil/internal/project"
	"sigil/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.sig|directory>",
	Short: "Resolve annotations in a file or directory",
	Long:  `Check resolves every annotation in the given *.sig file (or all *.sig files within a directory) and reports diagnostics`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	checkCmd.Flags().Bool("no-cache", false, "disable the persistent snapshot cache")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("types", false, "print the resolved type of every annotation")
}

// runCheck executes the "check" command: it loads the project manifest,
// checks the given path, renders results in the chosen format, and exits
// non-zero when any diagnostics contain errors.
func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	showTypes, err := cmd.Flags().GetBool("types")
	if err != nil {
		return fmt.Errorf("failed to get types flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %q: %w", path, err)
	}

	opts := driver.Options{MaxDiagnostics: maxDiagnostics, Jobs: jobs}
	if manifestPath, ok, err := project.FindSigilToml(path); err != nil {
		return err
	} else if ok {
		opts.Manifest, err = project.LoadManifest(manifestPath)
		if err != nil {
			return err
		}
	}
	if !noCache {
		cache, err := driver.OpenSnapshotCache("sigil")
		if err == nil {
			opts.Cache = cache
		}
		// Не получилось открыть кеш — работаем без него.
	}

	var (
		fileSet *source.FileSet
		results []*driver.Result
	)
	if info.IsDir() {
		fileSet, results, err = driver.CheckDir(cmd.Context(), path, opts)
	} else {
		fileSet = source.NewFileSet()
		var res *driver.Result
		res, err = driver.CheckFile(cmd.Context(), fileSet, path, opts)
		if res != nil {
			results = []*driver.Result{res}
		}
	}
	if err != nil {
		return err
	}

	limit := maxDiagnostics
	if limit <= 0 {
		limit = opts.Manifest.Check.MaxDiagnostics
	}
	if limit <= 0 {
		limit = project.DefaultMaxDiagnostics
	}
	out := cmd.OutOrStdout()
	merged := diag.NewBag(limit)
	for _, res := range results {
		merged.Merge(res.Bag)
	}
	merged.Sort()

	if showTypes && format == "pretty" {
		for _, res := range results {
			for _, line := range res.Lines {
				fmt.Fprintf(out, "%s:%d: %s\n", res.Path, line.Line, line.Label)
			}
		}
	}

	switch format {
	case "json":
		if err := diagfmt.JSON(out, merged, fileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     withNotes,
		}); err != nil {
			return err
		}
	default:
		diagfmt.Pretty(out, merged, fileSet, diagfmt.PrettyOpts{
			Color:     useColor(),
			ShowNotes: withNotes,
		})
	}

	if merged.HasErrors() {
		os.Exit(1)
	}
	return nil
}
