package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/sweepr/sweepr/internal/cache"
	"github.com/sweepr/sweepr/internal/output"
	"github.com/sweepr/sweepr/internal/progress"
	"github.com/sweepr/sweepr/internal/scanner"
	"github.com/sweepr/sweepr/pkg/analyzer/deadcode"
	"github.com/sweepr/sweepr/pkg/config"
	"github.com/sweepr/sweepr/pkg/models"
	"github.com/urfave/cli/v2"
)

func checkCmd() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Report unused files, exports, and dependencies",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "entry",
				Aliases: []string{"e"},
				Usage:   "Entry point path or glob (repeatable, overrides config)",
			},
			&cli.BoolFlag{
				Name:  "fail-on-findings",
				Usage: "Exit with code 1 when findings exist (CI use)",
			},
		},
		Action: runCheckCmd,
	}
}

func runCheckCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	result, err := runAnalysis(c, cfg)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}

	if err := renderResult(c, cfg, result); err != nil {
		return err
	}

	if c.Bool("fail-on-findings") && result.HasFindings() {
		return cli.Exit("", 1)
	}
	return nil
}

// loadConfig resolves configuration from the --config flag, the standard
// search locations, or defaults, then applies flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var cfg *config.Config
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrDefault()
	}

	if entries := c.StringSlice("entry"); len(entries) > 0 {
		cfg.Entry = entries
	}
	if format := c.String("format"); format != "" {
		cfg.Output.Format = format
	}
	if c.Bool("verbose") {
		cfg.Output.Verbose = true
	}
	if c.Bool("no-cache") {
		cfg.Cache.Enabled = false
	}
	if workers := c.Int("workers"); workers > 0 {
		cfg.Workers = workers
	}
	return cfg, nil
}

// runAnalysis scans the project and runs the dead code pipeline. A nil
// result with nil error means no source files were found.
func runAnalysis(c *cli.Context, cfg *config.Config) (*models.AnalysisResult, error) {
	root, err := filepath.Abs(getRoot(c))
	if err != nil {
		return nil, fmt.Errorf("invalid path %s: %w", getRoot(c), err)
	}

	scan := scanner.NewScanner(cfg)
	files, err := scan.ScanDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	if len(files) == 0 {
		color.Yellow("No source files found")
		return nil, nil
	}

	opts := []deadcode.Option{
		deadcode.WithEntries(cfg.Entry),
		deadcode.WithAliases(cfg.Aliases),
		deadcode.WithExtensions(cfg.Extensions),
		deadcode.WithTypeOnlyUsage(cfg.Policy.TypeOnlyUsage),
		deadcode.WithIgnoreDynamic(cfg.Policy.DynamicImports == "ignore"),
		deadcode.WithCycleDetection(cfg.Rules.Cycles),
		deadcode.WithWorkers(cfg.Workers),
	}

	if cfg.Cache.Enabled {
		descCache, err := cache.New(filepath.Join(root, cfg.Cache.Dir), cfg.Cache.TTL, true)
		if err != nil {
			color.Yellow("Cache disabled: %v", err)
		} else {
			opts = append(opts, deadcode.WithCache(descCache))
		}
	}

	showProgress := progress.Enabled(os.Stderr) && c.String("output") == ""
	tracker := progress.NewTracker("Parsing files...", len(files), showProgress)
	opts = append(opts, deadcode.WithProgress(tracker.Tick))

	analyzer := deadcode.New(root, opts...)
	defer analyzer.Close()

	result, err := analyzer.Analyze(context.Background(), files)
	tracker.Finish()
	if err != nil {
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	return result, nil
}

// renderResult writes the analysis result in the configured format.
// Structured formats get the raw result; text and markdown get tables.
func renderResult(c *cli.Context, cfg *config.Config, result *models.AnalysisResult) error {
	format := output.ParseFormat(cfg.Output.Format)
	formatter, err := output.NewFormatter(format, c.String("output"), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if format == output.FormatJSON || format == output.FormatTOON {
		return formatter.Output(result)
	}

	report := buildReport(cfg, result)
	if err := formatter.Output(report); err != nil {
		return err
	}

	if result.HasFindings() {
		formatter.Warning("%s", summaryLine(result))
	} else {
		formatter.Success("No unused code found (%d files analyzed)", result.Summary.TotalFiles)
	}
	return nil
}

// buildReport assembles the finding tables, honoring rule toggles.
func buildReport(cfg *config.Config, result *models.AnalysisResult) *output.Report {
	report := &output.Report{
		Title: "Sweepr Report",
		Data:  result,
	}

	if cfg.Rules.Files && len(result.UnusedFiles) > 0 {
		rows := make([][]string, 0, len(result.UnusedFiles))
		for _, f := range result.UnusedFiles {
			rows = append(rows, []string{f})
		}
		report.Parts = append(report.Parts, output.NewTable(
			"Unused Files",
			[]string{"File"},
			rows,
			nil,
			nil,
		))
	}

	if cfg.Rules.Exports && len(result.UnusedExports) > 0 {
		rows := make([][]string, 0, len(result.UnusedExports))
		for _, exp := range result.UnusedExports {
			location := exp.File
			if exp.Line > 0 {
				location = fmt.Sprintf("%s:%d", exp.File, exp.Line)
			}
			rows = append(rows, []string{location, exp.Name})
		}
		report.Parts = append(report.Parts, output.NewTable(
			"Unused Exports",
			[]string{"Location", "Symbol"},
			rows,
			nil,
			nil,
		))
	}

	if cfg.Rules.Dependencies {
		if len(result.UnusedDependencies) > 0 {
			rows := make([][]string, 0, len(result.UnusedDependencies))
			for _, dep := range result.UnusedDependencies {
				rows = append(rows, []string{dep.Name, dep.Section})
			}
			report.Parts = append(report.Parts, output.NewTable(
				"Unused Dependencies",
				[]string{"Package", "Section"},
				rows,
				nil,
				nil,
			))
		}
		if len(result.UndeclaredDependencies) > 0 {
			rows := make([][]string, 0, len(result.UndeclaredDependencies))
			for _, name := range result.UndeclaredDependencies {
				rows = append(rows, []string{name})
			}
			report.Parts = append(report.Parts, output.NewTable(
				"Undeclared Dependencies",
				[]string{"Package"},
				rows,
				nil,
				nil,
			))
		}
	}

	if len(result.Diagnostics) > 0 {
		rows := make([][]string, 0, len(result.Diagnostics))
		for _, d := range result.Diagnostics {
			location := d.File
			if d.Line > 0 {
				location = fmt.Sprintf("%s:%d", d.File, d.Line)
			}
			rows = append(rows, []string{string(d.Kind), location, d.Detail})
		}
		report.Parts = append(report.Parts, output.NewTable(
			"Diagnostics",
			[]string{"Kind", "Location", "Detail"},
			rows,
			nil,
			nil,
		))
	}

	if cfg.Output.Verbose && len(result.Cycles) > 0 {
		rows := make([][]string, 0, len(result.Cycles))
		for _, cycle := range result.Cycles {
			rows = append(rows, []string{strings.Join(cycle, " -> ")})
		}
		report.Parts = append(report.Parts, output.NewTable(
			"Circular Imports",
			[]string{"Cycle"},
			rows,
			nil,
			nil,
		))
	}

	return report
}

func summaryLine(result *models.AnalysisResult) string {
	s := result.Summary
	return fmt.Sprintf("%d unused files, %d unused exports, %d unused dependencies across %d files",
		s.UnusedFiles, s.UnusedExports, s.UnusedDependencies, s.TotalFiles)
}
