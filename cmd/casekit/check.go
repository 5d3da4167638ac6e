package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/srg/casekit/internal/assembler"
	"github.com/srg/casekit/internal/luabind"
	"github.com/srg/casekit/internal/model"
	"github.com/srg/casekit/internal/registry"
	"github.com/srg/casekit/pkg/config"
	"github.com/srg/casekit/pkg/eval"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <path>...",
	Short: "Validate case files",
	Long: `Load case files, expand api/suite references, and report what resolved.

Dependencies are discovered relative to the first path: a sibling
"dependencies" folder with api/ and suite/ subfolders. Each file is
validated independently; a broken file is reported and the rest of the
run continues.

With --script, a Lua preference script supplies fallback $variable and
${function()} bindings and every resolved case is evaluated end to end.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

var (
	checkFormat    string
	checkRecursive bool
	checkDepsDir   string
	checkScript    string
	checkVerbose   bool
)

func init() {
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "table", "Output format (table, json)")
	checkCmd.Flags().BoolVarP(&checkRecursive, "recursive", "r", true, "Descend into subfolders when a path is a directory")
	checkCmd.Flags().StringVar(&checkDepsDir, "deps", "dependencies", "Name of the shared dependencies folder")
	checkCmd.Flags().StringVar(&checkScript, "script", "", "Lua preference script with variable/function bindings")
	checkCmd.Flags().BoolVar(&checkVerbose, "verbose", false, "Enable debug logging")
}

// fileReport is the per-file outcome of a check run.
type fileReport struct {
	File     string   `json:"file"`
	Name     string   `json:"name"`
	Cases    int      `json:"cases"`
	Problems []string `json:"problems,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	// Validate format parameter
	validFormats := []string{"table", "json"}
	isValidFormat := false
	for _, format := range validFormats {
		if checkFormat == format {
			isValidFormat = true
			break
		}
	}
	if !isValidFormat {
		return fmt.Errorf("invalid format '%s': must be one of %v", checkFormat, validFormats)
	}

	// Configure logger based on --log-level and --verbose flags
	logger, err := configureLogger(cmd, "verbose")
	if err != nil {
		return err
	}

	// All arguments validated - don't show usage on runtime errors
	cmd.SilenceUsage = true

	cfg := config.DefaultConfig()
	cfg.OutputFormat = checkFormat
	cfg.Recursive = checkRecursive
	cfg.DependenciesDir = checkDepsDir

	l := assembler.New(registry.NewStore(logger), cfg, logger)
	if err := l.LoadDependencies(args[0]); err != nil {
		return fmt.Errorf("failed to load dependencies: %w", err)
	}

	var evaluator *eval.Evaluator
	if checkScript != "" {
		resolver, err := luabind.NewScriptResolver(checkScript, logger)
		if err != nil {
			return fmt.Errorf("failed to load preference script: %w", err)
		}
		defer resolver.Close()
		evaluator = eval.New(logger, resolver)
	}

	sets := l.LoadFiles(args...)
	reports := buildReports(sets, evaluator, logger)

	out := cmd.OutOrStdout()
	switch checkFormat {
	case "json":
		err = displayReportsJSON(out, reports)
	default:
		err = displayReportsTable(out, reports)
	}
	if err != nil {
		return err
	}

	degraded := 0
	for _, r := range reports {
		if len(r.Problems) > 0 {
			degraded++
		}
	}
	if degraded > 0 {
		return fmt.Errorf("%d of %d case file(s) had problems", degraded, len(reports))
	}
	return nil
}

func buildReports(sets []*model.TestSet, evaluator *eval.Evaluator, logger *logrus.Logger) []fileReport {
	reports := make([]fileReport, 0, len(sets))
	for _, ts := range sets {
		r := fileReport{
			File:  ts.FilePath,
			Name:  ts.Name,
			Cases: len(ts.Cases),
		}
		for _, d := range ts.Diagnostics {
			r.Problems = append(r.Problems, d.Error())
		}
		if evaluator != nil {
			for _, cb := range ts.Cases {
				if _, err := evaluator.Evaluate(map[string]any(cb)); err != nil {
					logger.WithFields(logrus.Fields{
						"file": ts.FilePath,
						"case": cb["name"],
					}).WithError(err).Debug("case evaluation failed")
					r.Problems = append(r.Problems, fmt.Sprintf("%v: %v", cb["name"], err))
				}
			}
		}
		reports = append(reports, r)
	}
	return reports
}

func displayReportsTable(out io.Writer, reports []fileReport) error {
	if len(reports) == 0 {
		fmt.Fprintln(out, "No case files found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tNAME\tCASES\tSTATUS")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	warn := color.New(color.FgYellow)
	fail := color.New(color.FgRed)

	for _, r := range reports {
		status := "ok"
		if len(r.Problems) > 0 {
			status = fail.Sprintf("%d problem(s)", len(r.Problems))
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", r.File, r.Name, r.Cases, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, r := range reports {
		for _, p := range r.Problems {
			fmt.Fprintf(out, "%s %s: %s\n", warn.Sprint("WARN"), r.File, p)
		}
	}
	return nil
}

func displayReportsJSON(out io.Writer, reports []fileReport) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(reports)
}
