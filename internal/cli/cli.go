package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"

	"github.com/vk/rdfworkflow/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := pflag.NewFlagSet("rdfworkflow", pflag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.SortFlags = false

	flagSet.Usage = func() {
		fmt.Fprint(output, `
rdfworkflow - Generates, compiles and runs dataframe computation graphs.

Usage:
  rdfworkflow [options] [GRAPH_PATH...]

Arguments:
  GRAPH_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	graphFlag := flagSet.StringArrayP("graph", "g", nil, "Path to a graph file or directory. May be repeated.")
	workDirFlag := flagSet.String("workdir", ".rdfworkflow", "Directory holding generated units and their index.")
	inputFlag := flagSet.String("input", "", "Arrow IPC file written by a Snapshot to use as the dataset.")
	entriesFlag := flagSet.Int("entries", 0, "Number of entries of the generated dataset when no input is given.")
	rangesFlag := flagSet.Int("ranges", 1, "Number of entry ranges the dataset is split into.")
	workersFlag := flagSet.Int("workers", 0, "Maximum number of ranges processed concurrently. 0 runs all at once.")
	compilerFlag := flagSet.String("compiler", "", "External command validating each generated unit, e.g. 'c++ -fsyntax-only -x c++ {file}'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	paths := append(append([]string(nil), *graphFlag...), flagSet.Args()...)
	slog.Debug("Graph paths determined.", "paths", paths)

	if len(paths) == 0 {
		slog.Debug("No graph path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		GraphPaths: paths,
		WorkDir:    *workDirFlag,
		InputPath:  *inputFlag,
		Entries:    *entriesFlag,
		Ranges:     *rangesFlag,
		Workers:    *workersFlag,
		Compiler:   *compilerFlag,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
