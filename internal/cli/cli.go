package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/queryfuncs/internal/app"
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

// stringList collects the values of a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("queryfuncs", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
queryfuncs - Evaluate query expressions against the built-in function registry.

Usage:
  queryfuncs [options] [EXPRESSION...]

Arguments:
  EXPRESSION
    An expression such as 'upper("abc")'. Each one is evaluated and its
    result printed as JSON on its own line.

Options:
`)
		flagSet.PrintDefaults()
	}

	var configPaths, envFiles, expressions stringList
	flagSet.Var(&configPaths, "config", "Path to an .hcl configuration file or directory. Repeatable.")
	flagSet.Var(&envFiles, "env-file", "Path to a dotenv file providing "+app.EnvTimezone+". Repeatable.")
	flagSet.Var(&expressions, "expr", "Expression to evaluate. Repeatable.")
	flagSet.Var(&expressions, "e", "Expression to evaluate (shorthand).")
	listFlag := flagSet.Bool("list", false, "Print every registered function name and alias.")
	timezoneFlag := flagSet.String("timezone", "", "Timezone for date functions. Overrides the configuration file.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	expressions = append(expressions, flagSet.Args()...)
	if len(expressions) == 0 && !*listFlag {
		slog.Debug("Nothing to evaluate, printing usage and exiting.")
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
		ConfigPaths:   configPaths,
		EnvFiles:      envFiles,
		Expressions:   expressions,
		ListFunctions: *listFlag,
		Timezone:      *timezoneFlag,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
