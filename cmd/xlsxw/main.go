// Command xlsxw builds .xlsx workbooks from CSV files and inspects existing
// packages.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/UNO-SOFT/zlog/v2"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/peterbourgon/ff/v3/ffyaml"
)

var verbose zlog.VerboseVar
var logger = zlog.NewLogger(zlog.MaybeConsoleHandler(&verbose, os.Stderr)).SLog()

func main() {
	if err := Main(); err != nil {
		slog.Error("MAIN", "error", err)
		os.Exit(1)
	}
}

func Main() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return run(ctx, os.Args[1:], os.Stdout)
}

// run parses args and executes the selected subcommand, writing reports to
// stdout.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("xlsxw", flag.ContinueOnError)
	fs.Var(&verbose, "v", "logging verbosity")
	_ = fs.String("config", "", "YAML config file")

	options := []ff.Option{
		ff.WithEnvVarPrefix("XLSXW"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ffyaml.Parser),
		ff.WithAllowMissingConfigFile(true),
	}

	app := ffcli.Command{
		Name:       "xlsxw",
		ShortUsage: "xlsxw [-v] [-config file.yaml] <subcommand> [flags] args...",
		FlagSet:    fs,
		Options:    options,
		Subcommands: []*ffcli.Command{
			newCSVCommand(options),
			newInspectCommand(stdout),
		},
		Exec: func(ctx context.Context, args []string) error {
			return flag.ErrHelp
		},
	}
	if err := app.ParseAndRun(ctx, args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("xlsxw: %w", err)
	}
	return nil
}
