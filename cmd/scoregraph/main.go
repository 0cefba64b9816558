// Command scoregraph drives a score graph from a script of commands.
//
// Usage:
//
//	scoregraph [flags] [script]
//
// Commands are read one per line from script, or stdin when omitted. Lines
// starting with '#' are ignored. Type 'help' in a script for the command list.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/dd0wney/cluso-scoregraph/pkg/config"
	"github.com/dd0wney/cluso-scoregraph/pkg/logging"
	"github.com/dd0wney/cluso-scoregraph/pkg/metrics"
	"github.com/dd0wney/cluso-scoregraph/pkg/scoregraph"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run returns the process exit status: 0 on success, 1 when any script line
// failed, 2 for usage or setup errors.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("scoregraph", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.StringP("config", "c", "", "YAML config file")
	config.RegisterFlags(fs)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: scoregraph [flags] [script]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath, fs)
	if err != nil {
		fmt.Fprintln(stderr, errorStyle.Render("invalid configuration: "+err.Error()))
		return 2
	}

	logger := logging.NewJSONLogger(stderr, cfg.Level())

	var (
		registry *metrics.Registry
		recorder scoregraph.Recorder
	)
	if cfg.Metrics {
		registry = metrics.NewRegistry()
		recorder = registry
	}

	eng, err := newEngine(cfg, logger, recorder)
	if err != nil {
		logger.Error("failed to build engine", logging.Error(err))
		return 2
	}
	if c, ok := eng.(io.Closer); ok {
		defer c.Close()
	}

	input := stdin
	if fs.NArg() == 1 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			logger.Error("failed to open script", logging.String("path", fs.Arg(0)), logging.Error(err))
			return 2
		}
		defer f.Close()
		input = f
	}

	r := newRunner(eng, stdout, logger)
	failures, err := r.run(input)
	if err != nil {
		logger.Error("failed to read script", logging.Error(err))
		return 2
	}

	if registry != nil {
		if err := registry.WriteText(stdout); err != nil {
			logger.Error("failed to write metrics", logging.Error(err))
		}
	}

	if failures > 0 {
		logger.Warn("script finished with errors", logging.Count(failures))
		return 1
	}
	return 0
}

// newEngine builds the configured variant.
func newEngine(cfg config.Config, logger logging.Logger, recorder scoregraph.Recorder) (engine, error) {
	opts := cfg.EngineOptions(logger, recorder)
	switch scoregraph.Variant(cfg.Variant) {
	case scoregraph.VariantGeneral:
		return scoregraph.NewGeneral(opts)
	default:
		return scoregraph.NewForest(opts)
	}
}
