// Package cmd builds the denoiser's single cobra command: flag declaration, viper binding,
// and the run logic that wires config loading, the fetcher, the worker pool, and the
// denoiser together. Mirrors the teacher's cmd/run/run.go flag-declaration-plus-PreRun
// binding shape, collapsed to one command since this tool has a single verb.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/lucastoro/denoiser/internal/denoise/artifact"
	"github.com/lucastoro/denoiser/internal/denoise/denoiser"
	"github.com/lucastoro/denoiser/internal/denoise/fetch"
	"github.com/lucastoro/denoiser/internal/denoise/pool"
	"github.com/lucastoro/denoiser/pkg/cmd/util"
	"github.com/lucastoro/denoiser/pkg/config"
	pkgerrors "github.com/lucastoro/denoiser/pkg/errors"
	"github.com/lucastoro/denoiser/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	configFlag    = "config"
	stdinFlag     = "stdin"
	directoryFlag = "directory"
	noLinesFlag   = "no-lines"
	jobsFlag      = "jobs"
	verboseFlag   = "verbose"
	profileFlag   = "profile"
	debugFlag     = "debug"
)

// NewRootCommand builds the denoiser's command, with every flag of spec.md §6's CLI surface
// declared and bound to viper in PreRunE.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "denoise",
		Short: "Remove lines from a target log that already appear in its reference logs",
		Long: `denoise removes every line from a target artifact that, after a configurable
normalization pass, also appears in one or more reference artifacts (earlier runs of the same
job). What remains is the subsequence of lines unique to the target run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: run,
	}

	flags := cmd.Flags()
	flags.StringP(configFlag, "c", "", "read the configuration from the given file")
	flags.Bool(stdinFlag, false, "read the configuration from standard input")
	flags.StringP(directoryFlag, "d", "", "change to this directory before running")
	flags.BoolP(noLinesFlag, "n", false, "omit leading line numbers from the output")
	flags.IntP(jobsFlag, "j", 0, "override the worker pool size (default: hardware parallelism)")
	flags.BoolP(verboseFlag, "v", false, "enable info-level logging")
	flags.BoolP(profileFlag, "p", false, "log how long each pipeline stage took")
	flags.BoolP(debugFlag, "g", false, "enable every log level, including debug")

	cmd.PreRunE = func(*cobra.Command, []string) error {
		for _, name := range []string{
			configFlag, stdinFlag, directoryFlag, noLinesFlag, jobsFlag, verboseFlag, profileFlag, debugFlag,
		} {
			util.MustBindPFlag(name, flags.Lookup(name))
		}
		return nil
	}

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	readStdin := viper.GetBool(stdinFlag) || (len(args) == 1 && args[0] == "-")
	configPath := viper.GetString(configFlag)

	if !readStdin && configPath == "" {
		return pkgerrors.Usage("missing argument: --stdin or --config must be specified")
	}

	sink, err := logger.NewConsole(resolveLevels())
	if err != nil {
		return pkgerrors.IO(err, "initializing logger")
	}

	if dir := viper.GetString(directoryFlag); dir != "" {
		if err := os.Chdir(dir); err != nil {
			return pkgerrors.IO(err, "changing directory to %s", dir)
		}
	}

	var r io.Reader
	if readStdin {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(configPath)
		if err != nil {
			return pkgerrors.NotFoundWrap(err, "opening configuration file %s", configPath)
		}
		defer f.Close()
		r = f
	}

	configs, err := config.Load(r)
	if err != nil {
		return err
	}

	sink.Debug(fmt.Sprintf("%d artifacts configured", len(configs)))
	for _, c := range configs {
		sink.Debug(fmt.Sprintf("artifact %s (%s), %d references", c.Alias, c.Target, len(c.References)))
	}

	p := pool.New(viper.GetInt(jobsFlag))
	defer p.Close()

	fetcher := fetch.New()
	noLines := viper.GetBool(noLinesFlag)
	out := cmd.OutOrStdout()

	for _, c := range configs {
		fmt.Fprintf(out, "--- begin %s ---\n", c.Alias)

		d := denoiser.New(c, p, fetcher, sink)
		runErr := d.Run(func(line *artifact.Line) {
			if noLines {
				fmt.Fprintf(out, "%s\n", line.Str())
			} else {
				fmt.Fprintf(out, "%d %s\n", line.Number(), line.Str())
			}
		})

		fmt.Fprintf(out, "--- end %s ---\n", c.Alias)

		if runErr != nil {
			return runErr
		}
	}

	return nil
}

// resolveLevels maps the verbosity flags onto a logger.Level set: --debug enables everything;
// otherwise --verbose adds info-level events and --profile adds stage-timing events on top of
// the default critical/error/warning tier.
func resolveLevels() logger.Level {
	if viper.GetBool(debugFlag) {
		return logger.All
	}

	levels := logger.Default
	if viper.GetBool(verboseFlag) {
		levels |= logger.LevelInfo
	}
	if viper.GetBool(profileFlag) {
		levels |= logger.LevelProfile
	}
	return levels
}
