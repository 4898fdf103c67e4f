package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"junon/pkg/compiler"
	"junon/pkg/config"
	"junon/pkg/diagnostics"
	"junon/pkg/logs"
	"junon/pkg/utils"
)

var (
	cfgFile string
	verbose bool
	strict  bool
	noColor bool

	cfg       *config.Config
	logger    *slog.Logger
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "junonc",
	Short: "Junon compiler front end",
	Long: `junonc tokenizes, checks and parses Junon source files.

Commands:
  tokens   - print the token stream of a file
  parse    - print the element tree of a file
  check    - report syntax diagnostics
  build    - run every front-end stage`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./"+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every compiler stage")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "match each instruction against its accepted forms")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored diagnostics")
}

// setup loads the config and lets the command-line flags override it.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("strict") {
		cfg.Check.Strict = strict
	}
	if noColor {
		cfg.Output.Color = false
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	logger, logCloser, err = logs.New(os.Stderr, cfg.Log)
	return err
}

func renderer() *diagnostics.Renderer {
	return diagnostics.NewRenderer(cfg.Output.Color)
}

// compileOptions builds the compiler options for the current config.
// Diagnostics go to w.
func compileOptions(w io.Writer) compiler.Options {
	return compiler.Options{
		Logger:      logger,
		Strict:      cfg.Check.Strict,
		Diagnostics: w,
		Renderer:    renderer(),
	}
}

func readSource(path string) (string, error) {
	full, _, err := utils.GetPathInfo(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}
