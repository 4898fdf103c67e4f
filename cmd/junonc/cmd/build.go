package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"junon/pkg/compiler"
	"junon/pkg/utils"
)

var errBuildFailed = errors.New("build failed")

var buildCmd = &cobra.Command{
	Use:   "build FILE|DIR...",
	Short: "Run every front-end stage",
	Long: `build tokenizes, checks, parses and assigns slots for each file.
A file that fails does not stop the others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := utils.ExpandSources(args)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		opts := compileOptions(cmd.ErrOrStderr())
		failed := 0
		for _, path := range files {
			unit, err := compiler.CompileFile(path, opts)
			if err != nil {
				var perr *compiler.ParseError
				if errors.As(err, &perr) {
					logger.Warn("parse failed", "file", path, "line", perr.Line)
				}
				printError(err)
				failed++
				continue
			}
			if unit.HasErrors() {
				failed++
				continue
			}
			fmt.Fprintf(out, "%s: %d element(s), %d variable(s)\n", path, len(unit.Elements), unit.Slots.Len())
		}

		if failed > 0 {
			return fmt.Errorf("%w: %d of %d file(s)", errBuildFailed, failed, len(files))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
