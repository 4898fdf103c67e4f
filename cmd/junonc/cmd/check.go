package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"junon/pkg/compiler"
	"junon/pkg/utils"
)

var errCheckFailed = errors.New("check failed")

var checkCmd = &cobra.Command{
	Use:   "check FILE|DIR...",
	Short: "Report syntax diagnostics",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := utils.ExpandSources(args)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		r := renderer()
		failed := 0
		for _, path := range files {
			src, err := readSource(path)
			if err != nil {
				return err
			}

			checker := compiler.NewSyntaxChecker(src, compiler.Tokenize(src), compiler.CheckOptions{
				File:     path,
				Strict:   cfg.Check.Strict,
				Output:   out,
				Renderer: r,
				Logger:   logger,
			})
			checker.Run()
			if err := checker.Log().FlushErr(); err != nil {
				return fmt.Errorf("failed to write diagnostics for %s: %w", path, err)
			}
			logger.Debug("checked", "file", path,
				"errors", checker.Log().ErrorCount(),
				"warnings", checker.Log().WarningCount())

			switch {
			case checker.Log().HasErrors():
				failed++
			case len(checker.Log().Diagnostics()) == 0:
				fmt.Fprintln(out, r.OK(path+": ok"))
			}
		}

		if failed > 0 {
			return fmt.Errorf("%w: %d of %d file(s)", errCheckFailed, failed, len(files))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
