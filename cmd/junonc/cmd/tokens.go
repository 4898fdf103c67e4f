package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"junon/pkg/compiler"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens FILE",
	Short: "Print the token stream of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readSource(args[0])
		if err != nil {
			return err
		}

		tokens := compiler.Tokenize(src)
		logger.Debug("tokenized", "file", args[0], "tokens", len(tokens))

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Tokens (%d)\n", len(tokens))
		for _, tok := range tokens {
			fmt.Fprintln(out, " ", tok)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}
