package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"junon/pkg/compiler"
)

var showSlots bool

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Print the element tree of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readSource(args[0])
		if err != nil {
			return err
		}

		elements, err := compiler.Parse(compiler.Tokenize(src))
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "AST")
		for _, el := range elements {
			fmt.Fprintln(out, " ", el)
		}

		if showSlots {
			fmt.Fprintln(out)
			fmt.Fprint(out, compiler.AssignSlots(elements))
		}
		return nil
	},
}

func init() {
	parseCmd.Flags().BoolVar(&showSlots, "slots", false, "also print the slot of every variable")
	rootCmd.AddCommand(parseCmd)
}
