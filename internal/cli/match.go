package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newMatchCmd(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "match <text>...",
		Short: "Print the most specific patterns matching each text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, l, err := a.build()
			if err != nil {
				return err
			}
			names, err := cfg.Names()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("strict") {
				strict = cfg.Strict
			}

			out := cmd.OutOrStdout()
			for _, text := range args {
				got, err := l.MatchStrings(text, strict)
				if err != nil {
					return err
				}
				labels := make([]string, len(got))
				for i, expr := range got {
					labels[i] = label(expr, names[expr])
				}
				if len(labels) == 0 {
					labels = append(labels, "-")
				}
				fmt.Fprintf(out, "%s\t%s\n", text, strings.Join(labels, " "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&strict, "strict", "s", false, "fail when more than one pattern is most specific (default from lattice.strict)")
	return cmd
}

func label(expr, name string) string {
	if name == "" {
		return expr
	}
	return name + "=" + expr
}
