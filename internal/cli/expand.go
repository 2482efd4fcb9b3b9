package cli

import (
	"fmt"

	"github.com/coregx/relattice/expand"
	"github.com/spf13/cobra"
)

func newExpandCmd(a *app) *cobra.Command {
	var count bool

	cmd := &cobra.Command{
		Use:   "expand <pattern>",
		Short: "Print every concrete pattern a bounded repetition denotes",
		Example: `  relattice expand 'ab{1,3}'
  ab
  abb
  abbb`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}
			x := expand.New(cfg.Limits)

			out := cmd.OutOrStdout()
			n := 0
			for s, err := range x.All(args[0]) {
				if err != nil {
					return err
				}
				n++
				if !count {
					fmt.Fprintln(out, s)
				}
			}
			if count {
				fmt.Fprintln(out, n)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&count, "count", false, "print only the number of results")
	return cmd
}
