package cli

import (
	"fmt"

	"github.com/coregx/relattice/relation"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// relateRow is the verdict of one relation test.
type relateRow struct {
	test     string
	relation relation.Relation
	err      error
}

// relateAll runs every test, not just up to the first decisive one, and
// returns the index of the decisive row or -1.
func relateAll(tests []relation.Test, lhs, rhs string) ([]relateRow, int) {
	rows := make([]relateRow, 0, len(tests))
	decisive := -1
	for _, t := range tests {
		r, err := t.Compare(lhs, rhs)
		rows = append(rows, relateRow{test: t.Name(), relation: r, err: err})
		if decisive < 0 && (err != nil || r.Decisive()) {
			decisive = len(rows) - 1
		}
	}
	return rows, decisive
}

func newRelateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "relate <a> <b>",
		Short: "Show how every relation test judges a pair of patterns",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}
			lc, err := cfg.LatticeConfig(a.logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			st := newStyles(out)
			rows, decisive := relateAll(lc.Tests, args[0], args[1])

			data := pterm.TableData{{"test", "relation", ""}}
			for i, row := range rows {
				verdict := row.relation.String()
				if row.err != nil {
					verdict = "error: " + row.err.Error()
				}
				mark := ""
				switch {
				case i == decisive:
					verdict = st.decisive.Render(verdict)
					mark = "decisive"
				case decisive >= 0 && i > decisive:
					verdict = st.muted.Render(verdict)
				}
				data = append(data, []string{row.test, verdict, mark})
			}
			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, table)

			if decisive < 0 {
				fmt.Fprintf(out, "%s %s %s\n", args[0], relation.None, args[1])
				return nil
			}
			d := rows[decisive]
			if d.err != nil {
				return d.err
			}
			fmt.Fprintf(out, "%s %s %s (%s)\n", args[0], d.relation, args[1], d.test)
			return nil
		},
	}
}
