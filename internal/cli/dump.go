package cli

import (
	"fmt"
	"io"

	"github.com/coregx/relattice"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// dumpElement is the serialised form of one element.
type dumpElement struct {
	ID         uint32   `yaml:"id" toml:"id"`
	Name       string   `yaml:"name,omitempty" toml:"name,omitempty"`
	Expression string   `yaml:"expression" toml:"expression"`
	Root       bool     `yaml:"root" toml:"root"`
	Supersets  []string `yaml:"supersets,omitempty" toml:"supersets,omitempty"`
	Subsets    []string `yaml:"subsets,omitempty" toml:"subsets,omitempty"`
	Disjoints  []string `yaml:"disjoints,omitempty" toml:"disjoints,omitempty"`
	Intersects []string `yaml:"intersects,omitempty" toml:"intersects,omitempty"`
}

type dumpDoc struct {
	Elements []dumpElement `yaml:"elements" toml:"elements"`
}

func newDump(elems []*relattice.Element, names map[string]string) dumpDoc {
	doc := dumpDoc{Elements: make([]dumpElement, 0, len(elems))}
	for _, e := range elems {
		doc.Elements = append(doc.Elements, dumpElement{
			ID:         uint32(e.ID()),
			Name:       names[e.Expression()],
			Expression: e.Expression(),
			Root:       e.IsRoot(),
			Supersets:  relattice.Expressions(e.Supersets()),
			Subsets:    relattice.Expressions(e.Subsets()),
			Disjoints:  relattice.Expressions(e.Disjoints()),
			Intersects: relattice.Expressions(e.Intersects()),
		})
	}
	return doc
}

func writeDump(w io.Writer, format string, l *relattice.Lattice, elems []*relattice.Element, names map[string]string) error {
	switch format {
	case "text":
		if len(elems) == l.Len() {
			_, err := io.WriteString(w, l.String())
			return err
		}
		for _, e := range elems {
			fmt.Fprintln(w, e.Expression())
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newDump(elems, names)); err != nil {
			return errors.Wrap(err, "can't encode yaml")
		}
		return enc.Close()
	case "toml":
		if err := toml.NewEncoder(w).Encode(newDump(elems, names)); err != nil {
			return errors.Wrap(err, "can't encode toml")
		}
		return nil
	}
	return errors.Errorf("unknown format %q (want text, yaml or toml)", format)
}

func newDumpCmd(a *app) *cobra.Command {
	var (
		format string
		prefix string
	)

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the lattice built from the pattern set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, l, err := a.build()
			if err != nil {
				return err
			}
			names, err := cfg.Names()
			if err != nil {
				return err
			}
			elems := l.Elements()
			if prefix != "" {
				elems = l.WithPrefix(prefix)
			}
			return writeDump(cmd.OutOrStdout(), format, l, elems, names)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, yaml or toml")
	cmd.Flags().StringVar(&prefix, "prefix", "", "only elements whose expression starts with this text")
	return cmd
}
