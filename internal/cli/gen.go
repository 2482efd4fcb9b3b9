package cli

import (
	"fmt"
	"go/token"

	"github.com/coregx/relattice"
	"github.com/dave/jennifer/jen"
	"github.com/gobuffalo/flect"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// generated lists the package-level names every generated file declares.
var generated = []string{"Expressions", "Subsets", "Roots", "Match"}

// identifiers derives one exported Go identifier per element from its
// pattern name. Unnamed elements and collisions fall back to PatternN.
func identifiers(elems []*relattice.Element, names map[string]string) []string {
	out := make([]string, len(elems))
	used := make(map[string]bool, len(elems)+len(generated))
	for _, name := range generated {
		used[name] = true
	}
	for i, e := range elems {
		id := flect.Pascalize(names[e.Expression()])
		if id == "" || !token.IsIdentifier(id) || !token.IsExported(id) || used[id] {
			id = fmt.Sprintf("Pattern%d", e.ID())
			for n := 0; used[id]; n++ {
				id = fmt.Sprintf("Pattern%d_%d", e.ID(), n)
			}
		}
		used[id] = true
		out[i] = id
	}
	return out
}

// generate emits a self-contained Go file with the lattice flattened into
// arrays and a Match function that walks it the same way the library does.
func generate(pkg string, l *relattice.Lattice, names map[string]string) *jen.File {
	elems := l.Elements()
	ids := identifiers(elems, names)

	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by relattice gen. DO NOT EDIT.")

	consts := make([]jen.Code, len(elems))
	exprs := make([]jen.Code, len(elems))
	subsets := make([]jen.Code, len(elems))
	compiled := make([]jen.Code, len(elems))
	for i, e := range elems {
		consts[i] = jen.Id(ids[i]).Op("=").Lit(int(e.ID()))
		exprs[i] = jen.Lit(e.Expression())

		subs := e.Subsets()
		if len(subs) == 0 {
			subsets[i] = jen.Nil()
		} else {
			vals := make([]jen.Code, len(subs))
			for j, s := range subs {
				vals[j] = jen.Id(ids[s.ID()])
			}
			subsets[i] = jen.Values(vals...)
		}
		compiled[i] = jen.Qual("regexp", "MustCompile").Call(jen.Lit(e.Regexp().String()))
	}

	roots := l.Roots()
	rootIDs := make([]jen.Code, len(roots))
	for i, r := range roots {
		rootIDs[i] = jen.Id(ids[r.ID()])
	}

	if len(consts) > 0 {
		f.Comment("Pattern identifiers, indexes into Expressions.")
		f.Const().Defs(consts...)
	}

	f.Comment("Expressions holds the pattern of each identifier.")
	f.Var().Id("Expressions").Op("=").Index(jen.Op("...")).String().Values(exprs...)

	f.Comment("Subsets lists, for each identifier, the patterns it contains.")
	f.Var().Id("Subsets").Op("=").Index(jen.Op("...")).Index().Int().Values(subsets...)

	f.Comment("Roots lists the patterns no other pattern contains.")
	f.Var().Id("Roots").Op("=").Index().Int().Values(rootIDs...)

	f.Var().Id("compiled").Op("=").Index(jen.Op("...")).Op("*").Qual("regexp", "Regexp").Values(compiled...)

	f.Comment("Match returns the identifiers of the most specific patterns matching")
	f.Comment("text at its start, in identifier order.")
	f.Func().Id("Match").Params(jen.Id("text").String()).Index().Int().Block(
		jen.Id("seen").Op(":=").Make(jen.Index().Bool(), jen.Len(jen.Id("Expressions"))),
		jen.Id("matched").Op(":=").Make(jen.Index().Bool(), jen.Len(jen.Id("Expressions"))),
		jen.Id("stack").Op(":=").Append(jen.Index().Int().Parens(jen.Nil()), jen.Id("Roots").Op("...")),
		jen.For(jen.Len(jen.Id("stack")).Op(">").Lit(0)).Block(
			jen.Id("id").Op(":=").Id("stack").Index(jen.Len(jen.Id("stack")).Op("-").Lit(1)),
			jen.Id("stack").Op("=").Id("stack").Index(jen.Empty(), jen.Len(jen.Id("stack")).Op("-").Lit(1)),
			jen.If(jen.Id("seen").Index(jen.Id("id"))).Block(jen.Continue()),
			jen.Id("seen").Index(jen.Id("id")).Op("=").True(),
			jen.If(jen.Op("!").Id("compiled").Index(jen.Id("id")).Dot("MatchString").Call(jen.Id("text"))).Block(jen.Continue()),
			jen.Id("matched").Index(jen.Id("id")).Op("=").True(),
			jen.Id("stack").Op("=").Append(jen.Id("stack"), jen.Id("Subsets").Index(jen.Id("id")).Op("...")),
		),
		jen.Var().Id("out").Index().Int(),
		jen.For(jen.List(jen.Id("id"), jen.Id("ok")).Op(":=").Range().Id("matched")).Block(
			jen.If(jen.Op("!").Id("ok")).Block(jen.Continue()),
			jen.Id("specific").Op(":=").True(),
			jen.For(jen.List(jen.Id("_"), jen.Id("sub")).Op(":=").Range().Id("Subsets").Index(jen.Id("id"))).Block(
				jen.If(jen.Id("matched").Index(jen.Id("sub"))).Block(
					jen.Id("specific").Op("=").False(),
					jen.Break(),
				),
			),
			jen.If(jen.Id("specific")).Block(
				jen.Id("out").Op("=").Append(jen.Id("out"), jen.Id("id")),
			),
		),
		jen.Return(jen.Id("out")),
	)
	return f
}

func newGenCmd(a *app) *cobra.Command {
	var (
		pkg string
		out string
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate Go source with a static copy of the lattice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !token.IsIdentifier(pkg) {
				return errors.Errorf("invalid package name %q", pkg)
			}
			cfg, l, err := a.build()
			if err != nil {
				return err
			}
			names, err := cfg.Names()
			if err != nil {
				return err
			}

			f := generate(pkg, l, names)
			if out == "" || out == "-" {
				return f.Render(cmd.OutOrStdout())
			}
			if err := f.Save(out); err != nil {
				return errors.Wrapf(err, "failed to save %s", out)
			}
			a.logger.Info().Str("path", out).Int("patterns", l.Len()).Msg("generated")
			return nil
		},
	}
	cmd.Flags().StringVarP(&pkg, "package", "p", "patterns", "package name of the generated file")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	return cmd
}
