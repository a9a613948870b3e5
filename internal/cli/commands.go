package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/geoknoesis/rdf-graph/graph"
)

// NodeView is the JSON form of a node in command output.
type NodeView struct {
	URI      string `json:"uri,omitempty"`
	Label    string `json:"label,omitempty"`
	Lex      string `json:"lex,omitempty"`
	Datatype string `json:"datatype,omitempty"`
	Lang     string `json:"lang,omitempty"`
}

func viewOf(n graph.Node) NodeView {
	switch v := n.(type) {
	case graph.NamedNode:
		label, err := v.DisplayLabel()
		if err != nil || label == v.URI() {
			label = ""
		}
		return NodeView{URI: v.URI(), Label: label}
	case graph.LiteralNode:
		return NodeView{Lex: v.Lex(), Datatype: v.Datatype(), Lang: v.Lang()}
	default:
		return NodeView{}
	}
}

func (v NodeView) String() string {
	switch {
	case v.URI != "" && v.Label != "":
		return fmt.Sprintf("%s (%s)", v.URI, v.Label)
	case v.URI != "":
		return v.URI
	case v.Lang != "":
		return fmt.Sprintf("%q@%s", v.Lex, v.Lang)
	default:
		return fmt.Sprintf("%q^^%s", v.Lex, v.Datatype)
	}
}

// NewShapesCommand lists the shapes that apply to a node.
func NewShapesCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shapes <node>",
		Short: "List the SHACL shapes that apply to a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(opts, cmd, func(env *environment) error {
				node, err := env.node(args[0])
				if err != nil {
					return err
				}
				shapes, err := env.session.ShapesFor(node)
				if err != nil {
					return err
				}
				views := make([]NodeView, len(shapes))
				for i, s := range shapes {
					views[i] = viewOf(s)
				}
				return env.out.Success(views, func(w io.Writer) {
					for _, v := range views {
						fmt.Fprintln(w, v)
					}
				})
			})
		},
	}
}

// NewValuesCommand prints the values of a property path.
func NewValuesCommand(opts *RootOptions) *cobra.Command {
	var indexed bool
	cmd := &cobra.Command{
		Use:   "values <node> <path>",
		Short: "Print the values of a predicate or property path",
		Long: `Print the values reached from a node. A path containing any of
/ | ^ * + ? ( ) is evaluated as a SPARQL 1.1 property path; anything else is
a single predicate given as a URI or qname.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(opts, cmd, func(env *environment) error {
				node, err := env.node(args[0])
				if err != nil {
					return err
				}
				var path graph.Path
				if strings.ContainsAny(args[1], "/|^*+?()") && !strings.Contains(args[1], "://") {
					path = graph.PathExpr(args[1])
				} else {
					predicate, err := env.node(args[1])
					if err != nil {
						return err
					}
					path = predicate
				}
				var valueOpts []graph.ValueOption
				if indexed {
					valueOpts = append(valueOpts, graph.Indexed())
				}
				values, err := env.session.Values(node, path, valueOpts...)
				if err != nil {
					return err
				}
				views := make([]NodeView, len(values))
				for i, v := range values {
					views[i] = viewOf(v)
				}
				return env.out.Success(views, func(w io.Writer) {
					for _, v := range views {
						fmt.Fprintln(w, v)
					}
				})
			})
		},
	}
	cmd.Flags().BoolVar(&indexed, "indexed", false, "order values by dash:index")
	return cmd
}

// NewSelectCommand runs a SELECT query.
func NewSelectCommand(opts *RootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "select [query]",
		Short: "Run a SELECT query against the active graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			switch {
			case file != "":
				data, err := os.ReadFile(file)
				if err != nil {
					return WrapExitError(ExitCommandError, "read query", err)
				}
				query = string(data)
			case len(args) == 1:
				query = args[0]
			default:
				return WrapExitError(ExitCommandError, "select", fmt.Errorf("a query argument or --file is required"))
			}
			return withEnvironment(opts, cmd, func(env *environment) error {
				rs, err := env.session.Select(query, nil)
				if err != nil {
					return err
				}
				rows := make([]map[string]any, rs.Len())
				for i, b := range rs.Bindings {
					row := make(map[string]any, len(rs.Vars))
					for _, name := range rs.Vars {
						if n, ok := b[name].(graph.Node); ok {
							row[name] = viewOf(n)
						} else {
							row[name] = b[name]
						}
					}
					rows[i] = row
				}
				data := map[string]any{"vars": rs.Vars, "rows": rows}
				return env.out.Success(data, func(w io.Writer) {
					fmt.Fprintln(w, strings.Join(rs.Vars, "\t"))
					for _, row := range rows {
						cells := make([]string, len(rs.Vars))
						for i, name := range rs.Vars {
							if row[name] != nil {
								cells[i] = fmt.Sprint(row[name])
							}
						}
						fmt.Fprintln(w, strings.Join(cells, "\t"))
					}
				})
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "read the query from a file")
	return cmd
}

// NewTreeCommand prints the values tree of a node as JSON.
func NewTreeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tree <node>",
		Short: "Print a node and its nested blank node values as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(opts, cmd, func(env *environment) error {
				node, err := env.node(args[0])
				if err != nil {
					return err
				}
				tree, err := env.session.ValuesTree(node)
				if err != nil {
					return err
				}
				return env.out.Success(tree, func(w io.Writer) {
					enc := json.NewEncoder(w)
					enc.SetIndent("", "  ")
					_ = enc.Encode(tree)
				})
			})
		},
	}
}

// NewGraphsCommand lists the named graphs.
func NewGraphsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "graphs",
		Short: "List the named graphs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(opts, cmd, func(env *environment) error {
				graphs, err := env.session.Graphs()
				if err != nil {
					return err
				}
				return env.out.Success(graphs, func(w io.Writer) {
					for _, g := range graphs {
						marker := " "
						if g == env.session.ActiveGraph() {
							marker = "*"
						}
						fmt.Fprintf(w, "%s %s\n", marker, g)
					}
				})
			})
		},
	}
}

// NewExportCommand writes the active graph as N-Triples.
func NewExportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the active graph as N-Triples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnvironment(opts, cmd, func(env *environment) error {
				triples, err := env.session.Triples(nil, nil, nil)
				if err != nil {
					return err
				}
				return graph.SerializeTriples(cmd.OutOrStdout(), triples)
			})
		},
	}
}
