// Package cli implements the rdfgraph command line.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Graph      string
	LoadFiles  []string
	Verbose    bool
	Format     string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "rdfgraph",
		Short: "Inspect RDF graphs through typed nodes",
		Long: `rdfgraph loads RDF data into named graphs and answers questions about it:
which SHACL shapes apply to a node, what a property path yields, and what a
SELECT query returns.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return WrapExitError(ExitCommandError, "flags",
					fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "configuration file (YAML)")
	flags.StringVarP(&opts.Graph, "graph", "g", "", "named graph to run the command in")
	flags.StringSliceVarP(&opts.LoadFiles, "load", "l", nil, "extra files to load into the default graph")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewShapesCommand(opts))
	cmd.AddCommand(NewValuesCommand(opts))
	cmd.AddCommand(NewSelectCommand(opts))
	cmd.AddCommand(NewTreeCommand(opts))
	cmd.AddCommand(NewGraphsCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}
