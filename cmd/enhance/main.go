// Command enhance is the CLI surface over the pipeline described in
// §6: document/batch/pipeline subcommands plus preset pipelines and a
// dry-run diff mode, following the cobra layout the pack's CLI repos
// use for their root command.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "enhance",
		Short: "Iteratively improve document quality through a strategy pipeline",
		Long: `enhance runs a document (or a batch of documents) through a
multi-pass content-enhancement pipeline: clarity, completeness,
consistency, accuracy and readability strategies, gated by a quality
scorer and a cost model.`,
	}

	root.PersistentFlags().String("config", "", "path to a pipeline config YAML file")
	root.PersistentFlags().String("mode", "basic", "operation mode: basic, performance, secure, enterprise")
	root.PersistentFlags().String("preset", "", "named pipeline preset: quick, thorough, technical")
	root.PersistentFlags().Bool("dry-run", false, "show a diff of the changes instead of writing them (document command only)")

	root.AddCommand(newDocumentCmd())
	root.AddCommand(newBatchCmd())
	root.AddCommand(newPipelineCmd())

	return root
}
