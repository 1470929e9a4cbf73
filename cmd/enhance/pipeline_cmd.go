package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docenhance/pipeline/internal/batch"
	"github.com/docenhance/pipeline/internal/document"
)

func newPipelineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Stream documents from stdin through the pipeline, one per line",
		Long: `pipeline reads newline-delimited document content from stdin (one
document per line) and streams enhancement results back as they
complete, rather than waiting for the whole batch like "enhance batch"
does.`,
		RunE: runPipeline,
	}
	cmd.Flags().Int("parallel", 0, "max concurrent documents (0 = use mode default)")
	return cmd
}

func runPipeline(cmd *cobra.Command, args []string) error {
	s, err := buildSettings(cmd)
	if err != nil {
		return err
	}

	parallel, _ := cmd.Flags().GetInt("parallel")
	if parallel <= 0 {
		parallel = s.Pipeline.MaxParallelDocs
	}

	coordinator := buildCoordinator(s)
	executor := batch.NewExecutor(coordinator, parallel)

	var inputs []interface{}
	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		inputs = append(inputs, document.New(line))
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "no documents on stdin")
		return nil
	}

	for r := range executor.EnhanceStream(context.Background(), inputs, s) {
		fmt.Fprintf(cmd.OutOrStdout(), "[%d] quality %.2f -> %.2f: %s\n",
			r.Index, r.Result.QualityBefore, r.Result.QualityAfter, r.Result.EnhancedContent)
	}
	return nil
}
