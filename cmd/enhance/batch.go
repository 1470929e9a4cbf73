package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/docenhance/pipeline/internal/batch"
	"github.com/docenhance/pipeline/internal/document"
)

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [files...]",
		Short: "Enhance many documents concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runBatch,
	}
	cmd.Flags().Int("parallel", 0, "max concurrent documents (0 = use mode default)")
	cmd.Flags().String("out-dir", "", "write each enhanced file here instead of stdout")
	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
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

	inputs := make([]interface{}, len(args))
	for i, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		inputs[i] = document.New(string(content), document.WithMetadata(map[string]interface{}{
			"document_id": path,
		}))
	}

	results := executor.EnhanceBatch(context.Background(), inputs, s)

	outDir, _ := cmd.Flags().GetString("out-dir")
	for i, result := range results {
		if outDir != "" {
			dst := filepath.Join(outDir, filepath.Base(args[i]))
			if err := os.WriteFile(dst, []byte(result.EnhancedContent), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", dst, err)
			}
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "=== %s ===\n%s\n", args[i], result.EnhancedContent)
	}
	return nil
}
