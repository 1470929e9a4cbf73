package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/docenhance/pipeline/internal/document"
	"github.com/docenhance/pipeline/internal/history"
)

func newDocumentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "document [file]",
		Short: "Enhance a single document",
		Args:  cobra.ExactArgs(1),
		RunE:  runDocument,
	}
	cmd.Flags().String("out", "", "write the enhanced content here instead of stdout")
	return cmd
}

func runDocument(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	s, err := buildSettings(cmd)
	if err != nil {
		return err
	}

	coordinator := buildCoordinator(s)
	doc := document.New(string(content))
	result := coordinator.Enhance(context.Background(), doc, s)

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if dryRun {
		diff := renderDiff(result.OriginalContent, result.EnhancedContent)
		fmt.Fprintln(cmd.OutOrStdout(), diff)
		return nil
	}

	out, _ := cmd.Flags().GetString("out")
	if out != "" {
		return os.WriteFile(out, []byte(result.EnhancedContent), 0o644)
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.EnhancedContent)
	fmt.Fprintf(cmd.ErrOrStderr(), "quality %.2f -> %.2f (%d passes, $%.4f)\n",
		result.QualityBefore, result.QualityAfter, result.PassesExecuted, result.TotalCost)
	return nil
}

// renderDiff builds a throwaway single-document history to reuse
// history.Diff's unified-diff rendering for the --dry-run view.
func renderDiff(before, after string) string {
	h := history.New(0)
	v1 := h.AddVersion("dry-run", before, 0, "original", nil)
	v2 := h.AddVersion("dry-run", after, 0, "enhanced", nil)
	diff, err := h.Diff("dry-run", v1.VersionID, v2.VersionID)
	if err != nil {
		return after
	}
	return diff
}
