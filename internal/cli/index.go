package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/echotrace/internal/reuse"
)

var (
	indexInputDir   string
	indexOutputPath string
)

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build a content-fingerprint reuse map from labeled match files",
	Long: `Index scans a directory of label-enriched match files
(matches_*_labeled.json), fingerprints every snippet, and groups sources
that share a fingerprint into a reuse map.

The reuse map feeds the classify command and can be rebuilt from historical
match files at any time without re-crawling.`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)

	indexCmd.Flags().StringVar(&indexInputDir, "input-dir", "data/output", "directory containing labeled match files")
	indexCmd.Flags().StringVar(&indexOutputPath, "output-path", "data/analysis/reuse_map.json", "path for the reuse map JSON")
}

func runIndex(cmd *cobra.Command, args []string) error {
	fmt.Fprintf(os.Stderr, "[*] Analyzing content reuse in %s\n", indexInputDir)

	paths, err := reuse.MatchFiles(indexInputDir)
	if err != nil {
		return fmt.Errorf("list match files: %w", err)
	}

	reuseMap, summary := reuse.BuildReuseMap(paths)

	if err := reuse.WriteJSON(indexOutputPath, reuseMap); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "[✓] Saved reuse map with %d unique content hashes to %s\n", len(reuseMap), indexOutputPath)
	if verbose {
		fmt.Fprintf(os.Stderr, "    files=%d skipped=%d entries=%d unresolved=%d\n",
			summary.Files, summary.Skipped, summary.Entries, summary.Unresolved)
	}
	if summary.Unresolved > 0 {
		fmt.Fprintf(os.Stderr, "[!] %d entries had neither source nor url and were skipped\n", summary.Unresolved)
	}
	return nil
}
