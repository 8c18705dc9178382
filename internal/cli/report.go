package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/ppiankov/echotrace/internal/reuse"
)

var (
	reportInputDir   string
	reportOutputPath string
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a domain frequency report from crawled match files",
	Long: `Report counts how often each registered domain appears across the raw
crawled match files in a directory and writes the counts as JSON.`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportInputDir, "input-dir", "data/output", "directory containing crawled JSON files")
	reportCmd.Flags().StringVar(&reportOutputPath, "output-path", "data/output/domain_frequency_report.json", "output JSON file path")
}

func runReport(cmd *cobra.Command, args []string) error {
	fmt.Fprintf(os.Stderr, "[*] Analyzing domain frequency in %s...\n", reportInputDir)

	counts, err := reuse.DomainFrequency(reportInputDir)
	if err != nil {
		return err
	}

	if err := reuse.WriteJSON(reportOutputPath, counts); err != nil {
		return err
	}

	domains := make([]string, 0, len(counts))
	for d := range counts {
		domains = append(domains, d)
	}
	sort.Slice(domains, func(i, j int) bool {
		if counts[domains[i]] != counts[domains[j]] {
			return counts[domains[i]] > counts[domains[j]]
		}
		return domains[i] < domains[j]
	})

	top := domains
	if len(top) > 10 {
		top = top[:10]
	}
	fmt.Fprintf(os.Stderr, "[*] Top domains (%d total):\n", len(domains))
	for _, d := range top {
		fmt.Fprintf(os.Stderr, "    %5d  %s\n", counts[d], d)
	}

	fmt.Fprintf(os.Stderr, "[✓] Saved domain frequency report to %s\n", reportOutputPath)
	return nil
}
