package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/echotrace/internal/reuse"
)

var (
	classifyInputPath  string
	classifyLabelsPath string
	classifyOutputPath string
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify reuse groups into anomalies using domain labels",
	Long: `Classify applies tiered rules over the reuse map produced by the index
command, using an external domain -> label mapping, and writes the resulting
anomaly records. Unknown domains default to "unclassified".`,
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringVar(&classifyInputPath, "input-path", "data/analysis/reuse_map.json", "path to the reuse map JSON")
	classifyCmd.Flags().StringVar(&classifyLabelsPath, "labels-path", "data/output/new_source_labels.json", "path to the domain labels JSON")
	classifyCmd.Flags().StringVar(&classifyOutputPath, "output-path", "data/analysis/reuse_anomalies.json", "output path for anomalies JSON")
}

func runClassify(cmd *cobra.Command, args []string) error {
	reuseMap, err := reuse.LoadReuseMap(classifyInputPath)
	if err != nil {
		return err
	}

	labels, err := reuse.LoadLabels(classifyLabelsPath)
	if err != nil {
		return err
	}

	anomalies := reuse.Classify(reuseMap, labels)

	if err := reuse.WriteJSON(classifyOutputPath, anomalies); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "[✓] Found %d suspicious reuse cases. Saved to %s\n", len(anomalies), classifyOutputPath)
	return nil
}
