package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/enginetwin/enginetwin/infra/dataset"
)

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Dataset related commands",
}

var datasetSummaryCmd = &cobra.Command{
	Use:   "summary <path>",
	Short: "Print degradation metrics for a sensor dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runDatasetSummary,
}

func init() {
	datasetCmd.AddCommand(datasetSummaryCmd)
	rootCmd.AddCommand(datasetCmd)
}

func runDatasetSummary(cmd *cobra.Command, args []string) error {
	res := dataset.Summarize(args[0])
	out, err := json.MarshalIndent(res.Payload(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	if !res.OK() {
		return fmt.Errorf("dataset summary failed: %s", res.Err)
	}
	return nil
}
