package cmd

import (
	"fmt"

	"cleaning-app/dashboard-cli/internal/client"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var reportCmd = &cobra.Command{
	Use:       "report <late|quality|behavior|safety|other> <description>",
	Short:     "File a violation report, optionally with a photo or video",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"late", "quality", "behavior", "safety", "other"},
	RunE: func(cmd *cobra.Command, args []string) error {
		staff := viper.GetString("staff")
		if staff == "" {
			return fmt.Errorf("--staff is required")
		}
		orderID, _ := cmd.Flags().GetString("order")
		evidence, _ := cmd.Flags().GetString("evidence")

		r, err := newClient().SubmitReport(cmd.Context(), client.NewReport{
			StaffID:      staff,
			OrderID:      orderID,
			Type:         args[0],
			Description:  args[1],
			EvidencePath: evidence,
		})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Report %s filed (%s, %s)\n", r.ID, r.Type, r.Status)
		if r.EvidenceURL != "" {
			fmt.Fprintf(out, "Evidence: %s\n", r.EvidenceURL)
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().String("order", "", "order the report is about")
	reportCmd.Flags().String("evidence", "", "path of a photo or video to attach")
	rootCmd.AddCommand(reportCmd)
}
