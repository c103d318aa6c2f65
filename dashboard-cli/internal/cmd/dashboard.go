package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var dashboardCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show today's numbers and performance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newClient().Dashboard(cmd.Context(), viper.GetString("staff"))
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintf(tw, "Today\t%d\n", d.Views.TodayCount)
		fmt.Fprintf(tw, "Pending\t%d\n", d.Views.PendingCount)
		fmt.Fprintf(tw, "In progress\t%d\n", d.Views.InProgressCount)
		fmt.Fprintf(tw, "Completed today\t%d\n", d.Views.CompletedTodayCount)
		fmt.Fprintf(tw, "Earnings today\t%d\n", d.Views.TodayEarnings)
		if p := d.Performance; p != nil {
			fmt.Fprintf(tw, "Total orders\t%d (%d completed, %d cancelled)\n", p.TotalOrders, p.CompletedOrders, p.CancelledOrders)
			fmt.Fprintf(tw, "This month\t%d orders, %d earned\n", p.ThisMonthOrders, p.ThisMonthEarnings)
			fmt.Fprintf(tw, "Rating\t%.1f\n", p.AverageRating)
		}
		return tw.Flush()
	},
}

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Show the notification feed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		staff := viper.GetString("staff")
		if staff == "" {
			return fmt.Errorf("--staff is required")
		}
		c := newClient()
		items, err := c.Notifications(cmd.Context(), staff)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, n := range items {
			mark := " "
			if !n.IsRead {
				mark = "*"
			}
			fmt.Fprintf(out, "%s %s  %s: %s\n", mark, n.CreatedAt, n.Title, n.Message)
		}
		if all, _ := cmd.Flags().GetBool("mark-read"); all {
			return c.MarkAllRead(cmd.Context(), staff)
		}
		return nil
	},
}

func init() {
	notificationsCmd.Flags().Bool("mark-read", false, "mark the whole feed as read after printing")
	rootCmd.AddCommand(dashboardCmd, notificationsCmd)
}
