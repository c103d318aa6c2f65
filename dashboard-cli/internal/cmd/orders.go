package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"cleaning-app/dashboard-cli/internal/client"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List orders",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetString("status")
		orders, err := newClient().ListOrders(cmd.Context(), status)
		if err != nil {
			return err
		}
		printOrders(cmd.OutOrStdout(), orders)
		return nil
	},
}

var orderCmd = &cobra.Command{
	Use:   "order <id>",
	Short: "Show one order and what can be done with it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := newClient().GetOrder(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printOrder(cmd.OutOrStdout(), *o)
		return nil
	},
}

var transitionCmd = &cobra.Command{
	Use:       "transition <id> <event>",
	Short:     "Apply accept, reject, start, finish or cancel to an order",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"accept", "reject", "start", "finish", "cancel"},
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := newClient().Transition(cmd.Context(), args[0], args[1], viper.GetString("staff"))
		if err != nil {
			return err
		}
		printOrder(cmd.OutOrStdout(), *o)
		return nil
	},
}

var payCmd = &cobra.Command{
	Use:   "pay <id> <cash|online>",
	Short: "Record how the customer pays",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		res, err := newClient().RecordPayment(cmd.Context(), args[0], args[1])
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Payment != nil {
			p := apiErr.Payment
			fmt.Fprintf(out, "Order %s: payment recorded but the link could not be texted\n", p.Order.ID)
			fmt.Fprintf(out, "Give the customer this link: %s\n", p.PaymentLink)
			return err
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Order %s: payment %s (%s)\n", res.Order.ID, res.Order.PaymentStatus, res.Order.PaymentMethod)
		if res.PaymentLink != "" {
			fmt.Fprintf(out, "Link sent: %s\n", res.PaymentLink)
		}
		return nil
	},
}

var messageCmd = &cobra.Command{
	Use:       "message <id> <on-the-way|work-finished>",
	Short:     "Send a canned message to the customer",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"on-the-way", "work-finished"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().SendMessage(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Message sent")
		return nil
	},
}

func init() {
	ordersCmd.Flags().String("status", "", "filter by status")
	rootCmd.AddCommand(ordersCmd, orderCmd, transitionCmd, payCmd, messageCmd)
}

func printOrders(w io.Writer, orders []client.Order) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tSERVICE\tCUSTOMER\tAMOUNT\tPAYMENT")
	for _, o := range orders {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n", o.ID, o.Status, o.ServiceType, o.CustomerName, o.Amount, o.PaymentStatus)
	}
	tw.Flush()
}

func printOrder(w io.Writer, o client.Order) {
	fmt.Fprintf(w, "Order %s [%s]\n", o.ID, o.Status)
	fmt.Fprintf(w, "  %s for %s at %s\n", o.ServiceType, o.CustomerName, o.Address)
	fmt.Fprintf(w, "  Amount: %d (%s)\n", o.Amount, o.PaymentStatus)
	if o.AssignedStaffID != nil {
		fmt.Fprintf(w, "  Staff: %s\n", *o.AssignedStaffID)
	}
	if len(o.AvailableEvents) > 0 {
		fmt.Fprintf(w, "  Next: %s\n", strings.Join(o.AvailableEvents, ", "))
	}
}
