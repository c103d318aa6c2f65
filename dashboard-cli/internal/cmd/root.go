package cmd

import (
	"strings"
	"time"

	"cleaning-app/dashboard-cli/internal/client"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Staff dashboard for the cleaning dispatch service",
	Long: `dashboard talks to the order and notification services so a staff
member can work through orders, payments and notifications from a terminal.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("order-url", "http://localhost:8001", "order service base URL")
	rootCmd.PersistentFlags().String("notification-url", "http://localhost:8002", "notification service base URL")
	rootCmd.PersistentFlags().String("staff", "", "acting staff id")
	rootCmd.PersistentFlags().Duration("timeout", 10*time.Second, "request timeout")
	_ = viper.BindPFlag("order_url", rootCmd.PersistentFlags().Lookup("order-url"))
	_ = viper.BindPFlag("notification_url", rootCmd.PersistentFlags().Lookup("notification-url"))
	_ = viper.BindPFlag("staff", rootCmd.PersistentFlags().Lookup("staff"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
}

func initConfig() {
	// e.g. DASHBOARD_STAFF, DASHBOARD_ORDER_URL
	viper.SetEnvPrefix("DASHBOARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func newClient() *client.Client {
	return client.New(viper.GetString("order_url"), viper.GetString("notification_url"), viper.GetDuration("timeout"))
}
