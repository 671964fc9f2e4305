package main

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/career-counselor/internal/aggregate"
	"github.com/jonathan/career-counselor/internal/config"
	"github.com/jonathan/career-counselor/internal/observability"
	"github.com/jonathan/career-counselor/internal/store/drivers"
	"github.com/spf13/cobra"
)

var userDataCmd = &cobra.Command{
	Use:   "user-data",
	Short: "Show your saved assessment and activity counts",
	RunE:  runUserData,
}

var (
	userDataToken string
	userDataJSON  bool
)

func init() {
	userDataCmd.Flags().StringVar(&userDataToken, "token", "", "Access token (required)")
	userDataCmd.Flags().BoolVar(&userDataJSON, "json", false, "Print JSON instead of formatted output")

	if err := userDataCmd.MarkFlagRequired("token"); err != nil {
		panic(fmt.Sprintf("failed to mark token flag as required: %v", err))
	}

	rootCmd.AddCommand(userDataCmd)
}

func runUserData(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadRuntime()
	if err != nil {
		return err
	}
	defer log.Sync()

	user, err := resolveUser(cmd.Context(), cfg, userDataToken)
	if err != nil {
		return err
	}

	reader := aggregate.NewReader(config.Static(cfg), drivers.Dialer{}, log, nil)
	agg := reader.GetUserData(cmd.Context(), user.ID)

	if userDataJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(agg)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintUserData(agg)
	return nil
}
