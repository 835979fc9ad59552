package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/the-subs-must-go/internal/cli"
	"github.com/Veraticus/the-subs-must-go/internal/common"
	"github.com/Veraticus/the-subs-must-go/internal/config"
)

func renewalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "renewals",
		Short: "List subscriptions renewing soon",
		Long: `List subscriptions whose renewal date falls within the reminder window,
soonest first, with their usage score and a keep/cancel hint.`,
		RunE: runRenewals,
	}

	cmd.Flags().Int("within", 0, "days ahead to look (default: renewals.window_days)")
	cmd.Flags().String("today", "", "reference date as YYYY-MM-DD (default: today)")
	return cmd
}

func runRenewals(cmd *cobra.Command, _ []string) error {
	sess, err := newSession(viper.GetViper())
	if err != nil {
		return err
	}

	window := sess.cfg.RenewalWindow
	if within, _ := cmd.Flags().GetInt("within"); within > 0 {
		window = time.Duration(within) * 24 * time.Hour
	}

	now := time.Now()
	if today, _ := cmd.Flags().GetString("today"); today != "" {
		now, err = time.Parse(config.DateLayout, today)
		if err != nil {
			return fmt.Errorf("%w: --today: %v", common.ErrInvalidConfig, err)
		}
	}

	due := sess.engine(nil).Renewals(now, window)
	days := int(window / (24 * time.Hour))
	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderRenewals(due, days))
	return err
}
