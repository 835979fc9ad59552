package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/the-subs-must-go/internal/cli"
	"github.com/Veraticus/the-subs-must-go/internal/engine"
)

func checkinCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Run an interactive usage check-in",
		Long: `Ask about every tracked subscription, score the answers and review which
ones to keep. In vote mode you pick the one show you watched recently instead.`,
		RunE: runCheckin,
	}

	cmd.Flags().String("mode", string(engine.ModeUsage), "survey mode (usage, vote)")
	return cmd
}

func runCheckin(cmd *cobra.Command, _ []string) error {
	modeFlag, _ := cmd.Flags().GetString("mode")
	mode, err := engine.ParseSurveyMode(modeFlag)
	if err != nil {
		return err
	}

	sess, err := newSession(viper.GetViper())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	interrupts := cli.NewInterruptHandler(out)
	ctx, stop := interrupts.HandleInterrupts(cmd.Context())
	defer stop()

	welcome := fmt.Sprintf("Tracking %d subscriptions. Answer honestly, nobody is watching.", sess.registry.Len())
	fmt.Fprintln(out, cli.RenderBox("👋 Welcome to your check-in", welcome))

	eng := sess.engine(cli.NewCLIPrompter(cmd.InOrStdin(), out))
	if err := eng.RunCheckin(ctx, mode); err != nil {
		switch {
		case errors.Is(err, cli.ErrInputTerminated):
			fmt.Fprintln(out, "\n"+cli.FormatInfo("Input closed, see you next time."))
			return nil
		case interrupts.WasInterrupted():
			return nil
		}
		return err
	}

	fmt.Fprintln(out, cli.FormatSuccess("Check-in complete!"))
	return nil
}
