package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/the-subs-must-go/internal/tui"
	"github.com/Veraticus/the-subs-must-go/internal/tui/themes"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive subscription dashboard",
		Long: `Browse your subscriptions with their usage bars. Press c to cancel the
selected one, then y to confirm or n/Esc to keep it. q quits.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sess, err := newSession(viper.GetViper())
			if err != nil {
				return err
			}

			themeName := viper.GetString("dashboard.theme")
			showHelp := viper.GetBool("dashboard.show_help")
			if noHelp, _ := cmd.Flags().GetBool("no-help"); noHelp {
				showHelp = false
			}
			return tui.Run(cmd.Context(), sess.engine(nil), dashboardOptions(themeName, showHelp)...)
		},
	}

	cmd.Flags().String("theme", "default", "color theme (default, catppuccin)")
	cmd.Flags().Bool("no-help", false, "hide the key help footer (press ? to show it)")
	_ = viper.BindPFlag("dashboard.theme", cmd.Flags().Lookup("theme"))
	return cmd
}

func dashboardOptions(themeName string, showHelp bool) []tui.Option {
	return []tui.Option{
		tui.WithTheme(themes.ByName(themeName)),
		tui.WithSortByScore(true),
		tui.WithHelp(showHelp),
	}
}
