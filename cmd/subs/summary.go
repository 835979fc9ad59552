package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/the-subs-must-go/internal/cli"
)

func summaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the usage analysis for every subscription",
		RunE: func(cmd *cobra.Command, _ []string) error {
			byScore, _ := cmd.Flags().GetBool("by-score")

			sess, err := newSession(viper.GetViper())
			if err != nil {
				return err
			}

			analysis := sess.engine(nil).Analysis(byScore)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderAnalysis(analysis))
			return err
		},
	}

	cmd.Flags().Bool("by-score", true, "order by usage score, highest first")
	return cmd
}
