package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Veraticus/the-subs-must-go/internal/common"
	"github.com/Veraticus/the-subs-must-go/internal/config"
	"github.com/Veraticus/the-subs-must-go/internal/model"
)

// exportedService is the snapshot of one service written by export.
type exportedService struct {
	UsageScore     *int                 `json:"usage_score,omitempty" yaml:"usage_score,omitempty"`
	Name           string               `json:"name" yaml:"name"`
	RenewalDate    string               `json:"renewal_date,omitempty" yaml:"renewal_date,omitempty"`
	Classification model.Classification `json:"classification" yaml:"classification"`
	History        []model.Response     `json:"history" yaml:"history"`
	Votes          int                  `json:"votes" yaml:"votes"`
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print a snapshot of every service and its history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, _ := cmd.Flags().GetString("format")

			sess, err := newSession(viper.GetViper())
			if err != nil {
				return err
			}
			return writeExport(cmd.OutOrStdout(), format, sess.engine(nil).Analysis(false))
		},
	}

	cmd.Flags().String("format", "yaml", "output format (yaml, json)")
	return cmd
}

func snapshot(usage []model.ServiceUsage) []exportedService {
	out := make([]exportedService, len(usage))
	for i, u := range usage {
		svc := u.Service
		es := exportedService{
			Name:           svc.ID,
			UsageScore:     svc.UsageScore,
			Classification: u.Classification,
			History:        svc.History,
			Votes:          svc.VoteCount(),
		}
		if es.History == nil {
			es.History = []model.Response{}
		}
		if svc.RenewalDate != nil {
			es.RenewalDate = svc.RenewalDate.Format(config.DateLayout)
		}
		out[i] = es
	}
	return out
}

func writeExport(w io.Writer, format string, usage []model.ServiceUsage) error {
	services := snapshot(usage)

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]any{"services": services}); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{"services": services}); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown export format %q", common.ErrInvalidConfig, format)
	}
}
