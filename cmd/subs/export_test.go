package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Veraticus/the-subs-must-go/internal/common"
	"github.com/Veraticus/the-subs-must-go/internal/model"
)

type exportDoc struct {
	Services []struct {
		UsageScore  *int   `json:"usage_score" yaml:"usage_score"`
		Name        string `json:"name" yaml:"name"`
		RenewalDate string `json:"renewal_date" yaml:"renewal_date"`
		Votes       int    `json:"votes" yaml:"votes"`
		History     []struct {
			Kind   string `json:"kind" yaml:"kind"`
			Answer string `json:"answer" yaml:"answer"`
		} `json:"history" yaml:"history"`
		Classification struct {
			Label string  `json:"label" yaml:"label"`
			Score float64 `json:"score" yaml:"score"`
		} `json:"classification" yaml:"classification"`
	} `json:"services" yaml:"services"`
}

func sampleUsage() []model.ServiceUsage {
	due := time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC)
	raw := 80
	return []model.ServiceUsage{
		{
			Service:        model.Service{ID: "Netflix", RenewalDate: &due, UsageScore: &raw},
			Classification: model.Classification{Label: model.LabelKeep, Score: 0.8},
		},
		{
			Service: model.Service{ID: "Prime Video", History: []model.Response{
				model.VoteResponse(),
				model.SurveyResponse(model.AnswerRarely),
			}},
			Classification: model.Classification{Label: model.LabelModerate, Score: 0.75},
		},
	}
}

func TestWriteExport(t *testing.T) {
	tests := []struct {
		name   string
		format string
		decode func([]byte, any) error
	}{
		{name: "yaml", format: "yaml", decode: yaml.Unmarshal},
		{name: "json", format: "json", decode: json.Unmarshal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			require.NoError(t, writeExport(buf, tt.format, sampleUsage()))

			var doc exportDoc
			require.NoError(t, tt.decode(buf.Bytes(), &doc))
			require.Len(t, doc.Services, 2)

			netflix := doc.Services[0]
			assert.Equal(t, "Netflix", netflix.Name)
			assert.Equal(t, "2025-09-10", netflix.RenewalDate)
			require.NotNil(t, netflix.UsageScore)
			assert.Equal(t, 80, *netflix.UsageScore)
			assert.Equal(t, "KEEP", netflix.Classification.Label)
			assert.Empty(t, netflix.History)

			prime := doc.Services[1]
			assert.Equal(t, 1, prime.Votes)
			require.Len(t, prime.History, 2)
			assert.Equal(t, "VOTE_INCREMENT", prime.History[0].Kind)
			assert.Equal(t, "Rarely", prime.History[1].Answer)
			assert.InDelta(t, 0.75, prime.Classification.Score, 1e-9)
		})
	}
}

func TestWriteExport_UnknownFormat(t *testing.T) {
	err := writeExport(&bytes.Buffer{}, "csv", sampleUsage())
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestExportCommand(t *testing.T) {
	cfg := writeConfig(t, "services:\n  - name: Notion\n")

	out, err := execute(t, "", "export", "--config", cfg, "--format", "json")
	require.NoError(t, err)

	var doc exportDoc
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Services, 1)
	assert.Equal(t, "RECOMMEND_CANCEL", doc.Services[0].Classification.Label)
}
