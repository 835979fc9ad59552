package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/Veraticus/the-subs-must-go/internal/common"
	"github.com/Veraticus/the-subs-must-go/internal/config"
	"github.com/Veraticus/the-subs-must-go/internal/engine"
	"github.com/Veraticus/the-subs-must-go/internal/prompt"
	"github.com/Veraticus/the-subs-must-go/internal/registry"
	"github.com/Veraticus/the-subs-must-go/internal/usage"
)

// session is the in-memory state for one command invocation.
type session struct {
	cfg      *config.Config
	registry *registry.Registry
	scorer   *usage.Engine
	sampler  *prompt.Sampler
}

// newSession loads configuration from v and seeds a fresh registry.
func newSession(v *viper.Viper) (*session, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, common.NewUserError("Your configuration could not be loaded", err)
	}

	scorer, err := usage.NewEngine(cfg.Thresholds)
	if err != nil {
		return nil, common.NewUserError("The configured thresholds are invalid", err)
	}

	reg := registry.New(scorer)
	if err := cfg.Seed(reg); err != nil {
		return nil, fmt.Errorf("failed to seed services: %w", err)
	}

	return &session{
		cfg:      cfg,
		registry: reg,
		scorer:   scorer,
		sampler:  prompt.NewSampler(cfg.SurveySeed, cfg.ShowPools()),
	}, nil
}

func (s *session) engine(prompter engine.Prompter) *engine.Engine {
	return engine.New(s.registry, s.scorer, s.sampler, prompter)
}
