package main

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	promptx "github.com/hotlanelabs/drivethru/agent/prompt"
	configx "github.com/hotlanelabs/drivethru/pkg/config"
	langfusex "github.com/hotlanelabs/drivethru/pkg/langfuse"
	logx "github.com/hotlanelabs/drivethru/pkg/logger"
)

type seedConfig struct {
	PromptName string `envconfig:"PROMPT_NAME" split_words:"true"`
}

// Publishes the embedded orchestrator template as a new production-labeled
// version of the managed prompt. Re-running creates another version.
func main() {
	cfg := configx.MustNew[seedConfig]("DRIVETHRU")
	logx.Init(*configx.MustNew[logx.Config]("LOG"))

	lfCfg := configx.MustNew[langfusex.Config]("LANGFUSE")
	client := langfusex.MustNew(*lfCfg)

	name := strings.TrimSpace(cfg.PromptName)
	if name == "" {
		name = promptx.DefaultPromptName
	}

	created, err := client.CreatePrompt(context.Background(), langfusex.CreatePromptRequest{
		Name:   name,
		Prompt: promptx.LoadPromptSet().Orchestrator,
		Labels: []string{"production"},
	})
	if err != nil {
		log.Fatal().Err(err).Str("name", name).Msg("create prompt")
	}

	log.Info().
		Str("name", created.Name).
		Int("version", created.Version).
		Msg("prompt published")
}
