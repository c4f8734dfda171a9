package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/hotlanelabs/drivethru/agent/contract"
	mistralx "github.com/hotlanelabs/drivethru/pkg/mistral"
)

type Config struct {
	BaseURL     string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.mistral.ai/v1"`
	APIKey      string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model       string        `envconfig:"MODEL" split_words:"true" default:"mistral-small-latest"`
	MaxTokens   int           `envconfig:"MAX_TOKENS" split_words:"true" default:"2000"`
	Temperature float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0"`
	Timeout     time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: mistral api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: model is required", contractx.ErrValidation)
	}
	return nil
}

// Mistral maps the agent-level settings onto the provider config.
func (c Config) Mistral() mistralx.Config {
	maxTokens := c.MaxTokens
	return mistralx.Config{
		BaseURL:     strings.TrimSpace(c.BaseURL),
		APIKey:      strings.TrimSpace(c.APIKey),
		Model:       strings.TrimSpace(c.Model),
		MaxTokens:   &maxTokens,
		Temperature: c.Temperature,
		Timeout:     c.Timeout,
	}
}
