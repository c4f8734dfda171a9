package prompt

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	contractx "github.com/hotlanelabs/drivethru/agent/contract"
	langfusex "github.com/hotlanelabs/drivethru/pkg/langfuse"
)

// DefaultPromptName is the managed-prompt entry the orchestrator template
// is published under.
const DefaultPromptName = "drivethru-orchestrator"

// RemoteFetcher fetches a managed prompt by name.
type RemoteFetcher interface {
	GetPrompt(ctx context.Context, name string) (*langfusex.Prompt, error)
}

// Manager resolves the orchestrator system template. When a remote fetcher
// is configured it is asked first; the embedded template is the fallback,
// so the binary keeps working with no prompt service reachable.
type Manager struct {
	remote   RemoteFetcher
	name     string
	embedded string
}

var _ contractx.PromptSource = (*Manager)(nil)

// NewManager builds a Manager. remote may be nil, in which case only the
// embedded template is served.
func NewManager(remote RemoteFetcher, name string) (*Manager, error) {
	if name == "" {
		name = DefaultPromptName
	}
	embedded := LoadPromptSet().Orchestrator
	if embedded == "" {
		return nil, fmt.Errorf("%w: embedded orchestrator template is empty", contractx.ErrPromptMissing)
	}
	return &Manager{remote: remote, name: name, embedded: embedded}, nil
}

// SystemTemplate returns the raw template with placeholders intact.
// A failed or empty remote fetch is logged and the embedded template used.
func (mgr *Manager) SystemTemplate(ctx context.Context) (string, error) {
	if mgr.remote == nil {
		return mgr.embedded, nil
	}

	p, err := mgr.remote.GetPrompt(ctx, mgr.name)
	if err != nil {
		log.Warn().Err(err).Str("prompt", mgr.name).Msg("remote prompt fetch failed, using embedded template")
		return mgr.embedded, nil
	}
	if p == nil || p.Prompt == "" {
		log.Warn().Str("prompt", mgr.name).Msg("remote prompt empty, using embedded template")
		return mgr.embedded, nil
	}
	return p.Prompt, nil
}
