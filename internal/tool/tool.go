// Package tool implements the built-in utility tools and the registry
// that dispatches API requests to them by name.
package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/handybox/handybox/internal/config"
	"github.com/handybox/handybox/internal/inference"
)

// ErrBadParams wraps parameter validation failures so the API layer can
// map them to a 400 response.
var ErrBadParams = errors.New("invalid parameters")

func badParams(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadParams, fmt.Sprintf(format, args...))
}

// Tool executes one named operation on caller-supplied parameters.
type Tool interface {
	// Name returns the identifier the tool is invoked by.
	Name() string
	// Describe returns a one-line summary for the tool listing.
	Describe() string
	// Run executes the tool. The result is serialized as JSON.
	Run(ctx context.Context, params json.RawMessage) (any, error)
}

// Registry holds all registered tools by name.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
}

func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("no tool registered for name: %s", name)
	}
	return t, nil
}

// Names returns the registered tool names in unspecified order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}

// List returns name and description for every registered tool.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	infos := make([]Info, 0, len(r.tools))
	for _, t := range r.tools {
		infos = append(infos, Info{Name: t.Name(), Description: t.Describe()})
	}
	return infos
}

// Info describes a registered tool in the listing endpoint.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DefaultRegistry creates a registry with all built-in tools, skipping
// any the configuration disables.
func DefaultRegistry(cfg *config.Config, ai inference.Client) *Registry {
	r := NewRegistry()
	all := []Tool{
		&DiffTool{Limits: cfg.Tools},
		&HashTool{Limits: cfg.Tools},
		&TextStatsTool{Limits: cfg.Tools},
		&UnitConvTool{},
		&Base64Tool{Limits: cfg.Tools},
		&JSONYAMLTool{Limits: cfg.Tools},
		&HTMLTextTool{Limits: cfg.Tools},
		&ArchiveTool{Limits: cfg.Tools},
		&SummarizeTool{Client: ai, Limits: cfg.Tools},
		&GrammarTool{Client: ai, Limits: cfg.Tools},
		&CaptionTool{Client: ai, Limits: cfg.Tools},
	}
	for _, t := range all {
		if cfg.ToolEnabled(t.Name()) {
			r.Register(t)
		}
	}
	return r
}
