package providers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Package providers contains news API provider configs and the adapters that
// speak each provider's wire format.

// Provider is a single news API endpoint declared in the providers file.
type Provider struct {
	ID        string         `json:"id" yaml:"id"`
	Name      string         `json:"name" yaml:"name"`
	Type      string         `json:"type" yaml:"type"`
	SourceURL string         `json:"source_url" yaml:"source_url"`
	Config    map[string]any `json:"config" yaml:"config"`
}

type registryFile struct {
	Providers []Provider `json:"providers" yaml:"providers"`
}

// Registry holds provider definitions loaded from a providers file.
type Registry struct {
	mu        sync.RWMutex
	providers []Provider
	idx       map[string]Provider
}

// LoadRegistry loads the provider registry from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("providers file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open providers file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read providers file: %w", err)
	}

	return ParseRegistry(raw, filepath.Ext(path))
}

// ParseRegistry decodes registry content; ext selects the decoder (".yaml",
// ".yml", ".json") and an empty ext tries each in turn.
func ParseRegistry(data []byte, ext string) (*Registry, error) {
	file, err := parseRegistryFile(data, ext)
	if err != nil {
		return nil, err
	}
	if len(file.Providers) == 0 {
		return nil, errors.New("providers file contains no providers entries")
	}

	reg := &Registry{
		providers: make([]Provider, len(file.Providers)),
		idx:       make(map[string]Provider, len(file.Providers)),
	}
	for i := range file.Providers {
		p := sanitizeProvider(file.Providers[i])
		if err := validateProvider(p); err != nil {
			return nil, fmt.Errorf("provider[%d]: %w", i, err)
		}
		if _, exists := reg.idx[p.ID]; exists {
			return nil, fmt.Errorf("duplicate provider id %q", p.ID)
		}
		reg.providers[i] = p
		reg.idx[p.ID] = p
	}
	return reg, nil
}

type unmarshalFn func([]byte, any) error

func parseRegistryFile(data []byte, ext string) (registryFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var file registryFile
		if err := d.fn(data, &file); err == nil {
			return file, nil
		}
	}

	return registryFile{}, errors.New("providers file format not recognized (expected YAML or JSON)")
}

func sanitizeProvider(p Provider) Provider {
	p.ID = strings.TrimSpace(p.ID)
	p.Name = strings.TrimSpace(p.Name)
	p.Type = strings.ToLower(strings.TrimSpace(p.Type))
	p.SourceURL = strings.TrimSpace(p.SourceURL)

	if p.Config == nil {
		p.Config = map[string]any{}
	}
	return p
}

func validateProvider(p Provider) error {
	if p.ID == "" {
		return errors.New("id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("name is required for provider %q", p.ID)
	}
	if p.Type == "" {
		return fmt.Errorf("type is required for provider %q", p.ID)
	}
	if p.SourceURL == "" {
		return fmt.Errorf("source_url is required for provider %q", p.ID)
	}
	return nil
}

// ByID returns the provider entry for the given id, if loaded.
func (r *Registry) ByID(id string) (Provider, bool) {
	if r == nil {
		return Provider{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Provider{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.idx[id]
	return p, ok
}

// All returns a copy of the loaded providers.
func (r *Registry) All() []Provider {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Provider, len(r.providers))
	copy(out, r.providers)
	return out
}
