package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"

	"github.com/rs/zerolog"
)

// Data is the input to a slot template
type Data struct {
	Idea      string
	Documents map[string]string
}

// Doc returns a previously generated document by filename, or an empty
// string if it has not been produced yet.
func (d Data) Doc(filename string) string {
	return d.Documents[filename]
}

// Library holds the parsed prompt templates for every document slot.
// Built-in templates can be overridden by dropping <slot>.tmpl files
// into an override directory; see Watcher for hot reload.
type Library struct {
	mu          sync.RWMutex
	templates   map[string]*template.Template
	overrideDir string
	logger      zerolog.Logger
}

// Option configures a Library
type Option func(*Library)

// WithOverrideDir sets a directory of <slot>.tmpl override files
func WithOverrideDir(dir string) Option {
	return func(l *Library) {
		l.overrideDir = dir
	}
}

// WithLogger sets the library logger
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Library) {
		l.logger = logger
	}
}

// NewLibrary parses the built-in templates and applies any overrides
func NewLibrary(opts ...Option) (*Library, error) {
	l := &Library{
		templates: make(map[string]*template.Template),
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}

	for slot, src := range builtinTemplates {
		tmpl, err := parseTemplate(slot, src)
		if err != nil {
			return nil, fmt.Errorf("failed to parse builtin template %s: %w", slot, err)
		}
		l.templates[slot] = tmpl
	}

	if l.overrideDir != "" {
		if err := l.Reload(); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// Render produces the prompt text for one slot
func (l *Library) Render(slot string, data Data) (string, error) {
	l.mu.RLock()
	tmpl, ok := l.templates[slot]
	l.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("no prompt template for slot: %s", slot)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render prompt for %s: %w", slot, err)
	}
	return sb.String(), nil
}

// HasTemplate reports whether a slot has a template
func (l *Library) HasTemplate(slot string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.templates[slot]
	return ok
}

// Reload re-reads override templates from the override directory.
// Slots whose override file was removed fall back to the built-in
// template; a broken override keeps the previous template and logs a
// warning.
func (l *Library) Reload() error {
	if l.overrideDir == "" {
		return nil
	}

	entries, err := os.ReadDir(l.overrideDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read prompt directory: %w", err)
	}

	// Restore builtins first so removed overrides fall back cleanly.
	for slot, src := range builtinTemplates {
		tmpl, err := parseTemplate(slot, src)
		if err != nil {
			return fmt.Errorf("failed to parse builtin template %s: %w", slot, err)
		}
		l.mu.Lock()
		l.templates[slot] = tmpl
		l.mu.Unlock()
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".tmpl") {
			continue
		}

		slot := strings.TrimSuffix(entry.Name(), ".tmpl")
		if _, known := builtinTemplates[slot]; !known {
			l.logger.Warn().Str("slot", slot).Msg("Override for unknown slot, skipping")
			continue
		}

		path := filepath.Join(l.overrideDir, entry.Name())
		src, err := os.ReadFile(path)
		if err != nil {
			l.logger.Warn().Err(err).Str("path", path).Msg("Failed to read prompt override")
			continue
		}

		tmpl, err := parseTemplate(slot, string(src))
		if err != nil {
			l.logger.Warn().Err(err).Str("path", path).Msg("Invalid prompt override, keeping previous")
			continue
		}

		l.mu.Lock()
		l.templates[slot] = tmpl
		l.mu.Unlock()

		l.logger.Info().Str("slot", slot).Msg("Prompt override loaded")
	}

	return nil
}

// parseTemplate parses a template source with the role helper attached
func parseTemplate(slot, src string) (*template.Template, error) {
	return template.New(slot).Funcs(template.FuncMap{
		"role": func(name string) (string, error) {
			def, ok := roleDefinitions[name]
			if !ok {
				return "", fmt.Errorf("unknown role: %s", name)
			}
			return def, nil
		},
	}).Parse(src)
}
