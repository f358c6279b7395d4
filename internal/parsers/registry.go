package parsers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/finqa/internal/core/domain"
	"github.com/custodia-labs/finqa/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ParserRegistry = (*Registry)(nil)

// Registry implements ParserRegistry with extension-based selection.
// A later registration for the same extension replaces the earlier one.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]driven.Parser
}

// NewRegistry creates a new, empty parser registry.
func NewRegistry() *Registry {
	return &Registry{
		parsers: make(map[string]driven.Parser),
	}
}

// Register registers a parser for each of its extensions.
func (r *Registry) Register(parser driven.Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ext := range parser.SupportedExtensions() {
		r.parsers[normaliseExtension(ext)] = parser
	}
}

// Get retrieves the parser registered for an extension.
func (r *Registry) Get(ext string) (driven.Parser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.parsers[normaliseExtension(ext)]
	return p, ok
}

// Parse decodes raw bytes with the parser for the filename's extension.
func (r *Registry) Parse(ctx context.Context, raw []byte, filename string) (*driven.ParseResult, error) {
	ext := domain.FileExtension(filename)
	parser, ok := r.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}
	return parser.Parse(ctx, raw, filename)
}

// SupportedExtensions returns all registered extensions, sorted.
func (r *Registry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.parsers))
	for ext := range r.parsers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func normaliseExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
