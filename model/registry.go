package model

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
)

// sniffLen is how many leading bytes a Sniff function may inspect.
const sniffLen = 512

// DecoderFunc decodes one model asset. The reader covers the full asset;
// name is the source name for errors and logs.
type DecoderFunc func(ctx context.Context, name string, r io.Reader) (*Model, error)

// RegistryEntry represents a registered model decoder.
type RegistryEntry struct {
	// Format is the unique identifier for this decoder (e.g. "gltf", "obj").
	Format string

	// Priority determines selection order when several decoders claim the
	// same asset (higher = preferred).
	Priority int

	// Decode decodes the asset.
	Decode DecoderFunc

	// Sniff reports whether the decoder claims an asset, given up to the
	// first 512 bytes. A nil Sniff claims every asset (fallback decoder).
	Sniff func(head []byte) bool
}

// globalRegistry is the default registry.
var globalRegistry = &Registry{}

// Registry manages registered model decoders.
//
// The registry enables format backends to register themselves without
// requiring changes to this module. Example registration:
//
//	func init() {
//	    model.Register("gltf", 100, decodeGLTF, sniffGLTF)
//	}
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and Load.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*RegistryEntry)}
}

// Register adds a decoder to the global registry.
// Registering a format that already exists replaces the previous entry.
func Register(format string, priority int, decode DecoderFunc, sniff func(head []byte) bool) {
	globalRegistry.Register(format, priority, decode, sniff)
}

// Unregister removes a decoder from the global registry.
func Unregister(format string) {
	globalRegistry.Unregister(format)
}

// Formats returns all registered decoder formats sorted by priority
// (highest first).
func Formats() []string {
	return globalRegistry.Formats()
}

// Register adds a decoder to this registry.
func (r *Registry) Register(format string, priority int, decode DecoderFunc, sniff func(head []byte) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*RegistryEntry)
	}

	r.entries[format] = &RegistryEntry{
		Format:   format,
		Priority: priority,
		Decode:   decode,
		Sniff:    sniff,
	}
}

// Unregister removes a decoder from this registry.
func (r *Registry) Unregister(format string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, format)
}

// Formats returns registered decoder formats sorted by priority (highest first).
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedFormats()
}

// Load reads the source and decodes it with the best matching decoder.
//
// Selection: decoders are tried in priority order (highest first); the first
// whose Sniff claims the asset decodes it. Decoders with a nil Sniff match
// anything and therefore act as fallbacks when given a low priority.
func (r *Registry) Load(ctx context.Context, src Source) (*Model, error) {
	data, err := readSource(ctx, src)
	if err != nil {
		return nil, err
	}

	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}

	r.mu.RLock()
	formats := r.sortedFormats()
	r.mu.RUnlock()

	if len(formats) == 0 {
		return nil, ErrNoDecoder
	}

	for _, format := range formats {
		entry, ok := r.Get(format)
		if !ok {
			continue
		}
		if entry.Sniff != nil && !entry.Sniff(head) {
			continue
		}
		return r.decode(ctx, entry, src.Name(), data)
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, src.Name())
}

// LoadFormat reads the source and decodes it with a specific named decoder.
func (r *Registry) LoadFormat(ctx context.Context, format string, src Source) (*Model, error) {
	entry, ok := r.Get(format)
	if !ok {
		return nil, &DecoderNotFoundError{Format: format}
	}

	data, err := readSource(ctx, src)
	if err != nil {
		return nil, err
	}

	return r.decode(ctx, entry, src.Name(), data)
}

// Get returns information about a specific decoder.
func (r *Registry) Get(format string) (*RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[format]
	if !ok {
		return nil, false
	}

	// Return a copy to prevent modification
	entryCopy := *entry
	return &entryCopy, true
}

// decode runs one decoder over the asset bytes.
func (r *Registry) decode(ctx context.Context, entry *RegistryEntry, name string, data []byte) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m, err := entry.Decode(ctx, name, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("model: decode %s as %s: %w", name, entry.Format, err)
	}
	if m == nil {
		return nil, fmt.Errorf("model: decoder %s returned no model for %s", entry.Format, name)
	}
	return m, nil
}

// sortedFormats returns decoder formats sorted by priority (highest first).
// Must be called with the lock held.
func (r *Registry) sortedFormats() []string {
	if len(r.entries) == 0 {
		return nil
	}

	type entry struct {
		format   string
		priority int
	}

	entries := make([]entry, 0, len(r.entries))
	for format, e := range r.entries {
		entries = append(entries, entry{format: format, priority: e.Priority})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority > entries[j].priority
		}
		return entries[i].format < entries[j].format
	})

	formats := make([]string, len(entries))
	for i, e := range entries {
		formats[i] = e.format
	}
	return formats
}

// readSource slurps the asset bytes, honoring context cancellation at the
// boundaries. Model assets load wholesale; decoders get an in-memory reader.
func readSource(ctx context.Context, src Source) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rc, err := src.Open()
	if err != nil {
		return nil, fmt.Errorf("model: open %s: %w", src.Name(), err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("model: read %s: %w", src.Name(), err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

// Errors.
var (
	// ErrNoDecoder is returned when no model decoders are registered.
	ErrNoDecoder = errors.New("model: no decoder registered")

	// ErrUnknownFormat is returned when no registered decoder claims the asset.
	ErrUnknownFormat = errors.New("model: no decoder claims asset")
)

// DecoderNotFoundError indicates a named decoder is not registered.
type DecoderNotFoundError struct {
	Format string
}

func (e *DecoderNotFoundError) Error() string {
	return "model: decoder not found: " + e.Format
}
