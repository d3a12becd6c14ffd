package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/loam"
	"github.com/aretw0/wayfarer/pkg/domain"
	"github.com/aretw0/wayfarer/pkg/ports"
	"github.com/patrickmn/go-cache"
)

// DefaultCacheTTL is how long a directory listing is reused.
const DefaultCacheTTL = time.Minute

const destinationsKey = "destinations"

// Source adapts a Loam repository of destination documents to ports.CatalogSource.
// Interests are not stored in Loam; the source returns whatever WithInterests set,
// and callers fall back to the built-in tags when that is empty.
type Source struct {
	Repo      *loam.TypedRepository[DestinationMetadata]
	interests []domain.Interest
	cache     *cache.Cache
	ttl       time.Duration
}

var _ ports.CatalogSource = (*Source)(nil)

// Option configures a Source.
type Option func(*Source)

// WithCacheTTL sets how long listings are cached. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Source) {
		s.ttl = ttl
	}
}

// WithInterests sets the interest tags reported alongside the destinations.
func WithInterests(interests []domain.Interest) Option {
	return func(s *Source) {
		s.interests = interests
	}
}

// New creates a Source over an existing typed repository.
func New(repo *loam.TypedRepository[DestinationMetadata], opts ...Option) *Source {
	s := &Source{
		Repo: repo,
		ttl:  DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ttl > 0 {
		s.cache = cache.New(s.ttl, 2*s.ttl)
	}
	return s
}

// Open initializes a read-only Loam repository at path.
func Open(path string, opts ...Option) (*Source, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numeric frontmatter consistent; read-only avoids Loam's dev sandbox.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	return New(loam.NewTypedRepository[DestinationMetadata](repo), opts...), nil
}

// ListInterests implements ports.CatalogSource.
func (s *Source) ListInterests(ctx context.Context) ([]domain.Interest, error) {
	return s.interests, nil
}

// ListDestinations implements ports.CatalogSource.
func (s *Source) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(destinationsKey); ok {
			return clone(cached.([]domain.Destination)), nil
		}
	}

	docs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	out := make([]domain.Destination, 0, len(docs))
	for _, doc := range docs {
		if doc.Data.Hidden {
			continue
		}
		name := strings.TrimSpace(doc.Data.Name)
		if name == "" {
			name = trimExtension(filepath.Base(doc.ID))
		}

		key := strings.ToLower(name)
		if existing, ok := seen[key]; ok {
			return nil, fmt.Errorf("collision detected: destination '%s' is defined in both '%s' and '%s'", name, existing, doc.ID)
		}
		seen[key] = doc.ID

		description := strings.TrimSpace(doc.Data.Summary)
		if description == "" {
			description = firstParagraph(doc.Content)
		}

		out = append(out, domain.Destination{
			Name:        name,
			Region:      doc.Data.Region,
			Description: description,
			Aliases:     doc.Data.Aliases,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	if s.cache != nil {
		s.cache.Set(destinationsKey, out, cache.DefaultExpiration)
	}
	return clone(out), nil
}

// Invalidate drops cached listings.
func (s *Source) Invalidate() {
	if s.cache != nil {
		s.cache.Flush()
	}
}

func clone(in []domain.Destination) []domain.Destination {
	out := make([]domain.Destination, len(in))
	copy(out, in)
	return out
}

func firstParagraph(content string) string {
	for _, block := range strings.Split(strings.TrimSpace(content), "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" && !strings.HasPrefix(block, "#") {
			return strings.Join(strings.Fields(block), " ")
		}
	}
	return ""
}

func trimExtension(id string) string {
	return strings.TrimSuffix(id, filepath.Ext(id))
}
