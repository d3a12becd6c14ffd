package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/wayfarer/pkg/domain"
	"github.com/aretw0/wayfarer/pkg/ports"
)

// Catalog is an in-memory snapshot of interests and destinations.
// It satisfies ports.CatalogSource.
type Catalog struct {
	Interests    []domain.Interest    `json:"interests" yaml:"interests" mapstructure:"interests"`
	Destinations []domain.Destination `json:"destinations" yaml:"destinations" mapstructure:"destinations"`
}

var _ ports.CatalogSource = (*Catalog)(nil)

// DefaultInterests returns the built-in interest tags.
func DefaultInterests() []domain.Interest {
	return []domain.Interest{
		{ID: "adventure", Label: "Adventure"},
		{ID: "culture", Label: "Culture"},
		{ID: "food", Label: "Food"},
		{ID: "shopping", Label: "Shopping"},
		{ID: "nightlife", Label: "Nightlife"},
		{ID: "nature", Label: "Nature"},
	}
}

// DefaultDestinations returns the built-in known destinations.
func DefaultDestinations() []domain.Destination {
	return []domain.Destination{
		{Name: "Delhi", Region: "North India", Description: "Historic capital with Mughal monuments and street food.", Aliases: []string{"New Delhi"}},
		{Name: "Mumbai", Region: "West India", Description: "Coastal metropolis, film industry and seafront promenades.", Aliases: []string{"Bombay"}},
		{Name: "Goa", Region: "West India", Description: "Beaches, Portuguese heritage and nightlife."},
	}
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		Interests:    DefaultInterests(),
		Destinations: DefaultDestinations(),
	}
}

// ListInterests implements ports.CatalogSource.
func (c *Catalog) ListInterests(ctx context.Context) ([]domain.Interest, error) {
	out := make([]domain.Interest, len(c.Interests))
	copy(out, c.Interests)
	return out, nil
}

// ListDestinations implements ports.CatalogSource.
func (c *Catalog) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	out := make([]domain.Destination, len(c.Destinations))
	copy(out, c.Destinations)
	return out, nil
}

// Resolve snapshots a source into a Catalog. Empty lists fall back to the defaults.
func Resolve(ctx context.Context, src ports.CatalogSource) (*Catalog, error) {
	if src == nil {
		return Default(), nil
	}
	if c, ok := src.(*Catalog); ok {
		if c == nil {
			return Default(), nil
		}
		return c.withDefaults(), nil
	}

	interests, err := src.ListInterests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list interests: %w", err)
	}
	destinations, err := src.ListDestinations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list destinations: %w", err)
	}

	c := &Catalog{Interests: interests, Destinations: destinations}
	return c.withDefaults(), nil
}

func (c *Catalog) withDefaults() *Catalog {
	out := &Catalog{Interests: c.Interests, Destinations: c.Destinations}
	if len(out.Interests) == 0 {
		out.Interests = DefaultInterests()
	}
	if len(out.Destinations) == 0 {
		out.Destinations = DefaultDestinations()
	}
	return out
}

// Match finds the known destination equal to the free-form entry, ignoring case,
// surrounding space and aliases. It never rejects anything.
func (c *Catalog) Match(entry string) (domain.Destination, bool) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return domain.Destination{}, false
	}
	for _, d := range c.Destinations {
		if strings.EqualFold(d.Name, entry) {
			return d, true
		}
		for _, alias := range d.Aliases {
			if strings.EqualFold(alias, entry) {
				return d, true
			}
		}
	}
	return domain.Destination{}, false
}

// Tag looks up an interest by ID.
func (c *Catalog) Tag(id string) (domain.Interest, bool) {
	for _, i := range c.Interests {
		if i.ID == id {
			return i, true
		}
	}
	return domain.Interest{}, false
}

// Label returns the display label for an interest ID, or the ID itself when unknown.
func (c *Catalog) Label(id string) string {
	if i, ok := c.Tag(id); ok && i.Label != "" {
		return i.Label
	}
	return id
}

// Validate checks that IDs and names are present and unique.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Interests))
	for i, tag := range c.Interests {
		if tag.ID == "" {
			return fmt.Errorf("%w: interest #%d has no id", domain.ErrInvalidValue, i)
		}
		if seen[tag.ID] {
			return fmt.Errorf("%w: duplicate interest %q", domain.ErrInvalidValue, tag.ID)
		}
		seen[tag.ID] = true
	}

	names := make(map[string]bool, len(c.Destinations))
	for i, d := range c.Destinations {
		key := strings.ToLower(strings.TrimSpace(d.Name))
		if key == "" {
			return fmt.Errorf("%w: destination #%d has no name", domain.ErrInvalidValue, i)
		}
		if names[key] {
			return fmt.Errorf("%w: duplicate destination %q", domain.ErrInvalidValue, d.Name)
		}
		names[key] = true
	}
	return nil
}
