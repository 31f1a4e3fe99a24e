// Package endpoint picks which API resource a fetch goes to.
package endpoint

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"
)

// DefaultBase is the API root the widget reads from
const DefaultBase = "https://vanillajsacademy.com/api/"

// DefaultResources are drawn 0.3 / 0.3 / 0.4. fail.json does not exist and
// exercises the failure path.
var DefaultResources = []Weighted{
	{Resource: "pirates.json", Weight: 0.3},
	{Resource: "pirates2.json", Weight: 0.3},
	{Resource: "fail.json", Weight: 0.4},
}

// Weighted is a resource path and its share of draws
type Weighted struct {
	Resource string
	Weight   float64
}

// Selector resolves one endpoint URL per call
type Selector struct {
	base      string
	resources []Weighted
	total     float64
	random    func() float64
}

// Option configures a Selector
type Option func(*Selector)

// WithRandom replaces the random source. fn must return values in [0,1).
func WithRandom(fn func() float64) Option {
	return func(s *Selector) {
		s.random = fn
	}
}

// New creates a selector over resources resolved against base
func New(base string, resources []Weighted, opts ...Option) (*Selector, error) {
	if len(resources) == 0 {
		return nil, errors.New("at least one resource is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	s := &Selector{
		base:      base,
		resources: append([]Weighted(nil), resources...),
		random:    rand.Float64,
	}
	for _, r := range resources {
		if r.Weight < 0 {
			return nil, fmt.Errorf("resource %q: negative weight", r.Resource)
		}
		s.total += r.Weight
	}
	if s.total <= 0 {
		return nil, errors.New("weights must sum to more than zero")
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Default returns the stock selector over DefaultResources
func Default(opts ...Option) *Selector {
	s, _ := New(DefaultBase, DefaultResources, opts...)
	return s
}

// Fixed returns a selector that always yields rawURL
func Fixed(rawURL string) *Selector {
	return &Selector{
		resources: []Weighted{{Resource: rawURL, Weight: 1}},
		total:     1,
		random:    func() float64 { return 0 },
	}
}

// Next draws once and returns the chosen URL
func (s *Selector) Next() string {
	draw := s.random() * s.total

	var cumulative float64
	for _, r := range s.resources {
		cumulative += r.Weight
		if draw < cumulative {
			return s.resolve(r.Resource)
		}
	}
	// Float rounding can leave draw == total.
	return s.resolve(s.resources[len(s.resources)-1].Resource)
}

func (s *Selector) resolve(resource string) string {
	if s.base == "" {
		return resource
	}
	return strings.TrimRight(s.base, "/") + "/" + strings.TrimLeft(resource, "/")
}

// Parse reads "name=weight,name=weight" as used in the ENDPOINTS variable
func Parse(spec string) ([]Weighted, error) {
	var out []Weighted
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, weight, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("endpoint %q: expected name=weight", part)
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(weight), 64)
		if err != nil {
			return nil, fmt.Errorf("endpoint %q: invalid weight: %w", name, err)
		}
		out = append(out, Weighted{Resource: strings.TrimSpace(name), Weight: w})
	}
	if len(out) == 0 {
		return nil, errors.New("no endpoints configured")
	}
	return out, nil
}
