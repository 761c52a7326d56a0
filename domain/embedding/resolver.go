package embedding

import (
	"regexp"
	"sort"
	"sync/atomic"

	"memcore/pkg/errors"
)

// FallbackPolicy governs identities absent from the dimension table.
// When the pattern matches, the required dimension is taken from the
// candidate's explicit override; without an override the vector only
// has to clear the minimum-length sanity bound.
type FallbackPolicy struct {
	Pattern   *regexp.Regexp
	MinLength int
}

// Resolver is a pure, immutable mapping from embedding model identity
// to required vector dimension. Registering a new identity produces a
// new resolver; an existing identity can never change its dimension.
// A changed dimension is a new identity, never a silent
// reinterpretation of old data.
type Resolver struct {
	dimensions map[string]int
	fallback   *FallbackPolicy
}

// NewResolver builds a resolver from a model-to-dimension table
func NewResolver(dimensions map[string]int) *Resolver {
	table := make(map[string]int, len(dimensions))
	for model, dim := range dimensions {
		table[model] = dim
	}
	return &Resolver{dimensions: table}
}

// Builtin returns the resolver shipped with the process
func Builtin() *Resolver {
	return NewResolver(map[string]int{
		"bge-m3-v1.5":            1024,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
	})
}

// WithModel returns a new resolver that also knows the given identity.
// Re-registering an identity with its current dimension is a no-op;
// re-registering with a different dimension is rejected.
func (r *Resolver) WithModel(model string, dimension int) (*Resolver, error) {
	if model == "" {
		return nil, errors.NewDomainError(
			errors.DomainValidationError,
			"FIELD_VALIDATION_ERROR",
			"embedding model identity cannot be empty",
		)
	}
	if dimension <= 0 {
		return nil, errors.NewDomainError(
			errors.DomainValidationError,
			"FIELD_VALIDATION_ERROR",
			"embedding dimension must be positive",
		).WithDetail("model", model).WithDetail("dimension", dimension)
	}

	if existing, ok := r.dimensions[model]; ok {
		if existing == dimension {
			return r, nil
		}
		return nil, errors.NewDomainError(
			errors.DomainConflictError,
			"MODEL_DIMENSION_CONFLICT",
			"model identity is already registered with a different dimension; register a new identity instead",
		).WithDetail("model", model).
			WithDetail("registered", existing).
			WithDetail("requested", dimension)
	}

	table := make(map[string]int, len(r.dimensions)+1)
	for m, d := range r.dimensions {
		table[m] = d
	}
	table[model] = dimension
	return &Resolver{dimensions: table, fallback: r.fallback}, nil
}

// WithFallback returns a new resolver carrying the given fallback policy
func (r *Resolver) WithFallback(policy FallbackPolicy) *Resolver {
	return &Resolver{dimensions: r.dimensions, fallback: &policy}
}

// RequiredDimension resolves a model identity to its required vector
// length, failing with UNKNOWN_EMBEDDING_MODEL for identities outside
// both the table and the fallback policy.
func (r *Resolver) RequiredDimension(model string) (int, error) {
	if dim, ok := r.dimensions[model]; ok {
		return dim, nil
	}
	return 0, errors.NewUnknownEmbeddingModel(model)
}

// Validate checks a vector against the required dimension for its
// declared model. override carries the candidate's explicit dimension
// for fallback identities; zero means no override.
func (r *Resolver) Validate(model string, vector []float64, override int) error {
	if dim, ok := r.dimensions[model]; ok {
		if len(vector) != dim {
			return errors.NewDimensionMismatch(model, dim, len(vector))
		}
		return nil
	}

	if r.fallback != nil && r.fallback.Pattern != nil && r.fallback.Pattern.MatchString(model) {
		if override > 0 {
			if len(vector) != override {
				return errors.NewDimensionMismatch(model, override, len(vector))
			}
			return nil
		}
		if len(vector) < r.fallback.MinLength {
			return errors.NewDimensionMismatch(model, r.fallback.MinLength, len(vector)).
				WithDetail("minimum", r.fallback.MinLength)
		}
		return nil
	}

	return errors.NewUnknownEmbeddingModel(model)
}

// Models returns the registered identities in sorted order
func (r *Resolver) Models() []string {
	out := make([]string, 0, len(r.dimensions))
	for model := range r.dimensions {
		out = append(out, model)
	}
	sort.Strings(out)
	return out
}

// Store is the process-wide holder for the current resolver. Updates
// swap the whole table; concurrent validators never observe a partial
// update.
type Store struct {
	current atomic.Pointer[Resolver]
}

// NewStore creates a store holding the given resolver
func NewStore(r *Resolver) *Store {
	s := &Store{}
	s.current.Store(r)
	return s
}

// Load returns the current resolver
func (s *Store) Load() *Resolver {
	return s.current.Load()
}

// Swap atomically replaces the whole resolver table
func (s *Store) Swap(r *Resolver) {
	s.current.Store(r)
}
