package vocab

import (
	"fmt"
	"sort"
	"sync/atomic"
)

// Vocabulary names. Consumers depend on the registry through these
// names, never on hardcoded literal sets.
const (
	StorageTiers     = "storage_tier"
	Classifications  = "classification"
	KnowledgeDomains = "knowledge_domain"
	NodeTypes        = "node_type"
	ContributorRoles = "contributor_role"
	ConsensusMethods = "consensus_method"
	EdgeRelations    = "edge_relation"
	FileTypes        = "file_type"
)

// Canonical literals referenced by the validation pipeline itself.
// Everything else stays data inside the registry.
const (
	ClassificationPublic     = "public"
	ClassificationInternal   = "internal"
	ClassificationRestricted = "restricted"

	TierHotRAM      = "T0_RAM_Graph"
	TierHotNVMe     = "T1_NVMe_Index"
	TierWarmPool    = "T2_ZFS_Pool"
	TierColdLake    = "T3_QNAP_Main"
	TierDeepArchive = "T4_QNAP_Sec"
)

// Registry is an immutable collection of closed vocabularies. Updates
// produce a new registry; concurrent readers never observe a partially
// updated table.
type Registry struct {
	vocabularies map[string]*Vocabulary
	revision     uint64
}

// NewRegistry builds a registry from the given vocabularies
func NewRegistry(vocabularies ...*Vocabulary) (*Registry, error) {
	table := make(map[string]*Vocabulary, len(vocabularies))
	for _, v := range vocabularies {
		if _, exists := table[v.name]; exists {
			return nil, fmt.Errorf("registry declares vocabulary %q twice", v.name)
		}
		table[v.name] = v
	}
	return &Registry{vocabularies: table, revision: 1}, nil
}

// Builtin returns the registry shipped with the process: the closed
// vocabularies of the memory node record family.
func Builtin() *Registry {
	r, err := NewRegistry(
		MustVocabulary(StorageTiers, []Member{
			{Literal: TierHotRAM},
			{Literal: TierHotNVMe},
			{Literal: TierWarmPool},
			{Literal: TierColdLake},
			{Literal: TierDeepArchive},
		}),
		MustVocabulary(Classifications, []Member{
			{Literal: ClassificationPublic},
			{Literal: ClassificationInternal},
			{Literal: ClassificationRestricted},
		}),
		MustVocabulary(KnowledgeDomains, []Member{
			{Literal: "general"},
			{Literal: "finance"},
			{Literal: "physics_qft"},
			{Literal: "quantum_comp"},
			{Literal: "neuroscience"},
			{Literal: "systems"},
		}),
		MustVocabulary(NodeTypes, []Member{
			{Literal: "episodic"},
			{Literal: "concept"},
			{Literal: "proof"},
			{Literal: "artifact"},
			{Literal: "question"},
		}),
		MustVocabulary(ContributorRoles, []Member{
			{Literal: "proposer"},
			{Literal: "critic"},
			{Literal: "synthesizer"},
			{Literal: "human_oracle"},
		}),
		MustVocabulary(ConsensusMethods, []Member{
			{Literal: "unanimous"},
			{Literal: "majority_vote"},
			{Literal: "human_override"},
		}),
		MustVocabulary(EdgeRelations, []Member{
			{Literal: "causes"},
			{Literal: "contradicts"},
			{Literal: "reinforces"},
			{Literal: "resolves"},
			{Literal: "mentions"},
		}),
		MustVocabulary(FileTypes, []Member{
			{Literal: "pdf"},
			{Literal: "jupyter"},
			{Literal: "sim_log"},
			{Literal: "codebase"},
			{Literal: "dataset"},
		}),
	)
	if err != nil {
		panic(err)
	}
	return r
}

// Vocabulary returns a vocabulary by name
func (r *Registry) Vocabulary(name string) (*Vocabulary, bool) {
	v, ok := r.vocabularies[name]
	return v, ok
}

// Resolve resolves a raw literal against a named vocabulary
func (r *Registry) Resolve(vocabulary, raw string) (Value, error) {
	v, ok := r.vocabularies[vocabulary]
	if !ok {
		return Value{}, fmt.Errorf("unknown vocabulary %q", vocabulary)
	}
	return v.Resolve(raw)
}

// With returns a new registry with the given vocabulary added or
// replaced. The receiver is unchanged.
func (r *Registry) With(v *Vocabulary) *Registry {
	table := make(map[string]*Vocabulary, len(r.vocabularies)+1)
	for name, existing := range r.vocabularies {
		table[name] = existing
	}
	table[v.name] = v
	return &Registry{vocabularies: table, revision: r.revision}
}

// Revision returns the registry revision, incremented on each swap
func (r *Registry) Revision() uint64 {
	return r.revision
}

// Names returns the registered vocabulary names in sorted order
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.vocabularies))
	for name := range r.vocabularies {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Store is the process-wide holder for the current registry. Reads are
// lock-free; updates swap the whole registry atomically so concurrent
// validators never see a half-applied change.
type Store struct {
	current atomic.Pointer[Registry]
}

// NewStore creates a store holding the given registry
func NewStore(r *Registry) *Store {
	s := &Store{}
	s.current.Store(r)
	return s
}

// Load returns the current registry
func (s *Store) Load() *Registry {
	return s.current.Load()
}

// Swap atomically replaces the whole registry and bumps its revision
func (s *Store) Swap(r *Registry) *Registry {
	prev := s.current.Load()
	next := &Registry{vocabularies: r.vocabularies, revision: prev.revision + 1}
	s.current.Store(next)
	return next
}
