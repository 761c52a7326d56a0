package vocab

import (
	"fmt"
	"sort"

	"memcore/pkg/errors"
)

// Member describes one literal of a closed vocabulary. A member may be
// deprecated but still valid, optionally remapped to a current literal
// so old persisted records keep resolving.
type Member struct {
	Literal    string `yaml:"literal"`
	Deprecated bool   `yaml:"deprecated,omitempty"`
	ReplacedBy string `yaml:"replaced_by,omitempty"`
}

// Value is the result of resolving a raw literal against a vocabulary
type Value struct {
	// Literal is the canonical literal after any replacement mapping
	Literal string
	// Raw is the literal exactly as supplied
	Raw string
	// Deprecated flags that the supplied literal is deprecated
	Deprecated bool
}

// Remapped reports whether resolution followed a replacement mapping
func (v Value) Remapped() bool {
	return v.Literal != v.Raw
}

// Vocabulary is an immutable closed set of literals. Construction
// validates the member table; after that the vocabulary is read-only.
type Vocabulary struct {
	name    string
	members map[string]Member
}

// NewVocabulary builds a vocabulary from its member list
func NewVocabulary(name string, members []Member) (*Vocabulary, error) {
	if name == "" {
		return nil, fmt.Errorf("vocabulary name cannot be empty")
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("vocabulary %q has no members", name)
	}

	table := make(map[string]Member, len(members))
	for _, m := range members {
		if m.Literal == "" {
			return nil, fmt.Errorf("vocabulary %q has a member with an empty literal", name)
		}
		if _, exists := table[m.Literal]; exists {
			return nil, fmt.Errorf("vocabulary %q declares literal %q twice", name, m.Literal)
		}
		table[m.Literal] = m
	}

	// Every replacement must point at another member of the same
	// vocabulary, so resolution can never dead-end.
	for _, m := range members {
		if m.ReplacedBy == "" {
			continue
		}
		if m.ReplacedBy == m.Literal {
			return nil, fmt.Errorf("vocabulary %q: literal %q replaces itself", name, m.Literal)
		}
		if _, exists := table[m.ReplacedBy]; !exists {
			return nil, fmt.Errorf("vocabulary %q: replacement %q for %q is not a member", name, m.ReplacedBy, m.Literal)
		}
	}

	return &Vocabulary{name: name, members: table}, nil
}

// MustVocabulary builds a vocabulary and panics on an invalid member
// table. Reserved for the builtin tables wired at process start.
func MustVocabulary(name string, members []Member) *Vocabulary {
	v, err := NewVocabulary(name, members)
	if err != nil {
		panic(err)
	}
	return v
}

// Name returns the vocabulary name
func (v *Vocabulary) Name() string {
	return v.name
}

// Resolve looks up a raw literal. Unknown literals fail with
// UNKNOWN_ENUM_LITERAL; deprecated literals resolve successfully,
// flagged, following at most one replacement hop per member until a
// current literal is reached.
func (v *Vocabulary) Resolve(raw string) (Value, error) {
	member, ok := v.members[raw]
	if !ok {
		return Value{}, errors.NewUnknownEnumLiteral(v.name, raw)
	}

	canonical := member.Literal
	deprecated := member.Deprecated
	seen := map[string]bool{canonical: true}
	for v.members[canonical].ReplacedBy != "" {
		next := v.members[canonical].ReplacedBy
		if seen[next] {
			// Replacement cycle; stop at the last literal reached.
			break
		}
		seen[next] = true
		canonical = next
	}

	return Value{Literal: canonical, Raw: raw, Deprecated: deprecated}, nil
}

// Contains reports whether a literal is a member, deprecated or not
func (v *Vocabulary) Contains(literal string) bool {
	_, ok := v.members[literal]
	return ok
}

// Literals returns all member literals in sorted order
func (v *Vocabulary) Literals() []string {
	out := make([]string, 0, len(v.members))
	for literal := range v.members {
		out = append(out, literal)
	}
	sort.Strings(out)
	return out
}
