package valueobjects

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"golang.org/x/crypto/sha3"

	"memcore/domain/config"
	pkgerrors "memcore/pkg/errors"
)

// hashEncodingVersion is folded into the digest so a future change to
// the canonical encoding produces distinguishable hashes instead of
// silent collisions with the old scheme.
const hashEncodingVersion = "memcore/provenance/v1"

var contributionHashPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Contributor records one agent's participation in consensus building.
// Value type: it exists only inside a provenance's contributor
// sequence, whose order reflects the deliberation sequence.
type Contributor struct {
	modelIdentity    string
	role             string
	confidence       float64
	contributionHash string
}

// NewContributor creates a contributor with validation. The role must
// already be a resolved contributor-role literal; the contribution
// hash is optional but must be a 64-character hex digest when present.
func NewContributor(modelIdentity, role string, confidence float64, contributionHash string) (Contributor, error) {
	if modelIdentity == "" {
		return Contributor{}, pkgerrors.NewMissingRequiredField("model")
	}
	if role == "" {
		return Contributor{}, pkgerrors.NewMissingRequiredField("role")
	}
	if confidence < 0 || confidence > 1 {
		return Contributor{}, pkgerrors.NewScoreOutOfRange("confidence", confidence)
	}
	if contributionHash != "" && !contributionHashPattern.MatchString(contributionHash) {
		return Contributor{}, pkgerrors.NewDomainError(
			pkgerrors.DomainValidationError,
			"FIELD_VALIDATION_ERROR",
			"contribution hash must be a 64-character lowercase hex digest",
		).WithField("contribution_hash")
	}

	return Contributor{
		modelIdentity:    modelIdentity,
		role:             role,
		confidence:       confidence,
		contributionHash: contributionHash,
	}, nil
}

// ModelIdentity returns the contributing model's identity
func (c Contributor) ModelIdentity() string {
	return c.modelIdentity
}

// Role returns the contributor's role literal
func (c Contributor) Role() string {
	return c.role
}

// Confidence returns the contributor's confidence score
func (c Contributor) Confidence() float64 {
	return c.confidence
}

// ContributionHash returns the optional per-contribution digest
func (c Contributor) ContributionHash() string {
	return c.contributionHash
}

// ConsensusProvenance is the audit trail of how a memory node's
// content was established. The integrity hash is computed exactly once
// at construction; the object is immutable thereafter, which makes the
// hash tamper evidence rather than a cache.
type ConsensusProvenance struct {
	method         string
	contributors   []Contributor
	consensusScore float64
	dissentNotes   string
	establishedAt  time.Time
	integrityHash  string
}

// NewConsensusProvenance builds a provenance record and computes its
// integrity hash. The method must already be a resolved consensus
// method literal.
func NewConsensusProvenance(method string, contributors []Contributor, consensusScore float64, dissentNotes string) (ConsensusProvenance, error) {
	return newProvenance(method, contributors, consensusScore, dissentNotes, time.Now().UTC())
}

// ReconstructConsensusProvenance rebuilds a provenance from previously
// persisted data. Under HashPolicyVerify the digest is re-derived and
// compared against the stored value; under HashPolicyTrust the stored
// value is carried as-is.
func ReconstructConsensusProvenance(
	method string,
	contributors []Contributor,
	consensusScore float64,
	dissentNotes string,
	establishedAt time.Time,
	storedHash string,
	policy config.HashVerificationPolicy,
) (ConsensusProvenance, error) {
	if establishedAt.IsZero() {
		establishedAt = time.Now().UTC()
	}

	p, err := newProvenance(method, contributors, consensusScore, dissentNotes, establishedAt)
	if err != nil {
		return ConsensusProvenance{}, err
	}

	if storedHash == "" {
		return p, nil
	}

	switch policy {
	case config.HashPolicyTrust:
		p.integrityHash = storedHash
	default:
		if storedHash != p.integrityHash {
			return ConsensusProvenance{}, pkgerrors.NewIntegrityHashMismatch(storedHash, p.integrityHash).
				WithField("provenance.integrity_hash")
		}
	}

	return p, nil
}

func newProvenance(method string, contributors []Contributor, consensusScore float64, dissentNotes string, establishedAt time.Time) (ConsensusProvenance, error) {
	if method == "" {
		return ConsensusProvenance{}, pkgerrors.NewMissingRequiredField("provenance.method")
	}
	if len(contributors) == 0 {
		return ConsensusProvenance{}, pkgerrors.NewEmptyContributorList().WithField("provenance.contributors")
	}
	if consensusScore < 0 || consensusScore > 1 {
		return ConsensusProvenance{}, pkgerrors.NewScoreOutOfRange("provenance.consensus_score", consensusScore)
	}

	// Copy so a caller-held slice can never mutate the hashed sequence.
	owned := make([]Contributor, len(contributors))
	copy(owned, contributors)

	return ConsensusProvenance{
		method:         method,
		contributors:   owned,
		consensusScore: consensusScore,
		dissentNotes:   dissentNotes,
		establishedAt:  establishedAt,
		integrityHash:  computeIntegrityHash(method, owned, consensusScore),
	}, nil
}

// computeIntegrityHash derives the SHA3-256 digest over a canonical,
// length-delimited encoding of method, the ordered (identity, role)
// pairs, and the consensus score. Length prefixes keep the encoding
// unambiguous; shortest round-trip float formatting keeps it
// independent of incidental formatting.
func computeIntegrityHash(method string, contributors []Contributor, consensusScore float64) string {
	h := sha3.New256()

	writeField := func(s string) {
		var size [8]byte
		binary.BigEndian.PutUint64(size[:], uint64(len(s)))
		h.Write(size[:])
		h.Write([]byte(s))
	}

	writeField(hashEncodingVersion)
	writeField(method)
	writeField(strconv.Itoa(len(contributors)))
	for _, c := range contributors {
		writeField(c.modelIdentity)
		writeField(c.role)
	}
	writeField(strconv.FormatFloat(consensusScore, 'g', -1, 64))

	return hex.EncodeToString(h.Sum(nil))
}

// Method returns the consensus method literal
func (p ConsensusProvenance) Method() string {
	return p.method
}

// Contributors returns the ordered contributor sequence
func (p ConsensusProvenance) Contributors() []Contributor {
	out := make([]Contributor, len(p.contributors))
	copy(out, p.contributors)
	return out
}

// ConsensusScore returns the consensus score in [0, 1]
func (p ConsensusProvenance) ConsensusScore() float64 {
	return p.consensusScore
}

// DissentNotes returns any recorded dissent
func (p ConsensusProvenance) DissentNotes() string {
	return p.dissentNotes
}

// EstablishedAt returns when consensus was established
func (p ConsensusProvenance) EstablishedAt() time.Time {
	return p.establishedAt
}

// IntegrityHash returns the digest computed at construction
func (p ConsensusProvenance) IntegrityHash() string {
	return p.integrityHash
}

// IsZero checks if the provenance is the zero value
func (p ConsensusProvenance) IsZero() bool {
	return p.integrityHash == "" && len(p.contributors) == 0
}

// String returns a short description for logging
func (p ConsensusProvenance) String() string {
	return fmt.Sprintf("%s by %d contributor(s), score %.2f", p.method, len(p.contributors), p.consensusScore)
}
