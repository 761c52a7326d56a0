package entities

import (
	"encoding/json"
	"time"

	"memcore/pkg/errors"
)

// Candidate is the raw, not-yet-trusted record shape handed in by the
// agent runtime. Field values are plain text and numbers; nothing here
// is resolved or derived. Any encoding that decodes to this shape can
// feed the pipeline.
type Candidate struct {
	ID                  string               `json:"id,omitempty"`
	Type                string               `json:"type" validate:"required"`
	Domains             []string             `json:"domains" validate:"required,min=1"`
	StorageTier         string               `json:"storage_tier,omitempty"`
	Classification      string               `json:"classification,omitempty"`
	ContentSummary      string               `json:"content_summary" validate:"required"`
	Embedding           []float64            `json:"embedding" validate:"required"`
	EmbeddingModel      string               `json:"embedding_model,omitempty"`
	EmbeddingDimensions int                  `json:"embedding_dimensions,omitempty"`
	Provenance          CandidateProvenance  `json:"provenance"`
	LatentContext       *CandidateLatent     `json:"latent_context,omitempty"`
	Artifact            *CandidateArtifact   `json:"artifact,omitempty"`
	DiodePacket         *CandidatePacket     `json:"diode_packet,omitempty"`
	Edges               []CandidateEdge      `json:"edges,omitempty"`
	Identity            *CandidateIdentity   `json:"identity,omitempty"`
	Utility             *CandidateUtility    `json:"utility,omitempty"`
	Recall              *CandidateRecall     `json:"recall,omitempty"`
	Mastery             *CandidateMastery    `json:"mastery,omitempty"`
	CreatedAt           time.Time            `json:"created_at,omitempty"`
}

// CandidateProvenance is the raw consensus provenance block
type CandidateProvenance struct {
	Method         string                 `json:"method" validate:"required"`
	Contributors   []CandidateContributor `json:"contributors"`
	ConsensusScore float64                `json:"consensus_score"`
	DissentNotes   string                 `json:"dissent_notes,omitempty"`
	EstablishedAt  time.Time              `json:"established_at,omitempty"`
	// IntegrityHash is only present when a previously validated record
	// re-enters the pipeline; fresh candidates leave it empty.
	IntegrityHash string `json:"integrity_hash,omitempty"`
}

// CandidateContributor is one raw contributor entry
type CandidateContributor struct {
	Model            string  `json:"model"`
	Role             string  `json:"role"`
	Confidence       float64 `json:"confidence"`
	ContributionHash string  `json:"contribution_hash,omitempty"`
}

// CandidateLatent is the raw latent state snapshot
type CandidateLatent struct {
	AffectVector    []float64 `json:"affect_vector"`
	DissonanceScore float64   `json:"dissonance_score"`
	ExplorationRate float64   `json:"exploration_rate"`
}

// CandidateArtifact is the raw artifact pointer block
type CandidateArtifact struct {
	Tier     string  `json:"tier"`
	Path     string  `json:"path"`
	FileType string  `json:"file_type"`
	Checksum string  `json:"checksum"`
	SizeMB   float64 `json:"size_mb"`
}

// CandidatePacket mirrors a previously derived diode packet. Callers
// never construct packets; the field exists so serialized restricted
// nodes decode losslessly. The pipeline re-derives the packet on every
// validation and rejects it outright on non-restricted candidates.
type CandidatePacket struct {
	ArtifactPointer *CandidateArtifact `json:"artifact_pointer,omitempty"`
	Payload         string             `json:"payload"`
}

// CandidateEdge is one raw causal edge entry
type CandidateEdge struct {
	TargetID  string    `json:"target_id"`
	Relation  string    `json:"relation"`
	Weight    float64   `json:"weight"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// CandidateIdentity is the raw identity binding block
type CandidateIdentity struct {
	Weight        float64 `json:"weight"`
	DriftPressure float64 `json:"drift_pressure"`
	IsProtected   bool    `json:"is_protected"`
}

// CandidateUtility is the raw memory utility block
type CandidateUtility struct {
	AccessCount     int       `json:"access_count"`
	LastAccessed    time.Time `json:"last_accessed,omitempty"`
	PredictiveValue float64   `json:"predictive_value"`
	RedundancyScore float64   `json:"redundancy_score"`
}

// CandidateRecall is the raw recall dynamics block
type CandidateRecall struct {
	RecallCount     int        `json:"recall_count"`
	DistortionScore float64    `json:"distortion_score"`
	LastReinforced  *time.Time `json:"last_reinforced,omitempty"`
}

// CandidateMastery is the raw mastery state block
type CandidateMastery struct {
	Domain          string    `json:"domain"`
	UserProficiency float64   `json:"user_proficiency"`
	LastVerified    time.Time `json:"last_verified,omitempty"`
}

// DecodeCandidate decodes a JSON document into a candidate
func DecodeCandidate(data []byte) (Candidate, error) {
	var c Candidate
	if err := json.Unmarshal(data, &c); err != nil {
		return Candidate{}, errors.NewDomainError(
			errors.DomainValidationError,
			"MALFORMED_CANDIDATE",
			"candidate document is not valid JSON",
		).WithCause(err)
	}
	return c, nil
}
