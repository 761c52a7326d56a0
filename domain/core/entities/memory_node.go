package entities

import (
	"encoding/json"
	"time"

	"memcore/domain/core/valueobjects"
	"memcore/domain/vocab"
	pkgerrors "memcore/pkg/errors"
)

// MemoryNode is the validated root entity: a long-lived knowledge
// record whose shape, numeric bounds, and provenance have all been
// admitted. Nodes are immutable; any field change goes back through
// the full validation pipeline and produces a new instance.
type MemoryNode struct {
	id                  valueobjects.NodeID
	nodeType            string
	domains             []string
	storageTier         string
	classification      string
	summary             valueobjects.ContentSummary
	embedding           []float64
	embeddingModel      string
	embeddingDimensions int
	provenance          valueobjects.ConsensusProvenance
	latentContext       *valueobjects.LatentStateContext
	artifact            *valueobjects.ArtifactPointer
	diodePacket         *valueobjects.DiodePacket
	edges               []valueobjects.CausalEdge
	identity            valueobjects.IdentityBinding
	utility             valueobjects.MemoryUtility
	recall              valueobjects.RecallDynamics
	mastery             *valueobjects.MasteryState
	createdAt           time.Time
}

// NodeAttributes carries the fully resolved and derived field values
// assembled by the validation pipeline. It is the only way to build a
// MemoryNode.
type NodeAttributes struct {
	ID                  valueobjects.NodeID
	Type                string
	Domains             []string
	StorageTier         string
	Classification      string
	Summary             valueobjects.ContentSummary
	Embedding           []float64
	EmbeddingModel      string
	EmbeddingDimensions int
	Provenance          valueobjects.ConsensusProvenance
	LatentContext       *valueobjects.LatentStateContext
	Artifact            *valueobjects.ArtifactPointer
	DiodePacket         *valueobjects.DiodePacket
	Edges               []valueobjects.CausalEdge
	Identity            valueobjects.IdentityBinding
	Utility             valueobjects.MemoryUtility
	Recall              valueobjects.RecallDynamics
	Mastery             *valueobjects.MasteryState
	CreatedAt           time.Time
}

// NewMemoryNode builds a validated node from pipeline output. It
// re-asserts the structural invariants so a node can never exist in a
// shape the pipeline would reject.
func NewMemoryNode(attrs NodeAttributes) (*MemoryNode, error) {
	if attrs.ID.IsZero() {
		return nil, pkgerrors.NewMissingRequiredField("id")
	}
	if attrs.Type == "" {
		return nil, pkgerrors.NewMissingRequiredField("type")
	}
	if len(attrs.Domains) == 0 {
		return nil, pkgerrors.NewMissingRequiredField("domains")
	}
	if attrs.Summary.IsEmpty() {
		return nil, pkgerrors.NewMissingRequiredField("content_summary")
	}
	if len(attrs.Embedding) == 0 {
		return nil, pkgerrors.NewMissingRequiredField("embedding")
	}
	if attrs.Provenance.IsZero() {
		return nil, pkgerrors.NewMissingRequiredField("provenance")
	}

	restricted := attrs.Classification == vocab.ClassificationRestricted
	if restricted && (attrs.DiodePacket == nil || attrs.DiodePacket.IsZero()) {
		return nil, pkgerrors.NewSecurityInvariantViolation(
			"restricted node requires a derived diode packet",
		).WithField("diode_packet")
	}
	if !restricted && attrs.DiodePacket != nil {
		return nil, pkgerrors.NewSecurityInvariantViolation(
			"only restricted nodes carry a diode packet",
		).WithField("diode_packet")
	}

	createdAt := attrs.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	node := &MemoryNode{
		id:                  attrs.ID,
		nodeType:            attrs.Type,
		domains:             append([]string(nil), attrs.Domains...),
		storageTier:         attrs.StorageTier,
		classification:      attrs.Classification,
		summary:             attrs.Summary,
		embedding:           append([]float64(nil), attrs.Embedding...),
		embeddingModel:      attrs.EmbeddingModel,
		embeddingDimensions: attrs.EmbeddingDimensions,
		provenance:          attrs.Provenance,
		edges:               append([]valueobjects.CausalEdge(nil), attrs.Edges...),
		identity:            attrs.Identity,
		utility:             attrs.Utility,
		recall:              attrs.Recall,
		createdAt:           createdAt,
	}

	if attrs.LatentContext != nil {
		latent := *attrs.LatentContext
		node.latentContext = &latent
	}
	if attrs.Artifact != nil {
		artifact := *attrs.Artifact
		node.artifact = &artifact
	}
	if attrs.DiodePacket != nil {
		packet := *attrs.DiodePacket
		node.diodePacket = &packet
	}
	if attrs.Mastery != nil {
		mastery := *attrs.Mastery
		node.mastery = &mastery
	}

	return node, nil
}

// ID returns the node's unique identifier
func (n *MemoryNode) ID() valueobjects.NodeID {
	return n.id
}

// Type returns the node type literal
func (n *MemoryNode) Type() string {
	return n.nodeType
}

// Domains returns a copy of the knowledge domain literals
func (n *MemoryNode) Domains() []string {
	return append([]string(nil), n.domains...)
}

// StorageTier returns the storage tier literal
func (n *MemoryNode) StorageTier() string {
	return n.storageTier
}

// Classification returns the classification literal
func (n *MemoryNode) Classification() string {
	return n.classification
}

// IsRestricted reports whether the node is classified restricted
func (n *MemoryNode) IsRestricted() bool {
	return n.classification == vocab.ClassificationRestricted
}

// Summary returns the content summary
func (n *MemoryNode) Summary() valueobjects.ContentSummary {
	return n.summary
}

// Embedding returns a copy of the embedding vector
func (n *MemoryNode) Embedding() []float64 {
	return append([]float64(nil), n.embedding...)
}

// EmbeddingModel returns the declared embedding model identity
func (n *MemoryNode) EmbeddingModel() string {
	return n.embeddingModel
}

// Provenance returns the consensus provenance
func (n *MemoryNode) Provenance() valueobjects.ConsensusProvenance {
	return n.provenance
}

// LatentContext returns the latent state snapshot, if captured
func (n *MemoryNode) LatentContext() *valueobjects.LatentStateContext {
	if n.latentContext == nil {
		return nil
	}
	latent := *n.latentContext
	return &latent
}

// Artifact returns the external artifact pointer, if any
func (n *MemoryNode) Artifact() *valueobjects.ArtifactPointer {
	if n.artifact == nil {
		return nil
	}
	artifact := *n.artifact
	return &artifact
}

// DiodePacket returns the derived audit packet; nil unless restricted
func (n *MemoryNode) DiodePacket() *valueobjects.DiodePacket {
	if n.diodePacket == nil {
		return nil
	}
	packet := *n.diodePacket
	return &packet
}

// Edges returns a copy of the causal edges
func (n *MemoryNode) Edges() []valueobjects.CausalEdge {
	return append([]valueobjects.CausalEdge(nil), n.edges...)
}

// Identity returns the identity binding
func (n *MemoryNode) Identity() valueobjects.IdentityBinding {
	return n.identity
}

// Utility returns the memory utility metrics
func (n *MemoryNode) Utility() valueobjects.MemoryUtility {
	return n.utility
}

// Recall returns the recall dynamics
func (n *MemoryNode) Recall() valueobjects.RecallDynamics {
	return n.recall
}

// Mastery returns the mastery state, if tracked
func (n *MemoryNode) Mastery() *valueobjects.MasteryState {
	if n.mastery == nil {
		return nil
	}
	mastery := *n.mastery
	return &mastery
}

// CreatedAt returns when the node was created
func (n *MemoryNode) CreatedAt() time.Time {
	return n.createdAt
}

// ToCandidate produces the candidate form of this node, for feeding a
// changed record back through the full validation pipeline. Derived
// fields travel along: the stored integrity hash lets the pipeline
// apply its verification policy, and the diode packet lets it reject
// stale audit artifacts after a downgrade.
func (n *MemoryNode) ToCandidate() Candidate {
	c := Candidate{
		ID:                  n.id.String(),
		Type:                n.nodeType,
		Domains:             n.Domains(),
		StorageTier:         n.storageTier,
		Classification:      n.classification,
		ContentSummary:      n.summary.Text(),
		Embedding:           n.Embedding(),
		EmbeddingModel:      n.embeddingModel,
		EmbeddingDimensions: n.embeddingDimensions,
		Provenance:          provenanceToCandidate(n.provenance),
		CreatedAt:           n.createdAt,
	}

	if n.latentContext != nil {
		c.LatentContext = &CandidateLatent{
			AffectVector:    n.latentContext.AffectVector(),
			DissonanceScore: n.latentContext.DissonanceScore(),
			ExplorationRate: n.latentContext.ExplorationRate(),
		}
	}
	if n.artifact != nil {
		artifact := artifactToCandidate(*n.artifact)
		c.Artifact = &artifact
	}
	if n.diodePacket != nil {
		pointer := artifactToCandidate(n.diodePacket.Pointer())
		c.DiodePacket = &CandidatePacket{
			ArtifactPointer: &pointer,
			Payload:         n.diodePacket.Payload(),
		}
	}
	for _, edge := range n.edges {
		c.Edges = append(c.Edges, CandidateEdge{
			TargetID:  edge.TargetID().String(),
			Relation:  edge.Relation(),
			Weight:    edge.Weight(),
			CreatedAt: edge.CreatedAt(),
		})
	}
	c.Identity = &CandidateIdentity{
		Weight:        n.identity.Weight(),
		DriftPressure: n.identity.DriftPressure(),
		IsProtected:   n.identity.IsProtected(),
	}
	c.Utility = &CandidateUtility{
		AccessCount:     n.utility.AccessCount(),
		LastAccessed:    n.utility.LastAccessed(),
		PredictiveValue: n.utility.PredictiveValue(),
		RedundancyScore: n.utility.RedundancyScore(),
	}
	c.Recall = &CandidateRecall{
		RecallCount:     n.recall.RecallCount(),
		DistortionScore: n.recall.DistortionScore(),
		LastReinforced:  n.recall.LastReinforced(),
	}
	if n.mastery != nil {
		c.Mastery = &CandidateMastery{
			Domain:          n.mastery.Domain(),
			UserProficiency: n.mastery.UserProficiency(),
			LastVerified:    n.mastery.LastVerified(),
		}
	}

	return c
}

// MarshalJSON serializes the node to its external output form. The
// same document decodes back into a Candidate, so storage tiers can
// round-trip records through re-validation.
func (n *MemoryNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.ToCandidate())
}

func provenanceToCandidate(p valueobjects.ConsensusProvenance) CandidateProvenance {
	out := CandidateProvenance{
		Method:         p.Method(),
		ConsensusScore: p.ConsensusScore(),
		DissentNotes:   p.DissentNotes(),
		EstablishedAt:  p.EstablishedAt(),
		IntegrityHash:  p.IntegrityHash(),
	}
	for _, c := range p.Contributors() {
		out.Contributors = append(out.Contributors, CandidateContributor{
			Model:            c.ModelIdentity(),
			Role:             c.Role(),
			Confidence:       c.Confidence(),
			ContributionHash: c.ContributionHash(),
		})
	}
	return out
}

func artifactToCandidate(a valueobjects.ArtifactPointer) CandidateArtifact {
	return CandidateArtifact{
		Tier:     a.Tier(),
		Path:     a.Path(),
		FileType: a.FileType(),
		Checksum: a.Checksum(),
		SizeMB:   a.SizeMB(),
	}
}
