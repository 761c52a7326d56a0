package validators

import (
	"fmt"
	"regexp"
	"strings"

	"memcore/domain/config"
	"memcore/domain/core/entities"
	"memcore/domain/core/valueobjects"
	"memcore/domain/embedding"
	"memcore/domain/vocab"
	pkgerrors "memcore/pkg/errors"
	"memcore/pkg/utils"
)

// MemoryNodeValidator is the admission pipeline orchestrator. It runs
// a candidate through shape checks, enum resolution, embedding
// dimension checks, provenance hashing, and security escalation, and
// either returns a fully immutable MemoryNode or the first failure
// tagged with its field path. Each call is stateless; the only shared
// state is the read-only registry and resolver tables behind their
// atomic stores.
type MemoryNodeValidator struct {
	vocabularies *vocab.Store
	dimensions   *embedding.Store
	security     *SecurityEscalationValidator
	cfg          *config.DomainConfig
}

// NewMemoryNodeValidator creates a validator over the given tables
func NewMemoryNodeValidator(vocabularies *vocab.Store, dimensions *embedding.Store, cfg *config.DomainConfig) *MemoryNodeValidator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	return &MemoryNodeValidator{
		vocabularies: vocabularies,
		dimensions:   dimensions,
		security:     NewSecurityEscalationValidator(),
		cfg:          cfg,
	}
}

// NewDefaultMemoryNodeValidator creates a validator over the builtin
// vocabulary and dimension tables, with any fallback policy from the
// configuration applied.
func NewDefaultMemoryNodeValidator(cfg *config.DomainConfig) *MemoryNodeValidator {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	resolver := embedding.Builtin()
	if cfg.UnknownModelPattern != "" {
		resolver = resolver.WithFallback(embedding.FallbackPolicy{
			Pattern:   regexp.MustCompile(cfg.UnknownModelPattern),
			MinLength: cfg.UnknownModelMinLength,
		})
	}
	return NewMemoryNodeValidator(
		vocab.NewStore(vocab.Builtin()),
		embedding.NewStore(resolver),
		cfg,
	)
}

// Validate runs the full admission pipeline over a candidate. It
// short-circuits on the first failure; partial results are never
// exposed. Re-validating an existing node goes through this same path
// from its candidate form.
func (v *MemoryNodeValidator) Validate(candidate entities.Candidate) (*entities.MemoryNode, error) {
	registry := v.vocabularies.Load()
	resolver := v.dimensions.Load()

	v.applyDefaults(&candidate)

	if err := utils.ValidateStruct(candidate); err != nil {
		return nil, err
	}

	// Stage: enum resolution. Every literal resolves through the
	// registry; deprecated members pass, possibly remapped.
	nodeType, err := resolveEnum(registry, vocab.NodeTypes, candidate.Type, "type")
	if err != nil {
		return nil, err
	}

	domains, err := v.resolveDomains(registry, candidate.Domains)
	if err != nil {
		return nil, err
	}

	storageTier, err := resolveEnum(registry, vocab.StorageTiers, candidate.StorageTier, "storage_tier")
	if err != nil {
		return nil, err
	}

	classification, err := resolveEnum(registry, vocab.Classifications, candidate.Classification, "classification")
	if err != nil {
		return nil, err
	}

	method, err := resolveEnum(registry, vocab.ConsensusMethods, candidate.Provenance.Method, "provenance.method")
	if err != nil {
		return nil, err
	}

	roles := make([]string, len(candidate.Provenance.Contributors))
	for i, c := range candidate.Provenance.Contributors {
		role, err := resolveEnum(registry, vocab.ContributorRoles, c.Role,
			fmt.Sprintf("provenance.contributors[%d].role", i))
		if err != nil {
			return nil, err
		}
		roles[i] = role
	}

	var artifactTier, artifactFileType string
	if candidate.Artifact != nil {
		if artifactTier, err = resolveEnum(registry, vocab.StorageTiers, candidate.Artifact.Tier, "artifact.tier"); err != nil {
			return nil, err
		}
		if artifactFileType, err = resolveEnum(registry, vocab.FileTypes, candidate.Artifact.FileType, "artifact.file_type"); err != nil {
			return nil, err
		}
	}

	relations := make([]string, len(candidate.Edges))
	for i, e := range candidate.Edges {
		relation, err := resolveEnum(registry, vocab.EdgeRelations, e.Relation,
			fmt.Sprintf("edges[%d].relation", i))
		if err != nil {
			return nil, err
		}
		relations[i] = relation
	}

	var masteryDomain string
	if candidate.Mastery != nil {
		if masteryDomain, err = resolveEnum(registry, vocab.KnowledgeDomains, candidate.Mastery.Domain, "mastery.domain"); err != nil {
			return nil, err
		}
	}

	// Stage: embedding dimension.
	if err := resolver.Validate(candidate.EmbeddingModel, candidate.Embedding, candidate.EmbeddingDimensions); err != nil {
		return nil, withFieldPath(err, "embedding")
	}

	// Stage: consensus provenance and its integrity hash.
	provenance, err := v.buildProvenance(candidate.Provenance, method, roles)
	if err != nil {
		return nil, err
	}

	// Remaining value objects.
	summary, err := valueobjects.NewContentSummaryWithConfig(candidate.ContentSummary, v.cfg)
	if err != nil {
		return nil, err
	}

	var latent *valueobjects.LatentStateContext
	if candidate.LatentContext != nil {
		l, err := valueobjects.NewLatentStateContextWithConfig(
			candidate.LatentContext.AffectVector,
			candidate.LatentContext.DissonanceScore,
			candidate.LatentContext.ExplorationRate,
			v.cfg,
		)
		if err != nil {
			return nil, err
		}
		latent = &l
	}

	var artifact *valueobjects.ArtifactPointer
	if candidate.Artifact != nil {
		a, err := valueobjects.NewArtifactPointer(
			artifactTier,
			candidate.Artifact.Path,
			artifactFileType,
			candidate.Artifact.Checksum,
			candidate.Artifact.SizeMB,
		)
		if err != nil {
			return nil, err
		}
		artifact = &a
	}

	edges, err := v.buildEdges(candidate.Edges, relations)
	if err != nil {
		return nil, err
	}

	identity, utility, recall, mastery, err := v.buildDynamics(candidate, masteryDomain)
	if err != nil {
		return nil, err
	}

	// Stage: identifier. Assigned when absent; an identifier supplied
	// by a round-tripped record is preserved unchanged.
	id, err := resolveNodeID(candidate.ID)
	if err != nil {
		return nil, err
	}

	// Stage: security escalation.
	packet, err := v.security.Enforce(EscalationInput{
		Classification: classification,
		Artifact:       artifact,
		PacketSupplied: candidate.DiodePacket != nil,
		NodeID:         id,
		IntegrityHash:  provenance.IntegrityHash(),
		Domains:        domains,
		Latent:         latent,
	})
	if err != nil {
		return nil, err
	}

	return entities.NewMemoryNode(entities.NodeAttributes{
		ID:                  id,
		Type:                nodeType,
		Domains:             domains,
		StorageTier:         storageTier,
		Classification:      classification,
		Summary:             summary,
		Embedding:           candidate.Embedding,
		EmbeddingModel:      candidate.EmbeddingModel,
		EmbeddingDimensions: candidate.EmbeddingDimensions,
		Provenance:          provenance,
		LatentContext:       latent,
		Artifact:            artifact,
		DiodePacket:         packet,
		Edges:               edges,
		Identity:            identity,
		Utility:             utility,
		Recall:              recall,
		Mastery:             mastery,
		CreatedAt:           candidate.CreatedAt,
	})
}

// applyDefaults fills the optional taxonomy fields the way the record
// family defaults them
func (v *MemoryNodeValidator) applyDefaults(candidate *entities.Candidate) {
	if candidate.StorageTier == "" {
		candidate.StorageTier = v.cfg.DefaultStorageTier
	}
	if candidate.Classification == "" {
		candidate.Classification = v.cfg.DefaultClassification
	}
	if candidate.EmbeddingModel == "" {
		candidate.EmbeddingModel = v.cfg.DefaultEmbeddingModel
	}
}

// resolveDomains resolves every domain literal, preserving order and
// dropping duplicates after canonicalization
func (v *MemoryNodeValidator) resolveDomains(registry *vocab.Registry, raw []string) ([]string, error) {
	if len(raw) > v.cfg.MaxDomainsPerNode {
		return nil, pkgerrors.NewDomainError(
			pkgerrors.DomainBusinessRuleError,
			"DOMAIN_LIMIT_EXCEEDED",
			fmt.Sprintf("cannot declare more than %d knowledge domains", v.cfg.MaxDomainsPerNode),
		).WithField("domains").WithDetail("count", len(raw))
	}

	domains := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, d := range raw {
		resolved, err := resolveEnum(registry, vocab.KnowledgeDomains, d, fmt.Sprintf("domains[%d]", i))
		if err != nil {
			return nil, err
		}
		if !seen[resolved] {
			seen[resolved] = true
			domains = append(domains, resolved)
		}
	}
	return domains, nil
}

// buildProvenance assembles contributors and builds or reconstructs
// the provenance value, applying the hash verification policy when a
// stored digest is present
func (v *MemoryNodeValidator) buildProvenance(raw entities.CandidateProvenance, method string, roles []string) (valueobjects.ConsensusProvenance, error) {
	if len(raw.Contributors) > v.cfg.MaxContributors {
		return valueobjects.ConsensusProvenance{}, pkgerrors.NewDomainError(
			pkgerrors.DomainBusinessRuleError,
			"CONTRIBUTOR_LIMIT_EXCEEDED",
			fmt.Sprintf("cannot record more than %d contributors", v.cfg.MaxContributors),
		).WithField("provenance.contributors").WithDetail("count", len(raw.Contributors))
	}

	contributors := make([]valueobjects.Contributor, 0, len(raw.Contributors))
	for i, c := range raw.Contributors {
		contributor, err := valueobjects.NewContributor(c.Model, roles[i], c.Confidence, c.ContributionHash)
		if err != nil {
			return valueobjects.ConsensusProvenance{}, withFieldPath(err,
				fmt.Sprintf("provenance.contributors[%d].%s", i, fieldOf(err)))
		}
		contributors = append(contributors, contributor)
	}

	if raw.IntegrityHash != "" {
		return valueobjects.ReconstructConsensusProvenance(
			method,
			contributors,
			raw.ConsensusScore,
			raw.DissentNotes,
			raw.EstablishedAt,
			raw.IntegrityHash,
			v.cfg.HashVerification,
		)
	}

	return valueobjects.NewConsensusProvenance(method, contributors, raw.ConsensusScore, raw.DissentNotes)
}

// buildEdges assembles the causal edge values
func (v *MemoryNodeValidator) buildEdges(raw []entities.CandidateEdge, relations []string) ([]valueobjects.CausalEdge, error) {
	if len(raw) > v.cfg.MaxEdgesPerNode {
		return nil, pkgerrors.NewDomainError(
			pkgerrors.DomainBusinessRuleError,
			"EDGE_LIMIT_EXCEEDED",
			fmt.Sprintf("cannot declare more than %d causal edges", v.cfg.MaxEdgesPerNode),
		).WithField("edges").WithDetail("count", len(raw))
	}

	edges := make([]valueobjects.CausalEdge, 0, len(raw))
	for i, e := range raw {
		targetID, err := valueobjects.NewNodeIDFromString(e.TargetID)
		if err != nil {
			return nil, pkgerrors.NewDomainError(
				pkgerrors.DomainValidationError,
				"FIELD_VALIDATION_ERROR",
				err.Error(),
			).WithField(fmt.Sprintf("edges[%d].target_id", i))
		}
		edge, err := valueobjects.ReconstructCausalEdge(targetID, relations[i], e.Weight, e.CreatedAt)
		if err != nil {
			return nil, withFieldPath(err, fmt.Sprintf("edges[%d].%s", i, leafOf(fieldOf(err))))
		}
		edges = append(edges, edge)
	}
	return edges, nil
}

// buildDynamics assembles the optional biological dynamics blocks,
// falling back to zero values when a block is absent
func (v *MemoryNodeValidator) buildDynamics(candidate entities.Candidate, masteryDomain string) (valueobjects.IdentityBinding, valueobjects.MemoryUtility, valueobjects.RecallDynamics, *valueobjects.MasteryState, error) {
	var (
		identity valueobjects.IdentityBinding
		utility  valueobjects.MemoryUtility
		recall   valueobjects.RecallDynamics
		mastery  *valueobjects.MasteryState
		err      error
	)

	if candidate.Identity != nil {
		identity, err = valueobjects.NewIdentityBinding(
			candidate.Identity.Weight,
			candidate.Identity.DriftPressure,
			candidate.Identity.IsProtected,
		)
		if err != nil {
			return identity, utility, recall, nil, err
		}
	}

	if candidate.Utility != nil {
		utility, err = valueobjects.NewMemoryUtility(
			candidate.Utility.AccessCount,
			candidate.Utility.LastAccessed,
			candidate.Utility.PredictiveValue,
			candidate.Utility.RedundancyScore,
		)
		if err != nil {
			return identity, utility, recall, nil, err
		}
	}

	if candidate.Recall != nil {
		recall, err = valueobjects.NewRecallDynamics(
			candidate.Recall.RecallCount,
			candidate.Recall.DistortionScore,
			candidate.Recall.LastReinforced,
		)
		if err != nil {
			return identity, utility, recall, nil, err
		}
	}

	if candidate.Mastery != nil {
		m, err := valueobjects.NewMasteryState(
			masteryDomain,
			candidate.Mastery.UserProficiency,
			candidate.Mastery.LastVerified,
		)
		if err != nil {
			return identity, utility, recall, nil, err
		}
		mastery = &m
	}

	return identity, utility, recall, mastery, nil
}

// resolveEnum resolves a raw literal and tags failures with the field path
func resolveEnum(registry *vocab.Registry, vocabulary, raw, field string) (string, error) {
	value, err := registry.Resolve(vocabulary, raw)
	if err != nil {
		return "", withFieldPath(err, field)
	}
	return value.Literal, nil
}

// resolveNodeID parses a supplied identifier or assigns a fresh one
func resolveNodeID(raw string) (valueobjects.NodeID, error) {
	if raw == "" {
		return valueobjects.NewNodeID(), nil
	}
	id, err := valueobjects.NewNodeIDFromString(raw)
	if err != nil {
		return valueobjects.NodeID{}, pkgerrors.NewDomainError(
			pkgerrors.DomainValidationError,
			"FIELD_VALIDATION_ERROR",
			err.Error(),
		).WithField("id")
	}
	return id, nil
}

// withFieldPath tags a domain error with the offending field path
func withFieldPath(err error, field string) error {
	if de := pkgerrors.GetDomainError(err); de != nil {
		return de.WithField(field)
	}
	return err
}

// fieldOf returns the field already tagged on a domain error
func fieldOf(err error) string {
	if de := pkgerrors.GetDomainError(err); de != nil {
		return de.Field()
	}
	return ""
}

// leafOf strips any parent path from a tagged field name
func leafOf(field string) string {
	if i := strings.LastIndexByte(field, '.'); i >= 0 {
		return field[i+1:]
	}
	return field
}
