package validators

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memcore/domain/config"
	"memcore/domain/core/entities"
	"memcore/domain/embedding"
	"memcore/domain/vocab"
	pkgerrors "memcore/pkg/errors"
)

func makeEmbedding(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 0.25
	}
	return v
}

func createTestCandidate() entities.Candidate {
	return entities.Candidate{
		Type:           "concept",
		Domains:        []string{"finance"},
		ContentSummary: "Interest rate spreads widen ahead of quarterly rebalancing.",
		Embedding:      makeEmbedding(1024),
		EmbeddingModel: "bge-m3-v1.5",
		Provenance: entities.CandidateProvenance{
			Method: "majority_vote",
			Contributors: []entities.CandidateContributor{
				{Model: "claude-opus", Role: "proposer", Confidence: 0.92},
				{Model: "gpt-5", Role: "critic", Confidence: 0.85},
			},
			ConsensusScore: 0.88,
		},
	}
}

func createRestrictedCandidate() entities.Candidate {
	c := createTestCandidate()
	c.Classification = "restricted"
	c.Artifact = &entities.CandidateArtifact{
		Tier:     "T2_ZFS_Pool",
		Path:     "/mnt/pool/audit/record_001.pdf",
		FileType: "pdf",
		Checksum: "9a271f2a916b0b6ee6cecb2426f0b3206ef074578be55d9bc94f6f3fe3ab86aa",
		SizeMB:   4.2,
	}
	c.LatentContext = &entities.CandidateLatent{
		AffectVector:    make([]float64, 8),
		DissonanceScore: 0.2,
		ExplorationRate: 0.5,
	}
	return c
}

func newTestValidator() *MemoryNodeValidator {
	return NewDefaultMemoryNodeValidator(config.DefaultDomainConfig())
}

func TestMemoryNodeValidator_Validate_HappyPath(t *testing.T) {
	// Arrange
	v := newTestValidator()
	candidate := createTestCandidate()

	// Act
	node, err := v.Validate(candidate)

	// Assert
	require.NoError(t, err)
	assert.False(t, node.ID().IsZero())
	assert.Equal(t, "concept", node.Type())
	assert.Equal(t, []string{"finance"}, node.Domains())
	assert.Equal(t, "T1_NVMe_Index", node.StorageTier())
	assert.Equal(t, "internal", node.Classification())
	assert.Len(t, node.Provenance().IntegrityHash(), 64)
	assert.Nil(t, node.DiodePacket())
	assert.False(t, node.CreatedAt().IsZero())
}

func TestMemoryNodeValidator_Validate_MissingRequiredFields(t *testing.T) {
	v := newTestValidator()

	cases := []struct {
		name   string
		mutate func(*entities.Candidate)
		field  string
	}{
		{"no type", func(c *entities.Candidate) { c.Type = "" }, "type"},
		{"no domains", func(c *entities.Candidate) { c.Domains = nil }, "domains"},
		{"empty domains", func(c *entities.Candidate) { c.Domains = []string{} }, "domains"},
		{"no summary", func(c *entities.Candidate) { c.ContentSummary = "" }, "content_summary"},
		{"no embedding", func(c *entities.Candidate) { c.Embedding = nil }, "embedding"},
		{"no method", func(c *entities.Candidate) { c.Provenance.Method = "" }, "provenance.method"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			candidate := createTestCandidate()
			tc.mutate(&candidate)

			_, err := v.Validate(candidate)

			require.Error(t, err)
			assert.ErrorIs(t, err, pkgerrors.ErrMissingRequiredField)
			de := pkgerrors.GetDomainError(err)
			require.NotNil(t, de)
			assert.Equal(t, tc.field, de.Field())
		})
	}
}

func TestMemoryNodeValidator_Validate_UnknownEnumLiterals(t *testing.T) {
	v := newTestValidator()

	cases := []struct {
		name   string
		mutate func(*entities.Candidate)
		field  string
	}{
		{"unknown type", func(c *entities.Candidate) { c.Type = "dream" }, "type"},
		{"unknown domain", func(c *entities.Candidate) { c.Domains = []string{"finance", "astrology"} }, "domains[1]"},
		{"unknown tier", func(c *entities.Candidate) { c.StorageTier = "T9_Floppy" }, "storage_tier"},
		{"unknown classification", func(c *entities.Candidate) { c.Classification = "top_secret" }, "classification"},
		{"unknown method", func(c *entities.Candidate) { c.Provenance.Method = "coin_flip" }, "provenance.method"},
		{"unknown role", func(c *entities.Candidate) { c.Provenance.Contributors[1].Role = "bystander" }, "provenance.contributors[1].role"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			candidate := createTestCandidate()
			tc.mutate(&candidate)

			_, err := v.Validate(candidate)

			require.Error(t, err)
			assert.ErrorIs(t, err, pkgerrors.ErrUnknownEnumLiteral)
			de := pkgerrors.GetDomainError(err)
			require.NotNil(t, de)
			assert.Equal(t, tc.field, de.Field())
		})
	}
}

func TestMemoryNodeValidator_Validate_DeprecatedLiteralRemaps(t *testing.T) {
	// Arrange: a registry where an old tier literal remaps to a current one
	registry := vocab.Builtin().With(vocab.MustVocabulary(vocab.StorageTiers, []vocab.Member{
		{Literal: "T1_NVMe_Index"},
		{Literal: "T1_SSD_Index", Deprecated: true, ReplacedBy: "T1_NVMe_Index"},
	}))
	v := NewMemoryNodeValidator(
		vocab.NewStore(registry),
		embedding.NewStore(embedding.Builtin()),
		config.DefaultDomainConfig(),
	)

	candidate := createTestCandidate()
	candidate.StorageTier = "T1_SSD_Index"

	// Act
	node, err := v.Validate(candidate)

	// Assert: the node carries the canonical literal
	require.NoError(t, err)
	assert.Equal(t, "T1_NVMe_Index", node.StorageTier())
}

func TestMemoryNodeValidator_Validate_DimensionMismatch(t *testing.T) {
	// Arrange
	v := newTestValidator()
	candidate := createTestCandidate()
	candidate.Embedding = makeEmbedding(512)

	// Act
	_, err := v.Validate(candidate)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrDimensionMismatch)
	de := pkgerrors.GetDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, "embedding", de.Field())
	assert.Equal(t, 1024, de.Details["expected"])
	assert.Equal(t, 512, de.Details["actual"])
}

func TestMemoryNodeValidator_Validate_UnknownEmbeddingModel(t *testing.T) {
	// Arrange
	v := newTestValidator()
	candidate := createTestCandidate()
	candidate.EmbeddingModel = "mystery-model-v9"

	// Act
	_, err := v.Validate(candidate)

	// Assert
	assert.ErrorIs(t, err, pkgerrors.ErrUnknownEmbeddingModel)
}

func TestMemoryNodeValidator_Validate_FallbackModelWithOverride(t *testing.T) {
	// Arrange: development config opens the fallback to any identity
	v := NewDefaultMemoryNodeValidator(config.DevelopmentDomainConfig())
	candidate := createTestCandidate()
	candidate.EmbeddingModel = "lab-encoder-v2"
	candidate.EmbeddingDimensions = 256
	candidate.Embedding = makeEmbedding(256)

	// Act
	node, err := v.Validate(candidate)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "lab-encoder-v2", node.EmbeddingModel())
}

func TestMemoryNodeValidator_Validate_EmptyContributorList(t *testing.T) {
	// Arrange
	v := newTestValidator()
	candidate := createTestCandidate()
	candidate.Provenance.Contributors = nil

	// Act
	_, err := v.Validate(candidate)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrEmptyContributorList)
}

func TestMemoryNodeValidator_Validate_ConsensusScoreOutOfRange(t *testing.T) {
	// Arrange
	v := newTestValidator()
	candidate := createTestCandidate()
	candidate.Provenance.ConsensusScore = 1.5

	// Act
	_, err := v.Validate(candidate)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrScoreOutOfRange)
}

func TestMemoryNodeValidator_Validate_DomainsDeduplicated(t *testing.T) {
	// Arrange
	v := newTestValidator()
	candidate := createTestCandidate()
	candidate.Domains = []string{"finance", "systems", "finance"}

	// Act
	node, err := v.Validate(candidate)

	// Assert: order preserved, duplicates dropped
	require.NoError(t, err)
	assert.Equal(t, []string{"finance", "systems"}, node.Domains())
}

func TestMemoryNodeValidator_Validate_RestrictedWithoutArtifact(t *testing.T) {
	// Arrange
	v := newTestValidator()
	candidate := createRestrictedCandidate()
	candidate.Artifact = nil

	// Act
	_, err := v.Validate(candidate)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrSecurityInvariantViolation)
}

func TestMemoryNodeValidator_Validate_RestrictedDerivesDiodePacket(t *testing.T) {
	// Arrange
	v := newTestValidator()
	candidate := createRestrictedCandidate()

	// Act
	node, err := v.Validate(candidate)

	// Assert
	require.NoError(t, err)
	assert.True(t, node.IsRestricted())
	packet := node.DiodePacket()
	require.NotNil(t, packet)
	payload := packet.Payload()
	assert.Contains(t, payload, "SHA:"+node.Provenance().IntegrityHash())
	assert.Contains(t, payload, "ID:"+node.ID().String())
	assert.Contains(t, payload, "CLS:restricted")
	assert.Contains(t, payload, "DISS:0.20")
}

func TestMemoryNodeValidator_Validate_NonRestrictedArtifactGetsNoPacket(t *testing.T) {
	// Arrange: an internal record may reference an artifact
	v := newTestValidator()
	candidate := createRestrictedCandidate()
	candidate.Classification = "internal"

	// Act
	node, err := v.Validate(candidate)

	// Assert
	require.NoError(t, err)
	assert.NotNil(t, node.Artifact())
	assert.Nil(t, node.DiodePacket())
}

func TestMemoryNodeValidator_Validate_DowngradeWithStalePacket(t *testing.T) {
	// Arrange: a previously restricted record downgraded to internal but
	// still carrying its old packet
	v := newTestValidator()
	candidate := createRestrictedCandidate()
	candidate.Classification = "internal"
	candidate.DiodePacket = &entities.CandidatePacket{Payload: "SHA:stale"}

	// Act
	_, err := v.Validate(candidate)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrSecurityInvariantViolation)
	de := pkgerrors.GetDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, "diode_packet", de.Field())
}

func TestMemoryNodeValidator_Validate_EdgesAndDynamics(t *testing.T) {
	// Arrange
	v := newTestValidator()
	target, err := v.Validate(createTestCandidate())
	require.NoError(t, err)

	candidate := createTestCandidate()
	candidate.Edges = []entities.CandidateEdge{
		{TargetID: target.ID().String(), Relation: "reinforces", Weight: 0.7},
	}
	candidate.Identity = &entities.CandidateIdentity{Weight: 0.4, DriftPressure: 0.1, IsProtected: true}
	candidate.Mastery = &entities.CandidateMastery{Domain: "finance", UserProficiency: 0.6}

	// Act
	node, err := v.Validate(candidate)

	// Assert
	require.NoError(t, err)
	require.Len(t, node.Edges(), 1)
	assert.Equal(t, "reinforces", node.Edges()[0].Relation())
	assert.True(t, node.Edges()[0].TargetID().Equals(target.ID()))
	assert.True(t, node.Identity().IsProtected())
	require.NotNil(t, node.Mastery())
	assert.Equal(t, "finance", node.Mastery().Domain())
}

func TestMemoryNodeValidator_Validate_EdgeFailures(t *testing.T) {
	v := newTestValidator()

	t.Run("unknown relation", func(t *testing.T) {
		candidate := createTestCandidate()
		candidate.Edges = []entities.CandidateEdge{
			{TargetID: "b2f1c6e0-0000-4000-8000-000000000001", Relation: "inspires", Weight: 0.5},
		}

		_, err := v.Validate(candidate)

		require.Error(t, err)
		assert.ErrorIs(t, err, pkgerrors.ErrUnknownEnumLiteral)
		assert.Equal(t, "edges[0].relation", pkgerrors.GetDomainError(err).Field())
	})

	t.Run("malformed target", func(t *testing.T) {
		candidate := createTestCandidate()
		candidate.Edges = []entities.CandidateEdge{
			{TargetID: "not-a-uuid", Relation: "causes", Weight: 0.5},
		}

		_, err := v.Validate(candidate)

		require.Error(t, err)
		assert.Equal(t, "edges[0].target_id", pkgerrors.GetDomainError(err).Field())
	})

	t.Run("weight out of range", func(t *testing.T) {
		candidate := createTestCandidate()
		candidate.Edges = []entities.CandidateEdge{
			{TargetID: "b2f1c6e0-0000-4000-8000-000000000001", Relation: "causes", Weight: 1.5},
		}

		_, err := v.Validate(candidate)

		require.Error(t, err)
		assert.ErrorIs(t, err, pkgerrors.ErrScoreOutOfRange)
		assert.Equal(t, "edges[0].weight", pkgerrors.GetDomainError(err).Field())
	})
}

func TestMemoryNodeValidator_Validate_SuppliedIDPreserved(t *testing.T) {
	// Arrange
	v := newTestValidator()
	candidate := createTestCandidate()
	candidate.ID = "b2f1c6e0-0000-4000-8000-00000000abcd"

	// Act
	node, err := v.Validate(candidate)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, candidate.ID, node.ID().String())
}

func TestMemoryNodeValidator_Validate_MalformedIDRejected(t *testing.T) {
	// Arrange
	v := newTestValidator()
	candidate := createTestCandidate()
	candidate.ID = "node-42"

	// Act
	_, err := v.Validate(candidate)

	// Assert
	require.Error(t, err)
	assert.Equal(t, "id", pkgerrors.GetDomainError(err).Field())
}

func TestMemoryNodeValidator_Validate_HashIsDeterministic(t *testing.T) {
	// Arrange
	v := newTestValidator()

	// Act
	first, err := v.Validate(createTestCandidate())
	require.NoError(t, err)
	second, err := v.Validate(createTestCandidate())
	require.NoError(t, err)

	// Assert: identical provenance input yields identical digests
	assert.Equal(t, first.Provenance().IntegrityHash(), second.Provenance().IntegrityHash())
}

func TestMemoryNodeValidator_Validate_RoundTrip(t *testing.T) {
	// Arrange
	v := newTestValidator()
	node, err := v.Validate(createRestrictedCandidate())
	require.NoError(t, err)

	data, err := node.MarshalJSON()
	require.NoError(t, err)

	decoded, err := entities.DecodeCandidate(data)
	require.NoError(t, err)

	// Act
	revalidated, err := v.Validate(decoded)

	// Assert
	require.NoError(t, err)
	assert.True(t, revalidated.ID().Equals(node.ID()))
	assert.Equal(t, node.Provenance().IntegrityHash(), revalidated.Provenance().IntegrityHash())
	require.NotNil(t, revalidated.DiodePacket())
	assert.Equal(t, node.DiodePacket().Payload(), revalidated.DiodePacket().Payload())
	assert.Equal(t, node.CreatedAt().Unix(), revalidated.CreatedAt().Unix())
}

func TestMemoryNodeValidator_Validate_TamperedHashRejected(t *testing.T) {
	// Arrange
	v := newTestValidator()
	node, err := v.Validate(createTestCandidate())
	require.NoError(t, err)

	tampered := node.ToCandidate()
	tampered.Provenance.ConsensusScore = 0.99

	// Act
	_, err = v.Validate(tampered)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrIntegrityHashMismatch)
}

func TestMemoryNodeValidator_Validate_TamperedHashTrustedUnderTrustPolicy(t *testing.T) {
	// Arrange
	cfg := config.DefaultDomainConfig()
	cfg.HashVerification = config.HashPolicyTrust
	v := NewDefaultMemoryNodeValidator(cfg)

	node, err := v.Validate(createTestCandidate())
	require.NoError(t, err)

	tampered := node.ToCandidate()
	tampered.Provenance.ConsensusScore = 0.99

	// Act
	revalidated, err := v.Validate(tampered)

	// Assert: trust keeps the stored digest even though it no longer matches
	require.NoError(t, err)
	assert.Equal(t, node.Provenance().IntegrityHash(), revalidated.Provenance().IntegrityHash())
}

func TestMemoryNodeValidator_Validate_DomainLimit(t *testing.T) {
	// Arrange
	cfg := config.DefaultDomainConfig()
	cfg.MaxDomainsPerNode = 2
	v := NewDefaultMemoryNodeValidator(cfg)

	candidate := createTestCandidate()
	candidate.Domains = []string{"finance", "systems", "general"}

	// Act
	_, err := v.Validate(candidate)

	// Assert
	require.Error(t, err)
	de := pkgerrors.GetDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, "DOMAIN_LIMIT_EXCEEDED", de.Code)
}

func TestMemoryNodeValidator_Validate_SummaryTooShort(t *testing.T) {
	// Arrange
	v := newTestValidator()
	candidate := createTestCandidate()
	candidate.ContentSummary = "too short"

	// Act
	_, err := v.Validate(candidate)

	// Assert
	require.Error(t, err)
	de := pkgerrors.GetDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, "content_summary", de.Field())
	assert.True(t, strings.Contains(de.Message, "minimum"))
}

func TestMemoryNodeValidator_Validate_WrongAffectVectorLength(t *testing.T) {
	// Arrange
	v := newTestValidator()
	candidate := createTestCandidate()
	candidate.LatentContext = &entities.CandidateLatent{
		AffectVector:    make([]float64, 5),
		DissonanceScore: 0.1,
		ExplorationRate: 0.1,
	}

	// Act
	_, err := v.Validate(candidate)

	// Assert
	require.Error(t, err)
	assert.Equal(t, "latent_context.affect_vector", pkgerrors.GetDomainError(err).Field())
}
