package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"memcore/domain/config"
	"memcore/domain/core/entities"
	"memcore/domain/core/validators"
	"memcore/domain/events"
	"memcore/infrastructure/persistence/memstore"
	pkgerrors "memcore/pkg/errors"
	"memcore/pkg/extensions"
)

func createTestService() *AdmissionService {
	validator := validators.NewDefaultMemoryNodeValidator(config.DefaultDomainConfig())
	return NewAdmissionService(validator, nil, nil, nil, zap.NewNop())
}

func createServiceCandidate() entities.Candidate {
	embedding := make([]float64, 1024)
	for i := range embedding {
		embedding[i] = 0.25
	}
	return entities.Candidate{
		Type:           "episodic",
		Domains:        []string{"systems"},
		ContentSummary: "Deployment rollback traced to a stale cache entry.",
		Embedding:      embedding,
		EmbeddingModel: "bge-m3-v1.5",
		Provenance: entities.CandidateProvenance{
			Method: "unanimous",
			Contributors: []entities.CandidateContributor{
				{Model: "claude-opus", Role: "proposer", Confidence: 0.95},
			},
			ConsensusScore: 1.0,
		},
	}
}

func TestAdmissionService_Admit_Success(t *testing.T) {
	// Arrange
	service := createTestService()

	// Act
	node, err := service.Admit(context.Background(), createServiceCandidate())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "episodic", node.Type())
	assert.False(t, node.ID().IsZero())
}

func TestAdmissionService_Admit_Rejection(t *testing.T) {
	// Arrange
	service := createTestService()
	candidate := createServiceCandidate()
	candidate.Type = "prophecy"

	// Act
	_, err := service.Admit(context.Background(), candidate)

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, pkgerrors.ErrUnknownEnumLiteral)
}

func TestAdmissionService_Admit_CancelledContext(t *testing.T) {
	// Arrange
	service := createTestService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	_, err := service.Admit(ctx, createServiceCandidate())

	// Assert
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAdmissionService_Admit_PersistsAndPublishes(t *testing.T) {
	// Arrange
	validator := validators.NewDefaultMemoryNodeValidator(config.DefaultDomainConfig())
	repo := memstore.NewNodeRepository(zap.NewNop())
	publisher := memstore.NewEventPublisher(zap.NewNop())
	service := NewAdmissionService(validator, repo, publisher, nil, zap.NewNop())

	// Act
	node, err := service.Admit(context.Background(), createServiceCandidate())

	// Assert
	require.NoError(t, err)

	stored, err := repo.GetByID(context.Background(), node.ID())
	require.NoError(t, err)
	assert.True(t, stored.ID().Equals(node.ID()))

	published := publisher.Published()
	require.Len(t, published, 1)
	admitted, ok := published[0].(events.NodeAdmitted)
	require.True(t, ok)
	assert.Equal(t, node.ID().String(), admitted.GetAggregateID())
	assert.Equal(t, "node.admitted", admitted.GetEventType())
}

func TestAdmissionService_Admit_PublishesRejection(t *testing.T) {
	// Arrange
	validator := validators.NewDefaultMemoryNodeValidator(config.DefaultDomainConfig())
	publisher := memstore.NewEventPublisher(zap.NewNop())
	service := NewAdmissionService(validator, nil, publisher, nil, zap.NewNop())

	candidate := createServiceCandidate()
	candidate.Domains = []string{"astrology"}

	// Act
	_, err := service.Admit(context.Background(), candidate)

	// Assert
	require.Error(t, err)
	published := publisher.Published()
	require.Len(t, published, 1)
	rejected, ok := published[0].(events.NodeRejected)
	require.True(t, ok)
	assert.Equal(t, "UNKNOWN_ENUM_LITERAL", rejected.Code)
	assert.Equal(t, "domains[0]", rejected.Field)
}

func TestAdmissionService_Admit_BeforeHookAborts(t *testing.T) {
	// Arrange
	validator := validators.NewDefaultMemoryNodeValidator(config.DefaultDomainConfig())
	hooks := extensions.NewHookManager()
	hooks.Register(extensions.HookBeforeAdmission, func(ctx context.Context, data any) error {
		return errors.New("quota exhausted")
	})
	service := NewAdmissionService(validator, nil, nil, hooks, zap.NewNop())

	// Act
	_, err := service.Admit(context.Background(), createServiceCandidate())

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admission aborted by hook")
}

func TestAdmissionService_Admit_AfterHookObservesNode(t *testing.T) {
	// Arrange
	validator := validators.NewDefaultMemoryNodeValidator(config.DefaultDomainConfig())
	hooks := extensions.NewHookManager()
	var observed *extensions.AdmissionHookData
	hooks.Register(extensions.HookAfterAdmission, func(ctx context.Context, data any) error {
		observed = data.(*extensions.AdmissionHookData)
		return nil
	})
	service := NewAdmissionService(validator, nil, nil, hooks, zap.NewNop())

	// Act
	node, err := service.Admit(context.Background(), createServiceCandidate())

	// Assert
	require.NoError(t, err)
	require.NotNil(t, observed)
	assert.Equal(t, node.ID().String(), observed.NodeID)
	assert.Equal(t, node.Provenance().IntegrityHash(), observed.IntegrityHash)
}

func TestAdmissionService_AdmitJSON_Success(t *testing.T) {
	// Arrange
	service := createTestService()
	data, err := json.Marshal(createServiceCandidate())
	require.NoError(t, err)

	// Act
	node, err := service.AdmitJSON(context.Background(), data)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"systems"}, node.Domains())
}

func TestAdmissionService_AdmitJSON_Malformed(t *testing.T) {
	// Arrange
	service := createTestService()

	// Act
	_, err := service.AdmitJSON(context.Background(), []byte("{not json"))

	// Assert
	require.Error(t, err)
	de := pkgerrors.GetDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, "MALFORMED_CANDIDATE", de.Code)
}

func TestAdmissionService_Revalidate_RoundTrip(t *testing.T) {
	// Arrange
	service := createTestService()
	node, err := service.Admit(context.Background(), createServiceCandidate())
	require.NoError(t, err)

	// Act
	revalidated, err := service.Revalidate(context.Background(), node)

	// Assert
	require.NoError(t, err)
	assert.True(t, revalidated.ID().Equals(node.ID()))
	assert.Equal(t, node.Provenance().IntegrityHash(), revalidated.Provenance().IntegrityHash())
}
