package memstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"memcore/application/ports"
	"memcore/domain/config"
	"memcore/domain/core/entities"
	"memcore/domain/core/validators"
	"memcore/pkg/common"
	pkgerrors "memcore/pkg/errors"
)

func admitTestNode(t *testing.T, nodeType, domain, classification string) *entities.MemoryNode {
	t.Helper()
	embedding := make([]float64, 1024)
	for i := range embedding {
		embedding[i] = 0.5
	}
	validator := validators.NewDefaultMemoryNodeValidator(config.DefaultDomainConfig())
	node, err := validator.Validate(entities.Candidate{
		Type:           nodeType,
		Domains:        []string{domain},
		Classification: classification,
		ContentSummary: fmt.Sprintf("Stored %s record about %s for repository tests.", nodeType, domain),
		Embedding:      embedding,
		EmbeddingModel: "bge-m3-v1.5",
		Provenance: entities.CandidateProvenance{
			Method: "unanimous",
			Contributors: []entities.CandidateContributor{
				{Model: "claude-opus", Role: "proposer", Confidence: 0.9},
			},
			ConsensusScore: 1.0,
		},
	})
	require.NoError(t, err)
	return node
}

func TestNodeRepository_SaveAndGetByID(t *testing.T) {
	// Arrange
	repo := NewNodeRepository(zap.NewNop())
	node := admitTestNode(t, "episodic", "systems", "")
	ctx := context.Background()

	// Act
	err := repo.Save(ctx, node)

	// Assert
	require.NoError(t, err)
	stored, err := repo.GetByID(ctx, node.ID())
	require.NoError(t, err)
	assert.True(t, stored.ID().Equals(node.ID()))
}

func TestNodeRepository_GetByID_NotFound(t *testing.T) {
	// Arrange
	repo := NewNodeRepository(zap.NewNop())
	node := admitTestNode(t, "episodic", "systems", "")

	// Act
	_, err := repo.GetByID(context.Background(), node.ID())

	// Assert
	require.Error(t, err)
	de := pkgerrors.GetDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, "NODE_NOT_FOUND", de.Code)
	assert.Equal(t, node.ID().String(), de.Details["node_id"])
}

func TestNodeRepository_List_FiltersByCriteria(t *testing.T) {
	// Arrange
	repo := NewNodeRepository(zap.NewNop())
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, admitTestNode(t, "episodic", "systems", "")))
	require.NoError(t, repo.Save(ctx, admitTestNode(t, "concept", "finance", "")))
	require.NoError(t, repo.Save(ctx, admitTestNode(t, "concept", "systems", "")))

	// Act
	page, err := repo.List(ctx, ports.ListCriteria{
		Type:       "concept",
		Domain:     "systems",
		Pagination: common.DefaultPaginationParams(),
	})

	// Assert
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "concept", page.Items[0].Type())
	assert.Equal(t, 1, page.Pagination.Total)
}

func TestNodeRepository_List_Paginates(t *testing.T) {
	// Arrange
	repo := NewNodeRepository(zap.NewNop())
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Save(ctx, admitTestNode(t, "episodic", "general", "")))
		time.Sleep(time.Millisecond)
	}

	// Act
	page, err := repo.List(ctx, ports.ListCriteria{
		Pagination: common.PaginationParams{Page: 2, PageSize: 2},
	})

	// Assert
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 5, page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasNext)
}

func TestNodeRepository_Delete_RemovesNode(t *testing.T) {
	// Arrange
	repo := NewNodeRepository(zap.NewNop())
	node := admitTestNode(t, "question", "neuroscience", "")
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, node))

	// Act
	err := repo.Delete(ctx, node.ID())

	// Assert
	require.NoError(t, err)
	_, err = repo.GetByID(ctx, node.ID())
	assert.Error(t, err)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
