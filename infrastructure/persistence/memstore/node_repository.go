// Package memstore provides in-process implementations of the
// persistence ports, used by the CLI and as the reference
// implementation for external storage tiers.
package memstore

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"memcore/application/ports"
	"memcore/domain/core/entities"
	"memcore/domain/core/valueobjects"
	"memcore/pkg/common"
	pkgerrors "memcore/pkg/errors"
)

// NodeRepository is an in-memory node store keyed by node ID
type NodeRepository struct {
	mu     sync.RWMutex
	nodes  map[string]*entities.MemoryNode
	logger *zap.Logger
}

// NewNodeRepository creates an empty in-memory node repository
func NewNodeRepository(logger *zap.Logger) *NodeRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NodeRepository{
		nodes:  make(map[string]*entities.MemoryNode),
		logger: logger,
	}
}

// Save persists an admitted node, replacing any previous version
func (r *NodeRepository) Save(ctx context.Context, node *entities.MemoryNode) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	r.nodes[node.ID().String()] = node
	r.mu.Unlock()

	r.logger.Debug("Node saved", zap.String("nodeID", node.ID().String()))
	return nil
}

// GetByID retrieves a node by its ID
func (r *NodeRepository) GetByID(ctx context.Context, id valueobjects.NodeID) (*entities.MemoryNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	node, ok := r.nodes[id.String()]
	r.mu.RUnlock()

	if !ok {
		return nil, pkgerrors.NewDomainError(
			pkgerrors.DomainNotFoundError,
			"NODE_NOT_FOUND",
			"no node with the given identifier",
		).WithDetail("node_id", id.String())
	}
	return node, nil
}

// List retrieves nodes matching the criteria, ordered by creation time
// descending, paginated
func (r *NodeRepository) List(ctx context.Context, criteria ports.ListCriteria) (*common.Page[*entities.MemoryNode], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	matched := make([]*entities.MemoryNode, 0, len(r.nodes))
	for _, node := range r.nodes {
		if matches(node, criteria) {
			matched = append(matched, node)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt().After(matched[j].CreatedAt())
	})

	params := criteria.Pagination.Normalize()
	start, end := params.Bounds(len(matched))
	return common.NewPage(matched[start:end], params, len(matched)), nil
}

// Delete removes a node; deleting an absent node is a no-op
func (r *NodeRepository) Delete(ctx context.Context, id valueobjects.NodeID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	delete(r.nodes, id.String())
	r.mu.Unlock()
	return nil
}

// Count returns the number of stored nodes
func (r *NodeRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes), nil
}

func matches(node *entities.MemoryNode, c ports.ListCriteria) bool {
	if c.Type != "" && node.Type() != c.Type {
		return false
	}
	if c.Classification != "" && node.Classification() != c.Classification {
		return false
	}
	if c.StorageTier != "" && node.StorageTier() != c.StorageTier {
		return false
	}
	if c.Domain != "" {
		found := false
		for _, d := range node.Domains() {
			if d == c.Domain {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
