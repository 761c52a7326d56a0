package ports

import (
	"context"

	"memcore/domain/core/entities"
	"memcore/domain/core/valueobjects"
	"memcore/domain/events"
	"memcore/pkg/common"
)

// NodeRepository defines the interface for admitted node persistence.
// This is a port in hexagonal architecture - the domain doesn't know
// about the implementation. Only validated nodes ever reach it.
type NodeRepository interface {
	// Save persists an admitted node (create or update)
	Save(ctx context.Context, node *entities.MemoryNode) error

	// GetByID retrieves a node by its ID
	GetByID(ctx context.Context, id valueobjects.NodeID) (*entities.MemoryNode, error)

	// List retrieves nodes matching the given criteria, paginated
	List(ctx context.Context, criteria ListCriteria) (*common.Page[*entities.MemoryNode], error)

	// Delete removes a node
	Delete(ctx context.Context, id valueobjects.NodeID) error

	// Count returns the number of stored nodes
	Count(ctx context.Context) (int, error)
}

// ListCriteria defines node listing parameters. Zero-value fields do
// not filter.
type ListCriteria struct {
	Type           string
	Domain         string
	Classification string
	StorageTier    string
	Pagination     common.PaginationParams
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
