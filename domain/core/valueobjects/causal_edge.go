package valueobjects

import (
	"time"

	pkgerrors "memcore/pkg/errors"
)

// CausalEdge is a directed, typed link from the owning node to another
// memory node. The relation must already be a resolved edge-relation
// literal.
type CausalEdge struct {
	targetID  NodeID
	relation  string
	weight    float64
	createdAt time.Time
}

// NewCausalEdge creates a causal edge with validation
func NewCausalEdge(targetID NodeID, relation string, weight float64) (CausalEdge, error) {
	if targetID.IsZero() {
		return CausalEdge{}, pkgerrors.NewMissingRequiredField("edges.target_id")
	}
	if relation == "" {
		return CausalEdge{}, pkgerrors.NewMissingRequiredField("edges.relation")
	}
	if weight < 0 || weight > 1 {
		return CausalEdge{}, pkgerrors.NewScoreOutOfRange("edges.weight", weight)
	}

	return CausalEdge{
		targetID:  targetID,
		relation:  relation,
		weight:    weight,
		createdAt: time.Now().UTC(),
	}, nil
}

// ReconstructCausalEdge rebuilds an edge from persisted data
func ReconstructCausalEdge(targetID NodeID, relation string, weight float64, createdAt time.Time) (CausalEdge, error) {
	edge, err := NewCausalEdge(targetID, relation, weight)
	if err != nil {
		return CausalEdge{}, err
	}
	if !createdAt.IsZero() {
		edge.createdAt = createdAt
	}
	return edge, nil
}

// TargetID returns the target node identifier
func (e CausalEdge) TargetID() NodeID {
	return e.targetID
}

// Relation returns the edge relation literal
func (e CausalEdge) Relation() string {
	return e.relation
}

// Weight returns the edge weight in [0, 1]
func (e CausalEdge) Weight() float64 {
	return e.weight
}

// CreatedAt returns when the edge was recorded
func (e CausalEdge) CreatedAt() time.Time {
	return e.createdAt
}
