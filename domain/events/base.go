package events

import (
	"time"

	"memcore/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Admission events

// NodeAdmitted is raised when a candidate passes the full validation
// pipeline and becomes a memory node
type NodeAdmitted struct {
	BaseEvent
	NodeID         valueobjects.NodeID `json:"node_id"`
	NodeType       string              `json:"node_type"`
	Classification string              `json:"classification"`
	Domains        []string            `json:"domains"`
	IntegrityHash  string              `json:"integrity_hash"`
	Restricted     bool                `json:"restricted"`
}

// NewNodeAdmitted creates a NodeAdmitted event
func NewNodeAdmitted(nodeID valueobjects.NodeID, nodeType, classification string, domains []string, integrityHash string, restricted bool, timestamp time.Time) NodeAdmitted {
	return NodeAdmitted{
		BaseEvent: BaseEvent{
			AggregateID: nodeID.String(),
			EventType:   "node.admitted",
			Timestamp:   timestamp,
			Version:     1,
		},
		NodeID:         nodeID,
		NodeType:       nodeType,
		Classification: classification,
		Domains:        domains,
		IntegrityHash:  integrityHash,
		Restricted:     restricted,
	}
}

// NodeRejected is raised when a candidate fails validation
type NodeRejected struct {
	BaseEvent
	CandidateID string `json:"candidate_id,omitempty"`
	Code        string `json:"code"`
	Field       string `json:"field,omitempty"`
	Reason      string `json:"reason"`
}

// NewNodeRejected creates a NodeRejected event. The aggregate ID is the
// candidate's supplied identifier, empty for fresh candidates.
func NewNodeRejected(candidateID, code, field, reason string, timestamp time.Time) NodeRejected {
	return NodeRejected{
		BaseEvent: BaseEvent{
			AggregateID: candidateID,
			EventType:   "node.rejected",
			Timestamp:   timestamp,
			Version:     1,
		},
		CandidateID: candidateID,
		Code:        code,
		Field:       field,
		Reason:      reason,
	}
}

// Registry events

// VocabularyUpdated is raised when a vocabulary table is swapped
type VocabularyUpdated struct {
	BaseEvent
	Vocabulary string `json:"vocabulary"`
	Revision   uint64 `json:"revision"`
}

// NewVocabularyUpdated creates a VocabularyUpdated event
func NewVocabularyUpdated(vocabulary string, revision uint64, timestamp time.Time) VocabularyUpdated {
	return VocabularyUpdated{
		BaseEvent: BaseEvent{
			AggregateID: vocabulary,
			EventType:   "registry.vocabulary_updated",
			Timestamp:   timestamp,
			Version:     1,
		},
		Vocabulary: vocabulary,
		Revision:   revision,
	}
}

// EmbeddingModelRegistered is raised when a new model identity joins
// the dimension table
type EmbeddingModelRegistered struct {
	BaseEvent
	Model     string `json:"model"`
	Dimension int    `json:"dimension"`
}

// NewEmbeddingModelRegistered creates an EmbeddingModelRegistered event
func NewEmbeddingModelRegistered(model string, dimension int, timestamp time.Time) EmbeddingModelRegistered {
	return EmbeddingModelRegistered{
		BaseEvent: BaseEvent{
			AggregateID: model,
			EventType:   "registry.model_registered",
			Timestamp:   timestamp,
			Version:     1,
		},
		Model:     model,
		Dimension: dimension,
	}
}
