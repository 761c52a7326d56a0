package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"memcore/application/ports"
	"memcore/domain/core/entities"
	"memcore/domain/core/validators"
	"memcore/domain/events"
	pkgerrors "memcore/pkg/errors"
	"memcore/pkg/extensions"
)

// AdmissionService runs candidate records through the validation
// pipeline and reports the outcome. It is the single entry point the
// outer surfaces call; nothing bypasses the validator. Repository,
// publisher, and hooks are optional collaborators; a nil value
// disables that side effect.
type AdmissionService struct {
	validator *validators.MemoryNodeValidator
	repo      ports.NodeRepository
	publisher ports.EventPublisher
	hooks     *extensions.HookManager
	logger    *zap.Logger
}

// NewAdmissionService creates a new admission service
func NewAdmissionService(
	validator *validators.MemoryNodeValidator,
	repo ports.NodeRepository,
	publisher ports.EventPublisher,
	hooks *extensions.HookManager,
	logger *zap.Logger,
) *AdmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdmissionService{
		validator: validator,
		repo:      repo,
		publisher: publisher,
		hooks:     hooks,
		logger:    logger,
	}
}

// Admit validates a candidate and returns the admitted node. The
// context is checked up front so a cancelled batch stops cleanly; the
// validation itself is CPU-bound and does not block.
func (s *AdmissionService) Admit(ctx context.Context, candidate entities.Candidate) (*entities.MemoryNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.hooks != nil {
		err := s.hooks.Execute(ctx, extensions.HookBeforeAdmission, &extensions.AdmissionHookData{
			CandidateID: candidate.ID,
			NodeType:    candidate.Type,
		})
		if err != nil {
			return nil, pkgerrors.Wrap(err, "admission aborted by hook")
		}
	}

	node, err := s.validator.Validate(candidate)
	if err != nil {
		s.reportRejection(ctx, candidate, err)
		return nil, err
	}

	if s.repo != nil {
		if err := s.repo.Save(ctx, node); err != nil {
			return nil, pkgerrors.Wrap(err, "failed to persist admitted node")
		}
	}

	s.reportAdmission(ctx, node)
	return node, nil
}

// AdmitJSON decodes a JSON candidate document and admits it
func (s *AdmissionService) AdmitJSON(ctx context.Context, data []byte) (*entities.MemoryNode, error) {
	candidate, err := entities.DecodeCandidate(data)
	if err != nil {
		s.logger.Warn("Candidate rejected", zap.String("code", "MALFORMED_CANDIDATE"), zap.Error(err))
		return nil, err
	}
	return s.Admit(ctx, candidate)
}

// Revalidate feeds an existing node's candidate form back through the
// pipeline, for storage tiers re-checking records on load.
func (s *AdmissionService) Revalidate(ctx context.Context, node *entities.MemoryNode) (*entities.MemoryNode, error) {
	return s.Admit(ctx, node.ToCandidate())
}

func (s *AdmissionService) reportAdmission(ctx context.Context, node *entities.MemoryNode) {
	fields := []zap.Field{
		zap.String("nodeID", node.ID().String()),
		zap.String("type", node.Type()),
		zap.String("classification", node.Classification()),
		zap.Strings("domains", node.Domains()),
		zap.String("summary", node.Summary().Truncated(80)),
		zap.String("integrityHash", node.Provenance().IntegrityHash()),
	}
	if node.IsRestricted() {
		fields = append(fields, zap.Bool("diodePacket", true))
	}
	s.logger.Info("Candidate admitted", fields...)

	if s.publisher != nil {
		event := events.NewNodeAdmitted(
			node.ID(),
			node.Type(),
			node.Classification(),
			node.Domains(),
			node.Provenance().IntegrityHash(),
			node.IsRestricted(),
			time.Now().UTC(),
		)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish admission event", zap.Error(err))
		}
	}

	if s.hooks != nil {
		err := s.hooks.Execute(ctx, extensions.HookAfterAdmission, &extensions.AdmissionHookData{
			NodeID:        node.ID().String(),
			NodeType:      node.Type(),
			IntegrityHash: node.Provenance().IntegrityHash(),
		})
		if err != nil {
			s.logger.Warn("After-admission hook failed", zap.Error(err))
		}
	}
}

func (s *AdmissionService) reportRejection(ctx context.Context, candidate entities.Candidate, err error) {
	fields := []zap.Field{zap.Error(err)}
	code, field := "", ""
	if de := pkgerrors.GetDomainError(err); de != nil {
		code, field = de.Code, de.Field()
		fields = append(fields,
			zap.String("code", code),
			zap.String("field", field),
		)
	}
	if candidate.ID != "" {
		fields = append(fields, zap.String("candidateID", candidate.ID))
	}
	s.logger.Warn("Candidate rejected", fields...)

	if s.publisher != nil {
		event := events.NewNodeRejected(candidate.ID, code, field, err.Error(), time.Now().UTC())
		if pubErr := s.publisher.Publish(ctx, event); pubErr != nil {
			s.logger.Warn("Failed to publish rejection event", zap.Error(pubErr))
		}
	}

	if s.hooks != nil {
		hookErr := s.hooks.Execute(ctx, extensions.HookAdmissionRejected, &extensions.AdmissionHookData{
			CandidateID:   candidate.ID,
			NodeType:      candidate.Type,
			RejectionCode: code,
		})
		if hookErr != nil {
			s.logger.Warn("Rejection hook failed", zap.Error(hookErr))
		}
	}
}
