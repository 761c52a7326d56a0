package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"memcore/application/ports"
	"memcore/domain/embedding"
	"memcore/domain/events"
	"memcore/domain/vocab"
	pkgerrors "memcore/pkg/errors"
	"memcore/pkg/extensions"
)

// RegistryService applies live vocabulary and embedding table updates.
// Each update swaps the whole table atomically, publishes the matching
// registry event, and runs the registry hook points. Publisher and
// hooks are optional collaborators; a nil value disables that side
// effect.
type RegistryService struct {
	vocabularies *vocab.Store
	dimensions   *embedding.Store
	publisher    ports.EventPublisher
	hooks        *extensions.HookManager
	logger       *zap.Logger
}

// NewRegistryService creates a new registry service
func NewRegistryService(
	vocabularies *vocab.Store,
	dimensions *embedding.Store,
	publisher ports.EventPublisher,
	hooks *extensions.HookManager,
	logger *zap.Logger,
) *RegistryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistryService{
		vocabularies: vocabularies,
		dimensions:   dimensions,
		publisher:    publisher,
		hooks:        hooks,
		logger:       logger,
	}
}

// UpdateVocabulary replaces one vocabulary's member table wholesale and
// swaps the registry. Validators holding the previous registry finish
// against it; new validations observe the update.
func (s *RegistryService) UpdateVocabulary(ctx context.Context, v *vocab.Vocabulary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	next := s.vocabularies.Swap(s.vocabularies.Load().With(v))

	s.logger.Info("Vocabulary updated",
		zap.String("vocabulary", v.Name()),
		zap.Uint64("revision", next.Revision()),
	)

	if s.publisher != nil {
		event := events.NewVocabularyUpdated(v.Name(), next.Revision(), time.Now().UTC())
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish vocabulary update event", zap.Error(err))
		}
	}

	if s.hooks != nil {
		err := s.hooks.Execute(ctx, extensions.HookAfterRegistrySwap, &extensions.RegistryHookData{
			Vocabulary: v.Name(),
			Revision:   next.Revision(),
		})
		if err != nil {
			s.logger.Warn("Registry swap hook failed", zap.Error(err))
		}
	}

	return nil
}

// RegisterModel adds an embedding model identity to the dimension
// table. Re-declaring a known identity with its current dimension is a
// no-op; a different dimension fails with the aliasing conflict.
func (s *RegistryService) RegisterModel(ctx context.Context, model string, dimension int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	current := s.dimensions.Load()
	next, err := current.WithModel(model, dimension)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to register embedding model %q", model)
	}
	if next == current {
		return nil
	}
	s.dimensions.Swap(next)

	s.logger.Info("Embedding model registered",
		zap.String("model", model),
		zap.Int("dimension", dimension),
	)

	if s.publisher != nil {
		event := events.NewEmbeddingModelRegistered(model, dimension, time.Now().UTC())
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish model registration event", zap.Error(err))
		}
	}

	if s.hooks != nil {
		err := s.hooks.Execute(ctx, extensions.HookAfterModelUpdate, &extensions.RegistryHookData{
			Model:     model,
			Dimension: dimension,
		})
		if err != nil {
			s.logger.Warn("Model update hook failed", zap.Error(err))
		}
	}

	return nil
}
