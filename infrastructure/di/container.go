// Package di assembles the application object graph. Providers stay
// small and explicit so the wiring is readable top to bottom.
package di

import (
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"memcore/application/ports"
	"memcore/application/services"
	domainconfig "memcore/domain/config"
	"memcore/domain/core/validators"
	"memcore/domain/embedding"
	"memcore/domain/vocab"
	"memcore/infrastructure/config"
	"memcore/infrastructure/persistence/memstore"
	"memcore/infrastructure/persistence/vocabfile"
	"memcore/pkg/extensions"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	DomainConfig *domainconfig.DomainConfig
	Logger       *zap.Logger

	VocabularyStore *vocab.Store
	EmbeddingStore  *embedding.Store

	Validator *validators.MemoryNodeValidator
	NodeRepo  ports.NodeRepository
	Publisher ports.EventPublisher
	Hooks     *extensions.HookManager

	AdmissionService *services.AdmissionService
	RegistryService  *services.RegistryService
}

// InitializeContainer builds the full dependency graph
func InitializeContainer(cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, err
	}

	domainCfg := cfg.DomainConfig()
	if err := domainCfg.Validate(); err != nil {
		return nil, err
	}

	vocabStore, embedStore, err := ProvideStores(cfg, domainCfg)
	if err != nil {
		return nil, err
	}

	validator := validators.NewMemoryNodeValidator(vocabStore, embedStore, domainCfg)
	nodeRepo := memstore.NewNodeRepository(logger)
	publisher := memstore.NewEventPublisher(logger)
	hooks := extensions.NewHookManager()

	return &Container{
		Config:           cfg,
		DomainConfig:     domainCfg,
		Logger:           logger,
		VocabularyStore:  vocabStore,
		EmbeddingStore:   embedStore,
		Validator:        validator,
		NodeRepo:         nodeRepo,
		Publisher:        publisher,
		Hooks:            hooks,
		AdmissionService: services.NewAdmissionService(validator, nodeRepo, publisher, hooks, logger),
		RegistryService:  services.NewRegistryService(vocabStore, embedStore, publisher, hooks, logger),
	}, nil
}

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// ProvideStores builds the vocabulary registry and embedding resolver
// stores from the builtins, applying any configured override file and
// fallback policy.
func ProvideStores(cfg *config.Config, domainCfg *domainconfig.DomainConfig) (*vocab.Store, *embedding.Store, error) {
	registry := vocab.Builtin()
	resolver := embedding.Builtin()

	if cfg.VocabularyFile != "" {
		file, err := vocabfile.Load(cfg.VocabularyFile)
		if err != nil {
			return nil, nil, err
		}
		if registry, err = file.ApplyRegistry(registry); err != nil {
			return nil, nil, err
		}
		if resolver, err = file.ApplyResolver(resolver); err != nil {
			return nil, nil, err
		}
	}

	if domainCfg.UnknownModelPattern != "" {
		pattern, err := regexp.Compile(domainCfg.UnknownModelPattern)
		if err != nil {
			return nil, nil, fmt.Errorf("unknown model pattern: %w", err)
		}
		resolver = resolver.WithFallback(embedding.FallbackPolicy{
			Pattern:   pattern,
			MinLength: domainCfg.UnknownModelMinLength,
		})
	}

	return vocab.NewStore(registry), embedding.NewStore(resolver), nil
}
