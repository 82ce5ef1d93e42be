package app

import (
	"fmt"

	"github.com/shrimpsizemoose/kardemumma/internal/store"
)

type Service struct {
	Config  *Config
	Store   store.StudentStore
	Limiter *RateLimiter
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := NewStore(config.Database.DSN, config.Database.MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	limiter, err := NewRateLimiter(config)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to init rate limiter: %w", err)
	}

	return &Service{
		Config:  config,
		Store:   store,
		Limiter: limiter,
	}, nil
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Limiter.Close(); err != nil {
		errs = append(errs, fmt.Errorf("rate limiter: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
