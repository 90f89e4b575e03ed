// Package store defines the interface implemented by dataset sources.
package store

import "go.ngs.io/ocean-field/internal/domain"

// DatasetLoader loads a complete model dataset.
type DatasetLoader interface {
	// Load returns a validated dataset or a *domain.InitError.
	Load() (*domain.Dataset, error)
}
