package models

import (
	"time"
)

// Model defines the base interface for all persistent models in the focusfm service.
// Implementations include User, Mood, Track, SpotifyPlaylist, etc.
type Model interface {
	CreatedAt() time.Time // CreatedAt returns when this model was created
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types,
// keyed by K (string UUIDs for users, integer rowids elsewhere).
type Repository[T Model, K comparable] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id K) (T, error)                       // Get retrieves a model by its primary key
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}
