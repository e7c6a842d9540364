package domain

import (
	"context"
	"time"
)

// UserPreferences are the per-user flags consumed by strategies
type UserPreferences struct {
	UserID string `json:"user_id" bson:"_id"`
	// ShowExtraWeight makes the bodyweight "extra weight" field required
	ShowExtraWeight bool      `json:"show_extra_weight" bson:"show_extra_weight"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}

// DefaultPreferences is what a user without stored preferences gets
func DefaultPreferences(userID string) *UserPreferences {
	return &UserPreferences{UserID: userID}
}

type UserPreferenceRepository interface {
	// Get returns nil, nil when the user never saved preferences
	Get(ctx context.Context, userID string) (*UserPreferences, error)
	Upsert(ctx context.Context, prefs *UserPreferences) error
}
