package model

import (
	"strings"
	"time"
)

// Exercise difficulty levels.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// DefaultMuscleGroup is stored when neither muscle group nor category is given.
const DefaultMuscleGroup = "general"

// Exercise is an entry of the organization's exercise catalogue.
type Exercise struct {
	ID              string    `json:"id"`
	OrgID           *string   `json:"org_id,omitempty"`
	Name            string    `json:"name"`
	Category        *string   `json:"category"`
	MuscleGroup     string    `json:"muscle_group"`
	Equipment       *string   `json:"equipment"`
	Difficulty      string    `json:"difficulty"`
	Description     *string   `json:"description"`
	VideoURL        *string   `json:"video_url"`
	ThumbURL        *string   `json:"thumb_url"`
	ImageURL        *string   `json:"image_url"`
	DurationSeconds *int      `json:"duration_seconds"`
	CreatedBy       *string   `json:"created_by,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ExercisePatch is a partial update. Nil fields keep their stored value;
// an empty string clears an optional text column.
type ExercisePatch struct {
	Name            *string
	Category        *string
	MuscleGroup     *string
	Equipment       *string
	Difficulty      *string
	Description     *string
	VideoURL        *string
	ThumbURL        *string
	ImageURL        *string
	DurationSeconds *int
}

// NormalizeDifficulty maps accepted aliases onto stored difficulty levels.
// It returns "" for unknown input.
func NormalizeDifficulty(d string) string {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "easy", "bassa", "beginner":
		return DifficultyEasy
	case "medium", "media", "intermediate":
		return DifficultyMedium
	case "hard", "alta", "advanced":
		return DifficultyHard
	}
	return ""
}
