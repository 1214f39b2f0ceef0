package handler

import (
	"github.com/gofiber/fiber/v2"

	"gymapi/internal/model"
	"gymapi/internal/service"
)

type exerciseRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=120"`
	Category        string `json:"category" validate:"omitempty,min=2,max=60"`
	MuscleGroup     string `json:"muscle_group" validate:"omitempty,min=2,max=60"`
	Equipment       string `json:"equipment" validate:"max=500"`
	Difficulty      string `json:"difficulty"`
	Description     string `json:"description" validate:"max=2000"`
	VideoURL        string `json:"video_url" validate:"omitempty,url"`
	ThumbURL        string `json:"thumb_url" validate:"omitempty,url"`
	ImageURL        string `json:"image_url" validate:"omitempty,url"`
	DurationSeconds *int   `json:"duration_seconds" validate:"omitempty,gt=0"`
}

// exercisePatchRequest leaves absent fields untouched; "" clears optional text.
type exercisePatchRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=2,max=120"`
	Category        *string `json:"category" validate:"omitempty,max=60"`
	MuscleGroup     *string `json:"muscle_group" validate:"omitempty,max=60"`
	Equipment       *string `json:"equipment" validate:"omitempty,max=500"`
	Difficulty      *string `json:"difficulty"`
	Description     *string `json:"description" validate:"omitempty,max=2000"`
	VideoURL        *string `json:"video_url"`
	ThumbURL        *string `json:"thumb_url"`
	ImageURL        *string `json:"image_url"`
	DurationSeconds *int    `json:"duration_seconds" validate:"omitempty,gt=0"`
}

func ListExercises(svc service.ExerciseService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext(), actor(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"data": items})
	}
}

// CreateExercise adds an entry to the caller's exercise catalogue.
//
// @Summary Create exercise
// @Tags exercises
// @Security BearerAuth
// @Param body body exerciseRequest true "exercise"
// @Success 201 {object} model.Exercise
// @Router /api/v1/exercises [post]
func CreateExercise(svc service.ExerciseService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in exerciseRequest
		if err := bindJSON(c, &in); err != nil {
			return fail(c, err)
		}
		e, err := svc.Create(c.UserContext(), actor(c), service.ExerciseInput(in))
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(e)
	}
}

func UpdateExercise(svc service.ExerciseService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return fail(c, err)
		}
		var in exercisePatchRequest
		if err := bindJSON(c, &in); err != nil {
			return fail(c, err)
		}
		for _, u := range []*string{in.VideoURL, in.ThumbURL, in.ImageURL} {
			if u != nil && *u != "" {
				if err := validate.Var(*u, "url"); err != nil {
					return fail(c, badRequest("VALIDATION_ERROR", "media links must be valid URLs"))
				}
			}
		}
		e, err := svc.Update(c.UserContext(), actor(c), id, model.ExercisePatch(in))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(e)
	}
}

// DeleteExercise answers 409 while a workout plan still uses the exercise.
func DeleteExercise(svc service.ExerciseService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return fail(c, err)
		}
		if err := svc.Delete(c.UserContext(), actor(c), id); err != nil {
			return fail(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
