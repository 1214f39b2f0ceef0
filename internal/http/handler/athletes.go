package handler

import (
	"github.com/gofiber/fiber/v2"

	"gymapi/internal/model"
	"gymapi/internal/service"
)

type athleteRequest struct {
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password"`
	FirstName      string  `json:"first_name" validate:"required"`
	LastName       string  `json:"last_name" validate:"required"`
	Phone          *string `json:"phone"`
	Status         string  `json:"status" validate:"omitempty,oneof=active inactive suspended"`
	Notes          *string `json:"notes"`
	EnrollmentDate string  `json:"enrollment_date"`
}

type athleteUpdateRequest struct {
	Email          string  `json:"email" validate:"omitempty,email"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Phone          *string `json:"phone"`
	Status         string  `json:"status" validate:"omitempty,oneof=active inactive suspended"`
	Notes          *string `json:"notes"`
	EnrollmentDate string  `json:"enrollment_date"`
}

type progressRequest struct {
	Date             string             `json:"date"`
	WeightKg         *float64           `json:"weight_kg"`
	MaxBenchKg       *float64           `json:"max_bench_kg"`
	MaxSquatKg       *float64           `json:"max_squat_kg"`
	MaxDeadliftKg    *float64           `json:"max_deadlift_kg"`
	FatPct           *float64           `json:"fat_pct"`
	FatKg            *float64           `json:"fat_kg"`
	LeanKg           *float64           `json:"lean_kg"`
	MuscleKg         *float64           `json:"muscle_kg"`
	SkeletalMuscleKg *float64           `json:"skeletal_muscle_kg"`
	Circumferences   map[string]float64 `json:"circumferences"`
	Notes            *string            `json:"notes"`
}

type workoutPlanRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

func ListAthletes(svc service.AthleteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.List(c.UserContext(), actor(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"data": items, "total": len(items)})
	}
}

// CreateAthlete registers an athlete. Trainers are linked to the athletes they create.
func CreateAthlete(svc service.AthleteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in athleteRequest
		if err := bindJSON(c, &in); err != nil {
			return fail(c, err)
		}
		p, err := svc.Create(c.UserContext(), actor(c), service.AthleteInput(in))
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

func GetAthlete(svc service.AthleteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return fail(c, err)
		}
		p, err := svc.Get(c.UserContext(), actor(c), id)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(p)
	}
}

func UpdateAthlete(svc service.AthleteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return fail(c, err)
		}
		var in athleteUpdateRequest
		if err := bindJSON(c, &in); err != nil {
			return fail(c, err)
		}
		p, err := svc.Update(c.UserContext(), actor(c), id, service.AthleteInput{
			Email:          in.Email,
			FirstName:      in.FirstName,
			LastName:       in.LastName,
			Phone:          in.Phone,
			Status:         in.Status,
			Notes:          in.Notes,
			EnrollmentDate: in.EnrollmentDate,
		})
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(p)
	}
}

// DeleteAthlete removes the athlete and every dependent row.
func DeleteAthlete(svc service.AthleteService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return fail(c, err)
		}
		res, err := svc.Delete(c.UserContext(), actor(c), id)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(res)
	}
}

// AthleteAnalytics returns dashboard KPIs derived from recent progress logs
// and workout plans.
//
// @Summary Athlete KPIs
// @Tags athletes
// @Security BearerAuth
// @Param id path string true "athlete id"
// @Success 200 {object} analytics.KPI
// @Router /api/v1/athletes/{id}/analytics [get]
func AthleteAnalytics(svc service.ProgressService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return fail(c, err)
		}
		kpi, err := svc.Analytics(c.UserContext(), actor(c), id)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(kpi)
	}
}

func ListProgress(svc service.ProgressService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return fail(c, err)
		}
		limit, err := queryInt(c, "limit", 0)
		if err != nil {
			return fail(c, err)
		}
		logs, err := svc.ListLogs(c.UserContext(), actor(c), id, limit)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"data": logs})
	}
}

func CreateProgress(svc service.ProgressService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return fail(c, err)
		}
		var in progressRequest
		if err := bindJSON(c, &in); err != nil {
			return fail(c, err)
		}
		l := model.ProgressLog{
			WeightKg:         in.WeightKg,
			MaxBenchKg:       in.MaxBenchKg,
			MaxSquatKg:       in.MaxSquatKg,
			MaxDeadliftKg:    in.MaxDeadliftKg,
			FatPct:           in.FatPct,
			FatKg:            in.FatKg,
			LeanKg:           in.LeanKg,
			MuscleKg:         in.MuscleKg,
			SkeletalMuscleKg: in.SkeletalMuscleKg,
			Circumferences:   in.Circumferences,
			Notes:            in.Notes,
		}
		if in.Date != "" {
			if l.Date, err = parseTime(in.Date); err != nil {
				return fail(c, badRequest("INVALID_DATE", "date must be RFC3339 or YYYY-MM-DD"))
			}
		}
		stored, err := svc.CreateLog(c.UserContext(), actor(c), id, l)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(stored)
	}
}

func CreateWorkoutPlan(svc service.ProgressService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return fail(c, err)
		}
		var in workoutPlanRequest
		if err := bindJSON(c, &in); err != nil {
			return fail(c, err)
		}
		plan, err := svc.CreateWorkoutPlan(c.UserContext(), actor(c), id, service.WorkoutPlanInput(in))
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(plan)
	}
}

func CompleteWorkoutPlan(svc service.ProgressService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return fail(c, err)
		}
		plan, err := svc.CompleteWorkoutPlan(c.UserContext(), actor(c), id)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(plan)
	}
}
