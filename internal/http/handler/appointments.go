package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"gymapi/internal/model"
	"gymapi/internal/service"
)

type appointmentRequest struct {
	AthleteID string    `json:"athlete_id" validate:"required,uuid"`
	StaffID   string    `json:"staff_id" validate:"omitempty,uuid"`
	StartsAt  time.Time `json:"starts_at" validate:"required"`
	EndsAt    time.Time `json:"ends_at" validate:"required"`
	Type      string    `json:"type"`
	Status    string    `json:"status" validate:"omitempty,oneof=scheduled in_progress completed cancelled"`
	Location  *string   `json:"location"`
	Notes     *string   `json:"notes"`
}

type overlapRequest struct {
	StaffID   string    `json:"staff_id" validate:"required,uuid"`
	StartsAt  time.Time `json:"starts_at" validate:"required"`
	EndsAt    time.Time `json:"ends_at" validate:"required"`
	ExcludeID string    `json:"exclude_id" validate:"omitempty,uuid"`
}

// ListAppointments filters by athlete_id, staff_id and a from/to window.
// Non-admin callers only see their own appointments.
func ListAppointments(svc service.AppointmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, err := queryTime(c, "from")
		if err != nil {
			return fail(c, err)
		}
		to, err := queryTime(c, "to")
		if err != nil {
			return fail(c, err)
		}
		items, err := svc.List(c.UserContext(), actor(c), model.AppointmentFilter{
			AthleteID: c.Query("athlete_id"),
			StaffID:   c.Query("staff_id"),
			From:      from,
			To:        to,
		})
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"data": items})
	}
}

// CreateAppointment books a slot. Overlapping slots for the same staff member
// are rejected with 409.
//
// @Summary Create appointment
// @Tags appointments
// @Security BearerAuth
// @Param body body appointmentRequest true "appointment"
// @Success 201 {object} model.Appointment
// @Failure 409 {object} errorPayload
// @Router /api/v1/appointments [post]
func CreateAppointment(svc service.AppointmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in appointmentRequest
		if err := bindJSON(c, &in); err != nil {
			return fail(c, err)
		}
		a, err := svc.Create(c.UserContext(), actor(c), service.AppointmentInput(in))
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	}
}

func GetAppointment(svc service.AppointmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return fail(c, err)
		}
		a, err := svc.Get(c.UserContext(), actor(c), id)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(a)
	}
}

func UpdateAppointment(svc service.AppointmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return fail(c, err)
		}
		var in appointmentRequest
		if err := bindJSON(c, &in); err != nil {
			return fail(c, err)
		}
		a, err := svc.Update(c.UserContext(), actor(c), id, service.AppointmentInput(in))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(a)
	}
}

func CancelAppointment(svc service.AppointmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return fail(c, err)
		}
		a, err := svc.Cancel(c.UserContext(), actor(c), id)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(a)
	}
}

func DeleteAppointment(svc service.AppointmentService) fiber.Handler {
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

// CheckOverlap reports whether a slot collides with the staff member's agenda.
func CheckOverlap(svc service.AppointmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in overlapRequest
		if err := bindJSON(c, &in); err != nil {
			return fail(c, err)
		}
		overlap, err := svc.CheckOverlap(c.UserContext(), service.OverlapQuery(in))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"overlap": overlap})
	}
}
