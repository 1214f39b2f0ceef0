package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"gymapi/internal/service"
)

type paymentRequest struct {
	AthleteID  string  `json:"athlete_id" validate:"required,uuid"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	MethodText string  `json:"method_text" validate:"required"`
	Lessons    int     `json:"lessons" validate:"gte=0"`
	Status     string  `json:"status" validate:"omitempty,oneof=pending completed failed refunded"`
	Notes      *string `json:"notes"`
}

type reversalRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func ListPayments(svc service.PaymentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := queryInt(c, "page", 1)
		if err != nil {
			return fail(c, err)
		}
		size, err := queryInt(c, "page_size", 20)
		if err != nil {
			return fail(c, err)
		}
		res, err := svc.List(c.UserContext(), actor(c), page, size)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(res)
	}
}

// CreatePayment records a payment and credits its lessons to the athlete.
//
// @Summary Record payment
// @Tags payments
// @Security BearerAuth
// @Param body body paymentRequest true "payment"
// @Success 201 {object} model.Payment
// @Router /api/v1/payments [post]
func CreatePayment(svc service.PaymentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in paymentRequest
		if err := bindJSON(c, &in); err != nil {
			return fail(c, err)
		}
		p, err := svc.Create(c.UserContext(), actor(c), service.PaymentInput(in))
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// ReversePayment books a negative counter-payment; the original is kept.
func ReversePayment(svc service.PaymentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return fail(c, err)
		}
		var in reversalRequest
		if err := bindJSON(c, &in); err != nil {
			return fail(c, err)
		}
		rev, err := svc.Reverse(c.UserContext(), actor(c), id, in.Reason)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(rev)
	}
}

func PaymentStats(svc service.PaymentService, loc *time.Location) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, err := svc.Stats(c.UserContext(), actor(c), time.Now().In(loc))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(st)
	}
}
