package handler

import (
	"github.com/gofiber/fiber/v2"

	"gymapi/internal/service"
)

type messageRequest struct {
	Message string `json:"message" validate:"required"`
}

func ListConversations(svc service.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := svc.Conversations(c.UserContext(), actor(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"data": items})
	}
}

// GetConversation returns the messages exchanged with :userId, oldest first.
func GetConversation(svc service.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		other, err := paramID(c, "userId")
		if err != nil {
			return fail(c, err)
		}
		msgs, err := svc.Conversation(c.UserContext(), actor(c), other)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"data": msgs})
	}
}

func SendMessage(svc service.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		other, err := paramID(c, "userId")
		if err != nil {
			return fail(c, err)
		}
		var in messageRequest
		if err := bindJSON(c, &in); err != nil {
			return fail(c, err)
		}
		m, err := svc.Send(c.UserContext(), actor(c), other, in.Message)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(m)
	}
}

func MarkConversationRead(svc service.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		other, err := paramID(c, "userId")
		if err != nil {
			return fail(c, err)
		}
		n, err := svc.MarkRead(c.UserContext(), actor(c), other)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"updated": n})
	}
}

func DeleteMessage(svc service.ChatService) fiber.Handler {
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
