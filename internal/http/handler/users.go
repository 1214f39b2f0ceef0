package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"gymapi/internal/model"
	"gymapi/internal/service"
)

type createUserRequest struct {
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required"`
	FirstName      string  `json:"first_name" validate:"required"`
	LastName       string  `json:"last_name" validate:"required"`
	Phone          *string `json:"phone"`
	Role           string  `json:"role" validate:"required"`
	Status         string  `json:"status" validate:"omitempty,oneof=active inactive suspended"`
	Notes          *string `json:"notes"`
	EnrollmentDate string  `json:"enrollment_date"`
}

type updateUserRequest struct {
	Email          *string `json:"email" validate:"omitempty,email"`
	Password       *string `json:"password"`
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Phone          *string `json:"phone"`
	Role           *string `json:"role"`
	Status         *string `json:"status" validate:"omitempty,oneof=active inactive suspended"`
	Notes          *string `json:"notes"`
	EnrollmentDate *string `json:"enrollment_date"`
}

type passwordRequest struct {
	Password string `json:"password" validate:"required"`
}

type importRow struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone"`
	Role            string `json:"role"`
	Status          string `json:"status"`
	AssignedTrainer string `json:"assigned_trainer"`
}

type importRequest struct {
	Users []importRow `json:"users" validate:"required,min=1"`
}

type roleRequest struct {
	Description *string         `json:"description"`
	Permissions map[string]bool `json:"permissions"`
}

// ListUsers pages through every profile in the caller's organization.
// limit=0 returns all rows.
//
// @Summary List users
// @Tags admin
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param limit query int false "page size, 0 for all" default(20)
// @Success 200 {object} service.UserListResult
// @Router /api/v1/admin/users [get]
func ListUsers(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := queryInt(c, "page", 1)
		if err != nil {
			return fail(c, err)
		}
		limit, err := queryInt(c, "limit", 20)
		if err != nil {
			return fail(c, err)
		}
		res, err := svc.List(c.UserContext(), actor(c), page, limit)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(res)
	}
}

// CreateUser provisions a login and profile.
//
// @Summary Create user
// @Tags admin
// @Security BearerAuth
// @Param body body createUserRequest true "user"
// @Success 201 {object} model.Profile
// @Failure 409 {object} errorPayload
// @Router /api/v1/admin/users [post]
func CreateUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in createUserRequest
		if err := bindJSON(c, &in); err != nil {
			return fail(c, err)
		}
		enrolled, err := optionalDate(in.EnrollmentDate)
		if err != nil {
			return fail(c, err)
		}
		p, err := svc.Create(c.UserContext(), actor(c), service.AccountInput{
			Email:          in.Email,
			Password:       in.Password,
			FirstName:      in.FirstName,
			LastName:       in.LastName,
			Phone:          in.Phone,
			Role:           in.Role,
			Status:         in.Status,
			Notes:          in.Notes,
			EnrollmentDate: enrolled,
		})
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

func UpdateUser(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return fail(c, err)
		}
		var in updateUserRequest
		if err := bindJSON(c, &in); err != nil {
			return fail(c, err)
		}
		patch := model.ProfilePatch{
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Email:     in.Email,
			Phone:     in.Phone,
			Role:      in.Role,
			Status:    in.Status,
			Notes:     in.Notes,
		}
		if in.EnrollmentDate != nil {
			if patch.EnrollmentDate, err = optionalDate(*in.EnrollmentDate); err != nil {
				return fail(c, err)
			}
		}
		p, err := svc.Update(c.UserContext(), actor(c), id, service.UpdateUserInput{ProfilePatch: patch, Password: in.Password})
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(p)
	}
}

// DeleteUser accepts either a profile id or an auth user id.
func DeleteUser(svc service.UserService) fiber.Handler {
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

func ResetPassword(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c, "id")
		if err != nil {
			return fail(c, err)
		}
		var in passwordRequest
		if err := bindJSON(c, &in); err != nil {
			return fail(c, err)
		}
		if err := svc.ResetPassword(c.UserContext(), actor(c), id, in.Password); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"success": true})
	}
}

// ImportUsers creates users in throttled batches. Row failures are reported
// in the result, not as an error status.
func ImportUsers(svc service.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in importRequest
		if err := bindJSON(c, &in); err != nil {
			return fail(c, err)
		}
		rows := make([]service.ImportUserInput, len(in.Users))
		for i, r := range in.Users {
			rows[i] = service.ImportUserInput(r)
		}
		res, err := svc.Import(c.UserContext(), actor(c), rows)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(res)
	}
}

func ListRoles(svc service.RoleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roles, err := svc.List(c.UserContext(), actor(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"data": roles})
	}
}

func UpdateRole(svc service.RoleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		var in roleRequest
		if err := bindJSON(c, &in); err != nil {
			return fail(c, err)
		}
		role, err := svc.Update(c.UserContext(), actor(c), id, in.Description, in.Permissions)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(role)
	}
}

// Statistics returns the admin dashboard aggregates. Months follow loc.
//
// @Summary Admin statistics
// @Tags admin
// @Security BearerAuth
// @Success 200 {object} service.Statistics
// @Router /api/v1/admin/statistics [get]
func Statistics(svc service.StatisticsService, loc *time.Location) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st, err := svc.Get(c.UserContext(), actor(c), time.Now().In(loc))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(st)
	}
}

func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseTime(s)
	if err != nil {
		return nil, badRequest("INVALID_DATE", "date must be RFC3339 or YYYY-MM-DD")
	}
	return &t, nil
}
