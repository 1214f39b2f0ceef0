package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"gymapi/internal/auth"
	"gymapi/internal/http/middleware"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bindJSON decodes the request body into dst and validates it.
func bindJSON(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return badRequest("INVALID_BODY", "request body is not valid JSON")
	}
	if err := validate.Struct(dst); err != nil {
		return badRequest("VALIDATION_ERROR", validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request body"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email")
		case "uuid":
			msgs = append(msgs, field+" must be a valid id")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s %s", field, fe.Tag(), fe.Param()))
		}
	}
	return strings.Join(msgs, "; ")
}

// paramID reads a UUID path parameter.
func paramID(c *fiber.Ctx, name string) (string, error) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", badRequest("INVALID_ID", "invalid id format")
	}
	return id, nil
}

// queryInt reads an integer query parameter, def when absent.
func queryInt(c *fiber.Ctx, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("INVALID_"+strings.ToUpper(name), "invalid "+strings.ReplaceAll(name, "_", " "))
	}
	return n, nil
}

// queryTime reads an RFC3339 or YYYY-MM-DD query parameter.
func queryTime(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := parseTime(raw)
	if err != nil {
		return nil, badRequest("INVALID_DATE", name+" must be RFC3339 or YYYY-MM-DD")
	}
	return &t, nil
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func actor(c *fiber.Ctx) auth.Principal {
	p, _ := middleware.PrincipalFrom(c)
	return p
}
