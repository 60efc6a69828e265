package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/vaitahavya/morandi-sub002/internal/service"
)

// bindBody parses the JSON body into req and validates it.
// On failure it returns the message to send with a 400.
func bindBody(c *fiber.Ctx, v *validator.Validate, req any) (string, bool) {
	if err := c.BodyParser(req); err != nil {
		return "invalid request body", false
	}
	if err := v.Struct(req); err != nil {
		return formatValidationError(err), false
	}
	return "", true
}

// pagination reads limit/offset query parameters with defaults 20/0.
func pagination(c *fiber.Ctx) (limit, offset int, ok bool) {
	limit = c.QueryInt("limit", 20)
	offset = c.QueryInt("offset", 0)
	if limit < 1 || limit > 100 || offset < 0 {
		return 0, 0, false
	}
	return limit, offset, true
}

func respondData(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "data": data})
}

func respondError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "error": msg})
}

// formatValidationError converts the first validator error into a client message.
// Field names are the json/query names registered by internal/validator.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "invalid request"
	}

	fe := ve[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return "invalid request: " + field + " is required"
	case "notblank":
		return "invalid request: " + field + " cannot be blank"
	case "max":
		return fmt.Sprintf("invalid request: %s exceeds maximum of %s", field, fe.Param())
	case "gte", "min":
		return fmt.Sprintf("invalid request: %s must be at least %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("invalid request: %s must be greater than %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("invalid request: %s must be at most %s", field, fe.Param())
	case "ne":
		return fmt.Sprintf("invalid request: %s must not be %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("invalid request: %s must be one of [%s]", field, fe.Param())
	case "pincode":
		return "invalid request: " + field + " must be a 6 digit pincode"
	case "email":
		return "invalid request: " + field + " must be a valid email"
	case "gtefield":
		return fmt.Sprintf("invalid request: %s must not be less than %s", field, lowerFirst(fe.Param()))
	default:
		return "invalid request: " + field + " is invalid"
	}
}

// lowerFirst turns a Go field name used in a cross-field tag into its json name.
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

var (
	notFoundErrors = []error{
		service.ErrCouponNotFound,
		service.ErrShippingRateNotFound,
		service.ErrProductNotFound,
	}
	badRequestErrors = []error{
		service.ErrInvalidRequest,
		service.ErrCouponExpired,
		service.ErrCouponUsageLimit,
		service.ErrBelowMinimum,
		service.ErrZoneNotEligible,
		service.ErrInvalidCouponValue,
		service.ErrPincodeRequired,
	}
	conflictErrors = []error{
		service.ErrCouponExists,
		service.ErrProductExists,
	}
)

func matchAny(err error, targets []error) error {
	for _, t := range targets {
		if errors.Is(err, t) {
			return t
		}
	}
	return nil
}

// respondServiceError maps service sentinels to status codes. Anything unknown
// is logged and hidden behind a generic 500.
// Validation failures keep the full message since services annotate some of them.
func respondServiceError(c *fiber.Ctx, err error, msg string) error {
	if t := matchAny(err, notFoundErrors); t != nil {
		return respondError(c, fiber.StatusNotFound, t.Error())
	}
	if t := matchAny(err, badRequestErrors); t != nil {
		return respondError(c, fiber.StatusBadRequest, err.Error())
	}
	if t := matchAny(err, conflictErrors); t != nil {
		return respondError(c, fiber.StatusConflict, t.Error())
	}
	if errors.Is(err, service.ErrInvalidCredentials) {
		return respondError(c, fiber.StatusUnauthorized, service.ErrInvalidCredentials.Error())
	}

	log.Error().
		Err(err).
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg(msg)
	return respondError(c, fiber.StatusInternalServerError, "internal server error")
}
