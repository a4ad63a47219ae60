package helper

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ✅ Khusus error validasi (validator.v10) → 400 + map field → tag
func JsonValidatorError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return JsonError(c, fiber.StatusBadRequest, "Input tidak valid")
	}

	errorsMap := make(map[string]string, len(ve))
	for _, fieldErr := range ve {
		tag := fieldErr.Tag()
		if p := fieldErr.Param(); p != "" {
			tag += "=" + p
		}
		errorsMap[fieldErr.Field()] = tag
	}

	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Success:   false,
		Message:   "Validasi gagal",
		ErrorCode: "VALIDATION",
		Errors:    errorsMap,
	})
}

// BindAndValidate: parse body + validasi struct tag.
// Return sudah berupa response (bukan nil) kalau gagal; ok=false.
func BindAndValidate[T any](c *fiber.Ctx, v *validator.Validate, dst *T) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if v != nil {
		if err := v.Struct(dst); err != nil {
			return false, JsonValidatorError(c, err)
		}
	}
	return true, nil
}

// QueryTrim: c.Query + TrimSpace.
func QueryTrim(c *fiber.Ctx, key string) string {
	return strings.TrimSpace(c.Query(key))
}
