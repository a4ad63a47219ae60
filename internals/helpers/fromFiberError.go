package helper

import (
	"errors"

	"sekolahku_backend/internals/helpers/dbtime"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// FromFiberError mengubah *fiber.Error (hasil parse param/query)
// menjadi response JSON konsisten via JsonError.
// Jika bukan *fiber.Error, diteruskan ke JsonAppError.
func FromFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	return JsonAppError(c, err)
}

// ParseUUIDParam: c.Params(name) → uuid, 400 kalau tidak valid.
func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, name+" tidak valid")
	}
	return id, nil
}

// ParseUUIDQuery: kosong → nil; tidak valid → 400.
func ParseUUIDQuery(c *fiber.Ctx, key string) (*uuid.UUID, error) {
	s := QueryTrim(c, key)
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, key+" tidak valid")
	}
	return &id, nil
}

// RequireUUIDQuery: wajib ada.
func RequireUUIDQuery(c *fiber.Ctx, key string) (uuid.UUID, error) {
	id, err := ParseUUIDQuery(c, key)
	if err != nil {
		return uuid.Nil, err
	}
	if id == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, key+" wajib diisi")
	}
	return *id, nil
}

// ParseDateQuery: "YYYY-MM-DD"; kosong → nil.
func ParseDateQuery(c *fiber.Ctx, key string) (*dbtime.Date, error) {
	d, err := dbtime.ParseDatePtr(c.Query(key))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, key+": "+err.Error())
	}
	return d, nil
}
