// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Nama locals yang diisi middleware
const (
	LocSchoolLoc = "school_loc" // *time.Location
)

var defaultLoc = loadDefault()

func loadDefault() *time.Location {
	if loc, err := time.LoadLocation("Asia/Jakarta"); err == nil {
		return loc
	}
	return time.UTC
}

// SetDefaultLocation: dipanggil sekali saat startup dari config.
func SetDefaultLocation(loc *time.Location) {
	if loc != nil {
		defaultLoc = loc
	}
}

func DefaultLocation() *time.Location { return defaultLoc }

// GetSchoolLocation:
// 1) c.Locals("school_loc") kalau diisi middleware
// 2) fallback lokasi default (config)
func GetSchoolLocation(c *fiber.Ctx) *time.Location {
	if c != nil {
		if v := c.Locals(LocSchoolLoc); v != nil {
			if loc, ok := v.(*time.Location); ok && loc != nil {
				return loc
			}
		}
	}
	return defaultLoc
}

// Today: tanggal hari ini di zona loc.
func Today(loc *time.Location) Date {
	if loc == nil {
		loc = defaultLoc
	}
	return DateOf(time.Now().In(loc))
}

// TodayInSchool: versi fiber.
func TodayInSchool(c *fiber.Ctx) Date {
	return Today(GetSchoolLocation(c))
}

// ParseDatePtr: string kosong → nil.
func ParseDatePtr(s string) (*Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
