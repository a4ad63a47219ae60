package middlewares

import (
	"sekolahku_backend/internals/configs"
	"sekolahku_backend/internals/helpers/dbtime"
	"sekolahku_backend/internals/middlewares/logger"

	"github.com/gofiber/fiber/v2"
)

// SetupMiddlewares: urutan penting (recover paling luar).
func SetupMiddlewares(app *fiber.App, cfg configs.AppConfig) {
	app.Use(RecoveryMiddleware())
	app.Use(RequestContext(cfg.RequestTimeout))
	app.Use(logger.LoggerMiddleware(cfg.SchoolTimezone))
	app.Use(CorsMiddleware(cfg.CORSOrigins))
	app.Use(GlobalRateLimiter(cfg.RateLimitPerMinute))
	app.Use(SchoolLocation(cfg))
}

// SchoolLocation: zona waktu sekolah → c.Locals (dipakai dbtime.TodayInSchool).
func SchoolLocation(cfg configs.AppConfig) fiber.Handler {
	loc := cfg.Location()
	return func(c *fiber.Ctx) error {
		c.Locals(dbtime.LocSchoolLoc, loc)
		return c.Next()
	}
}
