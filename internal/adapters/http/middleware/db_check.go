package middleware

import (
	"context"
	"time"

	"quickcred-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// dbProbeTimeout bounds the availability probe so a hung database does
// not hold requests open
const dbProbeTimeout = 5 * time.Second

// DatabaseCheck rejects requests with 503 when the database is
// unreachable, instead of letting every handler fail individually.
func DatabaseCheck(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sqlDB, err := db.DB()
		if err != nil {
			return response.ServiceUnavailable(c, "Database unavailable")
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), dbProbeTimeout)
		defer cancel()

		if err := sqlDB.PingContext(ctx); err != nil {
			return response.ServiceUnavailable(c, "Database unavailable")
		}

		return c.Next()
	}
}
