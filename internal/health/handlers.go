package health

import (
	"context"
	"time"

	"huddle-backend/internal/middleware"
	"huddle-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Handlers struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

// GET /health/json — liveness of the two datastores plus request counters.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "not configured"
	if h.DB != nil {
		dbStatus = "ok"
		if sqlDB, err := h.DB.DB(); err != nil {
			dbStatus = err.Error()
		} else if err := sqlDB.PingContext(ctx); err != nil {
			dbStatus = err.Error()
		}
	}

	redisStatus := "not configured"
	stats := fiber.Map{}
	if h.Rdb != nil {
		redisStatus = "ok"
		if err := h.Rdb.Ping(ctx).Err(); err != nil {
			redisStatus = err.Error()
		} else {
			total, _ := h.Rdb.Get(ctx, middleware.KeyReqTotal).Int64()
			errs, _ := h.Rdb.Get(ctx, middleware.KeyReqErrors).Int64()
			resTime, _ := h.Rdb.Get(ctx, middleware.KeyResTime).Float64()
			resCount, _ := h.Rdb.Get(ctx, middleware.KeyResCount).Int64()
			avg := float64(0)
			if resCount > 0 {
				avg = resTime / float64(resCount)
			}
			stats = fiber.Map{
				"req_total":  total,
				"req_errors": errs,
				"avg_ms":     avg,
			}
		}
	}

	status := "ok"
	if dbStatus != "ok" && dbStatus != "not configured" {
		status = "degraded"
	}
	if redisStatus != "ok" && redisStatus != "not configured" {
		status = "degraded"
	}

	return response.Success(c, "Health check", fiber.Map{
		"status":   status,
		"database": dbStatus,
		"redis":    redisStatus,
		"requests": stats,
		"time":     time.Now().UTC(),
	}, nil)
}
