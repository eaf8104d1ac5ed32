package audit

import (
	"encoding/json"
	"time"

	"restock-backend/internal/database"
	"restock-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type RunResponse struct {
	ID          uint             `json:"id"`
	CreatedAt   string           `json:"created_at"`
	JobID       string           `json:"job_id"`
	Kind        models.RunKind   `json:"kind"`
	Status      models.RunStatus `json:"status"`
	UserEmail   string           `json:"user_email"`
	InputFiles  int              `json:"input_files"`
	FailedFiles int              `json:"failed_files"`
	OutputRows  int              `json:"output_rows"`
	DurationMs  int64            `json:"duration_ms"`
	Description string           `json:"description"`
	Error       string           `json:"error,omitempty"`
	Stats       json.RawMessage  `json:"stats"`
}

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// GET /api/runs?kind=restock&status=error&limit=50
func ListRunsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !database.Enabled() {
			return fiber.NewError(fiber.StatusServiceUnavailable, "Çalıştırma kaydı kapalı (DATABASE_DSN tanımlı değil)")
		}

		limit := c.QueryInt("limit", defaultListLimit)
		if limit <= 0 || limit > maxListLimit {
			return fiber.NewError(fiber.StatusBadRequest, "limit 1 ile 500 arasında olmalı")
		}

		dbq := database.DB.Model(&models.ReconcileRun{})

		// Tür filtresi
		switch kind := models.RunKind(c.Query("kind")); kind {
		case "":
		case models.RunKindRestock, models.RunKindShipment:
			dbq = dbq.Where("kind = ?", kind)
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz kind")
		}

		// Durum filtresi
		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}

		var runs []models.ReconcileRun
		if err := dbq.Order("created_at DESC").Limit(limit).Find(&runs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kayıtlar alınamadı")
		}

		resp := make([]RunResponse, 0, len(runs))
		for _, r := range runs {
			resp = append(resp, toResponse(r))
		}
		return c.JSON(resp)
	}
}

func toResponse(r models.ReconcileRun) RunResponse {
	return RunResponse{
		ID:          r.ID,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
		JobID:       r.JobID,
		Kind:        r.Kind,
		Status:      r.Status,
		UserEmail:   r.UserEmail,
		InputFiles:  r.InputFiles,
		FailedFiles: r.FailedFiles,
		OutputRows:  r.OutputRows,
		DurationMs:  r.DurationMs,
		Description: r.Description,
		Error:       r.Error,
		Stats:       statsRaw(r.StatsData),
	}
}

// statsRaw: kayıttaki jsonb özeti olduğu gibi döner; boş veya bozuksa null
func statsRaw(s string) json.RawMessage {
	if s == "" || !json.Valid([]byte(s)) {
		return json.RawMessage("null")
	}
	return json.RawMessage(s)
}
