package models

import "time"

type RunKind string

const (
	RunKindRestock  RunKind = "restock"
	RunKindShipment RunKind = "shipment"
)

type RunStatus string

const (
	RunStatusOK    RunStatus = "ok"
	RunStatusError RunStatus = "error"
)

type ReconcileRun struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// İlerleme takibi için istemcinin gönderdiği iş numarası (opsiyonel)
	JobID string `gorm:"size:36;index" json:"job_id"`

	Kind   RunKind   `gorm:"size:20;index" json:"kind"`
	Status RunStatus `gorm:"size:20;index" json:"status"`

	// Auth kapalıysa boş
	UserEmail string `gorm:"size:100" json:"user_email"`

	InputFiles  int   `json:"input_files"`
	FailedFiles int   `json:"failed_files"`
	OutputRows  int   `json:"output_rows"`
	DurationMs  int64 `json:"duration_ms"`

	Description string `gorm:"size:255" json:"description"`
	Error       string `gorm:"size:500" json:"error"`

	// Çalıştırma özeti (restock.Stats / shipment.Stats)
	StatsData string `gorm:"type:jsonb" json:"stats_data"`
}
