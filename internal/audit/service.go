package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"restock-backend/internal/database"
	"restock-backend/internal/models"
)

type RunOptions struct {
	JobID       string
	Kind        models.RunKind
	UserEmail   string
	InputFiles  int
	FailedFiles int
	OutputRows  int
	Duration    time.Duration
	Description string
	Err         error
	Stats       any
}

const maxErrorLen = 500

// WriteRun: çalıştırma kaydını yazar. Veritabanı kapalıysa sessizce geçer.
func WriteRun(opts RunOptions) error {
	if !database.Enabled() {
		return nil
	}

	run := newRun(opts)
	if err := database.DB.Create(&run).Error; err != nil {
		return fmt.Errorf("çalıştırma kaydı yazılamadı: %w", err)
	}
	return nil
}

func newRun(opts RunOptions) models.ReconcileRun {
	run := models.ReconcileRun{
		JobID:       opts.JobID,
		Kind:        opts.Kind,
		Status:      models.RunStatusOK,
		UserEmail:   opts.UserEmail,
		InputFiles:  opts.InputFiles,
		FailedFiles: opts.FailedFiles,
		OutputRows:  opts.OutputRows,
		DurationMs:  opts.Duration.Milliseconds(),
		Description: truncate(opts.Description, 255),
		StatsData:   statsJSON(opts.Stats),
	}
	if opts.Err != nil {
		run.Status = models.RunStatusError
		run.Error = truncate(opts.Err.Error(), maxErrorLen)
	}
	return run
}

// PostgreSQL jsonb için boş string yerine "null" JSON string'i kullanmalıyız
func statsJSON(stats any) string {
	if stats == nil {
		return "null"
	}
	b, err := json.Marshal(stats)
	if err != nil {
		return "null"
	}
	return string(b)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
