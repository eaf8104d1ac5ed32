// Package job, restock ve sevkiyat handler'larının ortak akışını içerir:
// yüklenen dosyaları okuma, ilerleme yayını, metrik, çalıştırma kaydı ve
// sonuç dosyasını indirme yanıtı olarak gönderme.
package job

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"restock-backend/internal/audit"
	"restock-backend/internal/auth"
	"restock-backend/internal/config"
	"restock-backend/internal/loader"
	"restock-backend/internal/logging"
	"restock-backend/internal/metrics"
	"restock-backend/internal/models"
	"restock-backend/internal/progress"
	"restock-backend/internal/xlsx"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Deps: handler bağımlılıkları. Hub ve Metrics nil olabilir.
type Deps struct {
	Settings *config.Settings
	Hub      *progress.Hub
	Metrics  *metrics.Registry
	Workers  int
}

// Outcome: başarılı bir çalıştırmanın sonucu
type Outcome struct {
	Data        []byte
	Filename    string
	InputFiles  int
	FailedFiles int
	OutputRows  int
	Description string
	Stats       any
}

// RunFunc: mutabakatı çalıştıran fonksiyon
type RunFunc func(ctx context.Context, report progress.Func) (*Outcome, error)

// Serve: job_id'yi çözer, run'ı çalıştırır, sonucu kaydeder ve xlsx'i ek olarak döner.
// Hata, uygulamanın ErrorHandler'ına bırakılır.
func (d *Deps) Serve(c *fiber.Ctx, kind models.RunKind, run RunFunc) error {
	jobID := c.FormValue("job_id")
	if jobID != "" {
		if _, err := uuid.Parse(jobID); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz iş numarası")
		}
	}

	var report progress.Func
	if d.Hub != nil {
		report = d.Hub.Reporter(jobID)
		defer d.Hub.Finish(jobID)
	}

	log := logging.L().With().Str("kind", string(kind)).Str("job_id", jobID).Logger()
	log.Info().Msg("mutabakat başladı")

	start := time.Now()
	out, err := run(c.UserContext(), report)
	elapsed := time.Since(start)

	d.Metrics.ObserveRun(string(kind), err, elapsed)

	opts := audit.RunOptions{
		JobID:     jobID,
		Kind:      kind,
		UserEmail: auth.UserEmail(c),
		Duration:  elapsed,
		Err:       err,
	}
	if err != nil {
		log.Error().Err(err).Dur("elapsed", elapsed).Msg("mutabakat başarısız")
		report.Report(fmt.Sprintf("Hata: %v", err), 100)
	} else {
		opts.InputFiles = out.InputFiles
		opts.FailedFiles = out.FailedFiles
		opts.OutputRows = out.OutputRows
		opts.Description = out.Description
		opts.Stats = out.Stats
		d.Metrics.ObserveFiles(string(kind), out.InputFiles-out.FailedFiles, out.FailedFiles)
		d.Metrics.ObserveRows(string(kind), out.OutputRows)
		log.Info().
			Int("rows", out.OutputRows).
			Int("failed_files", out.FailedFiles).
			Dur("elapsed", elapsed).
			Msg("mutabakat tamamlandı")
	}

	if werr := audit.WriteRun(opts); werr != nil {
		log.Warn().Err(werr).Msg("çalıştırma kaydı yazılamadı")
	}
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, xlsx.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, out.Filename))
	return c.Send(out.Data)
}

// Files: multipart alanındaki tüm dosyaları gönderim sırasıyla okur
func Files(c *fiber.Ctx, field string) ([]loader.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Geçersiz form verisi")
	}

	headers := form.File[field]
	files := make([]loader.File, 0, len(headers))
	for _, fh := range headers {
		f, err := readFile(fh)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// File: tek dosyalık alan. Alan yoksa boş File döner.
func File(c *fiber.Ctx, field string) (loader.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return loader.File{}, nil
	}
	return readFile(fh)
}

func readFile(fh *multipart.FileHeader) (loader.File, error) {
	src, err := fh.Open()
	if err != nil {
		return loader.File{}, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Dosya açılamadı: %s", fh.Filename))
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return loader.File{}, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Dosya okunamadı: %s", fh.Filename))
	}
	return loader.File{Name: fh.Filename, Data: data}, nil
}
