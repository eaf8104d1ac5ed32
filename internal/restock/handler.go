package restock

import (
	"context"
	"fmt"

	"restock-backend/internal/config"
	"restock-backend/internal/job"
	"restock-backend/internal/models"
	"restock-backend/internal/progress"

	"github.com/gofiber/fiber/v2"
)

// POST /api/restock
// multipart: ham_files[], export_files[], restock_file, settings_str (JSON), job_id (opsiyonel)
func Handler(deps *job.Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return deps.Serve(c, models.RunKindRestock, func(ctx context.Context, report progress.Func) (*job.Outcome, error) {
			settings, err := config.ParseRestockSettings(deps.Settings, c.FormValue("settings_str"))
			if err != nil {
				return nil, err
			}

			stock, err := job.Files(c, "ham_files")
			if err != nil {
				return nil, err
			}
			exports, err := job.Files(c, "export_files")
			if err != nil {
				return nil, err
			}
			master, err := job.File(c, "restock_file")
			if err != nil {
				return nil, err
			}

			req := Request{Stock: stock, Exports: exports, Master: master, Workers: deps.Workers}
			out, err := Reconcile(ctx, req, settings, report)
			if err != nil {
				return nil, err
			}

			if deps.Metrics != nil {
				deps.Metrics.PriceWarRemovals.Add(float64(out.Stats.PriceWarRemovals))
				deps.Metrics.EnrichSkipped.Add(float64(len(out.Stats.EnrichmentSkipped)))
			}
			return &job.Outcome{
				Data:        out.Data,
				Filename:    OutputFilename,
				InputFiles:  len(stock) + len(exports) + 1,
				FailedFiles: len(out.Stats.FailedFiles),
				OutputRows:  out.Rows,
				Description: fmt.Sprintf("%d stok, %d export dosyası; %d satır eşleşti", len(stock), len(exports), out.Stats.MatchedRows),
				Stats:       out.Stats,
			}, nil
		})
	}
}
