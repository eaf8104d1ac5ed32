package shipment

import (
	"context"
	"fmt"
	"strings"

	"restock-backend/internal/config"
	"restock-backend/internal/job"
	"restock-backend/internal/models"
	"restock-backend/internal/progress"

	"github.com/gofiber/fiber/v2"
)

// POST /api/shipment
// multipart: invoice_file, restock_files[], order_files[], dc_code, settings_str (JSON), job_id (opsiyonel)
func Handler(deps *job.Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return deps.Serve(c, models.RunKindShipment, func(ctx context.Context, report progress.Func) (*job.Outcome, error) {
			dc := strings.TrimSpace(c.FormValue("dc_code"))
			if dc == "" {
				return nil, fiber.NewError(fiber.StatusBadRequest, "dc_code zorunlu")
			}

			settings, err := config.ParseShipmentSettings(deps.Settings, c.FormValue("settings_str"))
			if err != nil {
				return nil, err
			}

			invoice, err := job.File(c, "invoice_file")
			if err != nil {
				return nil, err
			}
			restocks, err := job.Files(c, "restock_files")
			if err != nil {
				return nil, err
			}
			orders, err := job.Files(c, "order_files")
			if err != nil {
				return nil, err
			}

			req := Request{Invoice: invoice, Orders: orders, Restocks: restocks, DCCode: dc, Workers: deps.Workers}
			out, err := Reconcile(ctx, req, settings, report)
			if err != nil {
				return nil, err
			}

			return &job.Outcome{
				Data:        out.Data,
				Filename:    OutputFilename,
				InputFiles:  1 + len(orders) + len(restocks),
				FailedFiles: len(out.Stats.FailedFiles),
				OutputRows:  out.Rows,
				Description: fmt.Sprintf("DC %s: %d fatura satırı, %d eşleşmedi", dc, out.Stats.InvoiceRows, out.Stats.Unmatched),
				Stats:       out.Stats,
			}, nil
		})
	}
}
