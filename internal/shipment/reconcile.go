package shipment

import (
	"context"
	"fmt"

	"restock-backend/internal/apperr"
	"restock-backend/internal/config"
	"restock-backend/internal/loader"
	"restock-backend/internal/logging"
	"restock-backend/internal/progress"
	"restock-backend/internal/table"
	"restock-backend/internal/xlsx"
)

// OutputFilename: indirme yanıtındaki dosya adı
const OutputFilename = "Shipment_Result.xlsx"

type Request struct {
	Invoice  loader.File
	Orders   []loader.File
	Restocks []loader.File
	DCCode   string
	// Workers: paralel okuma sınırı, 0 = CPU sayısı
	Workers int
}

type Output struct {
	Data  []byte
	Rows  int
	Stats Stats
}

// Reconcile: faturayı, sipariş formlarını ve restock dosyalarını paralel okur.
// Fatura okunamazsa istek başarısız olur; diğer dosyaların hataları sadece raporlanır.
func Reconcile(ctx context.Context, req Request, s config.ShipmentSettings, report progress.Func) (*Output, error) {
	if len(req.Invoice.Data) == 0 {
		return nil, fmt.Errorf("%w: fatura dosyası gerekli", apperr.ErrNoInput)
	}

	report.Report("Dosyalar okunuyor...", 10)
	files := make([]loader.File, 0, 1+len(req.Orders)+len(req.Restocks))
	files = append(files, req.Invoice)
	files = append(files, req.Orders...)
	files = append(files, req.Restocks...)

	results := loader.LoadAll(ctx, files, xlsx.Decode, req.Workers, func(r loader.Result) {
		if r.Err != nil {
			logging.L().Warn().Err(r.Err).Str("file", r.Name).Msg("dosya okunamadı")
			report.Report(fmt.Sprintf("Okunamadı: %s: %v", r.Name, r.Err), 10)
		}
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := results[0].Err; err != nil {
		return nil, fmt.Errorf("%w: fatura dosyası okunamadı: %v", apperr.ErrNoInput, err)
	}
	invoice := results[0].Table

	nOrders := len(req.Orders)
	orders, orderFailed := concatLoaded(results[1 : 1+nOrders])
	restocks, restockFailed := concatLoaded(results[1+nOrders:])

	report.Report("Fatura satırları eşleştiriliyor...", 40)
	out, stats, err := Run(invoice, orders, restocks, req.DCCode, s)
	if err != nil {
		return nil, err
	}
	stats.OrderFiles = len(req.Orders)
	stats.RestockFiles = len(req.Restocks)
	stats.FailedFiles = append(orderFailed, restockFailed...)

	report.Report("Dosya kaydediliyor...", 90)
	data, err := xlsx.Encode(out)
	if err != nil {
		return nil, fmt.Errorf("sonuç dosyası yazılamadı: %w", err)
	}
	report.Report("İşlem tamamlandı", 100)

	return &Output{Data: data, Rows: out.Len(), Stats: stats}, nil
}

// concatLoaded: başarılı yüklemeleri gönderim sırasıyla alt alta birleştirir
func concatLoaded(results []loader.Result) (*table.Table, []string) {
	loaded, failed := loader.Split(results)
	tables := make([]*table.Table, 0, len(loaded))
	for _, r := range loaded {
		tables = append(tables, r.Table)
	}
	names := make([]string, 0, len(failed))
	for _, r := range failed {
		names = append(names, r.Name)
	}
	return table.Concat(tables...), names
}
