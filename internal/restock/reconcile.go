package restock

import (
	"context"
	"fmt"

	"restock-backend/internal/apperr"
	"restock-backend/internal/config"
	"restock-backend/internal/loader"
	"restock-backend/internal/logging"
	"restock-backend/internal/progress"
	"restock-backend/internal/xlsx"
)

// OutputFilename: indirme yanıtındaki dosya adı
const OutputFilename = "processed_restock.xlsx"

// Request: restock isteğinin ham dosyaları. Stock sırası öncelik sırasıdır.
type Request struct {
	Stock   []loader.File
	Exports []loader.File
	Master  loader.File
	// Workers: paralel okuma sınırı, 0 = CPU sayısı
	Workers int
}

// Output: oluşturulan xlsx ve çalıştırma özeti
type Output struct {
	Data  []byte
	Rows  int
	Stats Stats
}

// Reconcile: dosyaları paralel okur, Run'ı çalıştırır ve sonucu xlsx olarak yazar
func Reconcile(ctx context.Context, req Request, s config.RestockSettings, report progress.Func) (*Output, error) {
	if len(req.Stock) == 0 {
		return nil, fmt.Errorf("%w: en az bir stok dosyası gerekli", apperr.ErrNoInput)
	}
	if len(req.Master.Data) == 0 {
		return nil, fmt.Errorf("%w: restock dosyası gerekli", apperr.ErrNoInput)
	}

	master, err := xlsx.Decode(req.Master.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: restock dosyası okunamadı: %v", apperr.ErrNoInput, err)
	}

	report.Report("Dosyalar paralel okunuyor...", 10)
	files := make([]loader.File, 0, len(req.Stock)+len(req.Exports))
	files = append(files, req.Stock...)
	files = append(files, req.Exports...)

	completed := 0
	results := loader.LoadAll(ctx, files, xlsx.Decode, req.Workers, func(r loader.Result) {
		completed++
		pct := 10 + completed*30/len(files)
		if r.Err != nil {
			logging.L().Warn().Err(r.Err).Str("file", r.Name).Msg("dosya okunamadı")
			report.Report(fmt.Sprintf("Okunamadı: %s: %v", r.Name, r.Err), pct)
			return
		}
		report.Report(fmt.Sprintf("Yüklendi: %s", r.Name), pct)
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stock, stockFailed := supplierTables(results[:len(req.Stock)])
	exports, exportFailed := supplierTables(results[len(req.Stock):])

	out, stats, err := Run(stock, exports, master, s, report)
	if err != nil {
		return nil, err
	}
	stats.StockFiles = len(req.Stock)
	stats.ExportFiles = len(req.Exports)
	stats.FailedFiles = append(stockFailed, exportFailed...)

	report.Report("Dosya kaydediliyor...", 95)
	data, err := xlsx.Encode(out)
	if err != nil {
		return nil, fmt.Errorf("sonuç dosyası yazılamadı: %w", err)
	}
	report.Report("İşlem tamamlandı", 100)

	return &Output{Data: data, Rows: out.Len(), Stats: stats}, nil
}

// supplierTables: başarılı yüklemeleri gönderim sırasıyla döndürür
func supplierTables(results []loader.Result) ([]SupplierTable, []string) {
	loaded, failed := loader.Split(results)
	tables := make([]SupplierTable, 0, len(loaded))
	for _, r := range loaded {
		tables = append(tables, SupplierTable{Name: r.Name, Table: r.Table})
	}
	names := make([]string, 0, len(failed))
	for _, r := range failed {
		names = append(names, r.Name)
	}
	return tables, names
}
