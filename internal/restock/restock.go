// Package restock, tedarikçi stok dosyalarını export (stok durumu) dosyalarıyla
// zenginleştirir, aynı UPC için tedarikçiler arası fiyat savaşını çözer ve
// kazanan kayıtları ana restock listesine Maliyet ile birlikte yazar.
package restock

import (
	"fmt"

	"restock-backend/internal/apperr"
	"restock-backend/internal/config"
	"restock-backend/internal/logging"
	"restock-backend/internal/progress"
	"restock-backend/internal/table"
)

// Ana listeye eklenen / üzerine yazılan kolonlar
const (
	ColPrice    = "Price"
	ColQty      = "Qty on Hand"
	ColCase     = "Case"
	ColSupplier = "Supplier"
	ColMaliyet  = "Maliyet"
)

// Mantıksal alan adları (column_mappings anahtarları)
const (
	fieldUPC      = "upc"
	fieldPrice    = "price"
	fieldCase     = "case"
	fieldQuantity = "quantity"
	fieldPK       = "pk"
)

// SupplierTable: dosya adıyla etiketlenmiş tablo. Tedarikçi kodu dosya adından türetilir.
type SupplierTable struct {
	Name  string
	Table *table.Table
}

func (s SupplierTable) Code() string {
	return table.SupplierCode(s.Name)
}

// Stats: bir restock çalıştırmasının özeti
type Stats struct {
	StockFiles        int      `json:"stock_files"`
	ExportFiles       int      `json:"export_files"`
	FailedFiles       []string `json:"failed_files,omitempty"`
	EnrichmentSkipped []string `json:"enrichment_skipped,omitempty"`
	PriceWarRemovals  int      `json:"price_war_removals"`
	MatchedRows       int      `json:"matched_rows"`
	DroppedRows       int      `json:"dropped_rows"`
}

// Run: zenginleştirme, fiyat savaşı ve ana liste birleştirmesi.
// stock sırası öncelik sırasıdır (önce gelen kazanır). master tablosu değiştirilmez.
func Run(stock, exports []SupplierTable, master *table.Table, s config.RestockSettings, report progress.Func) (*table.Table, Stats, error) {
	stats := Stats{StockFiles: len(stock), ExportFiles: len(exports)}

	masterUPC, ok := master.Resolve(s.ColumnMappings.Aliases(fieldUPC))
	if !ok {
		return nil, stats, apperr.MissingColumn("restock", fieldUPC, s.ColumnMappings.Aliases(fieldUPC))
	}

	report.Report("Stok dosyaları export verileriyle eşleştiriliyor...", 45)
	enriched := enrich(stock, exports, s.ColumnMappings, report, &stats)

	report.Report("Fiyat savaşı çalışıyor (birbirinden düşme)...", 70)
	survivors, removed := priceWar(enriched, s.ColumnMappings)
	stats.PriceWarRemovals = removed

	report.Report("Veriler ana restock dosyasına aktarılıyor...", 85)
	lookup := buildLookup(survivors, s.ColumnMappings)
	out := merge(master, masterUPC, lookup, s, &stats)

	logging.L().Debug().
		Int("matched", stats.MatchedRows).
		Int("dropped", stats.DroppedRows).
		Int("price_war_removals", stats.PriceWarRemovals).
		Msg("restock birleştirme tamamlandı")

	return out, stats, nil
}

func skipMessage(name, reason string) string {
	return fmt.Sprintf("%s: export eşleştirmesi atlandı (%s)", name, reason)
}
