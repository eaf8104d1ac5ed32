package restock

import (
	"restock-backend/internal/config"
	"restock-backend/internal/logging"
	"restock-backend/internal/progress"
	"restock-backend/internal/table"
)

// enrich: her stok dosyasını aynı tedarikçi kodlu ilk export dosyasıyla eşleştirir.
// Export'ta olmayan UPC'ler elenir, kalanlara ColQty eklenir.
// Kolonlar çözülemezse dosya olduğu gibi geçer (hata değil).
func enrich(stock, exports []SupplierTable, cols config.ColumnMap, report progress.Func, stats *Stats) []SupplierTable {
	out := make([]SupplierTable, 0, len(stock))
	for _, st := range stock {
		exp, ok := findExport(exports, st.Code())
		if !ok {
			out = append(out, st)
			continue
		}

		stockUPC, okStock := st.Table.Resolve(cols.Aliases(fieldUPC))
		expUPC, okExpUPC := exp.Table.Resolve(cols.Aliases(fieldUPC))
		expQty, okExpQty := exp.Table.Resolve(cols.Aliases(fieldQuantity))
		if !okStock || !okExpUPC || !okExpQty {
			var missing []string
			if !okStock {
				missing = append(missing, st.Name+" upc")
			}
			if !okExpUPC {
				missing = append(missing, exp.Name+" upc")
			}
			if !okExpQty {
				missing = append(missing, exp.Name+" quantity")
			}
			logging.L().Warn().
				Str("stock_file", st.Name).
				Str("export_file", exp.Name).
				Strs("missing", missing).
				Msg("export eşleştirmesi atlandı, kolon bulunamadı")
			report.Report(skipMessage(st.Name, "kolon bulunamadı"), 45)
			stats.EnrichmentSkipped = append(stats.EnrichmentSkipped, st.Name)
			out = append(out, st)
			continue
		}

		// Aynı UPC birden fazla kez geçiyorsa son satır geçerli
		qty := make(map[string]any, exp.Table.Len())
		for _, r := range exp.Table.Rows {
			if key := table.Key(r[expUPC]); key != "" {
				qty[key] = r[expQty]
			}
		}

		t := table.New(st.Table.Columns...)
		t.EnsureColumn(ColQty)
		for _, r := range st.Table.Rows {
			key := table.Key(r[stockUPC])
			q, found := qty[key]
			if key == "" || !found {
				continue
			}
			row := copyRow(r)
			row[stockUPC] = key
			if table.IsNull(q) {
				q = float64(0)
			}
			row[ColQty] = q
			t.Append(row)
		}
		out = append(out, SupplierTable{Name: st.Name, Table: t})
	}
	return out
}

func findExport(exports []SupplierTable, code string) (SupplierTable, bool) {
	for _, e := range exports {
		if e.Code() == code {
			return e, true
		}
	}
	return SupplierTable{}, false
}

func copyRow(r table.Row) table.Row {
	out := make(table.Row, len(r)+5)
	for k, v := range r {
		out[k] = v
	}
	return out
}
