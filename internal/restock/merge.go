package restock

import (
	"restock-backend/internal/config"
	"restock-backend/internal/table"

	"github.com/shopspring/decimal"
)

// record: UPC başına kazanan tedarikçi kaydı
type record struct {
	price    any
	qty      table.Opt[any]
	caseSize table.Opt[any]
	supplier string
}

// buildLookup: UPC -> kayıt. Dosyalar öncelik sırasıyla okunur, ilk yazan kazanır.
// UPC veya fiyat kolonu çözülemeyen dosyalar atlanır.
func buildLookup(files []SupplierTable, cols config.ColumnMap) map[string]record {
	lookup := make(map[string]record)
	for _, f := range files {
		upcCol, okUPC := f.Table.Resolve(cols.Aliases(fieldUPC))
		priceCol, okPrice := f.Table.Resolve(cols.Aliases(fieldPrice))
		if !okUPC || !okPrice {
			continue
		}
		caseCol, okCase := f.Table.Resolve(cols.Aliases(fieldCase))

		// Export ile zenginleşmiş dosyada ColQty var; yoksa dosyanın kendi miktar kolonu
		qtyCol, okQty := ColQty, f.Table.HasColumn(ColQty)
		if !okQty {
			qtyCol, okQty = f.Table.Resolve(cols.Aliases(fieldQuantity))
		}

		code := f.Code()
		for _, r := range f.Table.Rows {
			key := table.Key(r[upcCol])
			if key == "" {
				continue
			}
			if _, exists := lookup[key]; exists {
				continue
			}
			rec := record{
				price:    r[priceCol],
				qty:      table.NotFound[any](),
				caseSize: table.NotFound[any](),
				supplier: code,
			}
			if okQty {
				rec.qty = table.Found(r[qtyCol])
			}
			if okCase {
				rec.caseSize = table.Found(r[caseCol])
			}
			lookup[key] = rec
		}
	}
	return lookup
}

// merge: ana listedeki her satırı lookup'la eşleştirir. Eşleşmeyen satırlar çıktıya girmez.
func merge(master *table.Table, upcCol string, lookup map[string]record, s config.RestockSettings, stats *Stats) *table.Table {
	pkCol, okPK := master.Resolve(s.ColumnMappings.Aliases(fieldPK))

	out := table.New(master.Columns...)
	for _, c := range []string{ColPrice, ColQty, ColCase, ColSupplier, ColMaliyet} {
		out.EnsureColumn(c)
	}

	for _, r := range master.Rows {
		rec, ok := lookup[table.Key(r[upcCol])]
		if !ok {
			stats.DroppedRows++
			continue
		}

		row := copyRow(r)
		row[ColPrice] = rec.price
		row[ColQty] = rec.qty
		row[ColCase] = rec.caseSize
		row[ColSupplier] = rec.supplier
		if okPK {
			row[ColMaliyet] = maliyet(r[pkCol], rec, s)
		} else {
			row[ColMaliyet] = rec.price
		}
		out.Append(row)
		stats.MatchedRows++
	}
	return out
}

// maliyet: pk * fiyat + tedarikçi maliyeti. PK veya fiyat sayı değilse ham fiyat döner.
// Boş PK "0" kabul edilir; sonuç sadece tedarikçi maliyeti olur.
func maliyet(pkRaw any, rec record, s config.RestockSettings) any {
	if table.IsNull(pkRaw) {
		pkRaw = "0"
	}
	pk, ok := table.ParsePK(pkRaw)
	if !ok {
		return rec.price
	}
	price, ok := table.ParseDecimal(rec.price)
	if !ok {
		return rec.price
	}
	offset := decimal.NewFromFloat(s.CostFor(rec.supplier))
	return decimal.NewFromInt(int64(pk)).Mul(price).Add(offset)
}
