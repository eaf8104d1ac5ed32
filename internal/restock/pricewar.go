package restock

import (
	"restock-backend/internal/config"
	"restock-backend/internal/table"

	"github.com/shopspring/decimal"
)

// priceIndex: dosyanın UPC -> fiyat haritası. Sayısal olmayan fiyat NotFound olarak tutulur.
type priceIndex map[string]table.Opt[decimal.Decimal]

func indexPrices(t *table.Table, cols config.ColumnMap) (priceIndex, bool) {
	upcCol, okUPC := t.Resolve(cols.Aliases(fieldUPC))
	priceCol, okPrice := t.Resolve(cols.Aliases(fieldPrice))
	if !okUPC || !okPrice {
		return nil, false
	}
	idx := make(priceIndex, t.Len())
	for _, r := range t.Rows {
		key := table.Key(r[upcCol])
		if key == "" {
			continue
		}
		if d, ok := table.ParseDecimal(r[priceCol]); ok {
			idx[key] = table.Found(d)
		} else {
			idx[key] = table.NotFound[decimal.Decimal]()
		}
	}
	return idx, true
}

// priceWar: dosyaları öncelik sırasıyla ikili karşılaştırır. Ortak UPC'de pahalı olan
// dosyadan UPC silinir; fiyatlar eşitse sonraki (düşük öncelikli) dosyadan silinir.
// Dönüş: kalan tablolar ve silinen satır sayısı.
func priceWar(files []SupplierTable, cols config.ColumnMap) ([]SupplierTable, int) {
	indexes := make([]priceIndex, len(files))
	usable := make([]bool, len(files))
	for i, f := range files {
		indexes[i], usable[i] = indexPrices(f.Table, cols)
	}

	drop := make([]map[string]struct{}, len(files))
	for i := range drop {
		drop[i] = make(map[string]struct{})
	}

	for i := 0; i < len(files); i++ {
		if !usable[i] {
			continue
		}
		for j := i + 1; j < len(files); j++ {
			if !usable[j] {
				continue
			}
			for upc, cur := range indexes[i] {
				next, common := indexes[j][upc]
				if !common {
					continue
				}
				p1, ok1 := cur.Get()
				p2, ok2 := next.Get()
				if !ok1 || !ok2 {
					continue
				}
				if p1.GreaterThan(p2) {
					drop[i][upc] = struct{}{}
				} else {
					drop[j][upc] = struct{}{}
				}
			}
		}
	}

	removed := 0
	out := make([]SupplierTable, len(files))
	for i, f := range files {
		if len(drop[i]) == 0 {
			out[i] = f
			continue
		}
		upcCol, _ := f.Table.Resolve(cols.Aliases(fieldUPC))
		kept := f.Table.Filter(func(r table.Row) bool {
			_, gone := drop[i][table.Key(r[upcCol])]
			return !gone
		})
		removed += f.Table.Len() - kept.Len()
		out[i] = SupplierTable{Name: f.Name, Table: kept}
	}
	return out, removed
}
