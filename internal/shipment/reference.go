package shipment

import (
	"restock-backend/internal/config"
	"restock-backend/internal/table"
)

// reference: restock veya sipariş formu tablosu, UPC -> ilk satır indeksiyle
type reference struct {
	t     *table.Table
	cols  map[string]string
	index map[string]table.Row
}

var referenceFields = []string{"upc", "pcs", "asin", "pk", "price", "suplier"}

func newReference(t *table.Table, aliases config.ColumnMap) *reference {
	ref := &reference{t: t, cols: make(map[string]string), index: make(map[string]table.Row)}
	if t.Empty() {
		return ref
	}
	for _, f := range referenceFields {
		if col, ok := t.Resolve(aliases.Aliases(f)); ok {
			ref.cols[f] = col
		}
	}
	upcCol, ok := ref.cols["upc"]
	if !ok {
		return ref
	}
	for _, r := range t.Rows {
		key := table.Key(r[upcCol])
		if key == "" {
			continue
		}
		// Tablo sırasında ilk eşleşme
		if _, exists := ref.index[key]; !exists {
			ref.index[key] = r
		}
	}
	return ref
}

func (ref *reference) find(upc string) (table.Row, bool) {
	if upc == "" {
		return nil, false
	}
	r, ok := ref.index[upc]
	return r, ok
}

// get: kolon çözüldüyse hücre değeri (boş olabilir), çözülmediyse NotFound
func (ref *reference) get(r table.Row, field string) table.Opt[any] {
	col, ok := ref.cols[field]
	if !ok {
		return table.NotFound[any]()
	}
	return table.Found(r[col])
}

// pcs: kolon yoksa 0
func (ref *reference) pcs(r table.Row) any {
	col, ok := ref.cols["pcs"]
	if !ok {
		return float64(0)
	}
	return r[col]
}

// totals: UPC başına pcs toplamı (oransal dağıtımın paydası). Sayısal olmayan pcs atlanır.
func (ref *reference) totals() map[string]float64 {
	upcCol, okUPC := ref.cols["upc"]
	pcsCol, okPcs := ref.cols["pcs"]
	if !okUPC || !okPcs {
		return nil
	}
	out := make(map[string]float64)
	for _, r := range ref.t.Rows {
		key := table.Key(r[upcCol])
		if key == "" {
			continue
		}
		v, _ := table.ParseFloat(r[pcsCol])
		out[key] += v
	}
	return out
}

// slot: sipariş formunda sıralı ASIN / SKU kolon çifti
type slot struct {
	asin string
	sku  string
}

// slots: her ASIN alias'ı tek başına çözülür; eşleşen SKU alias'ı aynı indekstedir
func (ref *reference) slots(aliases config.ColumnMap) []slot {
	if ref.t.Empty() {
		return nil
	}
	asins := aliases.Aliases("asin")
	skus := aliases.Aliases("sku")
	out := make([]slot, 0, len(asins))
	for i, a := range asins {
		col, ok := ref.t.Resolve([]string{a})
		if !ok {
			continue
		}
		s := slot{asin: col}
		if i < len(skus) {
			if skuCol, ok := ref.t.Resolve([]string{skus[i]}); ok {
				s.sku = skuCol
			}
		}
		out = append(out, s)
	}
	return out
}

// pickSlot: değeri dolu ilk ASIN slotu ve eşi olan SKU
func pickSlot(r table.Row, slots []slot) (table.Opt[any], table.Opt[any]) {
	for _, s := range slots {
		v := r[s.asin]
		if table.IsNull(v) {
			continue
		}
		sku := table.NotFound[any]()
		if s.sku != "" {
			sku = table.Found(r[s.sku])
		}
		return table.Found(v), sku
	}
	return table.NotFound[any](), table.NotFound[any]()
}
