// Package table, yüklenen Excel dosyalarının bellekteki satır/kolon temsilini ve
// kolon çözümleyiciyi içerir. Kolon başlıkları yüklenirken normalize edilmez;
// kaynak dosyadaki yazım (boşluk, büyük/küçük harf) olduğu gibi korunur.
package table

import "strings"

// Row: tek bir satır, kolon başlığı -> hücre değeri (string, float64, int, Opt veya nil)
type Row map[string]any

// Table: sıralı kolon listesi ve satırlar
type Table struct {
	Columns []string
	Rows    []Row
}

func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func (t *Table) Empty() bool {
	return t.Len() == 0
}

func (t *Table) Append(r Row) {
	t.Rows = append(t.Rows, r)
}

func (t *Table) HasColumn(col string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// EnsureColumn: kolon yoksa sona ekler. Mevcut kolonun yeri değişmez (üzerine yazma).
func (t *Table) EnsureColumn(col string) {
	if !t.HasColumn(col) {
		t.Columns = append(t.Columns, col)
	}
}

// Resolve: alias listesine göre tablodaki gerçek kolon adını bulur
func (t *Table) Resolve(aliases []string) (string, bool) {
	if t == nil {
		return "", false
	}
	return Resolve(t.Columns, aliases)
}

// Filter: keep true dönen satırlarla yeni bir tablo döndürür (kolonlar kopyalanır)
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := New(t.Columns...)
	for _, r := range t.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// Concat: tabloları alt alta birleştirir; kolonlar ilk görülme sırasına göre birleşir
func Concat(tables ...*Table) *Table {
	out := New()
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range t.Columns {
			out.EnsureColumn(c)
		}
		out.Rows = append(out.Rows, t.Rows...)
	}
	return out
}

// SupplierCode: dosya adından tedarikçi kodunu çıkarır ("41-stok.xlsx" -> "41")
func SupplierCode(filename string) string {
	code, _, _ := strings.Cut(filename, "-")
	return code
}
