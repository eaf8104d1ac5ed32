package restock

import (
	"testing"

	"restock-backend/internal/apperr"
	"restock-backend/internal/config"
	"restock-backend/internal/table"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tbl(cols []string, rows ...[]any) *table.Table {
	t := table.New(cols...)
	for _, r := range rows {
		row := make(table.Row, len(cols))
		for i, c := range cols {
			row[c] = r[i]
		}
		t.Append(row)
	}
	return t
}

func supplier(name string, cols []string, rows ...[]any) SupplierTable {
	return SupplierTable{Name: name, Table: tbl(cols, rows...)}
}

func settings() config.RestockSettings {
	return config.DefaultSettings().Restock
}

func column(t *table.Table, col string) []any {
	out := make([]any, 0, t.Len())
	for _, r := range t.Rows {
		out = append(out, table.Value(r[col]))
	}
	return out
}

func TestRunPriceWarScenario(t *testing.T) {
	stock := []SupplierTable{
		supplier("A-1.xlsx", []string{"UPC", "Price"}, []any{"111", "5.00"}),
		supplier("B-1.xlsx", []string{"UPC", "Price"}, []any{"111", "4.50"}),
	}
	master := tbl([]string{"UPC", "PK", "Title"}, []any{"111", "PK10", "Kahve"})

	out, stats, err := Run(stock, nil, master, settings(), nil)
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())

	row := out.Rows[0]
	assert.Equal(t, "4.50", table.Value(row[ColPrice]))
	assert.Equal(t, "B", table.Value(row[ColSupplier]))
	assert.Equal(t, "Kahve", row["Title"])
	require.IsType(t, decimal.Decimal{}, row[ColMaliyet])
	assert.Equal(t, "45.78", row[ColMaliyet].(decimal.Decimal).String())

	// Stok dosyasında case / miktar kolonu yok
	assert.Equal(t, table.Sentinel, row[ColQty].(table.Celler).Cell())
	assert.Equal(t, table.Sentinel, row[ColCase].(table.Celler).Cell())

	assert.Equal(t, []string{"UPC", "PK", "Title", ColPrice, ColQty, ColCase, ColSupplier, ColMaliyet}, out.Columns)
	assert.Equal(t, 1, stats.PriceWarRemovals)
	assert.Equal(t, 1, stats.MatchedRows)
}

func TestPriceWarRules(t *testing.T) {
	cases := []struct {
		name         string
		p1, p2       string
		keepA, keepB bool
	}{
		{"önceki ucuz", "4", "5", true, false},
		{"sonraki ucuz", "5", "4", false, true},
		{"eşit fiyat", "4.50", "4.5", true, false},
		{"sayısal değil", "yok", "4", true, true},
	}
	cols := []string{"UPC", "Price"}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			files := []SupplierTable{
				supplier("A-1.xlsx", cols, []any{"111", tc.p1}, []any{"999", "1"}),
				supplier("B-1.xlsx", cols, []any{"111", tc.p2}),
			}
			out, _ := priceWar(files, settings().ColumnMappings)

			assert.Equal(t, tc.keepA, contains(out[0].Table, "111"))
			assert.Equal(t, tc.keepB, contains(out[1].Table, "111"))
			assert.True(t, contains(out[0].Table, "999"))
		})
	}
}

func TestPriceWarAtMostOneSurvivor(t *testing.T) {
	cols := []string{"UPC", "Price"}
	files := []SupplierTable{
		supplier("A-1.xlsx", cols, []any{"1", "3"}, []any{"2", "2"}, []any{"3", "7"}),
		supplier("B-1.xlsx", cols, []any{"1", "3"}, []any{"2", "1"}, []any{"3", "9"}),
		supplier("C-1.xlsx", cols, []any{"1", "2"}, []any{"2", "1"}, []any{"3", "8"}),
	}
	out, removed := priceWar(files, settings().ColumnMappings)

	for _, upc := range []string{"1", "2", "3"} {
		n := 0
		for _, f := range out {
			if contains(f.Table, upc) {
				n++
			}
		}
		assert.LessOrEqual(t, n, 1, "upc %s", upc)
	}
	assert.True(t, contains(out[2].Table, "1"))
	assert.True(t, contains(out[1].Table, "2"))
	assert.True(t, contains(out[0].Table, "3"))
	assert.Equal(t, 6, removed)
}

func contains(t *table.Table, upc string) bool {
	col, _ := t.Resolve([]string{"UPC"})
	for _, r := range t.Rows {
		if table.Key(r[col]) == upc {
			return true
		}
	}
	return false
}

func TestLookupFirstWriterWins(t *testing.T) {
	// Sayısal olmayan fiyat fiyat savaşını etkilemez, iki dosya da UPC'yi taşır
	stock := []SupplierTable{
		supplier("41-a.xlsx", []string{"UPC", "Price"}, []any{"111", "n/a"}),
		supplier("45-b.xlsx", []string{"UPC", "Price"}, []any{"111", "3"}),
	}
	master := tbl([]string{"UPC", "PK"}, []any{"111", "PK2"})

	out, _, err := Run(stock, nil, master, settings(), nil)
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "41", table.Value(out.Rows[0][ColSupplier]))
	assert.Equal(t, "n/a", table.Value(out.Rows[0][ColMaliyet]))
}

func TestRunEnrichment(t *testing.T) {
	stock := []SupplierTable{
		supplier("41-stok.xlsx", []string{"UPC", "NET_AMOUNT", "CASEPACK"},
			[]any{" 111", "2", "12"},
			[]any{"222", "3", "6"},
			[]any{"333", "4", "6"},
		),
	}
	exports := []SupplierTable{
		supplier("99-export.xlsx", []string{"Upc", "Qty on Hand"}, []any{"333", "50"}),
		supplier("41-export.xlsx", []string{"Upc", "Qty on Hand"}, []any{"111", "7"}, []any{"222", nil}),
	}
	master := tbl([]string{"Upc", "pk"},
		[]any{"111", "PK 6"},
		[]any{"222", nil},
		[]any{"333", "PK1"},
		[]any{"444", "PK1"},
	)

	var reports []int
	out, stats, err := Run(stock, exports, master, settings(), func(_ string, pct int) {
		reports = append(reports, pct)
	})
	require.NoError(t, err)

	assert.Equal(t, []any{"111", "222"}, column(out, "Upc"))
	assert.Equal(t, []any{"7", float64(0)}, column(out, ColQty))
	assert.Equal(t, []any{"12", "6"}, column(out, ColCase))

	// 6*2 + 0.78 (41 cost); boş PK "0" sayılır
	m := column(out, ColMaliyet)
	assert.Equal(t, "12.78", m[0].(decimal.Decimal).String())
	assert.Equal(t, "0.78", m[1].(decimal.Decimal).String())

	assert.Equal(t, 2, stats.DroppedRows)
	assert.Empty(t, stats.EnrichmentSkipped)
	assert.Equal(t, []int{45, 70, 85}, reports)
}

func TestRunEnrichmentSkippedWhenColumnMissing(t *testing.T) {
	stock := []SupplierTable{
		supplier("41-stok.xlsx", []string{"UPC", "Price", "Quantity"},
			[]any{"111", "2", "9"},
			[]any{"222", "3", "4"},
		),
	}
	exports := []SupplierTable{
		supplier("41-export.xlsx", []string{"Upc", "Stock"}, []any{"111", "7"}),
	}
	master := tbl([]string{"UPC", "PK"}, []any{"111", "PK1"}, []any{"222", "PK1"})

	var messages []string
	out, stats, err := Run(stock, exports, master, settings(), func(msg string, _ int) {
		messages = append(messages, msg)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"41-stok.xlsx"}, stats.EnrichmentSkipped)
	assert.Equal(t, []any{"111", "222"}, column(out, "UPC"))
	assert.Equal(t, []any{"9", "4"}, column(out, ColQty))
	assert.Contains(t, messages, skipMessage("41-stok.xlsx", "kolon bulunamadı"))
}

func TestRunNoMatchingExportPassesThrough(t *testing.T) {
	stock := []SupplierTable{
		supplier("41-stok.xlsx", []string{"UPC", "Price"}, []any{"111", "2"}),
	}
	exports := []SupplierTable{
		supplier("45-export.xlsx", []string{"UPC", "Quantity"}, []any{"999", "1"}),
	}
	master := tbl([]string{"UPC", "PK"}, []any{"111", "PK1"})

	out, stats, err := Run(stock, exports, master, settings(), nil)
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Empty(t, stats.EnrichmentSkipped)
	assert.Equal(t, table.Sentinel, out.Rows[0][ColQty].(table.Celler).Cell())
}

func TestRunMasterWithoutUPCIsFatal(t *testing.T) {
	master := tbl([]string{"Barcode", "PK"}, []any{"111", "PK1"})
	_, _, err := Run(nil, nil, master, settings(), nil)

	require.ErrorIs(t, err, apperr.ErrMissingColumn)
	var mc *apperr.MissingColumnError
	require.ErrorAs(t, err, &mc)
	assert.Equal(t, "upc", mc.Field)
}

func TestMaliyet(t *testing.T) {
	s := settings()
	rec := record{price: "2.5", supplier: "27"}

	cases := []struct {
		name string
		pk   any
		want string
	}{
		{"pk önekli", "PK4", "11.1"},
		{"küçük harf", "pk 4", "11.1"},
		{"boş pk", nil, "1.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := maliyet(tc.pk, rec, s)
			require.IsType(t, decimal.Decimal{}, got)
			assert.Equal(t, tc.want, got.(decimal.Decimal).String())
		})
	}

	assert.Equal(t, "2.5", maliyet("dört", rec, s))
	assert.Equal(t, "yok", maliyet("PK4", record{price: "yok", supplier: "27"}, s))

	s.SupplierCosts = map[string]float64{}
	s.DefaultCost = 0.5
	assert.Equal(t, "10.5", maliyet("PK4", rec, s).(decimal.Decimal).String())
}

func TestMergeWithoutPKColumnUsesPrice(t *testing.T) {
	stock := []SupplierTable{supplier("41-a.xlsx", []string{"UPC", "Price"}, []any{"111", "3.25"})}
	master := tbl([]string{"UPC"}, []any{"111"})

	out, _, err := Run(stock, nil, master, settings(), nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"3.25"}, column(out, ColMaliyet))
}
