package shipment

import (
	"testing"

	"restock-backend/internal/apperr"
	"restock-backend/internal/config"
	"restock-backend/internal/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	invoiceCols = []string{"Upc", "NetEach2", "ShipQuantity", "PackSize", "Brand", "Description"}
	orderCols   = []string{"UPC", "PCS", "ASIN 1", "ASIN 2", "ASIN1_SKU", "ASIN2_SKU", "PK", "price", "suplier"}
	restockCols = []string{"Upc", "PCS", "ASIN", "PK", "Price", "suplier"}
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

func invoiceRow(upc, price, ship string) []any {
	return []any{upc, price, ship, "6", "Marka", "Ürün"}
}

func settings() config.ShipmentSettings {
	return config.DefaultSettings().Shipment
}

// cell: Opt değerleri çözülmüş hücre
func cell(r table.Row, col string) any {
	return table.Value(r[col])
}

func TestRunOrderFormAllocationScenario(t *testing.T) {
	invoice := tbl(invoiceCols, invoiceRow("222", "2.5", "100"))
	orders := tbl(orderCols,
		[]any{"222", "30", "B0A", nil, "SKU-A", nil, "PK6", "2.40", "41"},
		[]any{"222", "70", "B0B", nil, "SKU-B", nil, "PK6", "2.40", "41"},
	)

	out, stats, err := Run(invoice, orders, nil, "DC1", settings())
	require.NoError(t, err)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, Columns, out.Columns)

	row := out.Rows[0]
	assert.Equal(t, OriginOrderForm, cell(row, ColOrigin))
	assert.Equal(t, 30.0, cell(row, ColYeniPcs))
	assert.Equal(t, 5.0, cell(row, ColPKEach))
	assert.Equal(t, 0.0, cell(row, ColKalan))
	assert.Equal(t, "B0A", cell(row, ColAsin))
	assert.Equal(t, "SKU-A", cell(row, ColSKU))
	assert.Equal(t, "41", cell(row, ColSupplier))
	assert.Equal(t, "2.40", cell(row, ColPriceCheck))
	assert.Equal(t, "30", cell(row, ColPcs))
	assert.Equal(t, "DC1_000000000222_PK6_15.00", cell(row, ColSKU2))
	assert.Equal(t, "Marka", cell(row, ColBrand))
	assert.Equal(t, 1, stats.OrderMatches)
}

func TestRunRestockTakesPrecedence(t *testing.T) {
	invoice := tbl(invoiceCols, invoiceRow("333", "1.25", "40"))
	restocks := tbl(restockCols, []any{"333", "12", "B0R", "PK 12", "1.30", "45"})
	orders := tbl(orderCols, []any{"333", "10", "B0O", nil, "SKU-O", nil, "PK1", "1", "41"})

	out, stats, err := Run(invoice, orders, restocks, "DC2", settings())
	require.NoError(t, err)

	row := out.Rows[0]
	assert.Equal(t, OriginRestock, cell(row, ColOrigin))
	assert.Equal(t, "B0R", cell(row, ColAsin))
	assert.Equal(t, "45", cell(row, ColSupplier))
	assert.Equal(t, table.Sentinel, cell(row, ColSKU))
	// Restock eşleşmesi oranlanmaz
	assert.Equal(t, 40.0, cell(row, ColYeniPcs))
	assert.Equal(t, 3.0, cell(row, ColPKEach))
	assert.Equal(t, 4.0, cell(row, ColKalan))
	assert.Equal(t, "DC2_000000000333_PK 12_15.00", cell(row, ColSKU2))
	assert.Equal(t, 1, stats.RestockMatches)
}

func TestRunPicksFirstFilledAsinSlot(t *testing.T) {
	invoice := tbl(invoiceCols, invoiceRow("444", "1", "10"))
	orders := tbl(orderCols, []any{"444", "5", nil, "B0SECOND", "SKU-1", "SKU-2", "PK1", "1", "41"})

	out, _, err := Run(invoice, orders, nil, "DC", settings())
	require.NoError(t, err)
	assert.Equal(t, "B0SECOND", cell(out.Rows[0], ColAsin))
	assert.Equal(t, "SKU-2", cell(out.Rows[0], ColSKU))
}

func TestRunSlotWithoutSkuColumn(t *testing.T) {
	s := settings()
	s.OrderColumns["asin"] = []string{"ASIN 1", "ASIN 2", "ASIN 3"}
	cols := []string{"UPC", "PCS", "ASIN 3"}
	invoice := tbl(invoiceCols, invoiceRow("444", "1", "10"))
	orders := tbl(cols, []any{"444", "5", "B0THIRD"})

	out, _, err := Run(invoice, orders, nil, "DC", s)
	require.NoError(t, err)
	assert.Equal(t, "B0THIRD", cell(out.Rows[0], ColAsin))
	assert.Equal(t, table.Sentinel, cell(out.Rows[0], ColSKU))
	assert.Equal(t, table.Sentinel, cell(out.Rows[0], ColPK))
}

func TestRunUnmatchedRowKeepsSentinels(t *testing.T) {
	invoice := tbl(invoiceCols, invoiceRow("999", "1", "10"))
	orders := tbl(orderCols, []any{"111", "5", "B0", nil, "S", nil, "PK1", "1", "41"})

	out, stats, err := Run(invoice, orders, nil, "DC", settings())
	require.NoError(t, err)

	row := out.Rows[0]
	for _, col := range []string{ColSupplier, ColAsin, ColPK, ColSKU, ColPriceCheck, ColOrigin, ColSKU2, ColYeniPcs, ColPKEach, ColKalan} {
		assert.Equal(t, table.Sentinel, cell(row, col), col)
	}
	assert.Equal(t, 0.0, cell(row, ColPcs))
	assert.Equal(t, "999", cell(row, ColUPC))
	assert.Equal(t, 1, stats.Unmatched)
}

func TestRunParseFailuresLeaveSentinels(t *testing.T) {
	invoice := tbl(invoiceCols,
		invoiceRow("1", "2", "10"),
		invoiceRow("2", "2", "10"),
		invoiceRow("3", "abc", "10"),
	)
	restocks := tbl(restockCols,
		[]any{"1", "x", "A", "PK2", "2", "41"},
		[]any{"2", "4", "A", "koli", "2", "41"},
		[]any{"3", "4", "A", "PK0", "2", "41"},
	)

	out, _, err := Run(invoice, nil, restocks, "DC", settings())
	require.NoError(t, err)

	// Restock eşleşmesinde pcs kullanılmaz: sevk miktarı aynen dağıtılır
	assert.Equal(t, 10.0, cell(out.Rows[0], ColYeniPcs))
	assert.Equal(t, 5.0, cell(out.Rows[0], ColPKEach))
	assert.Equal(t, 0.0, cell(out.Rows[0], ColKalan))
	assert.Equal(t, "DC_000000000001_PK2_4.00", cell(out.Rows[0], ColSKU2))

	// pk sayı değil: SKU2 ve koli dökümü yok, dağıtım var
	assert.Equal(t, table.Sentinel, cell(out.Rows[1], ColSKU2))
	assert.Equal(t, 10.0, cell(out.Rows[1], ColYeniPcs))
	assert.Equal(t, table.Sentinel, cell(out.Rows[1], ColKalan))

	// fiyat sayı değil: SKU2 yok; PK0 koli dökümü yapmaz
	assert.Equal(t, table.Sentinel, cell(out.Rows[2], ColSKU2))
	assert.Equal(t, 10.0, cell(out.Rows[2], ColYeniPcs))
	assert.Equal(t, table.Sentinel, cell(out.Rows[2], ColPKEach))
}

func TestRunRestockBlankPcsAllocatesShipQuantity(t *testing.T) {
	invoice := tbl(invoiceCols, invoiceRow("333", "1.25", "40"))
	restocks := tbl(restockCols, []any{"333", nil, "B0R", "PK 12", "1.30", "45"})

	out, _, err := Run(invoice, nil, restocks, "DC2", settings())
	require.NoError(t, err)

	row := out.Rows[0]
	assert.Equal(t, OriginRestock, cell(row, ColOrigin))
	assert.Equal(t, 40.0, cell(row, ColYeniPcs))
	assert.Equal(t, 3.0, cell(row, ColPKEach))
	assert.Equal(t, 4.0, cell(row, ColKalan))
}

func TestRunOrderFormUnparsablePcsLeavesSentinels(t *testing.T) {
	invoice := tbl(invoiceCols, invoiceRow("5", "1", "12"))
	orders := tbl(orderCols,
		[]any{"5", "bilinmiyor", "B0", nil, "S", nil, "PK1", "1", "41"},
		[]any{"5", "4", "B0", nil, "S", nil, "PK1", "1", "41"},
	)

	out, _, err := Run(invoice, orders, nil, "DC", settings())
	require.NoError(t, err)
	assert.Equal(t, table.Sentinel, cell(out.Rows[0], ColYeniPcs))
	assert.Equal(t, table.Sentinel, cell(out.Rows[0], ColPKEach))
}

func TestRunNonPositiveDenominatorUsesShipQuantity(t *testing.T) {
	invoice := tbl(invoiceCols, invoiceRow("5", "1", "12"))
	orders := tbl(orderCols,
		[]any{"5", "0", "B0", nil, "S", nil, "PK1", "1", "41"},
		[]any{"5", "bilinmiyor", "B0", nil, "S", nil, "PK1", "1", "41"},
	)

	out, _, err := Run(invoice, orders, nil, "DC", settings())
	require.NoError(t, err)
	assert.Equal(t, 12.0, cell(out.Rows[0], ColYeniPcs))
}

func TestRunMissingInvoiceColumn(t *testing.T) {
	invoice := tbl([]string{"Upc", "NetEach2", "ShipQuantity", "PackSize", "Brand"}, []any{"1", "1", "1", "1", "x"})

	_, _, err := Run(invoice, nil, nil, "DC", settings())
	require.ErrorIs(t, err, apperr.ErrMissingColumn)
	var mc *apperr.MissingColumnError
	require.ErrorAs(t, err, &mc)
	assert.Equal(t, "description", mc.Field)
}

func TestAllocationConservation(t *testing.T) {
	pcs := []string{"1", "1", "1"}
	total := 3.0
	ship := "10"

	sum := 0.0
	for _, p := range pcs {
		alloc, ok := allocate(OriginOrderForm, p, ship, total, true)
		require.True(t, ok)
		assert.Equal(t, 3.0, alloc)
		sum += alloc
	}
	// Flooring kaybı: 10 yerine 9
	assert.LessOrEqual(t, sum, 10.0)
	assert.Equal(t, 9.0, sum)
}

func TestPackBreakdown(t *testing.T) {
	each, rem, ok := packBreakdown(25, "PK6")
	require.True(t, ok)
	assert.Equal(t, 4.0, each)
	assert.Equal(t, 1.0, rem)

	_, _, ok = packBreakdown(25, "PK0")
	assert.False(t, ok)
	_, _, ok = packBreakdown(25, table.Sentinel)
	assert.False(t, ok)
}

func TestBuildSKU2(t *testing.T) {
	sku, ok := buildSKU2("DC9", "12345", "pk3", "1.005")
	require.True(t, ok)
	assert.Equal(t, "DC9_000000012345_pk3_3.02", sku)

	_, ok = buildSKU2("DC9", "12345", nil, "1")
	assert.False(t, ok)
}
