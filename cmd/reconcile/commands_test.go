package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"restock-backend/internal/xlsx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, dir, name string, rows ...[]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := r
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.Execute()
}

func TestRestockCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeWorkbook(t, dir, "A-1.xlsx", []interface{}{"UPC", "Price"}, []interface{}{"111", 5})
	b := writeWorkbook(t, dir, "B-1.xlsx", []interface{}{"UPC", "Price"}, []interface{}{"111", 4.5})
	master := writeWorkbook(t, dir, "restock.xlsx", []interface{}{"UPC", "PK"}, []interface{}{"111", "PK10"})
	out := filepath.Join(dir, "out.xlsx")

	require.NoError(t, run(t, "restock", "--stock", a, "--stock", b, "--master", master, "-o", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	tbl, err := xlsx.Decode(data)
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Len())
	assert.Equal(t, "B", tbl.Rows[0]["Supplier"])
	assert.Equal(t, 45.78, tbl.Rows[0]["Maliyet"])
}

func TestShipmentCommand(t *testing.T) {
	dir := t.TempDir()
	invoice := writeWorkbook(t, dir, "invoice.xlsx",
		[]interface{}{"Upc", "NetEach2", "ShipQuantity", "PackSize", "Brand", "Description"},
		[]interface{}{"222", 2.5, 100, 6, "Marka", "Ürün"},
	)
	restock := writeWorkbook(t, dir, "restock.xlsx",
		[]interface{}{"Upc", "PCS", "ASIN", "PK", "Price", "suplier"},
		[]interface{}{"222", 100, "B0", "PK6", 2.5, "41"},
	)
	out := filepath.Join(dir, "ship.xlsx")

	require.NoError(t, run(t, "shipment", "--invoice", invoice, "--restock", restock, "--dc", "DC1", "-o", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	tbl, err := xlsx.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "DC1_000000000222_PK6_15.00", tbl.Rows[0]["SKU2"])
	assert.Equal(t, 100.0, tbl.Rows[0]["Yeni Pcs"])
	assert.Equal(t, 16.0, tbl.Rows[0]["PK EACH"])
	assert.Equal(t, 4.0, tbl.Rows[0]["Kalan"])
}

func TestShipmentCommandRequiresDC(t *testing.T) {
	assert.Error(t, run(t, "shipment", "--invoice", "x.xlsx"))
}

func TestRestockCommandBadSettings(t *testing.T) {
	dir := t.TempDir()
	settings := filepath.Join(dir, "s.json")
	require.NoError(t, os.WriteFile(settings, []byte("{"), 0o600))
	master := writeWorkbook(t, dir, "restock.xlsx", []interface{}{"UPC"}, []interface{}{"1"})

	err := run(t, "restock", "--stock", master, "--master", master, "--settings", settings)
	assert.Error(t, err)
}
