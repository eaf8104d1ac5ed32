// Package shipment, fatura satırlarını restock ve sipariş formu tablolarıyla
// eşleştirir; SKU2 anahtarını üretir ve sevk edilen miktarı aynı UPC'yi talep eden
// sipariş satırları arasında oransal olarak dağıtır.
package shipment

import (
	"fmt"
	"math"
	"strings"

	"restock-backend/internal/apperr"
	"restock-backend/internal/config"
	"restock-backend/internal/table"

	"github.com/shopspring/decimal"
)

// Çıktı kolonları
const (
	ColUPC          = "UPC"
	ColPrice        = "Price"
	ColShipQuantity = "ShipQuantity"
	ColPackSize     = "PackSize"
	ColBrand        = "Brand"
	ColDescription  = "Description"
	ColSupplier     = "Suplier"
	ColAsin         = "Asin"
	ColPcs          = "Pcs"
	ColPK           = "PK"
	ColSKU          = "SKU"
	ColPriceCheck   = "Price Check"
	ColOrigin       = "DOSYA"
	ColSKU2         = "SKU2"
	ColYeniPcs      = "Yeni Pcs"
	ColPKEach       = "PK EACH"
	ColKalan        = "Kalan"
)

// Columns: çıktı kolon sırası
var Columns = []string{
	ColUPC, ColPrice, ColShipQuantity, ColPackSize, ColBrand, ColDescription,
	ColSupplier, ColAsin, ColPcs, ColPK, ColSKU, ColPriceCheck, ColOrigin,
	ColSKU2, ColYeniPcs, ColPKEach, ColKalan,
}

// Eşleşmenin geldiği tablo (DOSYA kolonu)
const (
	OriginRestock   = "Restock"
	OriginOrderForm = "Order Form"
)

// Fatura alanları; hepsi zorunlu
var invoiceFields = []struct {
	field string
	col   string
}{
	{"upc", ColUPC},
	{"price", ColPrice},
	{"shipquantity", ColShipQuantity},
	{"packsize", ColPackSize},
	{"brand", ColBrand},
	{"description", ColDescription},
}

// Stats: bir sevkiyat çalıştırmasının özeti
type Stats struct {
	InvoiceRows    int      `json:"invoice_rows"`
	RestockFiles   int      `json:"restock_files"`
	OrderFiles     int      `json:"order_files"`
	FailedFiles    []string `json:"failed_files,omitempty"`
	RestockMatches int      `json:"restock_matches"`
	OrderMatches   int      `json:"order_matches"`
	Unmatched      int      `json:"unmatched"`
}

// Run: her fatura satırı için tek bir çıktı satırı üretir.
// orders ve restocks boş olabilir; fatura alanlarından biri çözülemezse hata döner.
func Run(invoice, orders, restocks *table.Table, dc string, s config.ShipmentSettings) (*table.Table, Stats, error) {
	stats := Stats{InvoiceRows: invoice.Len()}

	inv := make(map[string]string, len(invoiceFields))
	for _, f := range invoiceFields {
		col, ok := invoice.Resolve(s.InvoiceColumns.Aliases(f.field))
		if !ok {
			return nil, stats, apperr.MissingColumn("fatura", f.field, s.InvoiceColumns.Aliases(f.field))
		}
		inv[f.col] = col
	}

	restockRef := newReference(restocks, s.RestockColumns)
	orderRef := newReference(orders, s.OrderColumns)
	slots := orderRef.slots(s.OrderColumns)
	totals := orderRef.totals()

	out := table.New(Columns...)
	for _, r := range invoice.Rows {
		row := table.Row{
			ColSupplier:   table.NotFound[any](),
			ColAsin:       table.NotFound[any](),
			ColPcs:        float64(0),
			ColPK:         table.NotFound[any](),
			ColSKU:        table.NotFound[any](),
			ColPriceCheck: table.NotFound[any](),
			ColOrigin:     table.NotFound[string](),
			ColSKU2:       table.NotFound[string](),
			ColYeniPcs:    table.NotFound[float64](),
			ColPKEach:     table.NotFound[float64](),
			ColKalan:      table.NotFound[float64](),
		}
		for _, f := range invoiceFields {
			row[f.col] = r[inv[f.col]]
		}

		key := table.Key(r[inv[ColUPC]])
		origin := ""
		if m, ok := restockRef.find(key); ok {
			origin = OriginRestock
			row[ColSupplier] = restockRef.get(m, "suplier")
			row[ColAsin] = restockRef.get(m, "asin")
			row[ColPK] = restockRef.get(m, "pk")
			row[ColPriceCheck] = restockRef.get(m, "price")
			row[ColPcs] = restockRef.pcs(m)
			stats.RestockMatches++
		} else if m, ok := orderRef.find(key); ok {
			origin = OriginOrderForm
			row[ColAsin], row[ColSKU] = pickSlot(m, slots)
			row[ColSupplier] = orderRef.get(m, "suplier")
			row[ColPK] = orderRef.get(m, "pk")
			row[ColPriceCheck] = orderRef.get(m, "price")
			row[ColPcs] = orderRef.pcs(m)
			stats.OrderMatches++
		} else {
			stats.Unmatched++
			out.Append(row)
			continue
		}
		row[ColOrigin] = table.Found(origin)

		pk := table.Value(row[ColPK])
		if sku2, ok := buildSKU2(dc, key, pk, row[ColPrice]); ok {
			row[ColSKU2] = table.Found(sku2)
		}

		total, hasTotal := totals[key]
		if alloc, ok := allocate(origin, row[ColPcs], row[ColShipQuantity], total, hasTotal); ok {
			row[ColYeniPcs] = table.Found(alloc)
			if each, rem, ok := packBreakdown(alloc, pk); ok {
				row[ColPKEach] = table.Found(each)
				row[ColKalan] = table.Found(rem)
			}
		}
		out.Append(row)
	}
	return out, stats, nil
}

// buildSKU2: "{dc}_{12 haneli upc}_{pk}_{pk*fiyat, 2 ondalık}"
func buildSKU2(dc, upc string, pk, price any) (string, bool) {
	n, ok := table.ParsePK(pk)
	if !ok {
		return "", false
	}
	p, ok := table.ParseDecimal(price)
	if !ok {
		return "", false
	}
	cost := p.Mul(decimal.NewFromInt(int64(n))).StringFixed(2)
	return fmt.Sprintf("%s_%s_%s_%s", dc, table.ZeroPad(upc, 12), strings.TrimSpace(table.Text(pk)), cost), true
}

// allocate: Order Form eşleşmesinde UPC toplamı pozitifse floor(pcs/toplam*sevk),
// aksi halde sevk miktarının tamamı. Flooring nedeniyle dağıtım toplamı sevk miktarından
// az olabilir; kalan kısım hiçbir satıra yazılmaz.
func allocate(origin string, pcs, ship any, total float64, hasTotal bool) (float64, bool) {
	shipVal, ok := table.ParseFloat(ship)
	if !ok {
		return 0, false
	}
	if origin != OriginOrderForm || !hasTotal || total <= 0 {
		return shipVal, true
	}
	// Oransal dağıtımda pcs zorunlu
	pcsVal, ok := table.ParseFloat(pcs)
	if !ok {
		return 0, false
	}
	return math.Floor(pcsVal / total * shipVal), true
}

// packBreakdown: pk pozitif tam sayıysa (koli adedi, artan)
func packBreakdown(alloc float64, pk any) (float64, float64, bool) {
	n, ok := table.ParsePK(pk)
	if !ok || n <= 0 {
		return 0, 0, false
	}
	m := float64(n)
	return math.Floor(alloc / m), table.FloorMod(alloc, m), true
}
