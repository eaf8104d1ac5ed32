package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"restock-backend/internal/apperr"

	"github.com/goccy/go-yaml"
)

// ColumnMap: mantıksal alan -> kabul edilen kolon başlıkları (sıralı)
type ColumnMap map[string][]string

// Aliases: alanın alias listesi (yoksa nil)
func (m ColumnMap) Aliases(field string) []string {
	return m[field]
}

func (m ColumnMap) clone() ColumnMap {
	out := make(ColumnMap, len(m))
	for k, v := range m {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// RestockSettings: restock mutabakatı ayarları
type RestockSettings struct {
	ColumnMappings ColumnMap          `json:"column_mappings" yaml:"column_mappings"`
	SupplierCosts  map[string]float64 `json:"supplier_costs" yaml:"supplier_costs"`
	// DefaultCost: "{kod} cost" / "{kod} standart" bulunamazsa eklenen maliyet
	DefaultCost float64 `json:"default_cost" yaml:"default_cost"`
}

// ShipmentSettings: sevkiyat mutabakatı ayarları.
// OrderColumns içindeki "asin" ve "sku" listeleri sıralı slotlardır: asin[i] <-> sku[i].
type ShipmentSettings struct {
	RestockColumns ColumnMap `json:"restock_columns" yaml:"restock_columns"`
	OrderColumns   ColumnMap `json:"order_columns" yaml:"order_columns"`
	InvoiceColumns ColumnMap `json:"invoice_columns" yaml:"invoice_columns"`
}

// Settings: her iki akışın varsayılanları
type Settings struct {
	Restock  RestockSettings  `json:"restock" yaml:"restock"`
	Shipment ShipmentSettings `json:"shipment" yaml:"shipment"`
}

// DefaultCostMultiplier: tedarikçiye özel maliyet bulunamadığında kullanılan değer
const DefaultCostMultiplier = 0.78

// DefaultSettings: frontend'in varsayılan ayarlarıyla aynı değerler
func DefaultSettings() *Settings {
	return &Settings{
		Restock: RestockSettings{
			ColumnMappings: ColumnMap{
				"upc":      {"UPC", "upc", "Upc", "UPC #"},
				"brand":    {"BRAND", "Brand", "brand"},
				"price":    {"NET_AMOUNT", "Price", "price"},
				"case":     {"CASEPACK", "Size", "Case", "case", "size"},
				"quantity": {"Qty on Hand", "Quantity Available", "Quantity"},
				"pk":       {"PK", "pk", "PK "},
			},
			SupplierCosts: map[string]float64{
				"41 cost": 0.78, "41 standart": 0.78,
				"45 cost": 0.78, "45 standart": 0.78,
				"19 cost": 0.78, "19 standart": 0.78,
				"27 cost": 1.10, "27 standart": 1.10,
				"18 cost": 1.10, "18 standart": 1.10,
				"01 cost": 1.10, "01 standart": 1.10,
				"NF": 0.78,
			},
			DefaultCost: DefaultCostMultiplier,
		},
		Shipment: ShipmentSettings{
			RestockColumns: ColumnMap{
				"upc": {"Upc"}, "pcs": {"PCS"}, "asin": {"ASIN"}, "pk": {"PK"}, "price": {"Price"}, "suplier": {"suplier"},
			},
			OrderColumns: ColumnMap{
				"upc": {"UPC"}, "pcs": {"PCS"}, "asin": {"ASIN 1", "ASIN 2"}, "sku": {"ASIN1_SKU", "ASIN2_SKU"},
				"pk": {"PK"}, "price": {"price"}, "suplier": {"suplier"},
			},
			InvoiceColumns: ColumnMap{
				"shipquantity": {"ShipQuantity"}, "upc": {"Upc"}, "price": {"NetEach2"},
				"packsize": {"PackSize"}, "brand": {"Brand"}, "description": {"Description"},
			},
		},
	}
}

// Clone: istek başına değiştirilebilir kopya
func (s *Settings) Clone() *Settings {
	costs := make(map[string]float64, len(s.Restock.SupplierCosts))
	for k, v := range s.Restock.SupplierCosts {
		costs[k] = v
	}
	return &Settings{
		Restock: RestockSettings{
			ColumnMappings: s.Restock.ColumnMappings.clone(),
			SupplierCosts:  costs,
			DefaultCost:    s.Restock.DefaultCost,
		},
		Shipment: ShipmentSettings{
			RestockColumns: s.Shipment.RestockColumns.clone(),
			OrderColumns:   s.Shipment.OrderColumns.clone(),
			InvoiceColumns: s.Shipment.InvoiceColumns.clone(),
		},
	}
}

// fileSettings: YAML dosyasında verilmeyen alanların varsayılanı ezmemesi için
type fileSettings struct {
	Restock struct {
		ColumnMappings ColumnMap          `yaml:"column_mappings"`
		SupplierCosts  map[string]float64 `yaml:"supplier_costs"`
		DefaultCost    *float64           `yaml:"default_cost"`
	} `yaml:"restock"`
	Shipment ShipmentSettings `yaml:"shipment"`
}

// LoadSettingsFile: YAML dosyasındaki değerleri varsayılanların üzerine yazar.
// path boşsa sadece varsayılanlar döner.
func LoadSettingsFile(path string) (*Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ayar dosyası okunamadı: %w", err)
	}

	var fs fileSettings
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return nil, apperr.Settings("ayar dosyası çözümlenemedi: %v", err)
	}

	mergeColumns(s.Restock.ColumnMappings, fs.Restock.ColumnMappings)
	for k, v := range fs.Restock.SupplierCosts {
		s.Restock.SupplierCosts[k] = v
	}
	if fs.Restock.DefaultCost != nil {
		s.Restock.DefaultCost = *fs.Restock.DefaultCost
	}
	mergeColumns(s.Shipment.RestockColumns, fs.Shipment.RestockColumns)
	mergeColumns(s.Shipment.OrderColumns, fs.Shipment.OrderColumns)
	mergeColumns(s.Shipment.InvoiceColumns, fs.Shipment.InvoiceColumns)

	if err := s.Restock.Validate(); err != nil {
		return nil, err
	}
	if err := s.Shipment.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func mergeColumns(dst, src ColumnMap) {
	for k, v := range src {
		dst[k] = v
	}
}

// ParseRestockSettings: istekteki settings_str JSON'unu base üzerine uygular.
// JSON'da olmayan alanlar base'den gelir; map'ler anahtar bazında birleşir.
func ParseRestockSettings(base *Settings, raw string) (RestockSettings, error) {
	s := base.Clone().Restock
	if strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return RestockSettings{}, apperr.Settings("ayar formatı okunamadı: %v", err)
		}
	}
	if err := s.Validate(); err != nil {
		return RestockSettings{}, err
	}
	return s, nil
}

// ParseShipmentSettings: ParseRestockSettings'in sevkiyat karşılığı
func ParseShipmentSettings(base *Settings, raw string) (ShipmentSettings, error) {
	s := base.Clone().Shipment
	if strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return ShipmentSettings{}, apperr.Settings("ayar formatı okunamadı: %v", err)
		}
	}
	if err := s.Validate(); err != nil {
		return ShipmentSettings{}, err
	}
	return s, nil
}

func requireAliases(group string, m ColumnMap, fields ...string) error {
	for _, f := range fields {
		if len(m.Aliases(f)) == 0 {
			return apperr.Settings("%s içinde '%s' alanı için en az bir kolon adı gerekli", group, f)
		}
	}
	return nil
}

func (s RestockSettings) Validate() error {
	if err := requireAliases("column_mappings", s.ColumnMappings, "upc", "price", "quantity", "pk"); err != nil {
		return err
	}
	if math.IsNaN(s.DefaultCost) || math.IsInf(s.DefaultCost, 0) {
		return apperr.Settings("default_cost sayısal olmalı")
	}
	return nil
}

func (s ShipmentSettings) Validate() error {
	if err := requireAliases("invoice_columns", s.InvoiceColumns,
		"shipquantity", "upc", "price", "packsize", "brand", "description"); err != nil {
		return err
	}
	if err := requireAliases("restock_columns", s.RestockColumns, "upc"); err != nil {
		return err
	}
	return requireAliases("order_columns", s.OrderColumns, "upc")
}

// CostFor: "{kod} cost" -> "{kod} standart" -> DefaultCost
func (s RestockSettings) CostFor(supplier string) float64 {
	if v, ok := s.SupplierCosts[supplier+" cost"]; ok {
		return v
	}
	if v, ok := s.SupplierCosts[supplier+" standart"]; ok {
		return v
	}
	return s.DefaultCost
}
