// Package xlsx, yüklenen .xlsx dosyalarını table.Table'a çevirir ve sonuç tablosunu
// tekrar .xlsx olarak yazar.
package xlsx

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"restock-backend/internal/table"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ContentType: indirme yanıtları için xlsx MIME tipi
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Decode: ilk sheet'i okur, ilk satırı başlık kabul eder.
// Boş hücreler nil olur, tamamen boş satırlar atlanır.
func Decode(data []byte) (*table.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("Excel dosyası okunamadı: %w", err)
	}
	defer f.Close()

	sheetList := f.GetSheetList()
	if len(sheetList) == 0 {
		return nil, fmt.Errorf("Excel dosyasında sheet bulunamadı")
	}

	// Ham değerler: para birimi / binlik formatları sayısal parse'ı bozmasın
	rows, err := f.GetRows(sheetList[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("sheet okunamadı: %w", err)
	}
	if len(rows) == 0 {
		return table.New(), nil
	}

	columns := headerNames(rows[0])
	t := table.New(columns...)
	for r, raw := range rows[1:] {
		if isBlank(raw) {
			continue
		}
		row := make(table.Row, len(columns))
		for i, col := range columns {
			if i < len(raw) && raw[i] != "" {
				row[col] = decodeCell(f, sheetList[0], i+1, r+2, raw[i])
			} else {
				row[col] = nil
			}
		}
		t.Append(row)
	}
	return t, nil
}

// decodeCell: sayı hücreleri float64, diğerleri ham metin olarak okunur.
// Metin olarak saklanan sayılar ("000111") metin kalır.
func decodeCell(f *excelize.File, sheet string, col, row int, raw string) any {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return raw
	}
	typ, err := f.GetCellType(sheet, name)
	if err != nil || !isNumberType(typ) {
		return raw
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	return v
}

// isNumberType: t özniteliği yazılmamış hücreler de sayıdır
func isNumberType(typ excelize.CellType) bool {
	return typ == excelize.CellTypeUnset || typ == excelize.CellTypeNumber
}

// headerNames: boş başlıklara "Unnamed: i", tekrar edenlere ".1", ".2" eki verir
func headerNames(header []string) []string {
	seen := make(map[string]int, len(header))
	out := make([]string, 0, len(header))
	for i, h := range header {
		name := h
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		out = append(out, name)
	}
	return out
}

func isBlank(raw []string) bool {
	for _, v := range raw {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Encode: tabloyu tek sheet'lik bir çalışma kitabına yazar.
// Opt alanlar burada değerine veya "#YOK" sentinel'ine çözülür.
func Encode(t *table.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := f.GetSheetName(0)
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return nil, fmt.Errorf("sheet yazıcısı oluşturulamadı: %w", err)
	}

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, fmt.Errorf("başlık satırı yazılamadı: %w", err)
	}

	for i, r := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := make([]interface{}, len(t.Columns))
		for j, c := range t.Columns {
			values[j] = cellValue(r[c])
		}
		if err := sw.SetRow(cell, values); err != nil {
			return nil, fmt.Errorf("%d. satır yazılamadı: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("sheet kapatılamadı: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("Excel dosyası oluşturulamadı: %w", err)
	}
	return buf.Bytes(), nil
}

func cellValue(v any) interface{} {
	switch x := table.Value(v).(type) {
	case nil:
		return ""
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return ""
		}
		return x
	case decimal.Decimal:
		return x.InexactFloat64()
	default:
		return x
	}
}
