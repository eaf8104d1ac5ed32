package table

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePK: "PK10", "pk 12", " 6 " gibi paket değerlerini tam sayıya çevirir
func ParsePK(v any) (int, bool) {
	s := strings.ToUpper(Text(v))
	s = strings.TrimSpace(strings.ReplaceAll(s, "PK", ""))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseFloat: sayısal hücreyi float64'e çevirir; NaN/Inf sayısal kabul edilmez
func ParseFloat(v any) (float64, bool) {
	var f float64
	switch x := Value(v).(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseDecimal: fiyat karşılaştırmaları ve maliyet hesabı için kayıpsız ondalık
func ParseDecimal(v any) (decimal.Decimal, bool) {
	switch x := Value(v).(type) {
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(x))
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	case decimal.Decimal:
		return x, true
	}
	f, ok := ParseFloat(v)
	if !ok {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}

// ZeroPad: soldan sıfırla width karaktere tamamlar, işaret başta kalır ("-12" -> "-0012")
func ZeroPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	sign := ""
	if s != "" && (s[0] == '-' || s[0] == '+') {
		sign, s = s[:1], s[1:]
	}
	return sign + strings.Repeat("0", width-len(s)-len(sign)) + s
}

// FloorMod: sonucu bölenle aynı işaretli mod (Python % davranışı)
func FloorMod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r != 0 && (r < 0) != (m < 0) {
		r += m
	}
	return r
}
