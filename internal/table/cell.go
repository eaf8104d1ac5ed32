package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Sentinel: eşleşmeyen / çözümlenemeyen alanlar için çıktıya yazılan değer
const Sentinel = "#YOK"

// Celler: serileştirme anında gerçek hücre değerine dönüşen tipler (Opt)
type Celler interface {
	Cell() any
}

// Opt: türetilmiş alanlar için Found(v) | NotFound etiketli opsiyonel değer.
// NotFound ancak Excel'e yazılırken "#YOK" olur.
type Opt[T any] struct {
	v  T
	ok bool
}

func Found[T any](v T) Opt[T] {
	return Opt[T]{v: v, ok: true}
}

func NotFound[T any]() Opt[T] {
	return Opt[T]{}
}

func (o Opt[T]) Get() (T, bool) {
	return o.v, o.ok
}

func (o Opt[T]) OK() bool {
	return o.ok
}

func (o Opt[T]) Cell() any {
	if !o.ok {
		return Sentinel
	}
	return Value(o.v)
}

// Value: Opt katmanlarını açıp ham hücre değerini döndürür
func Value(v any) any {
	if c, ok := v.(Celler); ok {
		return Value(c.Cell())
	}
	return v
}

// IsNull: nil, boş string veya sadece boşluk
func IsNull(v any) bool {
	v = Value(v)
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case float64:
		return math.IsNaN(x)
	}
	return false
}

// Text: hücreyi metne çevirir. Tam sayı değerli float'lar ondalıksız yazılır (10.0 -> "10").
func Text(v any) string {
	switch x := Value(v).(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case decimal.Decimal:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// Key: UPC gibi join anahtarları için trim edilmiş metin
func Key(v any) string {
	return strings.TrimSpace(Text(v))
}
