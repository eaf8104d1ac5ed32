package table

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Resolve iki aşamada kolon arar:
//  1. Tam eşleşme: tablo sırasıyla, trim edilmiş başlık alias'lardan birine birebir eşitse
//  2. Normalize eşleşme: tüm boşluklar silinmiş ve küçük harfe çevrilmiş hâlleri eşitse
//
// Hiçbiri tutmazsa ok=false döner; zorunlu alan mı değil mi kararı çağırana aittir.
func Resolve(columns []string, aliases []string) (string, bool) {
	for _, col := range columns {
		trimmed := strings.TrimSpace(col)
		for _, a := range aliases {
			if trimmed == a {
				return col, true
			}
		}
	}

	// Caser state tutar, goroutine'ler arasında paylaşılmamalı
	caser := cases.Lower(language.Und)
	wanted := make(map[string]struct{}, len(aliases))
	for _, a := range aliases {
		wanted[normalizeHeader(caser, a)] = struct{}{}
	}
	for _, col := range columns {
		if _, ok := wanted[normalizeHeader(caser, col)]; ok {
			return col, true
		}
	}
	return "", false
}

func normalizeHeader(caser cases.Caser, s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return caser.String(b.String())
}
