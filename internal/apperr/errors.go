// Package apperr, istek seviyesindeki (fatal) hataların sentinel'lerini ve tiplerini içerir.
// Satır ve dosya seviyesindeki hatalar burada değil, "#YOK" sentinel'i ve
// ilerleme mesajlarıyla raporlanır.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingColumn: zorunlu bir kolon tabloda bulunamadı
	ErrMissingColumn = errors.New("zorunlu kolon bulunamadı")

	// ErrInvalidSettings: ayar nesnesi okunamadı veya eksik
	ErrInvalidSettings = errors.New("geçersiz ayarlar")

	// ErrNoInput: işlenecek dosya yok ya da zorunlu dosya okunamadı
	ErrNoInput = errors.New("girdi dosyası eksik")
)

// MissingColumnError: hangi tablonun hangi mantıksal alanı çözülemedi
type MissingColumnError struct {
	Table      string
	Field      string
	Candidates []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s dosyasında '%s' kolonu bulunamadı (adaylar: %s)",
		e.Table, e.Field, strings.Join(e.Candidates, ", "))
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

func MissingColumn(tableName, field string, candidates []string) *MissingColumnError {
	return &MissingColumnError{Table: tableName, Field: field, Candidates: candidates}
}

// Settings: ErrInvalidSettings'i saran açıklamalı hata
func Settings(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSettings, fmt.Sprintf(format, args...))
}

// IsClientError: hata kullanıcının gönderdiği veriden mi kaynaklanıyor (HTTP 400)
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrInvalidSettings) ||
		errors.Is(err, ErrNoInput)
}
