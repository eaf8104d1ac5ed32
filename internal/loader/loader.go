// Package loader, yüklenen dosyaları sınırlı sayıda goroutine ile paralel olarak
// tabloya çevirir. Bir dosyanın hatası diğerlerini iptal etmez.
package loader

import (
	"context"
	"fmt"
	"runtime"

	"restock-backend/internal/table"

	"golang.org/x/sync/errgroup"
)

// File: yüklenen dosyanın adı ve içeriği
type File struct {
	Name string
	Data []byte
}

// Result: tek bir dosyanın yükleme sonucu. Err dolu ise Table nil'dir.
type Result struct {
	Index int
	Name  string
	Table *table.Table
	Err   error
}

// DecodeFunc: dosya içeriğini tabloya çeviren codec (xlsx.Decode)
type DecodeFunc func([]byte) (*table.Table, error)

// LoadAll: dosyaları en fazla limit kadar eşzamanlı olarak decode eder.
// onDone her tamamlanan dosya için tamamlanma sırasıyla (sıra garantisi yok) çağrılır;
// çağrılar seri hâle getirilmiştir. Dönüş değeri tüm görevler bittikten sonra
// gönderim sırasına göre dizilmiş sonuçlardır.
func LoadAll(ctx context.Context, files []File, decode DecodeFunc, limit int, onDone func(Result)) []Result {
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	results := make([]Result, len(files))
	done := make(chan Result)

	g := new(errgroup.Group)
	g.SetLimit(limit)

	// Tamamlanma akışını tek goroutine'de topla
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for r := range done {
			results[r.Index] = r
			if onDone != nil {
				onDone(r)
			}
		}
	}()

	for i, f := range files {
		g.Go(func() error {
			r := Result{Index: i, Name: f.Name}
			if err := ctx.Err(); err != nil {
				r.Err = err
			} else {
				r.Table, r.Err = safeDecode(decode, f.Data)
			}
			done <- r
			// Dosya hataları gruba taşınmaz; kardeş görevler devam eder
			return nil
		})
	}

	_ = g.Wait()
	close(done)
	<-collected
	return results
}

func safeDecode(decode DecodeFunc, data []byte) (t *table.Table, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			t, err = nil, fmt.Errorf("dosya okunurken beklenmeyen hata: %v", rec)
		}
	}()
	return decode(data)
}

// Split: sonuçları başarılı ve başarısız olarak ayırır; başarılılar gönderim sırasını korur
func Split(results []Result) (loaded []Result, failed []Result) {
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
			continue
		}
		loaded = append(loaded, r)
	}
	return loaded, failed
}
