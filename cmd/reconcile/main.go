// Command reconcile, restock ve sevkiyat mutabakatını sunucu olmadan yerel
// dosyalar üzerinde çalıştırır.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"restock-backend/internal/logging"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logging.L().Error().Err(err).Msg("mutabakat başarısız")
		os.Exit(1)
	}
}
