package main

import (
	"fmt"
	"os"
	"path/filepath"

	"restock-backend/internal/config"
	"restock-backend/internal/loader"
	"restock-backend/internal/logging"
	"restock-backend/internal/progress"
	"restock-backend/internal/restock"
	"restock-backend/internal/shipment"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	settingsFile string
	logLevel     string
	workers      int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "reconcile",
		Short:         "Restock ve sevkiyat Excel dosyalarını mutabakat eder",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Configure(logging.Config{Level: opts.logLevel, Format: "console", Output: cmd.ErrOrStderr()})
		},
	}
	root.PersistentFlags().StringVar(&opts.settingsFile, "settings-file", "", "varsayılan ayarlar (YAML)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log seviyesi")
	root.PersistentFlags().IntVar(&opts.workers, "workers", 0, "paralel dosya okuma sınırı (0 = CPU sayısı)")

	root.AddCommand(newRestockCmd(opts), newShipmentCmd(opts))
	return root
}

func newRestockCmd(root *rootOptions) *cobra.Command {
	var (
		stock, exports []string
		master         string
		settingsJSON   string
		out            string
	)
	cmd := &cobra.Command{
		Use:   "restock",
		Short: "Stok + export dosyalarını ana restock listesine işler",
		Example: `  reconcile restock --stock 41-ham.xlsx --stock 27-ham.xlsx \
    --export 41-export.xlsx --master restock.xlsx --out processed_restock.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := config.LoadSettingsFile(root.settingsFile)
			if err != nil {
				return err
			}
			raw, err := readOptional(settingsJSON)
			if err != nil {
				return err
			}
			s, err := config.ParseRestockSettings(base, raw)
			if err != nil {
				return err
			}

			req := restock.Request{Workers: root.workers}
			if req.Stock, err = readFiles(stock); err != nil {
				return err
			}
			if req.Exports, err = readFiles(exports); err != nil {
				return err
			}
			if req.Master, err = readFile(master); err != nil {
				return err
			}

			res, err := restock.Reconcile(cmd.Context(), req, s, logProgress())
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, res.Data, 0o644); err != nil {
				return fmt.Errorf("çıktı yazılamadı: %w", err)
			}
			logging.L().Info().
				Str("out", out).
				Int("rows", res.Rows).
				Int("price_war_removals", res.Stats.PriceWarRemovals).
				Strs("failed_files", res.Stats.FailedFiles).
				Strs("enrichment_skipped", res.Stats.EnrichmentSkipped).
				Msg("restock tamamlandı")
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&stock, "stock", nil, "tedarikçi stok dosyası; sıra öncelik sırasıdır (tekrarlanabilir)")
	cmd.Flags().StringArrayVar(&exports, "export", nil, "export / stok durumu dosyası (tekrarlanabilir)")
	cmd.Flags().StringVar(&master, "master", "", "ana restock dosyası")
	cmd.Flags().StringVar(&settingsJSON, "settings", "", "istek ayarları (JSON dosyası)")
	cmd.Flags().StringVarP(&out, "out", "o", restock.OutputFilename, "çıktı dosyası")
	_ = cmd.MarkFlagRequired("stock")
	_ = cmd.MarkFlagRequired("master")
	return cmd
}

func newShipmentCmd(root *rootOptions) *cobra.Command {
	var (
		invoice           string
		orders, restocks  []string
		dc                string
		settingsJSON, out string
	)
	cmd := &cobra.Command{
		Use:   "shipment",
		Short: "Fatura satırlarını restock / sipariş formlarıyla eşleştirir",
		Example: `  reconcile shipment --invoice invoice.xlsx --order orders.xlsx \
    --restock restock.xlsx --dc DC1 --out Shipment_Result.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := config.LoadSettingsFile(root.settingsFile)
			if err != nil {
				return err
			}
			raw, err := readOptional(settingsJSON)
			if err != nil {
				return err
			}
			s, err := config.ParseShipmentSettings(base, raw)
			if err != nil {
				return err
			}

			req := shipment.Request{DCCode: dc, Workers: root.workers}
			if req.Invoice, err = readFile(invoice); err != nil {
				return err
			}
			if req.Orders, err = readFiles(orders); err != nil {
				return err
			}
			if req.Restocks, err = readFiles(restocks); err != nil {
				return err
			}

			res, err := shipment.Reconcile(cmd.Context(), req, s, logProgress())
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, res.Data, 0o644); err != nil {
				return fmt.Errorf("çıktı yazılamadı: %w", err)
			}
			logging.L().Info().
				Str("out", out).
				Int("rows", res.Rows).
				Int("unmatched", res.Stats.Unmatched).
				Strs("failed_files", res.Stats.FailedFiles).
				Msg("sevkiyat tamamlandı")
			return nil
		},
	}
	cmd.Flags().StringVar(&invoice, "invoice", "", "fatura dosyası")
	cmd.Flags().StringArrayVar(&orders, "order", nil, "sipariş formu (tekrarlanabilir)")
	cmd.Flags().StringArrayVar(&restocks, "restock", nil, "restock dosyası (tekrarlanabilir)")
	cmd.Flags().StringVar(&dc, "dc", "", "dağıtım merkezi kodu")
	cmd.Flags().StringVar(&settingsJSON, "settings", "", "istek ayarları (JSON dosyası)")
	cmd.Flags().StringVarP(&out, "out", "o", shipment.OutputFilename, "çıktı dosyası")
	_ = cmd.MarkFlagRequired("invoice")
	_ = cmd.MarkFlagRequired("dc")
	return cmd
}

func logProgress() progress.Func {
	return func(message string, percent int) {
		logging.L().Info().Int("percent", percent).Msg(message)
	}
}

func readFile(path string) (loader.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return loader.File{}, fmt.Errorf("dosya okunamadı: %w", err)
	}
	return loader.File{Name: filepath.Base(path), Data: data}, nil
}

func readFiles(paths []string) ([]loader.File, error) {
	files := make([]loader.File, 0, len(paths))
	for _, p := range paths {
		f, err := readFile(p)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func readOptional(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("ayar dosyası okunamadı: %w", err)
	}
	return string(data), nil
}
