package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/ledgerly/backend/internal/api"
	"github.com/ledgerly/backend/internal/auth"
	"github.com/ledgerly/backend/internal/config"
	"github.com/ledgerly/backend/internal/metrics"
	"github.com/ledgerly/backend/internal/models"
	"github.com/ledgerly/backend/internal/service"
	"github.com/ledgerly/backend/internal/storage"
	"github.com/ledgerly/backend/internal/storage/sqlite"
	"github.com/ledgerly/backend/pkg/logging"
)

// chart is the fixed account enumeration seeded at startup. Order matters
// only for readability; accounts are resolved by name.
var chart = []struct {
	name string
	kind models.AccountKind
}{
	{"checking", models.AccountChecking},
	{"savings", models.AccountSavings},
	{"cash", models.AccountCash},
	{"brokerage", models.AccountInvestment},
	{"visa", models.AccountCredit},
	{"amex", models.AccountCredit},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	if err := seedChart(context.Background(), store); err != nil {
		slog.Error("Failed to seed account chart", "error", err)
		os.Exit(1)
	}

	resolver := service.NewAccountResolver(store, cfg.AccountCacheTTL)
	detector := service.NewDuplicateDetector(store, resolver,
		service.WithWindow(cfg.DuplicateWindow),
		service.WithFailClosed(cfg.DuplicateFailClosed),
	)
	rules := service.NewRuleService(store, resolver)
	income := service.NewIncomeService(store)
	settlement := service.NewSettlementService(store, resolver)
	ledger := service.NewLedgerService(store, resolver, detector)

	server := api.NewServer(api.Config{
		Rules:         rules,
		Income:        income,
		Settlement:    settlement,
		Ledger:        ledger,
		Detector:      detector,
		Batch:         service.NewBatchService(rules, income, settlement, ledger),
		Resolver:      resolver,
		Authenticator: auth.NewOwnerAuthenticator(cfg.OwnerPasswordHash),
		JWTManager:    auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration),
		Metrics:       metrics.New(),
	})

	slog.Info("Server starting", "address", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, server.Handler()); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// seedChart ensures every chart account exists. EnsureAccount is idempotent,
// so restarts are safe.
func seedChart(ctx context.Context, store storage.Store) error {
	for _, a := range chart {
		account, err := store.EnsureAccount(ctx, a.name, a.kind)
		if err != nil {
			return err
		}
		slog.Debug("Account ready", "name", account.Name, "kind", account.Kind, "id", account.ID)
	}
	return nil
}
