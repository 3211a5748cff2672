package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/riaziiii/pos-system/internal/config"
	"github.com/riaziiii/pos-system/internal/repository"
	"github.com/riaziiii/pos-system/internal/repository/memory"
	"github.com/riaziiii/pos-system/internal/service"
	"github.com/riaziiii/pos-system/internal/session"
	"github.com/riaziiii/pos-system/pkg/sessiontoken"
)

var errNotLoggedIn = errors.New("not logged in (run `pos login`)")

// app wires one command invocation: config, logger, store backend and the
// services on top of it.
type app struct {
	cfg  config.Config
	log  zerolog.Logger
	pool *pgxpool.Pool

	auth    *service.AuthService
	catalog *service.CatalogService
	orders  *service.OrderService
	reports *service.ReportService
	staff   *service.StaffService
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	a := &app{cfg: cfg, log: log}

	var (
		directory service.Directory
		staffDir  service.StaffDirectory
		products  service.ProductStore
		orders    service.OrderStore
	)

	switch cfg.Store {
	case config.StoreMemory:
		store := memory.NewStore()
		store.SeedDemo()
		directory, staffDir, products, orders = store, store, store, store
	default:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		a.pool = pool

		userRepo := repository.NewUserRepository(pool, log)
		directory, staffDir = userRepo, userRepo
		products = repository.NewProductRepository(pool, log)
		orders = repository.NewOrderRepository(pool, log)
	}

	key, err := session.LoadSigningKey(cfg.SessionKeyPath, log)
	if err != nil {
		a.Close()
		return nil, err
	}
	signer, err := sessiontoken.NewSigner(key)
	if err != nil {
		a.Close()
		return nil, err
	}
	sessions := session.NewFileStore(cfg.SessionPath, signer, log)

	a.auth = service.NewAuthService(directory, sessions, log)
	a.catalog = service.NewCatalogService(products, log)
	a.orders = service.NewOrderService(orders, log)
	a.reports = service.NewReportService(orders, log)
	a.staff = service.NewStaffService(staffDir, log)
	return a, nil
}

func (a *app) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

// requireSession restores the cached session and fails when none is valid.
func (a *app) requireSession(ctx context.Context) (*repository.User, error) {
	if !a.auth.RestoreSession(ctx) {
		return nil, errNotLoggedIn
	}
	return a.auth.CurrentUser(), nil
}

// requireCapability additionally gates on the user's role.
func (a *app) requireCapability(ctx context.Context, c repository.Capability) (*repository.User, error) {
	user, err := a.requireSession(ctx)
	if err != nil {
		return nil, err
	}
	if !user.Role.Can(c) {
		return nil, fmt.Errorf("%s accounts are not allowed to do this", user.Role)
	}
	return user, nil
}

// readPIN collects a PIN without echoing when stdin is a terminal, and reads
// a plain line otherwise so the command stays scriptable.
func readPIN(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read PIN: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read PIN: %w", err)
	}
	return strings.TrimSpace(line), nil
}
