package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/vladislavdragonenkov/ordermvc/internal/storage/postgres"
)

const (
	defaultTimeout = 30 * time.Second
	envPostgresDSN = "ORDERMVC_POSTGRES_DSN"
)

// migrator — то, что нужно CLI от PostgreSQL store.
type migrator interface {
	MigrateUp(ctx context.Context, steps int) error
	MigrateDown(ctx context.Context, steps int) error
	MigrationStatus(ctx context.Context) (int64, int, error)
	Close() error
}

var openStore = func(ctx context.Context, dsn string) (migrator, error) {
	return postgres.Open(ctx, dsn)
}

func main() {
	os.Exit(run(os.Args[1:], os.Getenv, os.Stdout, os.Stderr))
}

// run применяет миграции журнала заказов и возвращает код выхода.
func run(args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	direction := fs.String("direction", "up", "migration direction: up|down|status")
	steps := fs.Int("steps", 0, "number of migrations to apply/rollback (0=all for up, 1 for down)")
	dsn := fs.String("dsn", "", "PostgreSQL DSN (fallback: "+envPostgresDSN+")")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if strings.TrimSpace(*dsn) == "" {
		*dsn = strings.TrimSpace(getenv(envPostgresDSN))
	}
	if *dsn == "" {
		fmt.Fprintf(stderr, "%s (or -dsn) is required\n", envPostgresDSN)
		return 1
	}

	mode := strings.ToLower(strings.TrimSpace(*direction))
	if mode != "up" && mode != "down" && mode != "status" {
		fmt.Fprintf(stderr, "unsupported direction: %s (use up|down|status)\n", *direction)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	store, err := openStore(ctx, *dsn)
	if err != nil {
		fmt.Fprintf(stderr, "open postgres store: %v\n", err)
		return 1
	}
	defer store.Close()

	switch mode {
	case "up":
		err = store.MigrateUp(ctx, *steps)
	case "down":
		err = store.MigrateDown(ctx, *steps)
	}
	if err != nil {
		fmt.Fprintf(stderr, "migrate %s failed: %v\n", mode, err)
		return 1
	}

	version, count, err := store.MigrationStatus(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "migration status failed: %v\n", err)
		return 1
	}

	if mode == "status" {
		fmt.Fprintf(stdout, "migration status: version=%d applied=%d\n", version, count)
	} else {
		fmt.Fprintf(stdout, "migrate %s ok: version=%d applied=%d\n", mode, version, count)
	}
	return 0
}
