package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/qrmenu/config"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

const (
	pingTimeout = 5 * time.Second

	// sqlite takes the write lock when the transaction begins, so concurrent
	// orders queue up instead of failing at commit.
	sqliteParams = "_txlock=immediate&_busy_timeout=5000&_foreign_keys=1"
)

// DB wraps the connection pool together with the driver it was opened with.
type DB struct {
	*sql.DB
	Driver string
}

// ConnectAndMigrate applies pending migrations and returns a ready pool.
func ConnectAndMigrate(cfg config.Database) (*DB, error) {
	if err := Migrate(cfg); err != nil {
		return nil, err
	}
	return Connect(cfg)
}

func Connect(cfg config.Database) (*DB, error) {
	conn, err := sql.Open(cfg.Driver, dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	if cfg.Driver == config.DriverSQLite {
		// a single file accepts one writer; one connection keeps it that way
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(25)
		conn.SetMaxIdleConns(5)
		conn.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Driver, err)
	}

	return &DB{DB: conn, Driver: cfg.Driver}, nil
}

// Migrate runs the embedded migrations for the configured driver on a dedicated connection.
func Migrate(cfg config.Database) error {
	conn, err := sql.Open(cfg.Driver, dsn(cfg))
	if err != nil {
		return fmt.Errorf("failed to open %s database for migration: %w", cfg.Driver, err)
	}

	var (
		driver migratedb.Driver
		dir    = "migrations/postgres"
	)
	switch cfg.Driver {
	case config.DriverSQLite:
		dir = "migrations/sqlite"
		driver, err = migratesqlite.WithInstance(conn, &migratesqlite.Config{})
	case config.DriverPostgres:
		driver, err = migratepostgres.WithInstance(conn, &migratepostgres.Config{})
	case config.DriverPgx:
		driver, err = migratepgx.WithInstance(conn, &migratepgx.Config{})
	default:
		err = fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to prepare migration driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, cfg.Driver, driver)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logrus.WithFields(logrus.Fields{"source_error": srcErr, "db_error": dbErr}).Warn("failed to close migrator")
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	logrus.WithFields(logrus.Fields{"driver": cfg.Driver, "version": version, "dirty": dirty}).Info("migrations applied")
	return nil
}

// Tx runs fn inside a transaction. The transaction commits when fn returns nil and
// rolls back otherwise. Postgres runs it serializable; sqlite relies on BEGIN IMMEDIATE.
func (db *DB) Tx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, db.txOptions())
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				logrus.WithError(rollbackErr).Error("failed to rollback transaction")
			}
			return
		}
		if commitErr := tx.Commit(); commitErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", commitErr)
		}
	}()

	return fn(tx)
}

func (db *DB) txOptions() *sql.TxOptions {
	if db.Driver == config.DriverSQLite {
		return nil
	}
	return &sql.TxOptions{Isolation: sql.LevelSerializable}
}

func (db *DB) Shutdown() error {
	return db.Close()
}

func dsn(cfg config.Database) string {
	if cfg.Driver != config.DriverSQLite || strings.Contains(cfg.DSN, "_txlock") {
		return cfg.DSN
	}
	if strings.Contains(cfg.DSN, "?") {
		return cfg.DSN + "&" + sqliteParams
	}
	return cfg.DSN + "?" + sqliteParams
}
