package db

import (
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/masterstock/masterstock/internal/config"
	"github.com/masterstock/masterstock/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the configured database and brings the schema up to date.
// Postgres DSNs get a retry loop (container start races); sqlite opens
// directly. Schema: golang-migrate SQL files when MIGRATIONS is truthy,
// otherwise GORM AutoMigrate.
func Connect(dsn string) (*gorm.DB, error) {
	dsn = NormalizeDSN(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN is empty; check the environment configuration")
	}
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var conn *gorm.DB
	var err error
	if IsPostgresDSN(dsn) {
		for i := 0; i < 10; i++ {
			conn, err = gorm.Open(postgres.Open(dsn), cfg)
			if err == nil {
				break
			}
			log.Println("retrying DB connection...", err)
			time.Sleep(2 * time.Second)
		}
	} else {
		conn, err = gorm.Open(sqlite.Open(dsn), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if pingErr := conn.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	log.Println("[DB] using DSN:", maskDSN(dsn))

	if config.ParseBool("MIGRATIONS", false) {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else if err := autoMigrate(conn); err != nil {
		return nil, err
	}

	// sanity check: required core tables must exist
	for _, table := range []string{"company_profiles", "products"} {
		if !conn.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}
	if config.ParseBool("DB_SEED", false) {
		seedCategories(conn)
	}
	return conn, nil
}

func autoMigrate(conn *gorm.DB) error {
	for _, m := range []interface{}{
		&models.CompanyProfile{}, &models.Category{}, &models.Product{},
		&models.Party{}, &models.Invoice{}, &models.InvoiceItem{},
	} {
		if err := conn.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

func maskDSN(dsn string) string {
	masked := dsn
	if strings.Contains(masked, "password=") {
		re := regexp.MustCompile(`(password=)([^\s]+)`)
		masked = re.ReplaceAllString(masked, `${1}***`)
	}
	return masked
}

// seedCategories inserts the baseline product categories once.
func seedCategories(conn *gorm.DB) {
	base := []models.Category{
		{Name: "Uncategorized"},
		{Name: "Stationery"},
		{Name: "Electronics"},
		{Name: "Groceries"},
	}
	for _, c := range base {
		var existing models.Category
		if err := conn.Where("name = ?", c.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			conn.Create(&c)
		}
	}
}

// runSQLMigrations executes migrations in ./migrations using the
// golang-migrate file source. Postgres only; the sqlite dev path relies on
// AutoMigrate.
func runSQLMigrations(dsn string) error {
	if !IsPostgresDSN(dsn) {
		log.Println("MIGRATIONS set but DSN is not postgres; skipping sql migrations")
		return nil
	}
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
