// Package testhelpers provides the shared database fixtures for service and
// handler tests: an in-memory SQLite database for fast unit tests and a
// containerized pgvector Postgres for tests that need real Postgres
// behavior.
package testhelpers

import (
	"context"
	"fmt"
	"os/exec"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/platewise/backend/internal/database"
)

// sqliteSchema mirrors the Postgres schema for in-memory test databases.
// SQLite cannot evaluate the gen_random_uuid() column defaults the models
// declare, so the tables are created by hand and the BeforeCreate hooks
// supply IDs.
var sqliteSchema = []string{
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		onboarded NUMERIC NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE user_profiles (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		username TEXT NOT NULL UNIQUE,
		household_size INTEGER NOT NULL DEFAULT 1,
		cooking_ability_level TEXT DEFAULT 'beginner',
		weekly_budget_cents INTEGER,
		calorie_target INTEGER,
		protein_target_grams INTEGER,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`,
	`CREATE TABLE dietary_preferences (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		preference_type TEXT NOT NULL,
		custom_name TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`,
	`CREATE TABLE allergens (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		allergen_name TEXT NOT NULL,
		severity_level INTEGER NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`,
	`CREATE TABLE ingredients (
		id TEXT PRIMARY KEY,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME,
		name TEXT NOT NULL,
		category TEXT,
		serving_size REAL NOT NULL DEFAULT 1,
		serving_unit TEXT NOT NULL,
		calories REAL,
		protein REAL,
		carbs REAL,
		fat REAL,
		fiber REAL,
		sugar REAL,
		usda_fdc_id INTEGER,
		usda_description TEXT,
		usda_calories_100g REAL,
		usda_protein_100g REAL,
		usda_carbs_100g REAL,
		usda_fat_100g REAL,
		usda_fiber_100g REAL,
		usda_sugar_100g REAL,
		conversion_method TEXT,
		gram_weight REAL
	);`,
	`CREATE TABLE meal_plans (
		id TEXT PRIMARY KEY,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		week_start DATETIME NOT NULL,
		status TEXT NOT NULL DEFAULT 'draft',
		notes TEXT,
		share_token TEXT UNIQUE,
		embedding TEXT
	);`,
	`CREATE TABLE planned_meals (
		id TEXT PRIMARY KEY,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME,
		plan_id TEXT NOT NULL,
		day_of_week TEXT NOT NULL,
		meal_type TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		prep_minutes INTEGER,
		servings INTEGER NOT NULL DEFAULT 1,
		display_order INTEGER NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE meal_ingredients (
		id TEXT PRIMARY KEY,
		created_at DATETIME,
		updated_at DATETIME,
		meal_id TEXT NOT NULL,
		ingredient_id TEXT NOT NULL,
		quantity REAL NOT NULL,
		unit TEXT NOT NULL
	);`,
	`CREATE TABLE prep_sessions (
		id TEXT PRIMARY KEY,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME,
		plan_id TEXT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		day_of_week TEXT,
		duration_minutes INTEGER,
		tasks TEXT,
		equipment TEXT,
		storage_tips TEXT,
		notes TEXT,
		display_order INTEGER NOT NULL DEFAULT 0,
		completed NUMERIC NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE grocery_items (
		id TEXT PRIMARY KEY,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME,
		plan_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		ingredient_id TEXT,
		name TEXT NOT NULL,
		category TEXT,
		quantity REAL NOT NULL,
		unit TEXT NOT NULL,
		checked NUMERIC NOT NULL DEFAULT 0
	);`,
	`CREATE TABLE diary_entries (
		id TEXT PRIMARY KEY,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME,
		user_id TEXT NOT NULL,
		ingredient_id TEXT NOT NULL,
		logged_at DATETIME NOT NULL,
		meal_type TEXT,
		servings REAL NOT NULL DEFAULT 1,
		calories REAL,
		protein REAL,
		carbs REAL,
		fat REAL,
		fiber REAL,
		sugar REAL
	);`,
	`CREATE TABLE subscriptions (
		id TEXT PRIMARY KEY,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME,
		user_id TEXT NOT NULL UNIQUE,
		tier TEXT NOT NULL DEFAULT 'free',
		status TEXT NOT NULL DEFAULT 'active',
		product_id TEXT,
		expires_at DATETIME,
		event_id TEXT,
		last_event_type TEXT
	);`,
}

// SetupSQLiteDatabase opens a fresh in-memory SQLite database with the full
// schema. Each call gets its own database, so tests stay independent.
func SetupSQLiteDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	for _, stmt := range sqliteSchema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("failed to create test schema: %v", err)
		}
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// SetupPostgresDatabase starts a pgvector Postgres container, migrates the
// schema and returns a connection. Skips when docker is unavailable.
func SetupPostgresDatabase(t *testing.T) *gorm.DB {
	t.Helper()
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}

	const (
		dbUser     = "postgres"
		dbPassword = "postpass"
		dbName     = "platewise_test"
	)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "pgvector/pgvector:pg16",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     dbUser,
				"POSTGRES_PASSWORD": dbPassword,
				"POSTGRES_DB":       dbName,
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
					return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
						dbUser, dbPassword, host, port.Port(), dbName)
				}),
			).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	mappedPort, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, mappedPort.Port(), dbUser, dbPassword, dbName)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector;").Error; err != nil {
		t.Fatalf("failed to install pgvector extension: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate postgres database: %v", err)
	}
	return db
}
