package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"testing"
	"time"

	"deployment-tracker/internal/config"
	"deployment-tracker/internal/database"
	"deployment-tracker/internal/database/models"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for readiness ping
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

const (
	pgUser     = "tracker"
	pgPassword = "tracker"
	pgDatabase = "tracker_test"
)

// One Postgres container serves every integration suite of a test binary
var (
	sharedOnce     sync.Once
	sharedInitErr  error
	sharedPool     *dockertest.Pool
	sharedResource *dockertest.Resource
	sharedDB       *gorm.DB
	sharedConfig   *config.Config
)

// BaseTestSuite carries a migrated database and a matching config
type BaseTestSuite struct {
	suite.Suite
	DB     *gorm.DB
	Config *config.Config
	Driver string
}

// SetupTestSuite starts the shared Postgres container on first use and
// returns a suite bound to it
func SetupTestSuite(t *testing.T) *BaseTestSuite {
	sharedOnce.Do(func() { sharedInitErr = startPostgres() })
	if sharedInitErr != nil {
		t.Fatalf("failed to initialize shared test container: %v", sharedInitErr)
	}
	return &BaseTestSuite{
		DB:     sharedDB,
		Config: sharedConfig,
		Driver: database.DriverPostgres,
	}
}

// SetupSQLiteSuite returns a suite over a fresh, migrated in-memory sqlite
// database. It needs no Docker and is what unit-level tests use.
func SetupSQLiteSuite(t *testing.T) *BaseTestSuite {
	return &BaseTestSuite{
		DB:     NewSQLiteDB(t),
		Driver: database.DriverSQLite,
		Config: testConfig(database.DriverSQLite, ":memory:"),
	}
}

// NewSQLiteDB opens a migrated in-memory database that is closed when t ends
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Initialize(":memory:", &database.Options{Driver: database.DriverSQLite})
	if err != nil {
		t.Fatalf("failed to open sqlite test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// CleanupSharedContainer closes the shared database and purges its
// container. TestMain of integration packages calls it once.
func CleanupSharedContainer() {
	if sharedDB != nil {
		if sqlDB, err := sharedDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if sharedPool != nil && sharedResource != nil {
		if err := sharedPool.Purge(sharedResource); err != nil {
			log.Printf("WARN: could not purge postgres container %s: %v", sharedResource.Container.Name, err)
		}
	}
	sharedResource = nil
	sharedPool = nil
	sharedDB = nil
}

func (s *BaseTestSuite) SetupTest()    { s.CleanTestDB() }
func (s *BaseTestSuite) TearDownTest() { s.CleanTestDB() }

// TeardownTestSuite empties the tables; the container outlives the suite
func (s *BaseTestSuite) TeardownTestSuite() { s.CleanTestDB() }

// CleanTestDB empties every application table that exists
func (s *BaseTestSuite) CleanTestDB() {
	if s.DB == nil {
		return
	}
	m := s.DB.Migrator()
	if s.Driver == database.DriverSQLite {
		for _, t := range cleanupTables {
			if m.HasTable(t) {
				s.DB.Exec(`DELETE FROM "` + t + `"`)
			}
		}
		return
	}

	s.DB.Exec(`SET session_replication_role = replica;`)
	for _, t := range cleanupTables {
		if m.HasTable(t) {
			s.DB.Exec(`TRUNCATE TABLE "` + t + `" RESTART IDENTITY CASCADE;`)
		}
	}
	s.DB.Exec(`SET session_replication_role = DEFAULT;`)
}

// cleanupTables lists tables children first so sqlite deletes respect
// foreign keys
var cleanupTables = []string{
	"deployment_field_values",
	"deployments",
	"project_fields",
	"projects",
	"users",
	"technicians",
	"departments",
	"deployment_statuses",
}

func testConfig(driver, dsn string) *config.Config {
	return &config.Config{
		Environment:    "test",
		Port:           "8080",
		LogLevel:       "debug",
		DatabaseDriver: driver,
		DatabaseURL:    dsn,
		JWTSecret:      "test-secret",
		MaxUploadMB:    10,
	}
}

func startPostgres() error {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return fmt.Errorf("could not connect to docker: %w", err)
	}
	pool.MaxWait = 2 * time.Minute
	sharedPool = pool

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=" + pgUser,
			"POSTGRES_PASSWORD=" + pgPassword,
			"POSTGRES_DB=" + pgDatabase,
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return fmt.Errorf("could not start postgres: %w", err)
	}
	sharedResource = resource

	dsn := fmt.Sprintf("postgres://%s:%s@127.0.0.1:%s/%s?sslmode=disable",
		pgUser, pgPassword, resource.GetPort("5432/tcp"), pgDatabase)

	// The container accepts TCP before Postgres accepts logins, so ping
	// through database/sql until it answers, then migrate through gorm.
	err = pool.Retry(func() error {
		std, err := sql.Open("pgx", dsn)
		if err != nil {
			return err
		}
		defer std.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := std.PingContext(ctx); err != nil {
			return err
		}

		gdb, err := database.Initialize(dsn, &database.Options{Driver: database.DriverPostgres})
		if err != nil {
			return err
		}
		sharedDB = gdb
		return nil
	})
	if err != nil {
		return fmt.Errorf("could not connect to docker database: %w", err)
	}

	if err := checkSchema(sharedDB); err != nil {
		return err
	}
	sharedConfig = testConfig(database.DriverPostgres, dsn)
	log.Printf("Shared Postgres ready at %s", resource.GetHostPort("5432/tcp"))
	return nil
}

// checkSchema fails fast when migrations left a model without its table
func checkSchema(db *gorm.DB) error {
	m := db.Migrator()
	for _, model := range models.All() {
		if !m.HasTable(model) {
			return fmt.Errorf("migration did not create table for %T", model)
		}
	}
	return nil
}
