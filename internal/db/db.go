// Package db provides database connectivity and operations
package db

import (
	"errors"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/remoteindex/remoteindex/internal/db/models"
)

// Database configuration constants
const (
	// DefaultHost is the default database host
	DefaultHost = "localhost"
	// DefaultPort is the default database port
	DefaultPort = 5432
	// DefaultUser is the default database user
	DefaultUser = "postgres"
	// DefaultPassword is the default database password
	DefaultPassword = "postgres"
	// DefaultDBName is the default database name
	DefaultDBName     = "remoteindex"
	DefaultSSLEnabled = false
)

// Options represents database connection configuration options
type Options struct {
	Host       string
	User       string
	Password   string
	DBName     string
	Port       int
	SSLEnabled *bool
	LogLevel   logger.LogLevel
}

// New creates a new database connection with the given options
func New(opts Options) (*gorm.DB, error) {
	opts = setDefaults(opts)
	sslMode := "disable"
	if opts.SSLEnabled != nil && *opts.SSLEnabled {
		sslMode = "enable"
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		opts.Host, opts.User, opts.Password, opts.DBName, opts.Port, sslMode)

	// Configure custom logger to ignore record not found errors
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			LogLevel:                  opts.LogLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	// Configure GORM
	config := &gorm.Config{
		Logger: newLogger,
	}

	db, err := gorm.Open(postgres.Open(dsn), config)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}

	if err := seedCategories(db); err != nil {
		// Reference data is convenient but not required for syncing
		log.Printf("Warning: failed to seed categories: %v", err)
	}

	return db, nil
}

// IsDuplicateKeyError checks if the given error is a PostgreSQL duplicate key error
func IsDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return errors.Is(postgres.Dialector{}.Translate(err), gorm.ErrDuplicatedKey)
}

func setDefaults(opts Options) Options {
	if opts.Host == "" {
		opts.Host = DefaultHost
	}
	if opts.User == "" {
		opts.User = DefaultUser
	}
	if opts.Password == "" {
		opts.Password = DefaultPassword
	}
	if opts.DBName == "" {
		opts.DBName = DefaultDBName
	}
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}
	if opts.SSLEnabled == nil {
		sslMode := DefaultSSLEnabled
		opts.SSLEnabled = &sslMode
	}
	if opts.LogLevel == 0 {
		opts.LogLevel = logger.Warn
	}
	return opts
}

// Migrate runs the gorm auto-migrations for every engine entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.JobPosting{},
		&models.Category{},
		&models.PotentialCompany{},
		&models.DiscoveredCompany{},
		&models.CompanyJobProgress{},
		&models.SyncHistory{},
		&models.DuplicateJobPair{},
	)
}

// defaultCategories is the reference taxonomy postings are classified into.
var defaultCategories = []models.Category{
	{Name: "Engineering", Slug: "engineering", Description: "Software and hardware engineering roles"},
	{Name: "Design", Slug: "design", Description: "Product, visual and UX design roles"},
	{Name: "Product", Slug: "product", Description: "Product and project management roles"},
	{Name: "Data", Slug: "data", Description: "Data science, analytics and ML roles"},
	{Name: "Marketing", Slug: "marketing", Description: "Marketing, growth and content roles"},
	{Name: "Sales", Slug: "sales", Description: "Sales and business development roles"},
	{Name: "Operations", Slug: "operations", Description: "Operations, HR, finance and support roles"},
	{Name: "Other", Slug: "other", Description: "Everything that does not fit another category"},
}

// seedCategories ensures the default category rows exist in the database.
func seedCategories(db *gorm.DB) error {
	for _, cat := range defaultCategories {
		result := db.Where(&models.Category{Slug: cat.Slug}).FirstOrCreate(&models.Category{}, cat)
		if result.Error != nil {
			return fmt.Errorf("failed to ensure category %q exists: %w", cat.Slug, result.Error)
		}
	}
	return nil
}
