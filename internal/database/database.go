package database

import (
	"fmt"
	"os"
	"time"

	"github.com/cliptube/backend/internal/logger"
	"github.com/cliptube/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open creates and configures the database connection. The handle is
// injected into every component at construction; there is no package-level
// connection.
func Open() (*gorm.DB, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		// Fallback to individual components
		host := getEnvOrDefault("DB_HOST", "localhost")
		port := getEnvOrDefault("DB_PORT", "5432")
		user := getEnvOrDefault("DB_USER", "postgres")
		password := getEnvOrDefault("DB_PASSWORD", "")
		dbname := getEnvOrDefault("DB_NAME", "cliptube")
		sslmode := getEnvOrDefault("DB_SSLMODE", "disable")

		databaseURL = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, password, dbname, sslmode)
	}

	gormLogger := gormlogger.Default
	if os.Getenv("ENVIRONMENT") == "development" {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Info)
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Log.Info("Database connected")

	return db, nil
}

// Migrate runs auto-migration for all models
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Video{},
		&models.Tweet{},
		&models.Blog{},
		&models.Comment{},
		&models.Playlist{},
		&models.PlaylistVideo{},
		&models.Reaction{},
		&models.WatchHistory{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logger.Log.Info("Database migrations completed")
	return nil
}

// createIndexes creates performance indexes beyond what the model tags
// declare. The unique tuple/pair indexes themselves come from the gorm tags
// so they exist in tests too.
func createIndexes(db *gorm.DB) error {
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_email_lower ON users (LOWER(email))")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_username_lower ON users (LOWER(username))")

	// Feed queries sort by recency within an owner or publish state
	db.Exec("CREATE INDEX IF NOT EXISTS idx_videos_owner_created ON videos (owner_id, created_at DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_videos_published_created ON videos (is_published, created_at DESC)")

	db.Exec("CREATE INDEX IF NOT EXISTS idx_comments_video_created ON comments (video_id, created_at DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_tweets_owner_created ON tweets (owner_id, created_at DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_blogs_creator_created ON blogs (created_by_id, created_at DESC)")

	// Subscriber lists scan by target
	db.Exec("CREATE INDEX IF NOT EXISTS idx_reactions_target ON reactions (target_kind, target_id)")

	return nil
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// Health checks database connectivity
func Health(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Ping()
}

// getEnvOrDefault returns environment variable or default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
