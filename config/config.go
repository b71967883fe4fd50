package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/wepodcaster-backend/models"
)

// Config is populated from the environment (and an optional .env file).
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"wepodcaster"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	// postgres hoặc memory
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	JWTSecret             string        `env:"JWT_SECRET,required,notEmpty"`
	JWTTTL                time.Duration `env:"JWT_TTL" envDefault:"72h"`
	IdentityWebhookSecret string        `env:"IDENTITY_WEBHOOK_SECRET"`
	GoogleClientID        string        `env:"GOOGLE_CLIENT_ID"`

	GoogleCredentialsFile string `env:"GOOGLE_CREDENTIALS_JSON"`
	GeminiAPIKey          string `env:"GEMINI_API_KEY"`

	SupabaseURL          string        `env:"SUPABASE_URL"`
	SupabaseKey          string        `env:"SUPABASE_KEY"`
	SupabaseBucket       string        `env:"SUPABASE_BUCKET" envDefault:"uploads"`
	SupabaseSignedURLTTL time.Duration `env:"SUPABASE_SIGNED_URL_TTL" envDefault:"0s"`

	GenerateRatePerMinute float64       `env:"GENERATE_RATE_PER_MINUTE" envDefault:"6"`
	GenerateBurst         int           `env:"GENERATE_BURST" envDefault:"3"`
	DraftIdleTTL          time.Duration `env:"DRAFT_IDLE_TTL" envDefault:"6h"`
}

// Load đọc .env (nếu có) rồi parse biến môi trường vào Config
func Load() (*Config, error) {
	// .env là tuỳ chọn, môi trường deploy set biến trực tiếp
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	for i, origin := range cfg.CORSAllowedOrigins {
		cfg.CORSAllowedOrigins[i] = strings.TrimSpace(origin)
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// DSN cho PostgreSQL
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

// InitDB mở kết nối gorm, cấu hình pool và AutoMigrate các model
func InitDB(cfg *Config, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Info
	if cfg.IsProduction() {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		// unique violation -> gorm.ErrDuplicatedKey
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Lấy *sql.DB để config connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Podcast{},
	); err != nil {
		return nil, fmt.Errorf("autoMigrate failed: %w", err)
	}

	log.Info("postgreSQL connected & migrated", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))
	return db, nil
}

// CloseDB đóng pool kết nối
func CloseDB(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
