package configs

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// Kebijakan saat izin yang disetujui bertabrakan dengan presensi yang sudah ada.
const (
	LeaveOverlapStrict = "strict"
	LeaveOverlapMerge  = "merge"
)

type AppConfig struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	SchoolTimezone     string
	RequestTimeout     time.Duration
	StatementTimeoutMs int
	TxMaxRetries       int

	// Tolak perubahan nilai kalau assessment sudah locked/published.
	ScoreLockGuard       bool
	LeaveOverlapPolicy   string
	DefaultPassThreshold int

	SweepEnabled bool
	SweepCron    string

	CORSOrigins        []string
	RateLimitPerMinute int
}

// Location: zona waktu sekolah, fallback ke UTC.
func (c AppConfig) Location() *time.Location {
	if loc, err := time.LoadLocation(c.SchoolTimezone); err == nil {
		return loc
	}
	return time.UTC
}

func (c AppConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=sekolahku&options=-c statement_timeout=%d",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode, c.StatementTimeoutMs,
	)
}

// Default dipakai juga oleh test (tanpa ENV).
func Default() AppConfig {
	return AppConfig{
		Port:                 "3000",
		DBSSLMode:            "require",
		SchoolTimezone:       "Asia/Jakarta",
		RequestTimeout:       5 * time.Second,
		StatementTimeoutMs:   3000,
		TxMaxRetries:         3,
		ScoreLockGuard:       false,
		LeaveOverlapPolicy:   LeaveOverlapStrict,
		DefaultPassThreshold: 75,
		SweepEnabled:         true,
		SweepCron:            "0 18 * * 1-5",
		CORSOrigins: []string{
			"http://localhost:5173",
			"http://127.0.0.1:5500",
		},
		RateLimitPerMinute: 100,
	}
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}
}

// LoadConfig membaca .env lalu ENV (viper) ke AppConfig.
func LoadConfig() AppConfig {
	LoadEnv()

	def := Default()
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", def.Port)
	v.SetDefault("DB_SSLMODE", def.DBSSLMode)
	v.SetDefault("SCHOOL_TIMEZONE", def.SchoolTimezone)
	v.SetDefault("REQUEST_TIMEOUT", def.RequestTimeout)
	v.SetDefault("DB_STATEMENT_TIMEOUT_MS", def.StatementTimeoutMs)
	v.SetDefault("TX_MAX_RETRIES", def.TxMaxRetries)
	v.SetDefault("SCORE_LOCK_GUARD", def.ScoreLockGuard)
	v.SetDefault("LEAVE_OVERLAP_POLICY", def.LeaveOverlapPolicy)
	v.SetDefault("DEFAULT_PASS_THRESHOLD", def.DefaultPassThreshold)
	v.SetDefault("ATTENDANCE_SWEEP_ENABLED", def.SweepEnabled)
	v.SetDefault("ATTENDANCE_SWEEP_CRON", def.SweepCron)
	v.SetDefault("CORS_ORIGINS", strings.Join(def.CORSOrigins, ","))
	v.SetDefault("RATE_LIMIT_PER_MINUTE", def.RateLimitPerMinute)

	cfg := AppConfig{
		Port:                 v.GetString("PORT"),
		DBHost:               v.GetString("DB_HOST"),
		DBPort:               v.GetString("DB_PORT"),
		DBUser:               v.GetString("DB_USER"),
		DBPassword:           v.GetString("DB_PASSWORD"),
		DBName:               v.GetString("DB_NAME"),
		DBSSLMode:            v.GetString("DB_SSLMODE"),
		SchoolTimezone:       v.GetString("SCHOOL_TIMEZONE"),
		RequestTimeout:       v.GetDuration("REQUEST_TIMEOUT"),
		StatementTimeoutMs:   v.GetInt("DB_STATEMENT_TIMEOUT_MS"),
		TxMaxRetries:         v.GetInt("TX_MAX_RETRIES"),
		ScoreLockGuard:       v.GetBool("SCORE_LOCK_GUARD"),
		LeaveOverlapPolicy:   strings.ToLower(strings.TrimSpace(v.GetString("LEAVE_OVERLAP_POLICY"))),
		DefaultPassThreshold: v.GetInt("DEFAULT_PASS_THRESHOLD"),
		SweepEnabled:         v.GetBool("ATTENDANCE_SWEEP_ENABLED"),
		SweepCron:            v.GetString("ATTENDANCE_SWEEP_CRON"),
		CORSOrigins:          splitCSV(v.GetString("CORS_ORIGINS")),
		RateLimitPerMinute:   v.GetInt("RATE_LIMIT_PER_MINUTE"),
	}

	if cfg.LeaveOverlapPolicy != LeaveOverlapStrict && cfg.LeaveOverlapPolicy != LeaveOverlapMerge {
		log.Printf("⚠️ LEAVE_OVERLAP_POLICY=%q tidak dikenal, pakai %q", cfg.LeaveOverlapPolicy, LeaveOverlapStrict)
		cfg.LeaveOverlapPolicy = LeaveOverlapStrict
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if cfg.TxMaxRetries < 1 {
		cfg.TxMaxRetries = 1
	}
	if cfg.DBHost == "" {
		log.Println("❌ DB_HOST belum diset!")
	}
	return cfg
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// =======================
// DATABASE CONNECTOR (CLI / seeder)
// =======================
func InitSeederDB(cfg AppConfig) *gorm.DB {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // ✅ hindari cache prepared statement
	}), &gorm.Config{
		Logger: NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ Gagal koneksi ke database (CLI): %v", err)
	}
	log.Println("✅ Database (CLI) terkoneksi.")
	return db
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormLogger.Warn,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && err != gorm.ErrRecordNotFound:
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold:
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
