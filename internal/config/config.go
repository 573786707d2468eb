package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"vendido/internal/infer"
)

// Config holds all application configuration.
type Config struct {
	Holded   HoldedConfig
	Mail     MailConfig
	Report   ReportConfig
	Pack     PackConfig
	Status   StatusConfig
	Ledger   LedgerConfig
	Archive  ArchiveConfig
	Server   ServerConfig
	Schedule ScheduleConfig
}

// HoldedConfig holds invoicing API settings.
type HoldedConfig struct {
	APIKey      string `mapstructure:"api_key"`
	UseBearer   bool   `mapstructure:"use_bearer"`
	BaseURL     string `mapstructure:"base_url"`
	PageLimit   int    `mapstructure:"page_limit"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// MailConfig holds email delivery settings.
type MailConfig struct {
	Provider string `mapstructure:"provider"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from_name"`
	// To is the recipient list, configured as a comma-separated string.
	To       []string
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	SMTPUser string `mapstructure:"smtp_user"`
	SMTPPass string `mapstructure:"smtp_pass"`
	Region   string `mapstructure:"region"`
}

// ReportConfig holds report rendering settings.
type ReportConfig struct {
	Timezone string `mapstructure:"timezone"`
	Limit    int    `mapstructure:"limit"`
}

// PackConfig holds pack-size inference data: candidate sizes, the tie-break
// preference, and "size=pattern" rules separated by semicolons.
type PackConfig struct {
	Sizes     []int
	Preferred int    `mapstructure:"preferred"`
	Rules     string `mapstructure:"rules"`
}

// StatusConfig holds the numeric status codes of the upstream encoding.
type StatusConfig struct {
	DraftCodes []int
	VoidCodes  []int
}

// LedgerConfig holds dedup ledger persistence settings.
type LedgerConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
	DB      DBConfig
}

// DBConfig holds PostgreSQL connection settings for the postgres ledger.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// ArchiveConfig holds raw document archive settings.
type ArchiveConfig struct {
	Backend   string `mapstructure:"backend"`
	Dir       string `mapstructure:"dir"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// ScheduleConfig holds the daily digest schedule.
type ScheduleConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron"`
}

// InferPackConfig compiles the pack settings into the inference engine's
// form. Rules use the format "size=pattern;size=pattern"; patterns are
// matched case-insensitively.
func (c *Config) InferPackConfig() (infer.PackConfig, error) {
	cfg := infer.PackConfig{
		Sizes:     c.Pack.Sizes,
		Preferred: c.Pack.Preferred,
	}
	if strings.TrimSpace(c.Pack.Rules) == "" {
		cfg.Rules = infer.DefaultPackConfig().Rules
		return cfg, nil
	}
	for _, raw := range strings.Split(c.Pack.Rules, ";") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		size, pattern, ok := strings.Cut(raw, "=")
		if !ok {
			return cfg, fmt.Errorf("pack rule %q: want size=pattern", raw)
		}
		n, err := strconv.Atoi(strings.TrimSpace(size))
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("pack rule %q: bad size", raw)
		}
		re, err := regexp.Compile("(?i)" + strings.TrimSpace(pattern))
		if err != nil {
			return cfg, fmt.Errorf("pack rule %q: %w", raw, err)
		}
		cfg.Rules = append(cfg.Rules, infer.PackRule{Pattern: re, Size: n})
	}
	return cfg, nil
}

// InferStatusConfig returns the status-code settings in the inference
// engine's form.
func (c *Config) InferStatusConfig() infer.StatusConfig {
	return infer.StatusConfig{
		DraftCodes: c.Status.DraftCodes,
		VoidCodes:  c.Status.VoidCodes,
	}
}

// Location resolves the configured report timezone, falling back to UTC when
// tzdata is unavailable.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Report.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables with the VENDIDO_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("VENDIDO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Holded defaults
	v.SetDefault("holded.api_key", "")
	v.SetDefault("holded.use_bearer", false)
	v.SetDefault("holded.base_url", "https://api.holded.com/api/invoicing/v1")
	v.SetDefault("holded.page_limit", 200)
	v.SetDefault("holded.timeout_secs", 60)

	// Mail defaults
	v.SetDefault("mail.provider", "noop")
	v.SetDefault("mail.from", "")
	v.SetDefault("mail.from_name", "VENDIDO")
	v.SetDefault("mail.to", "")
	v.SetDefault("mail.smtp_host", "")
	v.SetDefault("mail.smtp_port", 587)
	v.SetDefault("mail.smtp_user", "")
	v.SetDefault("mail.smtp_pass", "")
	v.SetDefault("mail.region", "eu-west-1")

	// Report defaults
	v.SetDefault("report.timezone", "Europe/Madrid")
	v.SetDefault("report.limit", 10)

	// Pack defaults
	v.SetDefault("pack.sizes", "36,37,35,31,30")
	v.SetDefault("pack.preferred", 36)
	v.SetDefault("pack.rules", "")

	// Status code defaults
	v.SetDefault("status.draft_codes", "0")
	v.SetDefault("status.void_codes", "9,99")

	// Ledger defaults
	v.SetDefault("ledger.backend", "file")
	v.SetDefault("ledger.path", "processed_invoices.json")
	v.SetDefault("ledger.db.host", "localhost")
	v.SetDefault("ledger.db.port", 5432)
	v.SetDefault("ledger.db.user", "vendido")
	v.SetDefault("ledger.db.password", "vendido_secret")
	v.SetDefault("ledger.db.name", "vendido_db")
	v.SetDefault("ledger.db.sslmode", "disable")
	v.SetDefault("ledger.db.max_open", 5)
	v.SetDefault("ledger.db.max_idle", 2)

	// Archive defaults
	v.SetDefault("archive.backend", "none")
	v.SetDefault("archive.dir", "dumps")
	v.SetDefault("archive.region", "eu-west-1")
	v.SetDefault("archive.bucket", "")
	v.SetDefault("archive.endpoint", "")
	v.SetDefault("archive.access_key", "")
	v.SetDefault("archive.secret_key", "")

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// Schedule defaults: daily digest at 07:00 local time
	v.SetDefault("schedule.enabled", true)
	v.SetDefault("schedule.cron", "0 7 * * *")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"holded.api_key":      "VENDIDO_HOLDED_API_KEY",
		"holded.use_bearer":   "VENDIDO_HOLDED_USE_BEARER",
		"holded.base_url":     "VENDIDO_HOLDED_BASE_URL",
		"holded.page_limit":   "VENDIDO_HOLDED_PAGE_LIMIT",
		"holded.timeout_secs": "VENDIDO_HOLDED_TIMEOUT_SECS",
		"mail.provider":       "VENDIDO_MAIL_PROVIDER",
		"mail.from":           "VENDIDO_MAIL_FROM",
		"mail.from_name":      "VENDIDO_MAIL_FROM_NAME",
		"mail.to":             "VENDIDO_MAIL_TO",
		"mail.smtp_host":      "VENDIDO_MAIL_SMTP_HOST",
		"mail.smtp_port":      "VENDIDO_MAIL_SMTP_PORT",
		"mail.smtp_user":      "VENDIDO_MAIL_SMTP_USER",
		"mail.smtp_pass":      "VENDIDO_MAIL_SMTP_PASS",
		"mail.region":         "VENDIDO_MAIL_REGION",
		"report.timezone":     "VENDIDO_REPORT_TIMEZONE",
		"report.limit":        "VENDIDO_REPORT_LIMIT",
		"pack.sizes":          "VENDIDO_PACK_SIZES",
		"pack.preferred":      "VENDIDO_PACK_PREFERRED",
		"pack.rules":          "VENDIDO_PACK_RULES",
		"status.draft_codes":  "VENDIDO_STATUS_DRAFT_CODES",
		"status.void_codes":   "VENDIDO_STATUS_VOID_CODES",
		"ledger.backend":      "VENDIDO_LEDGER_BACKEND",
		"ledger.path":         "VENDIDO_LEDGER_PATH",
		"ledger.db.host":      "VENDIDO_LEDGER_DB_HOST",
		"ledger.db.port":      "VENDIDO_LEDGER_DB_PORT",
		"ledger.db.user":      "VENDIDO_LEDGER_DB_USER",
		"ledger.db.password":  "VENDIDO_LEDGER_DB_PASSWORD",
		"ledger.db.name":      "VENDIDO_LEDGER_DB_NAME",
		"ledger.db.sslmode":   "VENDIDO_LEDGER_DB_SSLMODE",
		"ledger.db.max_open":  "VENDIDO_LEDGER_DB_MAX_OPEN",
		"ledger.db.max_idle":  "VENDIDO_LEDGER_DB_MAX_IDLE",
		"archive.backend":     "VENDIDO_ARCHIVE_BACKEND",
		"archive.dir":         "VENDIDO_ARCHIVE_DIR",
		"archive.region":      "VENDIDO_ARCHIVE_REGION",
		"archive.bucket":      "VENDIDO_ARCHIVE_BUCKET",
		"archive.endpoint":    "VENDIDO_ARCHIVE_ENDPOINT",
		"archive.access_key":  "VENDIDO_ARCHIVE_ACCESS_KEY",
		"archive.secret_key":  "VENDIDO_ARCHIVE_SECRET_KEY",
		"server.port":         "VENDIDO_SERVER_PORT",
		"server.read_timeout": "VENDIDO_SERVER_READ_TIMEOUT",
		"server.write_timeout": "VENDIDO_SERVER_WRITE_TIMEOUT",
		"server.environment":   "VENDIDO_SERVER_ENVIRONMENT",
		"schedule.enabled":     "VENDIDO_SCHEDULE_ENABLED",
		"schedule.cron":        "VENDIDO_SCHEDULE_CRON",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	cfg.Holded = HoldedConfig{
		APIKey:      v.GetString("holded.api_key"),
		UseBearer:   v.GetBool("holded.use_bearer"),
		BaseURL:     strings.TrimRight(v.GetString("holded.base_url"), "/"),
		PageLimit:   v.GetInt("holded.page_limit"),
		TimeoutSecs: v.GetInt("holded.timeout_secs"),
	}
	cfg.Mail = MailConfig{
		Provider: v.GetString("mail.provider"),
		From:     v.GetString("mail.from"),
		FromName: v.GetString("mail.from_name"),
		To:       splitList(v.GetString("mail.to")),
		SMTPHost: v.GetString("mail.smtp_host"),
		SMTPPort: v.GetInt("mail.smtp_port"),
		SMTPUser: v.GetString("mail.smtp_user"),
		SMTPPass: v.GetString("mail.smtp_pass"),
		Region:   v.GetString("mail.region"),
	}
	cfg.Report = ReportConfig{
		Timezone: v.GetString("report.timezone"),
		Limit:    v.GetInt("report.limit"),
	}

	sizes, err := splitInts(v.GetString("pack.sizes"))
	if err != nil {
		return nil, fmt.Errorf("pack.sizes: %w", err)
	}
	cfg.Pack = PackConfig{
		Sizes:     sizes,
		Preferred: v.GetInt("pack.preferred"),
		Rules:     v.GetString("pack.rules"),
	}

	draftCodes, err := splitInts(v.GetString("status.draft_codes"))
	if err != nil {
		return nil, fmt.Errorf("status.draft_codes: %w", err)
	}
	voidCodes, err := splitInts(v.GetString("status.void_codes"))
	if err != nil {
		return nil, fmt.Errorf("status.void_codes: %w", err)
	}
	cfg.Status = StatusConfig{DraftCodes: draftCodes, VoidCodes: voidCodes}

	cfg.Ledger = LedgerConfig{
		Backend: v.GetString("ledger.backend"),
		Path:    v.GetString("ledger.path"),
		DB: DBConfig{
			Host:     v.GetString("ledger.db.host"),
			Port:     v.GetInt("ledger.db.port"),
			User:     v.GetString("ledger.db.user"),
			Password: v.GetString("ledger.db.password"),
			Name:     v.GetString("ledger.db.name"),
			SSLMode:  v.GetString("ledger.db.sslmode"),
			MaxOpen:  v.GetInt("ledger.db.max_open"),
			MaxIdle:  v.GetInt("ledger.db.max_idle"),
		},
	}
	cfg.Archive = ArchiveConfig{
		Backend:   v.GetString("archive.backend"),
		Dir:       v.GetString("archive.dir"),
		Region:    v.GetString("archive.region"),
		Bucket:    v.GetString("archive.bucket"),
		Endpoint:  v.GetString("archive.endpoint"),
		AccessKey: v.GetString("archive.access_key"),
		SecretKey: v.GetString("archive.secret_key"),
	}
	cfg.Server = ServerConfig{
		Port:         v.GetString("server.port"),
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Schedule = ScheduleConfig{
		Enabled: v.GetBool("schedule.enabled"),
		Cron:    v.GetString("schedule.cron"),
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func splitInts(s string) ([]int, error) {
	var out []int
	for _, item := range splitList(s) {
		n, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("bad integer %q", item)
		}
		out = append(out, n)
	}
	return out, nil
}
