package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           App
	Service       Service
	DB            DB
	Redis         Redis
	JWT           JWT
	Paystack      Paystack
	Mail          Mail
	Delivery      Delivery
	Cache         Cache
	Notifications Notifications
	FeatureFlags  FeatureFlags
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Mail.validateMailboxes(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type App struct {
	Env          string `envconfig:"CHOPNOW_APP_ENV" required:"true"`
	Port         string `envconfig:"CHOPNOW_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CHOPNOW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CHOPNOW_LOG_WARN_STACK" default:"false"`
}

func (a App) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a App) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type Service struct {
	Kind string `envconfig:"CHOPNOW_SERVICE_KIND" default:"api"`
}

type DB struct {
	DSN    string `envconfig:"CHOPNOW_DB_DSN"`
	Driver string `envconfig:"CHOPNOW_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CHOPNOW_DB_HOST"`
	LegacyPort     int    `envconfig:"CHOPNOW_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CHOPNOW_DB_USER"`
	LegacyPassword string `envconfig:"CHOPNOW_DB_PASSWORD"`
	LegacyName     string `envconfig:"CHOPNOW_DB_NAME"`
	LegacySSLMode  string `envconfig:"CHOPNOW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CHOPNOW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CHOPNOW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CHOPNOW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CHOPNOW_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type Redis struct {
	URL          string        `envconfig:"CHOPNOW_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CHOPNOW_REDIS_ADDR"`
	Password     string        `envconfig:"CHOPNOW_REDIS_PASSWORD"`
	DB           int           `envconfig:"CHOPNOW_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CHOPNOW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CHOPNOW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CHOPNOW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CHOPNOW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CHOPNOW_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWT struct {
	Secret            string `envconfig:"CHOPNOW_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CHOPNOW_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CHOPNOW_JWT_EXPIRATION_MINUTES" default:"60"`
}

type Paystack struct {
	SecretKey   string        `envconfig:"CHOPNOW_PAYSTACK_SECRET_KEY" required:"true"`
	BaseURL     string        `envconfig:"CHOPNOW_PAYSTACK_BASE_URL" default:"https://api.paystack.co"`
	CallbackURL string        `envconfig:"CHOPNOW_PAYSTACK_CALLBACK_URL"`
	Timeout     time.Duration `envconfig:"CHOPNOW_PAYSTACK_TIMEOUT" default:"15s"`
}

// Mail carries the SMTP transport settings plus the explicit branch mailbox
// table. Senders and passwords are keyed by branch id and must line up; the
// pairing is checked once at startup instead of resolving env var names per
// branch at send time.
type Mail struct {
	SMTPHost        string            `envconfig:"CHOPNOW_MAIL_SMTP_HOST"`
	SMTPPort        int               `envconfig:"CHOPNOW_MAIL_SMTP_PORT" default:"587"`
	BranchSenders   map[string]string `envconfig:"CHOPNOW_MAIL_BRANCH_SENDERS"`
	BranchPasswords map[string]string `envconfig:"CHOPNOW_MAIL_BRANCH_PASSWORDS"`
}

// Mailbox is a resolved per-branch sending identity.
type Mailbox struct {
	Email    string
	Password string
}

func (m Mail) validateMailboxes() error {
	for branchID := range m.BranchSenders {
		if _, ok := m.BranchPasswords[branchID]; !ok {
			return fmt.Errorf("branch %s has a sender but no mailbox password (%s)", branchID, EnvMailBranchPasswords)
		}
	}
	for branchID := range m.BranchPasswords {
		if _, ok := m.BranchSenders[branchID]; !ok {
			return fmt.Errorf("branch %s has a mailbox password but no sender (%s)", branchID, EnvMailBranchSenders)
		}
	}
	return nil
}

// Mailboxes returns the branch id → mailbox table.
func (m Mail) Mailboxes() map[string]Mailbox {
	boxes := make(map[string]Mailbox, len(m.BranchSenders))
	for branchID, email := range m.BranchSenders {
		boxes[branchID] = Mailbox{Email: email, Password: m.BranchPasswords[branchID]}
	}
	return boxes
}

type Delivery struct {
	SundaySurcharge string `envconfig:"CHOPNOW_DELIVERY_SUNDAY_SURCHARGE" default:"100"`
	NightStartHour  int    `envconfig:"CHOPNOW_DELIVERY_NIGHT_START_HOUR" default:"18"`
	NightEndHour    int    `envconfig:"CHOPNOW_DELIVERY_NIGHT_END_HOUR" default:"6"`
}

type Cache struct {
	MenuTTL     time.Duration `envconfig:"CHOPNOW_CACHE_MENU_TTL" default:"5m"`
	WebhookTTL  time.Duration `envconfig:"CHOPNOW_CACHE_WEBHOOK_GUARD_TTL" default:"720h"`
	CategoryTTL time.Duration `envconfig:"CHOPNOW_CACHE_CATEGORY_TTL" default:"30m"`
}

type Notifications struct {
	Policy string `envconfig:"CHOPNOW_NOTIFY_POLICY" default:"confirmed_only"`
}

type FeatureFlags struct {
	AutoMigrate bool `envconfig:"CHOPNOW_AUTO_MIGRATE" default:"false"`
}

func (db *DB) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
