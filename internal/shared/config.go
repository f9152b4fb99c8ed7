package shared

import (
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/rs/zerolog/log"

	"p2p_estate/internal/fees"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"prod"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	MetricsAddr string `env:"METRICS_ADDR"`
	MySQLDSN    string `env:"MYSQL_DSN" envDefault:"root:root@tcp(localhost:3306)/estate?parseTime=true&charset=utf8mb4,utf8&loc=UTC"`
	RedisAddr   string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass   string `env:"REDIS_PASSWORD"`
	RedisDB     int    `env:"REDIS_DB" envDefault:"0"`

	DigestWorkers     int `env:"DIGEST_WORKERS" envDefault:"8"`
	DigestRepeatHours int `env:"DIGEST_REPEAT_HOURS" envDefault:"24"`
	DigestRepeat      time.Duration
	NotifyURL         string  `env:"NOTIFY_URL"`
	NotifyRPS         float64 `env:"NOTIFY_RPS" envDefault:"5"`

	AddOns AddOnConfig
}

// AddOnConfig prices the optional per-listing services, in yen.
type AddOnConfig struct {
	PhotoCost      int64 `env:"ADDON_PHOTO_COST" envDefault:"30000"`
	AdMonthly      int64 `env:"ADDON_AD_MONTHLY" envDefault:"10000"`
	AdMonths       int   `env:"ADDON_AD_MONTHS" envDefault:"3"`
	ViewingMonthly int64 `env:"ADDON_VIEWING_MONTHLY" envDefault:"5000"`
	ViewingMonths  int   `env:"ADDON_VIEWING_MONTHS" envDefault:"3"`
}

func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, err
	}
	c.DigestRepeat = time.Duration(c.DigestRepeatHours) * time.Hour
	if c.NotifyURL == "" {
		log.Warn().Msg("NOTIFY_URL is empty; digests will not be delivered")
	}
	return c, nil
}

// Catalog builds the add-on catalog from the configured prices.
func (c Config) Catalog() (*fees.Catalog, error) {
	return fees.NewCatalog(
		fees.AddOn{Key: fees.AddOnProfessionalPhoto, Name: "Professional photography", UnitCost: c.AddOns.PhotoCost},
		fees.AddOn{Key: fees.AddOnAdListing, Name: "Featured ad listing", UnitCost: c.AddOns.AdMonthly, Months: c.AddOns.AdMonths},
		fees.AddOn{Key: fees.AddOnViewingAssistance, Name: "Viewing assistance", UnitCost: c.AddOns.ViewingMonthly, Months: c.AddOns.ViewingMonths},
	)
}
