package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string `yaml:"env" env-default:"local"`
	Telegram struct {
		ApiKey  string `yaml:"api_key" env:"TELEGRAM_API_KEY" env-default:""`
		AdminId int64  `yaml:"admin_id" env-default:"0"`
		BotName string `yaml:"bot_name" env-default:"BeautyGeniusBot"`
		Enabled bool   `yaml:"enabled" env-default:"false"`
	} `yaml:"telegram"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"27017"`
		User     string `yaml:"user" env-default:""`
		Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:""`
		Database string `yaml:"database" env-default:"beauty_genius"`
	} `yaml:"mongo"`
	Workflow struct {
		UploadTick   time.Duration `yaml:"upload_tick" env-default:"100ms"`
		DefaultTheme string        `yaml:"default_theme" env-default:"classic"`
		// Zero is meaningful for these two, so defaults are applied by Load
		// only when the key is absent.
		AutoAdvance *time.Duration `yaml:"auto_advance"`
		IdleTTL     *time.Duration `yaml:"idle_ttl"`
	} `yaml:"workflow"`
	Analysis struct {
		Mode     string        `yaml:"mode" env-default:"mock"`
		BaseURL  string        `yaml:"base_url" env-default:""`
		MinDelay time.Duration `yaml:"min_delay" env-default:"2s"`
		MaxDelay time.Duration `yaml:"max_delay" env-default:"5s"`
		Timeout  time.Duration `yaml:"timeout" env-default:"30s"`
	} `yaml:"analysis"`
	Upload struct {
		MaxSizeMB  int           `yaml:"max_size_mb" env-default:"5"`
		LinkTTL    time.Duration `yaml:"link_ttl" env-default:"15m"`
		LinkSecret string        `yaml:"link_secret" env:"UPLOAD_LINK_SECRET" env-default:""`
	} `yaml:"upload"`
	Listen struct {
		BindIP string `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port   string `yaml:"port" env-default:"9100"`
		ApiKey string `yaml:"key" env:"LISTEN_KEY" env-default:""`
	} `yaml:"listen"`
}

const (
	defaultAutoAdvance = 2 * time.Second
	defaultIdleTTL     = 30 * time.Minute
)

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	once.Do(func() {
		conf, err := Load(path)
		if err != nil {
			log.Fatal(err)
		}
		instance = conf
	})
	return instance
}

// Load reads the YAML file at path, applies environment overrides and defaults.
func Load(path string) (*Config, error) {
	conf := &Config{}
	if err := cleanenv.ReadConfig(path, conf); err != nil {
		desc, _ := cleanenv.GetDescription(conf, nil)
		return nil, fmt.Errorf("%s; %s", err, desc)
	}
	if conf.Analysis.MaxDelay < conf.Analysis.MinDelay {
		return nil, fmt.Errorf("analysis max_delay %s is below min_delay %s", conf.Analysis.MaxDelay, conf.Analysis.MinDelay)
	}
	if conf.Workflow.AutoAdvance == nil {
		d := defaultAutoAdvance
		conf.Workflow.AutoAdvance = &d
	}
	if conf.Workflow.IdleTTL == nil {
		d := defaultIdleTTL
		conf.Workflow.IdleTTL = &d
	}
	if *conf.Workflow.AutoAdvance < 0 || *conf.Workflow.IdleTTL < 0 {
		return nil, fmt.Errorf("workflow auto_advance and idle_ttl must not be negative")
	}
	if conf.Workflow.UploadTick <= 0 {
		return nil, fmt.Errorf("workflow upload_tick must be positive, got %s", conf.Workflow.UploadTick)
	}
	switch conf.Analysis.Mode {
	case "mock":
	case "http":
		if conf.Analysis.BaseURL == "" {
			return nil, fmt.Errorf("analysis base_url is required in http mode")
		}
	default:
		return nil, fmt.Errorf("unknown analysis mode %q", conf.Analysis.Mode)
	}
	return conf, nil
}
