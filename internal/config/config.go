package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type WhatsAppConfig struct {
	Token   string `yaml:"token"`
	PhoneID string `yaml:"phone_id"`
	DryRun  bool   `yaml:"dry_run"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type AdminConfig struct {
	Email        string `yaml:"email"`
	PasswordHash string `yaml:"password_hash"` // bcrypt
	JWTSecret    string `yaml:"jwt_secret"`
	TokenTTL     int    `yaml:"token_ttl_hours"`
}

type FilesConfig struct {
	ProductsDir string `yaml:"products_dir"`
	FontPath    string `yaml:"font_path"`
}

type Config struct {
	Server struct {
		Port    int    `yaml:"port"`
		BaseURL string `yaml:"base_url"` // для ссылок верификации в письмах
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Redis struct {
		URL string `yaml:"url"` // пусто — rate limit отключён
	} `yaml:"redis"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Payments struct {
		WebhookSecret string `yaml:"webhook_secret"`
	} `yaml:"payments"`
	WhatsApp WhatsAppConfig `yaml:"whatsapp"`
	Telegram TelegramConfig `yaml:"telegram"`
	Admin    AdminConfig    `yaml:"admin"`
	Files    FilesConfig    `yaml:"files"`
}

func LoadConfig() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		panic("Failed to read " + path + ": " + err.Error())
	}

	// секреты подставляются из окружения: ${DATABASE_URL} и т.п.
	raw = []byte(os.ExpandEnv(string(raw)))

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		panic("Failed to parse " + path + ": " + err.Error())
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = "http://localhost:8080"
	}
	if cfg.Files.ProductsDir == "" {
		cfg.Files.ProductsDir = "./products"
	}
	return &cfg
}
