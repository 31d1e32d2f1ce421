package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
		// BaseURL is the public URL of this API, used for the login callback.
		BaseURL string
		// ClientURL is the web frontend: the only CORS origin and the
		// post-login redirect target.
		ClientURL string
	}
	Log struct {
		Level string
	}
	Database struct {
		Driver   string
		Path     string
		MongoURI string
		MongoDB  string
	}
	Auth struct {
		Issuer            string
		ClientID          string
		ClientSecret      string
		Secret            string
		SessionTTLMinutes int
		SecureCookie      bool
	}
	Redis struct {
		URL string
	}
	Storage struct {
		Bucket            string
		KeyPrefix         string
		Region            string
		Endpoint          string
		URLExpiryMinutes  int
		MaxLogoSizeKBytes int
	}
	AWS struct {
		Profile string
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	// optional file, real environment wins
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("JOBFINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "0.0.0.0:8000")
	v.SetDefault("server.baseurl", "http://localhost:8000")
	v.SetDefault("server.clienturl", "http://localhost:3000")
	v.SetDefault("log.level", "info")
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "data/jobfinder.db")
	v.SetDefault("database.mongouri", "")
	v.SetDefault("database.mongodb", "jobfinder")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.clientid", "")
	v.SetDefault("auth.clientsecret", "")
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.sessionttlminutes", 24*60)
	v.SetDefault("auth.securecookie", false)
	v.SetDefault("redis.url", "")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "job-logos")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.urlexpiryminutes", 60)
	v.SetDefault("storage.maxlogosizekbytes", 2048)
	v.SetDefault("aws.profile", "")
}

// Validate fails fast on settings the server cannot start without.
func (c Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Auth.Secret) == "" {
		problems = append(problems, "auth secret is required")
	}
	if strings.TrimSpace(c.Auth.Issuer) == "" {
		problems = append(problems, "auth issuer is required")
	}
	if strings.TrimSpace(c.Auth.ClientID) == "" {
		problems = append(problems, "auth client id is required")
	}
	if strings.TrimSpace(c.Server.ClientURL) == "" {
		problems = append(problems, "client url is required")
	}
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			problems = append(problems, "database path is required for sqlite")
		}
	case DriverMongo:
		if c.Database.MongoURI == "" {
			problems = append(problems, "mongo uri is required for mongo driver")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown database driver %q", c.Database.Driver))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
