package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Debug        bool
		TestMode     bool
		AppName      string
		Env          string
		Build        string
		RollbarToken string

		Server   ServerConfig
		Database DatabaseConfig
		Auth     AuthConfig
		Trivia   TriviaConfig
		Coffee   CoffeeConfig
	}

	ServerConfig struct {
		Host            string
		Address         string
		DebugAddress    string
		ShutdownTimeout time.Duration
		CORSOrigins     []string
		RateLimit       float64 // requests per second per client; 0 disables
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		InMemory      bool
	}

	AuthConfig struct {
		Mode      string // "auth0" | "hmac"
		Domain    string
		Audience  string
		SecretKey string
		JWKSTTL   time.Duration
	}

	TriviaConfig struct {
		PageSize      int
		MinDifficulty int
		MaxDifficulty int
	}

	CoffeeConfig struct {
		MaxIngredients int
		MaxParts       int
	}
)

const (
	AuthModeAuth0 = "auth0"
	AuthModeHMAC  = "hmac"
)

func (dc DatabaseConfig) Address() string {
	return net.JoinHostPort(dc.Host, strconv.Itoa(dc.Port))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "FSND")
	v.SetDefault("build", "dev")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":5000")
	v.SetDefault("server.debugAddress", ":5050")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.corsOrigins", []string{"*"})
	v.SetDefault("server.rateLimit", 0.0)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "fsnd")
	v.SetDefault("database.user", "fsnd")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", false)
	v.SetDefault("database.inMemory", false)

	v.SetDefault("auth.mode", AuthModeAuth0)
	v.SetDefault("auth.domain", "")
	v.SetDefault("auth.audience", "")
	v.SetDefault("auth.secretKey", "")
	v.SetDefault("auth.jwksTTL", 6*time.Hour)

	v.SetDefault("trivia.pageSize", 10)
	v.SetDefault("trivia.minDifficulty", 1)
	v.SetDefault("trivia.maxDifficulty", 5)

	v.SetDefault("coffee.maxIngredients", 10)
	v.SetDefault("coffee.maxParts", 10)
}

// NewConfig loads the app configuration from defaults, `config/.env.<env>` (if it exists)
// and environment variables prefixed with the current environment, e.g. DEV_DATABASE_HOST.
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if root, err := ProjectRoot(); err == nil {
		dotEnvPath := filepath.Join(root, "config", ".env."+strings.ToLower(env))
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
			}
		} else if !os.IsNotExist(err) {
			log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
		}
	}
	v.AutomaticEnv()

	return &Config{
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		Env:          env,
		Build:        v.GetString("build"),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Address:         v.GetString("server.address"),
			DebugAddress:    v.GetString("server.debugAddress"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			CORSOrigins:     v.GetStringSlice("server.corsOrigins"),
			RateLimit:       v.GetFloat64("server.rateLimit"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetInt("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
			InMemory:      v.GetBool("database.inMemory"),
		},
		Auth: AuthConfig{
			Mode:      strings.ToLower(v.GetString("auth.mode")),
			Domain:    v.GetString("auth.domain"),
			Audience:  v.GetString("auth.audience"),
			SecretKey: v.GetString("auth.secretKey"),
			JWKSTTL:   v.GetDuration("auth.jwksTTL"),
		},
		Trivia: TriviaConfig{
			PageSize:      v.GetInt("trivia.pageSize"),
			MinDifficulty: v.GetInt("trivia.minDifficulty"),
			MaxDifficulty: v.GetInt("trivia.maxDifficulty"),
		},
		Coffee: CoffeeConfig{
			MaxIngredients: v.GetInt("coffee.maxIngredients"),
			MaxParts:       v.GetInt("coffee.maxParts"),
		},
	}
}
