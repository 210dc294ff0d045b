package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Env      string         `mapstructure:"env"`
	Server   ServerConfig   `mapstructure:"server"`
	Accounts StoreConfig    `mapstructure:"accounts_store"`
	Reports  StoreConfig    `mapstructure:"reports_store"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Admin    AdminConfig    `mapstructure:"admin"`
	NATS     NATSConfig     `mapstructure:"nats"`
}

type ServerConfig struct {
	Port         string   `mapstructure:"port"`
	ReadTimeout  int      `mapstructure:"read_timeout_seconds"`
	WriteTimeout int      `mapstructure:"write_timeout_seconds"`
	IdleTimeout  int      `mapstructure:"idle_timeout_seconds"`
	CORSOrigins  []string `mapstructure:"cors_origins"`
}

// StoreConfig describes one embedded SQLite store. The accounts store and the
// reports store are independent files with no cross-store transactions.
type StoreConfig struct {
	Path              string `mapstructure:"path"`
	BusyTimeoutMillis int    `mapstructure:"busy_timeout_ms"`
}

type AuthConfig struct {
	JWTSecret       string `mapstructure:"jwt_secret"`
	TokenTTLMinutes int    `mapstructure:"token_ttl_minutes"`
	// PasswordScheme selects the password hash: "legacy" (unsalted SHA-256,
	// matches existing stored hashes) or "bcrypt".
	PasswordScheme string `mapstructure:"password_scheme"`
	// OTPSecret is the shared base32 TOTP secret for the parent second factor.
	// Every parent receives the same 30-second rotating code.
	OTPSecret string `mapstructure:"otp_secret"`
}

// AdminConfig is the seed administrator account created on first start.
type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	FullName string `mapstructure:"full_name"`
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

func Load() (*Config, error) {
	// Get environment from ENV, default to "local"
	env := os.Getenv("ENV")
	if env == "" {
		env = "local"
	}

	// Set up Viper
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/configs")    // container mount
	viper.AddConfigPath("./configs")   // repo root
	viper.AddConfigPath("../configs")  // IDE from cmd/

	viper.SetDefault("env", env)
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("accounts_store.path", "users.db")
	viper.SetDefault("accounts_store.busy_timeout_ms", 10000)
	viper.SetDefault("reports_store.path", "reports.db")
	viper.SetDefault("reports_store.busy_timeout_ms", 10000)
	viper.SetDefault("auth.token_ttl_minutes", 15)
	viper.SetDefault("auth.password_scheme", "legacy")
	viper.SetDefault("auth.otp_secret", "BASE32SECRET3232")
	viper.SetDefault("admin.username", "Lam")
	viper.SetDefault("admin.password", "Lam123")
	viper.SetDefault("admin.full_name", "Admin Teacher")

	// Try to read config file (optional - will use ENV if not found)
	if err := viper.ReadInConfig(); err != nil {
		fmt.Printf("No config file found (will use ENV variables): %v\n", err)
	}

	// Enable environment variable overrides (these take precedence over config file)
	viper.AutomaticEnv()

	viper.BindEnv("auth.jwt_secret", "JWT_SECRET")
	viper.BindEnv("auth.otp_secret", "OTP_SECRET")
	viper.BindEnv("admin.password", "ADMIN_PASSWORD")

	// Unmarshal into struct
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
