package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	API     APIConfig
	Session SessionConfig
	JWT     JWTConfig
	List    ListConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string // trace, debug, info, warn, error
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// APIConfig backend REST de la plataforma.
type APIConfig struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64 // 0 = sin límite
}

// SessionConfig cookies de sesión y punto de entrada del login.
type SessionConfig struct {
	TokenCookie string
	ShopCookie  string
	CartCookie  string
	LoginPath   string
	Secure      bool
	MaxAge      time.Duration
}

// JWTConfig verificación opcional del token del backend. Con Secret vacío el
// token solo se decodifica.
type JWTConfig struct {
	Secret string
}

// ListConfig comportamiento de las vistas de listado.
type ListConfig struct {
	PageSize        int
	CSVEscapeQuotes bool // duplicar comillas internas en los campos de texto del CSV
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, API_BASE_URL, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return FromViper(v)
}

// FromViper construye la configuración desde una instancia ya cargada. Permite
// que el CLI combine flags y entorno sobre la misma instancia.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "millet-kiosk"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 3000),
		},
		API: APIConfig{
			BaseURL:       getString(v, "API_BASE_URL", "http://localhost:5000/api"),
			Timeout:       time.Duration(getInt(v, "API_TIMEOUT_SECONDS", 15)) * time.Second,
			RatePerSecond: getFloat(v, "API_RATE_PER_SECOND", 0),
		},
		Session: SessionConfig{
			TokenCookie: getString(v, "SESSION_TOKEN_COOKIE", "token"),
			ShopCookie:  getString(v, "SESSION_SHOP_COOKIE", "shopId"),
			CartCookie:  getString(v, "SESSION_CART_COOKIE", "cart"),
			LoginPath:   getString(v, "SESSION_LOGIN_PATH", "/login"),
			Secure:      getBool(v, "SESSION_SECURE", false),
			MaxAge:      time.Duration(getInt(v, "SESSION_MAX_AGE_HOURS", 24)) * time.Hour,
		},
		JWT: JWTConfig{
			Secret: getString(v, "JWT_SECRET", ""),
		},
		List: ListConfig{
			PageSize:        getInt(v, "LIST_PAGE_SIZE", 8),
			CSVEscapeQuotes: getBool(v, "CSV_ESCAPE_QUOTES", false),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("config: API_BASE_URL es obligatorio")
	}
	if c.List.PageSize <= 0 {
		return fmt.Errorf("config: LIST_PAGE_SIZE debe ser mayor que cero")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("config: HTTP_PORT fuera de rango: %d", c.HTTP.Port)
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getFloat(v *viper.Viper, key string, def float64) float64 {
	if !v.IsSet(key) {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.GetString(key)), 64)
	if err != nil {
		return def
	}
	return f
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return def
	}
	return b
}
