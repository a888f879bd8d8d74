package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Source  SourceConfig
	Engine  EngineConfig
	Metrics MetricsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
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

// SourceConfig define de dónde se leen las tres fuentes (wbz, dispo,
// stockgrouped): del servicio de datos remoto o de archivos planos locales.
type SourceConfig struct {
	Mode      string // "http" o "file"
	BaseURL   string // modo http: base de los tres endpoints
	Dir       string // modo file: directorio con los tres archivos
	Delimiter string // modo file: separador de campos
	Encoding  string // modo file: "utf-8" o "latin1"
}

// EngineConfig parametriza el motor de disponibilidad. La política de
// clasificación y la anulación de parejas son decisiones de despliegue,
// nunca por petición.
type EngineConfig struct {
	Policy         string // "transfer-supply" o "stock-relevant"
	PairingRemoval bool
	StrictSources  bool   // comportamiento legado: fuente vacía => resultado vacío
	Today          string // fecha fija ISO (yyyy-mm-dd) para tests/operación; vacío = hoy real
}

// MetricsConfig configuración de métricas Prometheus.
type MetricsConfig struct {
	Enabled bool
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, SOURCE_MODE, ENGINE_POLICY, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// También intenta config.env
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// Bind de variables de entorno (Viper las lee automáticamente si AutomaticEnv está activo)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "bestands-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Source: SourceConfig{
			Mode:      getString(v, "SOURCE_MODE", "http"),
			BaseURL:   getString(v, "SOURCE_BASE_URL", "http://vpc379:8100"),
			Dir:       getString(v, "SOURCE_DIR", "./data"),
			Delimiter: getString(v, "SOURCE_DELIMITER", ";"),
			Encoding:  getString(v, "SOURCE_ENCODING", "utf-8"),
		},
		Engine: EngineConfig{
			Policy:         getString(v, "ENGINE_POLICY", "transfer-supply"),
			PairingRemoval: getBool(v, "ENGINE_PAIRING_REMOVAL", true),
			StrictSources:  getBool(v, "ENGINE_STRICT_SOURCES", false),
			Today:          getString(v, "ENGINE_TODAY", ""),
		},
		Metrics: MetricsConfig{
			Enabled: getBool(v, "METRICS_ENABLED", true),
		},
	}

	return cfg, nil
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
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
