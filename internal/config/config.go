// Package config carga la configuración del servicio desde YAML + env.
//
// El archivo YAML es opcional (FILECONV_CONFIG, default config.yaml);
// las variables de entorno siempre pisan lo que diga el archivo. Las
// variables reconocidas son las del contrato operativo: API_KEY,
// API_KEYS_FILE, PORT/ADDR, APP_ENV, LOG_LEVEL, CORS_ALLOWED_ORIGINS.
package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultKeysFile es la ruta por defecto del store de consumer keys.
const DefaultKeysFile = "data/api_keys.json"

type Config struct {
	App struct {
		// dev | prod
		Env string `yaml:"env"`
		// debug | info | warn | error
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	Server struct {
		Addr               string   `yaml:"addr"`
		CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	} `yaml:"server"`

	Auth struct {
		// MasterKey viene SOLO de env (API_KEY); nunca del YAML para que
		// el secreto no termine commiteado en un archivo de config.
		MasterKey string `yaml:"-"`
		// KeysFile es la ruta del store JSON de consumer keys.
		KeysFile string `yaml:"keys_file"`
	} `yaml:"auth"`
}

// Load lee el YAML en path (si existe) y aplica overrides de env.
// Un path vacío o inexistente no es error: toda la config puede venir
// de env. Un YAML malformado sí es error (config explícita rota).
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Server.Addr = ":5000"
	cfg.Auth.KeysFile = DefaultKeysFile
	cfg.App.Env = "dev"
	cfg.App.LogLevel = "info"

	if path != "" {
		b, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(b, cfg); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv aplica overrides de variables de entorno sobre cfg.
func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("APP_ENV")); v != "" {
		cfg.App.Env = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		cfg.App.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("ADDR")); v != "" {
		cfg.Server.Addr = v
	} else if p := strings.TrimSpace(os.Getenv("PORT")); p != "" {
		cfg.Server.Addr = ":" + p
	}
	if v := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if s := strings.TrimSpace(o); s != "" {
				origins = append(origins, s)
			}
		}
		cfg.Server.CORSAllowedOrigins = origins
	}

	// Secretos y rutas del key store
	cfg.Auth.MasterKey = os.Getenv("API_KEY")
	if v := strings.TrimSpace(os.Getenv("API_KEYS_FILE")); v != "" {
		cfg.Auth.KeysFile = v
	}
}
