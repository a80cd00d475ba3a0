package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config структура конфигурации.
type Config struct {
	Logger  LogConf     `toml:"logger" yaml:"logger"`   // Logger - конфигурация регистратора.
	WiFi    WiFiConf    `toml:"wifi" yaml:"wifi"`       // WiFi - учетные данные беспроводной сети.
	MQTT    MQTTConf    `toml:"mqtt" yaml:"mqtt"`       // MQTT - конфигурация MQTT клиента.
	Gateway GatewayConf `toml:"gateway" yaml:"gateway"` // Gateway - параметры публикации телеметрии.
}

// LogConf структура конфигурации.
type LogConf struct {
	Level string `toml:"log-level" yaml:"log-level"` // Level - уровень логирования.
}

// WiFiConf пара учетных данных для подключения к сети.
// Используется один раз, при подключении устройства к сети.
type WiFiConf struct {
	SSID string `toml:"ssid" yaml:"ssid" validate:"required,max=32"`
	Pass string `toml:"password" yaml:"password" validate:"omitempty,min=8,max=63"`
}

// MQTTConf структура конфигурации.
type MQTTConf struct {
	ClientID  string `toml:"clientID" yaml:"clientID" split_words:"true"`                            // ClientID - имя клиента.
	Transport string `toml:"transport" yaml:"transport" validate:"omitempty,oneof=tcp ssl ws wss"` // Transport - тип подключения.
	Host      string `toml:"server" yaml:"server" validate:"required,hostname_rfc1123|ip"`         // Host - адрес MQTT сервера.
	Port      uint16 `toml:"port" yaml:"port" validate:"required"`                                 // Port - порт MQTT сервера.
	// Path - путь WebSocket, используется только для ws и wss.
	Path string `toml:"path" yaml:"path" validate:"omitempty,startswith=/"`
	User string `toml:"user" yaml:"user"`                                          // User - логин (необязательно).
	Pass string `toml:"password" yaml:"password" validate:"excluded_without=User"` // Pass - пароль (необязательно).
	Qos  byte   `toml:"qos" yaml:"qos" validate:"lte=2"`                           // Qos - качество обслуживания.

	KeepAlive          Duration `toml:"keep-alive" yaml:"keep-alive" split_words:"true"`
	RetryInterval      Duration `toml:"retry-interval" yaml:"retry-interval" split_words:"true"`
	CACertFile         string   `toml:"ca-file" yaml:"ca-file" split_words:"true"`
	InsecureSkipVerify bool     `toml:"insecure-skip-verify" yaml:"insecure-skip-verify" split_words:"true"`
}

// GatewayConf параметры генерации и публикации телеметрии.
type GatewayConf struct {
	Count     int      `toml:"count" yaml:"count" validate:"gte=1,lte=99"`         // Count - количество шлюзов (G01..G99).
	Endpoints int      `toml:"endpoints" yaml:"endpoints" validate:"gte=1,lte=99"` // Endpoints - конечных устройств на шлюз.
	Sensors   int      `toml:"sensors" yaml:"sensors" validate:"gte=1,lte=99"`     // Sensors - датчиков на устройство.
	Interval  Duration `toml:"interval" yaml:"interval"`                            // Interval - пауза между циклами.
	Pacing    Duration `toml:"pacing" yaml:"pacing"`                                // Pacing - пауза между сообщениями.
	Realistic bool     `toml:"realistic" yaml:"realistic"`
	Seed      int64    `toml:"seed" yaml:"seed"` // Seed 0 means time based.

	TopicPrefix string `toml:"topic-prefix" yaml:"topic-prefix" split_words:"true" validate:"required,excludesall=+#"`
}

// NewConfig конструктор.
// Порядок: значения по умолчанию, затем файл, затем .env и переменные окружения.
func NewConfig(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return &cfg, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &cfg, fmt.Errorf("failed to load .env: %w", err)
	}

	// Переменные окружения переопределяют файл (удобно для секретов).
	// Только с префиксом секции: WIFI_PASS, MQTT_PASS, LOG_LEVEL, GATEWAY_INTERVAL...
	sections := []struct {
		prefix string
		spec   interface{}
	}{
		{"LOG", &cfg.Logger},
		{"WIFI", &cfg.WiFi},
		{"MQTT", &cfg.MQTT},
		{"GATEWAY", &cfg.Gateway},
	}
	for _, s := range sections {
		if err := envconfig.Process(s.prefix, s.spec); err != nil {
			return &cfg, fmt.Errorf("failed to parse environment config: %w", err)
		}
	}

	cfg.MQTT.Transport = cfg.MQTT.ResolveTransport()
	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = "ga04-" + strings.Split(uuid.NewString(), "-")[0]
	}
	return &cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	default:
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("unknown keys in config file %s: %v", path, undecoded)
		}
	}
	return nil
}
