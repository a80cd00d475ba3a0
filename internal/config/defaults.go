package config

import "time"

// Значения по умолчанию для шлюза GA04.
const (
	// DefaultWiFiSSID гостевая сеть симулятора Wokwi.
	DefaultWiFiSSID = "Wokwi-GUEST"
	// DefaultWiFiPass пустой: гостевая сеть Wokwi открыта.
	DefaultWiFiPass = ""

	// DefaultMQTTHost брокер за Cloudflare Tunnel. TLS на 443 требует SNI.
	DefaultMQTTHost        = "mqtt.ispciot.org"
	DefaultMQTTPort uint16 = 443
	DefaultMQTTUser        = "" // optional
	DefaultMQTTPass        = "" // optional
	DefaultMQTTPath        = "/mqtt"

	DefaultLogLevel = "info"

	DefaultTopicPrefix = "gateway"
)

const (
	defaultKeepAlive     = 60 * time.Second
	defaultRetryInterval = 5 * time.Second
	defaultInterval      = 30 * time.Second
	defaultPacing        = 50 * time.Millisecond
)

// Default возвращает конфигурацию со всеми значениями по умолчанию.
func Default() Config {
	return Config{
		Logger: LogConf{Level: DefaultLogLevel},
		WiFi: WiFiConf{
			SSID: DefaultWiFiSSID,
			Pass: DefaultWiFiPass,
		},
		MQTT: MQTTConf{
			Host:          DefaultMQTTHost,
			Port:          DefaultMQTTPort,
			Path:          DefaultMQTTPath,
			User:          DefaultMQTTUser,
			Pass:          DefaultMQTTPass,
			Qos:           1,
			KeepAlive:     Duration{defaultKeepAlive},
			RetryInterval: Duration{defaultRetryInterval},
		},
		Gateway: GatewayConf{
			Count:       3,
			Endpoints:   3,
			Sensors:     4,
			Interval:    Duration{defaultInterval},
			Pacing:      Duration{defaultPacing},
			Realistic:   true,
			TopicPrefix: DefaultTopicPrefix,
		},
	}
}
