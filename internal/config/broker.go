package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Транспорты, которые понимает MQTT клиент.
const (
	TransportTCP = "tcp"
	TransportSSL = "ssl"
	TransportWS  = "ws"
	TransportWSS = "wss"
)

// ResolveTransport возвращает явно заданный транспорт или выводит его из порта.
// 443 за Cloudflare - это MQTT поверх WebSocket с TLS, а не голый TLS.
func (c MQTTConf) ResolveTransport() string {
	if c.Transport != "" {
		return strings.ToLower(c.Transport)
	}
	switch c.Port {
	case 443:
		return TransportWSS
	case 8883:
		return TransportSSL
	case 80, 8080, 9001:
		return TransportWS
	default:
		return TransportTCP
	}
}

// UsesTLS reports whether the connection must be wrapped in TLS.
func (c MQTTConf) UsesTLS() bool {
	t := c.ResolveTransport()
	return t == TransportSSL || t == TransportWSS
}

// IsWebSocket reports whether MQTT is framed over WebSocket.
func (c MQTTConf) IsWebSocket() bool {
	t := c.ResolveTransport()
	return t == TransportWS || t == TransportWSS
}

// BrokerURL собирает адрес брокера в формате paho: scheme://host:port[/path].
func (c MQTTConf) BrokerURL() string {
	u := fmt.Sprintf("%s://%s", c.ResolveTransport(), net.JoinHostPort(c.Host, strconv.Itoa(int(c.Port))))
	if c.IsWebSocket() && c.Path != "" {
		u += c.Path
	}
	return u
}

func (c MQTTConf) String() string {
	return fmt.Sprintf("%s user=%q password=%s client=%s", c.BrokerURL(), c.User, mask(c.Pass), c.ClientID)
}

func (c WiFiConf) String() string {
	return fmt.Sprintf("ssid=%q password=%s", c.SSID, mask(c.Pass))
}

func mask(secret string) string {
	if secret == "" {
		return "<empty>"
	}
	return "******"
}
