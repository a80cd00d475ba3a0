package clientmqtt

import (
	"crypto/tls"
	"time"
)

type MQTTConf struct {
	ClientID      string        // ClientID - уникальное имя клиента для брокеров.
	BrokerURL     string        // BrokerURL - scheme://host:port[/path], scheme: tcp, ssl, ws, wss.
	User          string        // User - логин для подключения к MQTT серверу.
	Password      string        // Password - пароль для подключения к MQTT серверу.
	Qos           byte          // Qos - качество обслуживания.
	KeepAlive     time.Duration // KeepAlive - период ping.
	RetryInterval time.Duration // RetryInterval - пауза между попытками подключения.
	TLS           *tls.Config   // TLS - nil для tcp и ws.
	StatusTopic   string        // StatusTopic - retained online/offline, пусто - не публиковать.
}

// DataCh сообщение для публикации.
type DataCh struct {
	Topic    string
	Payload  []byte
	Retained bool
}

const (
	statusOnline  = "online"
	statusOffline = "offline"
)
