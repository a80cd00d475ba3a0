package clientmqtt

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gateway2mqtt/internal/logger"
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// ClientMQTT структура клиента MQTT.
type ClientMQTT struct {
	log       logger.Logger
	cfgClient MQTTConf
	client    mqtt.Client
	opts      *mqtt.ClientOptions
	newClient func(*mqtt.ClientOptions) mqtt.Client
	wg        sync.WaitGroup
}

// MQTTClient is a convenience interface to use within this application.
type MQTTClient interface {
	Start(ctx context.Context, dataCh <-chan DataCh) error
	Publish(ctx context.Context, topic string, payload []byte, retained bool) error
	Stop() error
}

var _ MQTTClient = (*ClientMQTT)(nil)

// NewClient конструктор.
func NewClient(log logger.Logger, cfgClient MQTTConf) *ClientMQTT {
	return &ClientMQTT{
		log:       log,
		cfgClient: cfgClient,
		newClient: mqtt.NewClient,
	}
}

// Options собирает параметры подключения paho.
func (c *ClientMQTT) Options() *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions().
		AddBroker(c.cfgClient.BrokerURL).
		SetUsername(c.cfgClient.User).
		SetPassword(c.cfgClient.Password).
		SetDefaultPublishHandler(c.messageHandler).
		SetOnConnectHandler(c.connectHandler).
		SetConnectionLostHandler(c.connectLostHandler).
		SetReconnectingHandler(c.reconnectingHandler).
		SetClientID(c.cfgClient.ClientID).
		SetOrderMatters(false).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(c.cfgClient.RetryInterval).
		SetMaxReconnectInterval(c.cfgClient.RetryInterval).
		SetKeepAlive(c.cfgClient.KeepAlive)

	if c.cfgClient.TLS != nil {
		opts.SetTLSConfig(c.cfgClient.TLS)
	}
	if c.cfgClient.StatusTopic != "" {
		opts.SetWill(c.cfgClient.StatusTopic, statusOffline, c.cfgClient.Qos, true)
	}
	return opts
}

// Start подключается к брокеру и публикует все, что приходит в dataCh, до отмены ctx.
func (c *ClientMQTT) Start(ctx context.Context, dataCh <-chan DataCh) error {
	if c.log.GetLevel() == "debug" || c.log.GetLevel() == "trace" {
		l := c.log.With(logger.Fields{"module": "paho"})
		mqtt.ERROR = l.Printer("error")
		mqtt.CRITICAL = l.Printer("error")
		mqtt.WARN = l.Printer("warn")
	}

	c.opts = c.Options()
	c.client = c.newClient(c.opts)

	c.log.With(logger.Fields{"module": "mqtt"}).Infof("connecting to %s as %s", c.cfgClient.BrokerURL, c.cfgClient.ClientID)
	if err := wait(ctx, c.client.Connect()); err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.cfgClient.BrokerURL, err)
	}

	c.log.With(logger.Fields{"module": "mqtt"}).Infof("Status: %v", c.client.IsConnected())

	if c.cfgClient.StatusTopic != "" {
		if err := c.Publish(ctx, c.cfgClient.StatusTopic, []byte(statusOnline), true); err != nil {
			c.log.With(logger.Fields{"module": "mqtt"}).Errorf("status publish failed: %v", err)
		}
	}

	c.wg.Add(1)
	go c.publishLoop(ctx, dataCh)
	return nil
}

// Stop ждет завершения цикла публикации и отключается.
// ctx, переданный в Start, должен быть уже отменен.
func (c *ClientMQTT) Stop() error {
	c.wg.Wait()
	if c.client == nil {
		return nil
	}
	// Отключаемся и без соединения: иначе paho продолжит попытки подключения.
	if !c.client.IsConnected() {
		c.client.Disconnect(0)
		return nil
	}

	var err error
	if c.cfgClient.StatusTopic != "" {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		err = c.Publish(ctx, c.cfgClient.StatusTopic, []byte(statusOffline), true)
		cancel()
	}
	c.client.Disconnect(500)
	return err
}

// Publish публикует одно сообщение и ждет подтверждения (по QoS) или отмены ctx.
func (c *ClientMQTT) Publish(ctx context.Context, topic string, payload []byte, retained bool) error {
	if c.client == nil {
		return fmt.Errorf("publish %s: client not started", topic)
	}
	if err := wait(ctx, c.client.Publish(topic, c.cfgClient.Qos, retained, payload)); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	c.log.With(logger.Fields{"module": "mqtt"}).Debugf("published %d bytes to %s", len(payload), topic)
	return nil
}

func (c *ClientMQTT) publishLoop(ctx context.Context, dataCh <-chan DataCh) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-dataCh:
			if !ok {
				return
			}
			if err := c.Publish(ctx, d.Topic, d.Payload, d.Retained); err != nil {
				c.log.With(logger.Fields{"module": "mqtt"}).Errorf("error publish topic: %v", err)
			}
		}
	}
}

func wait(ctx context.Context, token mqtt.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *ClientMQTT) connectHandler(_ mqtt.Client) {
	c.log.With(logger.Fields{"module": "mqtt"}).Info("client connected to server")
}

func (c *ClientMQTT) connectLostHandler(_ mqtt.Client, err error) {
	c.log.With(logger.Fields{"module": "mqtt"}).Errorf("server connect lost: %v", err)
}

func (c *ClientMQTT) reconnectingHandler(_ mqtt.Client, _ *mqtt.ClientOptions) {
	c.log.With(logger.Fields{"module": "mqtt"}).Warn("reconnecting to server")
}

// Шлюз ни на что не подписан, сюда попадают только неожиданные сообщения.
func (c *ClientMQTT) messageHandler(_ mqtt.Client, msg mqtt.Message) {
	c.log.With(logger.Fields{"module": "mqtt"}).Debugf("unexpected message from topic: %s", msg.Topic())
}
