package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gateway2mqtt/internal/clientmqtt"
	"gateway2mqtt/internal/config"
	"gateway2mqtt/internal/gateway"
	"gateway2mqtt/internal/logger"
	"gateway2mqtt/internal/telemetry"
)

var (
	configFile  string
	printSample bool
)

func init() {
	flag.StringVar(&configFile, "config", "configs/conf.toml", "Path to configuration file (.toml or .yml), empty for defaults")
	flag.BoolVar(&printSample, "print", false, "Print sample payloads for G01 and exit")
}

func main() {
	flag.Parse()
	cfg, err := config.NewConfig(configFile)
	if err != nil {
		fmt.Printf("configuration file read error: %v\n", err)
		os.Exit(1)
	}
	if err = cfg.Validate(); err != nil {
		fmt.Printf("invalid configuration:\n%v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		fmt.Printf("failed to create a logger: %v", err)
		os.Exit(1)
	}

	log.With(logger.Fields{"module": "logger"}).Debug("newLogger created ok")
	log.With(logger.Fields{"module": "wifi"}).Infof("network credentials: %s", cfg.WiFi)

	gw, err := gateway.NewGateway(log, cfg.Gateway, telemetry.NewGenerator(cfg.Gateway.Seed, cfg.Gateway.Realistic))
	if err != nil {
		log.With(logger.Fields{"module": "gateway"}).Errorf("error while creating gateway. %v", err)
		os.Exit(1)
	}

	if printSample {
		if err := printMessages(gw); err != nil {
			log.Error(err)
			os.Exit(1)
		}
		return
	}

	clientCfg, err := ConvertConfigClientMQTT(cfg.MQTT, cfg.Gateway.TopicPrefix)
	if err != nil {
		log.With(logger.Fields{"module": "mqtt"}).Errorf("bad TLS settings. %v", err)
		os.Exit(1)
	}
	client := clientmqtt.NewClient(log, clientCfg)
	log.With(logger.Fields{"module": "mqtt"}).Debugf("NewClient created ok: %s", cfg.MQTT)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	// Канал для передачи.
	dataCh := make(chan clientmqtt.DataCh, 10)

	if err = client.Start(ctx, dataCh); err != nil {
		log.Error("failed to start MQTT service: ", err.Error())
		cancel()
	} else if err = gw.Start(ctx, dataCh); err != nil {
		log.Error("failed to start gateway: ", err.Error())
		cancel()
	}

	<-ctx.Done()

	gw.Stop()

	if err := client.Stop(); err != nil {
		log.Error("failed to stop MQTT service: ", err.Error())
	}

	log.Info("shutdown complete")
}

// ConvertConfigClientMQTT преобразует структуры.
func ConvertConfigClientMQTT(cfg config.MQTTConf, topicPrefix string) (clientmqtt.MQTTConf, error) {
	out := clientmqtt.MQTTConf{
		ClientID:      cfg.ClientID,
		BrokerURL:     cfg.BrokerURL(),
		User:          cfg.User,
		Password:      cfg.Pass,
		Qos:           cfg.Qos,
		KeepAlive:     cfg.KeepAlive.Duration,
		RetryInterval: cfg.RetryInterval.Duration,
		StatusTopic:   gateway.StatusTopic(topicPrefix, cfg.ClientID),
	}
	if cfg.UsesTLS() {
		tlsCfg, err := clientmqtt.NewTLSConfig(cfg.Host, cfg.CACertFile, cfg.InsecureSkipVerify)
		if err != nil {
			return out, err
		}
		out.TLS = tlsCfg
	}
	return out, nil
}

func printMessages(gw *gateway.Gateway) error {
	msgs, err := gw.Messages(telemetry.GatewayID(1))
	if err != nil {
		return err
	}
	for _, m := range msgs {
		fmt.Printf("%s → %s\n", m.Topic, m.Payload)
	}
	return nil
}
