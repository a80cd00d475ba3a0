package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gateway2mqtt/internal/clientmqtt"
	"gateway2mqtt/internal/config"
	"gateway2mqtt/internal/logger"
	"gateway2mqtt/internal/telemetry"
)

// Gateway периодически публикует телеметрию всех шлюзов.
type Gateway struct {
	logger logger.Logger
	cfg    config.GatewayConf
	source Source
	topics Topics
	done   chan struct{}
}

// Controller is a convenience interface to use within this application.
type Controller interface {
	Start(ctx context.Context, dataCh chan<- clientmqtt.DataCh) error
	Cycle(ctx context.Context, dataCh chan<- clientmqtt.DataCh) error
	Stop()
}

var _ Controller = (*Gateway)(nil)

// NewGateway конструктор.
func NewGateway(log logger.Logger, cfg config.GatewayConf, source Source) (*Gateway, error) {
	if cfg.Count < 1 || cfg.Endpoints < 1 || cfg.Sensors < 1 {
		return nil, fmt.Errorf("gateway: count, endpoints and sensors must be positive (got %d/%d/%d)",
			cfg.Count, cfg.Endpoints, cfg.Sensors)
	}
	if cfg.Interval.Duration <= 0 {
		return nil, errors.New("gateway: interval must be positive")
	}
	return &Gateway{
		logger: log,
		cfg:    cfg,
		source: source,
		topics: NewTopics(cfg.TopicPrefix),
	}, nil
}

// Start запускает цикл публикации. Первый цикл выполняется сразу.
func (g *Gateway) Start(ctx context.Context, dataCh chan<- clientmqtt.DataCh) error {
	if g.done != nil {
		return errors.New("gateway: already started")
	}
	g.done = make(chan struct{})
	go g.run(ctx, dataCh)
	return nil
}

// Stop ждет завершения цикла. ctx из Start должен быть отменен.
func (g *Gateway) Stop() {
	if g.done != nil {
		<-g.done
	}
}

func (g *Gateway) run(ctx context.Context, dataCh chan<- clientmqtt.DataCh) {
	defer close(g.done)

	// Пауза отсчитывается от конца цикла, а не от начала.
	t := time.NewTimer(g.cfg.Interval.Duration)
	defer t.Stop()

	for cycle := 1; ; cycle++ {
		g.logger.With(logger.Fields{"module": "gateway"}).Infof("cycle %d", cycle)
		if err := g.Cycle(ctx, dataCh); err != nil {
			if ctx.Err() != nil {
				return
			}
			g.logger.With(logger.Fields{"module": "gateway"}).Errorf("cycle %d failed: %v", cycle, err)
		} else {
			g.logger.With(logger.Fields{"module": "gateway"}).Debugf("cycle %d complete, next in %s", cycle, g.cfg.Interval)
		}

		if !t.Stop() {
			select {
			case <-t.C:
			default:
			}
		}
		t.Reset(g.cfg.Interval.Duration)

		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

// Cycle публикует по три сообщения на каждый шлюз G01..G<Count>.
func (g *Gateway) Cycle(ctx context.Context, dataCh chan<- clientmqtt.DataCh) error {
	for n := 1; n <= g.cfg.Count; n++ {
		msgs, err := g.Messages(telemetry.GatewayID(n))
		if err != nil {
			return err
		}
		for _, m := range msgs {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case dataCh <- m:
			}
			if err := g.pause(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// Messages собирает сообщения одного шлюза: status, endpoints, sensors.
func (g *Gateway) Messages(gatewayID string) ([]clientmqtt.DataCh, error) {
	payloads := []struct {
		topic string
		v     interface{}
	}{
		{g.topics.Gateway, g.source.Gateway(gatewayID)},
		{g.topics.Endpoint, g.source.Endpoints(gatewayID, g.cfg.Endpoints, g.cfg.Sensors)},
		{g.topics.Sensor, g.source.Sensors(gatewayID, g.cfg.Endpoints, g.cfg.Sensors)},
	}

	msgs := make([]clientmqtt.DataCh, 0, len(payloads))
	for _, p := range payloads {
		b, err := json.Marshal(p.v)
		if err != nil {
			return nil, fmt.Errorf("marshal %s payload for %s: %w", p.topic, gatewayID, err)
		}
		msgs = append(msgs, clientmqtt.DataCh{Topic: p.topic, Payload: b})
	}
	return msgs, nil
}

func (g *Gateway) pause(ctx context.Context) error {
	if g.cfg.Pacing.Duration <= 0 {
		return nil
	}
	t := time.NewTimer(g.cfg.Pacing.Duration)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
