package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"gateway2mqtt/internal/clientmqtt"
	"gateway2mqtt/internal/config"
	"gateway2mqtt/internal/logger"
	"gateway2mqtt/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Log {
	t.Helper()
	log, err := logger.NewLogger(config.LogConf{Level: "error"})
	require.NoError(t, err)
	return log
}

func testConf() config.GatewayConf {
	cfg := config.Default().Gateway
	cfg.Count = 2
	cfg.Endpoints = 2
	cfg.Sensors = 3
	cfg.Pacing = config.Duration{}
	cfg.Interval = config.Duration{Duration: time.Hour}
	return cfg
}

func TestNewGateway_Invalid(t *testing.T) {
	cfg := testConf()
	cfg.Sensors = 0
	_, err := NewGateway(testLogger(t), cfg, telemetry.NewGenerator(1, true))
	require.Error(t, err)

	cfg = testConf()
	cfg.Interval = config.Duration{}
	_, err = NewGateway(testLogger(t), cfg, telemetry.NewGenerator(1, true))
	require.Error(t, err)
}

func TestNewTopics(t *testing.T) {
	assert.Equal(t, Topics{Gateway: "gateway/gateway", Endpoint: "gateway/endpoint", Sensor: "gateway/sensor"}, NewTopics("gateway"))
	assert.Equal(t, "gateway/status/ga04-1", StatusTopic("gateway", "ga04-1"))
}

func TestCycle(t *testing.T) {
	g, err := NewGateway(testLogger(t), testConf(), telemetry.NewGenerator(1, true))
	require.NoError(t, err)

	dataCh := make(chan clientmqtt.DataCh, 6)
	require.NoError(t, g.Cycle(context.Background(), dataCh))
	close(dataCh)

	var got []clientmqtt.DataCh
	for m := range dataCh {
		got = append(got, m)
	}
	require.Len(t, got, 6)

	wantTopics := []string{"gateway/gateway", "gateway/endpoint", "gateway/sensor"}
	for i, m := range got {
		assert.Equal(t, wantTopics[i%3], m.Topic)
		assert.False(t, m.Retained)
	}

	var st telemetry.GatewayStatus
	require.NoError(t, json.Unmarshal(got[3].Payload, &st))
	assert.Equal(t, "G02", st.GatewayID)

	var ep telemetry.EndpointReport
	require.NoError(t, json.Unmarshal(got[1].Payload, &ep))
	assert.Equal(t, "G01", ep.GatewayID)
	require.Len(t, ep.Endpoints, 2)
	assert.Equal(t, 3, ep.Endpoints[0].Sensors)

	var sr telemetry.SensorReport
	require.NoError(t, json.Unmarshal(got[5].Payload, &sr))
	assert.Equal(t, "G02", sr.GatewayID)
	require.Len(t, sr.Endpoints, 2)
	assert.Len(t, sr.Endpoints[1].Sensors, 3)
}

func TestCycle_Canceled(t *testing.T) {
	g, err := NewGateway(testLogger(t), testConf(), telemetry.NewGenerator(1, true))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = g.Cycle(ctx, make(chan clientmqtt.DataCh))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestCycle_Pacing(t *testing.T) {
	cfg := testConf()
	cfg.Count = 1
	cfg.Pacing = config.Duration{Duration: 10 * time.Millisecond}
	g, err := NewGateway(testLogger(t), cfg, telemetry.NewGenerator(1, true))
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, g.Cycle(context.Background(), make(chan clientmqtt.DataCh, 3)))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestStartStop(t *testing.T) {
	cfg := testConf()
	cfg.Interval = config.Duration{Duration: 10 * time.Millisecond}
	g, err := NewGateway(testLogger(t), cfg, telemetry.NewGenerator(1, true))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	dataCh := make(chan clientmqtt.DataCh)
	require.NoError(t, g.Start(ctx, dataCh))
	require.Error(t, g.Start(ctx, dataCh))

	// two full cycles
	for i := 0; i < 12; i++ {
		select {
		case m := <-dataCh:
			assert.NotEmpty(t, m.Payload)
		case <-time.After(time.Second):
			t.Fatal("no message")
		}
	}

	cancel()
	done := make(chan struct{})
	go func() {
		g.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("gateway did not stop")
	}
}

func TestStart_IntervalCountsFromCycleEnd(t *testing.T) {
	cfg := testConf()
	cfg.Count = 1
	cfg.Pacing = config.Duration{Duration: 20 * time.Millisecond}
	cfg.Interval = config.Duration{Duration: 50 * time.Millisecond}
	g, err := NewGateway(testLogger(t), cfg, telemetry.NewGenerator(1, true))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		g.Stop()
	}()

	dataCh := make(chan clientmqtt.DataCh, 3)
	require.NoError(t, g.Start(ctx, dataCh))

	recv := func() time.Time {
		select {
		case <-dataCh:
			return time.Now()
		case <-time.After(time.Second):
			t.Fatal("no message")
			return time.Time{}
		}
	}

	first := recv()
	recv()
	recv()
	second := recv()

	// cycle takes 3 x pacing (60ms), then waits the full interval (50ms)
	assert.GreaterOrEqual(t, second.Sub(first), 110*time.Millisecond)
}
