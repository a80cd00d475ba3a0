package gateway

import "gateway2mqtt/internal/telemetry"

// Source источник телеметрии.
type Source interface {
	Gateway(gatewayID string) telemetry.GatewayStatus
	Endpoints(gatewayID string, count, sensors int) telemetry.EndpointReport
	Sensors(gatewayID string, endpoints, sensors int) telemetry.SensorReport
}

// Topics is the set of topics one gateway publishes to.
type Topics struct {
	Gateway  string
	Endpoint string
	Sensor   string
}

// NewTopics builds <prefix>/gateway, <prefix>/endpoint and <prefix>/sensor.
func NewTopics(prefix string) Topics {
	return Topics{
		Gateway:  prefix + "/gateway",
		Endpoint: prefix + "/endpoint",
		Sensor:   prefix + "/sensor",
	}
}

// StatusTopic is where a client announces online/offline (retained).
func StatusTopic(prefix, clientID string) string {
	return prefix + "/status/" + clientID
}
