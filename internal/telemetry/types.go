package telemetry

// Status состояние датчика по последнему измерению.
type Status string

const (
	StatusOK                 Status = "ok"
	StatusTempCriticalLow    Status = "temp_critical_low"
	StatusTempCriticalHigh   Status = "temp_critical_high"
	StatusTempOutOfRange     Status = "temp_out_of_range"
	StatusHumidityOutOfRange Status = "humidity_out_of_range"
)

// GatewayStatus is published on <prefix>/gateway.
type GatewayStatus struct {
	GatewayID  string `json:"id_gateway"`
	WiFiSignal string `json:"wifi_signal"`
	LoRaStatus string `json:"lora_status"`
	Uptime     string `json:"uptime"`
}

// Endpoint describes one LoRa end device attached to a gateway.
type Endpoint struct {
	ID       string `json:"id"`
	Battery  int    `json:"bateria"` // percent
	Charging bool   `json:"cargando"`
	LoRa     string `json:"lora"`
	Sensors  int    `json:"sensores"` // number of sensors
}

// EndpointReport is published on <prefix>/endpoint.
type EndpointReport struct {
	GatewayID string     `json:"id_gateway"`
	Endpoints []Endpoint `json:"endpoints"`
}

type SensorReading struct {
	ID       string  `json:"id"`
	Position int     `json:"posicion"`
	Temp     float64 `json:"temp"`
	Humidity int     `json:"humedad"`
	Status   Status  `json:"estado"`
}

type EndpointSensors struct {
	EndpointID string          `json:"id_endpoint"`
	Sensors    []SensorReading `json:"sensores"`
}

// SensorReport is published on <prefix>/sensor.
type SensorReport struct {
	GatewayID string            `json:"id_gateway"`
	Endpoints []EndpointSensors `json:"endpoints"`
}
