package telemetry

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"
)

// Диапазоны и параметры случайного блуждания.
const (
	TempMin     = 15.0
	TempMax     = 30.0
	HumidityMin = 40.0
	HumidityMax = 65.0
	BatteryMin  = 50
	BatteryMax  = 100

	TempTarget      = 24.0
	HumidityTarget  = 55.0
	TempStepStd     = 0.5
	HumidityStepStd = 2.0
	MeanReversion   = 0.12

	// chargingBelow: ниже этого заряда устройство стоит на зарядке.
	chargingBelow = 95
)

var (
	wifiSignals  = []string{"excelente", "buena", "regular", "débil"}
	loraStatuses = []string{"ok", "ok", "ok", "warning"}
)

// GatewayID returns the canonical gateway identifier, G01..G99.
func GatewayID(n int) string { return fmt.Sprintf("G%02d", n) }

// EndpointID returns the canonical endpoint identifier, E01..E99.
func EndpointID(n int) string { return fmt.Sprintf("E%02d", n) }

// SensorID returns the canonical sensor identifier, 0F01..0F99.
func SensorID(n int) string { return fmt.Sprintf("0F%02d", n) }

type sensorKey struct {
	gateway, endpoint, sensor string
}

type sample struct {
	temp, humidity float64
}

// Generator produces telemetry payloads.
// In realistic mode each sensor follows a bounded gaussian random walk that
// is pulled back towards the target values; state survives between calls.
type Generator struct {
	mu        sync.Mutex
	rnd       *rand.Rand
	realistic bool
	prev      map[sensorKey]sample
	started   time.Time
	now       func() time.Time
}

// NewGenerator конструктор. seed 0 - от текущего времени.
func NewGenerator(seed int64, realistic bool) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Generator{
		rnd:       rand.New(rand.NewSource(seed)),
		realistic: realistic,
		prev:      map[sensorKey]sample{},
		now:       time.Now,
	}
	g.started = g.now()
	return g
}

// Gateway returns the current gateway status.
func (g *Generator) Gateway(gatewayID string) GatewayStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	return GatewayStatus{
		GatewayID:  gatewayID,
		WiFiSignal: wifiSignals[g.rnd.Intn(len(wifiSignals))],
		LoRaStatus: loraStatuses[g.rnd.Intn(len(loraStatuses))],
		Uptime:     FormatUptime(g.now().Sub(g.started)),
	}
}

// Endpoints returns battery state for endpoints E01..E<count>.
func (g *Generator) Endpoints(gatewayID string, count, sensors int) EndpointReport {
	g.mu.Lock()
	defer g.mu.Unlock()

	report := EndpointReport{GatewayID: gatewayID, Endpoints: make([]Endpoint, 0, count)}
	for i := 1; i <= count; i++ {
		battery := BatteryMin + g.rnd.Intn(BatteryMax-BatteryMin+1)
		report.Endpoints = append(report.Endpoints, Endpoint{
			ID:       EndpointID(i),
			Battery:  battery,
			Charging: battery < chargingBelow,
			LoRa:     "ok",
			Sensors:  sensors,
		})
	}
	return report
}

// Sensors returns readings for every sensor of endpoints E01..E<endpoints>.
func (g *Generator) Sensors(gatewayID string, endpoints, sensors int) SensorReport {
	g.mu.Lock()
	defer g.mu.Unlock()

	report := SensorReport{GatewayID: gatewayID, Endpoints: make([]EndpointSensors, 0, endpoints)}
	for e := 1; e <= endpoints; e++ {
		es := EndpointSensors{EndpointID: EndpointID(e), Sensors: make([]SensorReading, 0, sensors)}
		for s := 1; s <= sensors; s++ {
			id := SensorID(s)
			temp, humidity := g.next(sensorKey{gatewayID, es.EndpointID, id})
			es.Sensors = append(es.Sensors, SensorReading{
				ID:       id,
				Position: s,
				Temp:     temp,
				Humidity: humidity,
				Status:   Classify(temp, humidity),
			})
		}
		report.Endpoints = append(report.Endpoints, es)
	}
	return report
}

// next must be called with g.mu held.
func (g *Generator) next(key sensorKey) (float64, int) {
	if !g.realistic {
		temp := TempMin + g.rnd.Float64()*(TempMax-TempMin)
		humidity := int(HumidityMin) + g.rnd.Intn(int(HumidityMax-HumidityMin)+1)
		return round1(temp), humidity
	}

	prev, ok := g.prev[key]
	if !ok {
		prev = sample{
			temp:     bounded(TempTarget+g.rnd.NormFloat64(), TempMin, TempMax),
			humidity: bounded(HumidityTarget+3*g.rnd.NormFloat64(), HumidityMin, HumidityMax),
		}
	}
	cur := sample{
		temp:     g.step(prev.temp, TempTarget, TempStepStd, TempMin, TempMax),
		humidity: g.step(prev.humidity, HumidityTarget, HumidityStepStd, HumidityMin, HumidityMax),
	}
	g.prev[key] = cur
	return round1(cur.temp), int(math.Round(cur.humidity))
}

func (g *Generator) step(prev, target, std, lo, hi float64) float64 {
	v := prev + std*g.rnd.NormFloat64() + MeanReversion*(target-prev)
	return bounded(v, lo, hi)
}

// Classify maps a reading to a sensor status. Critical temperature wins over
// out-of-range, temperature wins over humidity.
func Classify(temp float64, humidity int) Status {
	switch {
	case temp < 10:
		return StatusTempCriticalLow
	case temp > 30:
		return StatusTempCriticalHigh
	case temp < 18 || temp > 28:
		return StatusTempOutOfRange
	case humidity < 25 || humidity > 65:
		return StatusHumidityOutOfRange
	default:
		return StatusOK
	}
}

// FormatUptime formats d as HH:MM:SS; hours are not wrapped at 24.
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s/60%60, s%60)
}

func bounded(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
