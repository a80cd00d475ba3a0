package telemetry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		temp     float64
		humidity int
		want     Status
	}{
		{name: "ok", temp: 24, humidity: 55, want: StatusOK},
		{name: "critical low", temp: 9.9, humidity: 55, want: StatusTempCriticalLow},
		{name: "critical high", temp: 30.1, humidity: 55, want: StatusTempCriticalHigh},
		{name: "cold", temp: 17.9, humidity: 55, want: StatusTempOutOfRange},
		{name: "warm", temp: 28.1, humidity: 55, want: StatusTempOutOfRange},
		{name: "edges are ok", temp: 18, humidity: 65, want: StatusOK},
		{name: "upper edge is ok", temp: 28, humidity: 25, want: StatusOK},
		{name: "dry", temp: 24, humidity: 24, want: StatusHumidityOutOfRange},
		{name: "humid", temp: 24, humidity: 66, want: StatusHumidityOutOfRange},
		{name: "temperature wins", temp: 5, humidity: 90, want: StatusTempCriticalLow},
		{name: "30 is not critical", temp: 30, humidity: 55, want: StatusTempOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.temp, tt.humidity))
		})
	}
}

func TestIDs(t *testing.T) {
	assert.Equal(t, "G01", GatewayID(1))
	assert.Equal(t, "E12", EndpointID(12))
	assert.Equal(t, "0F03", SensorID(3))
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatUptime(0))
	assert.Equal(t, "00:00:00", FormatUptime(-time.Second))
	assert.Equal(t, "01:02:03", FormatUptime(time.Hour+2*time.Minute+3*time.Second+900*time.Millisecond))
	assert.Equal(t, "26:00:00", FormatUptime(26*time.Hour))
}

func TestGateway(t *testing.T) {
	g := NewGenerator(1, true)
	start := g.started
	g.now = func() time.Time { return start.Add(90 * time.Second) }

	st := g.Gateway("G02")
	assert.Equal(t, "G02", st.GatewayID)
	assert.Equal(t, "00:01:30", st.Uptime)
	assert.Contains(t, wifiSignals, st.WiFiSignal)
	assert.Contains(t, loraStatuses, st.LoRaStatus)
}

func TestEndpoints(t *testing.T) {
	g := NewGenerator(7, true)
	for i := 0; i < 50; i++ {
		r := g.Endpoints("G01", 3, 4)
		assert.Equal(t, "G01", r.GatewayID)
		require.Len(t, r.Endpoints, 3)
		for n, e := range r.Endpoints {
			assert.Equal(t, EndpointID(n+1), e.ID)
			assert.GreaterOrEqual(t, e.Battery, BatteryMin)
			assert.LessOrEqual(t, e.Battery, BatteryMax)
			assert.Equal(t, e.Battery < 95, e.Charging)
			assert.Equal(t, "ok", e.LoRa)
			assert.Equal(t, 4, e.Sensors)
		}
	}
}

func TestSensors_Bounds(t *testing.T) {
	for _, realistic := range []bool{true, false} {
		g := NewGenerator(42, realistic)
		for i := 0; i < 200; i++ {
			r := g.Sensors("G01", 2, 4)
			require.Len(t, r.Endpoints, 2)
			for _, es := range r.Endpoints {
				require.Len(t, es.Sensors, 4)
				for n, s := range es.Sensors {
					assert.Equal(t, SensorID(n+1), s.ID)
					assert.Equal(t, n+1, s.Position)
					assert.GreaterOrEqual(t, s.Temp, TempMin)
					assert.LessOrEqual(t, s.Temp, TempMax)
					assert.GreaterOrEqual(t, s.Humidity, int(HumidityMin))
					assert.LessOrEqual(t, s.Humidity, int(HumidityMax))
					assert.Equal(t, Classify(s.Temp, s.Humidity), s.Status)
					assert.InDelta(t, s.Temp, round1(s.Temp), 1e-9)
				}
			}
		}
	}
}

func TestSensors_RandomWalkIsSmooth(t *testing.T) {
	g := NewGenerator(3, true)
	prev := g.Sensors("G01", 1, 1).Endpoints[0].Sensors[0]
	for i := 0; i < 100; i++ {
		cur := g.Sensors("G01", 1, 1).Endpoints[0].Sensors[0]
		// 6 sigma plus mean reversion over the whole range
		assert.InDelta(t, prev.Temp, cur.Temp, 6*TempStepStd+MeanReversion*(TempMax-TempMin)+0.1)
		prev = cur
	}
	assert.Len(t, g.prev, 1)
}

func TestSensors_Deterministic(t *testing.T) {
	a := NewGenerator(99, true)
	b := NewGenerator(99, true)
	for i := 0; i < 5; i++ {
		assert.Equal(t, a.Sensors("G03", 3, 4), b.Sensors("G03", 3, 4))
	}
}

func TestSensorReport_JSON(t *testing.T) {
	r := SensorReport{
		GatewayID: "G01",
		Endpoints: []EndpointSensors{{
			EndpointID: "E01",
			Sensors:    []SensorReading{{ID: "0F01", Position: 1, Temp: 24.5, Humidity: 55, Status: StatusOK}},
		}},
	}
	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id_gateway":"G01","endpoints":[{"id_endpoint":"E01","sensores":[
		{"id":"0F01","posicion":1,"temp":24.5,"humedad":55,"estado":"ok"}]}]}`, string(b))
}
