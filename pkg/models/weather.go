package models

import "time"

// WeatherSnapshot is a point-in-time reading attached to a checkin record.
// It is a value object: produced once per checkin, embedded into the
// transaction row and never updated.
type WeatherSnapshot struct {
	Location     string    `json:"location"`
	TemperatureC float64   `json:"temperature_c"`
	WindSpeedKPH float64   `json:"wind_speed_kph"`
	Condition    string    `json:"condition,omitempty"`
	HumidityPct  *float64  `json:"humidity_pct,omitempty"`
	ObservedAt   time.Time `json:"observed_at"`
}
