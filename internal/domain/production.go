package domain

import "time"

// ============================================================
// Production readings: synthesized per customer per day
// ============================================================

// DateLayout is the calendar-day format used for reading dates.
const DateLayout = "2006-01-02"

// HourlyOutput is one daylight hour's generated energy in kWh.
type HourlyOutput struct {
	Hour   int     `json:"hour"`
	Output float64 `json:"output"`
}

// ProductionReading is one customer's synthesized production for one
// calendar day. At most one reading exists per (customerId, date); once
// persisted the reading is immutable, so dashboard refreshes never
// perturb the day's numbers.
type ProductionReading struct {
	ID         string         `json:"id"`
	CustomerID string         `json:"customerId"`
	Date       string         `json:"date"` // DateLayout
	HourlyData []HourlyOutput `json:"hourlyData"`
	DailyTotal float64        `json:"dailyTotal"`
	Efficiency int            `json:"efficiency"` // % of capacity-based target
	CreatedAt  time.Time      `json:"createdAt"`
}

// DayTotal is one day in a weekly/monthly rollup; Total is zero for
// days with no reading.
type DayTotal struct {
	Date    string  `json:"date"`
	DayName string  `json:"dayName,omitempty"` // short weekday, weekly rollups only
	Total   float64 `json:"total"`
}

// ProductionStats aggregates a customer's readings.
type ProductionStats struct {
	Today      float64 `json:"today"`
	ThisMonth  float64 `json:"thisMonth"` // rounded to one decimal
	AllTime    float64 `json:"allTime"`   // rounded to one decimal
	Efficiency int     `json:"efficiency"`
	CO2Saved   int     `json:"co2Saved"` // kg, rounded
}
