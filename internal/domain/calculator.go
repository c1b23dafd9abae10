package domain

import "time"

// ============================================================
// Calculators
// ============================================================

// CalcKind names a calculator.
type CalcKind string

const (
	CalcKindEnergy      CalcKind = "energy"
	CalcKindSavings     CalcKind = "savings"
	CalcKindPower       CalcKind = "power"
	CalcKindBattery     CalcKind = "battery"
	CalcKindRoof        CalcKind = "roof"
	CalcKindTemperature CalcKind = "temperature"
)

// CalcEntry is one calculator run kept in the history collection.
type CalcEntry struct {
	ID        string             `json:"id"`
	Kind      CalcKind           `json:"kind"`
	Inputs    map[string]float64 `json:"inputs"`
	Results   map[string]float64 `json:"results"`
	CreatedAt time.Time          `json:"createdAt"`
}

// EnergyEstimate is the output of the generation calculator.
type EnergyEstimate struct {
	SystemSizeKw float64 `json:"systemSizeKw"`
	SunHours     float64 `json:"sunHours"`
	DailyKwh     float64 `json:"dailyKwh"`
	MonthlyKwh   float64 `json:"monthlyKwh"`
	YearlyKwh    float64 `json:"yearlyKwh"`
	CO2Yearly    float64 `json:"co2Yearly"` // kg
	Trees        int     `json:"trees"`     // equivalent trees absorbing the CO2
}

// SavingsEstimate is the output of the bill-savings calculator.
type SavingsEstimate struct {
	MonthlyBill      float64 `json:"monthlyBill"`
	Rate             float64 `json:"rate"` // currency per kWh
	MonthlySavings   float64 `json:"monthlySavings"`
	YearlySavings    float64 `json:"yearlySavings"`
	SystemSizeNeeded float64 `json:"systemSizeNeeded"` // kW
	InstalledCost    float64 `json:"installedCost"`
	PaybackYears     float64 `json:"paybackYears"`
}

// PowerConversion is the output of the unit converter.
type PowerConversion struct {
	Watts      float64 `json:"watts"`
	Kilowatts  float64 `json:"kilowatts"`
	Megawatts  float64 `json:"megawatts"`
	Horsepower float64 `json:"horsepower"`
	BTUPerHour float64 `json:"btuPerHour"`
}

// BatteryEstimate is the output of the backup battery sizing
// calculator. Capacities are given for both chemistries since their
// usable depth of discharge differs.
type BatteryEstimate struct {
	DailyUsageKwh     float64 `json:"dailyUsageKwh"`
	BackupDays        int     `json:"backupDays"`
	TotalEnergyKwh    float64 `json:"totalEnergyKwh"`
	LithiumKwh        float64 `json:"lithiumKwh"`
	LeadAcidKwh       float64 `json:"leadAcidKwh"`
	InverterKw        float64 `json:"inverterKw"`
	LithiumCostLakhs  float64 `json:"lithiumCostLakhs"`
	LeadAcidCostLakhs float64 `json:"leadAcidCostLakhs"`
}

// RoofEstimate is the output of the roof area calculator.
type RoofEstimate struct {
	SystemSizeKw       float64 `json:"systemSizeKw"`
	PanelType          string  `json:"panelType"`
	Panels             int     `json:"panels"`
	PanelWattage       int     `json:"panelWattage"`
	PanelAreaSqm       float64 `json:"panelAreaSqm"`
	TotalPanelAreaSqm  float64 `json:"totalPanelAreaSqm"`
	AreaWithSpacingSqm float64 `json:"areaWithSpacingSqm"`
	RoofSharePercent   int     `json:"roofSharePercent"` // of a typical 100 sqm roof
}

// TempDerateEstimate is the output of the temperature derating
// calculator, relative to standard test conditions.
type TempDerateEstimate struct {
	PanelRatingW  float64 `json:"panelRatingW"`
	AmbientTempC  float64 `json:"ambientTempC"`
	CellTempC     float64 `json:"cellTempC"`
	TempDiffC     float64 `json:"tempDiffC"`
	ActualOutputW float64 `json:"actualOutputW"`
	PowerLossW    float64 `json:"powerLossW"`
	LossPercent   float64 `json:"lossPercent"`
}
