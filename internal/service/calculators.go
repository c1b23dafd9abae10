package service

import (
	"context"
	"math"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/domain"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/repository"
)

var calcTracer = otel.Tracer("service/calculators")

// Sizing assumptions shared by the calculators.
const (
	defaultSunHours  = 5.0     // peak sun hours per day
	systemEfficiency = 0.85    // derating from panel rating to delivered kWh
	billOffsetShare  = 0.70    // share of the bill a typical system offsets
	costPerKw        = 50000.0 // installed cost, currency per kW
	kgCO2PerTreeYear = 22.0
)

// Battery sizing assumptions.
const (
	lithiumDoD         = 0.80 // usable depth of discharge, lithium
	leadAcidDoD        = 0.50 // usable depth of discharge, lead-acid
	lithiumCostPerKwh  = 15000.0
	leadAcidCostPerKwh = 8000.0
	peakUsageHours     = 5.0  // daily usage assumed to concentrate here
	inverterMargin     = 1.25 // headroom over the peak load
)

// Roof sizing assumptions.
const (
	panelSpacingFactor = 1.3   // maintenance access around the panels
	typicalRoofSqm     = 100.0 // reference roof for the share figure
)

// Temperature derating assumptions, relative to standard test
// conditions (25 degC cell temperature).
const (
	stcTempC      = 25.0
	cellTempRiseC = 28.0   // cell temperature above ambient in full sun
	tempCoeffPerC = -0.004 // output change per degC, silicon panels
)

// panelSpec describes one panel technology for the roof calculator.
type panelSpec struct {
	name        string
	wattsPerSqm float64
	wattage     int
}

var panelSpecs = map[string]panelSpec{
	"mono": {name: "Monocrystalline", wattsPerSqm: 200, wattage: 400},
	"poly": {name: "Polycrystalline", wattsPerSqm: 160, wattage: 400},
	"thin": {name: "Thin-Film", wattsPerSqm: 120, wattage: 300},
}

// CalculatorService implements the estimators. Every run is appended to
// the calculator history.
type CalculatorService struct {
	history *repository.CalcHistoryRepo
	logger  *zap.Logger
}

// NewCalculatorService wires the estimators over the history repo.
func NewCalculatorService(history *repository.CalcHistoryRepo, logger *zap.Logger) *CalculatorService {
	return &CalculatorService{history: history, logger: logger}
}

// Energy estimates generation for a system size. sunHours <= 0 falls
// back to the default.
func (s *CalculatorService) Energy(ctx context.Context, sizeKw, sunHours float64) (domain.EnergyEstimate, error) {
	_, span := calcTracer.Start(ctx, "CalculatorService.Energy")
	defer span.End()

	if sizeKw <= 0 {
		return domain.EnergyEstimate{}, &domain.ErrValidation{Field: "systemSizeKw", Message: "must be positive"}
	}
	if sunHours <= 0 {
		sunHours = defaultSunHours
	}

	daily := sizeKw * sunHours * systemEfficiency
	est := domain.EnergyEstimate{
		SystemSizeKw: sizeKw,
		SunHours:     sunHours,
		DailyKwh:     round2(daily),
		MonthlyKwh:   round2(daily * 30),
		YearlyKwh:    round2(daily * 365),
	}
	est.CO2Yearly = round2(daily * 365 * co2PerKwh)
	est.Trees = int(math.Round(est.CO2Yearly / kgCO2PerTreeYear))

	s.history.Append(domain.CalcEntry{
		Kind:   domain.CalcKindEnergy,
		Inputs: map[string]float64{"systemSizeKw": sizeKw, "sunHours": sunHours},
		Results: map[string]float64{
			"dailyKwh":  est.DailyKwh,
			"yearlyKwh": est.YearlyKwh,
			"co2Yearly": est.CO2Yearly,
		},
	})
	return est, nil
}

// Savings estimates bill savings and payback for a monthly bill.
// rate <= 0 falls back to 6 currency units per kWh.
func (s *CalculatorService) Savings(ctx context.Context, monthlyBill, rate float64) (domain.SavingsEstimate, error) {
	_, span := calcTracer.Start(ctx, "CalculatorService.Savings")
	defer span.End()

	if monthlyBill <= 0 {
		return domain.SavingsEstimate{}, &domain.ErrValidation{Field: "monthlyBill", Message: "must be positive"}
	}
	if rate <= 0 {
		rate = 6
	}

	monthlyConsumption := monthlyBill / rate
	monthlySavings := monthlyBill * billOffsetShare
	yearlySavings := monthlySavings * 12
	// Size the system so its monthly output covers the offset share of
	// the consumption.
	sizeNeeded := monthlyConsumption * billOffsetShare / (defaultSunHours * 30 * systemEfficiency)
	cost := sizeNeeded * costPerKw

	est := domain.SavingsEstimate{
		MonthlyBill:      monthlyBill,
		Rate:             rate,
		MonthlySavings:   round2(monthlySavings),
		YearlySavings:    round2(yearlySavings),
		SystemSizeNeeded: round2(sizeNeeded),
		InstalledCost:    math.Round(cost),
		PaybackYears:     round1(cost / yearlySavings),
	}

	s.history.Append(domain.CalcEntry{
		Kind:   domain.CalcKindSavings,
		Inputs: map[string]float64{"monthlyBill": monthlyBill, "rate": rate},
		Results: map[string]float64{
			"yearlySavings":    est.YearlySavings,
			"systemSizeNeeded": est.SystemSizeNeeded,
			"paybackYears":     est.PaybackYears,
		},
	})
	return est, nil
}

// Power converts a wattage into the common power units.
func (s *CalculatorService) Power(ctx context.Context, watts float64) (domain.PowerConversion, error) {
	_, span := calcTracer.Start(ctx, "CalculatorService.Power")
	defer span.End()

	if watts <= 0 {
		return domain.PowerConversion{}, &domain.ErrValidation{Field: "watts", Message: "must be positive"}
	}

	conv := domain.PowerConversion{
		Watts:      watts,
		Kilowatts:  watts / 1000,
		Megawatts:  watts / 1e6,
		Horsepower: round2(watts / 745.7),
		BTUPerHour: round2(watts * 3.412),
	}

	s.history.Append(domain.CalcEntry{
		Kind:   domain.CalcKindPower,
		Inputs: map[string]float64{"watts": watts},
		Results: map[string]float64{
			"kilowatts":  conv.Kilowatts,
			"horsepower": conv.Horsepower,
		},
	})
	return conv, nil
}

// Battery sizes backup storage for a daily usage. backupDays <= 0
// falls back to one day.
func (s *CalculatorService) Battery(ctx context.Context, dailyUsageKwh float64, backupDays int) (domain.BatteryEstimate, error) {
	_, span := calcTracer.Start(ctx, "CalculatorService.Battery")
	defer span.End()

	if dailyUsageKwh <= 0 {
		return domain.BatteryEstimate{}, &domain.ErrValidation{Field: "dailyUsageKwh", Message: "must be positive"}
	}
	if backupDays <= 0 {
		backupDays = 1
	}

	totalEnergy := dailyUsageKwh * float64(backupDays)
	lithium := totalEnergy / lithiumDoD
	leadAcid := totalEnergy / leadAcidDoD
	inverter := dailyUsageKwh / peakUsageHours * inverterMargin

	est := domain.BatteryEstimate{
		DailyUsageKwh:     dailyUsageKwh,
		BackupDays:        backupDays,
		TotalEnergyKwh:    round1(totalEnergy),
		LithiumKwh:        round1(lithium),
		LeadAcidKwh:       round1(leadAcid),
		InverterKw:        round2(inverter),
		LithiumCostLakhs:  round2(lithium * lithiumCostPerKwh / 100000),
		LeadAcidCostLakhs: round2(leadAcid * leadAcidCostPerKwh / 100000),
	}

	s.history.Append(domain.CalcEntry{
		Kind:   domain.CalcKindBattery,
		Inputs: map[string]float64{"dailyUsageKwh": dailyUsageKwh, "backupDays": float64(backupDays)},
		Results: map[string]float64{
			"lithiumKwh": est.LithiumKwh,
			"inverterKw": est.InverterKw,
		},
	})
	return est, nil
}

// RoofArea sizes the roof footprint for a system. panelType is one of
// mono, poly or thin; empty falls back to mono.
func (s *CalculatorService) RoofArea(ctx context.Context, sizeKw float64, panelType string) (domain.RoofEstimate, error) {
	_, span := calcTracer.Start(ctx, "CalculatorService.RoofArea")
	defer span.End()

	if sizeKw <= 0 {
		return domain.RoofEstimate{}, &domain.ErrValidation{Field: "systemSizeKw", Message: "must be positive"}
	}
	if panelType == "" {
		panelType = "mono"
	}
	spec, ok := panelSpecs[panelType]
	if !ok {
		return domain.RoofEstimate{}, &domain.ErrValidation{Field: "panelType", Message: "must be mono, poly or thin"}
	}

	panels := int(math.Ceil(sizeKw * 1000 / float64(spec.wattage)))
	panelArea := float64(spec.wattage) / spec.wattsPerSqm
	totalPanelArea := float64(panels) * panelArea
	areaWithSpacing := totalPanelArea * panelSpacingFactor

	est := domain.RoofEstimate{
		SystemSizeKw:       sizeKw,
		PanelType:          spec.name,
		Panels:             panels,
		PanelWattage:       spec.wattage,
		PanelAreaSqm:       round2(panelArea),
		TotalPanelAreaSqm:  round1(totalPanelArea),
		AreaWithSpacingSqm: round1(areaWithSpacing),
		RoofSharePercent:   int(math.Round(areaWithSpacing / typicalRoofSqm * 100)),
	}

	s.history.Append(domain.CalcEntry{
		Kind:   domain.CalcKindRoof,
		Inputs: map[string]float64{"systemSizeKw": sizeKw, "panelWattage": float64(spec.wattage)},
		Results: map[string]float64{
			"panels":             float64(est.Panels),
			"areaWithSpacingSqm": est.AreaWithSpacingSqm,
		},
	})
	return est, nil
}

// TempDerate estimates output loss at an ambient temperature. Zero or
// negative inputs fall back to a 400 W panel at 35 degC.
func (s *CalculatorService) TempDerate(ctx context.Context, panelRatingW, ambientTempC float64) domain.TempDerateEstimate {
	_, span := calcTracer.Start(ctx, "CalculatorService.TempDerate")
	defer span.End()

	if panelRatingW <= 0 {
		panelRatingW = 400
	}
	if ambientTempC <= 0 {
		ambientTempC = 35
	}

	cellTemp := ambientTempC + cellTempRiseC
	tempDiff := cellTemp - stcTempC
	actual := panelRatingW * (1 + tempCoeffPerC*tempDiff)
	loss := panelRatingW - actual

	est := domain.TempDerateEstimate{
		PanelRatingW:  panelRatingW,
		AmbientTempC:  ambientTempC,
		CellTempC:     round1(cellTemp),
		TempDiffC:     round1(tempDiff),
		ActualOutputW: round1(actual),
		PowerLossW:    round1(loss),
		LossPercent:   round1(loss / panelRatingW * 100),
	}

	s.history.Append(domain.CalcEntry{
		Kind:   domain.CalcKindTemperature,
		Inputs: map[string]float64{"panelRatingW": panelRatingW, "ambientTempC": ambientTempC},
		Results: map[string]float64{
			"actualOutputW": est.ActualOutputW,
			"lossPercent":   est.LossPercent,
		},
	})
	return est
}

// History returns up to n most recent calculator runs.
func (s *CalculatorService) History(n int) []domain.CalcEntry {
	return s.history.Recent(n)
}
