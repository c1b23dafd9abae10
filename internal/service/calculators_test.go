package service_test

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/domain"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/service"
)

func newCalcService(t *testing.T) *service.CalculatorService {
	t.Helper()
	repos := newTestRepos(t)
	return service.NewCalculatorService(repos.CalcHistory, zap.NewNop())
}

func TestEnergyEstimate(t *testing.T) {
	calc := newCalcService(t)

	// 5 kW at the default 5 sun hours: 5*5*0.85 = 21.25 kWh/day.
	est, err := calc.Energy(context.Background(), 5, 0)
	if err != nil {
		t.Fatalf("energy: %v", err)
	}
	if est.SunHours != 5 {
		t.Errorf("sun hours = %v, want default 5", est.SunHours)
	}
	if est.DailyKwh != 21.25 {
		t.Errorf("daily = %v, want 21.25", est.DailyKwh)
	}
	if est.MonthlyKwh != 637.5 {
		t.Errorf("monthly = %v, want 637.5", est.MonthlyKwh)
	}
	if est.YearlyKwh != 7756.25 {
		t.Errorf("yearly = %v, want 7756.25", est.YearlyKwh)
	}
	if est.CO2Yearly != 6592.81 {
		t.Errorf("co2 = %v, want 6592.81", est.CO2Yearly)
	}
	if est.Trees != 300 {
		t.Errorf("trees = %d, want 300", est.Trees)
	}
}

func TestEnergyRejectsNonPositiveSize(t *testing.T) {
	calc := newCalcService(t)

	if _, err := calc.Energy(context.Background(), 0, 5); err == nil {
		t.Error("zero size should be rejected")
	}
	if _, err := calc.Energy(context.Background(), -3, 5); err == nil {
		t.Error("negative size should be rejected")
	}
}

func TestSavingsEstimate(t *testing.T) {
	calc := newCalcService(t)

	// Bill 3000 at the default rate 6/kWh: 500 kWh/month consumption.
	est, err := calc.Savings(context.Background(), 3000, 0)
	if err != nil {
		t.Fatalf("savings: %v", err)
	}
	if est.Rate != 6 {
		t.Errorf("rate = %v, want default 6", est.Rate)
	}
	if est.MonthlySavings != 2100 {
		t.Errorf("monthly savings = %v, want 2100 (70%% offset)", est.MonthlySavings)
	}
	if est.YearlySavings != 25200 {
		t.Errorf("yearly savings = %v, want 25200", est.YearlySavings)
	}
	if est.SystemSizeNeeded != 2.75 {
		t.Errorf("size needed = %v, want 2.75", est.SystemSizeNeeded)
	}
	if est.InstalledCost != 137255 {
		t.Errorf("cost = %v, want 137255", est.InstalledCost)
	}
	if est.PaybackYears != 5.4 {
		t.Errorf("payback = %v, want 5.4", est.PaybackYears)
	}
}

func TestSavingsRejectsNonPositiveBill(t *testing.T) {
	calc := newCalcService(t)

	if _, err := calc.Savings(context.Background(), 0, 6); err == nil {
		t.Error("zero bill should be rejected")
	}
}

func TestPowerConversion(t *testing.T) {
	calc := newCalcService(t)

	conv, err := calc.Power(context.Background(), 1000)
	if err != nil {
		t.Fatalf("power: %v", err)
	}
	if conv.Kilowatts != 1 {
		t.Errorf("kW = %v", conv.Kilowatts)
	}
	if conv.Megawatts != 0.001 {
		t.Errorf("MW = %v", conv.Megawatts)
	}
	if conv.Horsepower != 1.34 {
		t.Errorf("hp = %v, want 1.34", conv.Horsepower)
	}
	if conv.BTUPerHour != 3412 {
		t.Errorf("btu = %v, want 3412", conv.BTUPerHour)
	}

	if _, err := calc.Power(context.Background(), -1); err == nil {
		t.Error("negative wattage should be rejected")
	}
}

func TestBatteryEstimate(t *testing.T) {
	calc := newCalcService(t)

	// 10 kWh/day for 2 backup days: 20 kWh total.
	est, err := calc.Battery(context.Background(), 10, 2)
	if err != nil {
		t.Fatalf("battery: %v", err)
	}
	if est.TotalEnergyKwh != 20 {
		t.Errorf("total = %v, want 20", est.TotalEnergyKwh)
	}
	if est.LithiumKwh != 25 {
		t.Errorf("lithium = %v, want 25 (80%% DoD)", est.LithiumKwh)
	}
	if est.LeadAcidKwh != 40 {
		t.Errorf("lead-acid = %v, want 40 (50%% DoD)", est.LeadAcidKwh)
	}
	if est.InverterKw != 2.5 {
		t.Errorf("inverter = %v, want 2.5", est.InverterKw)
	}
	if est.LithiumCostLakhs != 3.75 {
		t.Errorf("lithium cost = %v, want 3.75", est.LithiumCostLakhs)
	}
	if est.LeadAcidCostLakhs != 3.2 {
		t.Errorf("lead-acid cost = %v, want 3.2", est.LeadAcidCostLakhs)
	}
}

func TestBatteryDefaultsAndValidation(t *testing.T) {
	calc := newCalcService(t)

	est, err := calc.Battery(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("battery: %v", err)
	}
	if est.BackupDays != 1 {
		t.Errorf("backup days = %d, want default 1", est.BackupDays)
	}

	if _, err := calc.Battery(context.Background(), 0, 1); err == nil {
		t.Error("zero usage should be rejected")
	}
}

func TestRoofAreaEstimate(t *testing.T) {
	calc := newCalcService(t)

	// 5 kW mono: ceil(5000/400) = 13 panels of 2 sqm each.
	est, err := calc.RoofArea(context.Background(), 5, "")
	if err != nil {
		t.Fatalf("roof area: %v", err)
	}
	if est.PanelType != "Monocrystalline" {
		t.Errorf("panel type = %s, want default mono", est.PanelType)
	}
	if est.Panels != 13 {
		t.Errorf("panels = %d, want 13", est.Panels)
	}
	if est.PanelWattage != 400 {
		t.Errorf("wattage = %d, want 400", est.PanelWattage)
	}
	if est.PanelAreaSqm != 2 {
		t.Errorf("panel area = %v, want 2", est.PanelAreaSqm)
	}
	if est.TotalPanelAreaSqm != 26 {
		t.Errorf("total area = %v, want 26", est.TotalPanelAreaSqm)
	}
	if est.AreaWithSpacingSqm != 33.8 {
		t.Errorf("area with spacing = %v, want 33.8", est.AreaWithSpacingSqm)
	}
	if est.RoofSharePercent != 34 {
		t.Errorf("roof share = %d%%, want 34%%", est.RoofSharePercent)
	}
}

func TestRoofAreaThinFilm(t *testing.T) {
	calc := newCalcService(t)

	// Thin-film uses 300 W panels at 120 W/sqm.
	est, err := calc.RoofArea(context.Background(), 5, "thin")
	if err != nil {
		t.Fatalf("roof area: %v", err)
	}
	if est.Panels != 17 {
		t.Errorf("panels = %d, want 17", est.Panels)
	}
	if est.PanelWattage != 300 {
		t.Errorf("wattage = %d, want 300", est.PanelWattage)
	}
	if est.PanelAreaSqm != 2.5 {
		t.Errorf("panel area = %v, want 2.5", est.PanelAreaSqm)
	}
}

func TestRoofAreaValidation(t *testing.T) {
	calc := newCalcService(t)

	if _, err := calc.RoofArea(context.Background(), 0, "mono"); err == nil {
		t.Error("zero size should be rejected")
	}
	if _, err := calc.RoofArea(context.Background(), 5, "bifacial"); err == nil {
		t.Error("unknown panel type should be rejected")
	}
}

func TestTempDerate(t *testing.T) {
	calc := newCalcService(t)

	// 400 W at 35 degC ambient: cell 63, 38 over STC, -0.4%/degC.
	est := calc.TempDerate(context.Background(), 400, 35)
	if est.CellTempC != 63 {
		t.Errorf("cell temp = %v, want 63", est.CellTempC)
	}
	if est.TempDiffC != 38 {
		t.Errorf("temp diff = %v, want 38", est.TempDiffC)
	}
	if est.ActualOutputW != 339.2 {
		t.Errorf("actual output = %v, want 339.2", est.ActualOutputW)
	}
	if est.PowerLossW != 60.8 {
		t.Errorf("power loss = %v, want 60.8", est.PowerLossW)
	}
	if est.LossPercent != 15.2 {
		t.Errorf("loss = %v%%, want 15.2%%", est.LossPercent)
	}
}

func TestTempDerateDefaults(t *testing.T) {
	calc := newCalcService(t)

	est := calc.TempDerate(context.Background(), 0, 0)
	if est.PanelRatingW != 400 {
		t.Errorf("rating = %v, want default 400", est.PanelRatingW)
	}
	if est.AmbientTempC != 35 {
		t.Errorf("ambient = %v, want default 35", est.AmbientTempC)
	}
}

func TestCalculatorRunsAreRecorded(t *testing.T) {
	repos := newTestRepos(t)
	calc := service.NewCalculatorService(repos.CalcHistory, zap.NewNop())
	ctx := context.Background()

	calc.Energy(ctx, 5, 5)
	calc.Savings(ctx, 3000, 6)
	calc.Power(ctx, 1000)
	calc.Battery(ctx, 10, 2)
	calc.RoofArea(ctx, 5, "mono")
	calc.TempDerate(ctx, 400, 35)

	history := calc.History(10)
	if len(history) != 6 {
		t.Fatalf("history = %d entries, want 6", len(history))
	}
	kinds := []domain.CalcKind{
		domain.CalcKindEnergy, domain.CalcKindSavings, domain.CalcKindPower,
		domain.CalcKindBattery, domain.CalcKindRoof, domain.CalcKindTemperature,
	}
	for i, want := range kinds {
		if history[i].Kind != want {
			t.Errorf("entry %d kind = %s, want %s", i, history[i].Kind, want)
		}
		if history[i].ID == "" || history[i].CreatedAt.IsZero() {
			t.Errorf("entry %d missing id or timestamp", i)
		}
	}
}
