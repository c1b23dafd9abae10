package service_test

import (
	"context"
	"math"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/domain"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/service"
)

func TestGenerateDailyDataShape(t *testing.T) {
	repos := newTestRepos(t)
	prod := service.NewProductionService(repos.Production, zap.NewNop())
	ctx := context.Background()

	reading := prod.GenerateDailyData(ctx, "c1", 5)

	if reading.CustomerID != "c1" {
		t.Errorf("customer id = %s", reading.CustomerID)
	}
	if reading.Date != time.Now().Format(domain.DateLayout) {
		t.Errorf("date = %s", reading.Date)
	}
	if len(reading.HourlyData) != 15 {
		t.Fatalf("hourly entries = %d, want 15", len(reading.HourlyData))
	}
	for i, h := range reading.HourlyData {
		if h.Hour != 5+i {
			t.Errorf("entry %d hour = %d, want %d", i, h.Hour, 5+i)
		}
		if h.Output < 0 {
			t.Errorf("hour %d output negative: %v", h.Hour, h.Output)
		}
	}
	if reading.DailyTotal <= 0 {
		t.Errorf("daily total = %v, want > 0", reading.DailyTotal)
	}

	var sum float64
	for _, h := range reading.HourlyData {
		sum += h.Output
	}
	if math.Abs(reading.DailyTotal-sum) > 0.01 {
		t.Errorf("daily total %v does not match hourly sum %v", reading.DailyTotal, sum)
	}
	if reading.Efficiency < 0 || reading.Efficiency > 100 {
		t.Errorf("efficiency = %d", reading.Efficiency)
	}
}

func TestGenerateDailyDataIdempotentPerDay(t *testing.T) {
	repos := newTestRepos(t)
	prod := service.NewProductionService(repos.Production, zap.NewNop())
	ctx := context.Background()

	first := prod.GenerateDailyData(ctx, "c1", 5)
	second := prod.GenerateDailyData(ctx, "c1", 5)

	if !reflect.DeepEqual(first, second) {
		t.Error("same-day regeneration must return the identical record")
	}
	if got := repos.Production.GetByCustomer("c1"); len(got) != 1 {
		t.Errorf("stored readings = %d, want 1", len(got))
	}
}

func TestGenerateDailyDataZeroCapacity(t *testing.T) {
	repos := newTestRepos(t)
	prod := service.NewProductionService(repos.Production, zap.NewNop())

	reading := prod.GenerateDailyData(context.Background(), "c1", 0)
	if reading.DailyTotal != 0 {
		t.Errorf("zero capacity total = %v", reading.DailyTotal)
	}
	if reading.Efficiency != 0 {
		t.Errorf("zero capacity efficiency = %d", reading.Efficiency)
	}
}

func TestWeeklyDataWindow(t *testing.T) {
	repos := newTestRepos(t)
	prod := service.NewProductionService(repos.Production, zap.NewNop())
	ctx := context.Background()

	today := prod.GenerateDailyData(ctx, "c1", 5)

	days := prod.WeeklyData(ctx, "c1")
	if len(days) != 7 {
		t.Fatalf("weekly window = %d days, want 7", len(days))
	}

	now := time.Now()
	if days[0].Date != now.AddDate(0, 0, -6).Format(domain.DateLayout) {
		t.Errorf("first day = %s, want 6 days ago", days[0].Date)
	}
	if days[6].Date != now.Format(domain.DateLayout) {
		t.Errorf("last day = %s, want today", days[6].Date)
	}
	if days[6].Total != today.DailyTotal {
		t.Errorf("today total = %v, want %v", days[6].Total, today.DailyTotal)
	}
	for i := 0; i < 6; i++ {
		if days[i].Total != 0 {
			t.Errorf("day %s total = %v, want 0 (no reading)", days[i].Date, days[i].Total)
		}
	}
	for _, d := range days {
		if d.DayName == "" {
			t.Errorf("day %s missing day name", d.Date)
		}
	}
}

func TestMonthlyDataWindow(t *testing.T) {
	repos := newTestRepos(t)
	prod := service.NewProductionService(repos.Production, zap.NewNop())
	ctx := context.Background()

	days := prod.MonthlyData(ctx, "c1")
	if len(days) != 30 {
		t.Fatalf("monthly window = %d days, want 30", len(days))
	}
	if days[len(days)-1].Date != time.Now().Format(domain.DateLayout) {
		t.Error("monthly window should end today")
	}
	// Day names are a weekly-view affordance only.
	if days[0].DayName != "" {
		t.Error("monthly window should not carry day names")
	}
}

func TestStatsAggregation(t *testing.T) {
	repos := newTestRepos(t)
	prod := service.NewProductionService(repos.Production, zap.NewNop())
	ctx := context.Background()

	// A reading far in the past counts toward all-time but not the month.
	repos.Production.Insert(domain.ProductionReading{
		CustomerID: "c1",
		Date:       "2000-01-02",
		DailyTotal: 3,
		Efficiency: 50,
	})
	today := prod.GenerateDailyData(ctx, "c1", 5)

	stats := prod.Stats(ctx, "c1")

	if stats.Today != today.DailyTotal {
		t.Errorf("today = %v, want %v", stats.Today, today.DailyTotal)
	}
	if stats.Efficiency != today.Efficiency {
		t.Errorf("efficiency = %d, want %d", stats.Efficiency, today.Efficiency)
	}
	wantMonth := math.Round(today.DailyTotal*10) / 10
	if stats.ThisMonth != wantMonth {
		t.Errorf("this month = %v, want %v", stats.ThisMonth, wantMonth)
	}
	allTime := 3 + today.DailyTotal
	if stats.AllTime != math.Round(allTime*10)/10 {
		t.Errorf("all time = %v", stats.AllTime)
	}
	if stats.CO2Saved != int(math.Round(allTime*0.85)) {
		t.Errorf("co2 = %d", stats.CO2Saved)
	}
}

func TestStatsAllTimeAndCO2(t *testing.T) {
	repos := newTestRepos(t)
	prod := service.NewProductionService(repos.Production, zap.NewNop())

	for i, total := range []float64{3.0, 4.0, 5.0} {
		repos.Production.Insert(domain.ProductionReading{
			CustomerID: "c1",
			Date:       time.Date(2000, 1, 2+i, 0, 0, 0, 0, time.UTC).Format(domain.DateLayout),
			DailyTotal: total,
		})
	}

	stats := prod.Stats(context.Background(), "c1")
	if stats.AllTime != 12.0 {
		t.Errorf("all time = %v, want 12.0", stats.AllTime)
	}
	if stats.CO2Saved != 10 {
		t.Errorf("co2 = %d, want 10", stats.CO2Saved)
	}
}

func TestStatsEmptyCustomer(t *testing.T) {
	repos := newTestRepos(t)
	prod := service.NewProductionService(repos.Production, zap.NewNop())

	stats := prod.Stats(context.Background(), "nobody")
	if stats.Today != 0 || stats.ThisMonth != 0 || stats.AllTime != 0 || stats.CO2Saved != 0 {
		t.Errorf("empty stats = %+v", stats)
	}
}
