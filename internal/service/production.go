package service

import (
	"context"
	"math"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/domain"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/repository"
)

var prodTracer = otel.Tracer("service/production")

// Daylight window for the synthesized curve, hours inclusive.
const (
	firstDaylightHour = 5
	lastDaylightHour  = 19
)

// co2PerKwh is the grid-offset estimate in kg CO2 per kWh produced.
const co2PerKwh = 0.85

// ProductionService synthesizes per-day production curves and computes
// rollups over the stored readings.
type ProductionService struct {
	readings *repository.ProductionRepo
	logger   *zap.Logger
	now      func() time.Time
	weather  func() float64 // uniform [0,1)
}

// NewProductionService wires the generator over the readings repo.
func NewProductionService(readings *repository.ProductionRepo, logger *zap.Logger) *ProductionService {
	return &ProductionService{
		readings: readings,
		logger:   logger,
		now:      time.Now,
		weather:  rand.Float64,
	}
}

// GenerateDailyData returns today's reading for the customer, creating
// it on first call. Once a day's reading exists it is returned
// unchanged forever: dashboard refreshes must not perturb today's
// numbers. The curve is random at generation time (per-hour weather
// factor in [0.8, 1.2]) and frozen once persisted.
func (s *ProductionService) GenerateDailyData(ctx context.Context, customerID string, capacityKw float64) domain.ProductionReading {
	_, span := prodTracer.Start(ctx, "ProductionService.GenerateDailyData")
	span.SetAttributes(attribute.String("customer_id", customerID))
	defer span.End()

	today := s.now().Format(domain.DateLayout)
	if existing, ok := s.readings.GetByDate(customerID, today); ok {
		return existing
	}

	baseOutput := capacityKw * 0.85
	hourly := make([]domain.HourlyOutput, 0, lastDaylightHour-firstDaylightHour+1)
	var total float64
	for hour := firstDaylightHour; hour <= lastDaylightHour; hour++ {
		sunFactor := math.Sin(float64(hour-firstDaylightHour) * math.Pi / 14)
		weatherFactor := 0.8 + s.weather()*0.4
		output := round2(baseOutput * sunFactor * weatherFactor / 24)
		hourly = append(hourly, domain.HourlyOutput{Hour: hour, Output: output})
		total += output
	}

	efficiency := 0
	if capacityKw > 0 {
		efficiency = int(math.Round(total / (capacityKw * 5) * 100))
	}

	reading := s.readings.Insert(domain.ProductionReading{
		CustomerID: customerID,
		Date:       today,
		HourlyData: hourly,
		DailyTotal: round2(total),
		Efficiency: efficiency,
	})
	s.logger.Debug("daily production generated",
		zap.String("customer_id", customerID),
		zap.String("date", today),
		zap.Float64("daily_total", reading.DailyTotal),
	)
	return reading
}

// WeeklyData returns the trailing 7 calendar days, oldest first, with
// zero totals for days without a reading.
func (s *ProductionService) WeeklyData(ctx context.Context, customerID string) []domain.DayTotal {
	return s.window(ctx, customerID, 7, true)
}

// MonthlyData returns the trailing 30 calendar days, oldest first.
func (s *ProductionService) MonthlyData(ctx context.Context, customerID string) []domain.DayTotal {
	return s.window(ctx, customerID, 30, false)
}

func (s *ProductionService) window(ctx context.Context, customerID string, days int, withDayName bool) []domain.DayTotal {
	_, span := prodTracer.Start(ctx, "ProductionService.Window")
	span.SetAttributes(attribute.Int("days", days))
	defer span.End()

	byDate := make(map[string]float64)
	for _, p := range s.readings.GetByCustomer(customerID) {
		byDate[p.Date] = p.DailyTotal
	}

	out := make([]domain.DayTotal, 0, days)
	now := s.now()
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		dt := domain.DayTotal{
			Date:  day.Format(domain.DateLayout),
			Total: byDate[day.Format(domain.DateLayout)],
		}
		if withDayName {
			dt.DayName = day.Format("Mon")
		}
		out = append(out, dt)
	}
	return out
}

// Stats aggregates the customer's readings: today's total, this
// calendar month, all-time, today's efficiency and the CO2 offset.
func (s *ProductionService) Stats(ctx context.Context, customerID string) domain.ProductionStats {
	_, span := prodTracer.Start(ctx, "ProductionService.Stats")
	span.SetAttributes(attribute.String("customer_id", customerID))
	defer span.End()

	now := s.now()
	today := now.Format(domain.DateLayout)

	var stats domain.ProductionStats
	var monthTotal, allTime float64
	for _, p := range s.readings.GetByCustomer(customerID) {
		allTime += p.DailyTotal
		if d, err := time.Parse(domain.DateLayout, p.Date); err == nil {
			if d.Month() == now.Month() && d.Year() == now.Year() {
				monthTotal += p.DailyTotal
			}
		}
		if p.Date == today {
			stats.Today = p.DailyTotal
			stats.Efficiency = p.Efficiency
		}
	}
	stats.ThisMonth = round1(monthTotal)
	stats.AllTime = round1(allTime)
	stats.CO2Saved = int(math.Round(allTime * co2PerKwh))
	return stats
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
