package service

import (
	"sort"
	"time"

	"github.com/budgetbot/ml-backend/internal/domain"
	"github.com/budgetbot/ml-backend/internal/util"
)

const insufficientForecastMessage = "Need at least 30 transactions for accurate forecasting"

// ForecastService extrapolates a 30-day expense forecast from transaction
// history. It is a pure function of the supplied batch and the anchor date;
// callers inject "today" so forecasts stay deterministic and testable.
type ForecastService struct{}

// NewForecastService creates a new ForecastService
func NewForecastService() *ForecastService {
	return &ForecastService{}
}

// Forecast aggregates the batch into daily totals and projects the next 30
// days from the anchor date. A batch under 30 transactions yields the
// insufficient-data result, not an error.
func (s *ForecastService) Forecast(transactions []*domain.Transaction, anchor time.Time) (*domain.Forecast, *domain.InsufficientData) {
	if len(transactions) < domain.MinForecastTransactions {
		return nil, &domain.InsufficientData{
			Error:   "Insufficient data",
			Message: insufficientForecastMessage,
		}
	}

	daily := aggregateDaily(transactions)

	var avgDaily float64
	for _, day := range daily {
		avgDaily += day.Total
	}
	avgDaily /= float64(len(daily))

	// Trend is the gap between the short and long trailing windows. Either
	// window is undefined until that many days of history exist; an
	// undefined window contributes no trend.
	trend := 0.0
	ma7 := trailingAverage(daily, 7)
	ma30 := trailingAverage(daily, 30)
	if ma7 != nil && ma30 != nil {
		trend = *ma7 - *ma30
	}

	predictions := make([]domain.DailyPrediction, 0, domain.ForecastHorizonDays)
	total := 0.0
	for i := 1; i <= domain.ForecastHorizonDays; i++ {
		// Linear interpolation of the trend signal: day 30 carries the
		// full delta, day 1 carries 1/30th.
		predicted := util.Round2(avgDaily + trend*float64(i)/float64(domain.ForecastHorizonDays))
		total += predicted
		predictions = append(predictions, domain.DailyPrediction{
			Date:            anchor.AddDate(0, 0, i).Format(util.DateLayout),
			PredictedAmount: predicted,
			Confidence:      "medium",
		})
	}

	// trend == 0 deliberately reports "decreasing"; the tie-break is part
	// of the existing contract.
	direction := "decreasing"
	if trend > 0 {
		direction = "increasing"
	}

	return &domain.Forecast{
		ForecastPeriod:        "30_days",
		TotalPredictedExpense: util.Round2(total),
		DailyPredictions:      predictions,
		AvgDailyExpense:       util.Round2(avgDaily),
		Trend:                 direction,
	}, nil
}

// aggregateDaily sums amounts per calendar day and returns the aggregates in
// chronological order. Days without transactions are absent, not zero-filled.
func aggregateDaily(transactions []*domain.Transaction) []domain.DailyAggregate {
	totals := make(map[time.Time]float64)
	for _, tx := range transactions {
		day := util.TruncateToDay(tx.TransactionDate)
		totals[day] += tx.Amount.InexactFloat64()
	}

	daily := make([]domain.DailyAggregate, 0, len(totals))
	for day, total := range totals {
		daily = append(daily, domain.DailyAggregate{Date: day, Total: total})
	}
	sort.Slice(daily, func(i, j int) bool {
		return daily[i].Date.Before(daily[j].Date)
	})
	return daily
}

// trailingAverage returns the mean of the last window days, or nil when
// fewer days of history exist.
func trailingAverage(daily []domain.DailyAggregate, window int) *float64 {
	if len(daily) < window {
		return nil
	}
	sum := 0.0
	for _, day := range daily[len(daily)-window:] {
		sum += day.Total
	}
	avg := sum / float64(window)
	return &avg
}
