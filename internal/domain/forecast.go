package domain

// MinForecastTransactions is the minimum history size for a forecast.
const MinForecastTransactions = 30

// ForecastHorizonDays is how far forward the engine predicts.
const ForecastHorizonDays = 30

// DailyPrediction is one forecasted day.
type DailyPrediction struct {
	Date            string  `json:"date"`
	PredictedAmount float64 `json:"predicted_amount"`
	Confidence      string  `json:"confidence"`
}

// Forecast is a successful 30-day projection.
type Forecast struct {
	ForecastPeriod        string            `json:"forecast_period"`
	TotalPredictedExpense float64           `json:"total_predicted_expense"`
	DailyPredictions      []DailyPrediction `json:"daily_predictions"`
	AvgDailyExpense       float64           `json:"avg_daily_expense"`
	Trend                 string            `json:"trend"`
}

// InsufficientData is the expected, non-fatal outcome when a batch is too
// small to work with. It is a result value, not an error.
type InsufficientData struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
