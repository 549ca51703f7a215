package domain

// MinTrainingTransactions is the minimum labeled batch size for training.
const MinTrainingTransactions = 50

// TrainingResult confirms a completed training run. Accuracy is a nominal
// placeholder: no validation split is performed.
type TrainingResult struct {
	Message     string `json:"message"`
	Accuracy    string `json:"accuracy,omitempty"`
	SamplesUsed int    `json:"samples_used,omitempty"`
}

// ModelFeatureCount is the width of the engineered feature vector
// (log-scaled amount, day of week).
const ModelFeatureCount = 2
