package domain

// CategoryRule maps a spending category to the lowercase keywords that select
// it. Rules are evaluated in slice order and the first keyword hit wins, so
// the order below is part of the contract.
type CategoryRule struct {
	Category string
	Keywords []string
}

// DefaultCategoryRules is the process-wide rule table. Loaded once, never
// mutated, safe to share across concurrent callers.
var DefaultCategoryRules = []CategoryRule{
	{Category: "Groceries", Keywords: []string{"walmart", "kroger", "safeway", "whole foods", "grocery", "supermarket", "food mart"}},
	{Category: "Dining", Keywords: []string{"restaurant", "cafe", "pizza", "mcdonald", "starbucks", "coffee", "burger", "dining"}},
	{Category: "Transportation", Keywords: []string{"uber", "lyft", "gas", "fuel", "parking", "metro", "train", "bus", "transit"}},
	{Category: "Entertainment", Keywords: []string{"movie", "netflix", "spotify", "cinema", "theater", "gaming", "gym", "sports"}},
	{Category: "Healthcare", Keywords: []string{"pharmacy", "hospital", "doctor", "clinic", "medical", "health", "cvs", "walgreens"}},
	{Category: "Utilities", Keywords: []string{"electric", "water", "gas bill", "internet", "phone", "utility", "comcast", "verizon"}},
	{Category: "Shopping", Keywords: []string{"amazon", "target", "mall", "store", "retail", "clothing", "fashion"}},
	{Category: "Rent/Mortgage", Keywords: []string{"rent", "mortgage", "property", "lease"}},
}

// Classification methods.
const (
	MethodKeywordMatching = "keyword_matching"
	MethodDefault         = "default"
	MethodModel           = "model"
)

// Fallback categories when no rule matches.
const (
	DefaultExpenseCategory = "Shopping"
	DefaultIncomeCategory  = "Other Income"
)

// Classification is the result of categorizing a single transaction.
type Classification struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Method     string  `json:"method"`
}
