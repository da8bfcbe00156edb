package models

// MonthlyEarning is one row of the earnings display feed.
type MonthlyEarning struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// EarningsSummary is the derived display view over the monthly rows.
type EarningsSummary struct {
	Months []MonthlyEarning `json:"months"`
	Total  float64          `json:"total"`
}
