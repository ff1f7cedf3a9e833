package core

// UncategorizedLabel names the bucket for subscriptions without a category.
const UncategorizedLabel = "Uncategorized"

// CategoryAmount is a monthly-equivalent amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount float64
	Count  int
}

// Renewal is a subscription paired with the days left before it renews.
type Renewal struct {
	Subscription Subscription
	DaysUntil    int
}

// Summary holds spend totals derived from the stored collection. Nothing here is persisted.
type Summary struct {
	Count          int
	MonthlyTotal   float64
	YearlyTotal    float64 // MonthlyTotal * 12, not the sum of native yearly costs
	AverageMonthly float64
	Upcoming       []Renewal
	ByCategory     []CategoryAmount
}
