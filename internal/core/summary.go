package core

// ChartDataset is one series of the income/expense chart.
type ChartDataset struct {
	Label           string   `json:"label"`
	Data            []Money  `json:"data"`
	BackgroundColor []string `json:"backgroundColor"`
}

// ChartData is the chart payload the dashboard renders next to the summary.
type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// Summary is the lifetime income versus expense overview for one user.
type Summary struct {
	TotalIncome  Money     `json:"totalIncome"`
	TotalExpense Money     `json:"totalExpense"`
	NetSavings   Money     `json:"netSavings"`
	ChartData    ChartData `json:"chartData"`
}

// NewSummary derives net savings and the chart payload from the two totals.
func NewSummary(income, expense Money) Summary {
	return Summary{
		TotalIncome:  income,
		TotalExpense: expense,
		NetSavings:   income.Sub(expense),
		ChartData: ChartData{
			Labels: []string{"Income", "Expenses"},
			Datasets: []ChartDataset{{
				Label:           "Amount",
				Data:            []Money{income, expense},
				BackgroundColor: []string{"#4CAF50", "#FF5252"},
			}},
		},
	}
}
