package sheets

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ChongZhe001025/FinTrack-sub000/internal/core"
)

// ReportRows lays a yearly report out as sheet rows: a summary block, the
// twelve months and the per-category breakdown, separated by blank rows.
func ReportRows(r core.YearlyReport) [][]interface{} {
	rows := [][]interface{}{
		{"Year", r.Year},
		{},
		{"Total expense", money(r.Summary.TotalExpense)},
		{"Total income", money(r.Summary.TotalIncome)},
		{"Net", money(r.Summary.Net)},
		{"Average monthly expense", money(r.Summary.AvgMonthlyExpense)},
		{"Highest expense month", monthName(r.Summary.MaxExpenseMonth.Month), money(r.Summary.MaxExpenseMonth.Amount)},
		{"Lowest expense month", monthName(r.Summary.MinExpenseMonth.Month), money(r.Summary.MinExpenseMonth.Amount)},
		{},
		{"Month", "Expense", "Income", "Net"},
	}
	for _, m := range r.Monthly {
		rows = append(rows, []interface{}{monthName(m.Month), money(m.Expense), money(m.Income), money(m.Net)})
	}

	rows = append(rows, []interface{}{}, []interface{}{"Category", "Total", "Percent", "Transactions", "Average monthly"})
	for _, c := range r.ByCategory {
		rows = append(rows, []interface{}{c.CategoryName, money(c.Total), money(c.Percent), c.Count, money(c.AvgMonthly)})
	}
	return rows
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// monthName renders 1-12 as a month name; anything else (the empty-year
// sentinel) is blank.
func monthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return time.Month(m).String()
}
