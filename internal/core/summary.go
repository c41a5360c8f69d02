package core

import "github.com/shopspring/decimal"

// PeriodTotals are the income and expense sums of a period.
type PeriodTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// MonthComparison pairs a category's spending in two consecutive months.
type MonthComparison struct {
	Category string          `json:"category"`
	Current  decimal.Decimal `json:"current"`
	Previous decimal.Decimal `json:"previous"`
}

type DashboardSummary struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Balance      decimal.Decimal `json:"balance"`
	IncomeTrend  decimal.Decimal `json:"incomeTrend"`
	ExpenseTrend decimal.Decimal `json:"expenseTrend"`
	BalanceTrend decimal.Decimal `json:"balanceTrend"`
	Month        string          `json:"month"`
}

type WeekdayAmount struct {
	Weekday string          `json:"weekday"`
	Amount  decimal.Decimal `json:"amount"`
}

type MonthAmount struct {
	Month  int             `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

type MonthlyEntry struct {
	Month   int             `json:"month"`
	Expense decimal.Decimal `json:"expense"`
	Income  decimal.Decimal `json:"income"`
	Net     decimal.Decimal `json:"net"`
}

type YearlySummary struct {
	TotalExpense      decimal.Decimal `json:"totalExpense"`
	TotalIncome       decimal.Decimal `json:"totalIncome"`
	Net               decimal.Decimal `json:"net"`
	AvgMonthlyExpense decimal.Decimal `json:"avgMonthlyExpense"`
	MaxExpenseMonth   MonthAmount     `json:"maxExpenseMonth"`
	MinExpenseMonth   MonthAmount     `json:"minExpenseMonth"`
}

type CategoryShare struct {
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Total        decimal.Decimal `json:"total"`
	Percent      decimal.Decimal `json:"percent"`
	Count        int64           `json:"count"`
	AvgMonthly   decimal.Decimal `json:"avgMonthly"`
}

type YearlyReport struct {
	Year       int             `json:"year"`
	Summary    YearlySummary   `json:"summary"`
	Monthly    []MonthlyEntry  `json:"monthly"`
	ByCategory []CategoryShare `json:"byCategory"`
}

type BudgetStatus struct {
	ID         string          `json:"id"`
	Category   string          `json:"category"`
	Limit      decimal.Decimal `json:"limit"`
	Spent      decimal.Decimal `json:"spent"`
	Percentage decimal.Decimal `json:"percentage"`
	YearMonth  string          `json:"yearMonth"`
}
