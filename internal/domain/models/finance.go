package models

import "github.com/shopspring/decimal"

// TransactionType splits finance records into money in and money out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "Income"
	TransactionExpense TransactionType = "Expense"
)

// Valid reports whether t is Income or Expense.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// FinanceRecord is one money movement of a pantry.
type FinanceRecord struct {
	ID              int64           `gorm:"primaryKey" json:"id"`
	PantryID        int64           `gorm:"not null;index" json:"pantryID"`
	TransactionType TransactionType `gorm:"size:20;not null" json:"transactionType"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	TransactionDate Date            `gorm:"not null" json:"transactionDate"`
	Description     string          `gorm:"type:text" json:"description"`
}

func (FinanceRecord) TableName() string { return "finance" }

// FinanceInput creates or edits a finance record.
type FinanceInput struct {
	TransactionType TransactionType `json:"transactionType" binding:"required,transactiontype"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate Date            `json:"transactionDate"`
	Description     string          `json:"description"`
}

// FinanceSummary totals a pantry's records.
type FinanceSummary struct {
	PantryID     int64           `json:"pantryID"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Balance      decimal.Decimal `json:"balance"`
	Records      int             `json:"records"`
}

// SummarizeFinance folds records into income, expense and balance.
func SummarizeFinance(pantryID int64, records []FinanceRecord) FinanceSummary {
	summary := FinanceSummary{
		PantryID:     pantryID,
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, r := range records {
		switch r.TransactionType {
		case TransactionIncome:
			summary.TotalIncome = summary.TotalIncome.Add(r.Amount)
		case TransactionExpense:
			summary.TotalExpense = summary.TotalExpense.Add(r.Amount)
		}
		summary.Records++
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary
}
