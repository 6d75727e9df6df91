package entity

import "time"

// ExpenseCategory entrada del catálogo de categorías de gasto de una empresa.
// El nombre es único por empresa.
type ExpenseCategory struct {
	ID        string
	CompanyID string
	Name      string
	IsActive  bool
	CreatedAt time.Time
}
