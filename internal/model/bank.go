package model

import "time"

// BankAccount holds an in-fiction balance for a character, optionally on
// behalf of one of its companies.
type BankAccount struct {
	ID          int64     `json:"id"`
	Address     string    `json:"address"`
	Balance     int64     `json:"balance"`
	CharacterID int64     `json:"character_id"`
	CompanyID   *int64    `json:"company_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Company is an in-fiction business run by a character.
type Company struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Level       int       `json:"level"`
	IsActive    bool      `json:"is_active"`
	IsVisible   bool      `json:"is_visible"`
	CoordX      float64   `json:"coord_x"`
	CoordY      float64   `json:"coord_y"`
	CharacterID int64     `json:"character_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// Bank transaction kinds.
const (
	TxKindTransfer = "transfer"
	TxKindCredit   = "credit"
)

// BankTransaction is one entry of the bank ledger.
type BankTransaction struct {
	ID            int64     `json:"id"`
	FromAccountID *int64    `json:"from_account_id,omitempty"`
	ToAccountID   int64     `json:"to_account_id"`
	Amount        int64     `json:"amount"`
	Kind          string    `json:"kind"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedBy     *int64    `json:"created_by,omitempty"`

	// Joined fields (not always populated).
	FromAddress string `json:"from_address,omitempty"`
	ToAddress   string `json:"to_address,omitempty"`
}
