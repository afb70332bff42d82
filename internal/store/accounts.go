package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/maskarada/internal/apperr"
	"github.com/erazemk/maskarada/internal/model"
)

const accountColumns = `id, address, balance, character_id, company_id, created_at`

func scanAccount(row interface{ Scan(...any) error }, a *model.BankAccount) error {
	return row.Scan(&a.ID, &a.Address, &a.Balance, &a.CharacterID, &a.CompanyID, &a.CreatedAt)
}

func insertAccount(ctx context.Context, q querier, characterID int64, companyID *int64) (int64, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO bank_accounts (address, character_id, company_id) VALUES (?, ?, ?)`,
		newAddress(), characterID, companyID,
	)
	if isUniqueViolation(err) {
		return 0, apperr.Wrap(apperr.CodeDuplicate, err, "Personal account")
	}
	if err != nil {
		return 0, fmt.Errorf("creating bank account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting bank account id: %w", err)
	}
	return id, nil
}

// CreateAccount opens an empty bank account for a character, or for one of
// its companies when companyID is set. A character has at most one personal
// account.
func CreateAccount(ctx context.Context, db *sql.DB, characterID int64, companyID *int64) (*model.BankAccount, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := requireCharacter(ctx, tx, characterID); err != nil {
		return nil, err
	}
	if companyID != nil {
		company, err := getCompany(ctx, tx, *companyID)
		if err != nil {
			return nil, err
		}
		if company == nil || company.CharacterID != characterID {
			return nil, apperr.New(apperr.CodeCompanyNotFound)
		}
	}

	id, err := insertAccount(ctx, tx, characterID, companyID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing bank account: %w", err)
	}
	return GetAccount(ctx, db, id)
}

// GetAccount returns a bank account by ID.
func GetAccount(ctx context.Context, db *sql.DB, id int64) (*model.BankAccount, error) {
	return getAccount(ctx, db, `WHERE id = ?`, id)
}

// GetAccountByAddress returns a bank account by its QR address.
func GetAccountByAddress(ctx context.Context, db *sql.DB, address string) (*model.BankAccount, error) {
	return getAccount(ctx, db, `WHERE address = ?`, address)
}

// GetPersonalAccount returns a character's personal (non-company) account.
func GetPersonalAccount(ctx context.Context, db *sql.DB, characterID int64) (*model.BankAccount, error) {
	return getAccount(ctx, db, `WHERE character_id = ? AND company_id IS NULL`, characterID)
}

func getAccount(ctx context.Context, q querier, where string, args ...any) (*model.BankAccount, error) {
	a := &model.BankAccount{}
	err := scanAccount(q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM bank_accounts `+where, args...,
	), a)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting bank account: %w", err)
	}
	return a, nil
}

// ListAccounts returns every account held by a character, personal first.
func ListAccounts(ctx context.Context, db *sql.DB, characterID int64) ([]model.BankAccount, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM bank_accounts
		 WHERE character_id = ?
		 ORDER BY company_id IS NOT NULL, id`, characterID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing bank accounts: %w", err)
	}
	defer rows.Close()

	accounts := []model.BankAccount{}
	for rows.Next() {
		var a model.BankAccount
		if err := scanAccount(rows, &a); err != nil {
			return nil, fmt.Errorf("scanning bank account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
