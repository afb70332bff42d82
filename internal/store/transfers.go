package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/maskarada/internal/apperr"
	"github.com/erazemk/maskarada/internal/model"
)

// liveHolder restricts an account lookup to accounts whose character has not
// been deleted. Money never moves to or from a deleted character.
const liveHolder = ` AND character_id IN (SELECT id FROM characters WHERE deleted_at IS NULL)`

// Transfer moves amount from one character's personal account to another's.
func Transfer(ctx context.Context, db *sql.DB, fromCharacterID, toCharacterID, amount int64, by *int64) (*model.BankTransaction, error) {
	return transferTo(ctx, db, fromCharacterID, amount, by, func(q querier) (*model.BankAccount, error) {
		return getAccount(ctx, q, `WHERE character_id = ? AND company_id IS NULL`+liveHolder, toCharacterID)
	})
}

// TransferToAddress moves amount from a character's personal account to any
// account, personal or company, identified by its QR address.
func TransferToAddress(ctx context.Context, db *sql.DB, fromCharacterID int64, toAddress string, amount int64, by *int64) (*model.BankTransaction, error) {
	return transferTo(ctx, db, fromCharacterID, amount, by, func(q querier) (*model.BankAccount, error) {
		return getAccount(ctx, q, `WHERE address = ?`+liveHolder, toAddress)
	})
}

func transferTo(ctx context.Context, db *sql.DB, fromCharacterID, amount int64, by *int64, destination func(querier) (*model.BankAccount, error)) (*model.BankTransaction, error) {
	if amount <= 0 {
		return nil, apperr.New(apperr.CodeInvalidAmount)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	from, err := getAccount(ctx, tx, `WHERE character_id = ? AND company_id IS NULL`+liveHolder, fromCharacterID)
	if err != nil {
		return nil, err
	}
	to, err := destination(tx)
	if err != nil {
		return nil, err
	}
	if from == nil || to == nil {
		return nil, apperr.New(apperr.CodeAccountNotFound)
	}
	if from.ID == to.ID {
		return nil, apperr.New(apperr.CodeSameAccount)
	}

	// The debit is conditional so that the balance check and the write are
	// one statement; zero affected rows means the funds were not there.
	result, err := tx.ExecContext(ctx,
		`UPDATE bank_accounts SET balance = balance - ? WHERE id = ? AND balance >= ?`,
		amount, from.ID, amount,
	)
	if err != nil {
		return nil, fmt.Errorf("debiting account: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("checking debit: %w", err)
	}
	if n == 0 {
		var balance int64
		if err := tx.QueryRowContext(ctx,
			`SELECT balance FROM bank_accounts WHERE id = ?`, from.ID,
		).Scan(&balance); err != nil {
			return nil, fmt.Errorf("reading balance: %w", err)
		}
		return nil, apperr.New(apperr.CodeInsufficientFunds, balance, amount)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE bank_accounts SET balance = balance + ? WHERE id = ?`,
		amount, to.ID,
	); err != nil {
		return nil, fmt.Errorf("crediting account: %w", err)
	}

	id, err := recordTransaction(ctx, tx, &from.ID, to.ID, amount, model.TxKindTransfer, "", by)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transfer: %w", err)
	}
	return GetTransaction(ctx, db, id)
}

// CreditAccount adds newly created funds to an account. It is the only
// operation that changes the total amount of money in the game.
func CreditAccount(ctx context.Context, db *sql.DB, accountID, amount int64, note string, by *int64) (*model.BankTransaction, error) {
	if amount <= 0 {
		return nil, apperr.New(apperr.CodeInvalidAmount)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE bank_accounts SET balance = balance + ? WHERE id = ?`,
		amount, accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("crediting account: %w", err)
	}
	if err := requireAffected(result, apperr.CodeAccountNotFound); err != nil {
		return nil, err
	}

	id, err := recordTransaction(ctx, tx, nil, accountID, amount, model.TxKindCredit, note, by)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing credit: %w", err)
	}
	return GetTransaction(ctx, db, id)
}

func recordTransaction(ctx context.Context, tx *sql.Tx, fromID *int64, toID, amount int64, kind, note string, by *int64) (int64, error) {
	result, err := tx.ExecContext(ctx,
		`INSERT INTO bank_transactions (from_account_id, to_account_id, amount, kind, note, created_by)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		fromID, toID, amount, kind, note, by,
	)
	if err != nil {
		return 0, fmt.Errorf("recording %s: %w", kind, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting transaction id: %w", err)
	}
	return id, nil
}

const transactionSelect = `SELECT t.id, t.from_account_id, t.to_account_id, t.amount, t.kind, t.note,
        t.created_at, t.created_by, fa.address AS from_address, ta.address AS to_address
 FROM bank_transactions t
 LEFT JOIN bank_accounts fa ON fa.id = t.from_account_id
 JOIN bank_accounts ta ON ta.id = t.to_account_id`

func scanTransaction(row interface{ Scan(...any) error }, t *model.BankTransaction) error {
	var note, fromAddress sql.NullString
	if err := row.Scan(&t.ID, &t.FromAccountID, &t.ToAccountID, &t.Amount, &t.Kind, &note,
		&t.CreatedAt, &t.CreatedBy, &fromAddress, &t.ToAddress); err != nil {
		return err
	}
	t.Note = note.String
	t.FromAddress = fromAddress.String
	return nil
}

// GetTransaction returns a bank transaction by ID.
func GetTransaction(ctx context.Context, db *sql.DB, id int64) (*model.BankTransaction, error) {
	t := &model.BankTransaction{}
	err := scanTransaction(db.QueryRowContext(ctx, transactionSelect+` WHERE t.id = ?`, id), t)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting transaction: %w", err)
	}
	return t, nil
}

// ListTransactions returns the ledger, newest first, optionally filtered to
// the entries touching one account.
func ListTransactions(ctx context.Context, db *sql.DB, accountID int64) ([]model.BankTransaction, error) {
	query := transactionSelect + ` WHERE 1=1`
	var args []any

	if accountID > 0 {
		query += ` AND (t.from_account_id = ? OR t.to_account_id = ?)`
		args = append(args, accountID, accountID)
	}
	query += ` ORDER BY t.id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	transactions := []model.BankTransaction{}
	for rows.Next() {
		var t model.BankTransaction
		if err := scanTransaction(rows, &t); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// LedgerTotals returns the sum of all balances and the sum of all credits.
// The two are equal unless money was created or destroyed outside the ledger.
func LedgerTotals(ctx context.Context, db *sql.DB) (balances, credits int64, err error) {
	err = db.QueryRowContext(ctx,
		`SELECT
		   (SELECT COALESCE(SUM(balance), 0) FROM bank_accounts),
		   (SELECT COALESCE(SUM(amount), 0) FROM bank_transactions WHERE kind = 'credit')`,
	).Scan(&balances, &credits)
	if err != nil {
		return 0, 0, fmt.Errorf("computing ledger totals: %w", err)
	}
	return balances, credits, nil
}
