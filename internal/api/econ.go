package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/erazemk/maskarada/internal/apperr"
	"github.com/erazemk/maskarada/internal/events"
	"github.com/erazemk/maskarada/internal/model"
	"github.com/erazemk/maskarada/internal/store"
)

// EconHandler handles the bank: transfers, credits, accounts and the ledger.
type EconHandler struct {
	base
}

// transferRequest names the destination either by character (toId) or by
// account address (toAddress, e.g. scanned from a QR code).
type transferRequest struct {
	FromID    int64  `json:"fromId"`
	ToID      int64  `json:"toId"`
	ToAddress string `json:"toAddress"`
	Amount    int64  `json:"amount"`
}

type creditRequest struct {
	AccountID int64  `json:"account_id"`
	Amount    int64  `json:"amount"`
	Note      string `json:"note"`
}

type createAccountRequest struct {
	CharacterID int64  `json:"character_id"`
	CompanyID   *int64 `json:"company_id"`
}

// Transfer handles POST /api/econ/transfer. On success it responds 201 with
// the recorded bank transaction; clients that only need to know the transfer
// went through may ignore the body.
func (h *EconHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ToID == 0 && req.ToAddress == "" {
		jsonError(w, http.StatusBadRequest, "toId or toAddress required")
		return
	}
	if !h.authorize(w, r, req.FromID) {
		return
	}

	var (
		tx  *model.BankTransaction
		err error
	)
	if req.ToAddress != "" {
		tx, err = store.TransferToAddress(r.Context(), h.DB, req.FromID, req.ToAddress, req.Amount, actor(r))
	} else {
		tx, err = store.Transfer(r.Context(), h.DB, req.FromID, req.ToID, req.Amount, actor(r))
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	claims := GetClaims(r.Context())
	h.Log.Info("transfer completed",
		zap.String("user", claims.Username),
		zap.Int64("from_character", req.FromID),
		zap.String("to_address", tx.ToAddress),
		zap.Int64("amount", tx.Amount),
	)
	h.publish(r.Context(), events.TransferCompleted, claims, tx)
	jsonResponse(w, http.StatusCreated, tx)
}

// Credit handles POST /api/econ/credit.
func (h *EconHandler) Credit(w http.ResponseWriter, r *http.Request) {
	var req creditRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := store.CreditAccount(r.Context(), h.DB, req.AccountID, req.Amount, req.Note, actor(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	claims := GetClaims(r.Context())
	h.Log.Info("account credited",
		zap.String("user", claims.Username),
		zap.Int64("account_id", req.AccountID),
		zap.Int64("amount", req.Amount),
	)
	h.publish(r.Context(), events.AccountCredited, claims, tx)
	jsonResponse(w, http.StatusCreated, tx)
}

// CreateAccount handles POST /api/econ/accounts.
func (h *EconHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acct, err := store.CreateAccount(r.Context(), h.DB, req.CharacterID, req.CompanyID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, acct)
}

// GetAccount handles GET /api/econ/accounts/{id}.
func (h *EconHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	acct, ok := h.loadAccount(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, acct)
}

// AccountTransactions handles GET /api/econ/accounts/{id}/transactions.
func (h *EconHandler) AccountTransactions(w http.ResponseWriter, r *http.Request) {
	acct, ok := h.loadAccount(w, r)
	if !ok {
		return
	}

	txs, err := store.ListTransactions(r.Context(), h.DB, acct.ID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, txs)
}

// ListTransactions handles GET /api/econ/transactions.
func (h *EconHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := store.ListTransactions(r.Context(), h.DB, 0)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, txs)
}

// loadAccount resolves {id} and checks the caller may see the account.
func (h *EconHandler) loadAccount(w http.ResponseWriter, r *http.Request) (*model.BankAccount, bool) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid account id")
		return nil, false
	}

	acct, err := store.GetAccount(r.Context(), h.DB, id)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	if acct == nil {
		h.fail(w, r, apperr.New(apperr.CodeAccountNotFound))
		return nil, false
	}
	if !h.authorize(w, r, acct.CharacterID) {
		return nil, false
	}
	return acct, true
}
