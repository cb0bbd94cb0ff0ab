package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	chi "github.com/go-chi/chi/v5"
	"github.com/msomdec/bank-ledger/internal/domain"
	"github.com/msomdec/bank-ledger/internal/service"
)

// AccountHandler handles account CRUD and balance mutation requests.
type AccountHandler struct {
	ledger *service.LedgerService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(ledger *service.LedgerService) *AccountHandler {
	return &AccountHandler{ledger: ledger}
}

type accountRequest struct {
	Number     int64  `json:"number"`
	HolderName string `json:"holderName"`
	Type       string `json:"type"`
	Balance    int64  `json:"balance"`
}

type amountRequest struct {
	Amount int64 `json:"amount"`
}

// HandleCreate creates a new account with a caller-supplied number.
// POST /api/accounts
// Request:  {"number":101,"holderName":"...","type":"S","balance":500}
// Response: 201 {"account": {...}} or 409 when the number exists
func (h *AccountHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	accountType, err := domain.ParseAccountType(req.Type)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Account type must be S or C.")
		return
	}

	account, err := h.ledger.CreateAccount(r.Context(), req.Number, req.HolderName, accountType, req.Balance)
	if err != nil {
		writeLedgerError(w, err, "create account")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"account": toAccountDTO(account)})
}

// HandleList returns all accounts.
// GET /api/accounts
func (h *AccountHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.ledger.ListAccounts(r.Context())
	if err != nil {
		slog.Error("list accounts", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"accounts": toAccountDTOs(accounts)})
}

// HandleGet returns a single account.
// GET /api/accounts/{number}
func (h *AccountHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	number, ok := accountNumber(w, r)
	if !ok {
		return
	}

	account, err := h.ledger.GetAccount(r.Context(), number)
	if err != nil {
		writeLedgerError(w, err, "get account")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"account": toAccountDTO(account)})
}

// HandleBalance returns just the balance of an account.
// GET /api/accounts/{number}/balance
func (h *AccountHandler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	number, ok := accountNumber(w, r)
	if !ok {
		return
	}

	account, err := h.ledger.GetAccount(r.Context(), number)
	if err != nil {
		writeLedgerError(w, err, "get balance")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"balance": account.Balance})
}

// HandleDeposit credits an account.
// POST /api/accounts/{number}/deposit
// Request: {"amount":100}
func (h *AccountHandler) HandleDeposit(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, domain.Credit)
}

// HandleWithdraw debits an account. A withdrawal exceeding the balance is
// rejected and the balance is left unchanged.
// POST /api/accounts/{number}/withdraw
// Request: {"amount":100}
func (h *AccountHandler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, domain.Debit)
}

func (h *AccountHandler) adjust(w http.ResponseWriter, r *http.Request, direction domain.Direction) {
	number, ok := accountNumber(w, r)
	if !ok {
		return
	}

	var req amountRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := h.ledger.AdjustBalance(r.Context(), number, req.Amount, direction); err != nil {
		writeLedgerError(w, err, direction.String())
		return
	}

	account, err := h.ledger.GetAccount(r.Context(), number)
	if err != nil {
		writeLedgerError(w, err, "get account after adjust")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"account": toAccountDTO(account)})
}

// HandleModify overwrites an account's mutable fields. Modifying a missing
// account is a silent no-op and still returns 204, matching the store's
// contract.
// PUT /api/accounts/{number}
// Request: {"holderName":"...","type":"S","balance":500}
func (h *AccountHandler) HandleModify(w http.ResponseWriter, r *http.Request) {
	number, ok := accountNumber(w, r)
	if !ok {
		return
	}

	var req accountRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	accountType, err := domain.ParseAccountType(req.Type)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Account type must be S or C.")
		return
	}

	if err := h.ledger.ModifyAccount(r.Context(), number, req.HolderName, accountType, req.Balance); err != nil {
		writeLedgerError(w, err, "modify account")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete removes an account permanently. Deleting a missing account
// also returns 204.
// DELETE /api/accounts/{number}
func (h *AccountHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	number, ok := accountNumber(w, r)
	if !ok {
		return
	}

	if err := h.ledger.DeleteAccount(r.Context(), number); err != nil {
		writeLedgerError(w, err, "delete account")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// accountNumber parses the {number} URL parameter. Malformed or non-positive
// numbers are rejected at this boundary before reaching the core.
func accountNumber(w http.ResponseWriter, r *http.Request) (int64, bool) {
	number, err := strconv.ParseInt(chi.URLParam(r, "number"), 10, 64)
	if err != nil || number <= 0 {
		writeError(w, http.StatusBadRequest, "Account number must be a positive integer.")
		return 0, false
	}
	return number, true
}

// writeLedgerError maps service errors onto HTTP status codes.
func writeLedgerError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Account not found.")
	case errors.Is(err, domain.ErrDuplicateAccount):
		writeError(w, http.StatusConflict, "An account with that number already exists.")
	case errors.Is(err, domain.ErrInsufficientFunds):
		writeError(w, http.StatusUnprocessableEntity, "Insufficient funds.")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.Error(op, "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}
