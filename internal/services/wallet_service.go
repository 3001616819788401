package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/dedovbet/backend/internal/cache"
	"github.com/dedovbet/backend/internal/ledger"
	"github.com/dedovbet/backend/internal/models"
	"github.com/dedovbet/backend/internal/store"
)

// WalletService exposes the balance and transaction endpoints backed by the
// user store. Deposits and withdrawals append their transaction server-side
// and return its id; game transactions arrive through SaveTransaction from
// the ledger.
type WalletService struct {
	store     *store.UserStore
	cache     *cache.SessionCache
	validator *validator.Validate
}

func NewWalletService(st *store.UserStore, sc *cache.SessionCache) *WalletService {
	return &WalletService{
		store:     st,
		cache:     sc,
		validator: validator.New(),
	}
}

// BalanceResponse carries a committed balance
// @Description Balance response structure
type BalanceResponse struct {
	Success bool            `json:"success"`
	Balance decimal.Decimal `json:"balance"`
}

// MoneyRequest is the deposit/withdraw payload
// @Description Deposit or withdrawal request
type MoneyRequest struct {
	Username string          `json:"username" validate:"required" example:"highroller"`
	Amount   decimal.Decimal `json:"amount" swaggertype:"number" example:"100"`
	Method   string          `json:"method,omitempty" example:"credit_card"`
}

// MoneyResponse is returned by deposit/withdraw
// @Description Deposit or withdrawal response
type MoneyResponse struct {
	Success       bool            `json:"success"`
	Balance       decimal.Decimal `json:"balance"`
	TransactionID string          `json:"transactionId"`
}

// GetBalance returns a user's committed balance
// @Summary Get balance
// @Tags wallet
// @Produce json
// @Param username query string true "Username"
// @Success 200 {object} BalanceResponse
// @Failure 404 {object} APIError "User not found"
// @Router /api/getBalance [get]
func (s *WalletService) GetBalance(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		RespondError(w, http.StatusBadRequest, "Username is required")
		return
	}

	balance, err := s.store.Balance(username)
	if err != nil {
		s.respondStoreError(w, username, err)
		return
	}

	RespondJSON(w, http.StatusOK, BalanceResponse{Success: true, Balance: balance})
}

// Deposit credits an account
// @Summary Deposit funds
// @Description Credit an account, bounds [10,9999]
// @Tags wallet
// @Accept json
// @Produce json
// @Param request body MoneyRequest true "Deposit request"
// @Success 200 {object} MoneyResponse
// @Failure 400 {object} APIError "Out-of-range amount"
// @Failure 404 {object} APIError "User not found"
// @Router /api/deposit [post]
func (s *WalletService) Deposit(w http.ResponseWriter, r *http.Request) {
	var req MoneyRequest
	if err := DecodeJSONBody(w, r, &req); err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := s.validator.Struct(&req); err != nil {
		RespondError(w, http.StatusBadRequest, ValidationMessage(err))
		return
	}

	if req.Amount.LessThan(ledger.MinDeposit) {
		RespondError(w, http.StatusBadRequest, ledger.ErrDepositBelowMinimum.Error())
		return
	}
	if req.Amount.GreaterThan(ledger.MaxDeposit) {
		RespondError(w, http.StatusBadRequest, ledger.ErrDepositAboveMaximum.Error())
		return
	}

	account, err := s.store.Get(req.Username)
	if err != nil {
		s.respondStoreError(w, req.Username, err)
		return
	}

	newBalance := account.Balance.Add(req.Amount)
	if _, err := s.store.SetBalance(account.Username, newBalance); err != nil {
		s.respondStoreError(w, req.Username, err)
		return
	}

	tx := models.NewTransaction(models.TransactionDeposit, req.Amount, newBalance)
	tx.ID = uuid.NewString()
	tx.Method = methodOrDefault(req.Method)
	if err := s.store.AppendTransaction(account.Username, tx); err != nil {
		s.respondStoreError(w, req.Username, err)
		return
	}

	s.refreshSnapshot(r.Context(), account, newBalance)

	log.Printf("[WALLET] Deposit of %s for %s, balance now %s", req.Amount, account.Username, newBalance)
	RespondJSON(w, http.StatusOK, MoneyResponse{Success: true, Balance: newBalance, TransactionID: tx.ID})
}

// Withdraw debits an account
// @Summary Withdraw funds
// @Description Debit an account, bounds [25,5000], requires sufficient balance
// @Tags wallet
// @Accept json
// @Produce json
// @Param request body MoneyRequest true "Withdrawal request"
// @Success 200 {object} MoneyResponse
// @Failure 400 {object} APIError "Out-of-range amount or insufficient balance"
// @Failure 404 {object} APIError "User not found"
// @Router /api/withdraw [post]
func (s *WalletService) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req MoneyRequest
	if err := DecodeJSONBody(w, r, &req); err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := s.validator.Struct(&req); err != nil {
		RespondError(w, http.StatusBadRequest, ValidationMessage(err))
		return
	}

	if req.Amount.LessThan(ledger.MinWithdrawal) {
		RespondError(w, http.StatusBadRequest, ledger.ErrWithdrawalBelowMinimum.Error())
		return
	}
	if req.Amount.GreaterThan(ledger.MaxWithdrawal) {
		RespondError(w, http.StatusBadRequest, ledger.ErrWithdrawalAboveMaximum.Error())
		return
	}

	account, err := s.store.Get(req.Username)
	if err != nil {
		s.respondStoreError(w, req.Username, err)
		return
	}

	if account.Balance.LessThan(req.Amount) {
		RespondError(w, http.StatusBadRequest, "Insufficient balance")
		return
	}

	newBalance := account.Balance.Sub(req.Amount)
	if _, err := s.store.SetBalance(account.Username, newBalance); err != nil {
		s.respondStoreError(w, req.Username, err)
		return
	}

	tx := models.NewTransaction(models.TransactionWithdrawal, req.Amount.Neg(), newBalance)
	tx.ID = uuid.NewString()
	tx.Method = methodOrDefault(req.Method)
	if err := s.store.AppendTransaction(account.Username, tx); err != nil {
		s.respondStoreError(w, req.Username, err)
		return
	}

	s.refreshSnapshot(r.Context(), account, newBalance)

	log.Printf("[WALLET] Withdrawal of %s for %s, balance now %s", req.Amount, account.Username, newBalance)
	RespondJSON(w, http.StatusOK, MoneyResponse{Success: true, Balance: newBalance, TransactionID: tx.ID})
}

// TransactionsResponse carries an account's transaction log
// @Description Transaction list response
type TransactionsResponse struct {
	Success      bool                 `json:"success"`
	Transactions []models.Transaction `json:"transactions"`
}

// Transactions lists an account's transaction log, most recent first
// @Summary List transactions
// @Tags wallet
// @Produce json
// @Param username query string true "Username"
// @Success 200 {object} TransactionsResponse
// @Failure 404 {object} APIError "User not found"
// @Router /api/transactions [get]
func (s *WalletService) Transactions(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		RespondError(w, http.StatusBadRequest, "Username is required")
		return
	}

	txs, err := s.store.Transactions(username)
	if err != nil {
		s.respondStoreError(w, username, err)
		return
	}

	RespondJSON(w, http.StatusOK, TransactionsResponse{Success: true, Transactions: txs})
}

// SaveTransactionRequest appends a client-recorded transaction
// @Description Save transaction request
type SaveTransactionRequest struct {
	Username    string             `json:"username" validate:"required"`
	Transaction models.Transaction `json:"transaction"`
}

// SaveTransaction appends a ledger-recorded transaction to the log
// @Summary Save a transaction
// @Tags wallet
// @Accept json
// @Produce json
// @Param request body SaveTransactionRequest true "Transaction to append"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} APIError "Invalid transaction"
// @Failure 404 {object} APIError "User not found"
// @Router /api/saveTransaction [post]
func (s *WalletService) SaveTransaction(w http.ResponseWriter, r *http.Request) {
	var req SaveTransactionRequest
	if err := DecodeJSONBody(w, r, &req); err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := s.validator.Struct(&req); err != nil {
		RespondError(w, http.StatusBadRequest, ValidationMessage(err))
		return
	}

	tx := req.Transaction
	if !tx.Type.Valid() {
		RespondError(w, http.StatusBadRequest, "Invalid transaction type")
		return
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.Category == "" {
		tx.Category = tx.Type.Category()
	}

	if err := s.store.AppendTransaction(req.Username, tx); err != nil {
		s.respondStoreError(w, req.Username, err)
		return
	}

	RespondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// UpdateBalanceRequest overwrites an account balance
// @Description Update balance request
type UpdateBalanceRequest struct {
	Username string          `json:"username" validate:"required"`
	Balance  decimal.Decimal `json:"balance" swaggertype:"number"`
}

// UpdateBalance overwrites the stored balance with the client's value
// @Summary Update balance
// @Description Overwrite semantics: the caller computes the new value
// @Tags wallet
// @Accept json
// @Produce json
// @Param request body UpdateBalanceRequest true "New balance"
// @Success 200 {object} BalanceResponse
// @Failure 400 {object} APIError "Negative balance"
// @Failure 404 {object} APIError "User not found"
// @Router /api/updateBalance [post]
func (s *WalletService) UpdateBalance(w http.ResponseWriter, r *http.Request) {
	var req UpdateBalanceRequest
	if err := DecodeJSONBody(w, r, &req); err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if err := s.validator.Struct(&req); err != nil {
		RespondError(w, http.StatusBadRequest, ValidationMessage(err))
		return
	}

	balance, err := s.store.SetBalance(req.Username, req.Balance)
	if err != nil {
		if errors.Is(err, store.ErrInvalidAmount) {
			RespondError(w, http.StatusBadRequest, "Balance cannot be negative")
			return
		}
		s.respondStoreError(w, req.Username, err)
		return
	}

	if account, err := s.store.Get(req.Username); err == nil {
		s.refreshSnapshot(r.Context(), account, balance)
	}

	RespondJSON(w, http.StatusOK, BalanceResponse{Success: true, Balance: balance})
}

func (s *WalletService) respondStoreError(w http.ResponseWriter, username string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		RespondError(w, http.StatusNotFound, "User not found")
		return
	}
	log.Printf("[WALLET] Store error for %s: %v", username, err)
	RespondError(w, http.StatusInternalServerError, "Server error")
}

func (s *WalletService) refreshSnapshot(ctx context.Context, account *models.Account, balance decimal.Decimal) {
	snapshot := account.Public()
	snapshot.Balance = balance
	if err := s.cache.PutAccount(ctx, snapshot); err != nil {
		log.Printf("[WALLET] Failed to refresh snapshot for %s: %v", account.Username, err)
	}
}

func methodOrDefault(method string) string {
	if method == "" {
		return ledger.DefaultMethod
	}
	return method
}
