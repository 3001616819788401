// Package store is the store of record: a flat JSON file holding every
// account with its embedded transaction log. Each operation is a full-file
// read-modify-write; a failed write surfaces as an error and nothing of the
// attempted change survives, because state is re-read on the next call.
//
// The read-modify-write is not isolated against concurrent writers of the
// same file: the last writer wins. This matches the single-instance
// deployment the service is built for.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/shopspring/decimal"

	"github.com/dedovbet/backend/internal/models"
	"github.com/dedovbet/backend/internal/password"
)

var (
	ErrNotFound          = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrMissingField      = errors.New("username, email and password are required")
	ErrBadPassword       = errors.New("incorrect password")
	ErrLoginTooShort     = errors.New("login must be at least 3 characters long")
	ErrInvalidAmount     = errors.New("invalid amount")
)

// UserStore persists accounts to a single JSON array on disk.
type UserStore struct {
	path string
	mu   sync.Mutex
}

func NewUserStore(path string) *UserStore {
	return &UserStore{path: path}
}

// CreateAccountParams carries the registration input. Optional profile
// fields may be empty.
type CreateAccountParams struct {
	Username    string
	Email       string
	Password    string
	Name        string
	Surname     string
	DateOfBirth string
	Nationality string
}

// CreateAccount registers a new account with the starting balance and an
// empty transaction log. Username and email are unique keys.
func (s *UserStore) CreateAccount(p CreateAccountParams) (*models.Account, error) {
	if p.Username == "" || p.Email == "" || p.Password == "" {
		return nil, ErrMissingField
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.load()
	if err != nil {
		return nil, err
	}

	for i := range accounts {
		if strings.EqualFold(accounts[i].Email, p.Email) {
			return nil, ErrDuplicateEmail
		}
		if strings.EqualFold(accounts[i].Username, p.Username) {
			return nil, ErrDuplicateUsername
		}
	}

	hash, err := password.Hash(p.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	account := models.Account{
		Username:     p.Username,
		Email:        p.Email,
		PasswordHash: hash,
		Name:         p.Name,
		Surname:      p.Surname,
		DateOfBirth:  p.DateOfBirth,
		Nationality:  p.Nationality,
		Balance:      models.StartingBalance,
		JoinedDate:   time.Now().UTC(),
		Transactions: []models.Transaction{},
	}

	accounts = append(accounts, account)
	if err := s.save(accounts); err != nil {
		return nil, err
	}

	log.Printf("[STORE] Account created: %s", account.Username)
	return &account, nil
}

// Authenticate looks an account up by username or email, case-insensitively,
// and verifies the password. Inputs shorter than 3 characters are rejected
// before any lookup happens.
func (s *UserStore) Authenticate(loginInput, pw string) (*models.Account, error) {
	loginInput = strings.TrimSpace(loginInput)
	if len(loginInput) < 3 {
		return nil, ErrLoginTooShort
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.load()
	if err != nil {
		return nil, err
	}

	for i := range accounts {
		if !strings.EqualFold(accounts[i].Username, loginInput) && !strings.EqualFold(accounts[i].Email, loginInput) {
			continue
		}
		if !password.Verify(pw, accounts[i].PasswordHash) {
			return nil, ErrBadPassword
		}
		account := accounts[i]
		return &account, nil
	}

	return nil, ErrNotFound
}

// Get returns the account for username (case-insensitive).
func (s *UserStore) Get(username string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.load()
	if err != nil {
		return nil, err
	}

	i := findAccount(accounts, username)
	if i < 0 {
		return nil, ErrNotFound
	}
	account := accounts[i]
	return &account, nil
}

// Balance returns the committed balance for username.
func (s *UserStore) Balance(username string) (decimal.Decimal, error) {
	account, err := s.Get(username)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// SetBalance overwrites the account balance with newBalance. This is the
// sole balance mutation path; the caller computes the new value.
func (s *UserStore) SetBalance(username string, newBalance decimal.Decimal) (decimal.Decimal, error) {
	if newBalance.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.load()
	if err != nil {
		return decimal.Zero, err
	}

	i := findAccount(accounts, username)
	if i < 0 {
		return decimal.Zero, ErrNotFound
	}

	accounts[i].Balance = newBalance
	if err := s.save(accounts); err != nil {
		return decimal.Zero, err
	}

	return newBalance, nil
}

// AppendTransaction inserts tx at the head of the account's log, keeping the
// log most-recent-first.
func (s *UserStore) AppendTransaction(username string, tx models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.load()
	if err != nil {
		return err
	}

	i := findAccount(accounts, username)
	if i < 0 {
		return ErrNotFound
	}

	accounts[i].Transactions = append([]models.Transaction{tx}, accounts[i].Transactions...)
	return s.save(accounts)
}

// Transactions returns the account's log, most recent first.
func (s *UserStore) Transactions(username string) ([]models.Transaction, error) {
	account, err := s.Get(username)
	if err != nil {
		return nil, err
	}
	if account.Transactions == nil {
		return []models.Transaction{}, nil
	}
	return account.Transactions, nil
}

// All returns every account. Used by the ledger audit.
func (s *UserStore) All() ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func findAccount(accounts []models.Account, username string) int {
	for i := range accounts {
		if strings.EqualFold(accounts[i].Username, username) {
			return i
		}
	}
	return -1
}

func (s *UserStore) load() ([]models.Account, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(s.path, []byte("[]"), 0o644); err != nil {
			return nil, fmt.Errorf("creating store file: %w", err)
		}
		return []models.Account{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading store file: %w", err)
	}

	if len(data) == 0 {
		return []models.Account{}, nil
	}

	var accounts []models.Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("parsing store file: %w", err)
	}
	return accounts, nil
}

func (s *UserStore) save(accounts []models.Account) error {
	data, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding store file: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing store file: %w", err)
	}
	return nil
}
