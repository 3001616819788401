package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StartingBalance is credited to every new account.
var StartingBalance = decimal.NewFromInt(1000)

// Account is the store-of-record view of one user: credentials, committed
// balance and the embedded transaction log (most recent first). The balance
// is never persisted with a provisional value; only committed state lands
// in the file.
type Account struct {
	Username     string          `json:"username"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"passwordHash"`
	Name         string          `json:"name,omitempty"`
	Surname      string          `json:"surname,omitempty"`
	DateOfBirth  string          `json:"dateOfBirth,omitempty"`
	Nationality  string          `json:"nationality,omitempty"`
	Balance      decimal.Decimal `json:"balance"`
	JoinedDate   time.Time       `json:"joinedDate"`
	Transactions []Transaction   `json:"transactions"`
}

// PublicAccount is the API shape of an account: no password material, and
// every optional field present (empty string when absent).
type PublicAccount struct {
	Username    string          `json:"username"`
	Email       string          `json:"email"`
	Name        string          `json:"name"`
	Surname     string          `json:"surname"`
	DateOfBirth string          `json:"dateOfBirth"`
	Nationality string          `json:"nationality"`
	Balance     decimal.Decimal `json:"balance"`
	JoinedDate  time.Time       `json:"joinedDate"`
}

// Public strips credentials and normalizes optional fields.
func (a *Account) Public() PublicAccount {
	return PublicAccount{
		Username:    a.Username,
		Email:       a.Email,
		Name:        a.Name,
		Surname:     a.Surname,
		DateOfBirth: a.DateOfBirth,
		Nationality: a.Nationality,
		Balance:     a.Balance,
		JoinedDate:  a.JoinedDate,
	}
}
