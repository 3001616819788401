package ledger

import "errors"

// Validation and state errors are detected before any network call and
// returned synchronously; nothing here is retried by the ledger itself.
var (
	ErrNotLoggedIn         = errors.New("user not logged in")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")

	ErrDepositBelowMinimum    = errors.New("minimum deposit amount is 10")
	ErrDepositAboveMaximum    = errors.New("maximum deposit amount is 9999")
	ErrWithdrawalBelowMinimum = errors.New("minimum withdrawal amount is 25")
	ErrWithdrawalAboveMaximum = errors.New("maximum withdrawal amount is 5000")
)

// StoreError carries the message the store of record returned when it
// rejected an operation. Local session state is left unmodified when one of
// these surfaces from a deposit or withdrawal.
type StoreError struct {
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}
