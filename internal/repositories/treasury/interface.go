package treasury

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/minority/internal/repositories/treasury Repository

import "context"

// Repository defines the interface for custodied value accounts
type Repository interface {
	// Deposit credits an account with externally provided funds
	Deposit(ctx context.Context, input *DepositInput) error

	// Transfer moves funds between two accounts
	Transfer(ctx context.Context, input *TransferInput) error

	// GetBalance retrieves an account's balance
	GetBalance(ctx context.Context, input *GetBalanceInput) (int64, error)
}
