package treasury

type DepositInput struct {
	Account string
	Amount  int64
}

type TransferInput struct {
	FromAccount string
	ToAccount   string
	Amount      int64
}

type GetBalanceInput struct {
	Account string
}
