package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sportsbook/internal/apperr"
	"sportsbook/internal/events"
	"sportsbook/internal/ledger"
	"sportsbook/internal/models"
	"sportsbook/internal/repository"
	"sportsbook/internal/services"
	fixtures "sportsbook/internal/testutil"
)

func TestDepositCallbackIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := fixtures.CreateUser(t, f.db, "ada", "0")

	in := services.DepositInput{Reference: "PSK-001", Amount: dec("5000"), Email: "ADA@example.com"}

	first, err := f.wallet().HandleDepositCallback(ctx, in)
	require.NoError(t, err)
	assert.False(t, first.Duplicate)
	assert.True(t, first.NewBalance.Equal(dec("5000")))
	assert.Equal(t, models.TxDeposit, first.Transaction.Type)
	assert.Equal(t, models.TxCompleted, first.Transaction.Status)
	assert.Equal(t, "PSK-001", first.Transaction.Reference)
	assert.Equal(t, "Deposit of ₦5000.00", first.Transaction.Description)

	second, err := f.wallet().HandleDepositCallback(ctx, in)
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.Transaction.ID, second.Transaction.ID)
	assert.True(t, second.NewBalance.Equal(dec("5000")))

	assert.True(t, f.balance(t, user.ID).Equal(dec("5000")))
	assert.Len(t, f.transactions(t, user.ID), 1)

	evs := f.events.Events()
	require.Len(t, evs, 1, "replays publish nothing")
	assert.Equal(t, events.DepositCompleted, evs[0].Type)
}

func TestConcurrentDepositCallbacksCreditOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := fixtures.CreateUser(t, f.db, "ada", "0")
	svc := f.wallet()

	var wg sync.WaitGroup
	results := make([]*services.DepositResult, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.HandleDepositCallback(ctx, services.DepositInput{Reference: "PSK-RACE", Amount: dec("250"), Email: "ada@example.com"})
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	fresh := 0
	for _, res := range results {
		require.NotNil(t, res)
		if !res.Duplicate {
			fresh++
		}
	}
	assert.Equal(t, 1, fresh)
	assert.True(t, f.balance(t, user.ID).Equal(dec("250")))
}

func TestDepositCallbackValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := fixtures.CreateUser(t, f.db, "ada", "0")

	_, err := f.wallet().HandleDepositCallback(ctx, services.DepositInput{Reference: "", Amount: dec("10"), Email: "ada@example.com"})
	assert.True(t, apperr.Is(err, apperr.CodeValidation), err)

	_, err = f.wallet().HandleDepositCallback(ctx, services.DepositInput{Reference: "R1", Amount: dec("-10"), Email: "ada@example.com"})
	assert.True(t, apperr.Is(err, apperr.CodeValidation), err)

	_, err = f.wallet().HandleDepositCallback(ctx, services.DepositInput{Reference: "R2", Amount: dec("10"), Email: "nobody@example.com"})
	assert.True(t, apperr.Is(err, apperr.CodeNotFound), err)

	// A reference owned by another kind of transaction is not a deposit replay.
	_, _, err = repository.NewRepository(f.db).RecordTransaction(ctx, repository.RecordParams{
		UserID: user.ID, Type: models.TxBet, Amount: dec("10"), Status: models.TxCompleted, Description: "bet", Reference: "R3",
	})
	require.NoError(t, err)
	_, err = f.wallet().HandleDepositCallback(ctx, services.DepositInput{Reference: "R3", Amount: dec("10"), Email: "ada@example.com"})
	assert.True(t, apperr.Is(err, apperr.CodeValidation), err)

	assert.True(t, f.balance(t, user.ID).IsZero())
}

func TestWithdrawalRejectRefunds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := fixtures.CreateAdmin(t, f.db, "admin")
	user := fixtures.CreateUser(t, f.db, "ada", "2000")
	account := fixtures.CreateBankAccount(t, f.db, user.ID, "0123456789", true)

	req, err := f.wallet().RequestWithdrawal(ctx, user.ID, services.WithdrawalInput{Amount: dec("500"), BankAccountID: account.ID})
	require.NoError(t, err)
	assert.True(t, req.NewBalance.Equal(dec("1500")))
	assert.Equal(t, models.TxPending, req.Transaction.Status)
	assert.Regexp(t, `^WD-`, req.Transaction.Reference)
	assert.Equal(t, "Withdrawal of ₦500.00 to Access Bank - 0123456789", req.Transaction.Description)
	assert.Equal(t, "0123456789", req.Transaction.BankAccount.Data().AccountNumber)

	summary, err := f.wallet().GetWallet(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, summary.Balance.Equal(dec("1500")))
	assert.True(t, summary.PendingWithdrawals.Equal(dec("500")), summary.PendingWithdrawals.String())

	// Deleting the account afterwards leaves the snapshot intact.
	require.NoError(t, f.db.Delete(account).Error)

	res, err := f.wallet().RejectWithdrawal(ctx, admin.ID, req.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TxCancelled, res.Transaction.Status)
	assert.True(t, res.NewBalance.Equal(dec("2000")))
	assert.True(t, f.balance(t, user.ID).Equal(dec("2000")))
	require.NotNil(t, res.Transaction.ProcessedBy)
	assert.Equal(t, admin.ID, *res.Transaction.ProcessedBy)
	assert.True(t, res.Transaction.ProcessedAt.Equal(testNow))
	assert.Equal(t, "Access Bank", res.Transaction.BankAccount.Data().BankName)

	_, err = f.wallet().ApproveWithdrawal(ctx, admin.ID, req.Transaction.ID)
	assert.True(t, apperr.Is(err, apperr.CodeAlreadyProcessed), err)
	assert.True(t, f.balance(t, user.ID).Equal(dec("2000")))
}

func TestWithdrawalApproveKeepsDebit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := fixtures.CreateAdmin(t, f.db, "admin")
	user := fixtures.CreateUser(t, f.db, "ada", "2000")
	account := fixtures.CreateBankAccount(t, f.db, user.ID, "0123456789", true)

	req, err := f.wallet().RequestWithdrawal(ctx, user.ID, services.WithdrawalInput{Amount: dec("500"), BankAccountID: account.ID})
	require.NoError(t, err)

	res, err := f.wallet().ApproveWithdrawal(ctx, admin.ID, req.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TxCompleted, res.Transaction.Status)
	assert.True(t, res.NewBalance.Equal(dec("1500")))
	assert.True(t, f.balance(t, user.ID).Equal(dec("1500")))

	_, err = f.wallet().RejectWithdrawal(ctx, admin.ID, req.Transaction.ID)
	assert.True(t, apperr.Is(err, apperr.CodeAlreadyProcessed), err)
	assert.True(t, f.balance(t, user.ID).Equal(dec("1500")))

	_, err = f.wallet().ApproveWithdrawal(ctx, admin.ID, 4040)
	assert.True(t, apperr.Is(err, apperr.CodeNotFound), err)

	withdrawals, total, err := f.wallet().ListWithdrawals(ctx, models.TxCompleted, repository.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, req.Transaction.ID, withdrawals[0].ID)
}

func TestRequestWithdrawalValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := fixtures.CreateUser(t, f.db, "ada", "1000")
	other := fixtures.CreateUser(t, f.db, "bola", "0")
	account := fixtures.CreateBankAccount(t, f.db, user.ID, "0123456789", true)
	foreign := fixtures.CreateBankAccount(t, f.db, other.ID, "9876543210", true)

	cases := []struct {
		name string
		in   services.WithdrawalInput
		code apperr.Code
	}{
		{"below minimum", services.WithdrawalInput{Amount: dec("99.99"), BankAccountID: account.ID}, apperr.CodeValidation},
		{"no account", services.WithdrawalInput{Amount: dec("200")}, apperr.CodeInvalidBank},
		{"foreign account", services.WithdrawalInput{Amount: dec("200"), BankAccountID: foreign.ID}, apperr.CodeInvalidBank},
		{"over balance", services.WithdrawalInput{Amount: dec("1000.01"), BankAccountID: account.ID}, apperr.CodeInsufficientFunds},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.wallet().RequestWithdrawal(ctx, user.ID, tc.in)
			assert.True(t, apperr.Is(err, tc.code), "got %v", err)
		})
	}

	_, err := f.wallet().RequestWithdrawal(ctx, user.ID, services.WithdrawalInput{Amount: dec("99.99"), BankAccountID: account.ID})
	assert.Equal(t, "Minimum withdrawal amount is ₦100", apperr.PublicMessage(err))

	assert.True(t, f.balance(t, user.ID).Equal(dec("1000")))
	assert.Empty(t, f.transactions(t, user.ID))
}

func TestConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	user := fixtures.CreateUser(t, f.db, "ada", "100")
	account := fixtures.CreateBankAccount(t, f.db, user.ID, "0123456789", true)
	svc := services.NewWalletService(f.deps, dec("50"))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RequestWithdrawal(ctx, user.ID, services.WithdrawalInput{Amount: dec("60"), BankAccountID: account.ID})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, apperr.Is(err, apperr.CodeInsufficientFunds), err)
	}
	assert.Equal(t, 1, succeeded)
	assert.True(t, f.balance(t, user.ID).Equal(dec("40")))
	assert.Len(t, f.transactions(t, user.ID), 1)
}

func TestAdjustWallet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := fixtures.CreateAdmin(t, f.db, "admin")
	user := fixtures.CreateUser(t, f.db, "ada", "1000")
	svc := f.wallet()

	res, err := svc.AdjustWallet(ctx, admin.ID, user.ID, services.AdjustmentInput{Kind: models.AdjustAdd, Amount: dec("250")})
	require.NoError(t, err)
	assert.True(t, res.NewBalance.Equal(dec("1250")))
	assert.Equal(t, models.TxAdminAdjustment, res.Transaction.Type)
	assert.Equal(t, "Admin credited wallet: ₦250.00", res.Transaction.Description)

	res, err = svc.AdjustWallet(ctx, admin.ID, user.ID, services.AdjustmentInput{Kind: models.AdjustSubtract, Amount: dec("50"), Description: "Chargeback"})
	require.NoError(t, err)
	assert.True(t, res.NewBalance.Equal(dec("1200")))
	assert.Equal(t, ledger.DirectionDebit, ledger.DirectionOf(res.Transaction))
	assert.Equal(t, "Chargeback", res.Transaction.Description)

	res, err = svc.AdjustWallet(ctx, admin.ID, user.ID, services.AdjustmentInput{Kind: models.AdjustSet, Amount: dec("300")})
	require.NoError(t, err)
	assert.True(t, res.NewBalance.Equal(dec("300")))
	assert.True(t, res.Transaction.Amount.Equal(dec("900")), res.Transaction.Amount.String())
	assert.True(t, res.Transaction.BalanceBefore.Decimal.Equal(dec("1200")))
	assert.True(t, res.Transaction.BalanceAfter.Decimal.Equal(dec("300")))
	require.NotNil(t, res.Transaction.ProcessedBy)
	assert.Equal(t, admin.ID, *res.Transaction.ProcessedBy)
	assert.Equal(t, ledger.DirectionDebit, ledger.DirectionOf(res.Transaction))

	// Setting the current balance still leaves an audit record.
	res, err = svc.AdjustWallet(ctx, admin.ID, user.ID, services.AdjustmentInput{Kind: models.AdjustSet, Amount: dec("300")})
	require.NoError(t, err)
	assert.True(t, res.Transaction.Amount.IsZero())

	_, err = svc.AdjustWallet(ctx, admin.ID, user.ID, services.AdjustmentInput{Kind: models.AdjustSubtract, Amount: dec("300.01")})
	assert.True(t, apperr.Is(err, apperr.CodeInsufficientFunds), err)

	_, err = svc.AdjustWallet(ctx, admin.ID, user.ID, services.AdjustmentInput{Kind: "multiply", Amount: dec("2")})
	assert.True(t, apperr.Is(err, apperr.CodeValidation), err)

	_, err = svc.AdjustWallet(ctx, admin.ID, user.ID, services.AdjustmentInput{Kind: models.AdjustSet, Amount: dec("-1")})
	assert.True(t, apperr.Is(err, apperr.CodeValidation), err)

	_, err = svc.AdjustWallet(ctx, admin.ID, 4040, services.AdjustmentInput{Kind: models.AdjustAdd, Amount: dec("1")})
	assert.True(t, apperr.Is(err, apperr.CodeNotFound), err)

	assert.Len(t, f.transactions(t, user.ID), 4)

	_, total, err := services.NewAdminService(f.db).GetAdminLogs(ctx, repository.Page{})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
}

func TestPublishFailureDoesNotUndoCommit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.events.Err = errors.New("redis down")
	user := fixtures.CreateUser(t, f.db, "ada", "0")

	res, err := f.wallet().HandleDepositCallback(ctx, services.DepositInput{Reference: "PSK-9", Amount: dec("100"), Email: "ada@example.com"})
	require.NoError(t, err)
	assert.True(t, res.NewBalance.Equal(dec("100")))
	assert.True(t, f.balance(t, user.ID).Equal(dec("100")))
}

// A mixed run of every wallet operation must leave the balance equal to the
// signed sum of the recorded transactions.
func TestLedgerConservation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := fixtures.CreateAdmin(t, f.db, "admin")
	user := fixtures.CreateUser(t, f.db, "ada", "0")
	account := fixtures.CreateBankAccount(t, f.db, user.ID, "0123456789", true)
	match := fixtures.CreateMatch(t, f.db, "Arsenal", "Chelsea", "3.5", "3.0", "2.0")
	wallet := f.wallet()
	bets := f.bets()

	_, err := wallet.HandleDepositCallback(ctx, services.DepositInput{Reference: "PSK-1", Amount: dec("1000"), Email: "ada@example.com"})
	require.NoError(t, err)
	_, err = wallet.HandleDepositCallback(ctx, services.DepositInput{Reference: "PSK-1", Amount: dec("1000"), Email: "ada@example.com"})
	require.NoError(t, err)

	cancelled, err := bets.PlaceBet(ctx, user.ID, single(match.ID, "3.5", "200", "3.5", "700"))
	require.NoError(t, err)
	_, err = bets.CancelBet(ctx, user.ID, cancelled.Bet.ID)
	require.NoError(t, err)

	won, err := bets.PlaceBet(ctx, user.ID, single(match.ID, "3.5", "100", "3.5", "350"))
	require.NoError(t, err)
	_, err = bets.SettleBet(ctx, admin.ID, won.Bet.ID, models.BetWon)
	require.NoError(t, err)

	lost, err := bets.PlaceBet(ctx, user.ID, single(match.ID, "3.5", "50", "3.5", "175"))
	require.NoError(t, err)
	_, err = bets.SettleBet(ctx, admin.ID, lost.Bet.ID, models.BetLost)
	require.NoError(t, err)

	rejected, err := wallet.RequestWithdrawal(ctx, user.ID, services.WithdrawalInput{Amount: dec("300"), BankAccountID: account.ID})
	require.NoError(t, err)
	_, err = wallet.RejectWithdrawal(ctx, admin.ID, rejected.Transaction.ID)
	require.NoError(t, err)

	approved, err := wallet.RequestWithdrawal(ctx, user.ID, services.WithdrawalInput{Amount: dec("150"), BankAccountID: account.ID})
	require.NoError(t, err)
	_, err = wallet.ApproveWithdrawal(ctx, admin.ID, approved.Transaction.ID)
	require.NoError(t, err)

	_, err = wallet.RequestWithdrawal(ctx, user.ID, services.WithdrawalInput{Amount: dec("120"), BankAccountID: account.ID})
	require.NoError(t, err)

	_, err = wallet.AdjustWallet(ctx, admin.ID, user.ID, services.AdjustmentInput{Kind: models.AdjustSubtract, Amount: dec("30.50")})
	require.NoError(t, err)

	// Rejected attempts leave no trace.
	_, err = bets.PlaceBet(ctx, user.ID, single(match.ID, "3.5", "100000", "3.5", "350000"))
	require.Error(t, err)

	sum := decimal.Zero
	for _, txn := range f.transactions(t, user.ID) {
		txn := txn
		sum = sum.Add(ledger.SignedAmount(&txn))
	}

	// 1000 - 100 + 350 - 50 - 150 - 120 - 30.50
	assert.True(t, f.balance(t, user.ID).Equal(dec("899.50")), f.balance(t, user.ID).String())
	assert.True(t, sum.Equal(f.balance(t, user.ID)), "sum %s", sum)
}
