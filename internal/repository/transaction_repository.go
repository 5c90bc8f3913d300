package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"sportsbook/internal/apperr"
	"sportsbook/internal/models"
	"sportsbook/internal/utils"
)

// RecordParams describes a money-movement event to persist.
type RecordParams struct {
	UserID           uint
	Type             models.TransactionType
	Amount           decimal.Decimal
	Status           models.TransactionStatus
	Description      string
	Reference        string // generated when empty
	PaymentReference string
	BankAccount      *models.BankSnapshot
	BetID            *uint
	Adjustment       models.AdjustmentKind
	BalanceBefore    decimal.NullDecimal
	BalanceAfter     decimal.NullDecimal
	ProcessedBy      *uint
	ProcessedAt      *time.Time
}

func (p RecordParams) validate() error {
	if !p.Type.Valid() {
		return apperr.Validation("Invalid transaction type %q", p.Type)
	}
	if p.Status != "" && !p.Status.Valid() {
		return apperr.Validation("Invalid transaction status %q", p.Status)
	}
	if p.Description == "" {
		return apperr.Validation("Transaction description is required")
	}
	// A set adjustment that leaves the balance unchanged is still audited.
	zeroAllowed := p.Type == models.TxAdminAdjustment && p.Adjustment == models.AdjustSet
	if p.Amount.IsNegative() || (p.Amount.IsZero() && !zeroAllowed) {
		return apperr.Validation("Transaction amount must be greater than zero")
	}
	return nil
}

// RecordTransaction persists a transaction. When the reference already
// exists the stored row is returned with duplicate=true and nothing is written.
func (r *Repository) RecordTransaction(ctx context.Context, p RecordParams) (txn *models.Transaction, duplicate bool, err error) {
	if err := p.validate(); err != nil {
		return nil, false, err
	}

	if p.Reference != "" {
		existing, err := r.GetTransactionByReference(ctx, p.Reference)
		if err == nil {
			return existing, true, nil
		}
		if !apperr.Is(err, apperr.CodeNotFound) {
			return nil, false, err
		}
	} else {
		p.Reference = utils.GenerateTransactionReference()
	}

	status := p.Status
	if status == "" {
		status = models.TxPending
	}

	txn = &models.Transaction{
		UserID:           p.UserID,
		Type:             p.Type,
		Amount:           p.Amount,
		Status:           status,
		Description:      p.Description,
		Reference:        p.Reference,
		PaymentReference: p.PaymentReference,
		BankAccount:      datatypes.NewJSONType(p.BankAccount),
		BetID:            p.BetID,
		Adjustment:       p.Adjustment,
		BalanceBefore:    p.BalanceBefore,
		BalanceAfter:     p.BalanceAfter,
		ProcessedBy:      p.ProcessedBy,
		ProcessedAt:      p.ProcessedAt,
	}

	// The insert runs in a savepoint so a lost reference race leaves the
	// surrounding transaction usable.
	err = r.db.WithContext(ctx).Transaction(func(sp *gorm.DB) error {
		return sp.Create(txn).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		existing, lookupErr := r.GetTransactionByReference(ctx, p.Reference)
		if lookupErr != nil {
			return nil, false, lookupErr
		}
		return existing, true, nil
	}
	if err != nil {
		return nil, false, apperr.Internal("failed to record transaction", err)
	}
	return txn, false, nil
}

// GetTransaction retrieves a transaction by ID
func (r *Repository) GetTransaction(ctx context.Context, id uint) (*models.Transaction, error) {
	return r.findTransaction(ctx, r.db.Where("id = ?", id))
}

// GetUserTransaction retrieves a transaction owned by userID
func (r *Repository) GetUserTransaction(ctx context.Context, userID, id uint) (*models.Transaction, error) {
	return r.findTransaction(ctx, r.db.Where("id = ? AND user_id = ?", id, userID))
}

// GetTransactionByReference retrieves a transaction by its unique reference
func (r *Repository) GetTransactionByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	return r.findTransaction(ctx, r.db.Where("reference = ?", reference))
}

func (r *Repository) findTransaction(ctx context.Context, query *gorm.DB) (*models.Transaction, error) {
	var txn models.Transaction
	err := query.WithContext(ctx).First(&txn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("transaction")
	}
	if err != nil {
		return nil, apperr.Internal("failed to get transaction", err)
	}
	return &txn, nil
}

// TransactionFilter narrows a transaction listing
type TransactionFilter struct {
	UserID *uint
	Type   models.TransactionType
	Status models.TransactionStatus
	Page   Page
}

func (f TransactionFilter) scope(db *gorm.DB) *gorm.DB {
	if f.UserID != nil {
		db = db.Where("user_id = ?", *f.UserID)
	}
	if f.Type != "" {
		db = db.Where("type = ?", f.Type)
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	return db
}

// ListTransactions returns matching transactions newest first with the total count
func (r *Repository) ListTransactions(ctx context.Context, f TransactionFilter) ([]models.Transaction, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Scopes(f.scope).
		Count(&total).Error
	if err != nil {
		return nil, 0, apperr.Internal("failed to count transactions", err)
	}

	var txns []models.Transaction
	err = r.db.WithContext(ctx).
		Scopes(f.scope, paginate(f.Page)).
		Order("created_at DESC, id DESC").
		Find(&txns).Error
	if err != nil {
		return nil, 0, apperr.Internal("failed to list transactions", err)
	}
	return txns, total, nil
}

// TransitionTransaction moves a transaction of type typ from one status to
// another in a single conditional update. It fails with NotFound when no such
// transaction exists and AlreadyProcessed when its status is no longer from.
func (r *Repository) TransitionTransaction(
	ctx context.Context,
	id uint,
	typ models.TransactionType,
	from, to models.TransactionStatus,
	processedBy uint,
	processedAt time.Time,
) (*models.Transaction, error) {
	res := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ? AND type = ? AND status = ?", id, typ, from).
		Updates(map[string]interface{}{
			"status":       to,
			"processed_by": processedBy,
			"processed_at": processedAt,
		})
	if res.Error != nil {
		return nil, apperr.Internal("failed to update transaction", res.Error)
	}

	txn, err := r.findTransaction(ctx, r.db.Where("id = ? AND type = ?", id, typ))
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, apperr.New(apperr.CodeAlreadyProcessed, "Transaction has already been %s", txn.Status)
	}
	return txn, nil
}

// SumTransactions totals the amount of matching transactions
func (r *Repository) SumTransactions(ctx context.Context, f TransactionFilter) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Scopes(f.scope).
		Select("SUM(amount)").
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, apperr.Internal("failed to sum transactions", err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
