package repository

import (
	"context"
	"errors"
	"strings"

	"cardbank/internal/model"

	"gorm.io/gorm"
)

var (
	ErrDuplicateNumber  = errors.New("card number already exists")
	ErrBalanceNotEnough = errors.New("balance not enough")
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a card with a zero balance.
func (r *AccountRepository) Create(ctx context.Context, number, pin string) (*model.Account, error) {
	account := &model.Account{
		Number:  number,
		PIN:     pin,
		Balance: 0,
	}
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicateNumber
		}
		return nil, err
	}
	return account, nil
}

// GetByNumber returns nil, nil when no card matches.
func (r *AccountRepository) GetByNumber(ctx context.Context, tx *gorm.DB, number string) (*model.Account, error) {
	if tx == nil {
		tx = r.db
	}
	var account model.Account
	err := tx.WithContext(ctx).Where("number = ?", number).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// AdjustBalance adds delta (signed) to the card's balance in one statement.
// An unknown number is a silent no-op; callers check existence first.
func (r *AccountRepository) AdjustBalance(ctx context.Context, tx *gorm.DB, number string, delta int64) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).
		Model(&model.Account{}).
		Where("number = ?", number).
		UpdateColumn("balance", gorm.Expr("balance + ?", delta)).Error
}

// Deduct subtracts amount only while the stored balance covers it. A card
// that is missing or short of funds yields ErrBalanceNotEnough.
func (r *AccountRepository) Deduct(ctx context.Context, tx *gorm.DB, number string, amount int64) error {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).
		Model(&model.Account{}).
		Where("number = ? AND balance >= ?", number, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBalanceNotEnough
	}
	return nil
}

// Delete removes the card. Deleting a missing card is not an error.
func (r *AccountRepository) Delete(ctx context.Context, number string) error {
	return r.db.WithContext(ctx).
		Where("number = ?", number).
		Delete(&model.Account{}).Error
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// dialects without error translation
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate")
}
