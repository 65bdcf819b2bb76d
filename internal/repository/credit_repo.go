package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/semak-karangan-api/internal/models"
)

// ErrInsufficientBalance is returned when a deduction would take an account below zero.
var ErrInsufficientBalance = errors.New("insufficient credit balance")

// CreditRepository manages credit balances and their journal.
type CreditRepository interface {
	Balance(ctx context.Context, uid string) (int, error)
	Deduct(ctx context.Context, uid string, amount int, reason string) (int, error)
	Credit(ctx context.Context, uid string, amount int, reason string) (int, error)
	Transactions(ctx context.Context, uid string, limit int) ([]models.CreditTransaction, error)
}

type creditRepository struct {
	db *gorm.DB
}

// NewCreditRepository instantiates the repository.
func NewCreditRepository(db *gorm.DB) CreditRepository {
	return &creditRepository{db: db}
}

// Balance returns gorm.ErrRecordNotFound when the account does not exist.
func (r *creditRepository) Balance(ctx context.Context, uid string) (int, error) {
	var account models.CreditAccount
	if err := r.db.WithContext(ctx).First(&account, "uid = ?", uid).Error; err != nil {
		return 0, err
	}

	return account.Balance, nil
}

// Deduct removes amount from the account in one transaction. The balance check
// and the decrement are a single conditional update so concurrent deductions
// cannot overdraw the account.
func (r *creditRepository) Deduct(ctx context.Context, uid string, amount int, reason string) (int, error) {
	var balance int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		update := tx.Model(&models.CreditAccount{}).
			Where("uid = ? AND balance >= ?", uid, amount).
			Update("balance", gorm.Expr("balance - ?", amount))
		if update.Error != nil {
			return update.Error
		}

		var account models.CreditAccount
		if err := tx.First(&account, "uid = ?", uid).Error; err != nil {
			return err
		}
		if update.RowsAffected == 0 {
			return ErrInsufficientBalance
		}

		balance = account.Balance
		if amount == 0 {
			return nil
		}

		return tx.Create(&models.CreditTransaction{
			UID:          uid,
			Amount:       -amount,
			BalanceAfter: balance,
			Reason:       reason,
		}).Error
	})
	if err != nil {
		return 0, err
	}

	return balance, nil
}

// Credit adds amount to the account, opening it when needed.
func (r *creditRepository) Credit(ctx context.Context, uid string, amount int, reason string) (int, error) {
	var balance int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account := models.CreditAccount{UID: uid}
		if err := tx.FirstOrCreate(&account, models.CreditAccount{UID: uid}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.CreditAccount{}).
			Where("uid = ?", uid).
			Update("balance", gorm.Expr("balance + ?", amount)).Error; err != nil {
			return err
		}

		if err := tx.First(&account, "uid = ?", uid).Error; err != nil {
			return err
		}
		balance = account.Balance

		return tx.Create(&models.CreditTransaction{
			UID:          uid,
			Amount:       amount,
			BalanceAfter: balance,
			Reason:       reason,
		}).Error
	})
	if err != nil {
		return 0, err
	}

	return balance, nil
}

func (r *creditRepository) Transactions(ctx context.Context, uid string, limit int) ([]models.CreditTransaction, error) {
	if limit <= 0 {
		limit = 20
	}

	var txs []models.CreditTransaction
	if err := r.db.WithContext(ctx).
		Where("uid = ?", uid).
		Order("id DESC").
		Limit(limit).
		Find(&txs).Error; err != nil {
		return nil, err
	}

	return txs, nil
}
