package service

import (
	"context"
	"errors"
	"log"

	"cardbank/internal/card"
	"cardbank/internal/model"
	"cardbank/internal/repository"

	"gorm.io/gorm"
)

// Session is the authenticated context of one card. Balance is cached and
// kept equal to the stored value by every mutation made through the session.
type Session struct {
	svc     *BankService
	number  string
	balance int64
	closed  bool
}

func newSession(svc *BankService, account *model.Account) *Session {
	return &Session{
		svc:     svc,
		number:  account.Number,
		balance: account.Balance,
	}
}

func (s *Session) Number() string {
	return s.number
}

func (s *Session) Balance() int64 {
	return s.balance
}

func (s *Session) Closed() bool {
	return s.closed
}

// Deposit adds a non-negative amount to the balance. Amounts that would
// overflow the balance are rejected.
func (s *Session) Deposit(ctx context.Context, amount int64) error {
	if s.closed {
		return ErrSessionClosed
	}
	if amount < 0 || s.balance+amount < s.balance {
		return ErrInvalidAmount
	}
	if err := s.svc.accountRepo.AdjustBalance(ctx, nil, s.number, amount); err != nil {
		return storageErr("deposit", err)
	}
	s.balance += amount
	return nil
}

// CheckReceiver runs the receiver guards of a transfer, in order:
// same card, checksum, existence.
func (s *Session) CheckReceiver(ctx context.Context, receiver string) error {
	if s.closed {
		return ErrSessionClosed
	}
	if receiver == s.number {
		return ErrSameAccount
	}
	if !card.Valid(receiver) {
		return ErrInvalidNumber
	}
	account, err := s.svc.accountRepo.GetByNumber(ctx, nil, receiver)
	if err != nil {
		return storageErr("find receiver", err)
	}
	if account == nil {
		return ErrNoSuchReceiver
	}
	return nil
}

// Transfer moves amount to receiver. Debit and credit commit together or not
// at all.
func (s *Session) Transfer(ctx context.Context, receiver string, amount int64) error {
	if err := s.CheckReceiver(ctx, receiver); err != nil {
		return err
	}
	if amount < 0 {
		return ErrInvalidAmount
	}
	if amount > s.balance {
		return ErrInsufficientFunds
	}

	repo := s.svc.accountRepo
	err := s.svc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// the receiver may have been closed after CheckReceiver
		account, err := repo.GetByNumber(ctx, tx, receiver)
		if err != nil {
			return err
		}
		if account == nil {
			return ErrNoSuchReceiver
		}
		// other sessions on this card may have spent since s.balance was read
		if amount > 0 {
			if err := repo.Deduct(ctx, tx, s.number, amount); err != nil {
				if errors.Is(err, repository.ErrBalanceNotEnough) {
					return ErrInsufficientFunds
				}
				return err
			}
		}
		return repo.AdjustBalance(ctx, tx, receiver, amount)
	})
	if err != nil {
		if errors.Is(err, ErrNoSuchReceiver) || errors.Is(err, ErrInsufficientFunds) {
			return err
		}
		return storageErr("transfer", err)
	}

	s.balance -= amount
	log.Printf("[BankService] transfer done: from=%s, to=%s, amount=%d", s.number, receiver, amount)
	return nil
}

// Close deletes the card. The session is unusable afterwards.
func (s *Session) Close(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}
	if err := s.svc.accountRepo.Delete(ctx, s.number); err != nil {
		return storageErr("close account", err)
	}
	s.closed = true
	log.Printf("[BankService] card closed: number=%s", s.number)
	return nil
}
