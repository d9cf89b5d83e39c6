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

type BankService struct {
	db                *gorm.DB
	accountRepo       *repository.AccountRepository
	cards             *card.Generator
	maxCreateAttempts int
}

func NewBankService(db *gorm.DB, cards *card.Generator, maxCreateAttempts int) *BankService {
	if maxCreateAttempts < 1 {
		maxCreateAttempts = 1
	}
	return &BankService{
		db:                db,
		accountRepo:       repository.NewAccountRepository(db),
		cards:             cards,
		maxCreateAttempts: maxCreateAttempts,
	}
}

// CreateAccount issues a new card with a zero balance. A number collision
// triggers a fresh number, up to maxCreateAttempts inserts.
func (s *BankService) CreateAccount(ctx context.Context) (*model.Account, error) {
	var lastErr error
	for attempt := 1; attempt <= s.maxCreateAttempts; attempt++ {
		account, err := s.accountRepo.Create(ctx, s.cards.Number(), s.cards.PIN())
		if err == nil {
			log.Printf("[BankService] card created: number=%s", account.Number)
			return account, nil
		}
		if !errors.Is(err, repository.ErrDuplicateNumber) {
			return nil, storageErr("create account", err)
		}
		lastErr = err
		log.Printf("[BankService] card number collision, regenerating: attempt=%d", attempt)
	}
	return nil, storageErr("create account", lastErr)
}

// Login opens a session when the card exists and the PIN matches.
func (s *BankService) Login(ctx context.Context, number, pin string) (*Session, error) {
	account, err := s.accountRepo.GetByNumber(ctx, nil, number)
	if err != nil {
		return nil, storageErr("login", err)
	}
	if account == nil || account.PIN != pin {
		return nil, ErrAuthentication
	}
	return newSession(s, account), nil
}

// Resume rebuilds a session for a number that already authenticated, e.g.
// from an HTTP session token. A card closed in the meantime fails with
// ErrAuthentication.
func (s *BankService) Resume(ctx context.Context, number string) (*Session, error) {
	account, err := s.accountRepo.GetByNumber(ctx, nil, number)
	if err != nil {
		return nil, storageErr("resume session", err)
	}
	if account == nil {
		return nil, ErrAuthentication
	}
	return newSession(s, account), nil
}

func (s *BankService) ValidateNumber(number string) bool {
	return card.Valid(number)
}
