package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"cardbank/internal/config"
	"cardbank/internal/infrastructure/database"

	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "card.s3db"),
		MaxOpenConns: 1,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestAccountRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(newTestDB(t))

	created, err := repo.Create(ctx, "4000000234567891", "1234")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 || created.Balance != 0 {
		t.Fatalf("unexpected created row: %+v", created)
	}

	got, err := repo.GetByNumber(ctx, nil, "4000000234567891")
	if err != nil {
		t.Fatalf("GetByNumber: %v", err)
	}
	if got == nil || got.PIN != "1234" || got.Balance != 0 {
		t.Fatalf("got=%+v want pin=1234 balance=0", got)
	}
}

func TestAccountRepository_GetMissingReturnsNil(t *testing.T) {
	repo := NewAccountRepository(newTestDB(t))

	got, err := repo.GetByNumber(context.Background(), nil, "4000000000000002")
	if err != nil {
		t.Fatalf("GetByNumber: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}

func TestAccountRepository_DuplicateNumberRejected(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(newTestDB(t))

	if _, err := repo.Create(ctx, "4000000234567891", "1111"); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	_, err := repo.Create(ctx, "4000000234567891", "2222")
	if !errors.Is(err, ErrDuplicateNumber) {
		t.Fatalf("want ErrDuplicateNumber, got %v", err)
	}

	got, _ := repo.GetByNumber(ctx, nil, "4000000234567891")
	if got.PIN != "1111" {
		t.Fatalf("original row overwritten: %+v", got)
	}
}

func TestAccountRepository_AdjustBalance(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(newTestDB(t))
	if _, err := repo.Create(ctx, "4000000234567891", "1234"); err != nil {
		t.Fatal(err)
	}

	for _, delta := range []int64{100, 50, -30} {
		if err := repo.AdjustBalance(ctx, nil, "4000000234567891", delta); err != nil {
			t.Fatalf("AdjustBalance(%d): %v", delta, err)
		}
	}

	got, _ := repo.GetByNumber(ctx, nil, "4000000234567891")
	if got.Balance != 120 {
		t.Fatalf("balance=%d want=120", got.Balance)
	}
}

func TestAccountRepository_AdjustBalanceMissingIsNoop(t *testing.T) {
	repo := NewAccountRepository(newTestDB(t))

	if err := repo.AdjustBalance(context.Background(), nil, "4000000000000002", 10); err != nil {
		t.Fatalf("AdjustBalance on missing card: %v", err)
	}
}

func TestAccountRepository_DeductGuardsBalance(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(newTestDB(t))
	if _, err := repo.Create(ctx, "4000000234567891", "1234"); err != nil {
		t.Fatal(err)
	}
	if err := repo.AdjustBalance(ctx, nil, "4000000234567891", 100); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		number  string
		amount  int64
		wantErr error
		want    int64
	}{
		{name: "partial", number: "4000000234567891", amount: 60, want: 40},
		{name: "more than left", number: "4000000234567891", amount: 41, wantErr: ErrBalanceNotEnough, want: 40},
		{name: "exactly what is left", number: "4000000234567891", amount: 40, want: 0},
		{name: "missing card", number: "4000000000000002", amount: 1, wantErr: ErrBalanceNotEnough, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Deduct(ctx, nil, tt.number, tt.amount)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Deduct err=%v want=%v", err, tt.wantErr)
			}
			got, _ := repo.GetByNumber(ctx, nil, "4000000234567891")
			if got.Balance != tt.want {
				t.Fatalf("balance=%d want=%d", got.Balance, tt.want)
			}
		})
	}
}

func TestAccountRepository_AdjustBalanceInsideRolledBackTx(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	if _, err := repo.Create(ctx, "4000000234567891", "1234"); err != nil {
		t.Fatal(err)
	}

	rollback := errors.New("rollback")
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := repo.AdjustBalance(ctx, tx, "4000000234567891", 500); err != nil {
			return err
		}
		return rollback
	})
	if !errors.Is(err, rollback) {
		t.Fatalf("transaction err=%v want rollback", err)
	}

	got, _ := repo.GetByNumber(ctx, nil, "4000000234567891")
	if got.Balance != 0 {
		t.Fatalf("balance=%d want=0 after rollback", got.Balance)
	}
}

func TestAccountRepository_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewAccountRepository(newTestDB(t))
	if _, err := repo.Create(ctx, "4000000234567891", "1234"); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		if err := repo.Delete(ctx, "4000000234567891"); err != nil {
			t.Fatalf("Delete #%d: %v", i+1, err)
		}
	}

	got, err := repo.GetByNumber(ctx, nil, "4000000234567891")
	if err != nil || got != nil {
		t.Fatalf("after delete got=%+v err=%v", got, err)
	}
}
