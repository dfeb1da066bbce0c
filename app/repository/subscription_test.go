package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"

	"github.com/planforge/ms-go-plans/app/entity"
	"github.com/planforge/ms-go-plans/app/pricing"
)

type fakeDB struct {
	execFn func(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (f *fakeDB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	if f.execFn != nil {
		return f.execFn(ctx, query, args...)
	}
	return fakeResult{lastInsertID: 1, rowsAffected: 1}, nil
}

func (f *fakeDB) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDB) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

type fakeResult struct {
	lastInsertID int64
	rowsAffected int64
	lastErr      error
	rowsErr      error
}

func (r fakeResult) LastInsertId() (int64, error) {
	return r.lastInsertID, r.lastErr
}

func (r fakeResult) RowsAffected() (int64, error) {
	return r.rowsAffected, r.rowsErr
}

func testSubscription() *entity.Subscription {
	now := time.Now().UTC()
	return &entity.Subscription{
		UserID:    "u-1",
		PlanID:    3,
		Frequency: pricing.FrequencyMonthly,
		Amount:    decimal.RequireFromString("10.00"),
		StartDate: now,
		EndDate:   now.Add(30 * 24 * time.Hour),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateSuccess(t *testing.T) {
	repo := NewSubscriptionRepository(&fakeDB{execFn: func(_ context.Context, _ string, _ ...interface{}) (sql.Result, error) {
		return fakeResult{lastInsertID: 22}, nil
	}})

	s := testSubscription()
	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if s.ID != 22 {
		t.Fatalf("expected id=22, got %d", s.ID)
	}
}

func TestCreateMapsDuplicateToActiveExists(t *testing.T) {
	repo := NewSubscriptionRepository(&fakeDB{execFn: func(_ context.Context, _ string, _ ...interface{}) (sql.Result, error) {
		return nil, &mysqlDriver.MySQLError{Number: 1062, Message: "Duplicate entry"}
	}})

	err := repo.Create(context.Background(), testSubscription())
	if !errors.Is(err, ErrActiveSubscriptionExists) {
		t.Fatalf("expected ErrActiveSubscriptionExists, got %v", err)
	}
}

func TestCreatePassesThroughOtherErrors(t *testing.T) {
	dbErr := errors.New("connection lost")
	repo := NewSubscriptionRepository(&fakeDB{execFn: func(_ context.Context, _ string, _ ...interface{}) (sql.Result, error) {
		return nil, dbErr
	}})

	if err := repo.Create(context.Background(), testSubscription()); !errors.Is(err, dbErr) {
		t.Fatalf("expected raw db error, got %v", err)
	}
}

func TestDeactivateScopesConditionalUpdate(t *testing.T) {
	var gotQuery string
	var gotArgs []interface{}
	repo := NewSubscriptionRepository(&fakeDB{execFn: func(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
		gotQuery = query
		gotArgs = args
		return fakeResult{rowsAffected: 1}, nil
	}})

	affected, err := repo.Deactivate(context.Background(), 7, "u-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row, got %d", affected)
	}
	if !strings.Contains(gotQuery, "is_active = 1") {
		t.Fatalf("expected update scoped to active rows, got query %q", gotQuery)
	}
	if len(gotArgs) != 3 || gotArgs[1] != uint64(7) || gotArgs[2] != "u-1" {
		t.Fatalf("unexpected args: %v", gotArgs)
	}
}

func TestDeactivateNoOpReturnsZero(t *testing.T) {
	repo := NewSubscriptionRepository(&fakeDB{execFn: func(_ context.Context, _ string, _ ...interface{}) (sql.Result, error) {
		return fakeResult{rowsAffected: 0}, nil
	}})

	affected, err := repo.Deactivate(context.Background(), 7, "u-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected 0 rows, got %d", affected)
	}
}

func TestUpdateMapsZeroRowsToNotFound(t *testing.T) {
	repo := NewSubscriptionRepository(&fakeDB{execFn: func(_ context.Context, _ string, _ ...interface{}) (sql.Result, error) {
		return fakeResult{rowsAffected: 0}, nil
	}})

	s := testSubscription()
	s.ID = 7
	if err := repo.Update(context.Background(), s); !errors.Is(err, ErrSubscriptionNotFound) {
		t.Fatalf("expected ErrSubscriptionNotFound, got %v", err)
	}
}

func TestExpireEndedReturnsAffectedCount(t *testing.T) {
	repo := NewSubscriptionRepository(&fakeDB{execFn: func(_ context.Context, query string, _ ...interface{}) (sql.Result, error) {
		if !strings.Contains(query, "end_date <") {
			t.Fatalf("expected end_date condition, got query %q", query)
		}
		return fakeResult{rowsAffected: 4}, nil
	}})

	affected, err := repo.ExpireEnded(context.Background(), time.Now().UTC())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if affected != 4 {
		t.Fatalf("expected 4 rows, got %d", affected)
	}
}
