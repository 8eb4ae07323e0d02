package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/collabglam/contractflow/internal/domain"
	"github.com/collabglam/contractflow/internal/repo"
)

func testContract() domain.Contract {
	return domain.Contract{
		ID:           "ct-1",
		BrandID:      "br-1",
		InfluencerID: "inf-1",
		CampaignID:   "cmp-1",
		Status:       domain.StatusSent,
		CreatedAt:    time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestContractStoreCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO contracts").
		WithArgs("ct-1", "br-1", "inf-1", "cmp-1", "sent",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewContractStore(db)
	if err := store.Create(context.Background(), testContract()); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestContractStoreGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	contract := testContract()
	document, err := json.Marshal(contract)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	mock.ExpectQuery("SELECT document, version FROM contracts").
		WithArgs("ct-1").
		WillReturnRows(sqlmock.NewRows([]string{"document", "version"}).AddRow(document, int64(3)))

	store := NewContractStore(db)
	got, err := store.Get(context.Background(), "ct-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != "ct-1" || got.Status != domain.StatusSent {
		t.Fatalf("unexpected contract: %+v", got)
	}
	if got.Version != 3 {
		t.Fatalf("expected version 3 got %d", got.Version)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestContractStoreGetNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT document, version FROM contracts").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	store := NewContractStore(db)
	_, err = store.Get(context.Background(), "missing")
	if !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}
}

func TestContractStoreUpdateVersionConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE contracts").
		WithArgs("ct-1", "cmp-1", "sent", sqlmock.AnyArg(), sqlmock.AnyArg(), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("ct-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	store := NewContractStore(db)
	_, err = store.Update(context.Background(), testContract(), 2)
	if !errors.Is(err, repo.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestContractStoreUpdateBumpsVersion(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE contracts").
		WithArgs("ct-1", "cmp-1", "sent", sqlmock.AnyArg(), sqlmock.AnyArg(), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewContractStore(db)
	got, err := store.Update(context.Background(), testContract(), 2)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.Version != 3 {
		t.Fatalf("expected version 3 got %d", got.Version)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
