package ranking

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/saeidalz13/armada/db/sqlc"
)

func TestPostgresStoreLoad(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("expected: nil\tgot: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT name, score FROM rankings").
		WillReturnRows(sqlmock.NewRows([]string{"name", "score"}).
			AddRow("alpha", 30).
			AddRow("bravo", 5))

	ranking, err := NewPostgresStore(sqlc.New(db)).Load(context.Background())
	if err != nil {
		t.Fatalf("expected: nil\tgot: %v", err)
	}

	expected := map[string]int{"alpha": 30, "bravo": 5}
	if !reflect.DeepEqual(ranking, expected) {
		t.Fatalf("expected: %v\tgot: %v", expected, ranking)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expected: nil\tgot: %v", err)
	}
}

func TestPostgresStoreRecord(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("expected: nil\tgot: %v", err)
	}
	defer db.Close()

	// upserts run in ranking order
	mock.ExpectExec("INSERT INTO rankings").
		WithArgs("alpha", int64(15)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO rankings").
		WithArgs("bravo", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewPostgresStore(sqlc.New(db)).Record(context.Background(), map[string]int{"bravo": 5, "alpha": 15})
	if err != nil {
		t.Fatalf("expected: nil\tgot: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expected: nil\tgot: %v", err)
	}
}

func TestPostgresStoreRecordFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("expected: nil\tgot: %v", err)
	}
	defer db.Close()

	dbErr := errors.New("connection reset")
	mock.ExpectExec("INSERT INTO rankings").
		WithArgs("alpha", int64(15)).
		WillReturnError(dbErr)

	err = NewPostgresStore(sqlc.New(db)).Record(context.Background(), map[string]int{"alpha": 15})
	if !errors.Is(err, dbErr) {
		t.Fatalf("expected: %v\tgot: %v", dbErr, err)
	}
}
