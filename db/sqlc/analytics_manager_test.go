package sqlc

import (
	"context"
	"net"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sqlc-dev/pqtype"
)

func TestAnalyticsManagerCounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("expected: nil\tgot: %v", err)
	}
	defer db.Close()

	ipnet := pqtype.Inet{
		IPNet: net.IPNet{IP: net.ParseIP("10.0.0.7"), Mask: net.CIDRMask(32, 32)},
		Valid: true,
	}

	mock.ExpectExec("INSERT INTO game_server_analytics \\(server_ip, games_started\\)").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO game_server_analytics \\(server_ip, games_finished\\)").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT games_started FROM game_server_analytics").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"games_started"}).AddRow(3))

	manager := NewDbManager(New(db))
	ctx := context.Background()

	if err := manager.Analytics.IncrementGamesStartedCount(ctx, ipnet); err != nil {
		t.Fatalf("expected: nil\tgot: %v", err)
	}
	if err := manager.Analytics.IncrementGamesFinishedCount(ctx, ipnet); err != nil {
		t.Fatalf("expected: nil\tgot: %v", err)
	}

	started, err := manager.Analytics.GetGamesStartedCount(ctx, ipnet)
	if err != nil {
		t.Fatalf("expected: nil\tgot: %v", err)
	}
	if started != 3 {
		t.Fatalf("expected: %d\tgot: %d", 3, started)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expected: nil\tgot: %v", err)
	}
}

func TestNewDbManagerWithoutQuerier(t *testing.T) {
	manager := NewDbManager(nil)
	if manager.Analytics != nil {
		t.Fatalf("expected: nil\tgot: %v", manager.Analytics)
	}
}
