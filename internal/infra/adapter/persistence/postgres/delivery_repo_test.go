package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"resto-notify/internal/domain/entity"
	"resto-notify/internal/infra/adapter/persistence/postgres"
)

/* ──────────────────────────── 1. SaveDelivery ──────────────────────────── */

func TestDeliveryRepo_SaveDelivery(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	msgID := int64(555)
	now := time.Now().UTC()
	rec := &entity.DeliveryRecord{
		ChatID:    "12345",
		MessageID: &msgID,
		Category:  "order_created",
		Success:   true,
		Data:      map[string]any{"order_id": float64(42)},
		CreatedAt: now,
	}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO telegram_notifications`)).
		WithArgs("12345", msgID, "order_created", true, []byte(`{"order_id":42}`), now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	repo := postgres.NewDeliveryRepo(db)
	if err := repo.SaveDelivery(context.Background(), rec); err != nil {
		t.Fatalf("SaveDelivery err=%v", err)
	}
	if rec.ID != 7 {
		t.Errorf("ID = %d, want 7", rec.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDeliveryRepo_SaveDelivery_NilData(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Now().UTC()
	rec := &entity.DeliveryRecord{
		ChatID:    "12345",
		Category:  "manual",
		Success:   false,
		CreatedAt: now,
	}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO telegram_notifications`)).
		WithArgs("12345", nil, "manual", false, nil, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(8)))

	repo := postgres.NewDeliveryRepo(db)
	if err := repo.SaveDelivery(context.Background(), rec); err != nil {
		t.Fatalf("SaveDelivery err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

/* ──────────────────────────── 2. SaveBroadcast ─────────────────────────── */

func TestDeliveryRepo_SaveBroadcast(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Now().UTC()
	sum := &entity.BroadcastSummary{
		Category:        "shift_published",
		TotalRecipients: 7,
		SuccessfulSends: 5,
		FailedSends:     2,
		SuccessRate:     71,
		CreatedAt:       now,
	}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO telegram_broadcasts`)).
		WithArgs("shift_published", 7, 5, 2, 71, nil, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))

	repo := postgres.NewDeliveryRepo(db)
	if err := repo.SaveBroadcast(context.Background(), sum); err != nil {
		t.Fatalf("SaveBroadcast err=%v", err)
	}
	if sum.ID != 3 {
		t.Errorf("ID = %d, want 3", sum.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

/* ─────────────────────────── 3. SuccessTimesSince ──────────────────────── */

func TestDeliveryRepo_SuccessTimesSince(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Now().UTC()
	since := now.Add(-60 * time.Second)
	t1 := now.Add(-50 * time.Second)
	t2 := now.Add(-10 * time.Second)

	mock.ExpectQuery(`FROM telegram_notifications`).
		WithArgs("12345", since).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(t1).AddRow(t2))

	repo := postgres.NewDeliveryRepo(db)
	got, err := repo.SuccessTimesSince(context.Background(), "12345", since)
	if err != nil {
		t.Fatalf("SuccessTimesSince err=%v", err)
	}
	if diff := cmp.Diff([]time.Time{t1, t2}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestDeliveryRepo_SuccessTimesSince_QueryError(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`FROM telegram_notifications`).
		WillReturnError(errors.New("connection reset"))

	repo := postgres.NewDeliveryRepo(db)
	if _, err := repo.SuccessTimesSince(context.Background(), "12345", time.Now()); err == nil {
		t.Fatal("err = nil, want error")
	}
}

/* ───────────────────────────── 4. RecentByChat ─────────────────────────── */

func TestDeliveryRepo_RecentByChat(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Now().UTC()
	msgID := int64(555)
	mock.ExpectQuery(`FROM telegram_notifications`).
		WithArgs("12345", 20).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "chat_id", "message_id", "notification_type", "success", "data", "created_at",
		}).
			AddRow(int64(2), "12345", msgID, "order_created", true, []byte(`{"order_id":42}`), now).
			AddRow(int64(1), "12345", nil, "manual", false, nil, now.Add(-time.Minute)))

	repo := postgres.NewDeliveryRepo(db)
	got, err := repo.RecentByChat(context.Background(), "12345", 20)
	if err != nil {
		t.Fatalf("RecentByChat err=%v", err)
	}

	want := []entity.DeliveryRecord{
		{ID: 2, ChatID: "12345", MessageID: &msgID, Category: "order_created", Success: true,
			Data: map[string]any{"order_id": float64(42)}, CreatedAt: now},
		{ID: 1, ChatID: "12345", Category: "manual", Success: false, CreatedAt: now.Add(-time.Minute)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
