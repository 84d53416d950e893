package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"contractor_connect/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBidRepository_Accept(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bids SET status = 'accepted'")).
		WithArgs("b-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bids SET status = 'rejected'")).
		WithArgs("r-1", "b-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE requests SET status = 'in_progress'")).
		WithArgs("c-1", "r-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	repo := NewBidRepository(mock)
	bid := &model.Bid{ID: "b-1", RequestID: "r-1", ContractorID: "c-1", Status: model.BidStatusPending}
	err = repo.Accept(context.Background(), bid)

	require.NoError(t, err)
	assert.Equal(t, model.BidStatusAccepted, bid.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBidRepository_Accept_RequestNoLongerOpen(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bids SET status = 'accepted'")).
		WithArgs("b-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bids SET status = 'rejected'")).
		WithArgs("r-1", "b-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE requests SET status = 'in_progress'")).
		WithArgs("c-1", "r-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	repo := NewBidRepository(mock)
	bid := &model.Bid{ID: "b-1", RequestID: "r-1", ContractorID: "c-1", Status: model.BidStatusPending}
	err = repo.Accept(context.Background(), bid)

	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, model.BidStatusPending, bid.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBidRepository_Accept_ExecFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bids SET status = 'accepted'")).
		WithArgs("b-1").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	repo := NewBidRepository(mock)
	err = repo.Accept(context.Background(), &model.Bid{ID: "b-1", RequestID: "r-1", ContractorID: "c-1"})

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBidRepository_Statistics_NoBids(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM bids WHERE request_id = $1")).
		WithArgs("r-1").
		WillReturnRows(pgxmock.NewRows([]string{"total", "pending", "accepted", "rejected", "withdrawn", "avg", "min", "max"}).
			AddRow(0, 0, 0, 0, 0, nil, nil, nil))

	repo := NewBidRepository(mock)
	stats, err := repo.Statistics(context.Background(), "r-1")

	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalBids)
	assert.Nil(t, stats.AverageAmount)
	assert.Nil(t, stats.MinAmount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBidRepository_HasActiveBid(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("r-1", "c-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	repo := NewBidRepository(mock)
	exists, err := repo.HasActiveBid(context.Background(), "r-1", "c-1")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBidRepository_Delete_AcceptedBid(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM bids WHERE id = $1 AND status <> 'accepted'")).
		WithArgs("b-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewBidRepository(mock)
	err = repo.Delete(context.Background(), "b-1")

	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBidRepository_Create_UniqueViolation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	bid := &model.Bid{RequestID: "r-1", ContractorID: "c-1", Amount: 250000, Proposal: "Full repaint", Status: model.BidStatusPending}
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bids")).
		WithArgs("r-1", "c-1", 250000.0, "Full repaint", bid.EstimatedCompletionDays, model.BidStatusPending).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_bids_live_per_contractor"})

	repo := NewBidRepository(mock)
	err = repo.Create(context.Background(), bid)

	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBidRepository_Create_OtherFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	bid := &model.Bid{RequestID: "r-1", ContractorID: "c-1", Amount: 250000, Proposal: "Full repaint", Status: model.BidStatusPending}
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bids")).
		WithArgs("r-1", "c-1", 250000.0, "Full repaint", bid.EstimatedCompletionDays, model.BidStatusPending).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	repo := NewBidRepository(mock)
	err = repo.Create(context.Background(), bid)

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}
