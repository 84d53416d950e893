package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"contractor_connect/internal/model"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var requestColumnNames = []string{
	"id", "society_id", "assigned_contractor_id", "title", "description", "category", "status",
	"location", "city", "state", "pincode", "budget_min", "budget_max", "images",
	"created_at", "updated_at", "started_at", "completed_at",
	"society_name", "society_phone", "society_city",
	"contractor_name", "contractor_phone",
	"bids_count",
}

func TestRequestRepository_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	status := model.RequestStatusOpen
	city := "Mumbai"
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM requests r WHERE r.status = $1 AND r.city ILIKE $2")).
		WithArgs(status, city).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE r.status = $1 AND r.city ILIKE $2 ORDER BY r.created_at DESC OFFSET $3 LIMIT $4")).
		WithArgs(status, city, 0, 20).
		WillReturnRows(pgxmock.NewRows(requestColumnNames).AddRow(
			"r-1", "s-1", nil, "Repaint lobby", "Repaint the entrance lobby and stairwell walls with washable paint.", "painting", status,
			nil, city, "Maharashtra", nil, nil, nil, []string{},
			now, now, nil, nil,
			"Green Acres", "+919876543210", nil,
			nil, nil,
			3,
		))

	repo := NewRequestRepository(mock)
	requests, total, err := repo.List(context.Background(), model.RequestFilters{Status: &status, City: &city})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, requests, 1)
	assert.Equal(t, "r-1", requests[0].ID)
	assert.Equal(t, 3, requests[0].BidsCount)
	require.NotNil(t, requests[0].Society)
	assert.Equal(t, "Green Acres", requests[0].Society.Name)
	assert.Nil(t, requests[0].AssignedContractor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepository_UpdateStatus_Conflict(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE requests SET status = $1")).
		WithArgs(model.RequestStatusCancelled, "r-1", model.RequestStatusOpen).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewRequestRepository(mock)
	err = repo.UpdateStatus(context.Background(), "r-1", model.RequestStatusOpen, model.RequestStatusCancelled)

	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func editableRequest(updatedAt time.Time) *model.WorkRequest {
	return &model.WorkRequest{
		ID:          "r-1",
		SocietyID:   "s-1",
		Title:       "Repaint lobby",
		Description: "Repaint the entrance lobby and stairwell walls with washable paint.",
		Category:    "painting",
		Status:      model.RequestStatusOpen,
		City:        "Mumbai",
		State:       "Maharashtra",
		UpdatedAt:   updatedAt,
	}
}

func TestRequestRepository_Update(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	read := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	written := read.Add(time.Minute)
	wr := editableRequest(read)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $10 AND society_id = $11 AND status = $12 AND updated_at = $13 RETURNING updated_at")).
		WithArgs(wr.Title, wr.Description, wr.Category, wr.Location, wr.City, wr.State, wr.Pincode, wr.BudgetMin, wr.BudgetMax,
			"r-1", "s-1", model.RequestStatusOpen, read).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}).AddRow(written))

	repo := NewRequestRepository(mock)
	require.NoError(t, repo.Update(context.Background(), wr))

	assert.Equal(t, written, wr.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepository_Update_StaleRowConflict(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	read := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	wr := editableRequest(read)

	mock.ExpectQuery(regexp.QuoteMeta("AND status = $12 AND updated_at = $13")).
		WithArgs(wr.Title, wr.Description, wr.Category, wr.Location, wr.City, wr.State, wr.Pincode, wr.BudgetMin, wr.BudgetMax,
			"r-1", "s-1", model.RequestStatusOpen, read).
		WillReturnRows(pgxmock.NewRows([]string{"updated_at"}))

	repo := NewRequestRepository(mock)
	err = repo.Update(context.Background(), wr)

	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, read, wr.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
