package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"contractor_connect/internal/model"
	"contractor_connect/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrRequestNotFound   = errors.New("request not found")
	ErrForbidden         = errors.New("you do not have permission to perform this action")
	ErrStateChanged      = errors.New("the record was modified by someone else, please reload")
	ErrInvalidBudget     = errors.New("budget_min cannot exceed budget_max")
	ErrInvalidFileFormat = errors.New("invalid file format, only .jpg, .jpeg, .png, .webp are allowed")
	ErrFileSizeExceeded  = errors.New("file size exceeds limit of 5MB")
	ErrNoFiles           = errors.New("no images provided")
)

const MaxFileSize = 5 * 1024 * 1024 // 5MB

var allowedImageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

// StateError reports an action attempted from a status that does not allow it
type StateError struct {
	Action string
	Entity string
	Status string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s %s with status %s", e.Action, e.Entity, e.Status)
}

// RequestService defines operations for work requests
type RequestService interface {
	Create(ctx context.Context, societyID string, in model.CreateRequestInput) (*model.WorkRequest, error)
	Get(ctx context.Context, id string) (*model.WorkRequest, error)
	Browse(ctx context.Context, filters model.RequestFilters) ([]model.WorkRequest, int, error)
	ListMine(ctx context.Context, societyID string, status *string, skip, limit int) ([]model.WorkRequest, int, error)
	ListAssigned(ctx context.Context, contractorID string, skip, limit int) ([]model.WorkRequest, int, error)
	Update(ctx context.Context, id, userID string, in model.UpdateRequestInput) (*model.WorkRequest, error)
	Cancel(ctx context.Context, id, userID, role string) (*model.WorkRequest, error)
	Delete(ctx context.Context, id, userID, role string) error
	UploadImages(ctx context.Context, id, userID string, files []*multipart.FileHeader) ([]string, error)
}

type requestService struct {
	repo       repository.RequestRepository
	uploadsDir string
}

// NewRequestService creates a new RequestService storing images under uploadsDir
func NewRequestService(repo repository.RequestRepository, uploadsDir string) RequestService {
	return &requestService{repo: repo, uploadsDir: uploadsDir}
}

func validBudget(min, max *float64) bool {
	return min == nil || max == nil || *min <= *max
}

func (s *requestService) Create(ctx context.Context, societyID string, in model.CreateRequestInput) (*model.WorkRequest, error) {
	if !validBudget(in.BudgetMin, in.BudgetMax) {
		return nil, ErrInvalidBudget
	}

	wr := &model.WorkRequest{
		SocietyID:   societyID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    in.Category,
		Status:      model.RequestStatusOpen,
		Location:    in.Location,
		City:        strings.TrimSpace(in.City),
		State:       strings.TrimSpace(in.State),
		Pincode:     in.Pincode,
		BudgetMin:   in.BudgetMin,
		BudgetMax:   in.BudgetMax,
		Images:      []string{},
	}
	if err := s.repo.Create(ctx, wr); err != nil {
		return nil, fmt.Errorf("failed to create request in repo: %w", err)
	}

	created, err := s.repo.FindByID(ctx, wr.ID)
	if err != nil || created == nil {
		// The insert succeeded; fall back to the unjoined row
		return wr, nil
	}
	return created, nil
}

func (s *requestService) Get(ctx context.Context, id string) (*model.WorkRequest, error) {
	wr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find request by ID: %w", err)
	}
	if wr == nil {
		return nil, ErrRequestNotFound
	}
	return wr, nil
}

// Browse lists requests across all societies; without a status filter only open ones are returned
func (s *requestService) Browse(ctx context.Context, filters model.RequestFilters) ([]model.WorkRequest, int, error) {
	if filters.Status == nil || *filters.Status == "" {
		open := model.RequestStatusOpen
		filters.Status = &open
	}
	filters.SocietyID = nil
	filters.AssignedContractorID = nil
	return s.list(ctx, filters)
}

func (s *requestService) ListMine(ctx context.Context, societyID string, status *string, skip, limit int) ([]model.WorkRequest, int, error) {
	return s.list(ctx, model.RequestFilters{SocietyID: &societyID, Status: status, Skip: skip, Limit: limit})
}

func (s *requestService) ListAssigned(ctx context.Context, contractorID string, skip, limit int) ([]model.WorkRequest, int, error) {
	return s.list(ctx, model.RequestFilters{AssignedContractorID: &contractorID, Skip: skip, Limit: limit})
}

func (s *requestService) list(ctx context.Context, filters model.RequestFilters) ([]model.WorkRequest, int, error) {
	requests, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list requests from repo: %w", err)
	}
	return requests, total, nil
}

// Update edits a request that has not started yet; only its society may do so
func (s *requestService) Update(ctx context.Context, id, userID string, in model.UpdateRequestInput) (*model.WorkRequest, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.SocietyID != userID {
		return nil, ErrForbidden
	}
	if existing.Status != model.RequestStatusOpen && existing.Status != model.RequestStatusOnHold {
		return nil, &StateError{Action: "update", Entity: "request", Status: existing.Status}
	}

	if in.Title != nil {
		existing.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		existing.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		existing.Category = *in.Category
	}
	if in.Location != nil {
		existing.Location = in.Location
	}
	if in.City != nil {
		existing.City = strings.TrimSpace(*in.City)
	}
	if in.State != nil {
		existing.State = strings.TrimSpace(*in.State)
	}
	if in.Pincode != nil {
		existing.Pincode = in.Pincode
	}
	if in.BudgetMin != nil {
		existing.BudgetMin = in.BudgetMin
	}
	if in.BudgetMax != nil {
		existing.BudgetMax = in.BudgetMax
	}
	if !validBudget(existing.BudgetMin, existing.BudgetMax) {
		return nil, ErrInvalidBudget
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrStateChanged
		}
		return nil, fmt.Errorf("failed to update request in repo: %w", err)
	}
	return existing, nil
}

// Cancel closes a request that is not yet finished
func (s *requestService) Cancel(ctx context.Context, id, userID, role string) (*model.WorkRequest, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if role != model.RoleAdmin && existing.SocietyID != userID {
		return nil, ErrForbidden
	}
	if existing.Status == model.RequestStatusCompleted || existing.Status == model.RequestStatusCancelled {
		return nil, &StateError{Action: "cancel", Entity: "request", Status: existing.Status}
	}

	if err := s.repo.UpdateStatus(ctx, id, existing.Status, model.RequestStatusCancelled); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrStateChanged
		}
		return nil, fmt.Errorf("failed to cancel request: %w", err)
	}
	existing.Status = model.RequestStatusCancelled
	return existing, nil
}

func (s *requestService) Delete(ctx context.Context, id, userID, role string) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if role != model.RoleAdmin && existing.SocietyID != userID {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrRequestNotFound
		}
		return fmt.Errorf("failed to delete request in repo: %w", err)
	}

	if err := os.RemoveAll(filepath.Join(s.uploadsDir, "requests", id)); err != nil {
		logrus.WithError(err).WithField("request_id", id).Warn("Failed to remove request images")
	}
	return nil
}

// UploadImages stores the files under uploads/requests/<id>/ and returns their public URLs
func (s *requestService) UploadImages(ctx context.Context, id, userID string, files []*multipart.FileHeader) ([]string, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.SocietyID != userID {
		return nil, ErrForbidden
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	// Validate everything before touching the disk
	for _, fh := range files {
		if fh.Size > MaxFileSize {
			return nil, ErrFileSizeExceeded
		}
		if !allowedImageExts[strings.ToLower(filepath.Ext(fh.Filename))] {
			return nil, ErrInvalidFileFormat
		}
	}

	requestDir := filepath.Join(s.uploadsDir, "requests", id)
	if err := os.MkdirAll(requestDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	var saved []string
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
		dst := filepath.Join(requestDir, name)
		if err := saveUpload(fh, dst); err != nil {
			removeAll(saved)
			return nil, err
		}
		saved = append(saved, dst)
		urls = append(urls, path.Join("/uploads", "requests", id, name))
	}

	if err := s.repo.AppendImages(ctx, id, urls); err != nil {
		removeAll(saved)
		return nil, fmt.Errorf("failed to record request images: %w", err)
	}
	return urls, nil
}

func saveUpload(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create file on server: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}

func removeAll(paths []string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}
