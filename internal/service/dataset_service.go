package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"tradescope/internal/loader"
	"tradescope/internal/model"
	"tradescope/internal/repository"
	"tradescope/internal/search"

	"github.com/google/uuid"
)

type DatasetStatusResponse struct {
	Path        string `json:"path"`
	RecordCount int    `json:"record_count"`
}

type DatasetService interface {
	// Reload re-reads the configured CSV export and atomically replaces the
	// in-memory collection. Searches in flight keep their snapshot.
	Reload(ctx context.Context, userID uuid.UUID) (DatasetStatusResponse, error)
	Status(ctx context.Context) DatasetStatusResponse
}

type datasetService struct {
	store     *search.Store
	auditRepo repository.AuditRepository
	path      string
}

func NewDatasetService(store *search.Store, auditRepo repository.AuditRepository, path string) DatasetService {
	return &datasetService{store: store, auditRepo: auditRepo, path: path}
}

func (s *datasetService) Reload(ctx context.Context, userID uuid.UUID) (DatasetStatusResponse, error) {
	records, err := loader.LoadFile(s.path)
	if err != nil {
		return DatasetStatusResponse{}, fmt.Errorf("dataset reload failed: %w", err)
	}

	s.store.ReplaceAll(records)

	details, _ := json.Marshal(map[string]interface{}{"path": s.path, "records": len(records)})
	if err := s.auditRepo.Log(ctx, &model.AuditLog{
		UserID:   &userID,
		Action:   model.ActionReloadDataset,
		EntityID: s.path,
		Details:  string(details),
	}); err != nil {
		log.Printf("audit log for dataset reload failed: %v", err)
	}

	return s.Status(ctx), nil
}

func (s *datasetService) Status(_ context.Context) DatasetStatusResponse {
	return DatasetStatusResponse{Path: s.path, RecordCount: s.store.Len()}
}
