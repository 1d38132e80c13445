package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/mail"
	"time"

	"tradescope/internal/model"
	"tradescope/internal/repository"
	ws "tradescope/internal/websocket"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateBuyerRequest struct {
	CompanyName    string `json:"company_name" binding:"required"`
	Country        string `json:"country"`
	Stage          string `json:"stage"`
	ContactPerson  string `json:"contact_person"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	HSCodes        string `json:"hs_codes"`
	Notes          string `json:"notes"`
	RowFingerprint string `json:"row_fingerprint"` // set when created from a search hit
}

type UpdateBuyerRequest struct {
	CompanyName   *string `json:"company_name"`
	Country       *string `json:"country"`
	ContactPerson *string `json:"contact_person"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	HSCodes       *string `json:"hs_codes"`
	Notes         *string `json:"notes"`
}

type MoveStageRequest struct {
	Stage string `json:"stage" binding:"required"`
}

type LogContactRequest struct {
	Channel    string    `json:"channel" binding:"required"`
	Summary    string    `json:"summary" binding:"required"`
	OccurredAt time.Time `json:"occurred_at"`
}

type BuyerContactResponse struct {
	ID         string    `json:"id"`
	Channel    string    `json:"channel"`
	Summary    string    `json:"summary"`
	OccurredAt time.Time `json:"occurred_at"`
}

type BuyerResponse struct {
	ID             string                 `json:"id"`
	CompanyName    string                 `json:"company_name"`
	Country        string                 `json:"country"`
	Stage          string                 `json:"stage"`
	ContactPerson  string                 `json:"contact_person"`
	Phone          string                 `json:"phone"`
	Email          string                 `json:"email"`
	HSCodes        string                 `json:"hs_codes"`
	Notes          string                 `json:"notes"`
	RowFingerprint string                 `json:"row_fingerprint,omitempty"`
	Contacts       []BuyerContactResponse `json:"contacts"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

type FunnelResponse struct {
	Stages map[string]int64 `json:"stages"`
	Total  int64            `json:"total"`
}

// --- Interface ---

type BuyerService interface {
	CreateBuyer(ctx context.Context, userID uuid.UUID, req CreateBuyerRequest) (BuyerResponse, error)
	UpdateBuyer(ctx context.Context, userID uuid.UUID, id string, req UpdateBuyerRequest) (BuyerResponse, error)
	DeleteBuyer(ctx context.Context, userID uuid.UUID, id string) error
	GetBuyer(ctx context.Context, id string) (BuyerResponse, error)
	GetBuyers(ctx context.Context, stage, searchTerm string, page, limit int) ([]BuyerResponse, int64, error)
	GetFunnel(ctx context.Context) (FunnelResponse, error)
	MoveStage(ctx context.Context, userID uuid.UUID, id string, req MoveStageRequest) (BuyerResponse, error)
	LogContact(ctx context.Context, userID uuid.UUID, id string, req LogContactRequest) (BuyerResponse, error)
}

// --- Implementation ---

type buyerService struct {
	buyerRepo repository.BuyerRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	hub       *ws.Hub
}

func NewBuyerService(buyerRepo repository.BuyerRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager, hub *ws.Hub) BuyerService {
	return &buyerService{buyerRepo: buyerRepo, auditRepo: auditRepo, txManager: txManager, hub: hub}
}

// --- Validation helpers ---

var validStages = map[string]bool{
	model.StageLead:        true,
	model.StageContacted:   true,
	model.StageQuoted:      true,
	model.StageNegotiating: true,
	model.StageWon:         true,
	model.StageLost:        true,
}

var validChannels = map[string]bool{
	model.ChannelEmail:   true,
	model.ChannelPhone:   true,
	model.ChannelMeeting: true,
}

// stageTransitions encodes the funnel: forward one column at a time, LOST
// reachable from any open stage, and LOST buyers may re-enter as LEAD.
var stageTransitions = map[string][]string{
	model.StageLead:        {model.StageContacted, model.StageLost},
	model.StageContacted:   {model.StageQuoted, model.StageLost},
	model.StageQuoted:      {model.StageNegotiating, model.StageLost},
	model.StageNegotiating: {model.StageWon, model.StageLost},
	model.StageWon:         {},
	model.StageLost:        {model.StageLead},
}

func canTransition(from, to string) bool {
	for _, next := range stageTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func toBuyerResponse(b model.Buyer) BuyerResponse {
	contacts := make([]BuyerContactResponse, 0, len(b.Contacts))
	for _, c := range b.Contacts {
		contacts = append(contacts, BuyerContactResponse{
			ID:         c.ID.String(),
			Channel:    c.Channel,
			Summary:    c.Summary,
			OccurredAt: c.OccurredAt,
		})
	}
	return BuyerResponse{
		ID:             b.ID.String(),
		CompanyName:    b.CompanyName,
		Country:        b.Country,
		Stage:          b.Stage,
		ContactPerson:  b.ContactPerson,
		Phone:          b.Phone,
		Email:          b.Email,
		HSCodes:        b.HSCodes,
		Notes:          b.Notes,
		RowFingerprint: b.RowFingerprint,
		Contacts:       contacts,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// broadcastFunnelEvent pushes a funnel change to connected kanban views.
func (s *buyerService) broadcastFunnelEvent(event string, buyer *model.Buyer) {
	if s.hub == nil {
		return
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"event":        event,
		"buyer_id":     buyer.ID.String(),
		"company_name": buyer.CompanyName,
		"stage":        buyer.Stage,
	})
	s.hub.Broadcast <- payload
}

// --- CRUD ---

func (s *buyerService) CreateBuyer(ctx context.Context, userID uuid.UUID, req CreateBuyerRequest) (BuyerResponse, error) {
	if req.CompanyName == "" {
		return BuyerResponse{}, fmt.Errorf("company_name is required")
	}
	stage := req.Stage
	if stage == "" {
		stage = model.StageLead
	}
	if !validStages[stage] {
		return BuyerResponse{}, fmt.Errorf("stage must be one of: LEAD, CONTACTED, QUOTED, NEGOTIATING, WON, LOST")
	}
	if req.Email != "" {
		if _, err := mail.ParseAddress(req.Email); err != nil {
			return BuyerResponse{}, fmt.Errorf("invalid email format")
		}
	}

	buyer := &model.Buyer{
		CompanyName:    req.CompanyName,
		Country:        req.Country,
		Stage:          stage,
		ContactPerson:  req.ContactPerson,
		Phone:          req.Phone,
		Email:          req.Email,
		HSCodes:        req.HSCodes,
		Notes:          req.Notes,
		RowFingerprint: req.RowFingerprint,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.buyerRepo.Create(txCtx, buyer); err != nil {
			return fmt.Errorf("failed to create buyer: %w", err)
		}
		details, _ := json.Marshal(req)
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     &userID,
			Action:     model.ActionCreateBuyer,
			EntityID:   buyer.ID.String(),
			EntityName: buyer.CompanyName,
			Details:    string(details),
		})
	})
	if err != nil {
		return BuyerResponse{}, err
	}

	s.broadcastFunnelEvent("buyer_created", buyer)
	return toBuyerResponse(*buyer), nil
}

func (s *buyerService) UpdateBuyer(ctx context.Context, userID uuid.UUID, id string, req UpdateBuyerRequest) (BuyerResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return BuyerResponse{}, fmt.Errorf("invalid buyer ID")
	}

	buyer, err := s.buyerRepo.FindByID(ctx, uid)
	if err != nil {
		return BuyerResponse{}, fmt.Errorf("buyer not found: %w", err)
	}

	if req.CompanyName != nil {
		if *req.CompanyName == "" {
			return BuyerResponse{}, fmt.Errorf("company_name cannot be empty")
		}
		buyer.CompanyName = *req.CompanyName
	}
	if req.Email != nil && *req.Email != "" {
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			return BuyerResponse{}, fmt.Errorf("invalid email format")
		}
		buyer.Email = *req.Email
	} else if req.Email != nil {
		buyer.Email = ""
	}
	if req.Country != nil {
		buyer.Country = *req.Country
	}
	if req.ContactPerson != nil {
		buyer.ContactPerson = *req.ContactPerson
	}
	if req.Phone != nil {
		buyer.Phone = *req.Phone
	}
	if req.HSCodes != nil {
		buyer.HSCodes = *req.HSCodes
	}
	if req.Notes != nil {
		buyer.Notes = *req.Notes
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.buyerRepo.Update(txCtx, buyer); err != nil {
			return fmt.Errorf("failed to update buyer: %w", err)
		}
		details, _ := json.Marshal(req)
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     &userID,
			Action:     model.ActionUpdateBuyer,
			EntityID:   buyer.ID.String(),
			EntityName: buyer.CompanyName,
			Details:    string(details),
		})
	})
	if err != nil {
		return BuyerResponse{}, err
	}

	return toBuyerResponse(*buyer), nil
}

func (s *buyerService) DeleteBuyer(ctx context.Context, userID uuid.UUID, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid buyer ID")
	}

	buyer, err := s.buyerRepo.FindByID(ctx, uid)
	if err != nil {
		return fmt.Errorf("buyer not found: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.buyerRepo.Delete(txCtx, uid); err != nil {
			return fmt.Errorf("failed to delete buyer: %w", err)
		}
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     &userID,
			Action:     model.ActionDeleteBuyer,
			EntityID:   uid.String(),
			EntityName: buyer.CompanyName,
		})
	})
}

func (s *buyerService) GetBuyer(ctx context.Context, id string) (BuyerResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return BuyerResponse{}, fmt.Errorf("invalid buyer ID")
	}
	buyer, err := s.buyerRepo.FindByID(ctx, uid)
	if err != nil {
		return BuyerResponse{}, fmt.Errorf("buyer not found: %w", err)
	}
	return toBuyerResponse(*buyer), nil
}

func (s *buyerService) GetBuyers(ctx context.Context, stage, searchTerm string, page, limit int) ([]BuyerResponse, int64, error) {
	if stage != "" && !validStages[stage] {
		return nil, 0, fmt.Errorf("unknown stage: %s", stage)
	}

	buyers, total, err := s.buyerRepo.List(ctx, stage, searchTerm, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]BuyerResponse, 0, len(buyers))
	for _, b := range buyers {
		res = append(res, toBuyerResponse(b))
	}
	return res, total, nil
}

func (s *buyerService) GetFunnel(ctx context.Context) (FunnelResponse, error) {
	counts, err := s.buyerRepo.CountByStage(ctx)
	if err != nil {
		return FunnelResponse{}, err
	}

	stages := make(map[string]int64, len(validStages))
	var total int64
	for stage := range validStages {
		stages[stage] = counts[stage]
		total += counts[stage]
	}
	return FunnelResponse{Stages: stages, Total: total}, nil
}

func (s *buyerService) MoveStage(ctx context.Context, userID uuid.UUID, id string, req MoveStageRequest) (BuyerResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return BuyerResponse{}, fmt.Errorf("invalid buyer ID")
	}
	if !validStages[req.Stage] {
		return BuyerResponse{}, fmt.Errorf("stage must be one of: LEAD, CONTACTED, QUOTED, NEGOTIATING, WON, LOST")
	}

	buyer, err := s.buyerRepo.FindByID(ctx, uid)
	if err != nil {
		return BuyerResponse{}, fmt.Errorf("buyer not found: %w", err)
	}

	from := buyer.Stage
	if from == req.Stage {
		return toBuyerResponse(*buyer), nil
	}
	if !canTransition(from, req.Stage) {
		return BuyerResponse{}, fmt.Errorf("cannot move buyer from %s to %s", from, req.Stage)
	}
	buyer.Stage = req.Stage

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.buyerRepo.Update(txCtx, buyer); err != nil {
			return fmt.Errorf("failed to move buyer stage: %w", err)
		}
		details, _ := json.Marshal(map[string]string{"from": from, "to": req.Stage})
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     &userID,
			Action:     model.ActionMoveBuyerStage,
			EntityID:   buyer.ID.String(),
			EntityName: buyer.CompanyName,
			Details:    string(details),
		})
	})
	if err != nil {
		return BuyerResponse{}, err
	}

	s.broadcastFunnelEvent("stage_moved", buyer)
	return toBuyerResponse(*buyer), nil
}

func (s *buyerService) LogContact(ctx context.Context, userID uuid.UUID, id string, req LogContactRequest) (BuyerResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return BuyerResponse{}, fmt.Errorf("invalid buyer ID")
	}
	if !validChannels[req.Channel] {
		return BuyerResponse{}, fmt.Errorf("channel must be one of: EMAIL, PHONE, MEETING")
	}
	if req.Summary == "" {
		return BuyerResponse{}, fmt.Errorf("summary is required")
	}

	buyer, err := s.buyerRepo.FindByID(ctx, uid)
	if err != nil {
		return BuyerResponse{}, fmt.Errorf("buyer not found: %w", err)
	}

	occurred := req.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}

	contact := &model.BuyerContact{
		BuyerID:    uid,
		Channel:    req.Channel,
		Summary:    req.Summary,
		OccurredAt: occurred,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.buyerRepo.CreateContact(txCtx, contact); err != nil {
			return fmt.Errorf("failed to log contact: %w", err)
		}
		details, _ := json.Marshal(req)
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     &userID,
			Action:     model.ActionLogBuyerContact,
			EntityID:   buyer.ID.String(),
			EntityName: buyer.CompanyName,
			Details:    string(details),
		})
	})
	if err != nil {
		return BuyerResponse{}, err
	}

	refreshed, err := s.buyerRepo.FindByID(ctx, uid)
	if err != nil {
		return BuyerResponse{}, err
	}
	return toBuyerResponse(*refreshed), nil
}
