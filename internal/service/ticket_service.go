package service

import (
	"context"
	"errors"
	"strings"

	"go-gin-ticket-gate/internal/cache"
	"go-gin-ticket-gate/internal/metrics"
	"go-gin-ticket-gate/internal/model"
	"go-gin-ticket-gate/internal/qrpayload"
	"go-gin-ticket-gate/internal/repository"
	apperrors "go-gin-ticket-gate/pkg/app_errors"
	"go-gin-ticket-gate/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TicketService interface {
	// Issue 同一活動內名字重複時回傳 ErrDuplicateName
	Issue(ctx context.Context, eventID uuid.UUID, ticket *model.Ticket) (*model.Ticket, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Ticket, error)
	GetByTicketID(ctx context.Context, eventID uuid.UUID, ticketID string) (*model.Ticket, error)
	DeleteByTicketID(ctx context.Context, eventID uuid.UUID, ticketID string) error
	// OverrideStatus 現場人員手動改狀態，可以把 済 改回 未
	OverrideStatus(ctx context.Context, eventID uuid.UUID, ticketID string, status model.TicketStatus) (*model.Ticket, error)
	// QRCode 回傳票券 QR code 的內容網址
	QRCode(ctx context.Context, eventID uuid.UUID, ticketID string) (string, error)
}

type TicketServiceImpl struct {
	eventRepo     repository.EventRepository
	repo          repository.TicketRepository
	attendance    cache.AttendanceCache
	publicBaseURL string
}

func NewTicketService(
	eventRepo repository.EventRepository,
	repo repository.TicketRepository,
	attendance cache.AttendanceCache,
	publicBaseURL string,
) TicketService {
	return &TicketServiceImpl{
		eventRepo:     eventRepo,
		repo:          repo,
		attendance:    attendance,
		publicBaseURL: publicBaseURL,
	}
}

func (s *TicketServiceImpl) Issue(ctx context.Context, eventID uuid.UUID, ticket *model.Ticket) (*model.Ticket, error) {
	if strings.TrimSpace(ticket.Name) == "" {
		return nil, apperrors.ErrInvalidInput
	}

	event, err := s.eventRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	ticket.TicketID = uuid.New().String()
	ticket.EventID = event.ID
	ticket.EventUUID = event.EventID
	ticket.PartitionKey = event.PartitionKey
	ticket.Status = model.TicketStatusUnused
	ticket.State = ""
	ticket.ProcessedAt = nil
	ticket.Legacy = false

	created, err := s.repo.CreateIfNameAvailable(ctx, ticket)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateName) {
			metrics.TicketsIssued.WithLabelValues(metrics.ResultDuplicate).Inc()
		} else {
			metrics.TicketsIssued.WithLabelValues(metrics.ResultError).Inc()
		}
		return nil, err
	}
	metrics.TicketsIssued.WithLabelValues(metrics.ResultCreated).Inc()

	// 統計只是輔助，失敗時等下次 cache miss 重算
	if err := s.attendance.IncrIssued(ctx, created.AttendanceKey()); err != nil {
		logger.WithComponent("service").Warn("incr issued failed",
			zap.String("event_id", created.AttendanceKey()), zap.Error(err))
	}

	return created, nil
}

func (s *TicketServiceImpl) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Ticket, error) {
	event, err := s.eventRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByEventID(ctx, event.ID)
}

func (s *TicketServiceImpl) GetByTicketID(ctx context.Context, eventID uuid.UUID, ticketID string) (*model.Ticket, error) {
	event, err := s.eventRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByTicketID(ctx, event.ID, ticketID)
}

func (s *TicketServiceImpl) DeleteByTicketID(ctx context.Context, eventID uuid.UUID, ticketID string) error {
	event, err := s.eventRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, event.ID, ticketID); err != nil {
		return err
	}
	s.invalidate(ctx, event.EventID.String())
	return nil
}

func (s *TicketServiceImpl) OverrideStatus(ctx context.Context, eventID uuid.UUID, ticketID string, status model.TicketStatus) (*model.Ticket, error) {
	if !status.IsValid() {
		return nil, apperrors.ErrInvalidStatus
	}
	event, err := s.eventRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	ticket, err := s.repo.SetStatus(ctx, event.ID, ticketID, status)
	if err != nil {
		return nil, err
	}

	logger.WithComponent("service").Info("ticket status overridden",
		zap.String("event_id", event.EventID.String()),
		zap.String("ticket_id", ticketID),
		zap.String("status", string(status)))

	s.invalidate(ctx, event.EventID.String())
	return ticket, nil
}

func (s *TicketServiceImpl) QRCode(ctx context.Context, eventID uuid.UUID, ticketID string) (string, error) {
	ticket, err := s.GetByTicketID(ctx, eventID, ticketID)
	if err != nil {
		return "", err
	}
	return qrpayload.BuildURL(s.publicBaseURL, ticket.Ref()), nil
}

// invalidate 刪除統計快取，下次查詢時從 DB 重算
func (s *TicketServiceImpl) invalidate(ctx context.Context, eventKey string) {
	if err := s.attendance.Invalidate(ctx, eventKey); err != nil {
		logger.WithComponent("service").Warn("invalidate attendance failed",
			zap.String("event_id", eventKey), zap.Error(err))
	}
}
