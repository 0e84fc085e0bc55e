package service

import (
	"context"
	"errors"
	"time"

	"go-gin-ticket-gate/internal/cache"
	"go-gin-ticket-gate/internal/model"
	"go-gin-ticket-gate/internal/partition"
	"go-gin-ticket-gate/internal/repository"
	apperrors "go-gin-ticket-gate/pkg/app_errors"
	"go-gin-ticket-gate/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventService interface {
	// List createdBy 為空時回傳全部活動
	List(ctx context.Context, createdBy string) ([]*model.Event, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	// Create 由標題產生 partition key，建立後不再變更
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	UpdateByEventID(ctx context.Context, eventID uuid.UUID, params model.UpdateEventParams) (*model.Event, error)
	// Stats 入場統計，cache miss 時從 DB 重算並預熱
	Stats(ctx context.Context, eventID uuid.UUID) (*model.EventStats, error)
}

type EventServiceImpl struct {
	repo       repository.EventRepository
	ticketRepo repository.TicketRepository
	attendance cache.AttendanceCache
	now        func() time.Time
}

func NewEventService(repo repository.EventRepository, ticketRepo repository.TicketRepository, attendance cache.AttendanceCache) EventService {
	return &EventServiceImpl{repo: repo, ticketRepo: ticketRepo, attendance: attendance, now: time.Now}
}

func (s *EventServiceImpl) List(ctx context.Context, createdBy string) ([]*model.Event, error) {
	return s.repo.List(ctx, createdBy)
}

func (s *EventServiceImpl) GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	return s.repo.FindByEventID(ctx, eventID)
}

func (s *EventServiceImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	event.PartitionKey = partition.KeyFromTitle(event.Title, s.now())
	if event.Status == "" {
		event.Status = model.DefaultEventStatus
	}
	if event.Dates == nil {
		event.Dates = []string{}
	}
	return s.repo.Create(ctx, event)
}

func (s *EventServiceImpl) UpdateByEventID(ctx context.Context, eventID uuid.UUID, params model.UpdateEventParams) (*model.Event, error) {
	if params.IsEmpty() {
		return nil, apperrors.ErrInvalidInput
	}
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, event.ID, params)
}

func (s *EventServiceImpl) Stats(ctx context.Context, eventID uuid.UUID) (*model.EventStats, error) {
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	key := event.EventID.String()

	stats, err := s.attendance.GetStats(ctx, key)
	if err == nil {
		return &model.EventStats{Issued: stats.Issued, CheckedIn: stats.CheckedIn}, nil
	}
	if !errors.Is(err, apperrors.ErrCacheMiss) {
		// Redis 掛掉時直接讀 DB
		logger.WithComponent("service").Warn("attendance cache unavailable",
			zap.String("event_id", key), zap.Error(err))
	}

	// 先取得 token 再讀 DB，讀取期間有新的發行或入場時放棄預熱
	token, err := s.attendance.BeginWarmUp(ctx, key)
	if err != nil {
		logger.WithComponent("service").Warn("attendance warm-up skipped",
			zap.String("event_id", key), zap.Error(err))
	}

	issued, checkedIn, err := s.ticketRepo.Attendance(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	if token != "" {
		applied, err := s.attendance.WarmUp(ctx, key, token, issued, checkedIn)
		if err != nil {
			logger.WithComponent("service").Warn("attendance warm-up failed",
				zap.String("event_id", key), zap.Error(err))
		} else if !applied {
			logger.WithComponent("service").Debug("attendance warm-up superseded",
				zap.String("event_id", key))
		}
	}

	return &model.EventStats{Issued: issued, CheckedIn: len(checkedIn)}, nil
}
