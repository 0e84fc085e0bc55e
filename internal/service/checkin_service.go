package service

import (
	"context"
	"errors"
	"time"

	"go-gin-ticket-gate/internal/metrics"
	"go-gin-ticket-gate/internal/model"
	"go-gin-ticket-gate/internal/qrpayload"
	"go-gin-ticket-gate/internal/queue"
	"go-gin-ticket-gate/internal/repository"
	apperrors "go-gin-ticket-gate/pkg/app_errors"
	"go-gin-ticket-gate/pkg/logger"

	"go.uber.org/zap"
)

const publishTimeout = 3 * time.Second

type CheckInService interface {
	// CheckIn 入場判定：未 -> 済。已使用時回傳 Rejected 結果與 ErrAlreadyUsed
	CheckIn(ctx context.Context, ref model.TicketRef) (*model.CheckInResult, error)
	// Scan 解析 QR code 內容後入場
	Scan(ctx context.Context, payload string) (*model.CheckInResult, error)
	// Lookup 只查詢，不改變狀態
	Lookup(ctx context.Context, ref model.TicketRef) (*model.Ticket, error)
}

type CheckInServiceImpl struct {
	repo         repository.TicketRepository
	checkInQueue queue.CheckInQueue
	now          func() time.Time
}

func NewCheckInService(repo repository.TicketRepository, checkInQueue queue.CheckInQueue) CheckInService {
	return &CheckInServiceImpl{repo: repo, checkInQueue: checkInQueue, now: time.Now}
}

func (s *CheckInServiceImpl) CheckIn(ctx context.Context, ref model.TicketRef) (*model.CheckInResult, error) {
	ticket, err := s.repo.FindByRef(ctx, ref)
	if err != nil {
		metrics.CheckIns.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, err
	}

	// 済 是終止狀態，不寫入
	if !ticket.EffectiveStatus().CanTransitionTo(model.TicketStatusUsed) {
		return s.reject(ticket)
	}

	updated, err := s.repo.MarkUsed(ctx, ref, s.now().UTC())
	if err != nil {
		if !errors.Is(err, apperrors.ErrAlreadyUsed) {
			metrics.CheckIns.WithLabelValues(metrics.OutcomeError).Inc()
			return nil, err
		}
		// 條件式更新沒有命中：另一台裝置先掃了，重新讀取給現場顯示
		current, rerr := s.repo.FindByRef(ctx, ref)
		if rerr != nil {
			metrics.CheckIns.WithLabelValues(metrics.OutcomeError).Inc()
			return nil, rerr
		}
		return s.reject(current)
	}

	metrics.CheckIns.WithLabelValues(metrics.OutcomeAccepted).Inc()
	s.publish(ctx, updated)

	return &model.CheckInResult{Outcome: model.CheckInAccepted, Ticket: updated}, nil
}

func (s *CheckInServiceImpl) reject(ticket *model.Ticket) (*model.CheckInResult, error) {
	metrics.CheckIns.WithLabelValues(metrics.OutcomeRejected).Inc()
	return &model.CheckInResult{
		Outcome: model.CheckInRejected,
		Reason:  model.RejectAlreadyUsed,
		Ticket:  ticket,
	}, apperrors.ErrAlreadyUsed
}

// publish 入場已寫入 DB，queue 失敗只記錄不回傳錯誤
func (s *CheckInServiceImpl) publish(ctx context.Context, ticket *model.Ticket) {
	// 掃描端斷線不影響推送
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.checkInQueue.PublishCheckIn(pubCtx, model.NewCheckInEvent(ticket)); err != nil {
		metrics.QueuePublishFailures.Inc()
		logger.WithComponent("service").Error("publish check-in failed",
			zap.String("ticket_id", ticket.TicketID), zap.Error(err))
	}
}

func (s *CheckInServiceImpl) Scan(ctx context.Context, payload string) (*model.CheckInResult, error) {
	ref, err := qrpayload.Parse(payload)
	if err != nil {
		return nil, err
	}
	return s.CheckIn(ctx, ref)
}

func (s *CheckInServiceImpl) Lookup(ctx context.Context, ref model.TicketRef) (*model.Ticket, error) {
	return s.repo.FindByRef(ctx, ref)
}
