package service

import (
	"context"
	"sync"
	"time"

	"go-gin-ticket-gate/internal/model"
	apperrors "go-gin-ticket-gate/pkg/app_errors"

	"github.com/google/uuid"
)

// memoryStore 以記憶體實作兩個 repository，保留條件式寫入的語意
type memoryStore struct {
	mu      sync.Mutex
	events  []*model.Event
	tickets []*model.Ticket
	writes  int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{}
}

func (s *memoryStore) Create(_ context.Context, event *model.Event) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event.ID = len(s.events) + 1
	event.CreatedAt = time.Now().UTC()
	event.UpdatedAt = event.CreatedAt
	cp := *event
	s.events = append(s.events, &cp)
	return event, nil
}

func (s *memoryStore) List(_ context.Context, createdBy string) ([]*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Event, 0)
	for _, e := range s.events {
		if createdBy == "" || e.CreatedBy == createdBy {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memoryStore) FindByEventID(_ context.Context, eventID uuid.UUID) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.EventID == eventID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, apperrors.ErrEventNotFound
}

func (s *memoryStore) Update(_ context.Context, id int, params model.UpdateEventParams) (*model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.ID != id {
			continue
		}
		if params.Location != nil {
			e.Location = *params.Location
		}
		if params.Price != nil {
			e.Price = *params.Price
		}
		if params.OneDrink != nil {
			e.OneDrink = *params.OneDrink
		}
		cp := *e
		return &cp, nil
	}
	return nil, apperrors.ErrEventNotFound
}

// ticketStore 與 memoryStore 共用資料，實作 TicketRepository
type ticketStore struct {
	*memoryStore
}

func (s ticketStore) CreateIfNameAvailable(_ context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tickets {
		if t.EventID == ticket.EventID && t.Name == ticket.Name && t.DeletedAt == nil {
			return nil, apperrors.ErrDuplicateName
		}
	}
	ticket.ID = len(s.tickets) + 1
	cp := *ticket
	s.tickets = append(s.tickets, &cp)
	s.writes++
	return ticket, nil
}

func (s ticketStore) ListByEventID(_ context.Context, eventID int) ([]*model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Ticket, 0)
	for _, t := range s.tickets {
		if t.EventID == eventID && t.DeletedAt == nil {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s ticketStore) FindByTicketID(_ context.Context, eventID int, ticketID string) (*model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t := s.find(func(t *model.Ticket) bool { return t.EventID == eventID && t.TicketID == ticketID }); t != nil {
		cp := *t
		return &cp, nil
	}
	return nil, apperrors.ErrTicketNotFound
}

func (s ticketStore) byRef(ref model.TicketRef) *model.Ticket {
	return s.find(func(t *model.Ticket) bool {
		if ref.Legacy {
			return t.Legacy && t.TicketID == ref.TicketID
		}
		return !t.Legacy && t.PartitionKey == ref.PartitionKey && t.EventUUID == ref.EventID && t.TicketID == ref.TicketID
	})
}

func (s ticketStore) find(match func(*model.Ticket) bool) *model.Ticket {
	for _, t := range s.tickets {
		if t.DeletedAt == nil && match(t) {
			return t
		}
	}
	return nil
}

func (s ticketStore) FindByRef(_ context.Context, ref model.TicketRef) (*model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t := s.byRef(ref); t != nil {
		cp := *t
		return &cp, nil
	}
	return nil, apperrors.ErrTicketNotFound
}

func (s ticketStore) MarkUsed(_ context.Context, ref model.TicketRef, at time.Time) (*model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.byRef(ref)
	if t == nil || t.EffectiveStatus() == model.TicketStatusUsed {
		return nil, apperrors.ErrAlreadyUsed
	}
	t.Status = model.TicketStatusUsed
	t.State = ""
	t.ProcessedAt = &at
	s.writes++
	cp := *t
	return &cp, nil
}

func (s ticketStore) SetStatus(_ context.Context, eventID int, ticketID string, status model.TicketStatus) (*model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.find(func(t *model.Ticket) bool { return t.EventID == eventID && t.TicketID == ticketID })
	if t == nil {
		return nil, apperrors.ErrTicketNotFound
	}
	t.Status = status
	t.State = ""
	s.writes++
	cp := *t
	return &cp, nil
}

func (s ticketStore) Delete(_ context.Context, eventID int, ticketID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.find(func(t *model.Ticket) bool { return t.EventID == eventID && t.TicketID == ticketID })
	if t == nil {
		return apperrors.ErrTicketNotFound
	}
	now := time.Now().UTC()
	t.DeletedAt = &now
	s.writes++
	return nil
}

func (s ticketStore) Attendance(_ context.Context, eventID int) (int, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	issued := 0
	checkedIn := make([]string, 0)
	for _, t := range s.tickets {
		if t.EventID != eventID || t.DeletedAt != nil {
			continue
		}
		issued++
		if t.EffectiveStatus() == model.TicketStatusUsed {
			checkedIn = append(checkedIn, t.TicketID)
		}
	}
	return issued, checkedIn, nil
}

func (s ticketStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
