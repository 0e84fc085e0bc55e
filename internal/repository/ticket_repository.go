package repository

import (
	"context"
	"time"

	"go-gin-ticket-gate/internal/model"
	apperrors "go-gin-ticket-gate/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TicketRepository interface {
	// CreateIfNameAvailable 同一活動內名字（區分大小寫）已存在時回傳 ErrDuplicateName
	CreateIfNameAvailable(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error)
	ListByEventID(ctx context.Context, eventID int) ([]*model.Ticket, error)
	FindByTicketID(ctx context.Context, eventID int, ticketID string) (*model.Ticket, error)
	// FindByRef 依 QR code 參照查詢，舊格式查 legacy_tickets
	FindByRef(ctx context.Context, ref model.TicketRef) (*model.Ticket, error)
	// MarkUsed 條件式更新：只有在有效狀態仍不是 済 時才寫入，否則回傳 ErrAlreadyUsed
	MarkUsed(ctx context.Context, ref model.TicketRef, at time.Time) (*model.Ticket, error)
	// SetStatus 人工覆寫狀態（可以改回 未）
	SetStatus(ctx context.Context, eventID int, ticketID string, status model.TicketStatus) (*model.Ticket, error)
	Delete(ctx context.Context, eventID int, ticketID string) error
	// Attendance 回傳已發行張數與已入場的 ticket id
	Attendance(ctx context.Context, eventID int) (int, []string, error)
}

type TicketRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &TicketRepositoryImpl{
		pool: pool,
	}
}

// effectiveStatusSQL 對應 model.Ticket.EffectiveStatus
const effectiveStatusSQL = `COALESCE(NULLIF(t.status, ''), NULLIF(t.state, ''), '` + string(model.TicketStatusUnused) + `')`

const ticketColumns = `t.id, t.ticket_id, t.event_id, e.event_id, t.partition_key, t.name, t.band_name,
		t.created_by, COALESCE(t.status, ''), COALESCE(t.state, ''), t.processed_at,
		t.created_at, t.updated_at, t.deleted_at`

func scanTicket(row pgx.Row) (*model.Ticket, error) {
	var ticket model.Ticket
	err := row.Scan(
		&ticket.ID,
		&ticket.TicketID,
		&ticket.EventID,
		&ticket.EventUUID,
		&ticket.PartitionKey,
		&ticket.Name,
		&ticket.BandName,
		&ticket.CreatedBy,
		&ticket.Status,
		&ticket.State,
		&ticket.ProcessedAt,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

const legacyTicketColumns = `t.ticket_id, t.name, t.band_name, t.created_by,
		COALESCE(t.status, ''), COALESCE(t.state, ''), t.processed_at, t.created_at, t.updated_at`

func scanLegacyTicket(row pgx.Row) (*model.Ticket, error) {
	ticket := model.Ticket{Legacy: true}
	err := row.Scan(
		&ticket.TicketID,
		&ticket.Name,
		&ticket.BandName,
		&ticket.CreatedBy,
		&ticket.Status,
		&ticket.State,
		&ticket.ProcessedAt,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *TicketRepositoryImpl) CreateIfNameAvailable(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	query := `
		INSERT INTO tickets (ticket_id, event_id, partition_key, name, band_name, created_by, status)
		SELECT $1::text, $2::int, $3::text, $4::text, $5::text, $6::text, $7::text
		WHERE NOT EXISTS (
			SELECT 1 FROM tickets
			WHERE event_id = $2::int AND name = $4::text AND deleted_at IS NULL
		)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		ticket.TicketID, ticket.EventID, ticket.PartitionKey, ticket.Name,
		ticket.BandName, ticket.CreatedBy, string(ticket.Status),
	).Scan(
		&ticket.ID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	if err != nil {
		switch {
		case err == pgx.ErrNoRows:
			return nil, apperrors.ErrDuplicateName
		case isPgError(err, pgUniqueViolation):
			// 兩個請求同時通過 NOT EXISTS，由 unique index 擋下
			return nil, apperrors.ErrDuplicateName
		case isPgError(err, pgForeignKeyViolation):
			return nil, apperrors.ErrEventNotFound
		}
		return nil, storeError(err)
	}

	ticket.State = ""
	return ticket, nil
}

func (r *TicketRepositoryImpl) ListByEventID(ctx context.Context, eventID int) ([]*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets t
		JOIN events e ON e.id = t.event_id
		WHERE t.event_id = $1 AND t.deleted_at IS NULL
		ORDER BY t.created_at ASC, t.id ASC
	`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, storeError(err)
	}
	defer rows.Close()

	tickets := make([]*model.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, storeError(err)
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(err)
	}
	return tickets, nil
}

func (r *TicketRepositoryImpl) FindByTicketID(ctx context.Context, eventID int, ticketID string) (*model.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets t
		JOIN events e ON e.id = t.event_id
		WHERE t.event_id = $1 AND t.ticket_id = $2 AND t.deleted_at IS NULL
	`

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, eventID, ticketID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, storeError(err)
	}
	return ticket, nil
}

func (r *TicketRepositoryImpl) FindByRef(ctx context.Context, ref model.TicketRef) (*model.Ticket, error) {
	if ref.Legacy {
		query := `
			SELECT ` + legacyTicketColumns + `
			FROM legacy_tickets t
			WHERE t.ticket_id = $1
		`
		ticket, err := scanLegacyTicket(r.pool.QueryRow(ctx, query, ref.TicketID))
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.ErrTicketNotFound
			}
			return nil, storeError(err)
		}
		return ticket, nil
	}

	query := `
		SELECT ` + ticketColumns + `
		FROM tickets t
		JOIN events e ON e.id = t.event_id
		WHERE e.partition_key = $1 AND e.event_id = $2 AND t.ticket_id = $3
		  AND t.deleted_at IS NULL
	`
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, ref.PartitionKey, ref.EventID, ref.TicketID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, storeError(err)
	}
	return ticket, nil
}

func (r *TicketRepositoryImpl) MarkUsed(ctx context.Context, ref model.TicketRef, at time.Time) (*model.Ticket, error) {
	used := string(model.TicketStatusUsed)

	if ref.Legacy {
		query := `
			UPDATE legacy_tickets t
			SET status = $1, state = NULL, processed_at = $2, updated_at = $2
			WHERE t.ticket_id = $3 AND ` + effectiveStatusSQL + ` <> $1
			RETURNING ` + legacyTicketColumns

		ticket, err := scanLegacyTicket(r.pool.QueryRow(ctx, query, used, at, ref.TicketID))
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.ErrAlreadyUsed
			}
			return nil, storeError(err)
		}
		return ticket, nil
	}

	query := `
		UPDATE tickets t
		SET status = $1, state = NULL, processed_at = $2, updated_at = $2
		FROM events e
		WHERE e.id = t.event_id
		  AND e.partition_key = $3 AND e.event_id = $4 AND t.ticket_id = $5
		  AND t.deleted_at IS NULL
		  AND ` + effectiveStatusSQL + ` <> $1
		RETURNING ` + ticketColumns

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, used, at, ref.PartitionKey, ref.EventID, ref.TicketID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrAlreadyUsed
		}
		return nil, storeError(err)
	}
	return ticket, nil
}

func (r *TicketRepositoryImpl) SetStatus(ctx context.Context, eventID int, ticketID string, status model.TicketStatus) (*model.Ticket, error) {
	if !status.IsValid() {
		return nil, apperrors.ErrInvalidStatus
	}

	query := `
		UPDATE tickets t
		SET status = $1::text,
			state = NULL,
			processed_at = CASE WHEN $1::text = $2::text THEN $3::timestamptz ELSE NULL END,
			updated_at = $3::timestamptz
		FROM events e
		WHERE e.id = t.event_id AND t.event_id = $4 AND t.ticket_id = $5 AND t.deleted_at IS NULL
		RETURNING ` + ticketColumns

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query,
		string(status), string(model.TicketStatusUsed), time.Now().UTC(), eventID, ticketID,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, storeError(err)
	}
	return ticket, nil
}

func (r *TicketRepositoryImpl) Delete(ctx context.Context, eventID int, ticketID string) error {
	query := `
		UPDATE tickets
		SET deleted_at = $1, updated_at = $1
		WHERE event_id = $2 AND ticket_id = $3 AND deleted_at IS NULL
	`

	result, err := r.pool.Exec(ctx, query, time.Now().UTC(), eventID, ticketID)
	if err != nil {
		return storeError(err)
	}

	// check if ticket exists and not already deleted
	if result.RowsAffected() == 0 {
		return apperrors.ErrTicketNotFound
	}

	return nil
}

func (r *TicketRepositoryImpl) Attendance(ctx context.Context, eventID int) (int, []string, error) {
	query := `
		SELECT t.ticket_id, ` + effectiveStatusSQL + `
		FROM tickets t
		WHERE t.event_id = $1 AND t.deleted_at IS NULL
	`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return 0, nil, storeError(err)
	}
	defer rows.Close()

	issued := 0
	checkedIn := make([]string, 0)
	for rows.Next() {
		var ticketID string
		var status model.TicketStatus
		if err := rows.Scan(&ticketID, &status); err != nil {
			return 0, nil, storeError(err)
		}
		issued++
		if status == model.TicketStatusUsed {
			checkedIn = append(checkedIn, ticketID)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, nil, storeError(err)
	}
	return issued, checkedIn, nil
}
