package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/splitledger/internal/apperrors"
	"github.com/SscSPs/splitledger/internal/core/domain"
	portsrepo "github.com/SscSPs/splitledger/internal/core/ports/repositories"
	"github.com/SscSPs/splitledger/internal/models"
	"github.com/SscSPs/splitledger/internal/utils/mapping"
	"github.com/SscSPs/splitledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxEventRepository struct {
	BaseRepository
}

// newPgxEventRepository creates a new repository for event data.
func newPgxEventRepository(pool *pgxpool.Pool) portsrepo.EventRepositoryWithTx {
	return &PgxEventRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxEventRepository implements portsrepo.EventRepositoryWithTx
var _ portsrepo.EventRepositoryWithTx = (*PgxEventRepository)(nil)

var FULL_EVENT_SELECT_QUERY = `
SELECT
	e.event_id, e.code, e.name, e.event_date, e.location, e.description,
	e.chat_group_id, e.status,
	e.created_at, e.created_by, e.last_updated_at, e.last_updated_by
FROM events e
`

// getEvents private func to get events from the select query filters
func (r *PgxEventRepository) getEvents(ctx context.Context, q querier, filterQuery string, args ...any) ([]domain.Event, error) {
	rows, err := q.Query(ctx, FULL_EVENT_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query events", err)
	}
	defer rows.Close()
	modelEvents, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Event])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect event rows", err)
	}
	return mapping.ToDomainEventSlice(modelEvents), nil
}

func (r *PgxEventRepository) getOneEvent(ctx context.Context, q querier, filterQuery string, args ...any) (*domain.Event, error) {
	events, err := r.getEvents(ctx, q, filterQuery, args...)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &events[0], nil
}

func (r *PgxEventRepository) SaveEvent(ctx context.Context, event domain.Event) error {
	m := mapping.ToModelEvent(event)
	query := `
		INSERT INTO events (
			event_id, code, name, event_date, location, description, chat_group_id, status,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.EventID, m.Code, m.Name, m.EventDate, m.Location, m.Description, m.ChatGroupID, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if pgErr, ok := isUniqueViolation(err); ok {
			if pgErr.ConstraintName == "uq_events_code" {
				return fmt.Errorf("%w: join code %s is taken", apperrors.ErrDuplicate, m.Code)
			}
			return fmt.Errorf("%w: event %s already exists", apperrors.ErrDuplicate, m.EventID)
		}
		return apperrors.NewAppError(500, "failed to save event "+m.EventID, err)
	}
	return nil
}

func (r *PgxEventRepository) FindEventByID(ctx context.Context, eventID string) (*domain.Event, error) {
	return r.getOneEvent(ctx, r.Pool, `WHERE e.event_id = $1`, eventID)
}

func (r *PgxEventRepository) FindEventByCode(ctx context.Context, code string) (*domain.Event, error) {
	return r.getOneEvent(ctx, r.Pool, `WHERE e.code = $1`, code)
}

func (r *PgxEventRepository) FindOpenEventByChatGroup(ctx context.Context, chatGroupID string) (*domain.Event, error) {
	return r.getOneEvent(ctx, r.Pool, `WHERE e.chat_group_id = $1 AND e.status <> 'CLOSED'`, chatGroupID)
}

// ListEvents pages through events ordered by (event_date, created_at, event_id) descending.
func (r *PgxEventRepository) ListEvents(ctx context.Context, limit int, nextToken *string) ([]domain.Event, *string, error) {
	var (
		events []domain.Event
		err    error
	)
	if nextToken != nil && *nextToken != "" {
		cursor, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, decodeErr)
		}
		events, err = r.getEvents(ctx, r.Pool,
			`WHERE (e.event_date, e.created_at, e.event_id) < ($1, $2, $3)
			ORDER BY e.event_date DESC, e.created_at DESC, e.event_id DESC LIMIT $4`,
			cursor.SortDate, cursor.CreatedAt, cursor.ID, limit+1)
	} else {
		events, err = r.getEvents(ctx, r.Pool,
			`ORDER BY e.event_date DESC, e.created_at DESC, e.event_id DESC LIMIT $1`, limit+1)
	}
	if err != nil {
		return nil, nil, err
	}

	if len(events) <= limit {
		return events, nil, nil
	}
	events = events[:limit]
	last := events[len(events)-1]
	token := pagination.EncodeToken(pagination.Cursor{SortDate: last.EventDate, CreatedAt: last.CreatedAt, ID: last.EventID})
	return events, &token, nil
}

func (r *PgxEventRepository) UpdateEventDetails(ctx context.Context, event domain.Event) error {
	m := mapping.ToModelEvent(event)
	query := `
		UPDATE events
		SET name = $2, event_date = $3, location = $4, description = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE event_id = $1 AND status = 'CREATED' AND chat_group_id IS NULL;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.EventID, m.Name, m.EventDate, m.Location, m.Description, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update event "+m.EventID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.explainMiss(ctx, m.EventID, "event can no longer be edited")
	}
	return nil
}

func (r *PgxEventRepository) DeleteEvent(ctx context.Context, eventID string) error {
	tag, err := r.Pool.Exec(ctx,
		`DELETE FROM events WHERE event_id = $1 AND status = 'CREATED' AND chat_group_id IS NULL`, eventID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete event "+eventID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.explainMiss(ctx, eventID, "event can no longer be deleted")
	}
	return nil
}

func (r *PgxEventRepository) LinkChatGroup(ctx context.Context, eventID string, chatGroupID string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE events
		SET chat_group_id = $2,
			status = CASE WHEN status = 'CREATED' THEN 'ACTIVE' ELSE status END,
			last_updated_at = $3, last_updated_by = $4
		WHERE event_id = $1 AND status <> 'CLOSED'
			AND (chat_group_id IS NULL OR chat_group_id = $2);
	`
	tag, err := r.Pool.Exec(ctx, query, eventID, chatGroupID, updatedAt, updatedBy)
	if err != nil {
		if _, ok := isUniqueViolation(err); ok {
			return fmt.Errorf("%w: chat group already tracks an open event", apperrors.ErrStateConflict)
		}
		return apperrors.NewAppError(500, "failed to link event "+eventID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.explainMiss(ctx, eventID, "event is closed or linked to another group")
	}
	return nil
}

func (r *PgxEventRepository) FindEventByIDForUpdate(ctx context.Context, tx pgx.Tx, eventID string) (*domain.Event, error) {
	return r.getOneEvent(ctx, tx, `WHERE e.event_id = $1 FOR UPDATE`, eventID)
}

func (r *PgxEventRepository) UpdateEventStatusInTx(ctx context.Context, tx pgx.Tx, eventID string, status domain.EventStatus, updatedBy string, updatedAt time.Time) error {
	tag, err := tx.Exec(ctx,
		`UPDATE events SET status = $2, last_updated_at = $3, last_updated_by = $4 WHERE event_id = $1 AND status <> 'CLOSED'`,
		eventID, string(status), updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of event "+eventID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: event %s is already closed", apperrors.ErrStateConflict, eventID)
	}
	return nil
}

// explainMiss turns a conditional write that matched no row into NotFound or StateConflict.
func (r *PgxEventRepository) explainMiss(ctx context.Context, eventID, conflict string) error {
	if _, err := r.FindEventByID(ctx, eventID); err != nil {
		return err
	}
	return fmt.Errorf("%w: %s", apperrors.ErrStateConflict, conflict)
}
