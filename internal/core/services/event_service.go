package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/SscSPs/splitledger/internal/apperrors"
	"github.com/SscSPs/splitledger/internal/core/domain"
	portsrepo "github.com/SscSPs/splitledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/splitledger/internal/core/ports/services"
	"github.com/SscSPs/splitledger/internal/dto"
	"github.com/SscSPs/splitledger/internal/utils"
	"github.com/SscSPs/splitledger/internal/utils/accounting"
)

const (
	maxJoinCodeAttempts = 5
	defaultListLimit    = 20
)

// eventService implements the EventSvcFacade interface
type eventService struct {
	BaseService
	eventRepo    portsrepo.EventRepositoryWithTx
	expenseRepo  portsrepo.ExpenseLocker
	paymentRepo  portsrepo.PaymentLocker
	listeners    []portssvc.LedgerListener
	generateCode func() (string, error)
	closeGroup   singleflight.Group
}

// EventServiceOption is a functional option for configuring the event service
type EventServiceOption func(*eventService)

// WithEventListeners registers listeners notified after an event is closed
func WithEventListeners(listeners ...portssvc.LedgerListener) EventServiceOption {
	return func(s *eventService) {
		s.listeners = append(s.listeners, listeners...)
	}
}

// WithJoinCodeGenerator replaces the random join code generator
func WithJoinCodeGenerator(gen func() (string, error)) EventServiceOption {
	return func(s *eventService) {
		s.generateCode = gen
	}
}

// NewEventService creates a new event service with the provided dependencies
func NewEventService(
	eventRepo portsrepo.EventRepositoryWithTx,
	expenseRepo portsrepo.ExpenseLocker,
	paymentRepo portsrepo.PaymentLocker,
	options ...EventServiceOption,
) portssvc.EventSvcFacade {
	s := &eventService{
		eventRepo:    eventRepo,
		expenseRepo:  expenseRepo,
		paymentRepo:  paymentRepo,
		generateCode: utils.GenerateJoinCode,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Ensure eventService implements the EventSvcFacade interface
var _ portssvc.EventSvcFacade = (*eventService)(nil)

// GetEventByID retrieves an event by its ID
func (s *eventService) GetEventByID(ctx context.Context, eventID string) (*domain.Event, error) {
	event, err := s.eventRepo.FindEventByID(ctx, eventID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find event by ID", slog.String("event_id", eventID))
		}
		return nil, err
	}
	return event, nil
}

// GetEventByCode retrieves an event by its join code
func (s *eventService) GetEventByCode(ctx context.Context, code string) (*domain.Event, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("%w: join code is required", apperrors.ErrValidation)
	}
	event, err := s.eventRepo.FindEventByCode(ctx, code)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find event by code", slog.String("code", code))
		}
		return nil, err
	}
	return event, nil
}

// GetEventByChatGroup retrieves the open event linked to a chat group
func (s *eventService) GetEventByChatGroup(ctx context.Context, chatGroupID string) (*domain.Event, error) {
	event, err := s.eventRepo.FindOpenEventByChatGroup(ctx, chatGroupID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find event by chat group", slog.String("chat_group_id", chatGroupID))
		}
		return nil, err
	}
	return event, nil
}

// ListEvents retrieves a page of events
func (s *eventService) ListEvents(ctx context.Context, params dto.ListEventsParams) (*dto.ListEventsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	events, nextToken, err := s.eventRepo.ListEvents(ctx, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list events", slog.Int("limit", limit))
		return nil, err
	}
	return &dto.ListEventsResponse{
		Events:    dto.ToEventResponses(events),
		NextToken: nextToken,
	}, nil
}

// CreateEvent creates a new event with a unique join code
func (s *eventService) CreateEvent(ctx context.Context, req dto.CreateEventRequest, creator string) (*domain.Event, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: event name is required", apperrors.ErrValidation)
	}

	now := time.Now()
	event := domain.Event{
		EventID:     uuid.NewString(),
		Name:        name,
		EventDate:   req.EventDate,
		Location:    req.Location,
		Description: req.Description,
		Status:      domain.EventCreated,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creator,
			LastUpdatedAt: now,
			LastUpdatedBy: creator,
		},
	}

	// Join codes are short, so a collision is possible; retry with a fresh one.
	for attempt := 1; ; attempt++ {
		code, err := s.generateCode()
		if err != nil {
			s.LogError(ctx, err, "Failed to generate join code")
			return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to generate join code", err)
		}
		event.Code = code

		err = s.eventRepo.SaveEvent(ctx, event)
		if err == nil {
			break
		}
		if errors.Is(err, apperrors.ErrDuplicate) && attempt < maxJoinCodeAttempts {
			s.LogDebug(ctx, "Join code collision, retrying", slog.Int("attempt", attempt))
			continue
		}
		s.LogError(ctx, err, "Failed to save event", slog.String("event_id", event.EventID))
		return nil, err
	}

	s.LogInfo(ctx, "Event created",
		slog.String("event_id", event.EventID),
		slog.String("code", event.Code),
		slog.String("creator", creator))
	return &event, nil
}

// UpdateEvent changes the details of an event that is not linked yet
func (s *eventService) UpdateEvent(ctx context.Context, eventID string, req dto.UpdateEventRequest, actor string) (*domain.Event, error) {
	event, err := s.editableEvent(ctx, eventID, actor)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: event name cannot be empty", apperrors.ErrValidation)
		}
		event.Name = name
	}
	if req.EventDate != nil {
		event.EventDate = *req.EventDate
	}
	if req.Location != nil {
		event.Location = req.Location
	}
	if req.Description != nil {
		event.Description = req.Description
	}
	event.LastUpdatedAt = time.Now()
	event.LastUpdatedBy = actor

	if err := s.eventRepo.UpdateEventDetails(ctx, *event); err != nil {
		if !errors.Is(err, apperrors.ErrStateConflict) {
			s.LogError(ctx, err, "Failed to update event", slog.String("event_id", eventID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Event updated", slog.String("event_id", eventID))
	return event, nil
}

// DeleteEvent removes an event that is not linked yet
func (s *eventService) DeleteEvent(ctx context.Context, eventID string, actor string) error {
	if _, err := s.editableEvent(ctx, eventID, actor); err != nil {
		return err
	}
	if err := s.eventRepo.DeleteEvent(ctx, eventID); err != nil {
		if !errors.Is(err, apperrors.ErrStateConflict) {
			s.LogError(ctx, err, "Failed to delete event", slog.String("event_id", eventID))
		}
		return err
	}
	s.LogInfo(ctx, "Event deleted", slog.String("event_id", eventID))
	return nil
}

// editableEvent loads an event the actor created and that can still be edited.
func (s *eventService) editableEvent(ctx context.Context, eventID, actor string) (*domain.Event, error) {
	event, err := s.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.CreatedBy != actor {
		return nil, fmt.Errorf("%w: only the creator of event %s can change it", apperrors.ErrForbidden, eventID)
	}
	if !event.CanEditDetails() {
		return nil, fmt.Errorf("%w: event %s is %s and linked to a group; it can no longer be edited", apperrors.ErrStateConflict, eventID, event.Status)
	}
	return event, nil
}

// LinkChatGroup attaches a chat group to the event and activates it
func (s *eventService) LinkChatGroup(ctx context.Context, eventID string, chatGroupID string, actor string) (*domain.Event, error) {
	chatGroupID = strings.TrimSpace(chatGroupID)
	if chatGroupID == "" {
		return nil, fmt.Errorf("%w: chat group is required", apperrors.ErrValidation)
	}

	event, err := s.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.IsClosed() {
		return nil, fmt.Errorf("%w: event %s is closed", apperrors.ErrStateConflict, eventID)
	}
	if event.IsLinked() {
		if *event.ChatGroupID == chatGroupID {
			return event, nil
		}
		return nil, fmt.Errorf("%w: event %s is already linked to another group", apperrors.ErrStateConflict, eventID)
	}

	tracked, err := s.eventRepo.FindOpenEventByChatGroup(ctx, chatGroupID)
	switch {
	case err == nil && tracked.EventID != eventID:
		return nil, fmt.Errorf("%w: this group already tracks event %s (%s)", apperrors.ErrStateConflict, tracked.Code, tracked.Name)
	case err != nil && !errors.Is(err, apperrors.ErrNotFound):
		s.LogError(ctx, err, "Failed to look up event of chat group", slog.String("chat_group_id", chatGroupID))
		return nil, err
	}

	now := time.Now()
	if err := s.eventRepo.LinkChatGroup(ctx, eventID, chatGroupID, actor, now); err != nil {
		if !errors.Is(err, apperrors.ErrStateConflict) {
			s.LogError(ctx, err, "Failed to link chat group",
				slog.String("event_id", eventID),
				slog.String("chat_group_id", chatGroupID))
		}
		return nil, err
	}

	event.ChatGroupID = &chatGroupID
	event.Status = domain.EventActive
	event.LastUpdatedAt = now
	event.LastUpdatedBy = actor

	s.LogInfo(ctx, "Event linked to chat group",
		slog.String("event_id", eventID),
		slog.String("chat_group_id", chatGroupID))
	return event, nil
}

// CloseEvent runs the close gate and closes the event when it passes.
// Concurrent closes of the same event share one evaluation, and listeners are
// notified from inside that evaluation so a close is published once.
func (s *eventService) CloseEvent(ctx context.Context, eventID string, actor string) (*domain.Event, error) {
	result, err, shared := s.closeGroup.Do(eventID, func() (any, error) {
		closed, err := s.closeEvent(ctx, eventID, actor)
		if err != nil {
			return nil, err
		}
		for _, l := range s.listeners {
			l.EventClosed(ctx, *closed)
		}
		return closed, nil
	})
	if err != nil {
		var blocked *domain.ClosureBlockedError
		if errors.As(err, &blocked) {
			s.LogWarn(ctx, "Event close blocked",
				slog.String("event_id", eventID),
				slog.String("reason", blocked.Error()),
				slog.Bool("shared", shared))
		}
		return nil, err
	}

	event := *(result.(*domain.Event))
	return &event, nil
}

// closeEvent holds the event row lock from the pending checks to the status write,
// so no expense or payment can be created for the event in between.
func (s *eventService) closeEvent(ctx context.Context, eventID string, actor string) (*domain.Event, error) {
	tx, err := s.eventRepo.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin close transaction", slog.String("event_id", eventID))
		return nil, err
	}
	defer func() { _ = s.eventRepo.Rollback(ctx, tx) }()

	event, err := s.eventRepo.FindEventByIDForUpdate(ctx, tx, eventID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to lock event", slog.String("event_id", eventID))
		}
		return nil, err
	}
	if event.IsClosed() {
		return nil, fmt.Errorf("%w: event %s is already closed", apperrors.ErrStateConflict, eventID)
	}

	expenses, err := s.expenseRepo.ListExpensesByEventInTx(ctx, tx, eventID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load expenses for close", slog.String("event_id", eventID))
		return nil, err
	}
	payments, err := s.paymentRepo.ListPaymentsByEventInTx(ctx, tx, eventID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load payments for close", slog.String("event_id", eventID))
		return nil, err
	}

	if blocked := accounting.EvaluateCloseGate(eventID, expenses, payments); blocked != nil {
		return nil, blocked
	}

	now := time.Now()
	if err := s.eventRepo.UpdateEventStatusInTx(ctx, tx, eventID, domain.EventClosed, actor, now); err != nil {
		s.LogError(ctx, err, "Failed to write closed status", slog.String("event_id", eventID))
		return nil, err
	}
	if err := s.eventRepo.Commit(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to commit close", slog.String("event_id", eventID))
		return nil, err
	}

	event.Status = domain.EventClosed
	event.LastUpdatedAt = now
	event.LastUpdatedBy = actor

	s.LogInfo(ctx, "Event closed",
		slog.String("event_id", eventID),
		slog.Int("expenses", len(expenses)),
		slog.Int("payments", len(payments)))
	return event, nil
}
