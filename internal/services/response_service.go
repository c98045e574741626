package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/miat-mn/action-log/internal/apperr"
	"github.com/miat-mn/action-log/internal/events"
	"github.com/miat-mn/action-log/internal/metrics"
	"github.com/miat-mn/action-log/internal/models"
	"gorm.io/gorm"
)

// Transition names, used in metrics and published events.
const (
	TransitionStartAnalysis      = "startAnalysis"
	TransitionUpdateResponseBody = "updateResponseBody"
	TransitionApproveRequest     = "approveRequest"
	TransitionDenyRequest        = "denyRequest"
	TransitionFinishAnalysis     = "finishAnalysis"
	TransitionStartChecking      = "startChecking"
	TransitionConfirmResponse    = "confirmResponse"
	TransitionDenyResponse       = "denyResponse"
)

// ResponseService drives the hazard response workflow. Each transition is
// one UPDATE whose WHERE clause carries the precondition, so of two racing
// callers at most one succeeds.
type ResponseService struct {
	db        *gorm.DB
	publisher events.Publisher
	now       func() time.Time
}

func NewResponseService(db *gorm.DB, publisher events.Publisher) *ResponseService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &ResponseService{
		db:        db,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type transition struct {
	name     string
	guard    string
	args     []interface{}
	conflict string
	updates  map[string]interface{}
}

func (s *ResponseService) Get(ctx context.Context, hazardID uint) (*models.Response, error) {
	var resp models.Response
	err := s.db.WithContext(ctx).First(&resp, "hazard_id = ?", hazardID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("response for hazard %d not found", hazardID)
	}
	if err != nil {
		return nil, apperr.Internal(err, "failed to load response")
	}
	return &resp, nil
}

// StartAnalysis marks the response as started. It clears a previous
// confirmation.
func (s *ResponseService) StartAnalysis(ctx context.Context, actorID, hazardID uint) (*models.Response, error) {
	return s.apply(ctx, actorID, hazardID, transition{
		name:     TransitionStartAnalysis,
		guard:    "is_started = ?",
		args:     []interface{}{false},
		conflict: "analysis has already started",
		updates: map[string]interface{}{
			"is_started":            true,
			"is_response_confirmed": false,
		},
	})
}

// UpdateResponseBody replaces the free-text body in any state.
func (s *ResponseService) UpdateResponseBody(ctx context.Context, actorID, hazardID uint, body string) (*models.Response, error) {
	return s.apply(ctx, actorID, hazardID, transition{
		name: TransitionUpdateResponseBody,
		updates: map[string]interface{}{
			"response_body": body,
		},
	})
}

// ApproveRequest records a positive decision. body, when non-nil, replaces
// the response body.
func (s *ResponseService) ApproveRequest(ctx context.Context, actorID, hazardID uint, body *string) (*models.Response, error) {
	return s.decideRequest(ctx, actorID, hazardID, true, body)
}

func (s *ResponseService) DenyRequest(ctx context.Context, actorID, hazardID uint, body *string) (*models.Response, error) {
	return s.decideRequest(ctx, actorID, hazardID, false, body)
}

func (s *ResponseService) decideRequest(ctx context.Context, actorID, hazardID uint, approved bool, body *string) (*models.Response, error) {
	t := transition{
		name:     TransitionDenyRequest,
		guard:    "is_started = ? AND is_request_approved IS NULL",
		args:     []interface{}{true},
		conflict: "analysis must be started and the request not yet decided",
		updates: map[string]interface{}{
			"is_request_approved": false,
			"current_status":      string(models.StatusRejected),
		},
	}
	if approved {
		t.name = TransitionApproveRequest
		t.updates["is_request_approved"] = true
		t.updates["current_status"] = string(models.StatusResolved)
	}
	if body != nil {
		t.updates["response_body"] = *body
	}
	return s.apply(ctx, actorID, hazardID, t)
}

func (s *ResponseService) FinishAnalysis(ctx context.Context, actorID, hazardID uint) (*models.Response, error) {
	return s.apply(ctx, actorID, hazardID, transition{
		name:     TransitionFinishAnalysis,
		guard:    "is_request_approved IS NOT NULL AND is_response_finished = ?",
		args:     []interface{}{false},
		conflict: "the request must be approved or denied before finishing",
		updates: map[string]interface{}{
			"is_response_finished":   true,
			"response_finished_date": s.now(),
		},
	})
}

func (s *ResponseService) StartChecking(ctx context.Context, actorID, hazardID uint) (*models.Response, error) {
	return s.apply(ctx, actorID, hazardID, transition{
		name:     TransitionStartChecking,
		guard:    "is_response_finished = ? AND is_checking_response = ?",
		args:     []interface{}{true, false},
		conflict: "the response must be finished before checking",
		updates: map[string]interface{}{
			"is_checking_response": true,
		},
	})
}

// ConfirmResponse accepts the finished response. The final status follows
// the request decision.
func (s *ResponseService) ConfirmResponse(ctx context.Context, actorID, hazardID uint) (*models.Response, error) {
	return s.apply(ctx, actorID, hazardID, transition{
		name:     TransitionConfirmResponse,
		guard:    checkingGuard,
		args:     []interface{}{true, true, false},
		conflict: "checking must be started before confirming",
		updates: map[string]interface{}{
			"is_response_confirmed": true,
			"current_status": gorm.Expr("CASE WHEN is_request_approved = ? THEN ? ELSE ? END",
				false, string(models.StatusRejected), string(models.StatusResolved)),
		},
	})
}

// DenyResponse sends the response back for rework. Clearing the checking
// flag lets it be finished and checked again.
func (s *ResponseService) DenyResponse(ctx context.Context, actorID, hazardID uint, reason string) (*models.Response, error) {
	return s.apply(ctx, actorID, hazardID, transition{
		name:     TransitionDenyResponse,
		guard:    checkingGuard,
		args:     []interface{}{true, true, false},
		conflict: "checking must be started before denying",
		updates: map[string]interface{}{
			"is_response_finished": false,
			"is_checking_response": false,
			"is_response_denied":   true,
			"current_status":       string(models.StatusReturned),
			"reason_to_deny":       reason,
		},
	})
}

const checkingGuard = "is_checking_response = ? AND is_response_finished = ? AND is_response_confirmed = ?"

func (s *ResponseService) apply(ctx context.Context, actorID, hazardID uint, t transition) (*models.Response, error) {
	t.updates["date_updated"] = s.now()

	q := s.db.WithContext(ctx).Model(&models.Response{}).Where("hazard_id = ?", hazardID)
	if t.guard != "" {
		q = q.Where(t.guard, t.args...)
	}
	result := q.Updates(t.updates)
	if result.Error != nil {
		metrics.RecordTransition(t.name, metrics.OutcomeError)
		return nil, apperr.Internal(result.Error, "failed to "+t.name)
	}

	if result.RowsAffected == 0 {
		// Either the row is missing or the precondition did not hold.
		resp, err := s.Get(ctx, hazardID)
		if err != nil {
			metrics.RecordTransition(t.name, outcomeOf(err))
			return nil, err
		}
		// Unguarded updates that changed nothing still succeeded.
		if t.guard != "" {
			metrics.RecordTransition(t.name, metrics.OutcomeConflict)
			return nil, apperr.Conflict("%s", t.conflict)
		}
		metrics.RecordTransition(t.name, metrics.OutcomeOK)
		s.publish(ctx, actorID, t.name, resp)
		return resp, nil
	}

	resp, err := s.Get(ctx, hazardID)
	if err != nil {
		metrics.RecordTransition(t.name, outcomeOf(err))
		return nil, err
	}
	metrics.RecordTransition(t.name, metrics.OutcomeOK)
	s.publish(ctx, actorID, t.name, resp)
	return resp, nil
}

func (s *ResponseService) publish(ctx context.Context, actorID uint, name string, resp *models.Response) {
	event := events.ResponseEvent{
		HazardID:      resp.HazardID,
		Transition:    name,
		CurrentStatus: resp.CurrentStatus,
		ActorUserID:   actorID,
		OccurredAt:    resp.DateUpdated,
	}
	if err := s.publisher.PublishResponseEvent(ctx, event); err != nil {
		metrics.EventsPublishFailures.Inc()
		slog.Error("failed to publish response event",
			"hazard_id", resp.HazardID,
			"action", name,
			"user_id", actorID,
			"error", err,
		)
	}
}

func outcomeOf(err error) string {
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		return metrics.OutcomeNotFound
	case apperr.KindConflict:
		return metrics.OutcomeConflict
	default:
		return metrics.OutcomeError
	}
}
