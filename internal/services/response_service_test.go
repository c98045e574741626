package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/miat-mn/action-log/internal/apperr"
	"github.com/miat-mn/action-log/internal/events"
	"github.com/miat-mn/action-log/internal/models"
)

func strPtr(s string) *string { return &s }

func TestNewHazardStartsReceived(t *testing.T) {
	f := newFixture(t)
	h := f.hazard(f.hazardType("FIRE", false), nil)

	resp, err := f.responses.Get(f.ctx, h.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if resp.CurrentStatus != models.StatusReceived {
		t.Fatalf("CurrentStatus = %q, want %q", resp.CurrentStatus, models.StatusReceived)
	}
	if resp.IsStarted || resp.IsRequestApproved != nil || resp.IsResponseFinished ||
		resp.IsCheckingResponse || resp.IsResponseConfirmed || resp.IsResponseDenied {
		t.Fatalf("new response has non-default flags: %+v", resp)
	}
}

func TestTransitionPreconditions(t *testing.T) {
	f := newFixture(t)
	ht := f.hazardType("ELEC", false)

	tests := []struct {
		name string
		run  func(hazardID uint) error
	}{
		{"approve before start", func(id uint) error {
			_, err := f.responses.ApproveRequest(f.ctx, 1, id, nil)
			return err
		}},
		{"deny request before start", func(id uint) error {
			_, err := f.responses.DenyRequest(f.ctx, 1, id, nil)
			return err
		}},
		{"finish without decision", func(id uint) error {
			_, err := f.responses.FinishAnalysis(f.ctx, 1, id)
			return err
		}},
		{"check before finish", func(id uint) error {
			_, err := f.responses.StartChecking(f.ctx, 1, id)
			return err
		}},
		{"confirm before checking", func(id uint) error {
			_, err := f.responses.ConfirmResponse(f.ctx, 1, id)
			return err
		}},
		{"deny response before checking", func(id uint) error {
			_, err := f.responses.DenyResponse(f.ctx, 1, id, "incomplete")
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := f.hazard(ht, nil)
			wantKind(t, tt.run(h.ID), apperr.KindConflict)

			resp, err := f.responses.Get(f.ctx, h.ID)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if resp.CurrentStatus != models.StatusReceived {
				t.Fatalf("failed transition changed status to %q", resp.CurrentStatus)
			}
		})
	}
}

func TestFinishStillNeedsDecisionAfterStart(t *testing.T) {
	f := newFixture(t)
	h := f.hazard(f.hazardType("CHEM", false), nil)

	if _, err := f.responses.StartAnalysis(f.ctx, 1, h.ID); err != nil {
		t.Fatalf("StartAnalysis() error = %v", err)
	}
	_, err := f.responses.FinishAnalysis(f.ctx, 1, h.ID)
	wantKind(t, err, apperr.KindConflict)
}

func TestApprovePathConfirmKeepsResolved(t *testing.T) {
	f := newFixture(t)
	h := f.hazard(f.hazardType("FALL", false), nil)

	steps := []func() (*models.Response, error){
		func() (*models.Response, error) { return f.responses.StartAnalysis(f.ctx, 7, h.ID) },
		func() (*models.Response, error) { return f.responses.ApproveRequest(f.ctx, 7, h.ID, strPtr("Guard rail installed")) },
		func() (*models.Response, error) { return f.responses.FinishAnalysis(f.ctx, 7, h.ID) },
		func() (*models.Response, error) { return f.responses.StartChecking(f.ctx, 8, h.ID) },
		func() (*models.Response, error) { return f.responses.ConfirmResponse(f.ctx, 8, h.ID) },
	}
	var resp *models.Response
	for i, step := range steps {
		var err error
		if resp, err = step(); err != nil {
			t.Fatalf("step %d error = %v", i, err)
		}
	}

	if resp.CurrentStatus != models.StatusResolved {
		t.Fatalf("CurrentStatus = %q, want %q", resp.CurrentStatus, models.StatusResolved)
	}
	if resp.IsRequestApproved == nil || !*resp.IsRequestApproved {
		t.Fatalf("IsRequestApproved = %v, want true", resp.IsRequestApproved)
	}
	if !resp.IsResponseConfirmed || !resp.IsResponseFinished || resp.ResponseFinishedDate == nil {
		t.Fatalf("unexpected final flags: %+v", resp)
	}
	if resp.ResponseBody != "Guard rail installed" {
		t.Fatalf("ResponseBody = %q", resp.ResponseBody)
	}

	if len(f.recorder.Events) != len(steps) {
		t.Fatalf("published %d events, want %d", len(f.recorder.Events), len(steps))
	}
	last := f.recorder.Events[len(f.recorder.Events)-1]
	if last.Transition != TransitionConfirmResponse || last.ActorUserID != 8 || last.CurrentStatus != models.StatusResolved {
		t.Fatalf("last event = %+v", last)
	}
}

func TestDeniedRequestConfirmsAsRejected(t *testing.T) {
	f := newFixture(t)
	h := f.hazard(f.hazardType("NOISE", false), nil)

	if _, err := f.responses.StartAnalysis(f.ctx, 1, h.ID); err != nil {
		t.Fatalf("StartAnalysis() error = %v", err)
	}
	resp, err := f.responses.DenyRequest(f.ctx, 1, h.ID, strPtr("Not a hazard"))
	if err != nil {
		t.Fatalf("DenyRequest() error = %v", err)
	}
	if resp.CurrentStatus != models.StatusRejected || resp.IsRequestApproved == nil || *resp.IsRequestApproved {
		t.Fatalf("after deny: %+v", resp)
	}
	if _, err := f.responses.FinishAnalysis(f.ctx, 1, h.ID); err != nil {
		t.Fatalf("FinishAnalysis() error = %v", err)
	}
	if _, err := f.responses.StartChecking(f.ctx, 2, h.ID); err != nil {
		t.Fatalf("StartChecking() error = %v", err)
	}
	resp, err = f.responses.ConfirmResponse(f.ctx, 2, h.ID)
	if err != nil {
		t.Fatalf("ConfirmResponse() error = %v", err)
	}
	if resp.CurrentStatus != models.StatusRejected {
		t.Fatalf("CurrentStatus = %q, want %q", resp.CurrentStatus, models.StatusRejected)
	}
}

func TestDenyResponseReturnsForRework(t *testing.T) {
	f := newFixture(t)
	h := f.hazard(f.hazardType("DUST", false), nil)

	mustStep(t)(f.responses.StartAnalysis(f.ctx, 1, h.ID))
	mustStep(t)(f.responses.ApproveRequest(f.ctx, 1, h.ID, nil))
	mustStep(t)(f.responses.FinishAnalysis(f.ctx, 1, h.ID))
	mustStep(t)(f.responses.StartChecking(f.ctx, 2, h.ID))

	resp, err := f.responses.DenyResponse(f.ctx, 2, h.ID, "Photos missing")
	if err != nil {
		t.Fatalf("DenyResponse() error = %v", err)
	}
	if resp.IsResponseFinished || !resp.IsResponseDenied || resp.IsCheckingResponse {
		t.Fatalf("after deny response flags: %+v", resp)
	}
	if resp.CurrentStatus != models.StatusReturned || resp.ReasonToDeny != "Photos missing" {
		t.Fatalf("after deny response: status=%q reason=%q", resp.CurrentStatus, resp.ReasonToDeny)
	}

	// The returned response goes round the loop again.
	mustStep(t)(f.responses.FinishAnalysis(f.ctx, 1, h.ID))
	mustStep(t)(f.responses.StartChecking(f.ctx, 2, h.ID))
	resp = mustStep(t)(f.responses.ConfirmResponse(f.ctx, 2, h.ID))
	if resp.CurrentStatus != models.StatusResolved || !resp.IsResponseConfirmed {
		t.Fatalf("after second round: %+v", resp)
	}
}

func TestRepeatedTransitionsConflict(t *testing.T) {
	f := newFixture(t)
	h := f.hazard(f.hazardType("HEAT", false), nil)

	mustStep(t)(f.responses.StartAnalysis(f.ctx, 1, h.ID))
	_, err := f.responses.StartAnalysis(f.ctx, 1, h.ID)
	wantKind(t, err, apperr.KindConflict)

	mustStep(t)(f.responses.ApproveRequest(f.ctx, 1, h.ID, nil))
	_, err = f.responses.DenyRequest(f.ctx, 1, h.ID, nil)
	wantKind(t, err, apperr.KindConflict)

	mustStep(t)(f.responses.FinishAnalysis(f.ctx, 1, h.ID))
	_, err = f.responses.FinishAnalysis(f.ctx, 1, h.ID)
	wantKind(t, err, apperr.KindConflict)

	mustStep(t)(f.responses.StartChecking(f.ctx, 1, h.ID))
	_, err = f.responses.StartChecking(f.ctx, 1, h.ID)
	wantKind(t, err, apperr.KindConflict)

	mustStep(t)(f.responses.ConfirmResponse(f.ctx, 1, h.ID))
	_, err = f.responses.ConfirmResponse(f.ctx, 1, h.ID)
	wantKind(t, err, apperr.KindConflict)
	_, err = f.responses.DenyResponse(f.ctx, 1, h.ID, "late")
	wantKind(t, err, apperr.KindConflict)
}

func TestConcurrentTransitionsHaveOneWinner(t *testing.T) {
	f := newFixture(t)
	const callers = 20

	h := f.hazard(f.hazardType("RACE", false), nil)
	wantOneWinner(t, concurrently(callers, func(i int) error {
		_, err := f.responses.StartAnalysis(f.ctx, uint(i+1), h.ID)
		return err
	}))

	// Half approve and half deny; only one decision may land.
	wantOneWinner(t, concurrently(callers, func(i int) error {
		var err error
		if i%2 == 0 {
			_, err = f.responses.ApproveRequest(f.ctx, uint(i+1), h.ID, strPtr(fmt.Sprintf("decision %d", i)))
		} else {
			_, err = f.responses.DenyRequest(f.ctx, uint(i+1), h.ID, strPtr(fmt.Sprintf("decision %d", i)))
		}
		return err
	}))

	resp, err := f.responses.Get(f.ctx, h.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if resp.IsRequestApproved == nil {
		t.Fatalf("no decision recorded: %+v", resp)
	}
	wantStatus := models.StatusRejected
	if *resp.IsRequestApproved {
		wantStatus = models.StatusResolved
	}
	if resp.CurrentStatus != wantStatus {
		t.Fatalf("status %q does not match decision %v", resp.CurrentStatus, *resp.IsRequestApproved)
	}

	mustStep(t)(f.responses.FinishAnalysis(f.ctx, 1, h.ID))
	mustStep(t)(f.responses.StartChecking(f.ctx, 1, h.ID))
	wantOneWinner(t, concurrently(callers, func(i int) error {
		var err error
		if i%2 == 0 {
			_, err = f.responses.ConfirmResponse(f.ctx, uint(i+1), h.ID)
		} else {
			_, err = f.responses.DenyResponse(f.ctx, uint(i+1), h.ID, "incomplete")
		}
		return err
	}))

	// One event per successful transition.
	if got, want := len(f.recorder.Events), 5; got != want {
		t.Fatalf("events = %d, want %d", got, want)
	}
}

func TestUpdateResponseBodyInAnyState(t *testing.T) {
	f := newFixture(t)
	h := f.hazard(f.hazardType("GAS", false), nil)

	for i := 0; i < 2; i++ {
		resp, err := f.responses.UpdateResponseBody(f.ctx, 1, h.ID, "Ventilation check scheduled")
		if err != nil {
			t.Fatalf("UpdateResponseBody() #%d error = %v", i, err)
		}
		if resp.ResponseBody != "Ventilation check scheduled" || resp.CurrentStatus != models.StatusReceived {
			t.Fatalf("after update: %+v", resp)
		}
	}
}

func TestTransitionOnMissingHazard(t *testing.T) {
	f := newFixture(t)

	_, err := f.responses.StartAnalysis(f.ctx, 1, 9999)
	wantKind(t, err, apperr.KindNotFound)
	_, err = f.responses.UpdateResponseBody(f.ctx, 1, 9999, "x")
	wantKind(t, err, apperr.KindNotFound)
	_, err = f.responses.Get(f.ctx, 9999)
	wantKind(t, err, apperr.KindNotFound)
}

func TestPublishFailureDoesNotFailTransition(t *testing.T) {
	f := newFixture(t)
	h := f.hazard(f.hazardType("SLIP", false), nil)
	svc := NewResponseService(f.db, &events.Recorder{Err: errors.New("broker down")})

	resp, err := svc.StartAnalysis(f.ctx, 1, h.ID)
	if err != nil {
		t.Fatalf("StartAnalysis() error = %v", err)
	}
	if !resp.IsStarted {
		t.Fatalf("IsStarted = false")
	}
}

// mustStep fails the test when a transition errors. It is curried so a
// transition call can be passed straight through.
func mustStep(t *testing.T) func(*models.Response, error) *models.Response {
	t.Helper()
	return func(resp *models.Response, err error) *models.Response {
		t.Helper()
		if err != nil {
			t.Fatalf("transition error = %v", err)
		}
		return resp
	}
}
