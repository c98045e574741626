package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/miat-mn/action-log/internal/apperr"
	"github.com/miat-mn/action-log/internal/database/databasetest"
	"github.com/miat-mn/action-log/internal/dto"
	"github.com/miat-mn/action-log/internal/events"
	"github.com/miat-mn/action-log/internal/models"
	"github.com/miat-mn/action-log/internal/storage"
	"gorm.io/gorm"
)

type fixture struct {
	t         *testing.T
	ctx       context.Context
	db        *gorm.DB
	store     *storage.MemoryStore
	recorder  *events.Recorder
	admins    *AdminService
	owners    *TaskOwnerService
	checker   *PermissionChecker
	hazards   *HazardService
	responses *ResponseService
	images    *ImageService
	seq       int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := databasetest.Open(t)
	f := &fixture{
		t:        t,
		ctx:      context.Background(),
		db:       db,
		store:    storage.NewMemoryStore(),
		recorder: &events.Recorder{},
	}
	f.admins = NewAdminService(db)
	f.owners = NewTaskOwnerService(db)
	f.checker = NewPermissionChecker(db, f.admins, f.owners)
	f.hazards = NewHazardService(db, f.store)
	f.responses = NewResponseService(db, f.recorder)
	f.images = NewImageService(db, f.store)
	return f
}

// user inserts a user directly; password hashing is irrelevant here.
func (f *fixture) user() *models.User {
	f.t.Helper()
	f.seq++
	u := models.User{
		Email:     fmt.Sprintf("user%d@miat.mn", f.seq),
		Password:  "x",
		FirstName: fmt.Sprintf("First%d", f.seq),
		LastName:  fmt.Sprintf("Last%d", f.seq),
	}
	if err := f.db.Create(&u).Error; err != nil {
		f.t.Fatalf("create user: %v", err)
	}
	return &u
}

func (f *fixture) admin(role models.Role) *models.Admin {
	f.t.Helper()
	u := f.user()
	a := models.Admin{UserID: u.ID, RoleID: role}
	if err := f.db.Create(&a).Error; err != nil {
		f.t.Fatalf("create admin: %v", err)
	}
	a.User = u
	return &a
}

func (f *fixture) hazardType(code string, private bool) *models.HazardType {
	f.t.Helper()
	ht := models.HazardType{Name: code + " hazards", ShortCode: code, IsPrivate: private}
	if err := f.db.Create(&ht).Error; err != nil {
		f.t.Fatalf("create hazard type: %v", err)
	}
	return &ht
}

func (f *fixture) location() *models.Location {
	f.t.Helper()
	loc := models.Location{Name: "Plant A", GroupName: "Ulaanbaatar"}
	if err := f.db.Create(&loc).Error; err != nil {
		f.t.Fatalf("create location: %v", err)
	}
	return &loc
}

func (f *fixture) hazard(ht *models.HazardType, reporter *uint) *models.Hazard {
	f.t.Helper()
	loc := f.location()
	req := &dto.CreateHazardRequest{
		UserID:       reporter,
		Name:         "Бат",
		Email:        "bat@example.mn",
		Phone:        "99112233",
		HazardTypeID: ht.ID,
		LocationID:   loc.ID,
		Description:  "Exposed wiring near the loading dock",
	}
	h, err := f.hazards.Create(f.ctx, req)
	if err != nil {
		f.t.Fatalf("create hazard: %v", err)
	}
	return h
}

func (f *fixture) assign(hazardID, adminID uint, collaborator bool) {
	f.t.Helper()
	_, err := f.owners.AddOwner(f.ctx, &dto.TaskOwnerRequest{
		HazardID:       hazardID,
		AdminID:        adminID,
		IsCollaborator: collaborator,
	})
	if err != nil {
		f.t.Fatalf("assign owner: %v", err)
	}
}

func wantKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", kind.Name())
	}
	if got := apperr.KindOf(err); got != kind {
		t.Fatalf("error kind = %s (%v), want %s", got.Name(), err, kind.Name())
	}
}

// concurrently runs fn n times at once and returns each call's error.
func concurrently(n int, fn func(i int) error) []error {
	errs := make([]error, n)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = fn(i)
		}(i)
	}
	close(start)
	wg.Wait()
	return errs
}

// wantOneWinner asserts exactly one nil error and a Conflict for the rest.
func wantOneWinner(t *testing.T, errs []error) {
	t.Helper()
	ok := 0
	for i, err := range errs {
		switch {
		case err == nil:
			ok++
		case apperr.KindOf(err) != apperr.KindConflict:
			t.Fatalf("call %d: error = %v, want conflict", i, err)
		}
	}
	if ok != 1 {
		t.Fatalf("%d of %d concurrent calls succeeded, want 1", ok, len(errs))
	}
}
