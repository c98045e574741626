package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{in: "special-admin", want: RoleSpecialAdmin},
		{in: "super-admin", want: RoleSuperAdmin},
		{in: "3", want: RoleResponseAdmin},
		{in: "9", wantErr: true},
		{in: "root", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseRole(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseRole(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseRole(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestRoleJSONUsesName(t *testing.T) {
	b, err := json.Marshal(Admin{ID: 1, UserID: 2, RoleID: RoleAuditAdmin})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["role"] != "audit-admin" {
		t.Fatalf("role = %v, want audit-admin", out["role"])
	}

	var admin Admin
	if err := json.Unmarshal([]byte(`{"role":"special-admin"}`), &admin); err != nil {
		t.Fatalf("unmarshal admin: %v", err)
	}
	if admin.RoleID != RoleSpecialAdmin {
		t.Fatalf("RoleID = %v", admin.RoleID)
	}
}

func TestGates(t *testing.T) {
	if !RoleResponseAdmin.In(ResponseGate) || RoleAuditAdmin.In(ResponseGate) {
		t.Fatalf("response gate membership wrong")
	}
	if !RoleAuditAdmin.In(AuditGate) || RoleResponseAdmin.In(AuditGate) {
		t.Fatalf("audit gate membership wrong")
	}
	if RoleAdmin.In(OwnerGate) || !RoleSpecialAdmin.In(OwnerGate) {
		t.Fatalf("owner gate membership wrong")
	}
	if RoleUser.IsAdmin() || !RoleSuperAdmin.IsAdmin() {
		t.Fatalf("IsAdmin wrong")
	}
	if len(AdminRoles()) != 5 {
		t.Fatalf("AdminRoles() len = %d", len(AdminRoles()))
	}
}

func TestNewResponseDefaults(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := NewResponse(42, now)
	if r.CurrentStatus != StatusReceived {
		t.Fatalf("CurrentStatus = %q", r.CurrentStatus)
	}
	if r.IsStarted || r.IsResponseFinished || r.IsCheckingResponse || r.IsResponseConfirmed || r.IsResponseDenied {
		t.Fatalf("flags should start false: %+v", r)
	}
	if r.IsRequestApproved != nil {
		t.Fatalf("IsRequestApproved should start nil")
	}
	if !r.DateUpdated.Equal(now) {
		t.Fatalf("DateUpdated = %v", r.DateUpdated)
	}
}

func TestHazardCode(t *testing.T) {
	if got := HazardCode("FIRE", 7); got != "FIRE-0007" {
		t.Fatalf("HazardCode() = %q", got)
	}
	if got := HazardCode("ELEC", 12345); got != "ELEC-12345" {
		t.Fatalf("HazardCode() = %q", got)
	}
}
