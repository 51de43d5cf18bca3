package models

import "testing"

func TestUserPatchSetDoc(t *testing.T) {
	name := "Ava"
	patch := UserPatch{Name: &name}

	set := patch.SetDoc()
	if len(set) != 1 || set["name"] != "Ava" {
		t.Errorf("unexpected set doc %v", set)
	}
	if patch.IsEmpty() {
		t.Error("patch with a field must not be empty")
	}
	if !(UserPatch{}).IsEmpty() {
		t.Error("zero patch must be empty")
	}
}

func TestTourPatchSetDoc(t *testing.T) {
	fee := 75.0
	active := false
	patch := TourPatch{Fee: &fee, IsActive: &active}

	set := patch.SetDoc()
	if set["fee"] != 75.0 {
		t.Errorf("expected fee in set doc, got %v", set)
	}
	if set["is_active"] != false {
		t.Errorf("expected is_active in set doc, got %v", set)
	}
	if _, present := set["title"]; present {
		t.Error("nil fields must not appear in the set doc")
	}
}

func TestBookingStatusValid(t *testing.T) {
	for _, s := range []BookingStatus{BookingPending, BookingConfirmed, BookingDeclined, BookingCancelled, BookingCompleted} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if BookingStatus("SHIPPED").Valid() {
		t.Error("unknown status should be invalid")
	}
}

func TestRoleHelpers(t *testing.T) {
	if !RoleAdmin.IsAdmin() || !RoleSuperAdmin.IsAdmin() {
		t.Error("admin roles must report IsAdmin")
	}
	if RoleGuide.IsAdmin() || RoleTourist.IsAdmin() {
		t.Error("non-admin roles must not report IsAdmin")
	}
	if Role("AUDITOR").Valid() {
		t.Error("unknown role should be invalid")
	}
}
