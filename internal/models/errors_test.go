package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	var ve *ValidationError
	if !errors.As(NewValidationError("bad alpha"), &ve) {
		t.Error("ValidationError not matched by errors.As")
	}

	var nf *NotFoundError
	err := NewNotFoundError("profile", "p42")
	if !errors.As(err, &nf) {
		t.Error("NotFoundError not matched by errors.As")
	}
	if nf.ID != "p42" {
		t.Errorf("ID = %q", nf.ID)
	}

	cause := errors.New("connection refused")
	var se *ServiceError
	wrapped := fmt.Errorf("upsert: %w", NewServiceError("embedding", cause))
	if !errors.As(wrapped, &se) {
		t.Error("ServiceError not matched through wrapping")
	}
	if !errors.Is(wrapped, cause) {
		t.Error("ServiceError should unwrap to its cause")
	}
}

func TestProficiencyRank(t *testing.T) {
	tests := []struct {
		level string
		want  int
	}{
		{"Beginner", 1},
		{"beginner", 1},
		{"Intermediate", 2},
		{"", 2},
		{"something else", 2},
		{"Advanced", 3},
		{"Expert", 3},
		{"Native", 3},
	}
	for _, tt := range tests {
		if got := ProficiencyRank(tt.level); got != tt.want {
			t.Errorf("ProficiencyRank(%q) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestProfile_Validate(t *testing.T) {
	p := &Profile{ID: "p1", Email: "amy@uni.edu"}
	if err := p.Validate(); err != nil {
		t.Fatalf("valid profile rejected: %v", err)
	}
	bad := &Profile{ID: "p2", Email: "not-an-email"}
	var ve *ValidationError
	if err := bad.Validate(); !errors.As(err, &ve) {
		t.Errorf("expected ValidationError, got %v", err)
	}
	empty := &Profile{ID: "p3"}
	if err := empty.Validate(); err == nil {
		t.Error("expected error for missing email")
	}
}
