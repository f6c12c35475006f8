package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/huyhqq/Student-Club-Management-System/internal/domain"
)

func validProfile() domain.ApplicantProfile {
	return domain.ApplicantProfile{
		StudentID:    "SE170001",
		Major:        "Software Engineering",
		AcademicYear: "2025-2026",
		Introduction: "Third year student, chess since school.",
		Reason:       "I want to join the weekly tournaments.",
	}
}

func TestValidateApplicant(t *testing.T) {
	long := strings.Repeat("x", 1001)
	contact := strings.Repeat("c", 201)

	tests := []struct {
		name    string
		mutate  func(p *domain.ApplicantProfile)
		wantErr bool
	}{
		{"valid", func(*domain.ApplicantProfile) {}, false},
		{"student id without prefix", func(p *domain.ApplicantProfile) { p.StudentID = "170001" }, true},
		{"student id too short", func(p *domain.ApplicantProfile) { p.StudentID = "SE1234" }, true},
		{"lowercase prefix", func(p *domain.ApplicantProfile) { p.StudentID = "se170001" }, true},
		{"blank major", func(p *domain.ApplicantProfile) { p.Major = "  " }, true},
		{"academic year format", func(p *domain.ApplicantProfile) { p.AcademicYear = "2025/2026" }, true},
		{"short introduction", func(p *domain.ApplicantProfile) { p.Introduction = "hi" }, true},
		{"long reason", func(p *domain.ApplicantProfile) { p.Reason = long }, true},
		{"long contact", func(p *domain.ApplicantProfile) { p.ContactInfo = &contact }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(&p)
			err := validateApplicant(p)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateClub(t *testing.T) {
	fee := 10.0
	negative := -0.01

	assert.NoError(t, validateClub("Chess Society", "", &fee))
	assert.NoError(t, validateClub("Chess", strings.Repeat("d", 2000), nil))
	assert.ErrorIs(t, validateClub("Go", "", nil), domain.ErrValidation)
	assert.ErrorIs(t, validateClub(strings.Repeat("n", 101), "", nil), domain.ErrValidation)
	assert.ErrorIs(t, validateClub("Chess Society", strings.Repeat("d", 2001), nil), domain.ErrValidation)
	assert.ErrorIs(t, validateClub("Chess Society", "", &negative), domain.ErrValidation)
}

func TestValidatePost(t *testing.T) {
	clubID := int32(3)

	content, err := validatePost("  Meetup at 6pm  ", domain.PostVisibilityPublic, nil)
	assert.NoError(t, err)
	assert.Equal(t, "Meetup at 6pm", content)

	_, err = validatePost("Members only", domain.PostVisibilityMembers, &clubID)
	assert.NoError(t, err)

	_, err = validatePost(strings.Repeat("p", 5000), domain.PostVisibilityPublic, nil)
	assert.NoError(t, err)

	_, err = validatePost("   ", domain.PostVisibilityPublic, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = validatePost(strings.Repeat("p", 5001), domain.PostVisibilityPublic, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = validatePost("Hello", domain.PostVisibility("Friends"), nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = validatePost("Hello", domain.PostVisibilityMembers, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
