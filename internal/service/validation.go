package service

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/huyhqq/Student-Club-Management-System/internal/domain"
)

var (
	studentIDPattern    = regexp.MustCompile(`^SE\d{6}$`)
	academicYearPattern = regexp.MustCompile(`^\d{4}-\d{4}$`)
)

const (
	clubNameMin       = 5
	clubNameMax       = 100
	descriptionMax    = 2000
	majorMax          = 200
	contactInfoMax    = 200
	motivationTextMin = 20
	motivationTextMax = 1000
	postContentMax    = 5000
)

func validateClub(name, description string, joinFee *float64) error {
	n := utf8.RuneCountInString(domain.NormalizeClubName(name))
	if n < clubNameMin || n > clubNameMax {
		return domain.NewValidationError("name", "must be between 5 and 100 characters")
	}
	if utf8.RuneCountInString(description) > descriptionMax {
		return domain.NewValidationError("description", "must be at most 2000 characters")
	}
	if joinFee != nil && *joinFee < 0 {
		return domain.NewValidationError("join_fee", "must not be negative")
	}
	return nil
}

func validateApplicant(p domain.ApplicantProfile) error {
	if !studentIDPattern.MatchString(p.StudentID) {
		return domain.NewValidationError("student_id", "must look like SE123456")
	}
	if strings.TrimSpace(p.Major) == "" {
		return domain.NewValidationError("major", "is required")
	}
	if utf8.RuneCountInString(p.Major) > majorMax {
		return domain.NewValidationError("major", "must be at most 200 characters")
	}
	if !academicYearPattern.MatchString(p.AcademicYear) {
		return domain.NewValidationError("academic_year", "must look like 2025-2026")
	}
	if n := utf8.RuneCountInString(p.Introduction); n < motivationTextMin || n > motivationTextMax {
		return domain.NewValidationError("introduction", "must be between 20 and 1000 characters")
	}
	if n := utf8.RuneCountInString(p.Reason); n < motivationTextMin || n > motivationTextMax {
		return domain.NewValidationError("reason", "must be between 20 and 1000 characters")
	}
	if p.ContactInfo != nil && utf8.RuneCountInString(*p.ContactInfo) > contactInfoMax {
		return domain.NewValidationError("contact_info", "must be at most 200 characters")
	}
	return nil
}

// validatePost returns the trimmed content.
func validatePost(content string, visibility domain.PostVisibility, clubID *int32) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", domain.NewValidationError("content", "is required")
	}
	if utf8.RuneCountInString(content) > postContentMax {
		return "", domain.NewValidationError("content", "must be at most 5000 characters")
	}
	if !visibility.Valid() {
		return "", domain.NewValidationError("visibility", "must be Public or Members")
	}
	if visibility == domain.PostVisibilityMembers && clubID == nil {
		return "", domain.NewValidationError("club_id", "is required for Members posts")
	}
	return content, nil
}
