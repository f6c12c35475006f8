package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an error so the transport layer can map it without knowing every sentinel.
type Kind int

const (
	KindInfrastructure Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindAuthorization
	KindInvariant
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindAuthorization:
		return "authorization"
	case KindInvariant:
		return "invariant"
	default:
		return "infrastructure"
	}
}

// Error is a typed lifecycle failure. Two errors are the same failure when their codes match.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

var (
	// Validation
	ErrValidation = &Error{Kind: KindValidation, Code: "VALIDATION_FAILED", Message: "invalid input"}

	// Not found
	ErrClubNotFound         = &Error{Kind: KindNotFound, Code: "CLUB_NOT_FOUND", Message: "club not found"}
	ErrJoinRequestNotFound  = &Error{Kind: KindNotFound, Code: "JOIN_REQUEST_NOT_FOUND", Message: "join request not found"}
	ErrMemberNotFound       = &Error{Kind: KindNotFound, Code: "MEMBER_NOT_FOUND", Message: "club member not found"}
	ErrUserNotFound         = &Error{Kind: KindNotFound, Code: "USER_NOT_FOUND", Message: "user not found"}
	ErrNotificationNotFound = &Error{Kind: KindNotFound, Code: "NOTIFICATION_NOT_FOUND", Message: "notification not found"}
	ErrPostNotFound         = &Error{Kind: KindNotFound, Code: "POST_NOT_FOUND", Message: "post not found"}

	// Conflict
	ErrDuplicateName           = &Error{Kind: KindConflict, Code: "DUPLICATE_NAME", Message: "a club with this name already exists"}
	ErrDuplicateRequest        = &Error{Kind: KindConflict, Code: "DUPLICATE_REQUEST", Message: "a pending join request for this club already exists"}
	ErrAlreadyMember           = &Error{Kind: KindConflict, Code: "ALREADY_MEMBER", Message: "user is already a member of this club"}
	ErrAlreadyActive           = &Error{Kind: KindConflict, Code: "ALREADY_ACTIVE", Message: "club is already active"}
	ErrClubSuspended           = &Error{Kind: KindConflict, Code: "CLUB_SUSPENDED", Message: "club is suspended and cannot be reactivated"}
	ErrRequestAlreadyProcessed = &Error{Kind: KindConflict, Code: "REQUEST_ALREADY_PROCESSED", Message: "join request has already been processed"}
	ErrClubNotAvailable        = &Error{Kind: KindConflict, Code: "CLUB_NOT_AVAILABLE", Message: "club does not exist or is not active"}
	ErrMemberNotApproved       = &Error{Kind: KindConflict, Code: "MEMBER_NOT_APPROVED", Message: "membership is not approved"}
	ErrMemberNotPending        = &Error{Kind: KindConflict, Code: "MEMBER_NOT_PENDING", Message: "membership is not pending"}
	ErrNotMember               = &Error{Kind: KindConflict, Code: "NOT_MEMBER", Message: "user is not an approved member of this club"}

	// Authorization
	ErrForbidden = &Error{Kind: KindAuthorization, Code: "FORBIDDEN", Message: "not authorized to perform this action"}

	// Invariant
	ErrCannotRemovePresident = &Error{Kind: KindInvariant, Code: "CANNOT_REMOVE_PRESIDENT", Message: "the club president cannot be removed"}
	ErrPresidentMustTransfer = &Error{Kind: KindInvariant, Code: "PRESIDENT_MUST_TRANSFER", Message: "the president must transfer leadership before leaving"}

	// Infrastructure
	ErrProcessing = &Error{Kind: KindInfrastructure, Code: "PROCESSING_FAILED", Message: "the request could not be processed"}
)

// NewValidationError reports a malformed input field. It matches ErrValidation under errors.Is.
func NewValidationError(field, message string) error {
	return &Error{
		Kind:    KindValidation,
		Code:    ErrValidation.Code,
		Message: fmt.Sprintf("%s: %s", field, message),
	}
}

// Processing hides an infrastructure cause behind ErrProcessing. Store errors stay in the chain
// for errors.Is; a lifecycle *Error cause is kept as text only, so the result never also matches
// a conflict or not-found sentinel.
func Processing(cause error) error {
	if cause == nil {
		return nil
	}
	var e *Error
	if errors.As(cause, &e) {
		return fmt.Errorf("%w: %v", ErrProcessing, cause)
	}
	return fmt.Errorf("%w: %w", ErrProcessing, cause)
}

// KindOf returns the kind of the first *Error in err's chain, or KindInfrastructure.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInfrastructure
}
