package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/huyhqq/Student-Club-Management-System/internal/domain"
	"github.com/huyhqq/Student-Club-Management-System/internal/service"
)

type handler struct {
	svc Services
}

type clubRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	JoinFee     *float64 `json:"join_fee"`
}

type joinRequestBody struct {
	StudentID    string  `json:"student_id"`
	Major        string  `json:"major"`
	AcademicYear string  `json:"academic_year"`
	Introduction string  `json:"introduction"`
	Reason       string  `json:"reason"`
	ContactInfo  *string `json:"contact_info"`
}

func pathID(r *http.Request, name string) (int32, bool) {
	v, err := strconv.ParseInt(mux.Vars(r)[name], 10, 32)
	if err != nil || v <= 0 {
		return 0, false
	}
	return int32(v), true
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeBadRequest(w, "malformed request body: "+err.Error())
		return false
	}
	return true
}

// Clubs

func (h *handler) listPublicClubs(w http.ResponseWriter, r *http.Request) {
	clubs, err := h.svc.Clubs.ListPublicClubs(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, clubs)
}

func (h *handler) getPublicClub(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid club id")
		return
	}
	club, err := h.svc.Clubs.GetPublicClub(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, club)
}

func (h *handler) listClubs(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())
	var status *domain.ClubStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.ClubStatus(s)
		switch st {
		case domain.ClubStatusPending, domain.ClubStatusActive, domain.ClubStatusSuspended:
			status = &st
		default:
			writeBadRequest(w, "unknown club status "+s)
			return
		}
	}
	clubs, err := h.svc.Clubs.ListClubs(r.Context(), actor, status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, clubs)
}

func (h *handler) getClub(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid club id")
		return
	}
	club, err := h.svc.Clubs.GetClub(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, club)
}

func (h *handler) createClub(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())
	var body clubRequest
	if !decode(w, r, &body) {
		return
	}
	club, err := h.svc.Clubs.CreateClub(r.Context(), actor, service.CreateClubInput{
		Name:        body.Name,
		Description: body.Description,
		JoinFee:     body.JoinFee,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, "Club created and awaiting approval", club)
}

func (h *handler) updateClub(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid club id")
		return
	}
	var body clubRequest
	if !decode(w, r, &body) {
		return
	}
	club, err := h.svc.Clubs.UpdateClub(r.Context(), actor, id, service.UpdateClubInput{
		Name:        body.Name,
		Description: body.Description,
		JoinFee:     body.JoinFee,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, club)
}

func (h *handler) approveClub(w http.ResponseWriter, r *http.Request) {
	h.clubTransition(w, r, h.svc.Clubs.ApproveClub)
}

func (h *handler) suspendClub(w http.ResponseWriter, r *http.Request) {
	h.clubTransition(w, r, h.svc.Clubs.SuspendClub)
}

func (h *handler) clubTransition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actor domain.Actor, id int32) (*domain.Club, error)) {
	actor, _ := actorFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid club id")
		return
	}
	club, err := op(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, club)
}

// Join requests

func (h *handler) submitJoinRequest(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())
	clubID, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid club id")
		return
	}
	var body joinRequestBody
	if !decode(w, r, &body) {
		return
	}
	req, err := h.svc.JoinRequests.SubmitJoinRequest(r.Context(), actor, clubID, domain.ApplicantProfile{
		StudentID:    body.StudentID,
		Major:        body.Major,
		AcademicYear: body.AcademicYear,
		Introduction: body.Introduction,
		Reason:       body.Reason,
		ContactInfo:  body.ContactInfo,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, "Join request submitted", req)
}

func (h *handler) listJoinRequests(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())
	clubID, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid club id")
		return
	}
	var status *domain.JoinRequestStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.JoinRequestStatus(s)
		switch st {
		case domain.JoinRequestStatusPending, domain.JoinRequestStatusApproved, domain.JoinRequestStatusRejected:
			status = &st
		default:
			writeBadRequest(w, "unknown join request status "+s)
			return
		}
	}
	reqs, err := h.svc.JoinRequests.ListJoinRequests(r.Context(), actor, clubID, status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, reqs)
}

func (h *handler) cancelJoinRequest(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())
	clubID, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid club id")
		return
	}
	if err := h.svc.JoinRequests.CancelJoinRequest(r.Context(), actor, clubID); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Join request cancelled")
}

func (h *handler) approveJoinRequest(w http.ResponseWriter, r *http.Request) {
	h.decideJoinRequest(w, r, h.svc.JoinRequests.ApproveJoinRequest)
}

func (h *handler) rejectJoinRequest(w http.ResponseWriter, r *http.Request) {
	h.decideJoinRequest(w, r, h.svc.JoinRequests.RejectJoinRequest)
}

// decideJoinRequest passes both ids; a request that does not belong to the club in the path is not found.
func (h *handler) decideJoinRequest(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, actor domain.Actor, clubID, requestID int32) (*domain.JoinRequest, error)) {
	actor, _ := actorFromContext(r.Context())
	clubID, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid club id")
		return
	}
	requestID, ok := pathID(r, "requestId")
	if !ok {
		writeBadRequest(w, "invalid request id")
		return
	}
	req, err := op(r.Context(), actor, clubID, requestID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, req)
}

// Membership

func (h *handler) listMembers(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())
	clubID, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid club id")
		return
	}
	members, err := h.svc.Memberships.ListMembers(r.Context(), actor, clubID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, members)
}

func (h *handler) joinClub(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())
	clubID, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid club id")
		return
	}
	member, err := h.svc.Memberships.JoinClubDirect(r.Context(), actor, clubID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCreated(w, "Membership request recorded", member)
}

func (h *handler) leaveClub(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())
	clubID, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid club id")
		return
	}
	if err := h.svc.Memberships.LeaveClub(r.Context(), actor, clubID); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "You have left the club")
}

func (h *handler) approveMember(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())
	memberID, ok := pathID(r, "memberId")
	if !ok {
		writeBadRequest(w, "invalid member id")
		return
	}
	member, err := h.svc.Memberships.ApproveMember(r.Context(), actor, memberID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, member)
}

func (h *handler) removeMember(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())
	memberID, ok := pathID(r, "memberId")
	if !ok {
		writeBadRequest(w, "invalid member id")
		return
	}
	if err := h.svc.Memberships.RemoveMember(r.Context(), actor, memberID); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Member removed")
}

func (h *handler) listMyClubs(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())
	clubs, err := h.svc.Clubs.ListMyClubs(r.Context(), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, clubs)
}

// Notifications

func (h *handler) getNotifications(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())
	limit, offset := queryInt32(r, "limit"), queryInt32(r, "offset")
	notes, total, err := h.svc.Notifications.GetNotifications(r.Context(), actor, limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writePage(w, notes, total)
}

func (h *handler) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	actor, _ := actorFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid notification id")
		return
	}
	if err := h.svc.Notifications.MarkAsRead(r.Context(), actor, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Notification marked as read")
}

// queryInt32 returns 0 for a missing or malformed value; the service applies defaults.
func queryInt32(r *http.Request, key string) int32 {
	v, err := strconv.ParseInt(r.URL.Query().Get(key), 10, 32)
	if err != nil {
		return 0
	}
	return int32(v)
}
