package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/huyhqq/Student-Club-Management-System/internal/config"
	"github.com/huyhqq/Student-Club-Management-System/internal/metrics"
	"github.com/huyhqq/Student-Club-Management-System/internal/security"
	"github.com/huyhqq/Student-Club-Management-System/internal/service"
)

// Services are the lifecycle services the HTTP API fronts
type Services struct {
	Clubs         service.ClubService
	JoinRequests  service.JoinRequestService
	Memberships   service.MembershipService
	Notifications service.NotificationService
	Posts         service.PostService
}

type RouterOptions struct {
	Verifier  security.TokenVerifier
	Metrics   *metrics.Metrics
	RateLimit config.RateLimitConfig
}

// NewRouter registers every named route. Route names key the security table in config.
func NewRouter(svc Services, opts RouterOptions) *mux.Router {
	h := &handler{svc: svc}
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, envelope{Success: false, Message: "route not found"})
	})

	router.Use(
		RequestID,
		Recovery,
		Instrument(opts.Metrics),
		RateLimit(NewIPRateLimiter(rate.Limit(opts.RateLimit.RequestsPerSecond), opts.RateLimit.Burst)),
		Auth(opts.Verifier),
	)

	router.Handle("/metrics", opts.Metrics.Handler()).Methods(http.MethodGet).Name(config.RouteMetrics)

	api := router.PathPrefix("/api/v1").Subrouter()

	// Clubs
	api.HandleFunc("/clubs/public", h.listPublicClubs).Methods(http.MethodGet).Name(config.RouteListPublicClubs)
	api.HandleFunc("/clubs/public/{id:[0-9]+}", h.getPublicClub).Methods(http.MethodGet).Name(config.RouteGetPublicClub)
	api.HandleFunc("/clubs", h.listClubs).Methods(http.MethodGet).Name(config.RouteListClubs)
	api.HandleFunc("/clubs", h.createClub).Methods(http.MethodPost).Name(config.RouteCreateClub)
	api.HandleFunc("/clubs/{id:[0-9]+}", h.getClub).Methods(http.MethodGet).Name(config.RouteGetClub)
	api.HandleFunc("/clubs/{id:[0-9]+}", h.updateClub).Methods(http.MethodPut).Name(config.RouteUpdateClub)
	api.HandleFunc("/clubs/{id:[0-9]+}/approve", h.approveClub).Methods(http.MethodPatch).Name(config.RouteApproveClub)
	api.HandleFunc("/clubs/{id:[0-9]+}/suspend", h.suspendClub).Methods(http.MethodPatch).Name(config.RouteSuspendClub)

	// Join requests
	api.HandleFunc("/clubs/{id:[0-9]+}/join-requests", h.submitJoinRequest).Methods(http.MethodPost).Name(config.RouteSubmitJoinRequest)
	api.HandleFunc("/clubs/{id:[0-9]+}/join-requests", h.listJoinRequests).Methods(http.MethodGet).Name(config.RouteListJoinRequests)
	api.HandleFunc("/clubs/{id:[0-9]+}/join-requests/mine", h.cancelJoinRequest).Methods(http.MethodDelete).Name(config.RouteCancelJoinRequest)
	api.HandleFunc("/clubs/{id:[0-9]+}/join-requests/{requestId:[0-9]+}/approve", h.approveJoinRequest).Methods(http.MethodPatch).Name(config.RouteApproveJoinRequest)
	api.HandleFunc("/clubs/{id:[0-9]+}/join-requests/{requestId:[0-9]+}/reject", h.rejectJoinRequest).Methods(http.MethodPatch).Name(config.RouteRejectJoinRequest)

	// Membership
	api.HandleFunc("/clubs/{id:[0-9]+}/members", h.listMembers).Methods(http.MethodGet).Name(config.RouteListMembers)
	api.HandleFunc("/clubs/{id:[0-9]+}/members/join", h.joinClub).Methods(http.MethodPost).Name(config.RouteJoinClub)
	api.HandleFunc("/clubs/{id:[0-9]+}/leave", h.leaveClub).Methods(http.MethodPost).Name(config.RouteLeaveClub)
	api.HandleFunc("/members/{memberId:[0-9]+}/approve", h.approveMember).Methods(http.MethodPatch).Name(config.RouteApproveMember)
	api.HandleFunc("/members/{memberId:[0-9]+}/remove", h.removeMember).Methods(http.MethodPatch).Name(config.RouteRemoveMember)
	api.HandleFunc("/me/clubs", h.listMyClubs).Methods(http.MethodGet).Name(config.RouteListMyClubs)

	// Notifications
	api.HandleFunc("/notifications", h.getNotifications).Methods(http.MethodGet).Name(config.RouteGetNotifications)
	api.HandleFunc("/notifications/{id:[0-9]+}/read", h.markNotificationRead).Methods(http.MethodPatch).Name(config.RouteMarkNotification)

	// Posts
	api.HandleFunc("/posts/public", h.listPublicPosts).Methods(http.MethodGet).Name(config.RouteListPublicPosts)
	api.HandleFunc("/posts/public/{id:[0-9]+}", h.getPublicPost).Methods(http.MethodGet).Name(config.RouteGetPublicPost)
	api.HandleFunc("/posts", h.listPosts).Methods(http.MethodGet).Name(config.RouteListPosts)
	api.HandleFunc("/posts", h.createPost).Methods(http.MethodPost).Name(config.RouteCreatePost)
	api.HandleFunc("/posts/{id:[0-9]+}", h.getPost).Methods(http.MethodGet).Name(config.RouteGetPost)
	api.HandleFunc("/posts/{id:[0-9]+}", h.updatePost).Methods(http.MethodPut).Name(config.RouteUpdatePost)
	api.HandleFunc("/posts/{id:[0-9]+}", h.deletePost).Methods(http.MethodDelete).Name(config.RouteDeletePost)

	return router
}
