// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
	SecurityAdmin                       // Access token with the Admin role required
)

// Route names, shared by the router and the security table
const (
	RouteListPublicClubs    = "ListPublicClubs"
	RouteGetPublicClub      = "GetPublicClub"
	RouteListClubs          = "ListClubs"
	RouteGetClub            = "GetClub"
	RouteCreateClub         = "CreateClub"
	RouteUpdateClub         = "UpdateClub"
	RouteApproveClub        = "ApproveClub"
	RouteSuspendClub        = "SuspendClub"
	RouteSubmitJoinRequest  = "SubmitJoinRequest"
	RouteListJoinRequests   = "ListJoinRequests"
	RouteCancelJoinRequest  = "CancelJoinRequest"
	RouteApproveJoinRequest = "ApproveJoinRequest"
	RouteRejectJoinRequest  = "RejectJoinRequest"
	RouteListMembers        = "ListMembers"
	RouteJoinClub           = "JoinClub"
	RouteLeaveClub          = "LeaveClub"
	RouteApproveMember      = "ApproveMember"
	RouteRemoveMember       = "RemoveMember"
	RouteListMyClubs        = "ListMyClubs"
	RouteGetNotifications   = "GetNotifications"
	RouteMarkNotification   = "MarkNotificationRead"
	RouteListPublicPosts    = "ListPublicPosts"
	RouteGetPublicPost      = "GetPublicPost"
	RouteListPosts          = "ListPosts"
	RouteGetPost            = "GetPost"
	RouteCreatePost         = "CreatePost"
	RouteUpdatePost         = "UpdatePost"
	RouteDeletePost         = "DeletePost"
	RouteMetrics            = "Metrics"
)

// EndpointSecurityConfig maps route names to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Public
	RouteListPublicClubs: SecurityPublic,
	RouteGetPublicClub:   SecurityPublic,
	RouteListPublicPosts: SecurityPublic,
	RouteGetPublicPost:   SecurityPublic,
	RouteMetrics:         SecurityPublic,

	// Clubs - Access Protected
	RouteListClubs:  SecurityAccess,
	RouteGetClub:    SecurityAccess,
	RouteCreateClub: SecurityAccess,
	RouteUpdateClub: SecurityAccess,

	// Clubs - Admin only
	RouteApproveClub: SecurityAdmin,
	RouteSuspendClub: SecurityAdmin,

	// Join requests - Access Protected
	RouteSubmitJoinRequest:  SecurityAccess,
	RouteListJoinRequests:   SecurityAccess,
	RouteCancelJoinRequest:  SecurityAccess,
	RouteApproveJoinRequest: SecurityAccess,
	RouteRejectJoinRequest:  SecurityAccess,

	// Membership - Access Protected
	RouteListMembers:   SecurityAccess,
	RouteJoinClub:      SecurityAccess,
	RouteLeaveClub:     SecurityAccess,
	RouteApproveMember: SecurityAccess,
	RouteRemoveMember:  SecurityAccess,
	RouteListMyClubs:   SecurityAccess,

	// Notifications - Access Protected
	RouteGetNotifications: SecurityAccess,
	RouteMarkNotification: SecurityAccess,

	// Posts - Access Protected
	RouteListPosts:  SecurityAccess,
	RouteGetPost:    SecurityAccess,
	RouteCreatePost: SecurityAccess,
	RouteUpdatePost: SecurityAccess,
	RouteDeletePost: SecurityAccess,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to access protection for unknown routes
	return SecurityAccess
}
