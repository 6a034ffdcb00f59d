package config

type SecurityLevel int

const (
	SecurityPublic  SecurityLevel = iota // No authentication
	SecurityRefresh                      // Refresh token required
	SecurityAccess                       // Access token required
)

func (l SecurityLevel) String() string {
	switch l {
	case SecurityPublic:
		return "public"
	case SecurityRefresh:
		return "refresh"
	default:
		return "access"
	}
}

// Route names registered on the REST router.
const (
	RouteRegister = "auth.register"
	RouteLogin    = "auth.login"
	RouteRefresh  = "auth.refresh"
	RouteMe       = "auth.me"

	RouteUpdateProfile = "users.update_profile"

	RouteCreateOffice         = "offices.create"
	RouteListOffices          = "offices.list"
	RouteGetOffice            = "offices.get"
	RouteUpdateOffice         = "offices.update"
	RouteListOfficeEmployees  = "offices.employees"
	RouteUpdateOfficeEmployee = "offices.update_employee"
	RouteRemoveOfficeEmployee = "offices.remove_employee"

	RouteSubmitJoinRequest       = "join_requests.submit"
	RouteListOfficeJoinRequests  = "join_requests.list_for_office"
	RouteUpdateJoinRequestStatus = "join_requests.update_status"
	RouteOwnJoinRequest          = "join_requests.own"

	RouteListNotifications = "notifications.list"
	RouteMarkNotification  = "notifications.mark_read"

	RouteLivez  = "health.livez"
	RouteReadyz = "health.readyz"
)

// EndpointSecurityConfig maps route names to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Auth - Public
	RouteRegister: SecurityPublic,
	RouteLogin:    SecurityPublic,

	// Auth - Refresh Protected
	RouteRefresh: SecurityRefresh,

	// Auth - Access Protected
	RouteMe: SecurityAccess,

	RouteUpdateProfile: SecurityAccess,

	// Offices - Access Protected
	RouteCreateOffice:         SecurityAccess,
	RouteListOffices:          SecurityAccess,
	RouteGetOffice:            SecurityAccess,
	RouteUpdateOffice:         SecurityAccess,
	RouteListOfficeEmployees:  SecurityAccess,
	RouteUpdateOfficeEmployee: SecurityAccess,
	RouteRemoveOfficeEmployee: SecurityAccess,

	// Join requests - Access Protected
	RouteSubmitJoinRequest:       SecurityAccess,
	RouteListOfficeJoinRequests:  SecurityAccess,
	RouteUpdateJoinRequestStatus: SecurityAccess,
	RouteOwnJoinRequest:          SecurityAccess,

	// Notifications - Access Protected
	RouteListNotifications: SecurityAccess,
	RouteMarkNotification:  SecurityAccess,

	// Probes
	RouteLivez:  SecurityPublic,
	RouteReadyz: SecurityPublic,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown routes
	return SecurityAccess
}
