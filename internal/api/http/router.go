package http

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"lawdesk-backend/internal/config"
	"lawdesk-backend/internal/logger"
	"lawdesk-backend/internal/security"
	"lawdesk-backend/internal/service"
)

const apiPrefix = "/api/v1"

// Services are the application services the REST API exposes.
type Services struct {
	Auth         service.AuthService
	User         service.UserService
	Office       service.OfficeService
	JoinRequest  service.JoinRequestService
	Notification service.NotificationService
}

type RouterOptions struct {
	AllowedOrigins []string
}

// NewRouter builds the REST handler. Every route is named; the name selects
// its security level in config.EndpointSecurityConfig.
func NewRouter(svcs Services, tm security.TokenManager, db Pinger, opts RouterOptions) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, req, &apiError{status: http.StatusNotFound, code: CodeNotFound, message: "route not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeError(w, req, &apiError{status: http.StatusMethodNotAllowed, code: "METHOD_NOT_ALLOWED", message: "method not allowed"})
	})
	r.Use(requestIDMiddleware, observeMiddleware, NewAuthMiddleware(tm).Handler)

	r.HandleFunc("/livez", livez).Methods(http.MethodGet).Name(config.RouteLivez)
	r.HandleFunc("/readyz", readyz(db)).Methods(http.MethodGet).Name(config.RouteReadyz)

	api := r.PathPrefix(apiPrefix).Subrouter()

	auth := NewAuthHandler(svcs.Auth, svcs.User)
	api.HandleFunc("/auth/register", auth.Register).Methods(http.MethodPost).Name(config.RouteRegister)
	api.HandleFunc("/auth/login", auth.Login).Methods(http.MethodPost).Name(config.RouteLogin)
	api.HandleFunc("/auth/refresh", auth.Refresh).Methods(http.MethodPost).Name(config.RouteRefresh)
	api.HandleFunc("/auth/me", auth.Me).Methods(http.MethodGet).Name(config.RouteMe)
	api.HandleFunc("/users/me", auth.UpdateProfile).Methods(http.MethodPut).Name(config.RouteUpdateProfile)

	offices := NewOfficeHandler(svcs.Office)
	joins := NewJoinRequestHandler(svcs.JoinRequest)
	api.HandleFunc("/offices", offices.Create).Methods(http.MethodPost).Name(config.RouteCreateOffice)
	api.HandleFunc("/offices", offices.List).Methods(http.MethodGet).Name(config.RouteListOffices)
	api.HandleFunc("/offices/{officeId:[0-9]+}", offices.Get).Methods(http.MethodGet).Name(config.RouteGetOffice)
	api.HandleFunc("/offices/{officeId:[0-9]+}", offices.Update).Methods(http.MethodPut).Name(config.RouteUpdateOffice)
	api.HandleFunc("/offices/{officeId:[0-9]+}/employees", offices.Employees).Methods(http.MethodGet).Name(config.RouteListOfficeEmployees)
	api.HandleFunc("/offices/{officeId:[0-9]+}/employees/{userId:[0-9]+}", offices.UpdateEmployee).Methods(http.MethodPut).Name(config.RouteUpdateOfficeEmployee)
	api.HandleFunc("/offices/{officeId:[0-9]+}/employees/{userId:[0-9]+}", offices.RemoveEmployee).Methods(http.MethodDelete).Name(config.RouteRemoveOfficeEmployee)
	api.HandleFunc("/offices/{officeId:[0-9]+}/join-requests", joins.ListForOffice).Methods(http.MethodGet).Name(config.RouteListOfficeJoinRequests)

	api.HandleFunc("/join-requests", joins.Submit).Methods(http.MethodPost).Name(config.RouteSubmitJoinRequest)
	api.HandleFunc("/join-requests/me", joins.Own).Methods(http.MethodGet).Name(config.RouteOwnJoinRequest)
	api.HandleFunc("/join-requests/{requestId:[0-9]+}", joins.UpdateStatus).Methods(http.MethodPatch, http.MethodPut).Name(config.RouteUpdateJoinRequestStatus)

	notes := NewNotificationHandler(svcs.Notification)
	api.HandleFunc("/notifications", notes.List).Methods(http.MethodGet).Name(config.RouteListNotifications)
	api.HandleFunc("/notifications/{id:[0-9]+}/read", notes.MarkRead).Methods(http.MethodPost).Name(config.RouteMarkNotification)

	var h http.Handler = r
	h = handlers.CompressHandler(h)
	if len(opts.AllowedOrigins) > 0 {
		h = handlers.CORS(
			handlers.AllowedOrigins(opts.AllowedOrigins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Authorization", "Content-Type", headerRequestID}),
			handlers.ExposedHeaders([]string{headerRequestID, headerTotalCount}),
		)(h)
	}
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{}),
		handlers.PrintRecoveryStack(false),
	)(h)
}

// recoveryLogger routes recovered panics to the structured logger.
type recoveryLogger struct{}

func (recoveryLogger) Println(v ...any) {
	logger.Error("Recovered from panic", "panic", v)
}
