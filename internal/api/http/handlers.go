package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"lawdesk-backend/internal/domain"
	"lawdesk-backend/internal/service"
)

const maxBodyBytes = 1 << 20

// callerID returns the authenticated user id. Only routes behind the auth
// middleware call it.
func callerID(r *http.Request) (int32, error) {
	p, ok := PrincipalFromContext(r.Context())
	if !ok {
		return 0, unauthorized("user is not authenticated")
	}
	return p.UserID, nil
}

func pathID(r *http.Request, name string) (int32, error) {
	v, err := strconv.ParseInt(mux.Vars(r)[name], 10, 32)
	if err != nil || v <= 0 {
		return 0, badRequest(name + " must be a positive integer")
	}
	return int32(v), nil
}

func queryInt(r *http.Request, name string) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, badRequest(name + " must be a non-negative integer")
	}
	return v, nil
}

type AuthHandler struct {
	authSvc service.AuthService
	userSvc service.UserService
}

func NewAuthHandler(authSvc service.AuthService, userSvc service.UserService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, userSvc: userSvc}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, tokens, err := h.authSvc.Register(r.Context(), req.Name, req.Email, req.Phone, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTokenResponse(user, tokens))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, tokens, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTokenResponse(user, tokens))
}

// Refresh issues a new token pair. The refresh token arrives as the bearer.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	user, tokens, err := h.authSvc.Refresh(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTokenResponse(user, tokens))
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.userSvc.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	user, err := h.userSvc.UpdateProfile(r.Context(), userID, req.Name, req.Phone)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

type OfficeHandler struct {
	officeSvc service.OfficeService
}

func NewOfficeHandler(officeSvc service.OfficeService) *OfficeHandler {
	return &OfficeHandler{officeSvc: officeSvc}
}

func (h *OfficeHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req officeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	office := req.toDomain(0)
	if err := h.officeSvc.CreateOffice(r.Context(), userID, office); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOfficeResponse(office))
}

func (h *OfficeHandler) List(w http.ResponseWriter, r *http.Request) {
	offices, err := h.officeSvc.ListOffices(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(offices, toOfficeResponse))
}

func (h *OfficeHandler) Get(w http.ResponseWriter, r *http.Request) {
	officeID, err := pathID(r, "officeId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	office, err := h.officeSvc.GetOffice(r.Context(), officeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOfficeResponse(office))
}

func (h *OfficeHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	officeID, err := pathID(r, "officeId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req officeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.officeSvc.UpdateOffice(r.Context(), userID, req.toDomain(officeID)); err != nil {
		writeError(w, r, err)
		return
	}
	office, err := h.officeSvc.GetOffice(r.Context(), officeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOfficeResponse(office))
}

func (h *OfficeHandler) Employees(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	officeID, err := pathID(r, "officeId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	users, err := h.officeSvc.ListEmployees(r.Context(), userID, officeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(users, toUserResponse))
}

type employeeRoleRequest struct {
	Role domain.Role `json:"role"`
}

func (h *OfficeHandler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	officeID, err := pathID(r, "officeId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	employeeID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req employeeRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	employee, err := h.officeSvc.UpdateEmployeeRole(r.Context(), userID, officeID, employeeID, req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(employee))
}

func (h *OfficeHandler) RemoveEmployee(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	officeID, err := pathID(r, "officeId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	employeeID, err := pathID(r, "userId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.officeSvc.RemoveEmployee(r.Context(), userID, officeID, employeeID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type NotificationHandler struct {
	noteSvc service.NotificationService
}

func NewNotificationHandler(noteSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{noteSvc: noteSvc}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := queryInt(r, "page")
	if err != nil {
		writeError(w, r, err)
		return
	}
	pageSize, err := queryInt(r, "page_size")
	if err != nil {
		writeError(w, r, err)
		return
	}

	notes, total, err := h.noteSvc.GetNotifications(r.Context(), userID, int32(page), int32(pageSize))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notificationListResponse{
		Notifications: mapSlice(notes, func(n *domain.Notification) notificationResponse {
			return notificationResponse{
				ID:         n.ID,
				Title:      n.Title,
				Message:    n.Message,
				IsRead:     n.IsRead,
				Attributes: n.Attributes,
				CreatedAt:  n.CreatedAt,
			}
		}),
		Total: total,
	})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.noteSvc.MarkAsRead(r.Context(), userID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
