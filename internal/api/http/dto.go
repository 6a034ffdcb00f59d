package http

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"lawdesk-backend/internal/domain"
	"lawdesk-backend/internal/service"
)

// idParam accepts an identifier encoded either as a JSON number or as a
// numeric string.
type idParam int32

func (p *idParam) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*p = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return err
	}
	*p = idParam(v)
	return nil
}

var _ json.Unmarshaler = (*idParam)(nil)

type userResponse struct {
	ID        int32       `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone,omitempty"`
	Role      domain.Role `json:"role"`
	OfficeID  *int32      `json:"officeId,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		OfficeID:  u.OfficeID,
		CreatedAt: u.CreatedAt,
	}
}

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
	User         userResponse `json:"user"`
}

func toTokenResponse(u *domain.User, tokens *service.TokenPair) tokenResponse {
	return tokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    tokens.ExpiresIn,
		User:         toUserResponse(u),
	}
}

type officeRequest struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	INN          string `json:"inn"`
	OGRN         string `json:"ogrn"`
	ContactPhone string `json:"contactPhone"`
	WorkPhone2   string `json:"workPhone2"`
	Website      string `json:"website"`
}

func (r officeRequest) toDomain(id int32) *domain.Office {
	return &domain.Office{
		ID:           id,
		Name:         r.Name,
		Address:      r.Address,
		INN:          r.INN,
		OGRN:         r.OGRN,
		ContactPhone: r.ContactPhone,
		WorkPhone2:   r.WorkPhone2,
		Website:      r.Website,
	}
}

type officeResponse struct {
	ID            int32     `json:"id"`
	Name          string    `json:"name"`
	Address       string    `json:"address,omitempty"`
	INN           string    `json:"inn,omitempty"`
	OGRN          string    `json:"ogrn,omitempty"`
	ContactPhone  string    `json:"contactPhone,omitempty"`
	WorkPhone2    string    `json:"workPhone2,omitempty"`
	Website       string    `json:"website,omitempty"`
	OwnerID       int32     `json:"ownerId"`
	EmployeeCount int32     `json:"employeeCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toOfficeResponse(o *domain.Office) officeResponse {
	return officeResponse{
		ID:            o.ID,
		Name:          o.Name,
		Address:       o.Address,
		INN:           o.INN,
		OGRN:          o.OGRN,
		ContactPhone:  o.ContactPhone,
		WorkPhone2:    o.WorkPhone2,
		Website:       o.Website,
		OwnerID:       o.OwnerID,
		EmployeeCount: o.EmployeeCount,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

type joinRequestResponse struct {
	ID         int32                    `json:"id"`
	UserID     int32                    `json:"userId"`
	UserName   string                   `json:"userName,omitempty"`
	UserEmail  string                   `json:"userEmail,omitempty"`
	OfficeID   int32                    `json:"officeId"`
	OfficeName string                   `json:"officeName,omitempty"`
	Role       *domain.Role             `json:"role,omitempty"`
	Status     domain.JoinRequestStatus `json:"status"`
	CreatedAt  time.Time                `json:"createdAt"`
	DecidedAt  *time.Time               `json:"decidedAt,omitempty"`
	DecidedBy  *int32                   `json:"decidedBy,omitempty"`
}

func toJoinRequestResponse(r *domain.JoinRequest) joinRequestResponse {
	return joinRequestResponse{
		ID:         r.ID,
		UserID:     r.UserID,
		UserName:   r.UserName,
		UserEmail:  r.UserEmail,
		OfficeID:   r.OfficeID,
		OfficeName: r.OfficeName,
		Role:       r.Role,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
		DecidedAt:  r.DecidedAt,
		DecidedBy:  r.DecidedBy,
	}
}

type notificationResponse struct {
	ID         int32             `json:"id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	IsRead     bool              `json:"isRead"`
	Attributes map[string]string `json:"attributes,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
}

type notificationListResponse struct {
	Notifications []notificationResponse `json:"notifications"`
	Total         int32                  `json:"total"`
}

func mapSlice[T, R any](in []T, fn func(*T) R) []R {
	out := make([]R, 0, len(in))
	for i := range in {
		out = append(out, fn(&in[i]))
	}
	return out
}
