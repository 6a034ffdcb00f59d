package http

import (
	"net/http"
	"strconv"

	"lawdesk-backend/internal/domain"
	"lawdesk-backend/internal/service"
)

const headerTotalCount = "X-Total-Count"

type JoinRequestHandler struct {
	joinSvc service.JoinRequestService
}

func NewJoinRequestHandler(joinSvc service.JoinRequestService) *JoinRequestHandler {
	return &JoinRequestHandler{joinSvc: joinSvc}
}

type submitJoinRequestRequest struct {
	OfficeID idParam `json:"officeId"`
}

// Submit creates a pending request for the caller.
func (h *JoinRequestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req submitJoinRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	jr, err := h.joinSvc.SubmitJoinRequest(r.Context(), userID, int32(req.OfficeID))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toJoinRequestResponse(jr))
}

// ListForOffice returns the office's requests as a JSON array; the unpaged
// total is reported in X-Total-Count.
func (h *JoinRequestHandler) ListForOffice(w http.ResponseWriter, r *http.Request) {
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

	var filter domain.JoinRequestFilter
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.JoinRequestStatus(s)
		filter.Status = &status
	}
	if filter.Limit, err = queryInt(r, "limit"); err != nil {
		writeError(w, r, err)
		return
	}
	if filter.Offset, err = queryInt(r, "offset"); err != nil {
		writeError(w, r, err)
		return
	}

	reqs, total, err := h.joinSvc.ListOfficeJoinRequests(r.Context(), userID, officeID, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set(headerTotalCount, strconv.Itoa(int(total)))
	writeJSON(w, http.StatusOK, mapSlice(reqs, toJoinRequestResponse))
}

type updateJoinRequestRequest struct {
	Status domain.JoinRequestStatus `json:"status"`
	Role   *domain.Role             `json:"role"`
}

func (h *JoinRequestHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	requestID, err := pathID(r, "requestId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateJoinRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	jr, err := h.joinSvc.UpdateJoinRequestStatus(r.Context(), userID, requestID, req.Status, req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toJoinRequestResponse(jr))
}

// Own returns the caller's most recent request.
func (h *JoinRequestHandler) Own(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jr, err := h.joinSvc.GetOwnJoinRequest(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toJoinRequestResponse(jr))
}
