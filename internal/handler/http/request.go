package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/timesheet-go/internal/domain/request"
	"github.com/cmlabs-hris/timesheet-go/internal/handler/http/response"
)

type RequestHandler interface {
	ListVacations(w http.ResponseWriter, r *http.Request)
	GetVacation(w http.ResponseWriter, r *http.Request)
	ApproveVacation(w http.ResponseWriter, r *http.Request)
	DenyVacation(w http.ResponseWriter, r *http.Request)

	ListCorrections(w http.ResponseWriter, r *http.Request)
	GetCorrection(w http.ResponseWriter, r *http.Request)
	ApproveCorrection(w http.ResponseWriter, r *http.Request)
	DenyCorrection(w http.ResponseWriter, r *http.Request)
}

type requestHandlerImpl struct {
	requestService request.RequestService
}

func NewRequestHandler(requestService request.RequestService) RequestHandler {
	return &requestHandlerImpl{
		requestService: requestService,
	}
}

func listFilter(r *http.Request) request.ListFilter {
	q := r.URL.Query()
	return request.ListFilter{
		Status:   request.Status(q.Get("status")),
		Username: q.Get("username"),
		From:     q.Get("from"),
		To:       q.Get("to"),
	}
}

// ListVacations handles GET /requests/vacations
func (h *requestHandlerImpl) ListVacations(w http.ResponseWriter, r *http.Request) {
	result, err := h.requestService.ListVacations(r.Context(), listFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// GetVacation handles GET /requests/vacations/{id}
func (h *requestHandlerImpl) GetVacation(w http.ResponseWriter, r *http.Request) {
	result, err := h.requestService.GetVacation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ApproveVacation handles POST /requests/vacations/{id}/approve
func (h *requestHandlerImpl) ApproveVacation(w http.ResponseWriter, r *http.Request) {
	result, err := h.requestService.ApproveVacation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("ApproveVacation service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Vacation request approved", result)
}

// DenyVacation handles POST /requests/vacations/{id}/deny
func (h *requestHandlerImpl) DenyVacation(w http.ResponseWriter, r *http.Request) {
	result, err := h.requestService.DenyVacation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("DenyVacation service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Vacation request denied", result)
}

// ListCorrections handles GET /requests/corrections
func (h *requestHandlerImpl) ListCorrections(w http.ResponseWriter, r *http.Request) {
	result, err := h.requestService.ListCorrections(r.Context(), listFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// GetCorrection handles GET /requests/corrections/{id}
func (h *requestHandlerImpl) GetCorrection(w http.ResponseWriter, r *http.Request) {
	result, err := h.requestService.GetCorrection(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ApproveCorrection handles POST /requests/corrections/{id}/approve
func (h *requestHandlerImpl) ApproveCorrection(w http.ResponseWriter, r *http.Request) {
	result, err := h.requestService.ApproveCorrection(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("ApproveCorrection service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Correction request approved", result)
}

// DenyCorrection handles POST /requests/corrections/{id}/deny
func (h *requestHandlerImpl) DenyCorrection(w http.ResponseWriter, r *http.Request) {
	result, err := h.requestService.DenyCorrection(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		slog.Error("DenyCorrection service error", "error", err)
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Correction request denied", result)
}
