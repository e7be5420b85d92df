package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cmlabs-hris/timesheet-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timesheet-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timesheet-go/internal/handler/http/response"
)

type TimesheetHandler interface {
	// GetWeeklyDashboard handles GET /timesheet/weeks/{week}
	GetWeeklyDashboard(w http.ResponseWriter, r *http.Request)

	// GetUserWeek handles GET /timesheet/weeks/{week}/users/{username}
	GetUserWeek(w http.ResponseWriter, r *http.Request)

	// ExportWeek handles GET /timesheet/weeks/{week}/export
	ExportWeek(w http.ResponseWriter, r *http.Request)

	// EditDay handles PUT /timesheet/users/{username}/days/{date}
	EditDay(w http.ResponseWriter, r *http.Request)

	// UpdateSchedule handles PUT /timesheet/users/{username}/schedule
	UpdateSchedule(w http.ResponseWriter, r *http.Request)
}

type timesheetHandlerImpl struct {
	timesheetService timesheet.TimesheetService
}

func NewTimesheetHandler(timesheetService timesheet.TimesheetService) TimesheetHandler {
	return &timesheetHandlerImpl{
		timesheetService: timesheetService,
	}
}

func weeklyRequest(r *http.Request) timesheet.WeeklyReportRequest {
	return timesheet.WeeklyReportRequest{
		Week: chi.URLParam(r, "week"),
		Lang: middleware.LanguageFromContext(r.Context()),
	}
}

// GetWeeklyDashboard implements TimesheetHandler.
func (h *timesheetHandlerImpl) GetWeeklyDashboard(w http.ResponseWriter, r *http.Request) {
	req := weeklyRequest(r)
	req.Username = r.URL.Query().Get("username")

	result, err := h.timesheetService.GetWeeklyDashboard(r.Context(), req)
	if err != nil {
		slog.Error("GetWeeklyDashboard service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetUserWeek implements TimesheetHandler. Non-admins may only read their own week.
func (h *timesheetHandlerImpl) GetUserWeek(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	req := weeklyRequest(r)
	req.Username = chi.URLParam(r, "username")
	if req.Username == "me" {
		req.Username = claims.Username
	}
	if !claims.IsAdmin && req.Username != claims.Username {
		response.HandleError(w, auth.ErrForbidden)
		return
	}

	result, err := h.timesheetService.GetUserWeek(r.Context(), req)
	if err != nil {
		slog.Error("GetUserWeek service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportWeek implements TimesheetHandler.
func (h *timesheetHandlerImpl) ExportWeek(w http.ResponseWriter, r *http.Request) {
	file, err := h.timesheetService.ExportWeek(r.Context(), weeklyRequest(r))
	if err != nil {
		slog.Error("ExportWeek service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, file.Filename, file.ContentType, file.Data)
}

// EditDay implements TimesheetHandler.
func (h *timesheetHandlerImpl) EditDay(w http.ResponseWriter, r *http.Request) {
	var req timesheet.EditDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("EditDay decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.TargetUsername = chi.URLParam(r, "username")
	req.Date = chi.URLParam(r, "date")

	if err := h.timesheetService.EditDay(r.Context(), req); err != nil {
		slog.Error("EditDay service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Day updated successfully", nil)
}

// UpdateSchedule implements TimesheetHandler.
func (h *timesheetHandlerImpl) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var req timesheet.UpdateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateSchedule decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.TargetUsername = chi.URLParam(r, "username")

	result, err := h.timesheetService.UpdateSchedule(r.Context(), req)
	if err != nil {
		slog.Error("UpdateSchedule service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Schedule updated successfully", result)
}
