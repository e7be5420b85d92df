package request

import "github.com/cmlabs-hris/timesheet-go/internal/pkg/validator"

// ListFilter narrows request listings. Empty fields match everything. From and
// To select requests overlapping the inclusive date range.
type ListFilter struct {
	Status   Status
	Username string
	From     string
	To       string
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != "" && !f.Status.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of pending, approved, denied",
		})
	}
	if f.Username != "" && !validator.IsValidUsername(f.Username) {
		errs = append(errs, validator.ValidationError{
			Field:   "username",
			Message: "username may only contain letters, numbers, dots, underscores, hyphens and @",
		})
	}
	if f.From != "" {
		if _, ok := validator.IsValidDate(f.From); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "from",
				Message: "from must be in YYYY-MM-DD format",
			})
		}
	}
	if f.To != "" {
		if _, ok := validator.IsValidDate(f.To); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: "to must be in YYYY-MM-DD format",
			})
		}
	}
	if f.From != "" && f.To != "" && f.To < f.From {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must not be before from",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// MatchVacation applies f to v.
func (f ListFilter) MatchVacation(v VacationRequest) bool {
	end := v.EndDate
	if end == "" {
		end = v.StartDate
	}
	return f.match(v.Status(), v.Username, v.StartDate, end)
}

// MatchCorrection applies f to c.
func (f ListFilter) MatchCorrection(c CorrectionRequest) bool {
	return f.match(c.Status(), c.Username, c.Date, c.Date)
}

func (f ListFilter) match(status Status, username, start, end string) bool {
	if f.Status != "" && status != f.Status {
		return false
	}
	if f.Username != "" && username != f.Username {
		return false
	}
	if f.From != "" && end < f.From {
		return false
	}
	if f.To != "" && start > f.To {
		return false
	}
	return true
}

type VacationResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	HalfDay   bool   `json:"half_day"`
	Reason    string `json:"reason,omitempty"`
	Approved  bool   `json:"approved"`
	Denied    bool   `json:"denied"`
	Status    Status `json:"status"`
}

func NewVacationResponse(v VacationRequest) VacationResponse {
	return VacationResponse{
		ID:        v.ID,
		Username:  v.Username,
		StartDate: v.StartDate,
		EndDate:   v.EndDate,
		HalfDay:   v.HalfDay,
		Reason:    v.Reason,
		Approved:  v.Approved,
		Denied:    v.Denied,
		Status:    v.Status(),
	}
}

type CorrectionResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Date       string `json:"date"`
	WorkStart  string `json:"work_start,omitempty"`
	BreakStart string `json:"break_start,omitempty"`
	BreakEnd   string `json:"break_end,omitempty"`
	WorkEnd    string `json:"work_end,omitempty"`
	Reason     string `json:"reason,omitempty"`
	Approved   bool   `json:"approved"`
	Denied     bool   `json:"denied"`
	Status     Status `json:"status"`
}

func NewCorrectionResponse(c CorrectionRequest) CorrectionResponse {
	return CorrectionResponse{
		ID:         c.ID,
		Username:   c.Username,
		Date:       c.Date,
		WorkStart:  c.WorkStart,
		BreakStart: c.BreakStart,
		BreakEnd:   c.BreakEnd,
		WorkEnd:    c.WorkEnd,
		Reason:     c.Reason,
		Approved:   c.Approved,
		Denied:     c.Denied,
		Status:     c.Status(),
	}
}

type ListVacationResponse struct {
	Vacations []VacationResponse `json:"vacations"`
	Total     int                `json:"total"`
}

type ListCorrectionResponse struct {
	Corrections []CorrectionResponse `json:"corrections"`
	Total       int                  `json:"total"`
}
