package request

// Status is derived from the approved/denied pair; both false means pending.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusDenied
}

// Decision is the approved/denied pair shared by every reviewable request.
// At most one of the two is ever set.
type Decision struct {
	Approved bool
	Denied   bool
}

func (d Decision) Status() Status {
	switch {
	case d.Approved:
		return StatusApproved
	case d.Denied:
		return StatusDenied
	default:
		return StatusPending
	}
}

func (d *Decision) decide(approve bool) error {
	if d.Approved || d.Denied {
		return ErrRequestAlreadyProcessed
	}
	d.Approved = approve
	d.Denied = !approve
	return nil
}

type VacationRequest struct {
	ID        string
	Username  string
	StartDate string
	EndDate   string
	HalfDay   bool
	Reason    string
	Decision
}

func (v *VacationRequest) Approve() error { return v.decide(true) }
func (v *VacationRequest) Deny() error    { return v.decide(false) }

// Covers reports whether date (YYYY-MM-DD) falls inside the vacation.
func (v VacationRequest) Covers(date string) bool {
	end := v.EndDate
	if end == "" {
		end = v.StartDate
	}
	return date >= v.StartDate && date <= end
}

type CorrectionRequest struct {
	ID         string
	Username   string
	Date       string
	WorkStart  string
	BreakStart string
	BreakEnd   string
	WorkEnd    string
	Reason     string
	Decision
}

func (c *CorrectionRequest) Approve() error { return c.decide(true) }
func (c *CorrectionRequest) Deny() error    { return c.decide(false) }
