package timecalc

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultExpectedHours is used whenever a schedule cannot answer for a day.
const DefaultExpectedHours = 8.0

// Epoch is the reference Monday that rotation week numbers are counted from.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// WeekTemplate maps each weekday to its expected hours for one week of a rotation.
type WeekTemplate map[Weekday]float64

// ScheduleConfig is a user's working time contract.
type ScheduleConfig struct {
	IsHourly       bool           `json:"isHourly"`
	IsPercentage   bool           `json:"isPercentage"`
	ScheduleCycle  int            `json:"scheduleCycle"`
	WeeklySchedule []WeekTemplate `json:"weeklySchedule"`
}

// DefaultWeekTemplate returns a fresh Monday-Friday 8 hour week.
func DefaultWeekTemplate() WeekTemplate {
	return WeekTemplate{
		Monday: 8, Tuesday: 8, Wednesday: 8, Thursday: 8, Friday: 8,
		Saturday: 0, Sunday: 0,
	}
}

// ResizeCycle truncates weeks to n entries or pads it with default templates.
// The input slice is not modified.
func ResizeCycle(weeks []WeekTemplate, n int) []WeekTemplate {
	if n <= 0 {
		return []WeekTemplate{}
	}
	out := make([]WeekTemplate, n)
	for i := range out {
		if i < len(weeks) && weeks[i] != nil {
			out[i] = weeks[i].clone()
			continue
		}
		out[i] = DefaultWeekTemplate()
	}
	return out
}

// ExpectedHours resolves the contractual hours of cfg for day. Hourly and
// percentage based contracts have no fixed daily expectation and yield 0.
func ExpectedHours(day time.Time, cfg ScheduleConfig, fallback float64) float64 {
	if cfg.IsHourly || cfg.IsPercentage {
		return 0
	}
	if cfg.ScheduleCycle <= 0 || len(cfg.WeeklySchedule) == 0 {
		return fallback
	}

	weekIndex := floorDiv(daysBetween(Epoch, day), 7)
	cycleIndex := floorMod(weekIndex, cfg.ScheduleCycle)
	if cycleIndex >= len(cfg.WeeklySchedule) {
		return fallback
	}

	hours, ok := cfg.WeeklySchedule[cycleIndex][WeekdayOf(day)]
	if !ok || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return fallback
	}
	return hours
}

// ExpectedMinutes is ExpectedHours rounded to whole minutes.
func ExpectedMinutes(day time.Time, cfg ScheduleConfig, fallback float64) int {
	return int(math.Round(ExpectedHours(day, cfg, fallback) * 60))
}

func (w WeekTemplate) clone() WeekTemplate {
	c := make(WeekTemplate, len(w))
	for k, v := range w {
		c[k] = v
	}
	return c
}

// MarshalJSON writes the template keyed by lowercase English day names.
func (w WeekTemplate) MarshalJSON() ([]byte, error) {
	m := make(map[string]float64, len(w))
	for d, h := range w {
		if d.Valid() {
			m[d.String()] = h
		}
	}
	return json.Marshal(m)
}

// UnmarshalJSON accepts numbers or numeric strings per day. Unknown days and
// values that are not finite numbers are dropped so lookups fall back to the
// default hours.
func (w *WeekTemplate) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(WeekTemplate, len(raw))
	for name, value := range raw {
		day, ok := ParseWeekday(name)
		if !ok {
			continue
		}
		if hours, ok := parseHours(value); ok {
			out[day] = hours
		}
	}
	*w = out
	return nil
}

func parseHours(value json.RawMessage) (float64, bool) {
	var n float64
	if err := json.Unmarshal(value, &n); err == nil {
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	}

	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
