package i18n

import (
	"golang.org/x/text/language"

	"github.com/cmlabs-hris/timesheet-go/internal/pkg/timecalc"
)

// Lang identifies one of the shipped dictionaries.
type Lang string

const (
	English Lang = "en"
	German  Lang = "de"
)

// MissingTranslation is returned for keys no dictionary knows.
const MissingTranslation = "⟨missing translation⟩"

// Key names a translatable label.
type Key int

const (
	KeyMondayShort Key = iota
	KeyTuesdayShort
	KeyWednesdayShort
	KeyThursdayShort
	KeyFridayShort
	KeySaturdayShort
	KeySundayShort

	KeyColumnDate
	KeyColumnWorkStart
	KeyColumnBreakStart
	KeyColumnBreakEnd
	KeyColumnWorkEnd
	KeyColumnWorked
	KeyColumnExpected
	KeyColumnDiff
	KeyColumnStatus
	KeyColumnUser
	KeyWeekTotal
	KeyReportTitle

	KeyNoEntries
	KeyIncomplete
	KeyComplete

	KeyPending
	KeyApproved
	KeyDenied

	keyCount
)

type dictionary map[Key]string

var dictionaries = map[Lang]dictionary{
	English: {
		KeyMondayShort:      "Mon",
		KeyTuesdayShort:     "Tue",
		KeyWednesdayShort:   "Wed",
		KeyThursdayShort:    "Thu",
		KeyFridayShort:      "Fri",
		KeySaturdayShort:    "Sat",
		KeySundayShort:      "Sun",
		KeyColumnDate:       "Date",
		KeyColumnWorkStart:  "Work start",
		KeyColumnBreakStart: "Break start",
		KeyColumnBreakEnd:   "Break end",
		KeyColumnWorkEnd:    "Work end",
		KeyColumnWorked:     "Worked (min)",
		KeyColumnExpected:   "Expected (min)",
		KeyColumnDiff:       "Difference",
		KeyColumnStatus:     "Status",
		KeyColumnUser:       "User",
		KeyWeekTotal:        "Week total",
		KeyReportTitle:      "Weekly time report",
		KeyNoEntries:        "no entries",
		KeyIncomplete:       "incomplete",
		KeyComplete:         "complete",
		KeyPending:          "pending",
		KeyApproved:         "approved",
		KeyDenied:           "denied",
	},
	German: {
		KeyMondayShort:      "Mo",
		KeyTuesdayShort:     "Di",
		KeyWednesdayShort:   "Mi",
		KeyThursdayShort:    "Do",
		KeyFridayShort:      "Fr",
		KeySaturdayShort:    "Sa",
		KeySundayShort:      "So",
		KeyColumnDate:       "Datum",
		KeyColumnWorkStart:  "Arbeitsbeginn",
		KeyColumnBreakStart: "Pausenbeginn",
		KeyColumnBreakEnd:   "Pausenende",
		KeyColumnWorkEnd:    "Arbeitsende",
		KeyColumnWorked:     "Gearbeitet (Min.)",
		KeyColumnExpected:   "Soll (Min.)",
		KeyColumnDiff:       "Differenz",
		KeyColumnStatus:     "Status",
		KeyColumnUser:       "Benutzer",
		KeyWeekTotal:        "Wochensumme",
		KeyReportTitle:      "Wöchentlicher Zeitbericht",
		KeyNoEntries:        "keine Einträge",
		KeyIncomplete:       "unvollständig",
		KeyComplete:         "vollständig",
		KeyPending:          "offen",
		KeyApproved:         "genehmigt",
		KeyDenied:           "abgelehnt",
	},
}

var supported = []language.Tag{language.English, language.German}

var matcher = language.NewMatcher(supported)

// Translate looks key up in lang, then in English, then gives up with
// MissingTranslation. The key itself is never returned.
func Translate(lang Lang, key Key) string {
	if s, ok := dictionaries[lang][key]; ok {
		return s
	}
	if s, ok := dictionaries[English][key]; ok {
		return s
	}
	return MissingTranslation
}

// Match picks the best dictionary for an Accept-Language header value.
func Match(acceptLanguage string) Lang {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return English
	}
	_, idx, _ := matcher.Match(tags...)
	if idx == 1 {
		return German
	}
	return English
}

// Parse resolves a language code such as "de" or "de-AT"; unknown codes yield English.
func Parse(code string) Lang {
	if code == "" {
		return English
	}
	return Match(code)
}

var weekdayKeys = map[timecalc.Weekday]Key{
	timecalc.Monday:    KeyMondayShort,
	timecalc.Tuesday:   KeyTuesdayShort,
	timecalc.Wednesday: KeyWednesdayShort,
	timecalc.Thursday:  KeyThursdayShort,
	timecalc.Friday:    KeyFridayShort,
	timecalc.Saturday:  KeySaturdayShort,
	timecalc.Sunday:    KeySundayShort,
}

// WeekdayShort is the abbreviated day name of d in lang.
func WeekdayShort(lang Lang, d timecalc.Weekday) string {
	key, ok := weekdayKeys[d]
	if !ok {
		return MissingTranslation
	}
	return Translate(lang, key)
}

// Status translates a day status.
func Status(lang Lang, s timecalc.DayStatus) string {
	switch s {
	case timecalc.StatusComplete:
		return Translate(lang, KeyComplete)
	case timecalc.StatusIncomplete:
		return Translate(lang, KeyIncomplete)
	case timecalc.StatusNoEntries:
		return Translate(lang, KeyNoEntries)
	}
	return MissingTranslation
}
