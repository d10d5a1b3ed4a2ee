package i18n

import (
	"fmt"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/tr"
)

// calendar holds the date and time conventions of one language. Names come
// from the CLDR tables in go-playground/locales.
type calendar struct {
	names    locales.Translator
	clock    func(t time.Time) string
	dayFirst bool
}

var calendars = newCalendars()

func newCalendars() map[Language]calendar {
	turkish := tr.New()

	return map[Language]calendar{
		English: {
			names: en.New(),
			// CLDR's short English time is "h:mm a"; the dashboard shows two-digit hours.
			clock: func(t time.Time) string { return t.Format("03:04 PM") },
		},
		Turkish: {
			names:    turkish,
			clock:    turkish.FmtTimeShort,
			dayFirst: true,
		},
	}
}

func calendarFor(lang Language) calendar {
	if c, ok := calendars[lang]; ok {
		return c
	}
	return calendars[Default]
}

// Clock formats t as a two-digit hour and minute: "03:00 PM" in English,
// "15:00" in Turkish.
func (l Language) Clock(t time.Time) string {
	return calendarFor(l).clock(t)
}

// Weekday returns the short weekday name of t.
func (l Language) Weekday(t time.Time) string {
	return calendarFor(l).names.WeekdayAbbreviated(t.Weekday())
}

// ShortDate returns the day and short month of t: "Oct 17" or "17 Eki".
func (l Language) ShortDate(t time.Time) string {
	c := calendarFor(l)
	month := c.names.MonthAbbreviated(t.Month())
	if c.dayFirst {
		return fmt.Sprintf("%d %s", t.Day(), month)
	}
	return fmt.Sprintf("%s %d", month, t.Day())
}
