// Package calendar answers whether the local futures market trades on a date.
package calendar

import "time"

// NextTradingDay returns the first trading day strictly after from.
func NextTradingDay(from time.Time) time.Time {
	d := truncateToDate(from).AddDate(0, 0, 1)
	for !IsTradingDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// fixedHolidays are the non-movable national holidays (MM-DD).
var fixedHolidays = map[string]struct{}{
	"01-01": {}, // New Year
	"03-24": {}, // Remembrance Day for Truth and Justice
	"04-02": {}, // Malvinas Veterans Day
	"05-01": {}, // Labor Day
	"05-25": {}, // May Revolution
	"06-20": {}, // Flag Day
	"07-09": {}, // Independence Day
	"12-08": {}, // Immaculate Conception
	"12-25": {}, // Christmas
}

// IsTradingDay returns true if date is a trading day in Argentina.
func IsTradingDay(d time.Time) bool {
	// Weekend
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}

	if _, ok := fixedHolidays[d.Format("01-02")]; ok {
		return false
	}

	// Movable holidays (computed from Easter)
	easter := easterSunday(d.Year(), d.Location())
	movables := []time.Time{
		easter.AddDate(0, 0, -48), // Carnival Monday
		easter.AddDate(0, 0, -47), // Carnival Tuesday
		easter.AddDate(0, 0, -3),  // Holy Thursday
		easter.AddDate(0, 0, -2),  // Good Friday
	}
	day := truncateToDate(d)
	for _, m := range movables {
		if m.Equal(day) {
			return false
		}
	}

	return true
}

// easterSunday returns the date of Easter Sunday for a given year
// (Meeus/Jones/Butcher algorithm).
func easterSunday(year int, loc *time.Location) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
}
