package utils

import "time"

// The server's reference locale; timestamps render in Finnish local time.
var helsinki = loadHelsinki()

func loadHelsinki() *time.Location {
	loc, err := time.LoadLocation("Europe/Helsinki")
	if err != nil {
		return time.UTC
	}
	return loc
}

// FormatDate renders a timestamp the way the forum displays it:
// dd.mm.yyyy hh.mm, 24-hour clock, Europe/Helsinki.
func FormatDate(t time.Time) string {
	return t.In(helsinki).Format("02.01.2006 15.04")
}
