package utils

import "time"

// Paris time, used for receipts and display.
var parisLoc = func() *time.Location {
	if loc, err := time.LoadLocation("Europe/Paris"); err == nil {
		return loc
	}
	return time.FixedZone("CET", 1*3600)
}()

func FormatDisplayParis(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(parisLoc).Format("02/01/2006 15:04")
}
