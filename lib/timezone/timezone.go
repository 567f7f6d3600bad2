package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/Brussels")
	if err != nil {
		panic(err)
	}
}

// force the clock into Brussels time because parliament sitting dates
// are CET/CEST and servers may end up in other regions, which disturbs
// date math based on <time.Time>.Year()/Month()/Day()
func Now() time.Time {
	return time.Now().In(Location)
}

// Date interprets a calendar day in the parliament's timezone.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, Location)
}
