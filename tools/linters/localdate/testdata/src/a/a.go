package a

import "time"

var loc = time.FixedZone("CST", -6*60*60)

func todayFromHostZone() string {
	return time.Now().Format(time.DateOnly) // want `calendar date from time.Now\(\): convert with .In\(loc\) before calling Format`
}

func todayFromUTC() string {
	return time.Now().UTC().Format(time.DateOnly) // want `calendar date from time.Now\(\): convert with .In\(loc\) before calling Format`
}

func dayOfMonth() int {
	return time.Now().Day() // want `calendar date from time.Now\(\): convert with .In\(loc\) before calling Day`
}

func dateParts() {
	y, m, d := time.Now().Local().Date() // want `calendar date from time.Now\(\): convert with .In\(loc\) before calling Date`
	_, _, _ = y, m, d
}

func todayInLocation() string {
	return time.Now().In(loc).Format(time.DateOnly)
}

func timestamps() time.Time {
	return time.Now().UTC()
}

func injectedClock(now func() time.Time) string {
	return now().In(loc).Format(time.DateOnly)
}

func storedTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func suppressedGeneral() string {
	//nolint
	return time.Now().Format(time.Kitchen)
}

func suppressedSpecific() string {
	return time.Now().Format(time.Kitchen) //nolint:localdate
}

func suppressedOther() string {
	return time.Now().Format(time.Kitchen) //nolint:otherlinter // want `calendar date from time.Now\(\): convert with .In\(loc\) before calling Format`
}
