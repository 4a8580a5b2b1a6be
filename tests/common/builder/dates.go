//go:build unit || e2e

package builder

import "time"

// BaseDate anchors test calendars so assertions do not depend on the wall clock.
var BaseDate = time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)

// Now is mid-morning on BaseDate.
var Now = BaseDate.Add(9 * time.Hour)

// Day returns the n-th day of BaseDate's month (Day(1) == BaseDate).
func Day(n int) time.Time {
	return BaseDate.AddDate(0, 0, n-1)
}
