package analysis

import (
	"fmt"
	"math"
)

// TimeSavedHours is the unformatted estimate of review hours saved. It grows
// monotonically from 1 toward 2. Negative inputs count as zero.
func TimeSavedHours(pageCount, totalClauses int) float64 {
	s := float64(max(pageCount, 0))*2 + float64(max(totalClauses, 0))*1.5
	return 1 + s/(s+50)
}

// EstimateTimeSaved formats TimeSavedHours as "{H} hr {M} min". Minutes are
// rounded half away from zero after the hours are floored.
func EstimateTimeSaved(pageCount, totalClauses int) string {
	h := TimeSavedHours(pageCount, totalClauses)
	hours := math.Floor(h)
	minutes := math.Round((h - hours) * 60)
	return fmt.Sprintf("%d hr %d min", int(hours), int(minutes))
}
