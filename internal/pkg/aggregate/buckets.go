// Package aggregate builds fixed calendar windows (years, months, days) and
// zero-fills grouped counts into them, so trend series never have holes.
package aggregate

import (
	"strconv"
	"time"
)

// Key layouts shared with the SQL side (to_char patterns YYYY, YYYY-MM and
// YYYY-MM-DD).
const (
	MonthKeyLayout = "2006-01"
	DayKeyLayout   = "2006-01-02"
)

// Bucket is one calendar slot [Start, End).
type Bucket struct {
	Key   string
	Label string
	Start time.Time
	End   time.Time
}

// Years returns the buckets endYear-span through endYear inclusive, oldest
// first, in loc.
func Years(endYear, span int, loc *time.Location) []Bucket {
	buckets := make([]Bucket, 0, span+1)
	for y := endYear - span; y <= endYear; y++ {
		start := time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		key := strconv.Itoa(y)
		buckets = append(buckets, Bucket{Key: key, Label: key, Start: start, End: start.AddDate(1, 0, 0)})
	}
	return buckets
}

// Months returns the n months ending with the month of now, oldest first, in
// now's location.
func Months(now time.Time, n int) []Bucket {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	buckets := make([]Bucket, 0, n)
	for i := n - 1; i >= 0; i-- {
		start := first.AddDate(0, -i, 0)
		buckets = append(buckets, Bucket{
			Key:   start.Format(MonthKeyLayout),
			Label: start.Format("Jan"),
			Start: start,
			End:   start.AddDate(0, 1, 0),
		})
	}
	return buckets
}

// Days returns the n days ending with the day of now, oldest first, in now's
// location.
func Days(now time.Time, n int) []Bucket {
	today := StartOfDay(now)
	buckets := make([]Bucket, 0, n)
	for i := n - 1; i >= 0; i-- {
		start := today.AddDate(0, 0, -i)
		buckets = append(buckets, Bucket{
			Key:   start.Format(DayKeyLayout),
			Label: start.Format("Jan 02"),
			Start: start,
			End:   start.AddDate(0, 0, 1),
		})
	}
	return buckets
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Since is the start of the oldest bucket, the lower bound to query from.
func Since(buckets []Bucket) time.Time {
	if len(buckets) == 0 {
		return time.Time{}
	}
	return buckets[0].Start
}

// DayKey formats t as a day key after converting it to loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayKeyLayout)
}

// CountBy groups timestamps into keys produced by key.
func CountBy(times []time.Time, key func(time.Time) string) map[string]int64 {
	counts := make(map[string]int64)
	for _, t := range times {
		counts[key(t)]++
	}
	return counts
}

// Point is a single zero-filled bucket count.
type Point struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// ZeroFill emits one point per bucket, in bucket order, taking the count
// from counts or zero. Keys in counts outside the window are ignored.
func ZeroFill(buckets []Bucket, counts map[string]int64) []Point {
	points := make([]Point, len(buckets))
	for i, b := range buckets {
		points[i] = Point{Key: b.Key, Label: b.Label, Count: counts[b.Key]}
	}
	return points
}

// Row is one bucket across several named series.
type Row struct {
	Bucket
	Values map[string]int64
}

// Zip aligns several grouped series on the same buckets. Every row has a
// value, possibly zero, for every series name.
func Zip(buckets []Bucket, series map[string]map[string]int64) []Row {
	rows := make([]Row, len(buckets))
	for i, b := range buckets {
		values := make(map[string]int64, len(series))
		for name, counts := range series {
			values[name] = counts[b.Key]
		}
		rows[i] = Row{Bucket: b, Values: values}
	}
	return rows
}

// Sum adds the counts of the points whose bucket starts at or after from.
func Sum(points []Point, buckets []Bucket, from time.Time) int64 {
	var total int64
	for i, p := range points {
		if i < len(buckets) && !buckets[i].Start.Before(from) {
			total += p.Count
		}
	}
	return total
}
