package scheduler

import "time"

// Forecast counts how many records come due on each of the next days.
// Bucket 0 holds the cards due now or overdue; bucket i holds the cards due
// on the i-th day after now. Records due beyond the horizon are dropped.
func Forecast(records []Record, now time.Time, days int) []int {
	if days <= 0 {
		return nil
	}

	buckets := make([]int, days)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for _, record := range records {
		if record.IsDue(now) {
			buckets[0]++
			continue
		}
		due := record.Due
		day := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, due.Location())
		offset := int(day.Sub(today).Hours() / 24)
		if offset < 0 {
			offset = 0
		}
		if offset >= days {
			continue
		}
		buckets[offset]++
	}
	return buckets
}
