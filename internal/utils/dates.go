package utils

import "time"

// AddMonths — календарное "плюс N месяцев" с прижатием к концу месяца:
// 2024-01-31 +1 = 2024-02-29, 2024-02-29 +12 = 2025-02-28.
// time.AddDate здесь не подходит — он переносит излишек в следующий месяц.
func AddMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	m := int(month) + months
	year += (m - 1) / 12
	m = (m-1)%12 + 1
	if m <= 0 {
		m += 12
		year--
	}
	last := daysIn(year, time.Month(m))
	if day > last {
		day = last
	}
	h, min, sec := t.Clock()
	return time.Date(year, time.Month(m), day, h, min, sec, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
