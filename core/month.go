package core

import "time"

// MonthGrid is the month-view data structure: full weeks (Sunday-first)
// covering the month, with leading/trailing days borrowed from the adjacent
// months. Rendering is a caller concern.
type MonthGrid struct {
	Year  int         `json:"year"`
	Month time.Month  `json:"month"`
	Weeks []MonthWeek `json:"weeks"`
}

type MonthWeek struct {
	Days []MonthDay `json:"days"`
}

type MonthDay struct {
	Date    time.Time `json:"date"`
	InMonth bool      `json:"inMonth"`
	Events  []Event   `json:"events"`
}

// BuildMonth assembles the grid for year/month, attaching to each day the
// occurrences landing on it.
func BuildMonth(year int, month time.Month, events []Event) MonthGrid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	lead := int(first.Weekday())
	total := (lead + daysInMonth + 6) / 7 * 7

	days := make([]MonthDay, 0, total)

	for i := 0; i < total; i++ {
		date := first.AddDate(0, 0, i-lead)
		days = append(days, MonthDay{
			Date:    date,
			InMonth: date.Month() == month && date.Year() == year,
			Events:  EventsOnDate(date, events),
		})
	}

	grid := MonthGrid{Year: year, Month: month, Weeks: make([]MonthWeek, 0, total/7)}
	for i := 0; i < len(days); i += 7 {
		grid.Weeks = append(grid.Weeks, MonthWeek{Days: days[i : i+7]})
	}

	return grid
}
