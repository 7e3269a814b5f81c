package domain

import (
	"fmt"
	"time"
)

// Chore names a recurring maintenance task.
type Chore string

const (
	ChoreCleaning    Chore = "cleaning"
	ChoreWaterChange Chore = "water_change"
)

// Status classifies a due date relative to today.
type Status string

const (
	StatusOverdue  Status = "overdue"
	StatusDueToday Status = "due_today"
	StatusUpcoming Status = "upcoming"
)

// Advance returns last moved forward by days calendar days.
func Advance(last time.Time, days int) time.Time {
	return last.AddDate(0, 0, days)
}

const secondsPerDay = 24 * 60 * 60

// DaysUntil returns the signed number of calendar days from now to due.
// Both are truncated to midnight in now's location. Negative means overdue.
func DaysUntil(due, now time.Time) int {
	loc := now.Location()
	dy, dm, dd := due.In(loc).Date()
	ny, nm, nd := now.Date()

	// Calendar dates compared in UTC so DST shifts never leave a 23h or 25h day.
	d := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	n := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return int((d.Unix() - n.Unix()) / secondsPerDay)
}

// StatusFor maps a signed day count to a status.
func StatusFor(days int) Status {
	switch {
	case days < 0:
		return StatusOverdue
	case days == 0:
		return StatusDueToday
	default:
		return StatusUpcoming
	}
}

// Color is the badge color shown for the status.
func (s Status) Color() string {
	switch s {
	case StatusOverdue:
		return "red"
	case StatusDueToday:
		return "yellow"
	default:
		return "green"
	}
}

// Label renders the human text for a signed day count.
func Label(days int) string {
	switch {
	case days < 0:
		return fmt.Sprintf("%d days overdue", -days)
	case days == 0:
		return "Due today"
	default:
		return fmt.Sprintf("In %d days", days)
	}
}

// Due is the computed state of one chore.
type Due struct {
	Chore     Chore     `json:"chore"`
	NextDue   time.Time `json:"nextDue"`
	DaysUntil int       `json:"daysUntil"`
	Status    Status    `json:"status"`
	Color     string    `json:"color"`
	Label     string    `json:"label"`
}

// DueFor computes the state of a single chore.
func DueFor(chore Chore, next, now time.Time) Due {
	days := DaysUntil(next, now)
	status := StatusFor(days)
	return Due{
		Chore:     chore,
		NextDue:   next,
		DaysUntil: days,
		Status:    status,
		Color:     status.Color(),
		Label:     Label(days),
	}
}

// DueReport returns the cleaning and water change state of a.
func DueReport(a Aquarium, now time.Time) []Due {
	return []Due{
		DueFor(ChoreCleaning, a.NextCleaning, now),
		DueFor(ChoreWaterChange, a.NextPartialWaterChange, now),
	}
}

// Reminder is a chore that needs attention now.
type Reminder struct {
	AquariumID string `json:"aquariumId"`
	Name       string `json:"name"`
	Due
}

// Reminders lists the overdue and due-today chores across records, in record order.
func Reminders(records []Aquarium, now time.Time) []Reminder {
	var out []Reminder
	for _, a := range records {
		for _, d := range DueReport(a, now) {
			if d.Status == StatusUpcoming {
				continue
			}
			out = append(out, Reminder{AquariumID: a.ID, Name: a.Name, Due: d})
		}
	}
	return out
}
