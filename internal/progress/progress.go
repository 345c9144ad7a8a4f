package progress

import (
	"sort"
	"time"

	"github.com/example/fransbot/internal/practice"
	"github.com/example/fransbot/pkg/models"
)

// DayStat aggregates the attempts of one calendar day
type DayStat struct {
	Date     time.Time // Midnight in the location the attempts were recorded in
	Correct  int
	Count    int
	Accuracy float64 // Percentage of correct attempts
}

// Daily groups attempts per calendar day, oldest day first.
func Daily(log []models.Attempt, loc *time.Location) []DayStat {
	if loc == nil {
		loc = time.Local
	}

	byDay := make(map[time.Time]*DayStat)
	for _, a := range log {
		ts := a.Timestamp.In(loc)
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, loc)
		stat, ok := byDay[day]
		if !ok {
			stat = &DayStat{Date: day}
			byDay[day] = stat
		}
		stat.Count++
		if a.Correct {
			stat.Correct++
		}
	}

	stats := make([]DayStat, 0, len(byDay))
	for _, stat := range byDay {
		stat.Accuracy = float64(stat.Correct) / float64(stat.Count) * 100
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Date.Before(stats[j].Date)
	})
	return stats
}

// HardItem is an active item with its mastery record
type HardItem struct {
	Item    models.Item
	Mastery models.Mastery
}

// Hardest returns up to n items of the active set, most errors first.
// Ties go to the item practised longest ago; never-practised items come last.
func Hardest(session *practice.Session, n int) []HardItem {
	active := session.Active()
	items := make([]HardItem, 0, len(active))
	seen := make(map[models.Item]bool, len(active))
	for _, item := range active {
		if seen[item] {
			continue
		}
		seen[item] = true
		m, _ := session.Metadata.Get(item)
		items = append(items, HardItem{Item: item, Mastery: m})
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].Mastery, items[j].Mastery
		if a.ErrorCount != b.ErrorCount {
			return a.ErrorCount > b.ErrorCount
		}
		if a.Practiced() != b.Practiced() {
			return a.Practiced()
		}
		return a.LastPracticed.Before(b.LastPracticed)
	})

	if n >= 0 && len(items) > n {
		items = items[:n]
	}
	return items
}
