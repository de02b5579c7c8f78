package health

import (
	"sort"

	"github.com/healthhub-app/healthhub/backend/internal/models"
)

const dateLayout = "2006-01-02"

// BuildView reshapes a user's records into the dashboard structure. The
// store hands records newest-first; charts want them oldest-first, so the
// rows are re-sorted date-ascending here at the presentation boundary
// (stable, so same-date rows keep their relative order). An empty input
// produces the explicit no-data sentinel rather than an empty table.
func BuildView(records []models.HealthRecord) models.DashboardView {
	if len(records) == 0 {
		return models.DashboardView{HasData: false}
	}

	asc := make([]models.HealthRecord, len(records))
	copy(asc, records)
	sort.SliceStable(asc, func(i, j int) bool {
		return asc[i].Date.Before(asc[j].Date)
	})

	rows := make([]models.DashboardRow, 0, len(asc))
	series := &models.DashboardSeries{
		Dates:    make([]string, 0, len(asc)),
		Steps:    make([]int, 0, len(asc)),
		Water:    make([]float64, 0, len(asc)),
		Sleep:    make([]float64, 0, len(asc)),
		Calories: make([]int, 0, len(asc)),
	}
	moodCounts := make(map[models.Mood]int)

	for _, rec := range asc {
		date := rec.Date.Format(dateLayout)
		rows = append(rows, models.DashboardRow{
			Date:        date,
			Steps:       rec.Steps,
			WaterLiters: rec.WaterLiters,
			SleepHours:  rec.SleepHours,
			Mood:        rec.Mood,
			Calories:    rec.Calories,
		})
		series.Dates = append(series.Dates, date)
		series.Steps = append(series.Steps, rec.Steps)
		series.Water = append(series.Water, rec.WaterLiters)
		series.Sleep = append(series.Sleep, rec.SleepHours)
		series.Calories = append(series.Calories, rec.Calories)
		moodCounts[rec.Mood]++
	}

	return models.DashboardView{
		HasData:    true,
		Rows:       rows,
		Series:     series,
		MoodCounts: moodCounts,
	}
}
