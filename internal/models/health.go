package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mood is the daily mood a user reports with a record.
type Mood string

const (
	MoodHappy   Mood = "Happy"
	MoodNeutral Mood = "Neutral"
	MoodSad     Mood = "Sad"
	MoodAnxious Mood = "Anxious"
)

// ValidMood reports whether m is one of the four known moods.
func ValidMood(m Mood) bool {
	switch m {
	case MoodHappy, MoodNeutral, MoodSad, MoodAnxious:
		return true
	}
	return false
}

// HealthRecord is a single daily submission in the health_records table.
// Records are append-only: multiple rows for the same (username, date) are
// allowed and none are ever updated or deleted.
type HealthRecord struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Date        time.Time `json:"date"`
	Steps       int       `json:"steps"`
	WaterLiters float64   `json:"water_liters"`
	SleepHours  float64   `json:"sleep_hours"`
	Mood        Mood      `json:"mood"`
	Calories    int       `json:"calories"`
	CreatedAt   time.Time `json:"created_at"`
}

// RecordRequest is the JSON body for POST /api/health/records.
type RecordRequest struct {
	Date        string  `json:"date"`
	Steps       int     `json:"steps"`
	WaterLiters float64 `json:"water_liters"`
	SleepHours  float64 `json:"sleep_hours"`
	Mood        Mood    `json:"mood"`
	Calories    int     `json:"calories"`
}

// DashboardRow is one charted row, ordered date-ascending.
type DashboardRow struct {
	Date        string  `json:"date"`
	Steps       int     `json:"steps"`
	WaterLiters float64 `json:"water_liters"`
	SleepHours  float64 `json:"sleep_hours"`
	Mood        Mood    `json:"mood"`
	Calories    int     `json:"calories"`
}

// DashboardSeries holds the numeric series keyed by the Dates slice,
// shaped for line charts on the frontend.
type DashboardSeries struct {
	Dates    []string  `json:"dates"`
	Steps    []int     `json:"steps"`
	Water    []float64 `json:"water_liters"`
	Sleep    []float64 `json:"sleep_hours"`
	Calories []int     `json:"calories"`
}

// DashboardView is the read-side shape for GET /api/health/dashboard.
// HasData distinguishes "zero records" from "all-zero values": when it is
// false the other fields are absent.
type DashboardView struct {
	HasData    bool             `json:"has_data"`
	Rows       []DashboardRow   `json:"rows,omitempty"`
	Series     *DashboardSeries `json:"series,omitempty"`
	MoodCounts map[Mood]int     `json:"mood_counts,omitempty"`
}

// Goal is the dietary goal sent to the advice service.
type Goal string

const (
	GoalLose     Goal = "Lose"
	GoalMaintain Goal = "Maintain"
	GoalGain     Goal = "Gain"
)

// ValidGoal reports whether g is one of the three known goals.
func ValidGoal(g Goal) bool {
	switch g {
	case GoalLose, GoalMaintain, GoalGain:
		return true
	}
	return false
}

// AdviceRequest is the JSON body for POST /api/health/advice.
type AdviceRequest struct {
	Calories int  `json:"calories"`
	Goal     Goal `json:"goal"`
}

// AdviceEntry is a single diet suggestion stored in MongoDB.
type AdviceEntry struct {
	ID        primitive.ObjectID `json:"id"         bson:"_id,omitempty"`
	Username  string             `json:"username"   bson:"username"`
	Calories  int                `json:"calories"   bson:"calories"`
	Goal      Goal               `json:"goal"       bson:"goal"`
	Advice    string             `json:"advice"     bson:"advice"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
