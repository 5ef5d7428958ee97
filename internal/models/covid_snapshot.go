package models

import (
	"encoding/json"
	"time"
)

// CovidSnapshot stores one reading of national COVID-19 figures.
type CovidSnapshot struct {
	ID          string          `db:"id" json:"id"`
	Source      string          `db:"source" json:"source"`
	DistrictID  *string         `db:"district_id" json:"district_id,omitempty"`
	Cases       int64           `db:"cases" json:"cases"`
	TodayCases  int64           `db:"today_cases" json:"today_cases"`
	Deaths      int64           `db:"deaths" json:"deaths"`
	TodayDeaths int64           `db:"today_deaths" json:"today_deaths"`
	Recovered   int64           `db:"recovered" json:"recovered"`
	Active      int64           `db:"active" json:"active"`
	Raw         json.RawMessage `db:"raw" json:"raw,omitempty"`
	RecordedAt  time.Time       `db:"recorded_at" json:"recorded_at"`
}

// CovidSnapshotFilter captures list options for snapshots.
type CovidSnapshotFilter struct {
	Source string
	Paging
}
