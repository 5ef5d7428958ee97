package models

import (
	"strings"
	"time"
)

// SummaryFilter is the worker-level predicate applied to dashboard breakdowns.
// A nil field, an empty string, or "all" matches everything.
type SummaryFilter struct {
	District     *string `json:"district,omitempty"`
	Gender       *string `json:"gender,omitempty"`
	Organization *string `json:"organization,omitempty"`
	FacilityType *string `json:"facility_type,omitempty"`
}

// NewSummaryFilter builds a filter from raw query values, dropping "all" and blanks.
func NewSummaryFilter(district, gender, organization, facilityType string) SummaryFilter {
	return SummaryFilter{
		District:     normalizeFilterValue(district),
		Gender:       normalizeFilterValue(gender),
		Organization: normalizeFilterValue(organization),
		FacilityType: normalizeFilterValue(facilityType),
	}
}

// IsEmpty reports whether the filter matches every worker.
func (f SummaryFilter) IsEmpty() bool {
	return f.District == nil && f.Gender == nil && f.Organization == nil && f.FacilityType == nil
}

// CacheKey renders a stable key fragment for the filter.
func (f SummaryFilter) CacheKey() string {
	part := func(v *string) string {
		if v == nil {
			return "all"
		}
		return strings.ToLower(*v)
	}
	return strings.Join([]string{part(f.District), part(f.Gender), part(f.Organization), part(f.FacilityType)}, ":")
}

func normalizeFilterValue(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, "all") {
		return nil
	}
	return &trimmed
}

// SummaryTotals holds headline counts for the dashboard.
type SummaryTotals struct {
	TotalWorkers       int `db:"total_workers" json:"total_workers"`
	ActiveWorkers      int `db:"active_workers" json:"active_workers"`
	TotalFacilities    int `db:"total_facilities" json:"total_facilities"`
	TotalOrganizations int `db:"total_organizations" json:"total_organizations"`
	TotalCompetencies  int `db:"total_competencies" json:"total_competencies"`
	TotalTrainings     int `db:"total_trainings" json:"total_trainings"`
}

// GenderCount is one row of the gender breakdown.
type GenderCount struct {
	Gender string `db:"gender" json:"gender"`
	Count  int    `db:"count" json:"count"`
}

// DistrictCount is one row of the unfiltered district rollup.
type DistrictCount struct {
	Name            string `db:"name" json:"name"`
	Code            string `db:"code" json:"code"`
	TotalFacilities int    `db:"total_facilities" json:"total_facilities"`
	TotalWorkers    int    `db:"total_workers" json:"total_workers"`
}

// FacilityTypeCount groups filtered workers by the type of their facility.
type FacilityTypeCount struct {
	FacilityType  string `db:"facility_type" json:"facility_type"`
	FacilityCount int    `db:"facility_count" json:"facility_count"`
	WorkerCount   int    `db:"worker_count" json:"worker_count"`
}

// OrganizationCount is one row of the organization breakdown.
type OrganizationCount struct {
	Name         string `db:"name" json:"name"`
	TotalWorkers int    `db:"total_workers" json:"total_workers"`
}

// CompetencyCount is one row of the competency popularity breakdown.
type CompetencyCount struct {
	Code           string `db:"code" json:"code"`
	Name           string `db:"name" json:"name"`
	TotalTrainings int    `db:"total_trainings" json:"total_trainings"`
}

// TrainingYearCount is one point of the training timeline.
type TrainingYearCount struct {
	Year  int `db:"year" json:"year"`
	Count int `db:"count" json:"count"`
}

// DisabilityStats splits filtered workers by disability flag.
type DisabilityStats struct {
	WithDisability    int `db:"with_disability" json:"with_disability"`
	WithoutDisability int `db:"without_disability" json:"without_disability"`
}

// DashboardSummary is the aggregate registry picture served to the dashboard.
type DashboardSummary struct {
	Summary                  SummaryTotals       `json:"summary"`
	GenderDistribution       []GenderCount       `json:"gender_distribution"`
	DistrictDistribution     []DistrictCount     `json:"district_distribution"`
	FacilityTypes            []FacilityTypeCount `json:"facility_types"`
	OrganizationDistribution []OrganizationCount `json:"organization_distribution"`
	CompetencyPopularity     []CompetencyCount   `json:"competency_popularity"`
	TrainingTimeline         []TrainingYearCount `json:"training_timeline"`
	DisabilityStats          DisabilityStats     `json:"disability_stats"`
	AppliedFilters           SummaryFilter       `json:"applied_filters"`
}

// SystemMetrics represents process level figures captured from instrumentation.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	CandidateSelections      uint64    `json:"candidate_selections"`
	DeploymentsCreated       uint64    `json:"deployments_created"`
	DeploymentsArchived      uint64    `json:"deployments_archived"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
