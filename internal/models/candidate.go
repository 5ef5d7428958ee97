package models

// ReadinessTier buckets a match score for display.
type ReadinessTier string

const (
	ReadinessHigh   ReadinessTier = "High"
	ReadinessMedium ReadinessTier = "Medium"
	ReadinessLow    ReadinessTier = "Low"
)

// DistrictProximity is the coarse distance label between a worker and the outbreak district.
type DistrictProximity string

const (
	SameDistrict      DistrictProximity = "Same District"
	DifferentDistrict DistrictProximity = "Different District"
)

// RankedCandidate is a scored candidate ready for ranking and display.
type RankedCandidate struct {
	Worker             CandidateWorker
	Competencies       []string
	LatestAvailability *AvailabilityRecord
	MatchScore         int
	Readiness          ReadinessTier
	DistrictMatch      DistrictProximity
	MatchedPosition    string
}
