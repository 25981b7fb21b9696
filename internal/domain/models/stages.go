// internal/domain/models/stages.go
package models

// Canonical school stage identifiers, stored in Draft.Stage and
// Resource.Stage and used as filter values in library search.
const (
	StageEarlyYears = "early_years"
	StagePrimary    = "primary"
	StageMiddle     = "middle"
	StageSecondary  = "secondary"
	StageSenior     = "senior"
)

// Stages is the full set of allowed stage identifiers.
var Stages = []string{
	StageEarlyYears,
	StagePrimary,
	StageMiddle,
	StageSecondary,
	StageSenior,
}

// IsValidStage reports whether s is one of the canonical stage identifiers.
func IsValidStage(s string) bool {
	for _, v := range Stages {
		if v == s {
			return true
		}
	}
	return false
}

// Canonical grouping identifiers for a lesson step.
const (
	GroupingWholeClass  = "whole_class"
	GroupingSmallGroups = "small_groups"
	GroupingPairs       = "pairs"
	GroupingIndividual  = "individual"
	GroupingStations    = "stations"
)

// Groupings is the full set of allowed grouping identifiers.
var Groupings = []string{
	GroupingWholeClass,
	GroupingSmallGroups,
	GroupingPairs,
	GroupingIndividual,
	GroupingStations,
}

// IsValidGrouping reports whether g is one of the canonical grouping
// identifiers.
func IsValidGrouping(g string) bool {
	for _, v := range Groupings {
		if v == g {
			return true
		}
	}
	return false
}

// Canonical delivery mode identifiers for a lesson step.
const (
	DeliveryTeacherLed  = "teacher_led"
	DeliveryGuided      = "guided"
	DeliveryStudentLed  = "student_led"
	DeliveryIndependent = "independent"
)

// DeliveryModes is the full set of allowed delivery mode identifiers.
var DeliveryModes = []string{
	DeliveryTeacherLed,
	DeliveryGuided,
	DeliveryStudentLed,
	DeliveryIndependent,
}

// IsValidDeliveryMode reports whether m is one of the canonical delivery
// mode identifiers.
func IsValidDeliveryMode(m string) bool {
	for _, v := range DeliveryModes {
		if v == m {
			return true
		}
	}
	return false
}
