// internal/domain/models/resourcetypes.go
package models

// Canonical resource type identifiers.
//
// These values are stored in the database in the Resource.Type field and are
// used throughout the application as stable, language-agnostic keys.
// Human-facing labels for these types belong to the client.
const (
	ResourceTypeArticle      = "article"
	ResourceTypeAssessment   = "assessment"
	ResourceTypeAudio        = "audio"
	ResourceTypeGame         = "game"
	ResourceTypeImage        = "image"
	ResourceTypeInteractive  = "interactive"
	ResourceTypeLessonPlan   = "lesson_plan"
	ResourceTypePresentation = "presentation"
	ResourceTypeReference    = "reference"
	ResourceTypeResource     = "resource" // generic catch-all; default
	ResourceTypeSimulation   = "simulation"
	ResourceTypeVideo        = "video"
	ResourceTypeWebsite      = "website"
	ResourceTypeWorksheet    = "worksheet"
)

// ResourceTypes is the full set of allowed resource type identifiers.
//
// This slice should be treated as the single source of truth for validation
// and schema enums. Any new type must be added here to be considered valid.
var ResourceTypes = []string{
	ResourceTypeArticle,
	ResourceTypeAssessment,
	ResourceTypeAudio,
	ResourceTypeGame,
	ResourceTypeImage,
	ResourceTypeInteractive,
	ResourceTypeLessonPlan,
	ResourceTypePresentation,
	ResourceTypeReference,
	ResourceTypeResource,
	ResourceTypeSimulation,
	ResourceTypeVideo,
	ResourceTypeWebsite,
	ResourceTypeWorksheet,
}

// DefaultResourceType is used when no specific type is provided.
const DefaultResourceType = ResourceTypeResource

// IsValidResourceType reports whether t is one of the canonical identifiers.
func IsValidResourceType(t string) bool {
	for _, v := range ResourceTypes {
		if v == t {
			return true
		}
	}
	return false
}
