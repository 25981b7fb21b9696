package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Draft is a lesson plan in progress. It is the single document the editor
// mutates; the whole draft is written back on every autosave (last write
// wins, one writer per draft).
type Draft struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Owner string             `bson:"owner" json:"owner"` // anonymous browser identity

	Title         string `bson:"title" json:"title"`
	Objective     string `bson:"objective,omitempty" json:"objective,omitempty"`
	Stage         string `bson:"stage,omitempty" json:"stage,omitempty"`
	Subject       string `bson:"subject,omitempty" json:"subject,omitempty"`
	LessonDate    string `bson:"lesson_date,omitempty" json:"lesson_date,omitempty"` // YYYY-MM-DD
	SchoolLogoURL string `bson:"school_logo_url,omitempty" json:"school_logo_url,omitempty"`

	Steps []Step `bson:"steps" json:"steps"`

	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Step is one ordered unit of lesson delivery. Position in Draft.Steps is
// the delivery order; there is no separate rank field.
type Step struct {
	ID            string `bson:"id" json:"id"`
	Title         string `bson:"title" json:"title"`
	LearningGoals string `bson:"learning_goals,omitempty" json:"learning_goals,omitempty"`
	Duration      string `bson:"duration,omitempty" json:"duration,omitempty"`
	Grouping      string `bson:"grouping,omitempty" json:"grouping,omitempty"`
	DeliveryMode  string `bson:"delivery_mode,omitempty" json:"delivery_mode,omitempty"`
	Notes         string `bson:"notes,omitempty" json:"notes,omitempty"`

	Resources []ResourceLink `bson:"resources" json:"resources"`
}

// ResourceLink is a step-scoped attachment of a library resource. ID is
// local to the step (regenerated when a step is duplicated); ResourceID ties
// back to the library record and is the de-duplication key when attaching.
type ResourceLink struct {
	ID         string             `bson:"id" json:"id"`
	ResourceID primitive.ObjectID `bson:"resource_id" json:"resource_id"`

	Title       string   `bson:"title" json:"title"`
	URL         string   `bson:"url" json:"url"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Tags        []string `bson:"tags,omitempty" json:"tags,omitempty"`

	Type       string `bson:"type,omitempty" json:"type,omitempty"`
	Subject    string `bson:"subject,omitempty" json:"subject,omitempty"`
	GradeLevel string `bson:"grade_level,omitempty" json:"grade_level,omitempty"`
	Format     string `bson:"format,omitempty" json:"format,omitempty"`

	InstructionalNotes string `bson:"instructional_notes,omitempty" json:"instructional_notes,omitempty"`

	CreatorID   *primitive.ObjectID `bson:"creator_id,omitempty" json:"creator_id,omitempty"`
	CreatorName string              `bson:"creator_name,omitempty" json:"creator_name,omitempty"`
}
