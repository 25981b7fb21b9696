package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Resource is a library record the picker searches and teachers attach to
// draft steps. Attaching copies its metadata into a ResourceLink, so later
// library edits never rewrite existing drafts.
type Resource struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title   string             `bson:"title" json:"title"`
	TitleCI string             `bson:"title_ci" json:"title_ci"` // lowercase, diacritics-stripped

	URL         string   `bson:"url" json:"url"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Tags        []string `bson:"tags,omitempty" json:"tags,omitempty"`

	Type      string `bson:"type" json:"type"` // e.g. "video", "worksheet", "game"
	Subject   string `bson:"subject,omitempty" json:"subject,omitempty"`
	SubjectCI string `bson:"subject_ci,omitempty" json:"subject_ci,omitempty"`

	Stage      string `bson:"stage,omitempty" json:"stage,omitempty"`
	GradeLevel string `bson:"grade_level,omitempty" json:"grade_level,omitempty"`
	Format     string `bson:"format,omitempty" json:"format,omitempty"` // e.g. "online", "printable"

	// InstructionalNotes is long-form guidance shown in the detail view and
	// copied onto links at attach time. Only the detail fetch returns it.
	InstructionalNotes string `bson:"instructional_notes,omitempty" json:"instructional_notes,omitempty"`

	Status string `bson:"status" json:"status"` // "active" or "disabled"

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt *time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`

	CreatedByID   *primitive.ObjectID `bson:"created_by_id,omitempty" json:"created_by_id,omitempty"`
	CreatedByName string              `bson:"created_by_name,omitempty" json:"created_by_name,omitempty"`
}

// Link builds a step attachment from this library record, copying the
// metadata an attached step keeps. The caller assigns the local link ID.
func (r Resource) Link() ResourceLink {
	return ResourceLink{
		ResourceID:         r.ID,
		Title:              r.Title,
		URL:                r.URL,
		Description:        r.Description,
		Tags:               append([]string(nil), r.Tags...),
		Type:               r.Type,
		Subject:            r.Subject,
		GradeLevel:         r.GradeLevel,
		Format:             r.Format,
		InstructionalNotes: r.InstructionalNotes,
		CreatorID:          r.CreatedByID,
		CreatorName:        r.CreatedByName,
	}
}
