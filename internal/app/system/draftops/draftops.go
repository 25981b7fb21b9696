// Package draftops holds the pure mutation operations on a lesson draft.
//
// Every operation takes a Draft value and returns a new Draft value; inputs
// are never modified in place. Mutations referencing a step or link that no
// longer exists are benign no-ops (the editor may race its own UI), and a
// no-op returns the input draft unchanged without touching UpdatedAt.
package draftops

import (
	"time"

	"github.com/dalemusser/lessondesk/internal/domain/models"
	"github.com/google/uuid"
)

// DefaultStepTitle is the title a freshly added step carries. Attaching the
// first resource to a step still named this renames the step after the
// resource (see AttachResource).
const DefaultStepTitle = "New step"

// AddStep appends a new empty step with default field values. Never fails.
func AddStep(d models.Draft) models.Draft {
	d.Steps = append(cloneSteps(d.Steps), models.Step{
		ID:        uuid.NewString(),
		Title:     DefaultStepTitle,
		Resources: []models.ResourceLink{},
	})
	return stamp(d)
}

// DuplicateStep inserts a structural copy of the identified step directly
// after the original. The copy gets a fresh step ID and fresh local IDs for
// every attached resource link; ResourceID values are preserved. An unknown
// stepID is a no-op.
func DuplicateStep(d models.Draft, stepID string) models.Draft {
	i := indexOf(d.Steps, stepID)
	if i < 0 {
		return d
	}

	dup := cloneStep(d.Steps[i])
	dup.ID = uuid.NewString()
	for j := range dup.Resources {
		dup.Resources[j].ID = uuid.NewString()
	}

	steps := cloneSteps(d.Steps)
	steps = append(steps[:i+1], append([]models.Step{dup}, steps[i+1:]...)...)
	d.Steps = steps
	return stamp(d)
}

// RemoveStep filters the identified step out of the draft. An unknown stepID
// is a no-op. Removing the last step is permitted and leaves an empty list;
// the editing session decides whether to re-seed.
func RemoveStep(d models.Draft, stepID string) models.Draft {
	i := indexOf(d.Steps, stepID)
	if i < 0 {
		return d
	}
	steps := cloneSteps(d.Steps)
	d.Steps = append(steps[:i], steps[i+1:]...)
	return stamp(d)
}

// ReorderSteps moves the step identified by fromID to the position currently
// held by toID, preserving the relative order of all other steps. A missing
// id on either side, or fromID == toID, is a no-op.
func ReorderSteps(d models.Draft, fromID, toID string) models.Draft {
	from := indexOf(d.Steps, fromID)
	to := indexOf(d.Steps, toID)
	if from < 0 || to < 0 || from == to {
		return d
	}

	steps := cloneSteps(d.Steps)
	moved := steps[from]
	steps = append(steps[:from], steps[from+1:]...)
	steps = append(steps[:to], append([]models.Step{moved}, steps[to:]...)...)
	d.Steps = steps
	return stamp(d)
}

// AttachResource builds a link from the library record and attaches it to
// the identified step. If the step already links the same ResourceID the
// existing link is replaced, so attach is idempotent per resource. When the
// step had no resources and still carries the default title, it is renamed
// after the resource. An unknown stepID is a no-op.
func AttachResource(d models.Draft, stepID string, r models.Resource) models.Draft {
	i := indexOf(d.Steps, stepID)
	if i < 0 {
		return d
	}

	steps := cloneSteps(d.Steps)
	step := &steps[i]

	rename := len(step.Resources) == 0 && step.Title == DefaultStepTitle

	kept := step.Resources[:0:0]
	for _, l := range step.Resources {
		if l.ResourceID != r.ID {
			kept = append(kept, l)
		}
	}

	link := r.Link()
	link.ID = uuid.NewString()
	step.Resources = append(kept, link)

	if rename && r.Title != "" {
		step.Title = r.Title
	}

	d.Steps = steps
	return stamp(d)
}

// DetachResource removes the link with the given local id from the
// identified step. Unknown step or link ids are no-ops.
func DetachResource(d models.Draft, stepID, linkID string) models.Draft {
	i := indexOf(d.Steps, stepID)
	if i < 0 {
		return d
	}

	found := false
	steps := cloneSteps(d.Steps)
	kept := steps[i].Resources[:0:0]
	for _, l := range steps[i].Resources {
		if l.ID == linkID {
			found = true
			continue
		}
		kept = append(kept, l)
	}
	if !found {
		return d
	}

	steps[i].Resources = kept
	d.Steps = steps
	return stamp(d)
}

// StepPatch carries the step fields a patch may change. Nil fields are left
// untouched (shallow merge).
type StepPatch struct {
	Title         *string `json:"title,omitempty"`
	LearningGoals *string `json:"learning_goals,omitempty"`
	Duration      *string `json:"duration,omitempty"`
	Grouping      *string `json:"grouping,omitempty"`
	DeliveryMode  *string `json:"delivery_mode,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// PatchStep shallow-merges the patch into the identified step. An unknown
// stepID, or a patch with nothing set, is a no-op.
func PatchStep(d models.Draft, stepID string, p StepPatch) models.Draft {
	i := indexOf(d.Steps, stepID)
	if i < 0 {
		return d
	}
	if p.Title == nil && p.LearningGoals == nil && p.Duration == nil &&
		p.Grouping == nil && p.DeliveryMode == nil && p.Notes == nil {
		return d
	}

	steps := cloneSteps(d.Steps)
	step := &steps[i]
	if p.Title != nil {
		step.Title = *p.Title
	}
	if p.LearningGoals != nil {
		step.LearningGoals = *p.LearningGoals
	}
	if p.Duration != nil {
		step.Duration = *p.Duration
	}
	if p.Grouping != nil {
		step.Grouping = *p.Grouping
	}
	if p.DeliveryMode != nil {
		step.DeliveryMode = *p.DeliveryMode
	}
	if p.Notes != nil {
		step.Notes = *p.Notes
	}

	d.Steps = steps
	return stamp(d)
}

// PatchMeta applies draft-level field changes (title, objective, stage,
// subject, lesson date, logo). Nil fields are left untouched.
type MetaPatch struct {
	Title         *string `json:"title,omitempty"`
	Objective     *string `json:"objective,omitempty"`
	Stage         *string `json:"stage,omitempty"`
	Subject       *string `json:"subject,omitempty"`
	LessonDate    *string `json:"lesson_date,omitempty"`
	SchoolLogoURL *string `json:"school_logo_url,omitempty"`
}

// PatchMeta shallow-merges draft-level fields. An empty patch is a no-op.
func PatchMeta(d models.Draft, p MetaPatch) models.Draft {
	if p.Title == nil && p.Objective == nil && p.Stage == nil &&
		p.Subject == nil && p.LessonDate == nil && p.SchoolLogoURL == nil {
		return d
	}
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Objective != nil {
		d.Objective = *p.Objective
	}
	if p.Stage != nil {
		d.Stage = *p.Stage
	}
	if p.Subject != nil {
		d.Subject = *p.Subject
	}
	if p.LessonDate != nil {
		d.LessonDate = *p.LessonDate
	}
	if p.SchoolLogoURL != nil {
		d.SchoolLogoURL = *p.SchoolLogoURL
	}
	return stamp(d)
}

func stamp(d models.Draft) models.Draft {
	d.UpdatedAt = time.Now().UTC()
	return d
}

func indexOf(steps []models.Step, stepID string) int {
	for i := range steps {
		if steps[i].ID == stepID {
			return i
		}
	}
	return -1
}

func cloneStep(s models.Step) models.Step {
	s.Resources = cloneLinks(s.Resources)
	return s
}

func cloneSteps(steps []models.Step) []models.Step {
	out := make([]models.Step, len(steps))
	for i, s := range steps {
		out[i] = cloneStep(s)
	}
	return out
}

func cloneLinks(links []models.ResourceLink) []models.ResourceLink {
	out := make([]models.ResourceLink, len(links))
	for i, l := range links {
		l.Tags = append([]string(nil), l.Tags...)
		out[i] = l
	}
	return out
}
