// Package export renders a draft into plain-text handouts. Both builders
// are deterministic: output ordering mirrors the draft's step and resource
// order exactly, and no I/O happens here.
package export

import (
	"fmt"
	"strings"

	"github.com/dalemusser/lessondesk/internal/app/system/linkhealth"
	"github.com/dalemusser/lessondesk/internal/domain/models"
)

// Teacher renders the facilitator handout: header, a "Link warnings" block
// for every unhealthy attached URL, then each step including teacher notes.
func Teacher(d models.Draft, statuses map[string]models.LinkStatus) string {
	var b strings.Builder
	writeHeader(&b, d)
	writeWarnings(&b, d, statuses)
	writeSteps(&b, d, true)
	return b.String()
}

// Student renders the student handout: the same step blocks without teacher
// notes and without the link-warnings block. Facilitator-only content never
// reaches this output.
func Student(d models.Draft, statuses map[string]models.LinkStatus) string {
	var b strings.Builder
	writeHeader(&b, d)
	writeSteps(&b, d, false)
	return b.String()
}

func writeHeader(b *strings.Builder, d models.Draft) {
	fmt.Fprintf(b, "Lesson: %s\n", d.Title)
	if d.Objective != "" {
		fmt.Fprintf(b, "Objective: %s\n", d.Objective)
	}
	if d.Stage != "" {
		fmt.Fprintf(b, "Stage: %s\n", d.Stage)
	}
	if d.Subject != "" {
		fmt.Fprintf(b, "Subject: %s\n", d.Subject)
	}
	b.WriteString("\n")
}

func writeWarnings(b *strings.Builder, d models.Draft, statuses map[string]models.LinkStatus) {
	var lines []string
	for _, url := range linkhealth.DraftURLs(d) {
		st := linkhealth.StatusFor(statuses, url)
		if st.Healthy {
			continue
		}
		text := st.StatusText
		if text == "" {
			text = st.LastError
		}
		lines = append(lines, fmt.Sprintf("  ⚠️ %s (%s)", url, text))
	}
	if len(lines) == 0 {
		return
	}

	b.WriteString("Link warnings:\n")
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeSteps(b *strings.Builder, d models.Draft, teacherCopy bool) {
	for i, step := range d.Steps {
		if step.Duration != "" {
			fmt.Fprintf(b, "%d. %s (%s)\n", i+1, step.Title, step.Duration)
		} else {
			fmt.Fprintf(b, "%d. %s\n", i+1, step.Title)
		}
		if step.LearningGoals != "" {
			fmt.Fprintf(b, "   Learning goals: %s\n", step.LearningGoals)
		}
		if step.Grouping != "" {
			fmt.Fprintf(b, "   Grouping: %s\n", step.Grouping)
		}
		if step.DeliveryMode != "" {
			fmt.Fprintf(b, "   Delivery: %s\n", step.DeliveryMode)
		}
		if teacherCopy && step.Notes != "" {
			fmt.Fprintf(b, "   Notes: %s\n", step.Notes)
		}
		if len(step.Resources) > 0 {
			b.WriteString("   Resources:\n")
			for _, link := range step.Resources {
				fmt.Fprintf(b, "     - %s: %s\n", link.Title, link.URL)
				if link.InstructionalNotes != "" {
					fmt.Fprintf(b, "       %s\n", link.InstructionalNotes)
				}
			}
		}
		b.WriteString("\n")
	}
}

// FileName builds the download name for a handout, e.g.
// "Fractions intro-teacher.txt". Path separators in the title are dropped.
func FileName(title, audience string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "lesson"
	}
	title = strings.ReplaceAll(title, "/", "-")
	title = strings.ReplaceAll(title, "\\", "-")
	return fmt.Sprintf("%s-%s.txt", title, audience)
}
