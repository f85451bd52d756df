// Package locale checks that optional secondary-language content is
// complete enough to publish.
package locale

import (
	"strings"

	"github.com/irsalhamdi/course-listing/validate"
)

// Secondary is the secondary-language counterpart of a listing's content.
type Secondary struct {
	Title           string
	Description     string
	Syllabus        string
	MentorFirstName string
	MentorLastName  string
}

// Check enforces the locale-pair rule. Once any secondary content field is
// set, title and description (and syllabus for courses) must all be set.
// Mentor names travel together. Whitespace-only values count as empty.
func Check(course bool, s Secondary) error {
	if !blank(s.Title) || !blank(s.Description) || !blank(s.Syllabus) {
		if blank(s.Title) {
			return pairError("titleSecondary")
		}
		if blank(s.Description) {
			return pairError("descriptionSecondary")
		}
		if course && blank(s.Syllabus) {
			return pairError("syllabusSecondary")
		}
	}

	if !blank(s.MentorFirstName) || !blank(s.MentorLastName) {
		if blank(s.MentorFirstName) {
			return validate.NewFieldError("mentorFirstNameSecondary", "is required when a secondary mentor name is set")
		}
		if blank(s.MentorLastName) {
			return validate.NewFieldError("mentorLastNameSecondary", "is required when a secondary mentor name is set")
		}
	}

	return nil
}

// Pick returns the secondary value when it is set and the primary otherwise.
func Pick(secondary, primary string) string {
	if blank(secondary) {
		return primary
	}
	return secondary
}

func pairError(field string) error {
	return validate.NewFieldError(field, "is required when secondary-language content is provided")
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
