// Package predict validates the stop outcome form and renders its summary
// sentence. Nothing is stored and no model is consulted.
package predict

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Form limits and defaults.
const (
	MinAge      = 18
	MaxAge      = 80
	DefaultTime = "12:00:00"
	timeLayout  = "15:04:05"
	dateLayout  = "2006-01-02"
)

// Choices offered by the form.
var (
	Genders    = []string{"female", "male"}
	Violations = []string{"Seatbelt", "Speeding", "Signal", "DUI", "Other"}
	Outcomes   = []string{"Ticket", "Arrest", "Warning"}
	Flags      = []string{"0", "1"}
)

// FormInputError reports a field that could not be parsed.
type FormInputError struct {
	Field string
	Value string
	Hint  string
}

func (e *FormInputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Hint)
}

// Input is one submitted form. Time is nil when the time text did not parse.
type Input struct {
	Date            time.Time
	TimeText        string
	Time            *time.Time
	Gender          string
	Age             int
	Violation       string
	SearchConducted bool
	Outcome         string
	Duration        string
	DrugsRelated    bool
}

// Default returns a form prefilled the way it is first shown.
func Default(durations []string, now time.Time) Input {
	in := Input{
		Date:      now,
		TimeText:  DefaultTime,
		Gender:    Genders[0],
		Age:       MinAge,
		Violation: Violations[0],
		Outcome:   Outcomes[0],
	}
	if t, err := ParseTime(DefaultTime); err == nil {
		in.Time = &t
	}
	if len(durations) > 0 {
		in.Duration = durations[0]
	}
	return in
}

// ParseTime parses an HH:MM:SS clock time.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, &FormInputError{Field: "time", Value: s, Hint: "use HH:MM:SS"}
	}
	return t, nil
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, &FormInputError{Field: "date", Value: s, Hint: "use YYYY-MM-DD"}
	}
	return t, nil
}

// ParseFlag reads a "0"/"1" select value.
func ParseFlag(s string) bool {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return err == nil && n != 0
}

// Fields holds the raw submitted values, keyed like the form.
type Fields struct {
	Date      string
	Time      string
	Gender    string
	Age       string
	Violation string
	Search    string
	Outcome   string
	Duration  string
	Drugs     string
}

// Parse builds an Input from raw fields. Every field that fails is reported;
// a bad time leaves Input.Time nil and the rest of the input usable.
func Parse(f Fields, durations []string, now time.Time) (Input, []error) {
	in := Default(durations, now)
	var errs []error

	if f.Date != "" {
		if d, err := ParseDate(f.Date); err != nil {
			errs = append(errs, err)
		} else {
			in.Date = d
		}
	}

	in.TimeText = f.Time
	in.Time = nil
	if t, err := ParseTime(f.Time); err != nil {
		errs = append(errs, err)
	} else {
		in.Time = &t
	}

	if err := pick(&in.Gender, "gender", f.Gender, Genders); err != nil {
		errs = append(errs, err)
	}
	if err := pick(&in.Violation, "violation", f.Violation, Violations); err != nil {
		errs = append(errs, err)
	}
	if err := pick(&in.Outcome, "outcome", f.Outcome, Outcomes); err != nil {
		errs = append(errs, err)
	}
	if len(durations) > 0 {
		if err := pick(&in.Duration, "duration", f.Duration, durations); err != nil {
			errs = append(errs, err)
		}
	} else if f.Duration != "" {
		in.Duration = f.Duration
	}

	if f.Age != "" {
		age, err := strconv.Atoi(strings.TrimSpace(f.Age))
		switch {
		case err != nil:
			errs = append(errs, &FormInputError{Field: "age", Value: f.Age, Hint: "must be a whole number"})
		case age < MinAge || age > MaxAge:
			errs = append(errs, &FormInputError{
				Field: "age", Value: f.Age,
				Hint: fmt.Sprintf("must be between %d and %d", MinAge, MaxAge),
			})
		default:
			in.Age = age
		}
	}

	in.SearchConducted = ParseFlag(f.Search)
	in.DrugsRelated = ParseFlag(f.Drugs)

	return in, errs
}

func pick(dst *string, field, value string, choices []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(choices, value) {
		return &FormInputError{Field: field, Value: value, Hint: "choose one of " + strings.Join(choices, ", ")}
	}
	*dst = value
	return nil
}

// Describe renders the summary sentence for a submitted form.
func Describe(in Input) string {
	at := "an unknown time"
	if in.Time != nil {
		at = in.Time.Format("03:04 PM")
	}

	search := "No search was conducted"
	if in.SearchConducted {
		search = "A search was conducted"
	}

	pronoun := "she"
	if in.Gender == "male" {
		pronoun = "he"
	}

	drugs := "was not drug related"
	if in.DrugsRelated {
		drugs = "was drugs related"
	}

	return fmt.Sprintf(
		"A %d-year-old %s driver was stopped for %s at %s. %s, and %s received a %s. The stop lasted %s and %s.",
		in.Age, in.Gender, in.Violation, at, search, pronoun, in.Outcome, in.Duration, drugs,
	)
}
