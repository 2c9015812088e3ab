package predict

import (
	"errors"
	"testing"
	"time"
)

var durations = []string{"0-15 Min", "16-30 Min", "30+ Min"}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "12:00:00", want: "12:00 PM"},
		{in: "09:05:30", want: "09:05 AM"},
		{in: " 23:59:59 ", want: "11:59 PM"},
		{in: "25:00:00", wantErr: true},
		{in: "12:00", wantErr: true},
		{in: "noon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTime(tt.in)
			if tt.wantErr {
				var fe *FormInputError
				if !errors.As(err, &fe) {
					t.Fatalf("ParseTime(%q) error = %v, want FormInputError", tt.in, err)
				}
				if fe.Field != "time" {
					t.Errorf("Field = %q, want time", fe.Field)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTime(%q) unexpected error: %v", tt.in, err)
			}
			if s := got.Format("03:04 PM"); s != tt.want {
				t.Errorf("ParseTime(%q) = %s, want %s", tt.in, s, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	at, _ := ParseTime("15:04:00")

	tests := []struct {
		name string
		in   Input
		want string
	}{
		{
			name: "male searched drug stop",
			in: Input{
				Time: &at, Gender: "male", Age: 27, Violation: "Speeding",
				SearchConducted: true, Outcome: "Arrest", Duration: "16-30 Min", DrugsRelated: true,
			},
			want: "A 27-year-old male driver was stopped for Speeding at 03:04 PM. " +
				"A search was conducted, and he received a Arrest. " +
				"The stop lasted 16-30 Min and was drugs related.",
		},
		{
			name: "female no search",
			in: Input{
				Time: &at, Gender: "female", Age: 45, Violation: "Seatbelt",
				Outcome: "Warning", Duration: "0-15 Min",
			},
			want: "A 45-year-old female driver was stopped for Seatbelt at 03:04 PM. " +
				"No search was conducted, and she received a Warning. " +
				"The stop lasted 0-15 Min and was not drug related.",
		},
		{
			name: "unset time",
			in: Input{
				Gender: "female", Age: 18, Violation: "DUI", Outcome: "Ticket", Duration: "30+ Min",
			},
			want: "A 18-year-old female driver was stopped for DUI at an unknown time. " +
				"No search was conducted, and she received a Ticket. " +
				"The stop lasted 30+ Min and was not drug related.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.in); got != tt.want {
				t.Errorf("Describe() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	in := Default(durations, now)

	if in.TimeText != DefaultTime || in.Time == nil {
		t.Fatalf("Default() time = %q/%v, want %s parsed", in.TimeText, in.Time, DefaultTime)
	}
	if in.Age != MinAge {
		t.Errorf("Age = %d, want %d", in.Age, MinAge)
	}
	if in.Gender != "female" || in.Violation != "Seatbelt" || in.Outcome != "Ticket" {
		t.Errorf("unexpected defaults: %+v", in)
	}
	if in.Duration != "0-15 Min" {
		t.Errorf("Duration = %q, want 0-15 Min", in.Duration)
	}
	if !in.Date.Equal(now) {
		t.Errorf("Date = %v, want %v", in.Date, now)
	}
}

func TestParse(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	in, errs := Parse(Fields{
		Date: "2024-02-29", Time: "07:30:00", Gender: "male", Age: "34",
		Violation: "DUI", Search: "1", Outcome: "Arrest", Duration: "30+ Min", Drugs: "0",
	}, durations, now)
	if len(errs) != 0 {
		t.Fatalf("Parse() errors = %v", errs)
	}
	want := "A 34-year-old male driver was stopped for DUI at 07:30 AM. " +
		"A search was conducted, and he received a Arrest. " +
		"The stop lasted 30+ Min and was not drug related."
	if got := Describe(in); got != want {
		t.Errorf("Describe(Parse()) = %q, want %q", got, want)
	}
	if in.Date.Format("2006-01-02") != "2024-02-29" {
		t.Errorf("Date = %v", in.Date)
	}
}

func TestParse_BadTimeKeepsRest(t *testing.T) {
	in, errs := Parse(Fields{Time: "7pm", Gender: "male", Age: "40", Violation: "Signal"}, durations, time.Now())

	if len(errs) != 1 {
		t.Fatalf("Parse() errors = %v, want exactly one", errs)
	}
	var fe *FormInputError
	if !errors.As(errs[0], &fe) || fe.Field != "time" {
		t.Fatalf("error = %v, want time FormInputError", errs[0])
	}
	if in.Time != nil {
		t.Errorf("Time = %v, want nil", in.Time)
	}
	if in.Age != 40 || in.Violation != "Signal" {
		t.Errorf("other fields lost: %+v", in)
	}
}

func TestParse_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		f     Fields
		field string
	}{
		{"age too young", Fields{Time: DefaultTime, Age: "17"}, "age"},
		{"age too old", Fields{Time: DefaultTime, Age: "81"}, "age"},
		{"age not a number", Fields{Time: DefaultTime, Age: "old"}, "age"},
		{"unknown violation", Fields{Time: DefaultTime, Violation: "Parking"}, "violation"},
		{"unknown outcome", Fields{Time: DefaultTime, Outcome: "Jail"}, "outcome"},
		{"unknown gender", Fields{Time: DefaultTime, Gender: "x"}, "gender"},
		{"unknown duration", Fields{Time: DefaultTime, Duration: "2 hours"}, "duration"},
		{"bad date", Fields{Time: DefaultTime, Date: "03/01/2024"}, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := Parse(tt.f, durations, time.Now())
			if len(errs) != 1 {
				t.Fatalf("Parse() errors = %v, want one", errs)
			}
			var fe *FormInputError
			if !errors.As(errs[0], &fe) || fe.Field != tt.field {
				t.Errorf("error = %v, want %s FormInputError", errs[0], tt.field)
			}
		})
	}
}

func TestParseFlag(t *testing.T) {
	for in, want := range map[string]bool{"1": true, "0": false, "": false, "yes": false, " 1 ": true} {
		if got := ParseFlag(in); got != want {
			t.Errorf("ParseFlag(%q) = %v, want %v", in, got, want)
		}
	}
}
