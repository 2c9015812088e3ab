package models

// Ledger column names.
const (
	ColStopDate         = "stop_date"
	ColStopTime         = "stop_time"
	ColCountryName      = "country_name"
	ColDriverGender     = "driver_gender"
	ColDriverAge        = "driver_age"
	ColDriverRace       = "driver_race"
	ColViolation        = "violation"
	ColSearchConducted  = "search_conducted"
	ColStopOutcome      = "stop_outcome"
	ColIsArrested       = "is_arrested"
	ColStopDuration     = "stop_duration"
	ColDrugsRelatedStop = "drugs_related_stop"
	ColVehicleNumber    = "vehicle_number"
)

// StopRecord is one row of the digital ledger. Text fields hold "" for NULL;
// DriverAge is nil when the age is unknown.
type StopRecord struct {
	StopDate         string
	StopTime         string
	CountryName      string
	DriverGender     string
	DriverAge        *int
	DriverRace       string
	Violation        string
	SearchConducted  bool
	StopOutcome      string
	IsArrested       bool
	StopDuration     string
	DrugsRelatedStop bool
	VehicleNumber    string
}

// Age returns the driver age and whether it is known.
func (r StopRecord) Age() (int, bool) {
	if r.DriverAge == nil {
		return 0, false
	}
	return *r.DriverAge, true
}

// IntPtr is a convenience for building records with a known age.
func IntPtr(i int) *int { return &i }

// RecordsFromTable decodes ledger rows. Missing columns leave the field at
// its zero value, so partial projections decode without error.
func RecordsFromTable(t *ResultTable) []StopRecord {
	if t == nil {
		return nil
	}

	idx := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		idx[c] = i
	}

	cell := func(row []Value, name string) Value {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return Null()
		}
		return row[i]
	}

	text := func(row []Value, name string) string {
		return cell(row, name).String()
	}

	records := make([]StopRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := StopRecord{
			StopDate:         text(row, ColStopDate),
			StopTime:         text(row, ColStopTime),
			CountryName:      text(row, ColCountryName),
			DriverGender:     text(row, ColDriverGender),
			DriverRace:       text(row, ColDriverRace),
			Violation:        text(row, ColViolation),
			SearchConducted:  cell(row, ColSearchConducted).Truthy(),
			StopOutcome:      text(row, ColStopOutcome),
			IsArrested:       cell(row, ColIsArrested).Truthy(),
			StopDuration:     text(row, ColStopDuration),
			DrugsRelatedStop: cell(row, ColDrugsRelatedStop).Truthy(),
			VehicleNumber:    text(row, ColVehicleNumber),
		}
		if age, ok := cell(row, ColDriverAge).Int64(); ok {
			rec.DriverAge = IntPtr(int(age))
		}
		records = append(records, rec)
	}
	return records
}
