package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	// sqlite driver for fixtures
	_ "modernc.org/sqlite"

	"github.com/j-veylop/securecheck-dashboard/internal/models"
)

const ledgerSchema = `
CREATE TABLE digital_ledger (
	stop_date TEXT,
	stop_time TEXT,
	country_name TEXT,
	driver_gender TEXT,
	driver_age INTEGER,
	driver_race TEXT,
	violation TEXT,
	search_conducted INTEGER,
	stop_outcome TEXT,
	is_arrested INTEGER,
	stop_duration TEXT,
	drugs_related_stop INTEGER,
	vehicle_number TEXT
)`

// SampleRecords is a small ledger with hand-checked aggregates. Record 10 has
// no stop time and no age.
func SampleRecords() []models.StopRecord {
	age := models.IntPtr
	return []models.StopRecord{
		{StopDate: "2020-01-06", StopTime: "08:15:00", CountryName: "Canada", DriverGender: "M",
			DriverAge: age(22), DriverRace: "White", Violation: "Speeding", SearchConducted: true, StopOutcome: "Ticket", StopDuration: "0-15 Min", VehicleNumber: "AB123"},
		{StopDate: "2020-01-06", StopTime: "23:40:00", CountryName: "Canada", DriverGender: "F",
			DriverAge: age(30), DriverRace: "Black", Violation: "DUI", SearchConducted: true, StopOutcome: "Arrest", IsArrested: true, StopDuration: "30+ Min", DrugsRelatedStop: true, VehicleNumber: "CD456"},
		{StopDate: "2020-01-07", StopTime: "14:05:00", CountryName: "India", DriverGender: "M",
			DriverAge: age(45), DriverRace: "Asian", Violation: "Speeding", StopOutcome: "Warning", StopDuration: "0-15 Min", VehicleNumber: "AB123"},
		{StopDate: "2020-02-10", StopTime: "02:30:00", CountryName: "India", DriverGender: "M",
			DriverAge: age(19), DriverRace: "Hispanic", Violation: "Signal", SearchConducted: true, StopOutcome: "Arrest", IsArrested: true, StopDuration: "16-30 Min", DrugsRelatedStop: true, VehicleNumber: "EF789"},
		{StopDate: "2020-02-11", StopTime: "14:50:00", CountryName: "USA", DriverGender: "F",
			DriverAge: age(61), DriverRace: "White", Violation: "Seatbelt", StopOutcome: "Ticket", StopDuration: "0-15 Min", VehicleNumber: "GH012"},
		{StopDate: "2020-02-11", StopTime: "19:20:00", CountryName: "USA", DriverGender: "M",
			DriverAge: age(33), DriverRace: "Black", Violation: "Speeding", StopOutcome: "Arrest", IsArrested: true, StopDuration: "16-30 Min", DrugsRelatedStop: true, VehicleNumber: "CD456"},
		{StopDate: "2021-03-15", StopTime: "10:00:00", CountryName: "Canada", DriverGender: "F",
			DriverAge: age(27), DriverRace: "Asian", Violation: "Other", StopOutcome: "Warning", StopDuration: "0-15 Min", VehicleNumber: "IJ345"},
		{StopDate: "2021-03-15", StopTime: "21:45:00", CountryName: "India", DriverGender: "M",
			DriverAge: age(55), DriverRace: "Other", Violation: "DUI", SearchConducted: true, StopOutcome: "Arrest", IsArrested: true, StopDuration: "30+ Min", DrugsRelatedStop: true, VehicleNumber: "CD456"},
		{StopDate: "2021-04-01", StopTime: "14:30:00", CountryName: "USA", DriverGender: "F",
			DriverAge: age(17), DriverRace: "White", Violation: "Speeding", StopOutcome: "Ticket", StopDuration: "0-15 Min", VehicleNumber: "KL678"},
		{StopDate: "2021-04-02", CountryName: "USA", DriverGender: "M", DriverRace: "Hispanic",
			Violation: "Speeding", SearchConducted: true, StopOutcome: "Warning", StopDuration: "16-30 Min", VehicleNumber: "AB123"},
	}
}

// SeedLedger writes records into a new sqlite file under t.TempDir and
// returns its path.
func SeedLedger(t testing.TB, records []models.StopRecord) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ledger.db")
	SeedLedgerAt(t, path, records)
	return path
}

// SeedLedgerAt creates the digital_ledger table at path and inserts records.
func SeedLedgerAt(t testing.TB, path string, records []models.StopRecord) {
	t.Helper()

	ctx := context.Background()
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open fixture database: %v", err)
	}
	defer func() { _ = sqlDB.Close() }()

	if _, err := sqlDB.ExecContext(ctx, ledgerSchema); err != nil {
		t.Fatalf("failed to create ledger table: %v", err)
	}

	const insert = `INSERT INTO digital_ledger (stop_date, stop_time, country_name,
		driver_gender, driver_age, driver_race, violation, search_conducted,
		stop_outcome, is_arrested, stop_duration, drugs_related_stop, vehicle_number)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for _, r := range records {
		var age, stopTime any
		if r.DriverAge != nil {
			age = *r.DriverAge
		}
		if r.StopTime != "" {
			stopTime = r.StopTime
		}
		if _, err := sqlDB.ExecContext(ctx, insert,
			r.StopDate, stopTime, r.CountryName, r.DriverGender, age, r.DriverRace,
			r.Violation, flag(r.SearchConducted), r.StopOutcome, flag(r.IsArrested),
			r.StopDuration, flag(r.DrugsRelatedStop), r.VehicleNumber,
		); err != nil {
			t.Fatalf("failed to insert fixture row: %v", err)
		}
	}
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
