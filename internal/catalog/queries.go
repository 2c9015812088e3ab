package catalog

import (
	"github.com/j-veylop/securecheck-dashboard/internal/models"
)

// entries is the ordered catalog. Labels are shown to users verbatim.
var entries = []Entry{
	{
		Label: "Top 10 vehicle number related to drug related stop",
		SQL: `
			SELECT vehicle_number,
				   COUNT(*) AS count
			FROM digital_ledger
			WHERE drugs_related_stop = TRUE
			GROUP BY vehicle_number
			ORDER BY count DESC, vehicle_number
			LIMIT 10
		`,
		Eval: evalDrugVehicles,
	},
	{
		Label: "Frequently searched vehicle",
		SQL: `
			SELECT vehicle_number,
				   COUNT(*) AS most_frequent_search_count
			FROM digital_ledger
			WHERE search_conducted = TRUE
			GROUP BY vehicle_number
			ORDER BY most_frequent_search_count DESC, vehicle_number
			LIMIT 15
		`,
		Eval: evalSearchedVehicles,
	},
	{
		Label: "Driver age group having high arrest rate",
		SQL: `
			SELECT CASE
					   WHEN driver_age BETWEEN 18 AND 25 THEN '18-25'
					   WHEN driver_age BETWEEN 26 AND 35 THEN '26-35'
					   WHEN driver_age BETWEEN 36 AND 45 THEN '36-45'
					   WHEN driver_age BETWEEN 46 AND 60 THEN '46-60'
					   ELSE '60+'
				   END AS age_group,
				   COUNT(*) AS total_stops,
				   COUNT(CASE WHEN is_arrested = TRUE THEN 1 END) AS arrests,
				   ROUND(COUNT(CASE WHEN is_arrested = TRUE THEN 1 END) / NULLIF(COUNT(*), 0) * 100.0, 2) AS arrest_rate
			FROM digital_ledger
			GROUP BY age_group
			ORDER BY arrest_rate DESC, age_group
			LIMIT 1
		`,
		Eval: evalAgeGroupArrests,
	},
	{
		Label: "Gender distribution of driver stopped in each country",
		SQL: `
			SELECT country_name,
				   COUNT(CASE WHEN driver_gender = 'M' THEN 1 END) AS MALE,
				   COUNT(CASE WHEN driver_gender = 'F' THEN 1 END) AS FEMALE
			FROM digital_ledger
			GROUP BY country_name
			ORDER BY country_name
		`,
		Eval: evalGenderByCountry,
	},
	{
		Label: "Gender and race combination having highest arrest rate",
		SQL: `
			SELECT driver_race,
				   driver_gender,
				   ROUND(COUNT(CASE WHEN search_conducted = TRUE THEN 1 END) / NULLIF(COUNT(*), 0) * 100.0, 2) AS search_rate
			FROM digital_ledger
			GROUP BY driver_race, driver_gender
			ORDER BY search_rate DESC, driver_race, driver_gender
			LIMIT 1
		`,
		Eval: evalRaceGenderSearch,
	},
	{
		Label: "Time of the day having most traffic stop",
		SQL: `
			SELECT HOUR(STR_TO_DATE(stop_time, '%H:%i')) AS hour_of_the_day,
				   COUNT(*) AS stop_count
			FROM digital_ledger
			GROUP BY hour_of_the_day
			ORDER BY stop_count DESC, hour_of_the_day
			LIMIT 1
		`,
		Eval: evalBusiestHour,
	},
	{
		Label: "Average stop duration for different violation",
		SQL: `
			SELECT violation,
				   AVG(CASE
						   WHEN stop_duration = '0-15 Min' THEN 7.5
						   WHEN stop_duration = '16-30 Min' THEN 23
						   WHEN stop_duration = '30+ Min' THEN 35
					   END) AS average_stop_duration
			FROM digital_ledger
			GROUP BY violation
			ORDER BY violation
		`,
		Eval: evalAverageDuration,
	},
	{
		Label: "Are the stops during the night are more likely to lead to arrests",
		SQL: `
			SELECT CASE
					   WHEN HOUR(STR_TO_DATE(stop_time, '%H:%i')) >= 18
						 OR HOUR(STR_TO_DATE(stop_time, '%H:%i')) < 6
					   THEN 'NIGHT'
					   ELSE 'DAY'
				   END AS stop_period,
				   COUNT(*) AS total_stops,
				   COUNT(CASE WHEN is_arrested = TRUE THEN 1 END) AS arrests,
				   ROUND(COUNT(CASE WHEN is_arrested = TRUE THEN 1 END) / NULLIF(COUNT(*), 0) * 100.0, 2) AS arrest_rate_percent
			FROM digital_ledger
			GROUP BY stop_period
			ORDER BY stop_period
		`,
		Eval: evalNightArrests,
	},
	{
		Label: "Violation most associated with search or arrest",
		SQL: `
			SELECT violation,
				   COUNT(CASE WHEN search_conducted = TRUE THEN 1 END) AS count_of_the_search,
				   COUNT(CASE WHEN is_arrested = TRUE THEN 1 END) AS count_of_the_arrest,
				   ROUND(COUNT(CASE WHEN search_conducted = TRUE THEN 1 END) / NULLIF(COUNT(*), 0) * 100.0, 2) AS search_rate,
				   ROUND(COUNT(CASE WHEN is_arrested = TRUE THEN 1 END) / NULLIF(COUNT(*), 0) * 100.0, 2) AS arrest_rate,
				   GREATEST(
					   ROUND(COUNT(CASE WHEN search_conducted = TRUE THEN 1 END) / NULLIF(COUNT(*), 0) * 100.0, 2),
					   ROUND(COUNT(CASE WHEN is_arrested = TRUE THEN 1 END) / NULLIF(COUNT(*), 0) * 100.0, 2)
				   ) AS maximum_arrest_or_search_rate
			FROM digital_ledger
			GROUP BY violation
			ORDER BY maximum_arrest_or_search_rate DESC, violation
			LIMIT 1
		`,
		Eval: evalMostSearchOrArrest,
	},
	{
		Label: "Violation most common among young driver (i.e) less than 25",
		SQL: `
			SELECT violation,
				   COUNT(*) AS counts_of_driver
			FROM digital_ledger
			WHERE driver_age < 25
			GROUP BY violation
			ORDER BY counts_of_driver DESC, violation
			LIMIT 1
		`,
		Eval: evalYoungDriverViolation,
	},
	{
		Label: "Violation that rarely result in search or arrest",
		SQL: `
			SELECT violation,
				   COUNT(CASE WHEN search_conducted = TRUE THEN 1 END) AS count_of_the_search,
				   COUNT(CASE WHEN is_arrested = TRUE THEN 1 END) AS count_of_the_arrest,
				   ROUND(COUNT(CASE WHEN search_conducted = TRUE THEN 1 END) / NULLIF(COUNT(*), 0) * 100.0, 2) AS search_rate,
				   ROUND(COUNT(CASE WHEN is_arrested = TRUE THEN 1 END) / NULLIF(COUNT(*), 0) * 100.0, 2) AS arrest_rate,
				   LEAST(
					   ROUND(COUNT(CASE WHEN search_conducted = TRUE THEN 1 END) / NULLIF(COUNT(*), 0) * 100.0, 2),
					   ROUND(COUNT(CASE WHEN is_arrested = TRUE THEN 1 END) / NULLIF(COUNT(*), 0) * 100.0, 2)
				   ) AS rarely_arrest_or_search_rate
			FROM digital_ledger
			GROUP BY violation
			ORDER BY rarely_arrest_or_search_rate ASC, violation
			LIMIT 1
		`,
		Eval: evalRarelySearchOrArrest,
	},
	{
		Label: "Country reporting the highest rate of drug related stops",
		SQL: `
			SELECT country_name,
				   COUNT(*) AS tot_counts,
				   ROUND(COUNT(CASE WHEN drugs_related_stop = TRUE THEN 1 END) / NULLIF(COUNT(*), 0) * 100.0, 2) AS drugs_related_stop_rates
			FROM digital_ledger
			GROUP BY country_name
			ORDER BY drugs_related_stop_rates DESC, country_name
			LIMIT 1
		`,
		Eval: evalDrugRateByCountry,
	},
	{
		Label: "Arrest rate by country and violation",
		SQL: `
			SELECT country_name,
				   violation,
				   COUNT(*) AS tot_count,
				   ROUND(COUNT(CASE WHEN is_arrested = TRUE THEN 1 END) / NULLIF(COUNT(*), 0) * 100.0, 2) AS arrest_rate
			FROM digital_ledger
			GROUP BY country_name, violation
			ORDER BY country_name, violation
		`,
		Eval: evalArrestRateByCountryViolation,
	},
	{
		Label: "Country having most stop with search conducted",
		SQL: `
			SELECT country_name,
				   COUNT(CASE WHEN search_conducted = TRUE THEN 1 END) AS no_of_counts
			FROM digital_ledger
			GROUP BY country_name
			ORDER BY no_of_counts DESC, country_name
			LIMIT 1
		`,
		Eval: evalSearchesByCountry,
	},
	{
		Label: "Top 5 violation with highest arrest rate",
		SQL: `
			SELECT violation,
				   COUNT(*) AS total,
				   ROUND(COUNT(CASE WHEN is_arrested = TRUE THEN 1 END) / NULLIF(COUNT(*), 0) * 100, 2) AS arrest_rate
			FROM digital_ledger
			GROUP BY violation
			ORDER BY arrest_rate DESC, violation
			LIMIT 5
		`,
		Eval: evalTopArrestViolations,
	},
	{
		Label: "Driver demographic[Age,Gender,Race] by country",
		SQL: `
			SELECT country_name,
				   COUNT(*) AS tot_driver,
				   COUNT(CASE WHEN driver_gender = 'M' THEN 1 END) AS Male_driver,
				   COUNT(CASE WHEN driver_gender = 'F' THEN 1 END) AS Female_driver,
				   COUNT(CASE WHEN driver_race = 'Asian' THEN 1 END) AS Asian_driver,
				   COUNT(CASE WHEN driver_race = 'Black' THEN 1 END) AS Black_driver,
				   COUNT(CASE WHEN driver_race = 'Hispanic' THEN 1 END) AS Hispanic_driver,
				   COUNT(CASE WHEN driver_race = 'Other' THEN 1 END) AS Other_people,
				   COUNT(CASE WHEN driver_race = 'White' THEN 1 END) AS White_driver,
				   COUNT(CASE WHEN driver_age < 30 THEN 1 END) AS less_than_thirty,
				   COUNT(CASE WHEN driver_age BETWEEN 30 AND 50 THEN 1 END) AS between_thirty_and_fifty,
				   COUNT(CASE WHEN driver_age > 50 THEN 1 END) AS greater_than_fifty
			FROM digital_ledger
			GROUP BY country_name
			ORDER BY country_name
		`,
		Eval: evalDemographics,
	},
	{
		Label: "Violation with high search and arrest rate",
		SQL: `
			SELECT *
			FROM (
				SELECT DISTINCT violation,
					   COUNT(*) OVER (PARTITION BY violation) AS total_stops,
					   SUM(CASE WHEN search_conducted = TRUE THEN 1 ELSE 0 END) OVER (PARTITION BY violation) AS total_searches,
					   SUM(CASE WHEN is_arrested = TRUE THEN 1 ELSE 0 END) OVER (PARTITION BY violation) AS total_arrests,
					   ROUND(AVG(CASE WHEN search_conducted = TRUE THEN 1 ELSE 0 END) OVER (PARTITION BY violation) * 100, 2) AS search_rate_percent,
					   ROUND(AVG(CASE WHEN is_arrested = TRUE THEN 1 ELSE 0 END) OVER (PARTITION BY violation) * 100, 2) AS arrest_rate_percent
				FROM digital_ledger
			) AS sub
			WHERE search_rate_percent > 20 OR arrest_rate_percent > 20
			ORDER BY search_rate_percent DESC, arrest_rate_percent DESC, violation
		`,
		Eval: evalHighSearchAndArrest,
	},
	{
		Label: "Number of stops by year,month,hour of the day",
		SQL: `
			SELECT YEAR(STR_TO_DATE(stop_date, '%Y-%m-%d')) AS STOP_YEAR,
				   MONTH(STR_TO_DATE(stop_date, '%Y-%m-%d')) AS STOP_MONTH,
				   HOUR(STR_TO_DATE(stop_time, '%H:%i')) AS STOP_HOUR,
				   COUNT(*) AS total_stops
			FROM digital_ledger
			GROUP BY STOP_YEAR, STOP_MONTH, STOP_HOUR
			ORDER BY STOP_YEAR, STOP_MONTH, STOP_HOUR
		`,
		Eval: evalStopsByPeriod,
	},
	{
		Label: "Driver violation trend based on race & age",
		SQL: `
			SELECT age_info.age_group,
				   r.driver_race,
				   COUNT(*) AS total_violations
			FROM digital_ledger r
			JOIN (
				SELECT DISTINCT driver_age,
					   CASE
						   WHEN driver_age BETWEEN 16 AND 25 THEN '16-25'
						   WHEN driver_age BETWEEN 26 AND 35 THEN '26-35'
						   WHEN driver_age BETWEEN 36 AND 50 THEN '36-50'
						   WHEN driver_age > 50 THEN '51+'
						   ELSE 'Unknown'
					   END AS age_group
				FROM digital_ledger
			) AS age_info ON r.driver_age = age_info.driver_age
			GROUP BY age_info.age_group, r.driver_race
			ORDER BY age_info.age_group, r.driver_race
		`,
		Eval: evalRaceAgeTrend,
	},
	{
		Label: "Yearly breakdown of stops and arrests by country",
		SQL: `
			SELECT stats.stop_year,
				   stats.country_name,
				   stats.total_stops,
				   stats.total_arrests,
				   ROUND(total_arrests / NULLIF(total_stops, 0) * 100.0, 2) AS arrest_rate_percent,
				   SUM(total_arrests) OVER (PARTITION BY country_name ORDER BY stop_year) AS cumulative_arrests
			FROM (
				SELECT YEAR(STR_TO_DATE(stop_date, '%Y-%m-%d')) AS stop_year,
					   country_name,
					   COUNT(*) AS total_stops,
					   COUNT(IF(is_arrested, 1, NULL)) AS total_arrests
				FROM digital_ledger
				GROUP BY stop_year, country_name
			) AS stats
			ORDER BY stats.country_name, stats.stop_year
		`,
		Eval: evalYearlyByCountry,
	},
}

func searched(r models.StopRecord) bool    { return r.SearchConducted }
func arrested(r models.StopRecord) bool    { return r.IsArrested }
func drugRelated(r models.StopRecord) bool { return r.DrugsRelatedStop }

func byViolation(r models.StopRecord) []models.Value { return []models.Value{text(r.Violation)} }
func byCountry(r models.StopRecord) []models.Value   { return []models.Value{text(r.CountryName)} }
func byVehicle(r models.StopRecord) []models.Value   { return []models.Value{text(r.VehicleNumber)} }

func filter(records []models.StopRecord, keep func(models.StopRecord) bool) []models.StopRecord {
	var out []models.StopRecord
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func evalDrugVehicles(records []models.StopRecord) *models.ResultTable {
	t := models.NewResultTable("vehicle_number", "count")
	for _, g := range groupBy(filter(records, drugRelated), byVehicle) {
		t.Append(g.key[0], count(len(g.rows)))
	}
	return sortRows(t, 10, desc(1), asc(0))
}

func evalSearchedVehicles(records []models.StopRecord) *models.ResultTable {
	t := models.NewResultTable("vehicle_number", "most_frequent_search_count")
	for _, g := range groupBy(filter(records, searched), byVehicle) {
		t.Append(g.key[0], count(len(g.rows)))
	}
	return sortRows(t, 15, desc(1), asc(0))
}

func evalAgeGroupArrests(records []models.StopRecord) *models.ResultTable {
	t := models.NewResultTable("age_group", "total_stops", "arrests", "arrest_rate")
	groups := groupBy(records, func(r models.StopRecord) []models.Value {
		return []models.Value{models.String(ageGroupWide(r))}
	})
	for _, g := range groups {
		arrests := countIf(g.rows, arrested)
		t.Append(g.key[0], count(len(g.rows)), count(arrests), rate(arrests, len(g.rows)))
	}
	return sortRows(t, 1, desc(3), asc(0))
}

func evalGenderByCountry(records []models.StopRecord) *models.ResultTable {
	t := models.NewResultTable("country_name", "MALE", "FEMALE")
	for _, g := range groupBy(records, byCountry) {
		male := countIf(g.rows, func(r models.StopRecord) bool { return equalText(r.DriverGender, "M") })
		female := countIf(g.rows, func(r models.StopRecord) bool { return equalText(r.DriverGender, "F") })
		t.Append(g.key[0], count(male), count(female))
	}
	return t
}

func evalRaceGenderSearch(records []models.StopRecord) *models.ResultTable {
	t := models.NewResultTable("driver_race", "driver_gender", "search_rate")
	groups := groupBy(records, func(r models.StopRecord) []models.Value {
		return []models.Value{text(r.DriverRace), text(r.DriverGender)}
	})
	for _, g := range groups {
		t.Append(g.key[0], g.key[1], rate(countIf(g.rows, searched), len(g.rows)))
	}
	return sortRows(t, 1, desc(2), asc(0), asc(1))
}

func evalBusiestHour(records []models.StopRecord) *models.ResultTable {
	t := models.NewResultTable("hour_of_the_day", "stop_count")
	groups := groupBy(records, func(r models.StopRecord) []models.Value {
		return []models.Value{hourValue(r.StopTime)}
	})
	for _, g := range groups {
		t.Append(g.key[0], count(len(g.rows)))
	}
	return sortRows(t, 1, desc(1), asc(0))
}

func evalAverageDuration(records []models.StopRecord) *models.ResultTable {
	t := models.NewResultTable("violation", "average_stop_duration")
	for _, g := range groupBy(records, byViolation) {
		var sum, n int64
		for _, r := range g.rows {
			if tenths, ok := durationTenths(r.StopDuration); ok {
				sum += tenths
				n++
			}
		}
		avg := models.Null()
		if n > 0 {
			// AVG over a one-place decimal keeps five places.
			avg = models.Float(float64(roundHalfUp(sum*10000, n)) / 100000)
		}
		t.Append(g.key[0], avg)
	}
	return t
}

func evalNightArrests(records []models.StopRecord) *models.ResultTable {
	t := models.NewResultTable("stop_period", "total_stops", "arrests", "arrest_rate_percent")
	groups := groupBy(records, func(r models.StopRecord) []models.Value {
		period := "DAY"
		if h, ok := hourOf(r.StopTime); ok && (h >= 18 || h < 6) {
			period = "NIGHT"
		}
		return []models.Value{models.String(period)}
	})
	for _, g := range groups {
		arrests := countIf(g.rows, arrested)
		t.Append(g.key[0], count(len(g.rows)), count(arrests), rate(arrests, len(g.rows)))
	}
	return t
}

// searchArrestRates builds the per-violation search and arrest table shared
// by the "most" and "rarely" entries; pick chooses the combined rate.
func searchArrestRates(records []models.StopRecord, combined string, pick func(a, b float64) float64) *models.ResultTable {
	t := models.NewResultTable("violation", "count_of_the_search", "count_of_the_arrest",
		"search_rate", "arrest_rate", combined)
	for _, g := range groupBy(records, byViolation) {
		searches := countIf(g.rows, searched)
		arrests := countIf(g.rows, arrested)
		sr := rate(searches, len(g.rows))
		ar := rate(arrests, len(g.rows))
		s, _ := sr.Float()
		a, _ := ar.Float()
		t.Append(g.key[0], count(searches), count(arrests), sr, ar, models.Float(pick(s, a)))
	}
	return t
}

func evalMostSearchOrArrest(records []models.StopRecord) *models.ResultTable {
	t := searchArrestRates(records, "maximum_arrest_or_search_rate", func(a, b float64) float64 { return max(a, b) })
	return sortRows(t, 1, desc(5), asc(0))
}

func evalRarelySearchOrArrest(records []models.StopRecord) *models.ResultTable {
	t := searchArrestRates(records, "rarely_arrest_or_search_rate", func(a, b float64) float64 { return min(a, b) })
	return sortRows(t, 1, asc(5), asc(0))
}

func evalYoungDriverViolation(records []models.StopRecord) *models.ResultTable {
	t := models.NewResultTable("violation", "counts_of_driver")
	young := filter(records, func(r models.StopRecord) bool {
		age, ok := r.Age()
		return ok && age < 25
	})
	for _, g := range groupBy(young, byViolation) {
		t.Append(g.key[0], count(len(g.rows)))
	}
	return sortRows(t, 1, desc(1), asc(0))
}

func evalDrugRateByCountry(records []models.StopRecord) *models.ResultTable {
	t := models.NewResultTable("country_name", "tot_counts", "drugs_related_stop_rates")
	for _, g := range groupBy(records, byCountry) {
		t.Append(g.key[0], count(len(g.rows)), rate(countIf(g.rows, drugRelated), len(g.rows)))
	}
	return sortRows(t, 1, desc(2), asc(0))
}

func evalArrestRateByCountryViolation(records []models.StopRecord) *models.ResultTable {
	t := models.NewResultTable("country_name", "violation", "tot_count", "arrest_rate")
	groups := groupBy(records, func(r models.StopRecord) []models.Value {
		return []models.Value{text(r.CountryName), text(r.Violation)}
	})
	for _, g := range groups {
		t.Append(g.key[0], g.key[1], count(len(g.rows)), rate(countIf(g.rows, arrested), len(g.rows)))
	}
	return t
}

func evalSearchesByCountry(records []models.StopRecord) *models.ResultTable {
	t := models.NewResultTable("country_name", "no_of_counts")
	for _, g := range groupBy(records, byCountry) {
		t.Append(g.key[0], count(countIf(g.rows, searched)))
	}
	return sortRows(t, 1, desc(1), asc(0))
}

func evalTopArrestViolations(records []models.StopRecord) *models.ResultTable {
	t := models.NewResultTable("violation", "total", "arrest_rate")
	for _, g := range groupBy(records, byViolation) {
		t.Append(g.key[0], count(len(g.rows)), rate(countIf(g.rows, arrested), len(g.rows)))
	}
	return sortRows(t, 5, desc(2), asc(0))
}

func evalDemographics(records []models.StopRecord) *models.ResultTable {
	t := models.NewResultTable("country_name", "tot_driver", "Male_driver", "Female_driver",
		"Asian_driver", "Black_driver", "Hispanic_driver", "Other_people", "White_driver",
		"less_than_thirty", "between_thirty_and_fifty", "greater_than_fifty")

	gender := func(g string) func(models.StopRecord) bool {
		return func(r models.StopRecord) bool { return equalText(r.DriverGender, g) }
	}
	race := func(race string) func(models.StopRecord) bool {
		return func(r models.StopRecord) bool { return equalText(r.DriverRace, race) }
	}
	age := func(keep func(int) bool) func(models.StopRecord) bool {
		return func(r models.StopRecord) bool {
			a, ok := r.Age()
			return ok && keep(a)
		}
	}

	for _, g := range groupBy(records, byCountry) {
		t.Append(g.key[0],
			count(len(g.rows)),
			count(countIf(g.rows, gender("M"))),
			count(countIf(g.rows, gender("F"))),
			count(countIf(g.rows, race("Asian"))),
			count(countIf(g.rows, race("Black"))),
			count(countIf(g.rows, race("Hispanic"))),
			count(countIf(g.rows, race("Other"))),
			count(countIf(g.rows, race("White"))),
			count(countIf(g.rows, age(func(a int) bool { return a < 30 }))),
			count(countIf(g.rows, age(func(a int) bool { return a >= 30 && a <= 50 }))),
			count(countIf(g.rows, age(func(a int) bool { return a > 50 }))),
		)
	}
	return t
}

func evalHighSearchAndArrest(records []models.StopRecord) *models.ResultTable {
	t := models.NewResultTable("violation", "total_stops", "total_searches", "total_arrests",
		"search_rate_percent", "arrest_rate_percent")
	for _, g := range groupBy(records, byViolation) {
		searches := countIf(g.rows, searched)
		arrests := countIf(g.rows, arrested)
		sr := rate(searches, len(g.rows))
		ar := rate(arrests, len(g.rows))
		s, _ := sr.Float()
		a, _ := ar.Float()
		if s <= 20 && a <= 20 {
			continue
		}
		// SUM over a partition yields a decimal, COUNT an integer.
		t.Append(g.key[0], count(len(g.rows)),
			models.Float(float64(searches)), models.Float(float64(arrests)), sr, ar)
	}
	return sortRows(t, 0, desc(4), desc(5), asc(0))
}

func evalStopsByPeriod(records []models.StopRecord) *models.ResultTable {
	t := models.NewResultTable("STOP_YEAR", "STOP_MONTH", "STOP_HOUR", "total_stops")
	groups := groupBy(records, func(r models.StopRecord) []models.Value {
		return []models.Value{yearValue(r.StopDate), monthValue(r.StopDate), hourValue(r.StopTime)}
	})
	for _, g := range groups {
		t.Append(g.key[0], g.key[1], g.key[2], count(len(g.rows)))
	}
	return t
}

func evalRaceAgeTrend(records []models.StopRecord) *models.ResultTable {
	t := models.NewResultTable("age_group", "driver_race", "total_violations")
	// The join against the per-age lookup drops rows without an age.
	known := filter(records, func(r models.StopRecord) bool {
		_, ok := r.Age()
		return ok
	})
	groups := groupBy(known, func(r models.StopRecord) []models.Value {
		age, _ := r.Age()
		return []models.Value{models.String(ageGroupTrend(age)), text(r.DriverRace)}
	})
	for _, g := range groups {
		t.Append(g.key[0], g.key[1], count(len(g.rows)))
	}
	return t
}

func evalYearlyByCountry(records []models.StopRecord) *models.ResultTable {
	t := models.NewResultTable("stop_year", "country_name", "total_stops", "total_arrests",
		"arrest_rate_percent", "cumulative_arrests")
	groups := groupBy(records, func(r models.StopRecord) []models.Value {
		return []models.Value{text(r.CountryName), yearValue(r.StopDate)}
	})

	// Groups arrive ordered by country then year, so the running total
	// resets whenever the country changes.
	var running int
	partition := ""
	for i, g := range groups {
		if id := keyID(g.key[:1]); i == 0 || id != partition {
			running = 0
			partition = id
		}
		arrests := countIf(g.rows, arrested)
		running += arrests
		t.Append(g.key[1], g.key[0], count(len(g.rows)), count(arrests),
			rate(arrests, len(g.rows)), models.Float(float64(running)))
	}
	return t
}
