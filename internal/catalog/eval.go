package catalog

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/j-veylop/securecheck-dashboard/internal/models"
)

// Evaluator computes an entry's result over loaded ledger records. Its output
// matches what the SQL template returns on MySQL: same columns, grouping
// keys, rounding, ordering and limits.
type Evaluator func(records []models.StopRecord) *models.ResultTable

// group is one GROUP BY bucket.
type group struct {
	key  []models.Value
	rows []models.StopRecord
}

// groupBy buckets records by key, returning groups in ascending key order.
// Text keys group without regard to case and keep the first-seen spelling,
// as MySQL does; "" is NULL.
func groupBy(records []models.StopRecord, key func(models.StopRecord) []models.Value) []*group {
	index := make(map[string]*group)
	var groups []*group
	for _, r := range records {
		k := key(r)
		id := keyID(k)
		g, ok := index[id]
		if !ok {
			g = &group{key: k}
			index[id] = g
			groups = append(groups, g)
		}
		g.rows = append(g.rows, r)
	}
	slices.SortStableFunc(groups, func(a, b *group) int {
		return compareKeys(a.key, b.key)
	})
	return groups
}

func keyID(k []models.Value) string {
	var b strings.Builder
	for _, v := range k {
		b.WriteString(v.Kind().String())
		b.WriteByte(':')
		if v.Kind() == models.KindString {
			b.WriteString(strings.ToLower(v.String()))
		} else {
			b.WriteString(v.String())
		}
		b.WriteByte(0)
	}
	return b.String()
}

func compareKeys(a, b []models.Value) int {
	for i := range min(len(a), len(b)) {
		if c := compareValues(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

// compareValues orders NULL first, numbers numerically and text without
// regard to case, the way the default MySQL collation sorts.
func compareValues(a, b models.Value) int {
	switch {
	case a.IsNull() && b.IsNull():
		return 0
	case a.IsNull():
		return -1
	case b.IsNull():
		return 1
	}
	af, aNum := numeric(a)
	bf, bNum := numeric(b)
	if aNum && bNum {
		return cmp.Compare(af, bf)
	}
	as, bs := a.String(), b.String()
	if c := strings.Compare(strings.ToLower(as), strings.ToLower(bs)); c != 0 {
		return c
	}
	return strings.Compare(as, bs)
}

func numeric(v models.Value) (float64, bool) {
	switch v.Kind() {
	case models.KindInt, models.KindFloat, models.KindBool:
		return v.Float()
	}
	return 0, false
}

// text returns a text cell, NULL for "".
func text(s string) models.Value {
	if s == "" {
		return models.Null()
	}
	return models.String(s)
}

func count(n int) models.Value {
	return models.Int(int64(n))
}

// countIf counts rows matching pred.
func countIf(rows []models.StopRecord, pred func(models.StopRecord) bool) int {
	n := 0
	for _, r := range rows {
		if pred(r) {
			n++
		}
	}
	return n
}

// rate is round(num/den*100, 2) with MySQL decimal division: the quotient is
// kept to four places, rounded half up. NULL when den is zero.
func rate(num, den int) models.Value {
	if den == 0 {
		return models.Null()
	}
	return models.Float(float64(roundHalfUp(int64(num)*10000, int64(den))) / 100)
}

// roundHalfUp divides non-negative n by positive d, rounding half up.
func roundHalfUp(n, d int64) int64 {
	return (2*n + d) / (2 * d)
}

// equalText compares case-insensitively, as a MySQL '=' predicate does.
func equalText(a, b string) bool {
	return strings.EqualFold(a, b)
}

// hourOf extracts the hour from a stop time the way
// hour(str_to_date(stop_time, '%H:%i')) does: a one or two digit hour in
// 0..23, a colon, then a one or two digit minute. Anything else is NULL.
func hourOf(stopTime string) (int, bool) {
	h, rest, ok := strings.Cut(stopTime, ":")
	if !ok || len(h) == 0 || len(h) > 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	n := 0
	for n < len(rest) && n < 2 && rest[n] >= '0' && rest[n] <= '9' {
		n++
	}
	if n == 0 {
		return 0, false
	}
	if minute, _ := strconv.Atoi(rest[:n]); minute > 59 {
		return 0, false
	}
	return hour, true
}

func hourValue(stopTime string) models.Value {
	if h, ok := hourOf(stopTime); ok {
		return models.Int(int64(h))
	}
	return models.Null()
}

// dateParts extracts year and month from a YYYY-MM-DD prefix.
func dateParts(stopDate string) (year, month int, ok bool) {
	parts := strings.SplitN(stopDate, "-", 3)
	if len(parts) < 3 {
		return 0, 0, false
	}
	year, errY := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	day := parts[2]
	if len(day) > 2 {
		day = day[:2]
	}
	d, errD := strconv.Atoi(day)
	if errY != nil || errM != nil || errD != nil || month < 1 || month > 12 || d < 1 || d > 31 {
		return 0, 0, false
	}
	return year, month, true
}

func yearValue(stopDate string) models.Value {
	if y, _, ok := dateParts(stopDate); ok {
		return models.Int(int64(y))
	}
	return models.Null()
}

func monthValue(stopDate string) models.Value {
	if _, m, ok := dateParts(stopDate); ok {
		return models.Int(int64(m))
	}
	return models.Null()
}

// ageGroupWide buckets ages 18-25, 26-35, 36-45, 46-60 and puts everything
// else, unknown ages included, in "60+".
func ageGroupWide(r models.StopRecord) string {
	age, ok := r.Age()
	switch {
	case !ok:
		return "60+"
	case age >= 18 && age <= 25:
		return "18-25"
	case age >= 26 && age <= 35:
		return "26-35"
	case age >= 36 && age <= 45:
		return "36-45"
	case age >= 46 && age <= 60:
		return "46-60"
	default:
		return "60+"
	}
}

// ageGroupTrend buckets a known age into 16-25, 26-35, 36-50, 51+, with
// younger drivers "Unknown".
func ageGroupTrend(age int) string {
	switch {
	case age >= 16 && age <= 25:
		return "16-25"
	case age >= 26 && age <= 35:
		return "26-35"
	case age >= 36 && age <= 50:
		return "36-50"
	case age > 50:
		return "51+"
	default:
		return "Unknown"
	}
}

// durationTenths maps a duration bucket to its representative minutes,
// counted in tenths so averages stay exact.
func durationTenths(bucket string) (int64, bool) {
	switch {
	case equalText(bucket, "0-15 Min"):
		return 75, true
	case equalText(bucket, "16-30 Min"):
		return 230, true
	case equalText(bucket, "30+ Min"):
		return 350, true
	}
	return 0, false
}

// sortRows stably orders rows by the given column comparators, then cuts to
// limit (0 means no limit).
func sortRows(t *models.ResultTable, limit int, by ...func(a, b []models.Value) int) *models.ResultTable {
	slices.SortStableFunc(t.Rows, func(a, b []models.Value) int {
		for _, f := range by {
			if c := f(a, b); c != 0 {
				return c
			}
		}
		return 0
	})
	if limit > 0 && len(t.Rows) > limit {
		t.Rows = t.Rows[:limit]
	}
	return t
}

func desc(col int) func(a, b []models.Value) int {
	return func(a, b []models.Value) int { return compareValues(b[col], a[col]) }
}

func asc(col int) func(a, b []models.Value) int {
	return func(a, b []models.Value) int { return compareValues(a[col], b[col]) }
}
