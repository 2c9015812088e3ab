package charts

import (
	"slices"
	"strconv"
	"time"

	"github.com/j-veylop/securecheck-dashboard/internal/models"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
}

var clockLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04:05 PM",
	"3:04 PM",
}

var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Dashboard builds the fixed charts of the key metrics view from the full
// ledger table. Each chart appears only when the columns it needs exist.
func Dashboard(t *models.ResultTable) []Spec {
	if t == nil || len(t.Columns) == 0 {
		return nil
	}
	records := models.RecordsFromTable(t)

	var specs []Spec
	if t.Has(models.ColStopOutcome) {
		if h, ok := outcomeHistogram(records); ok {
			specs = append(specs, h)
		}
	}
	if t.Has(models.ColDriverGender) {
		if p, ok := genderPie(records); ok {
			specs = append(specs, p)
		}
	}
	if t.Has(models.ColStopDate) {
		if l, ok := monthlyLine(records); ok {
			specs = append(specs, l)
		}
	}
	if t.Has(models.ColStopDate) && t.Has(models.ColStopTime) {
		if h, ok := dayHourHeatmap(records); ok {
			specs = append(specs, h)
		}
	}
	return specs
}

// tally counts non-empty values in first-seen order.
func tally(records []models.StopRecord, field func(models.StopRecord) string) ([]string, []int) {
	var keys []string
	counts := make(map[string]int)
	for _, r := range records {
		v := field(r)
		if v == "" {
			continue
		}
		if _, ok := counts[v]; !ok {
			keys = append(keys, v)
		}
		counts[v]++
	}
	out := make([]int, len(keys))
	for i, k := range keys {
		out[i] = counts[k]
	}
	return keys, out
}

func outcomeHistogram(records []models.StopRecord) (Histogram, bool) {
	keys, counts := tally(records, func(r models.StopRecord) string { return r.StopOutcome })
	if len(keys) == 0 {
		return Histogram{}, false
	}
	return Histogram{
		Title:  "Distribution of Stop Outcomes",
		Field:  models.ColStopOutcome,
		Labels: keys,
		Counts: counts,
	}, true
}

func genderPie(records []models.StopRecord) (Pie, bool) {
	keys, counts := tally(records, func(r models.StopRecord) string { return r.DriverGender })
	if len(keys) == 0 {
		return Pie{}, false
	}

	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int { return counts[b] - counts[a] })

	p := Pie{Title: "Driver Gender Distribution"}
	for _, i := range idx {
		p.Labels = append(p.Labels, keys[i])
		p.Values = append(p.Values, float64(counts[i]))
	}
	return p, true
}

func monthlyLine(records []models.StopRecord) (Line, bool) {
	counts := make(map[string]int)
	for _, r := range records {
		d, ok := parseDate(r.StopDate)
		if !ok {
			continue
		}
		counts[d.Format("2006-01")]++
	}
	if len(counts) == 0 {
		return Line{}, false
	}

	months := make([]string, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	slices.Sort(months)

	l := Line{Title: "Traffic Stops Over Time", X: models.ColStopDate, Y: "Counts", Labels: months}
	for _, m := range months {
		l.Values = append(l.Values, float64(counts[m]))
	}
	return l, true
}

// dayHourHeatmap counts stops with a vehicle number per weekday and hour.
// Rows are the weekdays present, Monday first; columns the hours present.
func dayHourHeatmap(records []models.StopRecord) (Heatmap, bool) {
	type cell struct {
		day  time.Weekday
		hour int
	}
	counts := make(map[cell]int)
	days := make(map[time.Weekday]bool)
	hours := make(map[int]bool)

	for _, r := range records {
		d, ok := parseDate(r.StopDate)
		if !ok {
			continue
		}
		h, ok := parseHour(r.StopTime)
		if !ok {
			continue
		}
		days[d.Weekday()] = true
		hours[h] = true
		if r.VehicleNumber != "" {
			counts[cell{d.Weekday(), h}]++
		}
	}
	if len(days) == 0 {
		return Heatmap{}, false
	}

	hm := Heatmap{Title: "Heatmap of Stops by Hour and Day"}
	var hourList []int
	for h := range 24 {
		if hours[h] {
			hourList = append(hourList, h)
			hm.Cols = append(hm.Cols, strconv.Itoa(h))
		}
	}
	for _, wd := range weekdays {
		if !days[wd] {
			continue
		}
		hm.Rows = append(hm.Rows, wd.String())
		row := make([]float64, len(hourList))
		for j, h := range hourList {
			row[j] = float64(counts[cell{wd, h}])
		}
		hm.Values = append(hm.Values, row)
	}
	return hm, true
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseHour(s string) (int, bool) {
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour(), true
		}
	}
	return 0, false
}
