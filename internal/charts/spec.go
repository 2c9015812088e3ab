// Package charts decides which charts describe a result table.
package charts

// NoResults is the notice shown for an empty result.
const NoResults = "NO RESULTS FOUND"

// Spec is a chart description. The concrete types below are the only
// implementations; switch on them to render.
type Spec interface {
	isSpec()
}

// Bar plots one value per category.
type Bar struct {
	Title  string
	X      string
	Y      string
	Labels []string
	Values []float64
}

// Pie shows shares of a whole.
type Pie struct {
	Title  string
	Labels []string
	Values []float64
}

// Line is a series over ordered categories.
type Line struct {
	Title  string
	X      string
	Y      string
	Labels []string
	Values []float64
}

// Heatmap is a grid of counts. Values[i][j] belongs to Rows[i] and Cols[j].
type Heatmap struct {
	Title  string
	Rows   []string
	Cols   []string
	Values [][]float64
}

// Histogram counts occurrences of each distinct value of Field.
type Histogram struct {
	Title  string
	Field  string
	Labels []string
	Counts []int
}

// Empty replaces a chart when there is nothing to plot.
type Empty struct {
	Message string
}

func (Bar) isSpec()       {}
func (Pie) isSpec()       {}
func (Line) isSpec()      {}
func (Heatmap) isSpec()   {}
func (Histogram) isSpec() {}
func (Empty) isSpec()     {}

// Max returns the largest value, or 0 for no values.
func Max(values []float64) float64 {
	m := 0.0
	for i, v := range values {
		if i == 0 || v > m {
			m = v
		}
	}
	return m
}

// Sum adds the values.
func Sum(values []float64) float64 {
	s := 0.0
	for _, v := range values {
		s += v
	}
	return s
}
