package domain

// Utility is one cell of the utility matrix. True is the utility a user
// actually gains from a good and stays hidden from the decision rule;
// Expected is the obfuscated signal the user observes before consuming.
type Utility struct {
	True     float64 `json:"true"`
	Expected float64 `json:"expected"`
}

// UtilityMatrix is a dense n×n table of per-(user, good) utilities,
// generated once at the start of a run and immutable afterwards.
type UtilityMatrix struct {
	n     int
	cells [][]Utility
}

func NewUtilityMatrix(cells [][]Utility) *UtilityMatrix {
	return &UtilityMatrix{n: len(cells), cells: cells}
}

func (m *UtilityMatrix) N() int { return m.n }

func (m *UtilityMatrix) At(user, good int) Utility {
	return m.cells[user][good]
}

// Row returns the user's utility row. Callers must treat it as read-only.
func (m *UtilityMatrix) Row(user int) []Utility {
	return m.cells[user]
}

// TrueTable exports the hidden utilities as a dense table for reporting.
func (m *UtilityMatrix) TrueTable() [][]float64 {
	out := make([][]float64, m.n)
	for i := range m.cells {
		row := make([]float64, m.n)
		for j, c := range m.cells[i] {
			row[j] = c.True
		}
		out[i] = row
	}
	return out
}

// ExpectedTable exports the observed utilities as a dense table.
func (m *UtilityMatrix) ExpectedTable() [][]float64 {
	out := make([][]float64, m.n)
	for i := range m.cells {
		row := make([]float64, m.n)
		for j, c := range m.cells[i] {
			row[j] = c.Expected
		}
		out[i] = row
	}
	return out
}

// ReviewMatrix is a sparse n×n table of review scores. An entry exists only
// if the user consumed the good and left a review; absence is meaningful and
// distinct from a zero score. Entries are write-once for the life of a run.
type ReviewMatrix struct {
	n    int
	rows []map[int]float64
}

func NewReviewMatrix(n int) *ReviewMatrix {
	rows := make([]map[int]float64, n)
	for i := range rows {
		rows[i] = make(map[int]float64)
	}
	return &ReviewMatrix{n: n, rows: rows}
}

func (m *ReviewMatrix) N() int { return m.n }

func (m *ReviewMatrix) Score(user, good int) (float64, bool) {
	s, ok := m.rows[user][good]
	return s, ok
}

// Row returns the user's review entries. Callers must treat it as read-only.
func (m *ReviewMatrix) Row(user int) map[int]float64 {
	return m.rows[user]
}

// Record writes a review and enforces the write-once rule.
func (m *ReviewMatrix) Record(user, good int, score float64) error {
	if _, ok := m.rows[user][good]; ok {
		return &AlreadyReviewedError{User: user, Good: good}
	}
	m.rows[user][good] = score
	return nil
}

// ReviewCounts returns, per good, how many users reviewed it. This is the
// popularity proxy used by the analysis pass.
func (m *ReviewMatrix) ReviewCounts() []int {
	counts := make([]int, m.n)
	for _, row := range m.rows {
		for good := range row {
			counts[good]++
		}
	}
	return counts
}

// TotalReviews returns the number of entries across all users.
func (m *ReviewMatrix) TotalReviews() int {
	total := 0
	for _, row := range m.rows {
		total += len(row)
	}
	return total
}

// DenseTable exports the matrix as a dense table for reporting, with NaN
// markers replaced by the provided blank value.
func (m *ReviewMatrix) DenseTable(blank float64) [][]float64 {
	out := make([][]float64, m.n)
	for i := range m.rows {
		row := make([]float64, m.n)
		for j := range row {
			row[j] = blank
		}
		for good, score := range m.rows[i] {
			row[good] = score
		}
		out[i] = row
	}
	return out
}
