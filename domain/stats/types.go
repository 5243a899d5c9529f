package stats

// Alpha is the fixed significance level for every descriptor test
const Alpha = 0.05

// TestType identifies the statistical routine
type TestType string

const TestMannWhitneyU TestType = "mann_whitney_u"

// Method is how the p-value was obtained
type Method string

const (
	MethodExact      Method = "exact"
	MethodAsymptotic Method = "asymptotic"
)

// Interpretation is the verdict rendered from (p-value, alpha)
type Interpretation string

const (
	SameDistribution      Interpretation = "same distribution (fail to reject null hypothesis)"
	DifferentDistribution Interpretation = "different distribution (reject null hypothesis)"
)

// Interpret renders the verdict: p > alpha fails to reject the null hypothesis
func Interpret(pValue, alpha float64) Interpretation {
	if pValue > alpha {
		return SameDistribution
	}
	return DifferentDistribution
}

// GroupSummary describes one side of a two-sample comparison
type GroupSummary struct {
	Class  string  `json:"class"`
	N      int     `json:"n"`
	Median float64 `json:"median"`
	Mean   float64 `json:"mean"`
}

// TestResult is the outcome of one descriptor comparison between the active
// and inactive groups. Statistic is U for the active group.
type TestResult struct {
	Descriptor     string         `json:"descriptor"`
	Test           TestType       `json:"test"`
	Statistic      float64        `json:"statistic"`
	PValue         float64        `json:"p_value"`
	Alpha          float64        `json:"alpha"`
	Interpretation Interpretation `json:"interpretation"`
	Method         Method         `json:"method"`
	Active         GroupSummary   `json:"active"`
	Inactive       GroupSummary   `json:"inactive"`
}

// OutcomeStatus distinguishes a computed result from "nothing to compute"
type OutcomeStatus string

const (
	StatusCompleted        OutcomeStatus = "completed"
	StatusInsufficientData OutcomeStatus = "insufficient_data"
)

// TestOutcome is produced once per tested descriptor
type TestOutcome struct {
	Descriptor string        `json:"descriptor"`
	Status     OutcomeStatus `json:"status"`
	Result     *TestResult   `json:"result,omitempty"`
	Reason     string        `json:"reason,omitempty"`
}

// Completed reports whether a statistic was computed
func (o TestOutcome) Completed() bool {
	return o.Status == StatusCompleted && o.Result != nil
}
