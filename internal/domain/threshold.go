package domain

// Operator is a comparison direction understood by the Atlas alerts API.
type Operator string

const (
	// OperatorNone marks thresholds with no magnitude comparison at all,
	// e.g. "Any occurrence".
	OperatorNone        Operator = ""
	OperatorGreaterThan Operator = "GREATER_THAN"
	OperatorLessThan    Operator = "LESS_THAN"
)

// Unit is a threshold unit identifier understood by the Atlas alerts API.
type Unit string

const (
	// UnitNone is the zero value, used when no unit applies (occurrence
	// triggers). Callers must fall back to a mapping's unit hint.
	UnitNone         Unit = ""
	UnitRaw          Unit = "RAW"
	UnitMilliseconds Unit = "MILLISECONDS"
	UnitSeconds      Unit = "SECONDS"
	UnitBytes        Unit = "BYTES"
	UnitMinutes      Unit = "MINUTES"
	UnitHours        Unit = "HOURS"
)

// NormalizedThreshold is the structured form of one free-text threshold
// expression. Value is already converted to the base unit of its Unit field
// (seconds for time spans, bytes for data sizes). A nil Value means the
// expression carried no magnitude at all; IsEvent=true implies Operator is
// OperatorNone and Value is ignored.
type NormalizedThreshold struct {
	Operator        Operator
	Value           *float64
	Unit            Unit
	DurationMinutes int
	IsEvent         bool
}

// ValueOr returns the parsed magnitude, or def when the expression had none.
func (t NormalizedThreshold) ValueOr(def float64) float64 {
	if t.Value == nil {
		return def
	}
	return *t.Value
}

// OperatorOr returns the parsed operator, or def when no comparison applies.
func (t NormalizedThreshold) OperatorOr(def Operator) Operator {
	if t.Operator == OperatorNone {
		return def
	}
	return t.Operator
}
