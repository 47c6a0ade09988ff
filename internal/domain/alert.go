package domain

// AlertRow is one raw row from the alert specification sheet. The category
// and description columns carry no configuration data; they are kept for
// log context only.
type AlertRow struct {
	Name          string
	Category      string
	LowThreshold  string
	HighThreshold string
	Description   string
}

// PriorityTier selects which of a row's two threshold columns feeds the
// parser. It never alters parsing or synthesis behaviour.
type PriorityTier string

const (
	TierLow  PriorityTier = "low"
	TierHigh PriorityTier = "high"
)

// Notification is one notification target on an alert configuration.
type Notification struct {
	TypeName     string   `json:"typeName"`
	IntervalMin  int      `json:"intervalMin"`
	DelayMin     int      `json:"delayMin"`
	EmailEnabled bool     `json:"emailEnabled,omitempty"`
	Roles        []string `json:"roles,omitempty"`
	EmailAddress string   `json:"emailAddress,omitempty"`
}

// MetricThreshold is the comparison block for metric-based alerts.
type MetricThreshold struct {
	MetricName string   `json:"metricName"`
	Operator   Operator `json:"operator"`
	Threshold  float64  `json:"threshold"`
	Units      Unit     `json:"units"`
	Mode       string   `json:"mode"`
}

// Threshold is the comparison block for event-based alerts that still carry
// a duration-style bound (oplog window hours, host-down minutes, ...).
// Values on this shape are always whole numbers.
type Threshold struct {
	Operator  Operator `json:"operator"`
	Threshold int      `json:"threshold"`
	Units     Unit     `json:"units"`
}

// Matcher scopes an alert to a subset of resources. The provisioner never
// populates matchers, but the field must serialize as an empty array rather
// than null for the Atlas API to accept the document.
type Matcher struct {
	FieldName string `json:"fieldName"`
	Operator  string `json:"operator"`
	Value     string `json:"value"`
}

// AlertConfiguration is the finished record handed to the Atlas CLI. At most
// one of MetricThreshold and Threshold is populated.
type AlertConfiguration struct {
	EventTypeName   EventType        `json:"eventTypeName"`
	Enabled         bool             `json:"enabled"`
	Matchers        []Matcher        `json:"matchers"`
	Notifications   []Notification   `json:"notifications"`
	MetricThreshold *MetricThreshold `json:"metricThreshold,omitempty"`
	Threshold       *Threshold       `json:"threshold,omitempty"`
}

// AlertKey identifies an alert for batch-level deduplication: two rows
// producing the same key are the same alert, and only the first is kept.
// The key deliberately ignores operator and unit; within one alert-name pass
// those are fixed by the mapping, not by row content.
type AlertKey struct {
	EventType       EventType
	MetricName      string
	Threshold       float64
	HasThreshold    bool
	DurationMinutes int
}

// NewAlertKey builds the deduplication key for a synthesized configuration
// from the inputs that produced it.
func NewAlertKey(mapping AlertTypeMapping, threshold NormalizedThreshold) AlertKey {
	key := AlertKey{
		EventType:       mapping.EventType,
		MetricName:      mapping.MetricName,
		DurationMinutes: threshold.DurationMinutes,
	}
	if threshold.Value != nil {
		key.Threshold = *threshold.Value
		key.HasThreshold = true
	}
	return key
}

// GeneratedAlert is one synthesized configuration together with the file it
// was written to, in submission order.
type GeneratedAlert struct {
	Name   string
	Tier   PriorityTier
	Path   string
	Config AlertConfiguration
}
