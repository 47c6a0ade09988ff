package domain

import "fmt"

// EventType is a platform-defined trigger category, distinct from free-form
// numeric metric comparisons.
type EventType string

const (
	EventOutsideMetricThreshold EventType = "OUTSIDE_METRIC_THRESHOLD"
	EventOplogWindowRunningOut  EventType = "REPLICATION_OPLOG_WINDOW_RUNNING_OUT"
	EventTooManyElections       EventType = "TOO_MANY_ELECTIONS"
	EventHostDown               EventType = "HOST_DOWN"
	EventNoPrimary              EventType = "NO_PRIMARY"
	EventPrimaryElected         EventType = "PRIMARY_ELECTED"
	EventSnapshotFailed         EventType = "CPS_SNAPSHOT_FAILED"
	EventRestoreSuccessful      EventType = "CPS_RESTORE_SUCCESSFUL"
	EventSnapshotFallbackFailed EventType = "CPS_SNAPSHOT_FALLBACK_FAILED"
	EventSnapshotBehind         EventType = "CPS_SNAPSHOT_BEHIND"
)

// ThresholdShape selects how the synthesizer turns a parsed threshold into
// the comparison block of an alert configuration. One variant per event type
// that needs special shaping, so adding an alert type is a localized change.
type ThresholdShape int

const (
	// ShapeOccurrence emits no comparison block: the alert fires on the
	// event itself.
	ShapeOccurrence ThresholdShape = iota
	// ShapeMetric emits a metricThreshold block for a named metric.
	ShapeMetric
	// ShapeOplogWindow emits an hour-based threshold block, re-expressing
	// parsed seconds as hours and flooring the result at one hour.
	ShapeOplogWindow
	// ShapeSnapshotBehind emits an hour-based threshold block with the
	// operator forced to GREATER_THAN.
	ShapeSnapshotBehind
	// ShapeElections emits a RAW integer-count threshold block.
	ShapeElections
	// ShapeDuration emits a minute-based threshold block from the parsed
	// persistence duration, even when the expression was an event shortcut:
	// for these alerts persistence is the only meaningful signal.
	ShapeDuration
)

// AlertTypeMapping is the static configuration for one symbolic alert name.
type AlertTypeMapping struct {
	EventType  EventType
	MetricName string // set only for ShapeMetric
	UnitsHint  Unit   // default unit when the expression carries none
	Shape      ThresholdShape
	Skip       bool // alert type known but not provisionable
}

// Catalog maps symbolic alert names to their static mapping. It is built
// once at process start and passed explicitly to the synthesizer.
type Catalog map[string]AlertTypeMapping

// NewCatalog returns the mapping table for every supported alert name.
// Metric names are the identifiers the Atlas measurements API documents.
func NewCatalog() (Catalog, error) {
	c := Catalog{
		"Oplog Window": {
			EventType: EventOplogWindowRunningOut,
			Shape:     ShapeOplogWindow,
		},
		"Number of elections in last hour": {
			EventType: EventTooManyElections,
			Shape:     ShapeElections,
		},
		"Disk read IOPS on Data Partition": {
			EventType:  EventOutsideMetricThreshold,
			MetricName: "DISK_PARTITION_READ_IOPS_DATA",
			UnitsHint:  UnitRaw,
			Shape:      ShapeMetric,
		},
		"Disk write IOPS on Data Partition": {
			EventType:  EventOutsideMetricThreshold,
			MetricName: "DISK_PARTITION_WRITE_IOPS_DATA",
			UnitsHint:  UnitRaw,
			Shape:      ShapeMetric,
		},
		"Disk read latency on Data Partition": {
			EventType:  EventOutsideMetricThreshold,
			MetricName: "DISK_PARTITION_READ_LATENCY_DATA",
			UnitsHint:  UnitMilliseconds,
			Shape:      ShapeMetric,
		},
		"Disk write latency on Data Partition": {
			EventType:  EventOutsideMetricThreshold,
			MetricName: "DISK_PARTITION_WRITE_LATENCY_DATA",
			UnitsHint:  UnitMilliseconds,
			Shape:      ShapeMetric,
		},
		"Swap Usage": {
			EventType:  EventOutsideMetricThreshold,
			MetricName: "SWAP_USAGE_USED",
			UnitsHint:  UnitBytes,
			Shape:      ShapeMetric,
		},
		"Host is Down": {
			EventType: EventHostDown,
			Shape:     ShapeDuration,
		},
		"Replica set has no primary": {
			EventType: EventNoPrimary,
			Shape:     ShapeOccurrence,
		},
		"Page Faults": {
			EventType:  EventOutsideMetricThreshold,
			MetricName: "EXTRA_INFO_PAGE_FAULTS",
			UnitsHint:  UnitRaw,
			Shape:      ShapeMetric,
		},
		"Replication Lag": {
			EventType:  EventOutsideMetricThreshold,
			MetricName: "OPLOG_SLAVE_LAG_MASTER_TIME",
			UnitsHint:  UnitSeconds,
			Shape:      ShapeMetric,
		},
		"Failed backup": {
			EventType: EventSnapshotFailed,
			Shape:     ShapeOccurrence,
		},
		"Restored backup": {
			EventType: EventRestoreSuccessful,
			Shape:     ShapeOccurrence,
		},
		"Fallback snapshot failed": {
			EventType: EventSnapshotFallbackFailed,
			Shape:     ShapeOccurrence,
		},
		"Backup schedule behind": {
			EventType: EventSnapshotBehind,
			Shape:     ShapeSnapshotBehind,
		},
		"Queues: Readers": {
			EventType:  EventOutsideMetricThreshold,
			MetricName: "GLOBAL_LOCK_CURRENT_QUEUE_READERS",
			UnitsHint:  UnitRaw,
			Shape:      ShapeMetric,
		},
		"Queues: Writers": {
			EventType:  EventOutsideMetricThreshold,
			MetricName: "GLOBAL_LOCK_CURRENT_QUEUE_WRITERS",
			UnitsHint:  UnitRaw,
			Shape:      ShapeMetric,
		},
		"Restarts last hour": {
			EventType:  EventOutsideMetricThreshold,
			MetricName: "RESTARTS_IN_LAST_HOUR",
			UnitsHint:  UnitRaw,
			Shape:      ShapeMetric,
		},
		"Replica set elected a new primary": {
			EventType: EventPrimaryElected,
			Shape:     ShapeOccurrence,
		},
		"System: CPU (User) %": {
			EventType:  EventOutsideMetricThreshold,
			MetricName: "NORMALIZED_SYSTEM_CPU_USER",
			UnitsHint:  UnitRaw,
			Shape:      ShapeMetric,
		},
		"Disk space % used on Data Partition": {
			EventType:  EventOutsideMetricThreshold,
			MetricName: "DISK_PARTITION_SPACE_USED_DATA",
			UnitsHint:  UnitRaw,
			Shape:      ShapeMetric,
		},
	}

	for name, mapping := range c {
		if err := validateMapping(mapping); err != nil {
			return nil, fmt.Errorf("invalid mapping for %q: %w", name, err)
		}
	}
	return c, nil
}

// validateMapping asserts that exactly one threshold-shaping mechanism drives
// each mapping: a metric name belongs to ShapeMetric and nothing else.
func validateMapping(m AlertTypeMapping) error {
	if m.EventType == "" {
		return fmt.Errorf("event type is required")
	}
	if m.Shape == ShapeMetric {
		if m.MetricName == "" {
			return fmt.Errorf("metric shape requires a metric name")
		}
		return nil
	}
	if m.MetricName != "" {
		return fmt.Errorf("metric name %s set on non-metric shape", m.MetricName)
	}
	return nil
}
