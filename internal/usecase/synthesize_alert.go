package usecase

import (
	"github.com/ycyeo-mongodb/atlas-alerts-aws/internal/domain"
)

const notificationIntervalMin = 60

// Synthesize builds the final alert-configuration record for one alert name
// from its normalized threshold and static mapping. The mapping's shape
// selects the comparison block; the notification block is always present.
func Synthesize(
	threshold domain.NormalizedThreshold,
	mapping domain.AlertTypeMapping,
	notificationRoles []string,
	notificationEmail string,
) domain.AlertConfiguration {
	config := domain.AlertConfiguration{
		EventTypeName: mapping.EventType,
		Enabled:       true,
		Matchers:      []domain.Matcher{},
		Notifications: []domain.Notification{
			{
				TypeName:     "GROUP",
				IntervalMin:  notificationIntervalMin,
				DelayMin:     threshold.DurationMinutes,
				EmailEnabled: true,
				Roles:        notificationRoles,
			},
		},
	}
	if notificationEmail != "" {
		config.Notifications = append(config.Notifications, domain.Notification{
			TypeName:     "EMAIL",
			IntervalMin:  notificationIntervalMin,
			DelayMin:     threshold.DurationMinutes,
			EmailAddress: notificationEmail,
		})
	}

	switch mapping.Shape {
	case domain.ShapeMetric:
		units := mapping.UnitsHint
		if threshold.Unit != domain.UnitNone && threshold.Unit != domain.UnitRaw {
			units = threshold.Unit
		}
		config.MetricThreshold = &domain.MetricThreshold{
			MetricName: mapping.MetricName,
			Operator:   threshold.OperatorOr(domain.OperatorGreaterThan),
			Threshold:  threshold.ValueOr(0),
			Units:      units,
			Mode:       "AVERAGE",
		}

	case domain.ShapeOplogWindow:
		if !threshold.IsEvent {
			hours := threshold.ValueOr(24)
			if threshold.Unit == domain.UnitSeconds {
				hours /= 3600
			}
			whole := int(hours)
			// Never emit a zero-hour window.
			if hours < 1 {
				whole = 1
			}
			config.Threshold = &domain.Threshold{
				Operator:  threshold.OperatorOr(domain.OperatorLessThan),
				Threshold: whole,
				Units:     domain.UnitHours,
			}
		}

	case domain.ShapeSnapshotBehind:
		if !threshold.IsEvent {
			hours := threshold.ValueOr(12)
			if threshold.Unit == domain.UnitSeconds {
				hours /= 3600
			}
			config.Threshold = &domain.Threshold{
				Operator:  domain.OperatorGreaterThan,
				Threshold: int(hours),
				Units:     domain.UnitHours,
			}
		}

	case domain.ShapeElections:
		if !threshold.IsEvent {
			config.Threshold = &domain.Threshold{
				Operator:  threshold.OperatorOr(domain.OperatorGreaterThan),
				Threshold: int(threshold.ValueOr(3)),
				Units:     domain.UnitRaw,
			}
		}

	case domain.ShapeDuration:
		// Host-down style alerts trigger on persistence alone, so this
		// fires even when the expression was an event shortcut like
		// "15 minutes".
		config.Threshold = &domain.Threshold{
			Operator:  domain.OperatorGreaterThan,
			Threshold: threshold.DurationMinutes,
			Units:     domain.UnitMinutes,
		}

	case domain.ShapeOccurrence:
		// Occurrence alerts carry only the notification block.
	}

	return config
}
