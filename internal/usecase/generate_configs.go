package usecase

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ycyeo-mongodb/atlas-alerts-aws/internal/adapter/threshold"
	"github.com/ycyeo-mongodb/atlas-alerts-aws/internal/domain"
)

// GenerateConfigsUseCase turns raw alert rows into deduplicated
// configuration files on disk, ready for submission.
type GenerateConfigsUseCase struct {
	rows      domain.RowSource
	catalog   domain.Catalog
	outputDir string
	roles     []string
	email     string
	logger    *slog.Logger
}

// NewGenerateConfigsUseCase creates the batch driver for config generation.
func NewGenerateConfigsUseCase(
	rows domain.RowSource,
	catalog domain.Catalog,
	outputDir string,
	notificationRoles []string,
	notificationEmail string,
	logger *slog.Logger,
) *GenerateConfigsUseCase {
	return &GenerateConfigsUseCase{
		rows:      rows,
		catalog:   catalog,
		outputDir: outputDir,
		roles:     notificationRoles,
		email:     notificationEmail,
		logger:    logger.With("component", "generate_configs"),
	}
}

// Generate parses every row, synthesizes one configuration per priority tier,
// drops duplicates, and writes the survivors as numbered JSON files. The
// returned slice preserves generation order for submission.
func (uc *GenerateConfigsUseCase) Generate() ([]domain.GeneratedAlert, error) {
	rows, err := uc.rows.Rows()
	if err != nil {
		return nil, fmt.Errorf("read alert rows: %w", err)
	}
	uc.logger.Info("read alert definitions", "count", len(rows))

	if err := uc.cleanOutputDir(); err != nil {
		return nil, err
	}

	var generated []domain.GeneratedAlert
	seen := make(map[domain.AlertKey]struct{})
	fileIndex := 1

	for _, row := range rows {
		mapping, ok := uc.catalog[row.Name]
		if !ok {
			uc.logger.Warn("no mapping found for alert", "name", row.Name)
			continue
		}
		if mapping.Skip {
			uc.logger.Info("skipping unsupported alert", "name", row.Name)
			continue
		}

		if hasThresholdText(row.LowThreshold) {
			if alert, ok := uc.generateOne(row.Name, row.LowThreshold, domain.TierLow, mapping, seen, fileIndex); ok {
				generated = append(generated, alert)
				fileIndex++
			}
		}
		if hasThresholdText(row.HighThreshold) && row.HighThreshold != row.LowThreshold {
			if alert, ok := uc.generateOne(row.Name, row.HighThreshold, domain.TierHigh, mapping, seen, fileIndex); ok {
				generated = append(generated, alert)
				fileIndex++
			}
		}
	}

	return generated, nil
}

func (uc *GenerateConfigsUseCase) generateOne(
	name, text string,
	tier domain.PriorityTier,
	mapping domain.AlertTypeMapping,
	seen map[domain.AlertKey]struct{},
	fileIndex int,
) (domain.GeneratedAlert, bool) {
	parsed := threshold.Parse(text)
	config := Synthesize(parsed, mapping, uc.roles, uc.email)

	key := domain.NewAlertKey(mapping, parsed)
	if _, dup := seen[key]; dup {
		uc.logger.Warn("skipping duplicate alert", "name", name, "tier", tier)
		return domain.GeneratedAlert{}, false
	}
	seen[key] = struct{}{}

	filename := fmt.Sprintf("%02d_%s_%s.json", fileIndex, sanitizeName(name), tier)
	path := filepath.Join(uc.outputDir, filename)
	if err := writeConfigFile(path, config); err != nil {
		uc.logger.Error("failed to write config file", "error", err, "path", path)
		return domain.GeneratedAlert{}, false
	}

	uc.logger.Info("generated alert configuration", "file", filename)
	return domain.GeneratedAlert{
		Name:   fmt.Sprintf("%s (%s priority)", name, tier),
		Tier:   tier,
		Path:   path,
		Config: config,
	}, true
}

func (uc *GenerateConfigsUseCase) cleanOutputDir() error {
	if err := os.MkdirAll(uc.outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory %s: %w", uc.outputDir, err)
	}
	old, err := filepath.Glob(filepath.Join(uc.outputDir, "*.json"))
	if err != nil {
		return fmt.Errorf("scan output directory: %w", err)
	}
	if len(old) > 0 {
		uc.logger.Info("cleaning up old config files", "count", len(old))
		for _, path := range old {
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("remove stale config %s: %w", path, err)
			}
		}
	}
	return nil
}

func writeConfigFile(path string, config domain.AlertConfiguration) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal alert configuration: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// hasThresholdText reports whether a threshold column should produce an
// alert at all; empty cells and the literal "none" mean the tier is unused.
func hasThresholdText(text string) bool {
	trimmed := strings.TrimSpace(text)
	return trimmed != "" && !strings.EqualFold(trimmed, "none")
}

func sanitizeName(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "")
	s = strings.ReplaceAll(s, "/", "_")
	return s
}
