// Package report renders import run statistics as JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"nvv/ebh-import/internal/logging"
	"nvv/ebh-import/internal/models"
)

// RunReport is the serialisable summary of one import run.
type RunReport struct {
	RunID          string         `json:"run_id" yaml:"run_id"`
	Source         string         `json:"source,omitempty" yaml:"source,omitempty"`
	Mutations      int            `json:"mutations" yaml:"mutations"`
	Lines          int            `json:"lines" yaml:"lines"`
	Failed         int            `json:"failed" yaml:"failed"`
	BankCostLines  int            `json:"bank_cost_lines" yaml:"bank_cost_lines"`
	Provisional    int            `json:"provisional" yaml:"provisional"`
	Unresolved     int            `json:"unresolved" yaml:"unresolved"`
	ResolutionRate float64        `json:"resolution_rate" yaml:"resolution_rate"`
	Categories     map[string]int `json:"categories" yaml:"categories"`
	Signals        map[string]int `json:"signals" yaml:"signals"`
	PartySources   map[string]int `json:"party_sources" yaml:"party_sources"`
}

// Report groups the runs of one invocation.
type Report struct {
	GeneratedAt time.Time   `json:"generated_at" yaml:"generated_at"`
	Runs        []RunReport `json:"runs" yaml:"runs"`
}

// ReportGenerator builds reports in JSON or YAML.
type ReportGenerator struct {
	logger  logging.Logger
	nowFunc func() time.Time
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	return &ReportGenerator{logger: logging.OrNop(logger), nowFunc: time.Now}
}

// Build converts run statistics into a Report. sources names the input of
// each run and may be shorter than runs.
func (g *ReportGenerator) Build(runs []*models.ImportStats, sources []string) *Report {
	r := &Report{GeneratedAt: g.nowFunc().UTC(), Runs: make([]RunReport, 0, len(runs))}
	for i, s := range runs {
		if s == nil {
			continue
		}
		run := RunReport{
			RunID:          s.RunID,
			Mutations:      s.Mutations,
			Lines:          s.Lines,
			Failed:         s.Failed,
			BankCostLines:  s.BankCosts,
			Provisional:    s.Provisional(),
			Unresolved:     s.Unresolved,
			ResolutionRate: s.ResolutionRate(),
			Categories:     make(map[string]int, len(s.Categories)),
			Signals:        make(map[string]int, len(s.Signals)),
			PartySources:   make(map[string]int, len(s.PartySource)),
		}
		if i < len(sources) {
			run.Source = sources[i]
		}
		for k, v := range s.Categories {
			run.Categories[k] = v
		}
		for k, v := range s.Signals {
			run.Signals[string(k)] = v
		}
		for k, v := range s.PartySource {
			run.PartySources[string(k)] = v
		}
		r.Runs = append(r.Runs, run)
	}
	return r
}

// GenerateReport renders report in the specified format (json or yaml).
func (g *ReportGenerator) GenerateReport(report *Report, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		return g.generateJSONReport(report)
	case "yaml", "yml":
		return g.generateYAMLReport(report)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

// WriteReport renders report in the format implied by the extension of path
// and writes it there.
func (g *ReportGenerator) WriteReport(report *Report, path string) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	data, err := g.GenerateReport(report, format)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, models.PermissionReportFile); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	g.logger.Info("Wrote import report",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(report.Runs)})
	return nil
}

func (g *ReportGenerator) generateJSONReport(report *Report) ([]byte, error) {
	jsonReport, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return jsonReport, nil
}

func (g *ReportGenerator) generateYAMLReport(report *Report) ([]byte, error) {
	yamlReport, err := yaml.Marshal(report)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return yamlReport, nil
}
