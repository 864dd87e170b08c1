package di

import (
	"fmt"

	"github.com/guyc74/stocks/internal/config"
	"github.com/guyc74/stocks/internal/modules/charts"
	"github.com/guyc74/stocks/internal/modules/metrics"
	"github.com/guyc74/stocks/internal/modules/report"
	"github.com/guyc74/stocks/internal/modules/scoring"
	"github.com/guyc74/stocks/internal/modules/universe"
	"github.com/rs/zerolog"
)

// InitializeServices creates the computation services. The rule table is
// read from cfg.RulesFile when set.
func InitializeServices(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	rules, err := scoring.LoadRuleSet(cfg.RulesFile)
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}

	container.Codec = universe.NewCodec(log)
	container.Calculator = metrics.NewCalculator(cfg.ReferenceYear, log)
	container.Scorer = scoring.NewScorer(container.Calculator, rules, log)
	container.ChartService = charts.NewService(cfg.ChartDir, container.Calculator, log)
	container.ReportBuilder = report.NewBuilder(container.Scorer, container.ChartService, log)
	container.ReportHolder = report.NewHolder()

	log.Debug().
		Int("rules", len(rules.Rules)).
		Int("reference_year", cfg.ReferenceYear).
		Msg("Services initialized")

	return nil
}
