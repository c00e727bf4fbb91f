package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sm2control/backend/internal/models"
	"github.com/sm2control/backend/pkg/logger"
)

// ReconcileService audits stored network balances against the cut history.
// Balances are authoritative; the audit only reports drift, it never
// rewrites anything.
type ReconcileService struct {
	db   *gorm.DB
	logs *SystemLogService
	cron *cron.Cron
}

func NewReconcileService(db *gorm.DB, logs *SystemLogService) *ReconcileService {
	return &ReconcileService{db: db, logs: logs, cron: cron.New()}
}

// Start schedules the nightly audit and the log retention sweep.
func (s *ReconcileService) Start() error {
	if _, err := s.cron.AddFunc("0 2 * * *", func() {
		if _, err := s.Reconcile(); err != nil {
			logger.Error().Err(err).Msg("balance reconciliation failed")
		}
	}); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("30 2 * * *", func() {
		if err := s.logs.Cleanup(90 * 24 * time.Hour); err != nil {
			logger.Error().Err(err).Msg("system log cleanup failed")
		}
	}); err != nil {
		return err
	}
	s.cron.Start()
	logger.Info().Msg("reconciliation scheduler started")
	return nil
}

func (s *ReconcileService) Stop() {
	s.cron.Stop()
}

// Drift is one balance cell that disagrees with the cut history.
type Drift struct {
	WBS         string          `json:"wbs"`
	NetworkCode string          `json:"networkCode"`
	Category    models.Category `json:"category"`
	Stored      decimal.Decimal `json:"stored"`
	Expected    decimal.Decimal `json:"expected"`
}

// Reconcile recomputes every network balance from full allocations minus
// recorded cuts and reports cells that differ.
func (s *ReconcileService) Reconcile() ([]Drift, error) {
	var projects []models.Project
	if err := s.db.Preload("Networks").Find(&projects).Error; err != nil {
		return nil, err
	}
	var records []models.CutRecord
	if err := s.db.Find(&records).Error; err != nil {
		return nil, err
	}

	type cell struct {
		wbs, network string
		category     models.Category
	}
	spent := make(map[cell]decimal.Decimal)
	for i := range records {
		r := &records[i]
		k := cell{r.WBS, r.NetworkCode, r.Category()}
		spent[k] = spent[k].Add(r.Total())
	}

	var drifts []Drift
	for pi := range projects {
		p := &projects[pi]
		for ni := range p.Networks {
			n := &p.Networks[ni]
			for _, c := range models.Categories {
				expected := n.FullFor(c).Sub(spent[cell{p.WBS, n.Code, c}])
				if expected.Sub(n.BalanceFor(c)).Abs().GreaterThan(decimal.NewFromFloat(0.01)) {
					drifts = append(drifts, Drift{
						WBS:         p.WBS,
						NetworkCode: n.Code,
						Category:    c,
						Stored:      n.BalanceFor(c),
						Expected:    expected,
					})
				}
			}
		}
	}

	if len(drifts) > 0 {
		for _, d := range drifts {
			s.logs.Log(models.LogLevelWarning, "balance_drift", "system",
				fmt.Sprintf("%s/%s %s stored=%s expected=%s",
					d.WBS, d.NetworkCode, d.Category, d.Stored.StringFixed(2), d.Expected.StringFixed(2)))
		}
		logger.Warn().Int("count", len(drifts)).Msg("balance drift detected")
	}
	return drifts, nil
}
