package services

import (
	"context"
	"sort"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/shopspring/decimal"

	"github.com/sm2control/backend/internal/gateway"
	"github.com/sm2control/backend/internal/models"
)

// DashboardService aggregates the fleet-wide budget position for the
// overview screen.
type DashboardService struct {
	gw       gateway.Gateway
	calendar *cal.BusinessCalendar
}

func NewDashboardService(gw gateway.Gateway) *DashboardService {
	return &DashboardService{
		gw:       gw,
		calendar: cal.NewBusinessCalendar(),
	}
}

// Dashboard is the aggregate view across every project.
type Dashboard struct {
	ProjectCount   int                        `json:"projectCount"`
	TotalFull      decimal.Decimal            `json:"totalFull"`
	GlobalLimit    decimal.Decimal            `json:"globalLimit"`
	TotalSpent     decimal.Decimal            `json:"totalSpent"`
	RemainingLimit decimal.Decimal            `json:"remainingLimit"`
	SpentThisMonth decimal.Decimal            `json:"spentThisMonth"`
	BurnPerWorkday decimal.Decimal            `json:"burnPerWorkday"`
	CategorySpent  map[string]decimal.Decimal `json:"categorySpent"`
	Projects       []ProjectStats             `json:"projects"`
	RecentRecords  []models.CutRecord         `json:"recentRecords"`
	WorkerActivity []WorkerActivity           `json:"workerActivity"`
}

// WorkerActivity is one worker's share of the spending and the projects
// they are responsible for.
type WorkerActivity struct {
	Worker       string          `json:"worker"`
	ProjectCount int             `json:"projectCount"`
	RecordCount  int             `json:"recordCount"`
	TotalCut     decimal.Decimal `json:"totalCut"`
}

func (s *DashboardService) Get(ctx context.Context) (*Dashboard, error) {
	var data gateway.DashboardData
	if err := gateway.Call(ctx, s.gw, gateway.OpGetDashboardData, &data); err != nil {
		return nil, err
	}
	return s.build(&data, time.Now()), nil
}

func (s *DashboardService) build(data *gateway.DashboardData, now time.Time) *Dashboard {
	d := &Dashboard{
		ProjectCount:  len(data.Projects),
		CategorySpent: make(map[string]decimal.Decimal, len(models.Categories)),
		Projects:      buildStats(data.Projects, data.CutRecords),
	}
	for _, c := range models.Categories {
		d.CategorySpent[c.String()] = decimal.Zero
	}

	for i := range d.Projects {
		d.TotalFull = d.TotalFull.Add(d.Projects[i].Totals.TotalFull)
		d.GlobalLimit = d.GlobalLimit.Add(d.Projects[i].Totals.GlobalLimit)
		d.TotalSpent = d.TotalSpent.Add(d.Projects[i].Totals.TotalSpent)
	}
	d.RemainingLimit = d.GlobalLimit.Sub(d.TotalSpent)
	if d.RemainingLimit.IsNegative() {
		d.RemainingLimit = decimal.Zero
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	byWorker := make(map[string]*WorkerActivity)
	for i := range data.Projects {
		if w := data.Projects[i].Worker; w != "" {
			a, ok := byWorker[w]
			if !ok {
				a = &WorkerActivity{Worker: w}
				byWorker[w] = a
			}
			a.ProjectCount++
		}
	}
	for i := range data.CutRecords {
		r := &data.CutRecords[i]
		c := r.Category().String()
		d.CategorySpent[c] = d.CategorySpent[c].Add(r.Total())

		if !r.Timestamp.Before(monthStart) {
			d.SpentThisMonth = d.SpentThisMonth.Add(r.Total())
		}
		if r.Worker != "" {
			a, ok := byWorker[r.Worker]
			if !ok {
				a = &WorkerActivity{Worker: r.Worker}
				byWorker[r.Worker] = a
			}
			a.RecordCount++
			a.TotalCut = a.TotalCut.Add(r.Total())
		}
	}

	// Burn rate spreads this month's spending over the working days
	// elapsed so far.
	workdays := s.calendar.WorkdaysInRange(monthStart, now)
	if workdays > 0 {
		d.BurnPerWorkday = d.SpentThisMonth.Div(decimal.NewFromInt(int64(workdays)))
	}

	for _, a := range byWorker {
		d.WorkerActivity = append(d.WorkerActivity, *a)
	}
	sort.Slice(d.WorkerActivity, func(i, j int) bool {
		return d.WorkerActivity[i].TotalCut.GreaterThan(d.WorkerActivity[j].TotalCut)
	})

	if len(data.CutRecords) > 10 {
		d.RecentRecords = data.CutRecords[:10]
	} else {
		d.RecentRecords = data.CutRecords
	}
	return d
}
