package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sm2control/backend/internal/gateway"
	"github.com/sm2control/backend/internal/models"
)

func dashboardFixture() *gateway.DashboardData {
	n := models.Network{
		Code:          "N-100",
		LaborFull:     decimal.NewFromInt(4000),
		SuperviseFull: decimal.NewFromInt(3000),
		TransportFull: decimal.NewFromInt(2000),
		MiscFull:      decimal.NewFromInt(1000),
	}
	n.ResetBalances()

	r1 := models.CutRecord{ID: "r1", WBS: "C-01", NetworkCode: "N-100", Worker: "Anan", Timestamp: time.Now()}
	r1.SetCut(models.CategoryLabor, decimal.NewFromInt(3000))
	r2 := models.CutRecord{ID: "r2", WBS: "C-01", NetworkCode: "N-100", Worker: "Anan", Timestamp: time.Now().AddDate(0, -2, 0)}
	r2.SetCut(models.CategoryMisc, decimal.NewFromInt(500))

	return &gateway.DashboardData{
		Projects: []models.Project{{
			WBS:              "C-01",
			Name:             "Line Extension",
			Worker:           "Anan",
			MaxBudgetPercent: 80,
			Networks:         []models.Network{n},
		}},
		CutRecords: []models.CutRecord{r1, r2},
	}
}

func TestDashboardBuild(t *testing.T) {
	s := NewDashboardService(nil)
	d := s.build(dashboardFixture(), time.Now())

	assert.Equal(t, 1, d.ProjectCount)
	assert.True(t, d.TotalFull.Equal(decimal.NewFromInt(10000)))
	assert.True(t, d.GlobalLimit.Equal(decimal.NewFromInt(8000)))
	assert.True(t, d.TotalSpent.Equal(decimal.NewFromInt(3500)))
	assert.True(t, d.RemainingLimit.Equal(decimal.NewFromInt(4500)))

	assert.True(t, d.CategorySpent["labor"].Equal(decimal.NewFromInt(3000)))
	assert.True(t, d.CategorySpent["misc"].Equal(decimal.NewFromInt(500)))

	// Only r1 falls in the current month.
	assert.True(t, d.SpentThisMonth.Equal(decimal.NewFromInt(3000)), "spentThisMonth = %s", d.SpentThisMonth)

	require.Len(t, d.WorkerActivity, 1)
	assert.Equal(t, "Anan", d.WorkerActivity[0].Worker)
	assert.Equal(t, 2, d.WorkerActivity[0].RecordCount)
	assert.Equal(t, 1, d.WorkerActivity[0].ProjectCount)

	require.Len(t, d.Projects, 1)
	assert.InDelta(t, 43.75, d.Projects[0].PercentUsed, 0.01)
}

func TestDashboardBuildEmpty(t *testing.T) {
	s := NewDashboardService(nil)
	d := s.build(&gateway.DashboardData{}, time.Now())

	assert.Equal(t, 0, d.ProjectCount)
	assert.True(t, d.TotalSpent.IsZero())
	assert.True(t, d.BurnPerWorkday.IsZero())
	assert.Empty(t, d.RecentRecords)
}
