package services

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sm2control/backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Project{}, &models.Network{}, &models.CutRecord{}, &models.SystemLog{},
	))
	return db
}

func TestReconcileCleanState(t *testing.T) {
	db := newTestDB(t)
	n := models.Network{Code: "N-100", LaborFull: decimal.NewFromInt(4000)}
	n.ResetBalances()
	n.AddBalance(models.CategoryLabor, decimal.NewFromInt(-1000))
	require.NoError(t, db.Create(&models.Project{WBS: "C-01", Name: "P", Worker: "W", Networks: []models.Network{n}}).Error)

	rec := models.CutRecord{ID: "r1", WBS: "C-01", NetworkCode: "N-100"}
	rec.SetCut(models.CategoryLabor, decimal.NewFromInt(1000))
	require.NoError(t, db.Create(&rec).Error)

	s := NewReconcileService(db, NewSystemLogService(db))
	drifts, err := s.Reconcile()
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

func TestReconcileDetectsDrift(t *testing.T) {
	db := newTestDB(t)
	n := models.Network{Code: "N-100", LaborFull: decimal.NewFromInt(4000)}
	n.ResetBalances()
	require.NoError(t, db.Create(&models.Project{WBS: "C-01", Name: "P", Worker: "W", Networks: []models.Network{n}}).Error)

	// A cut exists but the balance was never charged.
	rec := models.CutRecord{ID: "r1", WBS: "C-01", NetworkCode: "N-100"}
	rec.SetCut(models.CategoryLabor, decimal.NewFromInt(1000))
	require.NoError(t, db.Create(&rec).Error)

	logs := NewSystemLogService(db)
	s := NewReconcileService(db, logs)
	drifts, err := s.Reconcile()
	require.NoError(t, err)
	require.Len(t, drifts, 1)
	assert.Equal(t, models.CategoryLabor, drifts[0].Category)
	assert.True(t, drifts[0].Expected.Equal(decimal.NewFromInt(3000)))
	assert.True(t, drifts[0].Stored.Equal(decimal.NewFromInt(4000)))

	entries, err := logs.List(models.LogLevelWarning, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "balance_drift", entries[0].Action)
}
