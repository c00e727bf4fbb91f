package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sm2control/backend/internal/budget"
	"github.com/sm2control/backend/internal/gateway"
	"github.com/sm2control/backend/internal/models"
)

// RecordService manages cut records. Validation here is advisory and gives
// the UI immediate feedback; the gateway repeats the checks before anything
// is written.
type RecordService struct {
	gw   gateway.Gateway
	logs *SystemLogService
}

func NewRecordService(gw gateway.Gateway, logs *SystemLogService) *RecordService {
	return &RecordService{gw: gw, logs: logs}
}

// RecordFilter narrows the history listing.
type RecordFilter struct {
	WBS         string
	NetworkCode string
	Worker      string
	Search      string
	From        time.Time
	To          time.Time
}

func (f RecordFilter) match(r *models.CutRecord) bool {
	if f.WBS != "" && r.WBS != models.NormalizeWBS(f.WBS) {
		return false
	}
	if f.NetworkCode != "" && r.NetworkCode != f.NetworkCode {
		return false
	}
	if f.Worker != "" && r.Worker != f.Worker {
		return false
	}
	if !f.From.IsZero() && r.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && r.Timestamp.After(f.To) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(r.Detail), needle) &&
			!strings.Contains(strings.ToLower(r.ProjectName), needle) &&
			!strings.Contains(strings.ToLower(r.WBS), needle) {
			return false
		}
	}
	return true
}

// List returns cut records newest first, filtered.
func (s *RecordService) List(ctx context.Context, filter RecordFilter) ([]models.CutRecord, error) {
	var records []models.CutRecord
	if err := gateway.Call(ctx, s.gw, gateway.OpGetAllCutRecords, &records); err != nil {
		return nil, err
	}
	out := records[:0]
	for i := range records {
		if filter.match(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out, nil
}

// Validate runs the budget checks for a proposed cut without writing
// anything. recordID is set when editing an existing record.
func (s *RecordService) Validate(ctx context.Context, wbs, networkCode string, category models.Category, amount decimal.Decimal, recordID string) error {
	wbs = models.NormalizeWBS(wbs)

	var projects []models.Project
	if err := gateway.Call(ctx, s.gw, gateway.OpGetAllProjects, &projects); err != nil {
		return err
	}
	var project *models.Project
	for i := range projects {
		if projects[i].WBS == wbs {
			project = &projects[i]
			break
		}
	}
	if project == nil {
		return gateway.ErrNotFound
	}

	var records []models.CutRecord
	if err := gateway.Call(ctx, s.gw, gateway.OpGetAllCutRecords, &records); err != nil {
		return err
	}
	own := records[:0:0]
	for i := range records {
		if records[i].WBS == wbs {
			own = append(own, records[i])
		}
	}
	return budget.ValidateCut(project, own, networkCode, category, amount, recordID)
}

func (s *RecordService) Add(ctx context.Context, record models.CutRecord, actor string) (*models.CutRecord, error) {
	var saved models.CutRecord
	if err := gateway.Call(ctx, s.gw, gateway.OpAddCutRecord, &saved, record); err != nil {
		return nil, err
	}
	s.logs.Log(models.LogLevelInfo, "cut_added", actor, saved.WBS+" "+saved.Total().StringFixed(2))
	return &saved, nil
}

func (s *RecordService) Update(ctx context.Context, record models.CutRecord, actor string) (*models.CutRecord, error) {
	var saved models.CutRecord
	if err := gateway.Call(ctx, s.gw, gateway.OpUpdateCutRecord, &saved, record.ID, record); err != nil {
		return nil, err
	}
	s.logs.Log(models.LogLevelInfo, "cut_updated", actor, saved.ID)
	return &saved, nil
}

func (s *RecordService) Delete(ctx context.Context, id string, actor string) error {
	if err := gateway.Call(ctx, s.gw, gateway.OpDeleteRecord, nil, id); err != nil {
		return err
	}
	s.logs.Log(models.LogLevelWarning, "cut_deleted", actor, id)
	return nil
}
