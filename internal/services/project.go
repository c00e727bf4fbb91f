package services

import (
	"context"

	"github.com/sm2control/backend/internal/budget"
	"github.com/sm2control/backend/internal/gateway"
	"github.com/sm2control/backend/internal/models"
)

// ProjectService reads and mutates projects through the gateway and layers
// computed budget figures on top for the views.
type ProjectService struct {
	gw   gateway.Gateway
	logs *SystemLogService
}

func NewProjectService(gw gateway.Gateway, logs *SystemLogService) *ProjectService {
	return &ProjectService{gw: gw, logs: logs}
}

// ProjectStats is a project with its derived budget position.
type ProjectStats struct {
	models.Project
	Totals      budget.Totals `json:"totals"`
	PercentUsed float64       `json:"percentUsed"`
	RecordCount int           `json:"recordCount"`
}

// List returns all projects with their budget position computed from the
// full cut history.
func (s *ProjectService) List(ctx context.Context) ([]ProjectStats, error) {
	var projects []models.Project
	if err := gateway.Call(ctx, s.gw, gateway.OpGetAllProjects, &projects); err != nil {
		return nil, err
	}
	var records []models.CutRecord
	if err := gateway.Call(ctx, s.gw, gateway.OpGetAllCutRecords, &records); err != nil {
		return nil, err
	}
	return buildStats(projects, records), nil
}

func buildStats(projects []models.Project, records []models.CutRecord) []ProjectStats {
	byWBS := make(map[string][]models.CutRecord)
	for _, r := range records {
		byWBS[r.WBS] = append(byWBS[r.WBS], r)
	}

	stats := make([]ProjectStats, 0, len(projects))
	for i := range projects {
		own := byWBS[projects[i].WBS]
		totals := budget.ComputeTotals(&projects[i], own)
		stats = append(stats, ProjectStats{
			Project:     projects[i],
			Totals:      totals,
			PercentUsed: totals.PercentUsed(),
			RecordCount: len(own),
		})
	}
	return stats
}

// Get returns one project by WBS with its stats.
func (s *ProjectService) Get(ctx context.Context, wbs string) (*ProjectStats, error) {
	wbs = models.NormalizeWBS(wbs)
	stats, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range stats {
		if stats[i].WBS == wbs {
			return &stats[i], nil
		}
	}
	return nil, gateway.ErrNotFound
}

// Save creates or updates a project. originalWBS is empty on create.
func (s *ProjectService) Save(ctx context.Context, project models.Project, originalWBS string, actor string) (*models.Project, error) {
	var saved models.Project
	if err := gateway.Call(ctx, s.gw, gateway.OpSaveProject, &saved, project, originalWBS); err != nil {
		return nil, err
	}
	action := "project_created"
	if originalWBS != "" {
		action = "project_updated"
	}
	s.logs.Log(models.LogLevelInfo, action, actor, saved.WBS)
	return &saved, nil
}

func (s *ProjectService) Delete(ctx context.Context, wbs string, actor string) error {
	if err := gateway.Call(ctx, s.gw, gateway.OpDeleteProject, nil, wbs); err != nil {
		return err
	}
	s.logs.Log(models.LogLevelWarning, "project_deleted", actor, models.NormalizeWBS(wbs))
	return nil
}
