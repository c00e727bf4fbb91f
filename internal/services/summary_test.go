package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sm2control/backend/internal/config"
)

func TestSummarizeFallsBackOnProviderFailure(t *testing.T) {
	s := NewSummaryService(&config.AIConfig{Provider: "nonexistent"})
	d := NewDashboardService(nil).build(dashboardFixture(), time.Now())

	assert.Equal(t, summaryFallback, s.Summarize(context.Background(), d))
}

func TestSummarizeProjectFallsBackOnProviderFailure(t *testing.T) {
	s := NewSummaryService(&config.AIConfig{Provider: "nonexistent"})
	d := NewDashboardService(nil).build(dashboardFixture(), time.Now())
	require.Len(t, d.Projects, 1)

	got := s.SummarizeProject(context.Background(), &d.Projects[0], nil)
	assert.Equal(t, summaryFallback, got)
}

func TestBuildProjectPromptIncludesPosition(t *testing.T) {
	d := NewDashboardService(nil).build(dashboardFixture(), time.Now())
	require.Len(t, d.Projects, 1)

	prompt := buildProjectPrompt(&d.Projects[0], nil)
	assert.Contains(t, prompt, "C-01")
	assert.Contains(t, prompt, "Line Extension")
	assert.Contains(t, prompt, "8000.00")
}
