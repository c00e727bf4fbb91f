package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sm2control/backend/internal/models"
)

func TestRecordFilterMatch(t *testing.T) {
	r := models.CutRecord{
		ID:          "r1",
		WBS:         "C-01",
		NetworkCode: "N-100",
		Worker:      "Anan",
		ProjectName: "Line Extension",
		Detail:      "Concrete delivery",
		Timestamp:   time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
	}
	r.SetCut(models.CategoryLabor, decimal.NewFromInt(100))

	tests := []struct {
		name   string
		filter RecordFilter
		want   bool
	}{
		{"empty filter", RecordFilter{}, true},
		{"wbs match normalized", RecordFilter{WBS: " c-01 "}, true},
		{"wbs mismatch", RecordFilter{WBS: "C-02"}, false},
		{"network match", RecordFilter{NetworkCode: "N-100"}, true},
		{"network mismatch", RecordFilter{NetworkCode: "N-200"}, false},
		{"worker match", RecordFilter{Worker: "Anan"}, true},
		{"search in detail", RecordFilter{Search: "concrete"}, true},
		{"search in project name", RecordFilter{Search: "extension"}, true},
		{"search miss", RecordFilter{Search: "asphalt"}, false},
		{"from before", RecordFilter{From: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}, true},
		{"from after", RecordFilter{From: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)}, false},
		{"to before", RecordFilter{To: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.match(&r))
		})
	}
}
