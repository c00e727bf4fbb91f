package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CutRecord is a single withdrawal against one network of one project.
// Exactly one of the four cut columns is non-zero; project name and worker
// are denormalized so history views render without joins.
type CutRecord struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	WBS         string    `gorm:"index;size:50;not null" json:"wbs"`
	NetworkCode string    `gorm:"size:50" json:"networkCode"`
	ProjectName string    `gorm:"size:255" json:"projectName"`
	Worker      string    `gorm:"size:150" json:"worker"`
	Detail      string    `gorm:"size:500" json:"detail"`

	LaborCut     decimal.Decimal `gorm:"type:decimal(20,2)" json:"labor_cut"`
	SuperviseCut decimal.Decimal `gorm:"type:decimal(20,2)" json:"supervise_cut"`
	TransportCut decimal.Decimal `gorm:"type:decimal(20,2)" json:"transport_cut"`
	MiscCut      decimal.Decimal `gorm:"type:decimal(20,2)" json:"misc_cut"`
}

func (CutRecord) TableName() string { return "cut_records" }

// Total returns the sum of all four cut columns. With a well-formed record
// this equals the single non-zero amount.
func (r *CutRecord) Total() decimal.Decimal {
	return r.LaborCut.Add(r.SuperviseCut).Add(r.TransportCut).Add(r.MiscCut)
}

// Category derives the record's category from which cut column is positive.
func (r *CutRecord) Category() Category {
	switch {
	case r.LaborCut.IsPositive():
		return CategoryLabor
	case r.SuperviseCut.IsPositive():
		return CategorySupervise
	case r.TransportCut.IsPositive():
		return CategoryTransport
	default:
		return CategoryMisc
	}
}

// SetCut writes amount into the column for category and zeroes the others,
// translating the explicit category back into the four-column wire shape.
func (r *CutRecord) SetCut(c Category, amount decimal.Decimal) {
	r.LaborCut = decimal.Zero
	r.SuperviseCut = decimal.Zero
	r.TransportCut = decimal.Zero
	r.MiscCut = decimal.Zero

	switch c {
	case CategoryLabor:
		r.LaborCut = amount
	case CategorySupervise:
		r.SuperviseCut = amount
	case CategoryTransport:
		r.TransportCut = amount
	default:
		r.MiscCut = amount
	}
}
