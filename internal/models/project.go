package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Project is a construction project identified by its WBS code. Budget is
// allocated per network; the project-level maxBudgetPercent caps how much of
// the combined full allocation may ever be withdrawn.
type Project struct {
	ID               uint      `gorm:"primaryKey" json:"-"`
	WBS              string    `gorm:"uniqueIndex;size:50;not null" json:"wbs"`
	Name             string    `gorm:"size:255;not null" json:"name"`
	Worker           string    `gorm:"size:150;not null" json:"worker"`
	MaxBudgetPercent float64   `gorm:"default:80" json:"maxBudgetPercent"`
	ApprovalNumber   string    `gorm:"size:100" json:"approvalNumber,omitempty"`
	ApprovalDate     string    `gorm:"size:50" json:"approvalDate,omitempty"`
	Networks         []Network `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"networks"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (Project) TableName() string { return "projects" }

// Network is a sub-division of a project with its own full (100%) allocation
// and remaining balance per budget category. Networks have no life outside
// their project.
type Network struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	ProjectID uint   `gorm:"index;not null" json:"-"`
	Code      string `gorm:"size:50;not null" json:"networkCode"`
	Name      string `gorm:"size:255" json:"networkName,omitempty"`

	LaborFull     decimal.Decimal `gorm:"type:decimal(20,2)" json:"labor_full"`
	SuperviseFull decimal.Decimal `gorm:"type:decimal(20,2)" json:"supervise_full"`
	TransportFull decimal.Decimal `gorm:"type:decimal(20,2)" json:"transport_full"`
	MiscFull      decimal.Decimal `gorm:"type:decimal(20,2)" json:"misc_full"`

	LaborBalance     decimal.Decimal `gorm:"type:decimal(20,2)" json:"labor_balance"`
	SuperviseBalance decimal.Decimal `gorm:"type:decimal(20,2)" json:"supervise_balance"`
	TransportBalance decimal.Decimal `gorm:"type:decimal(20,2)" json:"transport_balance"`
	MiscBalance      decimal.Decimal `gorm:"type:decimal(20,2)" json:"misc_balance"`
}

func (Network) TableName() string { return "networks" }

// FullFor returns the 100% allocation for a category.
func (n *Network) FullFor(c Category) decimal.Decimal {
	switch c {
	case CategoryLabor:
		return n.LaborFull
	case CategorySupervise:
		return n.SuperviseFull
	case CategoryTransport:
		return n.TransportFull
	default:
		return n.MiscFull
	}
}

// BalanceFor returns the remaining un-cut amount for a category.
func (n *Network) BalanceFor(c Category) decimal.Decimal {
	switch c {
	case CategoryLabor:
		return n.LaborBalance
	case CategorySupervise:
		return n.SuperviseBalance
	case CategoryTransport:
		return n.TransportBalance
	default:
		return n.MiscBalance
	}
}

// AddBalance adjusts the balance of a category by delta (negative to spend,
// positive to restore).
func (n *Network) AddBalance(c Category, delta decimal.Decimal) {
	switch c {
	case CategoryLabor:
		n.LaborBalance = n.LaborBalance.Add(delta)
	case CategorySupervise:
		n.SuperviseBalance = n.SuperviseBalance.Add(delta)
	case CategoryTransport:
		n.TransportBalance = n.TransportBalance.Add(delta)
	default:
		n.MiscBalance = n.MiscBalance.Add(delta)
	}
}

// TotalFull sums the four full allocations of the network.
func (n *Network) TotalFull() decimal.Decimal {
	return n.LaborFull.Add(n.SuperviseFull).Add(n.TransportFull).Add(n.MiscFull)
}

// ResetBalances initializes every category balance to its full allocation.
// Called once when the network is first registered.
func (n *Network) ResetBalances() {
	n.LaborBalance = n.LaborFull
	n.SuperviseBalance = n.SuperviseFull
	n.TransportBalance = n.TransportFull
	n.MiscBalance = n.MiscFull
}

// FindNetwork returns the network with the given code, or nil.
func (p *Project) FindNetwork(code string) *Network {
	for i := range p.Networks {
		if p.Networks[i].Code == code {
			return &p.Networks[i]
		}
	}
	return nil
}

// NormalizeWBS canonicalizes a WBS code for lookup and uniqueness checks:
// surrounding whitespace is stripped and the code is upper-cased, so
// " c-01 " and "C-01" identify the same project.
func NormalizeWBS(wbs string) string {
	return strings.ToUpper(strings.TrimSpace(wbs))
}
