package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sm2control/backend/internal/budget"
	"github.com/sm2control/backend/internal/models"
	"github.com/sm2control/backend/internal/utils"
)

// Local executes gateway operations directly against the embedded database.
// Mutations run inside transactions and re-run the budget checks there, so
// the limits hold even if a caller skipped the advisory validation.
type Local struct {
	db *gorm.DB
}

func NewLocal(db *gorm.DB) *Local {
	return &Local{db: db}
}

// DashboardData is the combined payload of getDashboardData.
type DashboardData struct {
	Projects   []models.Project   `json:"projects"`
	CutRecords []models.CutRecord `json:"cutRecords"`
	Workers    []models.Worker    `json:"workers"`
}

// UserInput carries the plaintext password for addUser; the stored model
// never serializes its hash.
type UserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (l *Local) Invoke(ctx context.Context, op string, args ...any) (json.RawMessage, error) {
	result, err := l.dispatch(ctx, op, args)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode %s result: %w", op, err)
	}
	return raw, nil
}

func (l *Local) dispatch(ctx context.Context, op string, args []any) (any, error) {
	switch op {
	case OpGetAllProjects:
		return l.getAllProjects(ctx)
	case OpSaveProject:
		return l.saveProject(ctx, args)
	case OpDeleteProject:
		return nil, l.deleteProject(ctx, args)
	case OpGetAllCutRecords:
		return l.getAllCutRecords(ctx)
	case OpAddCutRecord:
		return l.addCutRecord(ctx, args)
	case OpUpdateCutRecord:
		return l.updateCutRecord(ctx, args)
	case OpDeleteRecord:
		return nil, l.deleteRecord(ctx, args)
	case OpAuthenticateUser:
		return l.authenticateUser(ctx, args)
	case OpGetAllUsers:
		return l.getAllUsers(ctx)
	case OpAddUser:
		return l.addUser(ctx, args)
	case OpDeleteUser:
		return nil, l.deleteUser(ctx, args)
	case OpGetAllWorkers:
		return l.getAllWorkers(ctx)
	case OpSaveWorker:
		return l.saveWorker(ctx, args)
	case OpDeleteWorker:
		return nil, l.deleteWorker(ctx, args)
	case OpGetNetworkDefs:
		return l.getNetworkDefinitions(ctx)
	case OpSaveNetworkDef:
		return l.saveNetworkDefinition(ctx, args)
	case OpDeleteNetworkDef:
		return nil, l.deleteNetworkDefinition(ctx, args)
	case OpGetDashboardData:
		return l.getDashboardData(ctx)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownOperation, op)
}

// arg decodes the i-th positional argument through a JSON round trip, so the
// local transport accepts exactly the same shapes as the remote one.
func arg[T any](args []any, i int) (T, error) {
	var v T
	if i >= len(args) {
		return v, fmt.Errorf("missing argument %d", i)
	}
	b, err := json.Marshal(args[i])
	if err != nil {
		return v, fmt.Errorf("encode argument %d: %w", i, err)
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return v, fmt.Errorf("decode argument %d: %w", i, err)
	}
	return v, nil
}

func (l *Local) getAllProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := l.db.WithContext(ctx).Preload("Networks").Order("wbs").Find(&projects).Error
	return projects, err
}

// saveProject creates or updates a project. originalWBS names the project
// being edited and is empty on create; creating under a WBS that already
// exists, or renaming onto one, is rejected.
func (l *Local) saveProject(ctx context.Context, args []any) (*models.Project, error) {
	input, err := arg[models.Project](args, 0)
	if err != nil {
		return nil, err
	}
	originalWBS, _ := arg[string](args, 1)

	input.WBS = models.NormalizeWBS(input.WBS)
	originalWBS = models.NormalizeWBS(originalWBS)
	if input.WBS == "" {
		return nil, errors.New("WBS is required")
	}
	if input.Name == "" {
		return nil, errors.New("project name is required")
	}
	if input.MaxBudgetPercent < 0 || input.MaxBudgetPercent > 100 {
		return nil, errors.New("maxBudgetPercent must be between 0 and 100")
	}
	for i := range input.Networks {
		if input.Networks[i].Code == "" {
			return nil, errors.New("network code is required")
		}
		for _, c := range models.Categories {
			if input.Networks[i].FullFor(c).IsNegative() {
				return nil, fmt.Errorf("network %s: %s allocation cannot be negative", input.Networks[i].Code, c)
			}
		}
	}

	var saved models.Project
	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Project
		lookupWBS := originalWBS
		if lookupWBS == "" {
			lookupWBS = input.WBS
		}
		findErr := tx.Preload("Networks").Where("wbs = ?", lookupWBS).First(&existing).Error

		if originalWBS == "" {
			// Create path.
			if findErr == nil {
				return fmt.Errorf("%w: %s", ErrDuplicateWBS, input.WBS)
			}
			if !errors.Is(findErr, gorm.ErrRecordNotFound) {
				return findErr
			}
			for i := range input.Networks {
				input.Networks[i].ResetBalances()
			}
			if err := tx.Create(&input).Error; err != nil {
				return err
			}
			saved = input
			return nil
		}

		// Update path.
		if findErr != nil {
			return findErr
		}
		if input.WBS != originalWBS {
			var n int64
			if err := tx.Model(&models.Project{}).Where("wbs = ?", input.WBS).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return fmt.Errorf("%w: %s", ErrDuplicateWBS, input.WBS)
			}
			if err := tx.Model(&models.CutRecord{}).Where("wbs = ?", originalWBS).
				Update("wbs", input.WBS).Error; err != nil {
				return err
			}
		}

		existing.WBS = input.WBS
		existing.Name = input.Name
		existing.Worker = input.Worker
		existing.MaxBudgetPercent = input.MaxBudgetPercent
		existing.ApprovalNumber = input.ApprovalNumber
		existing.ApprovalDate = input.ApprovalDate

		// Merge networks: balances survive for codes that already exist,
		// new codes start at their full allocation, removed codes go away.
		merged := make([]models.Network, 0, len(input.Networks))
		kept := make(map[string]bool, len(input.Networks))
		for i := range input.Networks {
			in := input.Networks[i]
			kept[in.Code] = true
			if old := existing.FindNetwork(in.Code); old != nil {
				in.ID = old.ID
				in.ProjectID = existing.ID
				for _, c := range models.Categories {
					// A raised allocation grows the balance by the
					// same delta; the spent portion is untouched.
					delta := in.FullFor(c).Sub(old.FullFor(c))
					bal := old.BalanceFor(c).Add(delta)
					if bal.IsNegative() {
						bal = decimal.Zero
					}
					in.AddBalance(c, bal.Sub(in.BalanceFor(c)))
				}
			} else {
				in.ProjectID = existing.ID
				in.ResetBalances()
			}
			merged = append(merged, in)
		}
		for i := range existing.Networks {
			if !kept[existing.Networks[i].Code] {
				if err := tx.Delete(&existing.Networks[i]).Error; err != nil {
					return err
				}
			}
		}
		existing.Networks = merged
		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(&existing).Error; err != nil {
			return err
		}
		saved = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// deleteProject removes the project, its networks, and every cut record
// charged against its WBS.
func (l *Local) deleteProject(ctx context.Context, args []any) error {
	wbs, err := arg[string](args, 0)
	if err != nil {
		return err
	}
	wbs = models.NormalizeWBS(wbs)

	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := tx.Where("wbs = ?", wbs).First(&project).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: project %s", ErrNotFound, wbs)
			}
			return err
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Network{}).Error; err != nil {
			return err
		}
		if err := tx.Where("wbs = ?", wbs).Delete(&models.CutRecord{}).Error; err != nil {
			return err
		}
		return tx.Delete(&project).Error
	})
}

func (l *Local) getAllCutRecords(ctx context.Context) ([]models.CutRecord, error) {
	var records []models.CutRecord
	err := l.db.WithContext(ctx).Order("timestamp desc").Find(&records).Error
	return records, err
}

// cutShape checks the four-column invariant: exactly one positive amount and
// nothing negative.
func cutShape(r *models.CutRecord) (models.Category, decimal.Decimal, error) {
	positive := 0
	for _, v := range []decimal.Decimal{r.LaborCut, r.SuperviseCut, r.TransportCut, r.MiscCut} {
		if v.IsNegative() {
			return "", decimal.Zero, errors.New("cut amounts cannot be negative")
		}
		if v.IsPositive() {
			positive++
		}
	}
	if positive != 1 {
		return "", decimal.Zero, errors.New("exactly one cut amount must be set")
	}
	return r.Category(), r.Total(), nil
}

func (l *Local) addCutRecord(ctx context.Context, args []any) (*models.CutRecord, error) {
	record, err := arg[models.CutRecord](args, 0)
	if err != nil {
		return nil, err
	}
	category, amount, err := cutShape(&record)
	if err != nil {
		return nil, err
	}
	record.WBS = models.NormalizeWBS(record.WBS)
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		project, records, err := loadProjectState(tx, record.WBS)
		if err != nil {
			return err
		}
		if err := budget.ValidateCut(project, records, record.NetworkCode, category, amount, ""); err != nil {
			return err
		}
		network := project.FindNetwork(record.NetworkCode)
		network.AddBalance(category, amount.Neg())
		if err := tx.Save(network).Error; err != nil {
			return err
		}
		record.ProjectName = project.Name
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// updateCutRecord replaces an existing record. The old amount is credited
// back to its network first, then the new record is validated and charged
// like a fresh cut, all in one transaction.
func (l *Local) updateCutRecord(ctx context.Context, args []any) (*models.CutRecord, error) {
	id, err := arg[string](args, 0)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, errors.New("record id is required")
	}
	record, err := arg[models.CutRecord](args, 1)
	if err != nil {
		return nil, err
	}
	record.ID = id
	category, amount, err := cutShape(&record)
	if err != nil {
		return nil, err
	}
	record.WBS = models.NormalizeWBS(record.WBS)

	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var old models.CutRecord
		if err := tx.Where("id = ?", record.ID).First(&old).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: record %s", ErrNotFound, record.ID)
			}
			return err
		}
		if err := restoreBalance(tx, &old); err != nil {
			return err
		}

		project, records, err := loadProjectState(tx, record.WBS)
		if err != nil {
			return err
		}
		remaining := records[:0:0]
		for i := range records {
			if records[i].ID != old.ID {
				remaining = append(remaining, records[i])
			}
		}
		if err := budget.ValidateCut(project, remaining, record.NetworkCode, category, amount, ""); err != nil {
			return err
		}
		network := project.FindNetwork(record.NetworkCode)
		network.AddBalance(category, amount.Neg())
		if err := tx.Save(network).Error; err != nil {
			return err
		}

		if record.Timestamp.IsZero() {
			record.Timestamp = old.Timestamp
		}
		record.ProjectName = project.Name
		return tx.Save(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// deleteRecord removes a cut record and restores its amount to the network
// balance. The restore happens at most once because the row lookup and the
// delete share a transaction.
func (l *Local) deleteRecord(ctx context.Context, args []any) error {
	id, err := arg[string](args, 0)
	if err != nil {
		return err
	}

	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.CutRecord
		if err := tx.Where("id = ?", id).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: record %s", ErrNotFound, id)
			}
			return err
		}
		if err := restoreBalance(tx, &record); err != nil {
			return err
		}
		return tx.Delete(&record).Error
	})
}

// restoreBalance credits a record's amount back to its network. A record
// whose project or network was deleted since has nothing to restore.
func restoreBalance(tx *gorm.DB, record *models.CutRecord) error {
	var project models.Project
	err := tx.Preload("Networks").Where("wbs = ?", record.WBS).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	network := project.FindNetwork(record.NetworkCode)
	if network == nil {
		return nil
	}
	network.AddBalance(record.Category(), record.Total())
	return tx.Save(network).Error
}

func loadProjectState(tx *gorm.DB, wbs string) (*models.Project, []models.CutRecord, error) {
	var project models.Project
	if err := tx.Preload("Networks").Where("wbs = ?", wbs).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: project %s", ErrNotFound, wbs)
		}
		return nil, nil, err
	}
	var records []models.CutRecord
	if err := tx.Where("wbs = ?", wbs).Find(&records).Error; err != nil {
		return nil, nil, err
	}
	return &project, records, nil
}

func (l *Local) authenticateUser(ctx context.Context, args []any) (*models.User, error) {
	username, err := arg[string](args, 0)
	if err != nil {
		return nil, err
	}
	password, err := arg[string](args, 1)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := l.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(password, user.Password) {
		return nil, ErrBadCredentials
	}
	return &user, nil
}

func (l *Local) getAllUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := l.db.WithContext(ctx).Order("username").Find(&users).Error
	return users, err
}

func (l *Local) addUser(ctx context.Context, args []any) (*models.User, error) {
	input, err := arg[UserInput](args, 0)
	if err != nil {
		return nil, err
	}
	if input.Username == "" || input.Password == "" {
		return nil, errors.New("username and password are required")
	}
	if input.Role != models.RoleAdmin && input.Role != models.RoleUser {
		return nil, fmt.Errorf("invalid role: %q", input.Role)
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := models.User{Username: input.Username, Password: hash, Role: input.Role}

	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("username = ?", input.Username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("username %s already exists", input.Username)
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// deleteUser removes an account by username. The last remaining admin can
// never be deleted, so the panel cannot lock itself out.
func (l *Local) deleteUser(ctx context.Context, args []any) error {
	username, err := arg[string](args, 0)
	if err != nil {
		return err
	}

	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("username = ?", username).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %s", ErrNotFound, username)
			}
			return err
		}
		if user.IsAdmin() {
			var admins int64
			if err := tx.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error; err != nil {
				return err
			}
			if admins <= 1 {
				return errors.New("cannot delete the last admin account")
			}
		}
		return tx.Delete(&user).Error
	})
}

func (l *Local) getAllWorkers(ctx context.Context) ([]models.Worker, error) {
	var workers []models.Worker
	err := l.db.WithContext(ctx).Order("name").Find(&workers).Error
	return workers, err
}

func (l *Local) saveWorker(ctx context.Context, args []any) (*models.Worker, error) {
	worker, err := arg[models.Worker](args, 0)
	if err != nil {
		return nil, err
	}
	if worker.Name == "" {
		return nil, errors.New("worker name is required")
	}
	if worker.ID == "" {
		worker.ID = uuid.NewString()
	}
	if err := l.db.WithContext(ctx).Save(&worker).Error; err != nil {
		return nil, err
	}
	return &worker, nil
}

func (l *Local) deleteWorker(ctx context.Context, args []any) error {
	id, err := arg[string](args, 0)
	if err != nil {
		return err
	}
	res := l.db.WithContext(ctx).Delete(&models.Worker{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: worker %s", ErrNotFound, id)
	}
	return nil
}

func (l *Local) getNetworkDefinitions(ctx context.Context) ([]models.NetworkDefinition, error) {
	var defs []models.NetworkDefinition
	err := l.db.WithContext(ctx).Order("code").Find(&defs).Error
	return defs, err
}

func (l *Local) saveNetworkDefinition(ctx context.Context, args []any) (*models.NetworkDefinition, error) {
	def, err := arg[models.NetworkDefinition](args, 0)
	if err != nil {
		return nil, err
	}
	if def.Code == "" || def.Name == "" {
		return nil, errors.New("network code and name are required")
	}
	if err := l.db.WithContext(ctx).Save(&def).Error; err != nil {
		return nil, err
	}
	return &def, nil
}

func (l *Local) deleteNetworkDefinition(ctx context.Context, args []any) error {
	code, err := arg[string](args, 0)
	if err != nil {
		return err
	}
	res := l.db.WithContext(ctx).Delete(&models.NetworkDefinition{}, "code = ?", code)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: network definition %s", ErrNotFound, code)
	}
	return nil
}

func (l *Local) getDashboardData(ctx context.Context) (*DashboardData, error) {
	data := &DashboardData{}
	db := l.db.WithContext(ctx)
	if err := db.Preload("Networks").Order("wbs").Find(&data.Projects).Error; err != nil {
		return nil, err
	}
	if err := db.Order("timestamp desc").Find(&data.CutRecords).Error; err != nil {
		return nil, err
	}
	if err := db.Order("name").Find(&data.Workers).Error; err != nil {
		return nil, err
	}
	return data, nil
}
