package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sm2control/backend/internal/gateway"
	"github.com/sm2control/backend/internal/models"
	"github.com/sm2control/backend/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter wires the project and record handlers to a local gateway on
// a throwaway database, without the auth middleware.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Project{}, &models.Network{}, &models.CutRecord{}, &models.SystemLog{},
	))
	gw := gateway.NewLocal(db)

	projects := NewProjectHandler(services.NewProjectService(gw, nil), nil, nil)
	records := NewRecordHandler(services.NewRecordService(gw, nil))

	r := gin.New()
	r.GET("/api/projects", projects.List)
	r.POST("/api/projects", projects.Create)
	r.POST("/api/records", records.Create)
	r.POST("/api/records/validate", records.Validate)
	r.DELETE("/api/records/:id", records.Delete)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedTestProject(t *testing.T, r *gin.Engine) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/projects", gin.H{
		"wbs":              "C-01",
		"name":             "Line Extension",
		"worker":           "Somchai",
		"maxBudgetPercent": 80,
		"networks": []gin.H{{
			"networkCode": "N-100",
			"labor_full":  4000,
			"misc_full":   1000,
		}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestCreateProjectDuplicateWBSConflict(t *testing.T) {
	r := newTestRouter(t)
	seedTestProject(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/projects", gin.H{
		"wbs":  " c-01 ",
		"name": "Shadow copy",
	})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
}

func TestCreateRecordWithinLimits(t *testing.T) {
	r := newTestRouter(t)
	seedTestProject(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/records", gin.H{
		"wbs":         "C-01",
		"networkCode": "N-100",
		"category":    "labor",
		"amount":      3000,
		"detail":      "materials",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data models.CutRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.ID)
	assert.Equal(t, models.CategoryLabor, resp.Data.Category())
}

func TestCreateRecordOverGlobalLimitRejected(t *testing.T) {
	r := newTestRouter(t)
	seedTestProject(t, r)

	// Total full 5000, cap 80% = 4000.
	w := doJSON(t, r, http.MethodPost, "/api/records", gin.H{
		"wbs":         "C-01",
		"networkCode": "N-100",
		"category":    "labor",
		"amount":      4100,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
}

func TestCreateRecordUnknownCategory(t *testing.T) {
	r := newTestRouter(t)
	seedTestProject(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/records", gin.H{
		"wbs":         "C-01",
		"networkCode": "N-100",
		"category":    "entertainment",
		"amount":      100,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestValidateEndpointAdvisory(t *testing.T) {
	r := newTestRouter(t)
	seedTestProject(t, r)

	w := doJSON(t, r, http.MethodPost, "/api/records/validate", gin.H{
		"wbs":         "C-01",
		"networkCode": "N-100",
		"category":    "misc",
		"amount":      500,
	})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/records/validate", gin.H{
		"wbs":         "C-01",
		"networkCode": "N-100",
		"category":    "misc",
		"amount":      1500,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

	// Nothing was written by either call.
	wList := doJSON(t, r, http.MethodGet, "/api/projects", nil)
	var resp struct {
		Data []models.Project `json:"data"`
	}
	require.NoError(t, json.Unmarshal(wList.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
}

func TestDeleteRecordNotFound(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodDelete, "/api/records/no-such-id", nil)
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}
