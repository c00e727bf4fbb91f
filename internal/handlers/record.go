package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/sm2control/backend/internal/middleware"
	"github.com/sm2control/backend/internal/models"
	"github.com/sm2control/backend/internal/services"
	"github.com/sm2control/backend/pkg/response"
)

type RecordHandler struct {
	records *services.RecordService
}

func NewRecordHandler(records *services.RecordService) *RecordHandler {
	return &RecordHandler{records: records}
}

// cutRequest is the API shape of a budget cut: an explicit category plus a
// single amount. The four-column layout exists only in storage.
type cutRequest struct {
	WBS         string          `json:"wbs" binding:"required"`
	NetworkCode string          `json:"networkCode" binding:"required"`
	Worker      string          `json:"worker"`
	Detail      string          `json:"detail"`
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Timestamp   time.Time       `json:"timestamp"`
}

func (r *cutRequest) toRecord() (models.CutRecord, error) {
	category, err := models.ParseCategory(r.Category)
	if err != nil {
		return models.CutRecord{}, err
	}
	record := models.CutRecord{
		WBS:         r.WBS,
		NetworkCode: r.NetworkCode,
		Worker:      r.Worker,
		Detail:      r.Detail,
		Timestamp:   r.Timestamp,
	}
	record.SetCut(category, r.Amount)
	return record, nil
}

// List returns cut records, filterable by query parameters.
func (h *RecordHandler) List(c *gin.Context) {
	filter := services.RecordFilter{
		WBS:         c.Query("wbs"),
		NetworkCode: c.Query("network"),
		Worker:      c.Query("worker"),
		Search:      c.Query("search"),
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			response.BadRequest(c, "invalid from timestamp")
			return
		}
		filter.From = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			response.BadRequest(c, "invalid to timestamp")
			return
		}
		filter.To = t
	}

	records, err := h.records.List(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, records)
}

// Create registers a new cut after the budget checks pass.
func (h *RecordHandler) Create(c *gin.Context) {
	var req cutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid cut payload: "+err.Error())
		return
	}
	record, err := req.toRecord()
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	saved, err := h.records.Add(c.Request.Context(), record, middleware.GetUsername(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, saved)
}

// Update replaces an existing cut, re-running the budget checks with the
// old amount credited back.
func (h *RecordHandler) Update(c *gin.Context) {
	var req cutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid cut payload: "+err.Error())
		return
	}
	record, err := req.toRecord()
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	record.ID = c.Param("id")

	saved, err := h.records.Update(c.Request.Context(), record, middleware.GetUsername(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, saved)
}

// Delete removes a cut and restores its amount to the network balance.
func (h *RecordHandler) Delete(c *gin.Context) {
	if err := h.records.Delete(c.Request.Context(), c.Param("id"), middleware.GetUsername(c)); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

type validateRequest struct {
	WBS         string          `json:"wbs" binding:"required"`
	NetworkCode string          `json:"networkCode" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	RecordID    string          `json:"recordId"`
}

// Validate runs the budget checks without saving, for inline form feedback.
func (h *RecordHandler) Validate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid validation payload: "+err.Error())
		return
	}
	category, err := models.ParseCategory(req.Category)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	err = h.records.Validate(c.Request.Context(), req.WBS, req.NetworkCode, category, req.Amount, req.RecordID)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"valid": true})
}
