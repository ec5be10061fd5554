package handler

import (
	"net/http"
	"strconv"
	"time"

	"tutorbridge/internal/models"
	"tutorbridge/internal/repository"

	"github.com/gin-gonic/gin"
)

type InstitutionHandler struct {
	instRepo        *repository.InstitutionRepository
	partnershipRepo *repository.PartnershipRepository
}

func NewInstitutionHandler(instRepo *repository.InstitutionRepository, partnershipRepo *repository.PartnershipRepository) *InstitutionHandler {
	return &InstitutionHandler{instRepo: instRepo, partnershipRepo: partnershipRepo}
}

func (h *InstitutionHandler) Create(c *gin.Context) {
	var req struct {
		Name                  string  `json:"name" binding:"required"`
		City                  string  `json:"city"`
		YearStartMonth        int     `json:"year_start_month" binding:"required,min=1,max=12"`
		YearStartDay          int     `json:"year_start_day" binding:"required,min=1,max=31"`
		CreditValuePerSession float64 `json:"credit_value_per_session" binding:"required,gt=0"`
		CreditRequirementMin  int     `json:"credit_requirement_min" binding:"min=0"`
		CreditRequirementMax  int     `json:"credit_requirement_max" binding:"min=0"`
		AllowCrossInstitution *bool   `json:"allow_cross_institution"`
		RequireApproval       *bool   `json:"require_approval"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	inst := &models.Institution{
		Name:                  req.Name,
		City:                  req.City,
		YearStartMonth:        req.YearStartMonth,
		YearStartDay:          req.YearStartDay,
		CreditValuePerSession: req.CreditValuePerSession,
		CreditRequirementMin:  req.CreditRequirementMin,
		CreditRequirementMax:  req.CreditRequirementMax,
		AllowCrossInstitution: req.AllowCrossInstitution == nil || *req.AllowCrossInstitution,
		RequireApproval:       req.RequireApproval == nil || *req.RequireApproval,
		IsActive:              true,
	}
	if err := h.instRepo.Create(inst); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusCreated, inst)
}

func (h *InstitutionHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.instRepo.List(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"institutions": list})
}

func (h *InstitutionHandler) GetPolicy(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid institution id"})
		return
	}
	policy, err := h.instRepo.GetPolicy(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "institution not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"institution_id":           policy.InstitutionID,
		"credit_value_per_session": policy.CreditValuePerSession,
		"credit_requirement_min":   policy.CreditRequirementMin,
		"credit_requirement_max":   policy.CreditRequirementMax,
		"allow_cross_institution":  policy.AllowCrossInstitution,
		"require_approval":         policy.RequireApproval,
		"year_start_month":         int(policy.YearWindow.StartMonth),
		"year_start_day":           policy.YearWindow.StartDay,
	})
}

// UpsertPartnership sets the institution's commercial agreement (1:1).
func (h *InstitutionHandler) UpsertPartnership(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid institution id"})
		return
	}
	var req struct {
		Tier          string     `json:"tier" binding:"required,oneof=FREE BASIC PREMIUM"`
		StudentsLimit int        `json:"students_limit" binding:"min=0"`
		AnnualFee     float64    `json:"annual_fee" binding:"min=0"`
		StartDate     *time.Time `json:"start_date"`
		IsActive      *bool      `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.instRepo.GetByID(uint(id)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "institution not found"})
		return
	}
	p := &models.Partnership{
		InstitutionID: uint(id),
		Tier:          req.Tier,
		StudentsLimit: req.StudentsLimit,
		AnnualFee:     req.AnnualFee,
		StartDate:     req.StartDate,
		IsActive:      req.IsActive == nil || *req.IsActive,
	}
	if err := h.partnershipRepo.Upsert(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "partnership update failed"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// Deactivate soft-deactivates an institution (no hard delete).
func (h *InstitutionHandler) Deactivate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid institution id"})
		return
	}
	if err := h.instRepo.Deactivate(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "deactivate failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deactivated"})
}
