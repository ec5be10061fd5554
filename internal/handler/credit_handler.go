package handler

import (
	"errors"
	"net/http"
	"strconv"

	"tutorbridge/internal/domain"
	"tutorbridge/internal/middleware"
	"tutorbridge/internal/models"
	"tutorbridge/internal/repository"
	"tutorbridge/internal/service"

	"github.com/gin-gonic/gin"
)

type CreditHandler struct {
	creditSvc  *service.CreditService
	creditRepo *repository.CreditRepository
	memberRepo *repository.MemberRepository
}

func NewCreditHandler(creditSvc *service.CreditService, creditRepo *repository.CreditRepository, memberRepo *repository.MemberRepository) *CreditHandler {
	return &CreditHandler{creditSvc: creditSvc, creditRepo: creditRepo, memberRepo: memberRepo}
}

// IngestBooking is the booking-completion webhook. Duplicate deliveries of
// the same booking id return the existing transaction with 200.
func (h *CreditHandler) IngestBooking(c *gin.Context) {
	var evt models.BookingEvent
	if err := c.ShouldBindJSON(&evt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tx, err := h.creditSvc.IngestCompletedBooking(evt)
	if err != nil {
		if errors.Is(err, domain.ErrNotCreditEligible) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ingestion failed"})
		return
	}
	c.JSON(http.StatusOK, tx)
}

// Review approves or rejects a pending transaction (coordinator).
func (h *CreditHandler) Review(c *gin.Context) {
	txID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}
	var req struct {
		Decision string `json:"decision" binding:"required,oneof=approve reject"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tx, err := h.creditSvc.Review(uint(txID), middleware.GetUserID(c), req.Decision == "approve", req.Notes)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "review failed"})
		return
	}
	c.JSON(http.StatusOK, tx)
}

// Credit performs the atomic APPROVED to CREDITED transition (coordinator).
func (h *CreditHandler) Credit(c *gin.Context) {
	txID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}
	tx, err := h.creditSvc.Credit(uint(txID))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "credit failed"})
		return
	}
	c.JSON(http.StatusOK, tx)
}

// ListMine returns the caller's credit transactions.
func (h *CreditHandler) ListMine(c *gin.Context) {
	member := resolveOwnMember(c, h.memberRepo)
	if member == nil {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.creditRepo.ListByMember(member.ID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list})
}

// ReviewQueue lists an institution's transactions by status (coordinator),
// pending first by default.
func (h *CreditHandler) ReviewQueue(c *gin.Context) {
	instID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid institution id"})
		return
	}
	status := c.DefaultQuery("status", domain.CreditStatusPending)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	list, err := h.creditRepo.ListByInstitutionAndStatus(uint(instID), status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list})
}
