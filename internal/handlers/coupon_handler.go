package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wijk-raffle/kupon-backend/internal/models"
	"github.com/wijk-raffle/kupon-backend/internal/services"
	"github.com/wijk-raffle/kupon-backend/internal/utils"
)

// CouponHandler handles coupon allocation HTTP requests
type CouponHandler struct {
	couponService *services.CouponService
}

// NewCouponHandler creates a new CouponHandler
func NewCouponHandler(couponService *services.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

// ParseNumbersRequest carries free-text coupon numbers
type ParseNumbersRequest struct {
	Text      string `json:"text"`
	ExcludeID string `json:"excludeId"`
}

// ParseNumbers handles POST /coupons/parse
func (h *CouponHandler) ParseNumbers(c *gin.Context) {
	var req ParseNumbersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	numbers, err := services.ParseNumbers(req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"numbers": numbers, "count": len(numbers)})
}

// CheckNumbers handles POST /coupons/check
func (h *CouponHandler) CheckNumbers(c *gin.Context) {
	var req ParseNumbersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	numbers, err := h.couponService.CheckNumbers(c.Request.Context(), req.Text, req.ExcludeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"numbers": numbers, "available": true})
}

// Calculate handles POST /coupons/calculate
func (h *CouponHandler) Calculate(c *gin.Context) {
	var in services.CouponInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	alloc, err := h.couponService.Calculate(in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"allocation":   alloc,
		"unitPrice":    h.couponService.UnitPrice(),
		"total":        utils.FormatRupiah(alloc.Payment.Total),
		"outstanding":  alloc.Payment.Outstanding(),
		"amountString": utils.FormatRupiah(alloc.Amount),
	})
}

// CreateCoupon handles POST /coupons
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var in services.CouponInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	coupon, err := h.couponService.CreateCoupon(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, coupon)
}

// UpdateCoupon handles PUT /coupons/:id
func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	var in services.CouponInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	coupon, err := h.couponService.UpdateCoupon(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, coupon)
}

// DeleteCoupon handles DELETE /coupons/:id
func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	if err := h.couponService.DeleteCoupon(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetCoupon handles GET /coupons/:id
func (h *CouponHandler) GetCoupon(c *gin.Context) {
	coupon, err := h.couponService.GetCoupon(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, coupon)
}

// ListCoupons handles GET /coupons
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	var filter models.CouponFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	coupons, err := h.couponService.ListCoupons(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": coupons, "total": len(coupons)})
}

// NumberBoard handles GET /coupons/numbers?view=all|taken|available
func (h *CouponHandler) NumberBoard(c *gin.Context) {
	view := c.DefaultQuery("view", services.BoardAll)
	switch view {
	case services.BoardAll, services.BoardTaken, services.BoardAvailable:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "view must be all, taken or available"})
		return
	}
	slots, err := h.couponService.NumberBoard(c.Request.Context(), view)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": slots, "total": len(slots)})
}

// ExportCoupons handles GET /coupons/export
func (h *CouponHandler) ExportCoupons(c *gin.Context) {
	var filter models.CouponFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	coupons, err := h.couponService.ListCoupons(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	header := []string{
		"Nama Keluarga", "Nama Remaja", "Kategori", "Nomor Kupon", "Jumlah Kupon",
		"Wijk", "Harga", "Jumlah Dibayar", "Sisa Pembayaran", "Status Pembayaran", "Status Penerimaan", "Tanggal",
	}
	unitPrice := h.couponService.UnitPrice()
	rows := make([][]string, 0, len(coupons))
	for _, k := range coupons {
		payment := services.PaymentFromRecord(k, unitPrice)
		rows = append(rows, []string{
			k.FamilyName,
			k.ParticipantName,
			k.Category,
			strings.Join(k.CouponNumbers, "; "),
			strconv.Itoa(k.CouponCount()),
			k.Zone,
			strconv.FormatInt(k.Amount, 10),
			strconv.FormatInt(k.AmountPaid, 10),
			strconv.FormatInt(payment.Outstanding(), 10),
			string(k.PaymentStatus),
			string(k.ReceiptStatus),
			k.CreatedAt.Format(time.RFC3339),
		})
	}
	writeCSV(c, "data_kupon.csv", header, rows)
}
