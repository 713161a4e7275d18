package handlers

import (
	"encoding/csv"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wijk-raffle/kupon-backend/internal/repositories"
	"github.com/wijk-raffle/kupon-backend/internal/services"
)

// respondError writes err as JSON. User-correctable errors keep their message
// and number list; anything else is a 500 and is attached to the context for
// the request logger.
func respondError(c *gin.Context, err error) {
	var cerr *services.CouponError
	if errors.As(err, &cerr) {
		body := gin.H{"error": cerr.Message, "code": cerr.Kind}
		if len(cerr.Numbers) > 0 {
			body["numbers"] = cerr.Numbers
		}
		c.JSON(statusFor(cerr.Kind), body)
		return
	}
	if errors.Is(err, repositories.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindDuplicateCoupons, services.KindNoPendingResult:
		return http.StatusConflict
	case services.KindInvalidPartialAmount, services.KindInsufficientPayment,
		services.KindOverpayment, services.KindNoEligibleCoupons:
		return http.StatusUnprocessableEntity
	case services.KindInvalidCredentials, services.KindSessionExpired:
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}

// writeCSV streams rows as a UTF-8 CSV attachment. The BOM makes Excel pick
// the right encoding.
func writeCSV(c *gin.Context, filename string, header []string, rows [][]string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment;filename="+filename)
	c.Status(http.StatusOK)

	c.Writer.Write([]byte("\xef\xbb\xbf"))

	w := csv.NewWriter(c.Writer)
	if err := w.Write(header); err != nil {
		_ = c.Error(err)
		return
	}
	if err := w.WriteAll(rows); err != nil {
		_ = c.Error(err)
	}
}
