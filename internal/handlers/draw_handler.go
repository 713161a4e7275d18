package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wijk-raffle/kupon-backend/internal/middleware"
	"github.com/wijk-raffle/kupon-backend/internal/services"
)

// DrawHandler handles draw-related HTTP requests
type DrawHandler struct {
	drawService   services.DrawService
	winnerService *services.WinnerService
}

// NewDrawHandler creates a new DrawHandler
func NewDrawHandler(drawService services.DrawService, winnerService *services.WinnerService) *DrawHandler {
	return &DrawHandler{
		drawService:   drawService,
		winnerService: winnerService,
	}
}

// operator names the draw session of the logged-in user
func operator(c *gin.Context) string {
	if session := middleware.CurrentSession(c); session != nil {
		return session.Username
	}
	return "anonymous"
}

// EligibleCount handles GET /draws/eligible-count
func (h *DrawHandler) EligibleCount(c *gin.Context) {
	count, err := h.drawService.EligibleCount(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// Draw handles POST /draws
func (h *DrawHandler) Draw(c *gin.Context) {
	status, err := h.drawService.Draw(c.Request.Context(), operator(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// Current handles GET /draws/current
func (h *DrawHandler) Current(c *gin.Context) {
	c.JSON(http.StatusOK, h.drawService.Current(operator(c)))
}

// Discard handles DELETE /draws/current
func (h *DrawHandler) Discard(c *gin.Context) {
	if err := h.drawService.Discard(operator(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.drawService.Current(operator(c)))
}

// SaveWinner handles POST /draws/current/save
func (h *DrawHandler) SaveWinner(c *gin.Context) {
	winner, err := h.drawService.SaveWinner(c.Request.Context(), operator(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": winner.ID, "winner": winner})
}

// ListWinners handles GET /winners
func (h *DrawHandler) ListWinners(c *gin.Context) {
	winners, err := h.winnerService.ListWinners(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": winners, "total": len(winners)})
}

// DeleteWinner handles DELETE /winners/:id
func (h *DrawHandler) DeleteWinner(c *gin.Context) {
	if err := h.winnerService.DeleteWinner(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportWinners handles GET /winners/export
func (h *DrawHandler) ExportWinners(c *gin.Context) {
	winners, err := h.winnerService.ListWinners(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	header := []string{"Nomor Kupon", "Nama Keluarga", "Nama Remaja", "Kategori", "Wijk", "Waktu Undi", "Diundi Oleh"}
	rows := make([][]string, 0, len(winners))
	for _, w := range winners {
		rows = append(rows, []string{
			w.CouponNumber, w.FamilyName, w.ParticipantName, w.Category, w.Zone,
			w.DrawnAt.Format(time.RFC3339), w.DrawnBy,
		})
	}
	writeCSV(c, "pemenang.csv", header, rows)
}
