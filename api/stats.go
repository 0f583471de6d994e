package api

import (
	"math"
	"net/http"

	"github.com/Domenick1991/farescope/internal/chart"
	"github.com/Domenick1991/farescope/internal/service/stats"
	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	service stats.StatsUseCase
}

type dateShare struct {
	FlightDate string  `json:"flight_date"`
	Count      int64   `json:"flight_count"`
	Percent    float64 `json:"percent"`
}

type statsResponse struct {
	Total int64       `json:"total"`
	Dates []dateShare `json:"dates"`
}

func NewStatsHandler(service stats.StatsUseCase) *StatsHandler {
	return &StatsHandler{service: service}
}

func (h *StatsHandler) Register(router *gin.RouterGroup) {
	router.GET("/stats", h.get)
}

func (h *StatsHandler) get(c *gin.Context) {
	counts, err := h.service.DateCounts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	resp := statsResponse{Dates: make([]dateShare, 0, len(counts))}
	for _, w := range chart.BuildWedges(counts) {
		resp.Total += w.Count
		resp.Dates = append(resp.Dates, dateShare{
			FlightDate: w.Label,
			Count:      w.Count,
			Percent:    math.Round(w.Percent*10) / 10,
		})
	}
	c.JSON(http.StatusOK, resp)
}
