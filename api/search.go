package api

import (
	"html/template"
	"net/http"

	"github.com/Domenick1991/farescope/internal/domain"
	"github.com/Domenick1991/farescope/internal/service/search"
	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	service search.SearchUseCase
}

type searchForm struct {
	FromEntityID string `form:"from_entity_id" binding:"required"`
	ToEntityID   string `form:"to_entity_id" binding:"required"`
	YearMonth    string `form:"year_month" binding:"required,yearmonth"`
}

type resultsPage struct {
	Query        domain.SearchQuery
	LeastPrice   int64
	FlightDetail []domain.FlightLeg
	Image        template.URL
}

func NewSearchHandler(service search.SearchUseCase) *SearchHandler {
	return &SearchHandler{service: service}
}

func (h *SearchHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.index)
	router.POST("/search", h.search)
}

func (h *SearchHandler) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", nil)
}

func (h *SearchHandler) search(c *gin.Context) {
	var form searchForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": bindingDetail(err)})
		return
	}

	result, err := h.service.Search(c.Request.Context(), domain.SearchQuery{
		FromEntityID: form.FromEntityID,
		ToEntityID:   form.ToEntityID,
		YearMonth:    form.YearMonth,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.HTML(http.StatusOK, "results.html", resultsPage{
		Query:        result.Query,
		LeastPrice:   result.LeastPrice,
		FlightDetail: result.Legs,
		Image:        template.URL(result.ImageURI),
	})
}

func writeError(c *gin.Context, err error) {
	se := search.AsError(err)
	status := se.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"detail": se.Message})
}
