package api

import (
	"github.com/Domenick1991/farescope/internal/metrics"
	"github.com/Domenick1991/farescope/internal/service/search"
	"github.com/Domenick1991/farescope/internal/service/stats"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RouterDeps struct {
	Search  search.SearchUseCase
	Stats   stats.StatsUseCase
	Checks  map[string]Pinger
	Metrics *metrics.Registry
	Log     *zap.SugaredLogger
}

// NewRouter wires every handler onto a fresh gin engine.
func NewRouter(deps RouterDeps) (*gin.Engine, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if deps.Log != nil {
		router.Use(RequestLogger(deps.Log))
	}
	router.Use(RequestMetrics(deps.Metrics))
	router.SetHTMLTemplate(Templates())

	root := router.Group("/")
	NewSearchHandler(deps.Search).Register(root)
	NewStatsHandler(deps.Stats).Register(root)
	NewHealthHandler(deps.Checks).Register(root)

	return router, nil
}
