package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cartapp/internal/config"
	"cartapp/internal/handler"
)

// New はルーティング済みのechoインスタンスを返す。
func New(cfg config.Config, cartH *handler.CartHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	cartH.RegisterRoutes(e, cfg)

	return e
}

func Start(addr string, cfg config.Config, cartH *handler.CartHandler) error {
	return New(cfg, cartH).Start(addr)
}
