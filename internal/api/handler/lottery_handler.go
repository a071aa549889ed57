package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lottopool/lottopool/internal/core/domain"
)

// Lotteries handles GET /v1/lotteries.
//
// @Summary      Supported lottery games
// @Tags         lotteries
// @Produce      json
// @Success      200  {array}  domain.LotteryConfig
// @Router       /v1/lotteries [get]
func Lotteries(c echo.Context) error {
	return c.JSON(http.StatusOK, domain.LotteryConfigs())
}
