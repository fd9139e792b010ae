package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookbridge/exchange-service/internal/model"
)

func (h *Handler) CreateExchange(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	var req model.CreateExchangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	ex, err := h.exchanges.CreateExchange(c.Request().Context(), userID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, model.ExchangeResponse{Success: true, Exchange: ex})
}

func (h *Handler) RespondExchange(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	exchangeID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req model.RespondExchangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	ex, err := h.exchanges.RespondExchange(c.Request().Context(), exchangeID, userID, req.Status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.StatusResponse{
		Success: true,
		Message: fmt.Sprintf("exchange %s successfully", ex.Status),
	})
}

func (h *Handler) ListExchanges(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	exchanges, err := h.exchanges.ListExchanges(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.ExchangesResponse{
		Success:   true,
		Count:     len(exchanges),
		Exchanges: exchanges,
	})
}

func (h *Handler) GetExchange(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	exchangeID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ex, err := h.exchanges.GetExchange(c.Request().Context(), exchangeID, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.ExchangeResponse{Success: true, Exchange: ex})
}

func (h *Handler) CancelExchange(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	exchangeID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.exchanges.CancelExchange(c.Request().Context(), exchangeID, userID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.StatusResponse{
		Success: true,
		Message: "exchange request cancelled",
	})
}
