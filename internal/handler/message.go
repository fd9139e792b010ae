package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookbridge/exchange-service/internal/model"
)

func (h *Handler) SendMessage(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	var req model.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	msg, err := h.messages.SendMessage(c.Request().Context(), userID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, model.MessageSentResponse{Success: true, SentMessage: msg})
}

func (h *Handler) ListMessages(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	exchangeID, err := pathID(c, "exchangeId")
	if err != nil {
		return err
	}
	msgs, err := h.messages.ListMessages(c.Request().Context(), exchangeID, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.MessagesResponse{
		Success:  true,
		Count:    len(msgs),
		Messages: msgs,
	})
}

func (h *Handler) ListNotifications(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	items, err := h.notifications.ListNotifications(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.NotificationsResponse{
		Success:       true,
		Count:         len(items),
		Notifications: items,
	})
}

func (h *Handler) MarkNotificationsRead(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	if err := h.notifications.MarkNotificationsRead(c.Request().Context(), userID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.StatusResponse{
		Success: true,
		Message: "notifications marked as read",
	})
}
