package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookbridge/exchange-service/internal/errs"
	"github.com/bookbridge/exchange-service/internal/model"
	"github.com/bookbridge/exchange-service/pkg/auth"
	"github.com/bookbridge/exchange-service/pkg/validate"
)

type Handler struct {
	books         BookService
	exchanges     ExchangeService
	messages      MessageService
	notifications NotificationService
	log           *zap.Logger
}

func New(books BookService, exchanges ExchangeService, messages MessageService, notifications NotificationService, log *zap.Logger) *Handler {
	return &Handler{
		books:         books,
		exchanges:     exchanges,
		messages:      messages,
		notifications: notifications,
		log:           log,
	}
}

func (h *Handler) NewRouter(authCfg auth.Config) *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.HTTPErrorHandler = h.httpErrorHandler
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", newRateLimiterMW(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(requestLoggerConfig(h.log)),
		middleware.RequestID(),
		newRateLimiterMW(apiRPS),
	)

	api.GET("/books", h.ListBooks)
	api.GET("/books/:id", h.GetBook)

	private := api.Group("", auth.Middleware(authCfg))

	private.POST("/books", h.CreateBook)
	private.PUT("/books/:id", h.UpdateBook)
	private.DELETE("/books/:id", h.DeleteBook)
	private.PUT("/books/:id/status", h.SetBookStatus)
	private.GET("/books/user/me", h.MyBooks)

	private.POST("/exchanges/request", h.CreateExchange)
	private.PUT("/exchanges/:id/approve", h.RespondExchange)
	private.GET("/exchanges", h.ListExchanges)
	private.GET("/exchanges/:id", h.GetExchange)
	private.DELETE("/exchanges/:id", h.CancelExchange)

	private.GET("/messages/:exchangeId", h.ListMessages)
	private.POST("/messages", h.SendMessage)

	private.GET("/notifications", h.ListNotifications)
	private.PUT("/notifications/read", h.MarkNotificationsRead)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// httpErrorHandler renders every error in the {success:false, message}
// envelope the clients expect.
func (h *Handler) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := "internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprintf("%v", he.Message)
	}
	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, model.ErrorResponse{Message: msg})
	}
	if werr != nil {
		h.log.Error("write error response", zap.Error(werr))
	}
}

// httpError maps the service error taxonomy onto status codes. Internal
// failures are not echoed back to the client.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrPermissionDenied):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrSelfRequest):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}

func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func callerID(c echo.Context) (int64, error) {
	userID, err := auth.CallerID(c)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return userID, nil
}
