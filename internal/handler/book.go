package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookbridge/exchange-service/internal/model"
)

func (h *Handler) CreateBook(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	book, err := h.books.CreateBook(c.Request().Context(), userID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, model.BookResponse{
		Success: true,
		Book:    model.BookDetail{Book: book},
	})
}

func (h *Handler) GetBook(c echo.Context) error {
	bookID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	book, err := h.books.GetBook(c.Request().Context(), bookID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.BookResponse{Success: true, Book: book})
}

func (h *Handler) ListBooks(c echo.Context) error {
	filter := model.BookFilter{
		Search: c.QueryParam("search"),
		Genre:  c.QueryParam("genre"),
	}
	books, err := h.books.ListBooks(c.Request().Context(), filter)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.BooksResponse{
		Success: true,
		Count:   len(books),
		Books:   books,
	})
}

func (h *Handler) MyBooks(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	books, err := h.books.MyBooks(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.OwnBooksResponse{
		Success: true,
		Count:   len(books),
		Books:   books,
	})
}

func (h *Handler) UpdateBook(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	bookID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	book, err := h.books.UpdateBook(c.Request().Context(), bookID, userID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.BookResponse{
		Success: true,
		Book:    model.BookDetail{Book: book},
	})
}

func (h *Handler) DeleteBook(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	bookID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.books.DeleteBook(c.Request().Context(), bookID, userID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.StatusResponse{
		Success: true,
		Message: "book deleted successfully",
	})
}

func (h *Handler) SetBookStatus(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	bookID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req model.SetBookStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	if err := h.books.SetBookStatus(c.Request().Context(), bookID, userID, req.Status); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, model.StatusResponse{
		Success: true,
		Message: fmt.Sprintf("book marked as %s", req.Status),
	})
}
