package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/readcircle/readcircle-server/internal/http/response"
	"github.com/readcircle/readcircle-server/internal/service"
)

// CreateBookRequest is the request body for adding a catalog book.
type CreateBookRequest struct {
	Title     string `json:"title" validate:"required,max=500"`
	Author    string `json:"author" validate:"required,max=200"`
	Genre     string `json:"genre" validate:"max=100"`
	ISBN      string `json:"isbn" validate:"max=20"`
	PageCount int    `json:"page_count" validate:"gte=0"`
}

// UpdateBookRequest is the request body for editing a catalog book.
// Omitted fields are left unchanged.
type UpdateBookRequest struct {
	Title     *string `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
	Author    *string `json:"author,omitempty" validate:"omitempty,min=1,max=200"`
	Genre     *string `json:"genre,omitempty" validate:"omitempty,max=100"`
	ISBN      *string `json:"isbn,omitempty" validate:"omitempty,max=20"`
	PageCount *int    `json:"page_count,omitempty" validate:"omitempty,gte=0"`
}

// handleCreateBook adds a book to the shared catalog.
func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var req CreateBookRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	book, err := s.bookService.CreateBook(r.Context(), service.CreateBookParams{
		Title:     req.Title,
		Author:    req.Author,
		Genre:     req.Genre,
		ISBN:      req.ISBN,
		PageCount: req.PageCount,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, book, s.logger)
}

// handleGetBook returns a single catalog book.
func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	book, err := s.bookService.GetBook(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, book, s.logger)
}

// handleListBooks returns the full catalog.
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.bookService.ListBooks(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, books, s.logger)
}

// handleUpdateBook edits a catalog book.
func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	var req UpdateBookRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	book, err := s.bookService.UpdateBook(r.Context(), chi.URLParam(r, "id"), service.UpdateBookParams{
		Title:     req.Title,
		Author:    req.Author,
		Genre:     req.Genre,
		ISBN:      req.ISBN,
		PageCount: req.PageCount,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, book, s.logger)
}
