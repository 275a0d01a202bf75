package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/readcircle/readcircle-server/internal/domain"
	"github.com/readcircle/readcircle-server/internal/http/response"
	"github.com/readcircle/readcircle-server/internal/service"
)

// CreateBookshelfRequest is the request body for creating a shelf.
type CreateBookshelfRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Visibility  string `json:"visibility" validate:"omitempty,oneof=private public"`
}

// UpdateBookshelfRequest is the request body for editing shelf metadata.
// Omitted fields are left unchanged.
type UpdateBookshelfRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Visibility  *string `json:"visibility,omitempty" validate:"omitempty,oneof=private public"`
}

// ShelfBookRequest is the request body for putting a book on a shelf.
type ShelfBookRequest struct {
	BookID string `json:"book_id" validate:"required"`
}

// handleCreateBookshelf creates an empty shelf owned by the caller.
func (s *Server) handleCreateBookshelf(w http.ResponseWriter, r *http.Request) {
	var req CreateBookshelfRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	shelf, err := s.bookshelfService.CreateBookshelf(r.Context(), service.CreateBookshelfParams{
		OwnerID:     getUserID(r.Context()),
		Title:       req.Title,
		Description: req.Description,
		Visibility:  domain.Visibility(req.Visibility),
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, shelf, s.logger)
}

// handleGetBookshelf returns a shelf the caller may see.
func (s *Server) handleGetBookshelf(w http.ResponseWriter, r *http.Request) {
	shelf, err := s.bookshelfService.GetBookshelf(r.Context(), chi.URLParam(r, "id"), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, shelf, s.logger)
}

// handleListBookshelves returns the caller's owned and member shelves.
func (s *Server) handleListBookshelves(w http.ResponseWriter, r *http.Request) {
	shelves, err := s.bookshelfService.ListBookshelves(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, shelves, s.logger)
}

// handleListPublicBookshelves returns all publicly visible shelves.
func (s *Server) handleListPublicBookshelves(w http.ResponseWriter, r *http.Request) {
	shelves, err := s.bookshelfService.ListPublicBookshelves(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, shelves, s.logger)
}

// handleUpdateBookshelf edits shelf metadata. Owner only.
func (s *Server) handleUpdateBookshelf(w http.ResponseWriter, r *http.Request) {
	var req UpdateBookshelfRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	params := service.UpdateBookshelfParams{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Visibility != nil {
		v := domain.Visibility(*req.Visibility)
		params.Visibility = &v
	}

	shelf, err := s.bookshelfService.UpdateBookshelf(r.Context(), chi.URLParam(r, "id"), getUserID(r.Context()), params)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, shelf, s.logger)
}

// handleDeleteBookshelf deletes a shelf and its circle's wrappers. Owner only.
func (s *Server) handleDeleteBookshelf(w http.ResponseWriter, r *http.Request) {
	if err := s.bookshelfService.DeleteBookshelf(r.Context(), chi.URLParam(r, "id"), getUserID(r.Context())); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleAddBookToShelf puts a catalog book on the shelf. Owner only.
func (s *Server) handleAddBookToShelf(w http.ResponseWriter, r *http.Request) {
	var req ShelfBookRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	shelf, err := s.bookshelfService.AddBook(r.Context(), chi.URLParam(r, "id"), getUserID(r.Context()), req.BookID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, shelf, s.logger)
}

// handleRemoveBookFromShelf takes a book off the shelf. Owner only.
func (s *Server) handleRemoveBookFromShelf(w http.ResponseWriter, r *http.Request) {
	shelf, err := s.bookshelfService.RemoveBook(r.Context(), chi.URLParam(r, "id"), getUserID(r.Context()), chi.URLParam(r, "bookID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, shelf, s.logger)
}
