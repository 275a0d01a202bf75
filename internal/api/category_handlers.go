package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/readcircle/readcircle-server/internal/http/response"
)

// CategoryRequest is the request body for creating or renaming a category.
type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// CategoryBookRequest is the request body for adding a book to a category.
type CategoryBookRequest struct {
	BookID string `json:"book_id" validate:"required"`
}

// handleCreateCategory creates an empty category for the caller.
func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	category, err := s.categoryService.CreateCategory(r.Context(), getUserID(r.Context()), req.Name)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, category, s.logger)
}

// handleGetCategory returns one of the caller's categories.
func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := s.categoryService.GetCategory(r.Context(), chi.URLParam(r, "id"), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, category, s.logger)
}

// handleListCategories returns all of the caller's categories.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categoryService.ListCategories(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, categories, s.logger)
}

// handleRenameCategory renames one of the caller's categories.
func (s *Server) handleRenameCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	category, err := s.categoryService.RenameCategory(r.Context(), chi.URLParam(r, "id"), getUserID(r.Context()), req.Name)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, category, s.logger)
}

// handleDeleteCategory deletes one of the caller's categories.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.categoryService.DeleteCategory(r.Context(), chi.URLParam(r, "id"), getUserID(r.Context())); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleAddBookToCategory puts a catalog book in the category.
func (s *Server) handleAddBookToCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryBookRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	category, err := s.categoryService.AddBook(r.Context(), chi.URLParam(r, "id"), getUserID(r.Context()), req.BookID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, category, s.logger)
}

// handleRemoveBookFromCategory takes a book out of the category.
func (s *Server) handleRemoveBookFromCategory(w http.ResponseWriter, r *http.Request) {
	category, err := s.categoryService.RemoveBook(r.Context(), chi.URLParam(r, "id"), getUserID(r.Context()), chi.URLParam(r, "bookID"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, category, s.logger)
}
