package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/five82/kanban/internal/board"
	"github.com/five82/kanban/internal/storage"
)

const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("bad request")

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.tracer.Start(r.Context(), "ListItems")
	defer span.End()

	items, err := s.repo.List(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("failed to list items", zap.Error(err), requestIDField(r))
		writeError(w, err, "failed to fetch items")
		return
	}
	if items == nil {
		items = []board.Item{}
	}
	span.SetAttributes(attribute.Int("items.count", len(items)))
	writeJSON(w, http.StatusOK, items)
}

type createRequest struct {
	Text   string `json:"text"`
	ListID string `json:"listId"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.tracer.Start(r.Context(), "CreateItem")
	defer span.End()

	var req createRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err, "")
		return
	}
	text, err := board.NormalizeText(req.Text)
	if err != nil {
		writeError(w, fmt.Errorf("%w: text is required", errBadRequest), "")
		return
	}
	item := board.Item{
		ID:     uuid.NewString(),
		Text:   text,
		ListID: strings.TrimSpace(req.ListID),
	}
	if err := s.validateCreate(item); err != nil {
		writeError(w, err, "")
		return
	}
	span.SetAttributes(
		attribute.String("item.id", item.ID),
		attribute.String("item.list_id", item.ListID),
	)

	if err := s.repo.Create(ctx, item); err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("failed to persist item", zap.Error(err), zap.String("item_id", item.ID), requestIDField(r))
		writeError(w, err, "failed to add item")
		return
	}

	s.logger.Info("item created",
		zap.String("item_id", item.ID),
		zap.String("list_id", item.ListID),
		requestIDField(r),
	)
	writeJSON(w, http.StatusCreated, item)
}

type updateRequest struct {
	ID     string `json:"id"`
	ListID string `json:"listId"`
	Text   string `json:"text"`
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.tracer.Start(r.Context(), "UpdateItem")
	defer span.End()

	var req updateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err, "")
		return
	}
	id := strings.TrimSpace(req.ID)
	span.SetAttributes(attribute.String("item.id", id))
	if id == "" {
		writeError(w, fmt.Errorf("%w: id is required", errBadRequest), "")
		return
	}

	// Empty fields mean "leave unchanged".
	var update storage.Update
	if listID := strings.TrimSpace(req.ListID); listID != "" {
		if !s.listAllowed(listID) {
			writeError(w, fmt.Errorf("%w: unknown list %q", errBadRequest, listID), "")
			return
		}
		update.ListID = &listID
	}
	if text, err := board.NormalizeText(req.Text); err == nil {
		update.Text = &text
	}
	if update.Empty() {
		writeError(w, fmt.Errorf("%w: nothing to update", errBadRequest), "")
		return
	}

	item, err := s.repo.Update(ctx, id, update)
	if err != nil {
		if !errors.Is(err, storage.ErrItemNotFound) {
			span.SetStatus(codes.Error, err.Error())
			s.logger.Error("failed to update item", zap.Error(err), zap.String("item_id", id), requestIDField(r))
		}
		writeError(w, err, "failed to update item")
		return
	}

	s.logger.Info("item updated", zap.String("item_id", id), requestIDField(r))
	writeJSON(w, http.StatusOK, item)
}

type deleteRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := s.tracer.Start(r.Context(), "DeleteItem")
	defer span.End()

	var req deleteRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err, "")
		return
	}
	id := strings.TrimSpace(req.ID)
	span.SetAttributes(attribute.String("item.id", id))
	if id == "" {
		writeError(w, fmt.Errorf("%w: id is required", errBadRequest), "")
		return
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, storage.ErrItemNotFound) {
			span.SetStatus(codes.Error, err.Error())
			s.logger.Error("failed to delete item", zap.Error(err), zap.String("item_id", id), requestIDField(r))
		}
		writeError(w, err, "failed to delete item")
		return
	}

	s.logger.Info("item deleted", zap.String("item_id", id), requestIDField(r))
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "deleted": true})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Ping(r.Context()); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) validateCreate(item board.Item) error {
	if item.ListID == "" {
		return fmt.Errorf("%w: listId is required", errBadRequest)
	}
	if !s.listAllowed(item.ListID) {
		return fmt.Errorf("%w: unknown list %q", errBadRequest, item.ListID)
	}
	return nil
}

func (s *Server) listAllowed(listID string) bool {
	return s.allowed == nil || s.allowed[listID]
}

func decodeBody(r *http.Request, dest any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return nil
}

// writeError maps err to a status code. Storage failures are reported with
// the generic fallback message instead of the underlying error.
func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, errBadRequest):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": strings.TrimPrefix(err.Error(), errBadRequest.Error()+": ")})
	case errors.Is(err, storage.ErrItemNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
	default:
		if fallback == "" {
			fallback = "internal server error"
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fallback})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
