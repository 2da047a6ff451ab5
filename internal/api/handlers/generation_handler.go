package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	middleware "github.com/studylens/studylens/internal/api/middlewares"
	"github.com/studylens/studylens/internal/core/pipeline"
	"github.com/studylens/studylens/internal/models"
	"github.com/studylens/studylens/internal/pkg/logger"
	"github.com/studylens/studylens/internal/services"
)

type GenerationHandler struct {
	ingestor    *pipeline.Ingestor
	generations *services.GenerationService
	maxUpload   int64
	log         *logger.Logger
}

func NewGenerationHandler(ing *pipeline.Ingestor, gens *services.GenerationService, maxUpload int64, log *logger.Logger) *GenerationHandler {
	return &GenerationHandler{ingestor: ing, generations: gens, maxUpload: maxUpload, log: log}
}

// Upload runs the whole ingestion pipeline for one multipart upload and
// answers with the persisted generation or a classified failure.
func (h *GenerationHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
		return
	}

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "no file uploaded"})
		return
	}
	defer file.Close()

	// One extra byte lets the pipeline see the size gate trip.
	data, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "could not read file"})
		return
	}

	gen, err := h.ingestor.Ingest(r.Context(), pipeline.IngestInput{
		File:      data,
		FileName:  header.Filename,
		MediaType: header.Header.Get("Content-Type"),
		Type:      models.GenerationType(r.FormValue("generation_type")),
		OwnerID:   userID,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":                gen.ID,
		"generated_content": gen.GeneratedContent,
		"message":           "content generated and saved successfully",
	})
}

func (h *GenerationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
		return
	}

	gens, err := h.generations.ListByOwner(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if gens == nil {
		gens = []models.Generation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"generations": gens})
}

func (h *GenerationHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
		return
	}

	gen, err := h.generations.Get(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"generation": gen})
}

type renameRequest struct {
	UserGivenName string `json:"user_given_name"`
}

func (h *GenerationHandler) Rename(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
		return
	}

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
		return
	}

	gen, err := h.generations.Rename(r.Context(), chi.URLParam(r, "id"), userID, req.UserGivenName)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"generation": gen, "message": "name updated successfully"})
}

func (h *GenerationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
		return
	}

	if err := h.generations.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "generation deleted successfully"})
}

// writeError maps the pipeline error taxonomy onto HTTP statuses. Internal
// detail goes to the log; the caller gets the classified message only.
func (h *GenerationHandler) writeError(w http.ResponseWriter, err error) {
	kind := pipeline.KindOf(err)
	status := http.StatusInternalServerError

	switch kind {
	case pipeline.KindInvalidInput:
		status = http.StatusBadRequest
		if errors.Is(err, pipeline.ErrFileTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
	case pipeline.KindUnsupportedFormat, pipeline.KindExtraction,
		pipeline.KindLowSignal, pipeline.KindEmptyContent:
		status = http.StatusBadRequest
	case pipeline.KindStorage, pipeline.KindGeneration:
		status = http.StatusBadGateway
	case pipeline.KindNotFound:
		status = http.StatusNotFound
	case pipeline.KindForbidden:
		status = http.StatusForbidden
	case pipeline.KindPersistence, pipeline.KindInternal:
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", "kind", kind, "err", err)
	} else {
		h.log.Debug("request rejected", "kind", kind, "err", err)
	}
	writeJSON(w, status, map[string]string{"message": pipeline.MessageOf(err)})
}
