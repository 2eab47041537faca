package handler

import (
	"errors"
	"net/http"
	"strconv"

	"doctor-intro-service/internal/delivery/dto"
	"doctor-intro-service/internal/service"
	"doctor-intro-service/internal/usecase"
	"doctor-intro-service/pkg/response"

	"github.com/gorilla/mux"
)

// maxChunkMemory caps how much of a multipart chunk is buffered in memory;
// larger chunks spill to temp files.
const maxChunkMemory = 32 << 20

type VideoHandler struct {
	videoUsecase usecase.VideoUsecase
}

func NewVideoHandler(videoUsecase usecase.VideoUsecase) *VideoHandler {
	return &VideoHandler{videoUsecase: videoUsecase}
}

// UploadChunk accepts one binary chunk per request, either as the multipart
// field "chunk" or as the raw request body.
func (h *VideoHandler) UploadChunk(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	videoID := vars["videoId"]

	var seq *uint64
	if raw := r.URL.Query().Get("seq"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid seq parameter", nil)
			return
		}
		seq = &parsed
	}

	body := r.Body
	originalName := ""
	if err := r.ParseMultipartForm(maxChunkMemory); err == nil {
		file, header, err := r.FormFile("chunk")
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Missing chunk file", nil)
			return
		}
		defer file.Close()
		body = file
		originalName = header.Filename
	}

	if err := h.videoUsecase.SaveChunk(r.Context(), videoID, seq, originalName, body); err != nil {
		if errors.Is(err, service.ErrInvalidVideoID) {
			response.Error(w, http.StatusBadRequest, "Invalid video ID", nil)
			return
		}
		response.InternalServerError(w, "Failed to store chunk")
		return
	}

	response.Success(w, http.StatusOK, "Chunk stored successfully", nil)
}

func (h *VideoHandler) FinishUpload(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	videoID := vars["videoId"]

	url, err := h.videoUsecase.Finalize(r.Context(), videoID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrVideoNotFound):
			response.NotFound(w, "Video not found")
		case errors.Is(err, service.ErrNoChunks):
			response.Error(w, http.StatusBadRequest, "No chunks uploaded", nil)
		case errors.Is(err, service.ErrInvalidVideoID):
			response.Error(w, http.StatusBadRequest, "Invalid video ID", nil)
		default:
			response.InternalServerError(w, "Failed to finalize video")
		}
		return
	}

	response.Success(w, http.StatusOK, "Video finalized successfully", dto.FinalizeResponse{VideoURL: url})
}

func (h *VideoHandler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	videoID := vars["videoId"]

	if err := h.videoUsecase.DeleteArtifacts(r.Context(), videoID); err != nil {
		if errors.Is(err, service.ErrInvalidVideoID) {
			response.Error(w, http.StatusBadRequest, "Invalid video ID", nil)
			return
		}
		response.InternalServerError(w, "Failed to delete video artifacts")
		return
	}

	response.Success(w, http.StatusOK, "Video artifacts deleted successfully", nil)
}
