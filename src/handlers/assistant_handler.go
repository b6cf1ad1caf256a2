// backend/src/handlers/assistant_handler.go
package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/username/sudarshan/backend/src/logger"
	"github.com/username/sudarshan/backend/src/services"
	"github.com/username/sudarshan/backend/src/utils"
)

type AssistantHandler struct {
	assistantService services.AssistantService
	maxUploadBytes   int64
}

func NewAssistantHandler(assistantService services.AssistantService, maxUploadBytes int64) *AssistantHandler {
	return &AssistantHandler{
		assistantService: assistantService,
		maxUploadBytes:   maxUploadBytes,
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

// HandleChat runs one conversational turn. A gateway failure still returns
// 200: the fallback apology is rendered as a normal bot turn.
func (h *AssistantHandler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.assistantService.Chat(r.Context(), req.Message)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.SendJSON(w, result, http.StatusOK)
}

// HandleAnalyzeDiary accepts a multipart diary photo ("image" field, optional
// "instruction" field) and returns the structured analysis. The result is
// display-only: no ledger entries are created from it here.
func (h *AssistantHandler) HandleAnalyzeDiary(w http.ResponseWriter, r *http.Request) {
	image, ok := h.readUpload(w, r, "image")
	if !ok {
		return
	}
	instruction := r.FormValue("instruction")

	action, err := h.assistantService.AnalyzeDiary(r.Context(), image, instruction)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.SendJSON(w, action, http.StatusOK)
}

// HandleTranscribe accepts a multipart audio clip ("audio" field). A failed
// transcription returns empty text, never an error status.
func (h *AssistantHandler) HandleTranscribe(w http.ResponseWriter, r *http.Request) {
	audio, ok := h.readUpload(w, r, "audio")
	if !ok {
		return
	}
	mimeType := r.FormValue("mime_type")

	text := h.assistantService.Transcribe(r.Context(), audio, mimeType)
	utils.SendJSON(w, map[string]string{"text": text}, http.StatusOK)
}

type speakRequest struct {
	Text string `json:"text"`
}

// HandleSpeak synthesizes speech for a piece of text. Best-effort: a failed
// synthesis returns an empty audio payload.
func (h *AssistantHandler) HandleSpeak(w http.ResponseWriter, r *http.Request) {
	var req speakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	audio := h.assistantService.Speak(r.Context(), req.Text)
	utils.SendJSON(w, map[string]any{"audio": audio}, http.StatusOK)
}

// readUpload pulls one file field out of a size-capped multipart form.
func (h *AssistantHandler) readUpload(w http.ResponseWriter, r *http.Request, field string) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		utils.SendJSONError(w, "Upload too large or malformed", http.StatusBadRequest)
		return nil, false
	}

	file, _, err := r.FormFile(field)
	if err != nil {
		utils.SendJSONError(w, "Missing "+field+" upload", http.StatusBadRequest)
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Failed to read upload", "field", field, "error", err)
		utils.SendJSONError(w, "Failed to read upload", http.StatusInternalServerError)
		return nil, false
	}
	return data, true
}
