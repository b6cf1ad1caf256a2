// backend/src/services/assistant_service.go
package services

import (
	"context"
	"fmt"

	"github.com/username/sudarshan/backend/src/logger"
	"github.com/username/sudarshan/backend/src/models"
	"github.com/username/sudarshan/backend/src/security/validation"
)

// Localized apologies used when the gateway is unreachable. The failure is
// rendered as a normal conversational turn, never as an aborted session.
var chatFallbackReplies = map[string]string{
	"hi": "Network thoda dheela hai, kripya dobara try karein.",
	"en": "The network seems a bit slow, please try again.",
}

type assistantServiceImpl struct {
	gateway  AIGateway
	language string
}

func NewAssistantService(gateway AIGateway, language string) AssistantService {
	if _, ok := chatFallbackReplies[language]; !ok {
		language = "hi"
	}
	return &assistantServiceImpl{
		gateway:  gateway,
		language: language,
	}
}

// Chat runs one conversational turn. Gateway failure degrades to a local
// fallback turn; core state is never touched on this path, so an abandoned
// or failed call leaves nothing half-applied.
func (s *assistantServiceImpl) Chat(ctx context.Context, message string) (*ChatResult, error) {
	message = validation.CleanField(message)
	if err := validation.ValidateStringNotEmpty(message, "message"); err != nil {
		return nil, err
	}
	if err := validation.ValidateStringMaxLength(message, validation.MaxChatMessageLength, "message"); err != nil {
		return nil, err
	}

	action, err := s.gateway.ProcessChat(ctx, message)
	if err != nil {
		logger.ErrorFromContext(ctx, "Chat gateway call failed", "error", err)
		return &ChatResult{
			Action: &models.AssistantAction{
				Action:     models.ActionUnknown,
				Parameters: map[string]any{},
				Reply:      chatFallbackReplies[s.language],
			},
			Fallback: true,
		}, nil
	}

	// Voice reply is best-effort; a missing audio track is not an error.
	audio := s.Speak(ctx, action.Reply)
	return &ChatResult{Action: action, Audio: audio}, nil
}

func (s *assistantServiceImpl) AnalyzeDiary(ctx context.Context, image []byte, instruction string) (*models.AssistantAction, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty image", validation.ErrValidationFailed)
	}

	action, err := s.gateway.AnalyzeDiaryImage(ctx, image, validation.CleanField(instruction))
	if err != nil {
		logger.ErrorFromContext(ctx, "Diary analysis gateway call failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	return action, nil
}

// Transcribe returns the recognized text, or empty text when the gateway
// fails. Transcription misses are never surfaced as errors.
func (s *assistantServiceImpl) Transcribe(ctx context.Context, audio []byte, mimeType string) string {
	if len(audio) == 0 {
		return ""
	}
	text, err := s.gateway.TranscribeAudio(ctx, audio, mimeType)
	if err != nil {
		logger.ErrorFromContext(ctx, "Transcription gateway call failed", "error", err)
		return ""
	}
	return text
}

// Speak synthesizes text to audio. Fire-and-forget: failures are logged and
// swallowed, returning no audio.
func (s *assistantServiceImpl) Speak(ctx context.Context, text string) []byte {
	if text == "" {
		return nil
	}
	audio, err := s.gateway.SynthesizeSpeech(ctx, text)
	if err != nil {
		logger.ErrorFromContext(ctx, "Speech synthesis failed", "error", err)
		return nil
	}
	return audio
}
