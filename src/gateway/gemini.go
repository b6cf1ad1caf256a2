// backend/src/gateway/gemini.go
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/username/sudarshan/backend/src/logger"
	"github.com/username/sudarshan/backend/src/models"
)

const systemInstruction = `
You are Sudarshan CRM Assistant, an AI expert for Indian MSMEs.
Your role: convert Hindi/Hinglish/English voice/text to structured JSON.
Localize all currencies to ₹. Use very simple Hindi for summaries.
Voice Personality: Reassuring, business-savvy, sounds like an experienced "Munim ji" but modern.
`

const diaryAnalysisInstruction = `
Task: High-precision OCR and analysis of Indian business ledger (Diary).
Expertise: You are highly skilled in reading handwritten notes in Devanagari (Hindi, Marathi), Gujarati, Tamil, and Hinglish.
Context: Indian shopkeepers use abbreviations.
- "Bk." or "B" or "Sale" = Bikri (Sale)
- "Kh." or "E" or "Exp" = Kharcha (Expense)
- "Pur" or "Kr." = Kharid (Purchase)
- "Bal" = Balance
- "Cr/Dr" = Credit/Debit
- Symbols: "₹", "/-", "=".
Output valid JSON only. Identify transactions accurately even from messy handwriting.
Suggest 5 sharp business improvements in Hindi.
`

// Config carries the Gemini connection settings.
type Config struct {
	APIKey          string
	Model           string // chat + vision
	TTSModel        string
	TranscribeModel string
	Timeout         time.Duration
}

// GeminiGateway talks to the Gemini API for chat, diary OCR, transcription
// and speech synthesis. It holds no application state: every method maps one
// request to one response and reports failure as a plain error.
type GeminiGateway struct {
	client  *genai.Client
	cfg     Config
	limiter *rate.Limiter
}

// NewGeminiGateway creates a gateway backed by the public Gemini API.
func NewGeminiGateway(ctx context.Context, cfg Config) (*GeminiGateway, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGateway{
		client: client,
		cfg:    cfg,
		// One request per second with a small burst keeps a chatty session
		// inside the free-tier quota.
		limiter: rate.NewLimiter(rate.Every(time.Second), 4),
	}, nil
}

// actionSchema constrains chat responses to the action/parameters/reply shape.
func actionSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"action":     {Type: genai.TypeString},
			"parameters": {Type: genai.TypeObject},
			"reply":      {Type: genai.TypeString},
		},
		Required: []string{"action", "parameters", "reply"},
	}
}

func (g *GeminiGateway) wait(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, nil, err
	}
	boundedCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	return boundedCtx, cancel, nil
}

// ProcessChat sends one conversational message and returns the structured
// assistant action.
func (g *GeminiGateway) ProcessChat(ctx context.Context, message string) (*models.AssistantAction, error) {
	ctx, cancel, err := g.wait(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.Model,
		genai.Text(message),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
			ResponseMIMEType:  "application/json",
			ResponseSchema:    actionSchema(),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini chat request failed: %w", err)
	}
	return decodeAction(resp.Text())
}

// AnalyzeDiaryImage runs OCR-style analysis of a ledger photo. The optional
// instruction lets the user steer the reading ("second column only" etc.).
func (g *GeminiGateway) AnalyzeDiaryImage(ctx context.Context, image []byte, instruction string) (*models.AssistantAction, error) {
	ctx, cancel, err := g.wait(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	prompt := "Read this shop diary accurately. Look for regional scripts and abbreviations."
	if instruction != "" {
		prompt = fmt.Sprintf("Read this shop diary accurately. Follow these specific instructions from the user: %q", instruction)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(image, "image/jpeg"),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, contents,
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(diaryAnalysisInstruction, genai.RoleUser),
			ResponseMIMEType:  "application/json",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini diary analysis failed: %w", err)
	}
	return decodeAction(resp.Text())
}

// TranscribeAudio converts recorded speech to text. Hindi and Hinglish are
// kept as spoken rather than translated.
func (g *GeminiGateway) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error) {
	ctx, cancel, err := g.wait(ctx)
	if err != nil {
		return "", err
	}
	defer cancel()

	if mimeType == "" {
		mimeType = "audio/webm"
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(audio, mimeType),
			genai.NewPartFromText("Transcribe this audio strictly. If it is in Hindi or Hinglish, keep it that way."),
		}, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.TranscribeModel, contents, nil)
	if err != nil {
		return "", fmt.Errorf("gemini transcription failed: %w", err)
	}
	return resp.Text(), nil
}

// SynthesizeSpeech renders text as 24kHz PCM via the TTS model.
func (g *GeminiGateway) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	ctx, cancel, err := g.wait(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	prompt := fmt.Sprintf("Say in a helpful Indian male business assistant voice: %s", text)
	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.TTSModel,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &genai.SpeechConfig{
				VoiceConfig: &genai.VoiceConfig{
					PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: "Kore"},
				},
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini speech synthesis failed: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, fmt.Errorf("gemini speech synthesis returned no audio")
}

// decodeAction parses the model's JSON payload. A response that is not the
// agreed shape counts as a gateway failure, not a caller error.
func decodeAction(raw string) (*models.AssistantAction, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty gemini response")
	}
	var action models.AssistantAction
	if err := json.Unmarshal([]byte(raw), &action); err != nil {
		logger.L.Warn("Unparseable gemini response", "snippet", snippet(raw))
		return nil, fmt.Errorf("decoding gemini response: %w", err)
	}
	if action.Action == "" {
		action.Action = models.ActionUnknown
	}
	if action.Parameters == nil {
		action.Parameters = map[string]any{}
	}
	return &action, nil
}

func snippet(s string) string {
	const max = 120
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
