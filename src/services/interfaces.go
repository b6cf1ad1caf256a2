// backend/src/services/interfaces.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/username/sudarshan/backend/src/models"
)

// Define common service errors
var (
	// ErrMissingBusinessName rejects customer creation without a business name.
	ErrMissingBusinessName = errors.New("business name is required")
	// ErrCustomerNotFound is the normal, recoverable result of a lookup miss.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrLeadNotFound is the lead-side lookup miss.
	ErrLeadNotFound = errors.New("lead not found")
	// ErrGatewayUnavailable means an assistant call failed at the Gemini
	// boundary. It never implies any ledger or pipeline state change.
	ErrGatewayUnavailable = errors.New("assistant gateway unavailable")
)

const (
	ckDashboardSummary     = "agg_dashboard_summary"
	DefaultCacheExpiration = 15 * time.Minute
	CacheCleanupInterval   = 30 * time.Minute
)

// TransactionInput is the caller-facing shape of a new ledger entry. Amount
// arrives as the raw string the user typed; parsing and validation happen in
// the ledger processor so a bad value rejects cleanly with no state change.
type TransactionInput struct {
	Type   string `json:"type"`
	Label  string `json:"label"`
	Amount string `json:"amount"`
	Date   string `json:"date"`
}

// ReminderPayload is the prefilled WhatsApp dues reminder for a customer.
type ReminderPayload struct {
	Message     string `json:"message"`
	WhatsAppURL string `json:"whatsapp_url"`
}

// DashboardSummary aggregates the numbers the dashboard tab shows.
type DashboardSummary struct {
	CustomerCount    int                       `json:"customer_count"`
	TotalOutstanding float64                   `json:"total_outstanding"`
	SettledCustomers int                       `json:"settled_customers"`
	LeadCounts       map[models.LeadStatus]int `json:"lead_counts"`
	WonPipelineValue float64                   `json:"won_pipeline_value"`
}

// KhataService owns the customer directory and routes every balance change
// through the ledger processor.
type KhataService interface {
	AddCustomer(ctx context.Context, businessName, ownerName, phone string) (*models.Customer, error)
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	RecordTransaction(ctx context.Context, customerID string, input TransactionInput) (*models.Customer, error)
	ReminderMessage(ctx context.Context, customerID string) (*ReminderPayload, error)
	DashboardSummary(ctx context.Context) (*DashboardSummary, error)
}

// LeadInput is the caller-facing shape of a new lead.
type LeadInput struct {
	Name         string `json:"name"`
	Detail       string `json:"detail"`
	Amount       string `json:"amount"`
	AssignedTo   string `json:"assignedTo"`
	ReminderDate string `json:"reminderDate"`
}

// LeadService owns the lead pipeline.
type LeadService interface {
	AddLead(ctx context.Context, input LeadInput) (*models.Lead, error)
	AdvanceLead(ctx context.Context, id string) (*models.Lead, error)
	ListLeads(ctx context.Context) ([]models.Lead, error)
}

// AIGateway is the external Gemini boundary. Implementations never touch
// core state; callers map results into ledger/pipeline operations themselves.
type AIGateway interface {
	ProcessChat(ctx context.Context, message string) (*models.AssistantAction, error)
	AnalyzeDiaryImage(ctx context.Context, image []byte, instruction string) (*models.AssistantAction, error)
	TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error)
	SynthesizeSpeech(ctx context.Context, text string) ([]byte, error)
}

// ChatResult is one assistant conversational turn. Fallback marks turns
// synthesized locally because the gateway was unreachable.
type ChatResult struct {
	Action   *models.AssistantAction `json:"action"`
	Audio    []byte                  `json:"audio,omitempty"` // PCM from TTS, base64 in JSON
	Fallback bool                    `json:"fallback,omitempty"`
}

// AssistantService wraps the gateway with the app's failure semantics:
// chat degrades to a fallback turn, transcription degrades to empty text,
// speech synthesis is fire-and-forget.
type AssistantService interface {
	Chat(ctx context.Context, message string) (*ChatResult, error)
	AnalyzeDiary(ctx context.Context, image []byte, instruction string) (*models.AssistantAction, error)
	Transcribe(ctx context.Context, audio []byte, mimeType string) string
	Speak(ctx context.Context, text string) []byte
}
