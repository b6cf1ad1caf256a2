package models

// ActionType classifies what the assistant wants the app to do with a
// conversational turn. UNKNOWN is the catch-all for free-form replies.
type ActionType string

const (
	ActionAddCustomer     ActionType = "ADD_CUSTOMER"
	ActionGetBalance      ActionType = "GET_BALANCE"
	ActionAddPayment      ActionType = "ADD_PAYMENT"
	ActionCreateInvoice   ActionType = "CREATE_INVOICE"
	ActionLookupCustomer  ActionType = "LOOKUP_CUSTOMER"
	ActionAnalyzeDailyTxs ActionType = "ANALYZE_DAILY_TRANSACTIONS"
	ActionUnknown         ActionType = "UNKNOWN"
)

// AssistantInsights carries the advisory part of a diary analysis.
type AssistantInsights struct {
	SummaryHindi     string   `json:"summary_hindi"`
	ActionStepsHindi []string `json:"action_steps_hindi"`
}

// AssistantAction is the structured payload the gateway returns for chat and
// diary-analysis requests. Parameters is model-shaped and intentionally left
// untyped; mapping it into ledger operations is the caller's concern.
type AssistantAction struct {
	Action     ActionType         `json:"action"`
	Parameters map[string]any     `json:"parameters"`
	Reply      string             `json:"reply"`
	Insights   *AssistantInsights `json:"insights,omitempty"`
}

// DiaryAnalysisResult is the normalized shape of a diary-scan response. The
// extracted transactions are display-only here: the conversion into entries
// on a specific customer's khata is not performed automatically.
type DiaryAnalysisResult struct {
	Transactions     []Transaction `json:"transactions"`
	TotalSale        float64       `json:"total_sale"`
	TotalPurchase    float64       `json:"total_purchase"`
	TotalExpense     float64       `json:"total_expense"`
	ProfitLoss       float64       `json:"profit_loss"`
	SummaryHindi     string        `json:"summary_hindi"`
	ActionStepsHindi []string      `json:"action_steps_hindi"`
}
