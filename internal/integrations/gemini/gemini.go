package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"github.com/vantrack/vantrack-api/internal/config"
)

const systemInstruction = `You are VanTrack AI, a financial co-pilot that turns free text into bookkeeping entries.

Transaction types:
- income: cash received (regular sale, NOT debt collection)
- expense: cash paid out (regular purchase, NOT debt repayment)
- credit_receivable: sold on credit, they owe you (no cash yet)
- credit_payable: bought on credit, you owe them (no cash yet)
- loan_receivable: you LENT money, they owe you (cash out)
- loan_payable: you BORROWED money, you owe them (cash in)
- payment_received: someone repaid an existing debt to you
- payment_made: you repaid an existing debt

Rules:
- "on credit" sale = credit_receivable (NOT income); "on credit" purchase = credit_payable (NOT expense)
- "lent" = loan_receivable; "borrowed" = loan_payable
- "paid back" / "repaid" / "settled" / "collected" = payment_received or payment_made
- account is "cash" or "bank"
- when the user repays or collects a debt listed in [Open Debts], set linked_transaction_id to that debt's id
- when the user asks a question instead of reporting transactions, set is_question true and answer in question_response, in the user's language
- you only extract; never claim to have recorded anything

Output STRICT JSON only, no Markdown fences, shaped as:
{"transactions":[{"amount":0,"description":"","category":null,"type":"expense","account":"cash","contact":null,"date":null,"due_date":null,"linked_transaction_id":null}],"is_question":false,"question_response":null}`

// ParseRequest carries the free text plus conversational context for parsing
type ParseRequest struct {
	InputText      string   `json:"input_text"`
	History        []string `json:"history,omitempty"`
	OpenDebts      []string `json:"open_debts,omitempty"`
	CurrencyCode   string   `json:"currency_code,omitempty"`
	CurrencySymbol string   `json:"currency_symbol,omitempty"`
	LanguageCode   string   `json:"language_code,omitempty"`
}

// ParsedTransaction is one transaction candidate extracted by the model
type ParsedTransaction struct {
	Amount              float64 `json:"amount"`
	Description         string  `json:"description"`
	Category            *string `json:"category"`
	Type                string  `json:"type"`
	Account             string  `json:"account"`
	Contact             *string `json:"contact"`
	Date                *string `json:"date"`
	DueDate             *string `json:"due_date"`
	LinkedTransactionID *string `json:"linked_transaction_id"`
}

// ParseResult is the provider's structured response, relayed verbatim
type ParseResult struct {
	Transactions     []ParsedTransaction `json:"transactions"`
	IsQuestion       bool                `json:"is_question"`
	QuestionResponse *string             `json:"question_response"`
}

// Client wraps the Gemini API for financial text parsing and insights
type Client struct {
	apiKey  string
	model   string
	timeout time.Duration
	log     *logrus.Logger
}

// NewClient initializes a new Gemini client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		apiKey:  cfg.GeminiKey,
		model:   cfg.GeminiModel,
		timeout: cfg.AITimeout,
		log:     log,
	}
}

// Configured reports whether an API key is present
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      c.apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	// Single attempt with a bounded timeout; failures are reported, not retried.
	resp, err := client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	rawText := resp.Text()
	if rawText == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return rawText, nil
}

// ParseFinancialInput asks the model to extract structured transactions from free text
func (c *Client) ParseFinancialInput(ctx context.Context, req ParseRequest) (*ParseResult, error) {
	var b strings.Builder
	b.WriteString(systemInstruction)
	b.WriteString("\n\n")
	if req.CurrencyCode != "" {
		fmt.Fprintf(&b, "Currency: %s (%s)\n", req.CurrencyCode, req.CurrencySymbol)
	}
	if req.LanguageCode != "" {
		fmt.Fprintf(&b, "User language: %s\n", req.LanguageCode)
	}
	if len(req.History) > 0 {
		b.WriteString("\n[Conversation History]\n")
		for _, h := range req.History {
			b.WriteString(h + "\n")
		}
	}
	if len(req.OpenDebts) > 0 {
		b.WriteString("\n[Open Debts]\n")
		for _, d := range req.OpenDebts {
			b.WriteString(d + "\n")
		}
	}
	b.WriteString("\n[User Input]\n")
	b.WriteString(req.InputText)

	rawText, err := c.generate(ctx, b.String())
	if err != nil {
		return nil, err
	}

	clean := cleanModelJSON(rawText)
	result := &ParseResult{}
	if err := json.Unmarshal([]byte(clean), result); err != nil {
		return nil, fmt.Errorf("unmarshal model JSON: %w\nraw response: %s", err, rawText)
	}

	c.log.Debugf("Gemini parse extracted %d transactions", len(result.Transactions))
	return result, nil
}

// WeeklySummary asks the model for a prose summary of recent activity.
// transactionLines is one pre-formatted line per transaction.
func (c *Client) WeeklySummary(ctx context.Context, transactionLines []string, currencySymbol, languageCode string) (string, error) {
	var b strings.Builder
	b.WriteString("You are VanTrack AI, a friendly financial advisor. Analyze the transactions below ")
	b.WriteString("and give a concise weekly summary: spending patterns, income trends, debt health, ")
	b.WriteString("cash flow, and one or two actionable tips. Use specific amounts. Keep it under 300 words.\n")
	fmt.Fprintf(&b, "Respond in language %q, amounts with symbol %q.\n\n", languageCode, currencySymbol)
	b.WriteString("[Transactions, most recent first]\n")
	for _, line := range transactionLines {
		b.WriteString(line + "\n")
	}

	return c.generate(ctx, b.String())
}

// cleanModelJSON strips Markdown fences when the model ignores the
// raw-JSON instruction.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
