package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/rs/zerolog/log"

	"loan-payoff/domain"
)

const defaultChatURL = "https://api.openai.com/v1/chat/completions"

// ExplanationService turns projections into a short plain-language summary,
// either through an OpenAI-compatible chat endpoint or a local template.
type ExplanationService struct {
	apiKey     string
	apiURL     string
	model      string
	enabled    bool
	httpClient *http.Client
}

type ChatRequest struct {
	Model     string        `json:"model"`
	Messages  []ChatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatResponse struct {
	Choices []struct {
		Message ChatMessage `json:"message"`
	} `json:"choices"`
}

// NewExplanationService creates the service. An empty apiKey disables remote
// calls and every explanation uses the local template.
func NewExplanationService(apiKey, apiURL, model string) *ExplanationService {
	if apiURL == "" {
		apiURL = defaultChatURL
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &ExplanationService{
		apiKey:  apiKey,
		apiURL:  apiURL,
		model:   model,
		enabled: apiKey != "",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ExplainProjection describes a single liability's payoff plan.
func (s *ExplanationService) ExplainProjection(ctx context.Context, name string, p domain.Projection) string {
	if !s.enabled {
		return s.fallbackProjection(name, p)
	}

	payoff := "never, because the payment does not cover the monthly interest"
	if p.ProjectedPayoffDate != nil {
		payoff = fmt.Sprintf("%s (%d months)", *p.ProjectedPayoffDate, p.MonthsToPayoff)
	}

	prompt := fmt.Sprintf(`Explain this repayment plan to the borrower in 2-3 plain sentences.

LIABILITY: %s
- Current balance: £%.2f
- Annual interest rate: %.2f%%
- Monthly payment: £%.2f
- Projected payoff: %s
- Total interest still to pay: £%.2f

Mention the payoff date and the interest cost. If the payment is too low, say what it must exceed.`,
		name, p.CurrentBalance, p.InterestRate, p.MonthlyPayment, payoff, p.TotalInterestToPay)

	explanation, err := s.callLLM(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Str("liability", name).Msg("explanation service unavailable, using fallback")
		return s.fallbackProjection(name, p)
	}

	return explanation
}

// ExplainPortfolio describes a multi-debt payoff plan.
func (s *ExplanationService) ExplainPortfolio(ctx context.Context, result domain.PortfolioResult) string {
	if !s.enabled {
		return s.fallbackPortfolio(result)
	}

	debtFree := "not reachable with the current payments"
	if result.DebtFreeDate != nil {
		debtFree = *result.DebtFreeDate
	}

	prompt := fmt.Sprintf(`Explain this debt payoff plan in 3-4 motivating but realistic sentences.

STRATEGY: %s
- Total debt: £%.2f
- Total monthly outlay: £%.2f
- Total interest to pay: £%.2f
- Debt-free date: %s

DEBTS IN PRIORITY ORDER:
%s
Explain why the first debt gets priority under this strategy and flag any debt whose payment is too low.`,
		result.Strategy, result.TotalDebt, result.TotalMonthlyOutlay, result.TotalInterest, debtFree,
		s.formatDebts(result.Debts))

	explanation, err := s.callLLM(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Str("strategy", result.Strategy).Msg("explanation service unavailable, using fallback")
		return s.fallbackPortfolio(result)
	}

	return explanation
}

func (s *ExplanationService) callLLM(ctx context.Context, prompt string) (string, error) {
	reqBody := ChatRequest{
		Model: s.model,
		Messages: []ChatMessage{
			{
				Role:    "system",
				Content: "You are a careful personal-finance assistant. You explain loan and credit repayment plans clearly, quote the exact figures you are given, and never invent numbers.",
			},
			{
				Role:    "user",
				Content: prompt,
			},
		},
		MaxTokens: 300,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("chat API error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", err
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response from chat API")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

func (s *ExplanationService) formatDebts(debts []domain.DebtPayoff) string {
	var result strings.Builder
	for _, debt := range debts {
		payoff := "never"
		if debt.PayoffDate != nil {
			payoff = *debt.PayoffDate
		}
		fmt.Fprintf(&result, "%d. %s: £%.2f at %.2f%%, paying £%.2f/month, paid off %s\n",
			debt.Priority, debt.Name, debt.Balance, debt.InterestRate, debt.MonthlyPayment, payoff)
	}
	return result.String()
}

func (s *ExplanationService) fallbackProjection(name string, p domain.Projection) string {
	if p.CurrentBalance <= 0 {
		return fmt.Sprintf("%s is already paid off.", name)
	}
	if p.ProjectedPayoffDate == nil {
		msg := p.Validation.Message
		if msg == "" {
			msg = "The current payment does not reduce the balance."
		}
		return fmt.Sprintf("%s will not be paid off at £%s a month. %s", name, money(p.MonthlyPayment), msg)
	}
	return fmt.Sprintf("Paying £%s a month clears the £%s balance on %s by %s (%s), with £%s of interest.",
		money(p.MonthlyPayment), money(p.CurrentBalance), name, *p.ProjectedPayoffDate,
		english.Plural(p.MonthsToPayoff, "month", "months"), money(p.TotalInterestToPay))
}

func (s *ExplanationService) fallbackPortfolio(result domain.PortfolioResult) string {
	if len(result.Debts) == 0 {
		return "There are no debts to plan."
	}

	order := "highest interest rate first, which keeps the total interest lowest"
	if result.Strategy == StrategySnowball {
		order = "smallest balance first, which clears individual debts sooner"
	}

	debtFree := "The plan does not reach a debt-free date because at least one payment does not cover its interest."
	if result.DebtFreeDate != nil {
		debtFree = fmt.Sprintf("You will be debt free by %s.", *result.DebtFreeDate)
	}

	return fmt.Sprintf("The %s strategy prioritises %s, starting with %s. Across %s totalling £%s you will pay £%s of interest. %s",
		result.Strategy, order, result.Debts[0].Name,
		english.Plural(len(result.Debts), "debt", "debts"), money(result.TotalDebt), money(result.TotalInterest), debtFree)
}

func money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}
