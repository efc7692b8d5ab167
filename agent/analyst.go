package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/etnz/drip"
	"google.golang.org/genai"
)

const analystInstruction = `You are a dividend reinvestment analyst.
You answer questions about dividend-paying stocks and ETFs by running the
run_simulation tool and explaining its ledger: how many shares were bought,
why some dividends only accumulated cash, and what the forecast assumes
(last dividend repeated at the detected cadence, price held constant).
Never invent numbers: every figure you quote must come from a tool result.`

// NewAnalyst returns the analyst expert, whose single tool runs a dividend
// reinvestment simulation through 'provider'.
func NewAnalyst(provider drip.Provider) *Expert {
	functions := []Function{&simulateFunc{provider: provider}}
	return &Expert{
		Name:        "analyst",
		Description: "Explains dividend reinvestment simulations.",
		ModelName:   "gemini-2.5-flash",
		Config: &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: analystInstruction}},
			},
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(functions)},
			},
		},
		Library: NewLibrary(functions),
	}
}

// simulateFunc exposes the simulation pipeline as a model-callable function.
type simulateFunc struct {
	provider drip.Provider
}

func (f *simulateFunc) Declaration() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        "run_simulation",
		Description: "Simulates reinvesting all dividends of a ticker into whole shares over a date range, optionally extended into the future.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"ticker": {
					Type:        genai.TypeString,
					Description: "Ticker symbol, e.g. SCHD or 005930.KS.",
				},
				"from": {
					Type:        genai.TypeString,
					Description: "Start date, YYYY-MM-DD.",
				},
				"to": {
					Type:        genai.TypeString,
					Description: "End date, YYYY-MM-DD.",
				},
				"shares": {
					Type:        genai.TypeNumber,
					Description: "Initial number of shares held.",
				},
				"forecast_to": {
					Type:        genai.TypeString,
					Description: "Optional forecast end date, YYYY-MM-DD.",
				},
			},
			Required: []string{"ticker", "from", "to", "shares"},
		},
	}
}

func (f *simulateFunc) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	fresp := &genai.FunctionResponse{ID: id, Name: "run_simulation"}

	result, err := f.run(args)
	if err != nil {
		fresp.Response = map[string]any{"error": err.Error()}
		return fresp
	}

	// A compact summary plus the raw ledger keeps the tool output small
	// enough for the model while staying faithful to the run.
	ledger := make([]map[string]any, 0, len(result.Entries))
	for _, e := range result.Entries {
		ledger = append(ledger, map[string]any{
			"date":      e.On.String(),
			"div_share": e.DividendPerShare.Plain(),
			"cash":      e.Cash.Plain(),
			"bought":    e.Purchased.String(),
			"shares":    e.Shares.String(),
			"carried":   e.Carried.Plain(),
			"price":     e.Price.Plain(),
			"forecast":  e.Forecast,
		})
	}
	fresp.Response = map[string]any{
		"ticker":          result.Ticker,
		"currency":        result.Currency,
		"initial_shares":  result.InitialShares.String(),
		"final_shares":    result.FinalShares().String(),
		"shares_gained":   result.SharesGained().String(),
		"total_dividends": result.TotalDividends().Plain(),
		"remaining_cash":  result.RemainingCash().Plain(),
		"frequency":       result.Frequency.String(),
		"ledger":          ledger,
	}
	return fresp
}

func (f *simulateFunc) run(args map[string]any) (*drip.SimulationResult, error) {
	ticker, _ := args["ticker"].(string)
	fromStr, _ := args["from"].(string)
	toStr, _ := args["to"].(string)
	shares, ok := args["shares"].(float64)
	if !ok {
		return nil, errors.New("shares must be a number")
	}

	from, err := drip.ParseDate(fromStr)
	if err != nil {
		return nil, err
	}
	to, err := drip.ParseDate(toStr)
	if err != nil {
		return nil, err
	}

	req := drip.SimulationRequest{
		Ticker: ticker,
		Period: drip.NewRange(from, to),
		Shares: drip.Q(shares),
	}
	if horizon, ok := args["forecast_to"].(string); ok && horizon != "" {
		h, err := drip.ParseDate(horizon)
		if err != nil {
			return nil, err
		}
		req.Horizon = h
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	market, err := f.provider.FetchHistory(req.Ticker, req.Period)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", req.Ticker, err)
	}
	result, err := drip.Simulate(market, req.Shares)
	if err != nil {
		return nil, err
	}
	if !req.Horizon.IsZero() {
		if err := result.Extend(market, req.Horizon); err != nil {
			return nil, err
		}
	}
	return result, nil
}
