package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// demandOutput is the structured output requested from the model.
type demandOutput struct {
	PredictedDemand float64 `json:"predictedDemand" jsonschema:"description=Total units expected to sell in the period"`
	Confidence      float64 `json:"confidence" jsonschema:"description=Confidence between 0 and 1"`
}

type recommendationOutput struct {
	ProductID      string `json:"productId"`
	Recommendation string `json:"recommendation" jsonschema:"description=Short actionable advice such as Order 20 units"`
	Priority       string `json:"priority" jsonschema:"enum=high,enum=medium,enum=low"`
	Reason         string `json:"reason"`
}

type analysisOutput struct {
	Recommendations []recommendationOutput `json:"recommendations"`
}

// OpenAIForecaster asks an OpenAI model for forecasts using strict JSON
// schema output.
type OpenAIForecaster struct {
	client *openai.Client
	model  string
}

func NewOpenAIForecaster(apiKey, model string, opts ...option.RequestOption) *OpenAIForecaster {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := openai.NewClient(opts...)
	if model == "" {
		model = string(shared.ChatModelGPT4o)
	}
	return &OpenAIForecaster{client: &client, model: model}
}

func (f *OpenAIForecaster) PredictDemand(ctx context.Context, req DemandRequest) (Demand, error) {
	history, err := json.Marshal(req.History)
	if err != nil {
		return Demand{}, fmt.Errorf("failed to marshal history: %w", err)
	}

	prompt := fmt.Sprintf(`You are an inventory demand forecasting expert.
Analyze the sales history and predict the total demand for the next %s.
Consider trends, seasonality and patterns in the data.

Product ID: %s
Product Name: %s

Historical sales (date and quantity sold):
%s`, strings.Replace(req.Period, "days", " days", 1), req.ProductID, req.ProductName, history)

	content, err := f.complete(ctx, prompt, "demand_forecast", "Predicted demand and confidence", demandOutput{})
	if err != nil {
		return Demand{}, err
	}
	return parseDemand(content)
}

func (f *OpenAIForecaster) AnalyzeInventory(ctx context.Context, items []StockItem, limit int) ([]Recommendation, error) {
	payload, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal items: %w", err)
	}

	prompt := fmt.Sprintf(`You are an inventory management assistant.
Analyze these products and provide the top %d recommendations, sorted by priority (high first).
Focus on items needing attention based on stock levels, reorder points and historical demand.
Use the productId values exactly as given.

%s`, limit, payload)

	content, err := f.complete(ctx, prompt, "inventory_analysis", "Restocking recommendations", analysisOutput{})
	if err != nil {
		return nil, err
	}
	return parseRecommendations(content, items, limit)
}

func (f *OpenAIForecaster) complete(ctx context.Context, prompt, name, description string, shape any) (string, error) {
	schemaMap, err := schemaFor(shape)
	if err != nil {
		return "", err
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(f.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        name,
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt(description),
				},
			},
		},
	}

	resp, err := f.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%w: openai responses error: %v", ErrExternalService, err)
	}

	content := resp.OutputText()
	if content == "" {
		return "", fmt.Errorf("%w: empty response content", ErrExternalService)
	}
	return content, nil
}

func schemaFor(v any) (map[string]any, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	raw, err := json.Marshal(reflector.Reflect(v))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(raw, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}
	return schemaMap, nil
}

func parseDemand(content string) (Demand, error) {
	var out demandOutput
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return Demand{}, fmt.Errorf("%w: failed to parse forecast: %v", ErrExternalService, err)
	}
	if math.IsNaN(out.PredictedDemand) || math.IsNaN(out.Confidence) {
		return Demand{}, fmt.Errorf("%w: forecast contains NaN", ErrExternalService)
	}
	return clampDemand(Demand{
		PredictedDemand: int(math.Round(out.PredictedDemand)),
		Confidence:      out.Confidence,
	}), nil
}

// parseRecommendations keeps only recommendations that reference a known
// product and carry a valid priority.
func parseRecommendations(content string, items []StockItem, limit int) ([]Recommendation, error) {
	var out analysisOutput
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("%w: failed to parse analysis: %v", ErrExternalService, err)
	}

	known := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		known[item.ProductID] = true
	}

	recs := make([]Recommendation, 0, len(out.Recommendations))
	for _, r := range out.Recommendations {
		id, err := uuid.Parse(r.ProductID)
		if err != nil || !known[id] {
			continue
		}
		switch r.Priority {
		case PriorityHigh, PriorityMedium, PriorityLow:
		default:
			continue
		}
		recs = append(recs, Recommendation{
			ProductID:      id,
			Recommendation: r.Recommendation,
			Priority:       r.Priority,
			Reason:         r.Reason,
		})
		if limit > 0 && len(recs) == limit {
			break
		}
	}
	return recs, nil
}
