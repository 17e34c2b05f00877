package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"greenscore-backend/models"

	"github.com/google/generative-ai-go/genai"
)

const (
	generationModel = "gemini-3-pro-preview"
	generationAPI   = "https://generativelanguage.googleapis.com/v1beta/models/" + generationModel + ":generateContent"

	// adjudicationTimeout bounds one probabilistic call. A timed-out call is
	// treated as absent and the unit falls to the deterministic path; there
	// is no retry.
	adjudicationTimeout = 45 * time.Second
)

// Adjudicator is the probabilistic strategy. It sends a framework-specific
// rubric plus the component excerpt and extracted fields to the Gemini API
// and expects a single structured JSON object back.
type Adjudicator struct {
	apiKey   string
	endpoint string
	client   *http.Client
	sdk      *genai.Client

	// generate performs one model call; replaceable in tests
	generate func(ctx context.Context, prompt string) (string, error)
}

// NewAdjudicator creates an adjudicator backed by the Gemini generation API.
// When an SDK client is supplied calls go through it; otherwise the REST
// endpoint is used directly.
func NewAdjudicator(apiKey string, sdkClient *genai.Client) *Adjudicator {
	a := &Adjudicator{
		apiKey:   apiKey,
		endpoint: generationAPI,
		client:   &http.Client{Timeout: adjudicationTimeout},
		sdk:      sdkClient,
	}
	if sdkClient != nil {
		a.generate = a.callGenerationSDK
	} else {
		a.generate = a.callGenerationAPI
	}
	return a
}

// Name identifies the strategy in logs and rationales
func (a *Adjudicator) Name() string {
	return "adjudicated"
}

// componentResponse is the structured object the adjudicator must return for
// a component evaluation
type componentResponse struct {
	Score      float64 `json:"score"`
	Confidence int     `json:"confidence"`
	Rationale  string  `json:"rationale"`
	Findings   []struct {
		Criterion string  `json:"criterion"`
		MaxPoints float64 `json:"max_points"`
		Awarded   float64 `json:"awarded"`
		Status    string  `json:"status"`
		Evidence  string  `json:"evidence"`
		Rationale string  `json:"rationale"`
	} `json:"findings"`
	Suggestions []string `json:"suggestions"`
	Evidence    []string `json:"evidence"`
}

// Evaluate scores one component through the adjudicator. Any malformed or
// incomplete response is returned as an error so the dispatcher can discard
// it and fall back.
func (a *Adjudicator) Evaluate(ctx context.Context, input ComponentInput) (*models.ComponentEvaluation, error) {
	prompt := buildComponentPrompt(input)

	raw, err := a.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var resp componentResponse
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &resp); err != nil {
		return nil, fmt.Errorf("malformed adjudication response: %w", err)
	}
	if len(resp.Findings) == 0 {
		return nil, fmt.Errorf("adjudication response contains no findings")
	}

	findings := make([]models.CriterionFinding, 0, len(resp.Findings))
	for _, f := range resp.Findings {
		finding := models.CriterionFinding{
			Criterion: f.Criterion,
			MaxPoints: f.MaxPoints,
			Awarded:   f.Awarded,
			Evidence:  f.Evidence,
			Rationale: f.Rationale,
		}
		// Status is derived, not trusted from the model
		finding.Status = models.DeriveStatus(finding.Awarded, finding.MaxPoints)
		findings = append(findings, finding)
	}

	return &models.ComponentEvaluation{
		ComponentID: input.Component.ID,
		Name:        input.Component.Name,
		MaxScore:    input.Component.MaxScore,
		Score:       resp.Score,
		Confidence:  resp.Confidence,
		AIEvaluated: true,
		Findings:    findings,
		Rationale:   resp.Rationale,
		Suggestions: capList(resp.Suggestions, 5),
		Evidence:    capList(resp.Evidence, 5),
	}, nil
}

// environmentalResponse is the structured object expected from an
// environmental screening call
type environmentalResponse struct {
	Confidence int `json:"confidence"`
	Objectives []struct {
		Objective                 string  `json:"objective"`
		Status                    string  `json:"status"`
		Score                     float64 `json:"score"`
		Evidence                  string  `json:"evidence"`
		Concern                   string  `json:"concern"`
		FundamentallyIncompatible bool    `json:"fundamentally_incompatible"`
		Recommendation            string  `json:"recommendation"`
	} `json:"objectives"`
}

// ScreenEnvironmental runs the probabilistic harm screening across the six
// environmental objectives
func (a *Adjudicator) ScreenEnvironmental(ctx context.Context, project *models.Project, docText string) (*models.EnvironmentalAssessment, error) {
	prompt := buildEnvironmentalPrompt(project, docText)

	raw, err := a.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var resp environmentalResponse
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &resp); err != nil {
		return nil, fmt.Errorf("malformed screening response: %w", err)
	}
	if len(resp.Objectives) != len(Objectives()) {
		return nil, fmt.Errorf("screening response covers %d objectives, want %d", len(resp.Objectives), len(Objectives()))
	}

	results := make([]models.EnvironmentalObjectiveResult, 0, len(resp.Objectives))
	for _, o := range resp.Objectives {
		results = append(results, models.EnvironmentalObjectiveResult{
			Objective:                 o.Objective,
			Status:                    models.ObjectiveStatus(o.Status),
			Score:                     o.Score,
			Evidence:                  o.Evidence,
			Concern:                   o.Concern,
			FundamentallyIncompatible: o.FundamentallyIncompatible,
			Recommendation:            o.Recommendation,
		})
	}

	return &models.EnvironmentalAssessment{
		Objectives:  results,
		Confidence:  resp.Confidence,
		AIEvaluated: true,
	}, nil
}

// riskResponse is the structured object expected from a risk assessment call
type riskResponse struct {
	RiskScore  float64 `json:"risk_score"`
	Confidence int     `json:"confidence"`
}

// AssessRisk asks the adjudicator for an overall 0-100 transition risk score
func (a *Adjudicator) AssessRisk(ctx context.Context, project *models.Project, docText string) (float64, int, error) {
	prompt := buildRiskPrompt(project, docText)

	raw, err := a.generate(ctx, prompt)
	if err != nil {
		return 0, 0, err
	}

	var resp riskResponse
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &resp); err != nil {
		return 0, 0, fmt.Errorf("malformed risk response: %w", err)
	}

	score := resp.RiskScore
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, resp.Confidence, nil
}

// callGenerationSDK performs one model call through the Gemini SDK client.
// One attempt only: on failure the caller treats the adjudication as absent.
func (a *Adjudicator) callGenerationSDK(ctx context.Context, prompt string) (string, error) {
	tctx, cancel := context.WithTimeout(ctx, adjudicationTimeout)
	defer cancel()

	model := a.sdk.GenerativeModel(generationModel)
	model.SetTemperature(0.1)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(tctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generation call failed: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("API returned no candidates")
	}

	var responseText strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.FinishReason != genai.FinishReasonStop && candidate.FinishReason != genai.FinishReasonUnspecified {
			log.Printf("Warning: candidate finished with reason: %s", candidate.FinishReason)
		}
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				responseText.WriteString(string(text))
			}
		}
	}

	result := responseText.String()
	if result == "" {
		return "", fmt.Errorf("API returned empty content")
	}
	return result, nil
}

// callGenerationAPI calls the Gemini generation API directly via HTTP.
// One attempt only: on failure the caller treats the adjudication as absent.
func (a *Adjudicator) callGenerationAPI(ctx context.Context, prompt string) (string, error) {
	if a.apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY not set")
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":      0.1,
			"responseMimeType": "application/json",
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		log.Printf("Gemini API error: Status %d, Body: %s", resp.StatusCode, string(bodyBytes))
		return "", fmt.Errorf("API error: %d", resp.StatusCode)
	}

	var apiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			FinishReason string `json:"finishReason,omitempty"`
		} `json:"candidates"`
		PromptFeedback struct {
			BlockReason string `json:"blockReason,omitempty"`
		} `json:"promptFeedback,omitempty"`
	}

	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if apiResp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("API blocked prompt: %s", apiResp.PromptFeedback.BlockReason)
	}
	if len(apiResp.Candidates) == 0 {
		return "", fmt.Errorf("API returned no candidates")
	}

	var responseText strings.Builder
	for _, candidate := range apiResp.Candidates {
		if candidate.FinishReason != "" && candidate.FinishReason != "STOP" {
			log.Printf("Warning: candidate finished with reason: %s", candidate.FinishReason)
		}
		for _, part := range candidate.Content.Parts {
			responseText.WriteString(part.Text)
		}
	}

	result := responseText.String()
	if result == "" {
		return "", fmt.Errorf("API returned empty content")
	}
	return result, nil
}

// stripCodeFences removes a markdown code fence the model sometimes wraps
// around JSON output
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func capList(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}
