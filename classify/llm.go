package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultModel   = "gpt-3.5-turbo"
	defaultBaseURL = "https://api.openai.com"

	// Question bodies are truncated before prompting so one oversized post
	// can't exceed the model's context window.
	maxContentChars = 1500
)

// Client calls an OpenAI-compatible chat-completions endpoint to label one
// forum question.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithModel sets the model to request.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL sets a custom API base URL (also used by tests).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// NewClient creates a chat-completions classification client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		model:      defaultModel,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

const systemPrompt = `You are an expert in Adobe Experience Manager Forms who specializes in categorizing forum questions.
Your task is to analyze each question and identify the most appropriate category.`

// taxonomy enumerates every assignable category once; it is never re-derived
// at call time.
const taxonomy = `- adaptive-forms-authoring: Questions about creating, editing, configuring or designing Adaptive Forms
- adaptive-forms-runtime: Questions about form rendering, submission, or client-side behavior
- adaptive-forms-core-components: Questions about AEM Forms Core Components specifically
- adaptive-forms-headless: Questions about headless forms or the Forms React SDK
- document-of-record: Questions about DoR generation, PDF output, or Document of Record issues
- designer: Questions about XDP forms, form design templates, or the Designer application
- integration-third-party: Questions about integrating with external systems or services
- forms-workflow: Questions about workflows, reviews, or approvals in Forms
- core: Questions about the AEM Forms core functionality or platform
- accessibility: Questions about making forms accessible or compliance with standards
- security: Questions related to form security or privacy

- adaptive-forms-authoring-theme-customization: Customizing themes for adaptive forms including creating editing and applying themes
- adaptive-forms-authoring-form-creation-errors: Errors encountered during the creation of new forms in AEM troubleshooting debugging
- adaptive-forms-authoring-field-validation: Adding custom field validations patterns and rules to adaptive forms
- adaptive-forms-authoring-component-development: Developing custom components integrating functionalities like calendars dropdowns
- adaptive-forms-authoring-localization-multilingual: Creating multilingual adaptive forms adding dictionaries language-specific content
- adaptive-forms-runtime-field-customization: Customizing form field values formatting and behavior
- adaptive-forms-runtime-performance-optimization: Performance issues related to repeatable instances and form rendering
- adaptive-forms-runtime-javascript-integration: Using JavaScript to interact with form elements and manipulate DOM
- adaptive-forms-runtime-custom-submit-actions: Creating custom submit actions for forms emails or specific actions
- adaptive-forms-runtime-form-tab-management: Managing form tabs controlling tab states and synchronizing data between tabs
- adaptive-forms-core-components-rule-editor-functions: Custom functions and rule editor usage within Adaptive Form Core Components
- adaptive-forms-core-components-component-development: Developing custom Core Form Components and resolving issues with component properties
- adaptive-forms-core-components-script-validation: Script validation functionality issues and customizations within core components
- adaptive-forms-core-components-date-input-validation: Date input validation and best practices for date-related fields
- adaptive-forms-core-components-translation-localization: Translating core adaptive forms using machine translation handling localization
- core-migration-to-forms-manager: Migrating XDPs or forms to AEM Forms Manager memory configuration setup
- core-installation-configuration: Installing and configuring AEM Forms post-installation setup
- core-error-handling-troubleshooting: Errors encountered in AEM Forms internal server errors null pointer exceptions
- core-dispatcher-configuration: Configuring AEM Dispatcher internal redirects filter path rules form submissions
- core-correspondence-management: Localization data dictionary failures and correspondence management
- integration-third-party-form-integration: Integrating AEM Forms with third-party systems or services
- integration-third-party-api-integration: Integrating AEM Forms with REST APIs or other types of APIs
- integration-third-party-adobe-sign-configuration: Configuring Adobe Sign within AEM Forms workflows
- integration-third-party-error-handling: Error handling within AEM Forms especially with core form components
- integration-third-party-file-upload: Uploading files especially large files to external services like S3 buckets
- designer-form-field-validation: Field validation within AEM Forms Designer subform validation problems
- designer-ui-customization: Customizing the AEM Designer UI modifying palettes and the interface
- designer-pdf-export: Exporting data handling font discrepancies exporting XML data
- designer-master-page-layout: Creating and managing Master Pages portrait or landscape orientation
- designer-scripting-functionality: Scripting alternatives issues with specific functions script-related errors`

func buildPrompt(title, content string, topics []string) string {
	topicsText := "None"
	if len(topics) > 0 {
		topicsText = strings.Join(topics, ", ")
	}

	if len(content) > maxContentChars {
		content = content[:maxContentChars]
	}

	return fmt.Sprintf(`Categorize this forum question into exactly ONE of these categories:

%s

Return your answer in this format:
Category: [category name]
Confidence: [number between 0-100]
Explanation: [brief explanation of why you chose this category]

Question Title: %s
Question Content: %s
Question Topics: %s`, taxonomy, title, content, topicsText)
}

// Classify labels one question using the chat-completions endpoint. It
// returns an error on any transport, API, or response-parsing failure; the
// caller decides whether to fall back.
func (c *Client) Classify(ctx context.Context, title, content string, topics []string) (Result, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(title, content, topics)},
		},
		Temperature: 0.3,
		MaxTokens:   300,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return Result{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return Result{}, fmt.Errorf("decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return Result{}, fmt.Errorf("no choices in response")
	}

	return parseCompletion(chatResp.Choices[0].Message.Content)
}

// parseCompletion parses the three-line structured completion. A malformed
// Confidence line defaults to 50; a missing Category line is a parse error.
func parseCompletion(text string) (Result, error) {
	var result Result

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "category:"):
			result.Category = strings.ToLower(strings.TrimSpace(line[len("category:"):]))
		case strings.HasPrefix(lower, "confidence:"):
			value, err := strconv.Atoi(strings.TrimSpace(line[len("confidence:"):]))
			if err != nil {
				value = 50
			}
			result.Confidence = value
		case strings.HasPrefix(lower, "explanation:"):
			result.Explanation = strings.TrimSpace(line[len("explanation:"):])
		}
	}

	if result.Category == "" {
		return Result{}, fmt.Errorf("no category in completion")
	}
	return result, nil
}

// Chat-completions API types.

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}
