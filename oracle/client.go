package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"
)

const (
	// DefaultBaseURL is the OpenAI-compatible DashScope endpoint
	DefaultBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	// DefaultModel is the strongest tier; qwen-plus and qwen-turbo trade
	// accuracy for cost
	DefaultModel = "qwen-max"
	// DefaultMaxRetries bounds re-sends after transport or schema failures
	DefaultMaxRetries = 3
	// DefaultTimeout is the per-request deadline
	DefaultTimeout = 60 * time.Second

	defaultBaseDelay = 500 * time.Millisecond
	defaultMaxDelay  = 5 * time.Second
)

// ClientOptions configures the judgment client. Zero values fall back to the
// defaults above, except MaxRetries: zero means a single attempt with no
// retries, negative means the default budget.
type ClientOptions struct {
	BaseURL    string
	APIKey     string
	Model      string
	MaxRetries int
	Timeout    time.Duration
	BaseDelay  time.Duration
	Logger     hclog.Logger
}

// Client sends candidate pairs to an OpenAI-compatible chat-completions
// endpoint and parses the reply into a Verdict.
type Client struct {
	httpc      *resty.Client
	model      string
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	logger     hclog.Logger
}

func NewClient(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = DefaultMaxRetries
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = defaultBaseDelay
	}
	if opts.Logger == nil {
		opts.Logger = hclog.NewNullLogger()
	}

	httpc := resty.New()
	httpc.SetBaseURL(opts.BaseURL)
	httpc.SetHeader("Authorization", fmt.Sprintf("Bearer %s", opts.APIKey))
	httpc.SetHeader("Content-Type", "application/json")
	httpc.SetTimeout(opts.Timeout)

	return &Client{
		httpc:      httpc,
		model:      opts.Model,
		maxRetries: opts.MaxRetries,
		baseDelay:  opts.BaseDelay,
		maxDelay:   defaultMaxDelay,
		logger:     opts.Logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// judgment is the fixed reply schema the model is instructed to produce.
type judgment struct {
	HasDangerousPath bool   `json:"has_dangerous_path"`
	PathDescription  string `json:"path_description"`
	TriggerCondition string `json:"trigger_condition"`
	IsBug            bool   `json:"is_bug"`
	Severity         string `json:"severity"`
	Reason           string `json:"reason"`
}

// Judge sends one judgment request, retrying transport and schema failures
// with exponential backoff. Exhausted retries degrade the verdict to
// StatusError or StatusInconclusive respectively instead of failing the
// scan; the only error returned is context cancellation.
func (c *Client) Judge(ctx context.Context, req Request) (Verdict, error) {
	verdict := Verdict{Pair: req.Pair}
	prompt := buildPrompt(req)
	schemaFailure := false

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepContext(ctx, c.backoff(attempt)); err != nil {
				verdict.Status = StatusError
				return verdict, err
			}
		}

		content, err := c.complete(ctx, prompt)
		if err != nil {
			if ctx.Err() != nil {
				verdict.Status = StatusError
				return verdict, ctx.Err()
			}
			schemaFailure = false
			c.logger.Warn("judgment call failed", "attempt", attempt+1, "error", err)
			continue
		}

		j, err := parseJudgment(content)
		if err != nil {
			schemaFailure = true
			c.logger.Warn("judgment response did not match expected schema",
				"attempt", attempt+1, "error", err)
			continue
		}

		verdict.Vulnerable = j.IsBug
		verdict.Severity = normalizeSeverity(j.Severity)
		verdict.TriggerCondition = j.TriggerCondition
		verdict.PathDescription = j.PathDescription
		verdict.Explanation = j.Reason
		if j.IsBug {
			verdict.Status = StatusConfirmed
		} else {
			verdict.Status = StatusRejected
		}
		return verdict, nil
	}

	if schemaFailure {
		verdict.Status = StatusInconclusive
	} else {
		verdict.Status = StatusError
	}
	return verdict, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	var out chatResponse
	resp, err := c.httpc.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model: c.model,
			Messages: []chatMessage{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: prompt},
			},
			Temperature: 0,
		}).
		SetResult(&out).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("judgment request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("%d from judgment endpoint", resp.StatusCode())
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("judgment response contained no choices")
	}
	return out.Choices[0].Message.Content, nil
}

// parseJudgment strips markdown code fences the model sometimes adds, then
// unmarshals the reply into the fixed schema.
func parseJudgment(content string) (judgment, error) {
	var j judgment

	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	if err := json.Unmarshal([]byte(content), &j); err != nil {
		return judgment{}, fmt.Errorf("unexpected judgment shape: %w", err)
	}
	return j, nil
}

func normalizeSeverity(severity string) string {
	switch strings.ToLower(strings.TrimSpace(severity)) {
	case "critical":
		return SeverityCritical
	case "high":
		return SeverityHigh
	case "medium":
		return SeverityMedium
	case "low":
		return SeverityLow
	default:
		return SeverityMedium
	}
}

func (c *Client) backoff(attempt int) time.Duration {
	delay := c.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= c.maxDelay {
			return c.maxDelay
		}
	}
	if delay > c.maxDelay {
		delay = c.maxDelay
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
