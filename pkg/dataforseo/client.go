package dataforseo

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"topicshare-go/pkg/logger"
)

// DefaultBaseURL is the production DataForSEO API root
const DefaultBaseURL = "https://api.dataforseo.com/v3"

// Credentials are the API login and password. They live only inside the
// client value for the duration of a run and are never persisted or logged.
type Credentials struct {
	Login    string
	Password string
}

func (c Credentials) authHeader() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.Login+":"+c.Password))
}

// ClientConfig holds transport tuning for the API client
type ClientConfig struct {
	BaseURL     string
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
	MaxConns    int
	UserAgent   string
}

// DefaultClientConfig returns settings suitable for interactive analysis
// runs
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:    DefaultBaseURL,
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		RetryDelay: 1 * time.Second,
		MaxConns:   64,
		UserAgent:  "topicshare-go/1.0",
	}
}

// Client is the shared fasthttp transport for all DataForSEO endpoints
type Client struct {
	config ClientConfig
	creds  Credentials
	http   *fasthttp.Client
	retry  *Retrier
	log    *logger.Logger
}

// NewClient creates a client bound to one set of credentials
func NewClient(creds Credentials, config ClientConfig) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultClientConfig().Timeout
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultClientConfig().UserAgent
	}
	if config.MaxConns <= 0 {
		config.MaxConns = DefaultClientConfig().MaxConns
	}

	return &Client{
		config: config,
		creds:  creds,
		http: &fasthttp.Client{
			MaxConnsPerHost:     config.MaxConns,
			ReadTimeout:         config.Timeout,
			WriteTimeout:        config.Timeout,
			MaxIdleConnDuration: 60 * time.Second,
		},
		retry: NewRetrier(config.MaxRetries, config.RetryDelay),
		log: logger.GetLogger().
			WithField("component", "dataforseo_client").
			WithField("login", logger.MaskLogin(creds.Login)),
	}
}

// apiResponse is the common DataForSEO envelope
type apiResponse struct {
	StatusCode    int       `json:"status_code"`
	StatusMessage string    `json:"status_message"`
	Tasks         []apiTask `json:"tasks"`
}

type apiTask struct {
	StatusCode    int             `json:"status_code"`
	StatusMessage string          `json:"status_message"`
	Result        json.RawMessage `json:"result"`
}

// post sends a task array to an endpoint and returns the parsed envelope,
// retrying transient failures.
func (c *Client) post(ctx context.Context, op, endpoint string, payload interface{}) (*apiResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fetchErr(op, endpoint, fmt.Errorf("encode payload: %w", err))
	}

	var envelope *apiResponse
	execErr := c.retry.Execute(ctx, func() error {
		resp, err := c.do(fasthttp.MethodPost, endpoint, body)
		if err != nil {
			return err
		}
		envelope = resp
		return nil
	})
	if execErr != nil {
		return nil, fetchErr(op, endpoint, execErr)
	}
	return envelope, nil
}

// get fetches an endpoint without a payload
func (c *Client) get(ctx context.Context, op, endpoint string) (*apiResponse, error) {
	var envelope *apiResponse
	execErr := c.retry.Execute(ctx, func() error {
		resp, err := c.do(fasthttp.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		envelope = resp
		return nil
	})
	if execErr != nil {
		return nil, fetchErr(op, endpoint, execErr)
	}
	return envelope, nil
}

func (c *Client) do(method, endpoint string, body []byte) (*apiResponse, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.config.BaseURL + endpoint)
	req.Header.SetMethod(method)
	req.Header.Set("Authorization", c.creds.authHeader())
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	if err := c.http.DoTimeout(req, resp, c.config.Timeout); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode(), truncate(resp.Body(), 200))
	}

	var envelope apiResponse
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if envelope.StatusCode != 0 && envelope.StatusCode/100 != 200 {
		return nil, fmt.Errorf("api status %d: %s", envelope.StatusCode, envelope.StatusMessage)
	}
	return &envelope, nil
}

// Balance returns the account balance in dollars, used as a cheap
// credentials probe before a run.
func (c *Client) Balance(ctx context.Context) (float64, error) {
	const endpoint = "/appendix/user_data"

	envelope, err := c.get(ctx, "balance", endpoint)
	if err != nil {
		return 0, err
	}

	var results []struct {
		Money struct {
			Balance float64 `json:"balance"`
		} `json:"money"`
	}
	if len(envelope.Tasks) == 0 {
		return 0, fetchErr("balance", endpoint, fmt.Errorf("empty task list"))
	}
	if err := json.Unmarshal(envelope.Tasks[0].Result, &results); err != nil {
		return 0, fetchErr("balance", endpoint, fmt.Errorf("decode result: %w", err))
	}
	if len(results) == 0 {
		return 0, fetchErr("balance", endpoint, fmt.Errorf("empty result"))
	}
	return results[0].Money.Balance, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
