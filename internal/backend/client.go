// Package backend talks to the external analysis service that extracts
// clauses, scores risk and synthesizes audio explanations.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"clauselens/internal/config"
	"clauselens/internal/model"
)

const (
	uploadPath  = "/upload-document/"
	explainPath = "/explain-document/"

	maxResponseBytes = 32 << 20
)

// ErrExplanationFailed is returned when the backend answers but reports that
// no explanation could be generated.
var ErrExplanationFailed = errors.New("explanation failed")

// ErrResponseTooLarge is returned when a successful answer exceeds the body cap.
var ErrResponseTooLarge = errors.New("backend response too large")

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend %s returned %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("backend %s returned %d: %s", e.Endpoint, e.StatusCode, e.Detail)
}

// ExplainRequest asks for an audio explanation of a previously uploaded file.
type ExplainRequest struct {
	FileURI         string `json:"file_uri"`
	VoicePreference string `json:"voice_preference,omitempty"`
}

// Client is the subset of the backend API this service consumes.
type Client interface {
	// Analyze uploads a document and returns the raw analysis payload.
	Analyze(ctx context.Context, fileName string, content []byte) ([]byte, error)
	// Explain requests a generated audio explanation for fileURI.
	Explain(ctx context.Context, req ExplainRequest) (*model.Explanation, error)
}

type httpClient struct {
	baseURL string
	hc      *http.Client
	maxBody int64
}

// New creates a Client with an instrumented transport and the configured timeout.
func New(cfg config.BackendConfig) Client {
	return NewWithHTTPClient(cfg.URL, &http.Client{
		Timeout:   cfg.Timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
}

// NewWithHTTPClient creates a Client using hc as is.
func NewWithHTTPClient(baseURL string, hc *http.Client) Client {
	return &httpClient{baseURL: strings.TrimRight(baseURL, "/"), hc: hc, maxBody: maxResponseBytes}
}

func (c *httpClient) Analyze(ctx context.Context, fileName string, content []byte) ([]byte, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	h.Set("Content-Type", "application/pdf")
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("create form part: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("write form part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uploadPath, &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	return c.do(req, uploadPath)
}

func (c *httpClient) Explain(ctx context.Context, in ExplainRequest) (*model.Explanation, error) {
	if strings.TrimSpace(in.FileURI) == "" {
		return nil, fmt.Errorf("%w: file_uri is required", ErrExplanationFailed)
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+explainPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	raw, err := c.do(req, explainPath)
	if err != nil {
		return nil, err
	}

	var res struct {
		Success  *bool                 `json:"success"`
		Message  string                `json:"message"`
		AudioURL string                `json:"audio_url"`
		Details  model.DocumentDetails `json:"document_details"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("parse explanation: %w", err)
	}
	if (res.Success != nil && !*res.Success) || res.AudioURL == "" {
		msg := res.Message
		if msg == "" {
			msg = "no audio returned"
		}
		return nil, fmt.Errorf("%w: %s", ErrExplanationFailed, msg)
	}
	return &model.Explanation{AudioURL: res.AudioURL, Message: res.Message, Details: res.Details}, nil
}

func (c *httpClient) do(req *http.Request, endpoint string) ([]byte, error) {
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Detail: detail(body)}
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%w: %s exceeds %s", ErrResponseTooLarge, endpoint, humanize.IBytes(uint64(c.maxBody)))
	}
	return body, nil
}

// detail extracts the error text from a FastAPI-style {"detail": ...} body.
func detail(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	d := gjson.GetBytes(body, "detail")
	if d.Type == gjson.String {
		return d.String()
	}
	if d.Exists() {
		return d.Raw
	}
	return ""
}
