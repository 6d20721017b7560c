package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/IT-Nick/veritasbot/internal/infra/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Client HTTP+JSON клиент бэкенда Veritas
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	tracer  trace.Tracer
}

// NewClient создает новый экземпляр Client
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
		tracer:  otel.Tracer("veritasbot/apiclient"),
	}
}

// Request описание одного вызова. Endpoint используется как метка метрик и имя спана.
type Request struct {
	Endpoint string
	Method   string
	Path     string
	Token    string
	Public   bool
	Body     any
}

// Get выполняет авторизованный GET
func (c *Client) Get(ctx context.Context, endpoint, path, token string, out any) error {
	return c.Do(ctx, Request{Endpoint: endpoint, Method: http.MethodGet, Path: path, Token: token}, out)
}

// Post выполняет авторизованный POST
func (c *Client) Post(ctx context.Context, endpoint, path, token string, body, out any) error {
	return c.Do(ctx, Request{Endpoint: endpoint, Method: http.MethodPost, Path: path, Token: token, Body: body}, out)
}

// Delete выполняет авторизованный DELETE
func (c *Client) Delete(ctx context.Context, endpoint, path, token string, out any) error {
	return c.Do(ctx, Request{Endpoint: endpoint, Method: http.MethodDelete, Path: path, Token: token}, out)
}

// PostPublic выполняет POST без токена (логин, регистрация)
func (c *Client) PostPublic(ctx context.Context, endpoint, path string, body, out any) error {
	return c.Do(ctx, Request{Endpoint: endpoint, Method: http.MethodPost, Path: path, Public: true, Body: body}, out)
}

// Do выполняет запрос и декодирует JSON-ответ в out (если out != nil)
func (c *Client) Do(ctx context.Context, r Request, out any) error {
	data, _, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", r.Endpoint, err)
	}
	return nil
}

// Download выполняет авторизованный GET и возвращает тело как есть вместе с именем файла
// из Content-Disposition (пустым, если сервер его не прислал)
func (c *Client) Download(ctx context.Context, endpoint, path, token string) ([]byte, string, error) {
	data, header, err := c.send(ctx, Request{Endpoint: endpoint, Method: http.MethodGet, Path: path, Token: token})
	if err != nil {
		return nil, "", err
	}
	filename := ""
	if cd := header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			filename = params["filename"]
		}
	}
	return data, filename, nil
}

func (c *Client) send(ctx context.Context, r Request) ([]byte, http.Header, error) {
	if !r.Public && r.Token == "" {
		return nil, nil, ErrNotAuthenticated
	}

	ctx, span := c.tracer.Start(ctx, r.Endpoint, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", r.Method),
		attribute.String("http.path", r.Path),
	)

	var body io.Reader
	if r.Body != nil {
		payload, err := json.Marshal(r.Body)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode %s request: %w", r.Endpoint, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, c.baseURL+r.Path, body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build %s request: %w", r.Endpoint, err)
	}
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.Token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.APIDuration.WithLabelValues(r.Endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APIRequests.WithLabelValues(r.Endpoint, "transport_error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport error")
		c.logger.Warn("api request failed",
			zap.String("endpoint", r.Endpoint),
			zap.String("path", r.Path),
			zap.Error(err),
		)
		return nil, nil, fmt.Errorf("failed to call %s: %w", r.Endpoint, err)
	}
	defer resp.Body.Close()

	metrics.APIRequests.WithLabelValues(r.Endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s response: %w", r.Endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode, Message: errorMessage(data)}
		span.SetStatus(codes.Error, apiErr.Error())
		c.logger.Info("api request rejected",
			zap.String("endpoint", r.Endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return nil, nil, apiErr
	}

	return data, resp.Header, nil
}

// errorMessage достает текст ошибки из {"error": ...} или {"message": ...}
func errorMessage(data []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}
