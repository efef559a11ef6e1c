// Package kioskapi es el adaptador HTTP hacia el backend REST de la plataforma.
// Normaliza las respuestas (listas planas o envueltas, números envueltos) en
// la frontera, de modo que la capa de aplicación solo ve entidades.
package kioskapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jhoicas/millet-kiosk/internal/application/ports"
	"github.com/jhoicas/millet-kiosk/internal/domain"
)

// Verificar en tiempo de compilación que Client implementa los puertos.
var (
	_ ports.Backend = (*Client)(nil)
	_ ports.Gateway = (*Client)(nil)
)

const maxBodyBytes = 4 << 20

// Config opciones del cliente.
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64 // 0 = sin límite
	Logger        zerolog.Logger
}

// Client adaptador REST. Es inmutable: WithToken devuelve una copia atada a
// una sesión que comparte el http.Client y el limitador.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        zerolog.Logger
	token      string
}

// New construye el cliente.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, max(1, int(cfg.RatePerSecond))),
		log:        cfg.Logger,
	}
}

// WithToken devuelve un cliente que envía Authorization: Bearer token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// ForSession implementa ports.Gateway.
func (c *Client) ForSession(token string) ports.Backend {
	return c.WithToken(token)
}

// do ejecuta la petición y devuelve el cuerpo de una respuesta 2xx.
//   - sin respuesta          → domain.ErrUnavailable envuelto
//   - no-2xx                 → *APIError con el mensaje del backend
//   - contexto cancelado     → ctx.Err() envuelto
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("kioskapi: limitador: %w", err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("kioskapi: serializar request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("kioskapi: crear request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("kioskapi: cancelado: %w", ctx.Err())
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: leer respuesta: %v", domain.ErrUnavailable, err)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("elapsed", time.Since(start)).
		Msg("backend")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: errorMessage(raw)}
	}
	return raw, nil
}
