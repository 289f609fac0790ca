// Package client is a small SDK for the WTRACKER HTTP API, used by the
// wtrackerctl CLI and by integration tests. Tokens live in memory only;
// nothing is ever written to disk.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Fraancoboss/WTRACKER/internal/dto"
)

// ErrSesionExpirada is returned when the API answers 401 on an
// authenticated call. Callers should log in again.
var ErrSesionExpirada = errors.New("sesión expirada")

type Client struct {
	baseURL     string
	httpClient  *http.Client
	accessToken string
	cache       pedidoCache
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Pedidos returns the locally cached list, reconciled after each
// list/create/update/delete call.
func (c *Client) Pedidos() []dto.PedidoResponse { return c.cache.all() }

// envelope mirrors the API response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// Login authenticates and keeps the access token for later calls.
func (c *Client) Login(ctx context.Context, nombre, password string) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", dto.LoginRequest{Nombre: nombre, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	c.accessToken = out.AccessToken
	return &out, nil
}

// SetToken injects an externally obtained access token.
func (c *Client) SetToken(token string) { c.accessToken = token }

func (c *Client) ListarPedidos(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error) {
	q := url.Values{}
	if filter.Centro != "" {
		q.Set("centro", filter.Centro)
	}
	if filter.Material != "" {
		q.Set("material", filter.Material)
	}
	if filter.Estado != "" {
		q.Set("estado", filter.Estado)
	}
	if filter.FechaDesde != "" {
		q.Set("fechaDesde", filter.FechaDesde)
	}
	if filter.FechaHasta != "" {
		q.Set("fechaHasta", filter.FechaHasta)
	}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	path := "/api/pedidos"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out dto.PedidoListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	c.cache.replace(out.Pedidos)
	return &out, nil
}

func (c *Client) ObtenerPedido(ctx context.Context, id string) (*dto.PedidoResponse, error) {
	var out dto.PedidoResponse
	if err := c.do(ctx, http.MethodGet, "/api/pedidos/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CrearPedido(ctx context.Context, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error) {
	var out dto.PedidoResponse
	if err := c.do(ctx, http.MethodPost, "/api/pedidos", req, &out); err != nil {
		return nil, err
	}
	c.cache.upsert(out)
	return &out, nil
}

func (c *Client) ActualizarPedido(ctx context.Context, id string, req dto.ActualizarPedidoRequest) (*dto.PedidoResponse, error) {
	var out dto.PedidoResponse
	if err := c.do(ctx, http.MethodPut, "/api/pedidos/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	c.cache.upsert(out)
	return &out, nil
}

func (c *Client) EliminarPedido(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/pedidos/"+url.PathEscape(id), nil, nil); err != nil {
		return err
	}
	c.cache.remove(id)
	return nil
}

func (c *Client) Resumen(ctx context.Context) (*dto.ResumenResponse, error) {
	var out dto.ResumenResponse
	if err := c.do(ctx, http.MethodGet, "/api/pedidos/resumen", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do performs the request and unmarshals the data field of the envelope
// into out (when out is non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("client: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && c.accessToken != "" {
		return ErrSesionExpirada
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("client: decode response (%d): %w", resp.StatusCode, err)
	}
	if !env.Success {
		return fmt.Errorf("client: %s %s: %s (%d)", method, path, env.Message, resp.StatusCode)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("client: decode data: %w", err)
		}
	}
	return nil
}
