package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/jhoicas/Supermercado-api/internal/application/dto"
	"github.com/jhoicas/Supermercado-api/internal/application/session"
	"github.com/jhoicas/Supermercado-api/internal/domain/entity"
)

// Verificar en tiempo de compilación que Client implementa AuthAPI.
var _ session.AuthAPI = (*Client)(nil)

const maxBody = 1 << 20

// APIError respuesta no 2xx de la API. Message viene del campo "message" del cuerpo.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: HTTP %d", e.Status)
	}
	return fmt.Sprintf("api: HTTP %d: %s", e.Status, e.Message)
}

// PublicMessage mensaje apto para mostrar al usuario.
func (e *APIError) PublicMessage() string { return e.Message }

// Client adaptador HTTP de la API de autenticación y permisos.
// Usa net/http de la librería estándar.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New construye el cliente. baseURL incluye el prefijo /api y no termina en "/".
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// Login POST /auth/login.
func (c *Client) Login(ctx context.Context, username, password string) (*session.LoginResult, error) {
	var out dto.LoginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", "", dto.LoginRequest{Username: username, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &session.LoginResult{
		Token: out.AccessToken,
		User: entity.User{
			UserID:    out.User.UserID,
			Username:  out.User.Username,
			Role:      out.User.Role,
			StoreID:   out.User.StoreID,
			CreatedAt: out.User.CreatedAt,
		},
	}, nil
}

// Register POST /auth/register.
func (c *Client) Register(ctx context.Context, in session.RegisterInput) error {
	req := dto.RegisterRequest{
		Username: in.Username,
		Password: in.Password,
		Role:     string(in.Role),
		StoreID:  in.StoreID,
	}
	return c.do(ctx, http.MethodPost, "/auth/register", "", req, nil)
}

// UserPermissions GET /permissions/user/{id}. Sin campo permissions devuelve lista vacía.
func (c *Client) UserPermissions(ctx context.Context, token string, userID int64) ([]entity.PermissionRecord, error) {
	var out dto.UserPermissionsResponse
	path := "/permissions/user/" + strconv.FormatInt(userID, 10)
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}
	if out.Permissions == nil {
		return []entity.PermissionRecord{}, nil
	}
	return out.Permissions, nil
}

// ── HTTP ──────────────────────────────────────────────────────────────────────

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: serializar request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api: crear HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("api: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("api: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("api: leer respuesta: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var er dto.ErrorResponse
		if json.Unmarshal(raw, &er) == nil {
			apiErr.Code = er.Code
			apiErr.Message = er.Message
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("api: parsear respuesta: %w", err)
	}
	return nil
}
