// Package sesion is the client side of the API: it logs in, keeps the
// resulting identity in memory and on disk, and wraps the record endpoints.
//
// Role checks here only decide what to offer the user. The server enforces
// every permission again.
package sesion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"evidencias/internal/dto"
	"evidencias/internal/model"
)

var (
	ErrNoAutenticado  = errors.New("no hay una sesión activa")
	ErrRolNoPermitido = errors.New("el rol de la sesión no permite esta operación")
)

// ErrorAPI is a non-2xx answer. Message is the server's own text.
type ErrorAPI struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func (e *ErrorAPI) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("status %d", e.StatusCode)
	}
	return e.Message
}

type Cliente struct {
	baseURL string
	http    *http.Client
	store   *FileStore

	mu     sync.RWMutex
	actual *Sesion
}

// Nuevo restores any session saved in store.
func Nuevo(baseURL string, store *FileStore) (*Cliente, error) {
	c := &Cliente{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		store:   store,
	}
	ses, err := store.Load()
	if err != nil {
		return nil, err
	}
	c.actual = ses
	return c, nil
}

// Login authenticates and stores the identity in memory and on disk.
// A session already held is sent along so the server can hand it back.
func (c *Cliente) Login(ctx context.Context, username, password string) (*Sesion, error) {
	var resp dto.LoginResponse
	body := dto.LoginRequest{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return nil, err
	}

	ses := &Sesion{
		ID:       resp.User.ID,
		Username: resp.User.Username,
		Rol:      model.Rol(resp.User.Rol),
		Token:    resp.Token,
	}
	if err := c.store.Save(ses); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.actual = ses
	c.mu.Unlock()
	return ses, nil
}

// Logout forgets the session locally. The server call is only an
// acknowledgement, so its failure is ignored.
func (c *Cliente) Logout(ctx context.Context) error {
	_ = c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)

	c.mu.Lock()
	c.actual = nil
	c.mu.Unlock()
	return c.store.Clear()
}

func (c *Cliente) Actual() (Sesion, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.actual == nil {
		return Sesion{}, false
	}
	return *c.actual, true
}

func (c *Cliente) Autenticado() bool {
	_, ok := c.Actual()
	return ok
}

// RequiereRol reports whether the current session may reach a feature
// restricted to roles.
func (c *Cliente) RequiereRol(roles ...model.Rol) error {
	ses, ok := c.Actual()
	if !ok {
		return ErrNoAutenticado
	}
	for _, r := range roles {
		if ses.Rol == r {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrRolNoPermitido, ses.Rol)
}

func (c *Cliente) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ses, ok := c.Actual(); ok {
		req.Header.Set("Authorization", "Bearer "+ses.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode/100 != 2 {
		apiErr := &ErrorAPI{}
		_ = json.Unmarshal(raw, apiErr)
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}
