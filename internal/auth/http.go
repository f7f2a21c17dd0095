package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// HTTPHandler exposes account management over REST. Game traffic never
// touches these routes; the gateway only consumes ResolveSession.
type HTTPHandler struct {
	accounts Service
}

func NewHTTPHandler(accounts Service) *HTTPHandler {
	return &HTTPHandler{accounts: accounts}
}

func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth/register", h.credentialRoute(Service.Register))
	mux.HandleFunc("/api/auth/login", h.credentialRoute(Service.Login))
	mux.HandleFunc("/api/auth/logout", h.handleLogout)
	mux.HandleFunc("/api/auth/me", h.handleMe)
}

// credentialRoute covers register and login: both take a
// username/password body and answer with the account id and a fresh
// session token.
func (h *HTTPHandler) credentialRoute(op func(Service, string, string) (uint64, string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			reply(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}

		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&body); err != nil {
			reply(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		accountID, token, err := op(h.accounts, body.Username, body.Password)
		if err != nil {
			status, msg := authFailure(err)
			reply(w, status, map[string]string{"error": msg})
			return
		}
		reply(w, http.StatusOK, map[string]any{
			"account_id": accountID,
			"token":      token,
		})
	}
}

func (h *HTTPHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		reply(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	token := headerToken(r)
	if token == "" {
		reply(w, http.StatusUnauthorized, map[string]string{"error": "missing session token"})
		return
	}
	h.accounts.Logout(token)
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		reply(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	token := headerToken(r)
	if token == "" {
		reply(w, http.StatusUnauthorized, map[string]string{"error": "missing session token"})
		return
	}
	accountID, username, ok := h.accounts.ResolveSession(token)
	if !ok {
		reply(w, http.StatusUnauthorized, map[string]string{"error": "invalid session token"})
		return
	}
	reply(w, http.StatusOK, map[string]any{
		"account_id": accountID,
		"username":   username,
	})
}

// authFailure maps a manager error to a status and a client-safe
// message. Internal failures are never echoed.
func authFailure(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidUsername), errors.Is(err, ErrInvalidPassword):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ErrUsernameTaken):
		return http.StatusConflict, err.Error()
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid username or password"
	default:
		return http.StatusInternalServerError, "authentication failed"
	}
}

// headerToken pulls the session token out of "Authorization: Bearer".
func headerToken(r *http.Request) string {
	raw := r.Header.Get("Authorization")
	if !strings.HasPrefix(raw, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))
}

func reply(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
