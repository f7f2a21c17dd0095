package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAuthEndpoints(t *testing.T) {
	mux := http.NewServeMux()
	NewHTTPHandler(NewManager()).RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	post := func(path, body string) (*http.Response, map[string]any) {
		t.Helper()
		resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("POST %s: %v", path, err)
		}
		defer resp.Body.Close()
		var payload map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return resp, payload
	}

	resp, payload := post("/api/auth/register", `{"username":"alice_01","password":"secret12"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register status = %d, body %v", resp.StatusCode, payload)
	}
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatalf("register response without token: %v", payload)
	}

	resp, _ = post("/api/auth/register", `{"username":"alice_01","password":"secret12"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, want 409", resp.StatusCode)
	}

	resp, _ = post("/api/auth/login", `{"username":"alice_01","password":"wrong-password"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d, want 401", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	meResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /me: %v", err)
	}
	defer meResp.Body.Close()
	var me map[string]any
	if err := json.NewDecoder(meResp.Body).Decode(&me); err != nil {
		t.Fatalf("decode /me: %v", err)
	}
	if me["username"] != "alice_01" {
		t.Fatalf("/me = %v", me)
	}

	logout, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/auth/logout", nil)
	logout.Header.Set("Authorization", "Bearer "+token)
	logoutResp, err := http.DefaultClient.Do(logout)
	if err != nil {
		t.Fatalf("POST /logout: %v", err)
	}
	logoutResp.Body.Close()
	if logoutResp.StatusCode != http.StatusNoContent {
		t.Fatalf("logout status = %d, want 204", logoutResp.StatusCode)
	}

	req2, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/auth/me", nil)
	req2.Header.Set("Authorization", "Bearer "+token)
	afterResp, err := http.DefaultClient.Do(req2)
	if err != nil {
		t.Fatalf("GET /me after logout: %v", err)
	}
	afterResp.Body.Close()
	if afterResp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("me after logout status = %d, want 401", afterResp.StatusCode)
	}

	getResp, err := http.Get(srv.URL + "/api/auth/register")
	if err != nil {
		t.Fatalf("GET register: %v", err)
	}
	getResp.Body.Close()
	if getResp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("GET register status = %d, want 405", getResp.StatusCode)
	}
}
