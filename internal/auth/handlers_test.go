package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newAuthApp(t *testing.T) (*fiber.App, *Service) {
	t.Helper()
	svc := newTestService(t)
	app := fiber.New()
	RegisterRoutes(app.Group("/auth"), svc)
	return app, svc
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s: %v", path, err)
	}
	return resp
}

func TestAuthHandlersPairRefreshVerify(t *testing.T) {
	app, _ := newAuthApp(t)

	resp := postJSON(t, app, "/auth/pair", PairRequest{DeviceID: "phone-1", PairingCode: "123456"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("pair status: %d", resp.StatusCode)
	}
	var tokens TokenResponse
	_ = json.NewDecoder(resp.Body).Decode(&tokens)

	resp = postJSON(t, app, "/auth/refresh", RefreshRequest{RefreshToken: tokens.RefreshToken})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh status: %d", resp.StatusCode)
	}
	var refreshed TokenResponse
	_ = json.NewDecoder(resp.Body).Decode(&refreshed)

	req := httptest.NewRequest(http.MethodGet, "/auth/jwt/verify", nil)
	req.Header.Set("Authorization", "Bearer "+refreshed.AccessToken)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("verify status: %v", err)
	}
	var body map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body["device_id"] != "phone-1" {
		t.Fatalf("unexpected verify body: %v", body)
	}
}

func TestAuthPairWrongCode(t *testing.T) {
	app, _ := newAuthApp(t)
	resp := postJSON(t, app, "/auth/pair", PairRequest{DeviceID: "phone-1", PairingCode: "999999"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized, got %d", resp.StatusCode)
	}
}

func TestAuthPairBadRequest(t *testing.T) {
	app, _ := newAuthApp(t)
	resp := postJSON(t, app, "/auth/pair", PairRequest{DeviceID: "phone-1"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request, got %d", resp.StatusCode)
	}
}

func TestAuthRefreshBadRequest(t *testing.T) {
	app, _ := newAuthApp(t)
	resp := postJSON(t, app, "/auth/refresh", RefreshRequest{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request, got %d", resp.StatusCode)
	}
}

func TestAuthRefreshInvalidToken(t *testing.T) {
	app, _ := newAuthApp(t)
	resp := postJSON(t, app, "/auth/refresh", RefreshRequest{RefreshToken: "bad"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized, got %d", resp.StatusCode)
	}
}

func TestAuthVerifyMissingBearer(t *testing.T) {
	app, _ := newAuthApp(t)
	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/auth/jwt/verify", nil))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized")
	}
}

func TestParseBearer(t *testing.T) {
	if parseBearer("Bearer abc") != "abc" {
		t.Fatalf("expected token")
	}
	if parseBearer("bearer abc") != "abc" {
		t.Fatalf("expected case-insensitive scheme")
	}
	if parseBearer("Basic abc") != "" || parseBearer("") != "" {
		t.Fatalf("expected empty token")
	}
}
