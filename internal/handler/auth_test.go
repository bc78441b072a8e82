package handler_test

import (
	"net/http"
	"testing"
)

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"bad email", map[string]any{
			"username": "u1", "name": "U", "email": "not-an-email", "password": "s3cret!", "role": "STUDENT",
		}},
		{"short password", map[string]any{
			"username": "u2", "name": "U", "email": "u2@example.edu", "password": "abc", "role": "STUDENT",
		}},
		{"admin role blocked", map[string]any{
			"username": "u3", "name": "U", "email": "u3@example.edu", "password": "s3cret!", "role": "ADMIN",
		}},
		{"unknown role", map[string]any{
			"username": "u4", "name": "U", "email": "u4@example.edu", "password": "s3cret!", "role": "WIZARD",
		}},
		{"missing username", map[string]any{
			"name": "U", "email": "u5@example.edu", "password": "s3cret!", "role": "STUDENT",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/auth/register", "", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d body %s, want 400", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "STUDENT")

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": "alice2",
		"name":     "Alice Two",
		"email":    "alice@example.edu",
		"password": "s3cret!",
		"role":     "ALUMNI",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRegisterEmailNormalized(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"username": "alice",
		"name":     "Alice",
		"email":    "  Alice@Example.EDU ",
		"password": "s3cret!",
		"role":     "PROFESSOR",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body %s, want 201", rec.Code, rec.Body.String())
	}
	var resp struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	decode(t, rec, &resp)
	if resp.Email != "alice@example.edu" {
		t.Fatalf("email = %q, want lowercased and trimmed", resp.Email)
	}
	if resp.Role != "PROFESSOR" {
		t.Fatalf("role = %q, want PROFESSOR", resp.Role)
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "STUDENT")

	// By username.
	if tok := env.login(t, "alice"); tok == "" {
		t.Fatal("empty token")
	}

	// By email.
	rec := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"identifier": "alice@example.edu",
		"password":   "s3cret!",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login by email status = %d", rec.Code)
	}

	// Wrong password and unknown user are indistinguishable 401s.
	for _, body := range []map[string]any{
		{"identifier": "alice", "password": "wrong!!"},
		{"identifier": "nobody", "password": "s3cret!"},
	} {
		rec := env.do(t, http.MethodPost, "/api/auth/login", "", body)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("login %v status = %d, want 401", body, rec.Code)
		}
	}
}

func TestCreateAdminSecret(t *testing.T) {
	env := newTestEnv(t)
	body := map[string]any{
		"username": "root",
		"name":     "Root",
		"email":    "root@example.edu",
		"password": "s3cret!",
	}

	// Missing and wrong secrets are rejected before any validation runs.
	rec := env.do(t, http.MethodPost, "/api/auth/create-admin", "", body)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("no secret status = %d, want 403", rec.Code)
	}

	recOK := env.doWithHeader(t, http.MethodPost, "/api/auth/create-admin", body, "X-ADMIN-SECRET", testAdminSecret)
	if recOK.Code != http.StatusCreated {
		t.Fatalf("with secret status = %d body %s, want 201", recOK.Code, recOK.Body.String())
	}
	var resp struct {
		Role string `json:"role"`
	}
	decode(t, recOK, &resp)
	if resp.Role != "ADMIN" {
		t.Fatalf("role = %q, want ADMIN", resp.Role)
	}

	recBad := env.doWithHeader(t, http.MethodPost, "/api/auth/create-admin", body, "X-ADMIN-SECRET", "wrong")
	if recBad.Code != http.StatusForbidden {
		t.Fatalf("wrong secret status = %d, want 403", recBad.Code)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/chats", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token status = %d, want 401", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/api/chats", "garbage.token.here", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token status = %d, want 401", rec.Code)
	}
}
