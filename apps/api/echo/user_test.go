package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/darasahub/darasa/core/user"
)

func Test_userApi_login(t *testing.T) {
	env := newTestEnv(t)

	env.createStudent(t, "awe", false)
	env.createUser(t, "Out Cast", "outcast", "outcast@test.cd", "LolC@t123", []string{user.RoleStudent}, false)

	tests := []httpTest{
		{name: "empty body", body: []byte(`{}`), wantCode: http.StatusBadRequest},
		{name: "unknown user", body: []byte(`{"username": "lol", "password": "lol"}`), wantCode: http.StatusBadRequest},
		{name: "wrong password", body: []byte(`{"username": "awe", "password": "lol"}`), wantCode: http.StatusBadRequest},
		{name: "deactivated account", body: []byte(`{"username": "outcast", "password": "LolC@t123"}`), wantCode: http.StatusForbidden},
		{name: "login with username", body: []byte(`{"username": "awe", "password": "LolC@t123"}`), wantCode: http.StatusOK},
		{name: "login with email", body: []byte(`{"username": "awe@test.cd", "password": "LolC@t123"}`), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			env.server.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode == http.StatusOK {
				var resp LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshalling LoginResponse failed: %v", err)
				}
				if resp.Token == "" {
					t.Error("token is empty")
				}
			}
		})
	}
}

func Test_userApi_me(t *testing.T) {
	env := newTestEnv(t)
	usr := env.createStudent(t, "awe", false)

	t.Run("no token", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/users/me")
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("code = %v; wantCode %v", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("ok", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, usr)}
		req, rec := newAuthRequest(http.MethodGet, "/v1/users/me", getToken(t, usr))
		env.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_userApi_refreshToken(t *testing.T) {
	env := newTestEnv(t)
	usr := env.createStudent(t, "awe", false)

	req, rec := newAuthRequest(http.MethodPost, "/v1/users/token-refresh", getToken(t, usr))
	env.server.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshalling LoginResponse failed: %v", err)
	}
	if resp.Token == "" {
		t.Error("token is empty")
	}
}

func Test_userApi_create(t *testing.T) {
	env := newTestEnv(t)
	student := env.createStudent(t, "awe", false)
	admin := env.createAdmin(t, "root")

	body := []byte(`{
		"name": "New Student",
		"username": "student1",
		"email": "student1@test.cd",
		"password": "LolC@t123",
		"password_confirm": "LolC@t123",
		"roles": ["student:"]
	}`)

	tests := []httpTest{
		{name: "no token", body: body, wantCode: http.StatusUnauthorized},
		{name: "student cannot register users", body: body, token: getToken(t, student), wantCode: http.StatusForbidden},
		{name: "admin registers a student", body: body, token: getToken(t, admin), wantCode: http.StatusCreated},
		{name: "duplicate email", body: body, token: getToken(t, admin), wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", tt.token, tt.body)
			env.server.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}

	t.Run("omitted username falls back to the email", func(t *testing.T) {
		body := []byte(`{
			"name": "New Student",
			"email": "student2@test.cd",
			"password": "LolC@t123",
			"password_confirm": "LolC@t123",
			"roles": ["student:"]
		}`)
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", getToken(t, admin), body)
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var usr user.User
		if err := json.Unmarshal(rec.Body.Bytes(), &usr); err != nil {
			t.Fatalf("unmarshalling User failed: %v", err)
		}
		if usr.Username != "student2@test.cd" {
			t.Errorf("username = %q; want %q", usr.Username, "student2@test.cd")
		}
	})
}

func Test_userApi_query(t *testing.T) {
	env := newTestEnv(t)
	student := env.createStudent(t, "awe", false)
	admin := env.createAdmin(t, "root")

	tests := []httpTest{
		{name: "no token", wantCode: http.StatusUnauthorized},
		{name: "student forbidden", token: getToken(t, student), wantCode: http.StatusForbidden},
		{name: "admin lists all", token: getToken(t, admin), wantCode: http.StatusOK, wantData: marchallList(t, student, admin)},
		{name: "admin filters by search", path: "?search=awe", token: getToken(t, admin), wantCode: http.StatusOK, wantData: marchallList(t, student)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/users"+tt.path, tt.token)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_detail(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createStudent(t, "awe", false)
	other := env.createStudent(t, "nosy", false)
	admin := env.createAdmin(t, "root")

	tests := []httpTest{
		{name: "no token", path: owner.ID, wantCode: http.StatusUnauthorized},
		{name: "owner retrieves self", path: owner.ID, token: getToken(t, owner), wantCode: http.StatusOK, wantData: marchallObj(t, owner)},
		{name: "other student cannot see owner", path: owner.ID, token: getToken(t, other), wantCode: http.StatusNotFound},
		{name: "admin retrieves anyone", path: owner.ID, token: getToken(t, admin), wantCode: http.StatusOK, wantData: marchallObj(t, owner)},
		{name: "admin: unknown id", path: "d90287e2-fe07-4a7e-9ba8-c22eb500a601", token: getToken(t, admin), wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/users/"+tt.path, tt.token)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_destroy(t *testing.T) {
	env := newTestEnv(t)
	victim := env.createStudent(t, "victim", false)
	admin := env.createAdmin(t, "root")

	t.Run("admin cannot delete themselves", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/users/"+admin.ID, getToken(t, admin))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("code = %v; wantCode %v", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("admin deletes a user", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/users/"+victim.ID, getToken(t, admin))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, http.StatusNoContent, rec.Body.String())
		}

		req, rec = newAuthRequest(http.MethodGet, "/v1/users/"+victim.ID, getToken(t, admin))
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("deleted user still retrievable; code = %v", rec.Code)
		}
	})
}

func Test_userApi_queryRoles(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createAdmin(t, "root")

	tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, user.Roles)}
	req, rec := newAuthRequest(http.MethodGet, "/v1/users/roles", getToken(t, admin))
	env.server.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
}
