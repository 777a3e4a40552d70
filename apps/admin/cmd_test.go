package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/session"
	"github.com/darasahq/darasa/services/schoolapi"
	memstore "github.com/darasahq/darasa/storage/session/inmem"
)

// fakeBackend knows one admin account and one school worth of users.
func fakeBackend() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostFormValue("username") != "admin@school.test" || r.PostFormValue("password") != "secret1234" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect email or password"})
			return
		}
		_ = json.NewEncoder(w).Encode(session.LoginResult{
			AccessToken:  "T1",
			RefreshToken: "R1",
			Role:         session.RoleAdmin,
			SchoolID:     5,
			UserID:       1,
			FirstName:    "Ada",
			LastName:     "Mwalimu",
			Email:        "admin@school.test",
		})
	})
	mux.HandleFunc("/admin/users/5", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer T1" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
			return
		}
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode([]schoolapi.User{
				{ID: 2, SchoolID: 5, FirstName: "Juma", LastName: "Bakari", Email: "juma@school.test", Role: "teacher", IsActive: true},
			})
		case http.MethodPost:
			var data schoolapi.NewUser
			_ = json.NewDecoder(r.Body).Decode(&data)
			_ = json.NewEncoder(w).Encode(schoolapi.User{
				ID: 3, SchoolID: 5, FirstName: data.FirstName, LastName: data.LastName, Email: data.Email, Role: data.Role, IsActive: true,
			})
		}
	})
	return httptest.NewServer(mux)
}

func newTestCLI(t *testing.T, backendURL string) (*commandLine, *bytes.Buffer) {
	t.Helper()

	conf := &core.Config{}
	conf.API.BaseURL = backendURL
	conf.API.Timeout = 5 * time.Second
	conf.API.RefreshInterval = 50 * time.Minute
	conf.API.RefreshSkew = 5 * time.Minute

	logger := core.NewStdLogger(nil)
	logger.Enable(false)

	opts := &schoolapi.Options{BaseURL: backendURL, Timeout: conf.API.Timeout}
	ctrl := session.NewController(conf, schoolapi.NewAuthService(opts), memstore.New(), logger)

	out := &bytes.Buffer{}
	return &commandLine{ctrl: ctrl, api: schoolapi.NewClient(opts, ctrl), out: out}, out
}

func mockPassword(t *testing.T, pwd string) {
	t.Helper()
	orig := readPasswordFunc
	readPasswordFunc = func(fd int) ([]byte, error) { return []byte(pwd), nil }
	t.Cleanup(func() { readPasswordFunc = orig })
}

func signIn(t *testing.T, cli *commandLine) {
	t.Helper()
	mockPassword(t, "secret1234")
	if err := cli.run([]string{"darasa", "login", "-email", "admin@school.test"}); err != nil {
		t.Fatalf("login failed: %v", err)
	}
}

func TestCLI_help(t *testing.T) {
	backend := fakeBackend()
	defer backend.Close()

	tests := []struct {
		name string
		args []string
	}{
		{"no command", []string{"darasa"}},
		{"unknown command", []string{"darasa", "frobnicate"}},
		{"login without email", []string{"darasa", "login"}},
		{"adduser without email", []string{"darasa", "adduser", "-first", "Juma"}},
		{"adduser with bad role", []string{"darasa", "adduser", "-email", "x@y.test", "-first", "Juma", "-role", "janitor"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, _ := newTestCLI(t, backend.URL)
			mockPassword(t, "irrelevant")
			assert.Equal(t, errHelp, cli.run(tt.args))
		})
	}
}

func TestCLI_login(t *testing.T) {
	backend := fakeBackend()
	defer backend.Close()

	t.Run("success", func(t *testing.T) {
		cli, out := newTestCLI(t, backend.URL)
		signIn(t, cli)
		assert.Contains(t, out.String(), "signed in as Ada Mwalimu <admin@school.test> (admin)")
		assert.True(t, cli.ctrl.Current().Authenticated())
	})

	t.Run("bad credentials", func(t *testing.T) {
		cli, _ := newTestCLI(t, backend.URL)
		mockPassword(t, "wrong")
		err := cli.run([]string{"darasa", "login", "-email", "admin@school.test"})
		assert.Equal(t, session.ErrInvalidCredentials, errors.Cause(err))
		assert.False(t, cli.ctrl.Current().Authenticated())
	})

	t.Run("empty password reprompts via usage", func(t *testing.T) {
		cli, _ := newTestCLI(t, backend.URL)
		mockPassword(t, "")
		err := cli.run([]string{"darasa", "login", "-email", "admin@school.test"})
		assert.Equal(t, errHelp, err)
	})
}

func TestCLI_whoami(t *testing.T) {
	backend := fakeBackend()
	defer backend.Close()

	t.Run("not signed in", func(t *testing.T) {
		cli, _ := newTestCLI(t, backend.URL)
		err := cli.run([]string{"darasa", "whoami"})
		assert.Equal(t, errNotSignedIn, err)
	})

	t.Run("signed in", func(t *testing.T) {
		cli, out := newTestCLI(t, backend.URL)
		signIn(t, cli)
		out.Reset()

		err := cli.run([]string{"darasa", "whoami"})
		assert.NoError(t, err)
		assert.Contains(t, out.String(), "Ada Mwalimu <admin@school.test>")
		assert.Contains(t, out.String(), "role: admin")
		assert.Contains(t, out.String(), "school: 5")
	})
}

func TestCLI_listUsers(t *testing.T) {
	backend := fakeBackend()
	defer backend.Close()

	t.Run("not signed in", func(t *testing.T) {
		cli, _ := newTestCLI(t, backend.URL)
		err := cli.run([]string{"darasa", "listusers"})
		assert.Equal(t, errNotSignedIn, err)
	})

	t.Run("lists the school's users", func(t *testing.T) {
		cli, out := newTestCLI(t, backend.URL)
		signIn(t, cli)
		out.Reset()

		err := cli.run([]string{"darasa", "listusers"})
		assert.NoError(t, err)
		assert.Contains(t, out.String(), "Juma Bakari")
		assert.Contains(t, out.String(), "teacher")
	})
}

func TestCLI_addUser(t *testing.T) {
	backend := fakeBackend()
	defer backend.Close()

	cli, out := newTestCLI(t, backend.URL)
	signIn(t, cli)
	out.Reset()

	mockPassword(t, "newsecret123")
	err := cli.run([]string{
		"darasa", "adduser",
		"-email", "neema@school.test",
		"-first", "Neema",
		"-last", "Joseph",
		"-role", "student",
	})
	assert.NoError(t, err)
	assert.Contains(t, out.String(), "created user 3: Neema Joseph <neema@school.test> (student)")
}

func TestCLI_logout(t *testing.T) {
	backend := fakeBackend()
	defer backend.Close()

	cli, out := newTestCLI(t, backend.URL)
	signIn(t, cli)

	err := cli.run([]string{"darasa", "logout"})
	assert.NoError(t, err)
	assert.Contains(t, out.String(), "signed out")
	assert.False(t, cli.ctrl.Current().Authenticated())

	// a second logout is harmless
	assert.NoError(t, cli.run([]string{"darasa", "logout"}))
}
