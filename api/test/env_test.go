package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/irsalhamdi/pos-kasir/api"
	"github.com/irsalhamdi/pos-kasir/core/receipt"
	"github.com/irsalhamdi/pos-kasir/rate"
	"github.com/irsalhamdi/pos-kasir/store"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

type TestEnv struct {
	*httptest.Server
	Store  *store.Store
	client *http.Client
}

func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	log, _ := logtest.NewNullLogger()

	st := store.New(store.NewMemory())
	lim := rate.NewLimiter(3, time.Hour, time.Hour)
	t.Cleanup(lim.Close)

	mux := api.APIMux(api.APIConfig{
		Log:          log,
		Store:        st,
		Session:      scs.New(),
		LoginLimiter: lim,
		Location:     time.UTC,
		Receipt:      receipt.Options{StoreName: "Toko Anda", Width: 32},
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}

	return &TestEnv{
		Server: srv,
		Store:  st,
		client: &http.Client{Jar: jar},
	}
}

// Do sends body as JSON and decodes a JSON response into out when given.
func (e *TestEnv) Do(t *testing.T, method, path string, body any, out any) *http.Response {
	t.Helper()

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		rd = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(data)
	}

	r, err := http.NewRequest(method, e.URL+path, rd)
	if err != nil {
		t.Fatal(err)
	}

	w, err := e.client.Do(r)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Body.Close()

	raw, err := io.ReadAll(w.Body)
	if err != nil {
		t.Fatal(err)
	}
	w.Body = io.NopCloser(bytes.NewReader(raw))

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("decoding %s %s response %q: %v", method, path, raw, err)
		}
	}
	return w
}

func (e *TestEnv) Expect(t *testing.T, method, path string, body any, status int, out any) *http.Response {
	t.Helper()

	w := e.Do(t, method, path, body, out)
	if w.StatusCode != status {
		raw, _ := io.ReadAll(w.Body)
		t.Fatalf("%s %s: expected status %d, got %s: %s", method, path, status, w.Status, raw)
	}
	return w
}

func (e *TestEnv) Login(t *testing.T) {
	t.Helper()

	creds := map[string]string{"username": "admin", "password": "admin123"}
	e.Expect(t, http.MethodPost, "/auth/login", creds, http.StatusNoContent, nil)
}

func path(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
