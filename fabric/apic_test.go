package fabric

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loginOK = `{"imdata":[{"aaaLogin":{"attributes":{"token":"abc123"}}}]}`

// newTestAPIC points a client at an httptest server.
func newTestAPIC(t *testing.T, handler http.Handler) (*APIC, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	apic := NewAPIC("apic-test", "admin", "secret", 5*time.Second, zerolog.Nop())
	apic.baseURL = server.URL
	return apic, server
}

func TestLogin(t *testing.T) {
	apic, _ := newTestAPIC(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/aaaLogin.json", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		_, _ = w.Write([]byte(loginOK))
	}))

	require.NoError(t, apic.Login(context.Background()))
	assert.True(t, apic.Authenticated())
}

func TestLoginRejected(t *testing.T) {
	apic, _ := newTestAPIC(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"imdata":[{"error":{"attributes":{"text":"bad credentials"}}}]}`))
	}))

	err := apic.Login(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad credentials")
	assert.False(t, apic.Authenticated())
}

func TestLoginNoToken(t *testing.T) {
	apic, _ := newTestAPIC(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"imdata":[]}`))
	}))

	err := apic.Login(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no token")
}

func TestGetRequiresLogin(t *testing.T) {
	apic := NewAPIC("apic-test", "admin", "secret", time.Second, zerolog.Nop())

	_, err := apic.Get(context.Background(), "/api/class/fabricNode.json", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not authenticated")
}

func TestGetClassData(t *testing.T) {
	apic, _ := newTestAPIC(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/aaaLogin.json":
			_, _ = w.Write([]byte(loginOK))
		case "/api/class/fabricNode.json":
			assert.Equal(t, `eq(fabricNode.role,"leaf")`, r.URL.Query().Get("query-target-filter"))
			_, _ = w.Write([]byte(`{"totalCount":"2","imdata":[
				{"fabricNode":{"attributes":{"name":"leaf1","role":"leaf"}}},
				{"fabricNode":{"attributes":{"name":"leaf2","role":"leaf"}}}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	require.NoError(t, apic.Login(context.Background()))

	records, err := apic.Get(context.Background(), "/api/class/fabricNode.json",
		map[string]string{"query-target-filter": `eq(fabricNode.role,"leaf")`})
	require.NoError(t, err)

	require.Equal(t, int64(2), records.Get("#").Int())
	assert.Equal(t, "leaf1", records.Get("0.fabricNode.attributes.name").Str)
}

func TestGetServerError(t *testing.T) {
	apic, _ := newTestAPIC(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/aaaLogin.json" {
			_, _ = w.Write([]byte(loginOK))
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))

	require.NoError(t, apic.Login(context.Background()))

	_, err := apic.Get(context.Background(), "/api/class/faultInst.json", nil)
	assert.Error(t, err)
}
