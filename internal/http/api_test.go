package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financas-api/internal/repository/memory"
	"financas-api/internal/service"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	users := service.NewUserService(memory.NewUserRepository())
	sessions := service.NewSessionService(memory.NewSessionRepository(), users, 7*24*time.Hour)
	entries := service.NewEntryService(memory.NewEntryRepository())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(users, sessions, entries, logger, "session", false, 7*24*time.Hour, "http://localhost:8000")
	handler.RegisterRoutes(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp.StatusCode, decoded
}

func listEntries(t *testing.T, client *http.Client, url string) (int, []map[string]any) {
	t.Helper()

	resp, err := client.Get(url + "/api/contas")
	require.NoError(t, err)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil
	}

	var entries []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	return resp.StatusCode, entries
}

func registerAndLogin(t *testing.T, client *http.Client, url, username, password string) {
	t.Helper()

	status, _ := doJSON(t, client, http.MethodPost, url+"/api/registrar", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, status)

	status, body := doJSON(t, client, http.MethodPost, url+"/api/login", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Login realizado com sucesso!", body["mensagem"])
}

func TestEndToEndFlow(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	registerAndLogin(t, client, srv.URL, "alice", "pw1")

	status, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/contas", gin.H{
		"descricao":       "Aluguel",
		"valor":           1200.0,
		"data_vencimento": "2024-03-01",
		"tipo":            "pagar",
	})
	require.Equal(t, http.StatusCreated, status)
	require.Equal(t, "Conta criada com sucesso!", body["mensagem"])
	id := body["id"]
	require.NotNil(t, id)

	status, entries := listEntries(t, client, srv.URL)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, id, entry["id"])
	assert.Equal(t, "Aluguel", entry["descricao"])
	assert.Equal(t, 1200.0, entry["valor"])
	assert.Equal(t, "2024-03-01", entry["data_vencimento"])
	assert.Equal(t, "pagar", entry["tipo"])
	assert.Equal(t, "pendente", entry["status"])

	createdAt, ok := entry["data_criacao"].(string)
	require.True(t, ok)
	_, err := time.Parse("2006-01-02 15:04:05", createdAt)
	assert.NoError(t, err, "data_criacao must use the documented format")

	idStr := jsonNumberToPath(id)
	status, body = doJSON(t, client, http.MethodDelete, srv.URL+"/api/contas/"+idStr, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Conta deletada com sucesso!", body["mensagem"])

	status, entries = listEntries(t, client, srv.URL)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, entries)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	status, _ := listEntries(t, client, srv.URL)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/contas", gin.H{"descricao": "x"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Usuário não está logado", body["erro"])
}

func TestRegisterDuplicate(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	status, _ := doJSON(t, client, http.MethodPost, srv.URL+"/api/registrar", gin.H{"username": "alice", "password": "pw1"})
	require.Equal(t, http.StatusOK, status)

	status, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/registrar", gin.H{"username": "alice", "password": "other"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Nome de usuário já existe", body["erro"])
}

func TestLoginFailures(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	status, _ := doJSON(t, client, http.MethodPost, srv.URL+"/api/registrar", gin.H{"username": "alice", "password": "pw1"})
	require.Equal(t, http.StatusOK, status)

	status, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/login", gin.H{"username": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Usuário ou senha inválidos", body["erro"])

	status, _ = doJSON(t, client, http.MethodPost, srv.URL+"/api/login", gin.H{"username": "alice"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestLogoutRevokesSession(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	registerAndLogin(t, client, srv.URL, "alice", "pw1")

	status, entries := listEntries(t, client, srv.URL)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, entries)

	status, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/logout", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Logout realizado com sucesso!", body["mensagem"])

	status, _ = listEntries(t, client, srv.URL)
	assert.Equal(t, http.StatusUnauthorized, status)

	// logout again is still a 200
	status, _ = doJSON(t, client, http.MethodPost, srv.URL+"/api/logout", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestOwnershipAtHTTPBoundary(t *testing.T) {
	srv := newTestServer(t)

	alice := newClient(t)
	registerAndLogin(t, alice, srv.URL, "alice", "pw1")

	bob := newClient(t)
	registerAndLogin(t, bob, srv.URL, "bob", "pw2")

	status, body := doJSON(t, alice, http.MethodPost, srv.URL+"/api/contas", gin.H{
		"descricao":       "Aluguel",
		"valor":           1200.0,
		"data_vencimento": "2024-03-01",
		"tipo":            "pagar",
	})
	require.Equal(t, http.StatusCreated, status)
	idStr := jsonNumberToPath(body["id"])

	status, body = doJSON(t, bob, http.MethodPut, srv.URL+"/api/contas/"+idStr, gin.H{"valor": 1.0})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Acesso negado", body["erro"])

	status, _ = doJSON(t, bob, http.MethodDelete, srv.URL+"/api/contas/"+idStr, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// an id that exists for nobody reads as 404
	status, _ = doJSON(t, bob, http.MethodDelete, srv.URL+"/api/contas/9999", nil)
	assert.Equal(t, http.StatusNotFound, status)

	// alice's entry is unchanged
	status, entries := listEntries(t, alice, srv.URL)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, entries, 1)
	assert.Equal(t, 1200.0, entries[0]["valor"])
}

func TestPartialUpdateOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	registerAndLogin(t, client, srv.URL, "alice", "pw1")

	status, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/contas", gin.H{
		"descricao":       "rent",
		"valor":           100.0,
		"data_vencimento": "2024-03-01",
		"tipo":            "pagar",
	})
	require.Equal(t, http.StatusCreated, status)
	idStr := jsonNumberToPath(body["id"])

	status, body = doJSON(t, client, http.MethodPut, srv.URL+"/api/contas/"+idStr, gin.H{"valor": 150.0})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Conta atualizada com sucesso!", body["mensagem"])

	status, entries := listEntries(t, client, srv.URL)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, entries, 1)
	assert.Equal(t, "rent", entries[0]["descricao"])
	assert.Equal(t, 150.0, entries[0]["valor"])
}

func TestMalformedEntryID(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	registerAndLogin(t, client, srv.URL, "alice", "pw1")

	status, body := doJSON(t, client, http.MethodPut, srv.URL+"/api/contas/abc", gin.H{"valor": 1.0})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "id inválido", body["erro"])

	status, _ = doJSON(t, client, http.MethodDelete, srv.URL+"/api/contas/-1", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCreateEntryValidation(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	registerAndLogin(t, client, srv.URL, "alice", "pw1")

	status, body := doJSON(t, client, http.MethodPost, srv.URL+"/api/contas", gin.H{
		"descricao":       "Aluguel",
		"data_vencimento": "2024-03-01",
		"tipo":            "pagar",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["erro"], "valor")

	status, body = doJSON(t, client, http.MethodPost, srv.URL+"/api/contas", gin.H{
		"descricao":       "Aluguel",
		"valor":           10.0,
		"data_vencimento": "2024-13-40",
		"tipo":            "pagar",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["erro"], "data_vencimento")

	// nothing was persisted
	status, entries := listEntries(t, client, srv.URL)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, entries)
}

// jsonNumberToPath renders a decoded JSON id (float64) as a path segment.
func jsonNumberToPath(v any) string {
	f, _ := v.(float64)
	return strconv.FormatInt(int64(f), 10)
}
