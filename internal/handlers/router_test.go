package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/carbon-chat/carbon/internal/middleware"
	"github.com/carbon-chat/carbon/internal/store/sqlstore"
)

// newTestServer wires the same route layout as main, minus rate limiting and
// logging, against an in-memory store.
func newTestServer(t *testing.T) (*mux.Router, *sqlstore.SQLStore) {
	t.Helper()

	s, err := sqlstore.New("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	authHandler := &AuthHandler{Store: s, SessionTTL: time.Hour, BcryptCost: bcrypt.MinCost}
	chatHandler := &ChatHandler{Store: s}

	r := mux.NewRouter()
	r.HandleFunc("/healthcheck", Health).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth", authHandler.Authenticate).Methods("POST")

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.Auth(s))
	protected.HandleFunc("/updatePassword", authHandler.UpdatePassword).Methods("POST")
	protected.HandleFunc("/createChat", chatHandler.CreateChat).Methods("POST")
	protected.HandleFunc("/createChatMessage", chatHandler.CreateChatMessage).Methods("POST")
	protected.HandleFunc("/getChatMessages", chatHandler.GetChatMessages).Methods("POST")
	protected.HandleFunc("/getInvolvedChats", chatHandler.GetInvolvedChats).Methods("POST")
	protected.HandleFunc("/getChatUsers", chatHandler.GetChatUsers).Methods("POST")

	return r, s
}

// do issues a JSON request against the router, attaching token as a bearer
// credential when non-empty.
func do(t *testing.T, r *mux.Router, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rr.Body).Decode(dst))
}

// registerUser registers a user and returns its id and bearer code.
func registerUser(t *testing.T, r *mux.Router, username string) (userID, code string) {
	t.Helper()

	rr := do(t, r, "POST", "/api/v1/register", "", map[string]string{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, 200, rr.Code)

	var resp struct {
		UserID string `json:"userId"`
		Code   string `json:"code"`
	}
	decodeBody(t, rr, &resp)
	require.NotEmpty(t, resp.UserID)
	require.NotEmpty(t, resp.Code)
	return resp.UserID, resp.Code
}
