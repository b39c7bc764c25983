package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"harmonic/cmd"
	"harmonic/services"
	"harmonic/types"
	"harmonic/websocket"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// TestHelper provides utilities for testing the Harmonic server
type TestHelper struct {
	Server       *httptest.Server
	LibraryDir   string
	SettingsPath string
	Hub          websocket.Hub
	Router       *gin.Engine
}

// NewTestHelper creates a server over an empty temporary library
func NewTestHelper(t *testing.T) *TestHelper {
	root := t.TempDir()
	libraryDir := filepath.Join(root, "library")
	require.NoError(t, os.MkdirAll(libraryDir, 0755))

	settingsPath := filepath.Join(root, "settings.json")
	t.Setenv("HARMONIC_SETTINGS", settingsPath)
	t.Setenv("HARMONIC_LIBRARY", libraryDir)
	t.Setenv("HARMONIC_WATCH", "")

	// Setup gin in test mode
	gin.SetMode(gin.TestMode)

	hub := websocket.NewHub()
	go hub.Run()

	router := cmd.SetupRouter(cmd.Dependencies{
		Library: services.NewLibraryService(nil),
		Hub:     hub,
	})

	return &TestHelper{
		Server:       httptest.NewServer(router),
		LibraryDir:   libraryDir,
		SettingsPath: settingsPath,
		Hub:          hub,
		Router:       router,
	}
}

// Cleanup cleans up test resources
func (h *TestHelper) Cleanup(t *testing.T) {
	if h.Server != nil {
		h.Server.Close()
	}
}

// MakeRequest makes an HTTP request to the test server
func (h *TestHelper) MakeRequest(t *testing.T, method, path string, body interface{}) *http.Response {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, h.Server.URL+path, reqBody)
	require.NoError(t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	return resp
}

// GetJSON makes a GET request and unmarshals JSON response
func (h *TestHelper) GetJSON(t *testing.T, path string, target interface{}) *http.Response {
	resp := h.MakeRequest(t, "GET", path, nil)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if target != nil {
		require.NoError(t, json.Unmarshal(body, target), "body: %s", body)
	}

	return resp
}

// PostJSON makes a POST request with JSON body and unmarshals JSON response
func (h *TestHelper) PostJSON(t *testing.T, path string, requestBody interface{}, target interface{}) *http.Response {
	resp := h.MakeRequest(t, "POST", path, requestBody)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if target != nil {
		require.NoError(t, json.Unmarshal(body, target), "body: %s", body)
	}

	return resp
}

// ConnectWindow connects a websocket for a window label and waits until the hub knows it
func (h *TestHelper) ConnectWindow(t *testing.T, label string) *gorilla.Conn {
	wsURL := "ws" + strings.TrimPrefix(h.Server.URL, "http") + "/api/ws/windows/" + label

	conn, _, err := gorilla.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return h.Hub.IsConnected(label) }, 2*time.Second, 10*time.Millisecond)
	return conn
}

// ReadEvent reads the next window event from conn
func ReadEvent(t *testing.T, conn *gorilla.Conn) types.WindowEvent {
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event types.WindowEvent
	require.NoError(t, conn.ReadJSON(&event))
	return event
}

// LibraryPath returns the absolute path of a library file
func (h *TestHelper) LibraryPath(name string) string {
	return filepath.Join(h.LibraryDir, name)
}

// CreateTestFile creates a file in the library with the given content
func (h *TestHelper) CreateTestFile(t *testing.T, relativePath string, content []byte) {
	fullPath := h.LibraryPath(relativePath)
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0755))
	require.NoError(t, os.WriteFile(fullPath, content, 0644))
}
