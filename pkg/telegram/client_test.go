package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI отвечает как Bot API и запоминает, в какие чаты ушли сообщения
type fakeAPI struct {
	mu    sync.Mutex
	sent  []string
	fails map[string]bool
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Worktime","username":"worktime_bot"}}`))
	case strings.HasSuffix(r.URL.Path, "/getUpdates"):
		w.Write([]byte(`{"ok":true,"result":[]}`))
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		chatID := r.FormValue("chat_id")
		f.mu.Lock()
		f.sent = append(f.sent, chatID)
		f.mu.Unlock()

		if f.fails[chatID] {
			w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
			return
		}
		resp, _ := json.Marshal(map[string]any{
			"ok":     true,
			"result": map[string]any{"message_id": 1, "date": 0, "chat": map[string]any{"id": 1}},
		})
		w.Write(resp)
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, api *fakeAPI) *Client {
	t.Helper()

	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	logger, _ := test.NewNullLogger()
	client, err := NewClient(Options{Token: "token", Endpoint: server.URL + "/bot%s/%s"}, logger)
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	client := newTestClient(t, &fakeAPI{})

	assert.Equal(t, "worktime_bot", client.Bot.Self.UserName)
	assert.Equal(t, defaultPollTimeout, client.UpdateConfig.Timeout)
	assert.False(t, client.Bot.Debug)
}

func TestClient_Notify(t *testing.T) {
	api := &fakeAPI{fails: map[string]bool{"300": true}}
	client := newTestClient(t, api)

	err := client.Notify("🤖 Бот запущен", 100, 0, 300, 100, 200)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat 300")

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, []string{"100", "300", "200"}, api.sent)
}

func TestClient_UpdatesStopWithContext(t *testing.T) {
	client := newTestClient(t, &fakeAPI{})

	ctx, cancel := context.WithCancel(context.Background())
	updates := client.Updates(ctx)
	cancel()

	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-updates:
			return !ok
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}
