package handler_test

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pustaka-activity-api/internal/dto"
	"github.com/noah-isme/pustaka-activity-api/internal/handler"
	"github.com/noah-isme/pustaka-activity-api/internal/service"
)

func startNotificationServer(t *testing.T) (string, service.NotificationService) {
	t.Helper()

	logger := zerolog.New(io.Discard)
	notifications := service.NewNotificationService(nil, "", nil, validator.New(), logger)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	handler.NewNotificationHandler(notifications, logger, 200*time.Millisecond).Register(app.Group("/api/admin/notifications"))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.ShutdownWithTimeout(2 * time.Second) })

	return ln.Addr().String(), notifications
}

func TestNotificationHandler_WebSocketStream(t *testing.T) {
	addr, notifications := startNotificationServer(t)

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/api/admin/notifications/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	// The subscription is registered after the upgrade completes, so keep
	// notifying until the first message arrives.
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_, _ = notifications.Notify(context.Background(), dto.NotificationTypeExport, service.CSVExportMessage)
			}
		}
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var received dto.NotificationResponse
	require.NoError(t, conn.ReadJSON(&received))
	require.NotEmpty(t, received.ID)
	require.Equal(t, dto.NotificationTypeExport, received.Type)
	require.Equal(t, service.CSVExportMessage, received.Message)
}

func TestNotificationHandler_WebSocketRequiresUpgrade(t *testing.T) {
	addr, _ := startNotificationServer(t)

	resp, err := http.Get("http://" + addr + "/api/admin/notifications/ws")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestNotificationHandler_SSEStream(t *testing.T) {
	addr, notifications := startNotificationServer(t)

	resp, err := http.Get("http://" + addr + "/api/admin/notifications/stream")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get(fiber.HeaderContentType))

	reader := bufio.NewReader(resp.Body)

	// The stream opens with a keep-alive comment once the subscription is live.
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(line, ": keep-alive"))

	sent, err := notifications.Notify(context.Background(), dto.NotificationTypeRefresh, service.RefreshMessage)
	require.NoError(t, err)

	var data string
	for data == "" {
		line, err = reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: ") {
			data = strings.TrimSpace(strings.TrimPrefix(line, "data: "))
		}
	}

	var received dto.NotificationResponse
	require.NoError(t, json.Unmarshal([]byte(data), &received))
	require.Equal(t, sent.ID, received.ID)
	require.Equal(t, dto.NotificationTypeRefresh, received.Type)
}
