package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pustaka-activity-api/internal/dto"
)

func receiveNotification(t *testing.T, ch <-chan dto.NotificationResponse) dto.NotificationResponse {
	t.Helper()
	select {
	case notification, ok := <-ch:
		require.True(t, ok, "notification channel closed")
		return notification
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
	}
	return dto.NotificationResponse{}
}

func TestNotificationServiceBroadcastsToSubscribers(t *testing.T) {
	svc := NewNotificationService(nil, "", nil, validator.New(), testLogger())

	first, cleanupFirst := svc.Subscribe()
	defer cleanupFirst()
	second, cleanupSecond := svc.Subscribe()
	defer cleanupSecond()

	sent, err := svc.Notify(context.Background(), dto.NotificationTypeExport, CSVExportMessage)
	require.NoError(t, err)
	require.NotEmpty(t, sent.ID)
	require.Equal(t, CSVExportMessage, sent.Message)

	require.Equal(t, sent.ID, receiveNotification(t, first).ID)
	require.Equal(t, sent.ID, receiveNotification(t, second).ID)
}

func TestNotificationServiceCleanupClosesChannel(t *testing.T) {
	svc := NewNotificationService(nil, "", nil, validator.New(), testLogger())

	ch, cleanup := svc.Subscribe()
	cleanup()
	cleanup()

	_, ok := <-ch
	require.False(t, ok)

	_, err := svc.Notify(context.Background(), dto.NotificationTypeRefresh, RefreshMessage)
	require.NoError(t, err)
}

func TestNotificationServiceValidatesAndSanitizes(t *testing.T) {
	svc := NewNotificationService(nil, "", nil, validator.New(), testLogger())

	_, err := svc.Notify(context.Background(), "unknown", "hello")
	require.Error(t, err)

	_, err = svc.Notify(context.Background(), dto.NotificationTypeExport, "")
	require.Error(t, err)

	_, err = svc.Notify(context.Background(), dto.NotificationTypeExport, "<script></script>")
	require.Error(t, err)

	sent, err := svc.Notify(context.Background(), dto.NotificationTypeExport, "<b>Laporan</b> siap")
	require.NoError(t, err)
	require.Equal(t, "Laporan siap", sent.Message)
}

func TestNotificationServiceRelaysAcrossNodes(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	publisherClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer publisherClient.Close()
	subscriberClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer subscriberClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	publisher := NewNotificationService(publisherClient, "pustaka:realtime", nil, validator.New(), testLogger())
	subscriber := NewNotificationService(subscriberClient, "pustaka:realtime", nil, validator.New(), testLogger())
	publisher.Start(ctx)
	subscriber.Start(ctx)

	remote, cleanupRemote := subscriber.Subscribe()
	defer cleanupRemote()
	local, cleanupLocal := publisher.Subscribe()
	defer cleanupLocal()

	require.Eventually(t, func() bool {
		return len(server.PubSubChannels("pustaka:realtime:notifications")) == 1 &&
			server.PubSubNumSub("pustaka:realtime:notifications")["pustaka:realtime:notifications"] == 2
	}, 2*time.Second, 10*time.Millisecond)

	sent, err := publisher.Notify(ctx, dto.NotificationTypeRefresh, RefreshMessage)
	require.NoError(t, err)

	relayed := receiveNotification(t, remote)
	require.Equal(t, sent.ID, relayed.ID)
	require.Equal(t, RefreshMessage, relayed.Message)

	require.Equal(t, sent.ID, receiveNotification(t, local).ID)
	select {
	case duplicate := <-local:
		t.Fatalf("publisher received its own relayed notification %s", duplicate.ID)
	case <-time.After(100 * time.Millisecond):
	}
}
