package performance_test

import (
	"bufio"
	"context"
	"errors"
	"math"
	"net"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/noah-isme/saraban-go-api/internal/dto"
	"github.com/noah-isme/saraban-go-api/internal/handler"
	"github.com/noah-isme/saraban-go-api/internal/middleware"
)

func TestNotificationWebsocketP95Under250ms(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.CorrelationID())

	notifications := handler.NewNotificationHandler(&stubNotificationService{}, zerolog.Nop(), 30*time.Second)

	group := app.Group("/api/v1/notifications", func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalUserID, uint(42))
		c.Locals(middleware.LocalUserRole, "EXECUTIVE")
		return c.Next()
	})
	notifications.Register(group)

	baseURL, shutdown := startFiberServer(t, app)
	defer shutdown()

	url := "ws" + strings.TrimPrefix(baseURL, "http") + "/api/v1/notifications/ws"
	clients := 500
	durations := make([]time.Duration, 0, clients)

	dialer := websocket.Dialer{HandshakeTimeout: 3 * time.Second}

	for i := 0; i < clients; i++ {
		start := time.Now()
		conn, resp, err := dialer.Dial(url, http.Header{"X-Correlation-ID": {"perf-" + strconv.Itoa(i)}})
		if err != nil {
			t.Fatalf("websocket dial failed: %v", err)
		}
		if resp != nil {
			_ = resp.Body.Close()
		}

		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var frame dto.NotificationResponse
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatalf("failed to read notification frame for client %d: %v", i, err)
		}
		if frame.UserID != 42 {
			t.Fatalf("expected frame for user 42, got %d", frame.UserID)
		}
		_ = conn.Close()

		durations = append(durations, time.Since(start))
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	p95 := percentile(durations, 0.95)

	if p95 > 250*time.Millisecond {
		t.Fatalf("expected websocket P95 <= 250ms, got %s", p95)
	}
}

func TestRealtimeNotificationsSSEP95Under300ms(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.CorrelationID())

	notifications := handler.NewNotificationHandler(&stubNotificationService{}, zerolog.Nop(), 30*time.Second)

	notificationsGroup := app.Group("/api/v1/notifications", func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalUserID, uint(7))
		return c.Next()
	})
	notifications.Register(notificationsGroup)

	baseURL, shutdown := startFiberServer(t, app)
	defer shutdown()

	client := &http.Client{Timeout: 5 * time.Second}
	clients := 200
	durations := make([]time.Duration, 0, clients)

	for i := 0; i < clients; i++ {
		req, err := http.NewRequest(http.MethodGet, baseURL+"/api/v1/notifications/stream", nil)
		if err != nil {
			t.Fatalf("build request failed: %v", err)
		}

		start := time.Now()
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("sse request failed: %v", err)
		}

		reader := bufio.NewReader(resp.Body)
		deadline := time.Now().Add(2 * time.Second)

		for {
			if time.Now().After(deadline) {
				t.Fatalf("sse response timed out for client %d", i)
			}
			line, err := reader.ReadString('\n')
			if err != nil {
				t.Fatalf("failed to read sse line: %v", err)
			}
			if strings.HasPrefix(line, "data:") {
				durations = append(durations, time.Since(start))
				break
			}
		}

		resp.Body.Close()
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	p95 := percentile(durations, 0.95)

	if p95 > 300*time.Millisecond {
		t.Fatalf("expected SSE P95 <= 300ms, got %s", p95)
	}
}

func percentile(values []time.Duration, pct float64) time.Duration {
	if len(values) == 0 {
		return 0
	}
	index := int(math.Ceil(pct*float64(len(values)))) - 1
	if index < 0 {
		index = 0
	}
	if index >= len(values) {
		index = len(values) - 1
	}
	return values[index]
}

func startFiberServer(t *testing.T, app *fiber.App) (string, func()) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to create listener: %v", err)
	}

	done := make(chan struct{})
	go func() {
		if err := app.Listener(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Logf("fiber listener stopped: %v", err)
		}
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)

	shutdown := func() {
		_ = app.Shutdown()
		_ = listener.Close()
		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
		}
	}

	return "http://" + listener.Addr().String(), shutdown
}

type stubNotificationService struct{}

func (s *stubNotificationService) Notify(context.Context, uint, string, string, *uint) {}

func (s *stubNotificationService) Publish(ctx context.Context, payload dto.NotificationCreateRequest) (dto.NotificationResponse, error) {
	return dto.NotificationResponse{ID: 1, UserID: payload.UserID, Type: payload.Type, Message: payload.Message}, nil
}

func (s *stubNotificationService) List(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) (dto.NotificationListResponse, error) {
	return dto.NotificationListResponse{
		Items:  []dto.NotificationResponse{{ID: 1, UserID: userID, Type: dto.NotificationTypeDocumentReceived, Message: "hello", CreatedAt: time.Now()}},
		Unread: 1,
	}, nil
}

func (s *stubNotificationService) MarkRead(ctx context.Context, id, userID uint) (dto.NotificationResponse, error) {
	return dto.NotificationResponse{ID: id, UserID: userID, Type: dto.NotificationTypeDocumentReceived, Message: "hello", Read: true, CreatedAt: time.Now()}, nil
}

func (s *stubNotificationService) Subscribe(userID uint) (<-chan dto.NotificationResponse, func()) {
	ch := make(chan dto.NotificationResponse, 1)
	documentID := uint(3)
	ch <- dto.NotificationResponse{ID: 99, UserID: userID, Type: dto.NotificationTypeDocumentReceived, Message: "new document A/001", DocumentID: &documentID, CreatedAt: time.Now()}
	cleanup := func() { close(ch) }
	return ch, cleanup
}

func (s *stubNotificationService) Start(context.Context) {}
