package sse

import (
	"bufio"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"educater_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// startStream connects to the SSE endpoint and returns a channel of raw
// lines read from the stream.
func startStream(t *testing.T, url string) (<-chan string, func()) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}

	lines := make(chan string, 64)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	return lines, func() { resp.Body.Close() }
}

// waitForLine reads lines until one contains the wanted substring.
func waitForLine(t *testing.T, lines <-chan string, want string) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				t.Fatalf("stream closed before %q was seen", want)
			}
			if strings.Contains(line, want) {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func newStreamServer(svc *Service, repID string) *httptest.Server {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/stream", svc.Handler(func(*gin.Context) (string, bool) {
		return repID, true
	}))
	return httptest.NewServer(engine)
}

func TestPublishReachesConnectedClient(t *testing.T) {
	svc := New(logger.New("test"))
	defer svc.Close()

	srv := newStreamServer(svc, "thandi")
	defer srv.Close()

	lines, closeStream := startStream(t, srv.URL+"/stream")
	defer closeStream()
	waitForLine(t, lines, "connected")

	svc.Publish("thandi", Event{Type: EventMessagePosted, Message: "Keagan Smith: hello"})
	waitForLine(t, lines, string(EventMessagePosted))
}

func TestPublishToOtherRepIsNotDelivered(t *testing.T) {
	svc := New(logger.New("test"))
	defer svc.Close()

	srv := newStreamServer(svc, "thandi")
	defer srv.Close()

	lines, closeStream := startStream(t, srv.URL+"/stream")
	defer closeStream()
	waitForLine(t, lines, "connected")

	svc.Publish("someone-else", Event{Type: EventMessagePosted, Message: "not for thandi"})
	svc.Publish("thandi", Event{Type: EventIncentiveCreated, Message: "New incentive: Q3 Bonus"})

	// The incentive event arriving proves ordering; the foreign message must
	// not precede it.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				t.Fatal("stream closed early")
			}
			if strings.Contains(line, "not for thandi") {
				t.Fatal("received an event addressed to another rep")
			}
			if strings.Contains(line, string(EventIncentiveCreated)) {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for incentive event")
		}
	}
}

func TestBroadcastReachesAllClients(t *testing.T) {
	svc := New(logger.New("test"))
	defer svc.Close()

	srvA := newStreamServer(svc, "thandi")
	defer srvA.Close()
	srvB := newStreamServer(svc, "sipho")
	defer srvB.Close()

	linesA, closeA := startStream(t, srvA.URL+"/stream")
	defer closeA()
	linesB, closeB := startStream(t, srvB.URL+"/stream")
	defer closeB()
	waitForLine(t, linesA, "connected")
	waitForLine(t, linesB, "connected")

	svc.Broadcast(Event{Type: EventStageChanged, Message: "Oakdale Primary moved to Finalizing"})

	waitForLine(t, linesA, string(EventStageChanged))
	waitForLine(t, linesB, string(EventStageChanged))
}

func TestDisconnectDuringPublishDoesNotPanic(t *testing.T) {
	s := New(logger.New("test"))
	defer s.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		cl := &client{
			repID:  "rep-1",
			events: make(chan Event, 1),
			done:   make(chan struct{}),
		}
		s.addClient(cl)

		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				s.Publish("rep-1", Event{Type: EventStageChanged})
			}
		}()
		go func(c *client) {
			defer wg.Done()
			s.removeClient(c)
		}(cl)
	}
	wg.Wait()

	// Removal must be idempotent and publishing to a rep with no
	// connections left must be a no-op.
	s.Publish("rep-1", Event{Type: EventStageChanged})
}

func TestRemoveClientTwiceIsSafe(t *testing.T) {
	s := New(logger.New("test"))
	defer s.Close()

	cl := &client{
		repID:  "rep-1",
		events: make(chan Event, 1),
		done:   make(chan struct{}),
	}
	s.addClient(cl)
	s.removeClient(cl)
	s.removeClient(cl)

	select {
	case <-cl.done:
	default:
		t.Fatal("done channel should be closed after removal")
	}
}
