package tracking

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type recordingSender struct {
	mu      sync.Mutex
	batches [][]any
	fail    bool
	closed  bool
}

func (s *recordingSender) Send(events []any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, append([]any(nil), events...))
	if s.fail {
		return errors.New("broker down")
	}
	return nil
}

func (s *recordingSender) Close() error {
	s.closed = true
	return nil
}

func (s *recordingSender) events() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	ret := make([]any, 0)
	for _, b := range s.batches {
		ret = append(ret, b...)
	}
	return ret
}

func TestQueueTrackingFlushesOnClose(t *testing.T) {
	sender := &recordingSender{}
	trk := NewQueueTracking(sender, "se", time.Hour)
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	trk.now = func() time.Time { return fixed }

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Real-Ip", "10.0.0.1")
	trk.TrackSession("abc", r)
	trk.TrackFacet("abc", ActionAdd, "color", "red", 2)

	if err := trk.Close(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !sender.closed {
		t.Errorf("Expected sender to be closed")
	}
	events := sender.events()
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	session, ok := events[0].(Session)
	if !ok || session.Ip != "10.0.0.1" || session.Country != "se" {
		t.Errorf("Expected session event with ip and country, got %+v", events[0])
	}
	facet, ok := events[1].(FacetEvent)
	if !ok {
		t.Fatalf("Expected facet event, got %T", events[1])
	}
	if facet.Action != ActionAdd || facet.Category != "color" || facet.Value != "red" || facet.Results != 2 {
		t.Errorf("Unexpected facet event %+v", facet)
	}
	if !facet.Time.Equal(fixed) || facet.SessionId != "abc" {
		t.Errorf("Expected base fields to be set, got %+v", facet.BaseEvent)
	}
}

func TestQueueTrackingSendErrorIsLogged(t *testing.T) {
	sender := &recordingSender{fail: true}
	trk := NewQueueTracking(sender, "", time.Hour)
	trk.TrackFacet("abc", ActionClear, "", "", 10)
	if err := trk.Close(); err != nil {
		t.Errorf("Expected send errors to not surface on close, got %v", err)
	}
	if len(sender.events()) != 1 {
		t.Errorf("Expected one attempted event")
	}
}

func TestNopTracking(t *testing.T) {
	var trk Tracking = NopTracking{}
	trk.TrackFacet("abc", ActionToggle, "color", "red", 1)
	if err := trk.Close(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}
