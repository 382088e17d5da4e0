package tracking

import (
	"net/http"
	"time"
)

type Action string

const (
	ActionAdd    Action = "add"
	ActionRemove Action = "remove"
	ActionToggle Action = "toggle"
	ActionClear  Action = "clear"
)

type Tracking interface {
	TrackSession(sessionId string, r *http.Request)
	TrackFacet(sessionId string, action Action, category, value string, results int)
	Close() error
}

type BaseEvent struct {
	SessionId string    `json:"session_id"`
	Country   string    `json:"country,omitempty"`
	Event     uint16    `json:"event"`
	Time      time.Time `json:"time"`
}

type Session struct {
	*BaseEvent
	UserAgent string `json:"user_agent,omitempty"`
	Ip        string `json:"ip,omitempty"`
	Language  string `json:"language,omitempty"`
}

type FacetEvent struct {
	*BaseEvent
	Action   Action `json:"action"`
	Category string `json:"category,omitempty"`
	Value    string `json:"value,omitempty"`
	Results  int    `json:"results"`
}

const (
	sessionEvent uint16 = 0
	facetEvent   uint16 = 7
)

func clientIp(r *http.Request) string {
	if ip := r.Header.Get("X-Real-Ip"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// NopTracking drops every event.
type NopTracking struct{}

func (NopTracking) TrackSession(string, *http.Request) {}
func (NopTracking) TrackFacet(string, Action, string, string, int) {}
func (NopTracking) Close() error { return nil }
