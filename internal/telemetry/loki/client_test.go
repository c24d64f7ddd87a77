package loki

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func newLoki(t *testing.T, status int) (*httptest.Server, *PushRequest) {
	t.Helper()
	got := &PushRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/loki/api/v1/push" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestPushEventJSON_LabelsAndTimestamp(t *testing.T) {
	srv, got := newLoki(t, http.StatusNoContent)
	c := NewClient(srv.URL+"/", nil)

	raw := []byte(`{"event_type":"order.confirmed","payment":"tarjeta","pass_type":"VIP","created_at":"2025-06-11T09:00:00Z"}`)
	if err := c.PushEventJSON(context.Background(), raw); err != nil {
		t.Fatalf("PushEventJSON: %v", err)
	}
	if len(got.Streams) != 1 {
		t.Fatalf("streams = %d, want 1", len(got.Streams))
	}
	s := got.Streams[0]
	want := map[string]string{"job": Job, "event_type": "order.confirmed", "payment": "tarjeta", "pass_type": "VIP"}
	for k, v := range want {
		if s.Stream[k] != v {
			t.Errorf("label %s = %q, want %q", k, s.Stream[k], v)
		}
	}
	ts := time.Date(2025, time.June, 11, 9, 0, 0, 0, time.UTC).UnixNano()
	if s.Values[0][0] != strconv.FormatInt(ts, 10) {
		t.Errorf("timestamp = %q", s.Values[0][0])
	}
	if s.Values[0][1] != string(raw) {
		t.Errorf("line = %q", s.Values[0][1])
	}
}

func TestPushEventJSON_UnparsableLine(t *testing.T) {
	srv, got := newLoki(t, http.StatusNoContent)
	c := NewClient(srv.URL, nil)

	if err := c.PushEventJSON(context.Background(), []byte("not json")); err != nil {
		t.Fatalf("PushEventJSON: %v", err)
	}
	s := got.Streams[0]
	if len(s.Stream) != 1 || s.Stream["job"] != Job {
		t.Errorf("labels = %v, want only job", s.Stream)
	}
}

func TestPushEvent_Non2xx(t *testing.T) {
	srv, _ := newLoki(t, http.StatusBadRequest)
	c := NewClient(srv.URL, nil)
	if err := c.PushEvent(context.Background(), time.Now(), "x", nil); err == nil {
		t.Error("PushEvent err = nil, want error on 400")
	}
}

func TestPushEvent_EmptyURL(t *testing.T) {
	if err := NewClient("", nil).PushEvent(context.Background(), time.Now(), "x", nil); err == nil {
		t.Error("PushEvent err = nil, want error for empty base URL")
	}
}
