package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/transit-query-resolver/gazetteer"
	"github.com/theoremus-urban-solutions/transit-query-resolver/resolver"
)

type stubResolver struct {
	res   *resolver.ResolvedRequest
	err   error
	calls int
}

func (s *stubResolver) Resolve(ctx context.Context, msg resolver.Message) (*resolver.ResolvedRequest, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.res, nil
}

func testHandler(t *testing.T, res Resolver) http.Handler {
	t.Helper()
	stops := []gazetteer.Stop{
		{ID: "TWH", Name: "Tower Hill", Lat: 51.5098, Lon: -0.0766, Mode: gazetteer.ModeTube},
		{ID: "EMB", Name: "Embankment", Lat: 51.5073, Lon: -0.1223, Mode: gazetteer.ModeTube},
	}
	lines := []gazetteer.Line{
		{ID: "D", Name: "District", Mode: gazetteer.ModeTube, Stops: []string{"TWH", "EMB"}},
	}
	idx, err := gazetteer.NewIndex(stops, lines)
	if err != nil {
		t.Fatalf("Failed to build test index: %v", err)
	}
	return New(0, res, idx, zap.NewNop()).http.Handler
}

func postResolve(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/resolve", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	h := testHandler(t, &stubResolver{})
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode health response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %s", resp.Status)
	}
	if resp.Stops != 2 || resp.Lines != 1 {
		t.Errorf("expected 2 stops and 1 line, got %d and %d", resp.Stops, resp.Lines)
	}
}

func TestHandleResolveSuccess(t *testing.T) {
	stub := &stubResolver{res: &resolver.ResolvedRequest{
		Mode: gazetteer.ModeTube, LineID: "D", LineName: "District",
		StopID: "TWH", StopName: "Tower Hill",
	}}
	h := testHandler(t, stub)

	rec := postResolve(t, h, `{"text":"district line from tower hill","mode":"tube"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected an X-Request-ID header")
	}
	var resp resolver.ResolvedRequest
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.LineID != "D" || resp.StopID != "TWH" {
		t.Errorf("expected D/TWH, got %s/%s", resp.LineID, resp.StopID)
	}
}

func TestHandleResolveFailures(t *testing.T) {
	tests := []struct {
		name       string
		failure    *resolver.Failure
		wantStatus int
	}{
		{
			name: "ambiguous line is unprocessable",
			failure: &resolver.Failure{
				Kind:     resolver.AmbiguousLine,
				Mode:     gazetteer.ModeTube,
				StopName: "Victoria",
				Candidates: []resolver.Candidate{
					{ID: "D", Name: "District"},
					{ID: "V", Name: "Victoria"},
				},
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "no match is unprocessable",
			failure:    &resolver.Failure{Kind: resolver.NoMatch, Mode: gazetteer.ModeTube, Slot: resolver.SlotLine, Fragment: "zzzzz"},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "geocoder outage is service unavailable",
			failure:    &resolver.Failure{Kind: resolver.GeocodeUnavailable, Mode: gazetteer.ModeBus},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := testHandler(t, &stubResolver{err: tt.failure})
			rec := postResolve(t, h, `{"text":"whatever","mode":"tube"}`)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			var payload struct {
				Kind       string `json:"kind"`
				Prompt     string `json:"prompt"`
				Candidates []struct {
					ID string `json:"id"`
				} `json:"candidates"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("Failed to decode failure payload: %v", err)
			}
			if payload.Kind != string(tt.failure.Kind) {
				t.Errorf("expected kind %s, got %s", tt.failure.Kind, payload.Kind)
			}
			if payload.Prompt == "" {
				t.Error("expected a non-empty prompt")
			}
			if len(payload.Candidates) != len(tt.failure.Candidates) {
				t.Errorf("expected %d candidates, got %d", len(tt.failure.Candidates), len(payload.Candidates))
			}
		})
	}
}

func TestHandleResolveRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed JSON", body: `{"text":`},
		{name: "unknown mode", body: `{"text":"15 from somewhere","mode":"tram"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubResolver{}
			h := testHandler(t, stub)
			rec := postResolve(t, h, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if stub.calls != 0 {
				t.Errorf("expected the engine untouched, got %d calls", stub.calls)
			}
		})
	}
}

func TestHandleResolveInternalError(t *testing.T) {
	h := testHandler(t, &stubResolver{err: errors.New("boom")})
	rec := postResolve(t, h, `{"text":"15","mode":"bus"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Error != "internal error" {
		t.Errorf("expected a generic internal error, got %q", resp.Error)
	}
}

func TestResolveRequiresPost(t *testing.T) {
	h := testHandler(t, &stubResolver{})
	req := httptest.NewRequest(http.MethodGet, "/api/resolve", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
