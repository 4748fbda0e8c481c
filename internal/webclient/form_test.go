package webclient

import (
	"context"
	"errors"
	"io"
	"net/url"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
)

func quietLogger() *log.Logger {
	l := log.New(io.Discard)
	l.SetLevel(log.FatalLevel)
	return l
}

func TestImportForm(t *testing.T) {
	ctx := context.Background()

	t.Run("Empty Path", func(t *testing.T) {
		req := newFakeRequester()
		view := NewForm(url.Values{"path": {""}})
		event := &Submission{}

		outcome := NewImportForm(req, view, quietLogger()).Submit(ctx, event)

		if outcome.Kind != Invalid {
			t.Errorf("expected invalid outcome, got %s", outcome.Kind)
		}
		if !event.Prevented() {
			t.Error("expected default action to be prevented")
		}
		if len(req.postCalls()) != 0 {
			t.Errorf("expected no request, got %d", len(req.postCalls()))
		}
		if !view.ErrorsVisible() {
			t.Error("expected validation regions to be visible")
		}
		if got := view.Error(ErrorRegionTop); got != "Please provide a valid path to continue." {
			t.Errorf("unexpected error message %q", got)
		}
		if view.Focused() != PathField {
			t.Errorf("expected focus on path, got %q", view.Focused())
		}
		if len(view.Alerts()) != 0 {
			t.Errorf("expected no alerts, got %v", view.Alerts())
		}
	})

	t.Run("Missing Path Field Counts As Empty", func(t *testing.T) {
		req := newFakeRequester()
		view := NewForm(nil)

		if outcome := NewImportForm(req, view, quietLogger()).Submit(ctx, &Submission{}); outcome.Kind != Invalid {
			t.Errorf("expected invalid outcome, got %s", outcome.Kind)
		}
	})

	t.Run("Whitespace Path Is Sent", func(t *testing.T) {
		req := newFakeRequester()
		req.respond(ImportEndpoint, 200, "null")
		view := NewForm(url.Values{"path": {"   "}})

		if outcome := NewImportForm(req, view, quietLogger()).Submit(ctx, &Submission{}); outcome.Kind != Accepted {
			t.Errorf("expected accepted outcome, got %s", outcome.Kind)
		}
		if len(req.postCalls()) != 1 {
			t.Errorf("expected 1 request, got %d", len(req.postCalls()))
		}
	})

	t.Run("Posts Every Field", func(t *testing.T) {
		req := newFakeRequester()
		req.respond(ImportEndpoint, 200, "null")
		values := url.Values{"path": {"/music/can"}, "label": {"krautrock"}, "tags": {"a", "b"}}
		view := NewForm(values)

		NewImportForm(req, view, quietLogger()).Submit(ctx, &Submission{})

		calls := req.postCalls()
		if len(calls) != 1 {
			t.Fatalf("expected 1 request, got %d", len(calls))
		}
		if calls[0].Path != "/api/importmedia/directory" {
			t.Errorf("unexpected endpoint %s", calls[0].Path)
		}
		if diff := cmp.Diff(values, calls[0].Values); diff != "" {
			t.Errorf("posted values mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Responses", func(t *testing.T) {
		tests := []struct {
			name   string
			status int
			body   string
			kind   OutcomeKind
			alerts []string
		}{
			{name: "Success", status: 200, body: "null", kind: Accepted, alerts: []string{"great success!"}},
			{name: "Other 2xx", status: 204, body: "", kind: Accepted, alerts: []string{"great success!"}},
			{name: "Not Found", status: 404, body: "X not found", kind: Rejected, alerts: []string{"X not found"}},
			{name: "Server Error", status: 500, body: "boom", kind: Rejected, alerts: nil},
			{name: "Bad Request", status: 400, body: "bad", kind: Rejected, alerts: nil},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req := newFakeRequester()
				req.respond(ImportEndpoint, tt.status, tt.body)
				view := NewForm(url.Values{"path": {"/music"}})

				outcome := NewImportForm(req, view, quietLogger()).Submit(ctx, &Submission{})

				if outcome.Kind != tt.kind {
					t.Errorf("expected %s, got %s", tt.kind, outcome.Kind)
				}
				if outcome.StatusCode != tt.status {
					t.Errorf("expected status %d, got %d", tt.status, outcome.StatusCode)
				}
				if diff := cmp.Diff(tt.alerts, view.Alerts()); diff != "" {
					t.Errorf("alerts mismatch (-want +got):\n%s", diff)
				}
				if view.ErrorsVisible() {
					t.Error("expected validation regions to stay hidden")
				}
			})
		}
	})

	t.Run("Transport Failure Is Silent", func(t *testing.T) {
		req := newFakeRequester()
		req.fail(ImportEndpoint, errors.New("connection refused"))
		view := NewForm(url.Values{"path": {"/music"}})

		outcome := NewImportForm(req, view, quietLogger()).Submit(ctx, &Submission{})

		if outcome.Kind != Failed || outcome.Err == nil {
			t.Errorf("expected failed outcome with error, got %+v", outcome)
		}
		if len(view.Alerts()) != 0 {
			t.Errorf("expected no alerts, got %v", view.Alerts())
		}
	})

	t.Run("Clears Previous Errors", func(t *testing.T) {
		req := newFakeRequester()
		req.respond(ImportEndpoint, 200, "null")
		view := NewForm(url.Values{"path": {"/music"}}, "validate-error-path")
		view.ShowError(ErrorRegionTop, "stale")
		view.ShowError("validate-error-path", "stale")

		NewImportForm(req, view, quietLogger()).Submit(ctx, &Submission{})

		if view.ErrorsVisible() {
			t.Error("expected validation regions to be hidden")
		}
		if view.Error(ErrorRegionTop) != "" || view.Error("validate-error-path") != "" {
			t.Error("expected every validation region to be cleared")
		}
	})

	t.Run("No Re-entrancy Guard", func(t *testing.T) {
		req := newFakeRequester()
		req.respond(ImportEndpoint, 200, "null")
		view := NewForm(url.Values{"path": {"/music"}})
		form := NewImportForm(req, view, quietLogger())

		form.Submit(ctx, &Submission{})
		form.Submit(ctx, &Submission{})

		if len(req.postCalls()) != 2 {
			t.Errorf("expected 2 requests, got %d", len(req.postCalls()))
		}
	})
}

func TestOutcomeKind(t *testing.T) {
	for kind, want := range map[OutcomeKind]string{Invalid: "invalid", Accepted: "accepted", Rejected: "rejected", Failed: "failed", 42: "unknown"} {
		if kind.String() != want {
			t.Errorf("expected %s, got %s", want, kind.String())
		}
	}
}
