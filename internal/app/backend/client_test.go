package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"eptweb/internal/app/learning"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second)
}

func TestIssueToken(t *testing.T) {
	t.Run("posts form and returns access token", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != PathAuthToken {
				t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
			}
			if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
				t.Errorf("Content-Type = %q", ct)
			}
			if r.Header.Get(HeaderRequestID) == "" {
				t.Error("missing X-Request-ID")
			}
			if err := r.ParseForm(); err != nil || r.PostForm.Get("username") != "ana" || r.PostForm.Get("password") != "s3cret" {
				t.Errorf("form = %v (err %v)", r.PostForm, err)
			}
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"access_token":"tok-123","token_type":"bearer"}`)
		})

		token, err := c.IssueToken(context.Background(), "ana", "s3cret")
		if err != nil || token != "tok-123" {
			t.Fatalf("IssueToken() = %q, %v", token, err)
		}
	})

	t.Run("rejection keeps status and raw body", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"detail":"Incorrect username or password"}`)
		})

		_, err := c.IssueToken(context.Background(), "ana", "bad")
		var se *StatusError
		if !errors.As(err, &se) || se.Status != http.StatusUnauthorized {
			t.Fatalf("err = %v, want 401 StatusError", err)
		}
		if se.Message != `{"detail":"Incorrect username or password"}` {
			t.Errorf("Message = %q", se.Message)
		}
	})

	t.Run("success without token", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"token_type":"bearer"}`)
		})

		if _, err := c.IssueToken(context.Background(), "ana", "x"); !errors.Is(err, ErrNoToken) {
			t.Fatalf("err = %v, want ErrNoToken", err)
		}
	})

	t.Run("transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		c := NewClient(srv.URL, time.Second)

		_, err := c.IssueToken(context.Background(), "ana", "x")
		var se *StatusError
		if err == nil || errors.As(err, &se) {
			t.Fatalf("err = %v, want transport error", err)
		}
	})
}

func TestRevokeTokenSendsBearer(t *testing.T) {
	var gotAuth, gotMethod string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotAuth = r.Method, r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.RevokeToken(context.Background(), "tok-1"); err != nil {
		t.Fatalf("RevokeToken() error = %v", err)
	}
	if gotMethod != http.MethodDelete || gotAuth != "Bearer tok-1" {
		t.Errorf("got %s with %q", gotMethod, gotAuth)
	}
}

func TestTypedCallsExtractDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"detail":"Could not validate credentials"}`)
	})

	_, err := c.CurrentUser(context.Background(), "expired")
	if !IsUnauthorized(err) {
		t.Fatalf("IsUnauthorized(%v) = false", err)
	}
	var se *StatusError
	errors.As(err, &se)
	if se.Message != "Could not validate credentials" {
		t.Errorf("Message = %q", se.Message)
	}
}

func TestDetailMessage(t *testing.T) {
	tests := []struct {
		name string
		resp Response
		want string
	}{
		{"string detail", Response{ContentType: "application/json", Body: []byte(`{"detail":"nope"}`)}, "nope"},
		{"list detail", Response{ContentType: "application/json; charset=utf-8", Body: []byte(`{"detail":[{"msg":"x"}]}`)}, `[{"msg":"x"}]`},
		{"plain text", Response{ContentType: "text/plain", Body: []byte(" boom \n")}, "boom"},
		{"json without detail", Response{ContentType: "application/json", Body: []byte(`{"error":"x"}`)}, `{"error":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detailMessage(&tt.resp); got != tt.want {
				t.Errorf("detailMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCatalogAndUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case PathRolePlay:
			io.WriteString(w, `[{"_id":"r1","code":"JR","name":"Junior","level":[{"step":1,"min_xp":0,"max_xp":100,"plays":[{"code":"p1","challenge":"Say hi","xp":10}]}]}]`)
		case PathUserMe:
			io.WriteString(w, `{"username":"ana","xp":5}`)
		default:
			http.NotFound(w, r)
		}
	})

	roles, err := c.RolePlays(context.Background(), "tok")
	if err != nil || len(roles) != 1 || roles[0].Levels[0].Plays[0].Challenge != "Say hi" {
		t.Fatalf("RolePlays() = %+v, %v", roles, err)
	}

	user, err := c.CurrentUser(context.Background(), "tok")
	if err != nil || user.Username != "ana" || user.XP == nil || *user.XP != 5 {
		t.Fatalf("CurrentUser() = %+v, %v", user, err)
	}
}

func TestSubmitAnswerAndRegister(t *testing.T) {
	var answer learning.Answer
	var reg learning.Registration
	var registerAuth string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PathRolePlay:
			json.NewDecoder(r.Body).Decode(&answer)
		case PathUserRegister:
			registerAuth = r.Header.Get("Authorization")
			json.NewDecoder(r.Body).Decode(&reg)
			w.WriteHeader(http.StatusCreated)
		}
	})

	err := c.SubmitAnswer(context.Background(), "tok", learning.Answer{RoleID: "r1", LevelNum: 2, PlayCode: "p1", Answer: "hello"})
	if err != nil || answer.LevelNum != 2 || answer.Answer != "hello" {
		t.Fatalf("SubmitAnswer() sent %+v, err %v", answer, err)
	}

	err = c.Register(context.Background(), learning.Registration{Username: "ana", Level: learning.DefaultStudentLevel, Profile: learning.ProfileStudent})
	if err != nil || reg.Username != "ana" || reg.Level != "JR#1" {
		t.Fatalf("Register() sent %+v, err %v", reg, err)
	}
	if registerAuth != "" {
		t.Errorf("Register sent Authorization %q", registerAuth)
	}

	reg = learning.Registration{}
	err = c.Register(context.Background(), learning.Registration{Username: "bob", Level: "JR#7", Profile: learning.ProfileStudent})
	if !errors.Is(err, ErrInvalidRegistration) {
		t.Errorf("Register() with unknown level err = %v, want ErrInvalidRegistration", err)
	}
	if reg.Username != "" {
		t.Errorf("invalid registration reached the backend: %+v", reg)
	}
}

func TestRelay(t *testing.T) {
	var gotBody, gotType, gotID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody, gotType, gotID = string(b), r.Header.Get("Content-Type"), r.Header.Get(HeaderRequestID)
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusTeapot)
		io.WriteString(w, "short and stout")
	})

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	resp, err := c.Relay(ctx, http.MethodPost, PathRolePlay, "tok", "", []byte(`{"a":1}`))
	if err != nil {
		t.Fatalf("Relay() error = %v", err)
	}
	if resp.Status != http.StatusTeapot || resp.ContentType != "text/plain" || string(resp.Body) != "short and stout" {
		t.Errorf("Relay() = %+v", resp)
	}
	if gotBody != `{"a":1}` || gotType != "application/json" {
		t.Errorf("backend received %q as %q", gotBody, gotType)
	}
	if gotID != "req-42" {
		t.Errorf("X-Request-ID = %q, want inbound id", gotID)
	}
	if resp.OK() || !strings.Contains((&StatusError{Status: 418}).Error(), "418") {
		t.Error("status helpers misreport")
	}
}

func TestSpanNamesUseAPIPath(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	c.baseURL += "/tenant-42"

	if err := c.SubmitAnswer(context.Background(), "tok", learning.Answer{RoleID: "66a1f", PlayCode: "intro"}); err != nil {
		t.Fatalf("SubmitAnswer() error = %v", err)
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d, want 1", len(spans))
	}
	if got, want := spans[0].Name(), "backend POST "+PathRolePlay; got != want {
		t.Errorf("span name = %q, want %q", got, want)
	}
}
