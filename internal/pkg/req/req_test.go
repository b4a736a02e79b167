package req

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eptweb/internal/pkg/errs"
)

func multipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func TestBindCredentials(t *testing.T) {
	mpBody, mpType := multipartBody(t, map[string]string{"username": "ana", "password": "s3cret"})

	tests := []struct {
		name        string
		contentType string
		body        string
		want        Credentials
	}{
		{"form", "application/x-www-form-urlencoded", "username=ana&password=s3cret", Credentials{"ana", "s3cret"}},
		{"form with charset", "application/x-www-form-urlencoded; charset=UTF-8", "username=ana&password=s3cret", Credentials{"ana", "s3cret"}},
		{"json", "application/json", `{"username":"ana","password":"s3cret","remember":true}`, Credentials{"ana", "s3cret"}},
		{"multipart", mpType, mpBody.String(), Credentials{"ana", "s3cret"}},
		{"empty json body", "application/json", "", Credentials{}},
		{"unsupported type", "text/plain", "username=ana&password=s3cret", Credentials{}},
		{"no content type", "", "username=ana&password=s3cret", Credentials{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/frontend-api/session", strings.NewReader(tt.body))
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}

			got, customErr := BindCredentials(httptest.NewRecorder(), r)
			if customErr != nil {
				t.Fatalf("BindCredentials() error = %v", customErr)
			}
			if got != tt.want {
				t.Errorf("BindCredentials() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBindCredentialsMalformedJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":`))
	r.Header.Set("Content-Type", "application/json")

	_, customErr := BindCredentials(httptest.NewRecorder(), r)
	if customErr == nil || customErr.Code != errs.ErrInvalidJSONFormat {
		t.Fatalf("error = %v, want ErrInvalidJSONFormat", customErr)
	}
	if customErr.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", customErr.Status)
	}
}

func TestBindCredentialsTooLarge(t *testing.T) {
	body := `{"username":"` + strings.Repeat("a", int(MaxBodySize)+10) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	_, customErr := BindCredentials(httptest.NewRecorder(), r)
	if customErr == nil || customErr.Code != errs.ErrRequestEntityTooLarge {
		t.Fatalf("error = %v, want ErrRequestEntityTooLarge", customErr)
	}
}

func TestCredentialsBlank(t *testing.T) {
	tests := []struct {
		creds Credentials
		want  bool
	}{
		{Credentials{"ana", "x"}, false},
		{Credentials{"", "x"}, true},
		{Credentials{"ana", ""}, true},
		{Credentials{"   ", "x"}, true},
	}
	for _, tt := range tests {
		if got := tt.creds.Blank(); got != tt.want {
			t.Errorf("%+v.Blank() = %v, want %v", tt.creds, got, tt.want)
		}
	}
}

func TestReadBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"answer":"hi"}`))
	body, customErr := ReadBody(httptest.NewRecorder(), r)
	if customErr != nil {
		t.Fatalf("ReadBody() error = %v", customErr)
	}
	if string(body) != `{"answer":"hi"}` {
		t.Errorf("ReadBody() = %q", body)
	}
}

func TestBindCredentialsTrailingJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"ana","password":"pw"} {"username":"eve"}`))
	r.Header.Set("Content-Type", "application/json")

	_, customErr := BindCredentials(httptest.NewRecorder(), r)
	if customErr == nil || customErr.Code != errs.ErrExtraContentInBody {
		t.Fatalf("error = %v, want ErrExtraContentInBody", customErr)
	}
}

func TestBindCredentialsMultipartIgnoresQuery(t *testing.T) {
	body, ct := multipartBody(t, map[string]string{"password": "s3cret"})
	r := httptest.NewRequest(http.MethodPost, "/frontend-api/session?username=eve", body)
	r.Header.Set("Content-Type", ct)

	got, customErr := BindCredentials(httptest.NewRecorder(), r)
	if customErr != nil {
		t.Fatalf("BindCredentials() error = %v", customErr)
	}
	if got.Username != "" || got.Password != "s3cret" {
		t.Errorf("BindCredentials() = %+v, username must come from the body only", got)
	}
}

func TestParseForm(t *testing.T) {
	mpBody, mpType := multipartBody(t, map[string]string{"answer": "hello"})

	tests := []struct {
		name        string
		contentType string
		body        string
		wantCode    int
	}{
		{"urlencoded", "application/x-www-form-urlencoded", "answer=hello", 0},
		{"multipart", mpType, mpBody.String(), 0},
		{"json", "application/json", `{"answer":"hello"}`, errs.ErrUnsupportedMediaType},
		{"no content type", "", "answer=hello", errs.ErrUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/role-play/r1/1/intro", strings.NewReader(tt.body))
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}

			customErr := ParseForm(httptest.NewRecorder(), r)
			if tt.wantCode == 0 {
				if customErr != nil {
					t.Fatalf("ParseForm() error = %v", customErr)
				}
				if r.PostForm.Get("answer") != "hello" {
					t.Errorf("answer = %q", r.PostForm.Get("answer"))
				}
				return
			}
			if customErr == nil || customErr.Code != tt.wantCode || customErr.Status != http.StatusUnsupportedMediaType {
				t.Errorf("ParseForm() = %v, want 415", customErr)
			}
		})
	}
}
