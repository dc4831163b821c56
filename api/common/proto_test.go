package common

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteErrorEnvelope(t *testing.T) {
	cases := []struct {
		err    *ApiError
		status int
		body   string
	}{
		{ErrNotFound, http.StatusNotFound, `{"error":{"code":-404,"message":"not found"}}`},
		{ErrInternal, http.StatusInternalServerError, `{"error":{"code":-500,"message":"internal server error"}}`},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		WriteError(rec, tc.err)

		if rec.Code != tc.status {
			t.Errorf("Expected status %d, got %d", tc.status, rec.Code)
		}
		if got := rec.Body.String(); got != tc.body {
			t.Errorf("Expected body %s, got %s", tc.body, got)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected application/json, got %s", ct)
		}
	}
}

func TestDecodeError(t *testing.T) {
	apiErr := DecodeError([]byte(`{"error":{"code":-404,"message":"not found"}}`))
	if apiErr == nil || apiErr.Code != -404 || apiErr.Message != "not found" {
		t.Fatalf("Unexpected decode result %+v", apiErr)
	}
	if apiErr.Status() != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", apiErr.Status())
	}

	if DecodeError([]byte(`{"result":true}`)) != nil {
		t.Error("Expected nil for a success body")
	}
	if DecodeError([]byte("raw bytes")) != nil {
		t.Error("Expected nil for a non-JSON body")
	}
}

func TestWriteBytes(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteBytes(rec, []byte{0x00, 0xff})

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/octet-stream" {
		t.Errorf("Expected application/octet-stream, got %s", ct)
	}
	if got := rec.Body.Bytes(); len(got) != 2 || got[0] != 0x00 || got[1] != 0xff {
		t.Errorf("Unexpected body %v", got)
	}
}
