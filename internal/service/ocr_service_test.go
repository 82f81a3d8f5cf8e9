package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"two-doc-checker/internal/models"
	"two-doc-checker/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestOCR(t *testing.T, url, key string) *OCRService {
	return NewOCRService(&config.OCRConfig{APIKey: key, URL: url, Timeout: 5 * time.Second}, zaptest.NewLogger(t))
}

func TestOCRSkipsWithoutCredentialOrBytes(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	res := newTestOCR(t, srv.URL, "").OCR(context.Background(), []byte("%PDF-1.4"))
	assert.Equal(t, models.OCRSkipped, res.Status)
	assert.Empty(t, res.Text)

	res = newTestOCR(t, srv.URL, "key").OCR(context.Background(), nil)
	assert.Equal(t, models.OCRSkipped, res.Status)

	assert.Zero(t, calls.Load(), "no request may be sent when OCR is skipped")
}

func TestOCRPostsMultipartPDF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		assert.Equal(t, "document.pdf", header.Filename)
		assert.Equal(t, "application/pdf", header.Header.Get("Content-Type"))
		data, _ := io.ReadAll(file)
		assert.Equal(t, "%PDF-1.4 scanned", string(data))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"INVOICE 991\nTotal: 1,200.00"}`))
	}))
	defer srv.Close()

	res := newTestOCR(t, srv.URL, "secret").OCR(context.Background(), []byte("%PDF-1.4 scanned"))
	require.Equal(t, models.OCRUsed, res.Status)
	assert.Equal(t, "INVOICE 991\nTotal: 1,200.00", res.Text)
	assert.NoError(t, res.Err)
}

func TestOCRDegradesOnFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		},
		"unauthorized": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad key", http.StatusUnauthorized)
		},
		"malformed json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"text":`))
		},
	}
	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(handler)
			defer srv.Close()

			res := newTestOCR(t, srv.URL, "secret").OCR(context.Background(), []byte("%PDF"))
			assert.Equal(t, models.OCRFailed, res.Status)
			assert.Empty(t, res.Text)
			assert.Error(t, res.Err)
		})
	}
}

func TestOCRMissingTextFieldIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"pages":[]}`))
	}))
	defer srv.Close()

	res := newTestOCR(t, srv.URL, "secret").OCR(context.Background(), []byte("%PDF"))
	assert.Equal(t, models.OCREmpty, res.Status)
	assert.Empty(t, res.Text)
}

func TestOCRUnreachableEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	res := newTestOCR(t, url, "secret").OCR(context.Background(), []byte("%PDF"))
	assert.Equal(t, models.OCRFailed, res.Status)
}
