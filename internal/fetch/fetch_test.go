package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newClient() *Client {
	return &Client{UserAgent: "meetingwatch-test", Timeout: 2 * time.Second}
}

func TestFetchDocument_PDFByContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()

	doc, err := newClient().FetchDocument(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Kind != KindPDF {
		t.Fatalf("kind = %v, want KindPDF", doc.Kind)
	}
}

func TestFetchDocument_PDFByMagicDespiteWrongType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte("%PDF-1.7 content"))
	}))
	defer srv.Close()

	doc, err := newClient().FetchDocument(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Kind != KindPDF {
		t.Fatalf("kind = %v, want KindPDF", doc.Kind)
	}
}

func TestFetchDocument_PlainText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("1. Call to Order\n2. Ordinance 2024-15"))
	}))
	defer srv.Close()

	doc, err := newClient().FetchDocument(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Kind != KindText {
		t.Fatalf("kind = %v, want KindText", doc.Kind)
	}
	if len(doc.Data) == 0 {
		t.Fatal("expected body")
	}
}

func TestFetchDocument_HTMLRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>listing page</body></html>"))
	}))
	defer srv.Close()

	_, err := newClient().FetchDocument(context.Background(), srv.URL)
	if !errors.Is(err, ErrNoDocument) {
		t.Fatalf("expected ErrNoDocument, got %v", err)
	}
}

func TestFetchDocument_404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := newClient().FetchDocument(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error on 404")
	}
}

func TestFetchDocument_HEADFailureTolerated(t *testing.T) {
	// HEAD gets a 500, the GET succeeds; the precheck must not block the fetch.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	doc, err := newClient().FetchDocument(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Kind != KindPDF {
		t.Fatalf("kind = %v, want KindPDF", doc.Kind)
	}
}

func TestFetchDocument_SchemeRejected(t *testing.T) {
	if _, err := newClient().FetchDocument(context.Background(), "ftp://example.com/agenda.pdf"); err == nil {
		t.Fatal("expected error for non-http scheme")
	}
}
