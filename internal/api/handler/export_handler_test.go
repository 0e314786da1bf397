package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/vamilabs/labrecords-api/internal/core/ports"
)

type stubExportService struct {
	xlsxFn func(ctx context.Context, actor string) (*ports.ExportArtifact, error)
	pdfFn  func(ctx context.Context, actor string) (*ports.ExportArtifact, error)
}

func (s *stubExportService) BuildXLSX(ctx context.Context, actor string) (*ports.ExportArtifact, error) {
	return s.xlsxFn(ctx, actor)
}

func (s *stubExportService) BuildPDF(ctx context.Context, actor string) (*ports.ExportArtifact, error) {
	return s.pdfFn(ctx, actor)
}

func tempArtifact(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

func TestExportHandler_DownloadXLSX(t *testing.T) {
	e := newEcho()
	path := tempArtifact(t, "resultados-1.xlsx", "sheet-bytes")
	svc := &stubExportService{
		xlsxFn: func(_ context.Context, actor string) (*ports.ExportArtifact, error) {
			if actor != "laborista1" {
				t.Errorf("actor must come from the session, got %q", actor)
			}
			return &ports.ExportArtifact{Path: path, Filename: "resultados.xlsx", Rows: 2}, nil
		},
	}
	h := NewExportHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/download", nil)
	rec := httptest.NewRecorder()
	c := labContext(e, req, rec)

	if err := h.DownloadXLSX(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, "resultados.xlsx") {
		t.Errorf("attachment must carry the download name, got %q", cd)
	}
	if rec.Body.String() != "sheet-bytes" {
		t.Errorf("body must stream the artifact, got %q", rec.Body.String())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("temporary artifact must be removed after the download")
	}
}

func TestExportHandler_DownloadPDF(t *testing.T) {
	e := newEcho()
	path := tempArtifact(t, "resultados-1.pdf", "%PDF-1.4 fake")
	svc := &stubExportService{
		pdfFn: func(context.Context, string) (*ports.ExportArtifact, error) {
			return &ports.ExportArtifact{Path: path, Filename: "resultadosPDF.pdf", Rows: 1}, nil
		},
	}
	h := NewExportHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/downloadpdf", nil)
	rec := httptest.NewRecorder()
	c := labContext(e, req, rec)

	if err := h.DownloadPDF(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, "resultadosPDF.pdf") {
		t.Errorf("attachment must carry the download name, got %q", cd)
	}
}

func TestExportHandler_BuildFailure(t *testing.T) {
	e := newEcho()
	svc := &stubExportService{
		xlsxFn: func(context.Context, string) (*ports.ExportArtifact, error) {
			return nil, errors.New("db unavailable")
		},
	}
	h := NewExportHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/download", nil)
	rec := httptest.NewRecorder()
	c := labContext(e, req, rec)

	if err := h.DownloadXLSX(c); err == nil {
		t.Fatal("expected build failure to surface")
	}
}

func TestExportHandler_NoIdentity(t *testing.T) {
	e := newEcho()
	svc := &stubExportService{
		xlsxFn: func(context.Context, string) (*ports.ExportArtifact, error) {
			t.Fatal("service must not be called without a session identity")
			return nil, nil
		},
	}
	h := NewExportHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/download", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.DownloadXLSX(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
