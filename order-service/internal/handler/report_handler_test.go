package handler

import (
	"bytes"
	"cleaning-app/order-service/internal/models"
	"cleaning-app/order-service/internal/repository"
	"cleaning-app/order-service/internal/services"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
)

type bufferStore struct {
	keys []string
}

func (s *bufferStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	s.keys = append(s.keys, key)
	return "http://files.local/" + key, nil
}

func setupReportRouter(store *bufferStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	orders := repository.NewMemoryOrderRepository(seedOrder("1", models.StatusInProgress))
	svc := services.NewReportService(repository.NewMemoryReportRepository(), orders, store, nil, services.FixedClock{T: now})
	r := gin.New()
	NewReportHandler(svc).Register(r.Group("/api"))
	return r
}

func multipartReport(t *testing.T, fields map[string]string, fileName, contentType string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if fileName != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
		h.Set("Content-Type", contentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		part.Write([]byte("binary"))
	}
	mw.Close()
	return &body, mw.FormDataContentType()
}

func TestReportRoutes_SubmitWithFile(t *testing.T) {
	store := &bufferStore{}
	r := setupReportRouter(store)

	body, ct := multipartReport(t, map[string]string{
		"staff_id":    "staff-1",
		"order_id":    "1",
		"type":        "quality",
		"description": "Customer disputes the finish",
	}, "sink.jpg", "image/jpeg")
	req := httptest.NewRequest(http.MethodPost, "/api/reports", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("submit: %d %s", w.Code, w.Body.String())
	}
	var got models.Report
	json.Unmarshal(w.Body.Bytes(), &got)
	if got.Type != models.ReportQuality || got.EvidenceURL == "" || len(store.keys) != 1 {
		t.Fatalf("report %+v, stored %v", got, store.keys)
	}

	w = do(r, http.MethodPut, "/api/reports/"+got.ID+"/status", map[string]string{"status": "closed"})
	if w.Code != http.StatusOK {
		t.Fatalf("status: %d %s", w.Code, w.Body.String())
	}
	w = do(r, http.MethodGet, "/api/reports?staff_id=staff-1", nil)
	var list []models.Report
	json.Unmarshal(w.Body.Bytes(), &list)
	if len(list) != 1 || list[0].Status != models.ReportClosed {
		t.Fatalf("list = %s", w.Body.String())
	}
}

func TestReportRoutes_Rejects(t *testing.T) {
	r := setupReportRouter(&bufferStore{})

	cases := []struct {
		name     string
		fields   map[string]string
		file, ct string
		want     int
	}{
		{"no description", map[string]string{"staff_id": "staff-1", "type": "late"}, "", "", http.StatusBadRequest},
		{"bad type", map[string]string{"staff_id": "staff-1", "type": "noise", "description": "x"}, "", "", http.StatusBadRequest},
		{"text file", map[string]string{"staff_id": "staff-1", "type": "late", "description": "x"}, "note.txt", "text/plain", http.StatusBadRequest},
		{"unknown order", map[string]string{"staff_id": "staff-1", "type": "late", "description": "x", "order_id": "nope"}, "", "", http.StatusNotFound},
		{"no file is fine", map[string]string{"staff_id": "staff-1", "type": "other", "description": "x"}, "", "", http.StatusCreated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, ct := multipartReport(t, tc.fields, tc.file, tc.ct)
			req := httptest.NewRequest(http.MethodPost, "/api/reports", body)
			req.Header.Set("Content-Type", ct)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("code = %d, want %d: %s", w.Code, tc.want, w.Body.String())
			}
		})
	}

	if w := do(r, http.MethodGet, "/api/reports/missing", nil); w.Code != http.StatusNotFound {
		t.Errorf("get missing: %d", w.Code)
	}
}
