package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	import_excel "gestion-api/internal/service/import-excel"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockImporter struct {
	mock.Mock
}

func (m *MockImporter) ImportWorkers(ctx context.Context, filename string, data []byte) (import_excel.Stats, error) {
	args := m.Called(ctx, filename, data)
	return args.Get(0).(import_excel.Stats), args.Error(1)
}

func (m *MockImporter) ImportProducts(ctx context.Context, filename string, data []byte) (import_excel.Stats, error) {
	args := m.Called(ctx, filename, data)
	return args.Get(0).(import_excel.Stats), args.Error(1)
}

var testLimits = Limits{MaxSize: 1 << 20, Timeout: 5 * time.Second}

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import/workers", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestImportWorkers_Success(t *testing.T) {
	imp := new(MockImporter)
	content := []byte("xlsx bytes")

	imp.On("ImportWorkers", mock.Anything, "personnel.xlsx", content).
		Return(import_excel.Stats{
			ImportID: "6f1c2a9e-0000-4000-8000-000000000001",
			Total:    3,
			Created:  2,
			Updated:  0,
			Errors:   []string{"Ligne 7 (Awa Koné): connection refused"},
		}, nil)

	handler := ImportWorkers(slog.Default(), imp, testLimits)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, multipartRequest(t, "file", "personnel.xlsx", content))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "6f1c2a9e-0000-4000-8000-000000000001", rr.Header().Get("X-Import-ID"))

	var resp map[string]any
	err := render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp)
	require.NoError(t, err)

	assert.Equal(t, float64(3), resp["total"])
	assert.Equal(t, float64(2), resp["created"])
	assert.Equal(t, float64(0), resp["updated"])
	assert.Len(t, resp["errors"], 1)
	assert.NotContains(t, resp, "ImportID")

	imp.AssertExpectations(t)
}

func TestImportProducts_EmptyErrorsIsArray(t *testing.T) {
	imp := new(MockImporter)
	imp.On("ImportProducts", mock.Anything, "stock.xls", mock.Anything).
		Return(import_excel.Stats{Total: 1, Updated: 1, Errors: []string{}}, nil)

	handler := ImportProducts(slog.Default(), imp, testLimits)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, multipartRequest(t, "file", "stock.xls", []byte("xls")))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"errors":[]`)
	imp.AssertExpectations(t)
}

func TestImportWorkers_MissingFile(t *testing.T) {
	imp := new(MockImporter)
	handler := ImportWorkers(slog.Default(), imp, testLimits)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, multipartRequest(t, "document", "personnel.xlsx", []byte("x")))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "aucun fichier")
	imp.AssertNotCalled(t, "ImportWorkers")
}

func TestImportWorkers_NotMultipart(t *testing.T) {
	imp := new(MockImporter)
	handler := ImportWorkers(slog.Default(), imp, testLimits)

	req := httptest.NewRequest(http.MethodPost, "/api/import/workers", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	imp.AssertNotCalled(t, "ImportWorkers")
}

func TestImportWorkers_TooLarge(t *testing.T) {
	imp := new(MockImporter)
	handler := ImportWorkers(slog.Default(), imp, Limits{MaxSize: 512, Timeout: time.Second})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, multipartRequest(t, "file", "personnel.xlsx", bytes.Repeat([]byte("a"), 4096)))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	imp.AssertNotCalled(t, "ImportWorkers")
}

func TestImportWorkers_Unreadable(t *testing.T) {
	imp := new(MockImporter)
	imp.On("ImportWorkers", mock.Anything, "personnel.xlsx", mock.Anything).
		Return(import_excel.Stats{Errors: []string{}}, fmt.Errorf("import_excel.ImportWorkers: %w", import_excel.ErrUnreadableWorkbook))

	handler := ImportWorkers(slog.Default(), imp, testLimits)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, multipartRequest(t, "file", "personnel.xlsx", []byte("zip?")))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "fichier Excel illisible")
	imp.AssertExpectations(t)
}

func TestImportWorkers_InternalError(t *testing.T) {
	imp := new(MockImporter)
	imp.On("ImportWorkers", mock.Anything, mock.Anything, mock.Anything).
		Return(import_excel.Stats{ImportID: "abc", Total: 4, Errors: []string{}}, errors.New("context deadline exceeded"))

	handler := ImportWorkers(slog.Default(), imp, testLimits)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, multipartRequest(t, "file", "personnel.xlsx", []byte("x")))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "abc", rr.Header().Get("X-Import-ID"))
	imp.AssertExpectations(t)
}

func TestImportWorkers_ContextHasDeadline(t *testing.T) {
	imp := new(MockImporter)
	imp.On("ImportWorkers", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), mock.Anything, mock.Anything).Return(import_excel.Stats{Errors: []string{}}, nil)

	handler := ImportWorkers(slog.Default(), imp, testLimits)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, multipartRequest(t, "file", "personnel.xlsx", []byte("x")))

	assert.Equal(t, http.StatusOK, rr.Code)
	imp.AssertExpectations(t)
}
