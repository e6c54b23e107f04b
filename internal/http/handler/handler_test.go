package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"clauselens/internal/letter"
	"clauselens/internal/model"
	"clauselens/internal/service"
	serviceMocks "clauselens/internal/service/mocks"
	"clauselens/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func multipartBody(t *testing.T, name string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	part.Write(content)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockAnalysisService)
	app := fiber.New()
	app.Post("/documents", UploadDocument(mockSvc))

	t.Run("success", func(t *testing.T) {
		body, ct := multipartBody(t, "lease.pdf", []byte("%PDF-1.4"))

		expected := &model.DocumentAnalysis{ID: uuid.New().String(), DocumentName: "lease.pdf", TimeSaved: "1 hr 33 min"}
		mockSvc.On("Upload", mock.Anything, mock.Anything, "lease.pdf", mock.Anything, int64(8)).Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result model.DocumentAnalysis
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, expected.ID, result.ID)
		assert.Equal(t, "1 hr 33 min", result.TimeSaved)
		mockSvc.AssertExpectations(t)
	})

	t.Run("no file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "FILE_REQUIRED", res.Error.Code)
	})

	errorCases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unsupported type", fmt.Errorf("%w: .docx, only PDF documents are accepted", service.ErrUnsupportedType), http.StatusUnsupportedMediaType, "UNSUPPORTED_FILE_TYPE"},
		{"too large", fmt.Errorf("%w: 60 MiB exceeds the 50 MiB limit", service.ErrFileTooLarge), http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{"stale", store.ErrStale, http.StatusConflict, "STALE_RESPONSE"},
		{"backend", fmt.Errorf("%w: backend /upload-document/ returned 500", service.ErrBackend), http.StatusBadGateway, "BACKEND_ERROR"},
		{"internal", errors.New("db save failed: boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := multipartBody(t, "file.pdf", []byte("hello"))
			mockSvc.On("Upload", mock.Anything, mock.Anything, "file.pdf", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			req := httptest.NewRequest(http.MethodPost, "/documents", body)
			req.Header.Set("Content-Type", ct)
			resp, _ := app.Test(req)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			var res errorPayload
			json.NewDecoder(resp.Body).Decode(&res)
			assert.Equal(t, tt.wantCode, res.Error.Code)
			assert.NotContains(t, res.Error.Message, "boom")
			assert.NotContains(t, res.Error.Message, "/upload-document/")
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestGetAndResetAnalysis(t *testing.T) {
	mockSvc := new(serviceMocks.MockAnalysisService)
	app := fiber.New()
	app.Get("/analysis", GetAnalysis(mockSvc))
	app.Delete("/analysis", ResetAnalysis(mockSvc))

	t.Run("snapshot", func(t *testing.T) {
		mockSvc.On("Snapshot", mock.Anything).Return(store.Snapshot{
			Version:  3,
			Status:   store.StatusReady,
			Analysis: &model.DocumentAnalysis{ID: "a1"},
		}).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/analysis", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var snap store.Snapshot
		json.NewDecoder(resp.Body).Decode(&snap)
		assert.Equal(t, store.StatusReady, snap.Status)
		require.NotNil(t, snap.Analysis)
		assert.Equal(t, "a1", snap.Analysis.ID)
	})

	t.Run("reset", func(t *testing.T) {
		mockSvc.On("Reset", mock.Anything).Return().Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodDelete, "/analysis", nil))

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestListClauses(t *testing.T) {
	mockSvc := new(serviceMocks.MockAnalysisService)
	app := fiber.New()
	app.Get("/analysis/clauses", ListClauses(mockSvc))

	t.Run("ranked", func(t *testing.T) {
		mockSvc.On("Clauses", mock.Anything, "late fee").Return([]model.Clause{
			{ID: "clause-2", Title: "Clause 2", Risk: model.RiskHigh},
			{ID: "clause-1", Title: "Clause 1", Risk: model.RiskLow, Issues: []string{"vague"}},
		}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/analysis/clauses?q=late+fee", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var out clauseList
		json.NewDecoder(resp.Body).Decode(&out)
		assert.Equal(t, "late fee", out.Query)
		assert.Equal(t, 2, out.Total)
		assert.Equal(t, "red", out.Data[0].Color)
		assert.Equal(t, []string{}, out.Data[0].Issues)
		assert.Equal(t, "green", out.Data[1].Color)
	})

	t.Run("no analysis", func(t *testing.T) {
		mockSvc.On("Clauses", mock.Anything, "").Return(nil, store.ErrNoAnalysis).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/analysis/clauses", nil))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NO_ANALYSIS", res.Error.Code)
	})
}

func TestExplanation(t *testing.T) {
	mockSvc := new(serviceMocks.MockAnalysisService)
	app := fiber.New()
	app.Post("/analysis/explanation", RequestExplanation(mockSvc))
	app.Get("/analysis/explanation", GetExplanation(mockSvc))

	t.Run("default voice", func(t *testing.T) {
		mockSvc.On("Explain", mock.Anything, "").Return(&model.Explanation{AudioURL: "https://a/x.mp3"}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/analysis/explanation", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var e model.Explanation
		json.NewDecoder(resp.Body).Decode(&e)
		assert.Equal(t, "https://a/x.mp3", e.AudioURL)
	})

	t.Run("chosen voice", func(t *testing.T) {
		mockSvc.On("Explain", mock.Anything, "Puck").Return(&model.Explanation{AudioURL: "https://a/y.mp3"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/analysis/explanation", strings.NewReader(`{"voice_preference":"Puck"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("backend failure", func(t *testing.T) {
		mockSvc.On("Explain", mock.Anything, "").Return(nil, fmt.Errorf("%w: explanation failed", service.ErrBackend)).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/analysis/explanation", nil))

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})

	t.Run("no source uri", func(t *testing.T) {
		mockSvc.On("Explain", mock.Anything, "").Return(nil, service.ErrNoSourceURI).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/analysis/explanation", nil))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NO_SOURCE_URI", res.Error.Code)
	})

	t.Run("state", func(t *testing.T) {
		mockSvc.On("Explanation", mock.Anything).Return(store.ExplanationState{Status: store.StatusError, Error: "explanation failed"}).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/analysis/explanation", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var st store.ExplanationState
		json.NewDecoder(resp.Body).Decode(&st)
		assert.Equal(t, store.StatusError, st.Status)
		assert.Equal(t, "explanation failed", st.Error)
	})

	mockSvc.AssertExpectations(t)
}

func TestCreateLetter(t *testing.T) {
	mockSvc := new(serviceMocks.MockAnalysisService)
	app := fiber.New()
	app.Post("/analysis/letters", CreateLetter(mockSvc))

	post := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/analysis/letters", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)
		return resp
	}

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Letter", mock.Anything, letter.Request{SenderName: "Ana", Tone: letter.ToneFirm, ClauseIDs: []string{"clause-1"}}).
			Return(&letter.Letter{Subject: "Requested revisions to lease.pdf", ClauseIDs: []string{"clause-1"}}, nil).Once()

		resp := post(`{"sender_name":"Ana","tone":"firm","clause_ids":["clause-1"]}`)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var l letter.Letter
		json.NewDecoder(resp.Body).Decode(&l)
		assert.Equal(t, "Requested revisions to lease.pdf", l.Subject)
	})

	t.Run("invalid body", func(t *testing.T) {
		resp := post(`{"sender_name":`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown clause", func(t *testing.T) {
		mockSvc.On("Letter", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("%w: clause-9", letter.ErrUnknownClause)).Once()

		resp := post(`{"sender_name":"Ana","clause_ids":["clause-9"]}`)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_LETTER_REQUEST", res.Error.Code)
		assert.Contains(t, res.Error.Message, "clause-9")
	})
}

func TestEstimateTimeSaved(t *testing.T) {
	app := fiber.New()
	app.Get("/time-saved", EstimateTimeSaved())

	t.Run("estimate", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/time-saved?pages=24&clauses=10", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var out timeSavedOutput
		json.NewDecoder(resp.Body).Decode(&out)
		assert.Equal(t, "1 hr 33 min", out.TimeSaved)
		assert.InDelta(t, 1.5575, out.Hours, 0.0001)
	})

	t.Run("invalid pages", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/time-saved?pages=many", nil))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_PAGES", res.Error.Code)
	})
}

func TestListAnalyses(t *testing.T) {
	mockSvc := new(serviceMocks.MockAnalysisService)
	app := fiber.New()
	app.Get("/analyses", ListAnalyses(mockSvc))

	t.Run("success", func(t *testing.T) {
		expectedRes := &service.AnalysisListResult{
			Items: []model.AnalysisRecord{{ID: uuid.New().String(), DocumentName: "lease.pdf"}},
			Total: 1,
		}
		mockSvc.On("History", mock.Anything, 10, 0).Return(expectedRes, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/analyses?limit=10&offset=0", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.AnalysisListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("limit is capped", func(t *testing.T) {
		mockSvc.On("History", mock.Anything, 100, 0).Return(&service.AnalysisListResult{Items: []model.AnalysisRecord{}}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/analyses?limit=1000", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/analyses?limit=abc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INVALID_LIMIT", body.Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("History", mock.Anything, 10, 0).Return(nil, errors.New("service error")).Once()

		req := httptest.NewRequest(http.MethodGet, "/analyses", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestGetAnalysisRecord(t *testing.T) {
	mockSvc := new(serviceMocks.MockAnalysisService)
	app := fiber.New()
	app.Get("/analyses/:id", GetAnalysisRecord(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		expected := &model.AnalysisRecord{ID: id, DocumentName: "lease.pdf", Analysis: json.RawMessage(`{"id":"` + id + `"}`)}
		mockSvc.On("Get", mock.Anything, id).Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/analyses/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.AnalysisRecord
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, id, result.ID)
		assert.JSONEq(t, `{"id":"`+id+`"}`, string(result.Analysis))
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id).Return(nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/analyses/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/analyses/invalid-uuid", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INVALID_ID", res.Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id).Return(nil, errors.New("db error")).Once()

		req := httptest.NewRequest(http.MethodGet, "/analyses/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestDeleteAnalysisRecord(t *testing.T) {
	mockSvc := new(serviceMocks.MockAnalysisService)
	app := fiber.New()
	app.Delete("/analyses/:id", DeleteAnalysisRecord(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, id).Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/analyses/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, id).Return(service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodDelete, "/analyses/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, id).Return(errors.New("delete error")).Once()

		req := httptest.NewRequest(http.MethodDelete, "/analyses/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestGetAnalysisDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockAnalysisService)
	app := fiber.New()
	app.Get("/analyses/:id/document", GetAnalysisDocument(mockSvc))

	id := uuid.New().String()
	mockSvc.On("DocumentURL", mock.Anything, id, downloadExpiry).Return("https://minio/uploads/x.pdf?sig", nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/analyses/"+id+"/document", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var out downloadOutput
	json.NewDecoder(resp.Body).Decode(&out)
	assert.Equal(t, "https://minio/uploads/x.pdf?sig", out.URL)
	assert.Equal(t, 900, out.ExpiresIn)
	mockSvc.AssertExpectations(t)
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	mockSvc := new(serviceMocks.MockAnalysisService)
	RegisterRoutes(app, nil, mockSvc)

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// Health endpoint only allows GET
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "METHOD_NOT_ALLOWED", res.Error.Code)
	})

	t.Run("health without database", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})

	t.Run("estimate is public", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/time-saved?pages=0&clauses=0", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var out timeSavedOutput
		json.NewDecoder(resp.Body).Decode(&out)
		assert.Equal(t, "1 hr 0 min", out.TimeSaved)
	})
}

func TestRegisterSwagger(t *testing.T) {
	app := fiber.New()
	RegisterSwagger(app, "api.clauselens.test", "https")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
			req.Host = fmt.Sprintf("client-%d.example", i)
			resp, err := app.Test(req)
			if assert.NoError(t, err) {
				assert.Equal(t, http.StatusOK, resp.StatusCode)
			}
		}(i)
	}
	wg.Wait()

	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	req.Host = "other.example"
	resp, err := app.Test(req)
	require.NoError(t, err)

	var doc struct {
		Host    string   `json:"host"`
		Schemes []string `json:"schemes"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Equal(t, "api.clauselens.test", doc.Host)
	assert.Equal(t, []string{"https"}, doc.Schemes)
}
