package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// newTestRouter wires the shopper middleware in front of the routes
func newTestRouter() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Session())
	return r
}

type testRequest struct {
	method     string
	path       string
	body       any
	sessionID  string
	customerID uuid.UUID
	headers    map[string]string
}

func perform(r *gin.Engine, tr testRequest) *httptest.ResponseRecorder {
	var body bytes.Buffer
	switch b := tr.body.(type) {
	case nil:
	case string:
		body.WriteString(b)
	default:
		_ = json.NewEncoder(&body).Encode(b)
	}

	req := httptest.NewRequest(tr.method, tr.path, &body)
	req.Header.Set("Content-Type", "application/json")
	if tr.sessionID != "" {
		req.Header.Set(middleware.SessionIDHeader, tr.sessionID)
	}
	if tr.customerID != uuid.Nil {
		req.Header.Set(middleware.CustomerIDHeader, tr.customerID.String())
	}
	for k, v := range tr.headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeResponse unmarshals the envelope and its data into data (if non-nil)
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder, data any) dto.Response {
	t.Helper()
	var envelope struct {
		dto.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, data))
	}
	return envelope.Response
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantKind   string
		wantSubj   string
	}{
		{"validation", shared.ErrInvalidQuantity, http.StatusBadRequest, "INVALID_QUANTITY", "VALIDATION", ""},
		{"not found", shared.ErrProductNotFound.WithSubject("p-1"), http.StatusNotFound, "PRODUCT_NOT_FOUND", "NOT_FOUND", "p-1"},
		{"insufficient stock", fmt.Errorf("checkout: %w", shared.ErrInsufficientStock.WithSubject("p-2")), http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK", "CONFLICT", "p-2"},
		{"foreign address", shared.ErrInvalidAddress, http.StatusConflict, "INVALID_ADDRESS", "CONFLICT", ""},
		{"postal outage", shared.ErrPostalLookupFailed.Wrap(errors.New("dial tcp")), http.StatusBadGateway, "POSTAL_LOOKUP_FAILED", "EXTERNAL", ""},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, dto.ErrCodeInternal, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			r := newTestRouter()
			r.GET("/test", func(c *gin.Context) {
				h.HandleError(c, tt.err)
			})

			w := perform(r, testRequest{method: http.MethodGet, path: "/test"})

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w, nil)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantKind, resp.Error.Kind)
			assert.Equal(t, tt.wantSubj, resp.Error.Subject)
			assert.Equal(t, w.Header().Get(middleware.RequestIDKey), resp.Error.RequestID)
			assert.NotContains(t, w.Body.String(), "connection reset")
		})
	}
}

func TestBaseHandler_ParseUUIDParam(t *testing.T) {
	h := &BaseHandler{}
	r := newTestRouter()
	r.GET("/items/:id", func(c *gin.Context) {
		id, ok := h.ParseUUIDParam(c, "id")
		if !ok {
			return
		}
		h.Success(c, id)
	})

	id := uuid.New()
	w := perform(r, testRequest{method: http.MethodGet, path: "/items/" + id.String()})
	assert.Equal(t, http.StatusOK, w.Code)
	var got uuid.UUID
	decodeResponse(t, w, &got)
	assert.Equal(t, id, got)

	w = perform(r, testRequest{method: http.MethodGet, path: "/items/not-a-uuid"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeBadRequest)
}

func TestBaseHandler_Responses(t *testing.T) {
	h := &BaseHandler{}
	r := newTestRouter()
	r.GET("/list", func(c *gin.Context) { h.SuccessList(c, []int{1, 2, 3}, 3) })
	r.POST("/create", func(c *gin.Context) { h.Created(c, gin.H{"id": 1}) })
	r.DELETE("/delete", func(c *gin.Context) { h.NoContent(c) })

	w := perform(r, testRequest{method: http.MethodGet, path: "/list"})
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w, nil)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(3), resp.Meta.Total)

	w = perform(r, testRequest{method: http.MethodPost, path: "/create"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = perform(r, testRequest{method: http.MethodDelete, path: "/delete"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}
