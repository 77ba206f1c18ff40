package handlers

import (
	"bytes"
	"errors"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ray-remotestate/qrmenu/storage"
)

func TestPublicHandler_Health(t *testing.T) {
	testCases := map[string]struct {
		pingErr        error
		expectedStatus int
		expectedBody   string
	}{
		"should report alive": {
			expectedStatus: http.StatusOK,
			expectedBody:   `{"alive":true}`,
		},
		"should report an unreachable store": {
			pingErr:        errors.New("connection refused"),
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"alive":false}`,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			logger, _ := logtest.NewNullLogger()
			db := &mockPinger{}
			db.On("PingContext", mock.Anything).Return(tc.pingErr)
			h := NewPublicHandler(db, &mockImages{}, "", logger)

			rec := httptest.NewRecorder()
			h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tc.expectedStatus, rec.Code)
			assert.JSONEq(t, tc.expectedBody, rec.Body.String())
		})
	}
}

func TestPublicHandler_QRCode(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	h := NewPublicHandler(&mockPinger{}, &mockImages{}, "", logger)

	req := httptest.NewRequest(http.MethodGet, "http://canteen.local/qr", nil)
	rec := httptest.NewRecorder()
	h.QRCode(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())

	assert.Equal(t, "http://canteen.local/menu", h.menuURL(req))

	req.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://canteen.local/menu", h.menuURL(req))

	configured := NewPublicHandler(&mockPinger{}, &mockImages{}, "https://menu.example.com", logger)
	assert.Equal(t, "https://menu.example.com/menu", configured.menuURL(req))
}

func TestPublicHandler_Image(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	images := &mockImages{}
	images.On("Open", mock.Anything, "chai.png").Return(io.NopCloser(strings.NewReader("png-bytes")), nil)
	images.On("Open", mock.Anything, "missing.png").Return(nil, storage.ErrNotFound)
	h := NewPublicHandler(&mockPinger{}, images, "", logger)

	get := func(file string) *httptest.ResponseRecorder {
		req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/images/"+file, nil), map[string]string{"file": file})
		rec := httptest.NewRecorder()
		h.Image(rec, req)
		return rec
	}

	rec := get("chai.png")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "png-bytes", rec.Body.String())

	rec = get("missing.png")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	images.AssertExpectations(t)
}
