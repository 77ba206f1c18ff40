package handlers

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"

	"github.com/ray-remotestate/qrmenu/storage"
	"github.com/ray-remotestate/qrmenu/utils"
)

const (
	qrSize      = 256
	pingTimeout = 2 * time.Second
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type ImageOpener interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// PublicHandler serves the QR landing code, health check and item images.
type PublicHandler struct {
	db        Pinger
	images    ImageOpener
	publicURL string
	logger    logrus.FieldLogger
}

func NewPublicHandler(db Pinger, images ImageOpener, publicURL string, logger logrus.FieldLogger) *PublicHandler {
	return &PublicHandler{
		db:        db,
		images:    images,
		publicURL: publicURL,
		logger:    logger,
	}
}

func (h *PublicHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.WithError(err).Error("health check failed")
		utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]bool{"alive": false})
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]bool{"alive": true})
}

// QRCode renders a PNG pointing customers at the menu.
func (h *PublicHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	png, err := qrcode.Encode(h.menuURL(r), qrcode.Medium, qrSize)
	if err != nil {
		h.logger.WithError(err).Error("failed to encode qr code")
		utils.WriteError(w, http.StatusInternalServerError, "failed to generate qr code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(png)
}

func (h *PublicHandler) menuURL(r *http.Request) string {
	if h.publicURL != "" {
		return h.publicURL + "/menu"
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + "/menu"
}

func (h *PublicHandler) Image(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["file"]

	rc, err := h.images.Open(r.Context(), name)
	if errors.Is(err, storage.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, "image not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("image", name).Error("failed to open image")
		utils.WriteError(w, http.StatusInternalServerError, "failed to load image")
		return
	}
	defer rc.Close()

	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	if _, err := io.Copy(w, rc); err != nil {
		h.logger.WithError(err).WithField("image", name).Warn("failed to stream image")
	}
}
