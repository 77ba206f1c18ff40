package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/qrmenu/middlewares"
	"github.com/ray-remotestate/qrmenu/models"
	"github.com/ray-remotestate/qrmenu/services"
	"github.com/ray-remotestate/qrmenu/utils"
)

type CatalogService interface {
	ListAvailable(ctx context.Context) (models.Menu, error)
	ListAll(ctx context.Context) ([]models.MenuItem, error)
	CreateItem(ctx context.Context, admin string, in models.NewMenuItem, img *services.Image) (*models.MenuItem, error)
	SetAvailability(ctx context.Context, admin string, itemID int64, availability int) error
}

type MenuHandler struct {
	catalog        CatalogService
	maxUploadBytes int64
	logger         logrus.FieldLogger
}

func NewMenuHandler(catalog CatalogService, maxUploadBytes int64, logger logrus.FieldLogger) *MenuHandler {
	return &MenuHandler{
		catalog:        catalog,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// GetMenu returns the orderable items as a category -> items object.
func (h *MenuHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.catalog.ListAvailable(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "load menu")
		return
	}
	utils.WriteJSON(w, http.StatusOK, menu)
}

func (h *MenuHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, models.DefaultCategories)
}

func (h *MenuHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err, "list items")
		return
	}
	utils.WriteJSON(w, http.StatusOK, items)
}

// CreateItem accepts a multipart form with an optional "image" file.
func (h *MenuHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUploadBytes {
		utils.WriteError(w, http.StatusRequestEntityTooLarge, "upload too large")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.WriteError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		utils.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	in := models.NewMenuItem{
		Name:         r.FormValue("name"),
		Description:  r.FormValue("description"),
		Price:        r.FormValue("price"),
		Category:     r.FormValue("category"),
		Availability: r.FormValue("availability"),
	}

	var img *services.Image
	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		utils.WriteError(w, http.StatusBadRequest, "invalid image upload")
		return
	default:
		defer file.Close()
		if header.Filename != "" {
			img = &services.Image{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Body:        file,
			}
		}
	}

	item, err := h.catalog.CreateItem(r.Context(), middlewares.AdminFromContext(r.Context()), in, img)
	if err != nil {
		writeServiceError(w, h.logger, err, "create item")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, item)
}

// numericField accepts 5 as well as "5"; admin forms often post numbers as strings.
type numericField int64

func (n *numericField) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var raw json.Number
	if err := json.Unmarshal(b, &raw); err != nil {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = json.Number(strings.TrimSpace(s))
	}
	v, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return fmt.Errorf("not an integer: %s", b)
	}
	*n = numericField(v)
	return nil
}

type availabilityRequest struct {
	ItemID       numericField `json:"item_id"`
	Availability numericField `json:"availability"`
}

func (h *MenuHandler) UpdateAvailability(w http.ResponseWriter, r *http.Request) {
	var req availabilityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.catalog.SetAvailability(r.Context(), middlewares.AdminFromContext(r.Context()), int64(req.ItemID), int(req.Availability))
	if err != nil {
		writeServiceError(w, h.logger, err, "update availability")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
