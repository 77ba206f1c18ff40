package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/qrmenu/models"
	"github.com/ray-remotestate/qrmenu/utils"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, req *models.PlaceOrderRequest) (*models.Receipt, error)
}

type BillService interface {
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
	MarkDownloaded(ctx context.Context, orderID string) error
}

type OrderHandler struct {
	orders OrderService
	bills  BillService
	logger logrus.FieldLogger
}

func NewOrderHandler(orders OrderService, bills BillService, logger logrus.FieldLogger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		bills:  bills,
		logger: logger,
	}
}

func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req models.PlaceOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	receipt, err := h.orders.PlaceOrder(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.logger, err, "place order")
		return
	}
	utils.WriteJSON(w, http.StatusOK, receipt)
}

func (h *OrderHandler) GetBill(w http.ResponseWriter, r *http.Request) {
	order, err := h.bills.GetOrder(r.Context(), mux.Vars(r)["order_id"])
	if err != nil {
		writeServiceError(w, h.logger, err, "load bill")
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) MarkBillDownloaded(w http.ResponseWriter, r *http.Request) {
	if err := h.bills.MarkDownloaded(r.Context(), mux.Vars(r)["order_id"]); err != nil {
		writeServiceError(w, h.logger, err, "mark bill downloaded")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
