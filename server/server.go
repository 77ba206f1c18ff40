package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/qrmenu/handlers"
	"github.com/ray-remotestate/qrmenu/middlewares"
	"github.com/ray-remotestate/qrmenu/models"
)

type Server struct {
	Router *mux.Router
	server *http.Server
}

const (
	readTimeout       = 5 * time.Minute
	readHeaderTimeout = 30 * time.Second
	writeTimeout      = 5 * time.Minute
)

// Handlers bundles everything the router dispatches to.
type Handlers struct {
	Menu   *handlers.MenuHandler
	Orders *handlers.OrderHandler
	Admin  *handlers.AdminHandler
	Public *handlers.PublicHandler
}

func SetupRoutes(h Handlers, secret []byte, logger logrus.FieldLogger) *Server {
	router := mux.NewRouter()
	// logger outermost so recovered panics still get their request line
	router.Use(middlewares.RequestLogger(logger), middlewares.Recoverer(logger))

	router.HandleFunc("/health", h.Public.Health).Methods("GET")
	router.HandleFunc("/qr", h.Public.QRCode).Methods("GET")
	// the QR code points here
	router.HandleFunc("/menu", h.Menu.GetMenu).Methods("GET")
	router.HandleFunc("/images/{file}", h.Public.Image).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/menu", h.Menu.GetMenu).Methods("GET")
	api.HandleFunc("/categories", h.Menu.ListCategories).Methods("GET")
	api.HandleFunc("/orders", h.Orders.PlaceOrder).Methods("POST")
	api.HandleFunc("/bills/{order_id}", h.Orders.GetBill).Methods("GET")
	api.HandleFunc("/bills/{order_id}/download", h.Orders.MarkBillDownloaded).Methods("GET")
	api.HandleFunc("/admin/login", h.Admin.Login).Methods("POST")

	// admin only
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middlewares.AuthMiddleware(secret, logger), middlewares.RoleBasedMiddleware(models.RoleAdmin))

	admin.HandleFunc("/logout", h.Admin.Logout).Methods("POST")
	admin.HandleFunc("/dashboard", h.Admin.Dashboard).Methods("GET")
	admin.HandleFunc("/items", h.Menu.ListItems).Methods("GET")
	admin.HandleFunc("/items", h.Menu.CreateItem).Methods("POST")
	admin.HandleFunc("/availability", h.Menu.UpdateAvailability).Methods("POST")

	return &Server{
		Router: router,
		server: &http.Server{
			Handler:           router,
			ReadTimeout:       readTimeout,
			ReadHeaderTimeout: readHeaderTimeout,
			WriteTimeout:      writeTimeout,
		},
	}
}

// Run blocks until the server stops. After Shutdown it returns http.ErrServerClosed.
func (svr *Server) Run(port string) error {
	l, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return err
	}
	return svr.server.Serve(l)
}

func (svr *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return svr.server.Shutdown(ctx)
}
