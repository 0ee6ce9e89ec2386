package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/asquebay/coffee-order-service/internal/model"
)

// CatalogManager определяет операции с каталогом, которые нужны хэндлеру
type CatalogManager interface {
	CreateDrink(ctx context.Context, in model.DrinkCreate) (model.Drink, error)
	GetDrink(ctx context.Context, id int) (model.Drink, error)
	ListDrinks(ctx context.Context, skip, limit int) ([]model.Drink, error)
	UpdateDrink(ctx context.Context, id int, upd model.DrinkUpdate) (model.Drink, error)
	DeleteDrink(ctx context.Context, id int) (model.Drink, error)

	CreateTopping(ctx context.Context, in model.ToppingCreate) (model.Topping, error)
	GetTopping(ctx context.Context, id int) (model.Topping, error)
	ListToppings(ctx context.Context, skip, limit int) ([]model.Topping, error)
	UpdateTopping(ctx context.Context, id int, upd model.ToppingUpdate) (model.Topping, error)
	DeleteTopping(ctx context.Context, id int) (model.Topping, error)
}

// OrderManager определяет операции с заказами, которые нужны хэндлеру
type OrderManager interface {
	PlaceOrder(ctx context.Context, req model.OrderCreate) (model.Order, error)
	GetOrder(ctx context.Context, id int) (model.Order, error)
	ListOrders(ctx context.Context, skip, limit int) ([]model.Order, error)
	MostUsedToppings(ctx context.Context) ([]model.Topping, error)
}

// Handler обрабатывает HTTP-запросы
type Handler struct {
	catalog      CatalogManager
	orders       OrderManager
	log          *slog.Logger
	router       *mux.Router
	defaultLimit int
}

// NewHandler создает новый экземпляр Handler
// defaultLimit используется, когда клиент не передал limit
func NewHandler(catalog CatalogManager, orders OrderManager, defaultLimit int, log *slog.Logger) *Handler {
	h := &Handler{
		catalog:      catalog,
		orders:       orders,
		log:          log,
		router:       mux.NewRouter(),
		defaultLimit: defaultLimit,
	}
	h.registerRoutes()
	return h
}

// ServeHTTP делает Handler совместимым с http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// registerRoutes регистрирует все эндпоинты
func (h *Handler) registerRoutes() {
	h.router.Use(h.requestIDMiddleware, h.loggingMiddleware)
	h.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.respondError(w, http.StatusNotFound, "route not found")
	})
	h.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	h.router.HandleFunc("/healthz", h.health).Methods(http.MethodGet)

	// эндпоинты администратора
	admin := h.router.PathPrefix("/admin").Subrouter()
	collection(admin, "/drinks", h.createDrink, http.MethodPost)
	collection(admin, "/drinks", h.listDrinks, http.MethodGet)
	admin.HandleFunc("/drinks/{id}", h.getDrink).Methods(http.MethodGet)
	admin.HandleFunc("/drinks/{id}", h.updateDrink).Methods(http.MethodPut)
	admin.HandleFunc("/drinks/{id}", h.deleteDrink).Methods(http.MethodDelete)

	collection(admin, "/toppings", h.createTopping, http.MethodPost)
	collection(admin, "/toppings", h.listToppings, http.MethodGet)
	admin.HandleFunc("/toppings/{id}", h.getTopping).Methods(http.MethodGet)
	admin.HandleFunc("/toppings/{id}", h.updateTopping).Methods(http.MethodPut)
	admin.HandleFunc("/toppings/{id}", h.deleteTopping).Methods(http.MethodDelete)

	collection(admin, "/most-used-toppings", h.mostUsedToppings, http.MethodGet)

	// эндпоинты покупателя
	customer := h.router.PathPrefix("/customer").Subrouter()
	collection(customer, "/drinks", h.listDrinks, http.MethodGet)
	collection(customer, "/toppings", h.listToppings, http.MethodGet)
	collection(customer, "/order-drinks", h.placeOrder, http.MethodPost)
	collection(customer, "/orders", h.listOrders, http.MethodGet)
	customer.HandleFunc("/orders/{id}", h.getOrder).Methods(http.MethodGet)
}

// collection регистрирует маршрут и со слэшем на конце, и без него
// StrictSlash не подходит: редирект ломает POST-запросы
func collection(r *mux.Router, path string, f http.HandlerFunc, method string) {
	r.HandleFunc(path, f).Methods(method)
	r.HandleFunc(path+"/", f).Methods(method)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) createDrink(w http.ResponseWriter, r *http.Request) {
	var in model.DrinkCreate
	if !h.decodeAndValidate(w, r, &in) {
		return
	}

	drink, err := h.catalog.CreateDrink(r.Context(), in)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, drink)
}

func (h *Handler) listDrinks(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := h.pagination(w, r)
	if !ok {
		return
	}

	drinks, err := h.catalog.ListDrinks(r.Context(), skip, limit)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, drinks)
}

func (h *Handler) getDrink(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	drink, err := h.catalog.GetDrink(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, drink)
}

func (h *Handler) updateDrink(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var upd model.DrinkUpdate
	if !h.decodeAndValidate(w, r, &upd) {
		return
	}

	drink, err := h.catalog.UpdateDrink(r.Context(), id, upd)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, drink)
}

func (h *Handler) deleteDrink(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	drink, err := h.catalog.DeleteDrink(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, drink)
}

func (h *Handler) createTopping(w http.ResponseWriter, r *http.Request) {
	var in model.ToppingCreate
	if !h.decodeAndValidate(w, r, &in) {
		return
	}

	topping, err := h.catalog.CreateTopping(r.Context(), in)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, topping)
}

func (h *Handler) listToppings(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := h.pagination(w, r)
	if !ok {
		return
	}

	toppings, err := h.catalog.ListToppings(r.Context(), skip, limit)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toppings)
}

func (h *Handler) getTopping(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	topping, err := h.catalog.GetTopping(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, topping)
}

func (h *Handler) updateTopping(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var upd model.ToppingUpdate
	if !h.decodeAndValidate(w, r, &upd) {
		return
	}

	topping, err := h.catalog.UpdateTopping(r.Context(), id, upd)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, topping)
}

func (h *Handler) deleteTopping(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	topping, err := h.catalog.DeleteTopping(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, topping)
}

func (h *Handler) mostUsedToppings(w http.ResponseWriter, r *http.Request) {
	toppings, err := h.orders.MostUsedToppings(r.Context())
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, toppings)
}

// placeOrder валидирует заказ в сервисном слое, т.к. те же правила действуют и для заявок из кафки
func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req model.OrderCreate
	if !h.decode(w, r, &req) {
		return
	}

	order, err := h.orders.PlaceOrder(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, order)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := h.pagination(w, r)
	if !ok {
		return
	}

	orders, err := h.orders.ListOrders(r.Context(), skip, limit)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, order)
}

// validatable реализуется всеми моделями запросов
type validatable interface {
	Validate() error
}

// decode читает ровно одно JSON-значение, всё кроме пробелов после него считается ошибкой
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst validatable) bool {
	if !h.decode(w, r, dst) {
		return false
	}
	if err := dst.Validate(); err != nil {
		h.respondServiceError(w, err)
		return false
	}
	return true
}

// pathID извлекает id из URL
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "id must be an integer")
		return 0, false
	}
	return id, true
}

// pagination читает skip и limit из query-параметров
// отрицательные значения передаются дальше и отклоняются хранилищем
func (h *Handler) pagination(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	skip, limit := 0, h.defaultLimit
	q := r.URL.Query()

	if v := q.Get("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "skip must be an integer")
			return 0, 0, false
		}
		skip = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "limit must be an integer")
			return 0, 0, false
		}
		limit = n
	}
	return skip, limit, true
}

// respondServiceError переводит доменные ошибки в HTTP-статусы
func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	var notFound *model.NotFoundError
	var invalid *model.InvalidRequestError

	switch {
	case errors.As(err, &notFound):
		h.respondError(w, http.StatusNotFound, capitalize(notFound.Error()))
	case errors.As(err, &invalid):
		h.respondError(w, http.StatusUnprocessableEntity, invalid.Reason)
	case errors.Is(err, model.ErrNotFound):
		h.respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, model.ErrInvalidRequest):
		h.respondError(w, http.StatusUnprocessableEntity, "invalid request")
	default:
		h.log.Error("internal server error", slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("failed to marshal JSON response", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "internal server error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(response)
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
