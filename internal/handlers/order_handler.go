package handlers

import (
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for the authenticated user's orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the order routes behind auth.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	orderRoutes := router.Group("/orders", auth)
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
}

// CheckoutRequest is the body of POST /orders.
type CheckoutRequest struct {
	ShippingAddress models.Address `json:"shipping_address"`
	PaymentMethod   string         `json:"payment_method" validate:"required,max=50"`
}

// UpdateStatusRequest is the body of PATCH /orders/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleGetOrders lists the user's orders, newest first.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	page, err := h.service.ListByUser(userID, c.QueryInt("page", 1), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, page)
}

// HandleGetOrderByID retrieves one of the user's orders.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	order, err := h.service.GetOrderForUser(userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, order)
}

// HandleCreateOrder checks out the user's cart.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body", err)
	}
	if ok, err := validateBody(c, h.validate, req); !ok {
		return err
	}

	order, err := h.service.CreateFromCart(userID, req.ShippingAddress, req.PaymentMethod)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusCreated, order)
}

// HandleCancelOrder cancels one of the user's orders and restocks its items.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	order, err := h.service.GetOrderForUser(userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	order, err = h.service.CancelOrder(order.ID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, order)
}

// HandleUpdateOrderStatus moves one of the user's orders to a new status.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body", err)
	}
	if ok, err := validateBody(c, h.validate, req); !ok {
		return err
	}

	order, err := h.service.GetOrderForUser(userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	order, err = h.service.UpdateOrderStatus(order.ID, models.OrderStatus(req.Status))
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, fiber.StatusOK, order)
}
