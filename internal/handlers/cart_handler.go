package handlers

import (
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the authenticated user's cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the cart routes behind auth.
func (h *CartHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	cartRoutes := router.Group("/cart", auth)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Put("/items/:id", h.HandleUpdateItem)
	cartRoutes.Delete("/items/:id", h.HandleRemoveItem)
	cartRoutes.Delete("/", h.HandleClearCart)
}

// AddItemRequest is the body of POST /cart/items.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity"`
}

// UpdateItemRequest is the body of PUT /cart/items/:id.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// HandleGetCart returns the priced cart.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	return h.respondCart(c, userID, fiber.StatusOK)
}

// HandleAddItem adds a product to the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body", err)
	}
	if ok, err := validateBody(c, h.validate, req); !ok {
		return err
	}

	if _, err := h.service.AddItem(userID, req.ProductID, req.Quantity); err != nil {
		return respondError(c, err)
	}
	return h.respondCart(c, userID, fiber.StatusCreated)
}

// HandleUpdateItem changes the quantity of a cart item.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	var req UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadRequest(c, "Invalid request body", err)
	}

	if _, err := h.service.UpdateQuantity(userID, c.Params("id"), req.Quantity); err != nil {
		return respondError(c, err)
	}
	return h.respondCart(c, userID, fiber.StatusOK)
}

// HandleRemoveItem removes an item from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.RemoveItem(userID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return h.respondCart(c, userID, fiber.StatusOK)
}

// HandleClearCart removes every item from the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.service.Clear(userID); err != nil {
		return respondError(c, err)
	}
	return h.respondCart(c, userID, fiber.StatusOK)
}

func (h *CartHandler) respondCart(c *fiber.Ctx, userID string, status int) error {
	cart, err := h.service.GetCart(userID)
	if err != nil {
		return respondError(c, err)
	}
	return respond(c, status, cart)
}
