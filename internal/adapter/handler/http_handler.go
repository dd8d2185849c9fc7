package handler

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/rl1809/inventory-service/internal/core/domain"
	"github.com/rl1809/inventory-service/internal/core/service"
	"github.com/rl1809/inventory-service/internal/port"
)

const userIDKey = "user_id"

type HTTPHandler struct {
	auth   *service.AuthService
	items  *service.ItemService
	tokens port.TokenService
}

type RegisterHTTPRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type LoginHTTPRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenHTTPResponse struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

// ItemHTTPRequest carries every writable field; id, user and the timestamps
// are read-only and ignored when sent.
type ItemHTTPRequest struct {
	Name        *string          `json:"name"`
	Description string           `json:"description"`
	Quantity    *int             `json:"quantity"`
	Price       *decimal.Decimal `json:"price"`
	Category    string           `json:"category"`
}

type ItemHTTPResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	Price       string    `json:"price"`
	Category    string    `json:"category"`
	DateAdded   time.Time `json:"date_added"`
	LastUpdated time.Time `json:"last_updated"`
	User        int64     `json:"user"`
}

func NewHTTPHandler(auth *service.AuthService, items *service.ItemService, tokens port.TokenService) *HTTPHandler {
	return &HTTPHandler{auth: auth, items: items, tokens: tokens}
}

func (h *HTTPHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/health", h.HealthCheck)
	app.Post("/register", h.Register)
	app.Post("/login", h.Login)

	inventory := app.Group("/inventory", h.RequireAuth)
	inventory.Get("/", h.ListItems)
	inventory.Post("/create", h.CreateItem)
	inventory.Put("/:id/update", h.UpdateItem)
	inventory.Delete("/:id/delete", h.DeleteItem)
}

// RequireAuth resolves the bearer token to a user id and stores it in the
// request locals. Every failure produces the same 401.
func (h *HTTPHandler) RequireAuth(c *fiber.Ctx) error {
	scheme, token, ok := strings.Cut(strings.TrimSpace(c.Get(fiber.HeaderAuthorization)), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return errUnauthorized
	}

	userID, err := h.tokens.VerifyAccess(strings.TrimSpace(token))
	if err != nil {
		return errUnauthorized
	}

	c.Locals(userIDKey, userID)
	return c.Next()
}

func (h *HTTPHandler) Register(c *fiber.Ctx) error {
	var req RegisterHTTPRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	_, err := h.auth.Register(c.UserContext(), domain.RegisterRequest{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User registered successfully"})
}

func (h *HTTPHandler) Login(c *fiber.Ctx) error {
	var req LoginHTTPRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	pair, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(TokenHTTPResponse{Refresh: pair.Refresh, Access: pair.Access})
}

func (h *HTTPHandler) ListItems(c *fiber.Ctx) error {
	items, err := h.items.List(c.UserContext(), currentUser(c))
	if err != nil {
		return err
	}

	out := make([]ItemHTTPResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	return c.JSON(out)
}

func (h *HTTPHandler) CreateItem(c *fiber.Ctx) error {
	var req ItemHTTPRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	requestID := strings.TrimSpace(c.Get("Idempotency-Key"))
	item, err := h.items.Create(c.UserContext(), requestID, currentUser(c), req.fields())
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toItemResponse(item))
}

func (h *HTTPHandler) UpdateItem(c *fiber.Ctx) error {
	itemID, err := itemIDParam(c)
	if err != nil {
		return err
	}

	var req ItemHTTPRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	item, err := h.items.Update(c.UserContext(), currentUser(c), itemID, req.fields())
	if err != nil {
		return err
	}

	return c.JSON(toItemResponse(item))
}

func (h *HTTPHandler) DeleteItem(c *fiber.Ctx) error {
	itemID, err := itemIDParam(c)
	if err != nil {
		return err
	}

	if err := h.items.Delete(c.UserContext(), currentUser(c), itemID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *HTTPHandler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (r ItemHTTPRequest) fields() domain.ItemFields {
	return domain.ItemFields{
		Name:        r.Name,
		Description: r.Description,
		Quantity:    r.Quantity,
		Price:       r.Price,
		Category:    r.Category,
	}
}

func toItemResponse(item domain.InventoryItem) ItemHTTPResponse {
	return ItemHTTPResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Quantity:    item.Quantity,
		Price:       item.Price.StringFixed(2),
		Category:    item.Category,
		DateAdded:   item.DateAdded,
		LastUpdated: item.LastUpdated,
		User:        item.OwnerID,
	}
}

// currentUser is only called behind RequireAuth.
func currentUser(c *fiber.Ctx) int64 {
	id, _ := c.Locals(userIDKey).(int64)
	return id
}

// itemIDParam treats an id that is not a positive integer like an unknown item.
func itemIDParam(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, domain.ErrNotFound
	}
	return int64(id), nil
}
