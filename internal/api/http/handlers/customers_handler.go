package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-copilot/internal/api/dto"
	"github.com/spec-kit/support-copilot/internal/service"
	apperrors "github.com/spec-kit/support-copilot/pkg/util/errorutil"
)

// CustomersHandler manages customer registry endpoints.
type CustomersHandler struct {
	service *service.CustomerService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(customerService *service.CustomerService) *CustomersHandler {
	return &CustomersHandler{service: customerService}
}

// CreateCustomer POST /customers.
func (h *CustomersHandler) CreateCustomer(c *fiber.Ctx) error {
	var req dto.CreateCustomerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	customer, err := h.service.Create(c.UserContext(), req.Name, req.Email, req.Company, req.Tier)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewCustomerResponse(customer)})
}

// GetCustomer GET /customers/:id.
func (h *CustomersHandler) GetCustomer(c *fiber.Ctx) error {
	customer, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCustomerResponse(customer)})
}

// ListCustomers GET /customers.
func (h *CustomersHandler) ListCustomers(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	customers, err := h.service.List(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, dto.NewCustomerResponse(&customers[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
