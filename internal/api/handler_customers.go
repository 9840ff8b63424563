package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking-backend/internal/model"
)

type customerRequest struct {
	Name  string `json:"name" binding:"required,max=256"`
	Email string `json:"email" binding:"omitempty,email,max=256"`
}

type customerResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func toCustomerResponse(cu *model.Customer) customerResponse {
	return customerResponse{ID: cu.ID, Name: cu.Name, Email: cu.Email}
}

// ListCustomers returns all customers in id order.
func (h *Handler) ListCustomers(c *gin.Context) {
	customers, err := h.customers.GetAll(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	resp := make([]customerResponse, len(customers))
	for i := range customers {
		resp[i] = toCustomerResponse(&customers[i])
	}
	c.JSON(http.StatusOK, resp)
}

// GetCustomer returns a single customer.
func (h *Handler) GetCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	customer, err := h.customers.Get(c.Request.Context(), id)
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(customer))
}

// CreateCustomer adds a customer.
func (h *Handler) CreateCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	customer := &model.Customer{Name: req.Name, Email: req.Email}
	if err := h.customers.Add(c.Request.Context(), customer); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCustomerResponse(customer))
}

// UpdateCustomer changes the name and email of a customer.
func (h *Handler) UpdateCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	customer, err := h.customers.Get(ctx, id)
	if err != nil {
		storeError(c, err)
		return
	}
	customer.Name = req.Name
	customer.Email = req.Email
	if err := h.customers.Edit(ctx, customer); err != nil {
		storeError(c, conflictAsNotFound(err))
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(customer))
}

// DeleteCustomer removes a customer. Their bookings and push subscriptions
// go with them through the foreign key cascades.
func (h *Handler) DeleteCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.customers.Remove(c.Request.Context(), id); err != nil {
		storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
