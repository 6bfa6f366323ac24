package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/outvoice/backend/internal/application/addressbook"
	domainbook "github.com/outvoice/backend/internal/domain/addressbook"
)

// clientService is the application surface the handler depends on.
type clientService interface {
	Add(ctx context.Context, input addressbook.ClientInput) error
	Remove(ctx context.Context, input addressbook.ClientInput) (bool, error)
	Search(ctx context.Context, firstName, lastName string) ([]domainbook.Client, error)
}

// ClientForm is an address-book mutation request body.
type ClientForm struct {
	FirstName    string `json:"firstName" binding:"required"`
	LastName     string `json:"lastName" binding:"required"`
	AddressLine1 string `json:"addressLine1" binding:"required"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city" binding:"required"`
	PostCode     string `json:"postCode" binding:"required"`
}

// ClientResponse is one address-book entry in API responses.
type ClientResponse struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city"`
	PostCode     string `json:"postCode"`
}

// ClientHandler handles address-book requests
type ClientHandler struct {
	BaseHandler
	service clientService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(service clientService) *ClientHandler {
	return &ClientHandler{service: service}
}

// Add handles POST /clients.
func (h *ClientHandler) Add(c *gin.Context) {
	var form ClientForm
	if err := c.ShouldBindJSON(&form); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.service.Add(c.Request.Context(), form.toInput()); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, gin.H{"stored": true})
}

// Remove handles POST /clients/remove. Removal identifies the entry by
// all six fields, so it takes the same body as Add. An entry that was
// never stored reports removed=false rather than an error.
func (h *ClientHandler) Remove(c *gin.Context) {
	var form ClientForm
	if err := c.ShouldBindJSON(&form); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	removed, err := h.service.Remove(c.Request.Context(), form.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"removed": removed})
}

// Search handles GET /clients/search?firstName=&lastName=.
func (h *ClientHandler) Search(c *gin.Context) {
	firstName := c.Query("firstName")
	lastName := c.Query("lastName")

	clients, err := h.service.Search(c.Request.Context(), firstName, lastName)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	results := make([]ClientResponse, len(clients))
	for i, client := range clients {
		results[i] = ClientResponse{
			FirstName:    client.FirstName,
			LastName:     client.LastName,
			AddressLine1: client.AddressLine1,
			AddressLine2: client.AddressLine2,
			City:         client.City,
			PostCode:     client.PostCode,
		}
	}
	h.Success(c, results)
}

func (f *ClientForm) toInput() addressbook.ClientInput {
	return addressbook.ClientInput{
		FirstName:    f.FirstName,
		LastName:     f.LastName,
		AddressLine1: f.AddressLine1,
		AddressLine2: f.AddressLine2,
		City:         f.City,
		PostCode:     f.PostCode,
	}
}
