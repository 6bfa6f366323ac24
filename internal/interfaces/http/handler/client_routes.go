package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes registers address-book routes
func (h *ClientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	clients := rg.Group("/clients")
	{
		clients.POST("", h.Add)
		clients.POST("/remove", h.Remove)
		clients.GET("/search", h.Search)
	}
}
