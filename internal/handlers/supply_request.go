package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skywardclean/ordering-backend/internal/services"
	"github.com/skywardclean/ordering-backend/internal/types"
)

type SupplyRequestHandler struct {
	requestService *services.SupplyRequestService
}

func NewSupplyRequestHandler(requestService *services.SupplyRequestService) *SupplyRequestHandler {
	return &SupplyRequestHandler{requestService: requestService}
}

func (rh *SupplyRequestHandler) Submit(c *gin.Context) {
	var req types.SupplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	result, err := rh.requestService.Submit(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"success": true, "result": result})
}
