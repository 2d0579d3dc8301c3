package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/rentline-backend/internal/domain"
	"github.com/yungbote/rentline-backend/internal/repos"
	"github.com/yungbote/rentline-backend/internal/requestdata"
	"github.com/yungbote/rentline-backend/internal/services"
)

type RentalRequestHandler struct {
	rentalRequestService services.RentalRequestService
}

func NewRentalRequestHandler(rentalRequestService services.RentalRequestService) *RentalRequestHandler {
	return &RentalRequestHandler{rentalRequestService: rentalRequestService}
}

func callerFromContext(c *gin.Context) (domain.Caller, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		return domain.Caller{}, false
	}
	return domain.Caller{UserID: rd.UserID, Role: rd.Role}, true
}

func (rh *RentalRequestHandler) List(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	filter := repos.RentalRequestFilter{
		Status: c.Query("status"),
	}
	if raw := c.Query("listing_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, string(domain.CodeInvalidInput), err)
			return
		}
		filter.ListingID = &id
	}
	if raw := c.Query("page"); raw != "" {
		filter.Page, _ = strconv.Atoi(raw)
	}
	if raw := c.Query("limit"); raw != "" {
		filter.Limit, _ = strconv.Atoi(raw)
	}
	rows, err := rh.rentalRequestService.List(c.Request.Context(), caller, filter)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"rental_requests": rows})
}

func (rh *RentalRequestHandler) GetByID(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, string(domain.CodeInvalidInput), err)
		return
	}
	row, err := rh.rentalRequestService.GetByID(c.Request.Context(), requestID, caller)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"rental_request": row})
}

type createRentalRequestBody struct {
	ListingID     string `json:"listing_id" binding:"required"`
	Message       string `json:"message"`
	DesiredMoveIn string `json:"desired_move_in"`
}

func (rh *RentalRequestHandler) Create(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var body createRentalRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, string(domain.CodeInvalidInput), err)
		return
	}
	listingID, err := uuid.Parse(body.ListingID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, string(domain.CodeInvalidInput), err)
		return
	}
	input := services.CreateRentalRequestInput{
		ListingID: listingID,
		Message:   body.Message,
	}
	if body.DesiredMoveIn != "" {
		moveIn, err := time.Parse("2006-01-02", body.DesiredMoveIn)
		if err != nil {
			RespondError(c, http.StatusBadRequest, string(domain.CodeInvalidInput), err)
			return
		}
		input.DesiredMoveIn = &moveIn
	}
	request, err := rh.rentalRequestService.Create(c.Request.Context(), caller, input)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"rental_request": request})
}

type transitionBody struct {
	Status string `json:"status" binding:"required"`
}

func (rh *RentalRequestHandler) Transition(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, string(domain.CodeInvalidInput), err)
		return
	}
	var body transitionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, string(domain.CodeInvalidInput), err)
		return
	}
	request, err := rh.rentalRequestService.Transition(c.Request.Context(), requestID, body.Status, caller)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"rental_request": request})
}
