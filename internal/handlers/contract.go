package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/rentline-backend/internal/domain"
	"github.com/yungbote/rentline-backend/internal/repos"
	"github.com/yungbote/rentline-backend/internal/services"
)

type ContractHandler struct {
	contractService services.ContractService
}

func NewContractHandler(contractService services.ContractService) *ContractHandler {
	return &ContractHandler{contractService: contractService}
}

func (ch *ContractHandler) List(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	filter := repos.ContractFilter{
		Status: c.Query("status"),
	}
	if raw := c.Query("page"); raw != "" {
		filter.Page, _ = strconv.Atoi(raw)
	}
	if raw := c.Query("limit"); raw != "" {
		filter.Limit, _ = strconv.Atoi(raw)
	}
	views, err := ch.contractService.List(c.Request.Context(), caller, filter)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"contracts": views})
}

func (ch *ContractHandler) GetByID(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, string(domain.CodeInvalidInput), err)
		return
	}
	view, err := ch.contractService.GetByID(c.Request.Context(), contractID, caller)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"contract": view})
}

type createContractBody struct {
	RentalRequestID string   `json:"rental_request_id" binding:"required"`
	StartDate       string   `json:"start_date" binding:"required"`
	EndDate         string   `json:"end_date"`
	Rent            float64  `json:"rent"`
	Deposit         float64  `json:"deposit"`
	TenantIDs       []string `json:"tenant_ids"`
}

func (ch *ContractHandler) Create(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var body createContractBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, string(domain.CodeInvalidInput), err)
		return
	}
	requestID, err := uuid.Parse(body.RentalRequestID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, string(domain.CodeInvalidInput), err)
		return
	}
	startDate, err := time.Parse("2006-01-02", body.StartDate)
	if err != nil {
		RespondError(c, http.StatusBadRequest, string(domain.CodeInvalidInput), err)
		return
	}
	input := services.CreateContractInput{
		RentalRequestID: requestID,
		StartDate:       startDate,
		Rent:            body.Rent,
		Deposit:         body.Deposit,
	}
	if body.EndDate != "" {
		endDate, err := time.Parse("2006-01-02", body.EndDate)
		if err != nil {
			RespondError(c, http.StatusBadRequest, string(domain.CodeInvalidInput), err)
			return
		}
		input.EndDate = &endDate
	}
	for _, raw := range body.TenantIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, string(domain.CodeInvalidInput), err)
			return
		}
		input.TenantIDs = append(input.TenantIDs, id)
	}
	contract, err := ch.contractService.CreateFromRequest(c.Request.Context(), caller, input)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"contract": contract})
}

type updateContractBody struct {
	StartDate *string  `json:"start_date"`
	EndDate   *string  `json:"end_date"`
	Rent      *float64 `json:"rent"`
	Deposit   *float64 `json:"deposit"`
	Status    *string  `json:"status"`
}

func (ch *ContractHandler) Update(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, string(domain.CodeInvalidInput), err)
		return
	}
	var body updateContractBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, string(domain.CodeInvalidInput), err)
		return
	}
	update := domain.ContractUpdate{
		Rent:    body.Rent,
		Deposit: body.Deposit,
		Status:  body.Status,
	}
	if body.StartDate != nil {
		startDate, err := time.Parse("2006-01-02", *body.StartDate)
		if err != nil {
			RespondError(c, http.StatusBadRequest, string(domain.CodeInvalidInput), err)
			return
		}
		update.StartDate = &startDate
	}
	if body.EndDate != nil {
		endDate, err := time.Parse("2006-01-02", *body.EndDate)
		if err != nil {
			RespondError(c, http.StatusBadRequest, string(domain.CodeInvalidInput), err)
			return
		}
		update.EndDate = &endDate
	}
	contract, err := ch.contractService.Update(c.Request.Context(), contractID, caller, update)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"contract": contract})
}

type proposeEndDateBody struct {
	ProposedEndDate string `json:"proposed_end_date" binding:"required"`
}

func (ch *ContractHandler) ProposeEndDate(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, string(domain.CodeInvalidInput), err)
		return
	}
	var body proposeEndDateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, string(domain.CodeInvalidInput), err)
		return
	}
	date, err := time.Parse("2006-01-02", body.ProposedEndDate)
	if err != nil {
		RespondError(c, http.StatusBadRequest, string(domain.CodeInvalidInput), err)
		return
	}
	proposal, err := ch.contractService.ProposeEndDate(c.Request.Context(), contractID, caller, date)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"proposed_end_date": proposal})
}

func (ch *ContractHandler) Agreement(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, string(domain.CodeInvalidInput), err)
		return
	}
	state, view, err := ch.contractService.Agreement(c.Request.Context(), contractID, caller)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, gin.H{"agreement": state, "proposed_end_dates": view})
}

type signBody struct {
	SignatureMethod string `json:"signature_method"`
}

func (ch *ContractHandler) Sign(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	contractID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, string(domain.CodeInvalidInput), err)
		return
	}
	var body signBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			RespondError(c, http.StatusBadRequest, string(domain.CodeInvalidInput), err)
			return
		}
	}
	signature, err := ch.contractService.Sign(c.Request.Context(), contractID, caller, body.SignatureMethod)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"signature": signature})
}
