package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/farm_payouts/internal/core/domain"
	portssvc "github.com/SscSPs/farm_payouts/internal/core/ports/services"
	"github.com/SscSPs/farm_payouts/internal/dto"
	"github.com/SscSPs/farm_payouts/internal/middleware"
	"github.com/gin-gonic/gin"
)

// payoutHandler handles HTTP requests related to payouts.
type payoutHandler struct {
	payoutService portssvc.PayoutSvcFacade
}

func newPayoutHandler(ps portssvc.PayoutSvcFacade) *payoutHandler {
	return &payoutHandler{payoutService: ps}
}

// RegisterPayoutRoutes registers routes related to payouts.
func RegisterPayoutRoutes(rg *gin.RouterGroup, payoutService portssvc.PayoutSvcFacade) {
	h := newPayoutHandler(payoutService)

	collections := rg.Group("/collections/:collectionID/payout")
	{
		collections.POST("", h.processPayout)
		collections.GET("", h.getPayoutByCollection)
		collections.GET("/preview", h.previewPayout)
	}

	payouts := rg.Group("/payouts")
	{
		payouts.GET("/:payoutID", h.getPayout)
		payouts.POST("/reconcile", middleware.RequireRole(middleware.RoleAdmin), h.reconcilePayouts)
	}

	rg.GET("/farmers/:farmerID/payouts", h.listFarmerPayouts)
}

// processPayout godoc
// @Summary Process the payout for a verified collection
// @Description Calculates loan recovery, dispatches the net amount and settles the loan. Repeating the call for a completed collection returns the stored payout.
// @Tags payouts
// @Produce json
// @Param collectionID path string true "Collection ID"
// @Success 200 {object} dto.ProcessPayoutResponse
// @Failure 400 {object} map[string]string "Invalid input or calculation rejected"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Collection or farmer not found"
// @Failure 409 {object} map[string]string "Payout already in progress"
// @Failure 422 {object} map[string]string "Collection is not verified"
// @Failure 429 {object} map[string]string "Rate limit exceeded"
// @Failure 502 {object} map[string]interface{} "Gateway rejected the payout"
// @Failure 503 {object} map[string]interface{} "Gateway outcome unknown, retry later"
// @Failure 500 {object} map[string]string "Failed to process payout"
// @Security BearerAuth
// @Router /collections/{collectionID}/payout [post]
func (h *payoutHandler) processPayout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	collectionID := c.Param("collectionID")

	processedBy, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("collection_id", collectionID))
	logger.Info("Received request to process payout")

	result, err := h.payoutService.ProcessPayout(c.Request.Context(), collectionID, processedBy)
	if err != nil {
		respondError(c, logger, err, "Failed to process payout")
		return
	}

	logger.Info("Payout processed",
		slog.String("payout_id", result.Payout.PayoutID),
		slog.String("status", string(result.Payout.Status)),
		slog.Bool("replayed", result.Replayed),
	)
	c.JSON(http.StatusOK, dto.ToProcessPayoutResponse(result))
}

// getPayoutByCollection godoc
// @Summary Get the latest payout for a collection
// @Tags payouts
// @Produce json
// @Param collectionID path string true "Collection ID"
// @Success 200 {object} dto.PayoutResponse
// @Failure 404 {object} map[string]string "No payout for collection"
// @Failure 500 {object} map[string]string "Failed to retrieve payout"
// @Security BearerAuth
// @Router /collections/{collectionID}/payout [get]
func (h *payoutHandler) getPayoutByCollection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("collection_id", c.Param("collectionID")))

	payout, err := h.payoutService.GetPayoutByCollectionID(c.Request.Context(), c.Param("collectionID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve payout")
		return
	}
	c.JSON(http.StatusOK, dto.ToPayoutResponse(payout))
}

// previewPayout godoc
// @Summary Preview the loan recovery split for a collection
// @Description Runs the payout calculation against the current loan balance without side effects.
// @Tags payouts
// @Produce json
// @Param collectionID path string true "Collection ID"
// @Success 200 {object} dto.PayoutPreviewResponse
// @Failure 404 {object} map[string]string "Collection not found"
// @Failure 500 {object} map[string]string "Failed to preview payout"
// @Security BearerAuth
// @Router /collections/{collectionID}/payout/preview [get]
func (h *payoutHandler) previewPayout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("collection_id", c.Param("collectionID")))

	calc, err := h.payoutService.PreviewPayout(c.Request.Context(), c.Param("collectionID"))
	if err != nil {
		respondError(c, logger, err, "Failed to preview payout")
		return
	}
	c.JSON(http.StatusOK, dto.ToPayoutPreviewResponse(calc))
}

// getPayout godoc
// @Summary Get a payout attempt by ID
// @Tags payouts
// @Produce json
// @Param payoutID path string true "Payout ID"
// @Success 200 {object} dto.PayoutResponse
// @Failure 404 {object} map[string]string "Payout not found"
// @Failure 500 {object} map[string]string "Failed to retrieve payout"
// @Security BearerAuth
// @Router /payouts/{payoutID} [get]
func (h *payoutHandler) getPayout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("payout_id", c.Param("payoutID")))

	payout, err := h.payoutService.GetPayoutByID(c.Request.Context(), c.Param("payoutID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve payout")
		return
	}
	c.JSON(http.StatusOK, dto.ToPayoutResponse(payout))
}

// listFarmerPayouts godoc
// @Summary List a farmer's payouts
// @Tags payouts
// @Produce json
// @Param farmerID path string true "Farmer ID"
// @Param limit query int false "Page size (1-100, default 20)"
// @Param offset query int false "Offset"
// @Success 200 {object} dto.ListPayoutsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Failed to list payouts"
// @Security BearerAuth
// @Router /farmers/{farmerID}/payouts [get]
func (h *payoutHandler) listFarmerPayouts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("farmer_id", c.Param("farmerID")))

	var params dto.ListPayoutsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListPayouts", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	payouts, err := h.payoutService.ListPayoutsByFarmer(c.Request.Context(), c.Param("farmerID"), params.Limit, params.Offset)
	if err != nil {
		respondError(c, logger, err, "Failed to list payouts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListPayoutsResponse(payouts, domain.PageLimit(params.Limit), params.Offset))
}

// reconcilePayouts godoc
// @Summary Reconcile payouts stuck awaiting the gateway
// @Description Queries the gateway for every stale AWAITING_GATEWAY payout and settles or fails it. Admin only.
// @Tags payouts
// @Produce json
// @Success 200 {object} dto.ReconciliationResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to reconcile payouts"
// @Security BearerAuth
// @Router /payouts/reconcile [post]
func (h *payoutHandler) reconcilePayouts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to reconcile stale payouts")

	report, err := h.payoutService.ReconcileStalePayouts(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to reconcile payouts")
		return
	}
	c.JSON(http.StatusOK, dto.ToReconciliationResponse(report))
}
