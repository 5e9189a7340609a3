package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/irarb/internal/domain/dto"
	"github.com/guttosm/irarb/internal/domain/models"
	"github.com/guttosm/irarb/internal/service"
)

// Handler provides HTTP handlers for the rate and opportunity endpoints.
//
// Responsibilities:
//   - Validate path and query parameters
//   - Read from the service layer, one engine cycle per request
//   - Translate service results into response DTOs
//   - Map service errors to HTTP status codes
type Handler struct {
	svc service.RateService
}

// NewHandler constructs a Handler backed by svc.
func NewHandler(svc service.RateService) *Handler {
	return &Handler{svc: svc}
}

// GetRates godoc
// @Summary      Rates of every maturity
// @Description  Max taker and min offered implied rates per maturity from the last refresh cycle, nearest expiry first
// @Tags         rates
// @Produce      json
// @Success      200  {object}  dto.RatesResponse   "Success"
// @Failure      503  {object}  dto.ErrorResponse   "No cycle published yet"
// @Failure      500  {object}  dto.ErrorResponse   "Internal Error"
// @Router       /api/v1/rates [get]
func (h *Handler) GetRates(c *gin.Context) {
	cycle, rates, err := h.svc.AllRates(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewRatesResponse(cycle.ID, cycle.ValuationDate, cycle.RefreshedAt, rates))
}

// GetMaturityRates godoc
// @Summary      Rates of one maturity
// @Description  Max taker and min offered implied rates of a maturity label such as MAY23
// @Tags         rates
// @Produce      json
// @Param        maturity  path      string  true  "Maturity label" example(MAY23)
// @Success      200       {object}  dto.RatesResponse  "Success"
// @Failure      400       {object}  dto.ErrorResponse  "Bad Request"
// @Failure      404       {object}  dto.ErrorResponse  "No rate for maturity"
// @Failure      503       {object}  dto.ErrorResponse  "No cycle published yet"
// @Router       /api/v1/rates/{maturity} [get]
func (h *Handler) GetMaturityRates(c *gin.Context) {
	maturity := service.NormalizeMaturity(c.Param("maturity"))
	if maturity == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("maturity is required", nil))
		return
	}

	cycle, mr, err := h.svc.Rates(c.Request.Context(), maturity)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewRatesResponse(cycle.ID, cycle.ValuationDate, cycle.RefreshedAt, []models.MaturityRates{mr}))
}

// GetOpportunities godoc
// @Summary      Current arbitrage opportunities
// @Description  Maturities whose max taker rate strictly exceeds their min offered rate in the last cycle
// @Tags         opportunities
// @Produce      json
// @Success      200  {object}  dto.OpportunitiesResponse  "Success"
// @Failure      503  {object}  dto.ErrorResponse          "No cycle published yet"
// @Router       /api/v1/opportunities [get]
func (h *Handler) GetOpportunities(c *gin.Context) {
	cycle, opps, err := h.svc.Opportunities(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	refreshed := cycle.RefreshedAt
	c.JSON(http.StatusOK, dto.NewOpportunitiesResponse(cycle.ID, &refreshed, opps))
}

// GetOpportunityHistory godoc
// @Summary      Persisted arbitrage opportunities
// @Description  Most recent detected opportunities, newest first
// @Tags         opportunities
// @Produce      json
// @Param        limit  query     int  false  "Max rows (default 100, max 1000)" example(50)
// @Success      200    {object}  dto.OpportunitiesResponse  "Success"
// @Failure      400    {object}  dto.ErrorResponse          "Bad Request"
// @Failure      500    {object}  dto.ErrorResponse          "Internal Error"
// @Router       /api/v1/opportunities/history [get]
func (h *Handler) GetOpportunityHistory(c *gin.Context) {
	limit := 0
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid limit, expected a positive integer", err))
			return
		}
		limit = n
	}

	opps, err := h.svc.History(c.Request.Context(), limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOpportunitiesResponse("", nil, opps))
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotReady):
		c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse("rates not available yet", nil))
	case errors.Is(err, service.ErrNoData):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("no data for maturity", nil))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("failed to read rates", err))
	}
}
