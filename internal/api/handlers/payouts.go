package handlers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/api/middleware"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/api/request"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/api/response"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/model"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/service"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/validation"
)

// PayoutHandler handles HTTP requests for payout status updates.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the distributionService.
type PayoutHandler struct {
	distributionService *service.DistributionService
}

// NewPayoutHandler creates a new PayoutHandler with the provided service dependency.
func NewPayoutHandler(distributionService *service.DistributionService) *PayoutHandler {
	return &PayoutHandler{
		distributionService: distributionService,
	}
}

// ImportPayoutUpdates handles POST requests to apply a batch of payout status
// rows from an external payment run. Rows are independent; each row's outcome
// is reported individually and a failing row does not stop the rest.
//
// Endpoint: POST /api/payout/import
// Request Body: PayoutImportRequest (rows)
// Response: 200 OK with per-row results
// Error: 400 Bad Request if the batch is empty or the request body is invalid
func (h *PayoutHandler) ImportPayoutUpdates(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.PayoutImportRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidatePayoutImport(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	actorID := middleware.ActorID(r)
	results := make([]service.PayoutUpdateResult, 0, len(req.Rows))
	updates := make([]model.PayoutUpdate, 0, len(req.Rows))
	for _, row := range req.Rows {
		if err := validation.ValidatePayoutUpdate(row); err != nil {
			results = append(results, service.PayoutUpdateResult{
				PayoutID: row.PayoutID,
				Applied:  false,
				Error:    err.Error(),
			})
			continue
		}
		upd, err := payoutUpdateFromRequest(row)
		if err != nil {
			results = append(results, service.PayoutUpdateResult{
				PayoutID: row.PayoutID,
				Applied:  false,
				Error:    err.Error(),
			})
			continue
		}
		updates = append(updates, upd)
	}

	results = append(results, h.distributionService.ApplyPayoutUpdates(r.Context(), updates, actorID)...)
	response.RespondJSON(w, http.StatusOK, results)
}

func payoutUpdateFromRequest(row request.PayoutUpdateRequest) (model.PayoutUpdate, error) {
	upd := model.PayoutUpdate{
		PayoutID:         row.PayoutID,
		Status:           row.Status,
		PaymentMethod:    row.PaymentMethod,
		PaymentReference: row.PaymentReference,
	}
	if row.Amount != nil {
		amount := decimal.NewFromFloat(*row.Amount)
		upd.Amount = &amount
	}
	if row.PaidAt != "" {
		t, err := time.Parse("2006-01-02", row.PaidAt)
		if err != nil {
			return model.PayoutUpdate{}, err
		}
		upd.PaidAt = t
	}
	return upd, nil
}
