package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/api/request"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/model"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/repository"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/service"
	"github.com/brickfolio/Fractional-Property-Manager-Backend/internal/testutil"
)

func TestPayoutHandler_ImportPayoutUpdates(t *testing.T) {
	setupHandler := func(t *testing.T) (*PayoutHandler, *sql.DB) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		ds := testutil.NewTestDistributionService(t, db)
		return NewPayoutHandler(ds), db
	}

	t.Run("applies valid rows and reports invalid ones", func(t *testing.T) {
		handler, db := setupHandler(t)

		property := testutil.NewProperty().Build(t, db)
		user := testutil.NewUser().Build(t, db)
		statement := testutil.NewStatement(property.ID).Build(t, db)
		dist := testutil.NewDistribution(statement.ID, property.ID).
			WithStatus(model.DistributionDeclared).
			Build(t, db)
		payout := testutil.NewPayout(dist.ID, user.ID).Build(t, db)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/payout/import",
			request.PayoutImportRequest{Rows: []request.PayoutUpdateRequest{
				{PayoutID: payout.ID, Status: model.PayoutPaid, PaymentMethod: "SEPA"},
				{PayoutID: "not-a-uuid", Status: model.PayoutPaid},
			}}, nil)
		w := httptest.NewRecorder()

		handler.ImportPayoutUpdates(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var results []service.PayoutUpdateResult
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&results)

		if len(results) != 2 {
			t.Fatalf("Expected 2 results, got %d", len(results))
		}

		byPayout := make(map[string]service.PayoutUpdateResult)
		for _, res := range results {
			byPayout[res.PayoutID] = res
		}

		if !byPayout[payout.ID].Applied {
			t.Errorf("Expected valid row applied, got error %q", byPayout[payout.ID].Error)
		}
		if byPayout["not-a-uuid"].Applied {
			t.Error("Expected malformed row to fail")
		}

		refreshed, err := repository.NewPayoutRepository(db).GetPayout(req.Context(), payout.ID)
		if err != nil {
			t.Fatalf("GetPayout() returned unexpected error: %v", err)
		}
		if refreshed.Status != model.PayoutPaid {
			t.Errorf("Expected payout marked PAID, got %s", refreshed.Status)
		}
	})

	t.Run("returns 400 for an empty batch", func(t *testing.T) {
		handler, _ := setupHandler(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/payout/import",
			request.PayoutImportRequest{}, nil)
		w := httptest.NewRecorder()

		handler.ImportPayoutUpdates(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}
