package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"valuefolio/internal/dca"
	apperrors "valuefolio/internal/errors"
	"valuefolio/internal/services"
)

type mockSimulationService struct {
	simulateFn func(ctx context.Context, input services.SimulationInput) (*services.SimulationOutcome, error)
}

var _ services.SimulationServicer = (*mockSimulationService)(nil)

func (m *mockSimulationService) Simulate(ctx context.Context, input services.SimulationInput) (*services.SimulationOutcome, error) {
	if m.simulateFn != nil {
		return m.simulateFn(ctx, input)
	}
	return &services.SimulationOutcome{}, nil
}

func setupSimulationRouter(handler *SimulationHandler) *gin.Engine {
	r := gin.New()
	r.POST("/simulations/dca", injectUserID(1), handler.SimulateDCA)
	return r
}

func TestSimulationHandler_SimulateDCA(t *testing.T) {
	t.Run("returns 200 and forwards the parsed input", func(t *testing.T) {
		var got services.SimulationInput
		svc := &mockSimulationService{
			simulateFn: func(_ context.Context, input services.SimulationInput) (*services.SimulationOutcome, error) {
				got = input
				return &services.SimulationOutcome{
					Symbol:       input.Symbol,
					CurrentPrice: 100,
					Result:       dca.Result{TotalInvested: 6000},
				}, nil
			},
		}
		handler := NewSimulationHandler(svc)
		r := setupSimulationRouter(handler)

		rec := doRequest(r, "POST", "/simulations/dca",
			`{"symbol":"AAPL","contribution":500,"frequency":"monthly","duration_months":12}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.Symbol != "AAPL" || got.Contribution != 500 || got.DurationMonths != 12 {
			t.Errorf("unexpected input forwarded: %+v", got)
		}
		if got.Frequency != dca.Monthly {
			t.Errorf("expected monthly frequency, got %q", got.Frequency)
		}
	})

	t.Run("returns 400 for validation failures", func(t *testing.T) {
		handler := NewSimulationHandler(&mockSimulationService{})
		r := setupSimulationRouter(handler)

		cases := []struct {
			name string
			body string
		}{
			{"missing contribution", `{"symbol":"AAPL","duration_months":12}`},
			{"zero duration", `{"symbol":"AAPL","contribution":500,"duration_months":0}`},
			{"duration too long", `{"symbol":"AAPL","contribution":500,"duration_months":1200}`},
			{"unknown frequency", `{"symbol":"AAPL","contribution":500,"duration_months":12,"frequency":"hourly"}`},
			{"negative price", `{"symbol":"AAPL","contribution":500,"duration_months":12,"current_price":-5}`},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				rec := doRequest(r, "POST", "/simulations/dca", tc.body)
				if rec.Code != http.StatusBadRequest {
					t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
				}
			})
		}
	})

	t.Run("returns 503 when the quote is unavailable", func(t *testing.T) {
		svc := &mockSimulationService{
			simulateFn: func(context.Context, services.SimulationInput) (*services.SimulationOutcome, error) {
				return nil, apperrors.ErrDataUnavailable
			},
		}
		handler := NewSimulationHandler(svc)
		r := setupSimulationRouter(handler)

		rec := doRequest(r, "POST", "/simulations/dca",
			`{"symbol":"AAPL","contribution":500,"duration_months":12}`)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", rec.Code)
		}
		assertErrorCode(t, parseBody(t, rec), "DATA_UNAVAILABLE")
	})

	t.Run("returns 401 without an authenticated user", func(t *testing.T) {
		handler := NewSimulationHandler(&mockSimulationService{})
		r := gin.New()
		r.POST("/simulations/dca", handler.SimulateDCA)

		rec := doRequest(r, "POST", "/simulations/dca",
			`{"symbol":"AAPL","contribution":500,"duration_months":12}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
