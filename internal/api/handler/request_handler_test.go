package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/cargoconnect/marketplace-api/internal/core/domain"
	"github.com/cargoconnect/marketplace-api/internal/core/ports"
)

type stubRequestService struct {
	createFn func(ctx context.Context, actor domain.Actor, in ports.CreateRequestInput) (*domain.TransportRequest, error)
	getFn    func(ctx context.Context, id string) (*domain.TransportRequest, error)
	cancelFn func(ctx context.Context, actor domain.Actor, id string) (*domain.TransportRequest, error)
}

func (s *stubRequestService) Create(ctx context.Context, actor domain.Actor, in ports.CreateRequestInput) (*domain.TransportRequest, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubRequestService) Get(ctx context.Context, id string) (*domain.TransportRequest, error) {
	return s.getFn(ctx, id)
}

func (s *stubRequestService) List(ctx context.Context, status string) ([]*domain.TransportRequest, error) {
	return nil, nil
}

func (s *stubRequestService) ListMine(ctx context.Context, actor domain.Actor) ([]*domain.TransportRequest, error) {
	return nil, nil
}

func (s *stubRequestService) MarkInTransit(ctx context.Context, actor domain.Actor, id string) (*domain.TransportRequest, error) {
	return nil, nil
}

func (s *stubRequestService) MarkCompleted(ctx context.Context, actor domain.Actor, id string) (*domain.TransportRequest, error) {
	return nil, nil
}

func (s *stubRequestService) Cancel(ctx context.Context, actor domain.Actor, id string) (*domain.TransportRequest, error) {
	return s.cancelFn(ctx, actor, id)
}

type stubEstimator struct {
	estimateFn func(ctx context.Context, origin, destination string) (*ports.RouteEstimate, error)
}

func (s *stubEstimator) EstimateRoute(ctx context.Context, origin, destination string) (*ports.RouteEstimate, error) {
	return s.estimateFn(ctx, origin, destination)
}

func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, userID string, roles ...string) echo.Context {
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	c.Set("name", "Test User")
	c.Set("roles", roles)
	return c
}

func TestRequestHandler_Create_Success(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	stub := &stubRequestService{
		createFn: func(ctx context.Context, actor domain.Actor, in ports.CreateRequestInput) (*domain.TransportRequest, error) {
			if actor.ID != "client_1" {
				t.Fatalf("unexpected actor: %s", actor.ID)
			}
			if in.Title != "Sofa move" || in.OfferedPrice != 120 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.TransportRequest{ID: "req_1", ClientID: actor.ID, Title: in.Title, Status: domain.RequestOpen}, nil
		},
	}
	h := NewRequestHandler(stub, nil, zerolog.Nop())

	body := strings.NewReader(`{"title":"Sofa move","origin":"Madrid","destination":"Valencia","offered_price":120}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/requests", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "client_1", domain.RoleClient)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "req_1" || resp["status"] != "open" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestRequestHandler_Create_MissingFields(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	stub := &stubRequestService{
		createFn: func(ctx context.Context, actor domain.Actor, in ports.CreateRequestInput) (*domain.TransportRequest, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewRequestHandler(stub, nil, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/v1/requests", strings.NewReader(`{"title":"no route"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "client_1", domain.RoleClient)

	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 http error, got %v", err)
	}
}

func TestRequestHandler_Create_Unauthenticated(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	h := NewRequestHandler(&stubRequestService{}, nil, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/v1/requests", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 http error, got %v", err)
	}
}

func TestRequestHandler_Cancel_ServiceErrorPassesThrough(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()

	stub := &stubRequestService{
		cancelFn: func(ctx context.Context, actor domain.Actor, id string) (*domain.TransportRequest, error) {
			return nil, domain.ErrForbidden
		},
	}
	h := NewRequestHandler(stub, nil, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPatch, "/v1/requests/req_1/cancel", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "stranger_1", domain.RoleClient)
	c.SetParamNames("id")
	c.SetParamValues("req_1")

	if err := h.Cancel(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequestHandler_Route_NoEstimator(t *testing.T) {
	e := echo.New()
	h := NewRequestHandler(&stubRequestService{}, nil, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/v1/requests/req_1/route", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "client_1", domain.RoleClient)
	c.SetParamNames("id")
	c.SetParamValues("req_1")

	err := h.Route(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404 http error, got %v", err)
	}
}

func TestRequestHandler_Route_EstimatorFailureDegrades(t *testing.T) {
	e := echo.New()
	stub := &stubRequestService{
		getFn: func(ctx context.Context, id string) (*domain.TransportRequest, error) {
			return &domain.TransportRequest{ID: id, Origin: "Madrid", Destination: "Valencia"}, nil
		},
	}
	est := &stubEstimator{
		estimateFn: func(ctx context.Context, origin, destination string) (*ports.RouteEstimate, error) {
			return nil, errors.New("geocoder down")
		},
	}
	h := NewRequestHandler(stub, est, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/v1/requests/req_1/route", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "client_1", domain.RoleClient)
	c.SetParamNames("id")
	c.SetParamValues("req_1")

	err := h.Route(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404 http error, got %v", err)
	}
}

func TestRequestHandler_Route_Success(t *testing.T) {
	e := echo.New()
	stub := &stubRequestService{
		getFn: func(ctx context.Context, id string) (*domain.TransportRequest, error) {
			return &domain.TransportRequest{ID: id, Origin: "Madrid", Destination: "Valencia"}, nil
		},
	}
	est := &stubEstimator{
		estimateFn: func(ctx context.Context, origin, destination string) (*ports.RouteEstimate, error) {
			if origin != "Madrid" || destination != "Valencia" {
				t.Fatalf("unexpected route args: %s %s", origin, destination)
			}
			return &ports.RouteEstimate{DistanceMeters: 357000, DurationSeconds: 13200}, nil
		},
	}
	h := NewRequestHandler(stub, est, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/v1/requests/req_1/route", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, "client_1", domain.RoleClient)
	c.SetParamNames("id")
	c.SetParamValues("req_1")

	if err := h.Route(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
