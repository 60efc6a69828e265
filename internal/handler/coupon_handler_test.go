package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaitahavya/morandi-sub002/internal/middleware"
	"github.com/vaitahavya/morandi-sub002/internal/model"
	"github.com/vaitahavya/morandi-sub002/internal/service"
	appvalidator "github.com/vaitahavya/morandi-sub002/internal/validator"
)

// envelope mirrors the response body written by respondData and respondError.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func floatPtr(f float64) *float64 { return &f }

// mockCouponService is a mock implementation of CouponServiceInterface.
type mockCouponService struct {
	validateFn  func(ctx context.Context, req *model.ValidateCouponRequest) (*model.CouponValidation, error)
	redeemFn    func(ctx context.Context, req *model.ValidateCouponRequest) (*model.CouponValidation, error)
	createFn    func(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error)
	getByCodeFn func(ctx context.Context, code string) (*model.Coupon, error)
	listFn      func(ctx context.Context, limit, offset int) ([]model.Coupon, error)
}

func (m *mockCouponService) Validate(ctx context.Context, req *model.ValidateCouponRequest) (*model.CouponValidation, error) {
	if m.validateFn != nil {
		return m.validateFn(ctx, req)
	}
	return &model.CouponValidation{}, nil
}

func (m *mockCouponService) Redeem(ctx context.Context, req *model.ValidateCouponRequest) (*model.CouponValidation, error) {
	if m.redeemFn != nil {
		return m.redeemFn(ctx, req)
	}
	return &model.CouponValidation{}, nil
}

func (m *mockCouponService) Create(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error) {
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return &model.Coupon{Code: req.Code}, nil
}

func (m *mockCouponService) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	if m.getByCodeFn != nil {
		return m.getByCodeFn(ctx, code)
	}
	return nil, service.ErrCouponNotFound
}

func (m *mockCouponService) List(ctx context.Context, limit, offset int) ([]model.Coupon, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit, offset)
	}
	return []model.Coupon{}, nil
}

func setupCouponApp(svc *mockCouponService) *fiber.App {
	app := fiber.New()
	h := NewCouponHandler(svc, appvalidator.New())
	app.Post("/api/coupons/validate", h.ValidateCoupon)
	app.Post("/api/coupons/redeem", h.RedeemCoupon)
	app.Post("/api/admin/coupons", h.CreateCoupon)
	app.Get("/api/admin/coupons", h.ListCoupons)
	app.Get("/api/admin/coupons/:code", h.GetCoupon)
	return app
}

func TestValidateCoupon_Success(t *testing.T) {
	svc := &mockCouponService{
		validateFn: func(ctx context.Context, req *model.ValidateCouponRequest) (*model.CouponValidation, error) {
			assert.Equal(t, "SAVE10", req.Code)
			assert.Equal(t, 1000.0, *req.Subtotal)
			return &model.CouponValidation{Code: "SAVE10", DiscountAmount: 50, SubtotalAfterDiscount: 950}, nil
		},
	}
	app := setupCouponApp(svc)

	resp, env := doRequest(t, app, http.MethodPost, "/api/coupons/validate", `{"code":"SAVE10","subtotal":1000}`)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)

	var result model.CouponValidation
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 50.0, result.DiscountAmount)
	assert.Equal(t, 950.0, result.SubtotalAfterDiscount)
}

func TestValidateCoupon_RequestValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "empty body", body: `{}`, wantErr: "invalid request: code is required"},
		{name: "blank code", body: `{"code":"   ","subtotal":10}`, wantErr: "invalid request: code cannot be blank"},
		{name: "missing subtotal", body: `{"code":"SAVE10"}`, wantErr: "invalid request: subtotal is required"},
		{name: "negative subtotal", body: `{"code":"SAVE10","subtotal":-1}`, wantErr: "invalid request: subtotal must be at least 0"},
		{name: "malformed json", body: `{"code":`, wantErr: "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupCouponApp(&mockCouponService{})

			resp, env := doRequest(t, app, http.MethodPost, "/api/coupons/validate", tt.body)

			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantErr, env.Error)
		})
	}
}

func TestValidateCoupon_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantErr    string
	}{
		{name: "unknown code", err: service.ErrCouponNotFound, wantStatus: fiber.StatusNotFound, wantErr: "invalid coupon code"},
		{name: "expired", err: service.ErrCouponExpired, wantStatus: fiber.StatusBadRequest, wantErr: "coupon is expired or inactive"},
		{
			name:       "below minimum keeps annotation",
			err:        fmt.Errorf("%w (minimum %.2f)", service.ErrBelowMinimum, 500.0),
			wantStatus: fiber.StatusBadRequest,
			wantErr:    "order subtotal is below the coupon minimum (minimum 500.00)",
		},
		{name: "zone", err: service.ErrZoneNotEligible, wantStatus: fiber.StatusBadRequest, wantErr: "coupon is not valid for this zone"},
		{name: "unexpected", err: errors.New("connection refused"), wantStatus: fiber.StatusInternalServerError, wantErr: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockCouponService{
				validateFn: func(ctx context.Context, req *model.ValidateCouponRequest) (*model.CouponValidation, error) {
					return nil, tt.err
				},
			}
			app := setupCouponApp(svc)

			resp, env := doRequest(t, app, http.MethodPost, "/api/coupons/validate", `{"code":"SAVE10","subtotal":100}`)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantErr, env.Error)
		})
	}
}

func TestRedeemCoupon_UsageLimit(t *testing.T) {
	svc := &mockCouponService{
		redeemFn: func(ctx context.Context, req *model.ValidateCouponRequest) (*model.CouponValidation, error) {
			return nil, service.ErrCouponUsageLimit
		},
	}
	app := setupCouponApp(svc)

	resp, env := doRequest(t, app, http.MethodPost, "/api/coupons/redeem", `{"code":"SAVE10","subtotal":100}`)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "coupon usage limit reached", env.Error)
}

func TestRedeemCoupon_Success(t *testing.T) {
	svc := &mockCouponService{
		redeemFn: func(ctx context.Context, req *model.ValidateCouponRequest) (*model.CouponValidation, error) {
			return &model.CouponValidation{Code: "SAVE10", DiscountAmount: 10}, nil
		},
	}
	app := setupCouponApp(svc)

	resp, env := doRequest(t, app, http.MethodPost, "/api/coupons/redeem", `{"code":"SAVE10","subtotal":100,"zone":"Metro"}`)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
}

func TestRedeemCoupon_PassesCallerID(t *testing.T) {
	var got *model.ValidateCouponRequest
	svc := &mockCouponService{
		redeemFn: func(ctx context.Context, req *model.ValidateCouponRequest) (*model.CouponValidation, error) {
			got = req
			return &model.CouponValidation{Code: "SAVE10"}, nil
		},
	}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalUserID, int64(42))
		return c.Next()
	})
	app.Post("/api/coupons/redeem", NewCouponHandler(svc, appvalidator.New()).RedeemCoupon)

	// A user id in the body must not override the token's.
	resp, _ := doRequest(t, app, http.MethodPost, "/api/coupons/redeem", `{"code":"SAVE10","subtotal":100,"UserID":7}`)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, got)
	assert.Equal(t, int64(42), got.UserID)
}

func TestCreateCoupon_Success(t *testing.T) {
	svc := &mockCouponService{
		createFn: func(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error) {
			assert.Equal(t, model.CouponTypePercentage, req.Type)
			assert.Equal(t, []string{"Metro"}, req.AppliesToZones)
			return &model.Coupon{ID: 1, Code: "SAVE10", Type: req.Type, Value: *req.Value}, nil
		},
	}
	app := setupCouponApp(svc)

	body := `{"code":"save10","type":"percentage","value":10,"maximumDiscount":50,"appliesToZones":["Metro"]}`
	resp, env := doRequest(t, app, http.MethodPost, "/api/admin/coupons", body)

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var coupon model.Coupon
	require.NoError(t, json.Unmarshal(env.Data, &coupon))
	assert.Equal(t, "SAVE10", coupon.Code)
}

func TestCreateCoupon_RequestValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "missing value", body: `{"code":"X","type":"percentage"}`, wantErr: "invalid request: value is required"},
		{name: "unknown type", body: `{"code":"X","type":"bogo","value":1}`, wantErr: "invalid request: type must be one of [percentage fixed_amount]"},
		{name: "zero usage limit", body: `{"code":"X","type":"percentage","value":1,"usageLimit":0}`, wantErr: "invalid request: usageLimit must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupCouponApp(&mockCouponService{})

			resp, env := doRequest(t, app, http.MethodPost, "/api/admin/coupons", tt.body)

			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.wantErr, env.Error)
		})
	}
}

func TestCreateCoupon_Duplicate(t *testing.T) {
	svc := &mockCouponService{
		createFn: func(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error) {
			return nil, service.ErrCouponExists
		},
	}
	app := setupCouponApp(svc)

	resp, env := doRequest(t, app, http.MethodPost, "/api/admin/coupons", `{"code":"SAVE10","type":"fixed_amount","value":100}`)

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "coupon already exists", env.Error)
}

func TestGetCoupon(t *testing.T) {
	svc := &mockCouponService{
		getByCodeFn: func(ctx context.Context, code string) (*model.Coupon, error) {
			if code == "SAVE10" {
				return &model.Coupon{ID: 1, Code: code}, nil
			}
			return nil, service.ErrCouponNotFound
		},
	}
	app := setupCouponApp(svc)

	resp, env := doRequest(t, app, http.MethodGet, "/api/admin/coupons/SAVE10", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)

	resp, env = doRequest(t, app, http.MethodGet, "/api/admin/coupons/NOPE", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "invalid coupon code", env.Error)
}

func TestListCoupons_Pagination(t *testing.T) {
	var gotLimit, gotOffset int
	svc := &mockCouponService{
		listFn: func(ctx context.Context, limit, offset int) ([]model.Coupon, error) {
			gotLimit, gotOffset = limit, offset
			return []model.Coupon{}, nil
		},
	}
	app := setupCouponApp(svc)

	resp, env := doRequest(t, app, http.MethodGet, "/api/admin/coupons", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(env.Data))
	assert.Equal(t, 20, gotLimit)
	assert.Equal(t, 0, gotOffset)

	resp, _ = doRequest(t, app, http.MethodGet, "/api/admin/coupons?limit=5&offset=10", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, gotLimit)
	assert.Equal(t, 10, gotOffset)

	resp, _ = doRequest(t, app, http.MethodGet, "/api/admin/coupons?limit=500", "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
