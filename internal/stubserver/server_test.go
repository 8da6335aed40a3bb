package stubserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-demo/internal/model"
)

type testEnv struct {
	srv  *httptest.Server
	auth AuthRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := OpenDB(filepath.Join(t.TempDir(), "stub.db"))
	require.NoError(t, err)

	productRepo := NewProductRepository(db)
	require.NoError(t, productRepo.Seed(context.Background(), SeedProducts()))

	authRepo := NewAuthRepository(db)
	tokens := NewTokenService("test-secret-not-for-production-use", time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handlers := NewHandlers(productRepo, authRepo, NewOrderRepository(db), NewProfileRepository(db), tokens, logger)
	server := NewServer(handlers, tokens)

	srv := httptest.NewServer(server.echo)
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, auth: authRepo}
}

func (e *testEnv) post(t *testing.T, path, token string, body any) *http.Response {
	t.Helper()

	b, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, e.srv.URL+path, bytes.NewReader(b))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) get(t *testing.T, path, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, e.srv.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

// signIn drives the OTP handshake, reading the issued code straight
// from the challenge table.
func (e *testEnv) signIn(t *testing.T, phone string) string {
	t.Helper()

	resp := e.post(t, "/api/auth/request-otp", "", map[string]string{"phoneNumber": phone})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	code := e.issuedCode(t, phone)

	resp = e.post(t, "/api/auth/verify-otp", "", map[string]string{"phoneNumber": phone, "otp": code})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body["token"])
	return body["token"]
}

func (e *testEnv) issuedCode(t *testing.T, phone string) string {
	t.Helper()

	impl := e.auth.(*authRepoImpl)
	var challenge OTPChallenge
	require.NoError(t, impl.db.Where("phone = ?", phone).First(&challenge).Error)
	return challenge.Code
}

func TestRequestOTPRejectsBadPhone(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		phone string
	}{
		{"missing prefix", "01712345678"},
		{"too short", "+880171234567"},
		{"letters", "+880171234567a"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.post(t, "/api/auth/request-otp", "", map[string]string{"phoneNumber": tt.phone})
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestVerifyOTPWrongCode(t *testing.T) {
	env := newTestEnv(t)
	phone := "+8801712345678"

	resp := env.post(t, "/api/auth/request-otp", "", map[string]string{"phoneNumber": phone})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.post(t, "/api/auth/verify-otp", "", map[string]string{"phoneNumber": phone, "otp": "000000"})
	defer resp.Body.Close()
	// a wrong guess is rejected; only the issued code works
	if env.issuedCode(t, phone) != "000000" {
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}
}

func TestOTPCodeCannotBeReplayed(t *testing.T) {
	env := newTestEnv(t)
	phone := "+8801712345678"

	resp := env.post(t, "/api/auth/request-otp", "", map[string]string{"phoneNumber": phone})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	code := env.issuedCode(t, phone)

	resp = env.post(t, "/api/auth/verify-otp", "", map[string]string{"phoneNumber": phone, "otp": code})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.post(t, "/api/auth/verify-otp", "", map[string]string{"phoneNumber": phone, "otp": code})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProductsAreSeeded(t *testing.T) {
	env := newTestEnv(t)

	resp := env.get(t, "/api/product", "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var products []model.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	assert.NotEmpty(t, products)

	single := env.get(t, "/api/product/"+products[0].ID, "")
	defer single.Body.Close()
	assert.Equal(t, http.StatusOK, single.StatusCode)

	missing := env.get(t, "/api/product/does-not-exist", "")
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestAuthenticatedEndpointsRequireToken(t *testing.T) {
	env := newTestEnv(t)

	paths := []string{"/api/order-history/all", "/api/profile"}
	for _, path := range paths {
		resp := env.get(t, path, "")
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)

		resp = env.get(t, path, "garbage-token")
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestOrderFlow(t *testing.T) {
	env := newTestEnv(t)
	token := env.signIn(t, "+8801712345678")

	order := model.OrderRequest{
		Name:          "A Rahman",
		Address:       "12 Gulshan Ave",
		MobileNumber:  "+8801712345678",
		PaymentMethod: "cod",
		Items:         []model.OrderItem{{ProductID: "1", Quantity: 2, Price: 8.5}},
		Total:         22,
	}
	resp := env.post(t, "/api/order/add", token, order)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	orderID := created["orderId"]
	require.NotEmpty(t, orderID)

	// history lists it
	histResp := env.get(t, "/api/order-history/all", token)
	defer histResp.Body.Close()
	require.Equal(t, http.StatusOK, histResp.StatusCode)

	var history []model.OrderSummary
	require.NoError(t, json.NewDecoder(histResp.Body).Decode(&history))
	require.Len(t, history, 1)
	assert.Equal(t, orderID, history[0].OrderID)
	assert.Equal(t, "22.00", history[0].OrderTotal)
	assert.Equal(t, "Pending", history[0].OrderStatus)

	// detail returns the items
	detResp := env.get(t, "/api/order-history/"+orderID, token)
	defer detResp.Body.Close()
	require.Equal(t, http.StatusOK, detResp.StatusCode)

	var detail model.OrderDetail
	require.NoError(t, json.NewDecoder(detResp.Body).Decode(&detail))
	assert.Equal(t, "A Rahman", detail.Name)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, 2, detail.Items[0].Quantity)

	// another user sees neither
	otherToken := env.signIn(t, "+8801999999999")
	otherHist := env.get(t, "/api/order-history/all", otherToken)
	defer otherHist.Body.Close()

	var otherOrders []model.OrderSummary
	require.NoError(t, json.NewDecoder(otherHist.Body).Decode(&otherOrders))
	assert.Empty(t, otherOrders)

	otherDet := env.get(t, "/api/order-history/"+orderID, otherToken)
	otherDet.Body.Close()
	assert.Equal(t, http.StatusNotFound, otherDet.StatusCode)
}

func TestEmptyOrderRejected(t *testing.T) {
	env := newTestEnv(t)
	token := env.signIn(t, "+8801712345678")

	resp := env.post(t, "/api/order/add", token, model.OrderRequest{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProfileAndAddresses(t *testing.T) {
	env := newTestEnv(t)
	token := env.signIn(t, "+8801712345678")

	// fresh profile is created on first read
	resp := env.get(t, "/api/profile", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var profile model.UserProfile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
	resp.Body.Close()
	assert.Equal(t, "+8801712345678", profile.Phone)
	assert.Empty(t, profile.DeliveryAddresses)

	// update base fields
	profile.FirstName = "Ayesha"
	profile.Email = "ayesha@example.com"
	putReq, err := http.NewRequest(http.MethodPut, env.srv.URL+"/api/profile", toJSON(t, profile))
	require.NoError(t, err)
	putReq.Header.Set("Content-Type", "application/json")
	putReq.Header.Set("Authorization", "Bearer "+token)
	putResp, err := http.DefaultClient.Do(putReq)
	require.NoError(t, err)
	putResp.Body.Close()
	require.Equal(t, http.StatusOK, putResp.StatusCode)

	// add two addresses, second one default
	first := env.post(t, "/api/profile/addresses", token, model.DeliveryAddress{Street: "1 Road", City: "Dhaka", Label: "Home", IsDefault: true})
	var home model.DeliveryAddress
	require.NoError(t, json.NewDecoder(first.Body).Decode(&home))
	first.Body.Close()
	require.Equal(t, http.StatusCreated, first.StatusCode)

	second := env.post(t, "/api/profile/addresses", token, model.DeliveryAddress{Street: "9 Avenue", City: "Dhaka", Label: "Work", IsDefault: true})
	var work model.DeliveryAddress
	require.NoError(t, json.NewDecoder(second.Body).Decode(&work))
	second.Body.Close()

	// the default flag moved to the second address
	resp = env.get(t, "/api/profile", token)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
	resp.Body.Close()
	assert.Equal(t, "Ayesha", profile.FirstName)
	require.Len(t, profile.DeliveryAddresses, 2)
	for _, addr := range profile.DeliveryAddresses {
		assert.Equal(t, addr.ID == work.ID, addr.IsDefault)
	}

	// move default back via the dedicated endpoint
	defReq, err := http.NewRequest(http.MethodPut, env.srv.URL+"/api/profile/addresses/"+home.ID+"/default", nil)
	require.NoError(t, err)
	defReq.Header.Set("Authorization", "Bearer "+token)
	defResp, err := http.DefaultClient.Do(defReq)
	require.NoError(t, err)
	defResp.Body.Close()
	require.Equal(t, http.StatusOK, defResp.StatusCode)

	// delete the work address
	delReq, err := http.NewRequest(http.MethodDelete, env.srv.URL+"/api/profile/addresses/"+work.ID, nil)
	require.NoError(t, err)
	delReq.Header.Set("Authorization", "Bearer "+token)
	delResp, err := http.DefaultClient.Do(delReq)
	require.NoError(t, err)
	delResp.Body.Close()
	require.Equal(t, http.StatusOK, delResp.StatusCode)

	resp = env.get(t, "/api/profile", token)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
	resp.Body.Close()
	require.Len(t, profile.DeliveryAddresses, 1)
	assert.Equal(t, home.ID, profile.DeliveryAddresses[0].ID)
	assert.True(t, profile.DeliveryAddresses[0].IsDefault)
}

func toJSON(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}
