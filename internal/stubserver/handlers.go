package stubserver

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"storefront-demo/internal/model"
)

const otpTTL = 5 * time.Minute

var phonePattern = regexp.MustCompile(`^\+880\d{10}$`)

type Handlers struct {
	products ProductRepository
	auth     AuthRepository
	orders   OrderRepository
	profiles ProfileRepository
	tokens   *TokenService
	logger   *slog.Logger
}

func NewHandlers(
	products ProductRepository,
	auth AuthRepository,
	orders OrderRepository,
	profiles ProfileRepository,
	tokens *TokenService,
	logger *slog.Logger,
) *Handlers {
	return &Handlers{
		products: products,
		auth:     auth,
		orders:   orders,
		profiles: profiles,
		tokens:   tokens,
		logger:   logger,
	}
}

type otpRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type verifyOTPRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	OTP         string `json:"otp"`
}

// RequestOTP generates a 6-digit code for the phone number. There is
// no SMS gateway here; the code is written to the server log so a
// developer can complete the sign-in.
func (h *Handlers) RequestOTP(c echo.Context) error {
	var req otpRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if !phonePattern.MatchString(req.PhoneNumber) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid phone number"})
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}
	if err := h.auth.SaveChallenge(c.Request().Context(), req.PhoneNumber, code, otpTTL); err != nil {
		return err
	}

	h.logger.Info("otp issued", "phone", req.PhoneNumber, "code", code)
	return c.NoContent(http.StatusOK)
}

func (h *Handlers) VerifyOTP(c echo.Context) error {
	var req verifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ok, err := h.auth.ConsumeChallenge(c.Request().Context(), req.PhoneNumber, req.OTP)
	if err != nil {
		return err
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid otp"})
	}

	token, err := h.tokens.Generate(req.PhoneNumber)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

func (h *Handlers) GetProducts(c echo.Context) error {
	records, err := h.products.All(c.Request().Context())
	if err != nil {
		return err
	}

	products := make([]model.Product, 0, len(records))
	for _, rec := range records {
		products = append(products, productFromRecord(rec))
	}
	return c.JSON(http.StatusOK, products)
}

func (h *Handlers) GetProduct(c echo.Context) error {
	rec, err := h.products.ByID(c.Request().Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, productFromRecord(*rec))
}

func (h *Handlers) AddOrder(c echo.Context) error {
	phone := currentPhone(c)

	var req model.OrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "order has no items"})
	}

	order := &OrderRecord{
		OrderID:       uuid.NewString(),
		Phone:         phone,
		Name:          req.Name,
		Address:       req.Address,
		MobileNumber:  req.MobileNumber,
		PaymentMethod: req.PaymentMethod,
		Total:         req.Total,
	}
	items := make([]OrderItemRecord, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, OrderItemRecord{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	if err := h.orders.Create(c.Request().Context(), order, items); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"orderId": order.OrderID})
}

func (h *Handlers) OrderHistory(c echo.Context) error {
	records, err := h.orders.AllByPhone(c.Request().Context(), currentPhone(c))
	if err != nil {
		return err
	}

	orders := make([]model.OrderSummary, 0, len(records))
	for _, rec := range records {
		orders = append(orders, model.OrderSummary{
			OrderID:     rec.OrderID,
			OrderDate:   rec.CreatedAt.Format(time.RFC3339),
			OrderStatus: statusLabel(rec.Status),
			OrderTotal:  fmt.Sprintf("%.2f", rec.Total),
		})
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *Handlers) OrderDetail(c echo.Context) error {
	order, items, err := h.orders.ByID(c.Request().Context(), currentPhone(c), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
	}
	if err != nil {
		return err
	}

	detail := model.OrderDetail{
		OrderID:       order.OrderID,
		Name:          order.Name,
		Address:       order.Address,
		MobileNumber:  order.MobileNumber,
		PaymentMethod: order.PaymentMethod,
		Total:         order.Total,
		Status:        order.Status,
		OrderDate:     order.CreatedAt.Format(time.RFC3339),
	}
	for _, it := range items {
		detail.Items = append(detail.Items, model.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *Handlers) GetProfile(c echo.Context) error {
	profile, addresses, err := h.profiles.GetOrCreate(c.Request().Context(), currentPhone(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponse(profile, addresses))
}

func (h *Handlers) UpdateProfile(c echo.Context) error {
	phone := currentPhone(c)

	var req model.UserProfile
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	err := h.profiles.Update(c.Request().Context(), &ProfileRecord{
		Phone:       phone,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

func (h *Handlers) AddAddress(c echo.Context) error {
	var req model.DeliveryAddress
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	rec := &AddressRecord{
		ID:        uuid.NewString(),
		Phone:     currentPhone(c),
		Street:    req.Street,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
		Country:   req.Country,
		Label:     req.Label,
		IsDefault: req.IsDefault,
	}
	if err := h.profiles.AddAddress(c.Request().Context(), rec); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, addressFromRecord(*rec))
}

func (h *Handlers) UpdateAddress(c echo.Context) error {
	var req model.DeliveryAddress
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	err := h.profiles.UpdateAddress(c.Request().Context(), &AddressRecord{
		ID:      c.Param("id"),
		Phone:   currentPhone(c),
		Street:  req.Street,
		City:    req.City,
		State:   req.State,
		ZipCode: req.ZipCode,
		Country: req.Country,
		Label:   req.Label,
	})
	if errors.Is(err, ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "address not found"})
	}
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

func (h *Handlers) DeleteAddress(c echo.Context) error {
	err := h.profiles.DeleteAddress(c.Request().Context(), currentPhone(c), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "address not found"})
	}
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

func (h *Handlers) SetDefaultAddress(c echo.Context) error {
	err := h.profiles.SetDefaultAddress(c.Request().Context(), currentPhone(c), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "address not found"})
	}
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

func productFromRecord(rec ProductRecord) model.Product {
	return model.Product{
		ID:          rec.ID,
		Name:        rec.Name,
		Description: rec.Description,
		Price:       rec.Price,
		SVGImage:    rec.SVGImage,
	}
}

func addressFromRecord(rec AddressRecord) model.DeliveryAddress {
	return model.DeliveryAddress{
		ID:        rec.ID,
		Street:    rec.Street,
		City:      rec.City,
		State:     rec.State,
		ZipCode:   rec.ZipCode,
		Country:   rec.Country,
		Label:     rec.Label,
		IsDefault: rec.IsDefault,
	}
}

func profileResponse(profile *ProfileRecord, addresses []AddressRecord) model.UserProfile {
	out := model.UserProfile{
		FirstName:         profile.FirstName,
		LastName:          profile.LastName,
		Email:             profile.Email,
		Phone:             profile.Phone,
		DateOfBirth:       profile.DateOfBirth,
		Gender:            profile.Gender,
		DeliveryAddresses: make([]model.DeliveryAddress, 0, len(addresses)),
	}
	for _, rec := range addresses {
		out.DeliveryAddresses = append(out.DeliveryAddresses, addressFromRecord(rec))
	}
	return out
}

func statusLabel(status int) string {
	switch status {
	case 1:
		return "Shipped"
	case 2:
		return "Delivered"
	default:
		return "Pending"
	}
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
