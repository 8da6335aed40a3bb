package stubserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server is the local development stand-in for the remote catalog &
// order API.
type Server struct {
	echo     *echo.Echo
	handlers *Handlers
	tokens   *TokenService
}

func NewServer(handlers *Handlers, tokens *TokenService) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:     e,
		handlers: handlers,
		tokens:   tokens,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- auth (no bearer token) --------
	auth := api.Group("/auth")
	auth.POST("/request-otp", s.handlers.RequestOTP)
	auth.POST("/verify-otp", s.handlers.VerifyOTP)

	// -------- catalog --------
	api.GET("/product", s.handlers.GetProducts)
	api.GET("/product/:id", s.handlers.GetProduct)

	// -------- authenticated --------
	authed := api.Group("", s.bearerAuth())

	authed.POST("/order/add", s.handlers.AddOrder)
	authed.GET("/order-history/all", s.handlers.OrderHistory)
	authed.GET("/order-history/:id", s.handlers.OrderDetail)

	authed.GET("/profile", s.handlers.GetProfile)
	authed.PUT("/profile", s.handlers.UpdateProfile)
	authed.POST("/profile/addresses", s.handlers.AddAddress)
	authed.PUT("/profile/addresses/:id", s.handlers.UpdateAddress)
	authed.DELETE("/profile/addresses/:id", s.handlers.DeleteAddress)
	authed.PUT("/profile/addresses/:id/default", s.handlers.SetDefaultAddress)
}

const phoneContextKey = "phone"

// bearerAuth validates the Authorization header and stores the token's
// phone number in the request context.
func (s *Server) bearerAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}

			phone, err := s.tokens.Validate(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			c.Set(phoneContextKey, phone)
			return next(c)
		}
	}
}

func currentPhone(c echo.Context) string {
	phone, _ := c.Get(phoneContextKey).(string)
	return phone
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}

// SeedProducts is the default catalog for a fresh database.
func SeedProducts() []ProductRecord {
	svg := func(color string) string {
		return `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24"><rect width="24" height="24" fill="` + color + `"/></svg>`
	}

	return []ProductRecord{
		{ID: "1", Name: "Rice (5kg)", Description: "Premium miniket rice", Price: 8.5, SVGImage: svg("#f5deb3")},
		{ID: "2", Name: "Lentils (1kg)", Description: "Red masoor dal", Price: 2.25, SVGImage: svg("#cd5c5c")},
		{ID: "3", Name: "Soybean Oil (1L)", Description: "Refined cooking oil", Price: 3.1, SVGImage: svg("#ffd700")},
		{ID: "4", Name: "Eggs (dozen)", Description: "Farm eggs", Price: 1.8, SVGImage: svg("#fffaf0")},
		{ID: "5", Name: "Milk (1L)", Description: "UHT milk", Price: 1.2, SVGImage: svg("#f8f8ff")},
		{ID: "6", Name: "Sugar (1kg)", Description: "Refined sugar", Price: 1.4, SVGImage: svg("#ffffff")},
	}
}
