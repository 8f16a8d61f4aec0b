package echoServer

import (
	"net/http"

	"bookstore/app/echoServer/controller/auth"
	"bookstore/app/echoServer/controller/book"
	"bookstore/app/echoServer/controller/order"
	"bookstore/app/echoServer/jwtx"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Auth      *auth.Controller
	Book      *book.Controller
	Order     *order.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	e.POST("/auth/register", c.Auth.Register)
	e.POST("/auth/login", c.Auth.Login)

	e.GET("/books", c.Book.List)
	e.GET("/books/:id", c.Book.Detail)
	e.GET("/books/search/title", c.Book.SearchTitle)
	e.GET("/books/search/author", c.Book.SearchAuthor)
	e.GET("/books/search/genre", c.Book.SearchGenre)

	// Authenticated
	authed := e.Group("")
	authed.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return jwt.MapClaims{}
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
		},
	}))

	authed.POST("/orders", c.Order.Place)
	authed.GET("/orders/my", c.Order.My)
	authed.PUT("/orders/:id/cancel", c.Order.Cancel)
	authed.GET("/orders/:id/invoice", c.Order.Invoice)

	// Admin
	admin := authed.Group("", requireAdmin)
	admin.POST("/books", c.Book.Create)
	admin.PUT("/books/:id", c.Book.Update)
	admin.DELETE("/books/:id", c.Book.Delete)
	admin.PUT("/orders/:id/status", c.Order.UpdateStatus)
	admin.PUT("/orders/:id/payment", c.Order.UpdatePayment)
}

func requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !jwtx.IsAdmin(c) {
			return echo.NewHTTPError(http.StatusForbidden, "admin role required")
		}
		return next(c)
	}
}
