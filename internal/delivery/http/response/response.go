// Package response defines the success bodies of the HTTP API. Error bodies
// are produced centrally by the error middleware.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// MessageBody is the plain acknowledgement body.
type MessageBody struct {
	Message string `json:"message"`
}

// TokenBody carries a freshly minted access token. The refresh token never
// appears in a body; it travels only as an httpOnly cookie.
type TokenBody struct {
	Message     string `json:"message,omitempty"`
	AccessToken string `json:"accessToken"`
}

// Message writes a {message} acknowledgement.
func Message(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, MessageBody{Message: message})
}

// OK writes the payload with a 200 status.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

// Created writes the payload with a 201 status.
func Created(c echo.Context, payload any) error {
	return c.JSON(http.StatusCreated, payload)
}
