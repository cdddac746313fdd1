package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSONResponse defines the uniform structure for API responses.
type JSONResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// Respond writes a JSON response with the given status code.
func Respond(ctx *gin.Context, status int, code int, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success returns a standard success response. A nil data is sent as JSON null.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusOK, 0, "success", data)
}

// Created returns a success response with status 201.
func Created(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusCreated, 0, "created", data)
}

// Error returns a standard error response.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, code, message, nil)
}

// AbortWithError writes an error response and stops the handler chain.
func AbortWithError(ctx *gin.Context, status int, code int, message string) {
	Error(ctx, status, code, message)
	ctx.Abort()
}
