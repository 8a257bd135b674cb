package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Kariqs/agronexus-api/services"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	cases := map[services.Kind]int{
		services.KindValidation: http.StatusBadRequest,
		services.KindConflict:   http.StatusBadRequest,
		services.KindEmptyCart:  http.StatusBadRequest,
		services.KindAuth:       http.StatusUnauthorized,
		services.KindForbidden:  http.StatusForbidden,
		services.KindNotFound:   http.StatusNotFound,
		services.KindInternal:   http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, statusFor(kind), kind.String())
	}
}

func TestHandleServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	handleServiceError(ctx, "Checkout failed", fmt.Errorf("checkout: %w", services.ErrEmptyCart))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"cart is empty","error":"empty cart"}`, w.Body.String())

	w = httptest.NewRecorder()
	ctx, _ = gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	handleServiceError(ctx, "Checkout failed", errors.New("database is locked"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Checkout failed","error":"database is locked"}`, w.Body.String())
}

func TestBindingMessageUsesJSONNames(t *testing.T) {
	var data struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity" binding:"min=1"`
	}
	data.Quantity = 0
	err := binding.Validator.ValidateStruct(&data)
	assert.Equal(t, "product_id failed on 'required'; quantity failed on 'min=1'", bindingMessage(err))

	assert.Equal(t, "EOF", bindingMessage(errors.New("EOF")))
}
