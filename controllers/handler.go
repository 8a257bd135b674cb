package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/Kariqs/agronexus-api/middlewares"
	"github.com/Kariqs/agronexus-api/models"
	"github.com/Kariqs/agronexus-api/services"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	msgInvalidInput        = "Invalid request body"
	msgInternalServerError = "Internal server error"
)

// ImageStore persists an uploaded file and returns its public URL.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// Handler carries the services every endpoint works against.
type Handler struct {
	DB        *gorm.DB
	Creds     *services.Credentials
	Revoker   services.Revoker
	Users     *services.Users
	Catalog   *services.Catalog
	Carts     *services.Carts
	Orders    *services.Orders
	Dashboard *services.Dashboard
	Images    ImageStore
}

func init() {
	// Report json field names instead of Go field names in binding errors.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return field.Name
		})
	}
}

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

func respondWithError(ctx *gin.Context, statusCode int, message string, err error) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	sendJSONResponse(ctx, statusCode, gin.H{
		"message": message,
		"error":   errMsg,
	})
}

func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindValidation, services.KindConflict, services.KindEmptyCart:
		return http.StatusBadRequest
	case services.KindAuth:
		return http.StatusUnauthorized
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// handleServiceError maps a service failure to its HTTP status. message is
// only used for unexpected failures.
func handleServiceError(ctx *gin.Context, message string, err error) {
	kind := services.KindOf(err)
	status := statusFor(kind)
	if status == http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"method": ctx.Request.Method,
			"path":   ctx.FullPath(),
		}).Println(message+":", err)
		respondWithError(ctx, status, message, err)
		return
	}
	sendJSONResponse(ctx, status, gin.H{"message": err.Error(), "error": kind.String()})
}

func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			messages = append(messages, fe.Field()+" failed on '"+fe.Tag()+"="+fe.Param()+"'")
		} else {
			messages = append(messages, fe.Field()+" failed on '"+fe.Tag()+"'")
		}
	}
	return strings.Join(messages, "; ")
}

func bindJSON(ctx *gin.Context, obj any) bool {
	if err := ctx.ShouldBindJSON(obj); err != nil {
		respondWithError(ctx, http.StatusBadRequest, msgInvalidInput, errors.New(bindingMessage(err)))
		return false
	}
	return true
}

func bindQuery(ctx *gin.Context, obj any) bool {
	if err := ctx.ShouldBindQuery(obj); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid query parameters", errors.New(bindingMessage(err)))
		return false
	}
	return true
}

type pageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

func (q pageQuery) page() services.Page {
	return services.NewPage(q.Page, q.Limit)
}

// currentUser is only empty when a route forgot RequireAuth.
func currentUser(ctx *gin.Context) (models.User, bool) {
	user, ok := middlewares.CurrentUser(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, "Not authenticated")
	}
	return user, ok
}
