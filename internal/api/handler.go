package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"hotel-booking-backend/internal/booking"
	"hotel-booking-backend/internal/model"
	"hotel-booking-backend/internal/mw"
	"hotel-booking-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	bookings  *booking.Manager
	rooms     store.Repository[model.Room]
	customers store.Repository[model.Customer]
	db        *gorm.DB
	webpush   *webpush.Options
}

// NewHandler creates a new API handler. db backs the push subscription
// endpoints and may be nil when push is disabled.
func NewHandler(
	manager *booking.Manager,
	rooms store.Repository[model.Room],
	customers store.Repository[model.Customer],
	db *gorm.DB,
	webpushOptions *webpush.Options,
) *Handler {
	return &Handler{
		bookings:  manager,
		rooms:     rooms,
		customers: customers,
		db:        db,
		webpush:   webpushOptions,
	}
}

// parseID reads the :id path parameter. It answers 400 and returns false
// when the parameter is not a positive integer.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// bindingErrors turns validator failures into a field -> message map. It
// returns nil for anything that is not a validation failure, such as
// malformed JSON.
func bindingErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func init() {
	// Report fields by their wire names instead of the Go struct field names.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(wireName)
	}
}

func wireName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "datetime":
		return fmt.Sprintf("must be a date formatted as %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	}
	return fmt.Sprintf("failed the %q check", fe.Tag())
}

// badRequest answers a request whose body or query could not be bound.
func badRequest(c *gin.Context, err error) {
	if fields := bindingErrors(err); fields != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "errors": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
}

// storeError maps repository errors to 404 and logs everything else as a 500.
func storeError(c *gin.Context, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	internalError(c, err)
}

func internalError(c *gin.Context, err error) {
	log.Printf("[%s] %s %s failed: %v", mw.GetRequestID(c), c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// conflictAsNotFound reports an edit that matched no row as a missing
// record. The row was read just before, so it has been deleted since.
func conflictAsNotFound(err error) error {
	if errors.Is(err, store.ErrConflict) {
		return store.ErrNotFound
	}
	return err
}
