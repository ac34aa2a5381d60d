package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"stock-portfolio-api/ledger"
	"stock-portfolio-api/models"
)

// API holds the handlers' shared collaborators. Every mutation of the
// transaction ledger goes through Ledger; handlers never write holdings or
// portfolio totals themselves.
type API struct {
	DB     *gorm.DB
	Rdb    *redis.Client
	Ledger *ledger.Service
}

func New(db *gorm.DB, rdb *redis.Client) *API {
	return &API{DB: db, Rdb: rdb, Ledger: ledger.New(db)}
}

func writeError(c *gin.Context, err error) {
	var invalid *models.InvalidInputError
	var insufficient *models.InsufficientQuantityError
	var reference *models.ReferenceNotFoundError
	var duplicate *models.DuplicateEntityError

	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
	case errors.As(err, &reference):
		c.JSON(http.StatusBadRequest, gin.H{"error": reference.Error()})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     insufficient.Error(),
			"current":   insufficient.Current,
			"requested": insufficient.Requested,
		})
	case errors.As(err, &duplicate):
		c.JSON(http.StatusConflict, gin.H{"error": duplicate.Error()})
	default:
		log.Println("internal error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred while processing your request"})
	}
}

// paramID parses a numeric path parameter; on failure it writes the 400
// itself and returns false.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}
