package handler

import (
	"net/http"

	"github.com/Fraancoboss/WTRACKER/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// All responses share one envelope: {"success": true, "data": ...} on the
// happy path, {"success": false, "message": ...} on errors.

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func okMessage(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": msg})
}

// fail maps any error to its HTTP status via the apierror taxonomy.
func fail(c *gin.Context, err error) {
	apiErr := apierror.From(err)
	if apiErr.Err != nil {
		// Keep the cause visible for the error-handling middleware log.
		_ = c.Error(apiErr)
		return
	}
	c.JSON(apiErr.Status, gin.H{"success": false, "message": apiErr.Message})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails -
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "JSON inválido: " + err.Error()})
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Datos de entrada inválidos",
			"errors":  fields,
		})
		return false
	}
	return true
}
