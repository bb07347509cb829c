package handler

import (
	"errors"
	"net/http"
	"strconv"

	"evidencias/internal/apierror"
	"evidencias/internal/middleware"
	"evidencias/internal/service"
	"evidencias/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes a 400 if either step fails; the caller should
// return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(http.StatusBadRequest, "Cuerpo de la solicitud inválido"))
		return false
	}
	return validateStruct(c, req)
}

// bindQuery is bindAndValidate for query-string filters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(http.StatusBadRequest, "Parámetros de consulta inválidos"))
		return false
	}
	return validateStruct(c, req)
}

func validateStruct(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(http.StatusBadRequest, err.Error()))
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusBadRequest, apierror.NewValidation(fields))
		return false
	}
	return true
}

// parseID reads a positive numeric path parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, apierror.New(http.StatusBadRequest, name+" debe ser numérico"))
		return 0, false
	}
	return uint(v), true
}

func actor(c *gin.Context) token.Identity {
	id, _ := middleware.GetIdentity(c)
	return id
}

// responderError maps service errors to statuses. Anything unrecognized is a
// 500 whose cause is logged by middleware.ErrorHandler, never sent.
func responderError(c *gin.Context, err error) {
	var code int
	switch {
	case errors.Is(err, service.ErrValidacion):
		code = http.StatusBadRequest
	case errors.Is(err, service.ErrCredenciales):
		code = http.StatusUnauthorized
	case errors.Is(err, service.ErrUsuarioInactivo), errors.Is(err, service.ErrProhibido):
		code = http.StatusForbidden
	case errors.Is(err, service.ErrNoEncontrado):
		code = http.StatusNotFound
	case errors.Is(err, service.ErrConflicto):
		code = http.StatusConflict
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, apierror.Internal())
		return
	}

	msg := http.StatusText(code)
	var se *service.Error
	if errors.As(err, &se) {
		msg = se.Msg
	}
	c.JSON(code, apierror.New(code, msg))
}
