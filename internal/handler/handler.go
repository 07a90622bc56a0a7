package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hostel-admin/internal/middleware"
	"hostel-admin/internal/models"
	"hostel-admin/internal/service"
	"hostel-admin/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// currentAdmin returns the admin put into the context by the auth middleware
// and writes a 401 when there is none.
func currentAdmin(c *gin.Context) (*models.Admin, bool) {
	v, ok := c.Get(middleware.ContextAdmin)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Authentication required")
		return nil, false
	}
	admin, ok := v.(*models.Admin)
	if !ok || admin == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Authentication required")
		return nil, false
	}
	return admin, true
}

// adminID is the id of the authenticated admin, 0 on public routes.
func adminID(c *gin.Context) uint {
	if v, ok := c.Get(middleware.ContextAdmin); ok {
		if admin, ok := v.(*models.Admin); ok && admin != nil {
			return admin.ID
		}
	}
	return 0
}

// respondError maps a service error onto the response envelope.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, service.Message(err))
	case errors.Is(err, service.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, service.Message(err))
	case errors.Is(err, service.ErrConflict):
		util.Error(c, http.StatusConflict, util.CodeConflict, service.Message(err))
	default:
		if log != nil {
			log.Error("request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.Error(err))
		}
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal server error")
	}
}

// paramID parses a positive integer path parameter.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// pageQuery reads page / per_page; page_size is accepted as an alias.
func pageQuery(c *gin.Context) service.Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.Query("per_page"))
	if size == 0 {
		size, _ = strconv.Atoi(c.Query("page_size"))
	}
	return service.Page{Page: page, PerPage: size}
}

// monthQuery resolves the month of a report request. It accepts
// ?month=YYYY-MM, or ?month=M&year=YYYY, and defaults to the month of now.
func monthQuery(c *gin.Context, now time.Time) (time.Time, error) {
	m := strings.TrimSpace(c.Query("month"))
	y := strings.TrimSpace(c.Query("year"))
	if strings.Contains(m, "-") {
		return util.ParseMonth(m)
	}
	year, month := now.Year(), int(now.Month())
	if y != "" {
		v, err := strconv.Atoi(y)
		if err != nil {
			return time.Time{}, errors.New("year must be an integer")
		}
		year = v
	}
	if m != "" {
		v, err := strconv.Atoi(m)
		if err != nil {
			return time.Time{}, errors.New("month must be an integer")
		}
		month = v
	}
	return util.YearMonth(year, month)
}
