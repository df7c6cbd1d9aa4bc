package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/yukikurage/team-task-board/internal/dto"
	apierrors "github.com/yukikurage/team-task-board/internal/errors"
	"github.com/yukikurage/team-task-board/internal/repository"
)

type DepartmentHandler struct {
	deptRepo repository.DepartmentRepository
}

func NewDepartmentHandler(deptRepo repository.DepartmentRepository) *DepartmentHandler {
	return &DepartmentHandler{deptRepo: deptRepo}
}

// ListDepartments returns every department for pickers and filters
func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	departments, err := h.deptRepo.List(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Failed to list departments")
		apierrors.ServiceUnavailable(c, "Failed to fetch departments")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"departments": dto.ToDepartmentDTOs(departments),
	})
}
