package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hengshuofushi123/greenledger/internal/api/models"
)

// ProjectsHandler serves the project listing.
type ProjectsHandler struct {
	projects ProjectLister
}

// NewProjectsHandler creates a projects handler.
func NewProjectsHandler(projects ProjectLister) *ProjectsHandler {
	return &ProjectsHandler{projects: projects}
}

// List handles GET /api/v1/projects
func (h *ProjectsHandler) List(c *gin.Context) {
	var scope models.ProjectScope
	if err := c.ShouldBindQuery(&scope); err != nil {
		badRequest(c, "INVALID_REQUEST", err.Error())
		return
	}

	projects, err := h.projects.List(c.Request.Context(), scope.ToFilter())
	if err != nil {
		queryFailed(c, err)
		return
	}

	out := make([]models.ProjectInfo, len(projects))
	for i, p := range projects {
		out[i] = models.ProjectInfo{
			ID:                  p.ID,
			Name:                p.Name,
			Province:            p.Province,
			SecondaryUnit:       p.SecondaryUnit,
			PowerType:           p.PowerType,
			ProjectNature:       p.ProjectNature,
			InvestmentScope:     p.InvestmentScope,
			CapacityMW:          p.CapacityMW,
			UHVSupport:          p.UHVSupport,
			HasSubsidy:          p.HasSubsidy,
			Filed:               p.Filed,
			BeijingRegistered:   p.BeijingRegistered,
			GuangzhouRegistered: p.GuangzhouRegistered,
		}
	}
	c.JSON(http.StatusOK, gin.H{"projects": out, "count": len(out)})
}
