package transport

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ganot/accomplish/internal/domain/activity"
	"github.com/ganot/accomplish/internal/domain/project"
	"github.com/ganot/accomplish/internal/importer"
)

type createProjectBody struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

type updateProjectBody struct {
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

type projectDetail struct {
	*project.Project
	Activities []activity.Activity `json:"activities"`
}

type importResponse struct {
	Success bool `json:"success"`
	*importer.Result
}

func (h *handler) listProjects(c *gin.Context) {
	projects, err := h.Projects.List(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to fetch projects")
		return
	}
	if projects == nil {
		projects = []project.ProjectSummary{}
	}
	c.JSON(http.StatusOK, projects)
}

func (h *handler) createProject(c *gin.Context) {
	var body createProjectBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	proj, err := h.Projects.Create(c.Request.Context(), project.CreateRequest{Name: body.Name, Image: body.Image})
	if err != nil {
		h.fail(c, err, "Failed to create project")
		return
	}
	c.JSON(http.StatusCreated, proj)
}

func (h *handler) getProject(c *gin.Context) {
	ctx := c.Request.Context()
	proj, err := h.Projects.Get(ctx, c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to fetch project")
		return
	}
	acts, err := h.Activities.List(ctx, activity.ListOptions{ProjectID: proj.ID})
	if err != nil {
		h.fail(c, err, "Failed to fetch project")
		return
	}
	if acts == nil {
		acts = []activity.Activity{}
	}
	c.JSON(http.StatusOK, projectDetail{Project: proj, Activities: acts})
}

func (h *handler) updateProject(c *gin.Context) {
	var body updateProjectBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	proj, err := h.Projects.Update(c.Request.Context(), project.UpdateRequest{
		ID:    c.Param("id"),
		Name:  body.Name,
		Image: body.Image,
	})
	if err != nil {
		h.fail(c, err, "Failed to update project")
		return
	}
	c.JSON(http.StatusOK, proj)
}

func (h *handler) deleteProject(c *gin.Context) {
	removed, err := h.Projects.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to delete project")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":           "Project deleted successfully",
		"deletedActivities": removed,
	})
}

func (h *handler) importActivities(c *gin.Context) {
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, &APIError{Code: "FILE_TOO_LARGE", Message: "File is too large"})
			return
		}
		badRequest(c, "No file provided")
		return
	}
	defer file.Close()

	format, err := importer.DetectFormat(header.Header.Get("Content-Type"), header.Filename)
	if err != nil {
		h.fail(c, err, "")
		return
	}

	res, err := h.Importer.ImportFile(c.Request.Context(), file, format)
	if err != nil {
		h.fail(c, err, "Failed to import activities")
		return
	}
	c.JSON(http.StatusOK, importResponse{Success: true, Result: res})
}
