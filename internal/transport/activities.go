package transport

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ganot/accomplish/internal/domain/activity"
	"github.com/ganot/accomplish/internal/period"
)

type deleteActivityResponse struct {
	Message string `json:"message"`
	*activity.DeleteResult
}

// queryInt reads an integer query parameter, returning def when absent.
func queryInt(c *gin.Context, key string, def int) (int, bool) {
	v := c.Query(key)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		badRequest(c, "Invalid "+key)
		return 0, false
	}
	return n, true
}

// listOptions reads the activity filters shared by list, export and stats.
func listOptions(c *gin.Context) activity.ListOptions {
	opts := activity.ListOptions{
		ProjectID: c.Query("projectId"),
		Project:   c.Query("project"),
		Year:      c.Query("year"),
		Status:    c.Query("status"),
		Bucket:    period.ParseBucket(c.Query("bucket")),
	}
	if opts.Project == "all" {
		opts.Project = ""
	}
	return opts
}

func (h *handler) listActivities(c *gin.Context) {
	opts := listOptions(c)
	var ok bool
	if opts.Limit, ok = queryInt(c, "limit", 0); !ok {
		return
	}
	if opts.Offset, ok = queryInt(c, "offset", 0); !ok {
		return
	}

	acts, err := h.Activities.List(c.Request.Context(), opts)
	if err != nil {
		h.fail(c, err, "Failed to fetch activities")
		return
	}
	if acts == nil {
		acts = []activity.Activity{}
	}
	c.JSON(http.StatusOK, acts)
}

func (h *handler) createActivity(c *gin.Context) {
	var req activity.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	act, err := h.Activities.Create(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Failed to create activity")
		return
	}
	c.JSON(http.StatusCreated, act)
}

func (h *handler) getActivity(c *gin.Context) {
	act, err := h.Activities.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, "Failed to fetch activity")
		return
	}
	c.JSON(http.StatusOK, act)
}

func (h *handler) updateActivity(c *gin.Context) {
	var req activity.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	req.ID = c.Param("id")

	act, err := h.Activities.Update(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err, "Failed to update activity")
		return
	}
	c.JSON(http.StatusOK, act)
}

func (h *handler) deleteActivity(c *gin.Context) {
	prune, _ := strconv.ParseBool(c.Query("pruneEmptyProject"))

	res, err := h.Activities.Delete(c.Request.Context(), activity.DeleteRequest{
		ID:                c.Param("id"),
		PruneEmptyProject: prune,
	})
	if err != nil {
		h.fail(c, err, "Failed to delete activity")
		return
	}
	c.JSON(http.StatusOK, deleteActivityResponse{Message: "Activity deleted successfully", DeleteResult: res})
}

func (h *handler) upcomingActivities(c *gin.Context) {
	months, ok := queryInt(c, "months", 3)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", 6)
	if !ok {
		return
	}

	acts, err := h.Activities.Upcoming(c.Request.Context(), months, limit)
	if err != nil {
		h.fail(c, err, "Failed to fetch upcoming activities")
		return
	}
	if acts == nil {
		acts = []activity.Activity{}
	}
	c.JSON(http.StatusOK, acts)
}
