package transport

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ganot/accomplish/internal/export"
	"github.com/ganot/accomplish/internal/period"
	"github.com/ganot/accomplish/internal/stats"
)

func statsFilter(c *gin.Context) stats.Filter {
	return stats.Filter{
		Project: c.Query("project"),
		Year:    c.Query("year"),
		Bucket:  period.ParseBucket(c.Query("bucket")),
	}
}

func (h *handler) dashboard(c *gin.Context) {
	d, err := h.Stats.Dashboard(c.Request.Context(), statsFilter(c))
	if err != nil {
		h.fail(c, err, "Failed to compute statistics")
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *handler) chart(c *gin.Context) {
	d, err := h.Stats.Dashboard(c.Request.Context(), statsFilter(c))
	if err != nil {
		h.fail(c, err, "Failed to compute statistics")
		return
	}

	var buf bytes.Buffer
	art, err := h.Exporter.Chart(&buf, d)
	if err != nil {
		h.fail(c, err, "Failed to render chart")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, art.Filename))
	c.Data(http.StatusOK, art.ContentType, buf.Bytes())
}

func (h *handler) exportActivities(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		h.fail(c, err, "")
		return
	}
	order := period.ParseOrder(c.Query("sort"), h.defaultSort)
	ctx := c.Request.Context()

	var (
		buf bytes.Buffer
		art *export.Artifact
	)
	if format == export.FormatPNG {
		d, err := h.Stats.Dashboard(ctx, statsFilter(c))
		if err != nil {
			h.fail(c, err, "Failed to export activities")
			return
		}
		art, err = h.Exporter.Chart(&buf, d)
		if err != nil {
			h.fail(c, err, "Failed to export activities")
			return
		}
	} else {
		acts, err := h.Activities.List(ctx, listOptions(c))
		if err != nil {
			h.fail(c, err, "Failed to export activities")
			return
		}
		art, err = h.Exporter.Export(&buf, format, acts, order)
		if err != nil {
			h.fail(c, err, "Failed to export activities")
			return
		}
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, art.Filename))
	c.Data(http.StatusOK, art.ContentType, buf.Bytes())
}
