package ui

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"teamtools/adapters/excel"
	"teamtools/adapters/report"
	"teamtools/app"
	"teamtools/internal/errors"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handlePlan(c *gin.Context) {
	var req app.PlanRequest
	if !s.bindJSON(c, &req) {
		return
	}
	result, err := s.plans.Plan(c.Request.Context(), req)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleConsistency(c *gin.Context) {
	var req app.PlanRequest
	if !s.bindJSON(c, &req) {
		return
	}
	result, consistency, err := s.plans.PlanWithConsistency(c.Request.Context(), req)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"plan":        result,
		"consistency": consistency,
	})
}

// handleReport renders the plan as markdown (default) or a standalone HTML page
func (s *Server) handleReport(c *gin.Context) {
	format := c.DefaultQuery("format", "markdown")
	if format != "markdown" && format != "html" {
		s.renderError(c, errors.InvalidInput(fmt.Sprintf("unsupported report format %q", format)))
		return
	}

	var req app.PlanRequest
	if !s.bindJSON(c, &req) {
		return
	}
	result, consistency, err := s.plans.PlanWithConsistency(c.Request.Context(), req)
	if err != nil {
		s.renderError(c, err)
		return
	}

	if format == "html" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", report.HTML(result, &consistency))
		return
	}
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", report.Markdown(result, &consistency))
}

func (s *Server) handleExport(c *gin.Context) {
	var req app.PlanRequest
	if !s.bindJSON(c, &req) {
		return
	}
	result, err := s.plans.Plan(c.Request.Context(), req)
	if err != nil {
		s.renderError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := excel.WritePlan(result, &buf); err != nil {
		s.renderError(c, errors.Wrap(err, "failed to render workbook"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="msprt-plan-%s.xlsx"`, result.PlanID))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (s *Server) handleSweep(c *gin.Context) {
	var req app.SweepRequest
	if !s.bindJSON(c, &req) {
		return
	}
	result, err := s.sweeps.Sweep(c.Request.Context(), req)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleFixedHorizon(c *gin.Context) {
	var req app.FixedHorizonRequest
	if !s.bindJSON(c, &req) {
		return
	}
	result, err := s.plans.FixedHorizon(c.Request.Context(), req)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
