package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamtools/internal/dispersion"
	"teamtools/internal/errors"
)

type samplesRequest struct {
	DataPoints []float64 `json:"data_points" binding:"required,min=2"`
}

type rangeRequest struct {
	Min    float64 `json:"min_val"`
	Max    float64 `json:"max_val"`
	Method string  `json:"method" binding:"omitempty,oneof=range_rule six_sigma"`
}

type quartilesRequest struct {
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
}

type conversionsRequest struct {
	Conversions []float64 `json:"conversions" binding:"required,min=2"`
	Visitors    []float64 `json:"visitors" binding:"required,min=2"`
}

type conversionRateRequest struct {
	BaselineRate float64 `json:"baseline_rate" binding:"gt=0,lt=1"`
	SampleSize   int     `json:"sample_size" binding:"gt=0"`
}

type precisionRequest struct {
	TargetPrecision float64 `json:"target_precision" binding:"gt=0"`
	ConfidenceLevel float64 `json:"confidence_level" binding:"omitempty,gt=0,lt=1"`
}

// respond renders a dispersion result, mapping engine errors to DOMAIN_ERROR
func (s *Server) respond(c *gin.Context, result interface{}, err error) {
	if err != nil {
		s.renderError(c, errors.DomainError(err))
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleDispersionSamples(c *gin.Context) {
	var req samplesRequest
	if !s.bindJSON(c, &req) {
		return
	}
	result, err := dispersion.FromSamples(req.DataPoints)
	s.respond(c, result, err)
}

func (s *Server) handleDispersionRange(c *gin.Context) {
	var req rangeRequest
	if !s.bindJSON(c, &req) {
		return
	}
	result, err := dispersion.FromRange(req.Min, req.Max, dispersion.RangeMethod(req.Method))
	s.respond(c, result, err)
}

func (s *Server) handleDispersionQuartiles(c *gin.Context) {
	var req quartilesRequest
	if !s.bindJSON(c, &req) {
		return
	}
	result, err := dispersion.FromQuartiles(req.Q1, req.Median, req.Q3)
	s.respond(c, result, err)
}

func (s *Server) handleDispersionConversions(c *gin.Context) {
	var req conversionsRequest
	if !s.bindJSON(c, &req) {
		return
	}
	result, err := dispersion.FromConversionData(req.Conversions, req.Visitors)
	s.respond(c, result, err)
}

func (s *Server) handleConversionRate(c *gin.Context) {
	var req conversionRateRequest
	if !s.bindJSON(c, &req) {
		return
	}
	result, err := dispersion.ConversionRate(req.BaselineRate, req.SampleSize)
	s.respond(c, result, err)
}

func (s *Server) handlePrecision(c *gin.Context) {
	var req precisionRequest
	if !s.bindJSON(c, &req) {
		return
	}
	if req.ConfidenceLevel == 0 {
		req.ConfidenceLevel = 0.95
	}
	result, err := dispersion.SamplesForPrecision(req.TargetPrecision, req.ConfidenceLevel)
	s.respond(c, result, err)
}
