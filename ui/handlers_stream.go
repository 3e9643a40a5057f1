package ui

import (
	"io"

	"github.com/gin-gonic/gin"

	"teamtools/app"
	"teamtools/internal/errors"
)

type sweepOutcome struct {
	result *app.SweepResult
	err    error
}

// handleSweepStream runs a sweep and streams one "row" event per finished plan,
// then a final "done" or "error" event
func (s *Server) handleSweepStream(c *gin.Context) {
	var req app.SweepRequest
	if !s.bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.renderError(c, err)
		return
	}

	ctx := c.Request.Context()
	rows := make(chan app.SweepProgress, len(req.Improvements))
	done := make(chan sweepOutcome, 1)
	go func() {
		result, err := s.sweeps.SweepWithProgress(ctx, req, func(p app.SweepProgress) {
			rows <- p
		})
		close(rows)
		done <- sweepOutcome{result: result, err: err}
	}()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case p, ok := <-rows:
			if ok {
				c.SSEvent("row", p)
				return true
			}
			outcome := <-done
			if outcome.err != nil {
				code := errors.Classify(outcome.err)
				c.SSEvent("error", errorBody{Code: code, Message: outcome.err.Error()})
				return false
			}
			c.SSEvent("done", outcome.result)
			return false
		case <-ctx.Done():
			return false
		}
	})
}
