package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alnah/studynotes/internal/apierr"
	"github.com/alnah/studynotes/internal/notes"
	"github.com/alnah/studynotes/internal/pipeline"
	"github.com/alnah/studynotes/internal/section"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Code    string `json:"code,omitempty"`
	Prompt  string `json:"prompt,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// statusFor maps pipeline error kinds to HTTP statuses.
func statusFor(err error) int {
	switch pipeline.KindOf(err) {
	case pipeline.ErrInput:
		return http.StatusBadRequest
	case pipeline.ErrModel:
		return http.StatusBadGateway
	case pipeline.ErrParse:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func kindName(err error) string {
	switch pipeline.KindOf(err) {
	case pipeline.ErrInput:
		return "input"
	case pipeline.ErrModel:
		return "model"
	case pipeline.ErrParse:
		return "parse"
	case pipeline.ErrRender:
		return "render"
	}
	return ""
}

func newErrorBody(err error) errorBody {
	body := errorBody{
		Error:  err.Error(),
		Kind:   kindName(err),
		Code:   apierr.Code(err),
		Prompt: pipeline.PromptOf(err),
	}
	var pe *notes.ParseError
	if errors.As(err, &pe) {
		body.Snippet = pe.Snippet
	}
	return body
}

func (s *Server) fail(c *gin.Context, err error) {
	s.log.Warn(c.Request.Context(), "%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.AbortWithStatusJSON(statusFor(err), newErrorBody(err))
}

func badRequest(err error) error {
	return &pipeline.Error{Kind: pipeline.ErrInput, Err: err}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type sectionInfo struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

func (s *Server) sections(c *gin.Context) {
	out := make([]sectionInfo, 0, len(section.All()))
	for _, k := range section.All() {
		out = append(out, sectionInfo{Key: k.String(), Label: k.Label(), Icon: k.Icon()})
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) notes(c *gin.Context) {
	var params pipeline.Params
	if err := c.ShouldBindJSON(&params); err != nil {
		s.fail(c, badRequest(fmt.Errorf("decode request: %w", err)))
		return
	}
	req, err := params.Request()
	if err != nil {
		s.fail(c, err)
		return
	}

	res, err := s.runner.Run(c.Request.Context(), req)
	setRunHeaders(c, res.Analysis)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, res.Format.ContentType(), res.Output)
}

type normalizeRequest struct {
	Reply string `json:"reply" binding:"required"`
}

func (s *Server) normalize(c *gin.Context) {
	var req normalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, badRequest(fmt.Errorf("decode request: %w", err)))
		return
	}
	doc, err := notes.Normalize(req.Reply)
	if err != nil {
		s.fail(c, &pipeline.Error{Kind: pipeline.ErrParse, Err: err})
		return
	}
	c.JSON(http.StatusOK, doc)
}
