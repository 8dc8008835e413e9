package server

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"document-assistant/internal/extractor"
	"document-assistant/internal/models"
	"document-assistant/internal/session"
)

type questionRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

type challengeRequest struct {
	SessionID string `json:"session_id"`
}

type evaluateRequest struct {
	SessionID  string `json:"session_id"`
	QuestionID int    `json:"question_id"`
	Answer     string `json:"answer"`
}

func (s *Server) upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing file")
	}

	name := filepath.Base(fileHeader.Filename)
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".pdf" && ext != ".txt" {
		return echo.NewHTTPError(http.StatusBadRequest, "only PDF and TXT files are supported")
	}

	id := uuid.NewString()
	dir := filepath.Join(s.cfg.Server.UploadDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, name)
	if err := saveUpload(fileHeader, path); err != nil {
		return err
	}

	ctx := c.Request().Context()
	chunks, err := s.processor.Process(ctx, path)
	if err != nil {
		_ = os.RemoveAll(dir)
		if errors.Is(err, extractor.ErrUnsupportedFormat) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		var extractionErr *extractor.ExtractionError
		if errors.As(err, &extractionErr) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		}
		return err
	}
	if len(chunks) == 0 {
		_ = os.RemoveAll(dir)
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "document produced no text")
	}

	sess := s.store.Create(id, name, chunks)

	summary, err := s.assistant.Summary(ctx, chunks)
	if err != nil {
		log.Warn().Err(err).Str("session", id).Msg("summary generation failed")
		summary = "Summary unavailable"
	}

	log.Info().Str("session", sess.ID).Str("file", name).Int("chunks", len(chunks)).Msg("document ingested")
	return c.JSON(http.StatusOK, map[string]any{
		"session_id": sess.ID,
		"summary":    summary,
		"status":     "success",
	})
}

func (s *Server) ask(c echo.Context) error {
	var req questionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	sess, ok := s.store.Get(req.SessionID)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}

	answer, err := s.assistant.Answer(c.Request().Context(), sess.Chunks, req.Question)
	if err != nil {
		return err
	}
	_ = s.store.AppendExchange(sess.ID, session.Exchange{Question: req.Question, Answer: answer.Answer})

	return c.JSON(http.StatusOK, answer)
}

func (s *Server) challenge(c echo.Context) error {
	var req challengeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.SessionID == "" {
		req.SessionID = c.QueryParam("session_id")
	}
	sess, ok := s.store.Get(req.SessionID)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}

	questions, err := s.assistant.GenerateChallenge(c.Request().Context(), sess.Chunks)
	if err != nil {
		return err
	}
	if err := s.store.SetChallenge(sess.ID, questions); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"questions":    questions,
		"instructions": "Answer these questions based on the document content",
	})
}

func (s *Server) evaluate(c echo.Context) error {
	var req evaluateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	sess, ok := s.store.Get(req.SessionID)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	questions, ok := s.store.Challenge(req.SessionID)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "no challenge generated for this session")
	}
	if req.QuestionID < 1 || req.QuestionID > len(questions) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid question id")
	}

	evaluation, err := s.assistant.Evaluate(c.Request().Context(), sess.Chunks, questions[req.QuestionID-1], req.Answer)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, evaluation)
}

func (s *Server) sessionInfo(c echo.Context) error {
	sess, ok := s.store.Get(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return c.JSON(http.StatusOK, sessionSummary(sess))
}

func (s *Server) sessionChunks(c echo.Context) error {
	sess, ok := s.store.Get(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return c.JSON(http.StatusOK, map[string]any{"chunks": models.ChunkViews(sess.Chunks)})
}

func (s *Server) listSessions(c echo.Context) error {
	sessions := s.store.List()
	out := make([]map[string]any, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, sessionSummary(sess))
	}
	return c.JSON(http.StatusOK, map[string]any{"sessions": out})
}

func (s *Server) deleteSession(c echo.Context) error {
	id := c.Param("id")
	if !s.store.Delete(id) {
		return echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	_ = os.RemoveAll(filepath.Join(s.cfg.Server.UploadDir, id))
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

func sessionSummary(sess *session.Session) map[string]any {
	return map[string]any{
		"session_id":    sess.ID,
		"filename":      sess.Filename,
		"upload_time":   sess.UploadedAt,
		"chunks":        len(sess.Chunks),
		"has_challenge": sess.Challenge != nil,
	}
}

func saveUpload(fileHeader *multipart.FileHeader, path string) error {
	src, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
