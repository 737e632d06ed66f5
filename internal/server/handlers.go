package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"study-assistant/internal/helper"
	"study-assistant/internal/models"
	"study-assistant/internal/parser"
	"study-assistant/internal/study"
)

// ReturnType is the envelope of every response.
type ReturnType struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

type notesRequest struct {
	Focus string `json:"focus"`
}

type flashcardsRequest struct {
	Count int `json:"count"`
}

type quizRequest struct {
	Count      int `json:"count"`
	Difficulty int `json:"difficulty"`
}

type chatRequest struct {
	Question string `json:"question"`
}

type answerRequest struct {
	Answer string `json:"answer"`
}

type documentResponse struct {
	Name   string `json:"name"`
	Chars  int    `json:"chars"`
	Chunks int    `json:"chunks"`
}

type markdownResponse struct {
	Markdown string           `json:"markdown"`
	HTML     string           `json:"html"`
	Outline  []helper.Heading `json:"outline,omitempty"`
}

type interviewResponse struct {
	Questions []string `json:"questions"`
	Current   string   `json:"current,omitempty"`
	Index     int      `json:"index"`
}

type evaluationResponse struct {
	*study.Evaluation
	Next string `json:"next,omitempty"`
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, ReturnType{Message: "ok", Data: map[string]int{"sessions": s.sessions.count()}})
}

func (s *Server) createSession(c echo.Context) error {
	id, err := s.sessions.create()
	if err != nil {
		return respondError(c, err)
	}
	c.Response().Header().Set(HeaderSessionID, id)
	return c.JSON(http.StatusCreated, ReturnType{Data: map[string]string{"session_id": id}})
}

func (s *Server) deleteSession(c echo.Context) error {
	if err := s.sessions.remove(sessionID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ReturnType{Message: "session closed"})
}

func sessionID(c echo.Context) string {
	return strings.TrimSpace(c.Request().Header.Get(HeaderSessionID))
}

func (s *Server) uploadDocument(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return respondError(c, models.NewValidationError("file", "multipart field is required"))
	}
	if !parser.Supported(fh.Filename) {
		return respondError(c, models.NewValidationError("file",
			fmt.Sprintf("unsupported file type, expected one of %s", strings.Join(parser.SupportedExtensions, " "))))
	}

	text, err := extractUpload(fh)
	if err != nil {
		return respondError(c, err)
	}

	var resp documentResponse
	err = s.sessions.update(sessionID(c), func(st study.State) (study.State, error) {
		next, err := s.assistant.Upload(st, fh.Filename, text)
		if err != nil {
			return st, err
		}
		resp = documentResponse{Name: next.Document.Name, Chars: len(next.Document.Text), Chunks: len(next.Document.Chunks)}
		return next, nil
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ReturnType{Data: resp})
}

// extractUpload copies the upload to a temporary file with the same extension, so the parser
// can pick the format, and returns its text.
func extractUpload(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "upload-*"+strings.ToLower(filepath.Ext(fh.Filename)))
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return "", fmt.Errorf("store upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}

	text, err := parser.ParseDocument(tmp.Name())
	if err != nil {
		if errors.Is(err, models.ErrEmptyContent) {
			return "", err
		}
		log.Warn().Err(err).Str("file", fh.Filename).Msg("Failed to parse upload")
		return "", models.NewValidationError("file", "could not extract text from "+fh.Filename)
	}
	return text, nil
}

func (s *Server) notes(c echo.Context) error {
	var req notesRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, err)
	}
	var notes string
	err := s.sessions.update(sessionID(c), func(st study.State) (study.State, error) {
		next, err := s.assistant.Notes(c.Request().Context(), st, req.Focus)
		notes = next.Notes
		return next, err
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ReturnType{Data: renderMarkdown(notes)})
}

func (s *Server) summary(c echo.Context) error {
	var summary string
	err := s.sessions.update(sessionID(c), func(st study.State) (study.State, error) {
		next, err := s.assistant.Summary(c.Request().Context(), st)
		summary = next.Summary
		return next, err
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ReturnType{Data: renderMarkdown(summary)})
}

// renderMarkdown adds the HTML rendering and outline. The markdown is still returned when
// either fails.
func renderMarkdown(md string) markdownResponse {
	resp := markdownResponse{Markdown: md}
	var err error
	if resp.HTML, err = helper.RenderMarkdown(md); err != nil {
		log.Warn().Err(err).Msg("Failed to render markdown")
	}
	if resp.Outline, err = helper.Outline(md); err != nil {
		log.Warn().Err(err).Msg("Failed to build outline")
	}
	return resp
}

func (s *Server) flashcards(c echo.Context) error {
	var req flashcardsRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, err)
	}
	var cards []models.Flashcard
	err := s.sessions.update(sessionID(c), func(st study.State) (study.State, error) {
		next, err := s.assistant.Flashcards(c.Request().Context(), st, req.Count)
		cards = next.Flashcards
		return next, err
	})
	if err != nil {
		return respondError(c, err)
	}
	if cards == nil {
		cards = []models.Flashcard{}
	}
	return c.JSON(http.StatusOK, ReturnType{Data: map[string]interface{}{"flashcards": cards}})
}

func (s *Server) quiz(c echo.Context) error {
	var req quizRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, err)
	}
	var questions []models.QuizQuestion
	err := s.sessions.update(sessionID(c), func(st study.State) (study.State, error) {
		var err error
		questions, err = s.assistant.Quiz(c.Request().Context(), st, req.Count, req.Difficulty)
		return st, err
	})
	if err != nil {
		return respondError(c, err)
	}
	if questions == nil {
		questions = []models.QuizQuestion{}
	}
	return c.JSON(http.StatusOK, ReturnType{Data: map[string]interface{}{"questions": questions}})
}

func (s *Server) chat(c echo.Context) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, err)
	}
	var resp *models.PromptResponse
	err := s.sessions.update(sessionID(c), func(st study.State) (study.State, error) {
		var err error
		resp, err = s.assistant.Ask(c.Request().Context(), st, req.Question)
		return st, err
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ReturnType{Data: resp})
}

func (s *Server) startInterview(c echo.Context) error {
	var req study.InterviewRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, err)
	}
	var resp interviewResponse
	err := s.sessions.update(sessionID(c), func(st study.State) (study.State, error) {
		next, err := s.assistant.StartInterview(c.Request().Context(), st, req)
		if err != nil {
			return st, err
		}
		resp = interviewView(next)
		return next, nil
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ReturnType{Data: resp})
}

func interviewView(st study.State) interviewResponse {
	current, _ := st.Interview.Current()
	return interviewResponse{Questions: st.Interview.Questions, Current: current, Index: st.Interview.Index}
}

func (s *Server) answerInterview(c echo.Context) error {
	var req answerRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, err)
	}
	var resp evaluationResponse
	err := s.sessions.update(sessionID(c), func(st study.State) (study.State, error) {
		next, eval, err := s.assistant.SubmitAnswer(c.Request().Context(), st, req.Answer)
		if err != nil {
			return st, err
		}
		resp.Evaluation = eval
		resp.Next, _ = next.Interview.Current()
		return next, nil
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ReturnType{Data: resp})
}

func (s *Server) endInterview(c echo.Context) error {
	err := s.sessions.update(sessionID(c), func(st study.State) (study.State, error) {
		return s.assistant.EndInterview(st), nil
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ReturnType{Message: "interview ended"})
}

func (s *Server) saveSession(c echo.Context) error {
	var rec *sessionRecord
	err := s.sessions.update(sessionID(c), func(st study.State) (study.State, error) {
		saved, err := s.assistant.Save(c.Request().Context(), st)
		if err != nil {
			return st, err
		}
		rec = &sessionRecord{Name: saved.Name, Timestamp: saved.Session.Timestamp}
		return st, nil
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, ReturnType{Message: "session saved", Data: rec})
}

// sessionRecord leaves out the storage URL, which is a server-side path.
type sessionRecord struct {
	Name      string `json:"name"`
	Timestamp string `json:"timestamp"`
}
