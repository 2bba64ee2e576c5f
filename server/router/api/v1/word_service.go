package v1

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/hrygo/kotoba/internal/util"
	"github.com/hrygo/kotoba/store"
)

// maxWordPageSize caps a single list page.
const maxWordPageSize = 200

type CreateWordRequest struct {
	Text      string `json:"text"`
	Phonetic  string `json:"phonetic"`
	Script    string `json:"script"`
	ScriptAlt string `json:"scriptAlt"`
	Notes     string `json:"notes"`
}

type UpdateWordRequest struct {
	Text      *string `json:"text"`
	Phonetic  *string `json:"phonetic"`
	Script    *string `json:"script"`
	ScriptAlt *string `json:"scriptAlt"`
	Notes     *string `json:"notes"`
}

type WordResponse struct {
	UID       string `json:"uid"`
	Text      string `json:"text"`
	Phonetic  string `json:"phonetic"`
	Script    string `json:"script"`
	ScriptAlt string `json:"scriptAlt"`
	Notes     string `json:"notes"`
	NotesHTML string `json:"notesHtml,omitempty"`
	CreatedTs int64  `json:"createdTs"`
	UpdatedTs int64  `json:"updatedTs"`
}

func (s *APIV1Service) convertWord(word *store.Word, renderNotes bool) *WordResponse {
	response := &WordResponse{
		UID:       word.UID,
		Text:      word.Text,
		Phonetic:  word.Phonetic,
		Script:    word.Script,
		ScriptAlt: word.ScriptAlt,
		Notes:     word.Notes,
		CreatedTs: word.CreatedTs,
		UpdatedTs: word.UpdatedTs,
	}
	if renderNotes && word.Notes != "" {
		// Rendering failure falls back to raw notes already present.
		if html, err := s.MarkdownService.RenderHTML(word.Notes); err == nil {
			response.NotesHTML = html
		}
	}
	return response
}

func (s *APIV1Service) CreateWord(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	request := &CreateWordRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed word")
	}
	if request.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text is required")
	}

	word, err := s.Store.CreateWord(ctx, &store.Word{
		UID:       shortuuid.New(),
		CreatorID: user.ID,
		Text:      request.Text,
		Phonetic:  request.Phonetic,
		Script:    request.Script,
		ScriptAlt: request.ScriptAlt,
		Notes:     request.Notes,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "failed to create word")
	}
	return c.JSON(http.StatusOK, s.convertWord(word, false))
}

func (s *APIV1Service) ListWords(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	find := &store.FindWord{CreatorID: &user.ID}
	if seriesUID := c.QueryParam("series"); seriesUID != "" {
		series, err := s.Store.GetSeries(ctx, &store.FindSeries{UID: &seriesUID, CreatorID: &user.ID})
		if err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "failed to load series")
		}
		if series == nil {
			return echo.NewHTTPError(http.StatusNotFound, "series not found")
		}
		find.SeriesID = &series.ID
	}
	if limit, offset, ok := parsePagination(c); ok {
		find.Limit = &limit
		find.Offset = &offset
	}

	words, err := s.Store.ListWords(ctx, find)
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "failed to list words")
	}

	list := make([]*WordResponse, 0, len(words))
	for _, word := range words {
		list = append(list, s.convertWord(word, false))
	}
	return c.JSON(http.StatusOK, list)
}

func (s *APIV1Service) GetWord(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	uid := c.Param("uid")
	if !util.ValidateUID(uid) {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed word uid")
	}

	word, err := s.Store.GetWord(ctx, &store.FindWord{UID: &uid, CreatorID: &user.ID})
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "failed to load word")
	}
	if word == nil {
		return echo.NewHTTPError(http.StatusNotFound, "word not found")
	}

	response := s.convertWord(word, true)
	return c.JSON(http.StatusOK, response)
}

func (s *APIV1Service) UpdateWord(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	uid := c.Param("uid")
	word, err := s.Store.GetWord(ctx, &store.FindWord{UID: &uid, CreatorID: &user.ID})
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "failed to load word")
	}
	if word == nil {
		return echo.NewHTTPError(http.StatusNotFound, "word not found")
	}

	request := &UpdateWordRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed update")
	}
	if request.Text != nil && *request.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text cannot be empty")
	}

	updatedTs := time.Now().Unix()
	update := &store.UpdateWord{
		ID:        word.ID,
		UpdatedTs: &updatedTs,
		Text:      request.Text,
		Phonetic:  request.Phonetic,
		Script:    request.Script,
		ScriptAlt: request.ScriptAlt,
		Notes:     request.Notes,
	}
	if err := s.Store.UpdateWord(ctx, update); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "failed to update word")
	}

	word, err = s.Store.GetWord(ctx, &store.FindWord{ID: &word.ID})
	if err != nil || word == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "failed to reload word")
	}
	return c.JSON(http.StatusOK, s.convertWord(word, false))
}

func (s *APIV1Service) DeleteWord(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	uid := c.Param("uid")
	word, err := s.Store.GetWord(ctx, &store.FindWord{UID: &uid, CreatorID: &user.ID})
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "failed to load word")
	}
	if word == nil {
		return echo.NewHTTPError(http.StatusNotFound, "word not found")
	}

	// Review stats cascade at the schema level.
	if err := s.Store.DeleteWord(ctx, &store.DeleteWord{ID: word.ID}); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "failed to delete word")
	}
	return c.NoContent(http.StatusOK)
}

func parsePagination(c echo.Context) (limit int, offset int, ok bool) {
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).Int("offset", &offset).BindError(); err != nil {
		return 0, 0, false
	}
	if limit <= 0 {
		return 0, 0, false
	}
	if limit > maxWordPageSize {
		limit = maxWordPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset, true
}
