package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/hrygo/kotoba/store"
)

type CreateSeriesRequest struct {
	Name string `json:"name"`
}

type SeriesResponse struct {
	UID       string `json:"uid"`
	Name      string `json:"name"`
	CreatedTs int64  `json:"createdTs"`
}

func convertSeries(series *store.Series) *SeriesResponse {
	return &SeriesResponse{
		UID:       series.UID,
		Name:      series.Name,
		CreatedTs: series.CreatedTs,
	}
}

func (s *APIV1Service) CreateSeries(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	request := &CreateSeriesRequest{}
	if err := c.Bind(request); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed series")
	}
	if request.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	existing, err := s.Store.GetSeries(ctx, &store.FindSeries{CreatorID: &user.ID, Name: &request.Name})
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "failed to check series")
	}
	if existing != nil {
		return echo.NewHTTPError(http.StatusConflict, "series name already in use")
	}

	series, err := s.Store.CreateSeries(ctx, &store.Series{
		UID:       shortuuid.New(),
		CreatorID: user.ID,
		Name:      request.Name,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "failed to create series")
	}
	return c.JSON(http.StatusOK, convertSeries(series))
}

func (s *APIV1Service) ListSeries(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	seriesList, err := s.Store.ListSeries(ctx, &store.FindSeries{CreatorID: &user.ID})
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "failed to list series")
	}

	list := make([]*SeriesResponse, 0, len(seriesList))
	for _, series := range seriesList {
		list = append(list, convertSeries(series))
	}
	return c.JSON(http.StatusOK, list)
}

func (s *APIV1Service) DeleteSeries(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	series, err := s.findOwnSeries(c, user.ID)
	if err != nil {
		return err
	}

	// Memberships cascade; words and their stats stay.
	if err := s.Store.DeleteSeries(ctx, &store.DeleteSeries{ID: series.ID}); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "failed to delete series")
	}
	return c.NoContent(http.StatusOK)
}

func (s *APIV1Service) AddWordToSeries(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	series, err := s.findOwnSeries(c, user.ID)
	if err != nil {
		return err
	}
	word, err := s.findOwnWordByParam(c, user.ID, "wordUid")
	if err != nil {
		return err
	}

	if err := s.Store.AddWordToSeries(ctx, word.ID, series.ID); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "failed to add word to series")
	}
	return c.NoContent(http.StatusOK)
}

func (s *APIV1Service) RemoveWordFromSeries(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	series, err := s.findOwnSeries(c, user.ID)
	if err != nil {
		return err
	}
	word, err := s.findOwnWordByParam(c, user.ID, "wordUid")
	if err != nil {
		return err
	}

	if err := s.Store.RemoveWordFromSeries(ctx, word.ID, series.ID); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "failed to remove word from series")
	}
	return c.NoContent(http.StatusOK)
}

func (s *APIV1Service) findOwnSeries(c echo.Context, userID int32) (*store.Series, error) {
	uid := c.Param("uid")
	series, err := s.Store.GetSeries(c.Request().Context(), &store.FindSeries{UID: &uid, CreatorID: &userID})
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "failed to load series")
	}
	if series == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "series not found")
	}
	return series, nil
}

func (s *APIV1Service) findOwnWordByParam(c echo.Context, userID int32, param string) (*store.Word, error) {
	uid := c.Param(param)
	word, err := s.Store.GetWord(c.Request().Context(), &store.FindWord{UID: &uid, CreatorID: &userID})
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "failed to load word")
	}
	if word == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "word not found")
	}
	return word, nil
}
