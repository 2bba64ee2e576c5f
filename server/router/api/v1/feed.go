package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"

	"github.com/hrygo/kotoba/store"
)

// feedItemLimit caps the number of words in the RSS feed.
const feedItemLimit = 50

// WordFeed serves an RSS feed of the acting user's most recent words.
func (s *APIV1Service) WordFeed(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	limit := feedItemLimit
	offset := 0
	words, err := s.Store.ListWords(ctx, &store.FindWord{
		CreatorID: &user.ID,
		Limit:     &limit,
		Offset:    &offset,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "failed to list words")
	}

	baseURL := s.Profile.InstanceURL
	feed := &feeds.Feed{
		Title:       fmt.Sprintf("kotoba — words of %s", user.Username),
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/api/v1/words/feed.rss", baseURL)},
		Description: "Recently added vocabulary",
		Created:     time.Now(),
	}

	for _, word := range words {
		description := word.Phonetic
		if word.Notes != "" {
			if html, renderErr := s.MarkdownService.RenderHTML(word.Notes); renderErr == nil {
				description = html
			}
		}
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          word.UID,
			Title:       fmt.Sprintf("%s (%s)", word.Script, word.Text),
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/words/%s", baseURL, word.UID)},
			Description: description,
			Created:     time.Unix(word.CreatedTs, 0),
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render feed")
	}
	return c.Blob(http.StatusOK, "application/rss+xml", []byte(rss))
}
