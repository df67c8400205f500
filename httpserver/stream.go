package httpserver

import (
	"context"
	"time"

	"moviebook/bookmarklist"
	"moviebook/movie"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	bookmarkStreamPath = "/api/bookmarks/stream"

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// StreamFrame is pushed to websocket clients after every bookmark change.
type StreamFrame struct {
	Bookmarks []movie.Movie `json:"bookmarks"`
}

// handleBookmarkStream keeps a bookmarks view state per connection and
// pushes every snapshot to the client. Clients may send StreamCommand
// messages to remove bookmarks.
func (s *Server) handleBookmarkStream(c echo.Context) error {
	svc, err := s.movieService()
	if err != nil {
		return err
	}

	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		s.Logger.Warn("websocket upgrade failed", "error", err)
		return nil
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()
	logger := s.Logger.With("remote", conn.RemoteAddr().String())

	view := bookmarklist.New(svc)
	go s.readStreamCommands(ctx, cancel, conn, view)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
				if err != nil {
					cancel()
					return
				}
			}
		}
	}()

	view.Run(ctx, func(movies []movie.Movie) {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(StreamFrame{Bookmarks: movies}); err != nil {
			logger.Debug("websocket write failed", "error", err)
			cancel()
		}
	})

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
	return nil
}

// readStreamCommands owns the read side of conn. It cancels the stream once
// the client goes away.
func (s *Server) readStreamCommands(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, view *bookmarklist.ViewState) {
	defer cancel()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var cmd StreamCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}
		if cmd.Remove == "" {
			continue
		}
		if err := view.RemoveBookmark(ctx, cmd.Remove); err != nil {
			s.Logger.Warn("remove bookmark from stream failed", "id", cmd.Remove, "error", err)
		}
	}
}
