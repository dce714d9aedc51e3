// Package api serves stored games over HTTP.
package api

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"connect4/internal/history"
	"connect4/internal/replay"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Archive is the part of *history.Archive the API needs.
type Archive interface {
	List() ([]history.Record, error)
	Get(id string) (history.Record, error)
	Delete(id string) error
	Standings() ([]history.Standing, error)
}

type Handler struct {
	archive Archive
	log     *zap.Logger
}

// GameSummary is a list row: the record plus its display text, without moves.
type GameSummary struct {
	ID       string `json:"id"`
	Players  string `json:"players"`
	Result   string `json:"result"`
	Outcome  string `json:"outcome"`
	Moves    int    `json:"moves"`
	PlayedAt string `json:"playedAt"`
}

// BoardView is a board after a number of moves, top row first.
type BoardView struct {
	ID    string   `json:"id"`
	Move  int      `json:"move"`
	Total int      `json:"total"`
	Rows  []string `json:"rows"`
	Last  *Cell    `json:"last,omitempty"`
}

type Cell struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// New builds the app with all routes under /api.
func New(archive Archive, log *zap.Logger) *fiber.App {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Handler{archive: archive, log: log}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	Setup(app, h)
	return app
}

func Setup(app *fiber.App, h *Handler) {
	api := app.Group("/api")
	api.Get("/games", h.ListGames)
	api.Get("/games/:id", h.GetGame)
	api.Get("/games/:id/board", h.GetBoard)
	api.Delete("/games/:id", h.DeleteGame)
	api.Get("/standings", h.GetStandings)
}

func (h *Handler) ListGames(c *fiber.Ctx) error {
	records, err := h.archive.List()
	if err != nil {
		return h.internal(c, err)
	}
	games := make([]GameSummary, 0, len(records))
	for _, r := range records {
		games = append(games, GameSummary{
			ID:       r.ID,
			Players:  r.PlayersText(),
			Result:   r.Result.String(),
			Outcome:  r.ResultText(),
			Moves:    len(r.Moves),
			PlayedAt: r.PlayedAt.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(games)
}

func (h *Handler) GetGame(c *fiber.Ctx) error {
	r, err := h.archive.Get(c.Params("id"))
	if err != nil {
		return h.lookupError(c, err)
	}
	return c.JSON(r)
}

// GetBoard replays the game up to ?move=N, defaulting to the final position.
func (h *Handler) GetBoard(c *fiber.Ctx) error {
	r, err := h.archive.Get(c.Params("id"))
	if err != nil {
		return h.lookupError(c, err)
	}

	move := len(r.Moves)
	if q := c.Query("move"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 || n > len(r.Moves) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "move must be between 0 and " + strconv.Itoa(len(r.Moves)),
			})
		}
		move = n
	}

	e := replay.New(r)
	if err := e.Seek(move); err != nil {
		h.log.Warn("stored game cannot be replayed", zap.String("game_id", r.ID), zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	b := e.Board()
	view := BoardView{
		ID:    r.ID,
		Move:  e.Cursor(),
		Total: e.Total(),
		Rows:  strings.Split(b.String(), "\n"),
	}
	if row, col, ok := e.LastMove(); ok {
		view.Last = &Cell{Row: row, Column: col}
	}
	return c.JSON(view)
}

func (h *Handler) DeleteGame(c *fiber.Ctx) error {
	if err := h.archive.Delete(c.Params("id")); err != nil {
		return h.lookupError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) GetStandings(c *fiber.Ctx) error {
	standings, err := h.archive.Standings()
	if err != nil {
		return h.internal(c, err)
	}
	return c.JSON(standings)
}

func (h *Handler) lookupError(c *fiber.Ctx, err error) error {
	if errors.Is(err, history.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "game not found"})
	}
	return h.internal(c, err)
}

func (h *Handler) internal(c *fiber.Ctx, err error) error {
	h.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "storage error"})
}
