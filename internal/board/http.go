// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package board

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/roster/internal/platform/middleware"
	requestutil "github.com/taibuivan/roster/internal/platform/request"
	"github.com/taibuivan/roster/internal/platform/respond"
	"github.com/taibuivan/roster/pkg/pagination"
)

// TokenIssuer signs the session token that grants access to one board.
type TokenIssuer interface {
	IssueToken(boardID string, ttl time.Duration) (string, error)
}

// Handler serves the board JSON API.
type Handler struct {
	service *Service
	issuer  TokenIssuer
	ttl     time.Duration
}

// NewHandler constructs a JSON API [Handler]. Tokens live as long as boards.
func NewHandler(service *Service, issuer TokenIssuer, ttl time.Duration) *Handler {
	return &Handler{service: service, issuer: issuer, ttl: ttl}
}

// RegisterRoutes mounts the board endpoints.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/", handler.mountBoard)

	// Owner only
	router.Route("/{boardID}", func(boardRoute chi.Router) {
		boardRoute.Use(middleware.RequireBoardOwner(boardIDParam))

		boardRoute.Get("/", handler.getBoard)
		boardRoute.Get("/characters", handler.listCharacters)
		boardRoute.Put("/search", handler.search)
		boardRoute.Put("/filters", handler.setFilters)
		boardRoute.Post("/starred/{characterID}", handler.toggleStar)
		boardRoute.Put("/selection", handler.selectCharacter)
		boardRoute.Delete("/characters/{characterID}", handler.softDelete)
	})
}

func boardIDParam(request *http.Request) string {
	return requestutil.Param(request, "boardID")
}

// # Payloads

type mountResponse struct {
	Board View   `json:"board"`
	Token string `json:"token"`
}

type searchRequest struct {
	Term string `json:"term"`
}

type filtersRequest struct {
	Species string `json:"species"`
	List    string `json:"list"`
}

type selectionRequest struct {
	CharacterID string `json:"character_id"`
}

// # Handlers

func (handler *Handler) mountBoard(writer http.ResponseWriter, request *http.Request) {
	board, err := handler.service.Mount(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.issuer.IssueToken(board.ID(), handler.ttl)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, mountResponse{Board: board.View(), Token: token})
}

func (handler *Handler) getBoard(writer http.ResponseWriter, request *http.Request) {
	board, err := handler.service.Get(request.Context(), boardIDParam(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, board.View())
}

func (handler *Handler) listCharacters(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	board, err := handler.service.Get(request.Context(), boardIDParam(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	rows := []Row{}
	if all := board.View().All; all != nil {
		rows = all.Rows
	}

	start, end := paginationParams.Window(len(rows))
	respond.Paginated(writer, rows[start:end], pagination.NewMeta(paginationParams.Page, paginationParams.Limit, len(rows)))
}

func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	var input searchRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	board, err := handler.service.Search(request.Context(), boardIDParam(request), input.Term)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, board.View())
}

func (handler *Handler) setFilters(writer http.ResponseWriter, request *http.Request) {
	var input filtersRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	board, err := handler.service.SetFilters(request.Context(), boardIDParam(request), input.Species, input.List)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, board.View())
}

func (handler *Handler) toggleStar(writer http.ResponseWriter, request *http.Request) {
	board, err := handler.service.ToggleStar(request.Context(), boardIDParam(request), requestutil.Param(request, "characterID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, board.View())
}

func (handler *Handler) selectCharacter(writer http.ResponseWriter, request *http.Request) {
	var input selectionRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	board, err := handler.service.Select(request.Context(), boardIDParam(request), input.CharacterID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, board.View())
}

func (handler *Handler) softDelete(writer http.ResponseWriter, request *http.Request) {
	board, err := handler.service.SoftDelete(request.Context(), boardIDParam(request), requestutil.Param(request, "characterID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, board.View())
}
