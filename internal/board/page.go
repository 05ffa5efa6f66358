// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package board

import (
	"embed"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/roster/internal/platform/apperr"
	"github.com/taibuivan/roster/internal/platform/constants"
	requestutil "github.com/taibuivan/roster/internal/platform/request"
	"github.com/taibuivan/roster/internal/platform/respond"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const pageTemplateName = "board.html"

// loadingRefreshSeconds is how often the loading panel reloads itself.
const loadingRefreshSeconds = 1

// PageHandler serves the server-rendered board page.
//
// The board is addressed through the session cookie; every form posts an
// event and redirects back to the page.
type PageHandler struct {
	service      *Service
	issuer       TokenIssuer
	ttl          time.Duration
	secureCookie bool
}

// NewPageHandler constructs a [PageHandler]. secureCookie should be set
// outside development.
func NewPageHandler(service *Service, issuer TokenIssuer, ttl time.Duration, secureCookie bool) *PageHandler {
	return &PageHandler{
		service:      service,
		issuer:       issuer,
		ttl:          ttl,
		secureCookie: secureCookie,
	}
}

// RegisterRoutes mounts the page and its form actions.
func (handler *PageHandler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.mount)
	router.Get(constants.BoardPagePath, handler.render)
	router.Post(constants.BoardPagePath+"/search", handler.search)
	router.Post(constants.BoardPagePath+"/filters", handler.setFilters)
	router.Post(constants.BoardPagePath+"/star/{characterID}", handler.toggleStar)
	router.Post(constants.BoardPagePath+"/select/{characterID}", handler.selectCharacter)
	router.Post(constants.BoardPagePath+"/delete/{characterID}", handler.softDelete)
}

// # Page Data

type option struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	View           View
	RefreshSeconds int
	SpeciesOptions []option
	ListOptions    []option
}

func newPageData(view View) pageData {
	return pageData{
		View:           view,
		RefreshSeconds: loadingRefreshSeconds,
		SpeciesOptions: options(SpeciesFilters, string(view.Species)),
		ListOptions:    options(ListFilters, string(view.List)),
	}
}

func options(values []string, current string) []option {
	result := make([]option, 0, len(values))
	for _, value := range values {
		result = append(result, option{
			Value:    value,
			Label:    strings.ToUpper(value[:1]) + value[1:],
			Selected: value == current,
		})
	}
	return result
}

// # Handlers

// mount starts a fresh board. A reload therefore resets all state.
func (handler *PageHandler) mount(writer http.ResponseWriter, request *http.Request) {
	if claims := requestutil.Session(request); claims != nil {
		if err := handler.service.Discard(request.Context(), claims.BoardID); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

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

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     constants.SessionCookiePath,
		MaxAge:   int(handler.ttl.Seconds()),
		HttpOnly: true,
		Secure:   handler.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})

	respond.Redirect(writer, request, constants.BoardPagePath)
}

func (handler *PageHandler) render(writer http.ResponseWriter, request *http.Request) {
	boardID, err := requestutil.RequiredBoardID(request)
	if err != nil {
		respond.Redirect(writer, request, "/")
		return
	}

	board, err := handler.service.Get(request.Context(), boardID)
	if err != nil {
		handler.fail(writer, request, err)
		return
	}

	respond.HTML(writer, request, http.StatusOK, pageTemplate, pageTemplateName, newPageData(board.View()))
}

func (handler *PageHandler) search(writer http.ResponseWriter, request *http.Request) {
	handler.event(writer, request, func(boardID string) error {
		_, err := handler.service.Search(request.Context(), boardID, request.PostFormValue(constants.FormFieldSearchTerm))
		return err
	})
}

func (handler *PageHandler) setFilters(writer http.ResponseWriter, request *http.Request) {
	handler.event(writer, request, func(boardID string) error {
		_, err := handler.service.SetFilters(request.Context(), boardID,
			request.PostFormValue(constants.FormFieldSpecies),
			request.PostFormValue(constants.FormFieldListFilter),
		)
		return err
	})
}

func (handler *PageHandler) toggleStar(writer http.ResponseWriter, request *http.Request) {
	handler.event(writer, request, func(boardID string) error {
		_, err := handler.service.ToggleStar(request.Context(), boardID, requestutil.Param(request, "characterID"))
		return err
	})
}

func (handler *PageHandler) selectCharacter(writer http.ResponseWriter, request *http.Request) {
	handler.event(writer, request, func(boardID string) error {
		_, err := handler.service.Select(request.Context(), boardID, requestutil.Param(request, "characterID"))
		return err
	})
}

func (handler *PageHandler) softDelete(writer http.ResponseWriter, request *http.Request) {
	handler.event(writer, request, func(boardID string) error {
		_, err := handler.service.SoftDelete(request.Context(), boardID, requestutil.Param(request, "characterID"))
		return err
	})
}

// event applies one form action and redirects back to the page.
func (handler *PageHandler) event(writer http.ResponseWriter, request *http.Request, apply func(boardID string) error) {
	boardID, err := requestutil.RequiredBoardID(request)
	if err != nil {
		respond.Redirect(writer, request, "/")
		return
	}

	if err := request.ParseForm(); err != nil {
		respond.Error(writer, request, apperr.ValidationError("Invalid form body"))
		return
	}

	if err := apply(boardID); err != nil {
		handler.fail(writer, request, err)
		return
	}

	respond.Redirect(writer, request, constants.BoardPagePath)
}

// fail sends visitors with an expired board back to mount a new one.
func (handler *PageHandler) fail(writer http.ResponseWriter, request *http.Request, err error) {
	if apperr.IsNotFound(err) {
		respond.Redirect(writer, request, "/")
		return
	}
	respond.Error(writer, request, err)
}
