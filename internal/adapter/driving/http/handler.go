package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/classmeet/server/internal/core/service"
)

type Handler struct {
	Signaling *service.Signaling
	Meetings  *service.MeetingService

	allowedOrigins []string
}

func NewHandler(signaling *service.Signaling, meetings *service.MeetingService, allowedOrigins []string) *Handler {
	return &Handler{
		Signaling:      signaling,
		Meetings:       meetings,
		allowedOrigins: allowedOrigins,
	}
}

func (h *Handler) NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/ws", h.ServeWS)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/meetings", func(r chi.Router) {
		r.Post("/", h.CreateMeeting)
		r.Get("/", h.ListMeetings)
		r.Get("/{id}", h.GetMeeting)
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   h.allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

func errUnknownMethod(method string) error {
	return fmt.Errorf("unknown method %q", method)
}
