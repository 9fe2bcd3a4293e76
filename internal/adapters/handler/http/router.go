package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewHandler(pollHandler *PollHandler, userHandler *UserHandler, auth *AuthMiddleware) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/polls", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(auth.WithOptionalCaller)
				r.Get("/", pollHandler.GetPolls)
				r.Get("/{pollId}", pollHandler.GetPoll)
			})
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireCaller)
				r.Post("/", pollHandler.CreatePoll)
				r.Post("/{pollId}/votes", pollHandler.CastVote)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireCaller)
			r.Get("/user/me", userHandler.GetMe)
		})

		r.Route("/users/{username}", func(r chi.Router) {
			r.Get("/", userHandler.GetProfile)
			r.Group(func(r chi.Router) {
				r.Use(auth.WithOptionalCaller)
				r.Get("/polls", userHandler.GetPollsCreatedBy)
				r.Get("/votes", userHandler.GetPollsVotedBy)
			})
		})
	})

	return r
}
