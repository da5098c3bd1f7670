package delivery

import (
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

func RegisterRoutes(
	r chi.Router,
	hConsult *ConsultHandler,
	hDownload *DownloadHandler,
	rateLimitPerMin int,
) {
	r.Route("/", func(pr chi.Router) {
		pr.Use(httputil.RecoverMiddleware)

		// --- consultations ---
		pr.With(httprate.LimitByIP(rateLimitPerMin, time.Minute)).
			Post("/consultations", hConsult.Create)
		pr.Get("/consultations/{id}/audio", hConsult.GetAudio)

		// --- downloads / archive ---
		pr.Post("/consultations/{id}/download/audio", hDownload.DownloadAudio)
		pr.Post("/download/text", hDownload.DownloadText)
		pr.Get("/archive/{name}", hDownload.ServeArchive)

		// --- examples ---
		pr.Get("/examples", hDownload.ListExamples)
	})
}
