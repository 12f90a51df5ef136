package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brokerlane/brokerlane-backend/api/controllers"
	"github.com/brokerlane/brokerlane-backend/api/middleware"
	"github.com/brokerlane/brokerlane-backend/internal/applications"
	"github.com/brokerlane/brokerlane-backend/internal/companies"
	"github.com/brokerlane/brokerlane-backend/internal/documents"
	"github.com/brokerlane/brokerlane-backend/internal/inforequests"
	"github.com/brokerlane/brokerlane-backend/internal/intake"
	"github.com/brokerlane/brokerlane-backend/internal/registry"
	"github.com/brokerlane/brokerlane-backend/internal/submissions"
	"github.com/brokerlane/brokerlane-backend/pkg/config"
	"github.com/brokerlane/brokerlane-backend/pkg/enums"
	"github.com/brokerlane/brokerlane-backend/pkg/logger"
)

// Services bundles everything the router mounts.
type Services struct {
	Intake       intake.Service
	Applications applications.Service
	Companies    companies.Service
	Submissions  submissions.Service
	InfoRequests inforequests.Service
	Documents    documents.Service
	Registry     registry.Lookup
}

// Pingers are the backing services exposed through the readiness probe.
type Pingers struct {
	DB    controllers.Pinger
	Redis controllers.Pinger
	GCS   controllers.Pinger
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	pingers Pingers,
	svcs Services,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    pingers.DB,
			"redis": pingers.Redis,
			"gcs":   pingers.GCS,
		}))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/wizard", func(r chi.Router) {
			r.Get("/form", controllers.WizardResolve(svcs.Intake, logg))
			r.Post("/steps", controllers.WizardAdvance(svcs.Intake, logg))
			r.Post("/save", controllers.WizardSave(svcs.Intake, logg))
			r.Post("/submit", controllers.WizardSubmit(svcs.Intake, logg))
		})

		r.Route("/registry", func(r chi.Router) {
			r.Get("/search", controllers.RegistrySearch(svcs.Registry, logg))
			r.Get("/companies/{companyNumber}", controllers.RegistryDetails(svcs.Registry, logg))
		})

		r.Route("/applications", func(r chi.Router) {
			r.Get("/", controllers.ApplicationsList(svcs.Applications, logg))
			r.Route("/{applicationId}", func(r chi.Router) {
				r.Get("/", controllers.ApplicationGet(svcs.Applications, logg))
				r.Get("/documents", controllers.ListDocuments(svcs.Documents, logg))
				r.Post("/documents", controllers.UploadDocument(svcs.Documents, logg))
				r.Get("/information-requests", controllers.ListInfoRequests(svcs.InfoRequests, logg))
			})
		})

		r.Route("/documents", func(r chi.Router) {
			r.Delete("/{documentId}", controllers.DeleteDocument(svcs.Documents, logg))
		})

		r.Route("/information-requests", func(r chi.Router) {
			r.Post("/{requestId}/respond", controllers.RespondInfoRequest(svcs.InfoRequests, logg))
		})

		r.Route("/partner", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.ActorRolePartner, logg))

			r.Post("/companies", controllers.PartnerCreateCompany(svcs.Companies, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.ActorRoleAdmin, logg))

			r.Route("/applications/{applicationId}", func(r chi.Router) {
				r.Patch("/stage", controllers.AdminChangeStage(svcs.Applications, logg))
				r.Patch("/", controllers.AdminUpdateApplication(svcs.Applications, logg))
				r.Delete("/", controllers.AdminDeleteApplication(svcs.Applications, logg))
				r.Get("/lenders/available", controllers.AvailableLenders(svcs.Submissions, logg))
				r.Post("/submissions", controllers.SendToLenders(svcs.Submissions, logg))
				r.Get("/submissions", controllers.ListSubmissions(svcs.Submissions, logg))
				r.Post("/information-requests", controllers.CreateInfoRequest(svcs.InfoRequests, logg))
			})

			r.Route("/submissions/{submissionId}", func(r chi.Router) {
				r.Post("/acknowledge", controllers.AcknowledgeSubmission(svcs.Submissions, logg))
				r.Post("/retry", controllers.RetrySubmission(svcs.Submissions, logg))
			})

			r.Route("/information-requests/{requestId}", func(r chi.Router) {
				r.Post("/resolve", controllers.ResolveInfoRequest(svcs.InfoRequests, logg))
			})
		})
	})

	return r
}
