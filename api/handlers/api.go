package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/fortexlabs/early-warning-api/api"
	"github.com/fortexlabs/early-warning-api/api/notifier"
	"github.com/fortexlabs/early-warning-api/config"
	"github.com/fortexlabs/early-warning-api/databases"
	"github.com/fortexlabs/early-warning-api/models"
)

// App stores the router and the stores, so it can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	CDB      databases.ComplaintDatabase
	UDB      databases.UserDatabase
	Notifier *notifier.Notifier
	Live     *LiveHub
	dbHelper databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	m := api.Auth{Secret: []byte(a.Config.JWTSecret)}

	r := mux.NewRouter()

	auth := Auth{DB: a.UDB, Secret: []byte(a.Config.JWTSecret)}
	c := Complaint{DB: a.CDB, UDB: a.UDB}
	if a.Notifier != nil {
		c.Notifier = a.Notifier
	}
	d := Dashboard{DB: a.CDB}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	r.Handle("/auth/signup", http.HandlerFunc(auth.SignupHandler)).Methods("POST")
	r.Handle("/auth/login", http.HandlerFunc(auth.LoginHandler)).Methods("POST")

	r.Handle("/complaints/me", m.Middleware(http.HandlerFunc(c.MyComplaintsHandler))).Methods("GET")
	r.Handle("/complaints", m.Middleware(http.HandlerFunc(c.ComplaintsHandler))).Methods("GET")
	r.Handle("/complaints", m.Middleware(http.HandlerFunc(c.CreateComplaintHandler))).Methods("POST")
	r.Handle("/complaints/{complaint_id}", m.Middleware(http.HandlerFunc(c.ComplaintByIDHandler))).Methods("GET")
	r.Handle("/complaints/{complaint_id}", m.Middleware(http.HandlerFunc(c.UpdateComplaintHandler))).Methods("PUT")
	r.Handle("/complaints/{complaint_id}", m.Middleware(http.HandlerFunc(c.DeleteComplaintHandler))).Methods("DELETE")
	r.Handle("/complaints/{complaint_id}/feedback", m.Middleware(http.HandlerFunc(c.SubmitFeedbackHandler))).Methods("POST")

	r.Handle("/dashboard/risk", m.Middleware(http.HandlerFunc(d.RiskHandler))).Methods("GET")
	r.Handle("/dashboard/patterns", m.Middleware(http.HandlerFunc(d.PatternsHandler))).Methods("GET")
	r.Handle("/dashboard/live", a.Live)

	return r
}

// Initialize is invoked by main to set up the stores and create a router
func (a *App) Initialize() error {
	if a.Config.JWTSecret == "" {
		return fmt.Errorf("jwt secret is not set")
	}

	if a.Config.URL != "" {
		client, err := databases.NewClient(&a.Config)
		if err != nil {
			// if we fail to create a new database client, then kill the pod
			zap.S().With(err).Error("failed to create new client")
			return err
		}

		a.dbHelper = databases.NewDatabase(&a.Config, client)
		err = client.Connect()
		if err != nil {
			// if we fail to connect to the database, then kill the pod
			zap.S().With(err).Error("failed to connect to database")
			return err
		}
		zap.S().Info("early-warning-api has connected to the database")

		a.CDB = databases.NewComplaintDatabase(a.dbHelper)
		a.UDB = databases.NewUserDatabase(a.dbHelper)
	} else {
		complaints := databases.DefaultComplaints(time.Now())
		if a.Config.SeedFile != "" {
			complaints = databases.MergeSnapshot(a.Config.SeedFile, complaints)
		}
		a.CDB = databases.NewMemoryComplaintDatabase(complaints)
		a.UDB = databases.NewMemoryUserDatabase(databases.DefaultUsers())
		zap.S().Info("early-warning-api is using the in-memory store")
	}

	a.Notifier = notifier.New(a.Config.SendgridAPIKey)
	a.Live = NewLiveHub(a.CDB)

	// initialize api router
	a.initializeRoutes()
	return nil
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
