package http

import (
	"net/http"

	"doctor-intro-service/internal/delivery/http/handler"
	"doctor-intro-service/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router         *mux.Router
	doctorHandler  *handler.DoctorHandler
	videoHandler   *handler.VideoHandler
	corsMiddleware *middleware.CORSMiddleware
	videoDir       string
}

func NewRouter(
	doctorHandler *handler.DoctorHandler,
	videoHandler *handler.VideoHandler,
	corsMiddleware *middleware.CORSMiddleware,
	videoDir string,
) *Router {
	return &Router{
		router:         mux.NewRouter(),
		doctorHandler:  doctorHandler,
		videoHandler:   videoHandler,
		corsMiddleware: corsMiddleware,
		videoDir:       videoDir,
	}
}

func (r *Router) Setup() *mux.Router {
	// Health check
	r.router.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Doctor directory
	r.router.HandleFunc("/doctors", r.doctorHandler.GetAllDoctors).Methods(http.MethodGet)
	r.router.HandleFunc("/doctors", r.doctorHandler.CreateDoctor).Methods(http.MethodPost)
	r.router.HandleFunc("/doctors/{id}", r.doctorHandler.UpdateDoctor).Methods(http.MethodPut)
	r.router.HandleFunc("/doctors/{id}", r.doctorHandler.DeleteDoctor).Methods(http.MethodDelete)

	// Video capture flow
	r.router.HandleFunc("/upload/{videoId}", r.videoHandler.UploadChunk).Methods(http.MethodPost)
	r.router.HandleFunc("/finishUpload/{videoId}", r.videoHandler.FinishUpload).Methods(http.MethodPost)
	r.router.HandleFunc("/deleteVideo/{videoId}", r.videoHandler.DeleteVideo).Methods(http.MethodDelete)

	// Finalized videos served as static files
	r.router.PathPrefix("/videos/").Handler(
		http.StripPrefix("/videos/", http.FileServer(http.Dir(r.videoDir))),
	).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
