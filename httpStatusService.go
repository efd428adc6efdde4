package main

import (
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type httpStatusService struct {
	srv     *http.Server
	handler *apiHandler
}

func newRouter(handler *apiHandler) *mux.Router {
	r := mux.NewRouter()

	// auth middleware
	r.Use(handler.BasicAuth)
	// api server
	r.HandleFunc("/api/status", handler.apiStatus).Methods("GET")
	// root handler
	r.HandleFunc("/", handler.rootHandler)
	return r
}

func (h *httpStatusService) launch(handler *apiHandler, addr string) {
	h.handler = handler
	h.srv = &http.Server{Addr: addr, Handler: newRouter(handler)}

	// add to the wg
	wg.Add(1)

	// launch the server
	go func() {
		defer wg.Done()
		log.Println("starting status service http server")
		err := h.srv.ListenAndServe()
		if err != http.ErrServerClosed {
			log.Print(err)
		}
		log.Print("Exiting status service")
	}()
}

func (h *httpStatusService) stop() {
	h.srv.Shutdown(context.Background())
}
