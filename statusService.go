package main

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"sync"
)

// what the countdown last put on the display
type countdownStatus struct {
	Remaining  int    `json:"remaining"`
	Minutes    int    `json:"minutes"`
	Seconds    int    `json:"seconds"`
	State      string `json:"state"`
	Display    string `json:"display"`
	Brightness uint8  `json:"brightness"`
}

// statusBoard hands the countdown's latest snapshot to the status service
type statusBoard struct {
	mu     sync.RWMutex
	status countdownStatus
	ticks  int
}

func (sb *statusBoard) publish(s countdownStatus) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.status = s
	sb.ticks++
}

func (sb *statusBoard) read() (countdownStatus, int) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()
	return sb.status, sb.ticks
}

type statusResponse struct {
	Response string          `json:"response"`
	Error    string          `json:"error,omitempty"`
	Status   countdownStatus `json:"status"`
}

// apiHandler - settings for the thing that handles HTTP requests
type apiHandler struct {
	rt     runtimeConfig
	secret string
	user   string
	realm  string
}

func newHandler(rt runtimeConfig) apiHandler {
	return apiHandler{
		rt:     rt,
		secret: rt.settings.GetString(sStatusSecret),
		user:   rt.settings.GetString(sStatusUser),
		realm:  "countdown",
	}
}

// BasicAuth - provide a middleware to authenticate users, an empty
// secret turns it off
func (m *apiHandler) BasicAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.secret == "" {
			next.ServeHTTP(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || subtle.ConstantTimeCompare([]byte(user), []byte(m.user)) != 1 || subtle.ConstantTimeCompare([]byte(pass), []byte(m.secret)) != 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="`+m.realm+`"`)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("Unauthorised.\n"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *apiHandler) getStatus() statusResponse {
	status, ticks := m.rt.status.read()
	if ticks == 0 {
		return statusResponse{Response: "BAD", Error: "countdown not started"}
	}
	return statusResponse{Response: "OK", Status: status}
}

func writeAnswer(w http.ResponseWriter, sr statusResponse) {
	output, _ := json.Marshal(sr)
	w.Header().Set("Content-Type", "application/json")
	w.Write(output)
}

func (m *apiHandler) apiStatus(w http.ResponseWriter, r *http.Request) {
	writeAnswer(w, m.getStatus())
}

func (m *apiHandler) rootHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/api/status", http.StatusMovedPermanently)
}

func startStatusService(rt runtimeConfig) {
	rt.logger = threadLogger("Status")
	wg.Add(1)
	go runStatusService(rt)
}

func runStatusService(rt runtimeConfig) {
	defer wg.Done()
	defer func() {
		rt.logger.Println("exiting runStatusService")
	}()

	handler := newHandler(rt)
	addr := rt.settings.GetString(sStatusAddr)
	rt.statusService.launch(&handler, addr)
	rt.logger.Printf("status service on %s", addr)

	// the service lives until quit
	<-rt.comms.quit
	rt.logger.Printf("quit from status service")
	rt.statusService.stop()
}
