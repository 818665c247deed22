package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	fractal "github.com/lesguillemets/rgae"
)

// webServer serves the websocket render endpoint and the list of landmark regions.
func webServer(port int, s *renderScheduler) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", websocketHandler(s))
	mux.HandleFunc("/regions", regionsHandler)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("listening on http://localhost:%d", port)
	return srv
}

func regionsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(fractal.RegionNames()); err != nil {
		log.Printf("regions: %v", err)
	}
}

// websocketHandler runs one render session per connection:
// read the request, stream progress, send the image, close.
func websocketHandler(s *renderScheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			log.Println(err)
			return
		}
		defer c.CloseNow()

		ctx := r.Context()
		var req fractal.Request
		if err := wsjson.Read(ctx, c, &req); err != nil {
			log.Printf("read request from %s: %v", r.RemoteAddr, err)
			return
		}
		cfg, err := req.Config()
		if err == nil {
			err = s.admit(cfg)
		}
		if err != nil {
			log.Printf("rejecting request from %s: %v", r.RemoteAddr, err)
			c.Close(websocket.StatusPolicyViolation, closeReason(err))
			return
		}

		if err := s.serve(ctx, c, cfg); err != nil {
			log.Printf("session %s: %v", r.RemoteAddr, err)
			c.Close(websocket.StatusInternalError, closeReason(err))
			return
		}
		c.Close(websocket.StatusNormalClosure, "")
	}
}

// closeReason fits err into a websocket close frame without splitting a rune.
func closeReason(err error) string {
	const maxReason = 120
	s := err.Error()
	if len(s) > maxReason {
		s = strings.ToValidUTF8(s[:maxReason], "")
	}
	return s
}
