package main

import (
	"io"
	"log"
	"net/http"
	"time"
)

// Dev fixture: accepts purge webhook deliveries and logs the payload, so the
// notifier can be exercised locally without a real CDN purger.
func main() {
	http.HandleFunc("/hooks/content", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Printf("[Webhook] Read error: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.WriteHeader(http.StatusAccepted)
		log.Printf("[Webhook] %s %s - 202 Accepted: %s", r.Method, r.URL.Path, body)
	})

	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"healthy"}`)); err != nil {
			log.Printf("[Webhook] Health write error: %v", err)
		}
	})

	log.Println("Mock purge webhook running on :8081")
	server := &http.Server{
		Addr:         ":8081",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
