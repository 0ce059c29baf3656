// Command receiver runs a small HTTP server that accepts Hookmail webhook
// deliveries, verifies their signatures, and prints the forwarded messages.
// It is meant for local development: point an address's webhook at a tunnel
// to this server and watch mail arrive.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	hookmail "github.com/hookmail/client-go"
)

const maxDeliverySize = 1 << 20 // 1 MiB

func main() {
	// A .env file is optional; environment variables win.
	_ = godotenv.Load()

	var (
		addr      = flag.String("addr", ":8787", "listen address")
		path      = flag.String("path", "/hooks/mail", "webhook path")
		tolerance = flag.Duration("tolerance", hookmail.DefaultTimestampTolerance, "max delivery timestamp skew")
	)
	flag.Parse()

	secret := os.Getenv("HOOKMAIL_WEBHOOK_SECRET")
	if secret == "" {
		log.Fatal("HOOKMAIL_WEBHOOK_SECRET environment variable is required")
	}

	mux := http.NewServeMux()
	mux.HandleFunc(*path, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDeliverySize))
		if err != nil {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}

		if err := hookmail.VerifyRequest(secret, body, r.Header, *tolerance); err != nil {
			log.Printf("rejected delivery: %v", err)
			http.Error(w, "signature verification failed", http.StatusUnauthorized)
			return
		}

		event, err := hookmail.ParseEvent(body)
		if err != nil {
			log.Printf("rejected delivery: %v", err)
			http.Error(w, "malformed payload", http.StatusBadRequest)
			return
		}

		printEvent(event)
		w.WriteHeader(http.StatusNoContent)
	})

	server := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("listening on %s%s", *addr, *path)
	if err := server.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}

func printEvent(event *hookmail.Event) {
	fmt.Printf("[%s] event=%s address=%s\n",
		time.Now().Format(time.RFC3339), event.Event, event.AddressID)

	if event.Message == nil {
		return
	}
	fmt.Printf("  From:    %s\n", event.Message.From)
	fmt.Printf("  To:      %s\n", event.Message.To)
	fmt.Printf("  Subject: %s\n", event.Message.Subject)
	if event.Message.TextBody != "" {
		fmt.Printf("  Body:    %.200s\n", event.Message.TextBody)
	}
}
