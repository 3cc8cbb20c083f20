package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"caixinha/bot"
)

// MessageHandler consumes inbound messages; satisfied by bot.Dispatcher.
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg bot.IncomingMessage, reply bot.ReplyFunc)
}

// inboundPayload is the wire shape the chat gateway posts to the webhook
type inboundPayload struct {
	From      string    `json:"from"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

// Server receives chat-gateway webhooks and serves the keep-alive probe.
// Each delivery is dispatched on its own goroutine; the HTTP response only
// acknowledges receipt.
type Server struct {
	srv     *http.Server
	handler MessageHandler
	sender  Sender
}

// NewServer creates the webhook server
func NewServer(addr string, handler MessageHandler, sender Sender) *Server {
	s := &Server{
		handler: handler,
		sender:  sender,
	}

	router := mux.NewRouter()
	router.HandleFunc("/webhook", s.handleWebhook).Methods(http.MethodPost)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Start begins serving. It blocks until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	log.Infof("Webhook server listening on %s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("webhook server failed: %w", err)
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var payload inboundPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if payload.From == "" {
		http.Error(w, "missing sender", http.StatusBadRequest)
		return
	}
	if payload.Timestamp.IsZero() {
		payload.Timestamp = time.Now()
	}

	msg := bot.IncomingMessage{
		ExternalID: payload.From,
		Body:       payload.Body,
		Timestamp:  payload.Timestamp,
	}

	// Acknowledge before processing; replies travel through the sender,
	// not this response. The dispatch context is detached from the
	// request so an accepted mutation runs to completion.
	go s.handler.HandleMessage(context.Background(), msg, func(ctx context.Context, text string) error {
		return s.sender.Send(ctx, msg.ExternalID, text)
	})

	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		log.Errorf("Failed to write health response: %v", err)
	}
}
