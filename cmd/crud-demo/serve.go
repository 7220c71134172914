package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the in-memory articles API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}

func runServer(addr string) error {
	logger := slog.Default()

	store := newArticleStore()
	hub := newHub(logger)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Get("/api/articles", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, store.list())
	})

	r.Post("/api/articles", func(w http.ResponseWriter, req *http.Request) {
		var in Article
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		created := store.create(in)
		hub.broadcast(changeEvent{Action: "create", Article: &created})
		writeJSON(w, http.StatusOK, created)
	})

	r.Get("/api/articles/{id}", func(w http.ResponseWriter, req *http.Request) {
		article, ok := store.get(chi.URLParam(req, "id"))
		if !ok {
			http.NotFound(w, req)
			return
		}
		writeJSON(w, http.StatusOK, article)
	})

	updateHandler := func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "id")
		var in Article
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		updated, ok := store.update(id, in)
		if !ok {
			http.NotFound(w, req)
			return
		}
		hub.broadcast(changeEvent{Action: "update", Article: &updated})
		writeJSON(w, http.StatusOK, updated)
	}
	r.Patch("/api/articles/{id}", updateHandler)
	r.Put("/api/articles/{id}", updateHandler)

	r.Delete("/api/articles/{id}", func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "id")
		if store.remove(id) {
			hub.broadcast(changeEvent{Action: "destroy", ID: id})
		}
		// 202 whether or not the id existed; deletes are idempotent.
		w.WriteHeader(http.StatusAccepted)
	})

	r.Get("/live", hub.handleWS)

	logger.Info("articles API listening", "addr", addr)
	return http.ListenAndServe(addr, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// articleStore is the in-memory backing collection, seeded with a few
// articles so fetchList has something to return.
type articleStore struct {
	mu       sync.Mutex
	articles []Article
}

func newArticleStore() *articleStore {
	return &articleStore{
		articles: []Article{
			{ID: uuid.NewString(), Title: "Servus", Content: "A hearty welcome to the articles API."},
			{ID: uuid.NewString(), Title: "Griass di", Content: "The second of three seeded articles."},
			{ID: uuid.NewString(), Title: "Habedere", Content: "The third of three seeded articles."},
		},
	}
}

func (s *articleStore) list() []Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Article(nil), s.articles...)
}

func (s *articleStore) get(id string) (Article, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.articles {
		if a.ID == id {
			return a, true
		}
	}
	return Article{}, false
}

func (s *articleStore) create(in Article) Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	in.ID = uuid.NewString()
	s.articles = append(s.articles, in)
	return in
}

func (s *articleStore) update(id string, in Article) (Article, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.articles {
		if a.ID == id {
			a.Title = in.Title
			a.Content = in.Content
			s.articles[i] = a
			return a, true
		}
	}
	return Article{}, false
}

func (s *articleStore) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.articles {
		if a.ID == id {
			s.articles = append(s.articles[:i], s.articles[i+1:]...)
			return true
		}
	}
	return false
}

// changeEvent is the message broadcast to /live subscribers.
type changeEvent struct {
	Action  string   `json:"action"`
	Article *Article `json:"article,omitempty"`
	ID      string   `json:"id,omitempty"`
}

// hub fans change events out to connected websocket clients.
type hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func newHub(logger *slog.Logger) *hub {
	return &hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			// Demo server: accept any origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]bool),
	}
}

func (h *hub) handleWS(w http.ResponseWriter, req *http.Request) {
	conn, err := h.upgrader.Upgrade(w, req, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = true
	h.mu.Unlock()

	// Drain reads until the client goes away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.drop(conn)
				return
			}
		}
	}()
}

func (h *hub) broadcast(ev changeEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}

	// Writes are serialized under the lock; gorilla connections do not
	// support concurrent writers.
	var failed []*websocket.Conn
	h.mu.Lock()
	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			failed = append(failed, conn)
		}
	}
	h.mu.Unlock()

	for _, conn := range failed {
		h.drop(conn)
	}
}

func (h *hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if h.conns[conn] {
		delete(h.conns, conn)
		conn.Close()
	}
	h.mu.Unlock()
}
