package handlers

import (
	"net/http"

	"tutorhub/internal/config"
	"tutorhub/internal/db"
	"tutorhub/internal/middleware"
	"tutorhub/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type Handler struct {
	txRunner      db.TxRunner
	cfg           config.Config
	logger        *zap.Logger
	users         UserStore
	tutors        TutorStore
	bookings      BookingStore
	accountLog    AccountLogStore
	conversations ConversationStore
	favorites     FavoriteStore
	service       BookingService
	hub           *websocket.Hub
}

func New(txRunner db.TxRunner, cfg config.Config, logger *zap.Logger, users UserStore, tutors TutorStore, bookings BookingStore, accountLog AccountLogStore, conversations ConversationStore, favorites FavoriteStore, service BookingService, hub *websocket.Hub) *Handler {
	return &Handler{
		txRunner:      txRunner,
		cfg:           cfg,
		logger:        logger,
		users:         users,
		tutors:        tutors,
		bookings:      bookings,
		accountLog:    accountLog,
		conversations: conversations,
		favorites:     favorites,
		service:       service,
		hub:           hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.With(middleware.Auth(h.cfg.JWTSecret)).Get("/me", h.Me)
		})
		api.Route("/tutors", func(r chi.Router) {
			r.Get("/", h.ListTutors)
			r.Get("/{id}", h.GetTutor)
		})
		api.Route("/bookings", func(r chi.Router) {
			r.Use(middleware.Auth(h.cfg.JWTSecret))
			r.Post("/", h.CreateBooking)
			r.Get("/", h.ListBookings)
			r.Put("/{id}/cancel", h.CancelBooking)
			r.Post("/{id}/pay", h.PayBooking)
			r.Get("/user/balance", h.GetBalance)
			r.Get("/user/account-logs", h.ListAccountLogs)
		})
		api.Route("/messages", func(r chi.Router) {
			r.Use(middleware.Auth(h.cfg.JWTSecret))
			r.Get("/conversations", h.ListConversations)
			r.Post("/conversations", h.EnsureConversation)
			r.Get("/{conversationId}/messages", h.ListMessages)
			r.Post("/{conversationId}/messages", h.SendMessage)
		})
		api.Route("/favorites", func(r chi.Router) {
			r.Use(middleware.Auth(h.cfg.JWTSecret))
			r.Get("/", h.ListFavorites)
			r.Post("/", h.AddFavorite)
			r.Delete("/{tutorId}", h.RemoveFavorite)
		})
	})

	router.Get("/ws/updates", h.WSUpdates)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
