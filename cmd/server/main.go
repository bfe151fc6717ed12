package main

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/vnQ-coder/exam-generator/internal/auth"
	"github.com/vnQ-coder/exam-generator/internal/config"
	"github.com/vnQ-coder/exam-generator/internal/database"
	"github.com/vnQ-coder/exam-generator/internal/generator"
	"github.com/vnQ-coder/exam-generator/internal/middleware"
	"github.com/vnQ-coder/exam-generator/internal/papers"
	"github.com/vnQ-coder/exam-generator/internal/questions"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize handlers
	authHandler := auth.NewHandler(db, cfg.JWTSecret)

	questionStore := questions.NewStore(db)
	questionService := questions.NewService(questionStore, generator.NewGenerator(cfg), generator.NewReviewer(cfg))
	questionHandler := questions.NewHandler(questionService)

	paperStore := papers.NewStore(db)
	paperService := papers.NewService(paperStore, questionStore)
	paperHandler := papers.NewHandler(paperService)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth(cfg.JWTSecret))
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	protected.HandleFunc("/questions/generate", questionHandler.GenerateQuestions).Methods("POST")
	protected.HandleFunc("/questions", questionHandler.ListQuestions).Methods("GET")
	protected.HandleFunc("/questions/{id}", questionHandler.GetQuestion).Methods("GET")
	protected.HandleFunc("/questions/{id}", questionHandler.UpdateQuestion).Methods("PUT")
	protected.HandleFunc("/questions/{id}", questionHandler.DeleteQuestion).Methods("DELETE")

	protected.HandleFunc("/papers", paperHandler.CreatePaper).Methods("POST")
	protected.HandleFunc("/papers", paperHandler.ListPapers).Methods("GET")
	protected.HandleFunc("/papers/{id}", paperHandler.GetPaper).Methods("GET")
	protected.HandleFunc("/papers/{id}", paperHandler.DeletePaper).Methods("DELETE")
	protected.HandleFunc("/papers/{id}/regenerate", paperHandler.RegeneratePaper).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	log.Printf("Server starting on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
