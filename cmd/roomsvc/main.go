package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"

	config "github.com/mkanda/liveroom-services/configs"
	nats "github.com/mkanda/liveroom-services/internal/nats"
	"github.com/mkanda/liveroom-services/internal/roomsvc/broker"
	"github.com/mkanda/liveroom-services/internal/roomsvc/db"
	"github.com/mkanda/liveroom-services/internal/roomsvc/handlers"
	"github.com/mkanda/liveroom-services/internal/roomsvc/service"
	"github.com/mkanda/liveroom-services/internal/roomsvc/store"
	"github.com/mkanda/liveroom-services/internal/roomsvc/store/memstore"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "room"

var instanceId string

func init() {
	instanceId = "001"
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

func main() {

	var userStore service.UserStore
	var roomStore service.RoomStore

	// STORE=memory runs everything in-process, for local development
	if os.Getenv("STORE") == "memory" {
		mem := memstore.New()
		userStore = mem
		roomStore = mem
		log.Printf("using in-memory store")
	} else {
		dbpool, err := db.Connect()
		if err != nil {
			log.Fatalf("Failed to connect to DB: %v", err)
		}
		defer db.ClosePool()
		log.Printf("pg connection established successfully")

		userStore = store.NewUserStore(dbpool)
		roomStore = store.NewRoomStore(dbpool)
	}

	userService := service.NewUserService(userStore)

	// room lifecycle events to sibling services; the service runs
	// fine without a broker
	var events service.RoomEvents
	n, err := nats.Connect()
	if err != nil {
		log.Warnf("unable to connect to NATS server, lifecycle events disabled: %v", err)
	} else {
		defer n.Conn.Close()
		log.Printf("NATS connection established successfully %s", n.Url)
		events = broker.NewBroker(n.Conn)
	}

	roomService := service.NewRoomService(roomStore, events)

	// Setup router
	r := chi.NewRouter()
	c := config.CORS()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	rateLimitStr := os.Getenv("RATE_LIMIT")
	rateLimit, err := strconv.Atoi(rateLimitStr)
	if err != nil {
		log.Fatalf("Invalid RATE_LIMIT value: %v", err)
	}
	r.Use(httprate.LimitByIP(rateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(userService, roomService)
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + os.Getenv("ROOM_SERVICE_PORT"),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
