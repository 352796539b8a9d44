package bootstrap

import (
	"context"
	"log"
	"time"

	"maumjari-counsel-be/internal/config"
	"maumjari-counsel-be/internal/controller"
	"maumjari-counsel-be/internal/pkg/logger"
	"maumjari-counsel-be/internal/repository/contract"
	"maumjari-counsel-be/internal/repository/implementation"
	"maumjari-counsel-be/internal/repository/memory"
	"maumjari-counsel-be/internal/repository/redisstore"
	"maumjari-counsel-be/internal/repository/unitofwork"
	"maumjari-counsel-be/internal/service"
	"maumjari-counsel-be/internal/websocket"
	"maumjari-counsel-be/pkg/chathistory"
	"maumjari-counsel-be/pkg/embedding"
	"maumjari-counsel-be/pkg/llm"
	"maumjari-counsel-be/pkg/llm/factory"
	"maumjari-counsel-be/pkg/rag"

	pktNats "maumjari-counsel-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	pingTimeout = 5 * time.Second
	eventBuffer = 256
)

type Container struct {
	// Controllers
	CounselingController controller.ICounselingController
	ReportController     controller.IReportController
	HistoryController    controller.IHistoryController
	KnowledgeController  controller.IKnowledgeController // nil without a database

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	ChatHandler  *websocket.ChatHandler
	WebSocketHub *websocket.Hub

	// Exposed for the CLI tools
	KnowledgeService service.IKnowledgeService

	Logger logger.ILogger

	closers []func()
}

// Dependencies are the backends a container is assembled from. Only LLM and
// the loggers are required.
type Dependencies struct {
	DB          *gorm.DB
	Redis       *redis.Client
	LLM         llm.LLMProvider
	ModelReady  bool
	Embedding   embedding.EmbeddingProvider
	Forwarder   service.EventForwarder
	Transcripts service.TranscriptSource
	Logger      logger.ILogger
	TurnLogger  logger.ILogger
}

// NewContainer connects the configured backends and wires every component.
// db may be nil, in which case the archive stays in memory and knowledge is off.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	turnLogger := logger.NewIsolatedLogger(cfg.App.TurnLogFilePath)

	// 2. LLM
	llmProvider, err := factory.NewLLMProvider(factory.Settings{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  cfg.Ai.LLMBaseURL,
		APIKey:   cfg.Ai.LLMAPIKey,
		Timeout:  cfg.Ai.LLMTimeout,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	modelReady := true
	if checker, ok := llmProvider.(llm.HealthChecker); ok {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		if err := checker.Ping(ctx); err != nil {
			if cfg.Ai.LLMRequireReady {
				log.Fatalf("[FATAL] LLM backend is not ready: %v", err)
			}
			log.Printf("[WARN] LLM backend is not ready, chat will fall back: %v", err)
			modelReady = false
		}
		cancel()
	}

	deps := Dependencies{
		DB:         db,
		LLM:        llmProvider,
		ModelReady: modelReady,
		Logger:     sysLogger,
		TurnLogger: turnLogger,
	}

	// 3. Embeddings (ingest needs them even when chat retrieval is off)
	if db != nil {
		if cfg.Ai.EmbeddingProvider != "ollama" {
			log.Printf("[WARN] Unsupported embedding provider %q, using ollama", cfg.Ai.EmbeddingProvider)
		}
		deps.Embedding = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel, cfg.Ai.LLMTimeout)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		log.Printf("[INFO] No database configured: archive in memory, knowledge disabled")
	}

	// 4. Infrastructure
	// Redis
	if rdb := connectRedis(cfg.App.RedisURL); rdb != nil {
		deps.Redis = rdb
	}

	// NATS
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			deps.Forwarder = natsPub
		}
	}

	// External chat history
	if cfg.Report.ChatHistoryURL != "" {
		deps.Transcripts = chathistory.NewClient(cfg.Report.ChatHistoryURL, 0)
		log.Printf("[INFO] Report transcripts from %s", cfg.Report.ChatHistoryURL)
	}

	c := Build(cfg, deps)
	if natsPub, ok := deps.Forwarder.(*pktNats.Publisher); ok {
		c.closers = append(c.closers, natsPub.Close)
	}
	if deps.Redis != nil {
		c.closers = append(c.closers, func() { deps.Redis.Close() })
	}
	c.closers = append(c.closers, func() {
		sysLogger.Sync()
		turnLogger.Sync()
	})
	return c
}

// Build wires components from already-connected backends.
func Build(cfg *config.Config, deps Dependencies) *Container {
	// 1. Stores
	var (
		sessions contract.SessionStore
		history  contract.HistoryStore
	)
	if cfg.Session.Backend == "redis" && deps.Redis != nil {
		sessions = redisstore.NewSessionStore(deps.Redis, cfg.Session.TTL)
		history = redisstore.NewHistoryStore(deps.Redis, cfg.Session.TTL)
		log.Printf("[INFO] Session backend: REDIS (ttl %s)", cfg.Session.TTL)
	} else {
		if cfg.Session.Backend == "redis" {
			log.Printf("[WARN] Redis unavailable, session backend falls back to memory")
		}
		sessions = memory.NewSessionRepository(cfg.Session.TTL, cfg.Session.CleanupInterval)
		history = memory.NewHistoryRepository(cfg.Session.TTL, cfg.Session.CleanupInterval)
		log.Printf("[INFO] Session backend: MEMORY (ttl %s)", cfg.Session.TTL)
	}

	var (
		archive    contract.CounselingTurnRepository
		uowFactory unitofwork.RepositoryFactory
	)
	if deps.DB != nil {
		uowFactory = unitofwork.NewRepositoryFactory(deps.DB)
		archive = implementation.NewCounselingTurnRepository(deps.DB)
	} else {
		archive = memory.NewCounselingTurnRepository(memory.DefaultArchiveCapacity)
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: eventBuffer},
		watermillLogger,
	)

	// 3. Retrieval
	var searcher service.KnowledgeSearcher
	if cfg.Ai.RAGEnabled {
		if deps.DB != nil && deps.Embedding != nil {
			searcher = rag.NewRetriever(deps.Embedding, implementation.NewKnowledgeChunkRepository(deps.DB), deps.Logger)
			log.Printf("[INFO] RAG enabled (top_k %d)", cfg.Ai.RAGTopK)
		} else {
			log.Printf("[WARN] RAG_ENABLED needs a database, retrieval stays off")
		}
	}

	// 4. Services
	publisherService := service.NewPublisherService(cfg.Keys.TurnRecordedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.TurnRecordedTopic,
		archive,
		deps.Forwarder,
		deps.TurnLogger,
		deps.Logger,
	)

	counselingService := service.NewCounselingService(
		sessions,
		history,
		deps.LLM,
		searcher,
		publisherService,
		deps.Logger,
		service.CounselingOptions{
			ReplayTurns: cfg.Session.HistoryReplayTurns,
			RAG:         rag.Config{TopK: cfg.Ai.RAGTopK},
			ModelReady:  deps.ModelReady,
		},
	)

	var reportLLM llm.LLMProvider
	if cfg.Report.LLMEnabled {
		reportLLM = deps.LLM
	}
	reportService := service.NewReportService(reportLLM, archive, deps.Transcripts, deps.Logger)
	historyService := service.NewHistoryService(archive)

	// WebSocket Hub
	wsHub := websocket.NewHub(deps.Redis, deps.Logger)
	hubCtx, stopHub := context.WithCancel(context.Background())
	go wsHub.Run(hubCtx)

	c := &Container{
		CounselingController: controller.NewCounselingController(counselingService),
		ReportController:     controller.NewReportController(reportService),
		HistoryController:    controller.NewHistoryController(historyService),
		ConsumerService:      consumerService,
		ChatHandler:          websocket.NewChatHandler(wsHub, counselingService, deps.Logger),
		WebSocketHub:         wsHub,
		Logger:               deps.Logger,
	}

	if uowFactory != nil && deps.Embedding != nil {
		c.KnowledgeService = service.NewKnowledgeService(uowFactory, deps.Embedding, searcher, deps.LLM, deps.Logger)
		c.KnowledgeController = controller.NewKnowledgeController(c.KnowledgeService)
	}

	c.closers = append(c.closers, func() { pubSub.Close() }, stopHub)
	return c
}

// Close releases connections in reverse order of acquisition.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func connectRedis(url string) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: url,
		}
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		rdb.Close()
		return nil
	}
	return rdb
}
