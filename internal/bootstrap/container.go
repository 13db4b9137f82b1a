package bootstrap

import (
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"

	"rag-chatbot-be/internal/config"
	"rag-chatbot-be/internal/controller"
	"rag-chatbot-be/internal/pkg/logger"
	"rag-chatbot-be/internal/pkg/serverutils"
	"rag-chatbot-be/internal/repository/implementation"
	"rag-chatbot-be/internal/service"
	"rag-chatbot-be/pkg/embedding"
	"rag-chatbot-be/pkg/extractor"
	"rag-chatbot-be/pkg/llm"
	llmazure "rag-chatbot-be/pkg/llm/azure"
	llmollama "rag-chatbot-be/pkg/llm/ollama"
	pktNats "rag-chatbot-be/pkg/nats"
	"rag-chatbot-be/pkg/rag"
	"rag-chatbot-be/pkg/tokens"
)

type Container struct {
	// Controllers
	ChatController     controller.IChatController
	DocumentController controller.IDocumentController
	HealthController   controller.IHealthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		pub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("Warn: NATS unavailable, events stay local: %v", err)
		} else {
			natsPub = pub
		}
	}

	// 3. Extraction
	var pdfExtractor extractor.PDFExtractor
	switch cfg.Extraction.PDFExtractor {
	case "local":
		pdfExtractor = extractor.NewLocalPDFExtractor()
		log.Printf("[INFO] Using PDF Extractor: LOCAL")
	case "layout":
		pdfExtractor = extractor.NewLayoutPDFExtractor(cfg.Extraction.LayoutEndpoint, cfg.Extraction.LayoutAPIKey)
		log.Printf("[INFO] Using PDF Extractor: LAYOUT (%s)", cfg.Extraction.LayoutEndpoint)
	default:
		log.Printf("[INFO] PDF extraction disabled (set PDF_EXTRACTOR=local or layout)")
	}
	extractorService := extractor.NewService(pdfExtractor)

	// 4. Embedding Provider
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaEmbeddingModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbeddingModel)
	} else {
		embeddingProvider = embedding.NewAzureProvider(
			cfg.Ai.AzureOpenAIEndpoint,
			cfg.Ai.AzureOpenAIAPIKey,
			cfg.Ai.AzureOpenAIAPIVersion,
			cfg.Ai.AzureOpenAIEmbeddingDeployment,
		)
		log.Printf("[INFO] Using Embedding Provider: AZURE (%s)", cfg.Ai.AzureOpenAIEmbeddingDeployment)
	}
	embedder := embedding.NewAdapter(embeddingProvider, cfg.Search.EmbeddingDimensions)

	// 5. LLM Provider
	var llmProvider llm.Provider
	if cfg.Ai.LLMProvider == "ollama" {
		llmProvider = llmollama.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		log.Printf("[INFO] Using LLM Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		llmProvider = llmazure.NewAzureProvider(
			cfg.Ai.AzureOpenAIEndpoint,
			cfg.Ai.AzureOpenAIAPIKey,
			cfg.Ai.AzureOpenAIAPIVersion,
			cfg.Ai.AzureOpenAIDeployment,
		)
		log.Printf("[INFO] Using LLM Provider: AZURE (%s)", cfg.Ai.AzureOpenAIDeployment)
	}

	// 6. Repository + Services
	chunkRepo := implementation.NewChunkRepository(db, cfg.Search.UseSemanticRanking)

	publisherService := service.NewPublisherService(pubSub, service.DocumentEventsTopic, sysLogger)
	consumerService := service.NewConsumerService(pubSub, service.DocumentEventsTopic, natsPub, sysLogger)

	documentService := service.NewDocumentService(
		chunkRepo,
		extractorService,
		embedder,
		publisherService,
		sysLogger,
		cfg.Upload.MaxUploadBytes,
		cfg.Upload.ChunkSizeWords,
	)

	chatService := service.NewChatService(
		embedder,
		rag.NewRetriever(chunkRepo),
		llmProvider,
		chunkRepo,
		tokens.NewCounter(),
		sysLogger,
		cfg.Search.MinimumRelevanceScore,
		service.ChatDefaults{
			TopK:        cfg.Chat.DefaultTopK,
			Temperature: cfg.Chat.DefaultTemperature,
			MaxTokens:   cfg.Chat.DefaultMaxTokens,
		},
	)

	// 7. Controllers
	jwtGuard := serverutils.NewJwtGuard(cfg.App.JwtSecret)

	return &Container{
		ChatController:     controller.NewChatController(chatService, sysLogger, cfg.Chat.EnableStreaming),
		DocumentController: controller.NewDocumentController(documentService, jwtGuard),
		HealthController:   controller.NewHealthController(chatService),
		ConsumerService:    consumerService,
		Logger:             sysLogger,
	}
}
