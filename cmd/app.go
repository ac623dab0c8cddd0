package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/viant/afs"
	"go.mongodb.org/mongo-driver/mongo"

	"sales-assistant/internal/catalog"
	"sales-assistant/internal/config"
	"sales-assistant/internal/domain/entities"
	"sales-assistant/internal/domain/interfaces/repository"
	"sales-assistant/internal/embedding"
	"sales-assistant/internal/infra/handlers"
	"sales-assistant/internal/infra/logger"
	"sales-assistant/internal/infra/provider"
	repo "sales-assistant/internal/infra/repository"
	"sales-assistant/internal/infra/routes"
	"sales-assistant/internal/infra/services"
	"sales-assistant/internal/ingestion"
	"sales-assistant/internal/intent"
	"sales-assistant/internal/language"
	"sales-assistant/internal/middleware"
	client "sales-assistant/internal/pkg"
	"sales-assistant/internal/pricing"
	"sales-assistant/internal/vectorindex"
)

// application is the fully wired service graph shared by every command.
type application struct {
	cfg           *config.AppConfig
	log           *logger.Logger
	fs            afs.Service
	conversations *services.ConversationService
	chat          *services.ChatService
	orders        *services.OrderService
	knowledge     *ingestion.Pipeline
	classifier    *intent.Classifier
	mongo         *mongo.Client
}

func buildApplication(ctx context.Context, cfg *config.AppConfig, log *logger.Logger) (*application, error) {
	app := &application{cfg: cfg, log: log, fs: afs.New()}

	var invoker client.InvokeModelAPI
	if cfg.Generation.Type == "bedrock" || cfg.Embedding.Type == "bedrock" {
		bedrock, err := client.BedrockClient(ctx, cfg.Generation.Region)
		if err != nil {
			return nil, err
		}
		invoker = bedrock
	}

	stableEmbedder, queryEmbedder, err := buildEmbedder(cfg, invoker, log)
	if err != nil {
		return nil, err
	}
	generator, err := buildGenerator(cfg, invoker, log)
	if err != nil {
		return nil, err
	}

	conversationRepo, orderRepo, err := app.buildRepositories(ctx)
	if err != nil {
		return nil, err
	}

	policy, err := pricing.ParsePolicy(cfg.Pricing.MarginPolicy)
	if err != nil {
		return nil, err
	}
	products := catalog.Default()
	engine := pricing.NewEngine(products,
		pricing.WithPolicy(policy),
		pricing.WithBand(cfg.Pricing.MinMargin, cfg.Pricing.MaxMargin, cfg.Pricing.DefaultMargin),
		pricing.WithDeals(catalog.DefaultDeals()),
		pricing.WithCurrency(cfg.Pricing.Currency),
		pricing.WithLogger(log),
	)

	var inferrer intent.StageInferrer
	switch cfg.Intent.Policy {
	case "similarity":
		app.classifier = intent.NewClassifier(stableEmbedder, intent.DefaultExamples, log)
		inferrer = app.classifier
	case "count":
		inferrer = intent.MessageCountPolicy{}
	default:
		return nil, fmt.Errorf("unknown intent policy %q", cfg.Intent.Policy)
	}

	crm, err := buildCRM(cfg, log)
	if err != nil {
		return nil, err
	}

	index := vectorindex.New(stableEmbedder.Dimension(), log)
	app.knowledge = ingestion.NewPipeline(ingestion.NewObjectSource(app.fs, cfg.Documents.BaseURL), stableEmbedder, index, log)
	app.conversations = services.NewConversationService(conversationRepo, log)
	app.chat = services.NewChatService(log, services.ChatDependencies{
		Conversations: app.conversations,
		Inferrer:      inferrer,
		Catalog:       products,
		Pricer:        engine,
		Embedder:      queryEmbedder,
		Index:         index,
		Generator:     provider.NewSafeGenerator(generator, config.Duration(cfg.Generation.TimeoutSecs), log),
		Translator:    language.NewDevTranslator(log),
	}, services.WithTopK(cfg.Retrieval.TopK), services.WithHistoryWindow(cfg.Retrieval.HistoryWindow))
	app.orders = services.NewOrderService(log, crm, orderRepo, engine, cfg.Pricing.Currency)

	return app, nil
}

// warm embeds intent examples and loads the knowledge base. Neither failure
// is fatal: the classifier retries lazily and an empty index just means no
// retrieved context.
func (a *application) warm(ctx context.Context) {
	if a.classifier != nil {
		if err := a.classifier.Warm(ctx); err != nil {
			a.log.Warn(fmt.Sprintf("Failed to warm intent classifier: %v", err))
		}
	}
	if _, err := a.knowledge.Reindex(ctx, a.cfg.Documents.Prefix); err != nil {
		a.log.Warn(fmt.Sprintf("Knowledge base not loaded: %v", err))
	}
}

func (a *application) router() *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware(a.log))
	httpHandlers := handlers.NewHttpHandlers(a.log, a.chat, a.orders, a.conversations, a.knowledge)
	routes.NewRoutes(router, httpHandlers).Init()
	return router
}

func (a *application) close(ctx context.Context) {
	if a.mongo == nil {
		return
	}
	if err := a.mongo.Disconnect(ctx); err != nil {
		a.log.Error(fmt.Sprintf("Failed to disconnect from MongoDB: %v", err))
	}
}

func (a *application) buildRepositories(ctx context.Context) (repository.Repository[entities.Conversation], repository.Repository[entities.OrderInquiry], error) {
	switch a.cfg.Storage.Type {
	case "memory":
		return repo.NewMemoryRepository(func(c entities.Conversation) string { return c.ConversationID }),
			repo.NewMemoryRepository(func(o entities.OrderInquiry) string { return o.InquiryID }),
			nil
	case "mongo":
		uri := a.cfg.Storage.MongoURI
		if uri == "" {
			uri = config.GetEnv("MONGODB_URI")
		}
		mongoClient, err := client.MongoClient(ctx, uri)
		if err != nil {
			return nil, nil, err
		}
		a.mongo = mongoClient
		db := mongoClient.Database(a.cfg.Storage.Database)
		return repo.NewMongoRepository[entities.Conversation](db), repo.NewMongoRepository[entities.OrderInquiry](db), nil
	}
	return nil, nil, fmt.Errorf("unknown storage type %q", a.cfg.Storage.Type)
}

// buildEmbedder returns two views of the configured provider. stable passes
// errors through and feeds everything that caches vectors (the intent
// classifier and the knowledge index). query falls back to the hash vector
// and is only used for per-turn retrieval.
func buildEmbedder(cfg *config.AppConfig, invoker client.InvokeModelAPI, log *logger.Logger) (stable, query embedding.Provider, err error) {
	hash := embedding.NewHashProvider(cfg.Embedding.Dimension)
	timeout := config.Duration(cfg.Embedding.TimeoutSecs)
	var primary embedding.Provider
	switch cfg.Embedding.Type {
	case "hash":
		return hash, hash, nil
	case "bedrock":
		primary = embedding.NewBedrockProvider(invoker, cfg.Embedding.Model, cfg.Embedding.Dimension)
	case "openai":
		primary, err = embedding.NewOpenAIProvider(embedding.OpenAIConfig{
			BaseURL:   cfg.Embedding.BaseURL,
			APIKeyEnv: cfg.Embedding.APIKeyEnv,
			Model:     cfg.Embedding.Model,
			Dimension: cfg.Embedding.Dimension,
			Timeout:   timeout,
		})
		if err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("unknown embedding type %q", cfg.Embedding.Type)
	}
	bounded := embedding.NewTimeoutProvider(primary, timeout)
	return bounded, embedding.NewFallbackProvider(bounded, hash, 0, log), nil
}

func buildGenerator(cfg *config.AppConfig, invoker client.InvokeModelAPI, log *logger.Logger) (provider.IGenerator, error) {
	switch cfg.Generation.Type {
	case "mock":
		return provider.MockGenerator{}, nil
	case "bedrock":
		return provider.NewBedrockGenerator(invoker, cfg.Generation.ModelID, log,
			provider.WithMaxTokens(cfg.Generation.MaxTokens),
			provider.WithTemperature(cfg.Generation.Temperature),
			provider.WithMaxRetries(cfg.Generation.MaxRetries),
		), nil
	}
	return nil, fmt.Errorf("unknown generation type %q", cfg.Generation.Type)
}

func buildCRM(cfg *config.AppConfig, log *logger.Logger) (provider.ICRMProvider, error) {
	switch cfg.CRM.Type {
	case "mock":
		return provider.NewMockCRMProvider(log), nil
	case "http":
		httpClient := &http.Client{Timeout: config.Duration(cfg.CRM.TimeoutSecs)}
		return provider.NewHTTPCRMProvider(log, httpClient, cfg.CRM.APIURL, config.GetEnv(cfg.CRM.APIKeyEnv)), nil
	}
	return nil, fmt.Errorf("unknown CRM type %q", cfg.CRM.Type)
}
