package cli

import (
	"fmt"

	"librarian/config"
	"librarian/internal/adapter/catalog"
	"librarian/internal/adapter/embedding"
	"librarian/internal/adapter/llm"
	"librarian/internal/adapter/provider"
	"librarian/internal/adapter/resolver"
	"librarian/internal/adapter/retriever"
	"librarian/internal/adapter/selector"
	"librarian/internal/adapter/store"
	"librarian/internal/port"
	"librarian/internal/usecase"
)

// Provider constructors, replaced in tests.
var (
	newEmbedder = func(c *provider.Client) port.Embedder { return embedding.NewOpenAIEmbedder(c) }
	newLLM      = func(c *provider.Client) port.LLM { return llm.NewOpenAILLM(c) }
)

// app holds everything a command needs, built once per invocation.
type app struct {
	cfg      *config.Config
	catalog  *catalog.JSONCatalog
	store    *store.BoltStore
	client   *provider.Client
	indexDir string
}

func openApp() (*app, error) {
	cfg := GetConfig()
	root := GetRootDir()

	settings, err := provider.LoadSettings(cfg, root)
	if err != nil {
		return nil, fmt.Errorf("failed to load provider settings: %w", err)
	}

	indexDir := config.ResolvePath(root, cfg.Index.Dir)
	if err := config.EnsureIndexDir(indexDir); err != nil {
		return nil, err
	}

	st, err := store.Open(config.IndexDBPath(indexDir))
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}

	return &app{
		cfg:      cfg,
		catalog:  catalog.NewJSONCatalog(config.ResolvePath(root, cfg.Catalog.Path)),
		store:    st,
		client:   provider.NewClient(settings),
		indexDir: indexDir,
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func (a *app) embedder() port.Embedder {
	return newEmbedder(a.client)
}

func (a *app) retriever() port.Retriever {
	return retriever.NewSemanticRetriever(a.store, a.embedder(), a.cfg.Index.Collection)
}

func (a *app) resolveUseCase(r port.Retriever) *usecase.ResolveUseCase {
	return usecase.NewResolveUseCase(
		a.catalog,
		resolver.NewTitleResolver(a.catalog, a.cfg.Retrieve.FuzzyCutoff),
		r,
		selector.NewConstrainedSelector(newLLM(a.client)),
		usecase.ResolveOptions{
			TopK:  a.cfg.Retrieve.TopK,
			Fuzzy: a.cfg.Retrieve.Fuzzy,
		},
	)
}
