package main

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flexipanel/blocks/internal/config"
	"github.com/flexipanel/blocks/internal/logger"
	"github.com/flexipanel/blocks/pkg/apis/handlers"
	"github.com/flexipanel/blocks/pkg/apis/router"
	"github.com/flexipanel/blocks/pkg/blocktype"
	"github.com/flexipanel/blocks/pkg/cache"
	"github.com/flexipanel/blocks/pkg/controllers"
	"github.com/flexipanel/blocks/pkg/hydrate"
	"github.com/flexipanel/blocks/pkg/media"
	"github.com/flexipanel/blocks/pkg/render"
	"github.com/flexipanel/blocks/pkg/schema"
	"github.com/flexipanel/blocks/pkg/store/sqlite"
	"github.com/flexipanel/blocks/pkg/utils/jwt"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Server.Mode)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zlog.Sync()

	if cfg.Server.Mode == "prod" || cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	manager, err := sqlite.NewManager(cfg.Database.DSN)
	if err != nil {
		zlog.Fatal("failed to open database", "err", err)
	}
	defer manager.Close()
	if err := manager.Initialize(context.Background()); err != nil {
		zlog.Fatal("failed to migrate tables", "err", err)
	}

	blockStore := sqlite.NewBlockStore(manager.GetDB())
	attrStore := sqlite.NewAttributeStore(manager.GetDB())

	resolver := &media.PassthroughResolver{BaseURL: cfg.Media.BaseURL}
	registry := blocktype.NewRegistry()
	registerBuiltinTypes(registry, resolver)

	overlay := schema.NewOverlay()

	blockCache, err := newCache(cfg)
	if err != nil {
		zlog.Warn("cache backend unavailable, continuing without cache", "backend", cfg.Cache.Backend, "err", err)
		blockCache = nil
	}

	hydrator := hydrate.NewHydrator(attrStore, registry, blockCache, hydrate.Config{
		CacheEnabled:  cfg.Cache.Enabled && blockCache != nil,
		CacheTTL:      cfg.CacheTTL(),
		DefaultLocale: cfg.Locales.Default,
	}, zlog)

	renderer := render.NewRenderer(blockStore, registry, hydrator, zlog)
	controller := controllers.NewBlockController(blockStore, attrStore, registry, overlay, hydrator)
	jwtManager := jwt.NewJWTManager(cfg.Auth.JWTSecret, 24*time.Hour)

	blockHandler := handlers.NewBlockHandler(controller, renderer)
	engine := router.NewRouter(blockHandler, jwtManager, zlog).Setup()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	zlog.Info("server starting", "addr", addr)
	if err := engine.Run(addr); err != nil {
		zlog.Fatal("server exited", "err", err)
	}
}

func newCache(cfg *config.Config) (cache.BlockCache, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	switch cfg.Cache.Backend {
	case "redis":
		return cache.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.RedisDB, cfg.LocaleCodes())
	case "memory":
		return cache.NewMemoryCache(), nil
	default:
		return nil, nil
	}
}

// registerBuiltinTypes wires the block types shipped with the server.
// Deployments typically add their own at boot the same way.
func registerBuiltinTypes(registry *blocktype.Registry, resolver media.Resolver) {
	funcs := template.FuncMap{
		"mediaURL": func(value interface{}) string {
			url, ok := resolver.ResolveURL(value, "", "")
			if !ok {
				return ""
			}
			return url
		},
	}

	hero, err := blocktype.NewDefinition(blocktype.Definition{
		TypeName:  "hero",
		TypeLabel: "Hero",
		TypeIcon:  "photo",
		Schema: []schema.FieldDef{
			schema.Section("Content",
				withTranslatable(schema.Field("headline", schema.FieldTypeText)),
				withTranslatable(schema.Field("subline", schema.FieldTypeTextarea)),
				schema.Field("image", schema.FieldTypeUpload),
			),
			schema.Section("Layout",
				schema.Field("height", schema.FieldTypeText),
			),
		},
		Template: `<section class="hero" style="background-image:url({{mediaURL (.Get "image")}});min-height:{{.Get "height"}}"><h1>{{.GetTranslated "headline"}}</h1><p>{{.GetTranslated "subline"}}</p></section>`,
		Funcs:    funcs,
	})
	if err != nil {
		panic(err)
	}
	registry.MustRegister(hero)

	text, err := blocktype.NewDefinition(blocktype.Definition{
		TypeName:  "text",
		TypeLabel: "Text",
		TypeIcon:  "document-text",
		Schema: []schema.FieldDef{
			withTranslatable(schema.Field("body", schema.FieldTypeRichText)),
		},
		Template: `<div class="prose">{{.GetTranslated "body"}}</div>`,
		Funcs:    funcs,
	})
	if err != nil {
		panic(err)
	}
	registry.MustRegister(text)
}

func withTranslatable(f schema.FieldDef) schema.FieldDef {
	f.Translatable = true
	return f
}
