package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"

	translatable "github.com/goliatone/go-translatable"
)

func main() {
	serve := flag.String("serve", "", "listen address for the HTTP API, e.g. :8080")
	flag.Parse()

	ctx := context.Background()

	cfg, err := translatable.ConfigFromEnv("TRANSLATABLE_")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg.Features.Logger = true

	module, err := translatable.New(cfg, translatable.WithDefinitions(
		translatable.Definition{Kind: "article", TranslatedFields: []string{"title", "summary"}},
	))
	if err != nil {
		log.Fatalf("initialise translatable: %v", err)
	}
	defer module.Close(ctx)

	entities := module.Entities()
	articleID := uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")

	_, err = entities.Create(ctx, translatable.CreateRequest{
		Kind:       "article",
		ID:         articleID,
		Attributes: map[string]any{"slug": "welcome", "published": true},
		Translations: []translatable.TranslationInput{
			{Locale: "de-ch", Fields: map[string]string{"title": "Willkommen", "summary": "Eine kurze Einführung"}},
			{Locale: "fr-ch", Fields: map[string]string{"title": "Bienvenue"}},
			{Locale: "en-gb", Fields: map[string]string{"title": "Welcome", "summary": "A short introduction"}},
		},
	})
	if err != nil {
		log.Fatalf("create article: %v", err)
	}

	for _, header := range []string{"de-CH, en;q=0.5", "fr", "it-ch", "pt-BR;q=0.9, *;q=0.1"} {
		article, err := entities.Get(ctx, translatable.GetRequest{
			Kind:        "article",
			ID:          articleID,
			Preferences: translatable.ParseAcceptLanguage(header),
		})
		if err != nil {
			log.Fatalf("get article for %q: %v", header, err)
		}
		prettyPrint(fmt.Sprintf("Accept-Language: %s", header), map[string]any{
			"article": article.View(),
			"meta":    article.TranslationMeta,
		})
	}

	_, err = entities.Update(ctx, translatable.UpdateRequest{
		Kind: "article",
		ID:   articleID,
		Translations: []translatable.TranslationInput{
			{Locale: "it-ch", Fields: map[string]string{"title": "Benvenuto"}},
			{Locale: "it-ch", Fields: map[string]string{"title": "Benvenuti"}},
		},
	})
	var dup *translatable.DuplicateLocaleError
	if errors.As(err, &dup) {
		prettyPrint("Rejected update", map[string]any{"error": err.Error(), "locale_id": dup.LocaleID})
	} else if err != nil {
		log.Fatalf("update article: %v", err)
	}

	if *serve == "" {
		return
	}

	mux := http.NewServeMux()
	if err := module.Register(mux); err != nil {
		log.Fatalf("register http api: %v", err)
	}
	server := &http.Server{
		Addr:              *serve,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt)
		<-stop
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("serving %s%s/entities/{kind}", *serve, cfg.HTTP.BasePath)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("http server: %v", err)
	}
}

func prettyPrint(label string, payload any) {
	fmt.Printf("\n%s:\n", label)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		log.Printf("pretty print %s: %v", label, err)
	}
}
