package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"document-assistant/internal/assistant"
	"document-assistant/internal/config"
	"document-assistant/internal/embedding"
	"document-assistant/internal/processor"
	"document-assistant/internal/server"
	"document-assistant/internal/session"
	"document-assistant/internal/tokenizer"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the config file")
	filePath := flag.String("file", "", "Path to the document file")
	query := flag.String("query", "", "Question to ask about the document")
	serve := flag.Bool("serve", false, "Run the HTTP API server")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	tok, err := tokenizer.NewTiktoken(cfg.LLM.Model)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing tokenizer")
	}

	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	llm, err := assistant.NewLLM(&cfg.LLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing LLM")
	}

	proc := processor.New(tok, embedder, &cfg.RAG)
	asst := assistant.New(llm, embedder, cfg)

	if *serve {
		srv := server.New(cfg, session.NewStore(), proc, asst)
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Server stopped")
		}
		return
	}

	if *filePath == "" {
		log.Fatal().Msg("Provide a document with the -file flag, or run the API with -serve")
	}

	ctx := context.Background()

	chunks, err := proc.Process(ctx, *filePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error processing document")
	}
	if len(chunks) == 0 {
		log.Fatal().Msg("Document produced no content")
	}

	summary, err := asst.Summary(ctx, chunks)
	if err != nil {
		log.Fatal().Err(err).Msg("Error generating summary")
	}

	log.Info().Msg("Summary: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", summary)

	if *query != "" {
		answer, err := asst.Answer(ctx, chunks, *query)
		if err != nil {
			log.Fatal().Err(err).Msg("Error answering question")
		}

		log.Info().Msg("Query: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
		fmt.Printf("%s\n\n", *query)

		log.Info().Msg("Source: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
		fmt.Printf("%s (confidence %.2f)\n\n", answer.Source, answer.Confidence)

		log.Info().Msg("Assistant: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
		fmt.Printf("%s\n\n", answer.Answer)
	}
}
