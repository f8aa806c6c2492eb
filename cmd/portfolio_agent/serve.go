package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jonathan/portfolio-generator/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort      int
	serveDataDir   string
	serveOutputDir string
)

const defaultLLMTimeout = 120 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for generating and managing portfolios.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "data/portfolios", "Directory for saved portfolio JSON files")
	serveCmd.Flags().StringVar(&serveOutputDir, "output-dir", "output", "Directory for generated archives")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Environment variables override defaults; explicit flags win over both.
	if raw := os.Getenv("PORT"); raw != "" && !cmd.Flags().Changed("port") {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid PORT value %q: %w", raw, err)
		}
		servePort = port
	}
	if dir := os.Getenv("DATA_DIR"); dir != "" && !cmd.Flags().Changed("data-dir") {
		serveDataDir = dir
	}
	if dir := os.Getenv("OUTPUT_DIR"); dir != "" && !cmd.Flags().Changed("output-dir") {
		serveOutputDir = dir
	}

	llmTimeout := defaultLLMTimeout
	if raw := os.Getenv("LLM_REQUEST_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid LLM_REQUEST_TIMEOUT value %q: %w", raw, err)
		}
		llmTimeout = timeout
	}

	cfg := server.Config{
		Port:       servePort,
		DataDir:    serveDataDir,
		OutputDir:  serveOutputDir,
		LLMTimeout: llmTimeout,
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
