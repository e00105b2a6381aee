package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/receipt-scanner/internal/awsconfig"
	"github.com/zombor/receipt-scanner/internal/receipt"
	"github.com/zombor/receipt-scanner/internal/scanning"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("receipt-scanner")
	var (
		port         = fs.IntLong("port", 8080, "HTTP server port")
		dbPath       = fs.StringLong("db", "receipts.db", "Database file path")
		storageType  = fs.StringLong("storage", "local", "Image storage: 'local' or 's3'")
		storagePath  = fs.StringLong("storage-path", "./receipts", "Storage directory path for local storage")
		s3Bucket     = fs.StringLong("s3-bucket", "", "S3 bucket for receipt images")
		s3Prefix     = fs.StringLong("s3-prefix", "receipts", "Key prefix for receipt images in the S3 bucket")
		awsRegion    = fs.StringLong("aws-region", "us-east-1", "AWS region for Textract and S3")
		awsAccessKey = fs.StringLong("aws-access-key-id", "", "AWS access key ID (optional, default credential chain otherwise)")
		awsSecretKey = fs.StringLong("aws-secret-access-key", "", "AWS secret access key (optional)")
		awsEndpoint  = fs.StringLong("aws-endpoint", "", "Custom AWS endpoint, e.g. for MinIO or LocalStack (optional)")
		scannerType  = fs.StringLong("scanner", "textract", "Scanner type: 'textract', 'gemini', 'ollama' or 'mock'")
		geminiKey    = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel  = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		ollamaURL    = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel  = fs.StringLong("ollama-model", "llava", "Ollama model name (e.g., llava, llava-phi3, bakllava, qwen2-vl)")
		scanTimeout  = fs.DurationLong("scan-timeout", 60*time.Second, "Timeout for a single receipt analysis")
		authUser     = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass     = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		logLevel     = fs.StringLong("log-level", "info", "Log level: debug, info, warn or error")
		logFormat    = fs.StringLong("log-format", "text", "Log format: 'text' or 'json'")
		_            = fs.StringLong("config", "", "Config file (optional, one 'flag value' per line)")
		showVersion  = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_SCANNER"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	handler, err := newLogHandler(os.Stderr, *logLevel, *logFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(handler))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	awsOpts := awsconfig.Options{
		Region:          *awsRegion,
		AccessKeyID:     *awsAccessKey,
		SecretAccessKey: *awsSecretKey,
		Endpoint:        *awsEndpoint,
	}

	// Initialize database
	slog.Info("Initializing database...", "path", *dbPath)
	db, err := receipt.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize scanner based on type
	var scanner scanning.Scanner
	switch *scannerType {
	case "textract":
		cfg, err := awsconfig.Load(ctx, awsOpts)
		if err != nil {
			slog.Error("Failed to load AWS configuration", "error", err)
			os.Exit(1)
		}
		slog.Info("Initializing Textract scanner...", "region", cfg.Region)
		scanner = scanning.NewTextract(cfg, *scanTimeout)
	case "gemini":
		// Get Gemini API key from flag or environment
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing Gemini scanner...", "model", *geminiModel)
		scanner, err = scanning.NewGemini(apiKey, *geminiModel, *scanTimeout)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
	case "ollama":
		slog.Info("Initializing Ollama scanner...", "url", *ollamaURL, "model", *ollamaModel)
		scanner, err = scanning.NewOllama(*ollamaURL, *ollamaModel, *scanTimeout)
		if err != nil {
			slog.Error("Failed to initialize Ollama", "error", err)
			os.Exit(1)
		}
	case "mock":
		slog.Warn("Using the mock scanner; every upload returns the same sample receipt")
		scanner = scanning.NewMock()
	default:
		slog.Error("Invalid scanner type", "type", *scannerType, "valid", "textract, gemini, ollama or mock")
		os.Exit(1)
	}
	defer scanner.Close()

	// Initialize storage
	var store receipt.Storage
	switch *storageType {
	case "local":
		slog.Info("Initializing local storage...", "path", *storagePath)
		store, err = receipt.NewLocalStorage(*storagePath)
		if err != nil {
			slog.Error("Failed to initialize storage", "error", err)
			os.Exit(1)
		}
	case "s3":
		if *s3Bucket == "" {
			slog.Error("An S3 bucket is required. Set --s3-bucket or RECEIPT_SCANNER_S3_BUCKET")
			os.Exit(1)
		}
		cfg, err := awsconfig.Load(ctx, awsOpts)
		if err != nil {
			slog.Error("Failed to load AWS configuration", "error", err)
			os.Exit(1)
		}
		slog.Info("Initializing S3 storage...", "bucket", *s3Bucket, "prefix", *s3Prefix)
		store = receipt.NewS3Storage(cfg, *s3Bucket, *s3Prefix, *scanTimeout)
	default:
		slog.Error("Invalid storage type", "type", *storageType, "valid", "local or s3")
		os.Exit(1)
	}

	receiptService := receipt.NewService(db, scanner, store)

	basicAuth := receipt.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := receipt.NewServer(receiptService, basicAuth)

	addr := fmt.Sprintf(":%d", *port)
	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr), "version", version)
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	if err := server.Start(ctx, addr); err != nil {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}
	slog.Info("Shut down cleanly")
}
