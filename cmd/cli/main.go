package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/qrnote/qrnote/internal/config"
	"github.com/qrnote/qrnote/internal/history"
	"github.com/qrnote/qrnote/internal/logger"
	"github.com/qrnote/qrnote/internal/qr"
	"github.com/qrnote/qrnote/internal/upload"
	"github.com/qrnote/qrnote/internal/uploadclient"
)

type cliOptions struct {
	configPath  string
	outPath     string
	size        int
	level       string
	apiBaseURL  string
	timeout     time.Duration
	uploadPath  string
	searchQuery string
	removeID    string
	showHistory bool
	clear       bool
}

func main() {
	opts := parseFlags()
	ctx := context.Background()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Log.Level, cfg.Log.Format)

	store := history.NewStore(logger.L, history.NewFileKV(cfg.History.StorageDir),
		history.WithMaxItems(cfg.History.MaxItems))

	switch {
	case opts.showHistory:
		printItems(store.Items())
	case opts.searchQuery != "":
		printItems(store.Search(opts.searchQuery))
	case opts.clear:
		store.Clear()
		fmt.Println("history cleared")
	case opts.removeID != "":
		store.Remove(opts.removeID)
	case opts.uploadPath != "":
		if err := runUpload(ctx, cfg, opts, store); err != nil {
			logger.Error("upload failed", slog.Any("error", err))
			os.Exit(1)
		}
	default:
		if err := runGenerate(cfg, opts, store); err != nil {
			logger.Error("generate failed", slog.Any("error", err))
			os.Exit(1)
		}
	}
}

func parseFlags() cliOptions {
	var opts cliOptions
	defaultConfig := os.Getenv("CONFIG_PATH")
	if strings.TrimSpace(defaultConfig) == "" {
		defaultConfig = config.DefaultConfigPath
	}

	flag.StringVar(&opts.configPath, "config", defaultConfig, "Path to config.toml")
	flag.StringVar(&opts.outPath, "out", "qr.png", "Output path for the QR PNG")
	flag.IntVar(&opts.size, "size", 0, "QR image size in pixels (overrides config)")
	flag.StringVar(&opts.level, "level", "", "Error correction level: L, M, Q or H (overrides config)")
	flag.StringVar(&opts.apiBaseURL, "api-url", "", "Upload API base URL (e.g. http://127.0.0.1:8080)")
	flag.DurationVar(&opts.timeout, "timeout", 60*time.Second, "Upload request timeout")
	flag.StringVar(&opts.uploadPath, "upload", "", "Upload a .webm audio or image file and record the returned URL")
	flag.StringVar(&opts.searchQuery, "search", "", "Search the history")
	flag.StringVar(&opts.removeID, "remove", "", "Remove a history entry by id")
	flag.BoolVar(&opts.showHistory, "history", false, "Print the history")
	flag.BoolVar(&opts.clear, "clear", false, "Clear the history")
	flag.Parse()

	return opts
}

func runGenerate(cfg config.Config, opts cliOptions, store *history.Store) error {
	text := strings.TrimSpace(strings.Join(flag.Args(), " "))

	size := cfg.QR.Size
	if opts.size > 0 {
		size = opts.size
	}
	level := cfg.QR.Level
	if opts.level != "" {
		level = opts.level
	}

	var encodeErr string
	gen := qr.New(logger.L, qr.Options{
		Size:   size,
		Margin: cfg.QR.Margin,
		Level:  level,
		OnError: func(msg string) {
			encodeErr = msg
		},
	})

	png := gen.PNG(text)
	if png == nil {
		return fmt.Errorf("encode: %s", encodeErr)
	}
	if err := os.WriteFile(opts.outPath, png, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.outPath, err)
	}
	store.Add(text)
	fmt.Printf("wrote %s\n", opts.outPath)
	return nil
}

func runUpload(ctx context.Context, cfg config.Config, opts cliOptions, store *history.Store) error {
	blob, err := os.ReadFile(opts.uploadPath)
	if err != nil {
		return err
	}

	baseURL := strings.TrimSpace(opts.apiBaseURL)
	if baseURL == "" {
		baseURL = cfg.API.BaseURL
	}
	client := uploadclient.New(logger.L, baseURL, &http.Client{Timeout: opts.timeout})

	onProgress := func(percent float64) {
		fmt.Printf("\ruploading... %3.0f%%", percent)
	}

	mime, isAudio := mimeForPath(opts.uploadPath)
	var result upload.Result
	if isAudio {
		result, err = client.UploadAudioWithProgress(ctx, blob, mime, onProgress)
	} else {
		result, err = client.UploadImageWithProgress(ctx, blob, mime, onProgress)
	}
	fmt.Println()
	if err != nil {
		return err
	}

	store.Add(result.URL)
	fmt.Printf("url:     %s\n", result.URL)
	fmt.Printf("signed:  %s\n", result.SignedURL)
	fmt.Printf("expires: %s\n", result.ExpiresAt)
	return nil
}

func mimeForPath(path string) (mime string, isAudio bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".webm":
		return "audio/webm", true
	case ".png":
		return "image/png", false
	case ".webp":
		return "image/webp", false
	default:
		return "image/jpeg", false
	}
}

func printItems(items []history.Item) {
	for _, item := range items {
		ts := time.UnixMilli(item.Timestamp).Format(time.RFC3339)
		fmt.Printf("%s  %s  %s\n", item.ID, ts, item.Text)
	}
}
