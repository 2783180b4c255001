// ABOUTME: Entry point for the nocodb-mcp server
// ABOUTME: Exposes NocoDB operations over plain HTTP or MCP transports

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/2389/nocodb-mcp/internal/catalog"
	"github.com/2389/nocodb-mcp/internal/config"
	"github.com/2389/nocodb-mcp/internal/httpapi"
	"github.com/2389/nocodb-mcp/internal/mcp"
	"github.com/2389/nocodb-mcp/internal/nocodb"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
                          _ _
 _ __   ___   ___ ___  __| | |__        _ __ ___   ___ _ __
| '_ \ / _ \ / __/ _ \/ _' | '_ \ _____| '_ ' _ \ / __| '_ \
| | | | (_) | (_| (_) | (_| | |_) |_____| | | | | | (__| |_) |
|_| |_|\___/ \___\___/ \__,_|_.__/      |_| |_| |_|\___| .__/
                                                       |_|
`

// getConfigPath returns the path to the config file.
// Priority: NOCODB_MCP_CONFIG env var > XDG_CONFIG_HOME/nocodb-mcp/config.yaml > ~/.config/nocodb-mcp/config.yaml
func getConfigPath() string {
	if envPath := os.Getenv("NOCODB_MCP_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "nocodb-mcp", "config.yaml")
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: nocodb-mcp <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve       Start the plain HTTP tool server")
		fmt.Println("  serve-mcp   Start the MCP (Streamable HTTP) server")
		fmt.Println("  health      Check server health")
		fmt.Println("  tools       List available tools")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "serve-mcp":
		err = runServeMCP(ctx)
	case "health":
		err = runHealth(ctx)
	case "tools":
		err = runTools()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// printStartup renders the banner and the startup summary lines.
func printStartup(configPath string, cfg *config.Config, surface string) {
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	gray := color.New(color.FgHiBlack)
	gray.Printf("    version: %s\n\n", version)

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	green.Print("    ▶ ")
	fmt.Printf("Config:   %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("Surface:  %s\n", surface)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:     %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("NocoDB:   %s\n", cfg.NocoDB.BaseURL)

	green.Print("    ▶ ")
	fmt.Print("Token:    ")
	if cfg.NocoDB.APIToken != "" {
		fmt.Println("set")
	} else {
		yellow.Println("not set")
	}

	fmt.Println()
}

// newNocoDBClient builds the shared dispatcher from config.
func newNocoDBClient(cfg *config.Config, logger *slog.Logger) *nocodb.Client {
	return nocodb.NewClient(nocodb.Config{
		BaseURL:        cfg.NocoDB.BaseURL,
		APIToken:       cfg.NocoDB.APIToken,
		RequestTimeout: cfg.NocoDB.RequestTimeout,
		Logger:         logger.With("component", "nocodb"),
	})
}

func runServe(ctx context.Context) error {
	configPath := getConfigPath()

	cfg, err := config.Resolve(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	printStartup(configPath, cfg, "plain HTTP (/health /tools /call)")

	logger := setupLogger(cfg.Logging)

	logger.Info("starting nocodb-mcp",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
		"nocodb_url", cfg.NocoDB.BaseURL,
	)

	client := newNocoDBClient(cfg, logger)
	server := httpapi.New(httpapi.Config{
		Addr:   cfg.Server.HTTPAddr,
		Client: client,
		Logger: logger.With("component", "httpapi"),
	})

	return server.Run(ctx)
}

func runServeMCP(ctx context.Context) error {
	configPath := getConfigPath()

	cfg, err := config.Resolve(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// This surface sources the token from configuration only, so it cannot
	// start without one.
	if err := cfg.RequireToken(); err != nil {
		return err
	}

	printStartup(configPath, cfg, "MCP Streamable HTTP (/mcp)")

	logger := setupLogger(cfg.Logging)

	logger.Info("starting nocodb-mcp",
		"config", configPath,
		"http_addr", cfg.Server.HTTPAddr,
		"nocodb_url", cfg.NocoDB.BaseURL,
	)

	client := newNocoDBClient(cfg, logger)
	defer client.Close()

	mcpServer, err := mcp.NewServer(mcp.Config{
		Client:    client,
		Logger:    logger.With("component", "mcp"),
		StartTime: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	mux := http.NewServeMux()
	mcpServer.RegisterRoutes(mux)

	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("MCP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("context canceled, initiating shutdown")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = &colorHandler{
			level: level,
		}
	}

	return slog.New(handler)
}

// colorHandler provides colorized log output with thread-safe writes.
type colorHandler struct {
	mu     sync.Mutex
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *colorHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var buf strings.Builder

	// Format timestamp
	buf.WriteString(color.HiBlackString(r.Time.Format("15:04:05") + " "))

	// Colorize level
	switch r.Level {
	case slog.LevelDebug:
		buf.WriteString(color.MagentaString("DBG "))
	case slog.LevelInfo:
		buf.WriteString(color.CyanString("INF "))
	case slog.LevelWarn:
		buf.WriteString(color.YellowString("WRN "))
	case slog.LevelError:
		buf.WriteString(color.New(color.FgRed, color.Bold).Sprint("ERR "))
	default:
		buf.WriteString("??? ")
	}

	// Print message
	buf.WriteString(r.Message)

	// Print handler-level attrs first (from WithAttrs)
	for _, a := range h.attrs {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
	}

	// Print record attrs
	r.Attrs(func(a slog.Attr) bool {
		buf.WriteString(color.HiBlackString(" " + a.Key + "="))
		buf.WriteString(a.Value.String())
		return true
	})

	buf.WriteString("\n")
	fmt.Print(buf.String())
	return nil
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(newAttrs, h.attrs)
	newAttrs = append(newAttrs, attrs...)
	return &colorHandler{
		level:  h.level,
		attrs:  newAttrs,
		groups: h.groups,
	}
}

func (h *colorHandler) WithGroup(name string) slog.Handler {
	newGroups := make([]string, len(h.groups), len(h.groups)+1)
	copy(newGroups, h.groups)
	newGroups = append(newGroups, name)
	return &colorHandler{
		level:  h.level,
		attrs:  h.attrs,
		groups: newGroups,
	}
}

func runHealth(ctx context.Context) error {
	configPath := getConfigPath()

	cfg, err := config.Resolve(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Make HTTP request to health endpoint with context
	url := fmt.Sprintf("http://%s/health", cfg.Server.HTTPAddr)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var health struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &health); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}

	fmt.Println(health.Status)
	return nil
}

// runTools prints the tool catalog without contacting a server.
func runTools() error {
	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)

	for _, tool := range catalog.All() {
		cyan.Printf("%s\n", tool.Name)
		fmt.Printf("  %s\n", tool.Description)
		if required := tool.RequiredArgs(); len(required) > 0 {
			gray.Printf("  required: %s\n", strings.Join(required, ", "))
		}
		fmt.Println()
	}

	return nil
}
