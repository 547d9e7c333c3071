package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PRABHA-MURUGANANDHAM/workelate-agent/internal/agent"
	"github.com/PRABHA-MURUGANANDHAM/workelate-agent/internal/gateway"
	"github.com/PRABHA-MURUGANANDHAM/workelate-agent/internal/governance"
	"github.com/PRABHA-MURUGANANDHAM/workelate-agent/internal/observability"
	"github.com/PRABHA-MURUGANANDHAM/workelate-agent/internal/store"
	"github.com/PRABHA-MURUGANANDHAM/workelate-agent/pkg/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

func main() {
	observability.PrintBanner()
	observability.InitializeTerminal()

	// Route all log output through the terminal mutex so it never
	// interrupts the dashboard's cursor save/restore sequence.
	log.SetOutput(observability.NewTermWriter())

	cfg := config.LoadConfig("config.yaml")

	decisions, err := store.NewDecisionStore(cfg.Memory.Path)
	if err != nil {
		log.Fatal(err)
	}
	defer decisions.Close()

	logger := observability.NewLogger()

	gov := governance.NewDefaultPolicyEngine()
	// Default safety rules: refuse to plan destructive operations.
	_ = gov.DenyTask(`rm\s+-rf`)
	_ = gov.DenyTask(`mkfs`)
	_ = gov.DenyTask(`shutdown`)
	_ = gov.DenyTask(`reboot`)

	// Initialize LLM (using default enabled provider)
	pName, pCfg := cfg.DefaultProvider()
	if pName == "" {
		log.Fatal("No enabled provider found in config")
	}

	var llm llms.Model
	switch pName {
	case "openai", "openrouter", "groq":
		// Groq and OpenRouter both speak the OpenAI wire protocol, the
		// base URL selects the backend.
		opts := []openai.Option{
			openai.WithToken(pCfg.APIKey),
			openai.WithModel(pCfg.Model),
		}
		if pCfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(pCfg.BaseURL))
		}
		llm, err = openai.New(opts...)
	default:
		log.Fatalf("Provider %s not yet implemented in main", pName)
	}

	if err != nil {
		log.Fatal(err)
	}

	planner := agent.NewPlanner(llm, decisions, gov, logger)

	var gateways []gateway.Messenger

	if webCfg, ok := cfg.WebGateway(); ok {
		gateways = append(gateways, gateway.NewWebGateway(webCfg.Listen, planner, decisions))
	}

	if tgCfg, ok := cfg.TelegramGateway(); ok {
		tg, err := gateway.NewTelegramGateway(tgCfg.Token, planner, decisions)
		if err != nil {
			log.Fatal(err)
		}
		gateways = append(gateways, tg)
	}

	if dcCfg, ok := cfg.DiscordGateway(); ok {
		dc, err := gateway.NewDiscordGateway(dcCfg.Token, planner, decisions)
		if err != nil {
			log.Fatal(err)
		}
		gateways = append(gateways, dc)
	}

	if len(gateways) == 0 {
		log.Fatal("No gateway is enabled in config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start Live Resource Dashboard (1-second updates)
	go func() {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				observability.PrintLiveStatus()
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				observability.Heartbeat()
				logger.LogHeartbeat()
			}
		}
	}()

	for _, g := range gateways {
		g := g
		go func() {
			if err := g.Start(); err != nil {
				log.Printf("\033[91m[ FAIL ] GATEWAY CRITICAL ERROR: %v\033[0m", err)
				stop() // stop everything if a gateway dies
			}
		}()
	}

	// Wait for shutdown signal
	<-ctx.Done()

	for _, g := range gateways {
		if err := g.Stop(); err != nil {
			log.Printf("gateway shutdown: %v", err)
		}
	}

	// Reset terminal aesthetics
	observability.CleanupTerminal()

	// Give a short time for final logs/syncs
	time.Sleep(500 * time.Millisecond)
	log.Println("\033[95m[ EXIT ] CORE DE-INITIALIZED. GOODBYE.\033[0m")
}
