package main

import (
	"context"
	"flag"
	"time"

	"github.com/fatih/color"

	"github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/agents/orchestrator"
	"github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/agents/specialist"
	contractx "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/contract"
	toolx "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/agent/tool"
	cachex "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/pkg/cache"
	configx "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/pkg/config"
	_ "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/pkg/logger/autoload"
	notifyx "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/pkg/notify"
	openrouterx "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/pkg/openrouter"
	storagex "github.com/tanpawarit/Concierge-Multi-Agent-Customer-Service/pkg/storage"
)

type AppConfig struct {
	ToolTimeout time.Duration `envconfig:"TOOL_TIMEOUT" default:"10s"`
}

var demoQueries = []string{
	"Get customer information for ID 5",
	"I was charged twice and need a refund immediately!! My customer ID is 3",
	"List all active customers and check which ones have open tickets",
	"Update my email to emma.d@newmail.com and show my ticket history, customer 5",
}

func main() {
	ctx := context.Background()
	appCfg := configx.MustNew[AppConfig]("")

	storeCfg := configx.MustNew[storagex.SQLiteConfig]("SQLITE")
	store, err := storagex.NewSQLite(*storeCfg)
	if err != nil {
		panic(err)
	}
	defer store.Close()

	if err := store.CreateSchema(ctx); err != nil {
		panic(err)
	}
	if n, err := store.CountCustomers(ctx); err != nil {
		panic(err)
	} else if n == 0 {
		if err := store.Seed(ctx); err != nil {
			panic(err)
		}
	}

	gateway, err := toolx.NewGateway(store)
	if err != nil {
		panic(err)
	}
	var tools contractx.ToolGateway = gateway

	cacheCfg := configx.MustNew[cachex.Config]("UPSTASH_REDIS")
	if cacheCfg.Enabled() {
		cacheClient, cerr := cachex.New(*cacheCfg)
		if cerr != nil {
			panic(cerr)
		}
		cached, cerr := toolx.NewCachedGateway(tools, cacheClient)
		if cerr != nil {
			panic(cerr)
		}
		tools = cached
	}
	tools = toolx.WithTimeout(tools, appCfg.ToolTimeout)

	llmCfg := configx.MustNew[openrouterx.Config]("OPENROUTER")
	registry, err := specialist.NewRegistry(ctx, *llmCfg, tools)
	if err != nil {
		panic(err)
	}

	var notifier contractx.Notifier = notifyx.Noop{}
	notifyCfg := configx.MustNew[notifyx.Config]("QSTASH")
	if notifyCfg.Enabled() {
		client, nerr := notifyx.New(*notifyCfg)
		if nerr != nil {
			panic(nerr)
		}
		notifier = client
	}

	svc, err := orchestrator.New(registry, notifier)
	if err != nil {
		panic(err)
	}

	// config parsing consumed the flags; what remains are queries
	queries := flag.Args()
	if len(queries) == 0 {
		queries = demoQueries
	}

	for _, query := range queries {
		runQuery(ctx, svc, query)
	}

	printStats(ctx, store)
}

func runQuery(ctx context.Context, svc *orchestrator.Orchestrator, query string) {
	heading := color.New(color.FgCyan, color.Bold)
	agentCol := color.New(color.FgYellow)
	respCol := color.New(color.FgGreen)
	failCol := color.New(color.FgRed)

	heading.Printf("\n=== %s\n", query)

	result, err := svc.Handle(ctx, query)
	for _, entry := range result.Log {
		dst := entry.Destination
		if dst == "" {
			dst = "*"
		}
		agentCol.Printf("  [%02d] %s -> %s: ", entry.Seq, entry.Source, dst)
		color.White("%s", entry.Message)
	}

	if err != nil {
		failCol.Printf("  FAILED (%s): %s\n", result.Context.Phase, err)
	}
	respCol.Printf("  >> %s\n", result.FinalResponse)
}

func printStats(ctx context.Context, store *storagex.Store) {
	stats, err := store.Stats(ctx)
	if err != nil {
		return
	}
	color.New(color.FgMagenta, color.Bold).Println("\n=== store stats")
	color.Magenta("  customers: %d active, %d disabled", stats.ActiveCustomers, stats.DisabledCustomers)
	color.Magenta("  tickets: %d open, %d in progress, %d high priority",
		stats.OpenTickets, stats.InProgressTickets, stats.HighPriorityTickets)
}
