package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	orchestratorx "github.com/hotlanelabs/drivethru/agent/agents/orchestrator"
	contractx "github.com/hotlanelabs/drivethru/agent/contract"
	llmx "github.com/hotlanelabs/drivethru/agent/llm"
	menux "github.com/hotlanelabs/drivethru/agent/menu"
	promptx "github.com/hotlanelabs/drivethru/agent/prompt"
	statex "github.com/hotlanelabs/drivethru/agent/state"
	toolx "github.com/hotlanelabs/drivethru/agent/tool"
	tracex "github.com/hotlanelabs/drivethru/agent/trace"
	configx "github.com/hotlanelabs/drivethru/pkg/config"
	langfusex "github.com/hotlanelabs/drivethru/pkg/langfuse"
	logx "github.com/hotlanelabs/drivethru/pkg/logger"
	mistralx "github.com/hotlanelabs/drivethru/pkg/mistral"
)

type AppConfig struct {
	MenuPath    string `envconfig:"MENU_PATH" split_words:"true" default:"data/menu.json"`
	MenuID      string `envconfig:"MENU_ID" split_words:"true"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" split_words:"true"`
	TurnBudget  int    `envconfig:"TURN_BUDGET" split_words:"true" default:"8"`
	PromptName  string `envconfig:"PROMPT_NAME" split_words:"true"`
}

func main() {
	check := flag.Bool("check", false, "ping the model provider and exit")

	appCfg := configx.MustNew[AppConfig]("DRIVETHRU")
	logx.Init(*configx.MustNew[logx.Config]("LOG"))

	llmCfg := configx.MustNew[llmx.Config]("MISTRAL")
	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid model config")
	}

	ctx := context.Background()

	if *check {
		runCheck(ctx, llmCfg.Mistral())
		return
	}

	m, err := loadMenu(ctx, appCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("load menu")
	}
	log.Info().
		Str("menu_id", m.MenuID).
		Str("menu_version", m.MenuVersion).
		Int("items", len(m.Items)).
		Msg("menu loaded")

	mistralCfg := llmCfg.Mistral()
	chatModel, err := mistralCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("create chat model")
	}
	adapter, err := llmx.NewAdapter(chatModel, toolx.Infos())
	if err != nil {
		log.Fatal().Err(err).Msg("create model adapter")
	}

	runner, err := toolx.NewRunner(m)
	if err != nil {
		log.Fatal().Err(err).Msg("create tool runner")
	}

	var store statex.Store = statex.NewMemoryStore()
	upstashCfg := configx.MustNew[statex.UpstashRedisConfig]("UPSTASH_REDIS")
	if upstashCfg.Configured() {
		store, err = statex.NewUpstashRedisStore(*upstashCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("create session store")
		}
		log.Info().Msg("sessions persisted in upstash redis")
	}

	lfCfg := configx.MustNew[langfusex.Config]("LANGFUSE")
	var (
		remote promptx.RemoteFetcher
		tracer contractx.Tracer
	)
	if lfCfg.Configured() {
		client, err := langfusex.NewClient(*lfCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("create langfuse client")
		}
		remote = client
		tracer, err = tracex.NewLangfuse(client, llmCfg.Model)
		if err != nil {
			log.Fatal().Err(err).Msg("create langfuse tracer")
		}
	}

	prompts, err := promptx.NewManager(remote, appCfg.PromptName)
	if err != nil {
		log.Fatal().Err(err).Msg("create prompt manager")
	}

	engine, err := orchestratorx.New(
		store,
		adapter,
		runner,
		prompts,
		m,
		orchestratorx.Config{TurnBudget: appCfg.TurnBudget, Tracer: tracer},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("create engine")
	}

	runLane(ctx, engine, m)
}

func loadMenu(ctx context.Context, cfg *AppConfig) (*menux.Menu, error) {
	if dsn := strings.TrimSpace(cfg.PostgresDSN); dsn != "" {
		if strings.TrimSpace(cfg.MenuID) == "" {
			return nil, errors.New("DRIVETHRU_MENU_ID is required with a postgres catalog")
		}
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
		db := bun.NewDB(sqldb, pgdialect.New())
		defer db.Close()
		return menux.LoadPostgres(ctx, db, cfg.MenuID)
	}
	return menux.LoadFile(cfg.MenuPath)
}

func runCheck(ctx context.Context, cfg mistralx.Config) {
	client := mistralx.NewClient(cfg)
	if client == nil {
		log.Fatal().Msg("model provider client not configured")
	}
	page, err := client.Models.List(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("provider check failed")
	}
	fmt.Printf("provider ok: %d models visible\n", len(page.Data))
}

// runLane is the single-lane console loop: one conversation, one customer,
// ended by finalization or by typing quit.
func runLane(ctx context.Context, engine *orchestratorx.Engine, m *menux.Menu) {
	st, err := engine.StartConversation(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("start conversation")
	}

	fmt.Printf("Welcome to %s! What can I get started for you?\n", m.Location.Name)
	fmt.Println(`(type "quit" to leave the lane)`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		switch strings.ToLower(line) {
		case "quit", "exit", "q":
			fmt.Println("Drive safe!")
			return
		}

		result, err := engine.SubmitUserInput(ctx, st.ConversationID, line)
		if err != nil {
			if errors.Is(err, contractx.ErrConversationDone) {
				fmt.Println("That order is already closed. Pull forward, please!")
				return
			}
			log.Error().Err(err).Msg("turn failed")
			fmt.Println("Sorry, could you say that again?")
			continue
		}

		fmt.Println(result.Reply)
		if result.Done {
			fmt.Println()
			fmt.Println("Final order:")
			fmt.Println(result.State.Order.RenderText())
			return
		}
	}

	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("read input")
	}
}
