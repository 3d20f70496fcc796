package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	coordinatorx "github.com/tanpawarit/research-assistant/agent/agents/coordinator"
	specialistx "github.com/tanpawarit/research-assistant/agent/agents/specialist"
	contractx "github.com/tanpawarit/research-assistant/agent/contract"
	llmx "github.com/tanpawarit/research-assistant/agent/llm"
	memoryx "github.com/tanpawarit/research-assistant/agent/memory"
	searchx "github.com/tanpawarit/research-assistant/agent/search"
	webx "github.com/tanpawarit/research-assistant/agent/web"
	configx "github.com/tanpawarit/research-assistant/pkg/config"
	googlesearchx "github.com/tanpawarit/research-assistant/pkg/googlesearch"
	logx "github.com/tanpawarit/research-assistant/pkg/logger"
	_ "github.com/tanpawarit/research-assistant/pkg/logger/autoload"
)

const shutdownTimeout = 15 * time.Second

var envFile string

var rootCmd = &cobra.Command{
	Use:           "research-assistant",
	Short:         "Summarize, fact-check and generate code with per-user memory",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configx.SetEnvFile(envFile)
		logCfg, err := configx.New[logx.Config]("LOG")
		if err != nil {
			return err
		}
		logx.Init(*logCfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "path to a .env file (defaults to ./.env when present)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app holds the process-wide collaborators. Both memory stores are owned
// here and released by Close.
type app struct {
	memory      *memoryx.Manager
	coordinator *coordinatorx.Coordinator
}

func newApp(ctx context.Context) (*app, error) {
	llmCfg, err := configx.New[llmx.Config]("LLM")
	if err != nil {
		return nil, err
	}
	searchCfg, err := configx.New[googlesearchx.Config]("GOOGLE_SEARCH")
	if err != nil {
		return nil, err
	}
	memoryCfg, err := configx.New[memoryx.Config]("MEMORY")
	if err != nil {
		return nil, err
	}

	gen, err := llmx.NewGenerator(ctx, *llmCfg)
	if err != nil {
		return nil, fmt.Errorf("create generator: %w", err)
	}

	svc, err := googlesearchx.NewService(ctx, *searchCfg)
	if err != nil {
		return nil, err
	}
	searcher, err := searchx.New(svc, searchCfg.EngineID)
	if err != nil {
		return nil, err
	}

	agents, err := specialistx.NewRegistry(gen, searcher)
	if err != nil {
		return nil, err
	}

	mem, err := memoryx.New(ctx, *memoryCfg)
	if err != nil {
		return nil, fmt.Errorf("create memory stores: %w", err)
	}

	coord, err := coordinatorx.New(agents, mem)
	if err != nil {
		_ = mem.Close()
		return nil, err
	}

	log.Info().
		Str("llm_provider", llmCfg.Provider).
		Str("text_model", llmCfg.ModelName(contractx.ModelText)).
		Str("code_model", llmCfg.ModelName(contractx.ModelCode)).
		Str("long_term_backend", memoryCfg.LongTermBackend).
		Msg("research assistant ready")

	return &app{memory: mem, coordinator: coord}, nil
}

func (a *app) Close() error {
	return a.memory.Close()
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the research form and JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		httpCfg, err := configx.New[webx.Config]("HTTP")
		if err != nil {
			return err
		}

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		handler, err := webx.NewHandler(a.coordinator, a.memory)
		if err != nil {
			return err
		}
		srv := webx.NewServer(*httpCfg, handler)

		errCh := make(chan error, 1)
		go func() {
			log.Info().Str("addr", srv.Addr).Msg("http server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Info().Msg("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

var (
	askUser string
	askMode string
)

var askCmd = &cobra.Command{
	Use:   "ask --user NAME --mode summarize|factcheck|code QUERY...",
	Short: "Run one query and print the result with the user's memory logs",
	RunE: func(cmd *cobra.Command, args []string) error {
		sub := webx.Submission{User: askUser, Mode: askMode, Query: strings.Join(args, " ")}
		if err := sub.Validate(); err != nil {
			return err
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		user := strings.TrimSpace(sub.User)
		res := a.coordinator.RunMode(cmd.Context(), user, sub.Query, strings.TrimSpace(sub.Mode))

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, res.Output)

		session, longTerm, err := a.memory.Logs(cmd.Context(), user)
		if err != nil {
			return err
		}
		printLog(out, "Session memory", session)
		printLog(out, "Long-term memory", longTerm)

		if res.Failed {
			return fmt.Errorf("%s request failed (%s)", res.Mode, res.ErrorKind)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().StringVarP(&askUser, "user", "u", "", "user name that owns the memory logs")
	askCmd.Flags().StringVarP(&askMode, "mode", "m", "", "one of summarize, factcheck, code")

	rootCmd.AddCommand(serveCmd, askCmd)
}
