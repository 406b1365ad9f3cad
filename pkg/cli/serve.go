package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/cli/config"
	httpctrl "github.com/secmon-lab/testgenie/pkg/controller/http"
	"github.com/secmon-lab/testgenie/pkg/service/worker"
	"github.com/secmon-lab/testgenie/pkg/usecase"
	"github.com/secmon-lab/testgenie/pkg/utils/async"
	"github.com/secmon-lab/testgenie/pkg/utils/logging"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

func cmdServe(version string) *cli.Command {
	var addr string
	var sessionTTL time.Duration
	var sweepInterval time.Duration
	var completionTimeout time.Duration
	var maxUploadSize int64
	var llmCfg config.LLM
	var repoCfg config.Repository
	var slackCfg config.Slack
	var storageCfg config.Storage
	var promptCfg config.Prompt

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("TESTGENIE_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "session-ttl",
			Usage:       "Sessions idle for longer than this are discarded",
			Value:       12 * time.Hour,
			Sources:     cli.EnvVars("TESTGENIE_SESSION_TTL"),
			Destination: &sessionTTL,
		},
		&cli.DurationFlag{
			Name:        "session-sweep-interval",
			Usage:       "Interval between expired session sweeps",
			Value:       10 * time.Minute,
			Sources:     cli.EnvVars("TESTGENIE_SESSION_SWEEP_INTERVAL"),
			Destination: &sweepInterval,
		},
		&cli.DurationFlag{
			Name:        "completion-timeout",
			Usage:       "Upper bound of one completion call (0 means no bound)",
			Sources:     cli.EnvVars("TESTGENIE_COMPLETION_TIMEOUT"),
			Destination: &completionTimeout,
		},
		&cli.Int64Flag{
			Name:        "max-upload-size",
			Usage:       "Maximum size of an uploaded document in bytes",
			Value:       httpctrl.DefaultMaxUploadSize,
			Sources:     cli.EnvVars("TESTGENIE_MAX_UPLOAD_SIZE"),
			Destination: &maxUploadSize,
		},
	}

	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, promptCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("Serve configuration",
				"addr", addr,
				"session_ttl", sessionTTL,
				"completion_timeout", completionTimeout,
				"llm", llmCfg,
				"slack", slackCfg,
				"storage", storageCfg,
				"prompt", promptCfg,
			)

			completer, err := llmCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure completion client")
			}

			prompts, err := promptCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure prompts")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			ucOpts := []usecase.Option{
				usecase.WithPromptBuilder(prompts),
				usecase.WithCompletionTimeout(completionTimeout),
			}

			notifier, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure Slack")
			}
			if notifier != nil {
				ucOpts = append(ucOpts, usecase.WithNotifier(notifier))
				logging.Default().Info("Slack feedback notification enabled")
			}

			archiver, err := storageCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure export archive")
			}
			if archiver != nil {
				defer func() {
					if err := archiver.Close(); err != nil {
						logging.Default().Error("failed to close archiver", "error", err.Error())
					}
				}()
				ucOpts = append(ucOpts, usecase.WithArchiver(archiver))
				logging.Default().Info("Export archive enabled")
			}

			uc := usecase.New(repo, completer, ucOpts...)

			sweeper := worker.NewSessionSweeper(uc.Sessions(), sessionTTL, sweepInterval)
			if err := sweeper.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start session sweeper")
			}
			defer sweeper.Stop()

			server := &http.Server{
				Addr: addr,
				Handler: httpctrl.New(uc,
					httpctrl.WithMaxUploadSize(maxUploadSize),
					httpctrl.WithVersion(version),
				),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			eg, egCtx := errgroup.WithContext(sigCtx)
			eg.Go(func() error {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return goerr.Wrap(err, "failed to start server", goerr.V("addr", addr))
				}
				return nil
			})
			eg.Go(func() error {
				<-egCtx.Done()
				logging.Default().Info("Shutting down HTTP server")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}
				return nil
			})

			err = eg.Wait()
			async.Wait()
			if err != nil {
				return err
			}

			logging.Default().Info("Server shutdown completed")
			return nil
		},
	}
}
