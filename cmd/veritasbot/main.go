package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IT-Nick/veritasbot/internal/app"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "veritasbot",
		Short:         "Telegram-бот для прохождения и создания тестов Veritas",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newServeCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Запустить бота и HTTP сервер",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", envOr("CONFIG_PATH", "configs/values_examples.yaml"), "путь к файлу конфигурации")
	return cmd
}

func serve(parent context.Context, configPath string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("app starting")

	application, err := app.NewApp(configPath)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	if err := application.ListenAndServeTelegram(); err != nil {
		errCh <- fmt.Errorf("failed to start Telegram bot: %w", err)
	} else {
		go func() {
			if err := application.ListenAndServeHTTP(); err != nil {
				errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
	case err = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if shutdownErr := application.Shutdown(shutdownCtx); shutdownErr != nil && err == nil {
		err = shutdownErr
	}
	return err
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
