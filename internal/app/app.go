package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/IT-Nick/veritasbot/internal/app/handlers/http/active_sessions_handler"
	"github.com/IT-Nick/veritasbot/internal/app/handlers/http/health_handler"
	"github.com/IT-Nick/veritasbot/internal/app/handlers/http/session_report_handler"
	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/analytics_handler"
	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/answer_handler"
	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/create_test_handler"
	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/finish_test_handler"
	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/groups_handler"
	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/history_handler"
	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/login_handler"
	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/logout_handler"
	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/profile_handler"
	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/register_handler"
	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/results_handler"
	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/review_handler"
	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/settings_handler"
	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/start_handler"
	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/start_test_handler"
	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/test_results_handler"
	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/tests_handler"
	"github.com/IT-Nick/veritasbot/internal/app/handlers/telegram/text_answer_handler"
	"github.com/IT-Nick/veritasbot/internal/app/middleware"
	"github.com/IT-Nick/veritasbot/internal/app/state"
	authService "github.com/IT-Nick/veritasbot/internal/domain/auth/service"
	authoringService "github.com/IT-Nick/veritasbot/internal/domain/authoring/service"
	msgRepo "github.com/IT-Nick/veritasbot/internal/domain/messages/repository"
	msgService "github.com/IT-Nick/veritasbot/internal/domain/messages/service"
	"github.com/IT-Nick/veritasbot/internal/domain/model"
	resultsService "github.com/IT-Nick/veritasbot/internal/domain/results/service"
	rolesRepo "github.com/IT-Nick/veritasbot/internal/domain/roles/repository"
	rolesService "github.com/IT-Nick/veritasbot/internal/domain/roles/service"
	"github.com/IT-Nick/veritasbot/internal/domain/session"
	settingsService "github.com/IT-Nick/veritasbot/internal/domain/settings/service"
	testsService "github.com/IT-Nick/veritasbot/internal/domain/tests/service"
	"github.com/IT-Nick/veritasbot/internal/infra/apiclient"
	"github.com/IT-Nick/veritasbot/internal/infra/config"
	"github.com/IT-Nick/veritasbot/internal/infra/logger"
	"github.com/IT-Nick/veritasbot/internal/infra/metrics"
	"github.com/IT-Nick/veritasbot/internal/infra/poller"
	"github.com/IT-Nick/veritasbot/internal/infra/report"
	"github.com/IT-Nick/veritasbot/internal/infra/storage"
	"github.com/IT-Nick/veritasbot/internal/infra/timer"
	"github.com/IT-Nick/veritasbot/internal/infra/tracing"
	"go.uber.org/zap"
	"gopkg.in/telebot.v4"
	tbmiddleware "gopkg.in/telebot.v4/middleware"
)

// LocalStates состояние чатов, которое живет только в памяти процесса
type LocalStates struct {
	registry *session.Registry
	pending  *state.PendingAnswers
}

type Services struct {
	authService      *authService.AuthService
	messageService   *msgService.MessageService
	roleService      *rolesService.RoleService
	testService      *testsService.TestService
	resultService    *resultsService.ResultService
	authoringService *authoringService.AuthoringService
	settingsService  *settingsService.SettingsService
	submitter        session.Submitter
	reports          *report.Generator
}

type App struct {
	config *config.Config
	logger *zap.Logger
	bot    *telebot.Bot
	store  storage.Store
	api    *apiclient.Client
	server *http.Server

	shutdownTracer func(context.Context) error

	Services
	states LocalStates
}

func NewApp(configPath string) (*App, error) {
	configImpl, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("config.LoadConfig: %w", err)
	}

	log := logger.New(configImpl.Logging.Level, configImpl.Logging.File)

	app := &App{
		config: configImpl,
		logger: log,
		states: LocalStates{
			registry: session.NewRegistry(),
			pending:  state.NewPendingAnswers(),
		},
	}

	if configImpl.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(configImpl.Tracing.ServiceName, configImpl.Tracing.JaegerEndpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
		app.shutdownTracer = shutdown
	}

	store, err := InitStorage(context.Background(), configImpl, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.store = store
	app.api = apiclient.NewClient(configImpl.API.BaseURL, configImpl.API.Timeout, log)

	if err := app.initServices(); err != nil {
		return nil, err
	}
	app.initHTTPServer()

	return app, nil
}

// Функция для инициализации сервисов и репозиториев
func (app *App) initServices() error {
	loc := app.config.Location()

	// Инициализация репозиториев
	messageRepo, err := msgRepo.NewMessageRepository(app.config.Messages.File)
	if err != nil {
		return fmt.Errorf("failed to load messages: %w", err)
	}
	rolePermissionRepo := rolesRepo.NewRolePermissionRepository()

	// Инициализация сервисов
	app.authService = authService.NewAuthService(app.api, app.store, app.logger)
	app.messageService = msgService.NewMessageService(messageRepo, app.logger)
	app.roleService = rolesService.NewRoleService(rolePermissionRepo)
	app.testService = testsService.NewTestService(app.api, app.logger)
	app.resultService = resultsService.NewResultService(app.api, app.logger)
	app.authoringService = authoringService.NewAuthoringService(app.api, loc, app.logger)
	app.settingsService = settingsService.NewSettingsService(app.api, app, app.logger)
	app.submitter = session.NewAPISubmitter(app.api)
	app.reports = report.NewGenerator(app.config.Report.FontDir)

	if !app.reports.Available() {
		app.logger.Warn("report fonts not found, reviews are sent as text", zap.String("font_dir", app.config.Report.FontDir))
	}
	return nil
}

// Logout завершает сессию чата: останавливает тест, забывает ожидаемый ответ,
// локальные результаты и форму создания теста, затем очищает авторизацию
func (app *App) Logout(ctx context.Context, sess *authService.Session) error {
	chatID := sess.ChatID()
	if s, ok := app.states.registry.Get(chatID); ok {
		app.states.registry.Remove(chatID, s)
	}
	app.states.pending.Clear(chatID)
	app.resultService.ForgetLocal(chatID)
	app.authoringService.Cancel(chatID)

	if err := app.authService.Logout(ctx, sess); err != nil {
		return fmt.Errorf("failed to clear auth state: %w", err)
	}
	app.logger.Info("chat logged out", zap.Int64("chat_id", chatID))
	return nil
}

// ListenAndServeTelegram запускает сервер Telegram бота
func (app *App) ListenAndServeTelegram() error {
	p, err := poller.NewPoller(app.config)
	if err != nil {
		return fmt.Errorf("poller.NewPoller: %w", err)
	}

	bot, err := telebot.NewBot(telebot.Settings{
		Token:  app.config.TelegramBot.Token,
		Poller: p,
		OnError: func(err error, c telebot.Context) {
			fields := []zap.Field{zap.Error(err)}
			if c != nil && c.Chat() != nil {
				fields = append(fields, zap.Int64("chat_id", c.Chat().ID))
			}
			app.logger.Error("telegram handler failed", fields...)
		},
	})
	if err != nil {
		return fmt.Errorf("telebot.NewBot: %w", err)
	}
	app.bot = bot

	app.bootstrapHandlersTelegram()

	go app.bot.Start()
	app.logger.Info("telegram bot started", zap.String("mode", app.config.TelegramBot.Mode), zap.String("username", bot.Me.Username))

	return nil
}

// bootstrapHandlersTelegram - регистрирует обработчики для бота
func (app *App) bootstrapHandlersTelegram() {
	ctx := context.Background()
	loc := app.config.Location()

	updater := timer.NewTimerUpdater(app.bot, app.config.Timer.EditsPerSecond, app.config.Timer.EditBurst, app.logger)

	app.bot.Use(
		middleware.Recover(app.logger, app.messageService.Text(ctx, "error_generic")),
		middleware.Logger(app.logger),
		tbmiddleware.AutoRespond(),
	)

	// Команды без авторизации
	startHandler := start_handler.NewStartHandler(app.authService, app.messageService, app.roleService)
	app.bot.Handle("/start", startHandler.GetHandlerFunc())
	app.bot.Handle("/login", login_handler.NewLoginHandler(app.authService, app.messageService, startHandler, app.logger).GetHandlerFunc())
	app.bot.Handle("/register", register_handler.NewRegisterHandler(app.authService, app.messageService, startHandler, app.logger).GetHandlerFunc())
	app.bot.Handle("/groups", groups_handler.NewGroupsHandler(app.authService, app.testService, app.messageService, app.logger).GetHandlerFunc())

	// Свободный текст становится ответом на ожидаемый текстовый вопрос
	textAnswerHandler := text_answer_handler.NewTextAnswerHandler(app.states.registry, app.states.pending, app.messageService)
	app.bot.Handle(telebot.OnText, textAnswerHandler.GetTextHandlerFunc())

	authorized := app.bot.Group()
	authorized.Use(middleware.RequireAuth(app.authService, app.messageService))

	authorized.Handle("/logout", logout_handler.NewLogoutHandler(app.authService, app.messageService, app, app.logger).GetHandlerFunc())
	authorized.Handle("/me", profile_handler.NewProfileHandler(app.messageService, loc).GetHandlerFunc())

	testsHandler := tests_handler.NewTestsHandler(app.testService, app.messageService, loc, app.logger).GetHandlerFunc()
	authorized.Handle("/tests", testsHandler)
	authorized.Handle(&telebot.InlineButton{Unique: model.MyTestsKey}, testsHandler)

	resultsHandler := results_handler.NewResultsHandler(app.resultService, app.messageService, loc, app.logger).GetHandlerFunc()
	authorized.Handle("/results", resultsHandler)
	authorized.Handle(&telebot.InlineButton{Unique: model.MyResultsKey}, resultsHandler)
	authorized.Handle(&telebot.InlineButton{Unique: model.ViewAttemptKey}, history_handler.NewHistoryHandler(
		app.resultService, app.states.registry, app.messageService, app.logger,
	).GetHandlerFunc())

	analyticsHandler := analytics_handler.NewAnalyticsHandler(app.resultService, app.messageService, loc, app.logger).GetHandlerFunc()
	authorized.Handle("/analytics", analyticsHandler)
	authorized.Handle(&telebot.InlineButton{Unique: model.AnalyticsKey}, analyticsHandler)

	// Прохождение теста. Данные кнопок содержат метку сессии, см. testview.
	authorized.Handle(&telebot.InlineButton{Unique: model.StartTestKey}, start_test_handler.NewStartTestHandler(
		app.testService, app.resultService, app.messageService,
		app.states.registry, app.submitter, app.states.pending,
		updater, app.bot, app.logger,
	).GetHandlerFunc())
	authorized.Handle(&telebot.InlineButton{Unique: model.AnswerKey}, answer_handler.NewAnswerHandler(app.states.registry, app.messageService, app.logger).GetHandlerFunc())
	authorized.Handle(&telebot.InlineButton{Unique: model.TextAnswerKey}, textAnswerHandler.GetHandlerFunc())
	authorized.Handle(&telebot.InlineButton{Unique: model.FinishTestKey}, finish_test_handler.NewFinishTestHandler(app.states.registry, app.messageService).GetHandlerFunc())

	settingsHandler := settings_handler.NewSettingsHandler(app.settingsService, app.messageService, app.logger)
	authorized.Handle("/settings", settingsHandler.HandleMenu)
	authorized.Handle(&telebot.InlineButton{Unique: model.SettingsKey}, settingsHandler.HandleMenu)
	authorized.Handle("/password", settingsHandler.HandlePassword)
	authorized.Handle("/deleteaccount", settingsHandler.HandleDelete)
	authorized.Handle("/export", settingsHandler.HandleExport)

	// Команды преподавателя
	teacher := app.bot.Group()
	teacher.Use(
		middleware.RequireAuth(app.authService, app.messageService),
		middleware.RequirePermission(app.roleService, app.messageService, rolesRepo.PermissionCreateTest),
	)

	createTestHandler := create_test_handler.NewCreateTestHandler(app.authoringService, app.messageService, app.logger)
	teacher.Handle("/newtest", createTestHandler.HandleNew)
	teacher.Handle(&telebot.InlineButton{Unique: model.NewTestKey}, createTestHandler.HandleNew)
	teacher.Handle("/q", createTestHandler.HandleQuestion)
	teacher.Handle("/rmq", createTestHandler.HandleRemove)
	teacher.Handle("/draft", createTestHandler.HandleDraft)
	teacher.Handle("/savetest", createTestHandler.HandleSave)
	teacher.Handle("/canceltest", createTestHandler.HandleCancel)

	reviewer := app.bot.Group()
	reviewer.Use(
		middleware.RequireAuth(app.authService, app.messageService),
		middleware.RequirePermission(app.roleService, app.messageService, rolesRepo.PermissionReviewResults),
	)
	reviewer.Handle(&telebot.InlineButton{Unique: model.TestResultsKey}, test_results_handler.NewTestResultsHandler(
		app.testService, app.resultService, app.messageService, loc, app.logger,
	).GetHandlerFunc())
	reviewer.Handle(&telebot.InlineButton{Unique: model.ReviewKey}, review_handler.NewReviewHandler(
		app.testService, app.resultService, app.messageService, app.reports, app.logger,
	).GetHandlerFunc())
}

// initHTTPServer собирает HTTP сервер: метрики, проверка живости и отчет по сессиям
func (app *App) initHTTPServer() {
	mx := http.NewServeMux()

	mx.Handle("GET /metrics", metrics.Handler())
	mx.Handle("GET /healthz", health_handler.NewHealthHandler())
	mx.Handle("GET /sessions/active", active_sessions_handler.NewActiveSessionsHandler(app.states.registry))
	mx.Handle("GET /sessions/{chat_id}", session_report_handler.NewSessionReportHandler(app.states.registry))

	app.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", app.config.Server.Host, app.config.Server.Port),
		Handler:           mx,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// ListenAndServeHTTP запускает HTTP сервер
func (app *App) ListenAndServeHTTP() error {
	app.logger.Info("http server started", zap.String("addr", app.server.Addr))
	if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown останавливает бота, таймеры всех сессий, HTTP сервер и закрывает хранилище
func (app *App) Shutdown(ctx context.Context) error {
	var errs []error

	if app.bot != nil {
		app.bot.Stop()
	}
	app.states.registry.DiscardAll()

	if app.server != nil {
		if err := app.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown http server: %w", err))
		}
	}
	if app.shutdownTracer != nil {
		if err := app.shutdownTracer(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown tracer: %w", err))
		}
	}
	if err := app.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close storage: %w", err))
	}

	app.logger.Info("application stopped")
	_ = app.logger.Sync()
	return errors.Join(errs...)
}
