package app

import (
	"time"

	"github.com/clockheat/clockheat/internal/config"
	"github.com/clockheat/clockheat/internal/event_bus"
	"github.com/clockheat/clockheat/internal/utils"
	"github.com/clockheat/clockheat/pkg/clockify"
	"github.com/clockheat/clockheat/pkg/dashboard"
	"github.com/clockheat/clockheat/pkg/goal"
	"github.com/clockheat/clockheat/pkg/insights"
	"github.com/clockheat/clockheat/pkg/notify"
	"github.com/clockheat/clockheat/pkg/settings"
	"github.com/clockheat/clockheat/pkg/stats"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	Location *time.Location
	EventBus *event_bus.EventBus

	SettingsStore        settings.Store
	CredentialRepository *settings.CredentialRepository

	Session        *clockify.Session
	ClockifyClient clockify.Client

	Pipeline          *dashboard.Pipeline
	DashboardHandler  *dashboard.Handler
	StreamHandler     *dashboard.StreamHandler
	CredentialHandler *dashboard.CredentialHandler

	StatsService     *stats.StatsServiceImpl
	CsvStatsRenderer *stats.CsvStatsRendererImpl
	StatsHandler     *stats.StatsHandler

	GoalRepository  *goal.RepositoryImpl
	GoalService     *goal.ServiceImpl
	ProgressTracker *goal.ProgressTracker
	GoalHandler     *goal.Handler

	InsightsGenerator insights.Generator
	InsightsService   *insights.Service
	InsightsHandler   *insights.Handler

	Notifier *notify.Notifier
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(store settings.Store, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}
	deps.Location = cfg.Server.Location()
	deps.EventBus = event_bus.NewEventBus()

	deps.SettingsStore = store
	deps.CredentialRepository = settings.NewCredentialRepository(store, settings.NewCipher(cfg.Security.Secret))

	deps.Session = clockify.NewSession("")
	deps.ClockifyClient = clockify.NewClient(deps.Session, cfg.Clockify)

	deps.Pipeline = dashboard.NewPipeline(deps.ClockifyClient, deps.Session,
		dashboard.NewFilterStore(store, deps.Location), deps.EventBus, deps.Clock, deps.Location)
	deps.DashboardHandler = dashboard.NewHandler(deps.Pipeline)
	deps.StreamHandler = dashboard.NewStreamHandler(deps.Pipeline, deps.EventBus)
	deps.CredentialHandler = dashboard.NewCredentialHandler(deps.Session)

	deps.StatsService = stats.NewStatsServiceImpl(deps.Pipeline)
	deps.CsvStatsRenderer = stats.NewCsvStatsRenderer()
	deps.StatsHandler = stats.NewStatsHandler(deps.StatsService, deps.CsvStatsRenderer, deps.Clock)

	deps.GoalRepository = goal.NewRepository(store)
	deps.GoalService = goal.NewService(deps.GoalRepository)
	deps.ProgressTracker = goal.NewProgressTracker(deps.GoalRepository, deps.ClockifyClient, deps.Pipeline,
		deps.EventBus, deps.Clock, deps.Location, cfg.Goals.Concurrency)
	deps.GoalHandler = goal.NewHandler(deps.GoalService, deps.ProgressTracker)

	deps.InsightsGenerator = insights.NewGeminiGenerator(cfg.Insights)
	deps.InsightsService = insights.NewService(deps.Pipeline, deps.InsightsGenerator, deps.Clock, deps.Location)
	deps.InsightsHandler = insights.NewHandler(deps.InsightsService)

	if cfg.Notifications.Desktop {
		deps.Notifier = notify.NewNotifier(notify.DesktopAlert)
		deps.Notifier.Register(deps.EventBus)
	}

	return deps
}
