package api

import (
	"os"

	"github.com/redis/go-redis/v9"

	"levant-va/tower/internal/auth"
	"levant-va/tower/internal/common"
	"levant-va/tower/internal/constants"
	"levant-va/tower/internal/db"
	"levant-va/tower/internal/db/repositories"
	"levant-va/tower/internal/metrics"
	"levant-va/tower/internal/services"
)

type Repositories struct {
	Pilots        *repositories.PilotRepository
	Bids          *repositories.BidRepository
	ActiveFlights *repositories.ActiveFlightRepository
	Flights       *repositories.FlightRepository
	Fleet         *repositories.FleetRepository
	Airports      *repositories.AirportRepository
	Config        *repositories.ConfigRepository
	Ranks         *repositories.RankRepository
	Notifications *repositories.NotificationRepository
	Stats         *repositories.StatsRepository
}

type Services struct {
	Cache       common.CacheInterface
	Session     *services.SessionService
	Bids        *services.BidService
	Pireps      *services.PirepService
	Ranks       *services.RankService
	Notifier    *services.Notifier
	InApp       *services.NotificationService
	Tokens      *auth.TokenService
	Discord     *common.DiscordService
	NotifyQueue *common.RedisNotifyQueue
	Broadcaster common.FlightBroadcaster
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Metrics  *metrics.MetricsRegistry
	Redis    *redis.Client
}

// InitDependencies wires the full object graph off the shared database and
// Redis handles.
func InitDependencies(metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {
	// Struct snapshots (config, airports, OFPs) stay in the in-process
	// cache; Redis carries the notification stream and live-map pub/sub.
	cacheSvc := common.NewCacheService(300, 600)
	redisClient := common.NewRedisClient()

	repos := &Repositories{
		Pilots:        repositories.NewPilotRepository(db.PgDB),
		Bids:          repositories.NewBidRepository(db.PgDB),
		ActiveFlights: repositories.NewActiveFlightRepository(db.PgDB),
		Flights:       repositories.NewFlightRepository(db.PgDB),
		Fleet:         repositories.NewFleetRepository(db.PgDB),
		Airports:      repositories.NewAirportRepository(db.PgDB, cacheSvc),
		Config:        repositories.NewConfigRepository(db.PgDB, cacheSvc),
		Ranks:         repositories.NewRankRepository(db.PgDB),
		Notifications: repositories.NewNotificationRepository(db.PgDB),
		Stats:         repositories.NewStatsRepository(db.DB),
	}

	positionCache, err := common.NewPositionCache(constants.PositionCacheSize)
	if err != nil {
		return nil, err
	}

	discordSvc := common.NewDiscordService()

	notifyQueue := common.NewRedisNotifyQueue(redisClient, os.Getenv("NOTIFY_STREAM"))
	broadcaster := common.NewRedisBroadcaster(redisClient)

	notifier := services.NewNotifier(notifyQueue, discordSvc, metricsReg)
	slew := services.NewSlewDetector(positionCache, notifier, metricsReg)
	inApp := services.NewNotificationService(repos.Notifications)
	rankSvc := services.NewRankService(repos.Ranks, repos.Pilots, notifier, metricsReg)
	simbrief := common.NewSimbriefService(cacheSvc)

	sessionSvc := services.NewSessionService(
		repos.Pilots, repos.ActiveFlights, repos.Bids, repos.Fleet,
		slew, notifier, broadcaster, metricsReg,
	)
	bidSvc := services.NewBidService(
		repos.Pilots, repos.Bids, repos.Fleet, repos.Airports,
		repos.ActiveFlights, repos.Config, simbrief,
	)
	pirepSvc := services.NewPirepService(
		repos.Pilots, repos.Flights, repos.Bids, repos.ActiveFlights,
		repos.Fleet, repos.Config, services.NewCreditEngine(),
		rankSvc, notifier, inApp, metricsReg,
	)

	return &Dependencies{
		Repo: repos,
		Services: &Services{
			Cache:       cacheSvc,
			Session:     sessionSvc,
			Bids:        bidSvc,
			Pireps:      pirepSvc,
			Ranks:       rankSvc,
			Notifier:    notifier,
			InApp:       inApp,
			Tokens:      auth.NewTokenService(),
			Discord:     discordSvc,
			NotifyQueue: notifyQueue,
			Broadcaster: broadcaster,
		},
		Metrics: metricsReg,
		Redis:   redisClient,
	}, nil
}
