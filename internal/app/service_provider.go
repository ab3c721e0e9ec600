package app

import (
	"context"
	"net/http"
	"os"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	gameAPI "slot_backend/internal/api/game"
	"slot_backend/internal/config"
	"slot_backend/internal/config/env"
	"slot_backend/internal/db/postgres"
	"slot_backend/internal/jobs"
	"slot_backend/internal/ledger"
	"slot_backend/internal/ledger/gateway"
	"slot_backend/internal/ledger/sim"
	"slot_backend/internal/middleware"
	"slot_backend/internal/repository"
	"slot_backend/internal/repository/event_repo"
	"slot_backend/internal/repository/mem_repo"
	"slot_backend/internal/repository/player_repo"
	"slot_backend/internal/repository/spin_repo"
	"slot_backend/internal/service"
	"slot_backend/internal/service/game"
	"slot_backend/internal/service/spin"
	"slot_backend/internal/service/ways"
	"slot_backend/pkg/resp"
)

type ServiceProvider struct {
	// Configs
	appCfg    config.AppConfig
	httpCfg   config.HTTPConfig
	pgConfig  config.PGConfig
	jwtCfg    config.JWTConfig
	spinCfg   config.SpinConfig
	ledgerCfg config.LedgerConfig
	gameCfg   config.GameConfig
	jobsCfg   config.JobsConfig

	//TXManager
	txManager trm.Manager

	// Database
	dbClient *pgxpool.Pool
	memStore *mem_repo.Store

	// Repositories
	spinRepo   repository.SpinRepository
	playerRepo repository.PlayerRepository
	eventRepo  repository.EventRepository

	// Ledger
	ledger    ledger.Ledger
	simLedger *sim.Ledger

	// Game bits
	engine    service.OutcomeEngine
	spinServ  service.SpinService
	gameServ  service.GameService
	gameHand  *gameAPI.Handler
	scheduler *jobs.Scheduler

	router chi.Router
}

func newServiceProvider() *ServiceProvider {
	return &ServiceProvider{}
}

func (sp *ServiceProvider) AppCfg() config.AppConfig {
	if sp.appCfg == nil {
		cfg, err := env.NewAppConfig()
		if err != nil {
			panic("failed to get app config: " + err.Error())
		}
		sp.appCfg = cfg
	}
	return sp.appCfg
}

func (sp *ServiceProvider) HTTPCfg() config.HTTPConfig {
	if sp.httpCfg == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			panic("failed to get http config: " + err.Error())
		}
		sp.httpCfg = cfg
	}

	return sp.httpCfg
}

func (sp *ServiceProvider) PgConfig() config.PGConfig {
	if sp.pgConfig == nil {
		cfg, err := env.NewPGConfig()
		if err != nil {
			panic("failed to get database config: " + err.Error())
		}
		sp.pgConfig = cfg
	}
	return sp.pgConfig
}

func (sp *ServiceProvider) JWTCfg() config.JWTConfig {
	if sp.jwtCfg == nil {
		cfg, err := env.NewJWTConfig()
		if err != nil {
			panic("failed to get jwt config: " + err.Error())
		}
		sp.jwtCfg = cfg
	}
	return sp.jwtCfg
}

func (sp *ServiceProvider) SpinCfg() config.SpinConfig {
	if sp.spinCfg == nil {
		cfg, err := env.NewSpinConfig()
		if err != nil {
			panic("failed to get spin config: " + err.Error())
		}
		sp.spinCfg = cfg
	}
	return sp.spinCfg
}

func (sp *ServiceProvider) LedgerCfg() config.LedgerConfig {
	if sp.ledgerCfg == nil {
		cfg, err := env.NewLedgerConfig()
		if err != nil {
			panic("failed to get ledger config: " + err.Error())
		}
		sp.ledgerCfg = cfg
	}
	return sp.ledgerCfg
}

func (sp *ServiceProvider) GameCfg() config.GameConfig {
	if sp.gameCfg == nil {
		cfg, err := env.NewGameConfig()
		if err != nil {
			panic("failed to get game config: " + err.Error())
		}
		sp.gameCfg = cfg
	}
	return sp.gameCfg
}

func (sp *ServiceProvider) JobsCfg() config.JobsConfig {
	if sp.jobsCfg == nil {
		cfg, err := env.NewJobsConfig()
		if err != nil {
			panic("failed to get jobs config: " + err.Error())
		}
		sp.jobsCfg = cfg
	}
	return sp.jobsCfg
}

func (sp *ServiceProvider) memory() bool {
	return sp.AppCfg().Storage() == "memory"
}

// DBClient Пул соединений. Миграции применяются при первом подключении.
func (sp *ServiceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	if sp.dbClient == nil {
		dbc, err := postgres.NewPool(ctx, sp.PgConfig())
		if err != nil {
			panic("failed to create db pool: " + err.Error())
		}
		if err := postgres.RunMigrations(ctx, dbc); err != nil {
			panic("failed to run migrations: " + err.Error())
		}
		sp.dbClient = dbc
	}
	return sp.dbClient
}

func (sp *ServiceProvider) MemStore() *mem_repo.Store {
	if sp.memStore == nil {
		sp.memStore = mem_repo.NewStore()
	}
	return sp.memStore
}

func (sp *ServiceProvider) TXManager(ctx context.Context) trm.Manager {
	if sp.txManager == nil {
		if sp.memory() {
			sp.txManager = mem_repo.NewTxManager()
			return sp.txManager
		}

		m, err := manager.New(trmpgx.NewDefaultFactory(sp.DBClient(ctx)))
		if err != nil {
			panic("failed to create tx manager: " + err.Error())
		}

		sp.txManager = m
	}

	return sp.txManager
}

func (sp *ServiceProvider) SpinRepo(ctx context.Context) repository.SpinRepository {
	if sp.spinRepo == nil {
		if sp.memory() {
			sp.spinRepo = sp.MemStore()
		} else {
			sp.spinRepo = spin_repo.NewSpinRepository(sp.DBClient(ctx))
		}
	}
	return sp.spinRepo
}

func (sp *ServiceProvider) PlayerRepo(ctx context.Context) repository.PlayerRepository {
	if sp.playerRepo == nil {
		if sp.memory() {
			sp.playerRepo = sp.MemStore()
		} else {
			sp.playerRepo = player_repo.NewPlayerRepository(sp.DBClient(ctx))
		}
	}
	return sp.playerRepo
}

func (sp *ServiceProvider) EventRepo(ctx context.Context) repository.EventRepository {
	if sp.eventRepo == nil {
		if sp.memory() {
			sp.eventRepo = sp.MemStore()
		} else {
			sp.eventRepo = event_repo.NewEventRepository(sp.DBClient(ctx))
		}
	}
	return sp.eventRepo
}

// Ledger Внешний леджер по HTTP или симулятор в процессе
func (sp *ServiceProvider) Ledger() ledger.Ledger {
	if sp.ledger == nil {
		cfg := sp.LedgerCfg()
		if cfg.Mode() == "gateway" {
			sp.ledger = gateway.NewClient(cfg.GatewayURL(), &http.Client{Timeout: cfg.RequestTimeout()})
			return sp.ledger
		}

		sp.simLedger = NewSimLedger(cfg)
		sp.ledger = sp.simLedger
	}
	return sp.ledger
}

// SimLedger nil, если леджер внешний
func (sp *ServiceProvider) SimLedger() *sim.Ledger {
	sp.Ledger()
	return sp.simLedger
}

func (sp *ServiceProvider) Engine() service.OutcomeEngine {
	if sp.engine == nil {
		sp.engine = ways.NewEngine()
	}
	return sp.engine
}

func (sp *ServiceProvider) SpinService(ctx context.Context) service.SpinService {
	if sp.spinServ == nil {
		sp.spinServ = spin.NewSpinService(spin.Deps{
			Ledger:     sp.Ledger(),
			Engine:     sp.Engine(),
			SpinRepo:   sp.SpinRepo(ctx),
			PlayerRepo: sp.PlayerRepo(ctx),
			EventRepo:  sp.EventRepo(ctx),
			TxManager:  sp.TXManager(ctx),
			Config:     sp.SpinCfg(),
		})
	}
	return sp.spinServ
}

func (sp *ServiceProvider) GameService(ctx context.Context) service.GameService {
	if sp.gameServ == nil {
		sp.gameServ = game.NewGameService(sp.SpinService(ctx), sp.Ledger(), sp.SpinRepo(ctx), sp.EventRepo(ctx), sp.GameCfg())
	}
	return sp.gameServ
}

func (sp *ServiceProvider) GameHandler(ctx context.Context) *gameAPI.Handler {
	if sp.gameHand == nil {
		sp.gameHand = gameAPI.NewHandler(gameAPI.HandlerDeps{Serv: sp.GameService(ctx)})
	}
	return sp.gameHand
}

func (sp *ServiceProvider) Scheduler(ctx context.Context) *jobs.Scheduler {
	if sp.scheduler == nil {
		sp.scheduler = jobs.NewScheduler(sp.SpinService(ctx), sp.JobsCfg())
	}
	return sp.scheduler
}

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		r := chi.NewRouter()

		// CORS middleware
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   sp.HTTPCfg().AllowedOrigins(),
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           60 * 15,
		}))

		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			resp.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		// Game endpoints
		gameHandler := sp.GameHandler(ctx)
		r.Route("/game", func(rr chi.Router) {
			rr.Use(middleware.Origin(sp.HTTPCfg().AllowedOrigins()))
			rr.Use(middleware.Auth(sp.JWTCfg().AccessTokenSecretKey()))
			rr.Post("/message", gameHandler.Message)
			rr.Get("/events", gameHandler.Events)
		})

		sp.router = r
	}

	return sp.router
}

// NewSimLedger Симулятор с параметрами из YAML файла
func NewSimLedger(cfg config.LedgerConfig) *sim.Ledger {
	f, err := os.Open(cfg.ParamsFile())
	if err != nil {
		panic("failed to open machine params: " + err.Error())
	}
	defer f.Close()

	params, err := ledger.DecodeParamsYAML(f)
	if err != nil {
		panic("failed to decode machine params: " + err.Error())
	}

	log.WithFields(log.Fields{
		"params_file":      cfg.ParamsFile(),
		"starting_credits": cfg.StartingCredits(),
	}).Info("using in-process ledger simulator")

	return sim.New(params,
		sim.WithJackpotContribution(cfg.JackpotContribution()),
		sim.WithStartingCredits(cfg.StartingCredits()),
	)
}
