package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/gommon/log"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/sync/errgroup"

	"github.com/ogurasousui/feedback-exchange/internal/adapters/http/handler"
	"github.com/ogurasousui/feedback-exchange/internal/adapters/markdown"
	mongorepo "github.com/ogurasousui/feedback-exchange/internal/adapters/repository/mongo"
	pgrepo "github.com/ogurasousui/feedback-exchange/internal/adapters/repository/postgres"
	"github.com/ogurasousui/feedback-exchange/internal/adapters/report"
	"github.com/ogurasousui/feedback-exchange/internal/core/feedback"
	"github.com/ogurasousui/feedback-exchange/internal/core/feedbackrequest"
	"github.com/ogurasousui/feedback-exchange/internal/core/notification"
	"github.com/ogurasousui/feedback-exchange/internal/core/user"
	"github.com/ogurasousui/feedback-exchange/internal/platform/config"
	mongodb "github.com/ogurasousui/feedback-exchange/internal/platform/db/mongo"
	pg "github.com/ogurasousui/feedback-exchange/internal/platform/db/postgres"
	"github.com/ogurasousui/feedback-exchange/internal/platform/logging"
	"github.com/ogurasousui/feedback-exchange/internal/platform/metrics"
	"github.com/ogurasousui/feedback-exchange/internal/platform/server"
)

// stores は選択された保存先のリポジトリ群です。
type stores struct {
	users         user.Repository
	feedback      feedback.Repository
	requests      feedbackrequest.Repository
	notifications notification.Repository
	tx            feedback.TransactionManager
	health        server.HealthCheck
	close         func()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New("feedback-exchange", cfg.Log.Level, os.Stdout)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Subsystem)
	}

	st, err := openStores(ctx, cfg, m)
	if err != nil {
		logger.Fatalf("failed to initialize %s storage: %v", cfg.Storage.Driver, err)
	}
	defer st.close()

	var notifyOpts []notification.Option
	if m != nil {
		notifyOpts = append(notifyOpts, notification.WithObserver(m))
	}

	userSvc := user.NewService(st.users, nil)
	notificationSvc := notification.NewService(st.notifications, nil, notifyOpts...)
	feedbackSvc := feedback.NewService(st.feedback, userSvc, notificationSvc, nil, st.tx,
		feedback.WithCommentRenderer(markdown.NewRenderer()))
	requestSvc := feedbackrequest.NewService(st.requests, userSvc, notificationSvc, nil, nil)

	httpServer := server.NewHTTP(server.HTTPOptions{
		ListenAddr:      cfg.Server.HTTPListenAddr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Logger:          logger,
		Metrics:         m,
		Health:          st.health,
	}, handler.Handlers{
		Users:         handler.NewUserHandler(userSvc),
		Feedback:      handler.NewFeedbackHandler(feedbackSvc, report.NewPDFRenderer()),
		Requests:      handler.NewFeedbackRequestHandler(requestSvc),
		Notifications: handler.NewNotificationHandler(notificationSvc),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("HTTP server listening on %s (storage=%s)", cfg.Server.HTTPListenAddr, cfg.Storage.Driver)
		return httpServer.Run(gctx)
	})
	if cfg.Server.GRPCListenAddr != "" {
		grpcServer := server.NewGRPC(cfg.Server.GRPCListenAddr, st.health)
		g.Go(func() error {
			logger.Infof("gRPC health server listening on %s", cfg.Server.GRPCListenAddr)
			return grpcServer.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Fatalf("server stopped with error: %v", err)
	}
	logger.Info("server stopped")
}

func openStores(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*stores, error) {
	switch cfg.Storage.Driver {
	case config.DriverMongo:
		client, err := mongodb.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		db := client.Database(cfg.Mongo.Database)
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &stores{
			users:         mongorepo.NewUserRepository(db),
			feedback:      mongorepo.NewFeedbackRepository(db),
			requests:      mongorepo.NewFeedbackRequestRepository(db),
			notifications: mongorepo.NewNotificationRepository(db),
			health: func(ctx context.Context) error {
				return client.Ping(ctx, readpref.Primary())
			},
			close: func() { _ = client.Disconnect(context.Background()) },
		}, nil
	default:
		pool, err := pg.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if m != nil {
			m.RegisterPoolStats(pool.Stat)
		}
		return &stores{
			users:         pgrepo.NewUserRepository(pool),
			feedback:      pgrepo.NewFeedbackRepository(pool),
			requests:      pgrepo.NewFeedbackRequestRepository(pool),
			notifications: pgrepo.NewNotificationRepository(pool),
			tx:            pg.NewTransactionManager(pool),
			health:        pool.Ping,
			close:         pool.Close,
		}, nil
	}
}
