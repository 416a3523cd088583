package cmd

import (
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"sales_messages/internal/config"
	"sales_messages/internal/metrics"
	"sales_messages/internal/sales"
)

type app struct {
	cfg     config.Config
	logger  *zap.Logger
	service *sales.Service
	metrics *metrics.Recorder
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("read --config flag: %w", err)
	}
	cfg, err := config.Load(viper.New(), path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// wireApp builds the service graph. Reports go to reports.
func wireApp(cfg config.Config, reports io.Writer) (*app, error) {
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	rec := metrics.NewRecorder()
	svc := sales.NewService(sales.NewLocalStorage(), logger, sales.SettingsFrom(cfg),
		sales.WithReportWriter(reports),
		sales.WithObserver(rec),
	)

	return &app{
		cfg:     cfg,
		logger:  logger,
		service: svc,
		metrics: rec,
	}, nil
}

func newLogger(c config.LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", c.Level, err)
	}
	zc.Level = level
	return zc.Build()
}

// httpBaseURL turns a listen address such as ":8081" into a client URL.
func httpBaseURL(addr string) string {
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return strings.TrimSuffix(addr, "/")
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
