package cli

import (
	"github.com/ppiankov/numinfo/internal/lookup"
	"github.com/ppiankov/numinfo/internal/model"
	"github.com/ppiankov/numinfo/internal/notify"
	"github.com/ppiankov/numinfo/internal/pipeline"
	"github.com/ppiankov/numinfo/internal/worker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// session is the per-command runtime: merged config, logger and service
type session struct {
	cfg     *model.Config
	logger  *zap.Logger
	client  lookup.Client
	service *pipeline.Service
}

// newSession loads the config, applies the flags shared by lookup commands
// and tune, then builds the logger
func newSession(cmd *cobra.Command, tune func(*model.Config)) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if f := cmd.Flags().Lookup("offline"); f != nil && f.Changed {
		cfg.Offline.Enabled = offline
	}
	if f := cmd.Flags().Lookup("no-cache"); f != nil && f.Changed {
		cfg.Cache.Enabled = !noCache
	}
	if tune != nil {
		tune(cfg)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, logger: logger}, nil
}

// start builds the lookup client and service reporting to notifier
func (s *session) start(notifier notify.Notifier, opts ...worker.Option) error {
	client, err := pipeline.NewClient(s.cfg, notifier, s.logger)
	if err != nil {
		return err
	}
	s.client = client
	s.service = pipeline.NewService(s.cfg, client, notifier, s.logger, opts...)
	return nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}
