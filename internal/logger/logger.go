package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New creates the API logger: colored console output in development and
// JSON in production, both on stdout.
func New(env string) (*zap.Logger, error) {
	return build(newConfig(env), zap.Fields(zap.String("service", "honey-api")))
}

// NewCLI creates a console logger for honeyctl. Debug output is enabled
// when verbose is set.
func NewCLI(verbose bool) (*zap.Logger, error) {
	cfg := newConfig("development")
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.CallerKey = zapcore.OmitKey
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return build(cfg)
}

func newConfig(env string) zap.Config {
	var cfg zap.Config

	if env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "json"
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	// Always log to stdout for container compatibility
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg
}

func build(cfg zap.Config, opts ...zap.Option) (*zap.Logger, error) {
	opts = append([]zap.Option{zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)}, opts...)
	return cfg.Build(opts...)
}
