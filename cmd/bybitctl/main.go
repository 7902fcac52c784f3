package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"bybitconn/pkg/bybit"
	"bybitconn/pkg/core"
)

const usageText = `usage: bybitctl [flags] <command> [args]

commands:
  rest <operation> [key=value ...]   call one REST endpoint and print the response
  ops                                list the operations the configured contract type supports
  stream [topic ...]                 stream topics to stdout until interrupted

flags:
`

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	envFile := flag.String("env", ".env", "dotenv file holding "+envAPIKey+" and "+envAPISecret)
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usageText)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Args(), *configPath, *envFile); err != nil {
		fmt.Fprintf(os.Stderr, "bybitctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, configPath, envFile string) error {
	envErr := godotenv.Load(envFile)

	cfg, err := Load(configPath)
	if err != nil {
		return err
	}

	logger, closer := newLogger(cfg.Log)
	defer closer.Close()

	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		logger.Warn().Err(envErr).Str("file", envFile).Msg("could not load env file")
	}
	if creds := credentialsFromEnv(); creds != nil {
		cfg.REST.Credentials = creds
	}
	if creds := cfg.REST.Credentials; creds.Valid() {
		logger.Debug().Str("api_key", maskKey(creds.APIKey)).Msg("credentials loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch args[0] {
	case "rest":
		return runREST(ctx, cfg, logger, args[1:])
	case "ops":
		return runOps(cfg)
	case "stream":
		if len(args) > 1 {
			cfg.Stream.Topics = args[1:]
		}
		return runStream(ctx, cfg, logger)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runREST(ctx context.Context, cfg *Config, logger zerolog.Logger, args []string) error {
	if len(args) == 0 {
		return errors.New("rest needs an operation name, see 'bybitctl ops'")
	}
	op, err := core.ParseOperation(args[0])
	if err != nil {
		return err
	}
	params, err := parseParams(args[1:])
	if err != nil {
		return err
	}

	client, err := bybit.NewHTTP(&cfg.REST, bybit.WithLogger(logger))
	if err != nil {
		return err
	}
	defer client.Close()

	resp, err := client.Call(ctx, op, params)
	if resp != nil {
		out, mErr := sonic.ConfigStd.MarshalIndent(resp, "", "  ")
		if mErr != nil {
			return fmt.Errorf("encode response: %w", mErr)
		}
		fmt.Println(string(out))
	}
	return err
}

func runOps(cfg *Config) error {
	protocol := bybit.NewProtocol(cfg.REST.ContractType)
	for _, op := range core.Operations() {
		ep, ok := protocol.Endpoint(op)
		if !ok {
			continue
		}
		auth := ""
		if ep.Auth {
			auth = " (signed)"
		}
		fmt.Printf("%-36s %-6s %s%s\n", op, ep.Method, ep.Path, auth)
	}
	return nil
}

func runStream(ctx context.Context, cfg *Config, logger zerolog.Logger) error {
	kind := bybit.DetectKind(cfg.Stream.Endpoint)
	subs, err := parseSubscriptions(kind, cfg.Stream.Topics)
	if err != nil {
		return err
	}

	wsConfig := bybit.DefaultWSConfig(cfg.Stream.Endpoint, subs...)
	wsConfig.PingInterval = cfg.Stream.PingInterval
	wsConfig.RestartOnError = cfg.Stream.RestartOnError
	wsConfig.BufferSize = cfg.Stream.BufferSize
	if kind != bybit.KindSpotPublic {
		wsConfig.Credentials = cfg.REST.Credentials
	}

	stream, err := bybit.NewWebSocket(wsConfig, bybit.WithLogger(logger))
	if err != nil {
		return err
	}
	defer stream.Close()

	stream.OnError(func(err error) {
		logger.Error().Err(err).Msg("stream error")
	})
	for _, topic := range stream.Active() {
		stream.Bind(topic, func(m bybit.Message) {
			fmt.Printf("%s %s\n", m.Topic, m.Data)
		})
	}

	if err := stream.Connect(ctx); err != nil {
		return err
	}
	logger.Info().
		Str("endpoint", cfg.Stream.Endpoint).
		Strs("topics", stream.Subscribed()).
		Msg("streaming, press Ctrl+C to stop")

	<-ctx.Done()
	return nil
}
