package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agakshita/voxhire/internal/config"
	"github.com/agakshita/voxhire/internal/engine"
	"github.com/agakshita/voxhire/internal/evaluate"
	"github.com/agakshita/voxhire/internal/followup"
	"github.com/agakshita/voxhire/internal/history"
	"github.com/agakshita/voxhire/internal/interview"
	"github.com/agakshita/voxhire/internal/logger"
	"github.com/agakshita/voxhire/internal/notify"
	"github.com/agakshita/voxhire/internal/question"
	"github.com/agakshita/voxhire/internal/server"
	"github.com/agakshita/voxhire/internal/speech"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the interview server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		log, err := logger.New(cfg.LogJSON, cfg.Debug)
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		defer log.Sync()

		bank, err := question.LoadBank(cfg.QuestionBankPath)
		if err != nil {
			return err
		}
		source, err := bank.Source(cfg.QuestionSet)
		if err != nil {
			return err
		}

		audioDir, err := speech.NewDir(cfg.AudioDir)
		if err != nil {
			return err
		}
		speechClient := speech.NewClient(
			cfg.SpeechBaseURL, cfg.GroqAPIKey,
			cfg.STTModel, cfg.TTSModel, cfg.TTSVoice,
			audioDir,
		)

		archive, err := history.Open(cfg.DatabasePath, log)
		if err != nil {
			return err
		}
		defer archive.Close()
		bus := history.NewBus()

		fileSink, err := server.NewFileSink(cfg.ReportsDir)
		if err != nil {
			return err
		}
		sinks := []engine.ReportSink{archive, fileSink}
		if cfg.SlackEnabled() {
			sinks = append(sinks, notify.NewSlack(cfg.SlackBotToken, cfg.SlackChannel))
			log.Info("Slack notifier enabled", zap.String("channel", cfg.SlackChannel))
		}
		if cfg.TelegramEnabled() {
			tg, err := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
			if err != nil {
				log.Warn("Telegram notifier disabled", zap.Error(err))
			} else {
				sinks = append(sinks, tg)
				log.Info("Telegram notifier enabled", zap.Int64("chat_id", cfg.TelegramChatID))
			}
		}

		var generator engine.FollowupGenerator
		switch cfg.FollowupProvider {
		case "gemini":
			gem, err := followup.NewGemini(cmd.Context(), cfg.GeminiAPIKey, cfg.GeminiModel)
			if err != nil {
				return fmt.Errorf("creating Gemini client: %w", err)
			}
			generator = gem
		default:
			generator = followup.NewChat(cfg.ChatBaseURL, cfg.GroqAPIKey, cfg.ChatModel)
		}

		store := interview.NewStore()
		eng := engine.New(engine.Config{
			Store:            store,
			Questions:        source,
			Speech:           speechClient,
			Evaluator:        evaluate.New(cfg.EmbeddingsBaseURL, cfg.OpenAIAPIKey, cfg.EmbeddingModel),
			Followup:         generator,
			IntroPrompt:      cfg.IntroPrompt,
			ConclusionPrompt: cfg.ConclusionPrompt,
			Sinks:            sinks,
			Recorder:         history.NewFanout(archive, bus),
			Logger:           log,
		})

		srv := server.New(cfg, server.Deps{
			Store:       store,
			Engine:      eng,
			Transcriber: speechClient,
			Audio:       audioDir,
			Archive:     archive,
			Bus:         bus,
			Logger:      log,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return srv.Start(ctx)
	},
}
