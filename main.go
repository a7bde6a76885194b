package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"paradox-go/cogs"
	"paradox-go/games/baccarat"
	"paradox-go/games/blackjack"
	"paradox-go/games/craps"
	"paradox-go/games/poker"
	"paradox-go/games/roulette"
	"paradox-go/games/slots"
	"paradox-go/utils"

	"github.com/bwmarrin/discordgo"
)

var log = utils.GetLogger("main")

type commandHandler func(*discordgo.Session, *discordgo.InteractionCreate)

var commandHandlers = map[string]commandHandler{
	"slots":        slots.HandleSlotsCommand,
	"roulette":     roulette.HandleRouletteCommand,
	"poker":        poker.HandlePokerCommand,
	"blackjack":    blackjack.HandleBlackjackCommand,
	"craps":        craps.HandleCrapsCommand,
	"baccarat":     baccarat.HandleBaccaratCommand,
	"daily":        cogs.HandleDailyCommand,
	"balance":      cogs.HandleBalanceCommand,
	"profile":      cogs.HandleProfileCommand,
	"top":          cogs.HandleTopCommand,
	"give":         cogs.HandleGiveCommand,
	"missions":     cogs.HandleMissionsCommand,
	"shop":         cogs.HandleShopCommand,
	"buy":          cogs.HandleBuyCommand,
	"loan":         cogs.HandleLoanCommand,
	"repay":        cogs.HandleRepayCommand,
	"craft":        cogs.HandleCraftCommand,
	"lottery":      cogs.HandleLotteryCommand,
	"jackpot":      cogs.HandleJackpotCommand,
	"trade":        cogs.HandleTradeCommand,
	"tradeview":    cogs.HandleTradeViewCommand,
	"tradeaccept":  cogs.HandleTradeAcceptCommand,
	"tradedecline": cogs.HandleTradeDeclineCommand,
}

func main() {
	cfg, err := utils.LoadConfig("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if err := utils.SetupDatabase(cfg.DatabaseURL); err != nil {
		log.Warn().Err(err).Msg("database setup failed, continuing without persistence")
	} else {
		defer utils.CloseDatabase()
	}

	utils.MinBet = cfg.MinBet
	utils.MaxBet = cfg.MaxBet

	utils.InitializeCache(10 * time.Minute)
	defer utils.CloseCache()

	utils.Games.StartCleanup()
	defer utils.Games.StopCleanup()

	if err := utils.InitializeLottery(); err != nil {
		log.Error().Err(err).Msg("failed to initialize lottery")
	}

	session, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create discord session")
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	session.AddHandler(onReady)
	session.AddHandler(onInteractionCreate)

	if err := session.Open(); err != nil {
		log.Fatal().Err(err).Msg("failed to open discord connection")
	}
	defer session.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go runBackgroundTasks(ctx, session, cfg.AnnouncementChannel)
	go startHealthServer(cfg.Port)

	log.Info().Msg("bot is running, press CTRL+C to exit")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
}

func onReady(s *discordgo.Session, event *discordgo.Ready) {
	log.Info().
		Str("username", event.User.Username).
		Str("id", event.User.ID).
		Msg("logged in")

	if err := s.UpdateGameStatus(0, "at the Paradox Casino"); err != nil {
		log.Warn().Err(err).Msg("failed to set presence")
	}

	if err := registerSlashCommands(s); err != nil {
		log.Error().Err(err).Msg("failed to register slash commands")
	}
}

func registerSlashCommands(s *discordgo.Session) error {
	commands := []*discordgo.ApplicationCommand{
		slots.RegisterSlotsCommand(),
		roulette.RegisterRouletteCommand(),
		poker.RegisterPokerCommand(),
		blackjack.RegisterBlackjackCommand(),
		craps.RegisterCrapsCommand(),
		baccarat.RegisterBaccaratCommand(),
	}
	commands = append(commands, cogs.RegisterEconomyCommands()...)
	commands = append(commands, cogs.RegisterShopCommands()...)
	commands = append(commands, cogs.RegisterTradingCommands()...)

	for _, command := range commands {
		if _, err := s.ApplicationCommandCreate(s.State.User.ID, "", command); err != nil {
			return fmt.Errorf("failed to create command %s: %w", command.Name, err)
		}
	}

	log.Info().Int("count", len(commands)).Msg("slash commands registered")
	return nil
}

func onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if handler, ok := commandHandlers[i.ApplicationCommandData().Name]; ok {
			handler(s, i)
		}
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		if strings.HasPrefix(customID, "blackjack_") {
			blackjack.HandleBlackjackInteraction(s, i)
		}
	}
}

var announcements = []string{
	"🎰 Feeling lucky? The slots are hot right now!",
	"🎟️ Lottery tickets are 50 chips. Tonight could be your night.",
	"🃏 Five-card poker pays 250x on a royal flush.",
	"💰 Don't forget your /daily reward. Streaks double up at 7 days!",
	"🎲 Craps table is open. Pass or don't pass, shooter's choice.",
}

// runBackgroundTasks drives the hourly lottery draw, periodic casino
// announcements, and the daily and weekly mission resets.
func runBackgroundTasks(ctx context.Context, s *discordgo.Session, announceChannel string) {
	lotteryTicker := time.NewTicker(time.Hour)
	defer lotteryTicker.Stop()
	announceTicker := time.NewTicker(4 * time.Hour)
	defer announceTicker.Stop()
	resetTicker := time.NewTicker(time.Minute)
	defer resetTicker.Stop()

	announceIdx := 0

	lastDailyReset := time.Now().UTC().YearDay()
	_, lastWeeklyReset := time.Now().UTC().ISOWeek()

	for {
		select {
		case <-ctx.Done():
			return
		case <-lotteryTicker.C:
			winnerID, amount, won, err := utils.Lottery.Draw()
			if err != nil {
				log.Error().Err(err).Msg("lottery draw failed")
				continue
			}
			if won && announceChannel != "" {
				embed := utils.CreateBrandedEmbed("🎉 Lottery Winner!",
					fmt.Sprintf("<@%d> won the jackpot of %s %s!",
						winnerID, utils.FormatChips(amount), utils.ChipsEmoji), 0xFFD700)
				if _, err := s.ChannelMessageSendEmbed(announceChannel, embed); err != nil {
					log.Warn().Err(err).Msg("failed to announce lottery winner")
				}
			}
		case <-announceTicker.C:
			if announceChannel == "" {
				continue
			}
			embed := utils.CreateBrandedEmbed("🎰 Paradox Casino", announcements[announceIdx], 0x9B59B6)
			announceIdx = (announceIdx + 1) % len(announcements)
			if _, err := s.ChannelMessageSendEmbed(announceChannel, embed); err != nil {
				log.Warn().Err(err).Msg("failed to send casino announcement")
			}
		case <-resetTicker.C:
			now := time.Now().UTC()
			if now.YearDay() != lastDailyReset {
				lastDailyReset = now.YearDay()
				if err := utils.ResetAllMissions("daily"); err != nil {
					log.Error().Err(err).Msg("daily mission reset failed")
				} else {
					log.Info().Msg("daily missions reset")
				}
			}
			if _, week := now.ISOWeek(); week != lastWeeklyReset {
				lastWeeklyReset = week
				if err := utils.ResetAllMissions("weekly"); err != nil {
					log.Error().Err(err).Msg("weekly mission reset failed")
				} else {
					log.Info().Msg("weekly missions reset")
				}
			}
		}
	}
}

func startHealthServer(port string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Paradox Casino Bot"))
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"paradox-casino-bot"}`))
	})

	log.Info().Str("port", port).Msg("health server starting")
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Error().Err(err).Msg("health server stopped")
	}
}
