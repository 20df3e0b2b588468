package presentation

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/sglre6355/notion-dday/internal/domain"
	"github.com/sglre6355/notion-dday/internal/usecase"
)

const (
	scheduleCommandName        = "일정"
	scheduleCommandDescription = "오늘의 노션 일정을 보여줍니다"
	defaultCommandPrefix       = "!"
)

// ScheduleNotifier is the timed check started once the gateway is ready.
type ScheduleNotifier interface {
	Start() bool
	Shutdown()
}

// ReadinessReporter receives gateway connectivity changes.
type ReadinessReporter interface {
	SetReady(ready bool)
}

// DDayBot wires Discord events to application use cases.
type DDayBot struct {
	session   *discordgo.Session
	notifier  ScheduleNotifier
	schedule  usecase.TodaySchedule
	prefix    string
	readiness ReadinessReporter
	recorder  usecase.DeliveryRecorder
	nowFn     func() time.Time
}

// DDayBotOption configures optional bot behaviour.
type DDayBotOption func(*DDayBot)

// WithCommandPrefix sets the prefix for text commands.
func WithCommandPrefix(prefix string) DDayBotOption {
	return func(b *DDayBot) {
		if prefix != "" {
			b.prefix = prefix
		}
	}
}

// WithReadinessReporter forwards ready and disconnect events to reporter.
func WithReadinessReporter(reporter ReadinessReporter) DDayBotOption {
	return func(b *DDayBot) {
		if reporter != nil {
			b.readiness = reporter
		}
	}
}

// WithCommandDeliveryRecorder logs entries listed in command replies.
func WithCommandDeliveryRecorder(recorder usecase.DeliveryRecorder) DDayBotOption {
	return func(b *DDayBot) {
		if recorder != nil {
			b.recorder = recorder
		}
	}
}

// NewDDayBot constructs a bot instance with all supporting services wired up.
func NewDDayBot(
	session *discordgo.Session,
	notifier ScheduleNotifier,
	schedule usecase.TodaySchedule,
	opts ...DDayBotOption,
) (*DDayBot, error) {
	if session == nil {
		return nil, fmt.Errorf("discord session cannot be nil")
	}
	if notifier == nil {
		return nil, fmt.Errorf("schedule notifier cannot be nil")
	}
	if schedule == nil {
		return nil, fmt.Errorf("schedule use case cannot be nil")
	}

	bot := &DDayBot{
		session:  session,
		notifier: notifier,
		schedule: schedule,
		prefix:   defaultCommandPrefix,
		nowFn:    time.Now,
	}

	for _, opt := range opts {
		opt(bot)
	}

	session.AddHandler(bot.onReady)
	session.AddHandler(bot.onDisconnect)
	session.AddHandler(bot.onMessageCreate)
	session.AddHandler(bot.onInteractionCreate)

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	return bot, nil
}

// Start establishes the connection to Discord.
func (b *DDayBot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	log.Println("D-Day bot is running!")
	return nil
}

// Stop halts the timed check and closes the gateway connection.
func (b *DDayBot) Stop() {
	if b.notifier != nil {
		b.notifier.Shutdown()
	}

	if b.readiness != nil {
		b.readiness.SetReady(false)
	}

	if b.session != nil {
		if err := b.session.Close(); err != nil {
			log.Printf("Error closing Discord session: %v", err)
		}
	}
}

func (b *DDayBot) onReady(s *discordgo.Session, event *discordgo.Ready) {
	if event != nil && event.User != nil {
		log.Printf("Logged in as: %v#%v", event.User.Username, event.User.Discriminator)
	}

	if b.readiness != nil {
		b.readiness.SetReady(true)
	}

	if b.notifier.Start() {
		log.Println("D-Day check started")
	}
}

func (b *DDayBot) onDisconnect(s *discordgo.Session, event *discordgo.Disconnect) {
	if b.readiness != nil {
		b.readiness.SetReady(false)
	}
}

func (b *DDayBot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !b.isScheduleCommand(m.Content) {
		return
	}

	b.runScheduleCommand(context.Background(), m.ChannelID, func(content string) error {
		_, err := s.ChannelMessageSend(m.ChannelID, content)
		return err
	})
}

func (b *DDayBot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if i.ApplicationCommandData().Name != scheduleCommandName {
		return
	}

	b.runScheduleCommand(context.Background(), i.ChannelID, interactionReplier(s, i))
}

// interactionReplier answers the interaction with the first message and follows up with the rest.
func interactionReplier(s *discordgo.Session, i *discordgo.InteractionCreate) func(string) error {
	responded := false
	return func(content string) error {
		if !responded {
			responded = true
			return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseChannelMessageWithSource,
				Data: &discordgo.InteractionResponseData{Content: content},
			})
		}

		_, err := s.FollowupMessageCreate(i.Interaction, true, &discordgo.WebhookParams{
			Content: content,
		})
		return err
	}
}

// isScheduleCommand matches "<prefix>일정", ignoring any trailing arguments.
func (b *DDayBot) isScheduleCommand(content string) bool {
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return false
	}
	return fields[0] == b.prefix+scheduleCommandName
}

func (b *DDayBot) runScheduleCommand(ctx context.Context, channelID string, reply func(string) error) {
	if err := reply(usecase.LoadingMessage); err != nil {
		log.Printf("Error acknowledging schedule command in channel %s: %v", channelID, err)
		return
	}

	entries, err := b.schedule.TodaysEntries(ctx)
	if err != nil {
		log.Printf("Failed to load schedule for channel %s: %v", channelID, err)
		if err := reply(usecase.FormatCommandFailure(err)); err != nil {
			log.Printf("Error sending schedule failure to channel %s: %v", channelID, err)
		}
		return
	}

	if err := reply(usecase.FormatTodaySchedule(entries)); err != nil {
		log.Printf("Error sending schedule to channel %s: %v", channelID, err)
		return
	}

	b.recordCommandDeliveries(ctx, channelID, entries)
}

func (b *DDayBot) recordCommandDeliveries(ctx context.Context, channelID string, entries []domain.Entry) {
	if b.recorder == nil {
		return
	}

	sentAt := b.nowFn()
	for _, entry := range entries {
		delivery := domain.Delivery{
			ChannelID: channelID,
			Title:     entry.Title,
			Kind:      domain.DeliveryKindCommand,
			SentAt:    sentAt,
		}
		if entry.Date != nil {
			delivery.EntryDate = *entry.Date
		}

		if err := b.recorder.RecordDelivery(ctx, delivery); err != nil {
			log.Printf("Failed to record command delivery for channel %s: %v", channelID, err)
		}
	}
}

// RegisterCommands recreates the slash command mirroring the text command.
func (b *DDayBot) RegisterCommands() error {
	existingCommands, err := b.session.ApplicationCommands(b.session.State.User.ID, "")
	if err != nil {
		log.Printf("Error getting existing commands: %v", err)
	} else {
		for _, cmd := range existingCommands {
			if err := b.session.ApplicationCommandDelete(b.session.State.User.ID, "", cmd.ID); err != nil {
				log.Printf("Error deleting command %s: %v", cmd.Name, err)
			}
		}
	}

	cmd := &discordgo.ApplicationCommand{
		Name:        scheduleCommandName,
		Description: scheduleCommandDescription,
	}
	if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd); err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.Name, err)
	}

	return nil
}
