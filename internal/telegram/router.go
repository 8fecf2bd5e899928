package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/svitlo-tech/svitlo-tracker/internal/db"
	"github.com/svitlo-tech/svitlo-tracker/internal/model"
	"github.com/svitlo-tech/svitlo-tracker/internal/timeutil"
	"github.com/svitlo-tech/svitlo-tracker/internal/yasno"
)

const defaultNotifyBefore = 30

// notifyPresets are the lead-time choices offered in /settings, minutes.
var notifyPresets = []int{15, 30, 60, 120}

// defaultQueues is the fallback list when the provider is unreachable.
var defaultQueues = []string{"1.1", "1.2", "2.1", "2.2", "3.1", "3.2", "4.1", "4.2", "5.1", "5.2", "6.1", "6.2"}

// ScheduleService is the read surface the bot needs. *yasno.Client
// implements it.
type ScheduleService interface {
	ResolveQueue(ctx context.Context, operatorCode, queueNumber string) (*model.QueueSchedule, bool, error)
	AvailableQueues(ctx context.Context, operatorCode string) ([]string, error)
}

// session is the per-chat conversational state: the current selection.
// It is in-memory only; the durable facts live in the subscription row.
type session struct {
	userID       int
	operatorCode string
	queueNumber  string
	notifyBefore int
}

// Router wires Telegram updates to handlers. Updates for the same chat can
// arrive on concurrent goroutines (Telegram fans webhook deliveries out over
// parallel connections), so session state is only touched under mu.
type Router struct {
	bot         *Bot
	store       db.Store
	schedules   ScheduleService
	regions     []yasno.Region
	regionNames map[string]string
	persistence bool
	loc         *time.Location

	mu       sync.Mutex
	sessions map[int64]*session
}

func NewRouter(bot *Bot, store db.Store, schedules ScheduleService, regions []yasno.Region, persistence bool, loc *time.Location) *Router {
	return &Router{
		bot:         bot,
		store:       store,
		schedules:   schedules,
		regions:     regions,
		regionNames: yasno.RegionNames(regions),
		persistence: persistence,
		loc:         loc,
		sessions:    make(map[int64]*session),
	}
}

// sessionSnapshot returns a copy of the chat's session for lock-free reads.
func (r *Router) sessionSnapshot(chatID int64) session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.sessionLocked(chatID)
}

// updateSession runs fn on the chat's session while holding the lock.
func (r *Router) updateSession(chatID int64, fn func(*session)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.sessionLocked(chatID))
}

func (r *Router) sessionLocked(chatID int64) *session {
	s, ok := r.sessions[chatID]
	if !ok {
		s = &session{notifyBefore: defaultNotifyBefore}
		r.sessions[chatID] = s
	}
	return s
}

// HandleUpdate routes a single update. Called from the webhook endpoint or
// the polling loop.
func (r *Router) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message != nil && update.Message.Text != "" {
		r.handleCommand(ctx, update.Message)
		return
	}
	if update.CallbackQuery != nil {
		r.handleCallback(ctx, update.CallbackQuery)
	}
}

func (r *Router) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch {
	case strings.HasPrefix(text, "/start"):
		r.handleStart(chatID, msg.From)
	case strings.HasPrefix(text, "/help"):
		r.bot.send(chatID, helpText)
	case strings.HasPrefix(text, "/region"):
		r.handleRegion(chatID)
	case strings.HasPrefix(text, "/queue"):
		r.handleQueue(ctx, chatID)
	case strings.HasPrefix(text, "/schedule"):
		r.handleSchedule(ctx, chatID, false)
	case strings.HasPrefix(text, "/tomorrow"):
		r.handleSchedule(ctx, chatID, true)
	case strings.HasPrefix(text, "/status"):
		r.handleStatus(ctx, chatID)
	case strings.HasPrefix(text, "/subscribe"):
		r.handleSubscribe(chatID, msg.From)
	case strings.HasPrefix(text, "/unsubscribe"):
		r.handleUnsubscribe(chatID, msg.From)
	case strings.HasPrefix(text, "/settings"):
		r.handleSettings(chatID)
	}
}

func (r *Router) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	data := cb.Data
	r.bot.answerCallback(cb.ID)

	switch {
	case strings.HasPrefix(data, "region:"):
		r.selectRegion(chatID, strings.TrimPrefix(data, "region:"))
	case strings.HasPrefix(data, "queue:"):
		r.selectQueue(chatID, strings.TrimPrefix(data, "queue:"))
	case strings.HasPrefix(data, "notify:"):
		r.selectNotify(chatID, cb.From, strings.TrimPrefix(data, "notify:"))
	}
}

func (r *Router) handleStart(chatID int64, from *tgbotapi.User) {
	if r.persistence && from != nil {
		user, err := r.store.GetOrCreateUser(strconv.FormatInt(from.ID, 10),
			optional(from.UserName), optional(from.FirstName), optional(from.LastName), from.LanguageCode)
		if err == nil && user != nil {
			subs, subErr := r.store.ListUserSubscriptions(user.ID)
			r.updateSession(chatID, func(s *session) {
				s.userID = user.ID
				// Seed the selection from an existing subscription.
				if subErr == nil && len(subs) > 0 {
					s.operatorCode = subs[0].OperatorCode
					s.queueNumber = subs[0].QueueNumber
					s.notifyBefore = subs[0].NotifyBefore
				}
			})
		}
	}

	dbStatus := textPersistenceOff
	if r.persistence {
		dbStatus = textPersistenceOn
	}
	r.bot.send(chatID, fmt.Sprintf(welcomeText, dbStatus))
}

func (r *Router) handleRegion(chatID int64) {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(r.regions))
	for _, region := range r.regions {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(region.Region, "region:"+region.Code),
		))
	}
	r.bot.sendWithKeyboard(chatID, textChooseRegion, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (r *Router) handleQueue(ctx context.Context, chatID int64) {
	s := r.sessionSnapshot(chatID)
	if s.operatorCode == "" {
		r.bot.send(chatID, textNeedRegion)
		return
	}

	queues, err := r.schedules.AvailableQueues(ctx, s.operatorCode)
	if err != nil || len(queues) == 0 {
		queues = defaultQueues
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(queues); i += 4 {
		end := i + 4
		if end > len(queues) {
			end = len(queues)
		}
		row := make([]tgbotapi.InlineKeyboardButton, 0, 4)
		for _, q := range queues[i:end] {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(q, "queue:"+q))
		}
		rows = append(rows, row)
	}
	r.bot.sendWithKeyboard(chatID, textChooseQueue, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (r *Router) handleSchedule(ctx context.Context, chatID int64, tomorrow bool) {
	s := r.sessionSnapshot(chatID)
	if s.operatorCode == "" || s.queueNumber == "" {
		r.bot.send(chatID, textNeedRegionQueue)
		return
	}

	schedule, noOutages, err := r.schedules.ResolveQueue(ctx, s.operatorCode, s.queueNumber)
	if err != nil {
		log.Error().Err(err).Msg("schedule lookup failed")
		r.bot.send(chatID, textScheduleError)
		return
	}
	if schedule == nil {
		r.bot.send(chatID, textScheduleNotFound)
		return
	}

	day := schedule.Today
	title := "Графік на сьогодні"
	if tomorrow {
		day = schedule.Tomorrow
		title = "Графік на завтра"
	}

	text := formatDaySchedule(title, day)
	if noOutages {
		text += "\n\n" + textNoOutagesAnywhere
	}
	r.bot.send(chatID, text)
}

func (r *Router) handleStatus(ctx context.Context, chatID int64) {
	s := r.sessionSnapshot(chatID)
	if s.operatorCode == "" || s.queueNumber == "" {
		r.bot.send(chatID, textNeedRegionQueue)
		return
	}

	schedule, _, err := r.schedules.ResolveQueue(ctx, s.operatorCode, s.queueNumber)
	if err != nil || schedule == nil {
		r.bot.send(chatID, textScheduleError)
		return
	}

	// Outage times are provider wall clock, so "now" has to be too.
	now := time.Now().In(r.loc)
	r.bot.send(chatID, formatStatus(s.queueNumber, r.regionNames[s.operatorCode], schedule.Today, timeutil.MinutesOfDay(now)))
}

func (r *Router) handleSubscribe(chatID int64, from *tgbotapi.User) {
	s := r.sessionSnapshot(chatID)
	if s.operatorCode == "" || s.queueNumber == "" {
		r.bot.send(chatID, textNeedRegionQueue)
		return
	}
	if !r.persistence {
		r.bot.send(chatID, textNoPersistence)
		return
	}
	if from == nil {
		r.bot.send(chatID, textUserDataError)
		return
	}

	user, err := r.store.GetOrCreateUser(strconv.FormatInt(from.ID, 10),
		optional(from.UserName), optional(from.FirstName), optional(from.LastName), from.LanguageCode)
	if err != nil || user == nil {
		r.bot.send(chatID, textSaveError)
		return
	}
	r.updateSession(chatID, func(st *session) { st.userID = user.ID })

	sub, err := r.store.CreateOrUpdateSubscription(user.ID, s.operatorCode, s.queueNumber, s.notifyBefore)
	if err != nil || sub == nil {
		r.bot.send(chatID, textSubscribeError)
		return
	}

	r.bot.send(chatID, fmt.Sprintf(`✅ *Підписку оформлено!*

🔢 Черга: %s (%s)
⏱ Сповіщення за %s до відключення

Змінити час сповіщення: /settings`,
		s.queueNumber, r.regionNames[s.operatorCode], timeutil.FormatDurationUK(sub.NotifyBefore)))
}

func (r *Router) handleUnsubscribe(chatID int64, from *tgbotapi.User) {
	if !r.persistence {
		r.bot.send(chatID, textNoPersistence)
		return
	}
	if from == nil {
		r.bot.send(chatID, textUserDataError)
		return
	}

	user, err := r.store.GetUserByTelegramID(strconv.FormatInt(from.ID, 10))
	if err != nil || user == nil {
		r.bot.send(chatID, textNoSubscriptions)
		return
	}

	subs, err := r.store.ListUserSubscriptions(user.ID)
	if err != nil || len(subs) == 0 {
		r.bot.send(chatID, textNoSubscriptions)
		return
	}
	for _, sub := range subs {
		if err := r.store.DeactivateSubscription(sub.ID); err != nil {
			log.Error().Err(err).Int("subscription_id", sub.ID).Msg("failed to deactivate subscription")
		}
	}
	r.bot.send(chatID, textUnsubscribed)
}

func (r *Router) handleSettings(chatID int64) {
	s := r.sessionSnapshot(chatID)

	subscribed := false
	if r.persistence && s.userID != 0 {
		if subs, err := r.store.ListUserSubscriptions(s.userID); err == nil {
			subscribed = len(subs) > 0
		}
	}

	row := make([]tgbotapi.InlineKeyboardButton, 0, len(notifyPresets))
	for _, preset := range notifyPresets {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			timeutil.FormatDurationUK(preset), "notify:"+strconv.Itoa(preset)))
	}
	text := formatSettings(r.regionNames[s.operatorCode], s.queueNumber, s.notifyBefore, subscribed)
	text += "\n\n" + textChooseNotify
	r.bot.sendWithKeyboard(chatID, text, tgbotapi.NewInlineKeyboardMarkup(row))
}

func (r *Router) selectRegion(chatID int64, code string) {
	if _, ok := r.regionNames[code]; !ok {
		return
	}
	r.updateSession(chatID, func(s *session) {
		s.operatorCode = code
		s.queueNumber = ""
	})
	r.bot.send(chatID, fmt.Sprintf("🌍 Регіон обрано: *%s*\n\nТепер оберіть чергу: /queue", r.regionNames[code]))
}

func (r *Router) selectQueue(chatID int64, queue string) {
	selected := false
	r.updateSession(chatID, func(s *session) {
		if s.operatorCode == "" {
			return
		}
		s.queueNumber = queue
		selected = true
	})
	if !selected {
		r.bot.send(chatID, textNeedRegion)
		return
	}
	r.bot.send(chatID, fmt.Sprintf("🔢 Черга обрана: *%s*\n\nГрафік: /schedule\nСповіщення: /subscribe", queue))
}

func (r *Router) selectNotify(chatID int64, from *tgbotapi.User, raw string) {
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return
	}
	var s session
	r.updateSession(chatID, func(st *session) {
		st.notifyBefore = minutes
		s = *st
	})

	// Persist the new lead time when an active subscription exists.
	if r.persistence && from != nil && s.operatorCode != "" && s.queueNumber != "" {
		if user, err := r.store.GetUserByTelegramID(strconv.FormatInt(from.ID, 10)); err == nil && user != nil {
			if subs, err := r.store.ListUserSubscriptions(user.ID); err == nil && len(subs) > 0 {
				if _, err := r.store.CreateOrUpdateSubscription(user.ID, s.operatorCode, s.queueNumber, minutes); err != nil {
					log.Error().Err(err).Msg("failed to update subscription lead time")
				}
			}
		}
	}
	r.bot.send(chatID, fmt.Sprintf("⏱ Сповіщення надходитимуть за *%s* до відключення", timeutil.FormatDurationUK(minutes)))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
