package telegram

import (
	"fmt"
	"strings"

	"github.com/svitlo-tech/svitlo-tracker/internal/model"
	"github.com/svitlo-tech/svitlo-tracker/internal/timeutil"
)

const welcomeText = `👋 *Вітаю у Svitlo Tracker Bot!*

Я допоможу відстежувати графіки відключень електроенергії та надсилати сповіщення перед відключеннями.

*Доступні команди:*
/region - Обрати регіон (Київ/Дніпро)
/queue - Обрати чергу відключень
/schedule - Переглянути графік на сьогодні
/tomorrow - Переглянути графік на завтра
/status - Поточний статус (є світло чи ні)
/subscribe - Підписатися на сповіщення
/unsubscribe - Відписатися від сповіщень
/settings - Налаштування
/help - Показати цю довідку

%s

Почніть з вибору регіону: /region`

const helpText = `*Svitlo Tracker Bot - Довідка*

/region - Обрати регіон
/queue - Обрати чергу (1.1-6.2)
/schedule - Графік на сьогодні
/tomorrow - Графік на завтра
/status - Поточний статус
/subscribe - Підписатися на сповіщення
/unsubscribe - Відписатися від сповіщень
/settings - Налаштування

*Як користуватися:*
1. Оберіть регіон командою /region
2. Оберіть вашу чергу командою /queue
3. Підпишіться на сповіщення /subscribe
4. Перегляньте графік командою /schedule

Бот надсилатиме сповіщення перед відключенням!`

const (
	textChooseRegion      = "Оберіть ваш регіон:"
	textChooseQueue       = "Оберіть вашу чергу:"
	textChooseNotify      = "За скільки хвилин до відключення сповіщати?"
	textNeedRegion        = "Спочатку оберіть регіон командою /region"
	textNeedRegionQueue   = "Спочатку оберіть регіон (/region) та чергу (/queue)"
	textNoPersistence     = "❌ Сповіщення недоступні. База даних не підключена."
	textUserDataError     = "❌ Помилка: не вдалося отримати дані користувача"
	textSaveError         = "❌ Помилка збереження даних. Спробуйте пізніше."
	textSubscribeError    = "❌ Помилка створення підписки. Спробуйте пізніше."
	textScheduleError     = "❌ Не вдалося отримати графік. Спробуйте пізніше."
	textScheduleNotFound  = "❌ Графік для цієї черги не знайдено."
	textNoSubscriptions   = "У вас немає активних підписок."
	textUnsubscribed      = "🔕 Підписку скасовано. Сповіщення більше не надходитимуть."
	textPersistenceOn     = "✅ Сповіщення увімкнено"
	textPersistenceOff    = "⚠️ Сповіщення недоступні (БД не підключена)"
	textNoOutagesAnywhere = "✨ Гарні новини — відключення не заплановані у жодному регіоні!"
)

// formatDaySchedule renders one day honoring status precedence: emergency
// and waiting states override whatever the outage list says.
func formatDaySchedule(title string, day model.DaySchedule) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s* (%s)\n\n", title, day.Date)

	switch day.Status {
	case model.EmergencyShutdowns:
		b.WriteString("🚨 *Діють аварійні відключення!*\nПланові графіки не застосовуються.")
		return b.String()
	case model.WaitingForSchedule:
		b.WriteString("⏳ Графік на цей день ще не опубліковано.")
		return b.String()
	}

	if len(day.Outages) == 0 {
		b.WriteString("✨ Відключень не заплановано!")
		return b.String()
	}

	b.WriteString("Планові відключення:\n")
	for _, outage := range day.Outages {
		fmt.Fprintf(&b, "🔴 %s – %s\n", outage.StartTime, outage.EndTime)
	}
	return b.String()
}

// formatStatus renders the live power state for a queue at the given
// minute of day: inside an outage, before the next one, or all clear.
func formatStatus(queueNumber, regionName string, day model.DaySchedule, currentMinutes int) string {
	if day.Status == model.EmergencyShutdowns {
		return fmt.Sprintf("🚨 *Діють аварійні відключення!*\nЧерга %s (%s)\n\nПланові графіки не застосовуються.", queueNumber, regionName)
	}

	var current, next *model.Outage
	for i := range day.Outages {
		outage := &day.Outages[i]
		startMinutes := timeutil.ClockToMinutes(outage.StartTime)
		endMinutes := timeutil.ClockToMinutes(outage.EndTime)
		if currentMinutes >= startMinutes && currentMinutes < endMinutes {
			current = outage
		} else if currentMinutes < startMinutes && next == nil {
			next = outage
		}
	}

	if current != nil {
		minutesUntilPower := timeutil.ClockToMinutes(current.EndTime) - currentMinutes
		return fmt.Sprintf(`🔴 *Зараз світла немає*
Черга %s (%s)

⏱ Світло з'явиться о *%s*
Через %s`, queueNumber, regionName, current.EndTime, timeutil.FormatDurationUK(minutesUntilPower))
	}

	if next != nil {
		minutesUntilOutage := timeutil.ClockToMinutes(next.StartTime) - currentMinutes
		return fmt.Sprintf(`🟢 *Зараз світло є*
Черга %s (%s)

⚠️ Наступне відключення о *%s*
Через %s`, queueNumber, regionName, next.StartTime, timeutil.FormatDurationUK(minutesUntilOutage))
	}

	return fmt.Sprintf(`🟢 *Зараз світло є*
Черга %s (%s)

✨ Більше відключень сьогодні не заплановано!`, queueNumber, regionName)
}

// formatSettings renders the current selection plus subscription state.
func formatSettings(regionName, queueNumber string, notifyBefore int, subscribed bool) string {
	region := regionName
	if region == "" {
		region = "не обрано"
	}
	queue := queueNumber
	if queue == "" {
		queue = "не обрано"
	}
	state := "вимкнені"
	if subscribed {
		state = "увімкнені"
	}
	return fmt.Sprintf(`⚙️ *Налаштування*

🌍 Регіон: %s
🔢 Черга: %s
⏱ Сповіщення за: %s
🔔 Сповіщення: %s`, region, queue, timeutil.FormatDurationUK(notifyBefore), state)
}
