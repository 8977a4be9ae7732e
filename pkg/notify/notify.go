// Package notify shows desktop notifications for dashboard events.
package notify

import (
	"fmt"

	"github.com/clockheat/clockheat/internal/event_bus"
	"github.com/clockheat/clockheat/internal/utils"
	"github.com/gen2brain/beeep"
	log "github.com/sirupsen/logrus"
)

const appName = "Clockheat"

type AlertFunc func(title, message string) error

func DesktopAlert(title, message string) error {
	return beeep.Alert(title, message, "")
}

type Notifier struct {
	alert AlertFunc
}

func NewNotifier(alert AlertFunc) *Notifier {
	beeep.AppName = appName
	return &Notifier{alert: alert}
}

// Register subscribes the notifier to goal achievements.
func (n *Notifier) Register(bus *event_bus.EventBus) (unsubscribe func()) {
	return event_bus.SubscribeTyped[event_bus.GoalAchieved](bus, event_bus.GoalAchievedType, n.goalAchieved)
}

func (n *Notifier) goalAchieved(e event_bus.EventT[event_bus.GoalAchieved]) error {
	title, message := GoalAchievedMessage(e.Data)
	log.Infof("Goal %s achieved: %.2f of %.2f hours", e.Data.Name, e.Data.TrackedHours, e.Data.TargetHours)
	if err := n.alert(title, message); err != nil {
		// a missing notification daemon must not fail the publisher
		log.Warnf("Failed to show desktop notification: %v", err)
	}
	return nil
}

func GoalAchievedMessage(g event_bus.GoalAchieved) (string, string) {
	title := fmt.Sprintf("Goal reached: %s", g.Name)
	message := fmt.Sprintf("%.2f of %.2f hours tracked between %s and %s.",
		g.TrackedHours, g.TargetHours, utils.DayKey(g.PeriodStart), utils.DayKey(g.PeriodEnd))
	return title, message
}
