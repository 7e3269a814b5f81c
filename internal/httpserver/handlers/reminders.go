package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/aquatrack/internal/domain"
	"github.com/MrSnakeDoc/aquatrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/aquatrack/internal/logger"
	"github.com/MrSnakeDoc/aquatrack/internal/scheduler"
)

type remindersResponse struct {
	Reminders []domain.Reminder `json:"reminders"`
	Count     int               `json:"count"`
	LastCheck *scheduler.Report `json:"lastCheck,omitempty"`
}

// Reminders lists every chore that is overdue or due today.
func Reminders(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reminders := domain.Reminders(d.Store.List(), d.Store.Now())
		if reminders == nil {
			reminders = []domain.Reminder{}
		}

		resp := remindersResponse{Reminders: reminders, Count: len(reminders)}
		if d.Reminders != nil {
			if last := d.Reminders.LastReport(); !last.CheckedAt.IsZero() {
				resp.LastCheck = &last
			}
		}
		writeJSON(w, d, http.StatusOK, resp)
	}
}

// CheckReminders queues a scan. 429 if one is already queued.
func CheckReminders(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case d.CheckNow <- struct{}{}:
			d.Logger.Info("manual reminder check triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, d, http.StatusAccepted, map[string]string{"status": "check triggered"})
		default:
			d.Logger.Warn("reminder check already queued",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, d, http.StatusTooManyRequests, map[string]string{"status": "check already queued, please wait"})
		}
	}
}
