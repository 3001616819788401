// Package audit periodically replays every account's transaction log and
// reports entries whose recorded balance does not match the replayed one.
// Divergence usually means a client committed a balance without its
// transaction (or the reverse) after a mid-flight failure.
package audit

import (
	"fmt"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/dedovbet/backend/internal/models"
	"github.com/dedovbet/backend/internal/store"
)

type Auditor struct {
	store *store.UserStore
	cron  *cron.Cron
}

func New(st *store.UserStore) *Auditor {
	return &Auditor{
		store: st,
		cron:  cron.New(),
	}
}

// Start schedules Run with a standard 5-field cron expression.
func (a *Auditor) Start(schedule string) error {
	if _, err := a.cron.AddFunc(schedule, a.Run); err != nil {
		return fmt.Errorf("scheduling ledger audit: %w", err)
	}
	a.cron.Start()
	log.Printf("[AUDIT] Ledger audit scheduled: %s", schedule)
	return nil
}

func (a *Auditor) Stop() {
	a.cron.Stop()
}

// Run replays every account once and logs mismatches.
func (a *Auditor) Run() {
	accounts, err := a.store.All()
	if err != nil {
		log.Printf("[AUDIT] Failed to load accounts: %v", err)
		return
	}

	clean := 0
	for i := range accounts {
		if err := ReplayLog(&accounts[i]); err != nil {
			log.Printf("[AUDIT] Ledger divergence for %s: %v", accounts[i].Username, err)
			continue
		}
		clean++
	}
	log.Printf("[AUDIT] Ledger audit complete: %d/%d accounts consistent", clean, len(accounts))
}

// ReplayLog replays the account's transactions chronologically from the
// starting balance and checks that every entry's recorded balance matches.
// The log is stored most recent first, so replay walks it backwards.
func ReplayLog(account *models.Account) error {
	running := models.StartingBalance
	for i := len(account.Transactions) - 1; i >= 0; i-- {
		tx := account.Transactions[i]
		running = running.Add(tx.Amount)
		if !running.Equal(tx.BalanceAfter) {
			return fmt.Errorf("%s transaction at %s: replayed balance %s, recorded %s",
				tx.Type, tx.Timestamp.Format("2006-01-02T15:04:05Z07:00"), running, tx.BalanceAfter)
		}
	}
	if running.IsNegative() {
		return fmt.Errorf("replayed balance went negative: %s", running)
	}
	return nil
}
