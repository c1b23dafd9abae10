package repository

import (
	"time"

	"github.com/Omjadhav321/bhaskar-solar-platform/internal/domain"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/infra/observability"
	"github.com/Omjadhav321/bhaskar-solar-platform/internal/store"
)

// SettingsRepo owns the settings singleton.
type SettingsRepo struct {
	sing    *store.Singleton[domain.Settings]
	metrics *observability.Metrics
}

// Get returns the settings, defaulting when nothing was persisted.
func (r *SettingsRepo) Get() domain.Settings {
	s, ok := r.sing.Get()
	if !ok {
		return domain.DefaultSettings()
	}
	return s
}

// Update merges the non-nil patch fields onto the settings.
func (r *SettingsRepo) Update(patch domain.SettingsPatch) domain.Settings {
	defer observe(r.metrics, "settings.update", time.Now())
	s := r.Get()
	if patch.Theme != nil {
		s.Theme = *patch.Theme
	}
	r.sing.Set(s)
	return s
}

// SetTheme switches the UI theme.
func (r *SettingsRepo) SetTheme(theme domain.Theme) domain.Settings {
	return r.Update(domain.SettingsPatch{Theme: &theme})
}

// CalcHistoryRepo owns the calculator history collection, capped to the
// most recent entries.
type CalcHistoryRepo struct {
	col     *store.Collection[domain.CalcEntry]
	now     func() time.Time
	metrics *observability.Metrics
}

// historyCap bounds the persisted calculator history.
const historyCap = 50

// Append stores one calculator run, trimming the oldest entries beyond
// the cap.
func (r *CalcHistoryRepo) Append(entry domain.CalcEntry) domain.CalcEntry {
	defer observe(r.metrics, "calc_history.append", time.Now())
	entry.ID = NewID()
	entry.CreatedAt = r.now()
	r.col.Update(func(entries []domain.CalcEntry) []domain.CalcEntry {
		entries = append(entries, entry)
		if len(entries) > historyCap {
			entries = entries[len(entries)-historyCap:]
		}
		return entries
	})
	return entry
}

// Recent returns up to n entries, newest last.
func (r *CalcHistoryRepo) Recent(n int) []domain.CalcEntry {
	all := r.col.All()
	if n <= 0 || n >= len(all) {
		return all
	}
	return all[len(all)-n:]
}
