package history

import (
	"fmt"

	"go.uber.org/zap"
)

// Archive is the record-level view over a Store: it encodes and decodes
// entries and skips stored games it can no longer read.
type Archive struct {
	store Store
	log   *zap.Logger
}

func NewArchive(store Store, log *zap.Logger) *Archive {
	if log == nil {
		log = zap.NewNop()
	}
	return &Archive{store: store, log: log}
}

// Save stores a finished game.
func (a *Archive) Save(r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	e, err := r.Entry()
	if err != nil {
		return err
	}
	if err := a.store.Add(e); err != nil {
		return err
	}
	a.log.Info("game saved",
		zap.String("game_id", r.ID),
		zap.String("result", r.Result.String()),
		zap.Int("moves", len(r.Moves)),
	)
	return nil
}

// List returns all readable records, most recently played first.
func (a *Archive) List() ([]Record, error) {
	entries, err := a.store.All()
	if err != nil {
		return nil, fmt.Errorf("could not load game history: %w", err)
	}
	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		r, err := e.Record()
		if err != nil {
			a.log.Warn("skipping unreadable game", zap.String("game_id", e.ID), zap.Error(err))
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

// Recent returns at most n of the latest records.
func (a *Archive) Recent(n int) ([]Record, error) {
	records, err := a.List()
	if err != nil {
		return nil, err
	}
	if len(records) > n {
		records = records[:n]
	}
	return records, nil
}

func (a *Archive) Get(id string) (Record, error) {
	e, err := a.store.Get(id)
	if err != nil {
		return Record{}, err
	}
	return e.Record()
}

func (a *Archive) Delete(id string) error {
	if err := a.store.Delete(id); err != nil {
		return err
	}
	a.log.Info("game deleted", zap.String("game_id", id))
	return nil
}

// Standings tallies every readable record.
func (a *Archive) Standings() ([]Standing, error) {
	records, err := a.List()
	if err != nil {
		return nil, err
	}
	return Standings(records), nil
}

// Import saves records that are not stored yet and returns how many were added.
func (a *Archive) Import(records []Record) (int, error) {
	added := 0
	for _, r := range records {
		if _, err := a.store.Get(r.ID); err == nil {
			a.log.Info("game already stored", zap.String("game_id", r.ID))
			continue
		}
		if err := a.Save(r); err != nil {
			return added, fmt.Errorf("import %s: %w", r.ID, err)
		}
		added++
	}
	return added, nil
}
