package seed

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/aquatrack/internal/logger"
	"github.com/MrSnakeDoc/aquatrack/internal/store"
)

// Importer loads the seed file into an empty store.
type Importer struct {
	loader *Loader
	mapper *Mapper
	store  *store.Store
	log    logger.Logger
}

func NewImporter(loader *Loader, mapper *Mapper, st *store.Store, log logger.Logger) *Importer {
	return &Importer{
		loader: loader,
		mapper: mapper,
		store:  st,
		log:    log,
	}
}

// Run imports every entry when the store holds no records and returns how many
// were added. A non-empty store is left alone, and so is a store that is only
// empty because its persisted payload was unreadable.
func (i *Importer) Run(ctx context.Context) (int, error) {
	if i.store.DroppedCorrupt() {
		i.log.Warn("persisted aquariums are unreadable, skipping seed import so they are not overwritten",
			logger.String("file", i.loader.filePath),
			logger.String("backend", i.store.Backend().Name()))
		return 0, nil
	}
	if n := i.store.Count(); n > 0 {
		i.log.Debug("store not empty, skipping seed import", logger.Int("records", n))
		return 0, nil
	}

	file, err := i.loader.Load()
	if err != nil {
		return 0, err
	}

	records, err := i.mapper.MapAquariums(ctx, file)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, a := range records {
		if _, err := i.store.Add(ctx, a); err != nil {
			return added, fmt.Errorf("failed to import %q: %w", a.Name, err)
		}
		added++
	}

	i.log.Info("seed file imported",
		logger.String("file", i.loader.filePath),
		logger.Int("records", added),
	)
	return added, nil
}
