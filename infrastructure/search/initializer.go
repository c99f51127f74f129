package search

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Initializer recreates the indexes of a service on startup.
type Initializer struct {
	client        *ClientWrapper
	initOnStartUp bool
	logger        *zap.Logger
}

// NewInitializer creates an initializer. Nothing happens unless initOnStartUp.
func NewInitializer(client *ClientWrapper, initOnStartUp bool, logger *zap.Logger) *Initializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Initializer{client: client, initOnStartUp: initOnStartUp, logger: logger}
}

// InitIndexes drops and recreates every index in mappings and then runs
// initFn to fill them. Failures are logged.
func (i *Initializer) InitIndexes(ctx context.Context, initFn func(context.Context) error, mappings map[string]TypeMapping) {
	if !i.initOnStartUp {
		i.logger.Info("Index initialization is disabled on startup. Set OPENSEARCH_INIT_ON_STARTUP=true to reindex")
		return
	}

	indexes := make([]string, 0, len(mappings))
	for index := range mappings {
		indexes = append(indexes, index)
	}
	sort.Strings(indexes)
	i.logger.Info("Init indexes", zap.String("indexes", strings.Join(indexes, ", ")))

	for _, index := range indexes {
		if err := i.client.CleanIndexes(ctx, index); err != nil {
			i.logger.Error("Index initialization failed", zap.String("index", index), zap.Error(err))
			return
		}
		i.logger.Info("Removed index", zap.String("index", index))

		i.client.CreateIndex(ctx, index, mappings[index])
	}

	if initFn == nil {
		return
	}
	if err := initFn(ctx); err != nil {
		i.logger.Error("Index initialization failed", zap.Error(err))
	}
}
